package services

import (
	"context"
	"strconv"
	"sync"

	"github.com/ameblo/vouch/core"
)

// FakeUserStorage is a test-only fake implementing core.UserStorage.
// It stores users in maps and exposes error fields for behavior injection.
type FakeUserStorage struct {
	users   map[string]*core.User // key: id
	byEmail map[string]*core.User
	mu      sync.RWMutex
	nextID  int

	createErr error
	getErr    error
}

func NewFakeUserStorage() *FakeUserStorage {
	return &FakeUserStorage{
		users:   make(map[string]*core.User),
		byEmail: make(map[string]*core.User),
	}
}

func (f *FakeUserStorage) CreateUser(ctx context.Context, u *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}

	if _, exists := f.byEmail[u.Email]; exists {
		return core.ErrEmailInUse
	}

	if u.ID == "" {
		f.nextID++
		u.ID = "user-" + strconv.Itoa(f.nextID)
	}
	f.users[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *FakeUserStorage) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, core.ErrUserNotFound
}

func (f *FakeUserStorage) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, core.ErrUserNotFound
}

// Delete is a test helper for simulating a user removed out-of-band.
func (f *FakeUserStorage) Delete(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byEmail[email]; ok {
		delete(f.users, u.ID)
		delete(f.byEmail, email)
	}
}

// Count returns the number of stored users.
func (f *FakeUserStorage) Count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.users)
}

// SetCreateError injects an error for subsequent CreateUser calls.
func (f *FakeUserStorage) SetCreateError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createErr = err
}

// SentOTP records one delivery made through FakeMailer.
type SentOTP struct {
	To      string
	Code    string
	Purpose core.OTPPurpose
}

// FakeMailer is a test-only fake implementing core.Mailer.
// It records every delivery and exposes an error field for injection.
type FakeMailer struct {
	mu      sync.Mutex
	sent    []SentOTP
	sendErr error
}

func NewFakeMailer() *FakeMailer {
	return &FakeMailer{}
}

func (f *FakeMailer) SendOTP(ctx context.Context, to, code string, purpose core.OTPPurpose) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, SentOTP{To: to, Code: code, Purpose: purpose})
	return nil
}

// LastCode returns the most recently delivered code, or "".
func (f *FakeMailer) LastCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].Code
}

// Sent returns a copy of all recorded deliveries.
func (f *FakeMailer) Sent() []SentOTP {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SentOTP, len(f.sent))
	copy(out, f.sent)
	return out
}

// SetSendError injects an error for subsequent SendOTP calls.
func (f *FakeMailer) SetSendError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendErr = err
}
