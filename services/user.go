package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ameblo/vouch/core"
)

// UserService exposes the user read path.
type UserService struct {
	db core.UserStorage
}

// Ensure UserService implements UserProvider
var _ core.UserProvider = (*UserService)(nil)

func NewUserService(db core.UserStorage) *UserService {
	return &UserService{db: db}
}

// GetByID returns the public projection of a user. The id comes straight
// from the path parameter; an id that matches no row (numeric or not) is
// simply a miss, never a fault.
func (s *UserService) GetByID(ctx context.Context, id string) (*core.PublicUser, error) {
	user, err := s.db.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user.Public(), nil
}
