package services

import (
	"fmt"

	"github.com/ameblo/vouch/core"
)

// BaseEndpoints returns framework-agnostic endpoint specifications for the
// authentication endpoints, relative to the auth group.
//
// Handlers are provided by adapters, keyed by OperationID. This allows
// multiple adapters to share the same endpoint definitions while providing
// their own framework-specific handlers.
func BaseEndpoints() []core.Endpoint {
	return []core.Endpoint{
		{
			Path:   "/login",
			Method: "POST",
			Metadata: core.EndpointMetadata{
				OperationID: "login",
				Description: "Check credentials and issue a login OTP challenge",
			},
		},
		{
			Path:   "/signup",
			Method: "POST",
			Metadata: core.EndpointMetadata{
				OperationID: "signup",
				Description: "Validate signup input and issue a signup OTP challenge",
			},
		},
		{
			Path:   "/social-login",
			Method: "POST",
			Metadata: core.EndpointMetadata{
				OperationID: "socialLogin",
				Description: "Issue a session token for a federated identity, creating the user if needed",
			},
		},
		{
			Path:   "/verify-otp",
			Method: "POST",
			Metadata: core.EndpointMetadata{
				OperationID: "verifyOtp",
				Description: "Consume the pending challenge and issue a session token",
			},
		},
		{
			Path:   "/resend-otp",
			Method: "POST",
			Metadata: core.EndpointMetadata{
				OperationID: "resendOtp",
				Description: "Issue a fresh OTP challenge for an existing user",
			},
		},
	}
}

// EndpointRegistry manages a collection of framework-agnostic endpoints and
// handles conflict detection for duplicate METHOD:PATH combinations.
type EndpointRegistry struct {
	// endpoints stores all registered endpoints keyed by "METHOD:PATH"
	endpoints map[string]*core.Endpoint
	order     []string
}

// NewEndpointRegistry creates a new registry with all base authentication
// endpoints pre-registered.
func NewEndpointRegistry() *EndpointRegistry {
	reg := &EndpointRegistry{
		endpoints: make(map[string]*core.Endpoint),
	}

	base := BaseEndpoints()
	for i := range base {
		// Base endpoints never conflict with each other
		_ = reg.Register(&base[i])
	}

	return reg
}

// Register adds a single endpoint to the registry with conflict detection.
// Returns error if an endpoint with the same METHOD:PATH already exists.
func (r *EndpointRegistry) Register(ep *core.Endpoint) error {
	key := fmt.Sprintf("%s:%s", ep.Method, ep.Path)

	if _, exists := r.endpoints[key]; exists {
		return fmt.Errorf("endpoint conflict: %s %s already registered", ep.Method, ep.Path)
	}

	r.endpoints[key] = ep
	r.order = append(r.order, key)
	return nil
}

// Endpoints returns all registered endpoints in registration order.
func (r *EndpointRegistry) Endpoints() []*core.Endpoint {
	result := make([]*core.Endpoint, 0, len(r.order))
	for _, key := range r.order {
		result = append(result, r.endpoints[key])
	}
	return result
}
