package fiber

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/ameblo/vouch"
	"github.com/ameblo/vouch/services"
)

type Adapter struct {
	app *fiber.App
}

var _ vouch.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app}
}

func (a *Adapter) RegisterRoutes(v *vouch.Vouch) error {
	api := a.app.Group(v.BasePath)

	// Public auth routes
	auth := api.Group("/auth")
	for _, ep := range services.NewEndpointRegistry().Endpoints() {
		handler, err := handlerFor(ep.Metadata.OperationID, v.Auth)
		if err != nil {
			return err
		}
		auth.Add([]string{ep.Method}, ep.Path, handler)
	}

	// Protected routes: the gate must run before the handler
	api.Get("/user/:id", a.RequireAuth(v.Tokens), handleGetUser(v.Users))

	return nil
}

// handlerFor maps an endpoint operation to its Fiber handler.
func handlerFor(operationID string, auth vouch.AuthProvider) (fiber.Handler, error) {
	switch operationID {
	case "login":
		return handleLogin(auth), nil
	case "signup":
		return handleSignup(auth), nil
	case "socialLogin":
		return handleSocialLogin(auth), nil
	case "verifyOtp":
		return handleVerifyOTP(auth), nil
	case "resendOtp":
		return handleResendOTP(auth), nil
	default:
		return nil, fmt.Errorf("no handler for operation %q", operationID)
	}
}
