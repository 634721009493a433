package core

// LoginInput contains the credentials that initiate a login challenge
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupInput contains the data needed to register a new user
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// VerifyOTPInput contains the code submitted against a pending challenge
type VerifyOTPInput struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// SocialLoginInput carries an identity a federated provider already verified
type SocialLoginInput struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ChallengeResult tells the client a code was sent and what to do next
type ChallengeResult struct {
	Message string `json:"message"`
	Step    string `json:"step,omitempty"`
}

// TokenResult is the successful end of a flow: a signed session token
type TokenResult struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
