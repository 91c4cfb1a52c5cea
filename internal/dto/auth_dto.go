package dto

// Data Transfer Objects for the signup and token endpoints

// SignUpRequest: payload claiming a username/email pair
type SignUpRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email,max=254"`
}

// SignUpResponse echoes the accepted identity; the confirmation code only
// ever travels by email.
type SignUpResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest: payload exchanging a confirmation code for an access token
type TokenRequest struct {
	Username         string `json:"username" binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// TokenResponse: response payload carrying the signed access token
type TokenResponse struct {
	Token string `json:"token"`
}
