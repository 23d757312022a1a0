package portal

import "time"

// Portal response statuses
const (
	StatusSuccess = "success"
	StatusExists  = "exists"
	StatusError   = "error"
)

// Portal messages shown by the website
const (
	MsgUserExists           = "User already exists. Please log in."
	MsgRegistrationSuccess  = "Registration successful."
	MsgRegistrationFailed   = "Registration failed: "
	MsgLoginSuccess         = "Login successful."
	MsgLoginFailed          = "Login failed. Check credentials."
	RedirectLogin           = "login"
	RedirectAfterLogin      = "/all-products"
	MsgLogoutSuccess        = "Logged out."
	MsgSessionRefreshFailed = "Session expired. Please log in again."
)

// RegisterRequest is the website sign-up form
type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email,max=200"`
	Password     string `json:"password" binding:"required,min=8,max=128"`
	FirstName    string `json:"first_name" binding:"max=100"`
	LastName     string `json:"last_name" binding:"max=100"`
	Phone        string `json:"phone" binding:"max=40"`
	CompanyName  string `json:"company_name" binding:"max=140"`
	AddressLine1 string `json:"address_line1" binding:"max=240"`
	AddressLine2 string `json:"address_line2" binding:"max=240"`
	City         string `json:"city" binding:"max=140"`
	PostalCode   string `json:"postal_code" binding:"max=20"`
	Country      string `json:"country" binding:"max=140"`
}

// LoginRequest is the website login form
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Session is the token pair handed to a logged-in user
type Session struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// PortalResponse is the status payload returned by every portal call
type PortalResponse struct {
	Status   string   `json:"status"`
	Message  string   `json:"message"`
	Redirect string   `json:"redirect,omitempty"`
	Email    string   `json:"email,omitempty"`
	Customer string   `json:"customer,omitempty"`
	Session  *Session `json:"session,omitempty"`
}

// IsSuccess reports whether the call succeeded
func (r *PortalResponse) IsSuccess() bool {
	return r.Status == StatusSuccess
}

func errorResponse(message string) *PortalResponse {
	return &PortalResponse{Status: StatusError, Message: message}
}
