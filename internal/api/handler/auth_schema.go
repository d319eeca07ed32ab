package handler

import "github.com/propertydesk/crm-api/internal/core/domain"

// messageResponse is the standard envelope for handler-level 4xx responses.
type messageResponse struct {
	Message string `json:"message"`
}

// serverErrorResponse is the 500 envelope: a generic message plus the error
// string. Secrets never travel through error values.
type serverErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Mobile          string `json:"mobile,omitempty"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type registerResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type loginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CallbackURL string `json:"callbackUrl,omitempty"`
}

type loginResponse struct {
	Token       string         `json:"token"`
	User        *domain.Claims `json:"user"`
	RedirectURL string         `json:"redirect_url"`
}

// authErrorResponse carries the machine-readable error code the sign-in
// page resolves into a banner message.
type authErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type sessionResponse struct {
	User *domain.Claims `json:"user"`
}

// updateSessionRequest is the partial claims patch; absent fields stay
// untouched.
type updateSessionRequest struct {
	Name   *string `json:"name,omitempty"`
	Mobile *string `json:"mobile,omitempty"`
}
