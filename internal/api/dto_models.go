package api

import "github.com/sevengen/site-backend/internal/core"

// ErrorResponse is the error body of every API response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  []core.FieldError `json:"fields,omitempty"`
}

// SuccessResponse is a message with optional data.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// QuoteSubmittedResponse is returned once a quote request is persisted.
type QuoteSubmittedResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ProfileResponse is the caller's stored profile.
type ProfileResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"isAdmin"`
}

// AdminSessionResponse confirms an active admin session.
type AdminSessionResponse struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Role        string `json:"role"`
}
