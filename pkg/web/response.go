// Package web defines common components for a web application.
package web

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Response holds the common response type for all APIs.
type Response struct {
	AccessToken           string    `json:"access_token,omitempty"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at,omitempty"`
	RefreshToken          string    `json:"refresh_token,omitempty"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at,omitempty"`
	Data                  any       `json:"data,omitempty"`
	Error                 string    `json:"error,omitempty"`
}

// Error wraps a given err into a json friendly response.
func Error(err error) Response {
	return Response{Error: err.Error()}
}

// GetErrorMsg returns a readable message for the first failed validation.
func GetErrorMsg(ve validator.ValidationErrors) string {
	field := ve[0]

	switch field.Tag() {
	case "required":
		return field.Field() + " field is required"
	case "email":
		return field.Field() + " field must contain a valid email"
	case "alphanum":
		return field.Field() + " field must be alphanumeric"
	case "min":
		return field.Field() + " field must be at least " + field.Param()
	case "max":
		return field.Field() + " field must be at most " + field.Param()
	case "oneof":
		return field.Field() + " field must be one of: " + field.Param()
	}

	return field.Field() + " field is invalid"
}
