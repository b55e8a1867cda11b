package errors

import "errors"

var (
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when the email is already registered.
	ErrEmailExists = errors.New("email already exist")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrHashing is returned when password hashing or digest parsing fails.
	ErrHashing = errors.New("error hashing password")
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// Unauthorized builds a 401 body with the given message.
func Unauthorized(message string) ErrorResponse {
	return ErrorResponse{Error: "Unauthorized", Message: message}
}

// Forbidden builds a 403 body with the given message.
func Forbidden(message string) ErrorResponse {
	return ErrorResponse{Error: "Forbidden", Message: message}
}

// NotFound builds a 404 body with the given message.
func NotFound(message string) ErrorResponse {
	return ErrorResponse{Error: "Not Found", Message: message}
}

// ValidationFailed builds a 400 body carrying field-level messages.
func ValidationFailed(details string) ErrorResponse {
	return ErrorResponse{Error: "Validation Failed", Details: details}
}

// Internal is the generic 500 body. Details stay in the server log.
func Internal() ErrorResponse {
	return ErrorResponse{Error: "Internal Server Error"}
}
