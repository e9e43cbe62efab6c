package gateway

import (
	"errors"
	"fmt"
)

// Backend service names as routed by the gateway.
const (
	ServiceUsers   = "users"
	ServiceCatalog = "catalog"
	ServiceOrders  = "orders"
)

// ErrInvalidBody is returned when a successful response cannot be decoded.
var ErrInvalidBody = errors.New("invalid response body")

// StatusError is a non-2xx answer from the gateway.
type StatusError struct {
	Service    string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s service returned %d: %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s service returned %d", e.Service, e.StatusCode)
}

type messageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
