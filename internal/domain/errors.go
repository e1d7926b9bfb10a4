package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrValidation     = errors.New("validation failed")
	ErrGatewayAuth    = errors.New("gateway authentication failed")
	ErrGatewayRequest = errors.New("gateway request failed")
)
