package services

import "errors"

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidToken         = errors.New("invalid token")
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
	ErrMissingSecret        = errors.New("token signing secret is empty")
	ErrEmptyInvoice         = errors.New("invoice has no items")
	ErrInvalidLine          = errors.New("invalid invoice item")
)
