// Package apperr holds sentinel errors mapped to HTTP and MCP responses.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidSource = errors.New("invalid source")
)
