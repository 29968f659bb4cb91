package models

import "errors"

// Sentinel errors. Services wrap these so handlers can decide what the caller
// sees without inspecting infrastructure errors.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	// ErrCodeRejected covers both a wrong code and an expired one.
	ErrCodeRejected = errors.New("code rejected")
	ErrDependency   = errors.New("dependency failure")
)
