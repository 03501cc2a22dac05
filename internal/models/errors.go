package models

import (
	"errors"
)

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrDuplicatePhone     = errors.New("models: duplicate phone number")
	ErrUserNotFound       = errors.New("models: user not found")
	ErrForbidden          = errors.New("models: forbidden")

	ErrValidation          = errors.New("models: validation failed")
	ErrInvalidDate         = errors.New("models: invalid start date")
	ErrInvalidStatus       = errors.New("models: invalid status transition")
	ErrAlreadyApplied      = errors.New("models: artisan already applied to request")
	ErrRequestNotFound     = errors.New("models: service request not found")
	ErrTaskNotFound        = errors.New("models: service task not found")
	ErrApplicationNotFound = errors.New("models: service application not found")
)
