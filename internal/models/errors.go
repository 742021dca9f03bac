package models

import "errors"

// Причины отказа при разрешении пути и построении ответа.
var (
	ErrMalformed = errors.New("malformed request")
	ErrNotFound  = errors.New("file not found")
	ErrForbidden = errors.New("forbidden")
	ErrIO        = errors.New("filesystem io error")
)
