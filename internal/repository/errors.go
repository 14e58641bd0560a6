package repository

import "errors"

var (
	// ErrNotFound covers both a missing row and a row owned by another
	// user; callers cannot tell the two apart.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateUsername is returned when the users unique constraint fires.
	ErrDuplicateUsername = errors.New("username already exists")
)
