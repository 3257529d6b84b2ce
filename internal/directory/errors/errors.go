package errors

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")

	ErrObjectNotFound = errors.New("object not found")

	ErrUnknownOwner = errors.New("object owner does not exist")
)
