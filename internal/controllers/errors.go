package controllers

import "errors"

// Ошибки выдаваемые наружу.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrInternal       = errors.New("internal error")
	ErrBadRequest     = errors.New("bad request")
)
