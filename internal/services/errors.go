package services

import "errors"

var (
	// ErrActiveTokenExists: a client may only hold one unused, unexpired
	// access code at a time.
	ErrActiveTokenExists = errors.New("client already has an active access code")

	// ErrInvalidCode: no unused token matches the submitted code.
	ErrInvalidCode = errors.New("invalid access code")

	// ErrExpiredCode: the token exists but its expiry has passed. The row
	// stays unused; expiry is a read-time check.
	ErrExpiredCode = errors.New("expired access code")

	// ErrTokenUsed: the token was already retired by a finalization.
	ErrTokenUsed = errors.New("access code already used")

	// ErrUpload: the document store rejected the PDF write.
	ErrUpload = errors.New("document upload failed")
)
