package service

import "errors"

var (
	// ErrPromptNotFound means no prompt matches the access key (and id, when given).
	ErrPromptNotFound = errors.New("prompt not found")
	// ErrNoExercise means the prompt has no predefined exercise yet.
	ErrNoExercise = errors.New("no exercise for prompt")
	// ErrMissingFields means a required field was empty after trimming.
	ErrMissingFields = errors.New("required fields are missing")
	// ErrAccessKeyExhausted means every issued key collided with an existing one.
	ErrAccessKeyExhausted = errors.New("could not issue a unique access key")
)
