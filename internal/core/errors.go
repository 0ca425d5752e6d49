package core

import "errors"

var (
	// ErrNameTaken is returned by Join when the name is already registered.
	ErrNameTaken = errors.New("participant name already taken")

	// ErrNotOnline is returned by Touch when the participant is not registered.
	ErrNotOnline = errors.New("participant not online")

	// ErrMessageNotFound is returned by Delete when no message has the given id.
	ErrMessageNotFound = errors.New("message not found")

	// ErrNotSender is returned by Delete when the requester did not author the message.
	ErrNotSender = errors.New("requester is not the message sender")
)
