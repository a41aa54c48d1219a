package domain

import (
	"github.com/giangnd99/hotel-management-sub003/internal/errors"
)

// Saga and outbox errors.
var (
	// ErrOutboxMessageNotFound indicates no outbox record matched the lookup.
	ErrOutboxMessageNotFound = errors.Wrap(errors.ErrNotFound, "outbox message not found")

	// ErrOutboxVersionConflict indicates another unit of work advanced the record first.
	ErrOutboxVersionConflict = errors.Wrap(errors.ErrConflict, "outbox message version conflict")

	// ErrInvalidTransition indicates a saga status change outside the state machine.
	ErrInvalidTransition = errors.Wrap(errors.ErrConflict, "invalid saga status transition")

	// ErrStepAlreadyHandled indicates the message is a duplicate or arrived after
	// its saga step concluded. It is not a failure.
	ErrStepAlreadyHandled = errors.New("saga step already handled")

	// ErrInvalidEnvelope indicates an inbound message could not be decoded or validated.
	ErrInvalidEnvelope = errors.Wrap(errors.ErrInvalidInput, "invalid saga envelope")

	// ErrNoRoute indicates no step or handler is registered for the message.
	ErrNoRoute = errors.Wrap(errors.ErrNotFound, "no saga route")
)
