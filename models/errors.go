package models

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidPolicy     = errors.New("invalid policy")
	ErrInvalidUsage      = errors.New("invalid usage")
	ErrEmptyReason       = errors.New("reason must not be empty")
	ErrAlreadyPending    = errors.New("unblock request already pending")
	ErrNotPending        = errors.New("unblock request is not pending")
	ErrNotRestricted     = errors.New("child is not restricted")
	ErrAlreadyMonitoring = errors.New("child is already monitored")
	ErrAlreadyLinked     = errors.New("child is linked to another parent")
	ErrStoreUnavailable  = errors.New("store unavailable")
)
