package backend

import "errors"

var (
	ErrInvalidHandle   = errors.New("backend: invalid handle")
	ErrQueueFull       = errors.New("backend: command queue full")
	ErrCycle           = errors.New("backend: edit would create a cycle")
	ErrClosed          = errors.New("backend: closed")
	ErrNotOpen         = errors.New("backend: not open")
	ErrUnknownOp       = errors.New("backend: unknown op")
	ErrKindMismatch    = errors.New("backend: handle has a different kind")
	ErrGlobalBus       = errors.New("backend: operation not allowed on the global effect bus")
	ErrMasterMixer     = errors.New("backend: operation not allowed on the master mixer")
	ErrHandleExhausted = errors.New("backend: no handles left")
	ErrNotLoaded       = errors.New("backend: bank is not loaded")
	ErrOutOfRange      = errors.New("backend: value out of range")
)
