package model

import "errors"

// Intent and purchase failures. None of them are fatal: callers drop the
// action and optionally log the reason.
var (
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrInvalidTarget         = errors.New("invalid target")
	ErrNotYourTurn           = errors.New("not your turn")
	ErrUnknownItem           = errors.New("unknown item")
	ErrOutOfZone             = errors.New("position outside placement zone")
	ErrNoPendingPurchase     = errors.New("no pending purchase for item")
	ErrImmobile              = errors.New("entity cannot move")
	ErrGameEnded             = errors.New("game has ended")
)
