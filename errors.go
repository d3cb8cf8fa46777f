package server

import "errors"

// Recoverable gameplay failures. Every one of these degrades to a log
// line; none of them aborts the tick loop or leaves partial state behind.
var (
	ErrAlreadyInProgress     = errors.New("process already in progress")
	ErrWrongTool             = errors.New("required tool not equipped")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAlreadyExists         = errors.New("account already exists")
	ErrSlotFull              = errors.New("no free skill slot")
	ErrListingGone           = errors.New("listing no longer available")
	ErrNotEquippable         = errors.New("item cannot be equipped")
	ErrUnknownRecipe         = errors.New("unknown recipe")
	ErrSkillLocked           = errors.New("skill not unlocked")
)
