package engine

import "errors"

var (
	ErrCardIndexOutOfRange = errors.New("card index out of range")
	ErrTargetOutOfRange    = errors.New("target index out of range")
	ErrDuplicateCardIndex  = errors.New("card index used twice in one batch")
	ErrUnhandledEffect     = errors.New("card effect has no resolution")
	ErrUnrecognizedIntent  = errors.New("unrecognized enemy intent")
	ErrIntentCountMismatch = errors.New("intent count does not match enemy slots")
)
