package builder

import "errors"

var (
	ErrUnknownStep     = errors.New("unknown step")
	ErrInvalidOption   = errors.New("option does not belong to step")
	ErrUnknownExtra    = errors.New("unknown combo extra")
	ErrIncompleteStep  = errors.New("current step has no selection")
	ErrWizardComplete  = errors.New("burger already complete")
	ErrIndexOutOfRange = errors.New("cart index out of range")
)
