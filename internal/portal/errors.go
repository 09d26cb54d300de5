package portal

import "errors"

// Error kinds returned by the portal. Callers match them with errors.Is; the
// returned errors wrap them with the offending ID or name.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateName      = errors.New("name already in use")
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidLength      = errors.New("invalid stage length")
	ErrInvalidLocation    = errors.New("invalid segment location")
	ErrInvalidStageType   = errors.New("invalid stage type")
	ErrInvalidStageState  = errors.New("invalid stage state")
	ErrDuplicateResult    = errors.New("duplicate result")
	ErrInvalidCheckpoints = errors.New("invalid checkpoints")
	ErrIllegalArgument    = errors.New("illegal argument")
	ErrIO                 = errors.New("i/o failure")
)
