package domain

import "errors"

// Error taxonomy for the generation pipeline. Anything that goes wrong on the
// remote side of a generation request (transport failure, non-2xx status,
// malformed payload, or a structured failure from the service) collapses into
// ErrGenerationFailed; the caller sees one failure kind and may resubmit.
var (
	ErrEmptyPrompt      = errors.New("prompt is empty")
	ErrQuotaExceeded    = errors.New("daily generation limit reached")
	ErrGenerationFailed = errors.New("generation failed")
	ErrBusy             = errors.New("a generation is already in flight")
)
