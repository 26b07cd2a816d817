package errors

import (
	"errors"
)

// IsAlreadyProcessed checks if the error is due to a replayed transaction.
func IsAlreadyProcessed(err error) bool {
	return errors.Is(err, ErrAlreadyProcessed)
}

// IsAlreadyProcessedCode checks if the codespace and code of a transaction
// result identify a replayed transaction.
func IsAlreadyProcessedCode(codespace string, code uint32) bool {
	return codespace == AppErrorsCodespace && code == ErrAlreadyProcessed.ABCICode()
}

// IsSignatureFailure checks if the error is due to a missing or invalid
// signature, either at the runtime or at the program level.
func IsSignatureFailure(err error) bool {
	return errors.Is(err, ErrSignatureVerification)
}
