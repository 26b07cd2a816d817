package errors

import (
	"cosmossdk.io/errors"
)

const AppErrorsCodespace = "app"

// transaction runtime errors
var (
	ErrSignatureVerification = errors.Register(AppErrorsCodespace, 2, "signature verification failed")
	ErrUnknownProgram        = errors.Register(AppErrorsCodespace, 3, "unknown program")
	ErrAlreadyProcessed      = errors.Register(AppErrorsCodespace, 4, "transaction already processed")
	ErrInvalidTransaction    = errors.Register(AppErrorsCodespace, 5, "invalid transaction")
)
