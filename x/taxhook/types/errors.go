package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Tax hook module error codes scoped by ModuleName. Codes are stable so that
// clients can tell setup conflicts, missing accounts and authorization
// failures apart.
// NOTE: Error code 1 is reserved by cosmos-sdk as internal error / unknown failure
var (
	ErrAlreadyInitialized     = errorsmod.Register(ModuleName, 2, "account already initialized")
	ErrMissingHookAccounts    = errorsmod.Register(ModuleName, 3, "missing or mismatched extra accounts")
	ErrUnauthorizedWithdrawal = errorsmod.Register(ModuleName, 4, "signature verification failed")
	ErrInsufficientFunds      = errorsmod.Register(ModuleName, 5, "insufficient treasury funds")
	ErrArithmeticOverflow     = errorsmod.Register(ModuleName, 6, "arithmetic overflow")
	ErrRegistryNotFound       = errorsmod.Register(ModuleName, 7, "extra account meta list not found")
	ErrTreasuryNotFound       = errorsmod.Register(ModuleName, 8, "treasury not found")
	ErrInvalidAccount         = errorsmod.Register(ModuleName, 9, "invalid account")
	ErrInvalidInstruction     = errorsmod.Register(ModuleName, 10, "invalid instruction")
	ErrDirectInvocation       = errorsmod.Register(ModuleName, 11, "transfer hook invoked outside of a transfer")
	ErrUnauthorizedUpdate     = errorsmod.Register(ModuleName, 12, "only the mint authority may update the extra account meta list")
	ErrInvalidAmount          = errorsmod.Register(ModuleName, 13, "amount must be positive")
	ErrInvalidExtraAccount    = errorsmod.Register(ModuleName, 14, "invalid extra account meta")
	ErrMintNotHooked          = errorsmod.Register(ModuleName, 15, "mint transfer hook is not this program")
	ErrMissingSignature       = errorsmod.Register(ModuleName, 16, "missing required signature")
	ErrInvalidFeeRate         = errorsmod.Register(ModuleName, 17, "invalid fee rate")
)
