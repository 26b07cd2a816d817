package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Token module error codes scoped by ModuleName.
// NOTE: Error code 1 is reserved by cosmos-sdk as internal error / unknown failure
var (
	ErrMintExists               = errorsmod.Register(ModuleName, 2, "mint already exists")
	ErrMintNotFound             = errorsmod.Register(ModuleName, 3, "mint not found")
	ErrHoldingExists            = errorsmod.Register(ModuleName, 4, "holding already exists")
	ErrHoldingNotFound          = errorsmod.Register(ModuleName, 5, "holding not found")
	ErrInsufficientFunds        = errorsmod.Register(ModuleName, 6, "insufficient funds")
	ErrOwnerMismatch            = errorsmod.Register(ModuleName, 7, "owner does not match")
	ErrMintMismatch             = errorsmod.Register(ModuleName, 8, "account not associated with this mint")
	ErrDecimalsMismatch         = errorsmod.Register(ModuleName, 9, "mint decimals mismatch")
	ErrMissingRequiredSignature = errorsmod.Register(ModuleName, 10, "missing required signature")
	ErrOverflow                 = errorsmod.Register(ModuleName, 11, "operation overflowed")
	ErrHookNotRegistered        = errorsmod.Register(ModuleName, 12, "transfer hook program not registered")
	ErrHookBypass               = errorsmod.Register(ModuleName, 13, "mint requires a checked transfer through its hook")
	ErrReentrantTransfer        = errorsmod.Register(ModuleName, 14, "re-entrant transfer of a hooked mint")
	ErrInvalidInstruction       = errorsmod.Register(ModuleName, 15, "invalid instruction")
	ErrHookNotSupported         = errorsmod.Register(ModuleName, 16, "transfer hooks require the token-2022 program")
	ErrInvalidProgramSigner     = errorsmod.Register(ModuleName, 17, "invalid program signer seeds")
	ErrInvalidAccount           = errorsmod.Register(ModuleName, 18, "invalid account")
	// ErrIncorrectAccount matches the 0x40 custom error a token-2022 client
	// observes when a hooked transfer lacks the accounts its hook needs.
	ErrIncorrectAccount = errorsmod.Register(ModuleName, 64, "incorrect account provided")
)
