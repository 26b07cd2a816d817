package types

import "github.com/gagliardetto/solana-go"

const (
	// ModuleName is the name of the token module.
	ModuleName = "token"

	// StoreKey is the store key for the token module.
	StoreKey = ModuleName
)

var (
	MintKeyPrefix    = []byte{0x01}
	HoldingKeyPrefix = []byte{0x02}
)

// Program ids the token module executes instructions for. Mints record which
// of the two owns them; only Token-2022 mints may carry a transfer hook.
var (
	SystemProgramID    = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")
	TokenProgramID     = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	Token2022ProgramID = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
)

// IsTokenProgram reports whether programID is one of the token programs.
func IsTokenProgram(programID solana.PublicKey) bool {
	return programID.Equals(TokenProgramID) || programID.Equals(Token2022ProgramID)
}

// MintKey returns the store key of a mint.
func MintKey(addr solana.PublicKey) []byte {
	return append(append([]byte{}, MintKeyPrefix...), addr.Bytes()...)
}

// HoldingKey returns the store key of a holding.
func HoldingKey(addr solana.PublicKey) []byte {
	return append(append([]byte{}, HoldingKeyPrefix...), addr.Bytes()...)
}
