package types

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Mint is the record of a fungible token type.
type Mint struct {
	Address       solana.PublicKey
	MintAuthority solana.PublicKey
	Supply        uint64
	Decimals      uint8
	// TokenProgram is the program that owns the mint and its holdings.
	TokenProgram solana.PublicKey
	// TransferHookProgram is zero when the mint has no transfer hook.
	TransferHookProgram solana.PublicKey
}

// HasTransferHook reports whether transfers of the mint invoke a hook program.
func (m Mint) HasTransferHook() bool {
	return !m.TransferHookProgram.IsZero()
}

// Marshal encodes the mint for storage.
func (m Mint) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(&m)
}

// UnmarshalMint decodes a stored mint.
func UnmarshalMint(bz []byte) (Mint, error) {
	var m Mint
	if err := bin.UnmarshalBorsh(&m, bz); err != nil {
		return Mint{}, err
	}
	return m, nil
}
