package types

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Treasury binds the custodial holding of a fee mint to the only account
// allowed to withdraw from it. The holding lives at the same derived address
// and is owned by that address, so only this program can sign for it.
type Treasury struct {
	FeeMint   solana.PublicKey
	Authority solana.PublicKey
	Bump      uint8
}

// Marshal encodes the treasury for storage.
func (t Treasury) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(&t)
}

// UnmarshalTreasury decodes a stored treasury.
func UnmarshalTreasury(bz []byte) (Treasury, error) {
	var t Treasury
	if err := bin.UnmarshalBorsh(&t, bz); err != nil {
		return Treasury{}, err
	}
	return t, nil
}

// TreasuryInfo is the queryable view of a treasury.
type TreasuryInfo struct {
	Address   solana.PublicKey `json:"address"`
	FeeMint   solana.PublicKey `json:"fee_mint"`
	Authority solana.PublicKey `json:"authority"`
	Bump      uint8            `json:"bump"`
	Balance   uint64           `json:"balance"`
}
