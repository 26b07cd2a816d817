package types

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Holding is a balance of one mint controlled by an owner.
type Holding struct {
	Address solana.PublicKey
	Mint    solana.PublicKey
	Owner   solana.PublicKey
	Amount  uint64
}

// Marshal encodes the holding for storage.
func (h Holding) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(&h)
}

// UnmarshalHolding decodes a stored holding.
func UnmarshalHolding(bz []byte) (Holding, error) {
	var h Holding
	if err := bin.UnmarshalBorsh(&h, bz); err != nil {
		return Holding{}, err
	}
	return h, nil
}
