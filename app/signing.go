package app

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// BuildTransaction assembles instructions into a transaction paid for by the
// first key and signs it with keys. Every account flagged as a signer by the
// instructions must have its key among keys.
func BuildTransaction(blockhash solana.Hash, keys []solana.PrivateKey, instructions ...solana.Instruction) (*solana.Transaction, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("at least one signing key is required")
	}
	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(keys[0].PublicKey()))
	if err != nil {
		return nil, err
	}
	byKey := make(map[solana.PublicKey]*solana.PrivateKey, len(keys))
	for i := range keys {
		byKey[keys[i].PublicKey()] = &keys[i]
	}
	if _, err := tx.Sign(func(pk solana.PublicKey) *solana.PrivateKey {
		return byKey[pk]
	}); err != nil {
		return nil, err
	}
	return tx, nil
}
