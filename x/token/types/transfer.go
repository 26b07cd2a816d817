package types

import "github.com/gagliardetto/solana-go"

// TransferRequest describes a checked transfer.
type TransferRequest struct {
	Source      solana.PublicKey
	Mint        solana.PublicKey
	Destination solana.PublicKey
	Authority   solana.PublicKey
	Amount      uint64
	Decimals    uint8
	// ExtraAccounts are the accounts supplied after the four base accounts.
	// They must start with the accounts required by the hook of the mint.
	ExtraAccounts solana.AccountMetaSlice
}
