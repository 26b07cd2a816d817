package types

import (
	tokentypes "github.com/celestiaorg/taxhook/x/token/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
)

// TokenKeeper is the subset of the token runtime the tax hook uses.
type TokenKeeper interface {
	GetMint(ctx sdk.Context, addr solana.PublicKey) (tokentypes.Mint, error)
	GetHolding(ctx sdk.Context, addr solana.PublicKey) (tokentypes.Holding, error)
	HasHolding(ctx sdk.Context, addr solana.PublicKey) bool
	CreateHolding(ctx sdk.Context, address, owner, mint solana.PublicKey) (tokentypes.Holding, error)
	TransferChecked(ctx sdk.Context, req tokentypes.TransferRequest, signers tokentypes.SignerSet) error
	TransferSigned(ctx sdk.Context, programID solana.PublicKey, seeds [][]byte, req tokentypes.TransferRequest) error
}
