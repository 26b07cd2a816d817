package keeper

import (
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/celestiaorg/taxhook/x/taxhook/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
)

// Keeper is the tax hook program. It owns the extra-account-metas registries
// of the mints that name it as their transfer hook and the treasuries that
// collect the fee charged on every transfer of those mints.
type Keeper struct {
	storeKey    storetypes.StoreKey
	tokenKeeper types.TokenKeeper

	programID      solana.PublicKey
	feeMint        solana.PublicKey
	feeBasisPoints uint64
}

// NewKeeper creates a tax hook keeper deployed at programID that charges
// feeBasisPoints of every transfer in feeMint. It panics if the fee rate is
// above 100%.
func NewKeeper(
	storeKey storetypes.StoreKey,
	tokenKeeper types.TokenKeeper,
	programID solana.PublicKey,
	feeMint solana.PublicKey,
	feeBasisPoints uint64,
) Keeper {
	if err := types.ValidateFeeBasisPoints(feeBasisPoints); err != nil {
		panic(fmt.Sprintf("invalid tax hook fee: %v", err))
	}
	return Keeper{
		storeKey:       storeKey,
		tokenKeeper:    tokenKeeper,
		programID:      programID,
		feeMint:        feeMint,
		feeBasisPoints: feeBasisPoints,
	}
}

// Logger returns the logger for the tax hook module.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", "x/"+types.ModuleName)
}

// ProgramID returns the address the hook is deployed at.
func (k Keeper) ProgramID() solana.PublicKey {
	return k.programID
}

// FeeMint returns the mint fees are charged in.
func (k Keeper) FeeMint() solana.PublicKey {
	return k.feeMint
}

// FeeBasisPoints returns the fee rate.
func (k Keeper) FeeBasisPoints() uint64 {
	return k.feeBasisPoints
}

// ComputeFee returns the fee charged on a transfer of amount.
func (k Keeper) ComputeFee(amount uint64) (uint64, error) {
	return types.ComputeFee(amount, k.feeBasisPoints)
}
