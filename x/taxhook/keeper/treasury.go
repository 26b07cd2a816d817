package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/celestiaorg/taxhook/pkg/pda"
	"github.com/celestiaorg/taxhook/x/taxhook/types"
	tokentypes "github.com/celestiaorg/taxhook/x/token/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
)

// InitializeTreasury creates the treasury of feeMint at treasury, which must
// be its derived address, and binds it to payer as its withdrawal authority.
// The binding is permanent.
func (k Keeper) InitializeTreasury(
	ctx sdk.Context,
	payer, treasury, feeMint, tokenProgram solana.PublicKey,
	signers tokentypes.SignerSet,
) (types.TreasuryInfo, error) {
	if !signers.Has(payer) {
		return types.TreasuryInfo{}, errorsmod.Wrapf(types.ErrMissingSignature, "payer %s", payer)
	}
	addr, bump, err := pda.TreasuryAddress(k.programID, feeMint)
	if err != nil {
		return types.TreasuryInfo{}, err
	}
	if !addr.Equals(treasury) {
		return types.TreasuryInfo{}, errorsmod.Wrapf(types.ErrInvalidAccount, "treasury of %s is %s, got %s", feeMint, addr, treasury)
	}
	m, err := k.tokenKeeper.GetMint(ctx, feeMint)
	if err != nil {
		return types.TreasuryInfo{}, err
	}
	if !m.TokenProgram.Equals(tokenProgram) {
		return types.TreasuryInfo{}, errorsmod.Wrapf(types.ErrInvalidAccount, "fee mint is owned by %s, got %s", m.TokenProgram, tokenProgram)
	}
	if ctx.KVStore(k.storeKey).Has(types.TreasuryKey(addr)) || k.tokenKeeper.HasHolding(ctx, addr) {
		return types.TreasuryInfo{}, errorsmod.Wrapf(types.ErrAlreadyInitialized, "treasury %s", addr)
	}

	// the treasury address owns its own holding so that only this program,
	// signing with the treasury seeds, can move funds out of it
	if _, err := k.tokenKeeper.CreateHolding(ctx, addr, addr, feeMint); err != nil {
		return types.TreasuryInfo{}, err
	}
	record := types.Treasury{
		FeeMint:   feeMint,
		Authority: payer,
		Bump:      bump,
	}
	if err := k.setTreasury(ctx, addr, record); err != nil {
		return types.TreasuryInfo{}, err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeTreasuryInitialized,
		sdk.NewAttribute(types.AttributeKeyFeeMint, feeMint.String()),
		sdk.NewAttribute(types.AttributeKeyTreasury, addr.String()),
		sdk.NewAttribute(types.AttributeKeyAuthority, payer.String()),
	))
	k.Logger(ctx).Info("initialized treasury", "fee_mint", feeMint, "treasury", addr, "authority", payer)
	return types.TreasuryInfo{
		Address:   addr,
		FeeMint:   feeMint,
		Authority: payer,
		Bump:      bump,
	}, nil
}

// GetTreasury returns the treasury of feeMint and its balance.
func (k Keeper) GetTreasury(ctx sdk.Context, feeMint solana.PublicKey) (types.TreasuryInfo, error) {
	addr, _, err := pda.TreasuryAddress(k.programID, feeMint)
	if err != nil {
		return types.TreasuryInfo{}, err
	}
	record, err := k.getTreasury(ctx, addr)
	if err != nil {
		return types.TreasuryInfo{}, err
	}
	holding, err := k.tokenKeeper.GetHolding(ctx, addr)
	if err != nil {
		return types.TreasuryInfo{}, err
	}
	return types.TreasuryInfo{
		Address:   addr,
		FeeMint:   record.FeeMint,
		Authority: record.Authority,
		Bump:      record.Bump,
		Balance:   holding.Amount,
	}, nil
}

func (k Keeper) getTreasury(ctx sdk.Context, addr solana.PublicKey) (types.Treasury, error) {
	bz := ctx.KVStore(k.storeKey).Get(types.TreasuryKey(addr))
	if bz == nil {
		return types.Treasury{}, errorsmod.Wrapf(types.ErrTreasuryNotFound, "treasury %s", addr)
	}
	record, err := types.UnmarshalTreasury(bz)
	if err != nil {
		panic(err)
	}
	return record, nil
}

func (k Keeper) setTreasury(ctx sdk.Context, addr solana.PublicKey, record types.Treasury) error {
	bz, err := record.Marshal()
	if err != nil {
		return err
	}
	ctx.KVStore(k.storeKey).Set(types.TreasuryKey(addr), bz)
	return nil
}
