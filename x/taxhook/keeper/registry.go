package keeper

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"github.com/celestiaorg/taxhook/pkg/pda"
	"github.com/celestiaorg/taxhook/x/taxhook/types"
	tokentypes "github.com/celestiaorg/taxhook/x/token/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
)

// InitializeExtraAccountMetaList installs the default registry of mint at
// registry, which must be its derived address. Anyone may pay for it. A second
// call fails with ErrAlreadyInitialized and leaves the registry untouched.
func (k Keeper) InitializeExtraAccountMetaList(
	ctx sdk.Context,
	payer, registry, mint solana.PublicKey,
	signers tokentypes.SignerSet,
) (types.ExtraAccountMetaList, error) {
	if !signers.Has(payer) {
		return types.ExtraAccountMetaList{}, errorsmod.Wrapf(types.ErrMissingSignature, "payer %s", payer)
	}
	list, addr, err := types.DefaultExtraAccountMetaList(k.programID, mint)
	if err != nil {
		return types.ExtraAccountMetaList{}, err
	}
	if !addr.Equals(registry) {
		return types.ExtraAccountMetaList{}, errorsmod.Wrapf(types.ErrInvalidAccount, "registry of %s is %s, got %s", mint, addr, registry)
	}
	if err := k.requireHookedMint(ctx, mint); err != nil {
		return types.ExtraAccountMetaList{}, err
	}
	if ctx.KVStore(k.storeKey).Has(types.RegistryKey(addr)) {
		return types.ExtraAccountMetaList{}, errorsmod.Wrapf(types.ErrAlreadyInitialized, "registry %s", addr)
	}
	if err := k.setExtraAccountMetaList(ctx, addr, list); err != nil {
		return types.ExtraAccountMetaList{}, err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeRegistryInitialized,
		sdk.NewAttribute(types.AttributeKeyMint, mint.String()),
		sdk.NewAttribute(types.AttributeKeyRegistry, addr.String()),
		sdk.NewAttribute(types.AttributeKeyPayer, payer.String()),
	))
	k.Logger(ctx).Info("initialized extra account meta list", "mint", mint, "registry", addr)
	return list, nil
}

// UpdateExtraAccountMetaList replaces the metas of an existing registry. Only
// the mint authority may do so.
func (k Keeper) UpdateExtraAccountMetaList(
	ctx sdk.Context,
	authority, registry, mint solana.PublicKey,
	metas []types.ExtraAccountMeta,
	signers tokentypes.SignerSet,
) (types.ExtraAccountMetaList, error) {
	addr, _, err := pda.RegistryAddress(k.programID, mint)
	if err != nil {
		return types.ExtraAccountMetaList{}, err
	}
	if !addr.Equals(registry) {
		return types.ExtraAccountMetaList{}, errorsmod.Wrapf(types.ErrInvalidAccount, "registry of %s is %s, got %s", mint, addr, registry)
	}
	m, err := k.tokenKeeper.GetMint(ctx, mint)
	if err != nil {
		return types.ExtraAccountMetaList{}, err
	}
	if !signers.Has(authority) || !authority.Equals(m.MintAuthority) {
		return types.ExtraAccountMetaList{}, errorsmod.Wrapf(types.ErrUnauthorizedUpdate, "authority %s", authority)
	}
	list, err := k.GetExtraAccountMetaList(ctx, mint)
	if err != nil {
		return types.ExtraAccountMetaList{}, err
	}
	list.Metas = metas
	if err := list.Validate(); err != nil {
		return types.ExtraAccountMetaList{}, err
	}
	if err := k.setExtraAccountMetaList(ctx, addr, list); err != nil {
		return types.ExtraAccountMetaList{}, err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeRegistryUpdated,
		sdk.NewAttribute(types.AttributeKeyMint, mint.String()),
		sdk.NewAttribute(types.AttributeKeyRegistry, addr.String()),
		sdk.NewAttribute(types.AttributeKeyMetas, strconv.Itoa(len(metas))),
	))
	k.Logger(ctx).Info("updated extra account meta list", "mint", mint, "metas", len(metas))
	return list, nil
}

// GetExtraAccountMetaList returns the registry of mint.
func (k Keeper) GetExtraAccountMetaList(ctx sdk.Context, mint solana.PublicKey) (types.ExtraAccountMetaList, error) {
	addr, _, err := pda.RegistryAddress(k.programID, mint)
	if err != nil {
		return types.ExtraAccountMetaList{}, err
	}
	bz := ctx.KVStore(k.storeKey).Get(types.RegistryKey(addr))
	if bz == nil {
		return types.ExtraAccountMetaList{}, errorsmod.Wrapf(types.ErrRegistryNotFound, "mint %s", mint)
	}
	list, err := types.UnmarshalExtraAccountMetaList(bz)
	if err != nil {
		panic(err)
	}
	return list, nil
}

func (k Keeper) setExtraAccountMetaList(ctx sdk.Context, addr solana.PublicKey, list types.ExtraAccountMetaList) error {
	bz, err := list.Marshal()
	if err != nil {
		return err
	}
	ctx.KVStore(k.storeKey).Set(types.RegistryKey(addr), bz)
	return nil
}

func (k Keeper) requireHookedMint(ctx sdk.Context, mint solana.PublicKey) error {
	m, err := k.tokenKeeper.GetMint(ctx, mint)
	if err != nil {
		return err
	}
	if !m.TransferHookProgram.Equals(k.programID) {
		return errorsmod.Wrapf(types.ErrMintNotHooked, "mint %s names hook %s", mint, m.TransferHookProgram)
	}
	return nil
}
