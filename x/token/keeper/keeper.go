package keeper

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/celestiaorg/taxhook/pkg/pda"
	"github.com/celestiaorg/taxhook/x/token/types"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
)

// Keeper is the token runtime: it owns mints and holdings and routes checked
// transfers of hooked mints through their hook program.
type Keeper struct {
	storeKey storetypes.StoreKey
	router   *types.HookRouter
}

// NewKeeper creates a token keeper. Hook programs are registered on the
// returned keeper's router before the first transfer.
func NewKeeper(storeKey storetypes.StoreKey) Keeper {
	return Keeper{
		storeKey: storeKey,
		router:   types.NewHookRouter(),
	}
}

// Logger returns the logger for the token module.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", "x/"+types.ModuleName)
}

// RegisterHook makes hook the implementation of programID.
func (k Keeper) RegisterHook(programID solana.PublicKey, hook types.TransferHook) {
	k.router.RegisterHook(programID, hook)
}

// SealHooks prevents further hook registrations.
func (k Keeper) SealHooks() {
	k.router.Seal()
}

// InitializeMint creates mint under programID. The mint account must sign so
// that nobody can claim an address they do not control.
func (k Keeper) InitializeMint(
	ctx sdk.Context,
	programID, mint, mintAuthority solana.PublicKey,
	decimals uint8,
	hookProgram solana.PublicKey,
	signers types.SignerSet,
) (types.Mint, error) {
	if !types.IsTokenProgram(programID) {
		return types.Mint{}, errorsmod.Wrapf(types.ErrInvalidAccount, "%s is not a token program", programID)
	}
	if !hookProgram.IsZero() && !programID.Equals(types.Token2022ProgramID) {
		return types.Mint{}, types.ErrHookNotSupported
	}
	if !signers.Has(mint) {
		return types.Mint{}, errorsmod.Wrapf(types.ErrMissingRequiredSignature, "mint %s", mint)
	}
	if k.hasMint(ctx, mint) {
		return types.Mint{}, errorsmod.Wrapf(types.ErrMintExists, "mint %s", mint)
	}

	m := types.Mint{
		Address:             mint,
		MintAuthority:       mintAuthority,
		Decimals:            decimals,
		TokenProgram:        programID,
		TransferHookProgram: hookProgram,
	}
	if err := k.setMint(ctx, m); err != nil {
		return types.Mint{}, err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeInitializeMint,
		sdk.NewAttribute(types.AttributeKeyMint, mint.String()),
		sdk.NewAttribute(types.AttributeKeyTokenProgram, programID.String()),
		sdk.NewAttribute(types.AttributeKeyHookProgram, hookProgram.String()),
	))
	k.Logger(ctx).Debug("initialized mint", "mint", mint, "decimals", decimals, "hook", hookProgram)
	return m, nil
}

// CreateHolding creates an empty holding of mint for owner at address. It is
// the primitive behind associated holdings and program-owned vaults.
func (k Keeper) CreateHolding(ctx sdk.Context, address, owner, mint solana.PublicKey) (types.Holding, error) {
	if _, err := k.GetMint(ctx, mint); err != nil {
		return types.Holding{}, err
	}
	if k.HasHolding(ctx, address) {
		return types.Holding{}, errorsmod.Wrapf(types.ErrHoldingExists, "holding %s", address)
	}
	h := types.Holding{
		Address: address,
		Mint:    mint,
		Owner:   owner,
	}
	if err := k.setHolding(ctx, h); err != nil {
		return types.Holding{}, err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeCreateHolding,
		sdk.NewAttribute(types.AttributeKeyHolding, address.String()),
		sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
		sdk.NewAttribute(types.AttributeKeyMint, mint.String()),
	))
	return h, nil
}

// CreateAssociatedHolding creates the holding of owner for mint at its
// associated address.
func (k Keeper) CreateAssociatedHolding(ctx sdk.Context, owner, mint solana.PublicKey) (types.Holding, error) {
	m, err := k.GetMint(ctx, mint)
	if err != nil {
		return types.Holding{}, err
	}
	address, _, err := pda.AssociatedHoldingAddress(owner, m.TokenProgram, mint)
	if err != nil {
		return types.Holding{}, err
	}
	return k.CreateHolding(ctx, address, owner, mint)
}

// MintTo issues amount of mint into destination.
func (k Keeper) MintTo(ctx sdk.Context, mint, destination solana.PublicKey, amount uint64, signers types.SignerSet) error {
	m, err := k.GetMint(ctx, mint)
	if err != nil {
		return err
	}
	if !signers.Has(m.MintAuthority) {
		return errorsmod.Wrapf(types.ErrMissingRequiredSignature, "mint authority %s", m.MintAuthority)
	}
	h, err := k.GetHolding(ctx, destination)
	if err != nil {
		return err
	}
	if !h.Mint.Equals(mint) {
		return errorsmod.Wrapf(types.ErrMintMismatch, "holding %s", destination)
	}
	supply, ok := addUint64(m.Supply, amount)
	if !ok {
		return errorsmod.Wrap(types.ErrOverflow, "supply")
	}
	balance, ok := addUint64(h.Amount, amount)
	if !ok {
		return errorsmod.Wrap(types.ErrOverflow, "balance")
	}
	m.Supply = supply
	h.Amount = balance
	if err := k.setMint(ctx, m); err != nil {
		return err
	}
	if err := k.setHolding(ctx, h); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeMintTo,
		sdk.NewAttribute(types.AttributeKeyMint, mint.String()),
		sdk.NewAttribute(types.AttributeKeyDestination, destination.String()),
		sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(amount, 10)),
	))
	telemetry.IncrCounter(1, types.ModuleName, "mint_to")
	return nil
}

// GetMint returns the mint at addr.
func (k Keeper) GetMint(ctx sdk.Context, addr solana.PublicKey) (types.Mint, error) {
	bz := ctx.KVStore(k.storeKey).Get(types.MintKey(addr))
	if bz == nil {
		return types.Mint{}, errorsmod.Wrapf(types.ErrMintNotFound, "mint %s", addr)
	}
	return types.UnmarshalMint(bz)
}

// GetHolding returns the holding at addr.
func (k Keeper) GetHolding(ctx sdk.Context, addr solana.PublicKey) (types.Holding, error) {
	bz := ctx.KVStore(k.storeKey).Get(types.HoldingKey(addr))
	if bz == nil {
		return types.Holding{}, errorsmod.Wrapf(types.ErrHoldingNotFound, "holding %s", addr)
	}
	return types.UnmarshalHolding(bz)
}

// HasHolding reports whether a holding exists at addr.
func (k Keeper) HasHolding(ctx sdk.Context, addr solana.PublicKey) bool {
	return ctx.KVStore(k.storeKey).Has(types.HoldingKey(addr))
}

// Balance returns the amount held at addr.
func (k Keeper) Balance(ctx sdk.Context, addr solana.PublicKey) (uint64, error) {
	h, err := k.GetHolding(ctx, addr)
	if err != nil {
		return 0, err
	}
	return h.Amount, nil
}

// TotalHeld sums the balances of every holding of mint. It equals the supply
// of the mint as long as no operation created or destroyed funds.
func (k Keeper) TotalHeld(ctx sdk.Context, mint solana.PublicKey) (uint64, error) {
	iter := storetypes.KVStorePrefixIterator(ctx.KVStore(k.storeKey), types.HoldingKeyPrefix)
	defer iter.Close()

	var total uint64
	for ; iter.Valid(); iter.Next() {
		h, err := types.UnmarshalHolding(iter.Value())
		if err != nil {
			return 0, err
		}
		if !h.Mint.Equals(mint) {
			continue
		}
		var ok bool
		if total, ok = addUint64(total, h.Amount); !ok {
			return 0, types.ErrOverflow
		}
	}
	return total, nil
}

func (k Keeper) hasMint(ctx sdk.Context, addr solana.PublicKey) bool {
	return ctx.KVStore(k.storeKey).Has(types.MintKey(addr))
}

func (k Keeper) setMint(ctx sdk.Context, m types.Mint) error {
	bz, err := m.Marshal()
	if err != nil {
		return err
	}
	ctx.KVStore(k.storeKey).Set(types.MintKey(m.Address), bz)
	return nil
}

func (k Keeper) setHolding(ctx sdk.Context, h types.Holding) error {
	bz, err := h.Marshal()
	if err != nil {
		return err
	}
	ctx.KVStore(k.storeKey).Set(types.HoldingKey(h.Address), bz)
	return nil
}

func addUint64(a, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum >= a
}
