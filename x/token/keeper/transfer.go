package keeper

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"github.com/celestiaorg/taxhook/pkg/pda"
	"github.com/celestiaorg/taxhook/x/token/types"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
	"github.com/hashicorp/go-metrics"
)

// TransferChecked moves funds between two holdings of the same mint. If the
// mint names a transfer hook, the hook runs after the principal moved and the
// whole transfer, hook effects included, is applied atomically or not at all.
func (k Keeper) TransferChecked(ctx sdk.Context, req types.TransferRequest, signers types.SignerSet) error {
	m, err := k.GetMint(ctx, req.Mint)
	if err != nil {
		return err
	}
	if m.Decimals != req.Decimals {
		return errorsmod.Wrapf(types.ErrDecimalsMismatch, "mint has %d, got %d", m.Decimals, req.Decimals)
	}
	if !m.HasTransferHook() {
		return k.transfer(ctx, m, req, signers)
	}

	if types.InTransferHook(ctx) {
		return errorsmod.Wrapf(types.ErrReentrantTransfer, "mint %s", req.Mint)
	}
	hook, ok := k.router.Hook(m.TransferHookProgram)
	if !ok {
		return errorsmod.Wrapf(types.ErrHookNotRegistered, "program %s", m.TransferHookProgram)
	}
	base := types.TransferBaseAccounts(req.Source, req.Mint, req.Destination, req.Authority)
	required, err := hook.ExtraAccountMetas(ctx, req.Mint, base)
	if err != nil {
		return err
	}
	if err := checkExtraAccounts(required, req.ExtraAccounts); err != nil {
		return err
	}

	cacheCtx, write := ctx.CacheContext()
	if err := k.transfer(cacheCtx, m, req, signers); err != nil {
		return err
	}
	hookReq := types.HookRequest{
		Source:        req.Source,
		Mint:          req.Mint,
		Destination:   req.Destination,
		Authority:     req.Authority,
		Amount:        req.Amount,
		ExtraAccounts: req.ExtraAccounts,
		Signers:       signers,
	}
	if err := hook.Execute(types.WithinTransferHook(cacheCtx), hookReq); err != nil {
		k.Logger(ctx).Debug("transfer hook rejected transfer", "mint", req.Mint, "hook", m.TransferHookProgram, "err", err)
		return err
	}
	write()
	return nil
}

// Transfer is the unchecked transfer. Mints with a transfer hook cannot be
// moved with it.
func (k Keeper) Transfer(ctx sdk.Context, source, destination, authority solana.PublicKey, amount uint64, signers types.SignerSet) error {
	src, err := k.GetHolding(ctx, source)
	if err != nil {
		return err
	}
	m, err := k.GetMint(ctx, src.Mint)
	if err != nil {
		return err
	}
	if m.HasTransferHook() {
		return errorsmod.Wrapf(types.ErrHookBypass, "mint %s", m.Address)
	}
	return k.transfer(ctx, m, types.TransferRequest{
		Source:      source,
		Mint:        m.Address,
		Destination: destination,
		Authority:   authority,
		Amount:      amount,
		Decimals:    m.Decimals,
	}, signers)
}

// TransferSigned is a checked transfer whose authority is a program address
// of programID. seeds, bump last, must derive req.Authority; only the program
// that owns the address can produce them.
func (k Keeper) TransferSigned(ctx sdk.Context, programID solana.PublicKey, seeds [][]byte, req types.TransferRequest) error {
	signer, err := pda.CreateWithSeeds(programID, seeds)
	if err != nil {
		return errorsmod.Wrap(types.ErrInvalidProgramSigner, err.Error())
	}
	if !signer.Equals(req.Authority) {
		return errorsmod.Wrapf(types.ErrInvalidProgramSigner, "seeds derive %s, authority is %s", signer, req.Authority)
	}
	return k.TransferChecked(ctx, req, types.NewSignerSet(signer))
}

func (k Keeper) transfer(ctx sdk.Context, m types.Mint, req types.TransferRequest, signers types.SignerSet) error {
	src, err := k.GetHolding(ctx, req.Source)
	if err != nil {
		return err
	}
	dst, err := k.GetHolding(ctx, req.Destination)
	if err != nil {
		return err
	}
	if !src.Mint.Equals(m.Address) {
		return errorsmod.Wrapf(types.ErrMintMismatch, "source %s", req.Source)
	}
	if !dst.Mint.Equals(m.Address) {
		return errorsmod.Wrapf(types.ErrMintMismatch, "destination %s", req.Destination)
	}
	if !src.Owner.Equals(req.Authority) {
		return errorsmod.Wrapf(types.ErrOwnerMismatch, "source %s is owned by %s", req.Source, src.Owner)
	}
	if !signers.Has(req.Authority) {
		return errorsmod.Wrapf(types.ErrMissingRequiredSignature, "authority %s", req.Authority)
	}
	if src.Amount < req.Amount {
		return errorsmod.Wrapf(types.ErrInsufficientFunds, "balance %d, need %d", src.Amount, req.Amount)
	}

	if !req.Source.Equals(req.Destination) {
		balance, ok := addUint64(dst.Amount, req.Amount)
		if !ok {
			return errorsmod.Wrap(types.ErrOverflow, "destination balance")
		}
		src.Amount -= req.Amount
		dst.Amount = balance
		if err := k.setHolding(ctx, src); err != nil {
			return err
		}
		if err := k.setHolding(ctx, dst); err != nil {
			return err
		}
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeTransfer,
		sdk.NewAttribute(types.AttributeKeyMint, m.Address.String()),
		sdk.NewAttribute(types.AttributeKeySource, req.Source.String()),
		sdk.NewAttribute(types.AttributeKeyDestination, req.Destination.String()),
		sdk.NewAttribute(types.AttributeKeyAuthority, req.Authority.String()),
		sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(req.Amount, 10)),
	))
	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "transfer"},
		1,
		[]metrics.Label{telemetry.NewLabel("mint", m.Address.String())},
	)
	return nil
}

// checkExtraAccounts verifies that the supplied extra accounts begin with the
// required ones, in order, with at least the required privileges. The hook
// receives the supplied accounts as they are and decides whether anything
// beyond that is acceptable.
func checkExtraAccounts(required, supplied solana.AccountMetaSlice) error {
	if len(supplied) < len(required) {
		return errorsmod.Wrapf(types.ErrIncorrectAccount, "hook requires %d extra accounts, got %d", len(required), len(supplied))
	}
	for i, want := range required {
		got := supplied[i]
		if !got.PublicKey.Equals(want.PublicKey) {
			return errorsmod.Wrapf(types.ErrIncorrectAccount, "extra account %d: expected %s, got %s", i, want.PublicKey, got.PublicKey)
		}
		if want.IsWritable && !got.IsWritable {
			return errorsmod.Wrapf(types.ErrIncorrectAccount, "extra account %d must be writable", i)
		}
		if want.IsSigner && !got.IsSigner {
			return errorsmod.Wrapf(types.ErrIncorrectAccount, "extra account %d must sign", i)
		}
	}
	return nil
}
