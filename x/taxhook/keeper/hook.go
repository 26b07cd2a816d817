package keeper

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"github.com/celestiaorg/taxhook/pkg/pda"
	"github.com/celestiaorg/taxhook/x/taxhook/types"
	tokentypes "github.com/celestiaorg/taxhook/x/token/types"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
	"github.com/hashicorp/go-metrics"
)

var _ tokentypes.TransferHook = Keeper{}

// ExtraAccountMetas resolves the registry of mint against the base accounts of
// a transfer.
func (k Keeper) ExtraAccountMetas(ctx sdk.Context, mint solana.PublicKey, accounts solana.AccountMetaSlice) (solana.AccountMetaSlice, error) {
	list, err := k.GetExtraAccountMetaList(ctx, mint)
	if err != nil {
		return nil, err
	}
	return list.Resolve(k.programID, accounts)
}

// Execute charges the transfer fee. The token runtime calls it after moving
// the principal and discards every effect if it fails. The fee is paid on
// top of the principal: it moves from the authority's associated fee holding
// into the treasury, authorized by the signature of the outer transfer.
func (k Keeper) Execute(ctx sdk.Context, req tokentypes.HookRequest) error {
	if !tokentypes.InTransferHook(ctx) {
		return types.ErrDirectInvocation
	}
	if err := k.requireHookedMint(ctx, req.Mint); err != nil {
		return err
	}
	expected, err := k.ExtraAccountMetas(ctx, req.Mint, req.BaseAccounts())
	if err != nil {
		return err
	}
	if err := types.MatchesExtraAccounts(expected, req.ExtraAccounts); err != nil {
		return err
	}

	fee, err := k.ComputeFee(req.Amount)
	if err != nil {
		return err
	}
	if fee == 0 {
		return nil
	}

	treasury, _, err := pda.TreasuryAddress(k.programID, k.feeMint)
	if err != nil {
		return err
	}
	if _, err := k.getTreasury(ctx, treasury); err != nil {
		return err
	}
	feeMint, err := k.tokenKeeper.GetMint(ctx, k.feeMint)
	if err != nil {
		return err
	}
	feeSource, _, err := pda.AssociatedHoldingAddress(req.Authority, feeMint.TokenProgram, k.feeMint)
	if err != nil {
		return err
	}
	err = k.tokenKeeper.TransferChecked(ctx, tokentypes.TransferRequest{
		Source:      feeSource,
		Mint:        k.feeMint,
		Destination: treasury,
		Authority:   req.Authority,
		Amount:      fee,
		Decimals:    feeMint.Decimals,
	}, req.Signers)
	if err != nil {
		telemetry.IncrCounterWithLabels(
			[]string{types.ModuleName, "rejected_transfers"},
			1,
			[]metrics.Label{telemetry.NewLabel("mint", req.Mint.String())},
		)
		return errorsmod.Wrap(err, "collect transfer fee")
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeFeeCollected,
		sdk.NewAttribute(types.AttributeKeyMint, req.Mint.String()),
		sdk.NewAttribute(types.AttributeKeySource, req.Source.String()),
		sdk.NewAttribute(types.AttributeKeyAuthority, req.Authority.String()),
		sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(req.Amount, 10)),
		sdk.NewAttribute(types.AttributeKeyFee, strconv.FormatUint(fee, 10)),
		sdk.NewAttribute(types.AttributeKeyTreasury, treasury.String()),
	))
	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "fees_collected"},
		float32(fee),
		[]metrics.Label{telemetry.NewLabel("fee_mint", k.feeMint.String())},
	)
	k.Logger(ctx).Debug("collected transfer fee", "mint", req.Mint, "amount", req.Amount, "fee", fee)
	return nil
}
