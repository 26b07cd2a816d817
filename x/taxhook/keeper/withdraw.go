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
)

// Withdraw moves amount out of the treasury of feeMint into destination. The
// authority bound at initialization must be among the verified signers; the
// program then signs the movement with the treasury seeds.
func (k Keeper) Withdraw(
	ctx sdk.Context,
	authority, feeMint, treasury, destination, tokenProgram solana.PublicKey,
	amount uint64,
	signers tokentypes.SignerSet,
) error {
	addr, _, err := pda.TreasuryAddress(k.programID, feeMint)
	if err != nil {
		return err
	}
	if !addr.Equals(treasury) {
		return errorsmod.Wrapf(types.ErrInvalidAccount, "treasury of %s is %s, got %s", feeMint, addr, treasury)
	}
	record, err := k.getTreasury(ctx, addr)
	if err != nil {
		return err
	}
	if !signers.Has(authority) || !authority.Equals(record.Authority) {
		return errorsmod.Wrapf(types.ErrUnauthorizedWithdrawal, "%s is not the treasury authority", authority)
	}
	if amount == 0 {
		return types.ErrInvalidAmount
	}

	m, err := k.tokenKeeper.GetMint(ctx, feeMint)
	if err != nil {
		return err
	}
	if !m.TokenProgram.Equals(tokenProgram) {
		return errorsmod.Wrapf(types.ErrInvalidAccount, "fee mint is owned by %s, got %s", m.TokenProgram, tokenProgram)
	}
	vault, err := k.tokenKeeper.GetHolding(ctx, addr)
	if err != nil {
		return err
	}
	if vault.Amount < amount {
		return errorsmod.Wrapf(types.ErrInsufficientFunds, "treasury holds %d, requested %d", vault.Amount, amount)
	}
	if destination.Equals(addr) {
		return errorsmod.Wrapf(types.ErrInvalidAccount, "destination %s is the treasury", destination)
	}
	dst, err := k.tokenKeeper.GetHolding(ctx, destination)
	if err != nil {
		return err
	}
	if !dst.Mint.Equals(feeMint) {
		return errorsmod.Wrapf(types.ErrInvalidAccount, "destination %s does not hold %s", destination, feeMint)
	}

	err = k.tokenKeeper.TransferSigned(ctx, k.programID, pda.TreasurySeeds(feeMint, record.Bump), tokentypes.TransferRequest{
		Source:      addr,
		Mint:        feeMint,
		Destination: destination,
		Authority:   addr,
		Amount:      amount,
		Decimals:    m.Decimals,
	})
	if err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeWithdraw,
		sdk.NewAttribute(types.AttributeKeyFeeMint, feeMint.String()),
		sdk.NewAttribute(types.AttributeKeyTreasury, addr.String()),
		sdk.NewAttribute(types.AttributeKeyAuthority, authority.String()),
		sdk.NewAttribute(types.AttributeKeyDestination, destination.String()),
		sdk.NewAttribute(types.AttributeKeyAmount, strconv.FormatUint(amount, 10)),
	))
	telemetry.IncrCounter(1, types.ModuleName, "withdrawals")
	k.Logger(ctx).Info("withdrew from treasury", "treasury", addr, "destination", destination, "amount", amount)
	return nil
}
