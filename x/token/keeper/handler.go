package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/celestiaorg/taxhook/pkg/pda"
	"github.com/celestiaorg/taxhook/x/token/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
)

// ProcessInstruction executes a token program instruction sent to programID,
// which is either the token or the token-2022 program.
func (k Keeper) ProcessInstruction(
	ctx sdk.Context,
	programID solana.PublicKey,
	accounts solana.AccountMetaSlice,
	data []byte,
	signers types.SignerSet,
) error {
	if !types.IsTokenProgram(programID) {
		return errorsmod.Wrapf(types.ErrInvalidAccount, "%s is not a token program", programID)
	}
	ix, err := types.DecodeInstruction(data)
	if err != nil {
		return err
	}

	switch ix := ix.(type) {
	case *types.InitializeMint:
		if err := requireAccounts(accounts, 1); err != nil {
			return err
		}
		_, err := k.InitializeMint(ctx, programID, accounts[0].PublicKey, ix.MintAuthority, ix.Decimals, ix.TransferHookProgram, signers)
		return err

	case *types.CreateAssociatedHolding:
		if err := requireAccounts(accounts, 4); err != nil {
			return err
		}
		payer, holding, owner, mint := accounts[0].PublicKey, accounts[1].PublicKey, accounts[2].PublicKey, accounts[3].PublicKey
		if !signers.Has(payer) {
			return errorsmod.Wrapf(types.ErrMissingRequiredSignature, "payer %s", payer)
		}
		if err := k.requireOwningProgram(ctx, programID, mint); err != nil {
			return err
		}
		expected, _, err := pda.AssociatedHoldingAddress(owner, programID, mint)
		if err != nil {
			return err
		}
		if !expected.Equals(holding) {
			return errorsmod.Wrapf(types.ErrInvalidAccount, "associated holding is %s, got %s", expected, holding)
		}
		_, err = k.CreateAssociatedHolding(ctx, owner, mint)
		return err

	case *types.MintTo:
		if err := requireAccounts(accounts, 3); err != nil {
			return err
		}
		if err := k.requireOwningProgram(ctx, programID, accounts[0].PublicKey); err != nil {
			return err
		}
		m, err := k.GetMint(ctx, accounts[0].PublicKey)
		if err != nil {
			return err
		}
		if !m.MintAuthority.Equals(accounts[2].PublicKey) {
			return errorsmod.Wrapf(types.ErrOwnerMismatch, "mint authority is %s", m.MintAuthority)
		}
		return k.MintTo(ctx, accounts[0].PublicKey, accounts[1].PublicKey, ix.Amount, signers)

	case *types.Transfer:
		if err := requireAccounts(accounts, 3); err != nil {
			return err
		}
		src, err := k.GetHolding(ctx, accounts[0].PublicKey)
		if err != nil {
			return err
		}
		if err := k.requireOwningProgram(ctx, programID, src.Mint); err != nil {
			return err
		}
		return k.Transfer(ctx, accounts[0].PublicKey, accounts[1].PublicKey, accounts[2].PublicKey, ix.Amount, signers)

	case *types.TransferChecked:
		if err := requireAccounts(accounts, 4); err != nil {
			return err
		}
		if err := k.requireOwningProgram(ctx, programID, accounts[1].PublicKey); err != nil {
			return err
		}
		return k.TransferChecked(ctx, types.TransferRequest{
			Source:        accounts[0].PublicKey,
			Mint:          accounts[1].PublicKey,
			Destination:   accounts[2].PublicKey,
			Authority:     accounts[3].PublicKey,
			Amount:        ix.Amount,
			Decimals:      ix.Decimals,
			ExtraAccounts: accounts[4:],
		}, signers)

	default:
		return errorsmod.Wrapf(types.ErrInvalidInstruction, "unhandled instruction %s", ix.Tag())
	}
}

func (k Keeper) requireOwningProgram(ctx sdk.Context, programID, mint solana.PublicKey) error {
	m, err := k.GetMint(ctx, mint)
	if err != nil {
		return err
	}
	if !m.TokenProgram.Equals(programID) {
		return errorsmod.Wrapf(types.ErrInvalidAccount, "mint %s is owned by %s", mint, m.TokenProgram)
	}
	return nil
}

func requireAccounts(accounts solana.AccountMetaSlice, n int) error {
	if len(accounts) < n {
		return errorsmod.Wrapf(types.ErrInvalidInstruction, "expected at least %d accounts, got %d", n, len(accounts))
	}
	return nil
}
