package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/celestiaorg/taxhook/x/taxhook/types"
	tokentypes "github.com/celestiaorg/taxhook/x/token/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
)

// ProcessInstruction executes an instruction sent to the hook program in a
// transaction. Accounts are validated before any state is read.
func (k Keeper) ProcessInstruction(
	ctx sdk.Context,
	programID solana.PublicKey,
	accounts solana.AccountMetaSlice,
	data []byte,
	signers tokentypes.SignerSet,
) error {
	if !programID.Equals(k.programID) {
		return errorsmod.Wrapf(types.ErrInvalidInstruction, "sent to %s, program is %s", programID, k.programID)
	}
	ix, err := types.DecodeInstruction(data)
	if err != nil {
		return err
	}
	k.Logger(ctx).Debug("processing instruction", "instruction", types.InstructionName(ix), "accounts", len(accounts))

	switch ix := ix.(type) {
	case *types.InitializeExtraAccountMetaList:
		if err := validateAccounts(accounts, accountRule{signer: true, writable: true}, accountRule{writable: true}, accountRule{}, accountRule{address: &tokentypes.SystemProgramID}); err != nil {
			return err
		}
		_, err := k.InitializeExtraAccountMetaList(ctx, accounts[0].PublicKey, accounts[1].PublicKey, accounts[2].PublicKey, signers)
		return err

	case *types.UpdateExtraAccountMetaList:
		if err := validateAccounts(accounts, accountRule{signer: true}, accountRule{writable: true}, accountRule{}); err != nil {
			return err
		}
		_, err := k.UpdateExtraAccountMetaList(ctx, accounts[0].PublicKey, accounts[1].PublicKey, accounts[2].PublicKey, ix.Metas, signers)
		return err

	case *types.InitializeTreasury:
		if err := validateAccounts(accounts,
			accountRule{signer: true, writable: true},
			accountRule{writable: true},
			accountRule{},
			accountRule{address: &tokentypes.SystemProgramID},
			accountRule{tokenProgram: true},
		); err != nil {
			return err
		}
		_, err := k.InitializeTreasury(ctx, accounts[0].PublicKey, accounts[1].PublicKey, accounts[2].PublicKey, accounts[4].PublicKey, signers)
		return err

	case *types.Withdraw:
		// the authority flag is checked against the signer set by Withdraw so
		// that a missing signature reports an authorization failure
		if err := validateAccounts(accounts,
			accountRule{},
			accountRule{},
			accountRule{writable: true},
			accountRule{writable: true},
			accountRule{tokenProgram: true},
		); err != nil {
			return err
		}
		return k.Withdraw(ctx,
			accounts[0].PublicKey,
			accounts[1].PublicKey,
			accounts[2].PublicKey,
			accounts[3].PublicKey,
			accounts[4].PublicKey,
			ix.Amount,
			signers,
		)

	case *types.Execute:
		// only the token runtime reaches Execute, through TransferChecked
		return types.ErrDirectInvocation

	default:
		return errorsmod.Wrapf(types.ErrInvalidInstruction, "unhandled instruction %T", ix)
	}
}

type accountRule struct {
	signer       bool
	writable     bool
	tokenProgram bool
	address      *solana.PublicKey
}

func validateAccounts(accounts solana.AccountMetaSlice, rules ...accountRule) error {
	if len(accounts) < len(rules) {
		return errorsmod.Wrapf(types.ErrInvalidAccount, "expected %d accounts, got %d", len(rules), len(accounts))
	}
	for i, rule := range rules {
		acc := accounts[i]
		if rule.signer && !acc.IsSigner {
			return errorsmod.Wrapf(types.ErrMissingSignature, "account %d (%s) must sign", i, acc.PublicKey)
		}
		if rule.writable && !acc.IsWritable {
			return errorsmod.Wrapf(types.ErrInvalidAccount, "account %d (%s) must be writable", i, acc.PublicKey)
		}
		if rule.tokenProgram && !tokentypes.IsTokenProgram(acc.PublicKey) {
			return errorsmod.Wrapf(types.ErrInvalidAccount, "account %d (%s) is not a token program", i, acc.PublicKey)
		}
		if rule.address != nil && !acc.PublicKey.Equals(*rule.address) {
			return errorsmod.Wrapf(types.ErrInvalidAccount, "account %d must be %s, got %s", i, *rule.address, acc.PublicKey)
		}
	}
	return nil
}
