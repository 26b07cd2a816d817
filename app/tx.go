package app

import (
	errorsmod "cosmossdk.io/errors"
	apperrors "github.com/celestiaorg/taxhook/app/errors"
	tokentypes "github.com/celestiaorg/taxhook/x/token/types"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
	"golang.org/x/sync/errgroup"
)

// TxResult is the outcome of a delivered transaction.
type TxResult struct {
	Signature solana.Signature
	Events    sdk.Events
	// Codespace and Code identify the failure; Code is zero on success.
	Codespace string
	Code      uint32
	Log       string
}

// IsOK reports whether the transaction was applied.
func (r TxResult) IsOK() bool {
	return r.Code == 0
}

// resolvedInstruction is a compiled instruction with its accounts expanded.
type resolvedInstruction struct {
	programID solana.PublicKey
	accounts  solana.AccountMetaSlice
	data      []byte
}

// DeliverTx verifies and executes tx. Either every instruction of tx is
// applied or none is. The returned error is also encoded in the result.
func (app *App) DeliverTx(tx *solana.Transaction) (TxResult, error) {
	result, err := app.deliverTx(tx)
	if err != nil {
		result.Codespace, result.Code, result.Log = errorsmod.ABCIInfo(err, false)
		app.logger.Info(rejectedTxMsg, "signature", result.Signature, "err", err)
		telemetry.IncrCounter(1, "tx", "rejected")
		return result, err
	}
	telemetry.IncrCounter(1, "tx", "delivered")
	return result, nil
}

func (app *App) deliverTx(tx *solana.Transaction) (TxResult, error) {
	if tx == nil || len(tx.Signatures) == 0 {
		return TxResult{}, errorsmod.Wrap(apperrors.ErrInvalidTransaction, "transaction has no signatures")
	}
	result := TxResult{Signature: tx.Signatures[0]}

	signers, err := verifySignatures(tx)
	if err != nil {
		return result, err
	}
	instructions, err := resolveInstructions(tx)
	if err != nil {
		return result, err
	}

	app.mtx.Lock()
	defer app.mtx.Unlock()

	ctx := app.newContext(app.cms)
	if app.txCache.Exists(ctx, result.Signature) {
		return result, errorsmod.Wrapf(apperrors.ErrAlreadyProcessed, "signature %s", result.Signature)
	}

	cacheCtx, write := ctx.CacheContext()
	for i, ix := range instructions {
		program, ok := app.programs[ix.programID]
		if !ok {
			return result, errorsmod.Wrapf(apperrors.ErrUnknownProgram, "instruction %d: %s", i, ix.programID)
		}
		if err := program.ProcessInstruction(cacheCtx, ix.programID, ix.accounts, ix.data, signers); err != nil {
			return result, errorsmod.Wrapf(err, "instruction %d", i)
		}
	}
	app.txCache.Set(cacheCtx, result.Signature)
	write()

	result.Events = ctx.EventManager().Events()
	return result, nil
}

// verifySignatures checks every required signature in parallel and returns
// the verified signers.
func verifySignatures(tx *solana.Transaction) (tokentypes.SignerSet, error) {
	header := tx.Message.Header
	required := int(header.NumRequiredSignatures)
	if required == 0 || len(tx.Signatures) != required || len(tx.Message.AccountKeys) < required {
		return tokentypes.SignerSet{}, errorsmod.Wrapf(apperrors.ErrInvalidTransaction,
			"%d signatures for %d required signers and %d accounts", len(tx.Signatures), required, len(tx.Message.AccountKeys))
	}
	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return tokentypes.SignerSet{}, errorsmod.Wrap(apperrors.ErrInvalidTransaction, err.Error())
	}

	var g errgroup.Group
	for i := 0; i < required; i++ {
		sig, key := tx.Signatures[i], tx.Message.AccountKeys[i]
		g.Go(func() error {
			if !sig.Verify(key, msg) {
				return errorsmod.Wrapf(apperrors.ErrSignatureVerification, "signer %d (%s)", i, key)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return tokentypes.SignerSet{}, err
	}
	return tokentypes.NewSignerSet(tx.Message.AccountKeys[:required]...), nil
}

// resolveInstructions expands compiled instructions, deriving account
// privileges from the message header.
func resolveInstructions(tx *solana.Transaction) ([]resolvedInstruction, error) {
	keys := tx.Message.AccountKeys
	header := tx.Message.Header
	numSigners := int(header.NumRequiredSignatures)
	numWritableSigners := numSigners - int(header.NumReadonlySignedAccounts)
	numWritableUnsigned := len(keys) - numSigners - int(header.NumReadonlyUnsignedAccounts)
	if numWritableSigners < 0 || numWritableUnsigned < 0 {
		return nil, errorsmod.Wrap(apperrors.ErrInvalidTransaction, "malformed message header")
	}

	meta := func(index uint16) (*solana.AccountMeta, error) {
		i := int(index)
		if i >= len(keys) {
			return nil, errorsmod.Wrapf(apperrors.ErrInvalidTransaction, "account index %d out of range", i)
		}
		signer := i < numSigners
		writable := i < numWritableSigners || (i >= numSigners && i < numSigners+numWritableUnsigned)
		return solana.NewAccountMeta(keys[i], writable, signer), nil
	}

	out := make([]resolvedInstruction, 0, len(tx.Message.Instructions))
	for n, ci := range tx.Message.Instructions {
		if int(ci.ProgramIDIndex) >= len(keys) {
			return nil, errorsmod.Wrapf(apperrors.ErrInvalidTransaction, "instruction %d: program index out of range", n)
		}
		accounts := make(solana.AccountMetaSlice, 0, len(ci.Accounts))
		for _, index := range ci.Accounts {
			m, err := meta(index)
			if err != nil {
				return nil, errorsmod.Wrapf(err, "instruction %d", n)
			}
			accounts = append(accounts, m)
		}
		out = append(out, resolvedInstruction{
			programID: keys[ci.ProgramIDIndex],
			accounts:  accounts,
			data:      []byte(ci.Data),
		})
	}
	return out, nil
}
