package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/celestiaorg/taxhook/app"
	apperrors "github.com/celestiaorg/taxhook/app/errors"
	"github.com/celestiaorg/taxhook/pkg/pda"
	tokentypes "github.com/celestiaorg/taxhook/x/token/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/gagliardetto/solana-go"
	"github.com/gofrs/flock"
)

const (
	dataDirName  = "data"
	dbName       = "state"
	lockFileName = "taxhookd.lock"
)

// state is an open ledger under the home directory. It holds an exclusive
// lock on the data directory until closed.
type state struct {
	app  *app.App
	db   dbm.DB
	lock *flock.Flock
	// signed states may hold uncommitted startup writes
	signed bool
}

// openState locks and opens the ledger. When signer is set it may mint the
// native mint.
func openState(cctx *ClientContext, signer solana.PublicKey) (*state, error) {
	dataDir := filepath.Join(cctx.Home, dataDirName)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	lock := flock.New(filepath.Join(dataDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", dataDir, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s is in use by another process", dataDir)
	}

	db, err := dbm.NewDB(dbName, dbm.BackendType(cctx.Config.DBBackend), dataDir)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("failed to open state: %w", err)
	}

	opts := cctx.Config.AppOptions()
	opts.NativeMintAuthority = signer
	a, err := app.New(cctx.Logger, db, opts)
	if err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return &state{app: a, db: db, lock: lock, signed: !signer.IsZero()}, nil
}

// Close commits pending writes, closes the database and releases the lock.
func (s *state) Close() error {
	if s.signed {
		s.app.Commit()
	}
	if err := s.db.Close(); err != nil {
		_ = s.lock.Unlock()
		return err
	}
	return s.lock.Unlock()
}

// send signs instructions with keys, delivers them as one transaction and
// commits the result.
func (s *state) send(keys []solana.PrivateKey, instructions ...solana.Instruction) (app.TxResult, error) {
	tx, err := app.BuildTransaction(s.app.LatestBlockhash(), keys, instructions...)
	if err != nil {
		return app.TxResult{}, err
	}
	res, err := s.app.DeliverTx(tx)
	switch {
	case err == nil:
	case apperrors.IsAlreadyProcessedCode(res.Codespace, res.Code):
		return res, fmt.Errorf("transaction %s was already processed: %w", res.Signature, err)
	case apperrors.IsSignatureFailure(err):
		return res, fmt.Errorf("transaction %s has an invalid signature, check --%s: %w", res.Signature, FlagKeypair, err)
	default:
		return res, fmt.Errorf("transaction %s failed (codespace %s, code %d): %w", res.Signature, res.Codespace, res.Code, err)
	}
	s.app.Commit()
	return res, nil
}

// mint returns the mint record at addr.
func (s *state) mint(addr solana.PublicKey) (tokentypes.Mint, error) {
	return s.app.TokenKeeper.GetMint(s.app.QueryContext(), addr)
}

// associatedHolding returns the associated holding of owner for mint and
// whether it exists.
func (s *state) associatedHolding(owner solana.PublicKey, m tokentypes.Mint) (solana.PublicKey, bool, error) {
	addr, _, err := pda.AssociatedHoldingAddress(owner, m.TokenProgram, m.Address)
	if err != nil {
		return solana.PublicKey{}, false, err
	}
	return addr, s.app.TokenKeeper.HasHolding(s.app.QueryContext(), addr), nil
}

// ensureHolding returns the associated holding of owner for m, plus the
// instruction creating it when it does not exist yet.
func (s *state) ensureHolding(payer, owner solana.PublicKey, m tokentypes.Mint) (solana.PublicKey, []solana.Instruction, error) {
	addr, exists, err := s.associatedHolding(owner, m)
	if err != nil || exists {
		return addr, nil, err
	}
	ix, err := tokentypes.NewCreateAssociatedHoldingInstruction(m.TokenProgram, payer, owner, m.Address)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	return addr, []solana.Instruction{ix}, nil
}
