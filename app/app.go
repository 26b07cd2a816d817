package app

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	"github.com/celestiaorg/taxhook/pkg/appconsts"
	taxhookkeeper "github.com/celestiaorg/taxhook/x/taxhook/keeper"
	taxhooktypes "github.com/celestiaorg/taxhook/x/taxhook/types"
	tokenkeeper "github.com/celestiaorg/taxhook/x/token/keeper"
	tokentypes "github.com/celestiaorg/taxhook/x/token/types"
	tmproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
)

// Name is the name of the application.
const Name = "taxhook"

// RuntimeStoreKey is the store holding transaction runtime bookkeeping such
// as processed signatures.
const RuntimeStoreKey = "runtime"

// Program executes the instructions sent to one or more program ids.
type Program interface {
	ProcessInstruction(
		ctx sdk.Context,
		programID solana.PublicKey,
		accounts solana.AccountMetaSlice,
		data []byte,
		signers tokentypes.SignerSet,
	) error
}

// NativeMint is the wrapped SOL mint.
var NativeMint = solana.MustPublicKeyFromBase58(appconsts.DefaultFeeMint)

// Options configures the deployed hook.
type Options struct {
	ProgramID      solana.PublicKey
	FeeMint        solana.PublicKey
	FeeBasisPoints uint64
	// NativeMintAuthority, when set, creates the native mint at startup if it
	// does not exist yet, with this account allowed to mint it. Wrapping
	// lamports is not modeled, so this stands in for a faucet.
	NativeMintAuthority solana.PublicKey
}

// DefaultOptions returns the options of the reference deployment.
func DefaultOptions() Options {
	return Options{
		ProgramID:      solana.MustPublicKeyFromBase58(appconsts.DefaultHookProgramID),
		FeeMint:        solana.MustPublicKeyFromBase58(appconsts.DefaultFeeMint),
		FeeBasisPoints: appconsts.DefaultFeeBasisPoints,
	}
}

// App is the transaction runtime. It executes signed transactions against the
// token and tax hook programs, one transaction at a time, each as an atomic
// unit of work. Keepers are exported for queries and tests.
type App struct {
	mtx    sync.Mutex
	logger log.Logger

	cms  storetypes.CommitMultiStore
	keys map[string]*storetypes.KVStoreKey

	TokenKeeper   tokenkeeper.Keeper
	TaxHookKeeper taxhookkeeper.Keeper

	programs map[solana.PublicKey]Program
	txCache  *TxCache

	lastCommitID storetypes.CommitID
}

// New creates an App over db, loading the latest committed state.
func New(logger log.Logger, db dbm.DB, opts Options) (*App, error) {
	if err := taxhooktypes.ValidateFeeBasisPoints(opts.FeeBasisPoints); err != nil {
		return nil, err
	}
	logger = NewTxErrorLoggerWrapper(logger).With("module", "app")

	keys := storetypes.NewKVStoreKeys(tokentypes.StoreKey, taxhooktypes.StoreKey, RuntimeStoreKey)
	cms := store.NewCommitMultiStore(db, logger, metrics.NoOpMetrics{})
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load latest version: %w", err)
	}

	app := &App{
		logger:       logger,
		cms:          cms,
		keys:         keys,
		txCache:      NewTxCache(keys[RuntimeStoreKey]),
		lastCommitID: cms.LastCommitID(),
	}
	app.TokenKeeper = tokenkeeper.NewKeeper(keys[tokentypes.StoreKey])
	app.TaxHookKeeper = taxhookkeeper.NewKeeper(
		keys[taxhooktypes.StoreKey],
		app.TokenKeeper,
		opts.ProgramID,
		opts.FeeMint,
		opts.FeeBasisPoints,
	)
	app.TokenKeeper.RegisterHook(opts.ProgramID, app.TaxHookKeeper)
	app.TokenKeeper.SealHooks()

	app.programs = map[solana.PublicKey]Program{
		tokentypes.TokenProgramID:     app.TokenKeeper,
		tokentypes.Token2022ProgramID: app.TokenKeeper,
		opts.ProgramID:                app.TaxHookKeeper,
	}

	if !opts.NativeMintAuthority.IsZero() {
		if err := app.initNativeMint(opts.NativeMintAuthority); err != nil {
			return nil, err
		}
	}

	logger.Info("loaded state", "height", app.lastCommitID.Version, "program_id", opts.ProgramID, "fee_mint", opts.FeeMint)
	return app, nil
}

// Logger returns the application logger.
func (app *App) Logger() log.Logger {
	return app.logger
}

// Commit persists the state written by delivered transactions and returns
// the new blockhash.
func (app *App) Commit() solana.Hash {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	app.lastCommitID = app.cms.Commit()
	app.logger.Debug("committed state", "height", app.lastCommitID.Version)
	return blockhash(app.lastCommitID)
}

// LatestBlockhash returns the blockhash of the last commit.
func (app *App) LatestBlockhash() solana.Hash {
	app.mtx.Lock()
	defer app.mtx.Unlock()
	return blockhash(app.lastCommitID)
}

// Height returns the version of the last commit.
func (app *App) Height() int64 {
	app.mtx.Lock()
	defer app.mtx.Unlock()
	return app.lastCommitID.Version
}

// QueryContext returns a read-only context over the current state. Writes
// made through it are discarded.
func (app *App) QueryContext() sdk.Context {
	app.mtx.Lock()
	defer app.mtx.Unlock()
	return app.newContext(app.cms.CacheMultiStore())
}

func (app *App) initNativeMint(authority solana.PublicKey) error {
	ctx := app.newContext(app.cms)
	if _, err := app.TokenKeeper.GetMint(ctx, NativeMint); err == nil {
		return nil
	}
	_, err := app.TokenKeeper.InitializeMint(
		ctx,
		tokentypes.TokenProgramID,
		NativeMint,
		authority,
		appconsts.DefaultDecimals,
		solana.PublicKey{},
		tokentypes.NewSignerSet(NativeMint),
	)
	return err
}

func (app *App) newContext(ms storetypes.MultiStore) sdk.Context {
	header := tmproto.Header{ChainID: Name, Height: app.lastCommitID.Version + 1}
	return sdk.NewContext(ms, header, false, app.logger)
}

func blockhash(id storetypes.CommitID) solana.Hash {
	var version [8]byte
	binary.BigEndian.PutUint64(version[:], uint64(id.Version))
	return solana.Hash(sha256.Sum256(append(version[:], id.Hash...)))
}
