// Package testutil provides state fixtures shared by the module tests.
package testutil

import (
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	"github.com/celestiaorg/taxhook/pkg/appconsts"
	"github.com/celestiaorg/taxhook/pkg/pda"
	taxhookkeeper "github.com/celestiaorg/taxhook/x/taxhook/keeper"
	taxhooktypes "github.com/celestiaorg/taxhook/x/taxhook/types"
	tokenkeeper "github.com/celestiaorg/taxhook/x/token/keeper"
	tokentypes "github.com/celestiaorg/taxhook/x/token/types"
	tmproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

// NewContext returns a context over a fresh in-memory multistore with the
// given keys mounted.
func NewContext(t testing.TB, keys ...storetypes.StoreKey) sdk.Context {
	t.Helper()
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NoOpMetrics{})
	for _, key := range keys {
		stateStore.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	require.NoError(t, stateStore.LoadLatestVersion())
	return sdk.NewContext(stateStore, tmproto.Header{}, false, log.NewNopLogger())
}

// Fixture wires a token runtime with a tax hook registered on it, plus a
// hooked mint and a fee mint owned by the same authority.
type Fixture struct {
	Ctx     sdk.Context
	Token   tokenkeeper.Keeper
	TaxHook taxhookkeeper.Keeper

	ProgramID solana.PublicKey
	// Authority is the mint authority of both mints.
	Authority  solana.PublicKey
	HookedMint solana.PublicKey
	FeeMint    solana.PublicKey
}

// FixtureOptions customizes NewFixture.
type FixtureOptions struct {
	FeeBasisPoints uint64
	// HookNotRegistered leaves the hook program out of the token router.
	HookNotRegistered bool
}

// NewFixture builds a fixture with the default fee rate.
func NewFixture(t testing.TB) *Fixture {
	return NewFixtureWithOptions(t, FixtureOptions{FeeBasisPoints: appconsts.DefaultFeeBasisPoints})
}

// NewFixtureWithOptions builds a fixture. Nothing is initialized on the hook
// program: no registry, no treasury.
func NewFixtureWithOptions(t testing.TB, opts FixtureOptions) *Fixture {
	t.Helper()
	tokenKey := storetypes.NewKVStoreKey(tokentypes.StoreKey)
	taxhookKey := storetypes.NewKVStoreKey(taxhooktypes.StoreKey)
	ctx := NewContext(t, tokenKey, taxhookKey)

	programID := solana.MustPublicKeyFromBase58(appconsts.DefaultHookProgramID)
	hookedMint := solana.MustPublicKeyFromBase58(appconsts.DefaultHookedMint)
	feeMint := solana.MustPublicKeyFromBase58(appconsts.DefaultFeeMint)
	authority := solana.NewWallet().PublicKey()

	token := tokenkeeper.NewKeeper(tokenKey)
	taxHook := taxhookkeeper.NewKeeper(taxhookKey, token, programID, feeMint, opts.FeeBasisPoints)
	if !opts.HookNotRegistered {
		token.RegisterHook(programID, taxHook)
	}

	_, err := token.InitializeMint(ctx, tokentypes.Token2022ProgramID, hookedMint, authority, appconsts.DefaultDecimals, programID, tokentypes.NewSignerSet(hookedMint))
	require.NoError(t, err)
	_, err = token.InitializeMint(ctx, tokentypes.TokenProgramID, feeMint, authority, appconsts.DefaultDecimals, solana.PublicKey{}, tokentypes.NewSignerSet(feeMint))
	require.NoError(t, err)

	return &Fixture{
		Ctx:        ctx,
		Token:      token,
		TaxHook:    taxHook,
		ProgramID:  programID,
		Authority:  authority,
		HookedMint: hookedMint,
		FeeMint:    feeMint,
	}
}

// Signers returns a signer set of keys.
func Signers(keys ...solana.PublicKey) tokentypes.SignerSet {
	return tokentypes.NewSignerSet(keys...)
}

// Setup installs the registry and the treasury, paid for and owned by payer.
func (f *Fixture) Setup(t testing.TB, payer solana.PublicKey) {
	t.Helper()
	registry, _, err := pda.RegistryAddress(f.ProgramID, f.HookedMint)
	require.NoError(t, err)
	_, err = f.TaxHook.InitializeExtraAccountMetaList(f.Ctx, payer, registry, f.HookedMint, Signers(payer))
	require.NoError(t, err)

	treasury, _, err := pda.TreasuryAddress(f.ProgramID, f.FeeMint)
	require.NoError(t, err)
	_, err = f.TaxHook.InitializeTreasury(f.Ctx, payer, treasury, f.FeeMint, tokentypes.TokenProgramID, Signers(payer))
	require.NoError(t, err)
}

// Fund creates the associated holding of owner for mint if needed and mints
// amount into it. It returns the holding address.
func (f *Fixture) Fund(t testing.TB, mint, owner solana.PublicKey, amount uint64) solana.PublicKey {
	t.Helper()
	m, err := f.Token.GetMint(f.Ctx, mint)
	require.NoError(t, err)
	addr, _, err := pda.AssociatedHoldingAddress(owner, m.TokenProgram, mint)
	require.NoError(t, err)
	if !f.Token.HasHolding(f.Ctx, addr) {
		_, err = f.Token.CreateAssociatedHolding(f.Ctx, owner, mint)
		require.NoError(t, err)
	}
	if amount > 0 {
		require.NoError(t, f.Token.MintTo(f.Ctx, mint, addr, amount, Signers(f.Authority)))
	}
	return addr
}

// Balance returns the balance of a holding, failing the test if it does not
// exist.
func (f *Fixture) Balance(t testing.TB, addr solana.PublicKey) uint64 {
	t.Helper()
	amount, err := f.Token.Balance(f.Ctx, addr)
	require.NoError(t, err)
	return amount
}

// TreasuryAddress returns the treasury of the fee mint.
func (f *Fixture) TreasuryAddress(t testing.TB) solana.PublicKey {
	t.Helper()
	addr, _, err := pda.TreasuryAddress(f.ProgramID, f.FeeMint)
	require.NoError(t, err)
	return addr
}

// ExtraAccounts returns the extra accounts a hooked transfer must carry.
func (f *Fixture) ExtraAccounts(t testing.TB) solana.AccountMetaSlice {
	t.Helper()
	list, _, err := taxhooktypes.DefaultExtraAccountMetaList(f.ProgramID, f.HookedMint)
	require.NoError(t, err)
	extras, err := list.Resolve(f.ProgramID, nil)
	require.NoError(t, err)
	return extras
}

// Transfer performs a checked transfer of the hooked mint from the associated
// holding of from to the one of to, with the extra accounts attached.
func (f *Fixture) Transfer(t testing.TB, from, to solana.PublicKey, amount uint64, signers tokentypes.SignerSet) error {
	t.Helper()
	source, _, err := pda.AssociatedHoldingAddress(from, tokentypes.Token2022ProgramID, f.HookedMint)
	require.NoError(t, err)
	destination, _, err := pda.AssociatedHoldingAddress(to, tokentypes.Token2022ProgramID, f.HookedMint)
	require.NoError(t, err)
	return f.Token.TransferChecked(f.Ctx, tokentypes.TransferRequest{
		Source:        source,
		Mint:          f.HookedMint,
		Destination:   destination,
		Authority:     from,
		Amount:        amount,
		Decimals:      appconsts.DefaultDecimals,
		ExtraAccounts: f.ExtraAccounts(t),
	}, signers)
}
