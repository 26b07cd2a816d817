package app_test

import (
	"testing"

	"cosmossdk.io/log"
	"github.com/celestiaorg/taxhook/app"
	apperrors "github.com/celestiaorg/taxhook/app/errors"
	"github.com/celestiaorg/taxhook/pkg/appconsts"
	"github.com/celestiaorg/taxhook/pkg/pda"
	"github.com/celestiaorg/taxhook/testutil/testfactory"
	taxhooktypes "github.com/celestiaorg/taxhook/x/taxhook/types"
	tokentypes "github.com/celestiaorg/taxhook/x/token/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	oneToken       = uint64(1_000_000_000)
	transferAmount = 1000 * oneToken
	expectedFee    = 10 * oneToken
	feeFunding     = 20 * oneToken
)

type AppTestSuite struct {
	suite.Suite

	db  dbm.DB
	app *app.App

	opts       app.Options
	admin      solana.PrivateKey
	sender     solana.PrivateKey
	recipient  solana.PrivateKey
	impostor   solana.PrivateKey
	hookedMint solana.PrivateKey
}

func TestAppTestSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func (s *AppTestSuite) SetupTest() {
	keys := testfactory.GenerateKeys(5)
	s.admin, s.sender, s.recipient, s.impostor, s.hookedMint = keys[0], keys[1], keys[2], keys[3], keys[4]

	s.opts = app.DefaultOptions()
	s.opts.NativeMintAuthority = s.admin.PublicKey()

	s.db = dbm.NewMemDB()
	var err error
	s.app, err = app.New(log.NewNopLogger(), s.db, s.opts)
	s.Require().NoError(err)

	s.deliver([]solana.PrivateKey{s.admin, s.hookedMint},
		tokentypes.NewInitializeMintInstruction(tokentypes.Token2022ProgramID, s.mint(), s.admin.PublicKey(), appconsts.DefaultDecimals, s.opts.ProgramID),
		s.must(taxhooktypes.NewInitializeExtraAccountMetaListInstruction(s.opts.ProgramID, s.admin.PublicKey(), s.mint())),
		s.must(taxhooktypes.NewInitializeTreasuryInstruction(s.opts.ProgramID, s.admin.PublicKey(), app.NativeMint, tokentypes.TokenProgramID)),
	)

	admin := s.admin.PublicKey()
	s.deliver([]solana.PrivateKey{s.admin},
		s.must(tokentypes.NewCreateAssociatedHoldingInstruction(tokentypes.Token2022ProgramID, admin, s.sender.PublicKey(), s.mint())),
		s.must(tokentypes.NewCreateAssociatedHoldingInstruction(tokentypes.Token2022ProgramID, admin, s.recipient.PublicKey(), s.mint())),
		s.must(tokentypes.NewCreateAssociatedHoldingInstruction(tokentypes.TokenProgramID, admin, s.sender.PublicKey(), app.NativeMint)),
		s.must(tokentypes.NewCreateAssociatedHoldingInstruction(tokentypes.TokenProgramID, admin, admin, app.NativeMint)),
		s.must(tokentypes.NewCreateAssociatedHoldingInstruction(tokentypes.TokenProgramID, admin, s.impostor.PublicKey(), app.NativeMint)),
		tokentypes.NewMintToInstruction(tokentypes.Token2022ProgramID, s.mint(), s.hookedHolding(s.sender), admin, transferAmount),
		tokentypes.NewMintToInstruction(tokentypes.TokenProgramID, app.NativeMint, s.feeHolding(s.sender.PublicKey()), admin, feeFunding),
	)
	s.app.Commit()
}

func (s *AppTestSuite) mint() solana.PublicKey {
	return s.hookedMint.PublicKey()
}

func (s *AppTestSuite) must(ix solana.Instruction, err error) solana.Instruction {
	s.Require().NoError(err)
	return ix
}

func (s *AppTestSuite) hookedHolding(owner solana.PrivateKey) solana.PublicKey {
	addr, _, err := pda.AssociatedHoldingAddress(owner.PublicKey(), tokentypes.Token2022ProgramID, s.mint())
	s.Require().NoError(err)
	return addr
}

func (s *AppTestSuite) feeHolding(owner solana.PublicKey) solana.PublicKey {
	addr, _, err := pda.AssociatedHoldingAddress(owner, tokentypes.TokenProgramID, app.NativeMint)
	s.Require().NoError(err)
	return addr
}

func (s *AppTestSuite) treasury() solana.PublicKey {
	addr, _, err := pda.TreasuryAddress(s.opts.ProgramID, app.NativeMint)
	s.Require().NoError(err)
	return addr
}

func (s *AppTestSuite) extraAccounts() solana.AccountMetaSlice {
	list, _, err := taxhooktypes.DefaultExtraAccountMetaList(s.opts.ProgramID, s.mint())
	s.Require().NoError(err)
	extras, err := list.Resolve(s.opts.ProgramID, nil)
	s.Require().NoError(err)
	return extras
}

func (s *AppTestSuite) balance(addr solana.PublicKey) uint64 {
	amount, err := s.app.TokenKeeper.Balance(s.app.QueryContext(), addr)
	s.Require().NoError(err)
	return amount
}

func (s *AppTestSuite) buildTx(keys []solana.PrivateKey, instructions ...solana.Instruction) *solana.Transaction {
	tx, err := app.BuildTransaction(s.app.LatestBlockhash(), keys, instructions...)
	s.Require().NoError(err)
	return tx
}

func (s *AppTestSuite) deliver(keys []solana.PrivateKey, instructions ...solana.Instruction) app.TxResult {
	res, err := s.app.DeliverTx(s.buildTx(keys, instructions...))
	s.Require().NoError(err)
	s.Require().True(res.IsOK())
	return res
}

func (s *AppTestSuite) transferInstruction(extra solana.AccountMetaSlice) solana.Instruction {
	return tokentypes.NewTransferCheckedInstruction(
		tokentypes.Token2022ProgramID,
		s.hookedHolding(s.sender),
		s.mint(),
		s.hookedHolding(s.recipient),
		s.sender.PublicKey(),
		transferAmount,
		appconsts.DefaultDecimals,
		extra,
	)
}

func (s *AppTestSuite) withdrawInstruction(authority, destination solana.PublicKey, amount uint64) solana.Instruction {
	return s.must(taxhooktypes.NewWithdrawInstruction(s.opts.ProgramID, authority, app.NativeMint, destination, tokentypes.TokenProgramID, amount))
}

func (s *AppTestSuite) TestTransferCollectsFee() {
	res := s.deliver([]solana.PrivateKey{s.sender}, s.transferInstruction(s.extraAccounts()))

	s.Require().Equal(uint64(0), s.balance(s.hookedHolding(s.sender)))
	s.Require().Equal(transferAmount, s.balance(s.hookedHolding(s.recipient)))
	s.Require().Equal(feeFunding-expectedFee, s.balance(s.feeHolding(s.sender.PublicKey())))
	s.Require().Equal(expectedFee, s.balance(s.treasury()))

	var collected bool
	for _, ev := range res.Events {
		if ev.Type == taxhooktypes.EventTypeFeeCollected {
			collected = true
		}
	}
	s.Require().True(collected, "fee collection event expected")
}

func (s *AppTestSuite) TestWithdrawByAuthority() {
	s.deliver([]solana.PrivateKey{s.sender}, s.transferInstruction(s.extraAccounts()))

	admin := s.admin.PublicKey()
	s.deliver([]solana.PrivateKey{s.admin}, s.withdrawInstruction(admin, s.feeHolding(admin), expectedFee))

	s.Require().Equal(uint64(0), s.balance(s.treasury()))
	s.Require().Equal(expectedFee, s.balance(s.feeHolding(admin)))
}

func (s *AppTestSuite) TestWithdrawByImpostor() {
	s.deliver([]solana.PrivateKey{s.sender}, s.transferInstruction(s.extraAccounts()))

	impostor := s.impostor.PublicKey()
	res, err := s.app.DeliverTx(s.buildTx([]solana.PrivateKey{s.impostor}, s.withdrawInstruction(impostor, s.feeHolding(impostor), expectedFee)))
	s.Require().ErrorIs(err, taxhooktypes.ErrUnauthorizedWithdrawal)
	s.Require().False(res.IsOK())
	s.Require().Equal(taxhooktypes.ModuleName, res.Codespace)
	s.Require().Equal(expectedFee, s.balance(s.treasury()))
	s.Require().Equal(uint64(0), s.balance(s.feeHolding(impostor)))
}

// TestWithdrawWithForgedSignature names the real authority but fills its
// signature slot with a signature from another key.
func (s *AppTestSuite) TestWithdrawWithForgedSignature() {
	s.deliver([]solana.PrivateKey{s.sender}, s.transferInstruction(s.extraAccounts()))

	admin, impostor := s.admin.PublicKey(), s.impostor.PublicKey()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{s.withdrawInstruction(admin, s.feeHolding(impostor), expectedFee)},
		s.app.LatestBlockhash(),
		solana.TransactionPayer(impostor),
	)
	s.Require().NoError(err)
	msg, err := tx.Message.MarshalBinary()
	s.Require().NoError(err)
	for i := 0; i < int(tx.Message.Header.NumRequiredSignatures); i++ {
		sig, err := s.impostor.Sign(msg)
		s.Require().NoError(err)
		tx.Signatures = append(tx.Signatures, sig)
	}

	res, err := s.app.DeliverTx(tx)
	s.Require().ErrorIs(err, apperrors.ErrSignatureVerification)
	s.Require().Equal(apperrors.AppErrorsCodespace, res.Codespace)
	s.Require().Equal(expectedFee, s.balance(s.treasury()))
}

func (s *AppTestSuite) TestTransferWithoutExtraAccounts() {
	_, err := s.app.DeliverTx(s.buildTx([]solana.PrivateKey{s.sender}, s.transferInstruction(nil)))
	s.Require().ErrorIs(err, tokentypes.ErrIncorrectAccount)

	s.Require().Equal(transferAmount, s.balance(s.hookedHolding(s.sender)))
	s.Require().Equal(uint64(0), s.balance(s.hookedHolding(s.recipient)))
	s.Require().Equal(feeFunding, s.balance(s.feeHolding(s.sender.PublicKey())))
	s.Require().Equal(uint64(0), s.balance(s.treasury()))
}

func (s *AppTestSuite) TestReplayRejected() {
	tx := s.buildTx([]solana.PrivateKey{s.admin},
		tokentypes.NewMintToInstruction(tokentypes.TokenProgramID, app.NativeMint, s.feeHolding(s.sender.PublicKey()), s.admin.PublicKey(), oneToken),
	)
	_, err := s.app.DeliverTx(tx)
	s.Require().NoError(err)

	_, err = s.app.DeliverTx(tx)
	s.Require().ErrorIs(err, apperrors.ErrAlreadyProcessed)
	s.Require().Equal(feeFunding+oneToken, s.balance(s.feeHolding(s.sender.PublicKey())))
}

func (s *AppTestSuite) TestUnknownProgram() {
	unknown := solana.NewWallet().PublicKey()
	ix := solana.NewInstruction(unknown, solana.AccountMetaSlice{solana.Meta(s.admin.PublicKey()).WRITE().SIGNER()}, []byte{1})
	_, err := s.app.DeliverTx(s.buildTx([]solana.PrivateKey{s.admin}, ix))
	s.Require().ErrorIs(err, apperrors.ErrUnknownProgram)
}

// TestTransactionIsAtomic sends a valid mint followed by a failing transfer:
// neither must be applied.
func (s *AppTestSuite) TestTransactionIsAtomic() {
	_, err := s.app.DeliverTx(s.buildTx([]solana.PrivateKey{s.admin, s.sender},
		tokentypes.NewMintToInstruction(tokentypes.TokenProgramID, app.NativeMint, s.feeHolding(s.sender.PublicKey()), s.admin.PublicKey(), oneToken),
		s.transferInstruction(nil),
	))
	s.Require().ErrorIs(err, tokentypes.ErrIncorrectAccount)
	s.Require().Equal(feeFunding, s.balance(s.feeHolding(s.sender.PublicKey())))
}

func (s *AppTestSuite) TestDirectExecuteRejected() {
	ix := s.must(taxhooktypes.NewExecuteInstruction(
		s.opts.ProgramID,
		s.hookedHolding(s.sender),
		s.mint(),
		s.hookedHolding(s.recipient),
		s.sender.PublicKey(),
		transferAmount,
		s.extraAccounts(),
	))
	_, err := s.app.DeliverTx(s.buildTx([]solana.PrivateKey{s.sender}, ix))
	s.Require().ErrorIs(err, taxhooktypes.ErrDirectInvocation)
	s.Require().Equal(feeFunding, s.balance(s.feeHolding(s.sender.PublicKey())))
}

func (s *AppTestSuite) TestMissingSigner() {
	_, err := s.app.DeliverTx(&solana.Transaction{})
	s.Require().ErrorIs(err, apperrors.ErrInvalidTransaction)

	_, err = s.app.DeliverTx(nil)
	s.Require().ErrorIs(err, apperrors.ErrInvalidTransaction)
}

func (s *AppTestSuite) TestCommitPersistsState() {
	before := s.app.LatestBlockhash()
	height := s.app.Height()

	s.deliver([]solana.PrivateKey{s.sender}, s.transferInstruction(s.extraAccounts()))
	after := s.app.Commit()
	s.Require().NotEqual(before, after)
	s.Require().Equal(height+1, s.app.Height())
	s.Require().Equal(after, s.app.LatestBlockhash())

	reopened, err := app.New(log.NewNopLogger(), s.db, s.opts)
	s.Require().NoError(err)
	s.Require().Equal(after, reopened.LatestBlockhash())
	amount, err := reopened.TokenKeeper.Balance(reopened.QueryContext(), s.treasury())
	s.Require().NoError(err)
	s.Require().Equal(expectedFee, amount)
}

func TestNewRejectsInvalidFeeRate(t *testing.T) {
	opts := app.DefaultOptions()
	opts.FeeBasisPoints = appconsts.BasisPointsDenominator + 1
	_, err := app.New(log.NewNopLogger(), dbm.NewMemDB(), opts)
	require.ErrorIs(t, err, taxhooktypes.ErrInvalidFeeRate)
}

func TestBuildTransactionRequiresKeys(t *testing.T) {
	_, err := app.BuildTransaction(solana.Hash{}, nil)
	require.Error(t, err)
}
