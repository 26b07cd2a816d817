package keeper_test

import (
	"github.com/celestiaorg/taxhook/testutil"
	"github.com/celestiaorg/taxhook/x/taxhook/types"
	tokentypes "github.com/celestiaorg/taxhook/x/token/types"
	"github.com/gagliardetto/solana-go"
)

func (s *KeeperTestSuite) withdraw(authority, destination solana.PublicKey, amount uint64, signers tokentypes.SignerSet) error {
	return s.f.TaxHook.Withdraw(s.f.Ctx, authority, s.f.FeeMint, s.treasury, destination, tokentypes.TokenProgramID, amount, signers)
}

// TestWithdrawAll drains the treasury after a charged transfer.
func (s *KeeperTestSuite) TestWithdrawAll() {
	s.setup()
	s.Require().NoError(s.transfer(transferAmount))
	before := s.f.Balance(s.T(), s.adminFeeHolding)

	s.Require().NoError(s.withdraw(s.admin, s.adminFeeHolding, expectedFee, testutil.Signers(s.admin)))

	s.Require().Zero(s.f.Balance(s.T(), s.treasury))
	s.Require().Equal(before+expectedFee, s.f.Balance(s.T(), s.adminFeeHolding))

	err := s.withdraw(s.admin, s.adminFeeHolding, 1, testutil.Signers(s.admin))
	s.Require().ErrorIs(err, types.ErrInsufficientFunds)
	s.Require().Zero(s.f.Balance(s.T(), s.treasury))
	s.Require().Equal(before+expectedFee, s.f.Balance(s.T(), s.adminFeeHolding))
}

// TestTreasuryAccounting checks that the treasury always holds the fees
// collected minus the amounts withdrawn.
func (s *KeeperTestSuite) TestTreasuryAccounting() {
	s.setup()
	signers := testutil.Signers(s.admin)
	var collected, withdrawn uint64

	steps := []struct {
		transfer uint64
		withdraw uint64
	}{
		{transfer: transferAmount},
		{transfer: 500 * oneToken, withdraw: 7 * oneToken},
		{withdraw: 8 * oneToken},
		{transfer: 333 * oneToken},
		{transfer: 99},
		{transfer: 1, withdraw: oneToken},
	}
	for _, step := range steps {
		if step.transfer > 0 {
			s.Require().NoError(s.transfer(step.transfer))
			fee, err := s.f.TaxHook.ComputeFee(step.transfer)
			s.Require().NoError(err)
			collected += fee
		}
		if step.withdraw > 0 {
			s.Require().NoError(s.withdraw(s.admin, s.adminFeeHolding, step.withdraw, signers))
			withdrawn += step.withdraw
		}

		info, err := s.f.TaxHook.GetTreasury(s.f.Ctx, s.f.FeeMint)
		s.Require().NoError(err)
		s.Require().Equal(collected-withdrawn, info.Balance)
		s.Require().Equal(collected-withdrawn, s.f.Balance(s.T(), s.treasury))
	}
	s.Require().Equal(100*oneToken-collected+withdrawn, s.f.Balance(s.T(), s.adminFeeHolding))
}

func (s *KeeperTestSuite) TestWithdrawUnauthorized() {
	s.setup()
	s.Require().NoError(s.transfer(transferAmount))
	attacker := solana.NewWallet().PublicKey()
	attackerHolding := s.f.Fund(s.T(), s.f.FeeMint, attacker, 0)

	testCases := []struct {
		name      string
		authority solana.PublicKey
		signers   tokentypes.SignerSet
	}{
		{name: "signer is not the authority", authority: attacker, signers: testutil.Signers(attacker)},
		{name: "authority did not sign", authority: s.admin, signers: testutil.Signers(attacker)},
		{name: "no signers", authority: s.admin, signers: testutil.Signers()},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := s.withdraw(tc.authority, attackerHolding, expectedFee, tc.signers)
			s.Require().ErrorIs(err, types.ErrUnauthorizedWithdrawal)
			s.Require().Equal("signature verification failed", types.ErrUnauthorizedWithdrawal.Error())
			s.Require().Equal(expectedFee, s.f.Balance(s.T(), s.treasury))
			s.Require().Zero(s.f.Balance(s.T(), attackerHolding))
		})
	}
}

func (s *KeeperTestSuite) TestWithdrawValidation() {
	s.setup()
	s.Require().NoError(s.transfer(transferAmount))
	signers := testutil.Signers(s.admin)

	s.Require().ErrorIs(s.withdraw(s.admin, s.adminFeeHolding, 0, signers), types.ErrInvalidAmount)
	s.Require().ErrorIs(s.withdraw(s.admin, s.adminFeeHolding, expectedFee+1, signers), types.ErrInsufficientFunds)

	// destination must be a holding of the fee mint
	s.Require().ErrorIs(s.withdraw(s.admin, s.recipientHolding, 1, signers), types.ErrInvalidAccount)

	// the treasury cannot pay itself
	events := len(s.f.Ctx.EventManager().Events())
	s.Require().ErrorIs(s.withdraw(s.admin, s.treasury, 1, signers), types.ErrInvalidAccount)
	s.Require().Len(s.f.Ctx.EventManager().Events(), events)

	err := s.f.TaxHook.Withdraw(s.f.Ctx, s.admin, s.f.FeeMint, solana.NewWallet().PublicKey(), s.adminFeeHolding, tokentypes.TokenProgramID, 1, signers)
	s.Require().ErrorIs(err, types.ErrInvalidAccount)

	err = s.f.TaxHook.Withdraw(s.f.Ctx, s.admin, s.f.FeeMint, s.treasury, s.adminFeeHolding, tokentypes.Token2022ProgramID, 1, signers)
	s.Require().ErrorIs(err, types.ErrInvalidAccount)

	s.Require().Equal(expectedFee, s.f.Balance(s.T(), s.treasury))
}

func (s *KeeperTestSuite) TestWithdrawWithoutTreasury() {
	err := s.withdraw(s.admin, s.adminFeeHolding, 1, testutil.Signers(s.admin))
	s.Require().ErrorIs(err, types.ErrTreasuryNotFound)
}

func (s *KeeperTestSuite) TestWithdrawToOtherDestination() {
	s.setup()
	s.Require().NoError(s.transfer(transferAmount))
	recipientFeeHolding := s.f.Fund(s.T(), s.f.FeeMint, s.recipient, 0)

	s.Require().NoError(s.withdraw(s.admin, recipientFeeHolding, 4*oneToken, testutil.Signers(s.admin)))
	s.Require().Equal(6*oneToken, s.f.Balance(s.T(), s.treasury))
	s.Require().Equal(4*oneToken, s.f.Balance(s.T(), recipientFeeHolding))
}
