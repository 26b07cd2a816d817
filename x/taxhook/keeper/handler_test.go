package keeper_test

import (
	"github.com/celestiaorg/taxhook/testutil"
	"github.com/celestiaorg/taxhook/x/taxhook/types"
	tokentypes "github.com/celestiaorg/taxhook/x/token/types"
	"github.com/gagliardetto/solana-go"
)

func (s *KeeperTestSuite) process(ix solana.Instruction, signers tokentypes.SignerSet) error {
	data, err := ix.Data()
	s.Require().NoError(err)
	return s.f.TaxHook.ProcessInstruction(s.f.Ctx, ix.ProgramID(), ix.Accounts(), data, signers)
}

func (s *KeeperTestSuite) TestProcessInstruction() {
	signers := testutil.Signers(s.admin)

	ix, err := types.NewInitializeExtraAccountMetaListInstruction(s.f.ProgramID, s.admin, s.f.HookedMint)
	s.Require().NoError(err)
	s.Require().NoError(s.process(ix, signers))
	s.Require().ErrorIs(s.process(ix, signers), types.ErrAlreadyInitialized)

	ix, err = types.NewInitializeTreasuryInstruction(s.f.ProgramID, s.admin, s.f.FeeMint, tokentypes.TokenProgramID)
	s.Require().NoError(err)
	s.Require().NoError(s.process(ix, signers))
	s.Require().ErrorIs(s.process(ix, signers), types.ErrAlreadyInitialized)

	s.Require().NoError(s.transfer(transferAmount))

	ix, err = types.NewWithdrawInstruction(s.f.ProgramID, s.admin, s.f.FeeMint, s.adminFeeHolding, tokentypes.TokenProgramID, expectedFee)
	s.Require().NoError(err)
	s.Require().NoError(s.process(ix, signers))
	s.Require().Zero(s.f.Balance(s.T(), s.treasury))
}

func (s *KeeperTestSuite) TestProcessInstructionValidatesAccounts() {
	signers := testutil.Signers(s.admin)
	registry := s.registryAddress()

	testCases := []struct {
		name     string
		accounts solana.AccountMetaSlice
		expErr   error
	}{
		{
			name:     "too few accounts",
			accounts: solana.AccountMetaSlice{solana.Meta(s.admin).SIGNER().WRITE()},
			expErr:   types.ErrInvalidAccount,
		},
		{
			name: "payer flagged read-only signer",
			accounts: solana.AccountMetaSlice{
				solana.Meta(s.admin).SIGNER(),
				solana.Meta(registry).WRITE(),
				solana.Meta(s.f.HookedMint),
				solana.Meta(tokentypes.SystemProgramID),
			},
			expErr: types.ErrInvalidAccount,
		},
		{
			name: "payer not flagged as signer",
			accounts: solana.AccountMetaSlice{
				solana.Meta(s.admin).WRITE(),
				solana.Meta(registry).WRITE(),
				solana.Meta(s.f.HookedMint),
				solana.Meta(tokentypes.SystemProgramID),
			},
			expErr: types.ErrMissingSignature,
		},
		{
			name: "wrong system program",
			accounts: solana.AccountMetaSlice{
				solana.Meta(s.admin).SIGNER().WRITE(),
				solana.Meta(registry).WRITE(),
				solana.Meta(s.f.HookedMint),
				solana.Meta(tokentypes.TokenProgramID),
			},
			expErr: types.ErrInvalidAccount,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			data, err := types.EncodeInstruction(&types.InitializeExtraAccountMetaList{})
			s.Require().NoError(err)
			err = s.f.TaxHook.ProcessInstruction(s.f.Ctx, s.f.ProgramID, tc.accounts, data, signers)
			s.Require().ErrorIs(err, tc.expErr)
			_, err = s.f.TaxHook.GetExtraAccountMetaList(s.f.Ctx, s.f.HookedMint)
			s.Require().ErrorIs(err, types.ErrRegistryNotFound)
		})
	}
}

func (s *KeeperTestSuite) TestProcessInstructionRejectsExecute() {
	s.setup()
	ix, err := types.NewExecuteInstruction(s.f.ProgramID, s.adminHolding, s.f.HookedMint, s.recipientHolding, s.admin, transferAmount, s.f.ExtraAccounts(s.T()))
	s.Require().NoError(err)
	s.Require().ErrorIs(s.process(ix, testutil.Signers(s.admin)), types.ErrDirectInvocation)
	s.Require().Zero(s.f.Balance(s.T(), s.treasury))
}

func (s *KeeperTestSuite) TestProcessInstructionWrongProgram() {
	ix, err := types.NewInitializeExtraAccountMetaListInstruction(solana.NewWallet().PublicKey(), s.admin, s.f.HookedMint)
	s.Require().NoError(err)
	s.Require().ErrorIs(s.process(ix, testutil.Signers(s.admin)), types.ErrInvalidInstruction)

	err = s.f.TaxHook.ProcessInstruction(s.f.Ctx, s.f.ProgramID, nil, []byte{1, 2, 3}, testutil.Signers())
	s.Require().ErrorIs(err, types.ErrInvalidInstruction)
}
