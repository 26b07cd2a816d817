package keeper_test

import (
	"github.com/celestiaorg/taxhook/pkg/pda"
	"github.com/celestiaorg/taxhook/testutil"
	"github.com/celestiaorg/taxhook/x/taxhook/types"
	tokentypes "github.com/celestiaorg/taxhook/x/token/types"
	"github.com/gagliardetto/solana-go"
)

func (s *KeeperTestSuite) registryAddress() solana.PublicKey {
	addr, _, err := pda.RegistryAddress(s.f.ProgramID, s.f.HookedMint)
	s.Require().NoError(err)
	return addr
}

func (s *KeeperTestSuite) TestInitializeExtraAccountMetaList() {
	registry := s.registryAddress()
	payer := solana.NewWallet().PublicKey()

	_, err := s.f.TaxHook.InitializeExtraAccountMetaList(s.f.Ctx, payer, registry, s.f.HookedMint, testutil.Signers())
	s.Require().ErrorIs(err, types.ErrMissingSignature)

	_, err = s.f.TaxHook.InitializeExtraAccountMetaList(s.f.Ctx, payer, solana.NewWallet().PublicKey(), s.f.HookedMint, testutil.Signers(payer))
	s.Require().ErrorIs(err, types.ErrInvalidAccount)

	list, err := s.f.TaxHook.InitializeExtraAccountMetaList(s.f.Ctx, payer, registry, s.f.HookedMint, testutil.Signers(payer))
	s.Require().NoError(err)
	s.Require().Len(list.Metas, 2)
	s.Require().Equal(registry, list.Metas[0].Address)
	s.Require().Equal(s.f.ProgramID, list.Metas[1].Address)

	// a second setup fails and leaves the registry as it was
	other := solana.NewWallet().PublicKey()
	_, err = s.f.TaxHook.InitializeExtraAccountMetaList(s.f.Ctx, other, registry, s.f.HookedMint, testutil.Signers(other))
	s.Require().ErrorIs(err, types.ErrAlreadyInitialized)

	stored, err := s.f.TaxHook.GetExtraAccountMetaList(s.f.Ctx, s.f.HookedMint)
	s.Require().NoError(err)
	s.Require().Equal(list.Bump, stored.Bump)
	s.Require().Len(stored.Metas, 2)
	s.Require().Equal(registry, stored.Metas[0].Address)
}

func (s *KeeperTestSuite) TestInitializeExtraAccountMetaListForeignMint() {
	registry, _, err := pda.RegistryAddress(s.f.ProgramID, s.f.FeeMint)
	s.Require().NoError(err)
	_, err = s.f.TaxHook.InitializeExtraAccountMetaList(s.f.Ctx, s.admin, registry, s.f.FeeMint, testutil.Signers(s.admin))
	s.Require().ErrorIs(err, types.ErrMintNotHooked)

	unknown := solana.NewWallet().PublicKey()
	registry, _, err = pda.RegistryAddress(s.f.ProgramID, unknown)
	s.Require().NoError(err)
	_, err = s.f.TaxHook.InitializeExtraAccountMetaList(s.f.Ctx, s.admin, registry, unknown, testutil.Signers(s.admin))
	s.Require().ErrorIs(err, tokentypes.ErrMintNotFound)
}

func (s *KeeperTestSuite) TestUpdateExtraAccountMetaList() {
	registry := s.registryAddress()
	extra := solana.NewWallet().PublicKey()
	metas := []types.ExtraAccountMeta{
		types.FixedMeta(registry, false, false),
		types.FixedMeta(s.f.ProgramID, false, false),
		types.FixedMeta(extra, false, false),
	}

	_, err := s.f.TaxHook.UpdateExtraAccountMetaList(s.f.Ctx, s.f.Authority, registry, s.f.HookedMint, metas, testutil.Signers(s.f.Authority))
	s.Require().ErrorIs(err, types.ErrRegistryNotFound)

	s.setup()

	_, err = s.f.TaxHook.UpdateExtraAccountMetaList(s.f.Ctx, s.admin, registry, s.f.HookedMint, metas, testutil.Signers(s.admin))
	s.Require().ErrorIs(err, types.ErrUnauthorizedUpdate)

	_, err = s.f.TaxHook.UpdateExtraAccountMetaList(s.f.Ctx, s.f.Authority, registry, s.f.HookedMint, metas, testutil.Signers())
	s.Require().ErrorIs(err, types.ErrUnauthorizedUpdate)

	bad := []types.ExtraAccountMeta{types.FixedMeta(solana.PublicKey{}, false, false)}
	_, err = s.f.TaxHook.UpdateExtraAccountMetaList(s.f.Ctx, s.f.Authority, registry, s.f.HookedMint, bad, testutil.Signers(s.f.Authority))
	s.Require().ErrorIs(err, types.ErrInvalidExtraAccount)

	list, err := s.f.TaxHook.UpdateExtraAccountMetaList(s.f.Ctx, s.f.Authority, registry, s.f.HookedMint, metas, testutil.Signers(s.f.Authority))
	s.Require().NoError(err)
	s.Require().Len(list.Metas, 3)

	// transfers carrying only the default accounts are now rejected
	s.Require().ErrorIs(s.transfer(transferAmount), tokentypes.ErrIncorrectAccount)

	extras := append(s.f.ExtraAccounts(s.T()), solana.Meta(extra))
	err = s.f.Token.TransferChecked(s.f.Ctx, tokentypes.TransferRequest{
		Source:        s.adminHolding,
		Mint:          s.f.HookedMint,
		Destination:   s.recipientHolding,
		Authority:     s.admin,
		Amount:        transferAmount,
		Decimals:      9,
		ExtraAccounts: extras,
	}, testutil.Signers(s.admin))
	s.Require().NoError(err)
	s.Require().Equal(expectedFee, s.f.Balance(s.T(), s.treasury))
}

func (s *KeeperTestSuite) TestInitializeTreasury() {
	payer := solana.NewWallet().PublicKey()

	_, err := s.f.TaxHook.InitializeTreasury(s.f.Ctx, payer, s.treasury, s.f.FeeMint, tokentypes.TokenProgramID, testutil.Signers())
	s.Require().ErrorIs(err, types.ErrMissingSignature)

	_, err = s.f.TaxHook.InitializeTreasury(s.f.Ctx, payer, solana.NewWallet().PublicKey(), s.f.FeeMint, tokentypes.TokenProgramID, testutil.Signers(payer))
	s.Require().ErrorIs(err, types.ErrInvalidAccount)

	_, err = s.f.TaxHook.InitializeTreasury(s.f.Ctx, payer, s.treasury, s.f.FeeMint, tokentypes.Token2022ProgramID, testutil.Signers(payer))
	s.Require().ErrorIs(err, types.ErrInvalidAccount)

	info, err := s.f.TaxHook.InitializeTreasury(s.f.Ctx, payer, s.treasury, s.f.FeeMint, tokentypes.TokenProgramID, testutil.Signers(payer))
	s.Require().NoError(err)
	s.Require().Equal(payer, info.Authority)
	s.Require().Zero(info.Balance)

	holding, err := s.f.Token.GetHolding(s.f.Ctx, s.treasury)
	s.Require().NoError(err)
	s.Require().Equal(s.treasury, holding.Owner, "the treasury must own its holding")
	s.Require().Equal(s.f.FeeMint, holding.Mint)

	// a second setup cannot rebind the authority
	other := solana.NewWallet().PublicKey()
	_, err = s.f.TaxHook.InitializeTreasury(s.f.Ctx, other, s.treasury, s.f.FeeMint, tokentypes.TokenProgramID, testutil.Signers(other))
	s.Require().ErrorIs(err, types.ErrAlreadyInitialized)

	info, err = s.f.TaxHook.GetTreasury(s.f.Ctx, s.f.FeeMint)
	s.Require().NoError(err)
	s.Require().Equal(payer, info.Authority)
}

func (s *KeeperTestSuite) TestGetTreasuryNotFound() {
	_, err := s.f.TaxHook.GetTreasury(s.f.Ctx, s.f.FeeMint)
	s.Require().ErrorIs(err, types.ErrTreasuryNotFound)
}
