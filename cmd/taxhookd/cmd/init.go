package cmd

import (
	"github.com/celestiaorg/taxhook/pkg/pda"
	taxhooktypes "github.com/celestiaorg/taxhook/x/taxhook/types"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

func initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Install the extra-account-metas registry of the hooked mint and the fee treasury",
		Long: `Install the extra-account-metas registry of the configured hooked mint
and the treasury of the configured fee mint. The signer pays for both and
becomes the treasury authority. Parts that already exist are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx := getClientContext(cmd)
			signer, err := cctx.Keypair()
			if err != nil {
				return err
			}
			opts := cctx.Config.AppOptions()
			hookedMint := solana.MustPublicKeyFromBase58(cctx.Config.HookedMint)

			s, err := openState(cctx, signer.PublicKey())
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := s.app.QueryContext()
			var ixs []solana.Instruction
			if _, err := s.app.TaxHookKeeper.GetExtraAccountMetaList(ctx, hookedMint); err != nil {
				ix, err := taxhooktypes.NewInitializeExtraAccountMetaListInstruction(opts.ProgramID, signer.PublicKey(), hookedMint)
				if err != nil {
					return err
				}
				ixs = append(ixs, ix)
			} else {
				cmd.Println("registry already initialized")
			}
			if _, err := s.app.TaxHookKeeper.GetTreasury(ctx, opts.FeeMint); err != nil {
				feeMint, err := s.mint(opts.FeeMint)
				if err != nil {
					return err
				}
				ix, err := taxhooktypes.NewInitializeTreasuryInstruction(opts.ProgramID, signer.PublicKey(), opts.FeeMint, feeMint.TokenProgram)
				if err != nil {
					return err
				}
				ixs = append(ixs, ix)
			} else {
				cmd.Println("treasury already initialized")
			}
			if len(ixs) == 0 {
				return nil
			}

			res, err := s.send([]solana.PrivateKey{signer}, ixs...)
			if err != nil {
				return err
			}
			registry, _, err := pda.RegistryAddress(opts.ProgramID, hookedMint)
			if err != nil {
				return err
			}
			treasury, _, err := pda.TreasuryAddress(opts.ProgramID, opts.FeeMint)
			if err != nil {
				return err
			}
			cmd.Printf("registry: %s\ntreasury: %s\nsignature: %s\n", registry, treasury, res.Signature)
			return nil
		},
	}
}
