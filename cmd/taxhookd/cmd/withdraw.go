package cmd

import (
	taxhooktypes "github.com/celestiaorg/taxhook/x/taxhook/types"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

func withdrawCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw [amount]",
		Short: "Withdraw collected fees from the treasury",
		Long: `Withdraw amount of the fee mint from the treasury. Only the treasury
authority can withdraw. Funds go to --destination, or by default to the
signer's associated fee holding, which is created if needed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx := getClientContext(cmd)
			signer, err := cctx.Keypair()
			if err != nil {
				return err
			}
			opts := cctx.Config.AppOptions()

			s, err := openState(cctx, signer.PublicKey())
			if err != nil {
				return err
			}
			defer s.Close()

			feeMint, err := s.mint(opts.FeeMint)
			if err != nil {
				return err
			}
			amount, err := ParseAmount(args[0], feeMint.Decimals)
			if err != nil {
				return err
			}

			var ixs []solana.Instruction
			destination, err := cmd.Flags().GetString(FlagDestination)
			if err != nil {
				return err
			}
			var dest solana.PublicKey
			if destination != "" {
				if dest, err = parsePublicKey("destination", destination); err != nil {
					return err
				}
			} else if dest, ixs, err = s.ensureHolding(signer.PublicKey(), signer.PublicKey(), feeMint); err != nil {
				return err
			}

			ix, err := taxhooktypes.NewWithdrawInstruction(opts.ProgramID, signer.PublicKey(), opts.FeeMint, dest, feeMint.TokenProgram, amount)
			if err != nil {
				return err
			}
			res, err := s.send([]solana.PrivateKey{signer}, append(ixs, ix)...)
			if err != nil {
				return err
			}
			cmd.Printf("withdrew %s to %s\nsignature: %s\n", FormatAmount(amount, feeMint.Decimals), dest, res.Signature)
			return nil
		},
	}
	cmd.Flags().String(FlagDestination, "", "Holding receiving the funds")
	return cmd
}
