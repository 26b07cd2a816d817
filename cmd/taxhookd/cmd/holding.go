package cmd

import (
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

func holdingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holding",
		Short: "Manage token holdings",
	}
	cmd.AddCommand(holdingCreateCommand())
	return cmd
}

func holdingCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create [mint] [owner]",
		Short: "Create the associated holding of owner, the signer by default, for mint",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx := getClientContext(cmd)
			signer, err := cctx.Keypair()
			if err != nil {
				return err
			}
			mintAddr, err := parsePublicKey("mint", args[0])
			if err != nil {
				return err
			}
			owner := signer.PublicKey()
			if len(args) == 2 {
				if owner, err = parsePublicKey("owner", args[1]); err != nil {
					return err
				}
			}

			s, err := openState(cctx, signer.PublicKey())
			if err != nil {
				return err
			}
			defer s.Close()

			m, err := s.mint(mintAddr)
			if err != nil {
				return err
			}
			holding, ixs, err := s.ensureHolding(signer.PublicKey(), owner, m)
			if err != nil {
				return err
			}
			if len(ixs) > 0 {
				if _, err := s.send([]solana.PrivateKey{signer}, ixs...); err != nil {
					return err
				}
			}
			cmd.Println(holding.String())
			return nil
		},
	}
}
