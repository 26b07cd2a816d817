package cmd

import (
	tokentypes "github.com/celestiaorg/taxhook/x/token/types"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

func transferCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer [recipient] [amount]",
		Short: "Transfer hooked tokens to recipient, paying the transfer fee",
		Long: `Transfer amount of the configured hooked mint from the signer to the
associated holding of recipient, creating it if needed. The hook charges the
fee in the fee mint from the signer's associated fee holding.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx := getClientContext(cmd)
			signer, err := cctx.Keypair()
			if err != nil {
				return err
			}
			recipient, err := parsePublicKey("recipient", args[0])
			if err != nil {
				return err
			}
			hookedMint := solana.MustPublicKeyFromBase58(cctx.Config.HookedMint)

			s, err := openState(cctx, signer.PublicKey())
			if err != nil {
				return err
			}
			defer s.Close()

			m, err := s.mint(hookedMint)
			if err != nil {
				return err
			}
			amount, err := ParseAmount(args[1], m.Decimals)
			if err != nil {
				return err
			}
			source, _, err := s.associatedHolding(signer.PublicKey(), m)
			if err != nil {
				return err
			}
			destination, ixs, err := s.ensureHolding(signer.PublicKey(), recipient, m)
			if err != nil {
				return err
			}

			base := tokentypes.TransferBaseAccounts(source, m.Address, destination, signer.PublicKey())
			extra, err := s.app.TaxHookKeeper.ExtraAccountMetas(s.app.QueryContext(), m.Address, base)
			if err != nil {
				return err
			}
			fee, err := s.app.TaxHookKeeper.ComputeFee(amount)
			if err != nil {
				return err
			}

			ixs = append(ixs, tokentypes.NewTransferCheckedInstruction(m.TokenProgram, source, m.Address, destination, signer.PublicKey(), amount, m.Decimals, extra))
			res, err := s.send([]solana.PrivateKey{signer}, ixs...)
			if err != nil {
				return err
			}
			feeMint, err := s.mint(s.app.TaxHookKeeper.FeeMint())
			if err != nil {
				return err
			}
			cmd.Printf("transferred %s to %s\nfee: %s\nsignature: %s\n",
				FormatAmount(amount, m.Decimals), destination, FormatAmount(fee, feeMint.Decimals), res.Signature)
			return nil
		},
	}
}
