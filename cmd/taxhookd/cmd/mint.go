package cmd

import (
	"fmt"

	"github.com/celestiaorg/taxhook/pkg/appconsts"
	tokentypes "github.com/celestiaorg/taxhook/x/token/types"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

func mintCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Create mints and issue tokens",
	}
	cmd.AddCommand(mintCreateCommand(), mintToCommand())
	return cmd
}

func mintCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a mint controlled by the signing keypair",
		Long: `Create a mint at a fresh address controlled by the signing keypair. With
--hook the mint is a Token-2022 mint whose transfers run the configured hook
program, and it becomes the configured hooked_mint.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx := getClientContext(cmd)
			signer, err := cctx.Keypair()
			if err != nil {
				return err
			}
			hooked, err := cmd.Flags().GetBool(FlagHook)
			if err != nil {
				return err
			}
			decimals, err := cmd.Flags().GetUint8(FlagDecimals)
			if err != nil {
				return err
			}

			mintKey := solana.NewWallet().PrivateKey
			programID, hookProgram := tokentypes.TokenProgramID, solana.PublicKey{}
			if hooked {
				programID = tokentypes.Token2022ProgramID
				hookProgram = solana.MustPublicKeyFromBase58(cctx.Config.ProgramID)
			}

			s, err := openState(cctx, signer.PublicKey())
			if err != nil {
				return err
			}
			defer s.Close()

			ix := tokentypes.NewInitializeMintInstruction(programID, mintKey.PublicKey(), signer.PublicKey(), decimals, hookProgram)
			res, err := s.send([]solana.PrivateKey{signer, mintKey}, ix)
			if err != nil {
				return err
			}
			cctx.Logger.Info("created mint", "mint", mintKey.PublicKey(), "signature", res.Signature)

			if hooked {
				cfg, err := setConfigValue(cctx.Config, "hooked_mint", mintKey.PublicKey().String())
				if err != nil {
					return err
				}
				if err := WriteConfig(ConfigPath(cctx.Home), cfg); err != nil {
					return err
				}
				cctx.Config = cfg
			}
			cmd.Println(mintKey.PublicKey().String())
			return nil
		},
	}
	cmd.Flags().Bool(FlagHook, false, "Attach the configured hook program to the mint")
	cmd.Flags().Uint8(FlagDecimals, appconsts.DefaultDecimals, "Decimal precision of the mint")
	return cmd
}

func mintToCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "to [mint] [owner] [amount]",
		Short: "Issue tokens into the associated holding of owner",
		Args:  cobra.ExactArgs(3),
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
			owner, err := parsePublicKey("owner", args[1])
			if err != nil {
				return err
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
			amount, err := ParseAmount(args[2], m.Decimals)
			if err != nil {
				return err
			}
			holding, ixs, err := s.ensureHolding(signer.PublicKey(), owner, m)
			if err != nil {
				return err
			}
			ixs = append(ixs, tokentypes.NewMintToInstruction(m.TokenProgram, m.Address, holding, signer.PublicKey(), amount))
			res, err := s.send([]solana.PrivateKey{signer}, ixs...)
			if err != nil {
				return err
			}
			cmd.Printf("minted %s to %s\nsignature: %s\n", args[2], holding, res.Signature)
			return nil
		},
	}
}

func parsePublicKey(name, s string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return pk, nil
}
