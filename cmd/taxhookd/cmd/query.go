package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/celestiaorg/taxhook/pkg/pda"
	taxhooktypes "github.com/celestiaorg/taxhook/x/taxhook/types"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

func queryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "query",
		Aliases: []string{"q"},
		Short:   "Query the ledger",
	}
	cmd.AddCommand(queryTreasuryCommand(), queryRegistryCommand(), queryBalanceCommand())
	cmd.PersistentFlags().String(FlagOutput, "json", "Output format (json|yaml)")
	return cmd
}

func queryTreasuryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "treasury",
		Short: "Print the treasury of the configured fee mint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx := getClientContext(cmd)
			s, err := openState(cctx, solana.PublicKey{})
			if err != nil {
				return err
			}
			defer s.Close()

			info, err := s.app.TaxHookKeeper.GetTreasury(s.app.QueryContext(), s.app.TaxHookKeeper.FeeMint())
			if err != nil {
				return err
			}
			return printOutput(cmd, info)
		},
	}
}

type registryOutput struct {
	Address solana.PublicKey `json:"address"`
	Mint    solana.PublicKey `json:"mint"`
	Bump    uint8            `json:"bump"`
	Metas   []metaOutput     `json:"metas"`
}

type metaOutput struct {
	Address    *solana.PublicKey `json:"address,omitempty"`
	Seeds      int               `json:"seeds,omitempty"`
	IsSigner   bool              `json:"is_signer"`
	IsWritable bool              `json:"is_writable"`
}

func queryRegistryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "registry [mint]",
		Short: "Print the extra-account-metas registry of mint, the hooked mint by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx := getClientContext(cmd)
			mint := solana.MustPublicKeyFromBase58(cctx.Config.HookedMint)
			if len(args) == 1 {
				var err error
				if mint, err = parsePublicKey("mint", args[0]); err != nil {
					return err
				}
			}

			s, err := openState(cctx, solana.PublicKey{})
			if err != nil {
				return err
			}
			defer s.Close()

			list, err := s.app.TaxHookKeeper.GetExtraAccountMetaList(s.app.QueryContext(), mint)
			if err != nil {
				return err
			}
			addr, _, err := pda.RegistryAddress(s.app.TaxHookKeeper.ProgramID(), mint)
			if err != nil {
				return err
			}
			out := registryOutput{Address: addr, Mint: list.Mint, Bump: list.Bump}
			for _, m := range list.Metas {
				meta := metaOutput{IsSigner: m.IsSigner, IsWritable: m.IsWritable}
				if m.Kind == taxhooktypes.MetaKindFixed {
					address := m.Address
					meta.Address = &address
				} else {
					meta.Seeds = len(m.Seeds)
				}
				out.Metas = append(out.Metas, meta)
			}
			return printOutput(cmd, out)
		},
	}
}

type balanceOutput struct {
	Holding solana.PublicKey `json:"holding"`
	Mint    solana.PublicKey `json:"mint"`
	Owner   solana.PublicKey `json:"owner"`
	Amount  uint64           `json:"amount"`
	UI      string           `json:"ui_amount"`
}

func queryBalanceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance [owner]",
		Short: "Print the associated holding balance of owner, the signer by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx := getClientContext(cmd)
			var owner solana.PublicKey
			if len(args) == 1 {
				var err error
				if owner, err = parsePublicKey("owner", args[0]); err != nil {
					return err
				}
			} else {
				key, err := cctx.Keypair()
				if err != nil {
					return err
				}
				owner = key.PublicKey()
			}
			mintFlag, err := cmd.Flags().GetString(FlagMint)
			if err != nil {
				return err
			}
			if mintFlag == "" {
				mintFlag = cctx.Config.HookedMint
			}
			mintAddr, err := parsePublicKey("mint", mintFlag)
			if err != nil {
				return err
			}

			s, err := openState(cctx, solana.PublicKey{})
			if err != nil {
				return err
			}
			defer s.Close()

			m, err := s.mint(mintAddr)
			if err != nil {
				return err
			}
			addr, _, err := s.associatedHolding(owner, m)
			if err != nil {
				return err
			}
			amount, err := s.app.TokenKeeper.Balance(s.app.QueryContext(), addr)
			if err != nil {
				return err
			}
			return printOutput(cmd, balanceOutput{
				Holding: addr,
				Mint:    m.Address,
				Owner:   owner,
				Amount:  amount,
				UI:      FormatAmount(amount, m.Decimals),
			})
		},
	}
	cmd.Flags().String(FlagMint, "", "Mint of the holding, the hooked mint by default")
	return cmd
}

// printOutput prints v as indented JSON, or as YAML converted from its JSON
// form so that both formats share the json field names.
func printOutput(cmd *cobra.Command, v any) error {
	format, err := cmd.Flags().GetString(FlagOutput)
	if err != nil {
		return err
	}
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	switch format {
	case "json":
	case "yaml":
		var generic yaml.MapSlice
		if err := yaml.Unmarshal(bz, &generic); err != nil {
			return err
		}
		if bz, err = yaml.Marshal(generic); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	cmd.Println(strings.TrimSpace(string(bz)))
	return nil
}
