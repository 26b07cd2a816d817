package cmd

import (
	"github.com/celestiaorg/taxhook/pkg/appconsts"
	taxhooktypes "github.com/celestiaorg/taxhook/x/taxhook/types"
	"github.com/spf13/cobra"
)

func feeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fee [amount]",
		Short: "Print the fee charged for transferring amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx := getClientContext(cmd)
			decimals, err := cmd.Flags().GetUint8(FlagDecimals)
			if err != nil {
				return err
			}
			amount, err := ParseAmount(args[0], decimals)
			if err != nil {
				return err
			}
			fee, err := taxhooktypes.ComputeFee(amount, cctx.Config.FeeBasisPoints)
			if err != nil {
				return err
			}
			cmd.Println(FormatAmount(fee, decimals))
			return nil
		},
	}
	cmd.Flags().Uint8(FlagDecimals, appconsts.DefaultDecimals, "Decimal precision of the amount")
	return cmd
}
