package commands

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"exchange-desk/internal/domain"
)

// limits <direction-id> --to CODE: reserve of the target currency and the direction limits.
func limitsCmd() *cobra.Command {
	var (
		toCode     string
		toFidelity int32
	)
	cmd := &cobra.Command{
		Use:   "limits <direction-id>",
		Short: "Show reserve and limits of a direction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid direction id %q", args[0])
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			get := &domain.Currency{Code: toCode, Fidelity: toFidelity}
			res, err := resolver.RefreshReserveAndLimit(ctx, &id, get)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printWarnings(out, res.Warnings)
			fmt.Fprintf(out, "reserve:    %s %s\n", res.ReserveDisplay, toCode)
			fmt.Fprintf(out, "give:       %s .. %s\n", bound(res.Limit.MinSumGive), bound(res.Limit.MaxSumGive))
			fmt.Fprintf(out, "get:        %s .. %s\n", bound(res.Limit.MinSumGet), bound(res.Limit.MaxSumGet))
			if res.Limit.Popup != nil {
				fmt.Fprintf(out, "note:       %s\n", *res.Limit.Popup)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&toCode, "to", "", "target currency code")
	cmd.Flags().Int32Var(&toFidelity, "fidelity", 0, "target currency fidelity")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func bound(v decimal.Decimal) string {
	if !v.IsPositive() {
		return "-"
	}
	return v.String()
}
