package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"exchange-desk/internal/application"
	"exchange-desk/internal/domain"
)

// rate <price>: offline formatting, no API call.
func rateCmd() *cobra.Command {
	var give, get domain.Currency
	cmd := &cobra.Command{
		Use:   "rate <price>",
		Short: "Format a raw price for two currencies",
		Args:  cobra.ExactArgs(1),
		// Overrides the root hook: formatting needs no exchange API.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid price %q", args[0])
			}
			s := application.FormatRate(price, &give, &get)
			if s == "" {
				return fmt.Errorf("price must be positive")
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().StringVar(&give.Code, "give", "", "Give currency code")
	cmd.Flags().Int32Var(&give.Fidelity, "give-fidelity", 2, "Give currency fidelity")
	cmd.Flags().StringVar(&get.Code, "get", "", "Get currency code")
	cmd.Flags().Int32Var(&get.Fidelity, "get-fidelity", 2, "Get currency fidelity")
	_ = cmd.MarkFlagRequired("give")
	_ = cmd.MarkFlagRequired("get")
	return cmd
}
