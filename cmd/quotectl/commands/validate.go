package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"exchange-desk/internal/application"
)

// validate: resolve a pair, load its reserve and limits, then check the amounts.
func validateCmd() *cobra.Command {
	var (
		giveID, getID         int64
		giveAmount, getAmount string
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check amounts against the limits of the resolved pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			give, err := decimal.NewFromString(giveAmount)
			if err != nil {
				return fmt.Errorf("invalid --give-amount: %w", err)
			}
			get, err := decimal.NewFromString(getAmount)
			if err != nil {
				return fmt.Errorf("invalid --get-amount: %w", err)
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			pair, err := resolver.LoadInitialPair(ctx, giveID, getID)
			if err != nil {
				return err
			}
			if !pair.Resolved() {
				return fmt.Errorf("no direction for the selected pair")
			}
			rl, err := resolver.RefreshReserveAndLimit(ctx, pair.DirectionID, pair.Get)
			if err != nil {
				return err
			}
			w := application.ValidateAmounts(&rl.Limit, rl.Reserve, give, get, pair.Give, pair.Get)

			out := cmd.OutOrStdout()
			printWarnings(out, application.CollectWarnings(append(pair.Warnings, rl.Warnings...)...))
			if w.OK() {
				fmt.Fprintln(out, "ok")
				return nil
			}
			if w.Give != "" {
				fmt.Fprintf(out, "give: %s\n", w.Give)
			}
			if w.Get != "" {
				fmt.Fprintf(out, "get:  %s\n", w.Get)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&giveID, "give", 0, "preferred Give currency id")
	cmd.Flags().Int64Var(&getID, "get", 0, "preferred Get currency id")
	cmd.Flags().StringVar(&giveAmount, "give-amount", "0", "amount to give")
	cmd.Flags().StringVar(&getAmount, "get-amount", "0", "amount to receive")
	return cmd
}
