package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"exchange-desk/internal/application"
	"exchange-desk/internal/domain"
)

func currenciesCmd() *cobra.Command {
	var onlyGive, onlyGet bool
	cmd := &cobra.Command{
		Use:   "currencies",
		Short: "List currencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			list, err := api.Currencies(ctx, application.CurrencyFilter{OnlyGive: onlyGive, OnlyGet: onlyGet})
			if err != nil {
				return err
			}
			printCurrencies(cmd.OutOrStdout(), list.Items)
			printWarnings(cmd.OutOrStdout(), application.CollectWarnings(list.Warning))
			return nil
		},
	}
	cmd.Flags().BoolVar(&onlyGive, "give", false, "only currencies that can be given")
	cmd.Flags().BoolVar(&onlyGet, "get", false, "only currencies that can be received")
	return cmd
}

// pair [--give id] [--get id]: resolve the initial pair.
func pairCmd() *cobra.Command {
	var giveID, getID int64
	cmd := &cobra.Command{
		Use:   "pair",
		Short: "Resolve the Give/Get pair and print its rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			res, err := resolver.LoadInitialPair(ctx, giveID, getID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printWarnings(out, res.Warnings)
			if !res.Resolved() {
				fmt.Fprintln(out, "no direction available")
				return nil
			}
			fmt.Fprintf(out, "give:      %s\n", currencyLabel(res.Give))
			fmt.Fprintf(out, "get:       %s\n", currencyLabel(res.Get))
			fmt.Fprintf(out, "direction: %d\n", *res.DirectionID)
			fmt.Fprintf(out, "rate:      %s\n", application.FormatQuote(res.Quote))
			return nil
		},
	}
	cmd.Flags().Int64Var(&giveID, "give", 0, "preferred Give currency id")
	cmd.Flags().Int64Var(&getID, "get", 0, "preferred Get currency id")
	return cmd
}

func currencyLabel(c *domain.Currency) string {
	if c == nil {
		return "-"
	}
	return fmt.Sprintf("%s (id %d, fidelity %d)", c.Code, c.ID, c.Fidelity)
}

func printWarnings(w io.Writer, warnings []string) {
	for _, m := range warnings {
		fmt.Fprintf(w, "warning: %s\n", m)
	}
}

func printCurrencies(w io.Writer, list []domain.Currency) {
	for _, c := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", c.ID, c.Code, c.Name, c.Fidelity)
	}
}
