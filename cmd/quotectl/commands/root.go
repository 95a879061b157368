package commands

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"exchange-desk/internal/application"
	infraconfig "exchange-desk/internal/infrastructure/config"
	"exchange-desk/internal/infrastructure/exchangeapi"
	"exchange-desk/internal/infrastructure/httpx"
)

var (
	apiURL  string
	useFake bool
	status  string
	timeout time.Duration

	api      application.ExchangeAPI
	resolver *application.Resolver
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quotectl",
		Short:         "Query exchange directions, rates and limits",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case useFake:
				api = exchangeapi.NewDemoFake()
			case apiURL != "":
				api = exchangeapi.New(httpx.New(apiURL, timeout))
			default:
				return errors.New("no exchange API configured. use --api or --fake")
			}
			var opts []application.Option
			if status != "" {
				opts = append(opts, application.WithDirectionStatus(status))
			}
			resolver = application.NewResolverFromAPI(api, opts...)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&apiURL, "api", "", "exchange API base URL (e.g. http://127.0.0.1:3000/api)")
	root.PersistentFlags().BoolVar(&useFake, "fake", false, "use the built-in demo exchange API")
	root.PersistentFlags().StringVar(&status, "status", "", "only use directions with this status")
	root.PersistentFlags().DurationVar(&timeout, "timeout", infraconfig.DefaultCLITimeout, "per-command timeout")

	root.AddCommand(currenciesCmd(), pairCmd(), limitsCmd(), validateCmd(), rateCmd())
	return root
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}
