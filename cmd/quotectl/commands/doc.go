// Package commands defines the quotectl CLI.
//
// Commands
//
//   - currencies   List currencies usable on either side of an exchange
//   - pair         Resolve the initial Give/Get pair and its rate
//   - limits       Show reserve and limits of a direction
//   - validate     Check amounts against the limits of the resolved pair
//   - rate         Format a raw price for two currencies
//
// The root command builds the exchange API client (or the in-memory demo
// API with --fake) before any subcommand runs.
package commands
