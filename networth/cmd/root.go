// Package cmd provides the networth commands.
package cmd

import (
	"log/slog"
	"os"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	envFile     string
	ledgerFiles []string
	priceDBPath string
	debug       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "networth",
	Short: "Net worth reports from plain-text ledgers",
	Long: `networth values a plain-text ledger, and the bank statements next to
it, in one commodity at the end of every month.

Example:
  networth report -f main.ledger --price-db prices.db -o report.html
  networth tree --as-of 2021-06-30`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	cc.Init(&cc.Config{
		RootCmd:         rootCmd,
		Headings:        cc.HiCyan + cc.Bold + cc.Underline,
		Commands:        cc.HiYellow + cc.Bold,
		Example:         cc.Italic,
		ExecName:        cc.Bold,
		Flags:           cc.Bold,
		NoExtraNewlines: true,
		NoBottomNewline: true,
	})
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "environment file (default is .env when present)")
	rootCmd.PersistentFlags().StringArrayVarP(&ledgerFiles, "file", "f", nil, "ledger or statement file, repeatable; replaces the configured sources")
	rootCmd.PersistentFlags().StringVar(&priceDBPath, "price-db", "", "ledger file of price directives")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}
