package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/plenert-macdonald/networth"
	"github.com/plenert-macdonald/networth/report"
	"github.com/spf13/cobra"
)

var rawMarkdown bool

// monthlyCmd represents the monthly command
var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Print the monthly table",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		l, prices, err := loadLedger(cfg)
		if err != nil {
			return err
		}
		params, err := cfg.Params()
		if err != nil {
			return err
		}

		table := report.NewMonthlyTable(networth.NewMonthlyReport(l.Transactions), params.Calculator(prices), params.Groups)
		md := fmt.Sprintf("# Net worth in %s\n\n%s", params.Commodity, report.Markdown(table.Table()))

		if rawMarkdown || !isatty.IsTerminal(os.Stdout.Fd()) {
			_, err = os.Stdout.WriteString(md)
			return err
		}

		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(terminalWidth(0)),
		)
		if err != nil {
			return err
		}
		out, err := r.Render(md)
		if err != nil {
			return err
		}
		_, err = os.Stdout.WriteString(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(monthlyCmd)

	monthlyCmd.Flags().BoolVar(&rawMarkdown, "raw", false, "Print Markdown even on a terminal.")
}
