package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/araddon/dateparse"
	"github.com/plenert-macdonald/networth"
	"github.com/spf13/cobra"
)

var ratesAsOf string

// ratesCmd represents the rates command
var ratesCmd = &cobra.Command{
	Use:   "rates SRC DST",
	Short: "Print the known rates of a commodity pair",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		on := time.Now()
		if ratesAsOf != "" {
			var err error
			if on, err = dateparse.ParseAny(ratesAsOf); err != nil {
				return err
			}
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, prices, err := loadLedger(cfg)
		if err != nil {
			return err
		}
		return PrintRates(os.Stdout, prices, args[0], args[1], networth.Day(on))
	},
}

func init() {
	rootCmd.AddCommand(ratesCmd)

	ratesCmd.Flags().StringVar(&ratesAsOf, "as-of", "", "Date of the rate to look up (default is today).")
}

// PrintRates prints every rate of the pair, then the rate that applies on
// the given day.
func PrintRates(out io.Writer, prices *networth.Prices, src, dst string, on time.Time) error {
	buf := bufio.NewWriter(out)
	if table := prices.Table(src, dst); table != nil {
		for _, r := range table.Rates() {
			fmt.Fprintf(buf, "%s %s\n", r.Date.Format(transactionDateFormat), r.Rate)
		}
	}

	rate, err := prices.Rate(src, dst, on)
	if err != nil {
		buf.Flush()
		return err
	}
	fmt.Fprintf(buf, "%s/%s on %s: %s\n", src, dst, on.Format(transactionDateFormat), rate)
	return buf.Flush()
}
