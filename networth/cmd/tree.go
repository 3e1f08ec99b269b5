package cmd

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/fatih/color"
	"github.com/juztin/numeronym"
	"github.com/plenert-macdonald/networth"
	"github.com/plenert-macdonald/networth/report"
	"github.com/spf13/cobra"
)

const (
	treeIndent = 2
	valueWidth = 16
)

var asOfString string
var treeColumns int

// treeCmd represents the tree command
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the account tree valued in the main commodity",
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

		transactions := l.Transactions
		asOf := params.AsOf
		if asOfString != "" {
			if asOf, err = dateparse.ParseAny(asOfString); err != nil {
				return err
			}
			asOf = networth.Day(asOf)
			transactions = networth.TransactionsInDateRange(transactions, time.Time{}, asOf.AddDate(0, 0, 1))
		}

		monthly := networth.NewMonthlyReport(transactions)
		if last, ok := monthly.Last(); ok && asOf.IsZero() {
			asOf = last.LastDay()
		}
		tree := report.SummaryTree(monthly, params.Calculator(prices).On(asOf))
		return WriteTree(os.Stdout, tree, terminalWidth(treeColumns))
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)

	treeCmd.Flags().StringVar(&asOfString, "as-of", "", "Value the balance of this day (default is the end of the last month).")
	treeCmd.Flags().IntVar(&treeColumns, "columns", 0, "Set a column width for output (default is the terminal width).")
}

// WriteTree prints the tree one node per line: the name indented by depth,
// the value right aligned, then the held commodities when they are not
// only the main one.
func WriteTree(out io.Writer, root *networth.TreeNode, columns int) error {
	colorNeg := color.New(color.FgRed)
	colorAccount := color.New(color.FgBlue)
	colorForeign := color.New(color.Faint)

	buf := bufio.NewWriter(out)
	var walk func(n *networth.TreeNode, depth int)
	walk = func(n *networth.TreeNode, depth int) {
		nameWidth := max(columns-valueWidth-1-depth*treeIndent, 1)
		name := fitName(n.Name, nameWidth)

		value := n.MainCommodity
		if !n.Value.Known {
			value += "?"
		}
		amtColor := color.New(color.Reset)
		if n.Value.Amount.IsNegative() {
			amtColor = colorNeg
		}

		buf.WriteString(strings.Repeat(" ", depth*treeIndent))
		colorAccount.Fprint(buf, name)
		buf.WriteString(strings.Repeat(" ", max(nameWidth-utf8.RuneCountInString(name), 0)+1))
		amtColor.Fprint(buf, padLeft(value, valueWidth))
		if n.ForeignCommodities != "" {
			buf.WriteString(" ")
			colorForeign.Fprint(buf, "("+n.ForeignCommodities+")")
		}
		buf.WriteString(newLine)

		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	walk(root, 0)
	return buf.Flush()
}

// fitName abbreviates the ASCII segments of an account name that does not
// fit in width: "Investments:Brokerage" becomes "I9s:B7e".
func fitName(name string, width int) string {
	if utf8.RuneCountInString(name) <= width {
		return name
	}
	segments := strings.Split(name, networth.AccountSeparator)
	for i, s := range segments {
		if isASCII(s) {
			segments[i] = string(numeronym.Parse([]byte(s)))
		}
	}
	return strings.Join(segments, networth.AccountSeparator)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func padLeft(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}
