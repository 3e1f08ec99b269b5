package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/plenert-macdonald/networth"
	"github.com/plenert-macdonald/networth/networth/config"
	"github.com/spf13/cobra"
)

var (
	ErrNoMatchingAccount = errors.New("unable to find matching account")
)

var importCommodity string
var allowMatching bool

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <account-substring> <statement-file>",
	Short: "Print a QIF or IIF statement as ledger transactions",
	Long: `Print the entries of a bank statement (.qif or .iif) as ledger
transactions of the first account matching account-substring. Counter
accounts are predicted from the payees of the configured ledgers.`,
	Args: cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		accountSubstring, filename := args[0], args[1]
		if !isStatement(filename) {
			return fmt.Errorf("%s: not a .qif or .iif statement", filename)
		}

		known, err := knownTransactions()
		if err != nil {
			return err
		}

		account := accountSubstring
		if len(known) > 0 {
			if account, err = findMatchingAccount(known, accountSubstring); err != nil {
				return err
			}
		}
		slog.Debug("Importing statement", "path", filename, "account", account)

		imported, err := readStatement(config.Source{Path: filename, Account: account, Commodity: importCommodity}, known)
		if err != nil {
			return fmt.Errorf("%s: %w", filename, err)
		}

		buf := bufio.NewWriter(os.Stdout)
		for _, trans := range imported {
			if allowMatching || !existingTransaction(known, trans) {
				WriteTransaction(buf, trans, 80)
			}
		}
		return buf.Flush()
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importCommodity, "commodity", "", "Commodity of the statement amounts.")
	importCmd.Flags().BoolVar(&allowMatching, "allow-matching", false, "Import transactions that match existing ones.")
}

// knownTransactions reads the configured text ledgers, if any. Importing
// works without them, every entry then goes to the unknown account.
func knownTransactions() ([]*networth.Transaction, error) {
	cfg, err := config.Load(cfgFile, envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	paths := ledgerFiles
	if len(paths) == 0 {
		for _, src := range cfg.Sources {
			paths = append(paths, src.Path)
		}
	}

	var ledgers []*networth.Ledger
	for _, path := range paths {
		if isStatement(path) {
			continue
		}
		l, err := networth.ParseLedgerFile(path)
		if err != nil {
			return nil, err
		}
		ledgers = append(ledgers, l)
	}
	return networth.JoinLedgers(ledgers...).Transactions, nil
}

// findMatchingAccount returns the account named accountSubstring, ignoring
// case, or else the last account containing it.
func findMatchingAccount(transactions []*networth.Transaction, accountSubstring string) (string, error) {
	var matchingAccounts []string
	for _, name := range networth.NewBalance(transactions).Accounts() {
		if strings.Contains(name, accountSubstring) {
			matchingAccounts = append(matchingAccounts, name)
		}
	}
	if len(matchingAccounts) < 1 {
		return "", fmt.Errorf("%w: %s", ErrNoMatchingAccount, accountSubstring)
	}
	for _, name := range matchingAccounts {
		if strings.EqualFold(name, accountSubstring) {
			return name, nil
		}
	}
	return matchingAccounts[len(matchingAccounts)-1], nil
}

func existingTransaction(transactions []*networth.Transaction, trans *networth.Transaction) bool {
	for _, t := range transactions {
		if t.Date.Equal(trans.Date) && t.Payee == trans.Payee {
			return true
		}
	}
	return false
}
