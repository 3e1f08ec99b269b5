package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hako/durafmt"
	"github.com/plenert-macdonald/networth"
	"github.com/plenert-macdonald/networth/networth/config"
	"github.com/plenert-macdonald/networth/networth/iif"
	"github.com/plenert-macdonald/networth/networth/qif"
)

var ErrStatementAccount = errors.New("statement source needs an account")

// loadConfig reads the configuration and applies the command line flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile, envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if len(ledgerFiles) > 0 {
		cfg.Sources = nil
		for _, path := range ledgerFiles {
			cfg.Sources = append(cfg.Sources, config.Source{Path: path})
		}
	}
	if priceDBPath != "" {
		cfg.PricesFile = priceDBPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isStatement(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".qif", ".iif":
		return true
	}
	return false
}

// loadLedger reads every source of cfg into one ledger sorted by date, and
// builds its rate table. Statements are read after the text ledgers so
// their counter-accounts can be learnt from them.
func loadLedger(cfg *config.Config) (*networth.Ledger, *networth.Prices, error) {
	start := time.Now()

	var ledgers []*networth.Ledger
	var statements []config.Source
	for _, src := range cfg.Sources {
		if isStatement(src.Path) {
			statements = append(statements, src)
			continue
		}
		l, err := networth.ParseLedgerFile(src.Path)
		if err != nil {
			return nil, nil, err
		}
		slog.Debug("Parsed ledger", "path", src.Path, "transactions", len(l.Transactions), "prices", len(l.Prices))
		ledgers = append(ledgers, l)
	}

	known := networth.JoinLedgers(ledgers...)
	for _, src := range statements {
		transactions, err := readStatement(src, known.Transactions)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", src.Path, err)
		}
		slog.Debug("Read statement", "path", src.Path, "account", src.Account, "transactions", len(transactions))
		ledgers = append(ledgers, &networth.Ledger{Transactions: transactions})
	}

	l := networth.JoinLedgers(ledgers...)
	networth.SortTransactions(l.Transactions)

	var external *networth.Ledger
	if cfg.PricesFile != "" {
		var err error
		external, err = networth.ParseLedgerFile(cfg.PricesFile)
		if err != nil {
			return nil, nil, err
		}
		slog.Debug("Parsed prices", "path", cfg.PricesFile, "prices", len(external.Prices))
	}
	prices := networth.LoadPrices(l, external)

	slog.Info("Loaded ledger",
		"transactions", len(l.Transactions),
		"pairs", len(prices.Pairs()),
		"took", durafmt.Parse(time.Since(start)).LimitFirstN(2).String())
	return l, prices, nil
}

// readStatement converts a bank statement into transactions of its account.
// Entries without a counter-account are classified from known.
func readStatement(src config.Source, known []*networth.Transaction) ([]*networth.Transaction, error) {
	if src.Account == "" {
		return nil, ErrStatementAccount
	}
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	source := networth.Source{
		Account:    src.Account,
		Commodity:  src.Commodity,
		Classifier: networth.TrainClassifier(known, src.Account),
	}

	switch strings.ToLower(filepath.Ext(src.Path)) {
	case ".qif":
		entries, err := qif.ParseQIF(f)
		if err != nil {
			return nil, err
		}
		return qif.ToLedger(entries, source)
	case ".iif":
		transactions, err := iif.ReadAll(f)
		if err != nil {
			return nil, err
		}
		return iif.ToLedger(transactions, source), nil
	}
	return nil, fmt.Errorf("unknown statement format %q", filepath.Ext(src.Path))
}
