package qif

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/plenert-macdonald/networth"
	"github.com/shopspring/decimal"
)

var ErrUnexpectedEOF = errors.New("qif: unexpected EOF while reading transaction")

// Non-investment QIF transaction, based on the "Non-investment transaction format"
// from the GnuCash documentation.
type Transaction struct {
	// Header/type line, e.g. "!Type:Cash"
	Type string `qif:"header"`

	// Core transaction fields
	Date     string `qif:"D"` // D - Date
	Amount   string `qif:"T"` // T - Amount
	Num      string `qif:"N"` // N - Number (check/reference)
	Payee    string `qif:"P"` // P - Payee/description
	Memo     string `qif:"M"` // M - Memo
	Addr     string `qif:"A"` // A - Address (multi-line; kept concatenated with '\n')
	Cleared  string `qif:"C"` // C - Cleared status
	Category string `qif:"L"` // L - Category (or transfer/class)

	Splits []Split

	// RawLines contains the raw QIF lines (without trailing newline) that
	// composed this transaction, excluding the header and trailing '^'.
	RawLines []string `qif:"-"`
}

// Split is one S/E/$ group of a split transaction.
type Split struct {
	Category string `qif:"S"` // S - Category in split
	Memo     string `qif:"E"` // E - Memo in split
	Amount   string `qif:"$"` // $ - Dollar amount of split
}

// Decoder reads QIF data from an input stream.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder returns a new QIF decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r: bufio.NewReader(r),
	}
}

// Decode reads QIF data from the underlying reader and returns all parsed
// non-investment transactions.
func (d *Decoder) Decode() ([]*Transaction, error) {
	var (
		transactions []*Transaction
		currentType  string
	)

	for {
		line, err := d.readLine()
		if err == io.EOF {
			return transactions, nil
		}
		if err != nil {
			return nil, err
		}

		if len(line) == 0 {
			continue
		}

		// Header / account-type line: !Type:Cash, !Type:Bank, ...
		if strings.HasPrefix(line, "!Type:") {
			currentType = strings.TrimSpace(line[len("!Type:"):])
			continue
		}

		// A transaction must start with 'D' (date).
		if line[0] == 'D' {
			tx, err := d.decodeTransaction(currentType, line)
			if err != nil {
				return nil, err
			}
			transactions = append(transactions, tx)
			continue
		}

		// Lines outside of transactions are ignored.
	}
}

// decodeTransaction parses a single transaction, given that the first line
// (already read) is a 'D' date line. It continues reading until the '^' end
// marker has been consumed.
func (d *Decoder) decodeTransaction(txType string, firstLine string) (*Transaction, error) {
	tx := &Transaction{
		Type: txType,
	}

	assignField(tx, firstLine)

	for {
		line, err := d.readLine()
		if err != nil {
			if err == io.EOF {
				return nil, ErrUnexpectedEOF
			}
			return nil, err
		}
		if len(line) == 0 {
			// empty lines inside a transaction are preserved in RawLines but
			// don't correspond to any field.
			tx.RawLines = append(tx.RawLines, line)
			continue
		}
		if line[0] == '^' {
			return tx, nil
		}

		assignField(tx, line)
	}
}

// lastSplit returns the split being filled, starting a new one when field
// is already set on it.
func (tx *Transaction) lastSplit(field func(*Split) *string) *Split {
	if n := len(tx.Splits); n > 0 && *field(&tx.Splits[n-1]) == "" {
		return &tx.Splits[n-1]
	}
	tx.Splits = append(tx.Splits, Split{})
	return &tx.Splits[len(tx.Splits)-1]
}

// assignField updates tx based on a single QIF field line.
// It also appends the raw line (minus trailing newline) to RawLines.
func assignField(tx *Transaction, line string) {
	if len(line) == 0 {
		return
	}
	tx.RawLines = append(tx.RawLines, line)

	prefix := line[0]
	value := line[1:]

	switch prefix {
	case 'D':
		tx.Date = value
	case 'T':
		tx.Amount = value
	case 'U':
		// Higher precision amount; if present, prefer it over T.
		tx.Amount = value
	case 'N':
		tx.Num = value
	case 'P':
		tx.Payee = value
	case 'M':
		if tx.Memo == "" {
			tx.Memo = value
		} else {
			// Multiple memo lines – concatenate with newline.
			tx.Memo += "\n" + value
		}
	case 'A':
		if tx.Addr == "" {
			tx.Addr = value
		} else {
			tx.Addr += "\n" + value
		}
	case 'C':
		tx.Cleared = value
	case 'L':
		tx.Category = value
	case 'S':
		// a category always opens a new split
		tx.Splits = append(tx.Splits, Split{Category: value})
	case 'E':
		tx.lastSplit(func(s *Split) *string { return &s.Memo }).Memo = value
	case '$':
		tx.lastSplit(func(s *Split) *string { return &s.Amount }).Amount = value
	}
}

// readLine reads a single logical line without the trailing '\n' or '\r\n'.
func (d *Decoder) readLine() (string, error) {
	line, err := d.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	// Trim CRLF and LF.
	line = strings.TrimRight(line, "\r\n")
	if err == io.EOF && len(line) == 0 {
		return "", io.EOF
	}
	return line, nil
}

// ParseQIF is a convenience helper that parses all transactions from a QIF
// stream and returns them.
func ParseQIF(reader io.Reader) ([]*Transaction, error) {
	return NewDecoder(reader).Decode()
}

// QIF dates are locale-specific: month first is tried before day first.
var dateLayouts = []string{"01/02/2006", "1/2/2006", "02/01/2006", "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("qif: unable to parse date(%s): %w", s, err)
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("qif: unable to parse amount(%s): %w", s, err)
	}
	return d, nil
}

// ToLedger converts QIF entries into ledger transactions of src. The amount
// of each entry goes to the source account; the counter-account is
// classified from the payee, or from the category when there is no payee.
func ToLedger(entries []*Transaction, src networth.Source) ([]*networth.Transaction, error) {
	var result []*networth.Transaction
	for i, entry := range entries {
		on, err := parseDate(entry.Date)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		amount, err := parseAmount(entry.Amount)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}

		payee := strings.TrimSpace(entry.Payee)
		if payee == "" {
			payee = strings.TrimSpace(entry.Category)
		}

		var comments []string
		if len(entry.RawLines) > 0 {
			comments = []string{";" + strings.Join(entry.RawLines, " ")}
		}
		result = append(result, src.Transaction(on, payee, amount, comments...))
	}
	return result, nil
}
