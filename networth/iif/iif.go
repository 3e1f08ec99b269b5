// Package iif reads the transactions of QuickBooks Intuit Interchange Format
// files. An IIF file is tab separated: "!TYPE" lines name the columns of the
// TYPE lines that follow, and a transaction is a TRNS line, its SPL lines
// and a closing ENDTRNS line. List sections (accounts, classes, customers)
// are skipped.
package iif

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNoHeader     = errors.New("iif: record without a header")
	ErrOrphanSplit  = errors.New("iif: split outside of a transaction")
	ErrOrphanEnd    = errors.New("iif: ENDTRNS outside of a transaction")
	ErrUnterminated = errors.New("iif: transaction without ENDTRNS")
	ErrNestedTrns   = errors.New("iif: transaction started before ENDTRNS")
	ErrBadDate      = errors.New("iif: bad date")
	ErrBadAmount    = errors.New("iif: bad amount")
)

// QuickBooks writes month first, with two or four digit years.
var dateLayouts = []string{"1/2/2006", "1/2/06"}

// Line is a TRNS or SPL line.
type Line struct {
	Kind    string
	Date    time.Time
	Account string
	Name    string
	Class   string
	Amount  decimal.Decimal
	Memo    string
}

// Transaction is a TRNS line with its splits.
type Transaction struct {
	Line
	Splits []Line
}

// Reader reads transactions one at a time.
type Reader struct {
	r       *csv.Reader
	columns map[string]map[string]int
}

func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return &Reader{r: cr, columns: make(map[string]map[string]int)}
}

// Read returns the next transaction, or io.EOF once the file is exhausted.
func (r *Reader) Read() (*Transaction, error) {
	var tx *Transaction
	for {
		record, err := r.r.Read()
		if err == io.EOF {
			if tx != nil {
				return nil, ErrUnterminated
			}
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}
		line, _ := r.r.FieldPos(0)

		kind, fields := record[0], record[1:]
		if name, ok := strings.CutPrefix(kind, "!"); ok {
			r.setHeader(name, fields)
			continue
		}

		switch kind {
		case "TRNS":
			if tx != nil {
				return nil, fmt.Errorf("line %d: %w", line, ErrNestedTrns)
			}
			l, err := r.line(kind, fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			tx = &Transaction{Line: l}
		case "SPL":
			if tx == nil {
				return nil, fmt.Errorf("line %d: %w", line, ErrOrphanSplit)
			}
			l, err := r.line(kind, fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			tx.Splits = append(tx.Splits, l)
		case "ENDTRNS":
			if tx == nil {
				return nil, fmt.Errorf("line %d: %w", line, ErrOrphanEnd)
			}
			return tx, nil
		default:
			if _, ok := r.columns[kind]; !ok && kind != "" {
				return nil, fmt.Errorf("line %d: %s: %w", line, kind, ErrNoHeader)
			}
		}
	}
}

// ReadAll reads every transaction of an IIF file.
func ReadAll(src io.Reader) ([]Transaction, error) {
	r := NewReader(src)
	var out []Transaction
	for {
		tx, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *tx)
	}
}

func (r *Reader) setHeader(kind string, fields []string) {
	cols := make(map[string]int, len(fields))
	for i, f := range fields {
		// trailing tabs leave empty columns
		if f == "" {
			break
		}
		cols[f] = i
	}
	r.columns[kind] = cols
}

func (r *Reader) line(kind string, fields []string) (Line, error) {
	cols, ok := r.columns[kind]
	if !ok {
		return Line{}, fmt.Errorf("%s: %w", kind, ErrNoHeader)
	}
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	l := Line{
		Kind:    get("TRNSTYPE"),
		Account: get("ACCNT"),
		Name:    get("NAME"),
		Class:   get("CLASS"),
		Memo:    get("MEMO"),
	}
	var err error
	if l.Date, err = parseDate(get("DATE")); err != nil {
		return Line{}, err
	}
	if l.Amount, err = parseAmount(get("AMOUNT")); err != nil {
		return Line{}, err
	}
	return l, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w %q", ErrBadDate, s)
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q", ErrBadAmount, s)
	}
	return d, nil
}
