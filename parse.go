package networth

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/alfredxing/calc/compute"
	date "github.com/joyt/godate"
	"github.com/shopspring/decimal"
)

var (
	// Regex groups:
	// 1: account name
	// 2: everything after the two-space (or tab) separator
	postingRe = regexp.MustCompile(`^(.+?)(?:(?:\s{2,}|\t)\s*(.+))?$`)

	// Regex groups:
	// 1: commodity before the quantity
	// 2: quantity (number or parenthesized expression)
	// 3: commodity after the quantity
	amountRe = regexp.MustCompile(
		`^(?:([^\s\d().+\-"]+|"[^"]+")\s*)?` +
			`(-?(?:\d+(?:,\d{3})*(?:\.\d+)?|\.\d+)|\([0-9+\-*/. ]+\))` +
			`(?:\s*([^\s\d().+\-@"]+|"[^"]+"))?$`,
	)

	timeRe = regexp.MustCompile(`^\d{1,2}:\d{2}(?::\d{2})?$`)
)

// ParseLedgerFile parses a ledger file, following its include directives.
func ParseLedgerFile(filename string) (*Ledger, error) {
	ifile, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer ifile.Close()
	return parseLedger(filename, ifile)
}

// ParseLedger parses ledger text. Include directives are resolved relative
// to the working directory.
func ParseLedger(ledgerReader io.Reader) (*Ledger, error) {
	return parseLedger("", ledgerReader)
}

type parser struct {
	scanner *linescanner

	dateLayout string

	strPrevDate string
	prevDateErr error
	prevDate    time.Time
}

func newParser(ledgerReader io.Reader, filename string) *parser {
	return &parser{scanner: newLineScanner(filename, ledgerReader)}
}

// block is one top-level entry of a ledger: an unindented heading line, the
// comment lines before it and the indented lines that follow it.
type block struct {
	filename    string
	lineNum     int // line number of the heading
	headingLine int // index of the heading in body
	body        []string
}

func (b *block) errorf(offset int, err error) error {
	return fmt.Errorf("%s:%d: %w", b.filename, b.lineNum+offset, err)
}

func isComment(trimmedLine string) bool {
	return strings.HasPrefix(trimmedLine, ";") || strings.HasPrefix(trimmedLine, "#")
}

// nextBlock returns the next block, or io.EOF once the input is consumed.
func (lp *parser) nextBlock() (*block, error) {
	b := &block{filename: lp.scanner.Name()}
	for lp.scanner.Scan() {
		line := lp.scanner.Text()
		trimmedLine := strings.TrimSpace(line)
		if len(trimmedLine) == 0 {
			continue
		}
		b.body = append(b.body, trimmedLine)
		if isComment(trimmedLine) {
			continue
		}
		b.headingLine = len(b.body) - 1
		b.lineNum = lp.scanner.LineNumber()
		for lp.scanner.Scan() {
			line := lp.scanner.Text()
			if len(strings.TrimSpace(line)) == 0 {
				break
			}
			if !unicode.IsSpace(rune(line[0])) {
				// next heading
				lp.scanner.Unscan()
				break
			}
			b.body = append(b.body, strings.TrimSpace(line))
		}
		return b, nil
	}
	if err := lp.scanner.Err(); err != nil {
		return nil, err
	}
	if len(b.body) > 0 {
		// trailing comments only
		return b, nil
	}
	return nil, io.EOF
}

// header splits the heading line into its keyword (or date), the rest, and
// its comment.
func (b *block) header() (before, after, comment string, err error) {
	if b.headingLine >= len(b.body) || isComment(b.body[b.headingLine]) {
		return "", "", "", nil
	}
	line := b.body[b.headingLine]
	if commentIdx := strings.Index(line, ";"); commentIdx >= 0 {
		comment = line[commentIdx:]
		line = strings.TrimSpace(line[:commentIdx])
	}
	before, after, split := strings.Cut(line, " ")
	if !split {
		return "", "", "", b.errorf(0, fmt.Errorf("unable to parse payee line: %s", line))
	}
	return before, strings.TrimSpace(after), comment, nil
}

func parseLedger(filename string, ledgerReader io.Reader) (*Ledger, error) {
	lp := newParser(ledgerReader, filename)
	result := &Ledger{}
	for {
		b, err := lp.nextBlock()
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		before, after, comment, err := b.header()
		if err != nil {
			return nil, err
		}
		switch before {
		case "":
			// comments only
		case "account", "commodity", "payee", "tag":
			// declarations carry nothing the reports need
		case "include":
			paths, _ := filepath.Glob(filepath.Join(filepath.Dir(filename), after))
			if len(paths) < 1 {
				return nil, b.errorf(0, fmt.Errorf("unable to include file(%s): %w", after, errors.New("not found")))
			}
			for _, incpath := range paths {
				included, err := ParseLedgerFile(incpath)
				if err != nil {
					return nil, err
				}
				result = JoinLedgers(result, included)
			}
		case "P":
			price, err := lp.parsePrice(after)
			if err != nil {
				return nil, b.errorf(0, fmt.Errorf("unable to parse price: %w", err))
			}
			result.Prices = append(result.Prices, price)
		default:
			trans, err := b.transaction(lp, before, after, comment)
			if err != nil {
				return nil, err
			}
			result.Transactions = append(result.Transactions, trans)
		}
	}
}

func (lp *parser) parseDate(dateString string) (transDate time.Time, err error) {
	// seen before, skip parse
	if lp.strPrevDate == dateString {
		return lp.prevDate, lp.prevDateErr
	}

	// try current date layout
	transDate, err = time.Parse(lp.dateLayout, dateString)
	if err != nil {
		// try to find new date layout
		transDate, lp.dateLayout, err = date.ParseAndGetLayout(dateString)
		if err != nil {
			err = fmt.Errorf("unable to parse date(%s): %w", dateString, err)
		}
	}
	transDate = Day(transDate)

	// maybe next date is same
	lp.strPrevDate = dateString
	lp.prevDate = transDate
	lp.prevDateErr = err

	return
}

// parsePrice parses the arguments of a price directive:
// DATE [TIME] COMMODITY AMOUNT
func (lp *parser) parsePrice(args string) (PriceDirective, error) {
	fields := strings.Fields(args)
	if len(fields) >= 2 && timeRe.MatchString(fields[1]) {
		fields = append(fields[:1], fields[2:]...)
	}
	if len(fields) < 3 {
		return PriceDirective{}, fmt.Errorf("want DATE COMMODITY AMOUNT, got %q", args)
	}
	on, err := lp.parseDate(fields[0])
	if err != nil {
		return PriceDirective{}, err
	}
	price, err := parseAmount(strings.Join(fields[2:], " "))
	if err != nil {
		return PriceDirective{}, err
	}
	return PriceDirective{Date: on, Commodity: unquote(fields[1]), Price: price}, nil
}

func (b *block) transaction(lp *parser, dateString, payeeString, payeeComment string) (*Transaction, error) {
	transDate, err := lp.parseDate(dateString)
	if err != nil {
		return nil, b.errorf(0, fmt.Errorf("unable to parse transaction: %w", err))
	}

	trans := &Transaction{
		Date:         transDate,
		Payee:        payeeString,
		PayeeComment: payeeComment,
	}
	trans.Comments = append(trans.Comments, b.body[:b.headingLine]...)

	for i, line := range b.body[b.headingLine+1:] {
		var postingComment string
		// handle comments
		if commentIdx := strings.Index(line, ";"); commentIdx >= 0 {
			postingComment = line[commentIdx:]
			line = strings.TrimSpace(line[:commentIdx])
			if len(line) == 0 {
				trans.Comments = append(trans.Comments, postingComment)
				continue
			}
		}
		posting, err := parsePosting(line)
		if err != nil {
			return nil, b.errorf(i+1, fmt.Errorf("unable to parse transaction: %w", err))
		}
		posting.Comment = postingComment
		trans.Postings = append(trans.Postings, posting)
	}
	if len(trans.Comments) == 0 {
		trans.Comments = nil
	}

	if err := trans.IsBalanced(); err != nil {
		return nil, b.errorf(len(b.body)-1-b.headingLine, fmt.Errorf("unable to parse transaction: %w", err))
	}
	return trans, nil
}

func parsePosting(trimmedLine string) (p Posting, err error) {
	m := postingRe.FindStringSubmatch(strings.TrimSpace(trimmedLine))
	if m == nil {
		return p, fmt.Errorf("invalid posting: %q", trimmedLine)
	}
	p.Account = strings.TrimSpace(m[1])
	amountString := strings.TrimSpace(m[2])
	if amountString == "" {
		return p, nil
	}

	var priceString string
	var total bool
	if before, after, found := strings.Cut(amountString, "@@"); found {
		amountString, priceString, total = before, after, true
	} else if before, after, found := strings.Cut(amountString, "@"); found {
		amountString, priceString = before, after
	}

	if p.Amount, err = parseAmount(amountString); err != nil {
		return p, err
	}
	if priceString == "" {
		return p, nil
	}
	price, err := parseAmount(priceString)
	if err != nil {
		return p, err
	}
	if total {
		p.TotalPrice = &price
	} else {
		p.UnitPrice = &price
	}
	return p, nil
}

// parseAmount parses "10.5 PLN", "PLN 10.5", "$10", "(3 * 4) EUR" or a bare
// quantity.
func parseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	m := amountRe.FindStringSubmatch(s)
	if m == nil {
		return Amount{}, fmt.Errorf("invalid amount: %q", s)
	}
	if m[1] != "" && m[3] != "" {
		return Amount{}, fmt.Errorf("invalid amount: %q: two commodities", s)
	}

	var qty decimal.Decimal
	if strings.HasPrefix(m[2], "(") {
		v, err := compute.Evaluate(m[2])
		if err != nil {
			return Amount{}, err
		}
		qty = decimal.NewFromFloat(v)
	} else {
		var err error
		qty, err = decimal.NewFromString(strings.ReplaceAll(m[2], ",", ""))
		if err != nil {
			return Amount{}, err
		}
	}
	return Amount{Quantity: qty, Commodity: unquote(m[1] + m[3])}, nil
}

func unquote(commodity string) string {
	return strings.Trim(commodity, `"`)
}
