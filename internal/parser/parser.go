// Package parser extracts candidate transactions from raw bank and
// merchant notification text.
//
// Matching is ordered and exclusive per line: the first template that
// matches wins and no further template is tried. A line that matches no
// template is skipped silently; skips are counted, not raised. Messages
// spanning multiple lines are not supported.
package parser

import (
	"regexp"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"smartpay/internal/core"
)

// Merchant literals for templates that carry no merchant text of their own.
const (
	MerchantBankDebit  = "Bank Debit"
	MerchantEMIPayment = "EMI Payment"
)

// Recognized message templates, in priority order.
var (
	reDebit  = regexp.MustCompile(`debited with Rs\.([\d,]+\.\d{2}) on (\d{1,2}-[A-Za-z]{3}-\d{4})`)
	reCharge = regexp.MustCompile(`charged Rs\.([\d,]+\.\d{2}) for ([\w\s]+)\. Txn date: (\d{1,2}-[A-Za-z]{3}-\d{4})`)
	reEMI    = regexp.MustCompile(`paid Rs\.([\d,]+\.\d{2}) towards your monthly EMI on (\d{1,2}-[A-Za-z]{3}-\d{4})`)
)

type template struct {
	re *regexp.Regexp
	// merchant literal used when the template has no merchant group;
	// empty means group 2 carries free-text merchant and group 3 the date.
	merchant string
}

var templates = []template{
	{re: reDebit, merchant: MerchantBankDebit},
	{re: reCharge},
	{re: reEMI, merchant: MerchantEMIPayment},
}

// DiscardReason classifies why a line produced no fields.
type DiscardReason string

const (
	DiscardNone      DiscardReason = ""
	DiscardNoMatch   DiscardReason = "no_match"
	DiscardBadAmount DiscardReason = "bad_amount"
	DiscardBadDate   DiscardReason = "bad_date"
)

// Fields is the candidate tuple extracted from one matched line.
type Fields struct {
	Amount   core.Money
	Merchant string
	Date     core.Date
}

// LineResult is the tagged outcome for one input line: either extracted
// fields or a discard reason. Neither case is an error.
type LineResult struct {
	Matched bool
	Fields  Fields
	Discard DiscardReason
}

// BatchResult aggregates a multi-line parse. Fields preserves input line
// order; the counters let callers report extraction yield.
type BatchResult struct {
	Lines     int
	Fields    []Fields
	NoMatch   int
	BadAmount int
	BadDate   int
}

// ParseLine attempts each template in order against one line of text.
func ParseLine(line string) LineResult {
	for _, tpl := range templates {
		m := tpl.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		var amountText, merchant, dateText string
		if tpl.merchant != "" {
			amountText, merchant, dateText = m[1], tpl.merchant, m[2]
		} else {
			amountText, merchant, dateText = m[1], strings.TrimSpace(m[2]), m[3]
		}

		amount, err := core.ParseAmount(amountText)
		if err != nil {
			return LineResult{Discard: DiscardBadAmount}
		}
		date, err := NormalizeDate(dateText)
		if err != nil {
			return LineResult{Discard: DiscardBadDate}
		}

		return LineResult{
			Matched: true,
			Fields:  Fields{Amount: amount, Merchant: merchant, Date: date},
		}
	}
	return LineResult{Discard: DiscardNoMatch}
}

// ParseText processes a raw text blob line by line. Lines are extracted
// concurrently; ParseLine is pure, each goroutine writes only its own
// slice index, and results are merged in line order afterwards.
func ParseText(text string) BatchResult {
	lines := strings.Split(text, "\n")
	results := make([]LineResult, len(lines))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, line := range lines {
		g.Go(func() error {
			results[i] = ParseLine(line)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	batch := BatchResult{Lines: len(lines)}
	for _, res := range results {
		if res.Matched {
			batch.Fields = append(batch.Fields, res.Fields)
			continue
		}
		switch res.Discard {
		case DiscardBadAmount:
			batch.BadAmount++
		case DiscardBadDate:
			batch.BadDate++
		default:
			batch.NoMatch++
		}
	}
	return batch
}
