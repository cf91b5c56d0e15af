package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"smartpay/internal/core"
)

// DateLayout is the single date format used by the recognized
// notification templates (e.g. "05-Jan-2024").
const DateLayout = "2-Jan-2006"

var ErrDateParse = errors.New("unparseable date")

// NormalizeDate converts notification date text into a canonical calendar
// date. time.Parse rejects both malformed strings and days that do not
// exist in the named month (31-Nov, 30-Feb), so no extra validity pass is
// needed. Callers treat a failure as "skip this record".
func NormalizeDate(s string) (core.Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: %q", ErrDateParse, s)
	}
	return core.NewDate(t.Year(), int(t.Month()), t.Day()), nil
}
