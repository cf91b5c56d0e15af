// Package categorize maps merchant labels to spending categories.
//
// Classification is an ordered list of keyword groups scanned top to
// bottom; the first group with a substring hit wins. Labels may contain
// several keywords, so group order is significant and must not change.
// This is deliberately a deterministic classifier, not a scored one.
package categorize

import (
	"strings"

	"smartpay/internal/core"
)

type rule struct {
	keywords []string
	category core.Category
}

// rules is fixed configuration data, not editable at runtime.
var rules = []rule{
	{keywords: []string{"netflix", "prime"}, category: core.CategoryEntertainment},
	{keywords: []string{"swiggy", "zomato"}, category: core.CategoryFood},
	{keywords: []string{"amazon", "flipkart"}, category: core.CategoryShopping},
	{keywords: []string{"dmart", "diy", "super market"}, category: core.CategoryGroceries},
	{keywords: []string{"credit", "loan", "emi"}, category: core.CategoryBills},
	{keywords: []string{"hp", "indian oil", "pmpl"}, category: core.CategoryTravel},
}

// Merchant returns the spending category for a merchant label.
// Matching is case-insensitive; unmatched labels fall back to Other.
func Merchant(label string) core.Category {
	label = strings.ToLower(label)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(label, kw) {
				return r.category
			}
		}
	}
	return core.CategoryOther
}
