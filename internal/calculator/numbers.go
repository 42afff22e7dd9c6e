package calculator

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplittr/internal/models"
)

var hundred = decimal.NewFromInt(100)

// ParsePrice parses a unit price. Negative or non-numeric input is rejected.
func ParsePrice(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// ParseQuantity parses a unit count. Only non-negative base-10 integers are accepted.
func ParseQuantity(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ParseChargeValue parses an extra charge value. Negative or non-numeric input is rejected.
func ParseChargeValue(s string) (decimal.Decimal, bool) {
	return ParsePrice(s)
}

// FieldIssue describes a user-entered field whose text does not parse.
// Value is the raw text so it can be shown back for correction.
type FieldIssue struct {
	Entity string // "item" or "charge"
	ID     int
	Field  string
	Value  string
}

// FieldIssues lists every item and charge field that the calculator is treating as zero
// because it does not parse. Blank fields are not reported; they have simply not been
// filled in yet.
func FieldIssues(bill *models.Bill) []FieldIssue {
	var issues []FieldIssue
	for _, item := range bill.Items {
		if _, ok := ParsePrice(item.Price); !ok && !blank(item.Price) {
			issues = append(issues, FieldIssue{Entity: "item", ID: item.ID, Field: "price", Value: item.Price})
		}
		if _, ok := ParseQuantity(item.Quantity); !ok && !blank(item.Quantity) {
			issues = append(issues, FieldIssue{Entity: "item", ID: item.ID, Field: "quantity", Value: item.Quantity})
		}
	}
	for _, charge := range bill.Charges {
		if _, ok := ParseChargeValue(charge.Value); !ok && !blank(charge.Value) {
			issues = append(issues, FieldIssue{Entity: "charge", ID: charge.ID, Field: "value", Value: charge.Value})
		}
	}
	return issues
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
