package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplittr/internal/models"
)

// ItemLine is one row of the itemised results.
type ItemLine struct {
	Item     models.BillItem
	Rate     decimal.Decimal // parsed unit price, zero if invalid
	Quantity int             // parsed quantity, zero if invalid
	Amount   decimal.Decimal
}

// ChargeLine is one extra charge with its resolved amount.
type ChargeLine struct {
	Charge            models.ExtraCharge
	Amount            decimal.Decimal
	PercentOfSubtotal decimal.Decimal
}

// PersonLine is one person's row in the results.
type PersonLine struct {
	PersonAllocation

	// Percentage is Total as a share of the bill total, rounded to 2 places.
	Percentage decimal.Decimal

	// ShareLabels describe what this person shares ("Pizza", "Beer x2").
	ShareLabels []string
}

// Summary is everything the results step shows.
type Summary struct {
	BillName string
	Subtotal decimal.Decimal
	Total    decimal.Decimal

	Items   []ItemLine
	Charges []ChargeLine
	People  []PersonLine

	// Allocated is the sum of person totals.
	Allocated decimal.Decimal

	// Unallocated is Total - Allocated. It is zero (within rounding) for a valid
	// share assignment and positive when items are left unshared.
	Unallocated decimal.Decimal

	Validation Validation
}

// Summarize aggregates a bill into its results view.
func Summarize(bill *models.Bill) *Summary {
	subtotal := Subtotal(bill.Items)
	total := Total(subtotal, bill.Charges)

	s := &Summary{
		BillName:   bill.Name,
		Subtotal:   subtotal,
		Total:      total,
		Allocated:  decimal.Zero,
		Validation: ValidateShares(bill.Items, bill.People, bill.Shares),
	}

	for _, item := range bill.Items {
		rate, _ := ParsePrice(item.Price)
		qty, _ := ParseQuantity(item.Quantity)
		s.Items = append(s.Items, ItemLine{Item: item, Rate: rate, Quantity: qty, Amount: ItemCost(item)})
	}

	for _, charge := range bill.Charges {
		amount := SurchargeAmount(charge, subtotal)
		s.Charges = append(s.Charges, ChargeLine{
			Charge:            charge,
			Amount:            amount,
			PercentOfSubtotal: Percentage(amount, subtotal),
		})
	}

	for _, a := range allocate(bill.Items, bill.People, bill.Shares, bill.Charges, subtotal) {
		s.Allocated = s.Allocated.Add(a.Total)
		s.People = append(s.People, PersonLine{
			PersonAllocation: a,
			Percentage:       Percentage(a.Total, total),
			ShareLabels:      shareLabels(a.Items),
		})
	}
	s.Unallocated = total.Sub(s.Allocated)

	return s
}

// Percentage returns part / whole × 100 rounded to 2 places, or zero when whole is zero.
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole).Round(2)
}

func shareLabels(items []ItemShare) []string {
	labels := make([]string, 0, len(items))
	for _, it := range items {
		if it.Split == models.SplitByQuantity {
			labels = append(labels, fmt.Sprintf("%s x%d", it.Name, it.Units))
		} else {
			labels = append(labels, it.Name)
		}
	}
	return labels
}
