package calculator

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplittr/internal/models"
)

// ItemShare is one person's portion of one item.
type ItemShare struct {
	ItemID int
	Name   string
	Split  models.SplitMode
	Units  int // claimed units; always 1 for equal-split items
	Amount decimal.Decimal
}

// PersonAllocation is the calculated amount owed by one person.
type PersonAllocation struct {
	Person models.Person

	// Subtotal is the sum of this person's item shares.
	Subtotal decimal.Decimal

	// Surcharges is this person's pro-rated share of the extra charges.
	Surcharges decimal.Decimal

	// Total is Subtotal + Surcharges.
	Total decimal.Decimal

	Items []ItemShare
}

// ItemCost returns price × quantity, or zero when either field does not parse.
func ItemCost(item models.BillItem) decimal.Decimal {
	price, ok := ParsePrice(item.Price)
	if !ok {
		return decimal.Zero
	}
	qty, ok := ParseQuantity(item.Quantity)
	if !ok {
		return decimal.Zero
	}
	return price.Mul(decimal.NewFromInt(int64(qty)))
}

// Subtotal sums price × quantity across all items.
func Subtotal(items []models.BillItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(ItemCost(item))
	}
	return sum
}

// chargeValue returns the parsed value of a charge that takes part in the bill.
// Charges with a blank name, an unparsable value or a zero value do not.
func chargeValue(charge models.ExtraCharge) (decimal.Decimal, bool) {
	if strings.TrimSpace(charge.Name) == "" {
		return decimal.Zero, false
	}
	v, ok := ParseChargeValue(charge.Value)
	if !ok || v.IsZero() {
		return decimal.Zero, false
	}
	return v, true
}

// SurchargeAmount returns what a charge adds to the bill given the subtotal.
func SurchargeAmount(charge models.ExtraCharge, subtotal decimal.Decimal) decimal.Decimal {
	v, ok := chargeValue(charge)
	if !ok {
		return decimal.Zero
	}
	if charge.Type == models.ChargePercentage {
		return subtotal.Mul(v).Div(hundred)
	}
	return v
}

// Total returns the subtotal plus every charge's surcharge amount.
func Total(subtotal decimal.Decimal, charges []models.ExtraCharge) decimal.Decimal {
	total := subtotal
	for _, charge := range charges {
		total = total.Add(SurchargeAmount(charge, subtotal))
	}
	return total
}

// PersonTotals computes how much each person owes, keyed by person ID.
//
// Algorithm:
//   - Item phase: each item's cost goes to its sharers, evenly for equal-split items
//     and in proportion to claimed units for quantity-split items. Unshared items go
//     to nobody.
//   - Charge phase: a percentage charge applies to the person's own item subtotal;
//     an amount charge is spread in proportion to person_subtotal / subtotal, and
//     dropped when the subtotal is zero.
//
// The totals add up to Total(subtotal, charges) whenever ValidateShares passes.
func PersonTotals(items []models.BillItem, people []models.Person, shares models.Shares, charges []models.ExtraCharge, subtotal decimal.Decimal) map[int]decimal.Decimal {
	totals := make(map[int]decimal.Decimal, len(people))
	for _, a := range allocate(items, people, shares, charges, subtotal) {
		totals[a.Person.ID] = a.Total
	}
	return totals
}

// Allocate returns the per-person breakdown for a bill, in the order of bill.People.
func Allocate(bill *models.Bill) []PersonAllocation {
	return allocate(bill.Items, bill.People, bill.Shares, bill.Charges, Subtotal(bill.Items))
}

type sharer struct {
	person models.Person
	share  models.Share
}

// sharersOf returns the people sharing item, in people order.
func sharersOf(item models.BillItem, people []models.Person, shares models.Shares) []sharer {
	var out []sharer
	for _, p := range people {
		if sh, ok := shares.Get(p.ID, item.ID); ok {
			out = append(out, sharer{person: p, share: sh})
		}
	}
	return out
}

func allocate(items []models.BillItem, people []models.Person, shares models.Shares, charges []models.ExtraCharge, subtotal decimal.Decimal) []PersonAllocation {
	allocs := make([]PersonAllocation, len(people))
	index := make(map[int]int, len(people))
	for i, p := range people {
		allocs[i] = PersonAllocation{Person: p, Subtotal: decimal.Zero, Surcharges: decimal.Zero}
		index[p.ID] = i
	}

	for _, item := range items {
		sharers := sharersOf(item, people, shares)
		if len(sharers) == 0 {
			continue
		}
		cost := ItemCost(item)

		if item.Split == models.SplitEqual {
			per := cost.Div(decimal.NewFromInt(int64(len(sharers))))
			for _, s := range sharers {
				a := &allocs[index[s.person.ID]]
				a.Subtotal = a.Subtotal.Add(per)
				a.Items = append(a.Items, ItemShare{ItemID: item.ID, Name: item.Name, Split: item.Split, Units: 1, Amount: per})
			}
			continue
		}

		totalUnits := 0
		for _, s := range sharers {
			totalUnits += s.share.Units()
		}
		if totalUnits == 0 {
			continue
		}
		for _, s := range sharers {
			units := s.share.Units()
			amount := cost.Mul(decimal.NewFromInt(int64(units))).Div(decimal.NewFromInt(int64(totalUnits)))
			a := &allocs[index[s.person.ID]]
			a.Subtotal = a.Subtotal.Add(amount)
			a.Items = append(a.Items, ItemShare{ItemID: item.ID, Name: item.Name, Split: item.Split, Units: units, Amount: amount})
		}
	}

	for i := range allocs {
		a := &allocs[i]
		for _, charge := range charges {
			v, ok := chargeValue(charge)
			if !ok {
				continue
			}
			if charge.Type == models.ChargePercentage {
				a.Surcharges = a.Surcharges.Add(a.Subtotal.Mul(v).Div(hundred))
			} else if subtotal.IsPositive() {
				a.Surcharges = a.Surcharges.Add(v.Mul(a.Subtotal).Div(subtotal))
			}
		}
		a.Total = a.Subtotal.Add(a.Surcharges)
	}
	return allocs
}
