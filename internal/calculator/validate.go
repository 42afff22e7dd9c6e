package calculator

import "github.com/mmynk/billsplittr/internal/models"

const (
	// ReasonUncovered is reported when an item has no sharers.
	ReasonUncovered = "All items must have at least one person sharing."
	// ReasonUnallocated is reported when a quantity-split item's claimed units
	// do not add up to its quantity.
	ReasonUnallocated = "Quantities for all 'Split Separately' items must be fully allocated."
)

// Validation is the outcome of ValidateShares.
type Validation struct {
	Valid  bool
	Reason string

	// ItemIDs lists the items that failed the reported check.
	ItemIDs []int
}

// ValidateShares checks that a share assignment can be turned into results.
// Coverage is checked first: every item needs at least one sharer. Then every
// quantity-split item must have exactly its declared quantity claimed. Equal-split
// items never take part in the quantity check.
func ValidateShares(items []models.BillItem, people []models.Person, shares models.Shares) Validation {
	var uncovered, unallocated []int
	for _, item := range items {
		sharers := sharersOf(item, people, shares)
		if len(sharers) == 0 {
			uncovered = append(uncovered, item.ID)
			continue
		}
		if item.Split != models.SplitByQuantity {
			continue
		}
		claimed := 0
		for _, s := range sharers {
			claimed += s.share.Units()
		}
		declared, ok := ParseQuantity(item.Quantity)
		if !ok || claimed != declared {
			unallocated = append(unallocated, item.ID)
		}
	}

	switch {
	case len(uncovered) > 0:
		return Validation{Reason: ReasonUncovered, ItemIDs: uncovered}
	case len(unallocated) > 0:
		return Validation{Reason: ReasonUnallocated, ItemIDs: unallocated}
	default:
		return Validation{Valid: true}
	}
}
