package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmynk/billsplittr/internal/models"
)

func TestValidateShares(t *testing.T) {
	people := []models.Person{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}}

	tests := []struct {
		name       string
		items      []models.BillItem
		shares     map[models.ShareKey]int
		wantValid  bool
		wantReason string
		wantItems  []int
	}{
		{
			name:      "no items is valid",
			wantValid: true,
		},
		{
			name:      "quantity split fully allocated",
			items:     []models.BillItem{item(1, "9", "3", models.SplitByQuantity)},
			shares:    map[models.ShareKey]int{{PersonID: 1, ItemID: 1}: 1, {PersonID: 2, ItemID: 1}: 2},
			wantValid: true,
		},
		{
			name:       "quantity split under-allocated",
			items:      []models.BillItem{item(1, "9", "3", models.SplitByQuantity)},
			shares:     map[models.ShareKey]int{{PersonID: 1, ItemID: 1}: 1, {PersonID: 2, ItemID: 1}: 1},
			wantReason: ReasonUnallocated,
			wantItems:  []int{1},
		},
		{
			name:       "quantity split over-allocated",
			items:      []models.BillItem{item(1, "9", "2", models.SplitByQuantity)},
			shares:     map[models.ShareKey]int{{PersonID: 1, ItemID: 1}: 2, {PersonID: 2, ItemID: 1}: 1},
			wantReason: ReasonUnallocated,
			wantItems:  []int{1},
		},
		{
			name:      "unset quantities count as one each",
			items:     []models.BillItem{item(1, "9", "2", models.SplitByQuantity)},
			shares:    map[models.ShareKey]int{{PersonID: 1, ItemID: 1}: 0, {PersonID: 2, ItemID: 1}: 0},
			wantValid: true,
		},
		{
			name:      "equal split is exempt from the quantity check",
			items:     []models.BillItem{item(1, "9", "5", models.SplitEqual)},
			shares:    map[models.ShareKey]int{{PersonID: 1, ItemID: 1}: 7},
			wantValid: true,
		},
		{
			name: "uncovered item fails even when others are allocated",
			items: []models.BillItem{
				item(1, "9", "3", models.SplitByQuantity),
				item(2, "4", "1", models.SplitEqual),
			},
			shares:     map[models.ShareKey]int{{PersonID: 1, ItemID: 1}: 3},
			wantReason: ReasonUncovered,
			wantItems:  []int{2},
		},
		{
			name: "coverage wins over quantity",
			items: []models.BillItem{
				item(1, "9", "3", models.SplitByQuantity),
				item(2, "4", "1", models.SplitEqual),
			},
			shares:     map[models.ShareKey]int{{PersonID: 1, ItemID: 1}: 1},
			wantReason: ReasonUncovered,
			wantItems:  []int{2},
		},
		{
			name:       "unparsable declared quantity cannot be allocated",
			items:      []models.BillItem{item(1, "9", "x", models.SplitByQuantity)},
			shares:     map[models.ShareKey]int{{PersonID: 1, ItemID: 1}: 1},
			wantReason: ReasonUnallocated,
			wantItems:  []int{1},
		},
		{
			name:       "shares of people not on the bill do not count",
			items:      []models.BillItem{item(1, "9", "1", models.SplitEqual)},
			shares:     map[models.ShareKey]int{{PersonID: 42, ItemID: 1}: 1},
			wantReason: ReasonUncovered,
			wantItems:  []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares := models.Shares{}
			for k, q := range tt.shares {
				shares.Set(k.PersonID, k.ItemID, q)
			}

			got := ValidateShares(tt.items, people, shares)
			assert.Equal(t, tt.wantValid, got.Valid)
			assert.Equal(t, tt.wantReason, got.Reason)
			assert.Equal(t, tt.wantItems, got.ItemIDs)
		})
	}
}
