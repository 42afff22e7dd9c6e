package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmynk/billsplittr/internal/models"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"3", 3, true},
		{" 12 ", 12, true},
		{"0", 0, true},
		{"-1", 0, false},
		{"2.5", 0, false},
		{"", 0, false},
		{"two", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseQuantity(tt.in)
		assert.Equal(t, tt.wantOK, ok, "ParseQuantity(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseQuantity(%q)", tt.in)
	}
}

func TestParsePrice(t *testing.T) {
	for _, in := range []string{"12.99", "0", " 4 ", "1e2"} {
		_, ok := ParsePrice(in)
		assert.True(t, ok, "ParsePrice(%q)", in)
	}
	for _, in := range []string{"", "-3", "$4", "12,99"} {
		_, ok := ParsePrice(in)
		assert.False(t, ok, "ParsePrice(%q)", in)
	}
}

func TestFieldIssues(t *testing.T) {
	bill := &models.Bill{
		Items: []models.BillItem{
			{ID: 1, Name: "Fresh", Price: "", Quantity: "1"},
			{ID: 2, Name: "Typo", Price: "1O.50", Quantity: "1.5"},
			{ID: 3, Name: "Fine", Price: "3", Quantity: "2"},
		},
		Charges: []models.ExtraCharge{
			{ID: 1, Name: "Tax", Value: "8%", Type: models.ChargePercentage},
			{ID: 2, Name: "Tip", Value: "", Type: models.ChargeAmount},
		},
	}

	assert.Equal(t, []FieldIssue{
		{Entity: "item", ID: 2, Field: "price", Value: "1O.50"},
		{Entity: "item", ID: 2, Field: "quantity", Value: "1.5"},
		{Entity: "charge", ID: 1, Field: "value", Value: "8%"},
	}, FieldIssues(bill))
}
