package models

import "fmt"

// SplitMode selects how an item's cost is partitioned among its sharers.
type SplitMode int

const (
	// SplitEqual divides the item cost evenly among its sharers.
	SplitEqual SplitMode = iota
	// SplitByQuantity divides the item cost in proportion to the units each sharer claims.
	SplitByQuantity
)

func (m SplitMode) String() string {
	switch m {
	case SplitEqual:
		return "equal"
	case SplitByQuantity:
		return "quantity"
	default:
		return fmt.Sprintf("SplitMode(%d)", int(m))
	}
}

// ParseSplitMode converts the wire name of a split mode.
func ParseSplitMode(s string) (SplitMode, error) {
	switch s {
	case "equal", "":
		return SplitEqual, nil
	case "quantity":
		return SplitByQuantity, nil
	default:
		return 0, fmt.Errorf("unknown split mode %q", s)
	}
}

// ChargeType says how an extra charge's value is interpreted.
type ChargeType string

const (
	// ChargeAmount is a fixed currency amount.
	ChargeAmount ChargeType = "amount"
	// ChargePercentage is a percentage of the bill subtotal.
	ChargePercentage ChargeType = "percentage"
)

// Valid reports whether t is a known charge type.
func (t ChargeType) Valid() bool {
	return t == ChargeAmount || t == ChargePercentage
}

// Bill is the full draft being split: everything the calculator needs.
type Bill struct {
	// Name is the optional bill or restaurant name.
	Name string

	// Items are the priced lines in display order.
	Items []BillItem

	// Charges are the surcharges (tax, tip, service fee, ...) in display order.
	Charges []ExtraCharge

	// People are the participants in display order.
	People []Person

	// Shares records which people share which items.
	Shares Shares
}

// BillItem represents one priced line on the bill.
type BillItem struct {
	// ID is stable for the lifetime of the session.
	ID int

	// Name is the item description (e.g., "Pizza").
	Name string

	// Price is the unit price exactly as entered.
	Price string

	// Quantity is the number of units exactly as entered.
	Quantity string

	// Split selects equal or per-quantity partitioning.
	Split SplitMode
}

// ExtraCharge is a surcharge applied on top of the item subtotal.
// Its amount is derived from Value, Type and the subtotal; it is never stored.
type ExtraCharge struct {
	ID    int
	Name  string
	Value string
	Type  ChargeType
}

// Person is a participant who may be assigned shares of items.
type Person struct {
	ID   int
	Name string
}

// FindItem returns the item with the given ID.
func (b *Bill) FindItem(id int) (*BillItem, bool) {
	for i := range b.Items {
		if b.Items[i].ID == id {
			return &b.Items[i], true
		}
	}
	return nil, false
}

// FindCharge returns the charge with the given ID.
func (b *Bill) FindCharge(id int) (*ExtraCharge, bool) {
	for i := range b.Charges {
		if b.Charges[i].ID == id {
			return &b.Charges[i], true
		}
	}
	return nil, false
}

// FindPerson returns the person with the given ID.
func (b *Bill) FindPerson(id int) (*Person, bool) {
	for i := range b.People {
		if b.People[i].ID == id {
			return &b.People[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the bill.
func (b Bill) Clone() Bill {
	out := Bill{Name: b.Name}
	out.Items = append([]BillItem(nil), b.Items...)
	out.Charges = append([]ExtraCharge(nil), b.Charges...)
	out.People = append([]Person(nil), b.People...)
	out.Shares = b.Shares.Clone()
	return out
}
