package wizard

import (
	"errors"

	"github.com/mmynk/billsplittr/internal/calculator"
	"github.com/mmynk/billsplittr/internal/models"
)

var (
	ErrItemNotFound   = errors.New("item not found")
	ErrChargeNotFound = errors.New("charge not found")
	ErrPersonNotFound = errors.New("person not found")
	ErrLastItem       = errors.New("a bill needs at least one item")
	ErrLastPerson     = errors.New("a bill needs at least one person")
	ErrBadQuantity    = errors.New("quantity must not be negative")
	ErrBadChargeType  = errors.New("charge type must be amount or percentage")
)

// ItemUpdate carries the item fields to change; nil fields are left alone.
type ItemUpdate struct {
	Name     *string
	Price    *string
	Quantity *string
}

// ChargeUpdate carries the charge fields to change; nil fields are left alone.
type ChargeUpdate struct {
	Name  *string
	Value *string
	Type  *models.ChargeType
}

// AddItem appends a blank item. Nobody shares it yet.
func (s *Session) AddItem() models.BillItem {
	item := s.blankItem()
	s.Bill.Items = append(s.Bill.Items, item)
	return item
}

// UpdateItem changes an item's text fields.
func (s *Session) UpdateItem(id int, u ItemUpdate) error {
	item, ok := s.Bill.FindItem(id)
	if !ok {
		return ErrItemNotFound
	}
	if u.Name != nil {
		item.Name = *u.Name
	}
	if u.Price != nil {
		item.Price = *u.Price
	}
	if u.Quantity != nil {
		item.Quantity = *u.Quantity
	}
	return nil
}

// RemoveItem deletes an item and everyone's share of it. The last item stays.
func (s *Session) RemoveItem(id int) error {
	if _, ok := s.Bill.FindItem(id); !ok {
		return ErrItemNotFound
	}
	if len(s.Bill.Items) <= 1 {
		return ErrLastItem
	}
	items := s.Bill.Items[:0]
	for _, it := range s.Bill.Items {
		if it.ID != id {
			items = append(items, it)
		}
	}
	s.Bill.Items = items
	s.Bill.Shares.RemoveItem(id)
	return nil
}

// SetSplitMode switches an item between equal and per-quantity splitting.
// With a single person on the bill their claimed units follow the item: the full
// quantity when splitting by quantity, one unit otherwise.
func (s *Session) SetSplitMode(itemID int, mode models.SplitMode) error {
	item, ok := s.Bill.FindItem(itemID)
	if !ok {
		return ErrItemNotFound
	}
	item.Split = mode

	if len(s.Bill.People) != 1 {
		return nil
	}
	personID := s.Bill.People[0].ID
	if _, shared := s.Bill.Shares.Get(personID, itemID); !shared {
		return nil
	}
	units := 1
	if mode == models.SplitByQuantity {
		if q, ok := calculator.ParseQuantity(item.Quantity); ok && q > 0 {
			units = q
		}
	}
	s.Bill.Shares.Set(personID, itemID, units)
	return nil
}

// AddCharge appends an amount charge with value "0".
func (s *Session) AddCharge() models.ExtraCharge {
	charge := models.ExtraCharge{ID: s.newID(), Value: "0", Type: models.ChargeAmount}
	s.Bill.Charges = append(s.Bill.Charges, charge)
	return charge
}

// UpdateCharge changes a charge's fields.
func (s *Session) UpdateCharge(id int, u ChargeUpdate) error {
	charge, ok := s.Bill.FindCharge(id)
	if !ok {
		return ErrChargeNotFound
	}
	if u.Type != nil && !u.Type.Valid() {
		return ErrBadChargeType
	}
	if u.Name != nil {
		charge.Name = *u.Name
	}
	if u.Value != nil {
		charge.Value = *u.Value
	}
	if u.Type != nil {
		charge.Type = *u.Type
	}
	return nil
}

// RemoveCharge deletes a charge.
func (s *Session) RemoveCharge(id int) error {
	if _, ok := s.Bill.FindCharge(id); !ok {
		return ErrChargeNotFound
	}
	charges := s.Bill.Charges[:0]
	for _, c := range s.Bill.Charges {
		if c.ID != id {
			charges = append(charges, c)
		}
	}
	s.Bill.Charges = charges
	return nil
}

// AddPerson appends a participant who shares nothing yet.
func (s *Session) AddPerson(name string) models.Person {
	p := models.Person{ID: s.newID(), Name: name}
	s.Bill.People = append(s.Bill.People, p)
	return p
}

// RenamePerson changes a participant's name.
func (s *Session) RenamePerson(id int, name string) error {
	p, ok := s.Bill.FindPerson(id)
	if !ok {
		return ErrPersonNotFound
	}
	p.Name = name
	return nil
}

// RemovePerson deletes a participant and all their shares. The last person stays.
func (s *Session) RemovePerson(id int) error {
	if _, ok := s.Bill.FindPerson(id); !ok {
		return ErrPersonNotFound
	}
	if len(s.Bill.People) <= 1 {
		return ErrLastPerson
	}
	people := s.Bill.People[:0]
	for _, p := range s.Bill.People {
		if p.ID != id {
			people = append(people, p)
		}
	}
	s.Bill.People = people
	s.Bill.Shares.RemovePerson(id)
	return nil
}

// SetShare records whether a person shares an item and how many units they claim.
// A lone person cannot opt out of an item: there is nobody else to pay for it.
func (s *Session) SetShare(personID, itemID int, share bool, quantity int) error {
	if _, ok := s.Bill.FindPerson(personID); !ok {
		return ErrPersonNotFound
	}
	if _, ok := s.Bill.FindItem(itemID); !ok {
		return ErrItemNotFound
	}
	if quantity < 0 {
		return ErrBadQuantity
	}
	if len(s.Bill.People) == 1 {
		share = true
	}
	if !share {
		s.Bill.Shares.Unset(personID, itemID)
		return nil
	}
	s.Bill.Shares.Set(personID, itemID, quantity)
	return nil
}
