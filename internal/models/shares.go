package models

import "sort"

// ShareKey identifies one (person, item) relation.
type ShareKey struct {
	PersonID int
	ItemID   int
}

// Share is a person's stake in an item.
type Share struct {
	// Quantity is the number of units claimed. It only matters for items split
	// by quantity; zero means unset and is read as 1.
	Quantity int
}

// Units returns the claimed quantity, defaulting to 1 when unset.
func (s Share) Units() int {
	if s.Quantity <= 0 {
		return 1
	}
	return s.Quantity
}

// Shares is the sparse share relation. A missing key means the person does not share the item.
type Shares map[ShareKey]Share

// Get returns the share for (personID, itemID) if the person shares the item.
func (s Shares) Get(personID, itemID int) (Share, bool) {
	sh, ok := s[ShareKey{PersonID: personID, ItemID: itemID}]
	return sh, ok
}

// Set records that personID shares itemID with the given quantity.
func (s Shares) Set(personID, itemID, quantity int) {
	s[ShareKey{PersonID: personID, ItemID: itemID}] = Share{Quantity: quantity}
}

// Unset removes personID's share of itemID.
func (s Shares) Unset(personID, itemID int) {
	delete(s, ShareKey{PersonID: personID, ItemID: itemID})
}

// RemoveItem drops every share of itemID.
func (s Shares) RemoveItem(itemID int) {
	for k := range s {
		if k.ItemID == itemID {
			delete(s, k)
		}
	}
}

// RemovePerson drops every share held by personID.
func (s Shares) RemovePerson(personID int) {
	for k := range s {
		if k.PersonID == personID {
			delete(s, k)
		}
	}
}

// Clone returns an independent copy. Cloning a nil map yields an empty one.
func (s Shares) Clone() Shares {
	out := make(Shares, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Keys returns the keys ordered by person then item, for stable output.
func (s Shares) Keys() []ShareKey {
	keys := make([]ShareKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].PersonID != keys[j].PersonID {
			return keys[i].PersonID < keys[j].PersonID
		}
		return keys[i].ItemID < keys[j].ItemID
	})
	return keys
}
