// Package models defines the core domain models for billsplittr.
//
// # Models
//
//   - Bill: the whole wizard draft (name, items, charges, people, shares)
//   - BillItem: one priced line on the receipt
//   - ExtraCharge: a surcharge applied as a fixed amount or a percentage of the subtotal
//   - Person: a participant who may share items
//   - Shares: the sparse (person, item) relation with claimed quantities
//   - ParsedBill: a candidate bill produced by the receipt pipeline
//
// # Design Principles
//
// 1. **Raw user input**: numeric fields keep the text the user typed. The calculator
// parses them on read, so invalid values are never silently lost.
// 2. **Stable integer IDs**: items, charges and people are numbered per session.
// 3. **Sparse shares**: a missing (person, item) key means "not sharing". Adding
// an item or person needs no resynchronisation; removing one deletes its keys.
// 4. **No cached derived values**: charge amounts are computed from
// (value, type, subtotal) whenever they are read.
package models
