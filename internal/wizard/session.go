// Package wizard holds the state of one bill-splitting session: the bill draft being
// edited and the step the user is on.
//
// Every operation mutates the session synchronously. Derived values (subtotal,
// charge amounts, validity) are never stored; callers recompute them from Bill
// with the calculator package after each edit.
package wizard

import (
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/billsplittr/internal/calculator"
	"github.com/mmynk/billsplittr/internal/models"
)

// Step is a position in the wizard.
type Step int

const (
	StepCaptureChoice Step = iota
	StepItems
	StepCharges
	StepPeople
	StepShares
	StepResults
)

var stepNames = [...]string{"capture", "items", "charges", "people", "shares", "results"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

var (
	ErrAtFirstStep  = errors.New("already at the first step")
	ErrAtLastStep   = errors.New("already at the last step")
	ErrNotAtResults = errors.New("start over is only available from the results step")
)

// GateError is returned by Next when the share assignment does not validate.
type GateError struct {
	Validation calculator.Validation
}

func (e *GateError) Error() string {
	return e.Validation.Reason
}

// Session is one user's wizard.
type Session struct {
	ID   string
	Step Step
	Bill models.Bill

	// Locale and Currency are display preferences for formatted amounts.
	Locale   string
	Currency string

	// FromReceipt is set once a receipt has populated the draft.
	FromReceipt bool

	CreatedAt time.Time

	lastID int
}

// New creates a session in its initial state.
func New(id, locale, currency string, now time.Time) *Session {
	s := &Session{
		ID:        id,
		Locale:    locale,
		Currency:  currency,
		CreatedAt: now,
	}
	s.reset()
	return s
}

// reset puts every entity back to the initial state: one blank item, nothing else.
func (s *Session) reset() {
	s.Step = StepCaptureChoice
	s.FromReceipt = false
	s.Bill = models.Bill{Shares: models.Shares{}}
	s.Bill.Items = []models.BillItem{s.blankItem()}
}

func (s *Session) newID() int {
	s.lastID++
	return s.lastID
}

func (s *Session) blankItem() models.BillItem {
	return models.BillItem{ID: s.newID(), Quantity: "1", Split: models.SplitEqual}
}

// Next moves one step forward. Leaving the shares step requires a valid share
// assignment; otherwise a *GateError is returned and nothing changes.
func (s *Session) Next() error {
	switch s.Step {
	case StepResults:
		return ErrAtLastStep
	case StepShares:
		v := calculator.ValidateShares(s.Bill.Items, s.Bill.People, s.Bill.Shares)
		if !v.Valid {
			return &GateError{Validation: v}
		}
	}
	s.Step++
	return nil
}

// Back moves one step backward. It never validates and never discards data.
func (s *Session) Back() error {
	if s.Step == StepCaptureChoice {
		return ErrAtFirstStep
	}
	s.Step--
	return nil
}

// StartOver clears the bill and returns to the capture step.
func (s *Session) StartOver() error {
	if s.Step != StepResults {
		return ErrNotAtResults
	}
	s.reset()
	return nil
}

// EnterManually skips receipt capture.
func (s *Session) EnterManually() {
	s.Step = StepItems
}

// SetBillName sets the bill's display name.
func (s *Session) SetBillName(name string) {
	s.Bill.Name = name
}

// SetCurrency sets the display preferences.
func (s *Session) SetCurrency(locale, currency string) {
	s.Locale = locale
	s.Currency = currency
}

// Clone returns a deep copy, safe to hand to another goroutine.
func (s *Session) Clone() *Session {
	out := *s
	out.Bill = s.Bill.Clone()
	return &out
}
