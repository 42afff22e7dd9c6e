package wizard

import (
	"errors"
	"testing"
	"time"

	"github.com/mmynk/billsplittr/internal/calculator"
	"github.com/mmynk/billsplittr/internal/models"
)

func newSession() *Session {
	return New("test", "en-US", "USD", time.Unix(0, 0))
}

func TestNew_InitialState(t *testing.T) {
	s := newSession()

	if s.Step != StepCaptureChoice {
		t.Errorf("step = %v, want capture", s.Step)
	}
	if len(s.Bill.Items) != 1 {
		t.Fatalf("expected 1 blank item, got %d", len(s.Bill.Items))
	}
	item := s.Bill.Items[0]
	if item.Quantity != "1" || item.Price != "" || item.Split != models.SplitEqual {
		t.Errorf("unexpected blank item: %+v", item)
	}
	if len(s.Bill.Charges) != 0 || len(s.Bill.People) != 0 || len(s.Bill.Shares) != 0 {
		t.Errorf("expected no charges, people or shares: %+v", s.Bill)
	}
}

func TestNavigation(t *testing.T) {
	s := newSession()

	if err := s.Back(); !errors.Is(err, ErrAtFirstStep) {
		t.Errorf("Back from capture: got %v, want ErrAtFirstStep", err)
	}

	// capture -> items -> charges -> people -> shares need no validation
	for want := StepItems; want <= StepShares; want++ {
		if err := s.Next(); err != nil {
			t.Fatalf("Next to %v failed: %v", want, err)
		}
		if s.Step != want {
			t.Fatalf("step = %v, want %v", s.Step, want)
		}
	}

	// the blank item is unshared, so the gate holds
	err := s.Next()
	var gate *GateError
	if !errors.As(err, &gate) {
		t.Fatalf("Next from shares: got %v, want *GateError", err)
	}
	if gate.Validation.Reason != calculator.ReasonUncovered {
		t.Errorf("gate reason = %q", gate.Validation.Reason)
	}
	if s.Step != StepShares {
		t.Errorf("failed gate moved the step to %v", s.Step)
	}

	p := s.AddPerson("Alice")
	if err := s.SetShare(p.ID, s.Bill.Items[0].ID, true, 0); err != nil {
		t.Fatalf("SetShare: %v", err)
	}
	if err := s.Next(); err != nil {
		t.Fatalf("Next to results: %v", err)
	}
	if err := s.Next(); !errors.Is(err, ErrAtLastStep) {
		t.Errorf("Next from results: got %v, want ErrAtLastStep", err)
	}
}

func TestBack_IsLossless(t *testing.T) {
	s := newSession()
	s.EnterManually()
	name, price := "Pizza", "abc"
	if err := s.UpdateItem(s.Bill.Items[0].ID, ItemUpdate{Name: &name, Price: &price}); err != nil {
		t.Fatal(err)
	}
	s.AddCharge()
	s.Step = StepShares

	before := s.Clone()
	for s.Step != StepCaptureChoice {
		if err := s.Back(); err != nil {
			t.Fatalf("Back: %v", err)
		}
	}
	if s.Bill.Items[0].Price != "abc" || s.Bill.Items[0].Name != "Pizza" {
		t.Errorf("item changed while going back: %+v", s.Bill.Items[0])
	}
	if len(s.Bill.Charges) != len(before.Bill.Charges) {
		t.Errorf("charges changed while going back")
	}
}

func TestStartOver(t *testing.T) {
	s := newSession()
	s.AddItem()
	p := s.AddPerson("Alice")
	for _, it := range s.Bill.Items {
		if err := s.SetShare(p.ID, it.ID, true, 0); err != nil {
			t.Fatal(err)
		}
	}
	s.SetBillName("Dinner")

	s.Step = StepPeople
	if err := s.StartOver(); !errors.Is(err, ErrNotAtResults) {
		t.Errorf("StartOver before results: got %v", err)
	}

	s.Step = StepResults
	if err := s.StartOver(); err != nil {
		t.Fatalf("StartOver: %v", err)
	}
	if s.Step != StepCaptureChoice || s.Bill.Name != "" || len(s.Bill.People) != 0 || len(s.Bill.Shares) != 0 || len(s.Bill.Items) != 1 {
		t.Errorf("session not reset: step=%v bill=%+v", s.Step, s.Bill)
	}
	if s.Locale != "en-US" || s.Currency != "USD" {
		t.Errorf("currency preference should survive a reset")
	}
}

func TestClone_IsIndependent(t *testing.T) {
	s := newSession()
	p := s.AddPerson("Alice")
	if err := s.SetShare(p.ID, s.Bill.Items[0].ID, true, 2); err != nil {
		t.Fatal(err)
	}

	c := s.Clone()
	c.Bill.Shares.RemovePerson(p.ID)
	c.Bill.People[0].Name = "Mallory"
	c.AddItem()

	if _, ok := s.Bill.Shares.Get(p.ID, s.Bill.Items[0].ID); !ok {
		t.Error("clone shares alias the original")
	}
	if s.Bill.People[0].Name != "Alice" {
		t.Error("clone people alias the original")
	}
	if len(s.Bill.Items) != 1 {
		t.Error("clone items alias the original")
	}
}
