package service

import (
	"github.com/mmynk/billsplittr/internal/calculator"
	"github.com/mmynk/billsplittr/internal/money"
	"github.com/mmynk/billsplittr/internal/wizard"
	apiv1 "github.com/mmynk/billsplittr/pkg/api/v1"
)

// sessionView recomputes every derived value of the session for the client.
func sessionView(s *wizard.Session) apiv1.Session {
	bill := &s.Bill
	subtotal := calculator.Subtotal(bill.Items)

	v := apiv1.Session{
		ID:          s.ID,
		Step:        s.Step.String(),
		BillName:    bill.Name,
		Locale:      s.Locale,
		Currency:    s.Currency,
		FromReceipt: s.FromReceipt,
		Items:       make([]apiv1.Item, 0, len(bill.Items)),
		Charges:     make([]apiv1.Charge, 0, len(bill.Charges)),
		People:      make([]apiv1.Person, 0, len(bill.People)),
		Shares:      make([]apiv1.Share, 0, len(bill.Shares)),
		Subtotal:    subtotal,
		Total:       calculator.Total(subtotal, bill.Charges),
		Validation:  validationView(calculator.ValidateShares(bill.Items, bill.People, bill.Shares)),
		FieldIssues: []apiv1.FieldIssue{},
	}

	for _, it := range bill.Items {
		v.Items = append(v.Items, apiv1.Item{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
			Split:    it.Split.String(),
			Cost:     calculator.ItemCost(it),
		})
	}
	for _, c := range bill.Charges {
		v.Charges = append(v.Charges, apiv1.Charge{
			ID:              c.ID,
			Name:            c.Name,
			Value:           c.Value,
			Type:            string(c.Type),
			CalculatedValue: calculator.SurchargeAmount(c, subtotal),
		})
	}
	for _, p := range bill.People {
		v.People = append(v.People, apiv1.Person{ID: p.ID, Name: p.Name})
	}
	for _, k := range bill.Shares.Keys() {
		v.Shares = append(v.Shares, apiv1.Share{PersonID: k.PersonID, ItemID: k.ItemID, Quantity: bill.Shares[k].Quantity})
	}
	for _, fi := range calculator.FieldIssues(bill) {
		v.FieldIssues = append(v.FieldIssues, apiv1.FieldIssue{Entity: fi.Entity, ID: fi.ID, Field: fi.Field, Value: fi.Value})
	}
	return v
}

func validationView(v calculator.Validation) apiv1.Validation {
	return apiv1.Validation{Valid: v.Valid, Reason: v.Reason, ItemIDs: v.ItemIDs}
}

// resultsView builds the results breakdown with amounts formatted for the session's
// locale and currency.
func resultsView(s *wizard.Session) apiv1.Results {
	sum := calculator.Summarize(&s.Bill)
	r := apiv1.Results{
		BillName:     sum.BillName,
		Locale:       s.Locale,
		Currency:     s.Currency,
		Subtotal:     sum.Subtotal,
		SubtotalText: money.Format(sum.Subtotal, s.Locale, s.Currency),
		Total:        sum.Total,
		TotalText:    money.Format(sum.Total, s.Locale, s.Currency),
		Items:        make([]apiv1.ResultItem, 0, len(sum.Items)),
		Charges:      make([]apiv1.ResultCharge, 0, len(sum.Charges)),
		People:       make([]apiv1.ResultPerson, 0, len(sum.People)),
		Allocated:    sum.Allocated,
		Unallocated:  sum.Unallocated,
	}

	for _, line := range sum.Items {
		r.Items = append(r.Items, apiv1.ResultItem{
			ItemID:     line.Item.ID,
			Name:       line.Item.Name,
			Rate:       line.Rate,
			RateText:   money.Format(line.Rate, s.Locale, s.Currency),
			Quantity:   line.Quantity,
			Amount:     line.Amount,
			AmountText: money.Format(line.Amount, s.Locale, s.Currency),
		})
	}
	for _, line := range sum.Charges {
		r.Charges = append(r.Charges, apiv1.ResultCharge{
			ChargeID:          line.Charge.ID,
			Name:              line.Charge.Name,
			Type:              string(line.Charge.Type),
			Value:             line.Charge.Value,
			Amount:            line.Amount,
			AmountText:        money.Format(line.Amount, s.Locale, s.Currency),
			PercentOfSubtotal: line.PercentOfSubtotal,
		})
	}
	for _, line := range sum.People {
		p := apiv1.ResultPerson{
			PersonID:   line.Person.ID,
			Name:       line.Person.Name,
			Subtotal:   line.Subtotal,
			Surcharges: line.Surcharges,
			Total:      line.Total,
			TotalText:  money.Format(line.Total, s.Locale, s.Currency),
			Percentage: line.Percentage,
			Shares:     line.ShareLabels,
			Items:      make([]apiv1.ResultShare, 0, len(line.Items)),
		}
		for _, it := range line.Items {
			p.Items = append(p.Items, apiv1.ResultShare{
				ItemID:     it.ItemID,
				Name:       it.Name,
				Units:      it.Units,
				Amount:     it.Amount,
				AmountText: money.Format(it.Amount, s.Locale, s.Currency),
			})
		}
		r.People = append(r.People, p)
	}
	return r
}

func currencyView(c money.Currency) apiv1.Currency {
	return apiv1.Currency{Code: c.Code, Name: c.Name, Symbol: c.Symbol, Locale: c.Locale}
}
