package wizard

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplittr/internal/calculator"
	"github.com/mmynk/billsplittr/internal/models"
)

// ApplyParsedBill fills the draft from a parsed receipt and moves to the items step.
// Parsed items replace the current ones when there are any, as do parsed charges.
// Prices and charge values that do not parse become "0"; quantities become "1".
func (s *Session) ApplyParsedBill(p *models.ParsedBill) {
	if p.BillName != "" {
		s.Bill.Name = p.BillName
	}

	if len(p.Items) > 0 {
		for _, it := range s.Bill.Items {
			s.Bill.Shares.RemoveItem(it.ID)
		}
		items := make([]models.BillItem, 0, len(p.Items))
		for _, pi := range p.Items {
			qty, ok := calculator.ParseQuantity(pi.Quantity)
			if !ok || qty < 1 {
				qty = 1
			}
			items = append(items, models.BillItem{
				ID:       s.newID(),
				Name:     pi.Name,
				Price:    normalizeNumber(pi.Price),
				Quantity: strconv.Itoa(qty),
				Split:    models.SplitEqual,
			})
		}
		s.Bill.Items = items
	}

	if len(p.ExtraCharges) > 0 {
		charges := make([]models.ExtraCharge, 0, len(p.ExtraCharges))
		for _, pc := range p.ExtraCharges {
			typ := pc.Type
			if !typ.Valid() {
				typ = models.ChargeAmount
			}
			charges = append(charges, models.ExtraCharge{
				ID:    s.newID(),
				Name:  pc.Name,
				Value: normalizeNumber(pc.Value),
				Type:  typ,
			})
		}
		s.Bill.Charges = charges
	}

	s.FromReceipt = true
	s.Step = StepItems
}

func normalizeNumber(s string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return "0"
	}
	return d.String()
}
