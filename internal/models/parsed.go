package models

// ParsedBill is a candidate bill read from a receipt photo.
// Numeric fields are kept as text because the parsing service is not trusted to
// produce clean numbers.
type ParsedBill struct {
	BillName     string         `json:"billName,omitempty"`
	Items        []ParsedItem   `json:"items"`
	ExtraCharges []ParsedCharge `json:"extraCharges"`

	// Confidence is the parser's self-reported confidence in [0, 1], if any.
	Confidence *float64 `json:"confidence,omitempty"`

	// Total is the receipt total as printed, if found.
	Total string `json:"total,omitempty"`
}

// ParsedItem is one line item read from a receipt.
type ParsedItem struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// ParsedCharge is one extra charge read from a receipt.
type ParsedCharge struct {
	Name  string     `json:"name"`
	Value string     `json:"value"`
	Type  ChargeType `json:"type"`
}
