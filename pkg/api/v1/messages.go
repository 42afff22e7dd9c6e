package apiv1

import "github.com/shopspring/decimal"

// Empty is the request of procedures that act on the caller's session without arguments.
type Empty struct{}

// Session is the full recomputed view of a wizard session.
type Session struct {
	ID          string `json:"id"`
	Step        string `json:"step"`
	BillName    string `json:"billName"`
	Locale      string `json:"locale"`
	Currency    string `json:"currency"`
	FromReceipt bool   `json:"fromReceipt"`

	Items   []Item   `json:"items"`
	Charges []Charge `json:"charges"`
	People  []Person `json:"people"`
	Shares  []Share  `json:"shares"`

	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`

	Validation  Validation   `json:"validation"`
	FieldIssues []FieldIssue `json:"fieldIssues"`
}

type Item struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    string          `json:"price"`
	Quantity string          `json:"quantity"`
	Split    string          `json:"split"`
	Cost     decimal.Decimal `json:"cost"`
}

type Charge struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
	Type  string `json:"type"`

	// CalculatedValue is the currency amount this charge adds to the bill.
	CalculatedValue decimal.Decimal `json:"calculatedValue"`
}

type Person struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Share says that PersonID shares ItemID. Quantity only matters for quantity-split items.
type Share struct {
	PersonID int `json:"personId"`
	ItemID   int `json:"itemId"`
	Quantity int `json:"quantity"`
}

type Validation struct {
	Valid   bool   `json:"valid"`
	Reason  string `json:"reason,omitempty"`
	ItemIDs []int  `json:"itemIds,omitempty"`
}

// FieldIssue flags an entered value that does not parse and is being counted as zero.
type FieldIssue struct {
	Entity string `json:"entity"`
	ID     int    `json:"id"`
	Field  string `json:"field"`
	Value  string `json:"value"`
}

// SessionResponse is returned by every procedure that edits the session.
type SessionResponse struct {
	Session Session `json:"session"`
}

type StartSessionRequest struct {
	// Locale is a BCP 47 tag such as "en-IN". Empty selects the server default.
	Locale string `json:"locale"`

	// Currency is an ISO 4217 code. Empty picks one from the locale's region.
	Currency string `json:"currency"`
}

type StartSessionResponse struct {
	// Token must be sent as "Authorization: Bearer <token>" on every other call.
	Token   string  `json:"token"`
	Session Session `json:"session"`
}

type ImportReceiptRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`

	// Image is the raw photo, base64 encoded on the wire.
	Image []byte `json:"image"`
}

// Import statuses.
const (
	ImportStatusImported = "imported"
	ImportStatusCached   = "cached"
	ImportStatusFallback = "fallback"
)

type ImportReceiptResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message,omitempty"`
	Session Session `json:"session"`
}

type SetBillNameRequest struct {
	Name string `json:"name"`
}

type SetCurrencyRequest struct {
	Currency string `json:"currency"`

	// Locale is optional; the current one is kept when empty.
	Locale string `json:"locale"`
}

type UpdateItemRequest struct {
	ItemID   int     `json:"itemId"`
	Name     *string `json:"name,omitempty"`
	Price    *string `json:"price,omitempty"`
	Quantity *string `json:"quantity,omitempty"`
}

type RemoveItemRequest struct {
	ItemID int `json:"itemId"`
}

type SetSplitModeRequest struct {
	ItemID int    `json:"itemId"`
	Mode   string `json:"mode"`
}

type UpdateChargeRequest struct {
	ChargeID int     `json:"chargeId"`
	Name     *string `json:"name,omitempty"`
	Value    *string `json:"value,omitempty"`
	Type     *string `json:"type,omitempty"`
}

type RemoveChargeRequest struct {
	ChargeID int `json:"chargeId"`
}

type AddPersonRequest struct {
	Name string `json:"name"`
}

type RenamePersonRequest struct {
	PersonID int    `json:"personId"`
	Name     string `json:"name"`
}

type RemovePersonRequest struct {
	PersonID int `json:"personId"`
}

type SetShareRequest struct {
	PersonID int  `json:"personId"`
	ItemID   int  `json:"itemId"`
	Share    bool `json:"share"`
	Quantity int  `json:"quantity"`
}

// Results is the final breakdown shown at the results step.
// Every amount is also given preformatted in the session's locale and currency.
type Results struct {
	BillName string `json:"billName"`
	Locale   string `json:"locale"`
	Currency string `json:"currency"`

	Subtotal     decimal.Decimal `json:"subtotal"`
	SubtotalText string          `json:"subtotalText"`
	Total        decimal.Decimal `json:"total"`
	TotalText    string          `json:"totalText"`

	Items   []ResultItem   `json:"items"`
	Charges []ResultCharge `json:"charges"`
	People  []ResultPerson `json:"people"`

	Allocated   decimal.Decimal `json:"allocated"`
	Unallocated decimal.Decimal `json:"unallocated"`
}

type ResultItem struct {
	ItemID     int             `json:"itemId"`
	Name       string          `json:"name"`
	Rate       decimal.Decimal `json:"rate"`
	RateText   string          `json:"rateText"`
	Quantity   int             `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
	AmountText string          `json:"amountText"`
}

type ResultCharge struct {
	ChargeID          int             `json:"chargeId"`
	Name              string          `json:"name"`
	Type              string          `json:"type"`
	Value             string          `json:"value"`
	Amount            decimal.Decimal `json:"amount"`
	AmountText        string          `json:"amountText"`
	PercentOfSubtotal decimal.Decimal `json:"percentOfSubtotal"`
}

type ResultPerson struct {
	PersonID   int             `json:"personId"`
	Name       string          `json:"name"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Surcharges decimal.Decimal `json:"surcharges"`
	Total      decimal.Decimal `json:"total"`
	TotalText  string          `json:"totalText"`
	Percentage decimal.Decimal `json:"percentage"`
	Shares     []string        `json:"shares"`
	Items      []ResultShare   `json:"items"`
}

type ResultShare struct {
	ItemID     int             `json:"itemId"`
	Name       string          `json:"name"`
	Units      int             `json:"units"`
	Amount     decimal.Decimal `json:"amount"`
	AmountText string          `json:"amountText"`
}

type ResultsResponse struct {
	Results Results `json:"results"`
}

type ListCurrenciesRequest struct {
	// Locale selects the suggested default. Empty uses the server default.
	Locale string `json:"locale"`
}

type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Locale string `json:"locale"`
}

type ListCurrenciesResponse struct {
	Currencies []Currency `json:"currencies"`
	Default    string     `json:"default"`
}
