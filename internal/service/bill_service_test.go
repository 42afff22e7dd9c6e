package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/billsplittr/internal/auth"
	"github.com/mmynk/billsplittr/internal/calculator"
	"github.com/mmynk/billsplittr/internal/middleware"
	"github.com/mmynk/billsplittr/internal/models"
	"github.com/mmynk/billsplittr/internal/receipt"
	"github.com/mmynk/billsplittr/internal/storage/memory"
	apiv1 "github.com/mmynk/billsplittr/pkg/api/v1"
)

// fakeReceipts returns a canned pipeline result.
type fakeReceipts struct {
	result *receipt.Result
	err    error
	calls  int
}

func (f *fakeReceipts) Process(_ context.Context, _ receipt.Image) (*receipt.Result, error) {
	f.calls++
	return f.result, f.err
}

// setupTestServer creates a test server with an in-memory session store and real session tokens.
func setupTestServer(t *testing.T, opts ...Option) *apiv1.BillServiceClient {
	t.Helper()

	store := memory.New(time.Hour)
	tokens := auth.NewSessionTokens("test-secret", time.Hour)
	svc := NewBillService(store, tokens, opts...)

	interceptors := connect.WithInterceptors(middleware.RequireSession(tokens, PublicProcedures...))
	path, handler := apiv1.NewBillServiceHandler(svc, interceptors)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return apiv1.NewBillServiceClient(http.DefaultClient, server.URL)
}

// startSession starts a session and returns its token.
func startSession(t *testing.T, client *apiv1.BillServiceClient) (string, apiv1.Session) {
	t.Helper()
	resp, err := client.StartSession(context.Background(), connect.NewRequest(&apiv1.StartSessionRequest{Locale: "en-US"}))
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	return resp.Msg.Token, resp.Msg.Session
}

// authed wraps msg in a request carrying the session token.
func authed[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func ptr(s string) *string { return &s }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	w := decimal.RequireFromString(want)
	if !got.Sub(w).Abs().LessThan(decimal.New(1, -9)) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("expected code %v, got %v (%v)", want, got, err)
	}
}

func TestStartSession(t *testing.T) {
	client := setupTestServer(t)

	resp, err := client.StartSession(context.Background(), connect.NewRequest(&apiv1.StartSessionRequest{Locale: "en-IN"}))
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	s := resp.Msg.Session
	if resp.Msg.Token == "" {
		t.Error("expected a token")
	}
	if s.Step != "capture" {
		t.Errorf("expected capture step, got %s", s.Step)
	}
	if s.Currency != "INR" {
		t.Errorf("expected INR for en-IN, got %s", s.Currency)
	}
	if len(s.Items) != 1 || s.Items[0].Quantity != "1" || s.Items[0].Split != "equal" {
		t.Errorf("expected one blank item, got %+v", s.Items)
	}
	if len(s.People) != 0 || len(s.Charges) != 0 {
		t.Errorf("expected no people or charges, got %+v %+v", s.People, s.Charges)
	}
}

func TestStartSession_InvalidCurrency(t *testing.T) {
	client := setupTestServer(t)
	_, err := client.StartSession(context.Background(), connect.NewRequest(&apiv1.StartSessionRequest{Currency: "DOLLARS"}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestRequiresToken(t *testing.T) {
	client := setupTestServer(t)

	_, err := client.GetSession(context.Background(), connect.NewRequest(&apiv1.Empty{}))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = client.GetSession(context.Background(), authed("garbage", &apiv1.Empty{}))
	assertCode(t, err, connect.CodeUnauthenticated)

	// A token signed by another server is rejected.
	other, _ := auth.NewSessionTokens("other-secret", time.Hour).Issue("whatever")
	_, err = client.GetSession(context.Background(), authed(other, &apiv1.Empty{}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestUnknownSession(t *testing.T) {
	client := setupTestServer(t)
	token, _ := auth.NewSessionTokens("test-secret", time.Hour).Issue("no-such-session")

	_, err := client.GetSession(context.Background(), authed(token, &apiv1.Empty{}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestListCurrencies(t *testing.T) {
	client := setupTestServer(t)

	resp, err := client.ListCurrencies(context.Background(), connect.NewRequest(&apiv1.ListCurrenciesRequest{Locale: "en-GB"}))
	if err != nil {
		t.Fatalf("ListCurrencies failed: %v", err)
	}
	if len(resp.Msg.Currencies) != 15 {
		t.Errorf("expected 15 currencies, got %d", len(resp.Msg.Currencies))
	}
	if resp.Msg.Default != "GBP" {
		t.Errorf("expected GBP default, got %s", resp.Msg.Default)
	}
}

// TestFullWizard walks the pizza-and-beer bill from start to results.
//
// Pizza 20 shared equally by Alice and Bob; Beer 5 × 2 split by quantity, all
// claimed by Bob; 10% tip.
func TestFullWizard(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()
	token, session := startSession(t, client)

	next := func() apiv1.Session {
		t.Helper()
		resp, err := client.Next(ctx, authed(token, &apiv1.Empty{}))
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		return resp.Msg.Session
	}

	session = next()
	if session.Step != "items" {
		t.Fatalf("expected items step, got %s", session.Step)
	}

	pizzaID := session.Items[0].ID
	if _, err := client.UpdateItem(ctx, authed(token, &apiv1.UpdateItemRequest{ItemID: pizzaID, Name: ptr("Pizza"), Price: ptr("20")})); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}

	resp, err := client.AddItem(ctx, authed(token, &apiv1.Empty{}))
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	beerID := resp.Msg.Session.Items[1].ID
	if _, err := client.UpdateItem(ctx, authed(token, &apiv1.UpdateItemRequest{ItemID: beerID, Name: ptr("Beer"), Price: ptr("5"), Quantity: ptr("2")})); err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	resp, err = client.SetSplitMode(ctx, authed(token, &apiv1.SetSplitModeRequest{ItemID: beerID, Mode: "quantity"}))
	if err != nil {
		t.Fatalf("SetSplitMode failed: %v", err)
	}
	assertDecimal(t, "30", resp.Msg.Session.Subtotal)

	session = next()
	if session.Step != "charges" {
		t.Fatalf("expected charges step, got %s", session.Step)
	}
	resp, err = client.AddCharge(ctx, authed(token, &apiv1.Empty{}))
	if err != nil {
		t.Fatalf("AddCharge failed: %v", err)
	}
	tip := resp.Msg.Session.Charges[0]
	if tip.Value != "0" || tip.Type != "amount" {
		t.Errorf("expected new charge to be amount 0, got %+v", tip)
	}
	resp, err = client.UpdateCharge(ctx, authed(token, &apiv1.UpdateChargeRequest{ChargeID: tip.ID, Name: ptr("Tip"), Value: ptr("10"), Type: ptr("percentage")}))
	if err != nil {
		t.Fatalf("UpdateCharge failed: %v", err)
	}
	assertDecimal(t, "3", resp.Msg.Session.Charges[0].CalculatedValue)
	assertDecimal(t, "33", resp.Msg.Session.Total)

	session = next()
	if session.Step != "people" {
		t.Fatalf("expected people step, got %s", session.Step)
	}
	if _, err := client.AddPerson(ctx, authed(token, &apiv1.AddPersonRequest{Name: "Alice"})); err != nil {
		t.Fatalf("AddPerson failed: %v", err)
	}
	resp, err = client.AddPerson(ctx, authed(token, &apiv1.AddPersonRequest{Name: "Bob"}))
	if err != nil {
		t.Fatalf("AddPerson failed: %v", err)
	}
	alice, bob := resp.Msg.Session.People[0].ID, resp.Msg.Session.People[1].ID

	session = next()
	if session.Step != "shares" {
		t.Fatalf("expected shares step, got %s", session.Step)
	}
	if session.Validation.Valid {
		t.Error("expected shares to be invalid before assignment")
	}

	// Leaving shares is gated.
	_, err = client.Next(ctx, authed(token, &apiv1.Empty{}))
	assertCode(t, err, connect.CodeFailedPrecondition)
	var cerr *connect.Error
	if errors.As(err, &cerr) && cerr.Message() != calculator.ReasonUncovered {
		t.Errorf("expected uncovered reason, got %q", cerr.Message())
	}

	for _, share := range []apiv1.SetShareRequest{
		{PersonID: alice, ItemID: pizzaID, Share: true},
		{PersonID: bob, ItemID: pizzaID, Share: true},
		{PersonID: bob, ItemID: beerID, Share: true, Quantity: 1},
	} {
		resp, err = client.SetShare(ctx, authed(token, &share))
		if err != nil {
			t.Fatalf("SetShare failed: %v", err)
		}
	}
	if resp.Msg.Session.Validation.Reason != calculator.ReasonUnallocated {
		t.Errorf("expected unallocated reason, got %q", resp.Msg.Session.Validation.Reason)
	}

	resp, err = client.SetShare(ctx, authed(token, &apiv1.SetShareRequest{PersonID: bob, ItemID: beerID, Share: true, Quantity: 2}))
	if err != nil {
		t.Fatalf("SetShare failed: %v", err)
	}
	if !resp.Msg.Session.Validation.Valid {
		t.Fatalf("expected valid shares, got %+v", resp.Msg.Session.Validation)
	}

	// Results are not available before the results step.
	_, err = client.GetResults(ctx, authed(token, &apiv1.Empty{}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	session = next()
	if session.Step != "results" {
		t.Fatalf("expected results step, got %s", session.Step)
	}

	results, err := client.GetResults(ctx, authed(token, &apiv1.Empty{}))
	if err != nil {
		t.Fatalf("GetResults failed: %v", err)
	}
	r := results.Msg.Results
	assertDecimal(t, "33", r.Total)
	if r.TotalText != "$33.00" {
		t.Errorf("expected $33.00, got %s", r.TotalText)
	}
	if len(r.People) != 2 {
		t.Fatalf("expected 2 people, got %d", len(r.People))
	}
	assertDecimal(t, "11", r.People[0].Total)
	assertDecimal(t, "22", r.People[1].Total)
	assertDecimal(t, "33.33", r.People[0].Percentage)
	if got := r.People[1].Shares; len(got) != 2 || got[0] != "Pizza" || got[1] != "Beer x2" {
		t.Errorf("unexpected share labels %v", got)
	}
	assertDecimal(t, "0", r.Unallocated)

	_, err = client.Next(ctx, authed(token, &apiv1.Empty{}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	// Start over keeps currency but resets the draft.
	resp, err = client.StartOver(ctx, authed(token, &apiv1.Empty{}))
	if err != nil {
		t.Fatalf("StartOver failed: %v", err)
	}
	s := resp.Msg.Session
	if s.Step != "capture" || len(s.Items) != 1 || len(s.People) != 0 || len(s.Charges) != 0 {
		t.Errorf("expected fresh session, got %+v", s)
	}
	if s.Currency != "USD" {
		t.Errorf("expected currency to survive start over, got %s", s.Currency)
	}
}

func TestBackKeepsData(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()
	token, _ := startSession(t, client)

	_, err := client.Back(ctx, authed(token, &apiv1.Empty{}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	client.Next(ctx, authed(token, &apiv1.Empty{}))
	client.SetBillName(ctx, authed(token, &apiv1.SetBillNameRequest{Name: "  Dinner "}))
	resp, err := client.Back(ctx, authed(token, &apiv1.Empty{}))
	if err != nil {
		t.Fatalf("Back failed: %v", err)
	}
	if resp.Msg.Session.Step != "capture" || resp.Msg.Session.BillName != "Dinner" {
		t.Errorf("unexpected session %+v", resp.Msg.Session)
	}
}

func TestEntityErrors(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()
	token, session := startSession(t, client)

	_, err := client.RemoveItem(ctx, authed(token, &apiv1.RemoveItemRequest{ItemID: session.Items[0].ID}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	_, err = client.UpdateItem(ctx, authed(token, &apiv1.UpdateItemRequest{ItemID: 999, Name: ptr("x")}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = client.SetSplitMode(ctx, authed(token, &apiv1.SetSplitModeRequest{ItemID: session.Items[0].ID, Mode: "thirds"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	resp, _ := client.AddCharge(ctx, authed(token, &apiv1.Empty{}))
	chargeID := resp.Msg.Session.Charges[0].ID
	_, err = client.UpdateCharge(ctx, authed(token, &apiv1.UpdateChargeRequest{ChargeID: chargeID, Type: ptr("bribe")}))
	assertCode(t, err, connect.CodeInvalidArgument)

	resp, _ = client.AddPerson(ctx, authed(token, &apiv1.AddPersonRequest{Name: "Solo"}))
	_, err = client.RemovePerson(ctx, authed(token, &apiv1.RemovePersonRequest{PersonID: resp.Msg.Session.People[0].ID}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	_, err = client.SetShare(ctx, authed(token, &apiv1.SetShareRequest{PersonID: resp.Msg.Session.People[0].ID, ItemID: 999, Share: true}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = client.SetCurrency(ctx, authed(token, &apiv1.SetCurrencyRequest{Currency: "nope"}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestFieldIssues(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()
	token, session := startSession(t, client)

	resp, err := client.UpdateItem(ctx, authed(token, &apiv1.UpdateItemRequest{ItemID: session.Items[0].ID, Price: ptr("abc")}))
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	issues := resp.Msg.Session.FieldIssues
	if len(issues) != 1 || issues[0].Field != "price" || issues[0].Value != "abc" {
		t.Errorf("expected one price issue, got %+v", issues)
	}
	assertDecimal(t, "0", resp.Msg.Session.Subtotal)
}

func TestSetCurrency(t *testing.T) {
	client := setupTestServer(t)
	token, _ := startSession(t, client)

	resp, err := client.SetCurrency(context.Background(), authed(token, &apiv1.SetCurrencyRequest{Currency: "eur", Locale: "de-DE"}))
	if err != nil {
		t.Fatalf("SetCurrency failed: %v", err)
	}
	if resp.Msg.Session.Currency != "EUR" || resp.Msg.Session.Locale != "de-DE" {
		t.Errorf("unexpected session %+v", resp.Msg.Session)
	}
}

func TestImportReceipt(t *testing.T) {
	conf := 0.95
	receipts := &fakeReceipts{result: &receipt.Result{Bill: &models.ParsedBill{
		BillName: "Luigi's",
		Items: []models.ParsedItem{
			{Name: "Pizza", Price: "12.50", Quantity: "2"},
			{Name: "Soda", Price: "n/a", Quantity: ""},
		},
		ExtraCharges: []models.ParsedCharge{{Name: "Tax", Value: "8", Type: models.ChargePercentage}},
		Confidence:   &conf,
	}}}
	client := setupTestServer(t, WithReceiptProcessor(receipts))
	token, _ := startSession(t, client)

	resp, err := client.ImportReceipt(context.Background(), authed(token, &apiv1.ImportReceiptRequest{Filename: "r.jpg", Image: []byte("img")}))
	if err != nil {
		t.Fatalf("ImportReceipt failed: %v", err)
	}
	if resp.Msg.Status != apiv1.ImportStatusImported {
		t.Errorf("expected imported status, got %s", resp.Msg.Status)
	}
	s := resp.Msg.Session
	if s.Step != "items" || !s.FromReceipt || s.BillName != "Luigi's" {
		t.Errorf("unexpected session %+v", s)
	}
	if len(s.Items) != 2 || s.Items[1].Price != "0" || s.Items[1].Quantity != "1" {
		t.Errorf("unexpected items %+v", s.Items)
	}
	assertDecimal(t, "25", s.Subtotal)
	assertDecimal(t, "27", s.Total)

	// Importing again is only possible from the capture step.
	_, err = client.ImportReceipt(context.Background(), authed(token, &apiv1.ImportReceiptRequest{Image: []byte("img")}))
	assertCode(t, err, connect.CodeFailedPrecondition)
}

func TestImportReceipt_LowConfidenceFallsBack(t *testing.T) {
	receipts := &fakeReceipts{
		result: &receipt.Result{Bill: &models.ParsedBill{Items: []models.ParsedItem{{Name: "???", Price: "1"}}}},
		err:    receipt.ErrLowConfidence,
	}
	client := setupTestServer(t, WithReceiptProcessor(receipts))
	token, _ := startSession(t, client)

	resp, err := client.ImportReceipt(context.Background(), authed(token, &apiv1.ImportReceiptRequest{Image: []byte("img")}))
	if err != nil {
		t.Fatalf("ImportReceipt failed: %v", err)
	}
	if resp.Msg.Status != apiv1.ImportStatusFallback {
		t.Errorf("expected fallback status, got %s", resp.Msg.Status)
	}
	s := resp.Msg.Session
	if s.Step != "items" || s.FromReceipt || s.Items[0].Name != "" {
		t.Errorf("expected untouched manual draft, got %+v", s)
	}
}

func TestImportReceipt_FailureLeavesSession(t *testing.T) {
	receipts := &fakeReceipts{err: &receipt.ServiceError{Service: "ocr", StatusCode: 503, Err: errors.New("down")}}
	client := setupTestServer(t, WithReceiptProcessor(receipts))
	token, _ := startSession(t, client)

	_, err := client.ImportReceipt(context.Background(), authed(token, &apiv1.ImportReceiptRequest{Image: []byte("img")}))
	assertCode(t, err, connect.CodeUnavailable)

	got, err := client.GetSession(context.Background(), authed(token, &apiv1.Empty{}))
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.Msg.Session.Step != "capture" {
		t.Errorf("expected capture step, got %s", got.Msg.Session.Step)
	}

	receipts.err = receipt.ErrEmptyImage
	_, err = client.ImportReceipt(context.Background(), authed(token, &apiv1.ImportReceiptRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestImportReceipt_NotConfigured(t *testing.T) {
	client := setupTestServer(t)
	token, _ := startSession(t, client)

	_, err := client.ImportReceipt(context.Background(), authed(token, &apiv1.ImportReceiptRequest{Image: []byte("img")}))
	assertCode(t, err, connect.CodeUnavailable)
}
