package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mmynk/billsplittr/internal/auth"
	"github.com/mmynk/billsplittr/internal/metrics"
	"github.com/mmynk/billsplittr/internal/middleware"
	"github.com/mmynk/billsplittr/internal/models"
	"github.com/mmynk/billsplittr/internal/money"
	"github.com/mmynk/billsplittr/internal/receipt"
	"github.com/mmynk/billsplittr/internal/storage"
	"github.com/mmynk/billsplittr/internal/wizard"
	apiv1 "github.com/mmynk/billsplittr/pkg/api/v1"
)

// ReceiptProcessor turns a receipt photo into a candidate bill.
type ReceiptProcessor interface {
	Process(ctx context.Context, img receipt.Image) (*receipt.Result, error)
}

// BillService implements the Connect BillService.
type BillService struct {
	store         storage.Store
	tokens        *auth.SessionTokens
	receipts      ReceiptProcessor
	metrics       *metrics.Metrics
	defaultLocale string
	now           func() time.Time
}

var _ apiv1.BillServiceHandler = (*BillService)(nil)

// Option configures a BillService.
type Option func(*BillService)

// WithReceiptProcessor enables receipt import.
func WithReceiptProcessor(p ReceiptProcessor) Option {
	return func(s *BillService) { s.receipts = p }
}

// WithMetrics records session counts.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *BillService) { s.metrics = m }
}

// WithDefaultLocale sets the locale of sessions started without one.
func WithDefaultLocale(locale string) Option {
	return func(s *BillService) { s.defaultLocale = money.NormalizeLocale(locale) }
}

// NewBillService creates a new BillService with the given storage backend.
func NewBillService(store storage.Store, tokens *auth.SessionTokens, opts ...Option) *BillService {
	s := &BillService{
		store:         store,
		tokens:        tokens,
		defaultLocale: money.DefaultLocale,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PublicProcedures are callable without a session token.
var PublicProcedures = []string{
	apiv1.BillServiceStartSessionProcedure,
	apiv1.BillServiceListCurrenciesProcedure,
}

// StartSession creates a wizard session and returns the token that addresses it.
func (s *BillService) StartSession(ctx context.Context, req *connect.Request[apiv1.StartSessionRequest]) (*connect.Response[apiv1.StartSessionResponse], error) {
	locale := s.defaultLocale
	if req.Msg.Locale != "" {
		locale = money.NormalizeLocale(req.Msg.Locale)
	}

	code, err := resolveCurrency(req.Msg.Currency, locale)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	session := wizard.New(uuid.NewString(), locale, code, s.now())
	if err := s.store.Create(ctx, session); err != nil {
		slog.Error("StartSession failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.tokens.Issue(session.ID)
	if err != nil {
		slog.Error("StartSession: failed to issue token", "error", err)
		_ = s.store.Delete(ctx, session.ID)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	if s.metrics != nil {
		s.metrics.SessionsActive.Inc()
	}
	slog.Info("Session created", "session_id", session.ID, "locale", locale, "currency", code)

	return connect.NewResponse(&apiv1.StartSessionResponse{
		Token:   token,
		Session: sessionView(session),
	}), nil
}

// resolveCurrency validates an explicit currency code or derives one from the locale.
func resolveCurrency(code, locale string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return money.ForLocale(locale), nil
	}
	if !money.ValidCode(code) {
		return "", fmt.Errorf("unknown currency %q", code)
	}
	return code, nil
}

// GetSession returns the caller's session.
func (s *BillService) GetSession(ctx context.Context, req *connect.Request[apiv1.Empty]) (*connect.Response[apiv1.SessionResponse], error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}
	return sessionResponse(session), nil
}

// ImportReceipt reads a receipt photo and fills the draft from it.
//
// A failed import leaves the session untouched so the user can retry or enter the
// bill by hand. A parse that is not confident enough moves the session to manual
// entry and reports the fallback status.
func (s *BillService) ImportReceipt(ctx context.Context, req *connect.Request[apiv1.ImportReceiptRequest]) (*connect.Response[apiv1.ImportReceiptResponse], error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	if s.receipts == nil {
		return nil, connect.NewError(connect.CodeUnavailable, errors.New("receipt import is not available"))
	}

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}
	if current.Step != wizard.StepCaptureChoice {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errNotAtCapture)
	}

	result, err := s.receipts.Process(ctx, receipt.Image{
		Filename:    req.Msg.Filename,
		ContentType: req.Msg.ContentType,
		Data:        req.Msg.Image,
	})
	lowConfidence := errors.Is(err, receipt.ErrLowConfidence)
	if err != nil && !lowConfidence {
		slog.Warn("ImportReceipt failed", "session_id", id, "error", err)
		return nil, importError(err)
	}

	status, message := apiv1.ImportStatusImported, ""
	switch {
	case lowConfidence:
		status, message = apiv1.ImportStatusFallback, "The receipt could not be read clearly. Please enter the items manually."
	case result.Cached:
		status = apiv1.ImportStatusCached
	}

	session, err := s.store.Update(ctx, id, func(ws *wizard.Session) error {
		if ws.Step != wizard.StepCaptureChoice {
			return errNotAtCapture
		}
		if lowConfidence {
			ws.EnterManually()
			return nil
		}
		ws.ApplyParsedBill(result.Bill)
		return nil
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Receipt imported", "session_id", id, "status", status, "items", len(session.Bill.Items))
	return connect.NewResponse(&apiv1.ImportReceiptResponse{
		Status:  status,
		Message: message,
		Session: sessionView(session),
	}), nil
}

var errNotAtCapture = errors.New("receipts can only be imported from the capture step")

func importError(err error) error {
	switch {
	case errors.Is(err, receipt.ErrEmptyImage), errors.Is(err, receipt.ErrImageTooLarge):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	default:
		return connect.NewError(connect.CodeUnavailable, err)
	}
}

// SetBillName sets the bill's display name.
func (s *BillService) SetBillName(ctx context.Context, req *connect.Request[apiv1.SetBillNameRequest]) (*connect.Response[apiv1.SessionResponse], error) {
	return s.update(ctx, func(ws *wizard.Session) error {
		ws.SetBillName(strings.TrimSpace(req.Msg.Name))
		return nil
	})
}

// SetCurrency changes the display currency and optionally the locale.
func (s *BillService) SetCurrency(ctx context.Context, req *connect.Request[apiv1.SetCurrencyRequest]) (*connect.Response[apiv1.SessionResponse], error) {
	code := strings.ToUpper(strings.TrimSpace(req.Msg.Currency))
	if !money.ValidCode(code) {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown currency %q", req.Msg.Currency))
	}
	return s.update(ctx, func(ws *wizard.Session) error {
		locale := ws.Locale
		if req.Msg.Locale != "" {
			locale = money.NormalizeLocale(req.Msg.Locale)
		}
		ws.SetCurrency(locale, code)
		return nil
	})
}

func (s *BillService) AddItem(ctx context.Context, req *connect.Request[apiv1.Empty]) (*connect.Response[apiv1.SessionResponse], error) {
	return s.update(ctx, func(ws *wizard.Session) error {
		ws.AddItem()
		return nil
	})
}

func (s *BillService) UpdateItem(ctx context.Context, req *connect.Request[apiv1.UpdateItemRequest]) (*connect.Response[apiv1.SessionResponse], error) {
	return s.update(ctx, func(ws *wizard.Session) error {
		return ws.UpdateItem(req.Msg.ItemID, wizard.ItemUpdate{
			Name:     req.Msg.Name,
			Price:    req.Msg.Price,
			Quantity: req.Msg.Quantity,
		})
	})
}

func (s *BillService) RemoveItem(ctx context.Context, req *connect.Request[apiv1.RemoveItemRequest]) (*connect.Response[apiv1.SessionResponse], error) {
	return s.update(ctx, func(ws *wizard.Session) error {
		return ws.RemoveItem(req.Msg.ItemID)
	})
}

func (s *BillService) SetSplitMode(ctx context.Context, req *connect.Request[apiv1.SetSplitModeRequest]) (*connect.Response[apiv1.SessionResponse], error) {
	mode, err := models.ParseSplitMode(req.Msg.Mode)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return s.update(ctx, func(ws *wizard.Session) error {
		return ws.SetSplitMode(req.Msg.ItemID, mode)
	})
}

func (s *BillService) AddCharge(ctx context.Context, req *connect.Request[apiv1.Empty]) (*connect.Response[apiv1.SessionResponse], error) {
	return s.update(ctx, func(ws *wizard.Session) error {
		ws.AddCharge()
		return nil
	})
}

func (s *BillService) UpdateCharge(ctx context.Context, req *connect.Request[apiv1.UpdateChargeRequest]) (*connect.Response[apiv1.SessionResponse], error) {
	u := wizard.ChargeUpdate{Name: req.Msg.Name, Value: req.Msg.Value}
	if req.Msg.Type != nil {
		t := models.ChargeType(*req.Msg.Type)
		u.Type = &t
	}
	return s.update(ctx, func(ws *wizard.Session) error {
		return ws.UpdateCharge(req.Msg.ChargeID, u)
	})
}

func (s *BillService) RemoveCharge(ctx context.Context, req *connect.Request[apiv1.RemoveChargeRequest]) (*connect.Response[apiv1.SessionResponse], error) {
	return s.update(ctx, func(ws *wizard.Session) error {
		return ws.RemoveCharge(req.Msg.ChargeID)
	})
}

func (s *BillService) AddPerson(ctx context.Context, req *connect.Request[apiv1.AddPersonRequest]) (*connect.Response[apiv1.SessionResponse], error) {
	return s.update(ctx, func(ws *wizard.Session) error {
		ws.AddPerson(strings.TrimSpace(req.Msg.Name))
		return nil
	})
}

func (s *BillService) RenamePerson(ctx context.Context, req *connect.Request[apiv1.RenamePersonRequest]) (*connect.Response[apiv1.SessionResponse], error) {
	return s.update(ctx, func(ws *wizard.Session) error {
		return ws.RenamePerson(req.Msg.PersonID, strings.TrimSpace(req.Msg.Name))
	})
}

func (s *BillService) RemovePerson(ctx context.Context, req *connect.Request[apiv1.RemovePersonRequest]) (*connect.Response[apiv1.SessionResponse], error) {
	return s.update(ctx, func(ws *wizard.Session) error {
		return ws.RemovePerson(req.Msg.PersonID)
	})
}

func (s *BillService) SetShare(ctx context.Context, req *connect.Request[apiv1.SetShareRequest]) (*connect.Response[apiv1.SessionResponse], error) {
	return s.update(ctx, func(ws *wizard.Session) error {
		return ws.SetShare(req.Msg.PersonID, req.Msg.ItemID, req.Msg.Share, req.Msg.Quantity)
	})
}

// Next advances the wizard. From the capture step it starts manual entry.
func (s *BillService) Next(ctx context.Context, req *connect.Request[apiv1.Empty]) (*connect.Response[apiv1.SessionResponse], error) {
	return s.update(ctx, func(ws *wizard.Session) error {
		return ws.Next()
	})
}

func (s *BillService) Back(ctx context.Context, req *connect.Request[apiv1.Empty]) (*connect.Response[apiv1.SessionResponse], error) {
	return s.update(ctx, func(ws *wizard.Session) error {
		return ws.Back()
	})
}

// StartOver clears the draft and returns to the capture step.
func (s *BillService) StartOver(ctx context.Context, req *connect.Request[apiv1.Empty]) (*connect.Response[apiv1.SessionResponse], error) {
	return s.update(ctx, func(ws *wizard.Session) error {
		return ws.StartOver()
	})
}

// GetResults returns the per-person breakdown. Only available at the results step.
func (s *BillService) GetResults(ctx context.Context, req *connect.Request[apiv1.Empty]) (*connect.Response[apiv1.ResultsResponse], error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}
	if session.Step != wizard.StepResults {
		return nil, connect.NewError(connect.CodeFailedPrecondition,
			fmt.Errorf("results are not available at the %s step", session.Step))
	}

	results := resultsView(session)
	slog.Debug("Results computed",
		"session_id", id,
		"total", results.Total.String(),
		"people", len(results.People),
	)
	return connect.NewResponse(&apiv1.ResultsResponse{Results: results}), nil
}

// ListCurrencies returns the currency picker entries and a suggested default.
func (s *BillService) ListCurrencies(ctx context.Context, req *connect.Request[apiv1.ListCurrenciesRequest]) (*connect.Response[apiv1.ListCurrenciesResponse], error) {
	locale := s.defaultLocale
	if req.Msg.Locale != "" {
		locale = req.Msg.Locale
	}

	supported := money.Supported()
	list := make([]apiv1.Currency, 0, len(supported))
	for _, c := range supported {
		list = append(list, currencyView(c))
	}
	return connect.NewResponse(&apiv1.ListCurrenciesResponse{
		Currencies: list,
		Default:    money.ForLocale(locale),
	}), nil
}

// update applies fn to the caller's session and returns the recomputed view.
func (s *BillService) update(ctx context.Context, fn func(*wizard.Session) error) (*connect.Response[apiv1.SessionResponse], error) {
	id, err := sessionID(ctx)
	if err != nil {
		return nil, err
	}
	session, err := s.store.Update(ctx, id, fn)
	if err != nil {
		return nil, toConnectError(err)
	}
	return sessionResponse(session), nil
}

func sessionResponse(session *wizard.Session) *connect.Response[apiv1.SessionResponse] {
	return connect.NewResponse(&apiv1.SessionResponse{Session: sessionView(session)})
}

func sessionID(ctx context.Context) (string, error) {
	id := middleware.GetSessionID(ctx)
	if id == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return id, nil
}

// toConnectError maps domain errors to Connect codes.
func toConnectError(err error) error {
	var gate *wizard.GateError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, wizard.ErrItemNotFound),
		errors.Is(err, wizard.ErrChargeNotFound),
		errors.Is(err, wizard.ErrPersonNotFound),
		errors.Is(err, wizard.ErrBadQuantity),
		errors.Is(err, wizard.ErrBadChargeType):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.As(err, &gate):
		cerr := connect.NewError(connect.CodeFailedPrecondition, err)
		cerr.Meta().Set("X-Invalid-Items", joinIDs(gate.Validation.ItemIDs))
		return cerr
	case errors.Is(err, wizard.ErrLastItem),
		errors.Is(err, wizard.ErrLastPerson),
		errors.Is(err, wizard.ErrAtFirstStep),
		errors.Is(err, wizard.ErrAtLastStep),
		errors.Is(err, wizard.ErrNotAtResults),
		errors.Is(err, errNotAtCapture):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		slog.Error("Unexpected session error", "error", err)
		return connect.NewError(connect.CodeInternal, err)
	}
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}
