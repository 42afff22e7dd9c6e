package apiv1

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// BillServiceName is the fully-qualified name of the BillService service.
const BillServiceName = "billsplittr.v1.BillService"

// Procedure paths of the BillService RPCs.
const (
	BillServiceStartSessionProcedure   = "/" + BillServiceName + "/StartSession"
	BillServiceGetSessionProcedure     = "/" + BillServiceName + "/GetSession"
	BillServiceImportReceiptProcedure  = "/" + BillServiceName + "/ImportReceipt"
	BillServiceSetBillNameProcedure    = "/" + BillServiceName + "/SetBillName"
	BillServiceSetCurrencyProcedure    = "/" + BillServiceName + "/SetCurrency"
	BillServiceAddItemProcedure        = "/" + BillServiceName + "/AddItem"
	BillServiceUpdateItemProcedure     = "/" + BillServiceName + "/UpdateItem"
	BillServiceRemoveItemProcedure     = "/" + BillServiceName + "/RemoveItem"
	BillServiceSetSplitModeProcedure   = "/" + BillServiceName + "/SetSplitMode"
	BillServiceAddChargeProcedure      = "/" + BillServiceName + "/AddCharge"
	BillServiceUpdateChargeProcedure   = "/" + BillServiceName + "/UpdateCharge"
	BillServiceRemoveChargeProcedure   = "/" + BillServiceName + "/RemoveCharge"
	BillServiceAddPersonProcedure      = "/" + BillServiceName + "/AddPerson"
	BillServiceRenamePersonProcedure   = "/" + BillServiceName + "/RenamePerson"
	BillServiceRemovePersonProcedure   = "/" + BillServiceName + "/RemovePerson"
	BillServiceSetShareProcedure       = "/" + BillServiceName + "/SetShare"
	BillServiceNextProcedure           = "/" + BillServiceName + "/Next"
	BillServiceBackProcedure           = "/" + BillServiceName + "/Back"
	BillServiceStartOverProcedure      = "/" + BillServiceName + "/StartOver"
	BillServiceGetResultsProcedure     = "/" + BillServiceName + "/GetResults"
	BillServiceListCurrenciesProcedure = "/" + BillServiceName + "/ListCurrencies"
)

// BillServiceHandler is implemented by the server.
type BillServiceHandler interface {
	StartSession(context.Context, *connect.Request[StartSessionRequest]) (*connect.Response[StartSessionResponse], error)
	GetSession(context.Context, *connect.Request[Empty]) (*connect.Response[SessionResponse], error)
	ImportReceipt(context.Context, *connect.Request[ImportReceiptRequest]) (*connect.Response[ImportReceiptResponse], error)
	SetBillName(context.Context, *connect.Request[SetBillNameRequest]) (*connect.Response[SessionResponse], error)
	SetCurrency(context.Context, *connect.Request[SetCurrencyRequest]) (*connect.Response[SessionResponse], error)
	AddItem(context.Context, *connect.Request[Empty]) (*connect.Response[SessionResponse], error)
	UpdateItem(context.Context, *connect.Request[UpdateItemRequest]) (*connect.Response[SessionResponse], error)
	RemoveItem(context.Context, *connect.Request[RemoveItemRequest]) (*connect.Response[SessionResponse], error)
	SetSplitMode(context.Context, *connect.Request[SetSplitModeRequest]) (*connect.Response[SessionResponse], error)
	AddCharge(context.Context, *connect.Request[Empty]) (*connect.Response[SessionResponse], error)
	UpdateCharge(context.Context, *connect.Request[UpdateChargeRequest]) (*connect.Response[SessionResponse], error)
	RemoveCharge(context.Context, *connect.Request[RemoveChargeRequest]) (*connect.Response[SessionResponse], error)
	AddPerson(context.Context, *connect.Request[AddPersonRequest]) (*connect.Response[SessionResponse], error)
	RenamePerson(context.Context, *connect.Request[RenamePersonRequest]) (*connect.Response[SessionResponse], error)
	RemovePerson(context.Context, *connect.Request[RemovePersonRequest]) (*connect.Response[SessionResponse], error)
	SetShare(context.Context, *connect.Request[SetShareRequest]) (*connect.Response[SessionResponse], error)
	Next(context.Context, *connect.Request[Empty]) (*connect.Response[SessionResponse], error)
	Back(context.Context, *connect.Request[Empty]) (*connect.Response[SessionResponse], error)
	StartOver(context.Context, *connect.Request[Empty]) (*connect.Response[SessionResponse], error)
	GetResults(context.Context, *connect.Request[Empty]) (*connect.Response[ResultsResponse], error)
	ListCurrencies(context.Context, *connect.Request[ListCurrenciesRequest]) (*connect.Response[ListCurrenciesResponse], error)
}

// NewBillServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(BillServiceStartSessionProcedure, connect.NewUnaryHandler(BillServiceStartSessionProcedure, svc.StartSession, opts...))
	mux.Handle(BillServiceGetSessionProcedure, connect.NewUnaryHandler(BillServiceGetSessionProcedure, svc.GetSession, opts...))
	mux.Handle(BillServiceImportReceiptProcedure, connect.NewUnaryHandler(BillServiceImportReceiptProcedure, svc.ImportReceipt, opts...))
	mux.Handle(BillServiceSetBillNameProcedure, connect.NewUnaryHandler(BillServiceSetBillNameProcedure, svc.SetBillName, opts...))
	mux.Handle(BillServiceSetCurrencyProcedure, connect.NewUnaryHandler(BillServiceSetCurrencyProcedure, svc.SetCurrency, opts...))
	mux.Handle(BillServiceAddItemProcedure, connect.NewUnaryHandler(BillServiceAddItemProcedure, svc.AddItem, opts...))
	mux.Handle(BillServiceUpdateItemProcedure, connect.NewUnaryHandler(BillServiceUpdateItemProcedure, svc.UpdateItem, opts...))
	mux.Handle(BillServiceRemoveItemProcedure, connect.NewUnaryHandler(BillServiceRemoveItemProcedure, svc.RemoveItem, opts...))
	mux.Handle(BillServiceSetSplitModeProcedure, connect.NewUnaryHandler(BillServiceSetSplitModeProcedure, svc.SetSplitMode, opts...))
	mux.Handle(BillServiceAddChargeProcedure, connect.NewUnaryHandler(BillServiceAddChargeProcedure, svc.AddCharge, opts...))
	mux.Handle(BillServiceUpdateChargeProcedure, connect.NewUnaryHandler(BillServiceUpdateChargeProcedure, svc.UpdateCharge, opts...))
	mux.Handle(BillServiceRemoveChargeProcedure, connect.NewUnaryHandler(BillServiceRemoveChargeProcedure, svc.RemoveCharge, opts...))
	mux.Handle(BillServiceAddPersonProcedure, connect.NewUnaryHandler(BillServiceAddPersonProcedure, svc.AddPerson, opts...))
	mux.Handle(BillServiceRenamePersonProcedure, connect.NewUnaryHandler(BillServiceRenamePersonProcedure, svc.RenamePerson, opts...))
	mux.Handle(BillServiceRemovePersonProcedure, connect.NewUnaryHandler(BillServiceRemovePersonProcedure, svc.RemovePerson, opts...))
	mux.Handle(BillServiceSetShareProcedure, connect.NewUnaryHandler(BillServiceSetShareProcedure, svc.SetShare, opts...))
	mux.Handle(BillServiceNextProcedure, connect.NewUnaryHandler(BillServiceNextProcedure, svc.Next, opts...))
	mux.Handle(BillServiceBackProcedure, connect.NewUnaryHandler(BillServiceBackProcedure, svc.Back, opts...))
	mux.Handle(BillServiceStartOverProcedure, connect.NewUnaryHandler(BillServiceStartOverProcedure, svc.StartOver, opts...))
	mux.Handle(BillServiceGetResultsProcedure, connect.NewUnaryHandler(BillServiceGetResultsProcedure, svc.GetResults, opts...))
	mux.Handle(BillServiceListCurrenciesProcedure, connect.NewUnaryHandler(BillServiceListCurrenciesProcedure, svc.ListCurrencies, opts...))
	return "/" + BillServiceName + "/", mux
}

// BillServiceClient calls a BillService over Connect with the JSON codec.
type BillServiceClient struct {
	startSession   *connect.Client[StartSessionRequest, StartSessionResponse]
	getSession     *connect.Client[Empty, SessionResponse]
	importReceipt  *connect.Client[ImportReceiptRequest, ImportReceiptResponse]
	setBillName    *connect.Client[SetBillNameRequest, SessionResponse]
	setCurrency    *connect.Client[SetCurrencyRequest, SessionResponse]
	addItem        *connect.Client[Empty, SessionResponse]
	updateItem     *connect.Client[UpdateItemRequest, SessionResponse]
	removeItem     *connect.Client[RemoveItemRequest, SessionResponse]
	setSplitMode   *connect.Client[SetSplitModeRequest, SessionResponse]
	addCharge      *connect.Client[Empty, SessionResponse]
	updateCharge   *connect.Client[UpdateChargeRequest, SessionResponse]
	removeCharge   *connect.Client[RemoveChargeRequest, SessionResponse]
	addPerson      *connect.Client[AddPersonRequest, SessionResponse]
	renamePerson   *connect.Client[RenamePersonRequest, SessionResponse]
	removePerson   *connect.Client[RemovePersonRequest, SessionResponse]
	setShare       *connect.Client[SetShareRequest, SessionResponse]
	next           *connect.Client[Empty, SessionResponse]
	back           *connect.Client[Empty, SessionResponse]
	startOver      *connect.Client[Empty, SessionResponse]
	getResults     *connect.Client[Empty, ResultsResponse]
	listCurrencies *connect.Client[ListCurrenciesRequest, ListCurrenciesResponse]
}

// NewBillServiceClient constructs a client for the service at baseURL
// (e.g. http://localhost:8080).
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &BillServiceClient{
		startSession:   connect.NewClient[StartSessionRequest, StartSessionResponse](httpClient, baseURL+BillServiceStartSessionProcedure, opts...),
		getSession:     connect.NewClient[Empty, SessionResponse](httpClient, baseURL+BillServiceGetSessionProcedure, opts...),
		importReceipt:  connect.NewClient[ImportReceiptRequest, ImportReceiptResponse](httpClient, baseURL+BillServiceImportReceiptProcedure, opts...),
		setBillName:    connect.NewClient[SetBillNameRequest, SessionResponse](httpClient, baseURL+BillServiceSetBillNameProcedure, opts...),
		setCurrency:    connect.NewClient[SetCurrencyRequest, SessionResponse](httpClient, baseURL+BillServiceSetCurrencyProcedure, opts...),
		addItem:        connect.NewClient[Empty, SessionResponse](httpClient, baseURL+BillServiceAddItemProcedure, opts...),
		updateItem:     connect.NewClient[UpdateItemRequest, SessionResponse](httpClient, baseURL+BillServiceUpdateItemProcedure, opts...),
		removeItem:     connect.NewClient[RemoveItemRequest, SessionResponse](httpClient, baseURL+BillServiceRemoveItemProcedure, opts...),
		setSplitMode:   connect.NewClient[SetSplitModeRequest, SessionResponse](httpClient, baseURL+BillServiceSetSplitModeProcedure, opts...),
		addCharge:      connect.NewClient[Empty, SessionResponse](httpClient, baseURL+BillServiceAddChargeProcedure, opts...),
		updateCharge:   connect.NewClient[UpdateChargeRequest, SessionResponse](httpClient, baseURL+BillServiceUpdateChargeProcedure, opts...),
		removeCharge:   connect.NewClient[RemoveChargeRequest, SessionResponse](httpClient, baseURL+BillServiceRemoveChargeProcedure, opts...),
		addPerson:      connect.NewClient[AddPersonRequest, SessionResponse](httpClient, baseURL+BillServiceAddPersonProcedure, opts...),
		renamePerson:   connect.NewClient[RenamePersonRequest, SessionResponse](httpClient, baseURL+BillServiceRenamePersonProcedure, opts...),
		removePerson:   connect.NewClient[RemovePersonRequest, SessionResponse](httpClient, baseURL+BillServiceRemovePersonProcedure, opts...),
		setShare:       connect.NewClient[SetShareRequest, SessionResponse](httpClient, baseURL+BillServiceSetShareProcedure, opts...),
		next:           connect.NewClient[Empty, SessionResponse](httpClient, baseURL+BillServiceNextProcedure, opts...),
		back:           connect.NewClient[Empty, SessionResponse](httpClient, baseURL+BillServiceBackProcedure, opts...),
		startOver:      connect.NewClient[Empty, SessionResponse](httpClient, baseURL+BillServiceStartOverProcedure, opts...),
		getResults:     connect.NewClient[Empty, ResultsResponse](httpClient, baseURL+BillServiceGetResultsProcedure, opts...),
		listCurrencies: connect.NewClient[ListCurrenciesRequest, ListCurrenciesResponse](httpClient, baseURL+BillServiceListCurrenciesProcedure, opts...),
	}
}

// StartSession calls billsplittr.v1.BillService.StartSession.
func (c *BillServiceClient) StartSession(ctx context.Context, req *connect.Request[StartSessionRequest]) (*connect.Response[StartSessionResponse], error) {
	return c.startSession.CallUnary(ctx, req)
}

// GetSession calls billsplittr.v1.BillService.GetSession.
func (c *BillServiceClient) GetSession(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[SessionResponse], error) {
	return c.getSession.CallUnary(ctx, req)
}

// ImportReceipt calls billsplittr.v1.BillService.ImportReceipt.
func (c *BillServiceClient) ImportReceipt(ctx context.Context, req *connect.Request[ImportReceiptRequest]) (*connect.Response[ImportReceiptResponse], error) {
	return c.importReceipt.CallUnary(ctx, req)
}

// SetBillName calls billsplittr.v1.BillService.SetBillName.
func (c *BillServiceClient) SetBillName(ctx context.Context, req *connect.Request[SetBillNameRequest]) (*connect.Response[SessionResponse], error) {
	return c.setBillName.CallUnary(ctx, req)
}

// SetCurrency calls billsplittr.v1.BillService.SetCurrency.
func (c *BillServiceClient) SetCurrency(ctx context.Context, req *connect.Request[SetCurrencyRequest]) (*connect.Response[SessionResponse], error) {
	return c.setCurrency.CallUnary(ctx, req)
}

// AddItem calls billsplittr.v1.BillService.AddItem.
func (c *BillServiceClient) AddItem(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[SessionResponse], error) {
	return c.addItem.CallUnary(ctx, req)
}

// UpdateItem calls billsplittr.v1.BillService.UpdateItem.
func (c *BillServiceClient) UpdateItem(ctx context.Context, req *connect.Request[UpdateItemRequest]) (*connect.Response[SessionResponse], error) {
	return c.updateItem.CallUnary(ctx, req)
}

// RemoveItem calls billsplittr.v1.BillService.RemoveItem.
func (c *BillServiceClient) RemoveItem(ctx context.Context, req *connect.Request[RemoveItemRequest]) (*connect.Response[SessionResponse], error) {
	return c.removeItem.CallUnary(ctx, req)
}

// SetSplitMode calls billsplittr.v1.BillService.SetSplitMode.
func (c *BillServiceClient) SetSplitMode(ctx context.Context, req *connect.Request[SetSplitModeRequest]) (*connect.Response[SessionResponse], error) {
	return c.setSplitMode.CallUnary(ctx, req)
}

// AddCharge calls billsplittr.v1.BillService.AddCharge.
func (c *BillServiceClient) AddCharge(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[SessionResponse], error) {
	return c.addCharge.CallUnary(ctx, req)
}

// UpdateCharge calls billsplittr.v1.BillService.UpdateCharge.
func (c *BillServiceClient) UpdateCharge(ctx context.Context, req *connect.Request[UpdateChargeRequest]) (*connect.Response[SessionResponse], error) {
	return c.updateCharge.CallUnary(ctx, req)
}

// RemoveCharge calls billsplittr.v1.BillService.RemoveCharge.
func (c *BillServiceClient) RemoveCharge(ctx context.Context, req *connect.Request[RemoveChargeRequest]) (*connect.Response[SessionResponse], error) {
	return c.removeCharge.CallUnary(ctx, req)
}

// AddPerson calls billsplittr.v1.BillService.AddPerson.
func (c *BillServiceClient) AddPerson(ctx context.Context, req *connect.Request[AddPersonRequest]) (*connect.Response[SessionResponse], error) {
	return c.addPerson.CallUnary(ctx, req)
}

// RenamePerson calls billsplittr.v1.BillService.RenamePerson.
func (c *BillServiceClient) RenamePerson(ctx context.Context, req *connect.Request[RenamePersonRequest]) (*connect.Response[SessionResponse], error) {
	return c.renamePerson.CallUnary(ctx, req)
}

// RemovePerson calls billsplittr.v1.BillService.RemovePerson.
func (c *BillServiceClient) RemovePerson(ctx context.Context, req *connect.Request[RemovePersonRequest]) (*connect.Response[SessionResponse], error) {
	return c.removePerson.CallUnary(ctx, req)
}

// SetShare calls billsplittr.v1.BillService.SetShare.
func (c *BillServiceClient) SetShare(ctx context.Context, req *connect.Request[SetShareRequest]) (*connect.Response[SessionResponse], error) {
	return c.setShare.CallUnary(ctx, req)
}

// Next calls billsplittr.v1.BillService.Next.
func (c *BillServiceClient) Next(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[SessionResponse], error) {
	return c.next.CallUnary(ctx, req)
}

// Back calls billsplittr.v1.BillService.Back.
func (c *BillServiceClient) Back(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[SessionResponse], error) {
	return c.back.CallUnary(ctx, req)
}

// StartOver calls billsplittr.v1.BillService.StartOver.
func (c *BillServiceClient) StartOver(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[SessionResponse], error) {
	return c.startOver.CallUnary(ctx, req)
}

// GetResults calls billsplittr.v1.BillService.GetResults.
func (c *BillServiceClient) GetResults(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[ResultsResponse], error) {
	return c.getResults.CallUnary(ctx, req)
}

// ListCurrencies calls billsplittr.v1.BillService.ListCurrencies.
func (c *BillServiceClient) ListCurrencies(ctx context.Context, req *connect.Request[ListCurrenciesRequest]) (*connect.Response[ListCurrenciesResponse], error) {
	return c.listCurrencies.CallUnary(ctx, req)
}
