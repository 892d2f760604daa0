package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bakeshop/internal/core"
	"bakeshop/internal/importer"
	"bakeshop/internal/notify"
	"bakeshop/internal/payments"
)

// conflictRetries bounds the automatic retry of ErrConflict. Every other
// error kind is terminal for the request and surfaces as-is.
const conflictRetries = 3

type appService struct {
	orders   core.OrderService
	contacts core.ContactService
	catalog  core.CatalogService
	expenses core.ExpenseService
	audit    *core.AuditLog
	provider payments.Provider
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	orders core.OrderService,
	contacts core.ContactService,
	catalog core.CatalogService,
	expenses core.ExpenseService,
	audit *core.AuditLog,
	provider payments.Provider,
	notifier notify.Notifier,
	logger *zap.Logger,
) ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &appService{
		orders:   orders,
		contacts: contacts,
		catalog:  catalog,
		expenses: expenses,
		audit:    audit,
		provider: provider,
		notifier: notifier,
		logger:   logger,
	}
}

// ── Orders & quotes ──────────────────────────────────────────────────────────

func (s *appService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error) {
	order, err := s.orders.CreateOrder(ctx, toCreateInput(req, core.KindOrder))
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) CreateQuote(ctx context.Context, req CreateOrderRequest) (*OrderResult, error) {
	quote, err := s.orders.CreateQuote(ctx, toCreateInput(req, core.KindQuote))
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: quote}, nil
}

func (s *appService) GetOrder(ctx context.Context, orderID int) (*OrderResult, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) ListOrders(ctx context.Context, req ListOrdersRequest) (*OrderListResult, error) {
	kind := req.Kind
	if kind == "" {
		kind = core.KindOrder
	}
	orders, err := s.orders.ListOrders(ctx, kind, req.Status)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Orders: orders}, nil
}

func (s *appService) ChangeStatus(ctx context.Context, req ChangeStatusRequest) (*OrderResult, error) {
	order, err := s.orders.ChangeStatus(ctx, req.OrderID, req.Action, req.Actor)
	if err != nil {
		return nil, err
	}
	s.notifyTransition(ctx, order, req.Action)
	return &OrderResult{Order: order}, nil
}

func (s *appService) ReviseItems(ctx context.Context, req ReviseItemsRequest) (*OrderResult, error) {
	version := req.Version
	if version == 0 {
		current, err := s.orders.GetOrder(ctx, req.OrderID)
		if err != nil {
			return nil, err
		}
		version = current.Version
	}

	var order *core.Order
	var err error
	for attempt := 0; attempt < conflictRetries; attempt++ {
		order, err = s.orders.ReviseItems(ctx, req.OrderID, version, toItemInputs(req.Items), req.Actor)
		if err == nil {
			return &OrderResult{Order: order}, nil
		}
		if !errors.Is(err, core.ErrConflict) {
			return nil, err
		}
		// Re-read and reapply against the fresh version.
		current, readErr := s.orders.GetOrder(ctx, req.OrderID)
		if readErr != nil {
			return nil, readErr
		}
		version = current.Version
	}
	return nil, err
}

func (s *appService) AddNote(ctx context.Context, req AddNoteRequest) (*HistoryResult, error) {
	if _, err := s.orders.AddNote(ctx, req.OrderID, req.Note, req.Actor); err != nil {
		return nil, err
	}
	return s.GetHistory(ctx, req.OrderID)
}

func (s *appService) GetHistory(ctx context.Context, orderID int) (*HistoryResult, error) {
	entries, err := s.audit.History(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &HistoryResult{Entries: entries}, nil
}

func (s *appService) ConvertQuoteToOrder(ctx context.Context, quoteID int, actor string) (*OrderResult, error) {
	order, err := s.orders.ConvertQuoteToOrder(ctx, quoteID, actor)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

// ── Payments ─────────────────────────────────────────────────────────────────

func (s *appService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentResult, error) {
	var providerRef string
	if req.UseProvider {
		result, err := s.provider.Charge(ctx, req.Amount, req.Method)
		if err != nil {
			return nil, fmt.Errorf("payment provider charge failed: %w", err)
		}
		if !result.Success {
			return nil, fmt.Errorf("payment provider declined the charge (ref %s)", result.ProviderReference)
		}
		providerRef = result.ProviderReference
	}

	totals, err := s.orders.AddPayment(ctx, req.OrderID, req.Amount, req.Method, providerRef, req.Actor)
	if err != nil {
		return nil, err
	}

	if order, getErr := s.orders.GetOrder(ctx, req.OrderID); getErr == nil {
		s.notifier.Notify(ctx, notify.Notification{
			Event:   notify.EventPaymentReceived,
			OrderID: order.ID,
			Contact: order.ContactName,
			Detail:  fmt.Sprintf("payment of %s received, %s outstanding", req.Amount.StringFixed(2), totals.Outstanding.StringFixed(2)),
		})
	}

	return &PaymentResult{ProviderReference: providerRef, Totals: totals}, nil
}

// notifyTransition fires the notification matching the applied action.
// Notification failure never affects the already-committed transition.
func (s *appService) notifyTransition(ctx context.Context, order *core.Order, action core.Action) {
	var event notify.Event
	switch action {
	case core.ActionSend:
		event = notify.EventQuoteSent
	case core.ActionConfirm:
		event = notify.EventOrderConfirmed
	case core.ActionMarkReady:
		event = notify.EventOrderReady
	default:
		return
	}
	s.notifier.Notify(ctx, notify.Notification{
		Event:   event,
		OrderID: order.ID,
		Contact: order.ContactName,
		Detail:  fmt.Sprintf("%s is now %s", order.Kind, order.Status),
	})
}

// ── Contacts ─────────────────────────────────────────────────────────────────

func (s *appService) CreateContact(ctx context.Context, req ContactRequest) (*ContactResult, error) {
	c, err := s.contacts.CreateContact(ctx, req.Name, req.Email, req.Phone, req.Address, req.Notes)
	if err != nil {
		return nil, err
	}
	return &ContactResult{Contact: c}, nil
}

func (s *appService) UpdateContact(ctx context.Context, id int, req ContactRequest) (*ContactResult, error) {
	c, err := s.contacts.UpdateContact(ctx, id, req.Name, req.Email, req.Phone, req.Address, req.Notes)
	if err != nil {
		return nil, err
	}
	return &ContactResult{Contact: c}, nil
}

func (s *appService) GetContact(ctx context.Context, id int) (*ContactResult, error) {
	c, err := s.contacts.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ContactResult{Contact: c}, nil
}

func (s *appService) ListContacts(ctx context.Context, search string) (*ContactListResult, error) {
	contacts, err := s.contacts.ListContacts(ctx, search)
	if err != nil {
		return nil, err
	}
	return &ContactListResult{Contacts: contacts}, nil
}

// ── Catalog ──────────────────────────────────────────────────────────────────

func (s *appService) CreateProduct(ctx context.Context, req ProductRequest) (*ProductResult, error) {
	p, err := s.catalog.CreateProduct(ctx, req.Name, req.Description, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: p}, nil
}

func (s *appService) ListProducts(ctx context.Context, includeInactive bool) (*ProductListResult, error) {
	products, err := s.catalog.ListProducts(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

func (s *appService) DeactivateProduct(ctx context.Context, id int) error {
	return s.catalog.DeactivateProduct(ctx, id)
}

func (s *appService) CreateRecipe(ctx context.Context, req RecipeRequest) (*RecipeResult, error) {
	r, err := s.catalog.CreateRecipe(ctx, req.Name, req.ProductID, req.YieldCount, req.Instructions, req.Ingredients)
	if err != nil {
		return nil, err
	}
	return &RecipeResult{Recipe: r}, nil
}

func (s *appService) GetRecipe(ctx context.Context, id int) (*RecipeResult, error) {
	r, err := s.catalog.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RecipeResult{Recipe: r}, nil
}

func (s *appService) ListRecipes(ctx context.Context) (*RecipeListResult, error) {
	recipes, err := s.catalog.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}
	return &RecipeListResult{Recipes: recipes}, nil
}

// ── Expenses ─────────────────────────────────────────────────────────────────

func (s *appService) RecordExpense(ctx context.Context, req ExpenseRequest) (*ExpenseResult, error) {
	e, err := s.expenses.RecordExpense(ctx, req.Category, req.Description, req.Amount, req.Vendor, req.IncurredOn)
	if err != nil {
		return nil, err
	}
	return &ExpenseResult{Expense: e}, nil
}

func (s *appService) ListExpenses(ctx context.Context, category, from, to string) (*ExpenseListResult, error) {
	expenses, err := s.expenses.ListExpenses(ctx, category, from, to)
	if err != nil {
		return nil, err
	}
	return &ExpenseListResult{Expenses: expenses}, nil
}

func (s *appService) DeleteExpense(ctx context.Context, id int) error {
	return s.expenses.DeleteExpense(ctx, id)
}

func (s *appService) ExpenseSummary(ctx context.Context, year, month int) (*ExpenseSummaryResult, error) {
	rows, err := s.expenses.MonthlySummary(ctx, year, month)
	if err != nil {
		return nil, err
	}
	return &ExpenseSummaryResult{Year: year, Month: month, Rows: rows}, nil
}

// ── CSV import ───────────────────────────────────────────────────────────────

func (s *appService) ImportContacts(ctx context.Context, r io.Reader) (*ImportResult, error) {
	parsed, err := importer.ContactsMapping.Read(r)
	if err != nil {
		return nil, err
	}

	result := importResultFrom(parsed)
	for _, rec := range parsed.Records {
		_, err := s.contacts.CreateContact(ctx, rec["name"], rec["email"], rec["phone"], rec["address"], rec["notes"])
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %v", rec["name"], err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

func (s *appService) ImportExpenses(ctx context.Context, r io.Reader) (*ImportResult, error) {
	parsed, err := importer.ExpensesMapping.Read(r)
	if err != nil {
		return nil, err
	}

	result := importResultFrom(parsed)
	for _, rec := range parsed.Records {
		amount, err := decimal.NewFromString(rec["amount"])
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: bad amount %q", rec["incurred_on"], rec["amount"]))
			continue
		}
		category := rec["category"]
		if category == "" {
			category = "uncategorized"
		}
		_, err = s.expenses.RecordExpense(ctx, category, rec["description"], amount, rec["vendor"], rec["incurred_on"])
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %v", rec["incurred_on"], err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

func importResultFrom(parsed *importer.Result) *ImportResult {
	result := &ImportResult{}
	for _, skip := range parsed.Skipped {
		result.Skipped = append(result.Skipped, skip.Error())
	}
	return result
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func toCreateInput(req CreateOrderRequest, kind core.Kind) core.CreateOrderInput {
	discountType := core.DiscountType(req.DiscountType)
	if discountType == "" {
		discountType = core.DiscountFixed
	}
	return core.CreateOrderInput{
		Kind:            kind,
		ContactID:       req.ContactID,
		Items:           toItemInputs(req.Items),
		Discount:        req.Discount,
		DiscountType:    discountType,
		SetupFee:        req.SetupFee,
		DeliveryFee:     req.DeliveryFee,
		TaxRate:         req.TaxRate,
		DeliveryDate:    req.DeliveryDate,
		DeliveryAddress: req.DeliveryAddress,
		ValidUntil:      req.ValidUntil,
		Notes:           req.Notes,
		Actor:           req.Actor,
	}
}

func toItemInputs(items []LineItemRequest) []core.LineItemInput {
	inputs := make([]core.LineItemInput, len(items))
	for i, it := range items {
		inputs[i] = core.LineItemInput{
			ProductID:   it.ProductID,
			Name:        it.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		}
	}
	return inputs
}
