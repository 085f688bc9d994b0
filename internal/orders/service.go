package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/solenne-shop/solenne-backend/pkg/config"
	"github.com/solenne-shop/solenne-backend/pkg/db"
	"github.com/solenne-shop/solenne-backend/pkg/db/models"
	"github.com/solenne-shop/solenne-backend/pkg/enums"
	pkgerrors "github.com/solenne-shop/solenne-backend/pkg/errors"
	"github.com/solenne-shop/solenne-backend/pkg/logger"
	"github.com/solenne-shop/solenne-backend/pkg/pagination"
	"github.com/solenne-shop/solenne-backend/pkg/types"
)

// Service exposes admin order operations.
type Service interface {
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	Get(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID, input UpdateStatusInput) (*OrderDetail, error)
	Delete(ctx context.Context, orderID uuid.UUID) error
}

type service struct {
	repo     Repository
	dbClient *db.Client
	cfg      config.OrdersConfig
	logg     *logger.Logger
}

// NewService constructs an orders service instance.
func NewService(repo Repository, dbClient *db.Client, cfg config.OrdersConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.CountTimeout <= 0 {
		cfg.CountTimeout = 2 * time.Second
	}
	return &service{repo: repo, dbClient: dbClient, cfg: cfg, logg: logg}, nil
}

// List fetches one page of orders. The exact count runs concurrently and is
// raced against the configured deadline; when it loses, the page is served
// with an estimated total instead of blocking the whole request.
func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	params = params.Normalize()

	type countResult struct {
		total int64
		err   error
	}
	countCh := make(chan countResult, 1)
	countCtx, cancelCount := context.WithTimeout(ctx, s.cfg.CountTimeout)
	defer cancelCount()
	go func() {
		total, err := s.repo.Count(countCtx, filters)
		countCh <- countResult{total: total, err: err}
	}()

	records, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	list := &OrderList{Orders: make([]OrderSummary, 0, len(records))}
	for _, record := range records {
		list.Orders = append(list.Orders, newOrderSummary(record))
	}

	select {
	case result := <-countCh:
		if result.err != nil {
			if !errors.Is(result.err, context.DeadlineExceeded) && !errors.Is(result.err, context.Canceled) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, result.err, "count orders")
			}
			list.Total = estimateTotal(params, len(records))
			list.TotalEstimated = true
			s.logg.Warn(ctx, "order count query missed its deadline, serving estimate")
		} else {
			list.Total = result.total
		}
	case <-countCtx.Done():
		list.Total = estimateTotal(params, len(records))
		list.TotalEstimated = true
		s.logg.Warn(ctx, "order count query missed its deadline, serving estimate")
	}

	return list, nil
}

// estimateTotal is the fallback figure when the count query loses the race: a
// full page implies at least one more, a short page closes the range exactly.
func estimateTotal(params pagination.Params, pageLen int) int64 {
	total := int64(params.Offset() + pageLen)
	if pageLen == params.Limit {
		total++
	}
	return total
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*OrderDetail, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return newOrderDetail(order), nil
}

// UpdateStatus applies an admin status patch. Timestamps are edge-triggered:
// they are written once, on the transition into the state, and survive the
// order leaving it again. Every successful change appends audit events.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, actorID *uuid.UUID, input UpdateStatusInput) (*OrderDetail, error) {
	patch, err := parseStatusPatch(input)
	if err != nil {
		return nil, err
	}
	if patch.empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no status fields provided")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	now := time.Now().UTC()
	events := buildStatusEvents(order, patch, actorID)
	if len(events) == 0 {
		return newOrderDetail(order), nil
	}

	applyStatusPatch(order, patch, now)

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Save(ctx, order); err != nil {
			return err
		}
		return txRepo.AppendEvents(ctx, events)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	return s.Get(ctx, orderID)
}

func (s *service) Delete(ctx context.Context, orderID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if err := s.repo.Delete(ctx, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

type statusPatch struct {
	status      *enums.OrderStatus
	payment     *enums.PaymentStatus
	fulfillment *enums.FulfillmentStatus
}

func (p statusPatch) empty() bool {
	return p.status == nil && p.payment == nil && p.fulfillment == nil
}

func parseStatusPatch(input UpdateStatusInput) (statusPatch, error) {
	var patch statusPatch
	if input.Status != nil {
		status, err := enums.ParseOrderStatus(*input.Status)
		if err != nil {
			return patch, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", *input.Status))
		}
		patch.status = &status
	}
	if input.PaymentStatus != nil {
		status, err := enums.ParsePaymentStatus(*input.PaymentStatus)
		if err != nil {
			return patch, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment status %q", *input.PaymentStatus))
		}
		patch.payment = &status
	}
	if input.FulfillmentStatus != nil {
		status, err := enums.ParseFulfillmentStatus(*input.FulfillmentStatus)
		if err != nil {
			return patch, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown fulfillment status %q", *input.FulfillmentStatus))
		}
		patch.fulfillment = &status
	}
	return patch, nil
}

// buildStatusEvents emits one audit row per field that actually changes.
func buildStatusEvents(order *models.Order, patch statusPatch, actorID *uuid.UUID) []models.OrderEvent {
	var events []models.OrderEvent
	appendEvent := func(kind enums.OrderEventKind, previous, next, field string) {
		events = append(events, models.OrderEvent{
			ID:             uuid.New(),
			OrderID:        order.ID,
			Kind:           kind,
			PreviousStatus: &previous,
			NewStatus:      &next,
			ChangedFields:  types.JSONMap{field: next},
			ActorID:        actorID,
		})
	}

	if patch.status != nil && *patch.status != order.Status {
		appendEvent(enums.OrderEventKindStatusChanged, order.Status.String(), patch.status.String(), "status")
	}
	if patch.payment != nil && *patch.payment != order.PaymentStatus {
		appendEvent(enums.OrderEventKindPaymentChanged, order.PaymentStatus.String(), patch.payment.String(), "paymentStatus")
	}
	if patch.fulfillment != nil && *patch.fulfillment != order.FulfillmentStatus {
		appendEvent(enums.OrderEventKindFulfillmentChanged, order.FulfillmentStatus.String(), patch.fulfillment.String(), "fulfillmentStatus")
	}
	return events
}

func applyStatusPatch(order *models.Order, patch statusPatch, now time.Time) {
	if patch.status != nil && *patch.status != order.Status {
		if *patch.status == enums.OrderStatusCompleted && order.FulfilledAt == nil {
			order.FulfilledAt = &now
		}
		if *patch.status == enums.OrderStatusCancelled && order.CancelledAt == nil {
			order.CancelledAt = &now
		}
		order.Status = *patch.status
	}
	if patch.payment != nil && *patch.payment != order.PaymentStatus {
		if *patch.payment == enums.PaymentStatusPaid && order.PaidAt == nil {
			order.PaidAt = &now
		}
		order.PaymentStatus = *patch.payment
	}
	if patch.fulfillment != nil && *patch.fulfillment != order.FulfillmentStatus {
		order.FulfillmentStatus = *patch.fulfillment
	}
}

func newOrderSummary(record orderSummaryRecord) OrderSummary {
	summary := OrderSummary{
		ID:                record.Order.ID,
		Number:            record.Order.Number,
		Status:            record.Order.Status,
		PaymentStatus:     record.Order.PaymentStatus,
		FulfillmentStatus: record.Order.FulfillmentStatus,
		Currency:          record.Order.Currency,
		Total:             record.Order.Total,
		ItemCount:         record.ItemCount,
		Customer: CustomerSummary{
			Email: record.Order.CustomerEmail,
			Phone: record.Order.CustomerPhone,
			ID:    record.Order.UserID,
		},
		CreatedAt: record.Order.CreatedAt,
	}
	if name := strings.TrimSpace(record.UserFirstName + " " + record.UserLastName); name != "" {
		summary.Customer.Name = name
	}
	return summary
}

func newOrderDetail(order *models.Order) *OrderDetail {
	detail := &OrderDetail{
		ID:                order.ID,
		Number:            order.Number,
		Status:            order.Status,
		PaymentStatus:     order.PaymentStatus,
		FulfillmentStatus: order.FulfillmentStatus,
		Currency:          order.Currency,
		Customer: CustomerSummary{
			Email: order.CustomerEmail,
			Phone: order.CustomerPhone,
			ID:    order.UserID,
		},
		Items:       make([]ItemDTO, 0, len(order.Items)),
		Payments:    make([]PaymentDTO, 0, len(order.Payments)),
		Events:      make([]EventDTO, 0, len(order.Events)),
		PaidAt:      order.PaidAt,
		FulfilledAt: order.FulfilledAt,
		CancelledAt: order.CancelledAt,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
	if order.User != nil {
		if name := strings.TrimSpace(order.User.FirstName + " " + order.User.LastName); name != "" {
			detail.Customer.Name = name
		}
	}

	for _, item := range order.Items {
		detail.Items = append(detail.Items, newItemDTO(item))
	}
	for _, payment := range order.Payments {
		detail.Payments = append(detail.Payments, PaymentDTO{
			ID:        payment.ID,
			Provider:  payment.Provider,
			Reference: payment.Reference,
			Amount:    payment.Amount,
			Status:    payment.Status,
			CreatedAt: payment.CreatedAt,
		})
	}
	for _, event := range order.Events {
		detail.Events = append(detail.Events, EventDTO{
			ID:             event.ID,
			Kind:           event.Kind,
			PreviousStatus: event.PreviousStatus,
			NewStatus:      event.NewStatus,
			ActorID:        event.ActorID,
			CreatedAt:      event.CreatedAt,
		})
	}

	detail.Totals = Totals{
		Subtotal: order.Subtotal,
		Discount: order.DiscountAmount,
		Shipping: order.ShippingAmount,
		Tax:      order.TaxAmount,
		Computed: order.Subtotal.Sub(order.DiscountAmount).Add(order.ShippingAmount).Add(order.TaxAmount),
		Stored:   order.Total,
	}
	return detail
}

func newItemDTO(item models.OrderItem) ItemDTO {
	dto := ItemDTO{
		ID:           item.ID,
		VariantID:    item.VariantID,
		ProductTitle: item.ProductTitle,
		SKU:          item.SKU,
		Quantity:     item.Quantity,
		Total:        item.Total,
	}
	if item.Quantity > 0 {
		dto.UnitPrice = item.Total.Div(decimal.NewFromInt(int64(item.Quantity))).Round(2)
	} else {
		dto.UnitPrice = item.Total
	}
	dto.Options = itemOptions(item.Variant)
	return dto
}

// itemOptions resolves the display label for every variant option: the
// attribute value's label when one exists, otherwise the raw stored value.
func itemOptions(variant *models.ProductVariant) map[string]string {
	if variant == nil {
		return nil
	}
	options := map[string]string{}
	for key, raw := range variant.Attributes {
		if value, ok := raw.(string); ok && strings.TrimSpace(value) != "" {
			options[strings.ToLower(key)] = value
		}
	}
	for _, opt := range variant.Options {
		key := ""
		if opt.AttributeKey != nil {
			key = strings.ToLower(strings.TrimSpace(*opt.AttributeKey))
		}
		display := ""
		if opt.Value != nil {
			display = *opt.Value
		}
		if opt.AttributeValue != nil {
			if key == "" && opt.AttributeValue.Attribute != nil {
				key = strings.ToLower(opt.AttributeValue.Attribute.Key)
			}
			if opt.AttributeValue.Label != nil && strings.TrimSpace(*opt.AttributeValue.Label) != "" {
				display = *opt.AttributeValue.Label
			} else if display == "" {
				display = opt.AttributeValue.Value
			}
		}
		if key == "" || display == "" {
			continue
		}
		options[key] = display
	}
	if len(options) == 0 {
		return nil
	}
	return options
}
