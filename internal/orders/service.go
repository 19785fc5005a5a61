package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/revendedor/painel-backend/pkg/db/models"
	"github.com/revendedor/painel-backend/pkg/enums"
	pkgerrors "github.com/revendedor/painel-backend/pkg/errors"
	"github.com/revendedor/painel-backend/pkg/logger"
	"github.com/revendedor/painel-backend/pkg/metrics"
	"github.com/revendedor/painel-backend/pkg/outbox"
	"github.com/revendedor/painel-backend/pkg/pagination"
	"github.com/revendedor/painel-backend/pkg/types"
)

// DefaultRejectionNote is stored when the reseller gives no reason.
const DefaultRejectionNote = "Pedido recusado pelo revendedor"

const (
	actionCheck   = "stock_check"
	actionAccept  = "accept"
	actionReject  = "reject"
	actionAdvance = "advance"
)

// Service runs the reseller's order workflow.
type Service interface {
	CheckStock(ctx context.Context, actor Actor, orderID int64) (*StockCheck, error)
	Accept(ctx context.Context, input AcceptInput) (*AcceptResult, error)
	Reject(ctx context.Context, input RejectInput) (*OrderDetail, error)
	Advance(ctx context.Context, input AdvanceInput) (*OrderDetail, error)
	List(ctx context.Context, params ListParams) (*types.Page[OrderSummary], error)
	Detail(ctx context.Context, actor Actor, orderID int64) (*OrderDetail, error)
}

// ServiceParams wires the order service.
type ServiceParams struct {
	Repo      Repository
	Tx        txRunner
	Outbox    outboxPublisher
	Inventory InventoryLedger
	Customers CustomerLinker
	Logger    *logger.Logger
	Metrics   *metrics.OrderMetrics
	Location  *time.Location
	Now       func() time.Time
}

type service struct {
	repo      Repository
	tx        txRunner
	outbox    outboxPublisher
	inventory InventoryLedger
	customers CustomerLinker
	logg      *logger.Logger
	metrics   *metrics.OrderMetrics
	loc       *time.Location
	now       func() time.Time
}

// NewService builds the order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory ledger required")
	}
	if params.Customers == nil {
		return nil, fmt.Errorf("customer linker required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      params.Repo,
		tx:        params.Tx,
		outbox:    params.Outbox,
		inventory: params.Inventory,
		customers: params.Customers,
		logg:      params.Logger,
		metrics:   params.Metrics,
		loc:       loc,
		now:       now,
	}, nil
}

func (s *service) CheckStock(ctx context.Context, actor Actor, orderID int64) (check *StockCheck, err error) {
	defer s.observe(actionCheck, s.now())(&err)

	if !actor.valid() {
		return nil, errSessionMissing()
	}
	order, err := s.loadOrder(ctx, s.repo, actor, orderID, false)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.FindItems(ctx, []int64{order.ID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not load order")
	}
	demands := aggregateDemand(items)
	stock, err := s.inventory.Snapshot(ctx, nil, actor.ResellerID, productNames(demands), false)
	if err != nil {
		return nil, err
	}
	missing := shortfall(demands, stock)
	s.metrics.AddShortfall(actionCheck, len(missing))
	return &StockCheck{
		OrderID:      order.ID,
		Fulfillable:  len(missing) == 0,
		Insufficient: missing,
	}, nil
}

// Accept consumes stock and moves a pending order to its accepted state in
// one transaction. Nothing is written when any product falls short.
func (s *service) Accept(ctx context.Context, input AcceptInput) (result *AcceptResult, err error) {
	defer s.observe(actionAccept, s.now())(&err)

	if !input.Actor.valid() {
		return nil, errSessionMissing()
	}
	if input.OrderID <= 0 {
		return nil, fieldError("order_id", "order id required")
	}
	estimated, err := s.estimatedDate(input.EstimatedDate)
	if err != nil {
		return nil, err
	}

	var (
		order *models.Order
		next  enums.FulfillmentStatus
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		locked, err := s.loadOrder(ctx, repo, input.Actor, input.OrderID, true)
		if err != nil {
			return err
		}
		order = locked
		if !order.Status.IsPending() {
			return stateConflict("order is no longer pending", order.Status, nil)
		}

		items, err := repo.FindItems(ctx, []int64{order.ID})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not accept order")
		}
		demands := aggregateDemand(items)
		stock, err := s.inventory.Snapshot(ctx, tx, input.Actor.ResellerID, productNames(demands), true)
		if err != nil {
			return err
		}
		if missing := shortfall(demands, stock); len(missing) > 0 {
			return insufficientStock(missing)
		}

		movements := make([]StockMovement, 0, len(demands))
		for _, d := range demands {
			row := stock[d.Product]
			remaining, err := s.inventory.Decrement(ctx, tx, row, d.Quantity)
			if err != nil {
				return err
			}
			movements = append(movements, StockMovement{
				InventoryItemID: row.ID,
				Product:         d.Product,
				Quantity:        d.Quantity,
				Remaining:       remaining,
			})
		}

		next = AcceptedStatus(order.DeliveryKind())
		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{
			"status_detalhado":      next,
			"data_estimada_entrega": estimated,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not accept order")
		}

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderAccepted,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         buildActor(input.Actor),
			Data: OrderAcceptedEvent{
				OrderID:               order.ID,
				Number:                order.Number,
				ResellerID:            order.ResellerID,
				CustomerUserID:        order.CustomerUserID,
				Status:                next,
				EstimatedDeliveryDate: estimated.Format(dateLayout),
				Items:                 movements,
			},
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not accept order")
		}
		for _, moved := range movements {
			if moved.Remaining > 0 {
				continue
			}
			if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventStockDepleted,
				AggregateType: enums.AggregateInventoryItem,
				AggregateID:   moved.InventoryItemID,
				Actor:         buildActor(input.Actor),
				Data: StockDepletedEvent{
					InventoryItemID: moved.InventoryItemID,
					ResellerID:      input.Actor.ResellerID,
					Product:         moved.Product,
					Quantity:        moved.Remaining,
					OrderID:         order.ID,
				},
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not accept order")
			}
		}
		return nil
	})
	if err != nil {
		return nil, actionFailure(err, "could not accept order")
	}

	s.linkCustomer(ctx, order)

	label := next.Label()
	return &AcceptResult{
		OrderID:               order.ID,
		Number:                order.Number,
		Status:                next,
		StatusLabel:           label,
		EstimatedDeliveryDate: estimated.Format(dateLayout),
		Message:               fmt.Sprintf("Pedido #%s aceito: %s", strings.TrimPrefix(order.Number, "#"), label),
	}, nil
}

// Reject cancels a pending order. Stock is never touched.
func (s *service) Reject(ctx context.Context, input RejectInput) (detail *OrderDetail, err error) {
	defer s.observe(actionReject, s.now())(&err)

	if !input.Actor.valid() {
		return nil, errSessionMissing()
	}
	if input.OrderID <= 0 {
		return nil, fieldError("order_id", "order id required")
	}
	note := strings.TrimSpace(input.Reason)
	if note == "" {
		note = DefaultRejectionNote
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOrder(ctx, repo, input.Actor, input.OrderID, true)
		if err != nil {
			return err
		}
		if !order.Status.IsPending() {
			return stateConflict("only pending orders can be rejected", order.Status, nil)
		}
		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{
			"status_detalhado":       enums.FulfillmentCancelled,
			"observacoes_revendedor": note,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not reject order")
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderRejected,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         buildActor(input.Actor),
			Data: OrderRejectedEvent{
				OrderID:        order.ID,
				Number:         order.Number,
				ResellerID:     order.ResellerID,
				CustomerUserID: order.CustomerUserID,
				Reason:         note,
			},
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not reject order")
		}
		return nil
	})
	if err != nil {
		return nil, actionFailure(err, "could not reject order")
	}
	return s.Detail(ctx, input.Actor, input.OrderID)
}

// Advance applies one of the transitions offered by NextStatuses.
func (s *service) Advance(ctx context.Context, input AdvanceInput) (detail *OrderDetail, err error) {
	defer s.observe(actionAdvance, s.now())(&err)

	if !input.Actor.valid() {
		return nil, errSessionMissing()
	}
	if input.OrderID <= 0 {
		return nil, fieldError("order_id", "order id required")
	}
	if !input.Target.IsValid() {
		return nil, fieldError("status", "unknown status")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOrder(ctx, repo, input.Actor, input.OrderID, true)
		if err != nil {
			return err
		}
		kind := order.DeliveryKind()
		if !canMoveTo(kind, order.Status, input.Target) {
			return stateConflict("transition not allowed from current status", order.Status, NextStatuses(kind, order.Status))
		}

		updates := map[string]any{"status_detalhado": input.Target}
		var deliveredAt *time.Time
		if input.Target.IsCompleted() {
			stamp := s.now().UTC()
			if stamp.Before(order.CreatedAt) {
				stamp = order.CreatedAt
			}
			deliveredAt = &stamp
			updates["data_entrega_real"] = stamp
		}
		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not update order status")
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         buildActor(input.Actor),
			Data: OrderStatusChangedEvent{
				OrderID:        order.ID,
				Number:         order.Number,
				ResellerID:     order.ResellerID,
				CustomerUserID: order.CustomerUserID,
				From:           order.Status,
				To:             input.Target,
				DeliveredAt:    deliveredAt,
			},
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not update order status")
		}
		return nil
	})
	if err != nil {
		return nil, actionFailure(err, "could not update order status")
	}
	return s.Detail(ctx, input.Actor, input.OrderID)
}

func (s *service) List(ctx context.Context, params ListParams) (*types.Page[OrderSummary], error) {
	if params.ResellerID <= 0 {
		return nil, errSessionMissing()
	}
	view := params.View
	if view == "" {
		view = enums.OrderViewPending
	}
	if !view.IsValid() {
		return nil, fieldError("view", "unknown order view")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, fieldError("cursor", "invalid cursor")
	}

	orders, next, err := s.repo.ListOrders(ctx, listOrdersParams{
		ResellerID: params.ResellerID,
		Statuses:   viewStatuses(view),
		Limit:      params.Limit,
		Cursor:     cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not list orders")
	}
	summaries, err := s.summarize(ctx, orders)
	if err != nil {
		return nil, err
	}
	page := &types.Page[OrderSummary]{Items: summaries}
	if next != nil {
		page.NextCursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}

func (s *service) Detail(ctx context.Context, actor Actor, orderID int64) (*OrderDetail, error) {
	if !actor.valid() {
		return nil, errSessionMissing()
	}
	order, err := s.loadOrder(ctx, s.repo, actor, orderID, false)
	if err != nil {
		return nil, err
	}
	summaries, err := s.summarize(ctx, []models.Order{*order})
	if err != nil {
		return nil, err
	}
	next := NextStatuses(order.DeliveryKind(), order.Status)
	transitions := make([]Transition, 0, len(next))
	for _, status := range next {
		transitions = append(transitions, Transition{Status: status, Label: status.Label()})
	}
	return &OrderDetail{OrderSummary: summaries[0], AvailableTransitions: transitions}, nil
}

func (s *service) summarize(ctx context.Context, orders []models.Order) ([]OrderSummary, error) {
	if len(orders) == 0 {
		return []OrderSummary{}, nil
	}
	orderIDs := make([]int64, 0, len(orders))
	customerIDs := make([]int64, 0, len(orders))
	for _, order := range orders {
		orderIDs = append(orderIDs, order.ID)
		customerIDs = append(customerIDs, order.CustomerUserID)
	}
	items, err := s.repo.FindItems(ctx, orderIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not load order")
	}
	names, err := s.repo.FindCustomerNames(ctx, customerIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not load order")
	}

	itemsByOrder := make(map[int64][]OrderItemDTO, len(orders))
	for _, item := range items {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], OrderItemDTO{
			ID:        item.ID,
			PackageID: item.PackageID,
			Product:   productName(item),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	out := make([]OrderSummary, 0, len(orders))
	for _, order := range orders {
		lines := itemsByOrder[order.ID]
		if lines == nil {
			lines = []OrderItemDTO{}
		}
		summary := OrderSummary{
			ID:            order.ID,
			Number:        order.Number,
			CustomerID:    order.CustomerUserID,
			CustomerName:  names[order.CustomerUserID],
			DeliveryType:  order.DeliveryType,
			DeliveryKind:  order.DeliveryKind(),
			Status:        order.Status,
			StatusLabel:   order.Status.Label(),
			PaymentStatus: order.PaymentStatus,
			PaymentKind:   order.PaymentKind,
			FreightFee:    order.FreightFee,
			Total:         order.Total,
			CreatedAt:     order.CreatedAt,
			DeliveredAt:   order.DeliveredAt,
			ResellerNotes: order.ResellerNotes,
			Items:         lines,
		}
		if order.EstimatedDeliveryDate != nil {
			formatted := order.EstimatedDeliveryDate.Format(dateLayout)
			summary.EstimatedDeliveryDate = &formatted
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *service) loadOrder(ctx context.Context, repo Repository, actor Actor, orderID int64, forUpdate bool) (*models.Order, error) {
	if orderID <= 0 {
		return nil, fieldError("order_id", "order id required")
	}
	order, err := repo.FindOrder(ctx, actor.ResellerID, orderID, forUpdate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not load order")
	}
	return order, nil
}

// estimatedDate keeps the calendar date and refuses days already past in
// the business timezone.
func (s *service) estimatedDate(value time.Time) (time.Time, error) {
	if value.IsZero() {
		return time.Time{}, fieldError("estimated_delivery_date", "estimated delivery date required")
	}
	y, m, d := value.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ty, tm, td := s.now().In(s.loc).Date()
	today := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return time.Time{}, fieldError("estimated_delivery_date", "estimated delivery date cannot be in the past")
	}
	return date, nil
}

func (s *service) linkCustomer(ctx context.Context, order *models.Order) {
	created, err := s.customers.EnsureLinked(ctx, order.ResellerID, order.CustomerUserID)
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithOrderID(ctx, order.ID)
	if err != nil {
		s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "customer link failed after accept")
		return
	}
	if created {
		s.logg.Info(s.logg.WithField(logCtx, "customer_user_id", order.CustomerUserID), "customer linked to reseller")
	}
}

// observe records the action when the returned func runs with its final error.
func (s *service) observe(action string, started time.Time) func(*error) {
	return func(errp *error) {
		s.metrics.Observe(action, outcomeOf(*errp), s.now().Sub(started))
		if pkgerrors.IsCode(*errp, pkgerrors.CodeInsufficientStock) {
			if details, ok := pkgerrors.As(*errp).Details().(map[string]any); ok {
				if items, ok := details["insufficient_items"].([]string); ok {
					s.metrics.AddShortfall(action, len(items))
				}
			}
		}
	}
}

// actionFailure keeps domain errors as they are and reports any data-layer
// failure, including a commit error, under the action's message.
func actionFailure(err error, message string) error {
	typed := pkgerrors.As(err)
	if typed == nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
	}
	switch typed.Code() {
	case pkgerrors.CodeDependency, pkgerrors.CodeInternal:
		if typed.Message() == message {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
	default:
		return err
	}
}

func outcomeOf(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	switch pkgerrors.As(err).Code() {
	case pkgerrors.CodeValidation, pkgerrors.CodeUnauthorized, pkgerrors.CodeNotFound,
		pkgerrors.CodeStateConflict, pkgerrors.CodeInsufficientStock:
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

func viewStatuses(view enums.OrderView) []enums.FulfillmentStatus {
	switch view {
	case enums.OrderViewInProgress:
		return []enums.FulfillmentStatus{
			enums.FulfillmentPreparing,
			enums.FulfillmentReadyForPickup,
			enums.FulfillmentAccepted,
			enums.FulfillmentInTransit,
		}
	case enums.OrderViewFinished:
		return enums.CompletedFulfillmentStatuses
	case enums.OrderViewCancelled:
		return []enums.FulfillmentStatus{enums.FulfillmentCancelled}
	default:
		return enums.PendingFulfillmentStatuses
	}
}

func buildActor(actor Actor) *outbox.ActorRef {
	return &outbox.ActorRef{
		UserID:     actor.UserID,
		ResellerID: actor.ResellerID,
	}
}

func errSessionMissing() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "user/session not found")
}

func fieldError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(map[string]string{"field": field})
}

func stateConflict(message string, current enums.FulfillmentStatus, allowed []enums.FulfillmentStatus) error {
	if allowed == nil {
		allowed = []enums.FulfillmentStatus{}
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, message).
		WithDetails(map[string]any{"status": current, "allowed": allowed})
}

func insufficientStock(products []string) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
		WithDetails(map[string]any{"insufficient_items": products})
}
