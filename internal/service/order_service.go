package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/dto"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/model"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/repository"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Notifier pushes events to connected websocket sessions. Implemented by
// ws.Hub; a nil-safe no-op stub is used in unit tests.
type Notifier interface {
	EmitToUser(userID uuid.UUID, event string, payload interface{})
	EmitToAdmins(event string, payload interface{})
}

// EmailEnqueuer hands the receipt email job to the async queue.
// Implemented by worker.Dispatcher.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload interface{}) error
}

// Socket event names. Admin dashboards listen for new-order; customers
// listen for order-notification on their own room.
const (
	EventNewOrder          = "new-order"
	EventOrderNotification = "order-notification"
)

var (
	ErrOrderNotFound     = errors.New("pedido nao encontrado")
	ErrForbiddenOrder    = errors.New("pedido pertence a outro usuario")
	ErrInvalidTransition = errors.New("transicao de status invalida")
	ErrInsufficientStock = errors.New("estoque insuficiente")
)

// OrderService drives the order lifecycle from checkout to delivery.
type OrderService interface {
	// Create runs the checkout: prices every item (promotions included),
	// validates availability, then writes the order, the stock decrements
	// and the derived status updates in a single transaction.
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error)

	// Get returns one order. Non-staff callers only see their own.
	Get(ctx context.Context, id, requesterID uuid.UUID, role model.Role) (*dto.OrderResponse, error)

	ListMine(ctx context.Context, userID uuid.UUID, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	ListAll(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	ListForMotoboy(ctx context.Context, motoboyID uuid.UUID) ([]dto.OrderResponse, error)

	Confirm(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	AssignMotoboy(ctx context.Context, id uuid.UUID, req dto.AssignMotoboyRequest) (*dto.OrderResponse, error)

	// MarkDelivered is motoboy-scoped: only the assigned courier may call it.
	MarkDelivered(ctx context.Context, id, motoboyID uuid.UUID) (*dto.OrderResponse, error)

	// Cancel restores the stock consumed at checkout in the same transaction
	// that flips the status.
	Cancel(ctx context.Context, id, actorID uuid.UUID, role model.Role, req dto.CancelOrderRequest) (*dto.OrderResponse, error)
}

type orderService struct {
	orders        repository.OrderRepository
	products      repository.ProductRepository
	promotions    repository.PromotionRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
	notifier      Notifier
	dispatcher    EmailEnqueuer
	deliveryFee   decimal.Decimal
}

func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	promotions repository.PromotionRepository,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	notifier Notifier,
	dispatcher EmailEnqueuer,
	deliveryFeeCents int64,
) OrderService {
	return &orderService{
		orders:        orders,
		products:      products,
		promotions:    promotions,
		users:         users,
		notifications: notifications,
		notifier:      notifier,
		dispatcher:    dispatcher,
		deliveryFee:   decimal.NewFromInt(deliveryFeeCents).Div(decimal.NewFromInt(100)),
	}
}

// checkoutLine pairs a validated product with the quantity and the unit
// price resolved for this checkout.
type checkoutLine struct {
	product  *model.Product
	quantity int
	price    decimal.Decimal
}

func (s *orderService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	lines, err := s.buildLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		lineTotal := l.price.Mul(decimalFromInt(l.quantity))
		subtotal = subtotal.Add(lineTotal)
		item := model.OrderItem{
			ProductID: l.product.ID,
			Name:      l.product.Name,
			Quantity:  l.quantity,
			UnitPrice: l.price,
			CostPrice: l.product.CostPrice,
			Subtotal:  lineTotal,
		}
		if l.product.IsFractioned && l.product.ServingVolume != nil {
			consumed := l.product.ServingVolume.Mul(decimalFromInt(l.quantity))
			item.ConsumedVolume = &consumed
		}
		items = append(items, item)
	}

	order := &model.Order{
		UserID:        userID,
		Status:        model.OrderPending,
		Subtotal:      subtotal,
		DeliveryFee:   s.deliveryFee,
		Total:         subtotal.Add(s.deliveryFee),
		PaymentMethod: req.PaymentMethod,
		Address:       req.Address,
		Complement:    req.Complement,
		Notes:         req.Notes,
		Items:         items,
	}

	admins, err := s.users.ListByRole(ctx, model.RoleAdmin)
	if err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		if err := s.orders.CreateTx(tx, order); err != nil {
			return err
		}
		for i := range order.Items {
			item := &order.Items[i]
			if item.ConsumedVolume != nil {
				if err := s.products.AdjustVolumeTx(tx, item.ProductID, item.ConsumedVolume.Neg()); err != nil {
					return err
				}
			} else {
				if err := s.products.AdjustStockTx(tx, item.ProductID, -item.Quantity); err != nil {
					return err
				}
			}
			if err := recomputeStatusTx(tx, s.products, item.ProductID); err != nil {
				return err
			}
		}
		msg := fmt.Sprintf("Novo pedido #%s recebido", shortID(order.ID))
		for _, admin := range admins {
			n := model.Notification{UserID: admin.ID, OrderID: &order.ID, Message: msg}
			if err := s.notifications.CreateTx(tx, &n); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.afterCreate(ctx, order)
	return s.load(ctx, order.ID)
}

// buildLines loads and validates every requested product and resolves the
// effective unit price, promotion included.
func (s *orderService) buildLines(ctx context.Context, items []dto.OrderItemRequest) ([]checkoutLine, error) {
	now := time.Now()
	lines := make([]checkoutLine, 0, len(items))
	for _, item := range items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product_id invalido: %w", err)
		}
		p, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return nil, errors.New("produto nao encontrado")
		}
		if !p.Active {
			return nil, fmt.Errorf("produto indisponivel: %s", p.Name)
		}

		if p.IsFractioned {
			if p.ServingVolume == nil || p.TotalVolume == nil {
				return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, p.Name)
			}
			needed := p.ServingVolume.Mul(decimalFromInt(item.Quantity))
			if p.TotalVolume.LessThan(needed) {
				return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, p.Name)
			}
		} else if p.Stock < item.Quantity {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, p.Name)
		}

		price := p.Price
		if promo, err := s.promotions.FindActiveForProduct(ctx, p.ID, now); err == nil && promo.Covers(now) {
			price = promo.Price
		}
		lines = append(lines, checkoutLine{product: p, quantity: item.Quantity, price: price})
	}
	return lines, nil
}

// afterCreate runs the post-commit side effects: websocket pushes and the
// receipt email job. Failures here never undo the order.
func (s *orderService) afterCreate(ctx context.Context, order *model.Order) {
	payload := map[string]interface{}{
		"order_id": order.ID.String(),
		"status":   string(order.Status),
		"total":    order.Total,
	}
	s.notifier.EmitToAdmins(EventNewOrder, payload)
	s.notifier.EmitToUser(order.UserID, EventOrderNotification, map[string]interface{}{
		"order_id": order.ID.String(),
		"message":  fmt.Sprintf("Pedido #%s recebido", shortID(order.ID)),
	})

	user, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("checkout: user lookup for email failed")
		return
	}
	job := worker.EmailJobPayload{
		OrderID: order.ID.String(),
		ToEmail: user.Email,
		Subject: fmt.Sprintf("Pedido #%s confirmado - Adega Flow", shortID(order.ID)),
		Body:    fmt.Sprintf("Ola %s, recebemos seu pedido #%s. O comprovante segue em anexo.", user.Name, shortID(order.ID)),
	}
	if err := s.dispatcher.EnqueueEmail(ctx, job); err != nil {
		log.Error().Err(err).Str("order_id", order.ID.String()).Msg("checkout: email enqueue failed")
	}
}

func (s *orderService) Get(ctx context.Context, id, requesterID uuid.UUID, role model.Role) (*dto.OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if role == model.RoleUser && o.UserID != requesterID {
		return nil, ErrForbiddenOrder
	}
	return orderToResponse(o), nil
}

func (s *orderService) ListMine(ctx context.Context, userID uuid.UUID, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	orders, total, err := s.orders.ListByUser(ctx, userID, normalizeOrderFilter(filter))
	if err != nil {
		return nil, err
	}
	return listToResponse(orders, total, filter), nil
}

func (s *orderService) ListAll(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	orders, total, err := s.orders.List(ctx, normalizeOrderFilter(filter))
	if err != nil {
		return nil, err
	}
	return listToResponse(orders, total, filter), nil
}

func (s *orderService) ListForMotoboy(ctx context.Context, motoboyID uuid.UUID) ([]dto.OrderResponse, error) {
	orders, err := s.orders.ListByMotoboy(ctx, motoboyID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, *orderToResponse(&orders[i]))
	}
	return resp, nil
}

func (s *orderService) Confirm(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	return s.transition(ctx, id, model.OrderConfirmed, func(o *model.Order) error { return nil },
		"Pedido #%s confirmado")
}

func (s *orderService) AssignMotoboy(ctx context.Context, id uuid.UUID, req dto.AssignMotoboyRequest) (*dto.OrderResponse, error) {
	motoboyID, err := uuid.Parse(req.MotoboyID)
	if err != nil {
		return nil, fmt.Errorf("motoboy_id invalido: %w", err)
	}
	motoboy, err := s.users.FindByID(ctx, motoboyID)
	if err != nil || motoboy.Role != model.RoleMotoboy {
		return nil, errors.New("motoboy nao encontrado")
	}
	return s.transition(ctx, id, model.OrderOutForDelivery, func(o *model.Order) error {
		o.MotoboyID = &motoboyID
		return nil
	}, "Pedido #%s saiu para entrega")
}

func (s *orderService) MarkDelivered(ctx context.Context, id, motoboyID uuid.UUID) (*dto.OrderResponse, error) {
	return s.transition(ctx, id, model.OrderDelivered, func(o *model.Order) error {
		if o.MotoboyID == nil || *o.MotoboyID != motoboyID {
			return ErrForbiddenOrder
		}
		now := time.Now()
		o.DeliveredAt = &now
		return nil
	}, "Pedido #%s entregue")
}

// transition applies one lifecycle step: validates the move, lets mutate
// touch the row, persists it together with the customer notification, then
// pushes the socket event.
func (s *orderService) transition(ctx context.Context, id uuid.UUID, next model.OrderStatus, mutate func(*model.Order) error, msgFmt string) (*dto.OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if !o.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}
	if err := mutate(o); err != nil {
		return nil, err
	}
	o.Status = next

	msg := fmt.Sprintf(msgFmt, shortID(o.ID))
	txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		if err := s.orders.UpdateTx(tx, o); err != nil {
			return err
		}
		n := model.Notification{UserID: o.UserID, OrderID: &o.ID, Message: msg}
		return s.notifications.CreateTx(tx, &n)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifier.EmitToUser(o.UserID, EventOrderNotification, map[string]interface{}{
		"order_id": o.ID.String(),
		"status":   string(next),
		"message":  msg,
	})
	return s.load(ctx, o.ID)
}

func (s *orderService) Cancel(ctx context.Context, id, actorID uuid.UUID, role model.Role, req dto.CancelOrderRequest) (*dto.OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if role == model.RoleUser && o.UserID != actorID {
		return nil, ErrForbiddenOrder
	}
	if !o.Status.CanTransition(model.OrderCanceled) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, model.OrderCanceled)
	}

	now := time.Now()
	o.Status = model.OrderCanceled
	o.CanceledAt = &now
	o.CancelReason = &req.Reason

	msg := fmt.Sprintf("Pedido #%s cancelado", shortID(o.ID))
	txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		if err := s.orders.UpdateTx(tx, o); err != nil {
			return err
		}
		// Restore exactly what checkout consumed, from the item snapshots,
		// with the status re-derived in the same transaction.
		for _, item := range o.Items {
			if item.ConsumedVolume != nil {
				if err := s.products.AdjustVolumeTx(tx, item.ProductID, *item.ConsumedVolume); err != nil {
					return err
				}
			} else {
				if err := s.products.AdjustStockTx(tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
			if err := recomputeStatusTx(tx, s.products, item.ProductID); err != nil {
				return err
			}
		}
		n := model.Notification{UserID: o.UserID, OrderID: &o.ID, Message: msg}
		return s.notifications.CreateTx(tx, &n)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifier.EmitToUser(o.UserID, EventOrderNotification, map[string]interface{}{
		"order_id": o.ID.String(),
		"status":   string(model.OrderCanceled),
		"message":  msg,
	})
	return s.load(ctx, o.ID)
}

func (s *orderService) load(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return orderToResponse(o), nil
}

func normalizeOrderFilter(f dto.OrderFilter) dto.OrderFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return f
}

func listToResponse(orders []model.Order, total int64, filter dto.OrderFilter) *dto.OrderListResponse {
	filter = normalizeOrderFilter(filter)
	resp := &dto.OrderListResponse{
		Data:  make([]dto.OrderResponse, 0, len(orders)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range orders {
		resp.Data = append(resp.Data, *orderToResponse(&orders[i]))
	}
	return resp
}

// shortID is the human-facing order reference used in messages and receipts.
func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}

	resp := &dto.OrderResponse{
		ID:            o.ID.String(),
		UserID:        o.UserID.String(),
		Status:        string(o.Status),
		Items:         items,
		Subtotal:      o.Subtotal,
		DeliveryFee:   o.DeliveryFee,
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		Address:       o.Address,
		Complement:    o.Complement,
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}
	if o.User != nil {
		resp.CustomerName = o.User.Name
	}
	if o.MotoboyID != nil {
		id := o.MotoboyID.String()
		resp.MotoboyID = &id
	}
	if o.Motoboy != nil {
		resp.MotoboyName = o.Motoboy.Name
	}
	if o.DeliveredAt != nil {
		t := o.DeliveredAt.Format(time.RFC3339)
		resp.DeliveredAt = &t
	}
	return resp
}
