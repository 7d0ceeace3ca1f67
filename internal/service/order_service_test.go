package service

import (
	"context"
	"testing"
	"time"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/dto"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	svc      OrderService
	orders   *stubOrderRepo
	products *stubProductRepo
	promos   *stubPromotionRepo
	users    *stubUserRepo
	notifs   *stubNotificationRepo
	notifier *stubNotifier
	emails   *stubEnqueuer
	customer *model.User
	admin    *model.User
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:   newStubOrderRepo(),
		products: newStubProductRepo(),
		promos:   &stubPromotionRepo{},
		users:    newStubUserRepo(),
		notifs:   &stubNotificationRepo{},
		notifier: &stubNotifier{},
		emails:   &stubEnqueuer{},
	}
	f.customer = f.users.add(&model.User{Name: "Joao", Email: "joao@example.com", Role: model.RoleUser, Active: true})
	f.admin = f.users.add(&model.User{Name: "Dona Maria", Email: "maria@adegaflow.com", Role: model.RoleAdmin, Active: true})
	f.svc = NewOrderService(f.orders, f.products, f.promos, f.users, f.notifs, f.notifier, f.emails, 500)
	return f
}

func (f *orderFixture) addProduct(name string, stock int, price string) *model.Product {
	p := &model.Product{Name: name, Stock: stock, Price: dec(price), CostPrice: dec("1.00"), Active: true}
	p.StockStatus = p.CurrentStockStatus()
	return f.products.add(p)
}

func TestCheckoutDecrementsStockAndDerivesStatus(t *testing.T) {
	f := newOrderFixture()
	p := f.addProduct("Cerveja Long Neck", 7, "8.50")

	resp, err := f.svc.Create(context.Background(), f.customer.ID, dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 3}},
		PaymentMethod: "pix",
		Address:       "Rua das Flores, 123",
	})
	require.NoError(t, err)

	assert.Equal(t, 4, f.products.products[p.ID].Stock)
	assert.Equal(t, model.StatusLowStock, f.products.products[p.ID].StockStatus,
		"derived status must be persisted with the decrement")

	assert.Equal(t, string(model.OrderPending), resp.Status)
	assert.True(t, resp.Subtotal.Equal(dec("25.50")))
	assert.True(t, resp.DeliveryFee.Equal(dec("5.00")))
	assert.True(t, resp.Total.Equal(dec("30.50")))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Cerveja Long Neck", resp.Items[0].Name)
}

func TestCheckoutAppliesActivePromotionPrice(t *testing.T) {
	f := newOrderFixture()
	p := f.addProduct("Vinho Tinto", 20, "49.90")
	now := time.Now()
	require.NoError(t, f.promos.Create(context.Background(), &model.Promotion{
		ProductID: p.ID,
		Price:     dec("39.90"),
		StartsAt:  now.Add(-time.Hour),
		EndsAt:    now.Add(time.Hour),
		Active:    true,
	}))

	resp, err := f.svc.Create(context.Background(), f.customer.ID, dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 2}},
		PaymentMethod: "cartao",
		Address:       "Av. Central, 45",
	})
	require.NoError(t, err)
	assert.True(t, resp.Items[0].UnitPrice.Equal(dec("39.90")))
	assert.True(t, resp.Subtotal.Equal(dec("79.80")))
}

func TestCheckoutConsumesVolumeForFractionedProducts(t *testing.T) {
	f := newOrderFixture()
	p := f.products.add(&model.Product{
		Name:          "Whisky Dose 50ml",
		Stock:         1,
		Price:         dec("15.00"),
		CostPrice:     dec("5.00"),
		IsFractioned:  true,
		TotalVolume:   decPtr("700"),
		ServingVolume: decPtr("50"),
		StockStatus:   model.StatusInStock,
		Active:        true,
	})

	_, err := f.svc.Create(context.Background(), f.customer.ID, dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 4}},
		PaymentMethod: "dinheiro",
		Address:       "Rua A, 1",
	})
	require.NoError(t, err)
	assert.True(t, f.products.products[p.ID].TotalVolume.Equal(dec("500")))
}

func TestCheckoutRejectsInsufficientStock(t *testing.T) {
	f := newOrderFixture()
	p := f.addProduct("Espumante", 2, "32.00")

	_, err := f.svc.Create(context.Background(), f.customer.ID, dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 3}},
		PaymentMethod: "pix",
		Address:       "Rua B, 2",
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 2, f.products.products[p.ID].Stock, "failed checkout must not touch stock")
}

func TestCheckoutNotifiesAdminsAndCustomer(t *testing.T) {
	f := newOrderFixture()
	p := f.addProduct("Cachaca", 30, "22.00")

	resp, err := f.svc.Create(context.Background(), f.customer.ID, dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		PaymentMethod: "pix",
		Address:       "Rua C, 3",
	})
	require.NoError(t, err)

	// persisted notification row per admin
	adminRows, _ := f.notifs.ListByUser(context.Background(), f.admin.ID, 10)
	require.Len(t, adminRows, 1)
	assert.Contains(t, adminRows[0].Message, "Novo pedido")
	require.NotNil(t, adminRows[0].OrderID)
	assert.Equal(t, resp.ID, adminRows[0].OrderID.String())

	// live events
	newOrder := f.notifier.byEvent(EventNewOrder)
	require.Len(t, newOrder, 1)
	assert.Equal(t, "admins", newOrder[0].room)

	toCustomer := f.notifier.byEvent(EventOrderNotification)
	require.Len(t, toCustomer, 1)
	assert.Equal(t, f.customer.ID.String(), toCustomer[0].room)

	// receipt email queued
	assert.Len(t, f.emails.jobs, 1)
}

func TestOrderLifecycleTransitions(t *testing.T) {
	f := newOrderFixture()
	p := f.addProduct("Refrigerante", 50, "7.00")
	motoboy := f.users.add(&model.User{Name: "Carlos", Email: "carlos@adegaflow.com", Role: model.RoleMotoboy, Active: true})

	created, err := f.svc.Create(context.Background(), f.customer.ID, dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 2}},
		PaymentMethod: "pix",
		Address:       "Rua D, 4",
	})
	require.NoError(t, err)
	orderID := uuid.MustParse(created.ID)

	// PENDING → OUT_FOR_DELIVERY skips CONFIRMED and must fail
	_, err = f.svc.AssignMotoboy(context.Background(), orderID, dto.AssignMotoboyRequest{MotoboyID: motoboy.ID.String()})
	require.ErrorIs(t, err, ErrInvalidTransition)

	confirmed, err := f.svc.Confirm(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, string(model.OrderConfirmed), confirmed.Status)

	out, err := f.svc.AssignMotoboy(context.Background(), orderID, dto.AssignMotoboyRequest{MotoboyID: motoboy.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, string(model.OrderOutForDelivery), out.Status)
	require.NotNil(t, out.MotoboyID)
	assert.Equal(t, motoboy.ID.String(), *out.MotoboyID)

	deliveries, err := f.svc.ListForMotoboy(context.Background(), motoboy.ID)
	require.NoError(t, err)
	assert.Len(t, deliveries, 1)

	// another courier cannot close the delivery
	stranger := f.users.add(&model.User{Name: "Outro", Email: "outro@adegaflow.com", Role: model.RoleMotoboy, Active: true})
	_, err = f.svc.MarkDelivered(context.Background(), orderID, stranger.ID)
	require.ErrorIs(t, err, ErrForbiddenOrder)

	done, err := f.svc.MarkDelivered(context.Background(), orderID, motoboy.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.OrderDelivered), done.Status)
	assert.NotNil(t, done.DeliveredAt)

	// terminal state
	_, err = f.svc.Confirm(context.Background(), orderID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelRestoresStock(t *testing.T) {
	f := newOrderFixture()
	p := f.addProduct("Energetico", 6, "11.00")

	created, err := f.svc.Create(context.Background(), f.customer.ID, dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 4}},
		PaymentMethod: "pix",
		Address:       "Rua E, 5",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, f.products.products[p.ID].Stock)
	assert.Equal(t, model.StatusLowStock, f.products.products[p.ID].StockStatus)

	orderID := uuid.MustParse(created.ID)
	canceled, err := f.svc.Cancel(context.Background(), orderID, f.customer.ID, model.RoleUser, dto.CancelOrderRequest{Reason: "desisti da compra"})
	require.NoError(t, err)
	assert.Equal(t, string(model.OrderCanceled), canceled.Status)
	assert.Equal(t, 6, f.products.products[p.ID].Stock)
	assert.Equal(t, model.StatusInStock, f.products.products[p.ID].StockStatus)
}

func TestCancelRestoresVolumeConsumedAtCheckout(t *testing.T) {
	f := newOrderFixture()
	p := f.products.add(&model.Product{
		Name:          "Gin Dose 50ml",
		Stock:         1,
		Price:         dec("18.00"),
		CostPrice:     dec("6.00"),
		IsFractioned:  true,
		TotalVolume:   decPtr("700"),
		ServingVolume: decPtr("50"),
		StockStatus:   model.StatusInStock,
		Active:        true,
	})

	created, err := f.svc.Create(context.Background(), f.customer.ID, dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 4}},
		PaymentMethod: "pix",
		Address:       "Rua G, 7",
	})
	require.NoError(t, err)
	require.True(t, f.products.products[p.ID].TotalVolume.Equal(dec("500")))

	// Serving size changes between checkout and cancel; the restock must
	// return the 200ml the checkout took, not 4 servings at the new size.
	f.products.products[p.ID].ServingVolume = decPtr("100")

	_, err = f.svc.Cancel(context.Background(), uuid.MustParse(created.ID), f.customer.ID, model.RoleUser, dto.CancelOrderRequest{Reason: "mudei de ideia"})
	require.NoError(t, err)
	assert.True(t, f.products.products[p.ID].TotalVolume.Equal(dec("700")))
}

func TestCancelIsOwnerScopedForCustomers(t *testing.T) {
	f := newOrderFixture()
	p := f.addProduct("Agua", 10, "3.00")

	created, err := f.svc.Create(context.Background(), f.customer.ID, dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		PaymentMethod: "pix",
		Address:       "Rua F, 6",
	})
	require.NoError(t, err)

	other := f.users.add(&model.User{Name: "Pedro", Email: "pedro@example.com", Role: model.RoleUser, Active: true})
	_, err = f.svc.Cancel(context.Background(), uuid.MustParse(created.ID), other.ID, model.RoleUser, dto.CancelOrderRequest{Reason: "nao e meu"})
	require.ErrorIs(t, err, ErrForbiddenOrder)

	// staff may cancel any order
	_, err = f.svc.Cancel(context.Background(), uuid.MustParse(created.ID), f.admin.ID, model.RoleAdmin, dto.CancelOrderRequest{Reason: "pagamento recusado"})
	require.NoError(t, err)
}

func TestGetHidesOtherUsersOrders(t *testing.T) {
	f := newOrderFixture()
	p := f.addProduct("Licor", 10, "28.00")

	created, err := f.svc.Create(context.Background(), f.customer.ID, dto.CreateOrderRequest{
		Items:         []dto.OrderItemRequest{{ProductID: p.ID.String(), Quantity: 1}},
		PaymentMethod: "pix",
		Address:       "Rua G, 7",
	})
	require.NoError(t, err)
	orderID := uuid.MustParse(created.ID)

	other := f.users.add(&model.User{Name: "Ana", Email: "ana@example.com", Role: model.RoleUser, Active: true})
	_, err = f.svc.Get(context.Background(), orderID, other.ID, model.RoleUser)
	assert.ErrorIs(t, err, ErrForbiddenOrder)

	_, err = f.svc.Get(context.Background(), orderID, f.admin.ID, model.RoleAdmin)
	assert.NoError(t, err)
}
