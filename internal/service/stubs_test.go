package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/dto"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errNotFound = errors.New("record not found")

// ── In-memory ProductRepository stub ─────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	// statusWrites counts UpdateStockStatus/UpdateStockStatusTx calls,
	// letting tests assert the write-skip behavior.
	statusWrites int
	failStatus   map[uuid.UUID]error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products:   make(map[uuid.UUID]*model.Product),
		failStatus: make(map[uuid.UUID]error),
	}
}

func (r *stubProductRepo) add(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.add(p)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	var result []model.Product
	for _, p := range r.products {
		if p.Active {
			result = append(result, *p)
		}
	}
	return result, int64(len(result)), nil
}

func (r *stubProductRepo) ListAll(_ context.Context) ([]model.Product, error) {
	var result []model.Product
	for _, p := range r.products {
		result = append(result, *p)
	}
	return result, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return errNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	p.Active = false
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	p.Active = true
	return nil
}

func (r *stubProductRepo) UpdateImagePath(_ context.Context, id uuid.UUID, path string) error {
	p, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	p.ImagePath = &path
	return nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) AdjustStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	p.Stock += delta
	return nil
}

func (r *stubProductRepo) AdjustVolumeTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	if p.TotalVolume == nil {
		return errors.New("no volume column")
	}
	v := p.TotalVolume.Add(delta)
	p.TotalVolume = &v
	return nil
}

func (r *stubProductRepo) UpdateStockStatusTx(_ *gorm.DB, id uuid.UUID, status model.StockStatus) error {
	return r.UpdateStockStatus(context.Background(), id, status)
}

func (r *stubProductRepo) UpdateStockStatus(_ context.Context, id uuid.UUID, status model.StockStatus) error {
	if err := r.failStatus[id]; err != nil {
		return err
	}
	p, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	r.statusWrites++
	p.StockStatus = status
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

// ── In-memory StockEntryRepository stub ──────────────────────────────────────

type stubEntryRepo struct {
	entries []model.StockEntry
}

func (r *stubEntryRepo) CreateTx(_ *gorm.DB, e *model.StockEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubEntryRepo) List(_ context.Context, limit int) ([]model.StockEntry, error) {
	if len(r.entries) > limit {
		return r.entries[:limit], nil
	}
	return r.entries, nil
}

func (r *stubEntryRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.StockEntry, error) {
	var result []model.StockEntry
	for _, e := range r.entries {
		if e.ProductID == productID {
			result = append(result, e)
		}
	}
	return result, nil
}

// ── In-memory OrderRepository stub ───────────────────────────────────────────

type stubOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderID = o.ID
	}
	o.CreatedAt = time.Now()
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *stubOrderRepo) List(_ context.Context, _ dto.OrderFilter) ([]model.Order, int64, error) {
	var result []model.Order
	for _, o := range r.orders {
		result = append(result, *o)
	}
	return result, int64(len(result)), nil
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID uuid.UUID, _ dto.OrderFilter) ([]model.Order, int64, error) {
	var result []model.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			result = append(result, *o)
		}
	}
	return result, int64(len(result)), nil
}

func (r *stubOrderRepo) ListByMotoboy(_ context.Context, motoboyID uuid.UUID) ([]model.Order, error) {
	var result []model.Order
	for _, o := range r.orders {
		if o.MotoboyID != nil && *o.MotoboyID == motoboyID && o.Status == model.OrderOutForDelivery {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (r *stubOrderRepo) Update(_ context.Context, o *model.Order) error {
	if _, ok := r.orders[o.ID]; !ok {
		return errNotFound
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) UpdateTx(_ *gorm.DB, o *model.Order) error {
	return r.Update(context.Background(), o)
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

// ── In-memory UserRepository stub ────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) add(u *model.User) *model.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return u
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	r.add(u)
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range r.users {
		result = append(result, *u)
	}
	return result, nil
}

func (r *stubUserRepo) ListByRole(_ context.Context, role model.Role) ([]model.User, error) {
	var result []model.User
	for _, u := range r.users {
		if u.Role == role && u.Active {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return errNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return errNotFound
	}
	u.Active = false
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return errNotFound
	}
	u.Active = true
	return nil
}

// ── In-memory NotificationRepository stub ────────────────────────────────────

type stubNotificationRepo struct {
	notifications []model.Notification
}

func (r *stubNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	return r.CreateTx(nil, n)
}

func (r *stubNotificationRepo) CreateTx(_ *gorm.DB, n *model.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *stubNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, _ int) ([]model.Notification, error) {
	var result []model.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (r *stubNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	for i := range r.notifications {
		if r.notifications[i].ID == id && r.notifications[i].UserID == userID {
			r.notifications[i].Read = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	for i := range r.notifications {
		if r.notifications[i].UserID == userID {
			r.notifications[i].Read = true
		}
	}
	return nil
}

// ── PromotionRepository stub ─────────────────────────────────────────────────

type stubPromotionRepo struct {
	promotions []model.Promotion
}

func (r *stubPromotionRepo) Create(_ context.Context, p *model.Promotion) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.promotions = append(r.promotions, *p)
	return nil
}

func (r *stubPromotionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Promotion, error) {
	for i := range r.promotions {
		if r.promotions[i].ID == id {
			return &r.promotions[i], nil
		}
	}
	return nil, errNotFound
}

func (r *stubPromotionRepo) List(_ context.Context) ([]model.Promotion, error) {
	return r.promotions, nil
}

func (r *stubPromotionRepo) ListActive(_ context.Context, at time.Time) ([]model.Promotion, error) {
	var result []model.Promotion
	for _, p := range r.promotions {
		if p.Covers(at) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *stubPromotionRepo) FindActiveForProduct(_ context.Context, productID uuid.UUID, at time.Time) (*model.Promotion, error) {
	for i := range r.promotions {
		if r.promotions[i].ProductID == productID && r.promotions[i].Covers(at) {
			return &r.promotions[i], nil
		}
	}
	return nil, errNotFound
}

func (r *stubPromotionRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	for i := range r.promotions {
		if r.promotions[i].ID == id {
			r.promotions[i].Active = false
			return nil
		}
	}
	return errNotFound
}

// ── ComboRepository stub ─────────────────────────────────────────────────────

type stubComboRepo struct {
	combos map[uuid.UUID]*model.Combo
}

func newStubComboRepo() *stubComboRepo {
	return &stubComboRepo{combos: make(map[uuid.UUID]*model.Combo)}
}

func (r *stubComboRepo) Create(_ context.Context, c *model.Combo) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Items {
		if c.Items[i].ID == uuid.Nil {
			c.Items[i].ID = uuid.New()
		}
		c.Items[i].ComboID = c.ID
	}
	r.combos[c.ID] = c
	return nil
}

func (r *stubComboRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Combo, error) {
	c, ok := r.combos[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubComboRepo) List(_ context.Context, activeOnly bool) ([]model.Combo, error) {
	var result []model.Combo
	for _, c := range r.combos {
		if activeOnly && !c.Active {
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

func (r *stubComboRepo) Update(_ context.Context, c *model.Combo) error {
	if _, ok := r.combos[c.ID]; !ok {
		return errNotFound
	}
	r.combos[c.ID] = c
	return nil
}

func (r *stubComboRepo) ReplaceItems(_ context.Context, comboID uuid.UUID, items []model.ComboItem) error {
	c, ok := r.combos[comboID]
	if !ok {
		return errNotFound
	}
	for i := range items {
		items[i].ComboID = comboID
	}
	c.Items = items
	return nil
}

func (r *stubComboRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	c, ok := r.combos[id]
	if !ok {
		return errNotFound
	}
	c.Active = false
	return nil
}

// ── Notifier / email queue stubs ─────────────────────────────────────────────

type recordedEvent struct {
	room    string // "admins" or user id
	event   string
	payload interface{}
}

type stubNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *stubNotifier) EmitToUser(userID uuid.UUID, event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{room: userID.String(), event: event, payload: payload})
}

func (n *stubNotifier) EmitToAdmins(event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{room: "admins", event: event, payload: payload})
}

func (n *stubNotifier) byEvent(event string) []recordedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var result []recordedEvent
	for _, e := range n.events {
		if e.event == event {
			result = append(result, e)
		}
	}
	return result
}

type stubEnqueuer struct {
	jobs []interface{}
	err  error
}

func (e *stubEnqueuer) EnqueueEmail(_ context.Context, payload interface{}) error {
	if e.err != nil {
		return e.err
	}
	e.jobs = append(e.jobs, payload)
	return nil
}
