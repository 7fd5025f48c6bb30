package usecase

import (
	"context"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// =====================
// インメモリのフェイク実装。
// トランザクションはstateの複製＋エラー時の巻き戻しで再現する。
// =====================

type memState struct {
	products   map[int64]*model.Product
	cartItems  []model.CartItem
	orders     []model.Order
	orderItems map[int64][]model.OrderItem
	checkouts  map[string]*model.CheckoutSession
	alerts     []model.OperatorAlert
	users      map[int64]model.User

	nextOrderID int64
}

func newMemState() *memState {
	return &memState{
		products:   map[int64]*model.Product{},
		orderItems: map[int64][]model.OrderItem{},
		checkouts:  map[string]*model.CheckoutSession{},
		users:      map[int64]model.User{},
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	c.cartItems = append([]model.CartItem(nil), s.cartItems...)
	c.orders = append([]model.Order(nil), s.orders...)
	for id, items := range s.orderItems {
		c.orderItems[id] = append([]model.OrderItem(nil), items...)
	}
	for id, cs := range s.checkouts {
		ccs := *cs
		c.checkouts[id] = &ccs
	}
	c.alerts = append([]model.OperatorAlert(nil), s.alerts...)
	for id, u := range s.users {
		c.users[id] = u
	}
	c.nextOrderID = s.nextOrderID
	return c
}

func (s *memState) restore(from *memState) {
	*s = *from
}

// ---- products ----

type memProductRepo struct{ s *memState }

func (r *memProductRepo) ListActive(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	panic("not used in these tests")
}

func (r *memProductRepo) FindByID(ctx context.Context, id int64) (model.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return *p, nil
}

func (r *memProductRepo) FindBySlug(ctx context.Context, slug string) (model.Product, error) {
	panic("not used in these tests")
}

func (r *memProductRepo) FindByIDForUpdate(ctx context.Context, id int64) (model.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *memProductRepo) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used in these tests")
}

func (r *memProductRepo) Update(ctx context.Context, p model.Product) error {
	panic("not used in these tests")
}

func (r *memProductRepo) UpdateStatus(ctx context.Context, id int64, status model.ProductStatus) error {
	panic("not used in these tests")
}

// ---- cart items ----

type memCartItemRepo struct{ s *memState }

func (r *memCartItemRepo) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var out []model.CartItem
	for _, it := range r.s.cartItems {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memCartItemRepo) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	for _, it := range r.s.cartItems {
		if it.ID == cartItemID {
			return it, nil
		}
	}
	return model.CartItem{}, repo.ErrNotFound
}

func (r *memCartItemRepo) UpsertByUserAndProduct(ctx context.Context, userID int64, productID int64, addQty int64) error {
	for i, it := range r.s.cartItems {
		if it.UserID == userID && it.ProductID == productID {
			r.s.cartItems[i].Quantity += addQty
			return nil
		}
	}
	r.s.cartItems = append(r.s.cartItems, model.CartItem{
		ID:        int64(len(r.s.cartItems) + 1),
		UserID:    userID,
		ProductID: productID,
		Quantity:  addQty,
	})
	return nil
}

func (r *memCartItemRepo) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	for i, it := range r.s.cartItems {
		if it.ID == cartItemID {
			r.s.cartItems[i].Quantity = qty
			return nil
		}
	}
	return repo.ErrNotFound
}

func (r *memCartItemRepo) DeleteByID(ctx context.Context, cartItemID int64) error {
	for i, it := range r.s.cartItems {
		if it.ID == cartItemID {
			r.s.cartItems = append(r.s.cartItems[:i], r.s.cartItems[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (r *memCartItemRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	kept := r.s.cartItems[:0]
	for _, it := range r.s.cartItems {
		if it.UserID != userID {
			kept = append(kept, it)
		}
	}
	r.s.cartItems = kept
	return nil
}

// ---- orders ----

type memOrderRepo struct{ s *memState }

func (r *memOrderRepo) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	for _, o := range r.s.orders {
		if o.ID == orderID {
			return o, nil
		}
	}
	return model.Order{}, repo.ErrNotFound
}

func (r *memOrderRepo) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

// 一意制約違反の分類まで本物のふるまいに合わせる
func (r *memOrderRepo) Create(ctx context.Context, order model.Order) (int64, error) {
	for _, o := range r.s.orders {
		if o.PaymentSessionID == order.PaymentSessionID {
			return 0, repo.ErrDuplicateSession
		}
		if o.OrderNumber == order.OrderNumber {
			return 0, repo.ErrDuplicateOrderNumber
		}
	}
	r.s.nextOrderID++
	order.ID = r.s.nextOrderID
	r.s.orders = append(r.s.orders, order)
	return order.ID, nil
}

func (r *memOrderRepo) FindByPaymentSessionID(ctx context.Context, sessionID string) (model.Order, bool, error) {
	for _, o := range r.s.orders {
		if o.PaymentSessionID == sessionID {
			return o, true, nil
		}
	}
	return model.Order{}, false, nil
}

func (r *memOrderRepo) UpdateStatus(ctx context.Context, orderID int64, upd repo.OrderStatusUpdate) error {
	for i, o := range r.s.orders {
		if o.ID == orderID {
			r.s.orders[i].Status = upd.Status
			if upd.TrackingNumber != "" {
				r.s.orders[i].TrackingNumber = upd.TrackingNumber
			}
			if upd.ShippedAt != nil {
				r.s.orders[i].ShippedAt = upd.ShippedAt
			}
			if upd.DeliveredAt != nil {
				r.s.orders[i].DeliveredAt = upd.DeliveredAt
			}
			if upd.CancelledAt != nil {
				r.s.orders[i].CancelledAt = upd.CancelledAt
			}
			return nil
		}
	}
	return repo.ErrNotFound
}

func (r *memOrderRepo) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	return append([]model.Order(nil), r.s.orders...), int64(len(r.s.orders)), nil
}

// ---- order items ----

type memOrderItemRepo struct{ s *memState }

func (r *memOrderItemRepo) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	r.s.orderItems[orderID] = append(r.s.orderItems[orderID], items...)
	return nil
}

func (r *memOrderItemRepo) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	return append([]model.OrderItem(nil), r.s.orderItems[orderID]...), nil
}

// ---- inventory ----

type memInventoryRepo struct{ s *memState }

func (r *memInventoryRepo) SetStock(ctx context.Context, productID int64, newStock int64) error {
	p, ok := r.s.products[productID]
	if !ok {
		return repo.ErrNotFound
	}
	p.Stock = newStock
	return nil
}

func (r *memInventoryRepo) IncreaseSalesCount(ctx context.Context, productID int64, qty int64) error {
	p, ok := r.s.products[productID]
	if !ok {
		return repo.ErrNotFound
	}
	p.SalesCount += qty
	return nil
}

// ---- checkout sessions ----

type memCheckoutSessionRepo struct{ s *memState }

func (r *memCheckoutSessionRepo) Create(ctx context.Context, cs model.CheckoutSession) error {
	c := cs
	r.s.checkouts[cs.SessionID] = &c
	return nil
}

func (r *memCheckoutSessionRepo) FindBySessionID(ctx context.Context, sessionID string) (model.CheckoutSession, bool, error) {
	cs, ok := r.s.checkouts[sessionID]
	if !ok {
		return model.CheckoutSession{}, false, nil
	}
	return *cs, true, nil
}

func (r *memCheckoutSessionRepo) MarkCompleted(ctx context.Context, sessionID string) error {
	cs, ok := r.s.checkouts[sessionID]
	if !ok {
		return repo.ErrNotFound
	}
	cs.Status = model.CheckoutSessionStatusCompleted
	return nil
}

// ---- alerts ----

type memAlertRepo struct{ s *memState }

func (r *memAlertRepo) Create(ctx context.Context, alert model.OperatorAlert) error {
	alert.ID = int64(len(r.s.alerts) + 1)
	r.s.alerts = append(r.s.alerts, alert)
	return nil
}

func (r *memAlertRepo) ListUnresolved(ctx context.Context, limit int) ([]model.OperatorAlert, error) {
	var out []model.OperatorAlert
	for _, a := range r.s.alerts {
		if a.ResolvedAt == nil {
			out = append(out, a)
		}
	}
	return out, nil
}

// ---- users ----

type memUserRepo struct{ s *memState }

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	panic("not used in these tests")
}

func (r *memUserRepo) FindByID(ctx context.Context, userID int64) (model.User, error) {
	u, ok := r.s.users[userID]
	if !ok {
		return model.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (model.User, bool, error) {
	panic("not used in these tests")
}

func (r *memUserRepo) UpdateLastLogin(ctx context.Context, userID int64) error {
	panic("not used in these tests")
}

// ---- transaction manager ----

type memTxRepos struct{ s *memState }

func (r *memTxRepos) Orders() repo.OrderRepository                     { return &memOrderRepo{s: r.s} }
func (r *memTxRepos) OrderItems() repo.OrderItemRepository             { return &memOrderItemRepo{s: r.s} }
func (r *memTxRepos) CartItems() repo.CartItemRepository               { return &memCartItemRepo{s: r.s} }
func (r *memTxRepos) Products() repo.ProductRepository                 { return &memProductRepo{s: r.s} }
func (r *memTxRepos) Inventory() repo.InventoryRepository              { return &memInventoryRepo{s: r.s} }
func (r *memTxRepos) CheckoutSessions() repo.CheckoutSessionRepository { return &memCheckoutSessionRepo{s: r.s} }
func (r *memTxRepos) Alerts() repo.OperatorAlertRepository             { return &memAlertRepo{s: r.s} }

// fnがエラーを返したらstateを開始時点に巻き戻す
type memTxManager struct{ s *memState }

func (m *memTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	before := m.s.clone()
	if err := fn(&memTxRepos{s: m.s}); err != nil {
		m.s.restore(before)
		return err
	}
	return nil
}

// ---- clock ----

type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time { return c.t }
