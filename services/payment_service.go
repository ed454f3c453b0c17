package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"pos-api/models"
	"pos-api/payterm"
)

// Epsilon is one minor currency unit; a remaining balance at or below
// it counts as fully paid.
const Epsilon = int64(1)

var (
	ErrInsufficientTender = errors.New("insufficient tender for amount due")
	ErrOrderNotPayable    = errors.New("order is not payable in its current status")
	ErrQuantityExceeded   = errors.New("selected quantity exceeds unpaid quantity")
	ErrNoItemsSelected    = errors.New("no items selected for split payment")
	ErrInvalidSplitCount  = errors.New("split count must be at least 2")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrCardDeclined       = errors.New("card payment was not approved")
)

// SelectedItem is one line of a split-by-item payment.
type SelectedItem struct {
	OrderItemID uint `json:"order_item_id" binding:"required"`
	Quantity    int  `json:"quantity" binding:"required"`
}

// PaymentApplication describes one tender about to be applied to an
// order. The due amount is always recomputed from the order plus this
// value; nothing is trusted from the client.
type PaymentApplication struct {
	Method         string
	AmountReceived int64
	SplitMode      string
	SplitCount     int
	CustomAmount   int64
	SelectedItems  []SelectedItem
}

// PaymentResult reports one applied payment. Change is informational
// only; it is never persisted as money owed.
type PaymentResult struct {
	Order     *models.Order   `json:"order"`
	Payment   *models.Payment `json:"payment"`
	DueAmount int64           `json:"due_amount"`
	Change    int64           `json:"change"`
	Message   string          `json:"message,omitempty"`
}

type PaymentService interface {
	DueAmount(orderID uint, app PaymentApplication) (int64, error)
	PayCash(orderID uint, app PaymentApplication) (*PaymentResult, error)
	PayCard(ctx context.Context, orderID uint, app PaymentApplication) (*PaymentResult, error)
	SetOrderStatus(orderID uint, status string) (*models.Order, error)
}

// TransactionEngine is the card-terminal seam the reconciler drives.
// *payterm.Engine satisfies it.
type TransactionEngine interface {
	Process(ctx context.Context, tranCode string, p payterm.Params) payterm.Result
}

type paymentService struct {
	db     *gorm.DB
	engine TransactionEngine

	mu sync.Mutex
	// one mutex per order seen by this process; entries are never
	// evicted, so the map grows with the register's order history.
	locks map[uint]*sync.Mutex
}

func NewPaymentService(db *gorm.DB, engine TransactionEngine) PaymentService {
	return &paymentService{
		db:     db,
		engine: engine,
		locks:  make(map[uint]*sync.Mutex),
	}
}

// orderLock serializes payment application per order so two cashiers
// finalizing the same table never both read a stale remaining balance.
func (s *paymentService) orderLock(orderID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[orderID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[orderID] = lock
	}
	return lock
}

// ComputeOrderTotal derives the order total from its parts, floored at
// zero. Discounts are authoritative on the order and are never
// re-derived from the transaction log.
func ComputeOrderTotal(subtotal, tip, discount, coupon, points int64) int64 {
	total := subtotal + tip - discount - coupon - points
	if total < 0 {
		return 0
	}
	return total
}

// ComputeDue is the pure "amount due now" function over an order and a
// payment application.
func ComputeDue(order *models.Order, app PaymentApplication) (int64, error) {
	remaining := order.RemainingAmount()

	switch app.SplitMode {
	case models.SplitByItem:
		if len(app.SelectedItems) == 0 {
			return 0, ErrNoItemsSelected
		}
		var due int64
		for _, sel := range app.SelectedItems {
			line := findOrderItem(order, sel.OrderItemID)
			if line == nil {
				return 0, fmt.Errorf("order item %d not found", sel.OrderItemID)
			}
			if sel.Quantity <= 0 || sel.Quantity > line.Quantity-line.PaidQuantity {
				return 0, ErrQuantityExceeded
			}
			due += (line.UnitPrice + line.OptionPrice) * int64(sel.Quantity)
		}
		if due > remaining {
			due = remaining
		}
		return due, nil

	case models.SplitByAmount:
		if app.CustomAmount > 0 {
			// Capped so cumulative payments never exceed the total.
			if app.CustomAmount > remaining {
				return remaining, nil
			}
			return app.CustomAmount, nil
		}
		if app.SplitCount < 2 {
			return 0, ErrInvalidSplitCount
		}
		due := order.TotalAmount / int64(app.SplitCount)
		if due > remaining {
			due = remaining
		}
		return due, nil

	default:
		if order.PaymentStatus == models.OrderPartiallyPaid {
			return remaining, nil
		}
		return order.TotalAmount, nil
	}
}

// CashChange validates a cash tender against the amount due and
// returns the change owed. Change is informational; the recorded
// payment is always the due amount.
func CashChange(due, received int64) (int64, error) {
	if received < due-Epsilon {
		return 0, ErrInsufficientTender
	}
	change := received - due
	if change < 0 {
		change = 0
	}
	return change, nil
}

func findOrderItem(order *models.Order, id uint) *models.OrderItem {
	for i := range order.Items {
		if order.Items[i].ID == id {
			return &order.Items[i]
		}
	}
	return nil
}

func (s *paymentService) loadOrder(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").Preload("Payments").First(&order, orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *paymentService) DueAmount(orderID uint, app PaymentApplication) (int64, error) {
	order, err := s.loadOrder(s.db, orderID)
	if err != nil {
		return 0, err
	}
	return ComputeDue(order, app)
}

// PayCash applies a cash tender. The recorded amount is the portion
// applied toward the due amount, not the cash physically handed over.
func (s *paymentService) PayCash(orderID uint, app PaymentApplication) (*PaymentResult, error) {
	lock := s.orderLock(orderID)
	lock.Lock()
	defer lock.Unlock()

	app.Method = models.PaymentCash
	return s.apply(orderID, app, nil)
}

// PayCard runs the terminal sale first and only touches the order when
// the transaction was approved. A decline leaves payment state
// unchanged and surfaces the terminal's text response.
func (s *paymentService) PayCard(ctx context.Context, orderID uint, app PaymentApplication) (*PaymentResult, error) {
	lock := s.orderLock(orderID)
	lock.Lock()
	defer lock.Unlock()

	order, err := s.loadOrder(s.db, orderID)
	if err != nil {
		return nil, err
	}
	return s.payCard(ctx, order, app)
}

// payCard runs the terminal leg against an already loaded order.
// Caller holds the order lock.
func (s *paymentService) payCard(ctx context.Context, order *models.Order, app PaymentApplication) (*PaymentResult, error) {
	if !payable(order) {
		return nil, ErrOrderNotPayable
	}

	due, err := ComputeDue(order, app)
	if err != nil {
		return nil, err
	}

	result := s.engine.Process(ctx, payterm.CodeEMVSale, payterm.Params{
		Amount:  &payterm.Amount{Purchase: due},
		OrderID: &order.ID,
	})
	if !result.Success {
		reason := result.Error
		if result.Message != "" {
			reason = result.Message
		}
		return nil, fmt.Errorf("%w: %s", ErrCardDeclined, reason)
	}

	app.Method = models.PaymentCard
	app.AmountReceived = due
	res, err := s.apply(order.ID, app, &result.TransactionID)
	if err != nil {
		return nil, err
	}
	res.Message = result.Message
	return res, nil
}

func payable(order *models.Order) bool {
	return order.PaymentStatus == models.OrderUnpaid ||
		order.PaymentStatus == models.OrderPartiallyPaid
}

// apply folds one tender into the order inside a database transaction.
// Caller holds the order lock.
func (s *paymentService) apply(orderID uint, app PaymentApplication, transactionRef *uint) (*PaymentResult, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	order, err := s.loadOrder(tx, orderID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if !payable(order) {
		tx.Rollback()
		return nil, ErrOrderNotPayable
	}

	due, err := ComputeDue(order, app)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	var change int64
	if app.Method == models.PaymentCash {
		change, err = CashChange(due, app.AmountReceived)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	payment := models.Payment{
		OrderID:        order.ID,
		Method:         app.Method,
		Amount:         due,
		TransactionRef: transactionRef,
	}
	if app.SplitMode == models.SplitByItem {
		for _, sel := range app.SelectedItems {
			payment.Items = append(payment.Items, models.PaymentItem{
				OrderItemID: sel.OrderItemID,
				Quantity:    sel.Quantity,
			})
		}
	}
	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if app.SplitMode == models.SplitByItem {
		for _, sel := range app.SelectedItems {
			line := findOrderItem(order, sel.OrderItemID)
			line.PaidQuantity += sel.Quantity
			if err := tx.Save(line).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}

	order.Payments = append(order.Payments, payment)
	if order.RemainingAmount() <= Epsilon {
		order.PaymentStatus = models.OrderPaid
	} else {
		order.PaymentStatus = models.OrderPartiallyPaid
	}
	if app.SplitMode != models.SplitNone {
		order.SplitMode = app.SplitMode
		if app.SplitCount > 0 {
			order.SplitCount = app.SplitCount
		}
	}
	if err := tx.Omit("Items", "Payments").Save(order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &PaymentResult{
		Order:     order,
		Payment:   &payment,
		DueAmount: due,
		Change:    change,
	}, nil
}

// SetOrderStatus stores the externally triggered side-transitions:
// cancellation, and return of a paid order.
func (s *paymentService) SetOrderStatus(orderID uint, status string) (*models.Order, error) {
	lock := s.orderLock(orderID)
	lock.Lock()
	defer lock.Unlock()

	order, err := s.loadOrder(s.db, orderID)
	if err != nil {
		return nil, err
	}

	switch status {
	case models.OrderCancelled:
		if order.PaymentStatus == models.OrderReturned {
			return nil, ErrInvalidTransition
		}
	case models.OrderReturned:
		if order.PaymentStatus != models.OrderPaid {
			return nil, ErrInvalidTransition
		}
	default:
		return nil, ErrInvalidTransition
	}

	order.PaymentStatus = status
	if err := s.db.Omit("Items", "Payments").Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}
