package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-api/models"
	"pos-api/payterm"
)

func TestComputeOrderTotal(t *testing.T) {
	// subtotal + tip - campaign - coupon - points, floored at 0
	assert.Equal(t, int64(10000), ComputeOrderTotal(10000, 0, 0, 0, 0))
	assert.Equal(t, int64(11000), ComputeOrderTotal(10000, 1000, 0, 0, 0))
	assert.Equal(t, int64(8500), ComputeOrderTotal(10000, 0, 1000, 300, 200))
	assert.Equal(t, int64(0), ComputeOrderTotal(1000, 0, 2000, 0, 0))
}

func unpaidOrder(total int64) *models.Order {
	return &models.Order{
		TotalAmount:   total,
		PaymentStatus: models.OrderUnpaid,
	}
}

func TestComputeDueFullPayment(t *testing.T) {
	due, err := ComputeDue(unpaidOrder(10000), PaymentApplication{})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), due)
}

func TestComputeDuePartiallyPaidRemainder(t *testing.T) {
	order := unpaidOrder(10000)
	order.PaymentStatus = models.OrderPartiallyPaid
	order.Payments = []models.Payment{{Method: models.PaymentCash, Amount: 4000}}

	due, err := ComputeDue(order, PaymentApplication{})
	require.NoError(t, err)
	assert.Equal(t, int64(6000), due)
}

func TestComputeDueSplitByPersonCount(t *testing.T) {
	// 90.00 split by 3 people is 30.00 each.
	order := unpaidOrder(9000)
	due, err := ComputeDue(order, PaymentApplication{
		SplitMode:  models.SplitByAmount,
		SplitCount: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3000), due)

	// After one share is paid the remainder shrinks accordingly.
	order.PaymentStatus = models.OrderPartiallyPaid
	order.Payments = []models.Payment{{Method: models.PaymentCash, Amount: 3000}}
	assert.Equal(t, int64(6000), order.RemainingAmount())
}

func TestComputeDueSplitCountInvalid(t *testing.T) {
	_, err := ComputeDue(unpaidOrder(9000), PaymentApplication{
		SplitMode:  models.SplitByAmount,
		SplitCount: 1,
	})
	assert.ErrorIs(t, err, ErrInvalidSplitCount)
}

func TestComputeDueCustomAmountCapped(t *testing.T) {
	order := unpaidOrder(10000)
	order.Payments = []models.Payment{{Amount: 9500}}
	order.PaymentStatus = models.OrderPartiallyPaid

	// Cumulative payments never exceed the total.
	due, err := ComputeDue(order, PaymentApplication{
		SplitMode:    models.SplitByAmount,
		CustomAmount: 2000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(500), due)
}

func splitItemOrder() *models.Order {
	return &models.Order{
		TotalAmount:   4000,
		PaymentStatus: models.OrderUnpaid,
		Items: []models.OrderItem{
			{ID: 1, Quantity: 2, UnitPrice: 1000, OptionPrice: 250},
			{ID: 2, Quantity: 1, UnitPrice: 1500},
		},
	}
}

func TestComputeDueSplitByItem(t *testing.T) {
	due, err := ComputeDue(splitItemOrder(), PaymentApplication{
		SplitMode: models.SplitByItem,
		SelectedItems: []SelectedItem{
			{OrderItemID: 1, Quantity: 2},
			{OrderItemID: 2, Quantity: 1},
		},
	})
	require.NoError(t, err)
	// (1000+250)*2 + 1500*1
	assert.Equal(t, int64(4000), due)
}

func TestComputeDueSplitByItemOverSelectionRejected(t *testing.T) {
	order := splitItemOrder()
	order.Items[0].PaidQuantity = 1

	_, err := ComputeDue(order, PaymentApplication{
		SplitMode:     models.SplitByItem,
		SelectedItems: []SelectedItem{{OrderItemID: 1, Quantity: 2}},
	})
	assert.ErrorIs(t, err, ErrQuantityExceeded)

	// The unpaid remainder is still selectable.
	due, err := ComputeDue(order, PaymentApplication{
		SplitMode:     models.SplitByItem,
		SelectedItems: []SelectedItem{{OrderItemID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1250), due)
}

func TestComputeDueSplitByItemNoSelection(t *testing.T) {
	_, err := ComputeDue(splitItemOrder(), PaymentApplication{SplitMode: models.SplitByItem})
	assert.ErrorIs(t, err, ErrNoItemsSelected)
}

func TestComputeDueSplitByItemUnknownLine(t *testing.T) {
	_, err := ComputeDue(splitItemOrder(), PaymentApplication{
		SplitMode:     models.SplitByItem,
		SelectedItems: []SelectedItem{{OrderItemID: 99, Quantity: 1}},
	})
	assert.Error(t, err)
}

func TestCashChangeExactTender(t *testing.T) {
	// 100.00 due, 100.00 tendered: paid in full, no change.
	change, err := CashChange(10000, 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), change)
}

func TestCashChangeInsufficientTender(t *testing.T) {
	// 100.00 due, 60.00 tendered.
	_, err := CashChange(10000, 6000)
	assert.ErrorIs(t, err, ErrInsufficientTender)
}

func TestCashChangeOverTender(t *testing.T) {
	change, err := CashChange(10000, 12000)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), change)
}

func TestCashChangeWithinEpsilon(t *testing.T) {
	change, err := CashChange(10000, 9999)
	require.NoError(t, err)
	assert.Equal(t, int64(0), change)
}

func TestOrderRemainingNeverNegative(t *testing.T) {
	order := unpaidOrder(10000)
	order.Payments = []models.Payment{{Amount: 6000}, {Amount: 5000}}

	assert.Equal(t, int64(11000), order.PaidAmount())
	assert.Equal(t, int64(0), order.RemainingAmount())
}

// Folding successive due amounts keeps the cumulative payment bounded
// by the total, regardless of the split sequence.
func TestPaymentSequenceInvariant(t *testing.T) {
	order := unpaidOrder(9000)

	for i := 0; i < 5; i++ {
		due, err := ComputeDue(order, PaymentApplication{
			SplitMode:  models.SplitByAmount,
			SplitCount: 3,
		})
		require.NoError(t, err)
		if due == 0 {
			break
		}
		order.Payments = append(order.Payments, models.Payment{Amount: due})
		if order.RemainingAmount() <= Epsilon {
			order.PaymentStatus = models.OrderPaid
		} else {
			order.PaymentStatus = models.OrderPartiallyPaid
		}
	}

	assert.Equal(t, models.OrderPaid, order.PaymentStatus)
	assert.LessOrEqual(t, order.PaidAmount(), order.TotalAmount+Epsilon)
	assert.Equal(t, int64(0), order.RemainingAmount())
}

// fakeEngine stands in for the card terminal and records what it was
// asked to charge.
type fakeEngine struct {
	lastCode   string
	lastParams payterm.Params
	calls      int
	result     payterm.Result
}

func (e *fakeEngine) Process(_ context.Context, tranCode string, p payterm.Params) payterm.Result {
	e.calls++
	e.lastCode = tranCode
	e.lastParams = p
	return e.result
}

func cardService(engine *fakeEngine) *paymentService {
	return &paymentService{
		engine: engine,
		locks:  make(map[uint]*sync.Mutex),
	}
}

func TestPayCardDeclinedLeavesOrderUntouched(t *testing.T) {
	engine := &fakeEngine{result: payterm.Result{
		Success:       false,
		Message:       "DECLINE",
		TransactionID: 7,
	}}
	svc := cardService(engine)

	order := unpaidOrder(10000)
	order.ID = 1

	res, err := svc.payCard(context.Background(), order, PaymentApplication{})

	assert.Nil(t, res)
	require.ErrorIs(t, err, ErrCardDeclined)
	assert.Contains(t, err.Error(), "DECLINE")

	// The terminal was asked for the full due amount exactly once.
	assert.Equal(t, 1, engine.calls)
	assert.Equal(t, payterm.CodeEMVSale, engine.lastCode)
	require.NotNil(t, engine.lastParams.Amount)
	assert.Equal(t, int64(10000), engine.lastParams.Amount.Purchase)
	require.NotNil(t, engine.lastParams.OrderID)
	assert.Equal(t, order.ID, *engine.lastParams.OrderID)

	// The decline recorded nothing against the order.
	assert.Empty(t, order.Payments)
	assert.Equal(t, models.OrderUnpaid, order.PaymentStatus)
}

func TestPayCardTransportErrorSurfaced(t *testing.T) {
	engine := &fakeEngine{result: payterm.Result{
		Success: false,
		Error:   "connection timed out",
	}}
	svc := cardService(engine)

	order := unpaidOrder(5000)
	order.ID = 2

	_, err := svc.payCard(context.Background(), order, PaymentApplication{})

	require.ErrorIs(t, err, ErrCardDeclined)
	assert.Contains(t, err.Error(), "connection timed out")
	assert.Empty(t, order.Payments)
	assert.Equal(t, models.OrderUnpaid, order.PaymentStatus)
}

func TestPayCardRejectsUnpayableOrder(t *testing.T) {
	engine := &fakeEngine{result: payterm.Result{Success: true}}
	svc := cardService(engine)

	order := unpaidOrder(5000)
	order.PaymentStatus = models.OrderPaid

	_, err := svc.payCard(context.Background(), order, PaymentApplication{})

	assert.ErrorIs(t, err, ErrOrderNotPayable)
	assert.Zero(t, engine.calls, "terminal must not be charged for a settled order")
}
