package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pos-api/models"
	"pos-api/payterm"
	"pos-api/services"
)

// Wired once at startup; the payment service and engine hold the
// per-order and per-device locks, so there must be a single instance.
var (
	paymentService services.PaymentService
	paymentEngine  *payterm.Engine
)

func InitPayment(engine *payterm.Engine, service services.PaymentService) {
	paymentEngine = engine
	paymentService = service
}

type paymentInput struct {
	Method         string                  `json:"method" binding:"required"`
	AmountReceived int64                   `json:"amount_received"`
	SplitMode      string                  `json:"split_mode"`
	SplitCount     int                     `json:"split_count"`
	CustomAmount   int64                   `json:"custom_amount"`
	SelectedItems  []services.SelectedItem `json:"selected_items,omitempty"`
}

func (in paymentInput) application() services.PaymentApplication {
	return services.PaymentApplication{
		Method:         in.Method,
		AmountReceived: in.AmountReceived,
		SplitMode:      in.SplitMode,
		SplitCount:     in.SplitCount,
		CustomAmount:   in.CustomAmount,
		SelectedItems:  in.SelectedItems,
	}
}

// Get the amount due now for an order under a given collection mode.
func GetDueAmount(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var input paymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	due, err := paymentService.DueAmount(uint(id), input.application())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"due_amount": due})
}

// Apply one tender (cash or card) to an order.
func PayOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var input paymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var result *services.PaymentResult
	switch input.Method {
	case models.PaymentCash:
		result, err = paymentService.PayCash(uint(id), input.application())
	case models.PaymentCard:
		result, err = paymentService.PayCard(c.Request.Context(), uint(id), input.application())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment method"})
		return
	}

	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrCardDeclined) {
			status = http.StatusPaymentRequired
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
