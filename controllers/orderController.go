package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pos-api/config"
	"pos-api/models"
	"pos-api/services"
)

// Create new order from a list of items. All money values are minor
// currency units (cents).
func CreateOrder(c *gin.Context) {
	var input struct {
		TipAmount      int64   `json:"tip_amount"`
		DiscountAmount int64   `json:"discount_amount"`
		CouponDiscount int64   `json:"coupon_discount"`
		PointsDiscount int64   `json:"points_discount"`
		Note           *string `json:"note,omitempty"`
		Items          []struct {
			ItemID      uint  `json:"item_id" binding:"required"`
			Quantity    int   `json:"quantity" binding:"required"`
			OptionPrice int64 `json:"option_price"`
		} `json:"items" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(input.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No items provided"})
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var subtotal int64
	var orderItems []models.OrderItem

	for _, i := range input.Items {
		var item models.Item
		if err := tx.First(&item, i.ItemID).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Item %d not found", i.ItemID)})
			return
		}

		if i.Quantity <= 0 {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid quantity for item %d", i.ItemID)})
			return
		}

		lineTotal := (item.Price + i.OptionPrice) * int64(i.Quantity)
		subtotal += lineTotal

		orderItems = append(orderItems, models.OrderItem{
			ItemID:      i.ItemID,
			Quantity:    i.Quantity,
			UnitPrice:   item.Price,
			OptionPrice: i.OptionPrice,
			Subtotal:    lineTotal,
		})
	}

	order := models.Order{
		Subtotal:       subtotal,
		TipAmount:      input.TipAmount,
		DiscountAmount: input.DiscountAmount,
		CouponDiscount: input.CouponDiscount,
		PointsDiscount: input.PointsDiscount,
		TotalAmount: services.ComputeOrderTotal(
			subtotal, input.TipAmount,
			input.DiscountAmount, input.CouponDiscount, input.PointsDiscount,
		),
		PaymentStatus: models.OrderUnpaid,
		Note:          input.Note,
		Items:         orderItems,
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Preload("Items.Item").First(&order, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, order)
}

func GetOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	status := c.Query("status")
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := config.DB.Model(&models.Order{})
	if status != "" {
		db = db.Where("payment_status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var orders []models.Order
	if err := db.Preload("Items.Item").Preload("Payments").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       orders,
		"page":       page,
		"limit":      limit,
		"total":      total,
		"totalPages": int((total + int64(limit) - 1) / int64(limit)),
	})
}

func GetOrderByID(c *gin.Context) {
	id := c.Param("id")
	var order models.Order
	if err := config.DB.Preload("Items.Item").Preload("Payments.Items").First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":     order,
		"paid":      order.PaidAmount(),
		"remaining": order.RemainingAmount(),
	})
}

// Update tip and discounts before payment; recomputes the total.
// Discounts are authoritative on the order regardless of how payment
// gets split later.
func UpdateOrderDiscounts(c *gin.Context) {
	id := c.Param("id")
	var order models.Order
	if err := config.DB.Preload("Payments").First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if order.PaymentStatus != models.OrderUnpaid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Discounts can only change before payment starts"})
		return
	}

	var input struct {
		TipAmount      *int64 `json:"tip_amount,omitempty"`
		DiscountAmount *int64 `json:"discount_amount,omitempty"`
		CouponDiscount *int64 `json:"coupon_discount,omitempty"`
		PointsDiscount *int64 `json:"points_discount,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.TipAmount != nil && *input.TipAmount >= 0 {
		order.TipAmount = *input.TipAmount
	}
	if input.DiscountAmount != nil && *input.DiscountAmount >= 0 {
		order.DiscountAmount = *input.DiscountAmount
	}
	if input.CouponDiscount != nil && *input.CouponDiscount >= 0 {
		order.CouponDiscount = *input.CouponDiscount
	}
	if input.PointsDiscount != nil && *input.PointsDiscount >= 0 {
		order.PointsDiscount = *input.PointsDiscount
	}

	order.TotalAmount = services.ComputeOrderTotal(
		order.Subtotal, order.TipAmount,
		order.DiscountAmount, order.CouponDiscount, order.PointsDiscount,
	)

	if err := config.DB.Omit("Items", "Payments").Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}

// Update order status (cancel / return), triggered outside payment.
func UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := paymentService.SetOrderStatus(uint(id), input.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}
