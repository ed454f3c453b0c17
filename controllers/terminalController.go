package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pos-api/config"
	"pos-api/models"
	"pos-api/payterm"
)

// Run a terminal transaction directly: voids, returns, pre-auth
// operations, batch administration, parameter download. Sales against
// an order go through PayOrder instead so the order is reconciled.
func ProcessTerminalTransaction(c *gin.Context) {
	var input struct {
		TranCode       string `json:"tran_code" binding:"required"`
		Purchase       int64  `json:"purchase"`
		Tax            int64  `json:"tax"`
		Gratuity       int64  `json:"gratuity"`
		Authorize      int64  `json:"authorize"`
		OrderID        *uint  `json:"order_id,omitempty"`
		InvoiceNo      string `json:"invoice_no"`
		RefNo          string `json:"ref_no"`
		RecordNo       string `json:"record_no"`
		AuthCode       string `json:"auth_code"`
		AcqRefData     string `json:"acq_ref_data"`
		ProcessData    string `json:"process_data"`
		BatchItemCount string `json:"batch_item_count"`
		NetBatchTotal  string `json:"net_batch_total"`
		BatchNo        string `json:"batch_no"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := payterm.Params{
		OrderID:        input.OrderID,
		InvoiceNo:      input.InvoiceNo,
		RefNo:          input.RefNo,
		RecordNo:       input.RecordNo,
		AuthCode:       input.AuthCode,
		AcqRefData:     input.AcqRefData,
		ProcessData:    input.ProcessData,
		BatchItemCount: input.BatchItemCount,
		NetBatchTotal:  input.NetBatchTotal,
		BatchNo:        input.BatchNo,
	}
	if input.Purchase > 0 || input.Tax > 0 || input.Gratuity > 0 || input.Authorize > 0 {
		params.Amount = &payterm.Amount{
			Purchase:  input.Purchase,
			Tax:       input.Tax,
			Gratuity:  input.Gratuity,
			Authorize: input.Authorize,
		}
	}

	result := paymentEngine.Process(c.Request.Context(), input.TranCode, params)
	if !result.Success {
		c.JSON(http.StatusBadRequest, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get terminal transaction log history with pagination.
func GetTransactionLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	filterDate := c.Query("date")
	status := c.Query("status")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := config.DB.Model(&models.TransactionLog{})

	if filterDate != "" {
		start, err := time.Parse("2006-01-02", filterDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		end := start.Add(24 * time.Hour)
		db = db.Where("created_at >= ? AND created_at < ?", start, end)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var logs []models.TransactionLog
	if err := db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       logs,
		"page":       page,
		"limit":      limit,
		"total":      total,
		"totalPages": int((total + int64(limit) - 1) / int64(limit)),
	})
}

func GetTransactionLogByID(c *gin.Context) {
	id := c.Param("id")
	var entry models.TransactionLog
	if err := config.DB.First(&entry, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction log not found"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Daily terminal summary: counts and amounts per status for today.
func GetTerminalSummary(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	type statusRow struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
		Amount int64  `json:"amount"`
	}

	var rows []statusRow
	config.DB.Model(&models.TransactionLog{}).
		Select("status, COUNT(*) as count, COALESCE(SUM(amount_minor_units), 0) as amount").
		Where("DATE(created_at) = ?", today).
		Group("status").
		Scan(&rows)

	var pendingCount int64
	config.DB.Model(&models.TransactionLog{}).
		Where("status = ?", models.TranPending).
		Count(&pendingCount)

	c.JSON(http.StatusOK, gin.H{
		"date":            today,
		"by_status":       rows,
		"pending_total":   pendingCount,
		"supported_codes": paymentEngine.SupportedCodes(),
	})
}
