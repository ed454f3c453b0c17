package routes

import (
	"github.com/gin-gonic/gin"

	"pos-api/controllers"
	"pos-api/middlewares"
)

func RegisterRoutes(r *gin.Engine) {

	r.POST("/login", controllers.Login)

	// Public items buat landing page
	r.GET("/public/items", controllers.GetItems)
	r.GET("/public/items/:id", controllers.GetItemByID)

	// Items
	items := r.Group("/items")
	items.Use(middlewares.AuthMiddleware())
	{
		items.GET("/", controllers.GetItems)
		items.GET("/:id", controllers.GetItemByID)
		items.POST("/", middlewares.RoleMiddleware("admin", "cashier"), controllers.CreateItem)
		items.PUT("/:id", middlewares.RoleMiddleware("admin", "cashier"), controllers.UpdateItem)
		items.DELETE("/:id", middlewares.RoleMiddleware("admin", "cashier"), controllers.DeleteItem)
	}

	// Orders + payments
	orders := r.Group("/orders")
	orders.Use(middlewares.AuthMiddleware())
	{
		orders.POST("/", controllers.CreateOrder)
		orders.GET("/", controllers.GetOrders)
		orders.GET("/:id", controllers.GetOrderByID)
		orders.PATCH("/:id/discounts", controllers.UpdateOrderDiscounts)
		orders.PATCH("/:id/status", controllers.UpdateOrderStatus)

		orders.POST("/:id/due", controllers.GetDueAmount)
		orders.POST("/:id/payments", controllers.PayOrder)
	}

	// Terminal engine: direct transactions + audit trail
	terminal := r.Group("/terminal")
	terminal.Use(middlewares.AuthMiddleware())
	{
		terminal.POST("/transactions", middlewares.RoleMiddleware("admin", "cashier"), controllers.ProcessTerminalTransaction)
		terminal.GET("/logs", controllers.GetTransactionLogs)
		terminal.GET("/logs/:id", controllers.GetTransactionLogByID)
		terminal.GET("/summary", middlewares.RoleMiddleware("admin"), controllers.GetTerminalSummary)
	}
}
