package seeders

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"pos-api/config"
	"pos-api/models"
	"pos-api/services"
)

// helper untuk pointer string
func ptrString(s string) *string {
	return &s
}

func hash(password string) string {
	h, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(h)
}

func Seed() {
	// ============= Seed Users =============
	users := []models.User{
		{Username: "admin", Password: hash("admin123"), Role: "admin"},
		{Username: "cashier1", Password: hash("cashier123"), Role: "cashier"},
	}

	for _, user := range users {
		config.DB.FirstOrCreate(&user, models.User{Username: user.Username})
	}

	// ============= Seed Items (prices in cents) =============
	items := []models.Item{
		{Name: "Americano", Description: ptrString("Double shot"), Stock: 100, BuyPrice: 120, Price: 350},
		{Name: "Latte", Description: ptrString("12oz with steamed milk"), Stock: 100, BuyPrice: 150, Price: 450},
		{Name: "Croissant", Description: ptrString("Butter croissant"), Stock: 40, BuyPrice: 110, Price: 325},
		{Name: "Club Sandwich", Description: ptrString("Turkey, bacon, lettuce"), Stock: 25, BuyPrice: 420, Price: 1095},
		{Name: "Caesar Salad", Description: ptrString("Romaine, parmesan, croutons"), Stock: 20, BuyPrice: 380, Price: 950},
		{Name: "Sparkling Water", Description: ptrString("500ml bottle"), Stock: 80, BuyPrice: 60, Price: 250},
	}

	for _, item := range items {
		config.DB.FirstOrCreate(&item, models.Item{Name: item.Name})
	}

	var count int64
	config.DB.Model(&models.Order{}).Count(&count)
	if count > 0 {
		fmt.Println("Seeding done (orders already present)")
		return
	}

	// ============= Seed a demo unpaid order =============
	var latte, croissant models.Item
	config.DB.Where("name = ?", "Latte").First(&latte)
	config.DB.Where("name = ?", "Croissant").First(&croissant)

	subtotal := latte.Price*2 + croissant.Price
	order := models.Order{
		Subtotal:      subtotal,
		TotalAmount:   services.ComputeOrderTotal(subtotal, 0, 0, 0, 0),
		PaymentStatus: models.OrderUnpaid,
		Items: []models.OrderItem{
			{ItemID: latte.ID, Quantity: 2, UnitPrice: latte.Price, Subtotal: latte.Price * 2},
			{ItemID: croissant.ID, Quantity: 1, UnitPrice: croissant.Price, Subtotal: croissant.Price},
		},
	}
	config.DB.Create(&order)

	fmt.Println("Seeding done: 2 users, 6 items, 1 demo order")
}
