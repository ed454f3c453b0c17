package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"pos-api/config"
	"pos-api/controllers"
	"pos-api/payterm"
	"pos-api/routes"
	"pos-api/seeders"
	"pos-api/services"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// connect db
	config.ConnectDatabase()

	// wire the card-terminal engine (one engine per physical device)
	terminalCfg := config.LoadTerminalConfig()
	if terminalCfg.TestMode {
		log.Println("Terminal test mode enabled, transactions will not settle")
	}
	logStore := payterm.NewLogStore(config.DB)
	engine := payterm.NewEngine(
		terminalCfg,
		logStore,
		payterm.NewHTTPSender(terminalCfg.APIURL, terminalCfg.AuthToken, 30*time.Second),
		payterm.NewLogSequenceSource(logStore, terminalCfg.DeviceID, terminalCfg.DefaultSequence),
	)
	controllers.InitPayment(engine, services.NewPaymentService(config.DB, engine))

	// init router
	r := gin.Default() // sudah ada Logger & Recovery

	// PASANG CORS SEBELUM ROUTES
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// routes
	routes.RegisterRoutes(r)

	// seed data
	seeders.Seed()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
