package main

import (
	"os"

	"github.com/gofiber/fiber/v2/log"

	"github.com/piqadolf/foodgram-project-react/cmd/config"
	migration "github.com/piqadolf/foodgram-project-react/cmd/database/migrate"
	"github.com/piqadolf/foodgram-project-react/internal/utils"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to set up application: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
