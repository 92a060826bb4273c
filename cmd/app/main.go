package main

import (
	"Matosinhos-Grocery-Backend/cmd/config"
	migration "Matosinhos-Grocery-Backend/cmd/database/migrate"
	"Matosinhos-Grocery-Backend/internal/utils"
	"Matosinhos-Grocery-Backend/internal/utils/logging"
	"os"
)

func main() {
	utils.LoadConfig()

	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		panic(err)
	}
	logger := logging.New("./logs/app.log", true)

	db, err := config.ConnectDB()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := migration.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	app, err := config.NewApp(db)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure application")
	}

	port := utils.GetConfig("APP_PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info().Str("port", port).Msg("starting server")
	if err := app.Listen(":" + port); err != nil {
		logger.Fatal().Err(err).Msg("server terminated")
	}
}
