package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v9"

	"parttracker/internal/client"
	"parttracker/internal/configuration"
	"parttracker/internal/database"
	"parttracker/internal/logger"
	"parttracker/internal/scraper"
	"parttracker/internal/server"
)

func main() {
	if err := runApp(); err != nil {
		os.Exit(1)
	}
}

func runApp() error {
	appContext := context.Background()
	logOutput := io.Writer(os.Stdout)
	appLogger := logger.NewLogger(logger.LevelInfo, logOutput)

	defer func() {
		if r := recover(); r != nil {
			appLogger.Errorf("APPLICATION CRASHED: %+v", r)
		}
	}()

	config, err := configuration.GetConfig("config.toml")
	if err != nil {
		appLogger.Error("Error getting configuration from config.toml:", err)
		return err
	}

	if config.LogToFile {
		logFile, err := os.OpenFile("parttracker_backend.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			appLogger.Error("Error opening log file:", err)
			return err
		}
		defer func() {
			if err := logFile.Close(); err != nil {
				appLogger.Error("Error closing log file:", err)
			}
		}()
		logOutput = io.MultiWriter(logOutput, logFile)
	}
	appLogger = logger.NewLogger(config.LogLevel, logOutput)

	if config.LogLevel >= logger.LevelDebug {
		conf, err := json.MarshalIndent(config, "", "  ")
		if err != nil {
			appLogger.Error("Error marshalling Config to JSON:", err)
			return err
		}
		appLogger.Debugf("Config:\n%s", conf)
	}

	appLogger.Info("Connecting to DB at", config.DatabaseURI)
	dbConn, err := database.ConnectDB(appContext, config.DatabaseURI)
	if err != nil {
		appLogger.Error("Error connecting to DB:", err)
		return err
	}
	defer func() {
		if err := dbConn.Disconnect(appContext); err != nil {
			appLogger.Error("Error disconnecting from DB:", err)
		}
	}()

	db := database.Database{Database: dbConn.Database(database.Name)}
	if err := db.RetailerSeedBuiltins(appContext); err != nil {
		appLogger.Error("Error seeding built-in Retailers:", err)
		return err
	}

	appClient := client.Client{
		Client: &http.Client{Timeout: 15 * time.Second},
		Redis:  redis.NewClient(&redis.Options{Addr: config.RedisAddress}),
		Logger: appLogger,
	}

	srv := server.Server{
		DB:     db,
		Client: appClient,
		Scraper: scraper.Scraper{
			Client: &http.Client{Timeout: 15 * time.Second},
			Rates:  appClient,
			Logger: appLogger,
		},
		Logger: appLogger,
	}

	httpSrv := &http.Server{
		Handler:      srv.Router(),
		Addr:         config.ServerAddress,
		WriteTimeout: 120 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	appLogger.Info("Serving on", httpSrv.Addr)
	err = httpSrv.ListenAndServe()
	appLogger.Error("Server stopped:", err)
	return err
}
