package main

import (
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4/middleware"

	"listingapi/controllers"
	"listingapi/dbhelper"
	"listingapi/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
	err := sentry.Init(sentry.ClientOptions{
		// Set the SENTRY_DSN environment variable.
		Environment: services.GetEnv("ENV", "local"),
		Release:     "listingapi@1.0.0",
		Debug:       false,
		// Set TracesSampleRate to 1.0 to capture 100%
		// of transactions for performance monitoring.
		// We recommend adjusting this value in production,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Recover()
	defer sentry.Flush(2 * time.Second)

	db := dbhelper.SetupDB()

	workflow, err := services.NewListingWorkflow(services.GoogleService{}, db, services.WorkflowConfigFromEnv())
	if err != nil {
		log.Fatalf("Failed to initialize listing workflow: %v", err)
	}

	e := controllers.SetupServer(db, workflow)
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(3)))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	e.Logger.Fatal(e.Start(":" + services.GetEnv("PORT", "8000")))
}
