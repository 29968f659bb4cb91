// Command local serves every function from one process for development.
// Function names are the URL paths, e.g. POST /sendVerificationCode.
package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/joho/godotenv"
	"github.com/songreaktor/functions/internal/app"
	"github.com/songreaktor/functions/internal/handlers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	handlers.RegisterAll(app.Shared)

	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	if err := funcframework.Start(port); err != nil {
		log.Fatalf("funcframework.Start: %v\n", err)
	}
}
