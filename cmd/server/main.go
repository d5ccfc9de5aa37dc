package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "finreport/internal/adapters/web"
	"finreport/internal/ai"
	"finreport/internal/app"
	"finreport/internal/core"
	"finreport/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	reportService := core.NewReportService(core.NewPGPeriodSource(pool))
	userService := core.NewUserService(pool)

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set; AI summaries disabled")
	}
	summarizer := ai.NewSummarizer(apiKey)

	svc := app.NewAppService(reportService, userService, summarizer)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
