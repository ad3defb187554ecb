package main

import (
	"log"
	"os"

	"exportlens/adapters/excel"
	"exportlens/adapters/llm"
	"exportlens/ai"
	"exportlens/app"
	"exportlens/domain/insight"
	"exportlens/internal"
	"exportlens/internal/config"
	"exportlens/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(os.Getenv("LOG_LEVEL")))

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	completer, err := llm.NewClient(llm.Config{
		APIKey:  appConfig.AI.OpenAIKey,
		BaseURL: appConfig.AI.BaseURL,
		Timeout: appConfig.AI.Timeout,
	})
	if err != nil {
		log.Fatalf("Failed to create completion client: %v", err)
	}

	insights := app.NewInsightService(completer, ai.NewPromptManager(appConfig.AI.PromptsDir), app.InsightConfig{
		Model: appConfig.AI.OpenAIModel,
		Params: insight.ModelParams{
			MaxOutputTokens: appConfig.AI.MaxTokens,
			Temperature:     appConfig.AI.Temperature,
		},
		TableCharLimit: appConfig.AI.TableCharLimit,
	})

	server, err := ui.NewServer(excel.NewDataReader(appConfig.Upload.MaxBytes), insights, ui.Options{
		PreviewRows:    appConfig.Upload.PreviewRows,
		Parallelism:    appConfig.Upload.Parallelism,
		MaxUploadBytes: appConfig.Upload.MaxBytes,
	})
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	// Start pprof server for performance profiling
	if appConfig.Profiling.Enabled {
		go func() {
			if err := ui.NewProfilingApp().Start(appConfig.Profiling.Port); err != nil {
				log.Printf("pprof server failed: %v", err)
			}
		}()
	}

	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
