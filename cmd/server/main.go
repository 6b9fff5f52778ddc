package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gwi.com/globallaunch-advisor/internal/api"
	"gwi.com/globallaunch-advisor/internal/attachment"
	"gwi.com/globallaunch-advisor/internal/config"
	"gwi.com/globallaunch-advisor/internal/core"
	"gwi.com/globallaunch-advisor/internal/export"
	"gwi.com/globallaunch-advisor/internal/logger"
	"gwi.com/globallaunch-advisor/internal/store"
)

func main() {
	demoFlag := flag.String("demo", "", "Run a demo scenario (pet, ebike, coffee), write its HTML report and exit")
	flag.Parse()

	config.LoadConfig()
	logger.Configure(config.AppConfig.LogLevel, os.Stderr)
	logger.Debug("Service starting in DEBUG mode")

	sessionStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseDriver, config.AppConfig.DatabaseURL, config.AppConfig.SessionsKey)
	if err != nil {
		logger.Fatal("Failed to initialize database", "error", err)
	}
	defer sessionStore.Close()

	llmService, err := core.NewLLMService(context.Background())
	if err != nil {
		logger.Fatal("Failed to initialize LLM service", "error", err)
	}
	defer llmService.Close()

	chatService := core.NewChatService(sessionStore, llmService)
	chatService.Init(context.Background())

	if *demoFlag != "" {
		if err := runDemo(chatService, *demoFlag); err != nil {
			logger.Error("Demo failed", "scenario", *demoFlag, "error", err)
			os.Exit(1)
		}
		return
	}

	encoder := attachment.NewEncoder(config.AppConfig.MaxUploadBytes())
	apiHandler := api.NewAPIHandler(chatService, encoder, config.AppConfig.ProductName)
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,  // uploads
		WriteTimeout: 180 * time.Second, // expert analysis on a large model is slow
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Starting server, press Ctrl+C to quit", "addr", serverAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Could not listen", "addr", serverAddr, "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exiting gracefully")
}

func runDemo(chatService *core.ChatService, scenarioID string) error {
	logger.Info("Running demo scenario", "scenario", scenarioID)
	sess, err := chatService.LoadDemo(context.Background(), scenarioID)
	if err != nil {
		return err
	}

	now := time.Now()
	report, err := export.Render(sess, now)
	if err != nil {
		return err
	}
	name := export.Filename(config.AppConfig.ProductName, now)
	if err := os.WriteFile(name, report, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Info("Demo report written", "file", name, "session", sess.ID)
	return nil
}
