package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lucasprado/library-server/internal/api"
	"github.com/lucasprado/library-server/internal/config"
	"github.com/lucasprado/library-server/internal/ledger"
	"github.com/lucasprado/library-server/internal/registry"
	"github.com/lucasprado/library-server/internal/utils"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	logger := utils.NewLogger()

	// Create the in-memory registries and the lending ledger on top.
	// State lives for the lifetime of the process only.
	reg := registry.New()
	svc := ledger.NewLendingLedger(reg)

	// Create API handler
	handler := api.NewHandler(svc, logger, cfg.Reports.DefaultLimit)

	// Set up Gin router
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(api.RequestLogger(logger), gin.Recovery())

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
