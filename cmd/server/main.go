package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Riftal-Studios/TaxHive-sub007/internal/config"
	"github.com/Riftal-Studios/TaxHive-sub007/internal/handler"
	"github.com/Riftal-Studios/TaxHive-sub007/internal/router"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	reconH := handler.NewReconHandler(cfg)
	healthH := handler.NewHealthHandler()

	r := router.Setup(reconH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("server listening on %s", cfg.Server.Port)
	return srv.ListenAndServe()
}
