package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"CapIot.energyportal/internal/client"
	"CapIot.energyportal/internal/config"
	"CapIot.energyportal/internal/controller"
	"CapIot.energyportal/internal/middleware"
	"CapIot.energyportal/internal/models"
	"CapIot.energyportal/internal/repository"
	"CapIot.energyportal/internal/routes"
	"CapIot.energyportal/internal/service"
	"CapIot.energyportal/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("error loading configuration: %w", err)
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func serve(ctx context.Context, cfg config.Config) error {
	source, writer, closeSource, err := readingSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	backend := client.New(cfg.APIBaseURL)
	store := session.NewStore()
	usageView := service.NewUsageView(source, backend, cfg.NumericHourSort)
	admin := service.NewAdminService(backend)
	clock := &service.Clock{}

	// Opening a session loads that product's readings.
	cancelSub := store.Subscribe(func(s models.AuthSession) {
		if !s.IsAuthenticated {
			return
		}
		go func(productID string) {
			if _, err := usageView.Load(ctx, productID); err != nil {
				log.Printf("Initial usage load for %s failed: %v", productID, err)
			}
		}(s.ProductID)
	})
	defer cancelSub()

	go clock.Run(ctx, cfg.ClockInterval)
	go admin.Watch(ctx, cfg.AdminPollInterval)

	adminAuth, err := middleware.EnsureValidToken(cfg.Auth0)
	if err != nil {
		return fmt.Errorf("error setting up admin auth: %w", err)
	}

	c := controller.NewDashboardController(controller.Deps{
		Auth:     backend,
		Session:  store,
		Usage:    usageView,
		Billing:  service.NewBillingService(backend),
		Admin:    admin,
		Clock:    clock,
		Readings: writer,
	})
	router := routes.SetupRouter(c, adminAuth)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server is running at: http://localhost:%s", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("error starting server: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// readingSource picks the snapshot source. Only InfluxDB accepts meter
// ingest, so writer is nil for the realtime database.
func readingSource(ctx context.Context, cfg config.Config) (repository.ReadingSource, repository.ReadingWriter, func(), error) {
	switch cfg.ReadingSource {
	case config.SourceInfluxDB:
		repo := repository.NewInfluxDBRepository(cfg.InfluxDBURL, cfg.InfluxDBToken, cfg.InfluxDBOrg, cfg.InfluxDBBucket)
		if err := repo.Ping(ctx); err != nil {
			repo.Close()
			return nil, nil, nil, fmt.Errorf("error connecting to InfluxDB: %w", err)
		}
		log.Println("Connected to InfluxDB")
		return repo, repo, repo.Close, nil
	default:
		repo := repository.NewRealtimeRepository(cfg.RealtimeDBURL, cfg.RealtimeNode, cfg.RealtimeDBAuth)
		return repo, nil, func() {}, nil
	}
}
