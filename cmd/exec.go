package cmd

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"

	"waitline/config"
	"waitline/monitoring"
	"waitline/services"
	"waitline/utils"
)

// Start wires the estimation engine into a worker process: Redis snapshot
// store, PubNub delivery, prometheus metrics and the estimate refresh loop.
func Start() error {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	// Initialize PubNub
	pnConfig := pubnub.NewConfig()
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey

	pn := pubnub.NewPubNub(pnConfig)

	// Initialize services
	monitor := monitoring.NewMonitor(redisClient)
	store := services.NewQueueStore(redisClient)
	estimator := services.NewWaitTimeEstimator(nil)
	planner := services.NewNotificationTimingPlanner(nil)
	notifier := services.NewNotifier(pn)

	refresher := services.NewEstimateRefresher(store, estimator, planner, notifier, monitor, cfg)
	refresher.Start()

	slog.Info("waitline worker started",
		"environment", cfg.Environment,
		"refresh_interval", cfg.RefreshInterval,
		"variance", cfg.VarianceServiceTime,
	)

	// Metrics and health endpoint
	var metricsServer *http.Server
	if cfg.EnableMetrics {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})

		metricsServer = &http.Server{Addr: ":" + cfg.MetricsPort, Handler: mux}
		go func() {
			slog.Info("metrics endpoint listening", "port", cfg.MetricsPort)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")

	refresher.Shutdown()
	monitor.Stop()

	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(ctx); err != nil {
			log.Printf("Metrics server shutdown error: %v", err)
		}
	}

	return nil
}
