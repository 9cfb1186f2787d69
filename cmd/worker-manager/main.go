// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rehab-workers/internal/common/camunda"
	"rehab-workers/internal/common/config"
	"rehab-workers/internal/common/database"
	"rehab-workers/internal/common/logger"
	"rehab-workers/internal/common/observability"

	// Analytics Workers (4)
	at "rehab-workers/internal/workers/analytics/aggregate-trends"
	as "rehab-workers/internal/workers/analytics/analyze-streak"
	cks "rehab-workers/internal/workers/analytics/calculate-kpi-score"
	gi "rehab-workers/internal/workers/analytics/generate-insights"

	// Data Access Workers (2)
	qp "rehab-workers/internal/workers/data-access/query-postgresql"
	si "rehab-workers/internal/workers/data-access/search-incidents"

	// Case Management Workers (3)
	ri "rehab-workers/internal/workers/case/record-incident"
	rcp "rehab-workers/internal/workers/case/route-case-priority"
	va "rehab-workers/internal/workers/case/validate-assessment"

	// Reporting & Notification Workers (2)
	sn "rehab-workers/internal/workers/notification/send-notification"
	br "rehab-workers/internal/workers/reporting/build-report"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var cache *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		cache, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return cache.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer cache.Close()
	zapLog.Info("Redis connected successfully")

	// --- START: Register ALL 11 Workers ---

	// --- 1. Analytics Workers (4) ---
	if cfg.Workers[cks.TaskType].Enabled {
		handler := cks.NewHandler(
			&cks.Config{
				Timeout: time.Duration(cfg.Workers[cks.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, cks.TaskType, cfg.Workers[cks.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[as.TaskType].Enabled {
		handler := as.NewHandler(
			&as.Config{
				Timeout:      time.Duration(cfg.Workers[as.TaskType].Timeout) * time.Millisecond,
				LookbackDays: cfg.Analytics.StreakLookbackDays,
				CacheTTL:     time.Duration(cfg.Analytics.StreakCacheTTL) * time.Second,
				Timezone:     cfg.Analytics.Timezone,
			},
			pg.DB, cache, log,
		)
		startWorker(zeebeClient, as.TaskType, cfg.Workers[as.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[gi.TaskType].Enabled {
		handler := gi.NewHandler(
			&gi.Config{
				Timeout: time.Duration(cfg.Workers[gi.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, gi.TaskType, cfg.Workers[gi.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[at.TaskType].Enabled {
		handler := at.NewHandler(
			&at.Config{
				Timeout:     time.Duration(cfg.Workers[at.TaskType].Timeout) * time.Millisecond,
				WindowWeeks: cfg.Analytics.TrendWindowWeeks,
				Timezone:    cfg.Analytics.Timezone,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, at.TaskType, cfg.Workers[at.TaskType], handler.Handle, zapLog)
	}

	// --- 2. Data Access Workers (2) ---
	if cfg.Workers[qp.TaskType].Enabled {
		handler := qp.NewHandler(
			&qp.Config{
				Timeout: time.Duration(cfg.Workers[qp.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, qp.TaskType, cfg.Workers[qp.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[si.TaskType].Enabled {
		handler := si.NewHandler(
			&si.Config{
				Timeout: time.Duration(cfg.Workers[si.TaskType].Timeout) * time.Millisecond,
			},
			esClient.Client, log,
		)
		startWorker(zeebeClient, si.TaskType, cfg.Workers[si.TaskType], handler.Handle, zapLog)
	}

	// --- 3. Case Management Workers (3) ---
	if cfg.Workers[va.TaskType].Enabled {
		handler := va.NewHandler(
			&va.Config{
				Timeout: time.Duration(cfg.Workers[va.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, va.TaskType, cfg.Workers[va.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ri.TaskType].Enabled {
		handler := ri.NewHandler(
			&ri.Config{
				Timeout:         time.Duration(cfg.Workers[ri.TaskType].Timeout) * time.Millisecond,
				DuplicateWindow: 24 * time.Hour,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, ri.TaskType, cfg.Workers[ri.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[rcp.TaskType].Enabled {
		handler := rcp.NewHandler(
			&rcp.Config{
				Timeout:  time.Duration(cfg.Workers[rcp.TaskType].Timeout) * time.Millisecond,
				CacheTTL: 10 * time.Minute,
			},
			pg.DB, cache, log,
		)
		startWorker(zeebeClient, rcp.TaskType, cfg.Workers[rcp.TaskType], handler.Handle, zapLog)
	}

	// --- 4. Reporting & Notification Workers (2) ---
	if cfg.Workers[br.TaskType].Enabled {
		handler := br.NewHandler(
			&br.Config{
				TemplateRegistry: cfg.Reporting.TemplateRegistry,
				CacheTTL:         5 * time.Minute,
				AppVersion:       cfg.App.Version,
				Timeout:          time.Duration(cfg.Workers[br.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, br.TaskType, cfg.Workers[br.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sn.TaskType].Enabled {
		handler, err := sn.NewHandler(
			&sn.Config{
				EmailEnabled:     cfg.Notifications.Email.Enabled,
				SMSEnabled:       cfg.Notifications.SMS.Enabled,
				FromEmail:        cfg.Notifications.Email.FromEmail,
				AWSRegion:        cfg.Notifications.AWS.Region,
				TemplateRegistry: cfg.Notifications.TemplateRegistry,
				Timeout:          time.Duration(cfg.Workers[sn.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		if err != nil {
			zapLog.Fatal("failed to create send-notification handler", zap.Error(err))
		}
		startWorker(zeebeClient, sn.TaskType, cfg.Workers[sn.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All 11 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "unready",
					"error":  err.Error(),
					"time":   time.Now().Format(time.RFC3339),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range activeWorkers {
		w.Stop()
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// activeWorkers tracks open job worker subscriptions for graceful shutdown.
var activeWorkers []*camunda.CamundaWorker

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc camunda.HandlerFunc, log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	w := camunda.NewWorker(
		client,
		taskType,
		wcfg.MaxJobsActive,
		time.Duration(wcfg.Timeout)*time.Millisecond,
		handlerFunc,
		log,
	)
	activeWorkers = append(activeWorkers, w)
}
