// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rehab-workers/internal/common/config"
	"rehab-workers/internal/common/database"
	"rehab-workers/internal/common/logger"
	"rehab-workers/internal/models"

	aggregatetrends "rehab-workers/internal/workers/analytics/aggregate-trends"
	analyzestreak "rehab-workers/internal/workers/analytics/analyze-streak"
	calculatekpiscore "rehab-workers/internal/workers/analytics/calculate-kpi-score"
	generateinsights "rehab-workers/internal/workers/analytics/generate-insights"

	querypostgresql "rehab-workers/internal/workers/data-access/query-postgresql"
	searchincidents "rehab-workers/internal/workers/data-access/search-incidents"

	recordincident "rehab-workers/internal/workers/case/record-incident"
	routecasepriority "rehab-workers/internal/workers/case/route-case-priority"
	validateassessment "rehab-workers/internal/workers/case/validate-assessment"

	sendnotification "rehab-workers/internal/workers/notification/send-notification"
	buildreport "rehab-workers/internal/workers/reporting/build-report"
)

var (
	zeebeClient zbc.Client
	zapLog      *zap.Logger
)

func TestMain(m *testing.M) {
	if os.Getenv("E2E") != "1" {
		fmt.Println("E2E=1 not set, skipping end-to-end tests")
		os.Exit(0)
	}

	var err error
	zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         "localhost:26500",
		UsePlaintextConnection: true,
	})
	if err != nil {
		panic(fmt.Sprintf("❌ Failed to connect to Zeebe: %v", err))
	}

	zapLog, _ = zap.NewProduction()

	code := m.Run()

	zeebeClient.Close()
	os.Exit(code)
}

func TestFullE2E(t *testing.T) {
	_, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	t.Log("🚀 Starting FULL E2E Test with real services...")

	// 1. Check all external services are available
	assertAllServicesConnectivity(t, cfg)

	// 2. Create DB tables if needed and insert test data
	createDatabaseTables(t, cfg)

	// 3. Deploy all BPMN files
	deployAllBPMN(t, cfg, zapLog)

	// 4. Test all 11 workers with real execution
	testAllWorkers(t, cfg, zapLog)

	t.Log("✅ ALL TESTS PASSED — Full E2E workflow successful!")
}

func assertAllServicesConnectivity(t *testing.T, cfg *config.Config) {
	t.Log("🔍 Checking service connectivity...")

	// 🔧 FORCE LOCALHOST FOR E2E TESTS
	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"
	cfg.Database.Elasticsearch.URL = "http://localhost:9200"

	// --- PostgreSQL ---
	db, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "❌ PostgreSQL connection failed")
	assert.NoError(t, db.Ping(context.Background()), "❌ PostgreSQL ping failed")
	db.Close()
	t.Log("✅ PostgreSQL connected")

	// --- Redis ---
	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err, "❌ Redis client creation failed")
	assert.NoError(t, rdb.Ping(context.Background()), "❌ Redis ping failed")
	t.Log("✅ Redis connected")

	// --- Elasticsearch ---
	esURL := cfg.Database.Elasticsearch.GetURL()
	t.Logf("🔗 Elasticsearch URL: %s", esURL)

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{esURL},
	})
	require.NoError(t, err, "❌ Elasticsearch client creation failed")

	res, err := es.Info()
	require.NoError(t, err, "❌ Elasticsearch info request failed")
	assert.False(t, res.IsError(), "❌ Elasticsearch returned error")
	res.Body.Close()
	t.Log("✅ Elasticsearch connected")

	// --- Zeebe ---
	_, err = zeebeClient.NewTopologyCommand().Send(context.Background())
	assert.NoError(t, err, "❌ Zeebe topology request failed")
	t.Log("✅ Zeebe connected")
}

// ==========================
// 2. Database Tables Setup + Test Data
// ==========================
func createDatabaseTables(t *testing.T, cfg *config.Config) {
	t.Log("🔧 Creating database tables and inserting test data...")

	dbClient, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer dbClient.Close()

	db := dbClient.GetDB()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS workers (
			id VARCHAR(255) PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			phone VARCHAR(50),
			full_name VARCHAR(255),
			team_id VARCHAR(255),
			role VARCHAR(50) DEFAULT 'worker',
			active BOOLEAN DEFAULT true,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS clinicians (
			id VARCHAR(255) PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			phone VARCHAR(50),
			full_name VARCHAR(255),
			tier VARCHAR(50),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS work_readiness_assessments (
			id SERIAL PRIMARY KEY,
			worker_id VARCHAR(255) NOT NULL,
			readiness_level VARCHAR(50) NOT NULL,
			fatigue_level INTEGER,
			pain_discomfort BOOLEAN,
			mood VARCHAR(50),
			notes TEXT,
			submitted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS incidents (
			id VARCHAR(255) PRIMARY KEY,
			case_number VARCHAR(50) UNIQUE NOT NULL,
			worker_id VARCHAR(255) NOT NULL,
			reported_by VARCHAR(255),
			severity VARCHAR(50) NOT NULL,
			description TEXT,
			body_parts JSONB,
			case_status VARCHAR(50) DEFAULT 'open',
			occurred_at TIMESTAMP,
			reported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS assignment_counters (
			id SERIAL PRIMARY KEY,
			worker_id VARCHAR(255) NOT NULL,
			completed INTEGER DEFAULT 0,
			total INTEGER DEFAULT 0,
			week_start DATE,
			UNIQUE(worker_id, week_start)
		)`,
		`CREATE TABLE IF NOT EXISTS audit_log (
			id SERIAL PRIMARY KEY,
			event_type VARCHAR(100),
			resource_type VARCHAR(100),
			resource_id VARCHAR(255),
			details JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		_, err := db.ExecContext(context.Background(), query)
		if err != nil {
			t.Logf("Warning: Failed to create table: %v", err)
		}
	}

	testData := []string{
		`INSERT INTO workers (id, email, phone, full_name, team_id, role)
		 VALUES ('worker-e2e-001', 'worker1@example.com', '+61400000001', 'Test Worker', 'team-alpha', 'worker')
		 ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO workers (id, email, phone, full_name, team_id, role)
		 VALUES ('leader-e2e-001', 'leader@example.com', '+61400000002', 'Team Leader', 'team-alpha', 'team_leader')
		 ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO clinicians (id, email, phone, full_name, tier)
		 VALUES ('clin-e2e-001', 'clinician@example.com', '+61400000003', 'Test Clinician', 'physiotherapist')
		 ON CONFLICT (id) DO NOTHING`,
		`INSERT INTO work_readiness_assessments (worker_id, readiness_level, fatigue_level, pain_discomfort, mood, submitted_at)
		 VALUES ('worker-e2e-001', 'fit', 2, false, 'okay', NOW() - INTERVAL '1 day')
		 ON CONFLICT DO NOTHING`,
		`INSERT INTO work_readiness_assessments (worker_id, readiness_level, fatigue_level, pain_discomfort, mood, submitted_at)
		 VALUES ('worker-e2e-001', 'fit', 3, false, 'great', NOW())
		 ON CONFLICT DO NOTHING`,
		`INSERT INTO assignment_counters (worker_id, completed, total, week_start)
		 VALUES ('worker-e2e-001', 4, 5, date_trunc('week', NOW())::date)
		 ON CONFLICT (worker_id, week_start) DO NOTHING`,
	}

	for _, query := range testData {
		_, err := db.ExecContext(context.Background(), query)
		if err != nil {
			t.Logf("Warning: Failed to insert test data: %v", err)
		}
	}

	t.Log("✅ Database tables created/verified with test data")
}

// ==========================
// 3. Deploy All BPMN Files
// ==========================
func deployAllBPMN(t *testing.T, _ *config.Config, _ *zap.Logger) {
	t.Log("🏗️ Deploying BPMN files...")

	client := zeebeClient

	possiblePaths := []string{
		"bpmn",
		"../bpmn",
		"../../bpmn",
		"./bpmn",
	}

	var bpmnDir string
	var files []os.DirEntry
	var err error

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			files, err = os.ReadDir(path)
			if err == nil {
				bpmnDir = path
				t.Logf("📁 Found BPMN directory: %s", bpmnDir)
				break
			}
		}
	}

	if bpmnDir == "" {
		t.Log("⚠️ BPMN directory not found in any expected location, skipping deployment")
		return
	}

	require.NoError(t, err, "❌ Cannot read BPMN directory")

	bpmnCount := 0
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(f.Name()), ".bpmn") {
			continue
		}

		path := fmt.Sprintf("%s/%s", bpmnDir, f.Name())
		t.Logf("📄 Deploying BPMN: %s", path)

		_, err := client.NewDeployResourceCommand().AddResourceFile(path).Send(context.Background())
		if err != nil {
			t.Logf("⚠️ Failed to deploy BPMN %s: %v", f.Name(), err)
		} else {
			t.Logf("✅ Deployed: %s", f.Name())
			bpmnCount++
		}
	}

	if bpmnCount == 0 {
		t.Log("ℹ️ No BPMN files were successfully deployed")
	} else {
		t.Logf("✅ Successfully deployed %d BPMN files", bpmnCount)
	}
}

// ==========================
// 4. Test All 11 Workers
// ==========================
func testAllWorkers(t *testing.T, cfg *config.Config, log *zap.Logger) {
	t.Log("🧪 Testing all 11 workers with real execution...")

	dbClient, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer dbClient.Close()

	db := dbClient.GetDB()

	esURL := cfg.Database.Elasticsearch.GetURL()
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{esURL}})
	require.NoError(t, err)

	cache, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	defer cache.Close()

	testCases := []struct {
		name   string
		testFn func(*testing.T, *config.Config, *zap.Logger, *sql.DB, *elasticsearch.Client, *database.RedisClient)
	}{
		{"calculate-kpi-score", testCalculateKPIScore},
		{"analyze-streak", testAnalyzeStreak},
		{"generate-insights", testGenerateInsights},
		{"aggregate-trends", testAggregateTrends},
		{"query-postgresql", testQueryPostgreSQL},
		{"search-incidents", testSearchIncidents},
		{"validate-assessment", testValidateAssessment},
		{"record-incident", testRecordIncident},
		{"route-case-priority", testRouteCasePriority},
		{"build-report", testBuildReport},
		{"send-notification", testSendNotification},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.testFn(t, cfg, log, db, es, cache)
		})
	}
}

func testCalculateKPIScore(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, cache *database.RedisClient) {
	handler := calculatekpiscore.NewHandler(&calculatekpiscore.Config{
		Timeout: 10 * time.Second,
	}, logger.NewZapAdapter(log))

	days := 5
	input := &calculatekpiscore.Input{
		Metric:          calculatekpiscore.MetricConsecutiveDays,
		WorkerID:        "worker-e2e-001",
		ConsecutiveDays: &days,
	}
	result, err := handler.Execute(context.Background(), input)
	assert.NoError(t, err)
	assert.NotEmpty(t, result.KPI.Rating)
}

func testAnalyzeStreak(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, cache *database.RedisClient) {
	handler := analyzestreak.NewHandler(&analyzestreak.Config{
		Timeout:      15 * time.Second,
		LookbackDays: 90,
		CacheTTL:     5 * time.Minute,
	}, db, cache, logger.NewZapAdapter(log))

	input := &analyzestreak.Input{
		WorkerID:  "worker-e2e-001",
		SkipCache: true,
	}
	result, err := handler.Execute(context.Background(), input)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, result.Streak.Longest, result.Streak.Current)
}

func testGenerateInsights(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, cache *database.RedisClient) {
	handler := generateinsights.NewHandler(&generateinsights.Config{
		Timeout: 10 * time.Second,
	}, logger.NewZapAdapter(log))

	input := &generateinsights.Input{
		ReportType: generateinsights.ReportPerformance,
		TeamKPI: &models.KPIResult{
			Score:  85,
			Rating: "Good",
			Color:  "green",
		},
	}
	result, err := handler.Execute(context.Background(), input)
	assert.NoError(t, err)
	assert.Equal(t, generateinsights.ReportPerformance, result.ReportType)
}

func testAggregateTrends(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, cache *database.RedisClient) {
	handler := aggregatetrends.NewHandler(&aggregatetrends.Config{
		Timeout:     20 * time.Second,
		WindowWeeks: 4,
	}, db, logger.NewZapAdapter(log))

	input := &aggregatetrends.Input{WorkerID: "worker-e2e-001"}
	_, err := handler.Execute(context.Background(), input)
	assert.NoError(t, err)
}

func testQueryPostgreSQL(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, cache *database.RedisClient) {
	handler := querypostgresql.NewHandler(&querypostgresql.Config{
		Timeout: 5 * time.Second,
	}, db, logger.NewZapAdapter(log))

	input := &querypostgresql.Input{
		QueryType: "unknown",
	}
	_, err := handler.Execute(context.Background(), input)
	assert.Error(t, err)
}

func testSearchIncidents(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, cache *database.RedisClient) {
	handler := searchincidents.NewHandler(&searchincidents.Config{
		Timeout: 10 * time.Second,
	}, es, logger.NewZapAdapter(log))

	input := &searchincidents.Input{
		IndexName: "nonexistent-index",
		WorkerID:  "worker-e2e-001",
	}
	_, err := handler.Execute(context.Background(), input)
	assert.Error(t, err)
}

func testValidateAssessment(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, cache *database.RedisClient) {
	handler := validateassessment.NewHandler(&validateassessment.Config{
		Timeout: 5 * time.Second,
	}, logger.NewZapAdapter(log))

	input := &validateassessment.Input{
		WorkerID: "worker-e2e-001",
		Assessment: map[string]interface{}{
			"readinessLevel": "fit",
			"fatigueLevel":   2,
			"painDiscomfort": false,
			"mood":           "okay",
		},
	}
	result, err := handler.Execute(context.Background(), input)
	assert.NoError(t, err)
	assert.True(t, result.IsValid)
}

func testRecordIncident(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, cache *database.RedisClient) {
	handler := recordincident.NewHandler(&recordincident.Config{
		Timeout:         10 * time.Second,
		DuplicateWindow: 24 * time.Hour,
	}, db, logger.NewZapAdapter(log))

	// Unique occurred_at keeps the duplicate check from tripping across runs.
	input := &recordincident.Input{
		WorkerID:    "worker-e2e-001",
		ReportedBy:  "leader-e2e-001",
		Severity:    "first_aid",
		Description: "E2E test incident",
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}
	result, err := handler.Execute(context.Background(), input)
	assert.NoError(t, err)
	assert.NotEmpty(t, result.CaseNumber)
}

func testRouteCasePriority(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, cache *database.RedisClient) {
	handler := routecasepriority.NewHandler(&routecasepriority.Config{
		Timeout:  10 * time.Second,
		CacheTTL: 10 * time.Minute,
	}, db, cache, logger.NewZapAdapter(log))

	input := &routecasepriority.Input{
		WorkerID: "worker-e2e-001",
		Severity: "medical_treatment",
	}
	result, err := handler.Execute(context.Background(), input)
	assert.NoError(t, err)
	assert.NotEmpty(t, result.CasePriority)
	assert.NotEmpty(t, result.ClinicianTier)
}

func testBuildReport(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, cache *database.RedisClient) {
	handler := buildreport.NewHandler(&buildreport.Config{
		TemplateRegistry: "../../configs/report-templates.json",
		CacheTTL:         5 * time.Minute,
		AppVersion:       "1.0.0",
		Timeout:          10 * time.Second,
	}, logger.NewZapAdapter(log))

	input := &buildreport.Input{
		TemplateID: "nonexistent",
		RequestID:  "req-e2e-001",
		Data:       map[string]interface{}{},
	}
	_, err := handler.Execute(context.Background(), input)
	assert.Error(t, err)
}

func testSendNotification(t *testing.T, cfg *config.Config, log *zap.Logger, db *sql.DB, es *elasticsearch.Client, cache *database.RedisClient) {
	handler, err := sendnotification.NewHandler(&sendnotification.Config{
		EmailEnabled: false,
		SMSEnabled:   false,
		Timeout:      10 * time.Second,
	}, db, logger.NewZapAdapter(log))
	require.NoError(t, err)

	input := &sendnotification.Input{
		RecipientID:      "worker-e2e-001",
		RecipientType:    sendnotification.RecipientTypeWorker,
		NotificationType: sendnotification.TypeWeeklyReportReady,
	}
	result, err := handler.Execute(context.Background(), input)
	assert.NoError(t, err)
	assert.Equal(t, sendnotification.StatusDisabled, result.Status)
}

// ==========================
// Benchmark Tests
// ==========================
func BenchmarkHandler_CalculateKPIScore(b *testing.B) {
	handler := calculatekpiscore.NewHandler(&calculatekpiscore.Config{
		Timeout: 10 * time.Second,
	}, logger.NewStructured("info", "json"))

	days := 5
	input := &calculatekpiscore.Input{
		Metric:          calculatekpiscore.MetricConsecutiveDays,
		WorkerID:        "worker-e2e-001",
		ConsecutiveDays: &days,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_AnalyzeStreak(b *testing.B) {
	cfg, _ := config.Load()
	dbClient, _ := database.NewPostgres(cfg.Database.Postgres)
	defer dbClient.Close()
	db := dbClient.GetDB()

	cache, _ := database.NewRedis(cfg.Database.Redis)
	defer cache.Close()

	handler := analyzestreak.NewHandler(&analyzestreak.Config{
		Timeout:      15 * time.Second,
		LookbackDays: 90,
		CacheTTL:     5 * time.Minute,
	}, db, cache, logger.NewStructured("info", "json"))

	input := &analyzestreak.Input{WorkerID: "worker-e2e-001"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_ValidateAssessment(b *testing.B) {
	handler := validateassessment.NewHandler(&validateassessment.Config{
		Timeout: 5 * time.Second,
	}, logger.NewStructured("info", "json"))

	input := &validateassessment.Input{
		WorkerID: "worker-e2e-001",
		Assessment: map[string]interface{}{
			"readinessLevel": "fit",
			"fatigueLevel":   2,
			"painDiscomfort": false,
			"mood":           "okay",
		},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_RouteCasePriority(b *testing.B) {
	cfg, _ := config.Load()
	dbClient, _ := database.NewPostgres(cfg.Database.Postgres)
	defer dbClient.Close()
	db := dbClient.GetDB()

	cache, _ := database.NewRedis(cfg.Database.Redis)
	defer cache.Close()

	handler := routecasepriority.NewHandler(&routecasepriority.Config{
		Timeout:  10 * time.Second,
		CacheTTL: 10 * time.Minute,
	}, db, cache, logger.NewStructured("info", "json"))

	input := &routecasepriority.Input{
		WorkerID: "worker-e2e-001",
		Severity: "first_aid",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}
