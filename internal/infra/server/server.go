package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/PocketPalCo/receipt-service/config"
	"github.com/PocketPalCo/receipt-service/internal/core/cloud"
	"github.com/PocketPalCo/receipt-service/internal/core/docintel"
	"github.com/PocketPalCo/receipt-service/internal/core/receipts"
	"github.com/PocketPalCo/receipt-service/internal/core/telegram"
	"github.com/PocketPalCo/receipt-service/internal/infra/postgres"
	"github.com/PocketPalCo/receipt-service/pkg/telemetry"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.30.0"
	"google.golang.org/grpc"
)

type Server struct {
	cfg             *config.Config
	app             *fiber.App
	db              postgres.DB
	receiptsService *receipts.Service
	traceProvider   *sdktrace.TracerProvider
	metricProvider  *metric.MeterProvider
	telegramService telegram.TelegramService
	redisClient     *redis.Client
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
}

func New(ctx context.Context, cfg *config.Config, dbConn *pgxpool.Pool) *Server {
	traceExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.JaegerEndpoint)))
	if err != nil {
		slog.Error("failed to initialize jaeger exporter", slog.String("error", err.Error()))
		return nil
	}

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OtlpEndpoint),
		otlpmetricgrpc.WithInsecure(),
		otlpmetricgrpc.WithDialOption(grpc.WithUserAgent("receipt-service")),
	)
	if err != nil {
		slog.Error("failed to initialize otlp exporter", slog.String("error", err.Error()))
		return nil
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(
			resource.NewWithAttributes(
				semconv.SchemaURL,
				semconv.ServiceNameKey.String("receipt-service"),
			)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	provider := metric.NewMeterProvider(metric.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String("receipt-service"),
	)), metric.WithReader(metric.NewPeriodicReader(metricExporter, metric.WithInterval(15*time.Second))))

	otel.SetMeterProvider(provider)

	err = telemetry.InitTelemetry(provider)
	if err != nil {
		slog.Error("failed to initialize telemetry", slog.String("error", err.Error()))
		return nil
	}

	serverCtx, cancel := context.WithCancel(ctx)

	// Repository: Postgres when a pool was provided, in-memory otherwise.
	var repo receipts.Repository
	var db postgres.DB
	if dbConn != nil {
		instrumentedConn, err := telemetry.NewInstrumentedPool(provider, dbConn)
		if err != nil {
			slog.Error("failed to create instrumented pool", slog.String("error", err.Error()))
			cancel()
			return nil
		}
		db = instrumentedConn

		pgRepo := receipts.NewPostgresRepository(instrumentedConn)
		if err := pgRepo.InitSchema(serverCtx); err != nil {
			slog.Error("failed to initialize receipt schema", slog.String("error", err.Error()))
			cancel()
			return nil
		}
		repo = pgRepo
	} else {
		slog.Warn("No database configured, using in-memory receipt storage")
		repo = receipts.NewMemoryRepository()
	}

	diConfig := cfg.GetDocumentIntelligenceConfig()
	analyzer := docintel.NewClient(diConfig.Endpoint, diConfig.APIKey, diConfig.APIVersion, diConfig.Model)
	if err := analyzer.ValidateConfiguration(); err != nil {
		slog.Error("invalid document intelligence configuration", slog.String("error", err.Error()))
		cancel()
		return nil
	}

	cloudService, err := cloud.NewService(cfg.GetCloudConfig(), slog.Default())
	if err != nil {
		slog.Error("failed to initialize cloud service", slog.String("error", err.Error()))
		cancel()
		return nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Username: cfg.RedisUser,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDb,
	})
	cache := receipts.NewFingerprintCache(redisClient, slog.Default())

	receiptsService := receipts.NewService(repo, analyzer, cloudService, cache, slog.Default())

	telegramService, err := telegram.NewTelegramService(cfg, receiptsService, slog.Default())
	if err != nil {
		slog.Error("failed to initialize telegram service", slog.String("error", err.Error()))
		cancel()
		return nil
	}

	app := fiber.New(cfg.Fiber())

	return &Server{
		cfg:             cfg,
		app:             app,
		db:              db,
		receiptsService: receiptsService,
		traceProvider:   tp,
		metricProvider:  provider,
		telegramService: telegramService,
		redisClient:     redisClient,
		ctx:             serverCtx,
		cancel:          cancel,
	}
}

func (s *Server) Start() {
	initGlobalMiddlewares(s.app, s.cfg)
	registerHttpRoutes(s.app, s.receiptsService)

	// Start Telegram service
	if s.telegramService.IsEnabled() {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.telegramService.Start(s.ctx); err != nil {
				slog.Error("Telegram service error", slog.String("error", err.Error()))
			}
		}()
	}

	slog.Info("Starting HTTP server", slog.String("address", s.cfg.ServerAddress))

	// Start HTTP server
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.app.Listen(s.cfg.ServerAddress); err != nil {
			slog.Error("HTTP server error", slog.String("error", err.Error()))
		}
	}()
}

func (s *Server) Shutdown() {
	slog.Info("Shutting down server")

	// Cancel context to stop all goroutines
	s.cancel()

	// Stop Telegram service
	s.telegramService.Stop()

	// Shutdown HTTP server
	if err := s.app.Shutdown(); err != nil {
		slog.Error("Error shutting down HTTP server", slog.String("error", err.Error()))
	}

	// Wait for all goroutines to finish
	s.wg.Wait()

	// Shutdown telemetry providers
	if err := s.traceProvider.Shutdown(context.Background()); err != nil {
		slog.Error("Error shutting down trace provider", slog.String("error", err.Error()))
	}

	if err := s.metricProvider.Shutdown(context.Background()); err != nil {
		slog.Error("Error shutting down metric provider", slog.String("error", err.Error()))
	}

	if err := s.redisClient.Close(); err != nil {
		slog.Error("Error closing redis client", slog.String("error", err.Error()))
	}

	if s.db != nil {
		s.db.Close()
	}

	slog.Info("Server shut down successfully")
}
