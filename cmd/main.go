package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelReservationHandler "github.com/tourbase/TB-AdmissionService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/tourbase/TB-AdmissionService/internal/api/handlers/create_reservation"
	deleteCapacityOverrideHandler "github.com/tourbase/TB-AdmissionService/internal/api/handlers/delete_capacity_override"
	getAvailabilityHandler "github.com/tourbase/TB-AdmissionService/internal/api/handlers/get_availability"
	getCapacityTemplateHandler "github.com/tourbase/TB-AdmissionService/internal/api/handlers/get_capacity_template"
	getGroupedReservationsHandler "github.com/tourbase/TB-AdmissionService/internal/api/handlers/get_grouped_reservations"
	getMonthlyStatsHandler "github.com/tourbase/TB-AdmissionService/internal/api/handlers/get_monthly_stats"
	getReservationHandler "github.com/tourbase/TB-AdmissionService/internal/api/handlers/get_reservation"
	putCapacityOverrideHandler "github.com/tourbase/TB-AdmissionService/internal/api/handlers/put_capacity_override"
	updateQuantityHandler "github.com/tourbase/TB-AdmissionService/internal/api/handlers/update_quantity"
	updateStatusHandler "github.com/tourbase/TB-AdmissionService/internal/api/handlers/update_status"
	"github.com/tourbase/TB-AdmissionService/internal/api/middleware"
	"github.com/tourbase/TB-AdmissionService/internal/cache"
	"github.com/tourbase/TB-AdmissionService/internal/config"
	capacityRepo "github.com/tourbase/TB-AdmissionService/internal/infra/storage/capacity"
	reservationRepo "github.com/tourbase/TB-AdmissionService/internal/infra/storage/reservation"
	directoryServiceClient "github.com/tourbase/TB-AdmissionService/internal/integrations/directoryservice"
	licensingServiceClient "github.com/tourbase/TB-AdmissionService/internal/integrations/licensingservice"
	"github.com/tourbase/TB-AdmissionService/internal/notify"
	capacityService "github.com/tourbase/TB-AdmissionService/internal/service/capacity"
	reservationsService "github.com/tourbase/TB-AdmissionService/internal/service/reservations"
	slotsService "github.com/tourbase/TB-AdmissionService/internal/service/slots"
	createReservationUC "github.com/tourbase/TB-AdmissionService/internal/usecase/create_reservation"
	getAvailabilityUC "github.com/tourbase/TB-AdmissionService/internal/usecase/get_availability"
	getMonthlyStatsUC "github.com/tourbase/TB-AdmissionService/internal/usecase/get_monthly_stats"
	updateQuantityUC "github.com/tourbase/TB-AdmissionService/internal/usecase/update_quantity"
	"github.com/tourbase/TB-AdmissionService/pkg/dbmetrics"
	"github.com/tourbase/TB-AdmissionService/pkg/logger"
	"github.com/tourbase/TB-AdmissionService/pkg/metrics"
	"github.com/tourbase/TB-AdmissionService/pkg/simpletxmanager"
	"github.com/tourbase/TB-AdmissionService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting TB-AdmissionService...")
	log.Info("Configuration loaded from config.toml")

	// Метрики регистрируются всегда: счетчик admission нужен и без
	// экспорта endpoint
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)
	stopMetricsCh := make(chan struct{})

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Кеш доступности: при выключенном или недоступном Redis сервис
	// работает напрямую из БД
	var redisClient *cache.AvailabilityCache
	if cfg.Redis.Enabled {
		client := cache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		redisClient = cache.New(client, time.Duration(cfg.Redis.TTLSeconds)*time.Second, log)
		if client != nil {
			log.Info("Availability cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTLSeconds)
		}
	} else {
		redisClient = cache.New(nil, 0, log)
		log.Info("Availability cache disabled")
	}

	// Публикация событий бронирования
	var notifier interface {
		Publish(ctx context.Context, event notify.ReservationEvent) error
	}
	if cfg.RabbitMQ.Enabled {
		notifier = notify.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, log)
		log.Info("Notification publisher enabled (queue=%s)", cfg.RabbitMQ.Queue)
	} else {
		notifier = notify.NopPublisher{}
		log.Info("Notification publisher disabled")
	}

	// Инициализируем интеграционных клиентов
	directoryClient := directoryServiceClient.NewClient(
		cfg.DirectoryService.URL,
		time.Duration(cfg.DirectoryService.Timeout)*time.Second,
		log,
	)
	licensingClient := licensingServiceClient.NewClient(
		cfg.LicensingService.URL,
		time.Duration(cfg.LicensingService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (DirectoryService=%s timeout=%ds, LicensingService=%s timeout=%ds)",
		cfg.DirectoryService.URL, cfg.DirectoryService.Timeout, cfg.LicensingService.URL, cfg.LicensingService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		capacityRepository    *capacityRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		capacityRepository = capacityRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		capacityRepository = capacityRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	materializer := slotsService.NewMaterializer(capacityRepository, log)
	reservationsSvc := reservationsService.NewService(
		reservationRepository,
		txMgr,
		redisClient,
		notifier,
		log,
	)
	capacitySvc := capacityService.NewService(
		capacityRepository,
		reservationRepository,
		txMgr,
		redisClient,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		materializer,
		directoryClient,
		licensingClient,
		txMgr,
		redisClient,
		notifier,
		metricsCollector,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		reservationRepository,
		materializer,
		redisClient,
		log,
	)
	getMonthlyStatsUseCase := getMonthlyStatsUC.NewUseCase(
		capacityRepository,
		reservationRepository,
		materializer,
		log,
	)
	updateQuantityUseCase := updateQuantityUC.NewUseCase(
		reservationRepository,
		materializer,
		txMgr,
		redisClient,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getMonthlyStats := getMonthlyStatsHandler.NewHandler(getMonthlyStatsUseCase, log)
	updateQuantity := updateQuantityHandler.NewHandler(updateQuantityUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationsSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationsSvc, log)
	updateStatus := updateStatusHandler.NewHandler(reservationsSvc, log)
	getGroupedReservations := getGroupedReservationsHandler.NewHandler(reservationsSvc, log)
	getCapacityTemplate := getCapacityTemplateHandler.NewHandler(capacitySvc, log)
	putCapacityOverride := putCapacityOverrideHandler.NewHandler(capacitySvc, log)
	deleteCapacityOverride := deleteCapacityOverrideHandler.NewHandler(capacitySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Все API routes требуют X-Tenant-ID
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// --- Доступность и статистика ---
	api.HandleFunc("/activities/{activityId}/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/stats/monthly", getMonthlyStats.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	api.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reservations/grouped", getGroupedReservations.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{reservationId}/quantity", updateQuantity.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/reservations/{reservationId}/status", updateStatus.Handle).Methods(http.MethodPatch)

	// --- Управление вместимостью (для операторов) ---
	api.HandleFunc("/activities/{activityId}/capacity-template", getCapacityTemplate.Handle).Methods(http.MethodGet)
	api.HandleFunc("/activities/{activityId}/overrides", putCapacityOverride.Handle).Methods(http.MethodPut)
	api.HandleFunc("/activities/{activityId}/overrides", deleteCapacityOverride.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
