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

	bulkReplaceAvailabilityHandler "github.com/m04kA/SMC-TherapyBooking/internal/api/handlers/bulk_replace_availability"
	cancelAppointmentHandler "github.com/m04kA/SMC-TherapyBooking/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-TherapyBooking/internal/api/handlers/create_appointment"
	createAvailabilityRuleHandler "github.com/m04kA/SMC-TherapyBooking/internal/api/handlers/create_availability_rule"
	createPaymentHandler "github.com/m04kA/SMC-TherapyBooking/internal/api/handlers/create_payment"
	deleteAvailabilityRuleHandler "github.com/m04kA/SMC-TherapyBooking/internal/api/handlers/delete_availability_rule"
	getAppointmentHandler "github.com/m04kA/SMC-TherapyBooking/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-TherapyBooking/internal/api/handlers/get_available_slots"
	listAppointmentsHandler "github.com/m04kA/SMC-TherapyBooking/internal/api/handlers/list_appointments"
	listAvailabilityHandler "github.com/m04kA/SMC-TherapyBooking/internal/api/handlers/list_availability"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-TherapyBooking/internal/api/handlers/reschedule_appointment"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-TherapyBooking/internal/api/handlers/update_appointment_status"
	updateAvailabilityRuleHandler "github.com/m04kA/SMC-TherapyBooking/internal/api/handlers/update_availability_rule"
	updatePaymentStatusHandler "github.com/m04kA/SMC-TherapyBooking/internal/api/handlers/update_payment_status"
	"github.com/m04kA/SMC-TherapyBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TherapyBooking/internal/config"
	"github.com/m04kA/SMC-TherapyBooking/internal/infra/events"
	"github.com/m04kA/SMC-TherapyBooking/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/appointment"
	availabilityRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/availability"
	paymentRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/payment"
	therapistRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/therapist"
	appointmentsService "github.com/m04kA/SMC-TherapyBooking/internal/service/appointments"
	availabilityService "github.com/m04kA/SMC-TherapyBooking/internal/service/availability"
	paymentsService "github.com/m04kA/SMC-TherapyBooking/internal/service/payments"
	cancelAppointmentUC "github.com/m04kA/SMC-TherapyBooking/internal/usecase/cancel_appointment"
	createAppointmentUC "github.com/m04kA/SMC-TherapyBooking/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-TherapyBooking/internal/usecase/get_available_slots"
	rescheduleAppointmentUC "github.com/m04kA/SMC-TherapyBooking/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-TherapyBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TherapyBooking/pkg/logger"
	"github.com/m04kA/SMC-TherapyBooking/pkg/metrics"
	"github.com/m04kA/SMC-TherapyBooking/pkg/txmanager"
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

	log.Info("Starting SMC-TherapyBooking...")

	loc, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Invalid scheduling timezone: %v", err)
	}
	rescheduleFee, err := cfg.Policy.RescheduleFeeAmount()
	if err != nil {
		log.Fatal("Invalid reschedule fee: %v", err)
	}

	// Инициализируем метрики (если включены); nil отключает сбор
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Распределённая блокировка расписания терапевта
	var locker createAppointmentUC.Locker = lock.NoopLocker{}
	if cfg.Redis.Enabled {
		redisClient, err := lock.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		locker = lock.NewRedisLocker(redisClient, cfg.Redis.LockTTLDuration(), log)
		log.Info("Redis therapist locks enabled (addr=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.LockTTLDuration())
	}

	// Публикация событий жизненного цикла записей
	var publisher createAppointmentUC.EventPublisher = events.NoopPublisher{}
	if cfg.RabbitMQ.Enabled {
		rabbit, err := events.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to rabbitmq: %v", err)
		}
		defer rabbit.Close()
		publisher = rabbit
		log.Info("RabbitMQ events enabled (exchange=%s)", cfg.RabbitMQ.Exchange)
	}

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	paymentRepository := paymentRepo.NewRepository(wrappedDB)
	therapistRepository := therapistRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(
		availabilityRepository,
		appointmentRepository,
		therapistRepository,
		txMgr,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, txMgr, log)
	paymentsSvc := paymentsService.NewService(paymentRepository, appointmentRepository, txMgr, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		availabilityRepository,
		appointmentRepository,
		therapistRepository,
		loc,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		availabilityRepository,
		therapistRepository,
		txMgr,
		locker,
		publisher,
		metricsCollector,
		loc,
		log,
	)
	cancelAppointmentUseCase := cancelAppointmentUC.NewUseCase(
		appointmentRepository,
		paymentRepository,
		txMgr,
		publisher,
		metricsCollector,
		log,
	)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		availabilityRepository,
		therapistRepository,
		txMgr,
		locker,
		publisher,
		rescheduleFee,
		cfg.Policy.Currency,
		loc,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	listAvailability := listAvailabilityHandler.NewHandler(availabilitySvc, log)
	createAvailabilityRule := createAvailabilityRuleHandler.NewHandler(availabilitySvc, log)
	bulkReplaceAvailability := bulkReplaceAvailabilityHandler.NewHandler(availabilitySvc, log)
	updateAvailabilityRule := updateAvailabilityRuleHandler.NewHandler(availabilitySvc, log)
	deleteAvailabilityRule := deleteAvailabilityRuleHandler.NewHandler(availabilitySvc, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(cancelAppointmentUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	createPayment := createPaymentHandler.NewHandler(paymentsSvc, log)
	updatePaymentStatus := updatePaymentStatusHandler.NewHandler(paymentsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/therapists/{therapistId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/therapists/{therapistId}/availability", listAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID и X-User-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Расписание терапевта ---
	protected.HandleFunc("/therapists/{therapistId}/availability", createAvailabilityRule.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/therapists/{therapistId}/availability", bulkReplaceAvailability.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/therapists/{therapistId}/availability/{ruleId}", updateAvailabilityRule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/therapists/{therapistId}/availability/{ruleId}", deleteAvailabilityRule.Handle).Methods(http.MethodDelete)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// --- Платежи ---
	protected.HandleFunc("/appointments/{appointmentId}/payments", createPayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/payments/{paymentId}/status", updatePaymentStatus.Handle).Methods(http.MethodPatch)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

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
