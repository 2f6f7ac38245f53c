package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"fleetflow-service/internal/config"
	"fleetflow-service/internal/db"
	analyticsHandler "fleetflow-service/internal/handlers/analytics"
	authHandler "fleetflow-service/internal/handlers/auth"
	dispatcherHandler "fleetflow-service/internal/handlers/dispatcher"
	driverHandler "fleetflow-service/internal/handlers/driver"
	expenseHandler "fleetflow-service/internal/handlers/expense"
	fuelHandler "fleetflow-service/internal/handlers/fuel"
	maintenanceHandler "fleetflow-service/internal/handlers/maintenance"
	tripHandler "fleetflow-service/internal/handlers/trip"
	vehicleHandler "fleetflow-service/internal/handlers/vehicle"
	wsHandler "fleetflow-service/internal/handlers/websocket"
	"fleetflow-service/internal/middleware"
	"fleetflow-service/internal/pkg/jwt"
	"fleetflow-service/internal/pkg/ratelimit"
	"fleetflow-service/internal/repository/postgres"
	analyticsService "fleetflow-service/internal/service/analytics"
	authService "fleetflow-service/internal/service/auth"
	dispatcherService "fleetflow-service/internal/service/dispatcher"
	driverService "fleetflow-service/internal/service/driver"
	"fleetflow-service/internal/service/email"
	expenseService "fleetflow-service/internal/service/expense"
	fuelService "fleetflow-service/internal/service/fuel"
	maintenanceService "fleetflow-service/internal/service/maintenance"
	tripService "fleetflow-service/internal/service/trip"
	vehicleService "fleetflow-service/internal/service/vehicle"
	"fleetflow-service/internal/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	http   *http.Server
}

func NewServer() *Server {
	return &Server{cfg: config.Load(), engine: gin.New()}
}

func (s *Server) Start() error {
	ctx := context.Background()

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	// ----- Redis (rate limiting; auth degrades open without it) -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		PoolSize: 10,
	})
	if err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		redisClient = nil
	}
	limiter := ratelimit.NewLimiter(redisClient)

	// ----- JWT -----
	jwtMgr, err := jwt.NewManager(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to build JWT manager: %w", err)
	}

	// ----- Email -----
	mailer := email.NewMailer(email.Config{
		Host:     s.cfg.SMTPHost,
		Port:     s.cfg.SMTPPort,
		Username: s.cfg.SMTPUser,
		Password: s.cfg.SMTPPass,
		From:     s.cfg.SMTPFrom,
		FromName: s.cfg.SMTPFromName,
	}, logger)

	// ----- Repositories -----
	userRepo := postgres.NewUserRepository(pool)
	tokenRepo := postgres.NewResetTokenRepository(pool)
	vehicleRepo := postgres.NewVehicleRepository(pool)
	tripRepo := postgres.NewTripRepository(pool)
	fuelRepo := postgres.NewFuelRepository(pool)
	maintRepo := postgres.NewMaintenanceRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	dispatcherRepo := postgres.NewDispatcherRepository(pool)

	// ----- Live ops feed -----
	hub := ws.NewHub(logger)
	go hub.Run()

	// ----- Services -----
	authSvc := authService.NewAuthService(userRepo, tokenRepo, jwtMgr, limiter, mailer, logger)
	vehicleSvc := vehicleService.NewVehicleService(vehicleRepo, logger)
	driverSvc := driverService.NewDriverService(userRepo, logger)
	tripSvc := tripService.NewTripService(tripRepo, vehicleRepo, maintRepo, expenseRepo, fuelRepo, logger)
	fuelSvc := fuelService.NewFuelService(fuelRepo, vehicleRepo, logger)
	maintSvc := maintenanceService.NewMaintenanceService(maintRepo, vehicleRepo, logger)
	expenseSvc := expenseService.NewExpenseService(expenseRepo, fuelRepo, tripRepo, logger)
	dispatcherSvc := dispatcherService.NewDispatcherService(dispatcherRepo, logger)
	analyticsSvc := analyticsService.NewAnalyticsService(vehicleRepo, tripRepo, fuelRepo, maintRepo, expenseRepo, userRepo, logger)

	// ----- Handlers & routes -----
	handlers := &Handlers{
		AuthHandler:        authHandler.NewAuthHandler(authSvc, userRepo),
		VehicleHandler:     vehicleHandler.NewVehicleHandler(vehicleSvc),
		DriverHandler:      driverHandler.NewDriverHandler(driverSvc),
		TripHandler:        tripHandler.NewTripHandler(tripSvc, hub),
		FuelHandler:        fuelHandler.NewFuelHandler(fuelSvc),
		MaintenanceHandler: maintenanceHandler.NewMaintenanceHandler(maintSvc, hub),
		ExpenseHandler:     expenseHandler.NewExpenseHandler(expenseSvc),
		DispatcherHandler:  dispatcherHandler.NewDispatcherHandler(dispatcherSvc),
		AnalyticsHandler:   analyticsHandler.NewAnalyticsHandler(analyticsSvc),
		WSHandler:          wsHandler.NewWSHandler(hub),
		AuthMiddleware:     middleware.NewAuthMiddleware(jwtMgr),
	}

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)
	SetupRouter(s.engine, handlers)

	logger.Info("server listening", zap.String("addr", s.cfg.HTTPAddr))
	s.http = &http.Server{Addr: s.cfg.HTTPAddr, Handler: s.engine}
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting new connections and drains in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	if s.logger != nil {
		s.logger.Info("shutting down")
	}
	return s.http.Shutdown(ctx)
}
