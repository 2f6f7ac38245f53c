package app

import (
	"net/http"

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
	"fleetflow-service/internal/domain/user"
	"fleetflow-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler        *authHandler.AuthHandler
	VehicleHandler     *vehicleHandler.VehicleHandler
	DriverHandler      *driverHandler.DriverHandler
	TripHandler        *tripHandler.TripHandler
	FuelHandler        *fuelHandler.FuelHandler
	MaintenanceHandler *maintenanceHandler.MaintenanceHandler
	ExpenseHandler     *expenseHandler.ExpenseHandler
	DispatcherHandler  *dispatcherHandler.DispatcherHandler
	AnalyticsHandler   *analyticsHandler.AnalyticsHandler
	WSHandler          *wsHandler.WSHandler
	AuthMiddleware     *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== Auth ====================
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.AuthHandler.Login)
		auth.POST("/forgot-password", h.AuthHandler.ForgotPassword)
		auth.POST("/verify-otp", h.AuthHandler.VerifyOTP)
		auth.POST("/reset-password", h.AuthHandler.ResetPassword)
	}
	authed := api.Group("/auth")
	authed.Use(h.AuthMiddleware.Auth())
	{
		authed.GET("/me", h.AuthHandler.Me)
	}

	staff := h.AuthMiddleware.RequireRole(user.RoleFleetManager, user.RoleDispatcher)
	managerOnly := h.AuthMiddleware.RequireRole(user.RoleFleetManager)
	readFleet := h.AuthMiddleware.RequireRole(
		user.RoleFleetManager, user.RoleDispatcher, user.RoleSafetyOfficer, user.RoleFinancialAnalyst,
	)
	finance := h.AuthMiddleware.RequireRole(
		user.RoleFleetManager, user.RoleDispatcher, user.RoleFinancialAnalyst,
	)

	// ==================== Live ops feed ====================
	feed := r.Group("/ws")
	feed.Use(h.AuthMiddleware.Auth(), readFleet)
	{
		feed.GET("/ops", h.WSHandler.Feed)
	}

	// ==================== Vehicles ====================
	vehicles := api.Group("/vehicles")
	vehicles.Use(h.AuthMiddleware.Auth())
	{
		vehicles.GET("", readFleet, h.VehicleHandler.List)
		vehicles.GET("/:id", readFleet, h.VehicleHandler.Get)
		vehicles.POST("", managerOnly, h.VehicleHandler.Create)
		vehicles.PUT("/:id", managerOnly, h.VehicleHandler.Update)
		vehicles.DELETE("/:id", managerOnly, h.VehicleHandler.Delete)
	}

	// ==================== Drivers ====================
	drivers := api.Group("/drivers")
	drivers.Use(h.AuthMiddleware.Auth())
	{
		drivers.GET("", readFleet, h.DriverHandler.List)
		drivers.GET("/:id", readFleet, h.DriverHandler.Get)
		drivers.POST("", managerOnly, h.AuthHandler.RegisterDriver)
		drivers.PUT("/:id", h.AuthMiddleware.RequireRole(user.RoleFleetManager, user.RoleSafetyOfficer), h.DriverHandler.Update)
		drivers.DELETE("/:id", managerOnly, h.DriverHandler.Delete)
	}

	// ==================== Trips ====================
	// Role checks inside the trip lifecycle are finer-grained than route
	// guards: drivers may list/see/transition their own trips.
	trips := api.Group("/trips")
	trips.Use(h.AuthMiddleware.Auth())
	{
		trips.GET("", h.TripHandler.List)
		trips.GET("/:id", h.TripHandler.Get)
		trips.GET("/:id/cost", h.TripHandler.Cost)
		trips.POST("", staff, h.TripHandler.Create)
		trips.PUT("/:id", h.TripHandler.Update)
		trips.DELETE("/:id", staff, h.TripHandler.Delete)
	}

	// ==================== Fuel logs ====================
	fuelLogs := api.Group("/fuel-logs")
	fuelLogs.Use(h.AuthMiddleware.Auth())
	{
		fuelLogs.GET("", finance, h.FuelHandler.List)
		fuelLogs.GET("/:id", finance, h.FuelHandler.Get)
		fuelLogs.POST("", staff, h.FuelHandler.Create)
		fuelLogs.PUT("/:id", staff, h.FuelHandler.Update)
		fuelLogs.DELETE("/:id", staff, h.FuelHandler.Delete)
	}

	// ==================== Maintenance ====================
	maintenance := api.Group("/maintenance-logs")
	maintenance.Use(h.AuthMiddleware.Auth())
	{
		maintenance.GET("", readFleet, h.MaintenanceHandler.List)
		maintenance.GET("/:id", readFleet, h.MaintenanceHandler.Get)
		maintenance.POST("", h.AuthMiddleware.RequireRole(user.RoleFleetManager, user.RoleDispatcher, user.RoleSafetyOfficer), h.MaintenanceHandler.Create)
		maintenance.PUT("/:id", staff, h.MaintenanceHandler.Update)
		maintenance.PATCH("/:id/complete", h.AuthMiddleware.RequireRole(user.RoleFleetManager, user.RoleDispatcher, user.RoleSafetyOfficer), h.MaintenanceHandler.Complete)
		maintenance.DELETE("/:id", managerOnly, h.MaintenanceHandler.Delete)
	}

	// ==================== Expenses ====================
	expenses := api.Group("/expenses")
	expenses.Use(h.AuthMiddleware.Auth())
	{
		expenses.GET("", finance, h.ExpenseHandler.List)
		expenses.GET("/:id", finance, h.ExpenseHandler.Get)
		expenses.POST("", finance, h.ExpenseHandler.Create)
		expenses.PUT("/:id", finance, h.ExpenseHandler.Update)
		expenses.DELETE("/:id", finance, h.ExpenseHandler.Delete)
	}

	// ==================== Dispatcher contacts ====================
	dispatchers := api.Group("/dispatchers")
	dispatchers.Use(h.AuthMiddleware.Auth(), managerOnly)
	{
		dispatchers.GET("", h.DispatcherHandler.List)
		dispatchers.POST("", h.DispatcherHandler.Create)
		dispatchers.PUT("/:id", h.DispatcherHandler.Update)
		dispatchers.DELETE("/:id", h.DispatcherHandler.Delete)
	}

	// ==================== Analytics & dashboard ====================
	analytics := api.Group("/analytics")
	analytics.Use(h.AuthMiddleware.Auth(), finance)
	{
		analytics.GET("", h.AnalyticsHandler.Report)
	}
	dashboard := api.Group("/dashboard")
	dashboard.Use(h.AuthMiddleware.Auth(), readFleet)
	{
		dashboard.GET("", h.AnalyticsHandler.Dashboard)
	}
}
