package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	billingapp "github.com/francisjavinico/backend-tintado/internal/application/billing"
	documentsapp "github.com/francisjavinico/backend-tintado/internal/application/documents"
	financeapp "github.com/francisjavinico/backend-tintado/internal/application/finance"
	identityapp "github.com/francisjavinico/backend-tintado/internal/application/identity"
	partnerapp "github.com/francisjavinico/backend-tintado/internal/application/partner"
	schedulingapp "github.com/francisjavinico/backend-tintado/internal/application/scheduling"
	warrantyapp "github.com/francisjavinico/backend-tintado/internal/application/warranty"
	"github.com/francisjavinico/backend-tintado/internal/domain/identity"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/auth"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/cache"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/config"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/logger"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/mail"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/outbox"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/persistence"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/printing"
	"github.com/francisjavinico/backend-tintado/internal/interfaces/http/handler"
	"github.com/francisjavinico/backend-tintado/internal/interfaces/http/middleware"
	"github.com/francisjavinico/backend-tintado/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLevel := gormlogger.Warn
	if cfg.Log.Level == "debug" {
		gormLevel = gormlogger.Info
	}

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.NewGormLogger(log, gormLevel))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	clientRepo := persistence.NewGormClientRepository(db.DB)
	vehicleRepo := persistence.NewGormVehicleRepository(db.DB)
	appointmentRepo := persistence.NewGormAppointmentRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	warrantyRepo := persistence.NewGormWarrantyRepository(db.DB)
	dispatchRepo := persistence.NewGormDispatchRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	resetTokenRepo := persistence.NewGormResetTokenRepository(db.DB)
	allocator := persistence.NewGormSequenceAllocator(db.DB)

	txManager := persistence.NewTxManager(db)

	// Dashboard cache is optional: without Redis the dashboard hits the
	// database on every request
	var dashboardCache *cache.DashboardCache
	if cfg.Redis.Host != "" {
		dashboardCache, err = cache.NewDashboardCache(cfg.Redis, log)
		if err != nil {
			log.Warn("Dashboard cache unavailable, continuing without it", zap.Error(err))
			dashboardCache = nil
		} else {
			defer func() {
				if err := dashboardCache.Close(); err != nil {
					log.Error("Error closing cache", zap.Error(err))
				}
			}()
		}
	}

	// PDF rendering
	templateEngine, err := printing.NewTemplateEngine()
	if err != nil {
		log.Fatal("Failed to parse document templates", zap.Error(err))
	}
	renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: cfg.Printing.Timeout,
		ExtraFlags:     cfg.Printing.ChromeFlags,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to start PDF renderer", zap.Error(err))
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()
	printer := printing.NewDocumentPrinter(templateEngine, renderer)

	var mailer mail.Mailer
	if cfg.Mail.Enabled {
		mailer = mail.NewSMTPMailer(cfg.Mail, log)
	} else {
		log.Warn("Mail delivery disabled, outgoing emails will only be logged")
		mailer = mail.NewNoopMailer(log)
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Application services
	clientService := partnerapp.NewClientService(clientRepo)
	vehicleService := schedulingapp.NewVehicleService(vehicleRepo)
	appointmentService := schedulingapp.NewAppointmentService(appointmentRepo, vehicleRepo, clientRepo)
	finalizeService := schedulingapp.NewFinalizeService(txManager, appointmentRepo, clientRepo,
		invoiceRepo, receiptRepo, warrantyRepo, transactionRepo, allocator, dispatchRepo, log)
	invoiceService := billingapp.NewInvoiceService(txManager, invoiceRepo, clientRepo, appointmentRepo, transactionRepo, allocator, dispatchRepo)
	receiptService := billingapp.NewReceiptService(txManager, receiptRepo, invoiceRepo, clientRepo,
		appointmentRepo, transactionRepo, allocator, dispatchRepo, log)
	warrantyService := warrantyapp.NewWarrantyService(warrantyRepo)
	reportService := financeapp.NewReportService(reportRepo, transactionRepo, appointmentRepo,
		clientRepo, invoiceRepo, dashboardCache, log)
	transactionService := financeapp.NewTransactionService(transactionRepo, reportService.InvalidateDashboard)
	userService := identityapp.NewUserService(userRepo)
	authService := identityapp.NewAuthService(userRepo, resetTokenRepo, dispatchRepo,
		jwtService, cfg.App.FrontendURL, log)
	documentService := documentsapp.NewDocumentService(invoiceRepo, receiptRepo, warrantyRepo,
		clientRepo, appointmentRepo, vehicleRepo, printer)

	// Outbox dispatcher delivers the PDFs and emails queued by the
	// transactional flows
	dispatchCtx, dispatchCancel := context.WithCancel(context.Background())
	defer dispatchCancel()
	dispatcher := outbox.NewDispatcher(dispatchRepo, cfg.Dispatch, log)
	documentsapp.NewDispatchHandlers(documentService, clientRepo, mailer, log).Register(dispatcher)
	if cfg.Dispatch.Enabled {
		dispatcher.Start(dispatchCtx)
		defer dispatcher.Stop()
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	clientHandler := handler.NewClientHandler(clientService, warrantyService)
	vehicleHandler := handler.NewVehicleHandler(vehicleService)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService, finalizeService, warrantyService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, documentService)
	receiptHandler := handler.NewReceiptHandler(receiptService, documentService)
	warrantyHandler := handler.NewWarrantyHandler(warrantyService, documentService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	reportHandler := handler.NewReportHandler(reportService)
	systemHandler := handler.NewSystemHandler(db.DB)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
	authRoutes.POST("/reset-password", authHandler.ResetPassword)
	authRoutes.GET("/has-users", authHandler.HasUsers)
	authRoutes.POST("/create-first-user", authHandler.CreateFirstUser)
	authRoutes.GET("/me", authHandler.Me)

	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.Use(middleware.RequireRole(identity.RoleAdmin))
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.Get)
	userRoutes.PUT("/:id", userHandler.Update)
	userRoutes.DELETE("/:id", userHandler.Delete)

	clientRoutes := router.NewDomainGroup("clients", "/clients")
	clientRoutes.POST("", clientHandler.Create)
	clientRoutes.GET("", clientHandler.List)
	clientRoutes.GET("/telefono", clientHandler.GetByPhone)
	clientRoutes.GET("/:id", clientHandler.Get)
	clientRoutes.GET("/:id/garantias", clientHandler.Warranties)
	clientRoutes.PUT("/:id", clientHandler.Update)
	clientRoutes.DELETE("/:id", clientHandler.Delete)

	vehicleRoutes := router.NewDomainGroup("vehiculos", "/vehiculos")
	vehicleRoutes.POST("", vehicleHandler.Create)
	vehicleRoutes.GET("", vehicleHandler.Search)
	vehicleRoutes.GET("/:id", vehicleHandler.Get)
	vehicleRoutes.GET("/:id/historial", vehicleHandler.BudgetStats)
	vehicleRoutes.PUT("/:id", vehicleHandler.Update)
	vehicleRoutes.DELETE("/:id", vehicleHandler.Delete)

	appointmentRoutes := router.NewDomainGroup("citas", "/citas")
	appointmentRoutes.POST("", appointmentHandler.Create)
	appointmentRoutes.GET("", appointmentHandler.List)
	appointmentRoutes.GET("/hoy/pendientes", appointmentHandler.PendingToday)
	appointmentRoutes.GET("/:id", appointmentHandler.Get)
	appointmentRoutes.GET("/:id/garantia", appointmentHandler.Warranty)
	appointmentRoutes.PUT("/:id", appointmentHandler.Update)
	appointmentRoutes.PUT("/:id/checkin", appointmentHandler.CheckIn)
	appointmentRoutes.POST("/:id/finalizar", appointmentHandler.Finalize)
	appointmentRoutes.POST("/:id/cancelar", appointmentHandler.Cancel)
	appointmentRoutes.DELETE("/:id", appointmentHandler.Delete)

	invoiceRoutes := router.NewDomainGroup("facturas", "/facturas")
	invoiceRoutes.POST("", invoiceHandler.Create)
	invoiceRoutes.GET("", invoiceHandler.List)
	invoiceRoutes.GET("/balance", invoiceHandler.Balance)
	invoiceRoutes.GET("/pdf/:id", invoiceHandler.PDF)
	invoiceRoutes.GET("/:id", invoiceHandler.Get)
	invoiceRoutes.PUT("/:id", invoiceHandler.Update)
	invoiceRoutes.POST("/:id/reenviar-email", invoiceHandler.ResendEmail)
	invoiceRoutes.DELETE("/:id", invoiceHandler.Delete)

	receiptRoutes := router.NewDomainGroup("recibos", "/recibos")
	receiptRoutes.POST("", receiptHandler.Create)
	receiptRoutes.GET("", receiptHandler.List)
	receiptRoutes.GET("/balance", receiptHandler.Balance)
	receiptRoutes.GET("/pdf/:id", receiptHandler.PDF)
	receiptRoutes.GET("/:id", receiptHandler.Get)
	receiptRoutes.PUT("/:id", receiptHandler.Update)
	receiptRoutes.POST("/:id/convertir", receiptHandler.Convert)
	receiptRoutes.POST("/:id/reenviar-email", receiptHandler.ResendEmail)
	receiptRoutes.DELETE("/:id", receiptHandler.Delete)

	warrantyRoutes := router.NewDomainGroup("garantias", "/garantias")
	warrantyRoutes.POST("", warrantyHandler.Create)
	warrantyRoutes.GET("", warrantyHandler.List)
	warrantyRoutes.GET("/pdf/:id", warrantyHandler.PDF)
	warrantyRoutes.GET("/:id", warrantyHandler.Get)
	warrantyRoutes.PUT("/:id", warrantyHandler.Update)
	warrantyRoutes.DELETE("/:id", warrantyHandler.Delete)

	adminOnly := middleware.RequireRole(identity.RoleAdmin)
	transactionRoutes := router.NewDomainGroup("transacciones", "/transacciones")
	transactionRoutes.GET("/resumen-grafico", reportHandler.Summary)
	transactionRoutes.POST("", transactionHandler.Create)
	transactionRoutes.GET("", transactionHandler.List)
	transactionRoutes.GET("/:id", transactionHandler.Get)
	transactionRoutes.PUT("/:id", adminOnly, transactionHandler.Update)
	transactionRoutes.DELETE("/:id", adminOnly, transactionHandler.Delete)

	dashboardRoutes := router.NewDomainGroup("dashboard", "/dashboard")
	dashboardRoutes.GET("/resumen", reportHandler.Dashboard)
	dashboardRoutes.GET("/grafico-ingresos", reportHandler.IncomeChart)

	systemRoutes := router.NewDomainGroup("system", "/health")
	systemRoutes.GET("", systemHandler.Health)

	r.Register(authRoutes, userRoutes, clientRoutes, vehicleRoutes, appointmentRoutes,
		invoiceRoutes, receiptRoutes, warrantyRoutes, transactionRoutes, dashboardRoutes, systemRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
