// @title Trainhub API
// @version 1.0
// @description Corporate training backend: courses, assignments, quizzes and employee provisioning.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"trainhub/internal/adapter"
	"trainhub/internal/adapter/objectstore"
	"trainhub/internal/cache"
	"trainhub/internal/config"
	"trainhub/internal/database"
	"trainhub/internal/domain"
	"trainhub/internal/handler"
	"trainhub/internal/logger"
	"trainhub/internal/middleware"
	"trainhub/internal/repository"
	"trainhub/internal/service"

	_ "trainhub/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)
		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Successfully connected to Redis")

	var (
		objects    domain.ObjectStore
		localStore *objectstore.FileStore
	)
	switch cfg.Storage.Driver {
	case objectstore.DriverSupabase:
		objects, err = objectstore.NewSupabaseStore(cfg.Storage)
	case objectstore.DriverLocal, "":
		localStore, err = objectstore.NewFileStore(cfg.Storage)
		objects = localStore
	default:
		err = fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		appLogger.Fatal("Failed to open object store", zap.Error(err))
	}
	appLogger.Info("Object store ready", zap.String("driver", cfg.Storage.Driver))

	// Repositories
	courseRepo := repository.NewCourseDatabaseAdapter(db)
	questionRepo := repository.NewQuestionDatabaseAdapter(db)
	employeeRepo := repository.NewEmployeeDatabaseAdapter(db)
	assignmentRepo := repository.NewAssignmentDatabaseAdapter(db)
	resultRepo := repository.NewResultDatabaseAdapter(db)
	identityRepo := repository.NewIdentityDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	publisher := adapter.NewRedisPublisher(redisClient)

	// Services
	authService, err := service.NewAuthService(identityRepo, cacheAdapter, cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	roleResolver := service.NewRoleResolver(authService)
	identityService := service.NewIdentityService(identityRepo)

	notificationService, err := service.NewNotificationService(publisher, cfg.Notification.Topic)
	if err != nil {
		appLogger.Fatal("Failed to create NotificationService", zap.Error(err))
	}

	catalogService := service.NewCatalogService(courseRepo, questionRepo, txManager, objects)
	assignmentService := service.NewAssignmentService(employeeRepo, assignmentRepo, courseRepo, resultRepo)
	quizService := service.NewQuizService(service.QuizDeps{
		Employees:   employeeRepo,
		Assignments: assignmentRepo,
		Courses:     courseRepo,
		Questions:   questionRepo,
		Results:     resultRepo,
		Cache:       cacheAdapter,
		Notifier:    notificationService,
	}, cfg.Quiz, cfg.Notification)
	videoService := service.NewVideoService(courseRepo, objects)
	provisioningService := service.NewProvisioningService(identityService, employeeRepo, assignmentRepo, txManager)
	appLogger.Info("Services initialized")

	// Handlers
	validation := middleware.NewValidationMiddleware()
	authHandler := handler.NewAuthHandler(authService, validation)
	courseHandler := handler.NewCourseHandler(catalogService, validation, cfg.Storage.MaxUploadBytes)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, validation)
	quizHandler := handler.NewQuizHandler(quizService, validation)
	videoHandler := handler.NewVideoHandler(videoService, validation)
	employeeHandler := handler.NewEmployeeHandler(provisioningService, validation)
	functionHandler := handler.NewFunctionHandler(provisioningService, notificationService, validation)
	healthHandler := handler.NewHealthHandler(map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
		"cache":    cacheAdapter.Ping,
	})

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(recover.New())
	// Functions send their own CORS headers.
	app.Use(cors.New(cors.Config{
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/functions")
		},
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", healthHandler.Health)

	apiGroup := app.Group("/api")
	protected := middleware.Protected(authService)
	employeeOnly := middleware.RequireRole(roleResolver, domain.RoleEmployee)
	managerOnly := middleware.RequireRole(roleResolver, domain.RoleManager)
	ids := validation.ValidateIDParams("id")

	// Auth routes
	authGroup := apiGroup.Group("/auth")
	authGroup.Post("/signin", authHandler.SignIn)
	authGroup.Post("/signout", protected, authHandler.SignOut)
	authGroup.Get("/me", protected, authHandler.Me)
	authGroup.Get("/session", protected, authHandler.Session)

	// Employee routes
	apiGroup.Get("/me/courses", protected, employeeOnly, assignmentHandler.MyCourses)
	apiGroup.Get("/me/assignments/:id/results", protected, employeeOnly, ids, assignmentHandler.MyResults)
	apiGroup.Get("/courses/:id/video", protected, employeeOnly, ids, videoHandler.Playback)
	apiGroup.Post("/video/progress", protected, employeeOnly, videoHandler.Progress)

	quizGroup := apiGroup.Group("/quiz/sessions", protected, employeeOnly)
	quizGroup.Post("/", quizHandler.Start)
	quizGroup.Get("/:id", ids, quizHandler.Get)
	quizGroup.Post("/:id/answer", ids, quizHandler.Answer)
	quizGroup.Post("/:id/next", ids, quizHandler.Next)
	quizGroup.Post("/:id/previous", ids, quizHandler.Previous)
	quizGroup.Post("/:id/retake", ids, quizHandler.Retake)
	quizGroup.Delete("/:id", ids, quizHandler.Close)

	// Manager routes
	adminGroup := apiGroup.Group("/admin", protected, managerOnly)
	adminGroup.Get("/courses", courseHandler.ListCourses)
	adminGroup.Post("/courses", courseHandler.CreateCourse)
	adminGroup.Get("/courses/:id", ids, courseHandler.GetCourse)
	adminGroup.Put("/courses/:id", ids, courseHandler.UpdateCourse)
	adminGroup.Delete("/courses/:id", ids, courseHandler.DeleteCourse)
	adminGroup.Get("/courses/:id/questions", ids, courseHandler.ListQuestions)
	adminGroup.Post("/courses/:id/questions", ids, courseHandler.AddQuestion)
	adminGroup.Put("/courses/:id/questions/:questionId", validation.ValidateIDParams("id", "questionId"), courseHandler.UpdateQuestion)
	adminGroup.Delete("/courses/:id/questions/:questionId", validation.ValidateIDParams("id", "questionId"), courseHandler.DeleteQuestion)
	adminGroup.Post("/videos", courseHandler.UploadVideo)

	adminGroup.Get("/employees", employeeHandler.List)
	adminGroup.Put("/employees/:id/active", ids, employeeHandler.SetActive)
	adminGroup.Delete("/employees/:id", ids, employeeHandler.Delete)

	adminGroup.Get("/assignments", assignmentHandler.List)
	adminGroup.Post("/assignments", assignmentHandler.Assign)
	adminGroup.Delete("/assignments/:id", ids, assignmentHandler.Delete)
	adminGroup.Get("/assignments/:id/results", ids, assignmentHandler.Results)
	adminGroup.Get("/overview", assignmentHandler.Overview)

	// Functions
	functionGroup := apiGroup.Group("/functions", handler.FunctionCORS())
	functionGroup.Options("/create-employee", functionHandler.Preflight)
	functionGroup.Post("/create-employee", protected, managerOnly, functionHandler.CreateEmployee)
	functionGroup.Post("/quiz-completion", protected, managerOnly, functionHandler.QuizCompletion)

	// Signed object URLs carry their own token.
	if localStore != nil {
		app.Get(objectstore.ObjectPath, handler.NewStorageHandler(localStore).Object)
	}

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
