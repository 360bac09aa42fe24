package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/skillcert/skillcert/config"
	"github.com/skillcert/skillcert/database"
	_ "github.com/skillcert/skillcert/docs" // Swagger docs
	adminctrl "github.com/skillcert/skillcert/internal/controller/admin"
	paymentctrl "github.com/skillcert/skillcert/internal/controller/payment"
	userctrl "github.com/skillcert/skillcert/internal/controller/user"
	"github.com/skillcert/skillcert/internal/logger"
	"github.com/skillcert/skillcert/internal/middleware"
	"github.com/skillcert/skillcert/internal/model"
	"github.com/skillcert/skillcert/internal/repository"
	"github.com/skillcert/skillcert/internal/service"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title SkillCert API
// @version 1.0
// @description Certification marketplace: browse certifications, take AI-generated exams, get graded, earn verifiable certificates.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewCertificationRepository,
			repository.NewExamRepository,
			repository.NewQuestionRepository,
			repository.NewAttemptRepository,
			repository.NewCertificateRepository,
			repository.NewPaymentRepository,
			repository.NewSubscriptionRepository,
			repository.NewPromptLogRepository,
		),

		fx.Provide(
			service.NewGeminiLLMService,
			service.NewGradingService,
			service.NewExamService,
			service.NewExamAdminService,
			service.NewAttemptService,
			service.NewCertificationService,
			service.NewStorageProvider,
			service.NewCertificateService,
			service.NewMidtransGateway,
			service.NewCheckoutService,
			service.NewSubscriptionService,
		),

		fx.Provide(
			userctrl.NewCertificationController,
			userctrl.NewAttemptController,
			userctrl.NewCertificateController,
			paymentctrl.NewPaymentController,
			adminctrl.NewAdminController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	certificationCtrl *userctrl.CertificationController,
	attemptCtrl *userctrl.AttemptController,
	certificateCtrl *userctrl.CertificateController,
	paymentCtrl *paymentctrl.PaymentController,
	adminCtrl *adminctrl.AdminController,
) {
	api := router.Group("/api/v1")
	{
		// Public catalog and verification
		api.GET("/certifications", certificationCtrl.ListCertifications)
		api.GET("/certifications/:slug", certificationCtrl.GetCertification)
		api.GET("/certificates/verify/:hash", certificateCtrl.VerifyCertificate)

		// Gateway webhooks authenticate by signature, not bearer token
		api.POST("/webhooks/payment", paymentCtrl.PaymentWebhook)
		api.POST("/webhooks/subscription", paymentCtrl.SubscriptionWebhook)
		api.DELETE("/webhooks/subscription/:external_id", paymentCtrl.SubscriptionDeleted)
	}

	authed := router.Group("/api/v1", middleware.RequireAuth(cfg))
	{
		authed.POST("/attempts", attemptCtrl.CreateAttempt)
		authed.POST("/attempts/:id/start", attemptCtrl.StartAttempt)
		authed.POST("/attempts/:id/submit", attemptCtrl.SubmitAnswers)
		authed.GET("/attempts/:id/result", attemptCtrl.GetResult)
		authed.GET("/results", attemptCtrl.ListResults)

		authed.POST("/attempts/:id/certificate", certificateCtrl.IssueCertificate)
		authed.GET("/subscription", certificateCtrl.GetSubscription)

		authed.POST("/checkout", paymentCtrl.CreateCheckout)
		authed.POST("/checkout/verify", paymentCtrl.VerifyCheckout)
		authed.GET("/payments", paymentCtrl.ListPayments)
	}

	admin := router.Group("/api/v1/admin", middleware.RequireAuth(cfg), middleware.RequireAdmin())
	{
		admin.POST("/certifications", adminCtrl.CreateCertification)
		admin.PUT("/certifications/:id", adminCtrl.UpdateCertification)
		admin.DELETE("/certifications/:id", adminCtrl.DeleteCertification)
		admin.GET("/certifications/:id/exams", adminCtrl.ListExamVersions)
		admin.POST("/certifications/:id/generate", adminCtrl.GenerateExam)

		admin.POST("/exams", adminCtrl.CreateExamVersion)
		admin.GET("/exams/:id", adminCtrl.GetExam)

		admin.POST("/questions", adminCtrl.AddQuestion)
		admin.PUT("/questions/:id", adminCtrl.UpdateQuestion)
		admin.DELETE("/questions/:id", adminCtrl.DeleteQuestion)

		admin.GET("/payments", adminCtrl.ListAllPayments)
		admin.GET("/subscriptions", adminCtrl.ListSubscriptions)
	}

	// Locally stored certificate documents
	if cfg.Storage.Provider == "local" {
		router.Static("/certificates/files", cfg.Storage.LocalPath)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("SkillCert API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) {
	err := db.AutoMigrate(
		&model.Certification{},
		&model.Exam{},
		&model.Question{},
		&model.Attempt{},
		&model.Certificate{},
		&model.Payment{},
		&model.Subscription{},
		&model.PromptLog{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Database migration failed")
	}
	log.Info().Msg("Database migration completed")
}
