package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prehireio/prehire/config"
	"github.com/prehireio/prehire/database"
	_ "github.com/prehireio/prehire/docs" // Swagger docs
	"github.com/prehireio/prehire/internal/controller"
	adminctrl "github.com/prehireio/prehire/internal/controller/admin"
	applicantctrl "github.com/prehireio/prehire/internal/controller/applicant"
	"github.com/prehireio/prehire/internal/logger"
	"github.com/prehireio/prehire/internal/middleware"
	"github.com/prehireio/prehire/internal/model"
	"github.com/prehireio/prehire/internal/notifier"
	"github.com/prehireio/prehire/internal/repository"
	"github.com/prehireio/prehire/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Pre-Hire Testing API
// @version 1.0
// @description API for pre-interview testing: test management, applicant invitations, scheduled test taking with auto and manual scoring, and WebRTC monitoring signaling.
// @contact.name API Support
// @contact.email support@prehire.io
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
			notifier.NewNotifier,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewTestRepository,
			repository.NewInviteRepository,
			repository.NewSubmissionRepository,
			repository.NewAnswerRepository,
			repository.NewSignalRepository,
			repository.NewAdvisoryLocker,
		),

		// Services Layer
		fx.Provide(
			service.NewAuthService,
			service.NewAdminTestService,
			service.NewInviteService,
			service.NewScoringService,
			service.NewLifecycleService,
			service.NewResultsService,
			service.NewSignalingService,
		),

		// API Controllers Layer
		fx.Provide(
			controller.NewAuthController,
			adminctrl.NewAdminTestController,
			adminctrl.NewInviteController,
			adminctrl.NewResultsController,
			adminctrl.NewScoringController,
			applicantctrl.NewTakeTestController,
			applicantctrl.NewWebRTCController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
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

	// Swagger UI: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authCtrl *controller.AuthController,
	adminTestCtrl *adminctrl.AdminTestController,
	inviteCtrl *adminctrl.InviteController,
	resultsCtrl *adminctrl.ResultsController,
	scoringCtrl *adminctrl.ScoringController,
	takeTestCtrl *applicantctrl.TakeTestController,
	webrtcCtrl *applicantctrl.WebRTCController,
) {
	api := router.Group("/api")

	// Auth
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authCtrl.Register)
		authGroup.POST("/login", authCtrl.Login)
		authGroup.GET("/me", middleware.RequireAuth(cfg), authCtrl.Me)
	}

	// Admin routes
	adminGroup := api.Group("", middleware.RequireAuth(cfg), middleware.RequireAdmin())
	{
		testsGroup := adminGroup.Group("/tests")
		testsGroup.POST("", adminTestCtrl.CreateTest)
		testsGroup.GET("", adminTestCtrl.GetTests)
		testsGroup.GET("/:test_id", adminTestCtrl.GetTest)
		testsGroup.PUT("/:test_id", adminTestCtrl.UpdateTest)
		testsGroup.DELETE("/:test_id", adminTestCtrl.DeleteTest)

		adminGroup.POST("/invites", inviteCtrl.CreateInvite)
		adminGroup.GET("/invites", inviteCtrl.GetInvites)

		adminGroup.GET("/results", resultsCtrl.GetResults)
		adminGroup.GET("/results/:submission_id", resultsCtrl.GetResultDetail)
		adminGroup.GET("/scoring/queue", resultsCtrl.GetScoringQueue)
		adminGroup.POST("/scoring/answers/:answer_id", scoringCtrl.ScoreAnswer)
	}

	// Applicant routes; the invite token in the URL is the credential.
	{
		api.GET("/invites/token/:token", takeTestCtrl.GetInviteByToken)
		api.POST("/invites/token/:token/schedule", takeTestCtrl.ScheduleTest)
		api.GET("/take-test/:token", takeTestCtrl.GetTestForTaking)
		api.POST("/start-test/:token", takeTestCtrl.StartTest)
		api.POST("/submit-test/:token", takeTestCtrl.SubmitTest)
		api.GET("/my-invites", middleware.RequireAuth(cfg), takeTestCtrl.GetMyInvites)
	}

	// WebRTC signaling mailbox, polled by both peers.
	webrtcGroup := api.Group("/webrtc")
	{
		webrtcGroup.POST("/offer", webrtcCtrl.PostOffer)
		webrtcGroup.POST("/answer", webrtcCtrl.PostAnswer)
		webrtcGroup.POST("/ice-candidate", webrtcCtrl.PostICECandidate)
		webrtcGroup.GET("/signals/:invite_id", webrtcCtrl.GetSignals)
		webrtcGroup.POST("/start-session/:invite_id", webrtcCtrl.StartSession)
		webrtcGroup.POST("/end-session/:invite_id", webrtcCtrl.EndSession)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Pre-hire testing API starting on port %s", cfg.Server.Port)
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

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Test{},
		&model.Question{},
		&model.Invite{},
		&model.Submission{},
		&model.Answer{},
		&model.Signal{},
		&model.SignalSession{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
