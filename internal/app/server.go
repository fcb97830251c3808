// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"screenerbot-gateway/internal/config"
	"screenerbot-gateway/internal/db"
	"screenerbot-gateway/internal/domain/event"
	activityHandler "screenerbot-gateway/internal/handlers/activity"
	assistantHandler "screenerbot-gateway/internal/handlers/assistant"
	authHandler "screenerbot-gateway/internal/handlers/auth"
	callHandler "screenerbot-gateway/internal/handlers/call"
	campaignHandler "screenerbot-gateway/internal/handlers/campaign"
	kbHandler "screenerbot-gateway/internal/handlers/knowledgebase"
	wsHandler "screenerbot-gateway/internal/handlers/websocket"
	"screenerbot-gateway/internal/middleware"
	"screenerbot-gateway/internal/pkg/identity"
	"screenerbot-gateway/internal/pkg/jwt"
	"screenerbot-gateway/internal/pkg/session"
	"screenerbot-gateway/internal/pkg/vapi"
	activityUsecase "screenerbot-gateway/internal/service/activity"
	assistantUsecase "screenerbot-gateway/internal/service/assistant"
	authUsecase "screenerbot-gateway/internal/service/auth"
	callUsecase "screenerbot-gateway/internal/service/call"
	campaignUsecase "screenerbot-gateway/internal/service/campaign"
	kbUsecase "screenerbot-gateway/internal/service/knowledgebase"
	"screenerbot-gateway/internal/websocket"
	wsHandlers "screenerbot-gateway/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownGrace = 10 * time.Second

type Server struct {
	cfg         config.AppConfig
	engine      *gin.Engine
	httpServer  *http.Server
	logger      *zap.Logger
	hub         *websocket.Hub
	activity    *activityUsecase.Service
	redisClient *redis.Client
	verifier    *identity.Verifier
}

// NewServer wires every collaborator named by cfg. store may be nil.
func NewServer(cfg config.AppConfig, store event.Store, logger *zap.Logger) (*Server, error) {
	engine := gin.New()
	// Without a trusted list gin honours X-Forwarded-For from any peer.
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Redis (optional) -----
	var (
		redisClient *redis.Client
		rateLimiter authUsecase.LoginLimiter
	)
	if cfg.RedisAddr != "" {
		redisClient, err = db.NewRedisClient(db.RedisConfig{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPass,
			PoolSize: 10,
		})
		if err != nil {
			// The limiter fails open, so a Redis outage at boot only disables it.
			logger.Warn("login rate limiting disabled", zap.Error(err))
			redisClient = nil
		} else {
			rateLimiter = session.NewRateLimiter(redisClient, cfg.LoginMaxAttempts, cfg.LoginWindow)
			logger.Info("login rate limiting enabled", zap.String("redis", cfg.RedisAddr))
		}
	}

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(logger)

	// ----- Activity -----
	activityService := activityUsecase.NewService(store, logger, hub)
	if err := hub.RegisterHandler(wsHandlers.NewActivityHandler(activityService)); err != nil {
		return nil, fmt.Errorf("failed to register activity feed handler: %w", err)
	}

	// ----- Upstream -----
	vapiClient := vapi.New(vapi.Config{
		BaseURL:        cfg.Vapi.BaseURL,
		StorageBaseURL: cfg.Vapi.StorageBaseURL,
		APIKey:         cfg.Vapi.APIKey,
		Timeout:        cfg.Vapi.Timeout,

		MaxRecordingBytes: cfg.RecordingMaxBytes,
	})
	verifier := identity.NewVerifier()
	if cfg.GoogleJWKSURL != "" {
		verifier.JWKSURL = cfg.GoogleJWKSURL
	}

	// ----- Services (Usecases) -----
	authService := authUsecase.NewAuthService(
		verifier,
		jwtManager,
		rateLimiter,
		activityService,
		authUsecase.Options{GoogleClientID: cfg.GoogleClientID, AdminEmails: cfg.AdminEmails},
		logger,
	)
	callService := callUsecase.NewCallService(vapiClient, activityService, callUsecase.Options{
		PhoneNumberID:          cfg.Vapi.PhoneNumberID,
		DefaultAssistantID:     cfg.Vapi.DefaultAssistantID,
		RecordingMaxConcurrent: cfg.RecordingMaxConcurrent,
	}, logger)
	assistantService := assistantUsecase.NewAssistantService(vapiClient, activityService, assistantUsecase.Defaults{
		Model:            cfg.Assistant.Model,
		VoiceID:          cfg.Assistant.VoiceID,
		TranscriberModel: cfg.Assistant.TranscriberModel,
	}, logger)
	campaignService := campaignUsecase.NewCampaignService(vapiClient, activityService, logger)
	kbService := kbUsecase.NewKnowledgeBaseService(vapiClient, activityService, logger)

	// ----- Middlewares -----
	engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:          authHandler.NewAuthHandler(authService, logger),
		CallHandler:          callHandler.NewCallHandler(callService, logger),
		AssistantHandler:     assistantHandler.NewAssistantHandler(assistantService, logger),
		CampaignHandler:      campaignHandler.NewCampaignHandler(campaignService),
		KnowledgeBaseHandler: kbHandler.NewKnowledgeBaseHandler(kbService, logger),
		ActivityHandler:      activityHandler.NewActivityHandler(activityService),
		WSHandler:            wsHandler.NewWebSocketHandler(hub, cfg.CORSOrigins, logger),
		AuthMiddleware:       middleware.NewAuthMiddleware(authService),
		StorageBackend:       cfg.StorageBackend(),
	}
	SetupRouter(engine, handlers)

	return &Server{
		cfg:    cfg,
		engine: engine,
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:      logger,
		hub:         hub,
		activity:    activityService,
		redisClient: redisClient,
		verifier:    verifier,
	}, nil
}

// Handler exposes the routed engine.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP and the activity hub until ctx is cancelled, then drains
// in-flight requests for up to shutdownGrace.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		s.logger.Info("server listening",
			zap.String("addr", s.cfg.HTTPAddr),
			zap.String("storage", s.cfg.StorageBackend()),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if closeErr := s.Close(); closeErr != nil {
		s.logger.Warn("failed to release resources", zap.Error(closeErr))
	}
	return err
}

// Close releases storage and Redis connections.
func (s *Server) Close() error {
	s.verifier.Close()

	var errs []error
	if err := s.activity.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
