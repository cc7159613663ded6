package server

import (
	"database/sql"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/mediscan/mediscan/internal/analysis"
	"github.com/mediscan/mediscan/internal/auth"
	"github.com/mediscan/mediscan/internal/config"
	"github.com/mediscan/mediscan/internal/email"
	"github.com/mediscan/mediscan/internal/enhance"
	"github.com/mediscan/mediscan/internal/handler"
	"github.com/mediscan/mediscan/internal/middleware"
	"github.com/mediscan/mediscan/internal/push"
	"github.com/mediscan/mediscan/internal/storage"
	"github.com/mediscan/mediscan/internal/store"
	ws "github.com/mediscan/mediscan/internal/websocket"
)

type Server struct {
	db           *sql.DB
	cfg          config.Config
	hub          *ws.Hub
	authSvc      *auth.Service
	authH        *handler.AuthHandler
	reportH      *handler.ReportHandler
	enhanceH     *handler.EnhanceHandler
	analyzeH     *handler.AnalyzeHandler
	emailH       *handler.EmailHandler
	uploadH      *handler.UploadHandler
	pushH        *handler.PushHandler
	pageH        *handler.PageHandler
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	mediaRoot    string
	logger       *slog.Logger
}

func New(db *sql.DB, cfg config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	reportStore := store.NewReportStore(db)
	emailLogStore := store.NewEmailLogStore(db)
	pushStore := store.NewPushStore(db)

	authSvc := auth.NewService(userStore, sessionStore, logger.With("component", "auth"))

	pushSvc := push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
	var notifier *push.Notifier
	if pushSvc.Configured() {
		notifier = push.NewNotifier(pushSvc, pushStore, logger.With("component", "push"))
	}

	pipeline := enhance.NewPipeline(reportStore, hub, notifier, logger.With("component", "enhance"))

	analysisClient := analysis.NewClient(analysis.Config{
		APIKey: cfg.GroqAPIKey,
		Model:  cfg.GroqModel,
	}, logger.With("component", "analysis"))

	emailClient := email.NewClient(cfg.PostmarkToken, cfg.FromEmail)

	s3Cfg := storage.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	}
	var images storage.ImageStore
	mediaRoot := ""
	if s3Cfg.Configured() {
		images = storage.NewS3Store(s3Cfg)
	} else {
		images = storage.NewLocalStore(cfg.MediaPath)
		mediaRoot = cfg.MediaPath
	}

	templates := template.Must(template.ParseGlob("web/templates/*.html"))

	var pushH *handler.PushHandler
	if pushSvc.Configured() {
		pushH = handler.NewPushHandler(pushStore, pushSvc, authSvc, logger.With("component", "push_handler"))
	}

	return &Server{
		db:           db,
		cfg:          cfg,
		hub:          hub,
		authSvc:      authSvc,
		authH:        handler.NewAuthHandler(authSvc, cfg.Production(), logger.With("component", "auth_handler")),
		reportH:      handler.NewReportHandler(reportStore, authSvc, logger.With("component", "report")),
		enhanceH:     handler.NewEnhanceHandler(pipeline, reportStore, authSvc, logger.With("component", "enhance_handler")),
		analyzeH:     handler.NewAnalyzeHandler(analysisClient, reportStore, hub, authSvc, logger.With("component", "analyze")),
		emailH:       handler.NewEmailHandler(emailClient, reportStore, emailLogStore, authSvc, cfg.BaseURL, logger.With("component", "email")),
		uploadH:      handler.NewUploadHandler(images, authSvc, logger.With("component", "upload")),
		pushH:        pushH,
		pageH:        handler.NewPageHandler(templates, authSvc, reportStore, logger.With("component", "pages")),
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		mediaRoot:    mediaRoot,
		logger:       logger,
	}
}

// SessionStore returns the session store for the background sweeper.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for the background sweeper.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Public routes - on the gate's allow-list
	mux.HandleFunc("GET /{$}", s.pageH.Index)
	mux.HandleFunc("GET /login", s.pageH.LoginPage)
	mux.HandleFunc("GET /register", s.pageH.RegisterPage)
	mux.HandleFunc("POST /api/auth/register", s.rateLimited(s.authH.Register))
	mux.HandleFunc("POST /api/auth/login", s.rateLimited(s.authH.Login))

	// Everything below requires a valid session; the gate enforces it.
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/auth/me", s.authH.Me)

	mux.HandleFunc("POST /api/reports", s.reportH.Create)
	mux.HandleFunc("GET /api/reports", s.reportH.List)
	mux.HandleFunc("GET /api/reports/{id}", s.reportH.Get)
	mux.HandleFunc("GET /api/image-status/{id}", s.reportH.ImageStatus)

	mux.HandleFunc("POST /api/enhance-image", s.enhanceH.Enhance)
	mux.HandleFunc("POST /api/analyze-medical", s.analyzeH.Analyze)
	mux.HandleFunc("POST /api/send-report-email", s.emailH.SendReport)
	mux.HandleFunc("POST /api/upload", s.uploadH.Upload)

	if s.pushH != nil {
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("DELETE /api/push/subscribe", s.pushH.Unsubscribe)
	}

	mux.HandleFunc("GET /dashboard", s.pageH.Dashboard)
	mux.HandleFunc("GET /reports", s.pageH.ReportsPage)
	mux.HandleFunc("GET /reports/{id}", s.pageH.ReportDetailPage)

	mux.HandleFunc("GET /ws", ws.Handle(s.hub, s.logger.With("component", "ws_handler")))

	if s.mediaRoot != "" {
		mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(s.mediaRoot))))
	}
	mux.HandleFunc("GET /health", s.healthHandler)

	gateCfg := middleware.DefaultGateConfig()
	gateCfg.PublicPages = append(gateCfg.PublicPages, "/health")

	gate := middleware.AuthGate(gateCfg, s.authSvc, s.logger.With("component", "gate"))
	return middleware.RequestLogger(s.logger.With("component", "http"))(gate(mux))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
