package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/config"
	"github.com/tuanvumaihuynh/product-catalog/internal/http/metric"
	"github.com/tuanvumaihuynh/product-catalog/internal/http/middleware"
	"github.com/tuanvumaihuynh/product-catalog/internal/http/render"
	"github.com/tuanvumaihuynh/product-catalog/internal/http/swagger"
	"github.com/tuanvumaihuynh/product-catalog/internal/service"
	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg     config.HTTP
	logger  *slog.Logger
	metrics *metric.Metrics

	productSvc service.ProductService
	authSvc    service.AuthService
	verifier   middleware.TokenVerifier
	health     db.HealthChecker

	uploadsPath string
	uploadsDir  string
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	productSvc service.ProductService,
	authSvc service.AuthService,
	verifier middleware.TokenVerifier,
	health db.HealthChecker,
) *Service {
	return &Service{
		cfg:        cfg,
		logger:     log.With(slog.String("service", "http")),
		metrics:    metric.New(),
		productSvc: productSvc,
		authSvc:    authSvc,
		verifier:   verifier,
		health:     health,
	}
}

// ServeUploads exposes files written by the local image store under
// publicPath.
func (s *Service) ServeUploads(publicPath, dir string) *Service {
	s.uploadsPath = "/" + strings.Trim(publicPath, "/")
	s.uploadsDir = dir
	return s
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	handler, err := s.Handler(ctx)
	if err != nil {
		return nil, err
	}

	return s.RunWithServer(ctx, handler)
}

// Handler builds the complete router.
func (s *Service) Handler(ctx context.Context) (http.Handler, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		if err := swagger.Register(ctx, r); err != nil {
			return nil, fmt.Errorf("register swagger: %w", err)
		}
	}

	s.RegisterHandlers(r)

	return r, nil
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server stopped", slog.Any("error", err))
		}
	}()

	s.logger.InfoContext(ctx, "http server listening", slog.String("addr", ln.Addr().String()))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.CORSAllowedOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	products := newProductHandler(s.logger, s.productSvc, s.cfg.MaxUploadSize)
	admins := newAuthHandler(s.logger, s.authSvc)
	authenticate := middleware.Authenticate(s.verifier, s.handleError)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", admins.Login)
			r.Post("/register", admins.Register)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Get("/me", admins.Me)
				r.Post("/logout", admins.Logout)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.ListProducts)
			r.Get("/categories", products.ListCategories)
			r.Get("/{slug}", products.GetProduct)
			r.Get("/{slug}/related", products.ListRelatedProducts)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/", products.CreateProduct)
				r.Put("/{slug}", products.UpdateProduct)
				r.Delete("/{slug}", products.DeleteProduct)
			})
		})
	})

	if s.uploadsDir != "" {
		fs := http.StripPrefix(s.uploadsPath, http.FileServer(http.Dir(s.uploadsDir)))
		r.Handle(s.uploadsPath+"/*", fs)
	}

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.handleError(w, r, apperr.RouteNotFoundErr)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, s.logger, http.StatusMethodNotAllowed, render.Envelope{
			Success: false,
			Message: "method not allowed",
			Error:   "METHOD_NOT_ALLOWED",
		})
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	healthy, err := s.health.IsHealthy(r.Context())
	if err != nil || !healthy {
		s.logger.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
		render.JSON(w, r, s.logger, http.StatusServiceUnavailable, render.Envelope{
			Success: false,
			Message: "database unavailable",
			Error:   "SERVICE_UNAVAILABLE",
		})
		return
	}

	render.OK(w, r, s.logger, http.StatusOK, map[string]string{"status": "ok"}, "")
}

func (s *Service) handleError(w http.ResponseWriter, r *http.Request, err error) {
	render.Error(w, r, s.logger, err)
}
