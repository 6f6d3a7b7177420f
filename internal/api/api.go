package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/bugsnag/bugsnag-go/v2"
	"github.com/gofrs/uuid"
	"github.com/gorilla/mux"
	"github.com/valyala/fastjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/bomis-pampore/website-backend/internal/config"
	"github.com/bomis-pampore/website-backend/internal/contact"
	"github.com/bomis-pampore/website-backend/internal/domain"
)

type api struct {
	logger *zap.Logger
	statsd statsd.ClientInterface
	pool   *fastjson.ParserPool

	contact domain.ContactService
	static  http.Handler

	allowedOrigins map[string]bool
	mailTimeout    time.Duration
	reportErrors   bool
}

func NewAPI(cfg *config.Config, logger *zap.Logger, statsd statsd.ClientInterface, mailer domain.Mailer) *api {
	contactService := contact.NewService(contact.Config{
		DestEmail:         cfg.DestEmail,
		ServiceAccount:    cfg.EmailUser,
		AutoReplyFromName: cfg.AutoReplyFromName,
		MailTimeout:       cfg.MailTimeout,
	}, mailer, logger, statsd)

	var allowedOrigins map[string]bool
	if len(cfg.AllowedOrigins) > 0 {
		allowedOrigins = make(map[string]bool, len(cfg.AllowedOrigins))
		for _, origin := range cfg.AllowedOrigins {
			allowedOrigins[origin] = true
		}
	}

	return &api{
		logger: logger,
		statsd: statsd,
		pool:   &fastjson.ParserPool{},

		contact: contactService,
		static:  newSPAHandler(cfg.StaticDir),

		allowedOrigins: allowedOrigins,
		mailTimeout:    cfg.MailTimeout,
		reportErrors:   cfg.BugsnagAPIKey != "",
	}
}

func (a *api) Server(port int) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           bugsnag.Handler(otelhttp.NewHandler(a.corsMiddleware(a.Routes()), "http.server")),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Both contact emails have to fit in one response.
		WriteTimeout: 2*a.mailTimeout + 15*time.Second,
		IdleTimeout:  2 * time.Minute,
	}
}

func (a *api) Routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/health", a.healthCheckHandler).Methods("GET")
	r.HandleFunc("/api/contact", a.contactHandler).Methods("POST")

	r.PathPrefix("/").Handler(a.static).Methods("GET", "HEAD")

	r.Use(a.requestIDMiddleware)
	r.Use(a.loggingMiddleware)

	return r
}

type contextKey int

const requestIDKey contextKey = iota

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (a *api) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.Must(uuid.NewV4()).String()
		}

		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

type LoggingResponseWriter struct {
	w          http.ResponseWriter
	statusCode int
	bytes      int
}

func (lrw *LoggingResponseWriter) Header() http.Header {
	return lrw.w.Header()
}

func (lrw *LoggingResponseWriter) Write(bb []byte) (int, error) {
	if lrw.statusCode == 0 {
		lrw.statusCode = http.StatusOK
	}
	wb, err := lrw.w.Write(bb)
	lrw.bytes += wb
	return wb, err
}

func (lrw *LoggingResponseWriter) WriteHeader(statusCode int) {
	lrw.w.WriteHeader(statusCode)
	lrw.statusCode = statusCode
}

func (a *api) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip logging health checks
		if r.URL.Path == "/api/health" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		lrw := &LoggingResponseWriter{w: w}
		next.ServeHTTP(lrw, r)

		remoteAddr := r.Header.Get("X-Forwarded-For")
		if remoteAddr == "" {
			if ip, _, err := net.SplitHostPort(r.RemoteAddr); err != nil {
				remoteAddr = "unknown"
			} else {
				remoteAddr = ip
			}
		}

		fields := []zap.Field{
			zap.Int64("duration", time.Since(start).Milliseconds()),
			zap.String("method", r.Method),
			zap.String("remote#addr", remoteAddr),
			zap.String("request#id", requestID(r.Context())),
			zap.Int("response#bytes", lrw.bytes),
			zap.Int("status", lrw.statusCode),
			zap.String("uri", r.RequestURI),
		}

		if lrw.statusCode >= http.StatusInternalServerError {
			a.logger.Error("request failed", fields...)
		} else {
			a.logger.Info("request", fields...)
		}
	})
}

const corsAllowedMethods = "GET,HEAD,PUT,PATCH,POST,DELETE"

// corsMiddleware allows every origin unless an allow list is configured, and
// answers preflight requests itself.
func (a *api) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		switch {
		case a.allowedOrigins == nil:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case a.allowedOrigins[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.Header().Set("Access-Control-Allow-Methods", corsAllowedMethods)
			if headers := r.Header.Get("Access-Control-Request-Headers"); headers != "" {
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Add("Vary", "Access-Control-Request-Headers")
			}
			w.Header().Set("Content-Length", "0")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
