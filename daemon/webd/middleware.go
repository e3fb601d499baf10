package webd

import (
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	ghandlers "github.com/gorilla/handlers"
	"github.com/rotblauer/catseg/params"
)

// tokenAuthenticationMiddleware checks the request token against the one named by params.WebTokenEnv.
// Without a configured token every request is allowed.
func tokenAuthenticationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		validToken := os.Getenv(params.WebTokenEnv)
		if validToken == "" {
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get("Authorization")
		if token == "" {
			// eg. localhost:3000/segments?api_token=asdfasdfb
			token = r.URL.Query().Get("api_token")
		}
		if token != validToken {
			slog.Warn("Invalid token",
				"method", r.Method, "url", r.URL.String(),
				"remote-addr", r.RemoteAddr, "user-agent", r.UserAgent())
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func permissiveCorsMiddleware(next http.Handler) http.Handler {
	return ghandlers.CORS(
		ghandlers.AllowedOrigins([]string{"*"}),
		ghandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		ghandlers.AllowedHeaders([]string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"}),
	)(next)
}

func contentTypeMiddlewareFunc(contentType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", contentType)
			next.ServeHTTP(w, r)
		})
	}
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	for _, v := range r.Header.Values("X-Forwarded-For") {
		host += "->" + v
	}
	return host
}

func (s *WebDaemon) loggingMiddleware(next http.Handler) http.Handler {
	return ghandlers.CustomLoggingHandler(io.Discard, next, func(_ io.Writer, p ghandlers.LogFormatterParams) {
		s.logger.Info("HTTP",
			"host", remoteHost(p.Request),
			"method", p.Request.Method,
			"uri", p.URL.RequestURI(),
			"status", p.StatusCode,
			"size", p.Size,
			"elapsed", time.Since(p.TimeStamp).Round(time.Millisecond))
	})
}
