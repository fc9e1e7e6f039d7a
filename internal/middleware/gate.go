package middleware

import (
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	authUC "github.com/lifelogger/backend/usecase/auth"
)

// SessionValidator checks a session token.
type SessionValidator interface {
	Enabled() bool
	ValidateSession(token string) error
}

// GateConfig lists the paths that bypass the gate and where pages redirect.
type GateConfig struct {
	PublicPaths []string
	LoginPath   string
}

// PasswordGate rejects requests without a valid session cookie. API paths get
// a JSON 401, everything else is redirected to the login page.
func PasswordGate(validator SessionValidator, cfg GateConfig, logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	public := make(map[string]struct{}, len(cfg.PublicPaths)+1)
	public[cfg.LoginPath] = struct{}{}
	for _, p := range cfg.PublicPaths {
		public[p] = struct{}{}
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if validator == nil || !validator.Enabled() {
				next(ctx)
				return
			}
			path := string(ctx.Path())
			if _, ok := public[path]; ok {
				next(ctx)
				return
			}

			token := string(ctx.Request.Header.Cookie(authUC.CookieName))
			if err := validator.ValidateSession(token); err == nil {
				next(ctx)
				return
			} else if token != "" {
				logger.Debug("rejected session", zap.String("path", path), zap.Error(err))
			}

			if isAPIPath(path) {
				ctx.Response.Header.SetContentType("application/json")
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				ctx.SetBodyString(`{"error":"Authentication required"}`)
				return
			}
			ctx.Redirect(cfg.LoginPath, fasthttp.StatusFound)
		}
	}
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}
