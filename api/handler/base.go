package handler

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/lifelogger/backend/api/transport"
	"github.com/lifelogger/backend/domain"
	"github.com/lifelogger/backend/pkg/httpcontext"
	appLogger "github.com/lifelogger/backend/pkg/logger"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

// clientIP is the caller address used for per-client limits.
func (h baseHandler) clientIP(ctx *fasthttp.RequestCtx) string {
	if h.adapter != nil {
		return h.adapter.ClientIP(ctx)
	}
	return httpcontext.PeerIP(ctx)
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("encode response", zap.Error(err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		body = []byte(`{"error":"Internal server error"}`)
	}
	ctx.SetBody(body)
}

func (h baseHandler) respondMessage(ctx *fasthttp.RequestCtx, status int, message string) {
	h.respondJSON(ctx, status, transport.NewMessage(message))
}

func (h baseHandler) respondValidation(ctx *fasthttp.RequestCtx, message string) {
	h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(message))
}

func (h baseHandler) respondError(stdCtx context.Context, ctx *fasthttp.RequestCtx, err error) {
	status := mapError(err)
	body := transport.NewError(errorMessage(err))

	if status == http.StatusTooManyRequests {
		seconds := retryAfterSeconds(domain.RetryAfterOf(err))
		body.RetryAfter = seconds
		ctx.Response.Header.Set("Retry-After", strconv.Itoa(seconds))
	}
	if status == http.StatusInternalServerError {
		appLogger.WithRequestID(stdCtx, h.logger).Error("request failed",
			zap.String("path", string(ctx.Path())),
			zap.Error(err),
		)
	}
	h.respondJSON(ctx, status, body)
}

func mapError(err error) int {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized
	case domain.IsDomainError(err, domain.ErrCodeTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the client-facing text: the domain message when there
// is one, the raw error text otherwise.
func errorMessage(err error) string {
	var dErr *domain.Error
	if errors.As(err, &dErr) && dErr.Code != domain.ErrCodeInternal {
		return dErr.Message
	}
	return err.Error()
}

func retryAfterSeconds(d time.Duration) int {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

// queryDate parses an optional YYYY-MM-DD query argument. Absent means the zero date.
func queryDate(ctx *fasthttp.RequestCtx, name string) (time.Time, error) {
	raw := string(ctx.QueryArgs().Peek(name))
	if raw == "" {
		return time.Time{}, nil
	}
	return domain.ParseDate(raw)
}

// bodyDate parses an optional YYYY-MM-DD body field.
func bodyDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return domain.ParseDate(raw)
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

// pathID reads the {id} route parameter. ok is false when it is not an integer.
func pathID(ctx *fasthttp.RequestCtx) (int64, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// NotFound is the JSON fallback for unknown routes.
func NotFound(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusNotFound)
	ctx.SetBodyString(`{"error":"Not found"}`)
}

// MethodNotAllowed is the JSON fallback for known paths with the wrong verb.
func MethodNotAllowed(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusMethodNotAllowed)
	ctx.SetBodyString(`{"error":"Method not allowed"}`)
}
