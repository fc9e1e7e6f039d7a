package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/lifelogger/backend/api/transport"
	"github.com/lifelogger/backend/domain"
	"github.com/lifelogger/backend/pkg/httpcontext"
	authUC "github.com/lifelogger/backend/usecase/auth"
)

// LoginPath is where unauthenticated page requests and logouts are sent.
const LoginPath = "/login"

type AuthHandler struct {
	baseHandler
	uc           *authUC.UseCase
	validator    *transport.Validator
	secureCookie bool
}

func NewAuthHandler(uc *authUC.UseCase, validator *transport.Validator, secureCookie bool, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler:  newBaseHandler(adapter, logger),
		uc:           uc,
		validator:    validator,
		secureCookie: secureCookie,
	}
}

// @Summary Exchange the site password for a session cookie
// @Tags auth
// @Router /api/verify-password [post]
func (h *AuthHandler) VerifyPassword(ctx *fasthttp.RequestCtx) {
	var req transport.VerifyPasswordRequest
	if body := ctx.PostBody(); len(body) > 0 {
		if err := h.validator.Decode(transport.SchemaVerifyPassword, body, &req); err != nil {
			req = transport.VerifyPasswordRequest{}
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.VerifyPassword(stdCtx, h.clientIP(ctx), req.Password)
	switch {
	case errors.Is(err, domain.ErrIncorrectPassword):
		h.respondJSON(ctx, http.StatusUnauthorized, transport.VerifyPasswordResponse{
			Success: false,
			Error:   domain.ErrIncorrectPassword.Message,
		})
		return
	case err != nil:
		h.respondError(stdCtx, ctx, err)
		return
	}

	h.setSessionCookie(ctx, session.Token, session.ExpiresAt)
	h.respondJSON(ctx, http.StatusOK, transport.VerifyPasswordResponse{
		Success: true,
		Message: "Login successful",
	})
}

// @Summary Clear the session cookie
// @Tags auth
// @Router /logout [get]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	h.setSessionCookie(ctx, "", fasthttp.CookieExpireDelete)
	ctx.Redirect(LoginPath, http.StatusFound)
}

func (h *AuthHandler) setSessionCookie(ctx *fasthttp.RequestCtx, value string, expires time.Time) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)

	cookie.SetKey(authUC.CookieName)
	cookie.SetValue(value)
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetSecure(h.secureCookie)
	cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	cookie.SetExpire(expires)
	ctx.Response.Header.SetCookie(cookie)
}
