package middleware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	authUC "github.com/lifelogger/backend/usecase/auth"
)

type stubValidator struct {
	enabled bool
	valid   string
}

func (s stubValidator) Enabled() bool { return s.enabled }

func (s stubValidator) ValidateSession(token string) error {
	if token != "" && token == s.valid {
		return nil
	}
	return errors.New("invalid session")
}

func request(path, cookie string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI(path)
	if cookie != "" {
		ctx.Request.Header.SetCookie(authUC.CookieName, cookie)
	}
	return ctx
}

func okHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBodyString("ok")
}

func TestPasswordGate(t *testing.T) {
	gate := PasswordGate(stubValidator{enabled: true, valid: "good"}, GateConfig{
		PublicPaths: []string{"/api/verify-password"},
	}, nil)
	h := gate(okHandler)

	tests := []struct {
		name     string
		path     string
		cookie   string
		status   int
		body     string
		location string
	}{
		{name: "api without cookie", path: "/api/tasks", status: 401, body: `{"error":"Authentication required"}`},
		{name: "api with bad cookie", path: "/api/stats/today", cookie: "forged", status: 401, body: `{"error":"Authentication required"}`},
		{name: "api with valid cookie", path: "/api/tasks", cookie: "good", status: 200, body: "ok"},
		{name: "public api path", path: "/api/verify-password", status: 200, body: "ok"},
		{name: "login page", path: "/login", status: 200, body: "ok"},
		{name: "page redirects", path: "/stats", status: 302, location: "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := request(tt.path, tt.cookie)
			h(ctx)
			assert.Equal(t, tt.status, ctx.Response.StatusCode())
			if tt.body != "" {
				assert.Equal(t, tt.body, string(ctx.Response.Body()))
			}
			if tt.location != "" {
				assert.Contains(t, string(ctx.Response.Header.Peek("Location")), tt.location)
			}
		})
	}
}

func TestPasswordGate_DisabledPassesEverything(t *testing.T) {
	h := PasswordGate(stubValidator{enabled: false}, GateConfig{}, nil)(okHandler)
	ctx := request("/api/tasks", "")
	h(ctx)
	assert.Equal(t, 200, ctx.Response.StatusCode())
}

func TestRecover(t *testing.T) {
	h := Chain(func(*fasthttp.RequestCtx) { panic("boom") }, Recover(nil), AccessLog(nil))
	ctx := request("/api/tasks", "")
	h(ctx)
	assert.Equal(t, 500, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"error":"Internal server error"}`, string(ctx.Response.Body()))
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
			return func(ctx *fasthttp.RequestCtx) {
				order = append(order, name)
				next(ctx)
			}
		}
	}
	h := Chain(okHandler, mark("outer"), mark("inner"))
	h(request("/", ""))
	assert.Equal(t, []string{"outer", "inner"}, order)
}
