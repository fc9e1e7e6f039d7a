package httpcontext

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	appLogger "github.com/lifelogger/backend/pkg/logger"
)

func newRequestCtx() *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	var req fasthttp.Request
	req.SetRequestURI("/api/tasks")
	ctx.Init(&req, &net.TCPAddr{IP: net.ParseIP("10.0.0.7"), Port: 5555}, nil)
	return &ctx
}

func TestAdapter_AttachSetsDeadlineAndRequestID(t *testing.T) {
	ctx := newRequestCtx()
	adapter := NewAdapter(2 * time.Second)

	stdCtx, cancel := adapter.Attach(ctx)
	defer cancel()

	deadline, ok := stdCtx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(2*time.Second), deadline, time.Second)

	reqID := appLogger.RequestIDFromContext(stdCtx)
	require.NotEmpty(t, reqID)
	assert.Equal(t, reqID, string(ctx.Response.Header.Peek(HeaderRequestID)))
	assert.Equal(t, "10.0.0.7", stdCtx.Value(KeyRemoteAddr))
}

func TestRequestID_StableAndHonoursHeader(t *testing.T) {
	ctx := newRequestCtx()
	first := RequestID(ctx)
	assert.Equal(t, first, RequestID(ctx))

	withHeader := newRequestCtx()
	withHeader.Request.Header.Set(HeaderRequestID, "abc-123")
	assert.Equal(t, "abc-123", RequestID(withHeader))
}

func TestClientIP_IgnoresForwardingHeadersFromUntrustedPeers(t *testing.T) {
	adapter := NewAdapter(time.Second)
	ctx := newRequestCtx()
	assert.Equal(t, "10.0.0.7", adapter.ClientIP(ctx))

	ctx.Request.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	ctx.Request.Header.Set("X-Real-IP", "203.0.113.10")
	assert.Equal(t, "10.0.0.7", adapter.ClientIP(ctx))
	assert.Equal(t, "10.0.0.7", PeerIP(ctx))
}

func TestClientIP_TrustedProxy(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/24", " 192.168.1.5 ", ""})
	require.NoError(t, err)
	require.Len(t, proxies, 2)
	adapter := NewAdapter(time.Second, proxies...)

	ctx := newRequestCtx()
	assert.Equal(t, "10.0.0.7", adapter.ClientIP(ctx), "no header falls back to the peer")

	ctx.Request.Header.Set("X-Real-IP", "203.0.113.10")
	assert.Equal(t, "203.0.113.10", adapter.ClientIP(ctx))

	ctx.Request.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", adapter.ClientIP(ctx))
}

func TestParseTrustedProxies_Invalid(t *testing.T) {
	_, err := ParseTrustedProxies([]string{"not-an-ip"})
	assert.Error(t, err)
	_, err = ParseTrustedProxies([]string{"10.0.0.0/99"})
	assert.Error(t, err)
}

func TestNewAdapter_DefaultTimeout(t *testing.T) {
	assert.Equal(t, 5*time.Second, NewAdapter(0).Timeout())
}
