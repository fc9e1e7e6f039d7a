package httpcontext

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/lifelogger/backend/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

const (
	HeaderRequestID = "X-Request-ID"

	requestIDValue = "request_id"
)

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout        time.Duration
	trustedProxies []*net.IPNet
}

// NewAdapter constructs a new Adapter using the provided timeout. Forwarding
// headers are only honoured for peers inside trustedProxies.
func NewAdapter(timeout time.Duration, trustedProxies ...*net.IPNet) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout:        timeout,
		trustedProxies: trustedProxies,
	}
}

// ParseTrustedProxies accepts IP addresses and CIDR ranges.
func ParseTrustedProxies(values []string) ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(values))
	for _, raw := range values {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !strings.Contains(raw, "/") {
			ip := net.ParseIP(raw)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", raw)
			}
			bits := 8 * net.IPv4len
			if ip.To4() == nil {
				bits = 8 * net.IPv6len
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
		}
		nets = append(nets, ipNet)
	}
	return nets, nil
}

// Timeout reports the deadline applied to attached contexts.
func (a *Adapter) Timeout() time.Duration {
	return a.timeout
}

// Attach creates a context with timeout derived from the adapter and enriches it with request metadata.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	stdCtx = appLogger.ContextWithRequestID(stdCtx, RequestID(ctx))
	stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, a.ClientIP(ctx))
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}

	return stdCtx, cancel
}

// RequestID returns the id of the current request, assigning one on first use.
// The id is echoed in the X-Request-ID response header.
func RequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if id, ok := ctx.UserValue(requestIDValue).(string); ok && id != "" {
		return id
	}

	id := strings.TrimSpace(string(ctx.Request.Header.Peek(HeaderRequestID)))
	if id == "" {
		id = uuid.NewString()
	}
	ctx.SetUserValue(requestIDValue, id)
	ctx.Response.Header.Set(HeaderRequestID, id)
	return id
}

// PeerIP is the address of the directly connected client.
func PeerIP(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return ""
	}
	return ctx.RemoteIP().String()
}

// ClientIP returns the peer address unless the peer is a trusted proxy, in
// which case the first X-Forwarded-For hop, then X-Real-IP, is used.
func (a *Adapter) ClientIP(ctx *fasthttp.RequestCtx) string {
	peer := PeerIP(ctx)
	if a == nil || ctx == nil || !a.trusted(ctx.RemoteIP()) {
		return peer
	}
	if xff := strings.TrimSpace(string(ctx.Request.Header.Peek("X-Forwarded-For"))); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xrip := strings.TrimSpace(string(ctx.Request.Header.Peek("X-Real-IP"))); xrip != "" {
		return xrip
	}
	return peer
}

func (a *Adapter) trusted(ip net.IP) bool {
	for _, n := range a.trustedProxies {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
