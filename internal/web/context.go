package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/datagrid/internal/core"
)

// clientIP returns the host part of RemoteAddr, which TrustedRealIP has
// already replaced with the forwarded address for trusted proxies.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// WithRequestMetadata adds the client IP and User-Agent to ctx.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithClientIP(ctx, clientIP(r))
	ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
	return ctx
}
