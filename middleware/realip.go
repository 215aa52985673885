package middleware

import (
	"bytes"
	"context"
	"net"

	"github.com/swaggest/fbind"
	"github.com/valyala/fasthttp"
)

var (
	headerXRealIP       = []byte("X-Real-Ip")
	headerXForwardedFor = []byte("X-Forwarded-For")
)

// RealIP is a middleware that resolves client address of proxied requests.
//
// Valid X-Real-IP header takes precedence over the first X-Forwarded-For entry,
// connection address is used when neither is available. Resolved address replaces
// request remote address and is available downstream with fbind.ClientIP.
//
// Headers are trusted as is, so the middleware is only safe behind a reverse proxy
// that overwrites them.
func RealIP(next fbind.Handler) fbind.Handler {
	return fbind.HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		ip := forwardedIP(&rc.Request.Header)
		if ip != nil {
			rc.SetRemoteAddr(&net.TCPAddr{IP: ip})
		} else {
			ip = rc.RemoteIP()
		}

		next.ServeHTTP(fbind.WithClientIP(ctx, ip.String()), rc)
	})
}

func forwardedIP(h *fasthttp.RequestHeader) net.IP {
	if ip := parseIP(h.PeekBytes(headerXRealIP)); ip != nil {
		return ip
	}

	// Leftmost entry is the original client, the rest are proxies.
	first, _, _ := bytes.Cut(h.PeekBytes(headerXForwardedFor), []byte(","))

	return parseIP(first)
}

func parseIP(b []byte) net.IP {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}

	return net.ParseIP(string(b))
}
