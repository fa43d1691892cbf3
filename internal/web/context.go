package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/barredora/internal/core"
)

// maxUserAgentLen bounds the user agent carried into run log warnings.
const maxUserAgentLen = 256

// clientContext returns the request context with the client address and
// user agent attached for the cleaning service. RemoteAddr is already the
// bare client IP once TrustedRealIP has run.
func clientContext(r *http.Request) context.Context {
	ua := r.UserAgent()
	if len(ua) > maxUserAgentLen {
		ua = ua[:maxUserAgentLen]
	}
	ctx := core.ContextWithClientIP(r.Context(), r.RemoteAddr)
	return core.ContextWithUserAgent(ctx, ua)
}
