package inresolver

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/iotanames/inresolver/schema"
)

// InterceptMiddleware is the gateway entry point. Requests for a name host,
// whether proxied or sent straight at us with that Host header, go through
// the same navigation handling as a browser event and are redirected to
// wherever the decision points. No-op decisions fall through.
func (s *Inr) InterceptMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		req := c.Request
		if req.Method != http.MethodGet && req.Method != http.MethodHead {
			c.Next()
			return
		}
		if !isNameHost(hostname(req)) {
			c.Next()
			return
		}

		ev := schema.NavigationEvent{
			TabId: parseTabId(c.GetHeader(tabIdHeader)),
			Url:   requestUrl(req),
		}
		switch c.GetHeader("Sec-Fetch-Dest") {
		case "iframe", "frame":
			ev.FrameId = 1
		}

		nav := s.HandleNavigation(req.Context(), ev, true)
		if !nav.Intercepted || nav.Url == "" {
			c.Next()
			return
		}
		log.Debug("intercepted", "url", ev.Url, "action", nav.Action, "tabId", ev.TabId)
		c.Redirect(http.StatusFound, nav.Url)
		c.Abort()
	}
}

func hostname(req *http.Request) string {
	if req.URL.IsAbs() {
		return req.URL.Hostname()
	}
	return (&url.URL{Host: req.Host}).Hostname()
}

// requestUrl rebuilds the URL the browser navigated to.
func requestUrl(req *http.Request) string {
	if req.URL.IsAbs() {
		return req.URL.String()
	}
	protocol := "https"
	if req.TLS == nil {
		protocol = "http"
		if p := req.Header.Get("X-Forwarded-Proto"); p == "https" {
			protocol = p
		}
	}
	return protocol + "://" + req.Host + req.RequestURI
}
