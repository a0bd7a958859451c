package middleware

import (
	"net/http"
	"strings"
)

const (
	corsAllowMethods  = "GET,POST,PUT,PATCH,DELETE,OPTIONS"
	corsAllowHeaders  = "Authorization,Content-Type,Accept-Language,X-Client-Info,Apikey"
	corsExposeHeaders = "X-Request-Id"
	corsMaxAge        = "86400"
)

// CORS answers preflights and decorates responses for a fixed origin list.
// A "*" entry allows any origin; credentials are never advertised then.
type CORS struct {
	origins   map[string]struct{}
	anyOrigin bool
}

func NewCORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := &CORS{origins: make(map[string]struct{}, len(allowedOrigins))}
	for _, origin := range allowedOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		switch origin {
		case "":
			continue
		case "*":
			c.anyOrigin = true
		default:
			c.origins[origin] = struct{}{}
		}
	}
	return c.Handler
}

func (c *CORS) allowed(origin string) bool {
	if c.anyOrigin {
		return true
	}
	_, ok := c.origins[origin]
	return ok
}

func (c *CORS) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		w.Header().Add("Vary", "Origin")

		if origin != "" && c.allowed(origin) {
			h := w.Header()
			if c.anyOrigin {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
			}
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			h.Set("Access-Control-Max-Age", corsMaxAge)
		}

		// Preflights never reach the router, so they skip auth.
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
