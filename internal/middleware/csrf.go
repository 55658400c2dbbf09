package middleware

import (
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFTokenKey is the gin context key holding the token for the current request.
const CSRFTokenKey = "csrf_token"

// CSRFFieldName is the form field gorilla/csrf reads the token from.
const CSRFFieldName = "gorilla.csrf.Token"

// CSRFKey turns the configured secret into the 32-byte key gorilla/csrf
// needs. A 64-character hex string is decoded; anything else is used as
// raw bytes padded or cut to 32.
func CSRFKey(secret string) []byte {
	if decoded, err := hex.DecodeString(secret); err == nil && len(decoded) == 32 {
		return decoded
	}
	key := make([]byte, 32)
	copy(key, secret)
	return key
}

// CSRF protects unsafe methods with gorilla/csrf and exposes the token to
// templates through the gin context.
func CSRF(key []byte, secure bool) gin.HandlerFunc {
	protect := csrf.Protect(
		key,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.Path("/"),
		csrf.FieldName(CSRFFieldName),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		passed := false
		handler := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Set(CSRFTokenKey, csrf.Token(r))
			c.Request = r
			c.Next()
		}))

		req := c.Request
		if req.TLS == nil && req.Header.Get("X-Forwarded-Proto") != "https" {
			// skip the strict referer check gorilla/csrf applies to TLS requests
			req = csrf.PlaintextHTTPRequest(req)
		}

		handler.ServeHTTP(c.Writer, req)
		if !passed {
			c.Abort()
		}
	}
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Form expired</title></head>
<body>
<h1>Form expired</h1>
<p>The form submission could not be verified. Reload the page and try again.</p>
</body>
</html>`))
}

// CSRFToken returns the token stored by CSRF, or "" when protection is off.
func CSRFToken(c *gin.Context) string {
	return c.GetString(CSRFTokenKey)
}
