// Package requestid tags every HTTP request with an id and a request-scoped
// logger carrying it.
package requestid

import (
	crand "crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const DefaultHeaderKey = "X-Request-Id"

// ResolveHeaderKey returns headerKey when non-empty, otherwise the default.
func ResolveHeaderKey(headerKey string) string {
	if v := strings.TrimSpace(headerKey); v != "" {
		return v
	}
	return DefaultHeaderKey
}

// Gen returns yyyymmddHHMMSSuuuuuu followed by 8 random digits.
func Gen() string {
	return strings.ReplaceAll(time.Now().Format("20060102150405.000000"), ".", "") + randomDigits(8)
}

func randomDigits(n int) string {
	const digits = "0123456789"
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(digits[cryptoRandIntn(len(digits))])
	}
	return b.String()
}

func cryptoRandIntn(max int) int {
	nBig, err := crand.Int(crand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return int(nBig.Int64())
}

// Middleware reuses an incoming id or generates one, echoes it in the
// response header, and attaches a logger with a request_id field to the
// request context.
func Middleware(headerKey string, base *zerolog.Logger) gin.HandlerFunc {
	headerKey = ResolveHeaderKey(headerKey)
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerKey))
		if id == "" {
			id = Gen()
		}
		c.Header(headerKey, id)
		c.Set(headerKey, id)
		if base != nil {
			l := base.With().Str("request_id", id).Logger()
			c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
		}
		c.Next()
	}
}

// FromContext returns the id stored by Middleware.
func FromContext(c *gin.Context, headerKey string) string {
	if c == nil {
		return ""
	}
	return c.GetString(ResolveHeaderKey(headerKey))
}
