package choiceserver

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chen-qa/dynamic-choice/internal/logx"
	"github.com/chen-qa/dynamic-choice/internal/requestid"
)

func requestLoggerWithColor(l *zerolog.Logger, color bool, requestIDHeaderKey string, formatter *logx.AccessLogFormatter) gin.HandlerFunc {
	requestIDHeaderKey = requestid.ResolveHeaderKey(requestIDHeaderKey)
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		e := buildAccessEntry(c, requestIDHeaderKey, time.Since(start))
		if formatter != nil {
			l.Info().Msg(formatter.Format(e, color))
			return
		}
		l.Info().Msg(logx.FormatRequestLineWithColor(e, color))
	}
}

func buildAccessEntry(c *gin.Context, requestIDHeaderKey string, latency time.Duration) logx.AccessEntry {
	e := logx.AccessEntry{
		Time:      time.Now(),
		Status:    c.Writer.Status(),
		Latency:   latency,
		ClientIP:  c.ClientIP(),
		Method:    c.Request.Method,
		Path:      c.Request.URL.Path,
		RequestID: requestid.FromContext(c, requestIDHeaderKey),
		Parameter: c.GetString(ctxParameter),
		Outcome:   c.GetString(ctxOutcome),
		Choices:   -1,
	}
	if v, ok := c.Get(ctxChoices); ok {
		if n, ok := v.(int); ok {
			e.Choices = n
		}
	}
	return e
}
