package requestid

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestGenFormat(t *testing.T) {
	id := Gen()
	if ok := regexp.MustCompile(`^\d{28}$`).MatchString(id); !ok {
		t.Fatalf("unexpected request id format: %q", id)
	}
}

func TestResolveHeaderKey(t *testing.T) {
	if got := ResolveHeaderKey(" "); got != DefaultHeaderKey {
		t.Fatalf("got %q", got)
	}
	if got := ResolveHeaderKey("X-Trace"); got != "X-Trace" {
		t.Fatalf("got %q", got)
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var out bytes.Buffer
	base := zerolog.New(&out)
	r := gin.New()
	r.Use(Middleware("", &base))
	r.GET("/x", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("inside")
		c.String(http.StatusOK, FromContext(c, ""))
	})

	t.Run("generates id", func(t *testing.T) {
		out.Reset()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		id := w.Header().Get(DefaultHeaderKey)
		if id == "" || w.Body.String() != id {
			t.Fatalf("header=%q body=%q", id, w.Body.String())
		}
		if !strings.Contains(out.String(), `"request_id":"`+id+`"`) {
			t.Fatalf("request logger missing id: %q", out.String())
		}
	})

	t.Run("keeps incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(DefaultHeaderKey, "rid-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if got := w.Header().Get(DefaultHeaderKey); got != "rid-1" {
			t.Fatalf("header=%q", got)
		}
	})
}
