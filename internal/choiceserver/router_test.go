package choiceserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chen-qa/dynamic-choice/internal/requestid"
	"github.com/chen-qa/dynamic-choice/pkg/config"
	"github.com/chen-qa/dynamic-choice/pkg/fetch"
	"github.com/chen-qa/dynamic-choice/pkg/param"
	"github.com/chen-qa/dynamic-choice/pkg/resolver"
)

type testEnv struct {
	engine   *gin.Engine
	upstream *httptest.Server
	reg      *param.Registry
	logs     *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/versions.json":
			_, _ = w.Write([]byte(`{"data":{"versions":["v2","v10","x1","v1"]}}`))
		case "/versions.xml":
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(`<root><versions><v>b</v><v>a</v></versions></root>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(upstream.Close)

	reg, err := param.NewRegistry(
		param.Definition{Name: "APP_VERSION", URL: upstream.URL + "/versions.json", JSONPath: "data.versions", Filter: "v.*"},
		param.Definition{Name: "XML", URL: upstream.URL + "/versions.xml", JSONPath: "root.versions", Description: "xml list"},
		param.Definition{Name: "BROKEN", URL: upstream.URL + "/missing.json", JSONPath: "a"},
	)
	require.NoError(t, err)

	cfg, err := config.Default()
	require.NoError(t, err)

	var logs bytes.Buffer
	log := zerolog.New(&logs)
	engine := NewRouter(cfg, Options{
		Registry: reg,
		Resolver: resolver.New(fetch.New(time.Second, time.Second), nil),
		Log:      &log,
		Reload:   func() error { return nil },
	})
	return &testEnv{engine: engine, upstream: upstream, reg: reg, logs: &logs}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthzAndRequestID(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestid.DefaultHeaderKey))
	assert.Contains(t, env.logs.String(), "/healthz")
}

func TestListAndGetParameters(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, httptest.NewRequest(http.MethodGet, "/api/parameters", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Parameters []param.Definition `json:"parameters"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Parameters, 3)
	assert.Equal(t, "APP_VERSION", body.Parameters[0].Name)

	w = env.do(t, httptest.NewRequest(http.MethodGet, "/api/parameters/XML", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "xml list", decode(t, w)["description"])

	w = env.do(t, httptest.NewRequest(http.MethodGet, "/api/parameters/NOPE", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParameterChoices(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, httptest.NewRequest(http.MethodGet, "/api/parameters/APP_VERSION/choices", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var raw struct {
		Name    string   `json:"name"`
		OK      bool     `json:"ok"`
		Choices []string `json:"choices"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.True(t, raw.OK)
	assert.Equal(t, []string{"", "v1", "v10", "v2"}, raw.Choices)

	w = env.do(t, httptest.NewRequest(http.MethodGet, "/api/parameters/XML/choices", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, []string{"", "a", "b"}, raw.Choices)

	w = env.do(t, httptest.NewRequest(http.MethodGet, "/api/parameters/BROKEN/choices", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.False(t, raw.OK)
	require.Len(t, raw.Choices, 1)
	assert.True(t, strings.HasPrefix(raw.Choices[0], "Error: Server returned HTTP response code: 404"), raw.Choices[0])
	assert.Contains(t, env.logs.String(), "outcome=error")
}

func TestBindValue(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{"value": {"v2"}}
	req := httptest.NewRequest(http.MethodPost, "/api/parameters/APP_VERSION/value", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := env.do(t, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "v2", body["value"])
	assert.Equal(t, map[string]any{"APP_VERSION": "v2"}, body["env"])

	req = httptest.NewRequest(http.MethodPost, "/api/parameters/APP_VERSION/value", strings.NewReader(`{"name":"APP_VERSION","value":null}`))
	req.Header.Set("Content-Type", "application/json")
	w = env.do(t, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, map[string]any{"APP_VERSION": ""}, decode(t, w)["env"])

	req = httptest.NewRequest(http.MethodPost, "/api/parameters/APP_VERSION/value", strings.NewReader(`{"name":"OTHER","value":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w = env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/parameters/NOPE/value", nil)
	w = env.do(t, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResolveEndpoint(t *testing.T) {
	env := newTestEnv(t)

	payload := `{"url":"` + env.upstream.URL + `/versions.json","json_path":"data.versions","filter":"x.*"}`
	req := httptest.NewRequest(http.MethodPost, "/api/resolve", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := env.do(t, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var raw struct {
		OK      bool     `json:"ok"`
		Choices []string `json:"choices"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, []string{"", "x1"}, raw.Choices)

	req = httptest.NewRequest(http.MethodPost, "/api/resolve", strings.NewReader(`{"url":"http://x"}`))
	req.Header.Set("Content-Type", "application/json")
	w = env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckEndpoints(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		target string
		ok     bool
		msg    string
	}{
		{target: "/api/check/url?url=http://x", ok: true},
		{target: "/api/check/url", ok: false, msg: "URL 不能为空"},
		{target: "/api/check/path?json_path=a.b", ok: true},
		{target: "/api/check/path?json_path=", ok: false, msg: "JSON 路径不能为空"},
		{target: "/api/check/filter?filter=" + url.QueryEscape("^v.*"), ok: true},
		{target: "/api/check/filter?filter=" + url.QueryEscape("("), ok: false, msg: "错误: 无效的过滤表达式"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := env.do(t, httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.Equal(t, http.StatusOK, w.Code)
			var c param.Check
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
			assert.Equal(t, tt.ok, c.OK)
			if tt.msg != "" {
				assert.True(t, strings.HasPrefix(c.Message, tt.msg), c.Message)
			}
		})
	}
}

func TestAdminEndpoints(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, httptest.NewRequest(http.MethodPost, "/admin/reload", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), decode(t, w)["parameters"])

	w = env.do(t, httptest.NewRequest(http.MethodGet, "/admin/kinds", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dynamicChoiceUrl")
}
