package choiceserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chen-qa/dynamic-choice/pkg/choices"
	"github.com/chen-qa/dynamic-choice/pkg/param"
	"github.com/chen-qa/dynamic-choice/pkg/resolver"
)

const (
	ctxParameter = "dc.parameter"
	ctxOutcome   = "dc.outcome"
	ctxChoices   = "dc.choices"
)

type handlers struct {
	reg    *param.Registry
	res    *resolver.Resolver
	reload func() error
}

type choicesResponse struct {
	Name    string             `json:"name,omitempty"`
	OK      bool               `json:"ok"`
	Choices choices.ChoiceList `json:"choices"`
	Message string             `json:"message,omitempty"`
}

type resolveRequest struct {
	URL      string `json:"url" form:"url" binding:"required"`
	JSONPath string `json:"json_path" form:"json_path" binding:"required"`
	Filter   string `json:"filter" form:"filter"`
}

func (h *handlers) listParameters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"parameters": h.reg.List()})
}

func (h *handlers) getParameter(c *gin.Context) {
	d, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *handlers) parameterChoices(c *gin.Context) {
	d, ok := h.lookup(c)
	if !ok {
		return
	}
	q, err := d.Query()
	if err != nil {
		abortJSON(c, http.StatusInternalServerError, err)
		return
	}
	h.respondChoices(c, d.Name, q)
}

func (h *handlers) resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBind(&req); err != nil {
		abortJSON(c, http.StatusBadRequest, err)
		return
	}
	q, err := resolver.NewQuery(req.URL, req.JSONPath, req.Filter)
	if err != nil {
		abortJSON(c, http.StatusBadRequest, err)
		return
	}
	h.respondChoices(c, "", q)
}

func (h *handlers) respondChoices(c *gin.Context, name string, q resolver.Query) {
	list := h.res.Resolve(c.Request.Context(), q)
	c.Set(ctxChoices, len(list.Options()))
	outcome := "ok"
	if list.IsErr() {
		outcome = "error"
	}
	c.Set(ctxOutcome, outcome)
	c.JSON(http.StatusOK, choicesResponse{
		Name:    name,
		OK:      !list.IsErr(),
		Choices: list,
		Message: list.Message(),
	})
}

// bindValue accepts either a form with a "value" field or a JSON object
// {"name": ..., "value": ...}.
func (h *handlers) bindValue(c *gin.Context) {
	d, ok := h.lookup(c)
	if !ok {
		return
	}
	var v param.Value
	if strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
		body, err := c.GetRawData()
		if err != nil {
			abortJSON(c, http.StatusBadRequest, err)
			return
		}
		v, err = d.ValueFromJSON(body)
		if err != nil {
			abortJSON(c, http.StatusBadRequest, err)
			return
		}
	} else {
		if err := c.Request.ParseForm(); err != nil {
			abortJSON(c, http.StatusBadRequest, err)
			return
		}
		v = d.ValueFromForm(c.Request.PostForm)
	}
	env := map[string]string{}
	v.BuildEnvironment(env)
	zerolog.Ctx(c.Request.Context()).Info().
		Str("parameter", d.Name).
		Str("value", v.Selection.String()).
		Msg("bound parameter value")
	c.JSON(http.StatusOK, gin.H{
		"name":  v.Name,
		"value": v.Selection.EnvString(),
		"env":   env,
	})
}

func (h *handlers) reloadParameters(c *gin.Context) {
	if err := h.reload(); err != nil {
		abortJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "parameters": h.reg.Len()})
}

func (h *handlers) lookup(c *gin.Context) (param.Definition, bool) {
	name := c.Param("name")
	c.Set(ctxParameter, name)
	d, err := h.reg.Get(name)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, param.ErrNotFound) {
			status = http.StatusNotFound
		}
		abortJSON(c, status, err)
		return param.Definition{}, false
	}
	return d, true
}

func abortJSON(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
