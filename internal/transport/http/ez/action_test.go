package ez

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-offices/internal/domain"
	resp "discord-offices/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

func TestFailMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrOfficeNotFound, resp.CodeNotFound},
		{domain.ErrDuplicateMember, resp.CodeConflict},
		{domain.ErrOwnerRemoval, resp.CodeConflict},
		{domain.ErrForbidden, resp.CodeForbidden},
		{fmt.Errorf("%w: bad name", domain.ErrInvalidArgument), resp.CodeBadRequest},
		{Forbidden("nope"), resp.CodeForbidden},
		{Internal("db down", errors.New("x")), resp.CodeServerError},
		{errors.New("boom"), resp.CodeServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			Fail(c, nil, tc.err)

			var body resp.Resp
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestFailHidesUnknownErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Fail(c, nil, errors.New("pq: password authentication failed"))
	assert.NotContains(t, w.Body.String(), "password")
}

type echoIn struct {
	Name string `json:"name" binding:"required"`
}

func TestRegisterAction(t *testing.T) {
	r := gin.New()
	e := New(r.Group("/v1"), nil)
	RegisterAction(e, Action[echoIn, gin.H]{
		Method: http.MethodPatch,
		Path:   "/echo",
		Binder: BindJSON,
		Handler: func(c *gin.Context, in *echoIn) (gin.H, error) {
			if in.Name == "missing" {
				return nil, domain.ErrUserNotFound
			}
			return gin.H{"name": in.Name}, nil
		},
	})

	do := func(body string) resp.Resp {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/v1/echo", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		var out resp.Resp
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return out
	}

	ok := do(`{"name":"alice"}`)
	assert.Equal(t, resp.CodeOK, ok.Code)
	assert.Equal(t, map[string]any{"name": "alice"}, ok.Data)

	assert.Equal(t, resp.CodeBadRequest, do(`{}`).Code)
	assert.Equal(t, resp.CodeNotFound, do(`{"name":"missing"}`).Code)
}
