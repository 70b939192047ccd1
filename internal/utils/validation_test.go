package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Email    string `json:"email" binding:"required,email"`
	UserType string `json:"userType" binding:"omitempty,oneof=patient doctor"`
}

type pageQuery struct {
	SortBy string `form:"sortBy" binding:"omitempty,oneof=distance rating"`
}

func serve(t *testing.T, h gin.HandlerFunc, method, target, body string) (int, ResponseData) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Handle(method, "/x", h)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp ResponseData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func bindLogin(c *gin.Context) {
	var f loginForm
	if !BindAndValidate(c, &f) {
		return
	}
	Success(c, "ok", f.Email)
}

func TestBindAndValidateFormatsFieldErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad email", `{"email":"nope"}`, "Validation failed: Email must be a valid email address"},
		{"missing email", `{}`, "Validation failed: Email is required"},
		{"two fields", `{"email":"x","userType":"nurse"}`, "Validation failed: Email must be a valid email address, UserType must be one of: patient doctor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := serve(t, bindLogin, http.MethodPost, "/x", tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tt.want, resp.Error)
		})
	}
}

func TestBindAndValidateKeepsDecodeErrors(t *testing.T) {
	code, resp := serve(t, bindLogin, http.MethodPost, "/x", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.True(t, strings.HasPrefix(resp.Error, "Invalid request payload: "), resp.Error)
}

func TestBindAndValidateAcceptsValidBody(t *testing.T) {
	code, resp := serve(t, bindLogin, http.MethodPost, "/x", `{"email":"asha@example.com","userType":"doctor"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "asha@example.com", resp.Data)
}

func TestBindQueryAndValidateFormatsFieldErrors(t *testing.T) {
	h := func(c *gin.Context) {
		var q pageQuery
		if !BindQueryAndValidate(c, &q) {
			return
		}
		Success(c, "ok", q.SortBy)
	}

	code, resp := serve(t, h, http.MethodGet, "/x?sortBy=price", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Validation failed: SortBy must be one of: distance rating", resp.Error)

	code, resp = serve(t, h, http.MethodGet, "/x?sortBy=rating", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "rating", resp.Data)
}
