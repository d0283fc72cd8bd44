package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"PosFM/config"
)

func adminVerify(cfgKey, body string) *httptest.ResponseRecorder {
	h := NewAPIHandler(nil, nil, nil, nil, nil, nil, &config.Config{AdminKey: cfgKey})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/verify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.AdminVerifyHandler(rec, req)
	return rec
}

func TestAdminVerifyAcceptsCorrectKey(t *testing.T) {
	rec := adminVerify("s3cret", `{"key":"s3cret"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success"`)
}

func TestAdminVerifyRejectsWrongKey(t *testing.T) {
	rec := adminVerify("s3cret", `{"key":"guess"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminVerifyRequiresKeyField(t *testing.T) {
	rec := adminVerify("s3cret", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminVerifyUnavailableWhenUnconfigured(t *testing.T) {
	rec := adminVerify("", `{"key":"anything"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
