package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giorgimart/cityvibe/internal/config"
	"github.com/giorgimart/cityvibe/internal/utils"
)

type fakeTokenStore struct {
	stored      []string
	revokedHash []string
	revokedAll  []string
}

func (f *fakeTokenStore) StoreRefresh(_ context.Context, userID, tokenHash string, _ time.Time) error {
	f.stored = append(f.stored, userID+"|"+tokenHash)
	return nil
}

func (f *fakeTokenStore) ValidateRefresh(context.Context, string) (string, error) {
	return "", nil
}

func (f *fakeTokenStore) RevokeByHash(_ context.Context, tokenHash string) error {
	f.revokedHash = append(f.revokedHash, tokenHash)
	return nil
}

func (f *fakeTokenStore) RevokeAllForUser(_ context.Context, userID string) error {
	f.revokedAll = append(f.revokedAll, userID)
	return nil
}

func newAuthContext(t *testing.T, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout-all", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set("user_id", userID)
	}
	return c, rec
}

func TestAuthHandler_LogoutAll(t *testing.T) {
	store := &fakeTokenStore{}
	h := NewAuthHandler(config.Config{}, nil, nil, store)

	c, rec := newAuthContext(t, "", "user-1")
	require.NoError(t, h.LogoutAll(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"user-1"}, store.revokedAll)
}

func TestAuthHandler_LogoutAll_Unauthenticated(t *testing.T) {
	store := &fakeTokenStore{}
	h := NewAuthHandler(config.Config{}, nil, nil, store)

	c, rec := newAuthContext(t, "", "")
	require.NoError(t, h.LogoutAll(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, store.revokedAll)
}

func TestAuthHandler_Logout_RevokesPresentedToken(t *testing.T) {
	store := &fakeTokenStore{}
	h := NewAuthHandler(config.Config{}, nil, nil, store)

	c, rec := newAuthContext(t, `{"refresh_token":"raw-token"}`, "")
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	// only the hash of the raw token ever reaches the store
	assert.Equal(t, []string{utils.HashRefreshRaw("raw-token")}, store.revokedHash)
}
