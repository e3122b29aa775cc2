package repository

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "convbench@v1"

func TestCookieName(t *testing.T) {
	assert.Equal(t, "convbench_v1", CookieName(testKey))
	assert.Equal(t, "a.b-c_d", CookieName("a.b-c_d"))
}

func TestCookieStateRepository_RoundTrip(t *testing.T) {
	value := `{"fields":{"leads":"100","secteur":"custom"},"customBench":{"ld":12,"ds":18}}`

	rec := httptest.NewRecorder()
	writer := NewCookieStateRepository(rec, httptest.NewRequest(http.MethodPost, "/", nil), CookieOptions{MaxAge: time.Hour})
	require.NoError(t, writer.Set(testKey, value))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "convbench_v1", cookies[0].Name)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	reader := NewCookieStateRepository(httptest.NewRecorder(), req, CookieOptions{})

	got, ok, err := reader.Get(testKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, value, got)
}

func TestCookieStateRepository_Missing(t *testing.T) {
	repo := NewCookieStateRepository(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), CookieOptions{})

	got, ok, err := repo.Get(testKey)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestCookieStateRepository_CorruptValue(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "convbench_v1", Value: "***"})

	_, ok, err := NewCookieStateRepository(httptest.NewRecorder(), req, CookieOptions{}).Get(testKey)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestCookieStateRepository_QuotaExceeded(t *testing.T) {
	rec := httptest.NewRecorder()
	repo := NewCookieStateRepository(rec, httptest.NewRequest(http.MethodPost, "/", nil), CookieOptions{})

	err := repo.Set(testKey, strings.Repeat("x", 4000))
	require.Error(t, err)
	assert.Equal(t, ErrQuotaExceeded, errors.Cause(err))
	assert.Empty(t, rec.Result().Cookies())
}

func TestCookieStateRepository_Remove(t *testing.T) {
	rec := httptest.NewRecorder()
	repo := NewCookieStateRepository(rec, httptest.NewRequest(http.MethodPost, "/", nil), CookieOptions{})

	require.NoError(t, repo.Remove(testKey))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
