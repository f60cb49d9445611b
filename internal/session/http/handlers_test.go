package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/karigar-kart/karigar-backend/internal/api/http/middleware"
	dirrepo "github.com/karigar-kart/karigar-backend/internal/directory/repository"
	"github.com/karigar-kart/karigar-backend/internal/identity"
	"github.com/karigar-kart/karigar-backend/internal/session/otp"
	"github.com/karigar-kart/karigar-backend/internal/session/service"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	directory := dirrepo.NewMemoryDirectory()
	dirrepo.Seed(context.Background(), directory)

	sessions := service.NewSessionService(identity.NewLocalProvider(), directory)
	handler := New(sessions, otp.NewStore(client))

	r := gin.New()
	handler.Register(r.Group("/auth"), middleware.NewRateLimiter(rate.Inf, 1))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("success returns session and redirect", func(t *testing.T) {
		r := setupRouter(t)

		w := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
			"email":    "priya.s@example.com",
			"password": "password123",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var res struct {
			Session struct {
				Role            string `json:"role"`
				ProfileComplete bool   `json:"profile_complete"`
			} `json:"session"`
			RedirectTo string `json:"redirect_to"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "customer", res.Session.Role)
		assert.True(t, res.Session.ProfileComplete)
		assert.Equal(t, "/dashboard", res.RedirectTo)
	})

	t.Run("bad credentials give 401", func(t *testing.T) {
		r := setupRouter(t)
		w := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
			"email":    "priya.s@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields give 400", func(t *testing.T) {
		r := setupRouter(t)
		w := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{"email": "x@example.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSignupEndpoint(t *testing.T) {
	requestCode := func(t *testing.T, r *gin.Engine, email string) string {
		w := doJSON(t, r, http.MethodPost, "/auth/otp/request", gin.H{"email": email})
		require.Equal(t, http.StatusOK, w.Code)
		var res struct {
			Code string `json:"code"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		return res.Code
	}

	t.Run("full otp then signup flow", func(t *testing.T) {
		r := setupRouter(t)
		code := requestCode(t, r, "fresh@example.com")

		w := doJSON(t, r, http.MethodPost, "/auth/signup", gin.H{
			"email":    "fresh@example.com",
			"password": "secret123",
			"name":     "Fresh Worker",
			"role":     "worker",
			"otp_code": code,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var res struct {
			Session struct {
				Role            string `json:"role"`
				ProfileComplete bool   `json:"profile_complete"`
			} `json:"session"`
			RedirectTo string `json:"redirect_to"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "worker", res.Session.Role)
		assert.False(t, res.Session.ProfileComplete)
		assert.Equal(t, "/profile", res.RedirectTo)
	})

	t.Run("wrong otp blocks signup", func(t *testing.T) {
		r := setupRouter(t)
		requestCode(t, r, "fresh@example.com")

		w := doJSON(t, r, http.MethodPost, "/auth/signup", gin.H{
			"email":    "fresh@example.com",
			"password": "secret123",
			"name":     "Fresh Worker",
			"role":     "worker",
			"otp_code": "999999x",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("taken email gives 409", func(t *testing.T) {
		r := setupRouter(t)
		code := requestCode(t, r, "priya.s@example.com")

		w := doJSON(t, r, http.MethodPost, "/auth/signup", gin.H{
			"email":    "priya.s@example.com",
			"password": "secret123",
			"name":     "Priya Again",
			"role":     "customer",
			"otp_code": code,
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestSessionEndpoint(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/auth/session", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
		"email":    "rajesh.k@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/auth/session", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Session struct {
			Email string `json:"email"`
			State string `json:"state"`
		} `json:"session"`
		Loading bool `json:"loading"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "rajesh.k@example.com", res.Session.Email)
	assert.Equal(t, "authenticated_incomplete", res.Session.State)
	assert.False(t, res.Loading)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
		"email":    "rajesh.k@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Completing the profile flips the derived flag.
	w = doJSON(t, r, http.MethodPut, "/auth/profile", gin.H{
		"skills":      []string{"painting"},
		"bio":         "Interior painting specialist",
		"hourly_rate": 300,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Session struct {
			ProfileComplete bool   `json:"profile_complete"`
			State           string `json:"state"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Session.ProfileComplete)
	assert.Equal(t, "authenticated_complete", res.Session.State)

	// And marking complete is consistent with the directory.
	w = doJSON(t, r, http.MethodPost, "/auth/profile/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Session.ProfileComplete)
}

func TestLogoutEndpoint(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
		"email":    "priya.s@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		RedirectTo string `json:"redirect_to"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "/login", res.RedirectTo)

	w = doJSON(t, r, http.MethodGet, "/auth/session", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyOTPEndpoint(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/auth/otp/request", gin.H{"email": "x@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	var issued struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &issued))

	w = doJSON(t, r, http.MethodPost, "/auth/otp/verify", gin.H{
		"email": "x@example.com", "code": issued.Code,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Consumed: a second verify with the same code fails.
	w = doJSON(t, r, http.MethodPost, "/auth/otp/verify", gin.H{
		"email": "x@example.com", "code": issued.Code,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
