package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/text/language"

	"github.com/zaqqye/attendance_backend/internal/middleware"
	"github.com/zaqqye/attendance_backend/internal/models"
	"github.com/zaqqye/attendance_backend/internal/store"
	"github.com/zaqqye/attendance_backend/internal/testutil"
)

const secret = "mw-secret"

func sign(t *testing.T, user models.User, key string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := middleware.Claims{
		UserID:   user.ID,
		Role:     user.Role,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    middleware.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func setup(t *testing.T) (*gin.Engine, models.User, models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := store.New(testutil.OpenDB(t))
	ctx := context.Background()
	teacher := models.User{Username: "teach", Role: models.RoleTeacher, Active: true}
	inactive := models.User{Username: "gone", Role: models.RoleTeacher, Active: false}
	for _, u := range []*models.User{&teacher, &inactive} {
		if err := st.CreateUser(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	r := gin.New()
	auth := r.Group("/", middleware.AuthMiddleware(st, middleware.AuthConfig{JWTSecret: secret}))
	auth.GET("/me", func(c *gin.Context) {
		u, _ := middleware.CurrentUser(c)
		c.String(http.StatusOK, u.Username)
	})
	auth.GET("/admin", middleware.RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, teacher, inactive
}

func get(r *gin.Engine, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r, teacher, inactive := setup(t)
	good := sign(t, teacher, secret, time.Hour)

	if w := get(r, "/me", "Bearer "+good); w.Code != http.StatusOK || w.Body.String() != "teach" {
		t.Fatalf("expected authenticated request, got %d %s", w.Code, w.Body.String())
	}
	if w := get(r, "/me?access_token="+good, ""); w.Code != http.StatusOK {
		t.Fatalf("expected query token to work, got %d", w.Code)
	}

	cases := map[string]string{
		"missing":       "",
		"not bearer":    "Basic abc",
		"wrong secret":  "Bearer " + sign(t, teacher, "other", time.Hour),
		"expired":       "Bearer " + sign(t, teacher, secret, -time.Minute),
		"inactive user": "Bearer " + sign(t, inactive, secret, time.Hour),
		"unknown user":  "Bearer " + sign(t, models.User{ID: 999, Role: models.RoleAdmin}, secret, time.Hour),
	}
	for name, header := range cases {
		if w := get(r, "/me", header); w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, w.Code)
		}
	}
}

func TestRequireRoles(t *testing.T) {
	r, teacher, _ := setup(t)
	// role in the token is ignored; the stored role is checked
	forged := teacher
	forged.Role = models.RoleAdmin
	if w := get(r, "/admin", "Bearer "+sign(t, forged, secret, time.Hour)); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for teacher, got %d", w.Code)
	}
}

func TestLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Locale(language.Arabic))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.LocaleFrom(c).String())
	})
	cases := []struct {
		path, accept, want string
	}{
		{"/", "", "ar"},
		{"/", "en-US,en;q=0.9", "en"},
		{"/?lang=en", "ar", "en"},
		{"/?lang=xx", "fr", "ar"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.accept != "" {
			req.Header.Set("Accept-Language", tc.accept)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Body.String() != tc.want {
			t.Fatalf("%s %q: expected %s, got %s", tc.path, tc.accept, tc.want, w.Body.String())
		}
	}
}
