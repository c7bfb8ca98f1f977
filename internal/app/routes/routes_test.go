package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollhub/internal/app/controllers"
	"github.com/yigit/enrollhub/internal/middleware"
	pkgauth "github.com/yigit/enrollhub/internal/pkg/auth"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

// newTestRouter mounts the routes with service-less controllers. Only requests
// that the middleware rejects may reach them.
func newTestRouter(t *testing.T) (*gin.Engine, *pkgauth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwt := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:      "routes-test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "enrollhub",
	})
	router := gin.New()
	SetupRouter(router, Controllers{
		Auth:        controllers.NewAuthController(nil, zerolog.Nop()),
		Student:     controllers.NewStudentController(nil),
		Import:      controllers.NewImportController(nil, 1<<20),
		Track:       controllers.NewTrackController(nil),
		Instructor:  controllers.NewInstructorController(nil),
		Enrollment:  controllers.NewEnrollmentController(nil),
		Coordinator: controllers.NewCoordinatorController(nil),
		Health:      controllers.NewHealthController(okPinger{}),
	}, middleware.NewAuthMiddleware(jwt), middleware.NewIPRateLimiter(1, 1))
	return router, jwt
}

func serve(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthIsPublic(t *testing.T) {
	router, _ := newTestRouter(t)

	w := serve(router, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/api/available-tracks", "/api/showStudents", "/api/enrollments"} {
		w := serve(router, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestCoordinatorRoutesRejectStudents(t *testing.T) {
	router, jwt := newTestRouter(t)
	token, _, err := jwt.GenerateToken("2021-0001", pkgauth.RoleStudent)
	require.NoError(t, err)

	cases := []struct{ method, path string }{
		{http.MethodGet, "/api/showStudents"},
		{http.MethodPost, "/api/import-csv"},
		{http.MethodPut, "/api/enrollments/1/accept"},
		{http.MethodDelete, "/api/DeleteTrack/1"},
		{http.MethodPost, "/api/coordinatorAdd"},
	}
	for _, tc := range cases {
		w := serve(router, tc.method, tc.path, token, "{}")
		assert.Equal(t, http.StatusForbidden, w.Code, tc.path)
	}
}

func TestLoginIsRateLimited(t *testing.T) {
	router, _ := newTestRouter(t)

	// An empty body fails binding before the service is consulted.
	first := serve(router, http.MethodPost, "/api/login", "", "{}")
	assert.Equal(t, http.StatusUnprocessableEntity, first.Code)

	second := serve(router, http.MethodPost, "/api/coordinator/login", "", "{}")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
