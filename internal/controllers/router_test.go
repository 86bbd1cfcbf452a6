package controllers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/fsdevblog/shortkeep/internal/controllers/middlewares"
	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/services/smocks"
	"github.com/fsdevblog/shortkeep/internal/tokens"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	testAccessSecret  = []byte("test-access-secret")
	testRefreshSecret = []byte("test-refresh-secret")
)

// testMocks сервисные моки, подключенные к тестовому роутеру.
type testMocks struct {
	users     *smocks.UsersMock
	links     *smocks.LinksMock
	folders   *smocks.FoldersMock
	redirect  *smocks.RedirectMock
	analytics *smocks.AnalyticsMock
	bin       *smocks.RecycleBinMock
	stats     *smocks.StatsMock
	ping      *smocks.PingMock
}

func newTestRouter() (*gin.Engine, *testMocks) {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	m := &testMocks{
		users:     new(smocks.UsersMock),
		links:     new(smocks.LinksMock),
		folders:   new(smocks.FoldersMock),
		redirect:  new(smocks.RedirectMock),
		analytics: new(smocks.AnalyticsMock),
		bin:       new(smocks.RecycleBinMock),
		stats:     new(smocks.StatsMock),
		ping:      new(smocks.PingMock),
	}
	router := SetupRouter(RouterParams{
		Users:     m.users,
		Links:     m.links,
		BaseURL:   &url.URL{Scheme: "http", Host: "test.com:8080"},
		Folders:   m.folders,
		Redirect:  m.redirect,
		Analytics: m.analytics,
		Bin:       m.bin,
		Stats:     m.stats,
		Conn:      m.ping,
		Session: SessionConfig{
			AccessSecret:  testAccessSecret,
			RefreshSecret: testRefreshSecret,
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    24 * time.Hour,
		},
		Logger: logger,
	})
	return router, m
}

// sessionCookie выпускает access куку для тестового пользователя.
func sessionCookie(t *testing.T, userID uint, role models.Role) *http.Cookie {
	t.Helper()
	token, err := tokens.GenerateAccessJWT(userID, role, 15*time.Minute, testAccessSecret)
	if err != nil {
		t.Fatalf("failed to issue access token: %v", err)
	}
	return &http.Cookie{Name: middlewares.AccessCookieName, Value: token}
}

func performRequest(router *gin.Engine, method, target string, body io.Reader, cookies ...*http.Cookie) *http.Response {
	request := httptest.NewRequest(method, target, body)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		request.AddCookie(c)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder.Result()
}
