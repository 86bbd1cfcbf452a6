package controllers

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/fsdevblog/shortkeep/internal/controllers/middlewares"
	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/services"
	"github.com/fsdevblog/shortkeep/internal/tokens"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AuthControllerSuite struct {
	suite.Suite
	router *gin.Engine
	mocks  *testMocks
}

func (s *AuthControllerSuite) SetupTest() {
	s.router, s.mocks = newTestRouter()
}

func cookieByName(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (s *AuthControllerSuite) TestAuthController_SignUp() {
	s.mocks.users.On("SignUp", mock.Anything, "Alex", "alex@example.com", "password1").
		Return(&models.User{ID: 1, Name: "Alex", Email: "alex@example.com", Role: models.RoleUser}, nil)
	s.mocks.users.On("SignUp", mock.Anything, "Alex", "taken@example.com", "password1").
		Return(nil, services.ErrEmailTaken)

	s.Run("issues both session cookies", func() {
		res := performRequest(s.router, http.MethodPost, "/api/auth/signup",
			strings.NewReader(`{"name": "Alex", "email": "alex@example.com", "password": "password1"}`))
		defer res.Body.Close()

		body, _ := io.ReadAll(res.Body)
		s.Equal(http.StatusCreated, res.StatusCode, "Answer:", string(body))

		access := cookieByName(res, middlewares.AccessCookieName)
		refresh := cookieByName(res, middlewares.RefreshCookieName)
		s.Require().NotNil(access)
		s.Require().NotNil(refresh)
		s.True(access.HttpOnly)
		s.True(refresh.HttpOnly)

		claims, err := tokens.ValidateSessionJWT(access.Value, testAccessSecret)
		s.Require().NoError(err)
		s.EqualValues(1, claims.UserID)
		s.Equal(models.RoleUser, claims.Role)

		// Хеш пароля наружу не выходит.
		s.NotContains(string(body), "passwordHash")
	})

	s.Run("email taken", func() {
		res := performRequest(s.router, http.MethodPost, "/api/auth/signup",
			strings.NewReader(`{"name": "Alex", "email": "taken@example.com", "password": "password1"}`))
		defer res.Body.Close()
		s.Equal(http.StatusConflict, res.StatusCode)
	})
}

func (s *AuthControllerSuite) TestAuthController_Login() {
	s.mocks.users.On("Login", mock.Anything, "alex@example.com", "password1").
		Return(&models.User{ID: 1, Email: "alex@example.com", Role: models.RoleUser}, nil)
	s.mocks.users.On("Login", mock.Anything, "alex@example.com", "wrong").
		Return(nil, services.ErrInvalidCredentials)
	s.mocks.users.On("Login", mock.Anything, "ghost@example.com", "password1").
		Return(nil, services.ErrInvalidCredentials)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "valid", body: `{"email": "alex@example.com", "password": "password1"}`, wantStatus: http.StatusOK},
		{name: "wrong password", body: `{"email": "alex@example.com", "password": "wrong"}`, wantStatus: http.StatusUnauthorized},
		{name: "unknown email", body: `{"email": "ghost@example.com", "password": "password1"}`, wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := performRequest(s.router, http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			defer res.Body.Close()
			s.Equal(tt.wantStatus, res.StatusCode)

			if tt.wantStatus == http.StatusOK {
				s.NotNil(cookieByName(res, middlewares.AccessCookieName))
			} else {
				s.Nil(cookieByName(res, middlewares.AccessCookieName))
			}
		})
	}
}

func (s *AuthControllerSuite) TestAuthController_Refresh() {
	s.mocks.users.On("Get", mock.Anything, uint(1)).
		Return(&models.User{ID: 1, Email: "alex@example.com", Role: models.RoleAdmin}, nil)

	s.Run("valid refresh cookie", func() {
		refreshToken, err := tokens.GenerateRefreshJWT(1, time.Hour, testRefreshSecret)
		s.Require().NoError(err)

		res := performRequest(s.router, http.MethodPost, "/api/auth/refresh", nil,
			&http.Cookie{Name: middlewares.RefreshCookieName, Value: refreshToken})
		defer res.Body.Close()

		s.Equal(http.StatusNoContent, res.StatusCode)

		// Роль в новой access куке берется из базы, не из refresh токена.
		access := cookieByName(res, middlewares.AccessCookieName)
		s.Require().NotNil(access)
		claims, claimsErr := tokens.ValidateSessionJWT(access.Value, testAccessSecret)
		s.Require().NoError(claimsErr)
		s.Equal(models.RoleAdmin, claims.Role)
	})

	s.Run("missing cookie", func() {
		res := performRequest(s.router, http.MethodPost, "/api/auth/refresh", nil)
		defer res.Body.Close()
		s.Equal(http.StatusUnauthorized, res.StatusCode)
	})

	s.Run("access secret does not validate refresh", func() {
		wrongToken, err := tokens.GenerateRefreshJWT(1, time.Hour, testAccessSecret)
		s.Require().NoError(err)

		res := performRequest(s.router, http.MethodPost, "/api/auth/refresh", nil,
			&http.Cookie{Name: middlewares.RefreshCookieName, Value: wrongToken})
		defer res.Body.Close()
		s.Equal(http.StatusUnauthorized, res.StatusCode)
	})
}

func (s *AuthControllerSuite) TestAuthController_Me() {
	s.mocks.users.On("Get", mock.Anything, uint(1)).
		Return(&models.User{ID: 1, Email: "alex@example.com", Role: models.RoleUser}, nil)

	s.Run("authed", func() {
		res := performRequest(s.router, http.MethodGet, "/api/me", nil, sessionCookie(s.T(), 1, models.RoleUser))
		defer res.Body.Close()
		s.Equal(http.StatusOK, res.StatusCode)
	})

	s.Run("garbage cookie", func() {
		res := performRequest(s.router, http.MethodGet, "/api/me", nil,
			&http.Cookie{Name: middlewares.AccessCookieName, Value: "garbage"})
		defer res.Body.Close()
		s.Equal(http.StatusUnauthorized, res.StatusCode)
	})
}

func (s *AuthControllerSuite) TestAuthController_Logout() {
	res := performRequest(s.router, http.MethodPost, "/api/auth/logout", nil,
		sessionCookie(s.T(), 1, models.RoleUser))
	defer res.Body.Close()

	s.Equal(http.StatusNoContent, res.StatusCode)
	access := cookieByName(res, middlewares.AccessCookieName)
	s.Require().NotNil(access)
	s.Less(access.MaxAge, 0)
}

func (s *AuthControllerSuite) TestAdminRoutes_roleGate() {
	s.mocks.stats.On("Collect", mock.Anything).
		Return(&services.SystemStats{TotalUsers: 2, TotalLinks: 5, TotalVisits: 100}, nil)

	tests := []struct {
		name       string
		role       models.Role
		wantStatus int
	}{
		{name: "admin allowed", role: models.RoleAdmin, wantStatus: http.StatusOK},
		{name: "user forbidden", role: models.RoleUser, wantStatus: http.StatusForbidden},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := performRequest(s.router, http.MethodGet, "/api/admin/stats", nil,
				sessionCookie(s.T(), 1, tt.role))
			defer res.Body.Close()
			s.Equal(tt.wantStatus, res.StatusCode)
		})
	}
}

func TestAuthControllerSuite(t *testing.T) {
	suite.Run(t, new(AuthControllerSuite))
}
