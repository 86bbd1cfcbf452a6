package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/repositories"
	"github.com/fsdevblog/shortkeep/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AnalyticsControllerSuite struct {
	suite.Suite
	router *gin.Engine
	mocks  *testMocks
}

func (s *AnalyticsControllerSuite) SetupTest() {
	s.router, s.mocks = newTestRouter()
}

func (s *AnalyticsControllerSuite) TestAnalyticsController_Overview() {
	s.mocks.analytics.On("Overview", mock.Anything, uint(10), uint(1), repositories.DateRange{}).
		Return(&services.Overview{
			Total:   3,
			Devices: []services.BreakdownRow{{Value: "desktop", Count: 2, Percentage: 67}},
		}, nil)
	s.mocks.analytics.On("Overview", mock.Anything, uint(99), uint(1), repositories.DateRange{}).
		Return(nil, services.ErrRecordNotFound)

	s.Run("owned link", func() {
		res := performRequest(s.router, http.MethodGet, "/api/links/10/analytics", nil,
			sessionCookie(s.T(), 1, models.RoleUser))
		defer res.Body.Close()

		s.Equal(http.StatusOK, res.StatusCode)

		var overview services.Overview
		body, _ := io.ReadAll(res.Body)
		s.Require().NoError(json.Unmarshal(body, &overview))
		s.EqualValues(3, overview.Total)
		s.Require().Len(overview.Devices, 1)
		s.Equal(67, overview.Devices[0].Percentage)
	})

	s.Run("foreign link", func() {
		res := performRequest(s.router, http.MethodGet, "/api/links/99/analytics", nil,
			sessionCookie(s.T(), 1, models.RoleUser))
		defer res.Body.Close()
		s.Equal(http.StatusNotFound, res.StatusCode)
	})
}

func (s *AnalyticsControllerSuite) TestAnalyticsController_Series() {
	s.mocks.analytics.On("Series", mock.Anything, uint(10), uint(1), repositories.BucketWeekly, repositories.DateRange{}).
		Return([]repositories.SeriesPoint{{Bucket: "2025-06-02", Count: 4}}, nil)

	s.Run("weekly interval", func() {
		res := performRequest(s.router, http.MethodGet, "/api/links/10/analytics/series?interval=weekly", nil,
			sessionCookie(s.T(), 1, models.RoleUser))
		defer res.Body.Close()
		s.Equal(http.StatusOK, res.StatusCode)
	})

	s.Run("unknown interval", func() {
		res := performRequest(s.router, http.MethodGet, "/api/links/10/analytics/series?interval=hourly", nil,
			sessionCookie(s.T(), 1, models.RoleUser))
		defer res.Body.Close()
		s.Equal(http.StatusBadRequest, res.StatusCode)
	})
}

func (s *AnalyticsControllerSuite) TestAnalyticsController_Visits_csv() {
	s.mocks.analytics.On("ExportCSV", mock.Anything, uint(10), uint(1), mock.Anything).
		Run(func(args mock.Arguments) {
			w := args.Get(3).(io.Writer)
			_, _ = w.Write([]byte("uuid,created_at,masked_ip\nu-1,2025-06-01T12:00:00Z,203.0.x.x\n"))
		}).
		Return(nil)

	res := performRequest(s.router, http.MethodGet, "/api/links/10/visits?format=csv", nil,
		sessionCookie(s.T(), 1, models.RoleUser))
	defer res.Body.Close()

	s.Equal(http.StatusOK, res.StatusCode)
	s.Contains(res.Header.Get("Content-Type"), "text/csv")
	s.Contains(res.Header.Get("Content-Disposition"), "visits.csv")

	body, _ := io.ReadAll(res.Body)
	s.Contains(string(body), "203.0.x.x")
}

func (s *AnalyticsControllerSuite) TestAnalyticsController_Visits_json() {
	s.mocks.analytics.On("History", mock.Anything, uint(10), uint(1), 1, 20).
		Return([]services.VisitEntry{{UUID: "u-1", MaskedIP: "203.0.x.x", Device: models.DeviceMobile}}, int64(1), nil)

	res := performRequest(s.router, http.MethodGet, "/api/links/10/visits", nil,
		sessionCookie(s.T(), 1, models.RoleUser))
	defer res.Body.Close()

	s.Equal(http.StatusOK, res.StatusCode)

	var envelope struct {
		Items []services.VisitEntry `json:"items"`
		Total int64                 `json:"total"`
	}
	body, _ := io.ReadAll(res.Body)
	s.Require().NoError(json.Unmarshal(body, &envelope))
	s.Require().Len(envelope.Items, 1)
	s.Equal("203.0.x.x", envelope.Items[0].MaskedIP)
	s.EqualValues(1, envelope.Total)
}

func TestAnalyticsControllerSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsControllerSuite))
}
