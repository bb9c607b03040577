package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"todoapp/pkg/config"
)

type RateLimiterSuite struct {
	suite.Suite
	router *gin.Engine
}

func (s *RateLimiterSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(map[string]config.RateLimitConfig{
		"POST /todos": {Requests: 2, Window: time.Minute},
	}, nil)

	s.router = gin.New()
	s.router.Use(limiter.Middleware())

	okHandler := func(c *gin.Context) { c.Status(http.StatusOK) }
	s.router.POST("/todos", okHandler)
	s.router.GET("/todos", okHandler)
}

func TestRateLimiterSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(RateLimiterSuite))
}

func (s *RateLimiterSuite) do(method, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	return rr
}

func (s *RateLimiterSuite) TestBlocksOverBudget() {
	Expect(s.do("POST", "/todos").Code).To(Equal(http.StatusOK))
	Expect(s.do("POST", "/todos").Code).To(Equal(http.StatusOK))

	rr := s.do("POST", "/todos")

	Expect(rr.Code).To(Equal(http.StatusTooManyRequests))
	Expect(rr.Header().Get("Retry-After")).To(Equal("60"))
}

func (s *RateLimiterSuite) TestUnconfiguredRouteIsUnlimited() {
	for i := 0; i < 10; i++ {
		Expect(s.do("GET", "/todos").Code).To(Equal(http.StatusOK))
	}
}

func (s *RateLimiterSuite) TestBudgetsAreSeparatedByClient() {
	Expect(s.do("POST", "/todos").Code).To(Equal(http.StatusOK))
	Expect(s.do("POST", "/todos").Code).To(Equal(http.StatusOK))
	Expect(s.do("POST", "/todos").Code).To(Equal(http.StatusTooManyRequests))

	req, _ := http.NewRequest("POST", "/todos", nil)
	req.RemoteAddr = "10.0.0.2:1234"

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))
}
