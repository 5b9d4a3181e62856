package middleware

import (
	"net/http"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/plant-catalog/internal/config"
)

func TestBuildRateKey(t *testing.T) {
	tests := []struct {
		strategy string
		want     string
	}{
		{strategy: "ip", want: "rl:ip:10.0.0.7"},
		{strategy: "route", want: "rl:route:GET /plants/:id"},
		{strategy: "ip_route", want: "rl:ip:10.0.0.7:route:GET /plants/:id"},
		{strategy: "", want: "rl:ip:10.0.0.7:route:GET /plants/:id"},
	}
	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			c := qt.New(t)
			ctx, _ := newContext(http.MethodGet, "/plants/3")
			ctx.Request().RemoteAddr = "10.0.0.7:51234"
			ctx.SetPath("/plants/:id")

			got := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: tt.strategy}, ctx)
			c.Assert(got, qt.Equals, tt.want)
		})
	}
}

func TestAsInt64(t *testing.T) {
	c := qt.New(t)
	c.Assert(asInt64(int64(3)), qt.Equals, int64(3))
	c.Assert(asInt64(7), qt.Equals, int64(7))
	c.Assert(asInt64(2.9), qt.Equals, int64(2))
	c.Assert(asInt64("12"), qt.Equals, int64(12))
	c.Assert(asInt64("x"), qt.Equals, int64(0))
	c.Assert(asInt64(nil), qt.Equals, int64(0))
}

func TestTokenBucketFailsOpen(t *testing.T) {
	c := qt.New(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       1,
		RefillTokens:   1,
		RefillInterval: time.Second,
		TTL:            time.Minute,
		Prefix:         "rl",
	}
	mw := NewTokenBucket(cfg, unreachableRedis(c), discardLogger())

	for i := 0; i < 3; i++ {
		ctx, rec := newContext(http.MethodGet, "/plants")
		err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(ctx)
		c.Assert(err, qt.IsNil)
		c.Assert(rec.Code, qt.Equals, http.StatusOK)
	}
}

func TestTokenBucketWithoutRedis(t *testing.T) {
	c := qt.New(t)
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil, discardLogger())

	ctx, rec := newContext(http.MethodGet, "/plants")
	c.Assert(mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(ctx), qt.IsNil)
	c.Assert(rec.Header().Get("X-RateLimit-Limit"), qt.Equals, "")
}
