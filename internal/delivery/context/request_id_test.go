package context

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newEchoContext() echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/products", nil)

	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestGetRequestID_Fallbacks(t *testing.T) {
	c := newEchoContext()
	assert.Empty(t, GetRequestID(c))

	c.Response().Header().Set(HeaderXRequestID, "from-header")
	assert.Equal(t, "from-header", GetRequestID(c))

	c.SetRequest(c.Request().WithContext(WithRequestID(c.Request().Context(), "from-context")))
	assert.Equal(t, "from-context", GetRequestID(c))

	SetRequestID(c, "from-echo")
	assert.Equal(t, "from-echo", GetRequestID(c))
}

func TestLoggerFromContext(t *testing.T) {
	fallback := slog.Default()
	assert.Nil(t, GetLogger(context.Background()))
	assert.Same(t, fallback, GetLoggerOrDefault(context.Background(), fallback))

	scoped := fallback.With(slog.String("request_id", "r1"))
	ctx := WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, GetLoggerOrDefault(ctx, fallback))
}
