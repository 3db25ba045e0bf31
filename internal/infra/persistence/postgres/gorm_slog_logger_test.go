package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"freshharvest/config"
	deliverycontext "freshharvest/internal/delivery/context"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newBufferedGormLogger(debug bool) (logger.Interface, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	base := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cfg := &config.Config{}
	cfg.Env.Debug = debug

	return newGormSlogLogger(base, cfg), buf
}

func sqlAndRows() (string, int64) {
	return "SELECT * FROM products", 3
}

func TestGormSlogLogger_Trace(t *testing.T) {
	t.Run("unexpected error logs at error level", func(t *testing.T) {
		gl, buf := newBufferedGormLogger(false)
		gl.Trace(context.Background(), time.Now(), sqlAndRows, errors.New("connection reset"))

		assert.Contains(t, buf.String(), `"level":"ERROR"`)
		assert.Contains(t, buf.String(), `"sql":"SELECT * FROM products"`)
	})

	t.Run("record not found is debug", func(t *testing.T) {
		gl, buf := newBufferedGormLogger(false)
		gl.Trace(context.Background(), time.Now(), sqlAndRows, gorm.ErrRecordNotFound)

		assert.Contains(t, buf.String(), `"level":"DEBUG"`)
		assert.NotContains(t, buf.String(), `"level":"ERROR"`)
	})

	t.Run("constraint violation is debug", func(t *testing.T) {
		gl, buf := newBufferedGormLogger(false)
		gl.Trace(context.Background(), time.Now(), sqlAndRows, gorm.ErrDuplicatedKey)

		assert.Contains(t, buf.String(), `"level":"DEBUG"`)
	})

	t.Run("slow query warns", func(t *testing.T) {
		gl, buf := newBufferedGormLogger(false)
		gl.Trace(context.Background(), time.Now().Add(-time.Second), sqlAndRows, nil)

		assert.Contains(t, buf.String(), `"msg":"GORM slow query"`)
	})

	t.Run("fast query is silent outside debug", func(t *testing.T) {
		gl, buf := newBufferedGormLogger(false)
		gl.Trace(context.Background(), time.Now(), sqlAndRows, nil)

		assert.Empty(t, buf.String())
	})

	t.Run("uses the request logger", func(t *testing.T) {
		gl, buf := newBufferedGormLogger(true)
		base := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		ctx := deliverycontext.WithLogger(context.Background(), base.With(slog.String("request_id", "req-9")))

		gl.Trace(ctx, time.Now(), sqlAndRows, nil)

		assert.Contains(t, buf.String(), `"request_id":"req-9"`)
		assert.Contains(t, buf.String(), `"rows":3`)
	})

	t.Run("silent mode", func(t *testing.T) {
		gl, buf := newBufferedGormLogger(true)
		gl.LogMode(logger.Silent).Trace(context.Background(), time.Now(), sqlAndRows, errors.New("boom"))

		assert.Empty(t, buf.String())
	})
}
