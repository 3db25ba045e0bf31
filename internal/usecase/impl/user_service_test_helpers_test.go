package impl

import (
	"context"
	"io"
	"log/slog"

	deliverycontext "freshharvest/internal/delivery/context"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRequestContext(requestID string) context.Context {
	return deliverycontext.WithRequestID(context.Background(), requestID)
}
