package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"freshharvest/config"
	deliverycontext "freshharvest/internal/delivery/context"
	"freshharvest/internal/domain/service"
	"freshharvest/internal/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// recentMessageLimit bounds how many message IDs are remembered for redelivery detection.
const recentMessageLimit = 1024

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// PushHandler consumes catalog events delivered by a push subscription and
// writes them to the audit log.
type PushHandler struct {
	logger      *slog.Logger
	verifyToken func(req *http.Request) error
	recent      *recentMessages
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	h := &PushHandler{
		logger: params.Logger,
		recent: newRecentMessages(recentMessageLimit),
	}

	// Google signs push requests with an OIDC token outside local development.
	if params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == config.PubSubProviderGoogle &&
		params.Config.Env.Env != config.EnvLocal {
		h.verifyToken = verifyPubSubToken
	}

	return h
}

// HandlePush acknowledges with 2xx once the event is recorded. Malformed
// messages get 400 so the subscription dead-letters them instead of retrying.
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyToken != nil {
		if err := h.verifyToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.CatalogEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse catalog event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}
	if event.ID == "" || event.Type == "" {
		h.logger.Error("[Worker] Catalog event is missing id or type",
			slog.String("message_id", pushMsg.Message.MessageID),
		)

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := h.extractRequestID(ctx, &pushMsg, &event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))

	messageID := pushMsg.Message.MessageID
	if messageID == "" {
		messageID = event.ID
	}
	if !h.recent.add(messageID) {
		reqLogger.Info("[Worker] Skipping redelivered message", slog.String("message_id", messageID))

		return c.NoContent(http.StatusOK)
	}

	reqLogger.LogAttrs(ctx, eventLevel(event.Type), "[Worker] Catalog event recorded", eventAttrs(&event)...)

	return c.NoContent(http.StatusOK)
}

// extractRequestID prefers message attributes, then the payload, then the
// X-Request-Id header, and finally generates one.
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.CatalogEvent) string {
	if requestID := pushMsg.Message.Attributes["request_id"]; requestID != "" {
		return requestID
	}

	if event.RequestID != "" {
		return event.RequestID
	}

	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

func eventLevel(eventType service.CatalogEventType) slog.Level {
	switch eventType {
	case service.EventUserRegistered,
		service.EventProductCreated,
		service.EventProductUpdated,
		service.EventProductDeleted:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

func eventAttrs(event *service.CatalogEvent) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("event_id", event.ID),
		slog.String("type", string(event.Type)),
		slog.Time("occurred_at", event.OccurredAt),
	}
	if event.UserID != "" {
		attrs = append(attrs, slog.String("user_id", event.UserID))
	}
	if event.ProductID != 0 {
		attrs = append(attrs, slog.Int64("product_id", event.ProductID))
	}
	if event.FarmerID != "" {
		attrs = append(attrs, slog.String("farmer_id", event.FarmerID))
	}
	if len(event.Fields) > 0 {
		attrs = append(attrs, slog.String("fields", strings.Join(event.Fields, ",")))
	}

	return attrs
}

// recentMessages is a fixed-size ring of message IDs already recorded.
type recentMessages struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
	next  int
}

func newRecentMessages(limit int) *recentMessages {
	return &recentMessages{
		seen:  make(map[string]struct{}, limit),
		order: make([]string, limit),
	}
}

// add reports false when id was already recorded.
func (r *recentMessages) add(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[id]; ok {
		return false
	}

	if evicted := r.order[r.next]; evicted != "" {
		delete(r.seen, evicted)
	}
	r.order[r.next] = id
	r.next = (r.next + 1) % len(r.order)
	r.seen[id] = struct{}{}

	return true
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience is the URL of this endpoint.
	scheme := "https"
	if req.TLS == nil {
		scheme = "http"
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	payload, err := idtoken.Validate(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
