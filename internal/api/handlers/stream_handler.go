package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/paramveeRana/brainstroke3/internal/domain/entities"
	"github.com/paramveeRana/brainstroke3/internal/domain/providers"
	apperrors "github.com/paramveeRana/brainstroke3/pkg/errors"
)

const defaultHeartbeat = 30 * time.Second

// StreamHandler pushes a user's completed assessments as Server-Sent Events
type StreamHandler struct {
	eventBus  providers.EventBus
	heartbeat time.Duration
}

// NewStreamHandler creates a stream handler over the event bus
func NewStreamHandler(eventBus providers.EventBus) *StreamHandler {
	return &StreamHandler{eventBus: eventBus, heartbeat: defaultHeartbeat}
}

// WithHeartbeat overrides the keep-alive interval
func (h *StreamHandler) WithHeartbeat(interval time.Duration) *StreamHandler {
	if interval > 0 {
		h.heartbeat = interval
	}
	return h
}

// StreamAssessments handles GET /api/assessments/stream
func (h *StreamHandler) StreamAssessments(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	channel := providers.GetUserChannel(userID)
	events, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		respondWithAppError(w, r, apperrors.NewExternalError("failed to subscribe to "+channel, err))
		return
	}

	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	h.sendEvent(w, "connected", map[string]interface{}{
		"user_id":   userID,
		"timestamp": time.Now().UTC(),
	})
	if err := rc.Flush(); err != nil {
		log.Error().Err(err).Msg("Streaming not supported by response writer")
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Str("user_id", userID).Msg("Client disconnected from assessment stream")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now().UTC(),
			})
		case event, ok := <-events:
			if !ok {
				return
			}
			if event == nil || event.Type != entities.AssessmentEventCompleted {
				continue
			}
			h.sendEvent(w, string(event.Type), event)
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

// sendEvent writes one SSE frame
func (h *StreamHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal event data")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}
