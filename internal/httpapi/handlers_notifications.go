package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/HilmanThoriq/finterra-app/internal/core"
	"github.com/HilmanThoriq/finterra-app/internal/log"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

type notificationJSON struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func toNotificationList(items []core.Notification) []notificationJSON {
	out := make([]notificationJSON, len(items))
	for i, n := range items {
		out[i] = notificationJSON{
			ID:        n.ID,
			Kind:      n.Kind,
			Title:     n.Title,
			Body:      n.Body,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
	}
	return out
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFrom(r)

	limit := defaultNotificationLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(parsed, maxNotificationLimit)
	}

	items, err := s.notifications.ListNotifications(r.Context(), ownerID, limit)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Notification list failed",
			log.FieldOwnerID, ownerID,
			log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to load notifications")
		return
	}

	writeJSON(w, http.StatusOK, toNotificationList(items))
}
