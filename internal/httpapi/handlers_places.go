package httpapi

import (
	"net/http"
	"strconv"

	"github.com/HilmanThoriq/finterra-app/internal/core"
	"github.com/HilmanThoriq/finterra-app/internal/log"
	"github.com/HilmanThoriq/finterra-app/internal/places"
)

const (
	defaultNearbyRadius = 500
	maxNearbyRadius     = 5000
)

type placeJSON struct {
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	Location core.Location `json:"location"`
	Distance float64       `json:"distance"`
	Display  string        `json:"displayDistance"`
}

func (s *Server) handleNearbyPlaces(w http.ResponseWriter, r *http.Request) {
	if s.places == nil {
		writeError(w, http.StatusServiceUnavailable, "Places lookup is not configured")
		return
	}

	loc, ok := locationFromQuery(w, r)
	if !ok {
		return
	}

	radius := defaultNearbyRadius
	if v := r.URL.Query().Get("radius"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid radius")
			return
		}
		radius = min(parsed, maxNearbyRadius)
	}

	results, err := s.places.NearbySearch(r.Context(), loc, radius)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Nearby search failed",
			log.FieldError, err.Error(),
			"error_type", log.ErrorTypeNetwork)
		writeError(w, http.StatusBadGateway, "Places lookup failed")
		return
	}

	out := make([]placeJSON, len(results))
	for i, p := range results {
		out[i] = placeJSON{
			Name:     p.Name,
			Type:     p.Type,
			Location: p.Location,
			Distance: p.Distance,
			Display:  places.FormatDistance(p.Distance),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReverseGeocode(w http.ResponseWriter, r *http.Request) {
	if s.places == nil {
		writeError(w, http.StatusServiceUnavailable, "Places lookup is not configured")
		return
	}

	loc, ok := locationFromQuery(w, r)
	if !ok {
		return
	}

	address, err := s.places.ReverseGeocode(r.Context(), loc)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Reverse geocode failed",
			log.FieldError, err.Error(),
			"error_type", log.ErrorTypeNetwork)
		writeError(w, http.StatusBadGateway, "Address lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"address": address})
}

func locationFromQuery(w http.ResponseWriter, r *http.Request) (core.Location, bool) {
	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
	if latErr != nil || lngErr != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		writeError(w, http.StatusBadRequest, "Invalid coordinates")
		return core.Location{}, false
	}
	return core.Location{Latitude: lat, Longitude: lng}, true
}
