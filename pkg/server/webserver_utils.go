package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/matst80/node-finder/pkg/common"
	"github.com/matst80/node-finder/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noViews = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nodefinder_views_total",
		Help: "The total number of served node views",
	})
	noSessionChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nodefinder_session_changes_total",
		Help: "The total number of session filter, sorter and search changes",
	}, []string{"change"})
	preferenceSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nodefinder_preference_saves_total",
		Help: "The total number of saved user preferences",
	})
	liveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nodefinder_sessions",
		Help: "The number of live screen sessions",
	})
)

func defaultHeaders(w http.ResponseWriter, r *http.Request, isJson bool, cacheTime string) {
	w.Header().Set("Cache-Control", "private, stale-while-revalidate="+cacheTime)
	genericHeaders(w, r, isJson)
}

func genericHeaders(w http.ResponseWriter, r *http.Request, isJson bool) {
	if isJson {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
	}
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
}

func userFromRequest(r *http.Request) string {
	if user := strings.TrimSpace(r.Header.Get(UserHeader)); user != "" {
		return user
	}
	return DefaultUser
}

func screenFromRequest(r *http.Request) string {
	if screen := strings.TrimSpace(r.URL.Query().Get("screen")); screen != "" {
		return screen
	}
	return DefaultScreen
}

func isLabelRequest(r *http.Request) bool {
	v := r.URL.Query().Get("label")
	return v == "1" || v == "true"
}

func attributeKeyFromRequest(r *http.Request) types.AttributeKey {
	return types.AttributeKey{Name: r.PathValue("name"), IsLabel: isLabelRequest(r)}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.NewStatusError(http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
	}
	return nil
}
