package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/matst80/node-finder/pkg/common"
	"github.com/matst80/node-finder/pkg/facet"
	"github.com/matst80/node-finder/pkg/index"
	"github.com/matst80/node-finder/pkg/types"
)

// loadPreferences returns the stored preferences or the defaults when the
// user has none.
func (ws *WebServer) loadPreferences(r *http.Request, user, screen string) (types.Preferences, error) {
	if ws.Store == nil {
		return types.DefaultPreferences(), nil
	}
	prefs, err := ws.Store.Load(r.Context(), types.PreferenceKey(user, screen))
	if errors.Is(err, types.ErrNotFound) {
		return types.DefaultPreferences(), nil
	}
	return prefs, err
}

// GetNodes derives a stateless view. Requests without their own filter,
// sorter or search state use the user's stored preferences.
func (ws *WebServer) GetNodes(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	vr, err := types.GetViewRequest(r)
	if err != nil {
		return common.NewStatusError(http.StatusBadRequest, err)
	}
	var state index.ViewState
	if vr.HasState() {
		state = index.ViewState{Filters: vr.Filters, Sorters: vr.Sorters, Search: vr.Search}
	} else {
		user := vr.User
		if user == "" {
			user = userFromRequest(r)
		}
		prefs, err := ws.loadPreferences(r, user, vr.Screen)
		if err != nil {
			return common.NewStatusError(http.StatusInternalServerError, err)
		}
		state = index.ViewStateFromPreferences(prefs)
	}
	noViews.Inc()
	result := index.DeriveFromIndex(ws.Index, state, ws.Config)
	defaultHeaders(w, r, true, "10")
	return enc.Encode(newViewResponse(result, state))
}

func (ws *WebServer) GetNode(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		return common.NewStatusError(http.StatusBadRequest, err)
	}
	node, ok := ws.Index.Get(types.NodeId(id))
	if !ok {
		return common.NewStatusError(http.StatusNotFound, fmt.Errorf("node %d not found", id))
	}
	defaultHeaders(w, r, true, "10")
	return enc.Encode(node)
}

func (ws *WebServer) GetOptions(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	key := attributeKeyFromRequest(r)
	options := facet.AvailableOptions(key.Name, key.IsLabel, ws.Index.All(), ws.Config)
	if options == nil {
		return common.NewStatusError(http.StatusBadRequest, fmt.Errorf("%s is a number range, use bounds", key.Name))
	}
	defaultHeaders(w, r, true, "30")
	return enc.Encode(options)
}

func (ws *WebServer) GetBounds(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	name := r.PathValue("name")
	if !(types.Filter{Name: name}).IsNumberRange() {
		return common.NewStatusError(http.StatusBadRequest, fmt.Errorf("%s is not a number range", name))
	}
	nodes, version := ws.Index.Snapshot()
	defaultHeaders(w, r, true, "30")
	return enc.Encode(ws.bounds.Get(version, name, nodes))
}

func (ws *WebServer) GetLabels(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	defaultHeaders(w, r, true, "30")
	return enc.Encode(facet.LabelKeys(ws.Index.All()))
}

func (ws *WebServer) GetPreferences(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	prefs, err := ws.loadPreferences(r, userFromRequest(r), r.PathValue("screen"))
	if err != nil {
		return common.NewStatusError(http.StatusInternalServerError, err)
	}
	defaultHeaders(w, r, true, "0")
	return enc.Encode(prefs)
}

func (ws *WebServer) SavePreferences(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	if ws.Store == nil {
		return common.NewStatusError(http.StatusServiceUnavailable, errors.New("no preference store"))
	}
	prefs := types.DefaultPreferences()
	if err := decodeBody(r, &prefs); err != nil {
		return err
	}
	user := userFromRequest(r)
	screen := r.PathValue("screen")
	if err := ws.Store.Save(r.Context(), types.PreferenceKey(user, screen), prefs); err != nil {
		return common.NewStatusError(http.StatusInternalServerError, err)
	}
	ws.notifyPreferences(user, screen)
	ws.Sessions.ForUser(user, screen, func(s *index.Session) {
		if err := s.Load(r.Context()); err != nil {
			log.Printf("Failed to reload session preferences for %s: %v", user, err)
		}
	})
	defaultHeaders(w, r, true, "0")
	return enc.Encode(prefs)
}
