package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/matst80/node-finder/pkg/common"
	"github.com/matst80/node-finder/pkg/index"
	"github.com/matst80/node-finder/pkg/types"
)

var errNoSession = errors.New("no session for this screen, GET /api/session first")

// session returns the caller's screen session. A missing session is only
// created when create is set, with ?transient=1 making it in-memory only.
func (ws *WebServer) session(r *http.Request, sessionId string, create bool) (*sessionEntry, error) {
	screen := screenFromRequest(r)
	if !create {
		e, ok := ws.Sessions.Get(sessionId, screen)
		if !ok {
			return nil, common.NewStatusError(http.StatusNotFound, errNoSession)
		}
		return e, nil
	}
	q := r.URL.Query().Get("transient")
	transient := q == "1" || q == "true"
	user := userFromRequest(r)
	e, created, err := ws.Sessions.GetOrCreate(sessionId, screen, func() (*sessionEntry, error) {
		s := index.NewSession(sessionId, ws.Index, ws.Config, ws.Store, types.PreferenceKey(user, screen), index.SessionOptions{
			Transient:      transient,
			SearchDebounce: ws.SearchDebounce,
			OnSearchApplied: func(index.Result) {
				if !transient && ws.Store != nil {
					ws.notifyPreferences(user, screen)
				}
			},
		})
		if err := s.Load(r.Context()); err != nil {
			return nil, err
		}
		return &sessionEntry{session: s, user: user, screen: screen}, nil
	})
	if err != nil {
		return nil, common.NewStatusError(http.StatusInternalServerError, err)
	}
	if created {
		liveSessions.Set(float64(ws.Sessions.Len()))
		log.Printf("Created session %s for %s on %s (transient: %v)", sessionId, user, screen, transient)
	}
	return e, nil
}

func (ws *WebServer) encodeSession(w http.ResponseWriter, r *http.Request, e *sessionEntry, enc *json.Encoder) error {
	s := e.session
	state := s.State()
	noViews.Inc()
	defaultHeaders(w, r, true, "0")
	return enc.Encode(SessionResponse{
		Id:        s.Id,
		Screen:    e.screen,
		User:      e.user,
		Transient: s.IsTransient(),
		ViewMode:  s.ViewMode(),
		View:      newViewResponse(s.Result(), state),
	})
}

// mutate applies a session change and answers with the new view. Failing to
// persist is logged, the change itself stays applied.
func (ws *WebServer) mutate(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder, change string, fn func(ctx context.Context, s *index.Session) error) error {
	e, err := ws.session(r, sessionId, false)
	if err != nil {
		return err
	}
	noSessionChanges.WithLabelValues(change).Inc()
	if err := fn(r.Context(), e.session); err != nil {
		log.Printf("Failed to persist %s for session %s: %v", change, sessionId, err)
	} else if !e.session.IsTransient() && ws.Store != nil {
		ws.notifyPreferences(e.user, e.screen)
	}
	return ws.encodeSession(w, r, e, enc)
}

func (ws *WebServer) GetSession(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	e, err := ws.session(r, sessionId, true)
	if err != nil {
		return err
	}
	return ws.encodeSession(w, r, e, enc)
}

func (ws *WebServer) CloseSession(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	removed := ws.Sessions.Remove(sessionId, screenFromRequest(r))
	liveSessions.Set(float64(ws.Sessions.Len()))
	return enc.Encode(map[string]bool{"removed": removed})
}

// SetSearch schedules the search change. The view is only returned when the
// change is flushed, otherwise the request is accepted.
func (ws *WebServer) SetSearch(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	e, err := ws.session(r, sessionId, false)
	if err != nil {
		return err
	}
	req := SearchRequest{}
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	noSessionChanges.WithLabelValues("search").Inc()
	e.session.SetSearch(req.Search)
	if !req.Flush {
		w.WriteHeader(http.StatusAccepted)
		return enc.Encode(map[string]string{"search": req.Search})
	}
	e.session.FlushSearch()
	return ws.encodeSession(w, r, e, enc)
}

func (ws *WebServer) SetViewMode(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	req := ViewModeRequest{}
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	if req.ViewMode != types.ViewModeStandard && req.ViewMode != types.ViewModeCompact {
		return common.NewStatusError(http.StatusBadRequest, fmt.Errorf("unknown view mode %q", req.ViewMode))
	}
	return ws.mutate(w, r, sessionId, enc, "view_mode", func(ctx context.Context, s *index.Session) error {
		return s.SetViewMode(ctx, req.ViewMode)
	})
}

func (ws *WebServer) AddFilter(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	filter := types.Filter{}
	if err := decodeBody(r, &filter); err != nil {
		return err
	}
	if filter.Name == "" {
		return common.NewStatusError(http.StatusBadRequest, errors.New("filter name is required"))
	}
	if filter.Values == nil {
		filter.Values = []string{}
	}
	return ws.mutate(w, r, sessionId, enc, "add_filter", func(ctx context.Context, s *index.Session) error {
		return s.AddFilter(ctx, filter)
	})
}

func (ws *WebServer) ChangeFilter(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	req := ChangeFilterRequest{}
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	key := attributeKeyFromRequest(r)
	return ws.mutate(w, r, sessionId, enc, "change_filter", func(ctx context.Context, s *index.Session) error {
		return s.ChangeFilter(ctx, key, req.Values)
	})
}

func (ws *WebServer) RemoveFilter(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	key := attributeKeyFromRequest(r)
	return ws.mutate(w, r, sessionId, enc, "remove_filter", func(ctx context.Context, s *index.Session) error {
		return s.RemoveFilter(ctx, key)
	})
}

func (ws *WebServer) AddSorter(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	sorter := types.Sorter{}
	if err := decodeBody(r, &sorter); err != nil {
		return err
	}
	if sorter.Name == "" {
		return common.NewStatusError(http.StatusBadRequest, errors.New("sorter name is required"))
	}
	return ws.mutate(w, r, sessionId, enc, "add_sorter", func(ctx context.Context, s *index.Session) error {
		return s.AddSorter(ctx, sorter)
	})
}

func (ws *WebServer) RemoveSorter(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	key := attributeKeyFromRequest(r)
	return ws.mutate(w, r, sessionId, enc, "remove_sorter", func(ctx context.Context, s *index.Session) error {
		return s.RemoveSorter(ctx, key)
	})
}

func (ws *WebServer) ToggleSorter(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	key := attributeKeyFromRequest(r)
	return ws.mutate(w, r, sessionId, enc, "toggle_sorter", func(ctx context.Context, s *index.Session) error {
		return s.ToggleSorter(ctx, key)
	})
}

func (ws *WebServer) MoveSorter(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
	req := MoveSorterRequest{}
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	key := attributeKeyFromRequest(r)
	return ws.mutate(w, r, sessionId, enc, "move_sorter", func(ctx context.Context, s *index.Session) error {
		return s.MoveSorter(ctx, key, req.To)
	})
}
