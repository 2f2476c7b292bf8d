package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/matst80/node-finder/pkg/common"
	"github.com/matst80/node-finder/pkg/facet"
	"github.com/matst80/node-finder/pkg/index"
	"github.com/matst80/node-finder/pkg/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	DefaultUser   = "admin"
	DefaultScreen = "nodes"
	UserHeader    = "X-User"
)

// WebServer serves node views over one shared node index.
type WebServer struct {
	Index    *index.NodeIndex
	Config   types.EngineConfig
	Store    types.PreferenceStore
	Notifier PreferenceNotifier
	Sessions *SessionStore
	// InstanceId tags outgoing preference notifications so this instance can
	// skip its own.
	InstanceId     string
	SearchDebounce time.Duration
	bounds         *facet.BoundsCache
}

func NewWebServer(idx *index.NodeIndex, cfg types.EngineConfig, store types.PreferenceStore) *WebServer {
	return &WebServer{
		Index:          idx,
		Config:         cfg,
		Store:          store,
		Sessions:       NewSessionStore(DefaultSessionTTL),
		InstanceId:     uuid.New().String(),
		SearchDebounce: index.DefaultSearchDebounce,
		bounds:         facet.NewBoundsCache(),
	}
}

func (ws *WebServer) Handler() *http.ServeMux {
	srv := http.NewServeMux()

	srv.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		defaultHeaders(w, r, false, "0")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	srv.Handle("/metrics", promhttp.Handler())

	srv.HandleFunc("GET /api/nodes", common.JsonHandler(ws.GetNodes))
	srv.HandleFunc("POST /api/nodes", common.JsonHandler(ws.GetNodes))
	srv.HandleFunc("GET /api/nodes/{id}", common.JsonHandler(ws.GetNode))
	srv.HandleFunc("GET /api/options/{name}", common.JsonHandler(ws.GetOptions))
	srv.HandleFunc("GET /api/bounds/{name}", common.JsonHandler(ws.GetBounds))
	srv.HandleFunc("GET /api/labels", common.JsonHandler(ws.GetLabels))

	srv.HandleFunc("GET /api/preferences/{screen}", common.JsonHandler(ws.GetPreferences))
	srv.HandleFunc("PUT /api/preferences/{screen}", common.JsonHandler(ws.SavePreferences))

	srv.HandleFunc("GET /api/session", common.JsonHandler(ws.GetSession))
	srv.HandleFunc("DELETE /api/session", common.JsonHandler(ws.CloseSession))
	srv.HandleFunc("POST /api/session/search", common.JsonHandler(ws.SetSearch))
	srv.HandleFunc("PUT /api/session/view_mode", common.JsonHandler(ws.SetViewMode))
	srv.HandleFunc("POST /api/session/filters", common.JsonHandler(ws.AddFilter))
	srv.HandleFunc("PUT /api/session/filters/{name}", common.JsonHandler(ws.ChangeFilter))
	srv.HandleFunc("DELETE /api/session/filters/{name}", common.JsonHandler(ws.RemoveFilter))
	srv.HandleFunc("POST /api/session/sorters", common.JsonHandler(ws.AddSorter))
	srv.HandleFunc("DELETE /api/session/sorters/{name}", common.JsonHandler(ws.RemoveSorter))
	srv.HandleFunc("POST /api/session/sorters/{name}/toggle", common.JsonHandler(ws.ToggleSorter))
	srv.HandleFunc("POST /api/session/sorters/{name}/move", common.JsonHandler(ws.MoveSorter))

	srv.HandleFunc("OPTIONS /api/", common.RespondToOptions)

	return srv
}
