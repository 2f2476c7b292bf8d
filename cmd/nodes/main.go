package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/matst80/node-finder/pkg/backend"
	"github.com/matst80/node-finder/pkg/common"
	"github.com/matst80/node-finder/pkg/index"
	"github.com/matst80/node-finder/pkg/server"
	"github.com/matst80/node-finder/pkg/storage"
	"github.com/matst80/node-finder/pkg/types"
	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	listenAddress = flag.String("listen", ":8080", "address to serve the api on")
	prefix        = "nodes"
	dataDir       = "data"
)

func init() {
	if p, ok := os.LookupEnv("AMQP_PREFIX"); ok {
		prefix = p
	}
	if d, ok := os.LookupEnv("DATA_DIR"); ok {
		dataDir = d
	}
}

type app struct {
	dirty     atomic.Bool
	conn      *amqp.Connection
	storage   *storage.DiskStorage
	nodeIndex *index.NodeIndex
	upserts   *common.QueueHandler[types.Node]
	server    *server.WebServer
}

func envDuration(name string, unit time.Duration, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(name)
	if !ok {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * unit
	}
	log.Printf("Ignoring invalid %s=%q", name, v)
	return fallback
}

func loadEngineConfig(diskStorage *storage.DiskStorage) types.EngineConfig {
	cfg := types.DefaultEngineConfig()
	if err := diskStorage.LoadEngineConfig(&cfg); err != nil {
		log.Printf("Could not load settings from file: %v", err)
	}
	if roles, ok := os.LookupEnv("ROLE_ORDER"); ok {
		cfg.RoleOrder = types.ParseList(roles)
	}
	if statuses, ok := os.LookupEnv("STATUS_PRIORITY"); ok {
		cfg.StatusPriority = types.ParseList(statuses)
	}
	return cfg
}

func (a *app) saveSnapshot() error {
	if !a.dirty.Swap(false) {
		return nil
	}
	log.Println("Saving node snapshot")
	return a.storage.SaveNodes(a.nodeIndex.Nodes())
}

func (a *app) startSaveTicker(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := a.saveSnapshot(); err != nil {
					log.Printf("Failed to save nodes: %v", err)
				}
			}
		}
	}()
}

func main() {
	flag.Parse()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	diskStorage := storage.NewDiskStorage(prefix, dataDir)
	cfg := loadEngineConfig(diskStorage)

	nodeIndex := index.NewNodeIndex()
	if err := diskStorage.LoadNodes(nodeIndex); err != nil {
		log.Printf("Could not load node snapshot: %v", err)
	}

	var store types.PreferenceStore
	if redisUrl, ok := os.LookupEnv("REDIS_URL"); ok {
		redisStore := storage.NewRedisPreferenceStore(redisUrl, os.Getenv("REDIS_PASSWORD"), 0)
		if err := redisStore.Ping(ctx); err != nil {
			log.Printf("Redis not reachable yet: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		log.Println("REDIS_URL not set, keeping preferences in memory")
		store = storage.NewMemoryPreferenceStore()
	}

	ws := server.NewWebServer(nodeIndex, cfg, store)
	ws.SearchDebounce = envDuration("SEARCH_DEBOUNCE_MS", time.Millisecond, index.DefaultSearchDebounce)

	a := &app{
		storage:   diskStorage,
		nodeIndex: nodeIndex,
		server:    ws,
	}
	a.upserts = common.NewQueueHandler(func(nodes []types.Node) {
		nodeIndex.Upsert(nodes...)
		a.dirty.Store(true)
	}, 200)
	defer a.upserts.Close()

	if backendUrl, ok := os.LookupEnv("BACKEND_URL"); ok {
		poller := backend.NewPoller(backend.NewClient(backendUrl), nodeIndex, envDuration("POLL_INTERVAL", time.Second, time.Minute))
		poller.OnRefresh = func(nodes []types.Node) {
			a.dirty.Store(true)
		}
		go poller.Run(ctx)
	}

	if amqpUrl, ok := os.LookupEnv("RABBIT_HOST"); ok {
		a.ConnectAmqp(amqpUrl)
		defer a.conn.Close()
	}
	a.startSaveTicker(ctx)

	timeouts := common.LoadTimeoutConfig(common.DefaultTimeoutConfig())
	srv := common.NewServerWithTimeouts(*listenAddress, ws.Handler(), timeouts)
	common.RunServersWithShutdown(
		[]*http.Server{srv},
		timeouts,
		func(ctx context.Context) error {
			cancel()
			a.upserts.Wait()
			return a.saveSnapshot()
		},
	)
}
