package backend

import (
	"context"
	"log"
	"time"

	"github.com/matst80/node-finder/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nodefinder_backend_fetch_failures_total",
		Help: "The total number of failed node fetches",
	})
	nodeCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nodefinder_nodes",
		Help: "The number of nodes in the last fetched collection",
	})
)

type NodeFetcher interface {
	FetchNodes(ctx context.Context) ([]types.Node, error)
}

// NodeReplacer receives a complete collection.
type NodeReplacer interface {
	Replace(nodes []types.Node)
}

// Poller refreshes the collection from the backend on an interval. A failed
// fetch keeps the last known collection.
type Poller struct {
	fetcher  NodeFetcher
	target   NodeReplacer
	interval time.Duration
	// OnRefresh is called after every successful fetch.
	OnRefresh func(nodes []types.Node)
}

func NewPoller(fetcher NodeFetcher, target NodeReplacer, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Poller{
		fetcher:  fetcher,
		target:   target,
		interval: interval,
	}
}

// Refresh fetches once.
func (p *Poller) Refresh(ctx context.Context) error {
	nodes, err := p.fetcher.FetchNodes(ctx)
	if err != nil {
		fetchFailures.Inc()
		return err
	}
	p.target.Replace(nodes)
	nodeCount.Set(float64(len(nodes)))
	if p.OnRefresh != nil {
		p.OnRefresh(nodes)
	}
	return nil
}

// Run refreshes immediately and then every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		if err := p.Refresh(ctx); err != nil {
			log.Printf("Failed to fetch nodes, keeping last known collection: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
