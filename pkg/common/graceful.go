package common

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

// ShutdownHook runs after a termination signal, before the servers stop
// accepting requests. Errors are logged and shutdown continues.
type ShutdownHook func(ctx context.Context) error

// TimeoutConfig holds server and shutdown related timeouts.
type TimeoutConfig struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
	Hook       time.Duration
}

func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       15 * time.Second,
		Write:      30 * time.Second,
		Idle:       60 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	}
}

// LoadTimeoutConfig overrides the defaults from whole-second environment
// variables: READ_HEADER_TIMEOUT, READ_TIMEOUT, WRITE_TIMEOUT, IDLE_TIMEOUT,
// SHUTDOWN_TIMEOUT and HOOK_TIMEOUT. Invalid values keep the default.
func LoadTimeoutConfig(defaults TimeoutConfig) TimeoutConfig {
	apply := func(curr *time.Duration, env string) {
		if v, ok := os.LookupEnv(env); ok {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				*curr = time.Duration(n) * time.Second
			} else {
				log.Printf("Ignoring invalid %s=%q", env, v)
			}
		}
	}
	apply(&defaults.ReadHeader, "READ_HEADER_TIMEOUT")
	apply(&defaults.Read, "READ_TIMEOUT")
	apply(&defaults.Write, "WRITE_TIMEOUT")
	apply(&defaults.Idle, "IDLE_TIMEOUT")
	apply(&defaults.Shutdown, "SHUTDOWN_TIMEOUT")
	apply(&defaults.Hook, "HOOK_TIMEOUT")
	return defaults
}

func NewServerWithTimeouts(addr string, handler http.Handler, cfg TimeoutConfig) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeader,
		ReadTimeout:       cfg.Read,
		WriteTimeout:      cfg.Write,
		IdleTimeout:       cfg.Idle,
	}
}

// RunServersWithShutdown serves until SIGINT or SIGTERM, then runs the hooks
// in order and shuts every server down within cfg.Shutdown.
func RunServersWithShutdown(servers []*http.Server, cfg TimeoutConfig, hooks ...ShutdownHook) {
	for _, server := range servers {
		go func(s *http.Server) {
			log.Printf("Listening on %s", s.Addr)
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("Listen error on %s: %v", s.Addr, err)
			}
		}(server)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	<-ctx.Done()
	stop()
	log.Println("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown)
	defer cancel()

	hookTimeout := cfg.Hook
	if hookTimeout <= 0 {
		hookTimeout = 5 * time.Second
	}
	for i, h := range hooks {
		if h == nil {
			continue
		}
		hCtx, hCancel := context.WithTimeout(shutdownCtx, hookTimeout)
		if err := h(hCtx); err != nil {
			log.Printf("Shutdown hook %d failed: %v", i, err)
		}
		hCancel()
	}

	for _, server := range servers {
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Graceful shutdown of %s failed: %v", server.Addr, err)
		}
	}
	log.Println("Shutdown complete")
}
