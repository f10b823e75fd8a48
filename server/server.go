// Package server runs a world: it ticks it at a fixed rate and executes work submitted from other
// goroutines between ticks.
package server

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dm-vev/voxeltick/server/block"
	"github.com/dm-vev/voxeltick/server/entity"
	"github.com/dm-vev/voxeltick/server/world"
)

const (
	tpsSampleSize       = 20
	tpsWarningThreshold = 19.0
)

// ErrRunning is returned by Run if the Server is already running.
var ErrRunning = errors.New("server is already running")

// Server owns a World and ticks it from a single goroutine. All access to the World happens on that
// goroutine, either during a tick or through Exec.
type Server struct {
	conf Config
	log  *slog.Logger

	w        *world.World
	metrics  *world.Metrics
	registry *block.Registry

	tps     atomic.Uint64
	started atomic.Bool

	// mu guards sending to queue against closing.
	mu        sync.RWMutex
	queue     chan task
	closing   chan struct{}
	closeOnce sync.Once
	done      chan struct{}
	err       error
}

type task struct {
	f    func(w *world.World)
	done chan struct{}
}

// New creates a Server using the Config conf. The world is loaded from conf.Provider immediately, but it is
// not ticked until Run is called.
func (conf Config) New() *Server {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.Name == "" {
		conf.Name = "World"
	}
	if conf.TickInterval <= 0 {
		conf.TickInterval = time.Second / 20
	}
	srv := &Server{
		conf:     conf,
		log:      conf.Log,
		metrics:  world.NewMetrics(),
		registry: block.NewRegistry(),
		queue:    make(chan task, 64),
		closing:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	srv.w = world.Config{
		Log:             conf.Log,
		Name:            conf.Name,
		Range:           conf.Range,
		Seed:            conf.Seed,
		RandomTickSpeed: conf.RandomTickSpeed,
		Blocks:          srv.registry,
		Entities:        entity.Engine{ItemDespawnAge: conf.ItemDespawnAge},
		EntityTypes:     entity.Types(),
		Network:         conf.Network,
		Provider:        conf.Provider,
		Bus:             conf.Bus,
		Metrics:         srv.metrics,
	}.New()
	return srv
}

// Registry returns the block behaviour registry of the world. Behaviours must be registered before Run is
// called.
func (srv *Server) Registry() *block.Registry {
	return srv.registry
}

// Run ticks the world until ctx is cancelled or Close is called. The world is closed and saved before Run
// returns.
func (srv *Server) Run(ctx context.Context) error {
	if !srv.started.CompareAndSwap(false, true) {
		return ErrRunning
	}
	srv.log.Info("Server running.", "world", srv.w.Name(), "interval", srv.conf.TickInterval)
	qctx, cancelQuery := context.WithCancel(ctx)
	srv.startQuery(qctx)
	srv.tickLoop(ctx)
	srv.stop()
	cancelQuery()

	srv.err = srv.w.Close()
	// Tasks submitted while the Server was closing never run, but their callers are released.
	for len(srv.queue) > 0 {
		close((<-srv.queue).done)
	}
	close(srv.done)

	m := srv.metrics.Snapshot()
	srv.log.Info("Server closed.", "ticks", m.Ticks, "failures", m.Failures, "error", srv.err)
	return srv.err
}

// tickLoop ticks the world at the configured interval, sampling the tick rate. Tasks are executed between
// ticks.
func (srv *Server) tickLoop(ctx context.Context) {
	tc := time.NewTicker(srv.conf.TickInterval)
	defer tc.Stop()
	lastTick := time.Now()
	var (
		durationSum time.Duration
		ticksCount  int
		warned      bool
	)
	target := 1 / srv.conf.TickInterval.Seconds()
	for {
		select {
		case <-tc.C:
			tickStart := time.Now()
			duration := tickStart.Sub(lastTick)
			lastTick = tickStart
			if duration > 0 {
				durationSum += duration
				ticksCount++
				if ticksCount >= tpsSampleSize {
					tps := 1.0 / (durationSum / time.Duration(ticksCount)).Seconds()
					srv.tps.Store(math.Float64bits(tps))
					if tps < tpsWarningThreshold*target/20 {
						if !warned {
							srv.log.Warn("TPS dropped below threshold.", "tps", tps)
							warned = true
						}
					} else {
						warned = false
					}
					durationSum, ticksCount = 0, 0
				}
			}
			srv.w.Tick()
		case t := <-srv.queue:
			srv.run(t)
		case <-ctx.Done():
			return
		case <-srv.closing:
			return
		}
	}
}

// run executes a task, logging a panic instead of crashing the tick loop.
func (srv *Server) run(t task) {
	defer close(t.done)
	defer func() {
		if r := recover(); r != nil {
			srv.log.Error("Task failed.", "panic", r)
		}
	}()
	t.f(srv.w)
}

// Exec schedules f to be executed on the goroutine ticking the world, between two ticks. The channel
// returned is closed once f was executed. If the Server is closed, f is never executed and the channel
// returned is closed immediately.
func (srv *Server) Exec(f func(w *world.World)) <-chan struct{} {
	t := task{f: f, done: make(chan struct{})}
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	select {
	case <-srv.closing:
		close(t.done)
		return t.done
	default:
	}
	select {
	case srv.queue <- t:
	case <-srv.closing:
		close(t.done)
	}
	return t.done
}

// stop signals the tick loop to stop and waits until no Exec call is sending a task anymore.
func (srv *Server) stop() {
	srv.closeOnce.Do(func() { close(srv.closing) })
	srv.mu.Lock()
	srv.mu.Unlock()
}

// TPS returns the amount of ticks per second measured over the last sample of ticks. It is 0 until the
// first sample was taken.
func (srv *Server) TPS() float64 {
	return math.Float64frombits(srv.tps.Load())
}

// Metrics returns a snapshot of the work done by the ticks of the world so far.
func (srv *Server) Metrics() world.MetricsSnapshot {
	return srv.metrics.Snapshot()
}

// Close stops ticking the world and waits until it was saved and closed. If Run was never called, the
// world is closed directly.
func (srv *Server) Close() error {
	srv.stop()
	if srv.started.CompareAndSwap(false, true) {
		srv.err = srv.w.Close()
		close(srv.done)
	}
	<-srv.done
	return srv.err
}
