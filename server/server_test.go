package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dm-vev/voxeltick/server/block"
	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/query"
	"github.com/dm-vev/voxeltick/server/world"
)

func newTestServer() *Server {
	return Config{
		Log:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		TickInterval:    time.Millisecond,
		RandomTickSpeed: -1,
	}.New()
}

func TestServerTicksAndExecutes(t *testing.T) {
	srv := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errs := make(chan error, 1)
	go func() { errs <- srv.Run(ctx) }()

	<-srv.Exec(func(w *world.World) {
		w.SetBlock(cube.Pos{0, 10, 0}, world.Block{Type: block.Stone}, nil)
	})
	deadline := time.After(5 * time.Second)
	for {
		var tick int64
		var b world.Block
		<-srv.Exec(func(w *world.World) {
			tick, b = w.CurrentTick(), w.Block(cube.Pos{0, 10, 0})
		})
		if b.Type != block.Stone {
			t.Fatalf("expected block set in an earlier task, got %v", b)
		}
		if tick >= 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("world was not ticked")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	if err := <-errs; err != nil {
		t.Fatalf("run: %v", err)
	}
	if m := srv.Metrics(); m.Ticks < 3 {
		t.Fatalf("expected at least 3 ticks recorded, got %v", m.Ticks)
	}

	ran := false
	<-srv.Exec(func(*world.World) { ran = true })
	if ran {
		t.Fatalf("expected task submitted after closing not to run")
	}
	if err := srv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestServerTaskPanic(t *testing.T) {
	srv := newTestServer()
	go func() { _ = srv.Run(context.Background()) }()
	defer srv.Close()

	<-srv.Exec(func(*world.World) { panic("task failure") })
	ran := false
	<-srv.Exec(func(*world.World) { ran = true })
	if !ran {
		t.Fatalf("expected tick loop to survive a panicking task")
	}
}

func TestServerCloseWithoutRun(t *testing.T) {
	srv := newTestServer()
	if err := srv.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := srv.Run(context.Background()); !errors.Is(err, ErrRunning) {
		t.Fatalf("expected ErrRunning after closing, got %v", err)
	}
	if err := srv.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestServerQueryData(t *testing.T) {
	srv := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() { errs <- srv.Run(ctx) }()

	var (
		data query.Data
		ok   bool
	)
	for range 100 {
		if data, ok = srv.queryData("", 0); ok {
			break
		}
	}
	if !ok {
		t.Fatalf("expected query data to be collected on a running server")
	}
	if data.WorldName != "World" || data.HostName != "World" {
		t.Fatalf("unexpected query data %+v", data)
	}

	cancel()
	if err := <-errs; err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, ok := srv.queryData("", 0); ok {
		t.Fatalf("expected no query data once the server was closed")
	}
}
