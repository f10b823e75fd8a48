package server

import (
	"context"
	"time"

	"github.com/dm-vev/voxeltick/server/query"
	"github.com/dm-vev/voxeltick/server/world"
)

// queryTimeout is the time the query responder waits for the tick goroutine to collect fresh data before it
// falls back to the latest snapshot.
const queryTimeout = 50 * time.Millisecond

// startQuery starts a query responder on conf.QueryAddress, if set. It runs until ctx is cancelled.
func (srv *Server) startQuery(ctx context.Context) {
	if srv.conf.QueryAddress == "" {
		return
	}
	r, err := query.Config{
		Log:      srv.log,
		Address:  srv.conf.QueryAddress,
		Provider: srv.queryData,
	}.Listen()
	if err != nil {
		srv.log.Error("Could not start query responder.", "address", srv.conf.QueryAddress, "error", err)
		return
	}
	srv.log.Info("Query responder listening.", "address", r.Addr())
	go func() {
		if err := r.Serve(ctx); err != nil {
			srv.log.Error("Query responder stopped.", "error", err)
		}
	}()
}

// queryData collects the state of the world on the tick goroutine for the query responder.
func (srv *Server) queryData(string, int) (query.Data, bool) {
	data := query.Data{HostName: srv.conf.Name, WorldName: srv.conf.Name, TPS: srv.TPS()}
	var ran bool
	done := srv.Exec(func(w *world.World) {
		data.Tick = w.CurrentTick()
		data.Entities = len(w.Entities())
		ran = true
	})
	select {
	case <-done:
	case <-time.After(queryTimeout):
		return query.Data{}, false
	}
	if !ran {
		return query.Data{}, false
	}
	data.Failures = srv.Metrics().Failures
	return data, true
}
