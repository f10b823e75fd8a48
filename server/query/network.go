package query

import (
	"context"
	"errors"
	"log/slog"
	"net"
)

const (
	queryTypeHandshake   = 0x09
	queryTypeInformation = 0x00
)

var (
	querySplitNum  = [...]byte{'S', 'P', 'L', 'I', 'T', 'N', 'U', 'M', 0x00}
	queryPlayerKey = [...]byte{0x00, 0x01, 'p', 'l', 'a', 'y', 'e', 'r', '_', 0x00, 0x00}
	queryVersion   = [...]byte{0xfe, 0xfd}
)

// Config holds the options of a Responder.
type Config struct {
	// Log is the Logger used for logging failed writes. If nil, slog.Default() is used.
	Log *slog.Logger
	// Address is the UDP address the Responder listens on, such as ":19132".
	Address string
	// Provider produces the Data returned to clients. If nil, only default
	// values are returned.
	Provider ProviderFunc
}

// Listen opens a UDP socket on conf.Address and returns a Responder serving
// queries on it once Serve is called.
func (conf Config) Listen() (*Responder, error) {
	conn, err := net.ListenPacket("udp", conf.Address)
	if err != nil {
		return nil, err
	}
	return conf.New(conn), nil
}

// New returns a Responder serving queries on an already opened PacketConn.
// Closing the Responder closes conn.
func (conf Config) New(conn net.PacketConn) *Responder {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	host, port := "", 0
	if local, ok := conn.LocalAddr().(*net.UDPAddr); ok && local != nil {
		if local.IP != nil && !local.IP.IsUnspecified() {
			host = local.IP.String()
		}
		port = local.Port
	}
	return &Responder{
		conn:     conn,
		log:      conf.Log.With("subsystem", "query"),
		provider: conf.Provider,
		host:     canonicalHost(host),
		port:     port,
	}
}

// Serve reads and answers queries until ctx is cancelled or the Responder is
// closed. Datagrams that are not queries are ignored.
func (r *Responder) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = r.Close() })
	defer stop()

	buf := make([]byte, 2048)
	for {
		n, addr, err := r.conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		r.handleQuery(buf[:n], addr)
	}
}

// Addr returns the address the Responder is listening on.
func (r *Responder) Addr() net.Addr {
	return r.conn.LocalAddr()
}

// Close closes the socket of the Responder. Serve returns once it is closed.
func (r *Responder) Close() error {
	var err error
	r.closeOnce.Do(func() { err = r.conn.Close() })
	return err
}
