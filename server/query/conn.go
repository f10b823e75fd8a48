package query

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"math/rand/v2"
	"net"
	"strconv"
	"sync"
	"time"
)

// Responder answers status queries sent to a PacketConn.
type Responder struct {
	conn     net.PacketConn
	log      *slog.Logger
	provider ProviderFunc
	host     string
	port     int

	snap snapshots

	mu     sync.Mutex
	tokens map[string]token

	closeOnce sync.Once
}

type token struct {
	value  int32
	expiry time.Time
}

// handleQuery recognises and processes query requests. It returns false for
// datagrams that are not queries.
func (r *Responder) handleQuery(b []byte, addr net.Addr) bool {
	if len(b) < 7 || b[0] != queryVersion[0] || b[1] != queryVersion[1] {
		return false
	}
	reqType := b[2]
	sequence := int32(binary.BigEndian.Uint32(b[3:7]))
	switch reqType {
	case queryTypeHandshake:
		r.writeHandshake(addr, sequence, r.newToken(addr.String()))
		return true
	case queryTypeInformation:
		if len(b) <= 7 {
			return true
		}
		value, ok := parseTokenValue(b[7:])
		if !ok || !r.validateToken(addr.String(), value) {
			return true
		}
		r.writeInfo(addr, sequence)
		return true
	default:
		return false
	}
}

// newToken issues a temporary token for the provided address. The token is
// required by the query protocol to guard against amplification attacks.
func (r *Responder) newToken(addr string) int32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tokens == nil {
		r.tokens = make(map[string]token)
	}
	now := time.Now()
	for a, t := range r.tokens {
		if now.After(t.expiry) {
			delete(r.tokens, a)
		}
	}
	value := rand.Int32()
	r.tokens[addr] = token{value: value, expiry: now.Add(30 * time.Second)}
	return value
}

// validateToken checks whether a previously issued token remains valid for the
// provided address.
func (r *Responder) validateToken(addr string, value int32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[addr]
	if !ok || time.Now().After(t.expiry) || t.value != value {
		delete(r.tokens, addr)
		return false
	}
	return true
}

// writeHandshake constructs the handshake response that contains the issued
// token.
func (r *Responder) writeHandshake(addr net.Addr, sequence, token int32) {
	buf := bytes.NewBuffer(make([]byte, 0, 1+4+12))
	buf.WriteByte(queryTypeHandshake)
	_ = binary.Write(buf, binary.BigEndian, sequence)

	tokenStr := strconv.FormatInt(int64(token), 10)
	if len(tokenStr) > 12 {
		tokenStr = tokenStr[:12]
	}
	buf.WriteString(tokenStr)
	if padding := 12 - len(tokenStr); padding > 0 {
		buf.Write(make([]byte, padding))
	}
	if _, err := r.conn.WriteTo(buf.Bytes(), addr); err != nil {
		r.log.Debug("Query handshake write failed.", "error", err, "raddr", addr.String())
	}
}

// writeInfo renders the full status payload for a validated query request.
func (r *Responder) writeInfo(addr net.Addr, sequence int32) {
	data := r.snap.collect(r.provider, r.host, r.port)

	buf := bytes.NewBuffer(make([]byte, 0, 256))
	buf.WriteByte(queryTypeInformation)
	_ = binary.Write(buf, binary.BigEndian, sequence)
	buf.Write(querySplitNum[:])
	buf.WriteByte(0x80)
	buf.WriteByte(0x00)

	for _, kv := range data.keyValues() {
		buf.WriteString(kv.key)
		buf.WriteByte(0x00)
		buf.WriteString(kv.value)
		buf.WriteByte(0x00)
	}
	buf.WriteByte(0x00)
	buf.Write(queryPlayerKey[:])
	buf.WriteByte(0x00)

	if _, err := r.conn.WriteTo(buf.Bytes(), addr); err != nil {
		r.log.Debug("Query info write failed.", "error", err, "raddr", addr.String())
	}
}

func parseTokenValue(payload []byte) (int32, bool) {
	trimmed := payload
	if len(trimmed) >= 4 {
		if i := bytes.Index(trimmed, []byte{0xff, 0xff, 0xff, 0x01}); i >= 0 {
			trimmed = trimmed[:i]
		}
	}
	trimmed = bytes.TrimRight(trimmed, "\x00")
	if len(trimmed) > 0 {
		if value, err := strconv.ParseInt(string(trimmed), 10, 32); err == nil {
			return int32(value), true
		}
	}
	if len(payload) >= 4 {
		return int32(binary.BigEndian.Uint32(payload[:4])), true
	}
	return 0, false
}
