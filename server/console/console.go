// Package console implements an operator console reading commands line by line and executing them on a
// running server.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dm-vev/voxeltick/server"
	"github.com/dm-vev/voxeltick/server/block"
	"github.com/dm-vev/voxeltick/server/block/cube"
	"github.com/dm-vev/voxeltick/server/event"
	"github.com/dm-vev/voxeltick/server/item"
	"github.com/dm-vev/voxeltick/server/world"
)

// Console provides a simple CLI backed command source that reads commands from an io.Reader (defaulting to
// os.Stdin) and executes them on the provided server.
type Console struct {
	srv    *server.Server
	log    *slog.Logger
	reader io.Reader
	stop   func()
}

// New returns a Console bound to the provided server. The console reads from os.Stdin and writes command
// output to the supplied logger. The stop function is called when the "stop" command is executed.
func New(srv *server.Server, log *slog.Logger, stop func()) *Console {
	if log == nil {
		log = slog.Default()
	}
	if stop == nil {
		stop = func() {}
	}
	return &Console{
		srv:    srv,
		log:    log,
		reader: os.Stdin,
		stop:   stop,
	}
}

// WithReader sets a custom reader for the console input. It enables testing the console without relying on
// os.Stdin.
func (c *Console) WithReader(r io.Reader) *Console {
	if r != nil {
		c.reader = r
	}
	return c
}

// Run starts consuming commands from the console. It blocks until the context is cancelled or the
// underlying reader reaches EOF. Cancelling the context returns immediately, even while a read is pending.
func (c *Console) Run(ctx context.Context) {
	lines := make(chan string)
	go c.read(ctx, lines)
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			c.handle(line)
		}
	}
}

// read scans lines from the reader of the console and sends them to lines, which is closed when the reader
// is exhausted or the context is cancelled.
func (c *Console) read(ctx context.Context, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(c.reader)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		c.log.Error("Console input failed.", "error", err)
	}
}

// handle executes a single line read from the console and logs its output.
func (c *Console) handle(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	out, err := c.ExecuteLine(strings.TrimPrefix(line, "/"))
	if err != nil {
		c.log.Error(err.Error())
		return
	}
	if out != "" {
		c.log.Info(out)
	}
}

// ExecuteLine executes a single command line and returns its output.
func (c *Console) ExecuteLine(line string) (string, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return "", nil
	}
	switch name := args[0]; name {
	case "status":
		var out string
		<-c.srv.Exec(func(w *world.World) {
			m := c.srv.Metrics()
			out = fmt.Sprintf("world=%v tick=%v tps=%.2f entities=%v failures=%v", w.Name(), w.CurrentTick(), c.srv.TPS(), len(w.Entities()), m.Failures)
		})
		return out, nil
	case "setblock":
		pos, err := parsePos(args[1:])
		if err != nil || len(args) < 5 || len(args) > 6 {
			return "", fmt.Errorf("usage: setblock <x> <y> <z> <type> [meta]")
		}
		b, err := parseBlock(args[4:])
		if err != nil {
			return "", err
		}
		var ok bool
		<-c.srv.Exec(func(w *world.World) {
			ok = w.ChangeBlock(world.NewBlockEvent(event.BlockChange, pos, w.Block(pos), b), &world.SetOpts{Validate: true})
		})
		if !ok {
			return "", fmt.Errorf("could not set %v at %v", b, pos)
		}
		return fmt.Sprintf("Set %v at %v.", b, pos), nil
	case "break":
		pos, err := parsePos(args[1:])
		if err != nil || len(args) != 4 {
			return "", fmt.Errorf("usage: break <x> <y> <z>")
		}
		var ok bool
		<-c.srv.Exec(func(w *world.World) {
			ok = block.Break(w, pos, item.Stack{}, nil)
		})
		if !ok {
			return "", fmt.Errorf("could not break block at %v", pos)
		}
		return fmt.Sprintf("Broke block at %v.", pos), nil
	case "stop":
		c.stop()
		return "Stopping server.", nil
	default:
		return "", fmt.Errorf("unknown command: %v", name)
	}
}

func parsePos(args []string) (cube.Pos, error) {
	if len(args) < 3 {
		return cube.Pos{}, fmt.Errorf("expected three coordinates")
	}
	var pos cube.Pos
	for i := range pos {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return cube.Pos{}, fmt.Errorf("invalid coordinate %q: %w", args[i], err)
		}
		pos[i] = v
	}
	return pos, nil
}

func parseBlock(args []string) (world.Block, error) {
	t, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil {
		return world.Block{}, fmt.Errorf("invalid block type %q: %w", args[0], err)
	}
	b := world.Block{Type: world.BlockType(t)}
	if len(args) > 1 {
		meta, err := strconv.ParseUint(args[1], 10, 8)
		if err != nil {
			return world.Block{}, fmt.Errorf("invalid block meta %q: %w", args[1], err)
		}
		b.Meta = uint8(meta)
	}
	return b, nil
}
