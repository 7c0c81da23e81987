package redis

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/prophets-duas-bot/internal/preferences"
)

// fakeServer speaks just enough RESP2 for GET, SET, DEL and PING.
type fakeServer struct {
	ln     net.Listener
	mu     sync.Mutex
	values map[string]string
	wg     sync.WaitGroup
}

func startFakeServer(t *testing.T) *fakeServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeServer{ln: ln, values: make(map[string]string)}
	s.wg.Add(1)
	go s.serve()

	t.Cleanup(func() {
		_ = ln.Close()
		s.wg.Wait()
	})
	return s
}

func (s *fakeServer) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}
}

func (s *fakeServer) handle(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		args, err := readCommand(r)
		if err != nil {
			return
		}
		if _, err := io.WriteString(conn, s.exec(args)); err != nil {
			return
		}
	}
}

func (s *fakeServer) exec(args []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch strings.ToUpper(args[0]) {
	case "PING":
		return "+PONG\r\n"
	case "GET":
		v, ok := s.values[args[1]]
		if !ok {
			return "$-1\r\n"
		}
		return fmt.Sprintf("$%d\r\n%s\r\n", len(v), v)
	case "SET":
		s.values[args[1]] = args[2]
		return "+OK\r\n"
	case "DEL":
		n := 0
		for _, k := range args[1:] {
			if _, ok := s.values[k]; ok {
				delete(s.values, k)
				n++
			}
		}
		return fmt.Sprintf(":%d\r\n", n)
	default:
		return "-ERR unknown command '" + args[0] + "'\r\n"
	}
}

func readCommand(r *bufio.Reader) ([]string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "*")))
	if err != nil || n < 1 {
		return nil, fmt.Errorf("bad array header %q", line)
	}

	args := make([]string, 0, n)
	for range n {
		header, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		size, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(header, "$")))
		if err != nil {
			return nil, err
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		args = append(args, string(buf[:size]))
	}
	return args, nil
}

func TestKVStorage(t *testing.T) {
	t.Parallel()

	srv := startFakeServer(t)
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{
		Addr:            srv.ln.Addr().String(),
		Protocol:        2,
		DisableIdentity: true,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	kv := NewKVStorage(rdb, 0)

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, preferences.ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "k1", `{"uiLang":"tr"}`))
	require.NoError(t, kv.Set(ctx, "k2", "1"))

	v, err := kv.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, `{"uiLang":"tr"}`, v)

	require.NoError(t, kv.Delete(ctx, "k1", "k2"))
	_, err = kv.Get(ctx, "k2")
	assert.ErrorIs(t, err, preferences.ErrKeyNotFound)

	require.NoError(t, kv.Delete(ctx))
}

func TestKVStorage_WithPreferenceStore(t *testing.T) {
	t.Parallel()

	srv := startFakeServer(t)
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: srv.ln.Addr().String(), Protocol: 2, DisableIdentity: true})
	t.Cleanup(func() { _ = rdb.Close() })

	store := preferences.NewStore(NewKVStorage(rdb, 0), "web:abc", nil)

	p := store.Load(ctx)
	p.ToggleFavorite("e1")
	store.Save(ctx, p)
	store.MarkOnboardingSeen(ctx)

	assert.Equal(t, []string{"e1"}, store.Load(ctx).Favorites)
	assert.True(t, store.OnboardingSeen(ctx))
}

func TestKVStorage_ConnectionError(t *testing.T) {
	t.Parallel()

	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	_, err := NewKVStorage(rdb, 0).Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, preferences.ErrKeyNotFound)
	assert.Contains(t, err.Error(), "get k:")
}
