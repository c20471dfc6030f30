package graph

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pion/audiograph/pkg/backend"
	"github.com/pion/audiograph/pkg/effect"
	"github.com/pion/audiograph/pkg/handle"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []backend.Event
}

func (r *recorder) handle(ev backend.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) take() []backend.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := r.events
	r.events = nil
	return events
}

func openGraph(t *testing.T, cfg Config) (*Graph, *recorder) {
	t.Helper()

	if cfg.SampleRate == 0 {
		cfg.SampleRate = 48000
	}
	if cfg.Effects == nil {
		cfg.Effects = effect.NewRegistry()
	}
	g := New(cfg)
	rec := &recorder{}
	require.NoError(t, g.Open(rec.handle))
	t.Cleanup(func() { _ = g.Close() })
	return g, rec
}

func exec(t *testing.T, g *Graph, cmd backend.Command) {
	t.Helper()
	require.NoError(t, g.Exec(cmd))
}

func query(t *testing.T, g *Graph, q backend.Query) backend.Reply {
	t.Helper()
	r, err := g.Query(q)
	require.NoError(t, err)
	return r
}

func create(t *testing.T, g *Graph, req backend.Request) handle.Handle {
	t.Helper()
	h, err := g.Create(req)
	require.NoError(t, err)
	require.NotEqual(t, handle.Nil, h)
	return h
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// testBank has a 1 s sound at 44100 Hz and a 100 frame sound at the output rate.
const testBank = `name: test
sounds:
  - name: second
    sampleRate: 44100
    channels: 1
    frames: 44100
  - name: short
    sampleRate: 48000
    channels: 2
    frames: 100
`

func loadTestBank(t *testing.T, g *Graph) handle.Handle {
	t.Helper()
	return create(t, g, backend.Request{Kind: backend.KindBank, Name: writeFile(t, "test.yaml", testBank)})
}

func shortSound(t *testing.T, g *Graph, bank handle.Handle) handle.Handle {
	t.Helper()
	return create(t, g, backend.Request{Kind: backend.KindSound, Parent: bank, Name: "short"})
}
