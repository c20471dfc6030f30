package audiograph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pion/audiograph/pkg/backend/graph"
	"github.com/pion/audiograph/pkg/effect"
	"github.com/stretchr/testify/require"
)

func newSystem(t *testing.T, cfg graph.Config, opts ...SystemOption) (*System, *graph.Graph) {
	t.Helper()

	if cfg.Effects == nil {
		cfg.Effects = effect.NewRegistry()
	}
	g := graph.New(cfg)
	s, err := New(g, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, g
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

func writeBank(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testBank), 0o644))
	return path
}

func loadBank(t *testing.T, s *System) *Bank {
	t.Helper()
	b := s.NewBank(writeBank(t), 0, 0)
	require.NotNil(t, b)
	return b
}
