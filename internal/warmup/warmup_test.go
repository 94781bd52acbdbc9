package warmup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/registry"
	"git.home.luguber.info/inful/docsite/internal/site"
)

type fakeSite struct {
	mu      sync.Mutex
	sources []registry.Source
	fail    map[string]bool
	calls   []string
	called  chan struct{}
}

func (f *fakeSite) Sources() []registry.Source { return f.sources }

func (f *fakeSite) RenderPage(_ context.Context, id string, segments []string) (*site.Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	f.mu.Unlock()
	if f.called != nil {
		select {
		case f.called <- struct{}{}:
		default:
		}
	}
	if len(segments) != 0 {
		return nil, errors.New("expected default page")
	}
	if f.fail[id] {
		return nil, errors.New("upstream down")
	}
	return &site.Page{}, nil
}

func (f *fakeSite) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func TestRunOnce(t *testing.T) {
	tests := []struct {
		name   string
		fail   map[string]bool
		warmed int
	}{
		{name: "all sources warm", warmed: 2},
		{name: "failure does not stop the sweep", fail: map[string]bool{"agent": true}, warmed: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &fakeSite{
				sources: []registry.Source{{ID: "agent"}, {ID: "cli"}},
				fail:    tt.fail,
			}
			w, err := New(fs, time.Hour, nil)
			require.NoError(t, err)
			t.Cleanup(func() { _ = w.Stop() })

			assert.Equal(t, tt.warmed, w.RunOnce(context.Background()))
			assert.Equal(t, []string{"agent", "cli"}, fs.Calls())
		})
	}
}

func TestRunOnce_CancelledContext(t *testing.T) {
	fs := &fakeSite{sources: []registry.Source{{ID: "agent"}}}
	w, err := New(fs, time.Hour, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, 0, w.RunOnce(ctx))
	assert.Empty(t, fs.Calls())
}

func TestStart_RunsImmediately(t *testing.T) {
	fs := &fakeSite{
		sources: []registry.Source{{ID: "agent"}},
		called:  make(chan struct{}, 1),
	}
	w, err := New(fs, time.Hour, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	select {
	case <-fs.called:
	case <-time.After(5 * time.Second):
		t.Fatal("warmup did not run on start")
	}
	require.NoError(t, w.Stop())
	assert.Equal(t, []string{"agent"}, fs.Calls())
}

func TestNew_DefaultInterval(t *testing.T) {
	w, err := New(&fakeSite{}, 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })
	assert.Equal(t, 30*time.Minute, w.interval)
}
