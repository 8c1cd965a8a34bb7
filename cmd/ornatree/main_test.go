package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gekko3d/ornatree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func testEngine(t *testing.T, seed uint64) *ornatree.Engine {
	t.Helper()
	cfg := ornatree.DefaultConfig()
	cfg.Seed = &seed
	cfg.Particles.Count = 300
	cfg.Ornaments.Count = 12
	e, err := ornatree.NewEngine(cfg)
	require.NoError(t, err)
	return e
}

func TestSimulateToggleAndDump(t *testing.T) {
	e := testEngine(t, 4)
	dump := filepath.Join(t.TempDir(), "frame.json")

	var out bytes.Buffer
	err := simulate(e, simulateOptions{frames: 120, fps: 60, toggleEvery: 120, dump: dump}, &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "frame 60 mode=scattered"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "frame 120 mode=scattered"), lines[1])
	assert.Equal(t, "wrote "+dump, lines[2])
	assert.Less(t, e.ParticleFactor(), float32(0.01))

	snap, err := ornatree.LoadSnapshot(dump)
	require.NoError(t, err)
	assert.Equal(t, uint64(120), snap.Frame)
	assert.Len(t, snap.Particles, 300)
}

func TestSimulateReportsPartialSecond(t *testing.T) {
	e := testEngine(t, 4)
	var out bytes.Buffer
	require.NoError(t, simulate(e, simulateOptions{frames: 10, fps: 60}, &out))
	assert.Equal(t, "frame 10 mode=assembled particles=1.0000 settled=true\n", out.String())
}

func TestSimulateRejectsBadOptions(t *testing.T) {
	e := testEngine(t, 4)
	err := simulate(e, simulateOptions{frames: -1, fps: 0, toggleEvery: -2}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--frames")
	assert.Contains(t, err.Error(), "--fps")
	assert.Contains(t, err.Error(), "--toggle-every")
	assert.Equal(t, uint64(0), e.Frame())
}

func TestRootCommandSimulate(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tree.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[particles]\ncount = 50\n"), 0644))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"simulate", "--config", cfgPath, "--seed", "9", "--layout", "floating", "--frames", "30"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "frame 30 mode=scattered")
}

func TestRootCommandRejectsBadLayout(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"simulate", "--layout", "sideways"})
	assert.ErrorIs(t, root.Execute(), ornatree.ErrInvalidConfig)
}

func TestRunNeedsConfigForWatch(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--watch"})
	assert.ErrorContains(t, root.Execute(), "--watch needs --config")
}

func TestRunRealtimeAppliesModes(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := testEngine(t, 8)
	modes := make(chan ornatree.LayoutMode, 1)
	modes <- ornatree.LayoutScattered

	err := runRealtime(context.Background(), e, runOptions{fps: 200, duration: 150 * time.Millisecond}, modes, ornatree.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, ornatree.LayoutScattered, e.LayoutMode())
	assert.Greater(t, e.Frame(), uint64(0))
	assert.Less(t, e.ParticleFactor(), float32(1))
}

func TestRunRealtimeStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := testEngine(t, 8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, runRealtime(ctx, e, runOptions{fps: 60}, nil, ornatree.NewNopLogger()))

	assert.Error(t, runRealtime(context.Background(), e, runOptions{fps: 0}, nil, ornatree.NewNopLogger()))
}

func TestWatchLayoutFollowsConfigFile(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte("layout_mode: tree\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	lw, err := watchLayout(ctx, path, ornatree.NewNopLogger())
	require.NoError(t, err)
	defer func() {
		cancel()
		<-lw.Done()
	}()

	require.NoError(t, os.WriteFile(path, []byte("layout_mode: floating\n"), 0644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case mode := <-lw.Modes():
			if mode == ornatree.LayoutScattered {
				return
			}
		case <-deadline:
			t.Fatal("no layout change observed")
		}
	}
}

func TestWatchLayoutMissingDirectory(t *testing.T) {
	_, err := watchLayout(context.Background(), filepath.Join(t.TempDir(), "nope", "tree.yaml"), ornatree.NewNopLogger())
	assert.Error(t, err)
}
