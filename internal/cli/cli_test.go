package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/arbor/internal/testutils"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, content string) string {
	t.Helper()
	return testutils.WriteTreeFile(t, "build.yaml", content)
}

func TestCreateEngine(t *testing.T) {
	t.Run("From File", func(t *testing.T) {
		engine, err := CreateEngine(EngineOptions{TreePath: writeTree(t, testutils.ExampleYAML)}, CreateLogger(false))
		require.NoError(t, err)
		assert.Equal(t, []string{"T1", "T2", "T3"}, engine.Execute(context.Background()))
		assert.Equal(t, "build", engine.Name)
	})

	t.Run("Initial State", func(t *testing.T) {
		engine, err := CreateEngine(EngineOptions{Initial: "on"}, CreateLogger(false))
		require.NoError(t, err)
		assert.Equal(t, fsm.StateOn, engine.State())
	})

	t.Run("Unknown Initial State", func(t *testing.T) {
		_, err := CreateEngine(EngineOptions{Initial: "standby"}, CreateLogger(false))
		assert.ErrorIs(t, err, domain.ErrUnknownState)
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := CreateEngine(EngineOptions{TreePath: filepath.Join(t.TempDir(), "none.yaml")}, CreateLogger(false))
		assert.Error(t, err)
	})
}

func TestRun(t *testing.T) {
	path := writeTree(t, testutils.ExampleYAML)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, Run(ctx, &out, RunOptions{EngineOptions: EngineOptions{TreePath: path}}))
	assert.Equal(t, "T1\nT2\nT3\n", out.String())

	out.Reset()
	require.NoError(t, Run(ctx, &out, RunOptions{EngineOptions: EngineOptions{TreePath: path}, JSON: true}))
	var resp map[string][]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, []string{"T1", "T2", "T3"}, resp["labels"])

	out.Reset()
	require.NoError(t, Run(ctx, &out, RunOptions{EngineOptions: EngineOptions{TreePath: path}, Pretty: true}))
	assert.Contains(t, out.String(), "T3")
}

func TestGraph(t *testing.T) {
	path := writeTree(t, testutils.ExampleYAML)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, Graph(ctx, &out, GraphOptions{EngineOptions: EngineOptions{TreePath: path}, Visited: true}))
	assert.Contains(t, out.String(), `n0(("root"))`)
	assert.Contains(t, out.String(), "class n5 visited;")

	out.Reset()
	require.NoError(t, Graph(ctx, &out, GraphOptions{Machine: true}))
	assert.Contains(t, out.String(), "stateDiagram-v2")
	assert.Contains(t, out.String(), "class off current")
}

func TestPhone_Args(t *testing.T) {
	var out bytes.Buffer
	err := Phone(context.Background(), nil, &out, EngineOptions{}, []string{"call", "POWER", "call", "power", "call"})
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"off --call--> off: call rejected: powered off",
		"off --power--> on: powering on",
		"on --call--> on: placing call",
		"on --power--> off: powering off",
		"off --call--> off: call rejected: powered off",
		">>> Finished in 'off' state.",
		"",
	}, "\n"), out.String())

	err = Phone(context.Background(), nil, &out, EngineOptions{}, []string{"reboot"})
	assert.ErrorIs(t, err, domain.ErrUnknownInput)
}

func TestPhone_Interactive(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("power\nvolume\n")

	err := Phone(context.Background(), in, &out, EngineOptions{Headless: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "powering on\nadjusting volume\n", out.String())
}

func TestNotify(t *testing.T) {
	var out bytes.Buffer
	err := Notify(&out, NotifyOptions{Message: "20% off", Subscribers: []string{"alice", "bob", "alice"}})
	require.NoError(t, err)

	assert.Equal(t,
		"[alice] 20% off\n[bob] 20% off\n[alice] 20% off\n>>> Delivered to 3 subscriber(s).\n",
		out.String())
}

func TestNotify_Discount(t *testing.T) {
	var out bytes.Buffer
	err := Notify(&out, NotifyOptions{Discount: "10%", Subscribers: []string{"John", "Jane"}})
	require.NoError(t, err)

	assert.Equal(t,
		"[John] Discount in effect: 10%\n[Jane] Discount in effect: 10%\n>>> Delivered to 2 subscriber(s).\n",
		out.String())

	assert.Error(t, Notify(&out, NotifyOptions{Subscribers: []string{"John"}}), "a message or a discount is required")
}

func TestWatchAndReload(t *testing.T) {
	path := writeTree(t, testutils.ExampleYAML)
	engine, err := CreateEngine(EngineOptions{TreePath: path}, CreateLogger(false))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watchAndReload(ctx, engine, CreateLogger(false)))

	require.NoError(t, os.WriteFile(path, []byte(testutils.ExampleYAML+"  - T4\n"), 0644))
	assert.Eventually(t, func() bool {
		return len(engine.Execute(ctx)) == 4
	}, 2*time.Second, 20*time.Millisecond)

	t.Run("Broken Edit Keeps The Tree", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("children: ["), 0644))
		time.Sleep(300 * time.Millisecond)
		assert.Equal(t, []string{"T1", "T2", "T3", "T4"}, engine.Execute(ctx))
	})
}

func TestServe_WatchWithoutFile(t *testing.T) {
	var out bytes.Buffer
	err := Serve(context.Background(), &out, ServeOptions{Port: "0", Watch: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrWatchUnsupported)
}

func TestServe_Shutdown(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err := Serve(ctx, &out, ServeOptions{Port: "0"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "stopped gracefully")
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(nil))
	assert.NoError(t, handleExecutionError(context.Canceled))
	assert.Error(t, handleExecutionError(os.ErrPermission))
}

func TestValidate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Validate(&out, writeTree(t, testutils.ExampleYAML)))
	assert.Equal(t, "Tree is valid: 3 leaves, 3 composites, depth 2\n", out.String())

	err := Validate(&out, writeTree(t, "name: root\nchildren: [T1, T1]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Duplicate child 'T1'")
}
