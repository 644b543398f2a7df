package arbor_test

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/testutils"
	"github.com/aretw0/arbor/pkg/adapters/file"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/fsm"
	"github.com/aretw0/arbor/pkg/notify"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/tree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, opts ...arbor.Option) *arbor.Engine {
	t.Helper()
	opts = append([]arbor.Option{arbor.WithSpec(testutils.ExampleSpec())}, opts...)
	engine, err := arbor.New(opts...)
	require.NoError(t, err)
	return engine
}

func TestNew_Defaults(t *testing.T) {
	engine, err := arbor.New()
	require.NoError(t, err)

	assert.Equal(t, []string{}, engine.Execute(context.Background()))
	assert.Equal(t, fsm.StateOff, engine.State())
	assert.Equal(t, arbor.RootName, engine.Tree().Name())
}

func TestNew_Sources(t *testing.T) {
	loader, err := memory.NewLoader(testutils.ExampleSpec())
	require.NoError(t, err)

	root := tree.NewComposite()
	require.NoError(t, root.Add(tree.NewLeaf("only")))

	tests := []struct {
		name string
		opt  arbor.Option
		want []string
	}{
		{"Spec", arbor.WithSpec(testutils.ExampleSpec()), []string{"T1", "T2", "T3"}},
		{"Loader", arbor.WithLoader(loader), []string{"T1", "T2", "T3"}},
		{"Tree", arbor.WithTree(root), []string{"only"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := arbor.New(tt.opt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, engine.Execute(context.Background()))
		})
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := arbor.New(arbor.WithSpec(domain.Leaf("alone")))
	assert.ErrorIs(t, err, domain.ErrInvalidSpec)

	_, err = arbor.New(arbor.WithInitialState("standby"))
	assert.ErrorIs(t, err, domain.ErrUnknownState)
}

func TestEngine_TreeMutation(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t)

	_, err := engine.AddChild(ctx, "B", domain.Leaf("T4"))
	require.NoError(t, err)
	_, err = engine.AddChild(ctx, "", domain.Group("C", domain.Leaf("T5")))
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2", "T3", "T4", "T5"}, engine.Execute(ctx))

	removed, err := engine.RemoveChild(ctx, "A", "T1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = engine.RemoveChild(ctx, "A", "T1")
	require.NoError(t, err)
	assert.False(t, removed, "removing an absent child is a no-op")

	assert.Equal(t, []string{"T2", "T3", "T4", "T5"}, engine.Execute(ctx))

	_, err = engine.AddChild(ctx, "missing", domain.Leaf("x"))
	assert.ErrorIs(t, err, domain.ErrParentNotFound)
	_, err = engine.RemoveChild(ctx, "missing", "x")
	assert.ErrorIs(t, err, domain.ErrParentNotFound)
	_, err = engine.AddChild(ctx, "A", domain.NodeSpec{Kind: domain.KindLeaf})
	assert.ErrorIs(t, err, domain.ErrInvalidSpec)
}

func TestEngine_Move(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t)

	require.NoError(t, engine.Move(ctx, "B", "A"))
	assert.Equal(t, []string{"T1", "T2", "T3"}, engine.Execute(ctx))
	assert.Equal(t, "A", engine.Tree().Child("A").(*tree.Composite).Child("B").Parent().Name())

	require.NoError(t, engine.Move(ctx, "T1", "root"))
	assert.Equal(t, []string{"T2", "T3", "T1"}, engine.Execute(ctx))

	err := engine.Move(ctx, "A", "B")
	assert.ErrorIs(t, err, domain.ErrCycle)
	var cycle *tree.CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, "A", cycle.Child.Name())
	assert.Equal(t, "B", cycle.Parent.Name())
	err = engine.Move(ctx, "root", "A")
	assert.ErrorIs(t, err, domain.ErrCycle)
	assert.Equal(t, []string{"T2", "T3", "T1"}, engine.Execute(ctx), "refused moves leave the tree unchanged")

	assert.ErrorIs(t, engine.Move(ctx, "nope", "A"), domain.ErrNodeNotFound)
}

func TestEngine_DispatchPublishesEffects(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t)

	display := &testutils.Recorder{Name: "display"}
	engine.Subscribe(display)

	for _, in := range []fsm.Input{fsm.InputCall, fsm.InputPower, fsm.InputCall, fsm.InputPower, fsm.InputCall} {
		_, err := engine.Dispatch(ctx, in)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{
		"call rejected: powered off",
		"powering on",
		"placing call",
		"powering off",
		"call rejected: powered off",
	}, display.Messages())
	assert.Equal(t, fsm.StateOff, engine.State())

	_, err := engine.Dispatch(ctx, "reboot")
	assert.ErrorIs(t, err, domain.ErrUnknownInput)
	assert.Len(t, display.Messages(), 5, "unknown inputs publish nothing")

	require.NoError(t, engine.SetState(fsm.StateOn))
	assert.Equal(t, fsm.StateOn, engine.State())
}

func TestEngine_SubscriberMayCallBack(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t)

	var states []fsm.State
	engine.Subscribe(notify.NewSubscriber(func(string) {
		states = append(states, engine.State())
	}))

	_, err := engine.Dispatch(ctx, fsm.InputPower)
	require.NoError(t, err)
	assert.Equal(t, []fsm.State{fsm.StateOn}, states)
}

func TestEngine_PublisherContract(t *testing.T) {
	ports.RunPublisherContract(t, func() ports.Publisher {
		engine, err := arbor.New()
		require.NoError(t, err)
		return engine
	})
}

func TestEngine_Hooks(t *testing.T) {
	ctx := context.Background()
	var events []string
	hooks := domain.LifecycleHooks{
		OnExecute: func(_ context.Context, e *domain.TreeEvent) {
			events = append(events, "execute:"+strings.Join(e.Labels, ","))
		},
		OnTreeChange: func(_ context.Context, e *domain.TreeEvent) {
			status := "ok"
			if e.Err != nil {
				status = "refused"
			}
			events = append(events, string(e.Type)+":"+e.Node+":"+status)
		},
		OnNotify: func(_ context.Context, e *domain.NotifyEvent) {
			events = append(events, "notify:"+e.Message)
		},
		OnSubscription: func(_ context.Context, e *domain.SubscriptionEvent) {
			events = append(events, string(e.Type))
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			events = append(events, "transition:"+e.From+"->"+e.To)
		},
	}
	engine := newEngine(t, arbor.WithLifecycleHooks(hooks))

	s := notify.NewSubscriber(func(string) {})
	engine.Subscribe(s)
	engine.Execute(ctx)
	_, _ = engine.AddChild(ctx, "A", domain.Leaf("T9"))
	_ = engine.Move(ctx, "A", "A")
	_, _ = engine.Dispatch(ctx, fsm.InputPower)
	engine.Unsubscribe(s)

	assert.Equal(t, []string{
		"subscribe",
		"execute:T1,T2,T3",
		"node_add:T9:ok",
		"node_move:A:refused",
		"transition:off->on",
		"notify:powering on",
		"unsubscribe",
	}, events)
}

func TestEngine_SubscriberGauge(t *testing.T) {
	metrics, err := observability.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	var events []domain.SubscriptionEvent
	hooks := observability.MergeHooks(metrics.Hooks(), domain.LifecycleHooks{
		OnSubscription: func(_ context.Context, e *domain.SubscriptionEvent) {
			events = append(events, *e)
		},
	})
	engine := newEngine(t, arbor.WithLifecycleHooks(hooks))
	s := notify.NewSubscriber(func(string) {})

	t.Run("Cancel", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			assert.True(t, engine.Subscribe(s).Cancel())
		}
		assert.Equal(t, 0, engine.Hub().Len())
		assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Subscribers))
		require.Len(t, events, 6)
		for i := 0; i < 6; i += 2 {
			assert.Equal(t, domain.EventSubscribe, events[i].Type)
			assert.Equal(t, domain.EventUnsubscribe, events[i+1].Type)
			assert.Equal(t, events[i].SubscriptionID, events[i+1].SubscriptionID)
		}
	})

	t.Run("Unsubscribe Reports The Removed ID", func(t *testing.T) {
		events = nil
		sub := engine.Subscribe(s)
		require.True(t, engine.Unsubscribe(s))
		require.Len(t, events, 2)
		assert.Equal(t, sub.ID, events[1].SubscriptionID)
		assert.Equal(t, 0, events[1].Subscribers)
	})

	t.Run("Close", func(t *testing.T) {
		events = nil
		engine.Subscribe(s)
		engine.Subscribe(s)
		assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Subscribers))

		require.NoError(t, engine.Close())
		assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Subscribers))
		require.Len(t, events, 4)
		assert.Equal(t, domain.EventUnsubscribe, events[2].Type)
		assert.Equal(t, domain.EventUnsubscribe, events[3].Type)
	})
}

func TestEngine_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Run("Unsupported Source", func(t *testing.T) {
		_, err := newEngine(t).Watch(ctx)
		assert.ErrorIs(t, err, domain.ErrWatchUnsupported)
	})

	t.Run("File Source", func(t *testing.T) {
		path := testutils.WriteTreeFile(t, "tree.yaml", testutils.ExampleYAML)
		engine, err := arbor.New(arbor.WithLoader(file.New(path, file.WithDebounce(10*time.Millisecond))))
		require.NoError(t, err)

		changes, err := engine.Watch(ctx)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte(testutils.ExampleYAML+"  - T4\n"), 0o644))
		select {
		case <-changes:
		case <-time.After(2 * time.Second):
			t.Fatal("expected a change signal")
		}
		require.NoError(t, engine.Reload(ctx))
		assert.Equal(t, []string{"T1", "T2", "T3", "T4"}, engine.Execute(ctx))
	})
}

func TestEngine_Graph(t *testing.T) {
	engine := newEngine(t)
	out := engine.Graph(true)
	assert.Contains(t, out, `n0(("root"))`)
	assert.Contains(t, out, "class n2 visited;")
	assert.NotContains(t, engine.Graph(false), "visited;")
}

func TestEngine_AnnounceDiscount(t *testing.T) {
	engine := newEngine(t)
	john := &testutils.Recorder{Name: "John"}
	jane := &testutils.Recorder{Name: "Jane"}
	engine.Subscribe(john)
	engine.Subscribe(jane)

	assert.Equal(t, 2, engine.AnnounceDiscount("10%"))
	engine.Unsubscribe(jane)
	assert.Equal(t, 1, engine.AnnounceDiscount("20%"))

	assert.Equal(t, []string{"Discount in effect: 10%", "Discount in effect: 20%"}, john.Messages())
	assert.Equal(t, []string{"Discount in effect: 10%"}, jane.Messages())
}

func TestEngine_SpecAndReload(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t, arbor.WithName("demo"))

	_, err := engine.AddChild(ctx, "A", domain.Leaf("extra"))
	require.NoError(t, err)
	assert.Equal(t, tree.Stats{Leaves: 4, Composites: 3, Depth: 2}, engine.Stats())

	spec := engine.Spec()
	assert.Equal(t, "root", spec.Name)
	require.Len(t, spec.Children, 2)
	assert.Len(t, spec.Children[0].Children, 3)

	require.NoError(t, engine.Reload(ctx))
	assert.Equal(t, []string{"T1", "T2", "T3"}, engine.Execute(ctx))
}

func TestEngine_Close(t *testing.T) {
	engine := newEngine(t)
	engine.Subscribe(notify.NewSubscriber(func(string) {}))

	require.NoError(t, engine.Close())
	assert.Equal(t, 0, engine.Notify("m"))
	assert.Equal(t, 0, engine.Hub().Len())
}

func TestRunner(t *testing.T) {
	engine := newEngine(t)
	var out bytes.Buffer

	runner := arbor.NewRunner()
	runner.Input = strings.NewReader("call\npower\n\nreboot\ncall\nexit\npower\n")
	runner.Output = &out
	runner.Headless = true

	require.NoError(t, runner.Run(context.Background(), engine))
	assert.Equal(t,
		"call rejected: powered off\npowering on\nunknown input: \"reboot\"\nplacing call\n",
		out.String())
	assert.Equal(t, fsm.StateOn, engine.State(), "input after exit is not consumed")
}

func TestRunner_RendererAndPrompt(t *testing.T) {
	engine := newEngine(t)
	var out bytes.Buffer

	runner := arbor.NewRunner()
	runner.Input = strings.NewReader("power\n")
	runner.Output = &out
	runner.Renderer = func(s string) (string, error) { return strings.ToUpper(s), nil }

	require.NoError(t, runner.Run(context.Background(), engine))
	assert.Contains(t, out.String(), "[off]> POWERING ON")
	assert.Contains(t, out.String(), "[on]> ")
}

func TestRunner_RequiresIO(t *testing.T) {
	engine := newEngine(t)
	assert.Error(t, arbor.NewRunner().Run(context.Background(), engine))
}
