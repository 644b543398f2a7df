package arbor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/fsm"
	"github.com/aretw0/arbor/pkg/notify"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/tree"
)

// RootName addresses the root composite regardless of its own name.
const RootName = "root"

// Engine is the high-level entry point for the Arbor library.
// It owns a task tree, a notification hub and a state machine.
// All methods are safe for concurrent use: tree and machine operations are
// serialized at the call boundary, and hub deliveries happen outside the lock
// so subscribers may call back into the engine.
type Engine struct {
	mu      sync.Mutex
	root    *tree.Composite
	machine *fsm.Machine
	hub     *notify.Hub

	loader  ports.SpecLoader
	spec    *domain.NodeSpec
	initial fsm.State
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	Name    string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithTree uses an existing composite as the root. The engine does not copy it.
func WithTree(root *tree.Composite) Option {
	return func(e *Engine) {
		e.root = root
	}
}

// WithSpec builds the root from a declarative spec.
func WithSpec(spec domain.NodeSpec) Option {
	return func(e *Engine) {
		e.spec = &spec
	}
}

// WithLoader builds the root from whatever the loader returns.
// The loader is kept so the tree can be reloaded later.
func WithLoader(l ports.SpecLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithInitialState sets the state the machine starts in (default: off).
func WithInitialState(s fsm.State) Option {
	return func(e *Engine) {
		e.initial = s
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithName labels the engine; the name is attached to every log line.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// New initializes a new Engine.
// Without WithTree, WithSpec or WithLoader the engine starts with an empty root.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{initial: fsm.StateOff}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("tree", eng.Name)
	}

	if eng.root == nil {
		root, err := eng.buildRoot()
		if err != nil {
			return nil, err
		}
		eng.root = root
	}

	machine, err := fsm.New(eng.initial, fsm.WithLogger(eng.logger))
	if err != nil {
		return nil, err
	}
	eng.machine = machine
	eng.hub = notify.New(
		notify.WithLogger(eng.logger),
		notify.WithRemoveHook(func(id string) {
			eng.subscriptionChanged(domain.EventUnsubscribe, id)
		}),
	)

	return eng, nil
}

func (e *Engine) buildRoot() (*tree.Composite, error) {
	switch {
	case e.loader != nil:
		spec, err := e.loader.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load tree: %w", err)
		}
		return tree.BuildComposite(spec)
	case e.spec != nil:
		return tree.BuildComposite(*e.spec)
	}
	return tree.NewComposite(tree.WithName(RootName)), nil
}

// Reload rebuilds the tree from the configured loader or spec.
// On error the current tree is kept.
func (e *Engine) Reload(ctx context.Context) error {
	if e.loader == nil && e.spec == nil {
		return nil
	}
	root, err := e.buildRoot()
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.root = root
	e.mu.Unlock()

	e.logger.InfoContext(ctx, "tree reloaded", "leaves", tree.Count(root).Leaves)
	return nil
}

// Watch returns a channel signalled whenever the loader's source changes.
// It fails with domain.ErrWatchUnsupported when the engine was not built from
// a loader implementing ports.Watchable.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, domain.ErrWatchUnsupported
}

// Execute runs the whole tree and returns the visited labels in pre-order.
func (e *Engine) Execute(ctx context.Context) []string {
	e.mu.Lock()
	labels := e.root.Execute()
	e.mu.Unlock()

	if e.hooks.OnExecute != nil {
		e.hooks.OnExecute(ctx, &domain.TreeEvent{
			EventBase: domain.NewEventBase(domain.EventExecute),
			Labels:    labels,
		})
	}
	return labels
}

// AddChild builds spec and appends it to the composite named parent.
func (e *Engine) AddChild(ctx context.Context, parent string, spec domain.NodeSpec) (tree.Node, error) {
	node, err := tree.Build(spec)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	err = e.addLocked(parent, node)
	e.mu.Unlock()

	e.treeChanged(ctx, domain.EventNodeAdd, parent, tree.Key(node), err)
	if err != nil {
		return nil, err
	}
	return node, nil
}

// Move detaches the first node whose label or name is key and appends it to
// the composite named parent. Moving a composite under itself or one of its
// descendants fails with domain.ErrCycle and leaves the tree unchanged.
func (e *Engine) Move(ctx context.Context, key, parent string) error {
	e.mu.Lock()
	err := e.moveLocked(key, parent)
	e.mu.Unlock()

	e.treeChanged(ctx, domain.EventNodeMove, parent, key, err)
	return err
}

// RemoveChild removes the first direct child of parent whose label or name is key.
// It reports whether a child was removed; an absent child is not an error.
func (e *Engine) RemoveChild(ctx context.Context, parent, key string) (bool, error) {
	e.mu.Lock()
	p, err := e.resolve(parent)
	var child tree.Node
	if err == nil {
		if child = p.Child(key); child != nil {
			p.Remove(child)
		}
	}
	e.mu.Unlock()

	if err != nil {
		e.treeChanged(ctx, domain.EventNodeRemove, parent, key, err)
		return false, err
	}
	if child == nil {
		return false, nil
	}
	e.treeChanged(ctx, domain.EventNodeRemove, parent, key, nil)
	return true, nil
}

func (e *Engine) moveLocked(key, parent string) error {
	node := e.find(key)
	if node == nil {
		return fmt.Errorf("%w: %q", domain.ErrNodeNotFound, key)
	}
	p, err := e.resolve(parent)
	if err != nil {
		return err
	}
	if c, ok := node.(*tree.Composite); ok && c.Contains(p) {
		return &tree.CycleError{Parent: p, Child: c}
	}
	return p.Add(node)
}

func (e *Engine) addLocked(parent string, node tree.Node) error {
	p, err := e.resolve(parent)
	if err != nil {
		return err
	}
	return p.Add(node)
}

// resolve finds a composite by name. The empty string and RootName address the root.
func (e *Engine) resolve(name string) (*tree.Composite, error) {
	if name == "" || name == RootName {
		return e.root, nil
	}
	if c := tree.FindComposite(e.root, name); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrParentNotFound, name)
}

func (e *Engine) find(key string) tree.Node {
	if key == RootName {
		return e.root
	}
	return tree.Find(e.root, key)
}

func (e *Engine) treeChanged(ctx context.Context, typ domain.EventType, parent, node string, err error) {
	if err != nil {
		e.logger.WarnContext(ctx, "tree change refused", "type", typ, "parent", parent, "node", node, "err", err)
	}
	if e.hooks.OnTreeChange == nil {
		return
	}
	e.hooks.OnTreeChange(ctx, &domain.TreeEvent{
		EventBase: domain.NewEventBase(typ),
		Parent:    parent,
		Node:      node,
		Err:       err,
	})
}

// Spec returns the declarative form of the current tree.
func (e *Engine) Spec() domain.NodeSpec {
	e.mu.Lock()
	defer e.mu.Unlock()
	return tree.Describe(e.root)
}

// Stats summarizes the current tree.
func (e *Engine) Stats() tree.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return tree.Count(e.root)
}

// Graph renders the live tree as a Mermaid flowchart. With visited set, the
// labels of an execution made under the same lock are highlighted.
func (e *Engine) Graph(visited bool) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	var overlay *graph.GraphOverlay
	if visited {
		overlay = &graph.GraphOverlay{VisitedLabels: e.root.Execute()}
	}
	return graph.GenerateMermaid(e.root, overlay)
}

// Tree returns the root composite. Callers mutating it directly bypass the
// engine's lock and hooks.
func (e *Engine) Tree() *tree.Composite {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.root
}

// Dispatch feeds input to the state machine and publishes the effect to the hub.
// Rejected inputs are published too; only inputs outside the closed set fail.
func (e *Engine) Dispatch(ctx context.Context, in fsm.Input) (fsm.Transition, error) {
	e.mu.Lock()
	tr, err := e.machine.Handle(in)
	e.mu.Unlock()
	if err != nil {
		return fsm.Transition{}, err
	}

	if e.hooks.OnTransition != nil {
		e.hooks.OnTransition(ctx, &domain.TransitionEvent{
			EventBase: domain.NewEventBase(domain.EventTransition),
			From:      string(tr.From),
			To:        string(tr.To),
			Input:     string(tr.Input),
			Effect:    tr.Effect,
			Accepted:  tr.Accepted,
		})
	}

	e.publish(ctx, tr.Effect)
	return tr, nil
}

// State returns the current machine state.
func (e *Engine) State() fsm.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Current()
}

// SetState forces the machine into s without producing an effect.
func (e *Engine) SetState(s fsm.State) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Set(s)
}

// Subscribe attaches s to the engine's hub.
func (e *Engine) Subscribe(s notify.Subscriber) notify.Subscription {
	sub := e.hub.Subscribe(s)
	if sub.ID != "" {
		e.subscriptionChanged(domain.EventSubscribe, sub.ID)
	}
	return sub
}

// Unsubscribe detaches the first subscription of s.
// Removals through the hub, a Subscription handle or Close all fire
// OnSubscription with the removed subscription id.
func (e *Engine) Unsubscribe(s notify.Subscriber) bool {
	return e.hub.Unsubscribe(s)
}

// Notify broadcasts message to every subscriber and returns the number of deliveries.
func (e *Engine) Notify(message string) int {
	return e.publish(context.Background(), message)
}

// AnnounceDiscount broadcasts a discount message to every subscriber.
func (e *Engine) AnnounceDiscount(discount string) int {
	return e.Notify(DiscountMessage(discount))
}

// DiscountMessage formats the message sent by AnnounceDiscount.
func DiscountMessage(discount string) string {
	return "Discount in effect: " + discount
}

func (e *Engine) publish(ctx context.Context, message string) int {
	delivered := e.hub.Notify(message)
	if e.hooks.OnNotify != nil {
		e.hooks.OnNotify(ctx, &domain.NotifyEvent{
			EventBase: domain.NewEventBase(domain.EventNotify),
			Message:   message,
			Delivered: delivered,
		})
	}
	return delivered
}

func (e *Engine) subscriptionChanged(typ domain.EventType, id string) {
	if e.hooks.OnSubscription == nil {
		return
	}
	e.hooks.OnSubscription(context.Background(), &domain.SubscriptionEvent{
		EventBase:      domain.NewEventBase(typ),
		SubscriptionID: id,
		Subscribers:    e.hub.Len(),
	})
}

// Hub returns the engine's notification hub.
func (e *Engine) Hub() *notify.Hub {
	return e.hub
}

// Close drops every subscription, firing one unsubscribe event per entry.
// The engine stays usable.
func (e *Engine) Close() error {
	e.hub.Clear()
	e.logger.Debug("engine closed")
	return nil
}
