/*
Package arbor composes three small behavioural cores behind one engine:
a tree of executable tasks, a notification hub and an on/off state machine.

# Concept

Tasks are leaves (a label) or composites (an ordered list of children).
Executing the root returns every leaf label in pre-order. The tree is
mutable, but it can never contain a cycle: adding a composite under one of
its own descendants fails with domain.ErrCycle.

The hub delivers messages to subscribers in subscription order. It keeps
references to subscribers without owning them; whoever subscribed is
responsible for unsubscribing.

The machine models a phone with two states (on, off) and three inputs
(power, call, volume). Every input is valid in every state; some are
simply rejected, which is reported as a normal outcome.

# Usage

	engine, err := arbor.New(
		arbor.WithSpec(domain.Group("root",
			domain.Group("A", domain.Leaf("T1"), domain.Leaf("T2")),
			domain.Group("B", domain.Leaf("T3")),
		)),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	fmt.Println(engine.Execute(ctx)) // [T1 T2 T3]

	engine.Subscribe(notify.NewSubscriber(func(msg string) {
		fmt.Println("received:", msg)
	}))
	engine.Dispatch(ctx, fsm.InputPower) // received: powering on

# Observability

Pass domain.LifecycleHooks through WithLifecycleHooks to observe
executions, tree changes, notifications and transitions. The
pkg/observability package ships Prometheus and slog implementations.
*/
package arbor
