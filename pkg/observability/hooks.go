package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/arbor/pkg/domain"
)

// MergeHooks combines hook sets into one. For every event, the non-nil
// hooks are called in argument order.
func MergeHooks(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var (
		onExecute      []func(context.Context, *domain.TreeEvent)
		onTreeChange   []func(context.Context, *domain.TreeEvent)
		onNotify       []func(context.Context, *domain.NotifyEvent)
		onSubscription []func(context.Context, *domain.SubscriptionEvent)
		onTransition   []func(context.Context, *domain.TransitionEvent)
	)
	for _, h := range sets {
		if h.OnExecute != nil {
			onExecute = append(onExecute, h.OnExecute)
		}
		if h.OnTreeChange != nil {
			onTreeChange = append(onTreeChange, h.OnTreeChange)
		}
		if h.OnNotify != nil {
			onNotify = append(onNotify, h.OnNotify)
		}
		if h.OnSubscription != nil {
			onSubscription = append(onSubscription, h.OnSubscription)
		}
		if h.OnTransition != nil {
			onTransition = append(onTransition, h.OnTransition)
		}
	}

	return domain.LifecycleHooks{
		OnExecute:      fanOut(onExecute),
		OnTreeChange:   fanOut(onTreeChange),
		OnNotify:       fanOut(onNotify),
		OnSubscription: fanOut(onSubscription),
		OnTransition:   fanOut(onTransition),
	}
}

func fanOut[E any](fns []func(context.Context, E)) func(context.Context, E) {
	switch len(fns) {
	case 0:
		return nil
	case 1:
		return fns[0]
	}
	return func(ctx context.Context, e E) {
		for _, fn := range fns {
			fn(ctx, e)
		}
	}
}

// LoggingHooks logs every lifecycle event at debug level
// (warn for refused tree changes).
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnExecute: func(ctx context.Context, e *domain.TreeEvent) {
			logger.DebugContext(ctx, "tree executed", "labels", len(e.Labels))
		},
		OnTreeChange: func(ctx context.Context, e *domain.TreeEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "tree change refused",
					"type", e.Type, "parent", e.Parent, "node", e.Node, "err", e.Err)
				return
			}
			logger.DebugContext(ctx, "tree changed", "type", e.Type, "parent", e.Parent, "node", e.Node)
		},
		OnNotify: func(ctx context.Context, e *domain.NotifyEvent) {
			logger.DebugContext(ctx, "notified", "message", e.Message, "delivered", e.Delivered)
		},
		OnSubscription: func(ctx context.Context, e *domain.SubscriptionEvent) {
			logger.DebugContext(ctx, "subscription changed",
				"type", e.Type, "subscription_id", e.SubscriptionID, "subscribers", e.Subscribers)
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.DebugContext(ctx, "transition",
				"from", e.From, "input", e.Input, "to", e.To, "accepted", e.Accepted)
		},
	}
}
