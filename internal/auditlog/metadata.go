package auditlog

import "context"

// Metadata is request-scoped audit context.
type Metadata struct {
	Actor string
	RunID string
}

type metadataKey struct{}

// WithMetadata attaches audit metadata to a context. Empty fields keep the
// values already present.
func WithMetadata(ctx context.Context, meta Metadata) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	existing, _ := ctx.Value(metadataKey{}).(Metadata)
	merged := Metadata{
		Actor: pick(meta.Actor, existing.Actor),
		RunID: pick(meta.RunID, existing.RunID),
	}
	return context.WithValue(ctx, metadataKey{}, merged)
}

// MetadataFromContext returns audit metadata stored in the context.
func MetadataFromContext(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	meta, _ := ctx.Value(metadataKey{}).(Metadata)
	return meta
}

// ActorFromContext returns the actor stored in ctx, or "system".
func ActorFromContext(ctx context.Context) string {
	if actor := MetadataFromContext(ctx).Actor; actor != "" {
		return actor
	}
	return "system"
}

func pick(next, fallback string) string {
	if next != "" {
		return next
	}
	return fallback
}
