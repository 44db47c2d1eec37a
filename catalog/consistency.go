package catalog

import "context"

// ConsistencyLevel defines which database a read is served from.
type ConsistencyLevel int

const (
	// StrongConsistency requires reads from the primary database.
	// The borrow and return coordinator reads stock and borrow records with it,
	// because the following conditional write compares against what was read.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reads from a replica database if one is configured.
	// The query gateway uses it for browse and history reads that tolerate slightly stale data.
	EventualConsistency
)

type contextKey string

// ConsistencyLevelKey is the context key used to store consistency level preferences.
const ConsistencyLevelKey contextKey = "catalog.consistency_level"

// WithStrongConsistency returns a context that routes reads to the primary database.
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency returns a context that allows reads from a replica database.
//
// Example usage:
//
//	ctx = catalog.WithEventualConsistency(ctx)
//	book, found, err := store.GetBookByISBN(ctx, isbn)
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel extracts the consistency level from the context.
// Without an explicit level, StrongConsistency is returned.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}

func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}
