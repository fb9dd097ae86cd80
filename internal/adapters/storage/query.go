package storage

import (
	"context"
	"fmt"
	"strings"
)

// Query resolves a key-condition shorthand against a store. Two forms are
// supported:
//
//	key:<k>      exact lookup; returns [k] when present, [] when absent
//	prefix:<p>   prefix listing
//
// An unrecognized shorthand fails fast with a descriptive error rather than
// silently returning incorrect results.
func Query(ctx context.Context, store KVStore, expr string) ([]string, error) {
	op, arg, ok := strings.Cut(expr, ":")
	if !ok {
		return nil, fmt.Errorf("unsupported key condition %q: expected \"key:<k>\" or \"prefix:<p>\"", expr)
	}

	switch op {
	case "key":
		_, err := store.Get(ctx, arg)
		if IsNotFound(err) {
			return []string{}, nil
		}
		if err != nil {
			return nil, err
		}
		return []string{arg}, nil
	case "prefix":
		return store.List(ctx, arg)
	default:
		return nil, fmt.Errorf("unsupported key condition operator %q in %q: expected \"key\" or \"prefix\"", op, expr)
	}
}
