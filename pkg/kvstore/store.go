// Package kvstore is the namespaced key-value persistence the domain records
// live in. Backends offer no transactions: callers read, mutate and write back.
package kvstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("kvstore: key not found")

type Record struct {
	Key   string
	Value []byte
}

type Store interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Put(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace, key string) error
	// List returns the namespace's records in first-insertion order.
	List(ctx context.Context, namespace string) ([]Record, error)
}
