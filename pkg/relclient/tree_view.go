package relclient

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/wI2L/jsondiff"
)

// TreeView holds the last fetched tree. It is stale from the moment its client sends
// any mutation until the next Refresh; Mutate always re-fetches before returning.
type TreeView[T any] struct {
	client *Client
	fetch  func(context.Context) ([]T, error)

	mu         sync.Mutex
	snapshot   []T
	generation uint64
	loaded     bool
}

// NewTreeView follows the full tree.
func NewTreeView(c *Client) *TreeView[ClientNode] {
	return &TreeView[ClientNode]{client: c, fetch: c.GetTree}
}

// NewScopedTreeView follows one manager's view; uuid.Nil means the caller's own.
func NewScopedTreeView(c *Client, managerID uuid.UUID) *TreeView[ScopedClientNode] {
	return &TreeView[ScopedClientNode]{
		client: c,
		fetch: func(ctx context.Context) ([]ScopedClientNode, error) {
			return c.GetScopedTree(ctx, managerID)
		},
	}
}

func (v *TreeView[T]) staleLocked() bool {
	return !v.loaded || v.generation != v.client.Mutations()
}

func (v *TreeView[T]) Stale() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.staleLocked()
}

// Snapshot returns the held tree and whether it must be re-fetched before use.
func (v *TreeView[T]) Snapshot() ([]T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot, v.staleLocked()
}

// Refresh re-fetches the tree and reports what changed since the previous snapshot.
// On error the old snapshot is kept and stays stale.
func (v *TreeView[T]) Refresh(ctx context.Context) (jsondiff.Patch, error) {
	generation := v.client.Mutations()
	tree, err := v.fetch(ctx)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	previous := v.snapshot
	if previous == nil {
		previous = []T{}
	}
	if tree == nil {
		tree = []T{}
	}
	patch, err := jsondiff.Compare(previous, tree)
	if err != nil {
		return nil, badResponse(err)
	}
	v.snapshot = tree
	v.generation = generation
	v.loaded = true
	return patch, nil
}

// Mutate runs fn against the view's client and re-fetches, whether or not fn failed.
// The returned patch describes the change observed by the re-fetch.
func (v *TreeView[T]) Mutate(ctx context.Context, fn func(context.Context, *Client) error) (jsondiff.Patch, error) {
	mutErr := fn(ctx, v.client)
	patch, err := v.Refresh(ctx)
	if mutErr != nil {
		if err != nil {
			return nil, errors.Join(mutErr, err)
		}
		return patch, mutErr
	}
	return patch, err
}
