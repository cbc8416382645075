package services

import (
	"sync"

	"github.com/ZSuraj/abcd-sub000/modules/relationship/domain/relationship"
)

const treeCacheName = "tree"

// treeCache holds the assembled full tree. A load that started before an
// invalidation is not stored, so a re-fetch after a mutation always observes it.
type treeCache struct {
	mu         sync.RWMutex
	tree       []relationship.ClientNode
	valid      bool
	generation uint64
}

func newTreeCache() *treeCache {
	return &treeCache{}
}

func (c *treeCache) Get() ([]relationship.ClientNode, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	recordCacheRequest(treeCacheName, c.valid)
	if !c.valid {
		return nil, false
	}
	return relationship.CloneTree(c.tree), true
}

func (c *treeCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

func (c *treeCache) Set(generation uint64, tree []relationship.ClientNode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return
	}
	c.tree = relationship.CloneTree(tree)
	c.valid = true
}

func (c *treeCache) Invalidate(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.tree = nil
	c.valid = false
	recordCacheInvalidate(reason)
}
