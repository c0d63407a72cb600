package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// collection is a mutex-guarded keyed store with auto-increment numeric IDs.
// One instance backs each entity kind.
type collection[T any] struct {
	mu       sync.RWMutex
	items    map[int]T
	nextID   int
	id       func(T) int
	setID    func(T, int)
	notFound error
}

func newCollection[T any](id func(T) int, setID func(T, int), notFound error) *collection[T] {
	return &collection[T]{
		items:    make(map[int]T),
		nextID:   1,
		id:       id,
		setID:    setID,
		notFound: notFound,
	}
}

func (c *collection[T]) List(_ context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]int, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	items := make([]T, 0, len(ids))
	for _, id := range ids {
		items = append(items, c.items[id])
	}

	return items, nil
}

func (c *collection[T]) GetByID(_ context.Context, id int) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[id]
	if !ok {
		var zero T

		return zero, fmt.Errorf("%w: id=%d", c.notFound, id)
	}

	return item, nil
}

func (c *collection[T]) Create(_ context.Context, item T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store(item)

	return item, nil
}

func (c *collection[T]) Update(_ context.Context, id int, item T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		var zero T

		return zero, fmt.Errorf("%w: id=%d", c.notFound, id)
	}

	c.setID(item, id)
	c.items[id] = item

	return item, nil
}

func (c *collection[T]) Delete(_ context.Context, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return fmt.Errorf("%w: id=%d", c.notFound, id)
	}

	delete(c.items, id)

	return nil
}

func (c *collection[T]) seed(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range items {
		c.store(item)
	}
}

// store assigns the next free ID when the item carries none, keeps supplied
// IDs otherwise, and keeps the allocator ahead of both. Callers hold the lock.
func (c *collection[T]) store(item T) {
	id := c.id(item)
	if id == 0 {
		id = c.nextID
		c.setID(item, id)
	}

	if id >= c.nextID {
		c.nextID = id + 1
	}

	c.items[id] = item
}
