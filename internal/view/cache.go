package view

import "sync"

// panelKey identifies a rendered panel. Queries are pure functions of the
// state, so equal keys always render equal panels.
type panelKey struct {
	output Output
	state  State
}

// panelCache is a thread-safe LRU of rendered panels shared by all sessions.
type panelCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[panelKey]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   panelKey
	value Panel
	prev  *entry
	next  *entry
}

// newPanelCache returns nil when maxEntries is not positive; a nil cache
// misses on every get and ignores puts.
func newPanelCache(maxEntries int) *panelCache {
	if maxEntries <= 0 {
		return nil
	}
	return &panelCache{
		maxEntries: maxEntries,
		entries:    make(map[panelKey]*entry),
	}
}

func (c *panelCache) get(key panelKey) (Panel, bool) {
	if c == nil {
		return Panel{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Panel{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *panelCache) put(key panelKey, value Panel) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *panelCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *panelCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *panelCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *panelCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *panelCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
