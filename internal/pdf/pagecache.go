package pdf

import (
	"sync"
	"time"
)

// pageTextCache is a thread-safe LRU cache of extracted first-page text,
// keyed by file path. A batch run reads the same first page several times
// (phrase check, idempotency check, replacement), so caching the extraction
// saves repeated parsing. Entries are invalidated when the file's size or
// modification time changes.
type pageTextCache struct {
	mutex    sync.Mutex
	capacity int
	items    map[string]*pageCacheNode
	head     *pageCacheNode // Most recently used
	tail     *pageCacheNode // Least recently used
}

// pageCacheNode represents a node in the doubly-linked list
type pageCacheNode struct {
	path    string
	text    string
	size    int64
	modTime time.Time
	prev    *pageCacheNode
	next    *pageCacheNode
}

// newPageTextCache creates a cache with the specified capacity
func newPageTextCache(capacity int) *pageTextCache {
	if capacity <= 0 {
		capacity = 128
	}

	c := &pageTextCache{
		capacity: capacity,
		items:    make(map[string]*pageCacheNode),
	}

	// Dummy head and tail nodes
	c.head = &pageCacheNode{}
	c.tail = &pageCacheNode{}
	c.head.next = c.tail
	c.tail.prev = c.head

	return c
}

// get returns the cached text for path if the file is unchanged since the
// entry was stored
func (c *pageTextCache) get(path string, size int64, modTime time.Time) (string, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	node, exists := c.items[path]
	if !exists {
		return "", false
	}
	if node.size != size || !node.modTime.Equal(modTime) {
		// File changed on disk, entry is stale
		c.removeNode(node)
		delete(c.items, path)
		return "", false
	}

	c.moveToFront(node)
	return node.text, true
}

// put stores the extracted text for path
func (c *pageTextCache) put(path, text string, size int64, modTime time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if node, exists := c.items[path]; exists {
		node.text = text
		node.size = size
		node.modTime = modTime
		c.moveToFront(node)
		return
	}

	node := &pageCacheNode{
		path:    path,
		text:    text,
		size:    size,
		modTime: modTime,
	}
	c.addToFront(node)
	c.items[path] = node

	if len(c.items) > c.capacity {
		c.evictLRU()
	}
}

// len returns the current number of entries
func (c *pageTextCache) len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.items)
}

// moveToFront moves a node to the most recently used position
func (c *pageTextCache) moveToFront(node *pageCacheNode) {
	c.removeNode(node)
	c.addToFront(node)
}

// addToFront adds a node right after the head
func (c *pageTextCache) addToFront(node *pageCacheNode) {
	node.prev = c.head
	node.next = c.head.next
	c.head.next.prev = node
	c.head.next = node
}

// removeNode removes a node from the doubly-linked list
func (c *pageTextCache) removeNode(node *pageCacheNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
}

// evictLRU removes the least recently used entry
func (c *pageTextCache) evictLRU() {
	lru := c.tail.prev
	if lru != c.head {
		c.removeNode(lru)
		delete(c.items, lru.path)
	}
}
