package cache

import (
	"container/list"
	"sync"
)

// DefaultCapacity is the number of entries kept when no capacity is
// configured.
const DefaultCapacity = 10

// Entry represents one cached page version.
//
// Host and Path are immutable for the lifetime of an entry; the date fields
// and the body are replaced wholesale on every update, never merged.
// The date fields hold the raw header values from the most recent
// successful fetch and may be empty.
type Entry struct {
	Host         string
	Path         string
	LastAccess   string
	LastModified string
	Expires      string
	Body         []byte
}

// Store is a bounded key-to-entry store.
//
// Implementations must be thread-safe!
type Store interface {
	// Fetch returns the entry for the given key and promotes it to
	// most-recently-used. It reports false without side effects if the
	// key is absent.
	Fetch(key string) (Entry, bool)
	// Add inserts or overwrites the entry for the given key and promotes
	// it to most-recently-used, evicting the least-recently-used entry
	// if capacity would otherwise be exceeded. Add never fails.
	Add(key string, entry Entry)
	// Len returns the number of resident entries.
	Len() int
}

type lruItem struct {
	key   string
	entry Entry
}

// LRU is a fixed-capacity Store with least-recently-used eviction.
type LRU struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front is most-recently-used
	items    map[string]*list.Element
	onEvict  func(key string)
}

var _ Store = (*LRU)(nil)

// NewLRU creates an LRU store holding at most capacity entries.
// A non-positive capacity falls back to DefaultCapacity.
// onEvict, if not nil, is called with the key of every evicted entry.
func NewLRU(capacity int, onEvict func(key string)) *LRU {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LRU{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
		onEvict:  onEvict,
	}
}

func (l *LRU) Fetch(key string) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	el, ok := l.items[key]
	if !ok {
		return Entry{}, false
	}
	l.order.MoveToFront(el)
	return el.Value.(*lruItem).entry, true
}

func (l *LRU) Add(key string, entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if el, ok := l.items[key]; ok {
		el.Value.(*lruItem).entry = entry
		l.order.MoveToFront(el)
		return
	}
	l.items[key] = l.order.PushFront(&lruItem{key: key, entry: entry})
	if l.order.Len() > l.capacity {
		l.evictOldest()
	}
}

func (l *LRU) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.order.Len()
}

// Keys returns the resident keys in recency order, most recent first.
func (l *LRU) Keys() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	keys := make([]string, 0, l.order.Len())
	for el := l.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*lruItem).key)
	}
	return keys
}

func (l *LRU) evictOldest() {
	el := l.order.Back()
	if el == nil {
		return
	}
	item := el.Value.(*lruItem)
	l.order.Remove(el)
	delete(l.items, item.key)
	if l.onEvict != nil {
		l.onEvict(item.key)
	}
}
