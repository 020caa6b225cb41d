package cmdbuf

import (
	"sync"
	"unsafe"
)

// PageSize is the usable data capacity of a single page. Commands for
// one priority level are packed into a chain of pages of this size, so
// growing a buffer never copies previously recorded commands.
const PageSize = 64 * 1024

// pageAlign is the alignment of the first command slot in a page.
// Headers and payloads are laid out on 16-byte boundaries.
const pageAlign = 16

// Page is an intrusive singly linked node holding a contiguous run of
// commands for one priority level. used never exceeds PageSize, and
// every command write within a page is 16-byte aligned and tightly
// packed.
type Page struct {
	next *Page
	used uint32
	base uint32
	buf  []byte
}

// newPage allocates the backing storage for one page. The buffer is
// over-allocated by pageAlign-1 bytes and base points at the first
// 16-byte aligned offset; the Go heap does not move objects, so the
// computed base stays valid for the life of the page.
func newPage() *Page {
	buf := make([]byte, PageSize+pageAlign-1)
	addr := uintptr(unsafe.Pointer(&buf[0]))
	base := uint32((pageAlign - addr%pageAlign) % pageAlign)
	return &Page{buf: buf, base: base}
}

// Used returns the number of data bytes consumed in this page.
func (p *Page) Used() uint32 { return p.used }

// slot returns a pointer to the aligned data region at off.
func (p *Page) slot(off uint32) unsafe.Pointer {
	return unsafe.Pointer(&p.buf[p.base+off])
}

// Allocator supplies fixed-capacity pages for command storage. It is
// the binding point to the external pooled allocator: cmdbuf never
// allocates page memory on its own behalf beyond what the Allocator
// hands out.
//
// AcquirePage returns nil when the pool is exhausted. That is not a
// fatal condition; buffers respond by dropping the command being
// recorded. Implementations must be safe for concurrent use, since
// buffers across multiple windows acquire and release pages at the
// same time.
type Allocator interface {
	// AcquirePage returns an empty page, or nil if the pool is exhausted.
	AcquirePage() *Page
	// ReleasePage returns a page to the pool. The page must not be
	// used after the call.
	ReleasePage(p *Page)
}

// PoolAllocator recycles pages through a sync.Pool. It never reports
// exhaustion: when the pool is empty a fresh page is allocated from
// the heap. This is the default allocator for buffers and managers.
//
// PoolAllocator is safe for concurrent use.
type PoolAllocator struct {
	pool sync.Pool
}

// NewPoolAllocator creates a page allocator backed by a sync.Pool.
func NewPoolAllocator() *PoolAllocator {
	a := &PoolAllocator{}
	a.pool.New = func() any { return newPage() }
	return a
}

// AcquirePage returns an empty page, allocating one if the pool is dry.
func (a *PoolAllocator) AcquirePage() *Page {
	p := a.pool.Get().(*Page)
	p.next = nil
	p.used = 0
	return p
}

// ReleasePage returns a page to the pool for reuse.
func (a *PoolAllocator) ReleasePage(p *Page) {
	if p == nil {
		return
	}
	p.next = nil
	a.pool.Put(p)
}

// Warmup pre-allocates count pages so that recording can proceed
// without heap allocation during critical paths.
func (a *PoolAllocator) Warmup(count int) {
	pages := make([]*Page, count)
	for i := range pages {
		pages[i] = a.AcquirePage()
	}
	for _, p := range pages {
		a.ReleasePage(p)
	}
}

// defaultAllocator backs buffers created without an explicit allocator.
var defaultAllocator = NewPoolAllocator()

// FixedAllocator is a bounded page pool with a hard budget. Once limit
// pages are live, AcquirePage returns nil until a page is released.
// Use it when page memory must stay within a deterministic ceiling;
// recording into a buffer whose allocator is exhausted drops commands.
//
// FixedAllocator is safe for concurrent use.
type FixedAllocator struct {
	mu    sync.Mutex
	free  []*Page
	live  int
	limit int
}

// NewFixedAllocator creates a bounded allocator that will hand out at
// most limit pages at a time. A non-positive limit yields an allocator
// that is always exhausted.
func NewFixedAllocator(limit int) *FixedAllocator {
	return &FixedAllocator{limit: limit}
}

// AcquirePage returns an empty page, or nil if the budget is spent.
func (a *FixedAllocator) AcquirePage() *Page {
	a.mu.Lock()
	defer a.mu.Unlock()

	if n := len(a.free); n > 0 {
		p := a.free[n-1]
		a.free = a.free[:n-1]
		p.next = nil
		p.used = 0
		return p
	}
	if a.live >= a.limit {
		return nil
	}
	a.live++
	return newPage()
}

// ReleasePage returns a page to the free list.
func (a *FixedAllocator) ReleasePage(p *Page) {
	if p == nil {
		return
	}
	p.next = nil
	a.mu.Lock()
	a.free = append(a.free, p)
	a.mu.Unlock()
}

// Live returns the number of pages currently handed out or cached.
func (a *FixedAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}
