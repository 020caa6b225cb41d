package cmdbuf

import (
	"sync/atomic"
	"unsafe"
)

// Stats is a snapshot of a buffer's cumulative counters.
type Stats struct {
	// CommandsRecorded is the number of commands recorded since the
	// last Reset.
	CommandsRecorded uint32
	// CommandsExecuted is the number of command invocations performed
	// by Execute since the last Reset.
	CommandsExecuted uint32
	// TotalBytesUsed is the total page memory allocated, including
	// page headroom.
	TotalBytesUsed uint64
	// PageCount is the number of pages currently owned across all
	// priorities.
	PageCount uint32
	// MemoryAllocations is the number of page acquisitions performed.
	MemoryAllocations uint32
}

// bufferStats holds the producer-side counters. The executed count
// lives separately on the Buffer as an atomic because the consumer
// thread bumps it during Execute while other threads may snapshot.
type bufferStats struct {
	CommandsRecorded  uint32
	TotalBytesUsed    uint64
	MemoryAllocations uint32
}

// Buffer is one recording and execution unit. A producer thread
// acquires it (typically through a Manager), records commands into it
// with Record, and publishes it with MarkReady; a consumer thread
// observes IsReady and calls Execute. Pages are allocated lazily per
// priority level and returned to the allocator on Reset.
//
// Exactly one producer may record into an acquired buffer at a time,
// and exactly one consumer executes it. That single-writer discipline
// is a caller contract; the only internal synchronization is the
// release/acquire pair behind MarkReady and IsReady, which guarantees
// that every command write preceding MarkReady is visible to a
// consumer that observes IsReady() == true.
//
// Buffers must not be copied: page chains have single ownership.
type Buffer struct {
	heads   [priorityCount]*Page
	current [priorityCount]*Page
	counts  [priorityCount]uint32
	pages   [priorityCount]uint32

	memoryUsed uint32
	stats      bufferStats
	executed   atomic.Uint32
	ready      atomic.Bool

	alloc Allocator
}

// NewBuffer creates an empty command buffer drawing pages from alloc.
// A nil alloc selects the shared PoolAllocator.
func NewBuffer(alloc Allocator) *Buffer {
	if alloc == nil {
		alloc = defaultAllocator
	}
	return &Buffer{alloc: alloc}
}

// allocateSpace reserves size bytes (rounded up to a 16-byte multiple)
// in the chain for prio, linking a new page when the current one lacks
// room. Returns nil when the page allocator is exhausted or the
// rounded size can never fit a page.
func (b *Buffer) allocateSpace(size uint32, prio CommandPriority) unsafe.Pointer {
	size = alignUp(size, 16)
	if size > PageSize {
		return nil
	}

	cur := b.current[prio]
	if cur == nil || cur.used+size > PageSize {
		pg := b.newPage(prio)
		if pg == nil {
			return nil
		}
		if cur != nil {
			cur.next = pg
		} else {
			b.heads[prio] = pg
		}
		b.current[prio] = pg
		cur = pg
	}

	p := cur.slot(cur.used)
	cur.used += size
	b.memoryUsed += size
	return p
}

// newPage acquires one page from the allocator for prio.
func (b *Buffer) newPage(prio CommandPriority) *Page {
	pg := b.alloc.AcquirePage()
	if pg == nil {
		return nil
	}
	b.pages[prio]++
	b.stats.MemoryAllocations++
	b.stats.TotalBytesUsed += uint64(len(pg.buf))
	return pg
}

// freePages returns every page of every priority to the allocator and
// nulls all head and current pointers.
func (b *Buffer) freePages() {
	for i := range b.heads {
		for pg := b.heads[i]; pg != nil; {
			next := pg.next
			b.alloc.ReleasePage(pg)
			pg = next
		}
		b.heads[i] = nil
		b.current[i] = nil
		b.pages[i] = 0
	}
	b.memoryUsed = 0
}

// Execute runs every recorded command in priority order, High then
// Normal then Low; within a priority, execution order equals recording
// order. Execution never mutates page contents and never panics: a
// header whose declared size overruns the page's used region stops
// scanning of that page, silently discarding its remaining bytes.
//
// Execute may run zero or more times while the buffer is ready. It is
// intended for the single consumer thread of the buffer's window.
func (b *Buffer) Execute() {
	for prio := PriorityHigh; prio < priorityCount; prio++ {
		b.executePriority(prio)
	}
}

// executePriority walks the page chain for one priority head to tail,
// dispatching each command through its header trampoline.
func (b *Buffer) executePriority(prio CommandPriority) {
	for pg := b.heads[prio]; pg != nil; pg = pg.next {
		var off uint32
		for off < pg.used {
			p := pg.slot(off)
			h := (*CommandHeader)(p)
			if h.Size == 0 || off+h.Size > pg.used {
				// Corrupted command stream: stop scanning this page.
				break
			}
			if h.exec != nil {
				h.exec(p)
				b.executed.Add(1)
			}
			off = alignUp(off+h.Size, 16)
		}
	}
}

// Reset returns all pages to the allocator, zeroes every counter and
// cumulative statistic, and clears the ready flag, making the buffer
// available for reuse. Reset is all-or-nothing and safe to call on an
// already-empty buffer.
//
// Reset must not race with Record or Execute; it belongs to whichever
// thread currently owns the buffer.
func (b *Buffer) Reset() {
	b.freePages()
	for i := range b.counts {
		b.counts[i] = 0
	}
	b.stats = bufferStats{}
	b.executed.Store(0)
	b.ready.Store(false)
}

// IsEmpty reports whether no commands have been recorded.
func (b *Buffer) IsEmpty() bool {
	for _, c := range b.counts {
		if c > 0 {
			return false
		}
	}
	return true
}

// CommandCount returns the total number of recorded commands across
// all priorities.
func (b *Buffer) CommandCount() uint32 {
	var total uint32
	for _, c := range b.counts {
		total += c
	}
	return total
}

// CommandCountFor returns the number of recorded commands for one
// priority level.
func (b *Buffer) CommandCountFor(prio CommandPriority) uint32 {
	if prio >= priorityCount {
		return 0
	}
	return b.counts[prio]
}

// MemoryUsed returns the bytes consumed by recorded commands,
// including per-command headers and alignment padding.
func (b *Buffer) MemoryUsed() uint32 { return b.memoryUsed }

// PageCount returns the number of pages currently owned across all
// priorities.
func (b *Buffer) PageCount() uint32 {
	var total uint32
	for _, c := range b.pages {
		total += c
	}
	return total
}

// Stats returns a snapshot of the buffer's cumulative counters.
func (b *Buffer) Stats() Stats {
	return Stats{
		CommandsRecorded:  b.stats.CommandsRecorded,
		CommandsExecuted:  b.executed.Load(),
		TotalBytesUsed:    b.stats.TotalBytesUsed,
		PageCount:         b.PageCount(),
		MemoryAllocations: b.stats.MemoryAllocations,
	}
}

// MarkReady publishes the buffer to the consumer thread. The store has
// release semantics: every command recorded before MarkReady is
// visible to a consumer that subsequently observes IsReady() == true.
func (b *Buffer) MarkReady() {
	b.ready.Store(true)
}

// IsReady reports whether the producer has published the buffer. The
// load has acquire semantics, pairing with MarkReady.
func (b *Buffer) IsReady() bool {
	return b.ready.Load()
}
