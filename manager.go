package cmdbuf

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// MaxWindows is the maximum number of windows a Manager supports.
const MaxWindows = 8

// DefaultBuffersPerWindow is the pool size allocated per window when
// no option overrides it.
const DefaultBuffersPerWindow = 16

// ManagerOption configures a Manager during creation.
type ManagerOption func(*managerOptions)

// managerOptions holds optional configuration for Manager creation.
type managerOptions struct {
	buffersPerWindow int
	alloc            Allocator
}

// WithBuffersPerWindow sets the number of reusable buffers in each
// window's pool. Values below 1 are ignored.
func WithBuffersPerWindow(n int) ManagerOption {
	return func(o *managerOptions) {
		if n >= 1 {
			o.buffersPerWindow = n
		}
	}
}

// WithAllocator sets the page allocator shared by every buffer the
// manager owns. Use a FixedAllocator to cap page memory; the default
// is the shared PoolAllocator.
func WithAllocator(a Allocator) ManagerOption {
	return func(o *managerOptions) {
		if a != nil {
			o.alloc = a
		}
	}
}

// windowPool manages the buffer lifecycle for one window: a fixed
// array of owned buffers and a free-index stack guarded by a mutex.
//
// Invariant: every buffer index is either exactly once on the free
// stack or currently in use, never both and never neither; top ranges
// over [-1, len(buffers)-1].
type windowPool struct {
	mu      sync.Mutex
	buffers []*Buffer
	free    []uint32
	top     int
}

// inUseLocked reports whether index i is absent from the free stack.
func (p *windowPool) inUseLocked(i uint32) bool {
	for j := 0; j <= p.top; j++ {
		if p.free[j] == i {
			return false
		}
	}
	return true
}

// Manager owns a fixed pool of reusable command buffers per window and
// drives batch execution across one or all windows.
//
// State machine per buffer slot:
//
//	Free -> AcquireBuffer -> InUse (not ready)
//	     -> record + MarkReady -> InUse (ready)
//	     -> Execute (zero or more times)
//	     -> ReleaseBuffer -> Free
//
// AcquireBuffer and ReleaseBuffer briefly hold the window's mutex for
// an O(1) stack operation; execution itself is lock-free. Nothing in
// the Manager blocks or sleeps: pool exhaustion is reported as a nil
// buffer and callers back off or drop the frame's work.
type Manager struct {
	windows []windowPool
	perWin  int
}

// NewManager creates a manager for windowCount windows, each with its
// own pool of reusable buffers. windowCount is clamped to
// [1, MaxWindows].
func NewManager(windowCount int, opts ...ManagerOption) *Manager {
	if windowCount < 1 {
		windowCount = 1
	}
	if windowCount > MaxWindows {
		windowCount = MaxWindows
	}

	o := managerOptions{
		buffersPerWindow: DefaultBuffersPerWindow,
		alloc:            defaultAllocator,
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Manager{
		windows: make([]windowPool, windowCount),
		perWin:  o.buffersPerWindow,
	}
	for w := range m.windows {
		pool := &m.windows[w]
		pool.buffers = make([]*Buffer, o.buffersPerWindow)
		pool.free = make([]uint32, o.buffersPerWindow)
		for i := range pool.buffers {
			pool.buffers[i] = NewBuffer(o.alloc)
			pool.free[i] = uint32(i)
		}
		pool.top = o.buffersPerWindow - 1
	}
	return m
}

// WindowCount returns the number of windows configured at creation.
func (m *Manager) WindowCount() int { return len(m.windows) }

// AcquireBuffer pops a free buffer from the window's pool. It returns
// nil when windowID is out of range or the pool is exhausted; callers
// must treat nil as "try again later" and never dereference it.
func (m *Manager) AcquireBuffer(windowID int) *Buffer {
	if windowID < 0 || windowID >= len(m.windows) {
		return nil
	}
	pool := &m.windows[windowID]

	pool.mu.Lock()
	defer pool.mu.Unlock()

	if pool.top < 0 {
		logger().Debug("cmdbuf: buffer pool exhausted", "window", windowID)
		return nil
	}
	idx := pool.free[pool.top]
	pool.top--
	return pool.buffers[idx]
}

// ReleaseBuffer resets buf, discarding any recorded but unexecuted
// commands, and returns it to the window's pool. Invalid window ids,
// nil buffers, buffers belonging to another window, and double
// releases are all no-ops.
func (m *Manager) ReleaseBuffer(buf *Buffer, windowID int) {
	if windowID < 0 || windowID >= len(m.windows) || buf == nil {
		return
	}

	buf.Reset()

	pool := &m.windows[windowID]
	pool.mu.Lock()
	defer pool.mu.Unlock()

	for i := range pool.buffers {
		if pool.buffers[i] != buf {
			continue
		}
		idx := uint32(i)
		if pool.inUseLocked(idx) && pool.top+1 < len(pool.free) {
			pool.top++
			pool.free[pool.top] = idx
		}
		return
	}
}

// ExecuteWindowBuffers executes every in-use buffer of the window that
// is ready and non-empty. Buffers are not released afterward:
// ownership stays with the producer that acquired them, which calls
// ReleaseBuffer (or re-records after Reset) when done. Use
// DrainWindowBuffers for the execute-and-recycle lifecycle.
func (m *Manager) ExecuteWindowBuffers(windowID int) {
	if windowID < 0 || windowID >= len(m.windows) {
		return
	}
	pool := &m.windows[windowID]

	for _, buf := range m.snapshotInUse(pool) {
		if buf.IsReady() && !buf.IsEmpty() {
			buf.Execute()
		}
	}
}

// DrainWindowBuffers executes every ready non-empty in-use buffer of
// the window and then returns each executed buffer to the free pool,
// resetting it. It reports the number of buffers drained.
//
// Drain is the automatic counterpart to ExecuteWindowBuffers for
// callers that treat MarkReady as a full ownership handoff and do not
// touch the buffer again after publishing it.
func (m *Manager) DrainWindowBuffers(windowID int) int {
	if windowID < 0 || windowID >= len(m.windows) {
		return 0
	}
	pool := &m.windows[windowID]

	var drained int
	for _, buf := range m.snapshotInUse(pool) {
		if buf.IsReady() && !buf.IsEmpty() {
			buf.Execute()
			m.ReleaseBuffer(buf, windowID)
			drained++
		}
	}
	if drained > 0 {
		logger().Debug("cmdbuf: drained window buffers", "window", windowID, "count", drained)
	}
	return drained
}

// snapshotInUse collects the window's in-use buffers under the pool
// mutex so execution can proceed without holding it.
func (m *Manager) snapshotInUse(pool *windowPool) []*Buffer {
	pool.mu.Lock()
	defer pool.mu.Unlock()

	inUse := make([]*Buffer, 0, len(pool.buffers))
	for i := range pool.buffers {
		if pool.inUseLocked(uint32(i)) {
			inUse = append(inUse, pool.buffers[i])
		}
	}
	return inUse
}

// ExecuteAllWindows executes the ready buffers of every configured
// window in index order.
func (m *Manager) ExecuteAllWindows() {
	for w := range m.windows {
		m.ExecuteWindowBuffers(w)
	}
}

// ExecuteAllWindowsConcurrent executes each window's ready buffers on
// its own goroutine. Windows are independent consumers, so ordering
// across windows is unspecified; within a window the usual priority
// order holds. The context only gates whether a window's execution
// starts: once a buffer's Execute begins it always runs to completion.
func (m *Manager) ExecuteAllWindowsConcurrent(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for w := range m.windows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m.ExecuteWindowBuffers(w)
			return nil
		})
	}
	return g.Wait()
}

// AvailableBuffers returns the number of buffers currently free for
// acquisition in the window's pool, or 0 for an invalid window id.
func (m *Manager) AvailableBuffers(windowID int) int {
	if windowID < 0 || windowID >= len(m.windows) {
		return 0
	}
	pool := &m.windows[windowID]
	pool.mu.Lock()
	defer pool.mu.Unlock()
	return pool.top + 1
}

// TotalBuffers returns the pool capacity of the window, or 0 for an
// invalid window id.
func (m *Manager) TotalBuffers(windowID int) int {
	if windowID < 0 || windowID >= len(m.windows) {
		return 0
	}
	return m.perWin
}

// ActiveBuffers returns the number of buffers currently in use in the
// window's pool, or 0 for an invalid window id.
func (m *Manager) ActiveBuffers(windowID int) int {
	if windowID < 0 || windowID >= len(m.windows) {
		return 0
	}
	pool := &m.windows[windowID]
	pool.mu.Lock()
	defer pool.mu.Unlock()
	return len(pool.buffers) - (pool.top + 1)
}
