// Package cmdbuf provides the command-recording and execution core of
// a real-time rendering engine.
//
// # Overview
//
// cmdbuf lets a producer goroutine (game or business logic) record
// graphics commands without per-command heap allocation, hand the
// complete batch to a consumer goroutine (the renderer) through a
// lock-light readiness signal, and execute the batch in a
// deterministic priority order.
//
// The building blocks, leaves first:
//
//   - Allocator: binding to a pooled fixed-size page allocator.
//     PoolAllocator recycles pages through sync.Pool; FixedAllocator
//     enforces a hard page budget.
//   - CommandHeader + Record: a fixed 16-byte header paired with an
//     arbitrary payload type, written in place into page memory with a
//     per-type trampoline for type-erased dispatch.
//   - Buffer: per-priority page chains, priority-ordered execution,
//     reset/recycling, and an atomic ready flag for cross-thread
//     handoff.
//   - Manager: per-window pools of reusable buffers with an O(1)
//     free-index stack, plus batch execution across one or all
//     windows.
//
// # Quick Start
//
//	import "github.com/gogpu/cmdbuf"
//
//	mgr := cmdbuf.NewManager(1)
//
//	// Producer: acquire, record, publish.
//	buf := mgr.AcquireBuffer(0)
//	if buf == nil {
//	    // Pool exhausted: back off or drop this frame's work.
//	}
//	cmdbuf.Record(buf, backend.SetViewportCommand{Width: 800, Height: 600})
//	cmdbuf.Record(buf, backend.DrawArraysCommand{Count: 3})
//	buf.MarkReady()
//
//	// Consumer (render goroutine): execute ready batches.
//	mgr.ExecuteWindowBuffers(0)
//
//	// Producer, once done with the batch:
//	mgr.ReleaseBuffer(buf, 0)
//
// Concrete command payloads live in backend modules; see the backend
// package for the catalogue and the device execution target. cmdbuf
// itself only defines the generic recording, storage, and scheduling
// machinery.
//
// # Concurrency
//
// One producer records into an acquired buffer at a time and one
// consumer executes a window's ready buffers; both are caller
// contracts. MarkReady/IsReady form a release/acquire pair, so a
// consumer that observes readiness also observes every command written
// before it. Acquire and release take a per-window mutex for an O(1)
// stack operation; nothing blocks, sleeps, or times out. Exhaustion of
// either the buffer pool or the page allocator is a non-blocking
// failure state returned to the caller.
//
// # Error Handling
//
// The package signals failure only through return values or silent
// no-ops, never panics: Record drops the command when pages run out,
// AcquireBuffer returns nil when the pool is empty, and manager
// operations given invalid window ids become no-ops or return zero.
package cmdbuf
