package cmdbuf

import (
	"context"
	"testing"
)

func TestManagerWindowClamp(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{MaxWindows, MaxWindows},
		{MaxWindows + 5, MaxWindows},
	}
	for _, tt := range tests {
		m := NewManager(tt.in)
		if got := m.WindowCount(); got != tt.want {
			t.Errorf("NewManager(%d).WindowCount() = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestManagerAcquireRelease(t *testing.T) {
	m := NewManager(2, WithBuffersPerWindow(4))

	if got := m.AvailableBuffers(0); got != 4 {
		t.Fatalf("AvailableBuffers(0) = %d, want 4", got)
	}
	if got := m.TotalBuffers(0); got != 4 {
		t.Fatalf("TotalBuffers(0) = %d, want 4", got)
	}

	buf := m.AcquireBuffer(0)
	if buf == nil {
		t.Fatal("AcquireBuffer(0) = nil")
	}
	if got := m.AvailableBuffers(0); got != 3 {
		t.Errorf("AvailableBuffers(0) = %d after acquire, want 3", got)
	}
	if got := m.ActiveBuffers(0); got != 1 {
		t.Errorf("ActiveBuffers(0) = %d after acquire, want 1", got)
	}
	// Window 1's pool is untouched.
	if got := m.AvailableBuffers(1); got != 4 {
		t.Errorf("AvailableBuffers(1) = %d, want 4", got)
	}

	m.ReleaseBuffer(buf, 0)
	if got := m.AvailableBuffers(0); got != 4 {
		t.Errorf("AvailableBuffers(0) = %d after release, want 4", got)
	}
	if got := m.ActiveBuffers(0); got != 0 {
		t.Errorf("ActiveBuffers(0) = %d after release, want 0", got)
	}
}

func TestManagerExhaustion(t *testing.T) {
	const n = 3
	m := NewManager(1, WithBuffersPerWindow(n))

	bufs := make([]*Buffer, n)
	for i := range bufs {
		bufs[i] = m.AcquireBuffer(0)
		if bufs[i] == nil {
			t.Fatalf("AcquireBuffer(0) = nil at %d of %d", i, n)
		}
	}
	if got := m.AcquireBuffer(0); got != nil {
		t.Fatal("AcquireBuffer(0) != nil on exhausted pool")
	}

	m.ReleaseBuffer(bufs[1], 0)
	if got := m.AcquireBuffer(0); got == nil {
		t.Fatal("AcquireBuffer(0) = nil after a release")
	}
}

func TestManagerReleaseResetsBuffer(t *testing.T) {
	m := NewManager(1, WithBuffersPerWindow(1))

	buf := m.AcquireBuffer(0)
	Record(buf, traceCmd{prio: PriorityNormal, id: 1})
	buf.MarkReady()
	m.ReleaseBuffer(buf, 0)

	// The same buffer comes back empty and unpublished.
	again := m.AcquireBuffer(0)
	if again != buf {
		t.Fatal("pool of one did not return the same buffer")
	}
	if !again.IsEmpty() || again.IsReady() {
		t.Error("released buffer was not reset")
	}
	m.ReleaseBuffer(again, 0)
}

func TestManagerDoubleReleaseIgnored(t *testing.T) {
	m := NewManager(1, WithBuffersPerWindow(2))

	buf := m.AcquireBuffer(0)
	m.ReleaseBuffer(buf, 0)
	m.ReleaseBuffer(buf, 0)

	if got := m.AvailableBuffers(0); got != 2 {
		t.Errorf("AvailableBuffers(0) = %d after double release, want 2", got)
	}
}

func TestManagerInvalidWindow(t *testing.T) {
	m := NewManager(2)

	for _, w := range []int{-1, 2, 99} {
		if got := m.AcquireBuffer(w); got != nil {
			t.Errorf("AcquireBuffer(%d) != nil", w)
		}
		if got := m.AvailableBuffers(w); got != 0 {
			t.Errorf("AvailableBuffers(%d) = %d, want 0", w, got)
		}
		if got := m.TotalBuffers(w); got != 0 {
			t.Errorf("TotalBuffers(%d) = %d, want 0", w, got)
		}
		if got := m.ActiveBuffers(w); got != 0 {
			t.Errorf("ActiveBuffers(%d) = %d, want 0", w, got)
		}
		if got := m.DrainWindowBuffers(w); got != 0 {
			t.Errorf("DrainWindowBuffers(%d) = %d, want 0", w, got)
		}
		// No-ops rather than panics.
		m.ReleaseBuffer(nil, w)
		m.ExecuteWindowBuffers(w)
	}
}

func TestManagerReleaseForeignBuffer(t *testing.T) {
	m := NewManager(2, WithBuffersPerWindow(2))

	buf := m.AcquireBuffer(0)
	// Releasing into the wrong window must not grow that pool.
	m.ReleaseBuffer(buf, 1)
	if got := m.AvailableBuffers(1); got != 2 {
		t.Errorf("AvailableBuffers(1) = %d after foreign release, want 2", got)
	}
	if got := m.AvailableBuffers(0); got != 1 {
		t.Errorf("AvailableBuffers(0) = %d, want 1", got)
	}
	m.ReleaseBuffer(buf, 0)
}

func TestManagerFrameScenario(t *testing.T) {
	resetTrace()
	m := NewManager(1)

	buf := m.AcquireBuffer(0)
	if buf == nil {
		t.Fatal("AcquireBuffer(0) = nil")
	}

	// One state command and three draws, recorded draws-first. The
	// high-priority command must still take effect before any draw.
	Record(buf, traceCmd{prio: PriorityNormal, id: 10})
	Record(buf, traceCmd{prio: PriorityNormal, id: 11})
	Record(buf, traceCmd{prio: PriorityHigh, id: 1})
	Record(buf, traceCmd{prio: PriorityNormal, id: 12})
	buf.MarkReady()

	m.ExecuteWindowBuffers(0)

	wantIDs := []uint32{1, 10, 11, 12}
	if len(execTrace) != len(wantIDs) {
		t.Fatalf("executed %d commands, want %d", len(execTrace), len(wantIDs))
	}
	for i, id := range wantIDs {
		if execTrace[i].id != id {
			t.Errorf("execution position %d: id = %d, want %d", i, execTrace[i].id, id)
		}
	}
	if got := buf.Stats().CommandsExecuted; got != 4 {
		t.Errorf("Stats().CommandsExecuted = %d, want 4", got)
	}

	// ExecuteWindowBuffers leaves ownership with the producer.
	if got := m.ActiveBuffers(0); got != 1 {
		t.Errorf("ActiveBuffers(0) = %d after execute, want 1", got)
	}
	m.ReleaseBuffer(buf, 0)
}

func TestManagerSkipsUnreadyAndEmpty(t *testing.T) {
	resetTrace()
	m := NewManager(1, WithBuffersPerWindow(3))

	recorded := m.AcquireBuffer(0)
	Record(recorded, traceCmd{prio: PriorityNormal, id: 1})
	// Never marked ready; must not run.

	empty := m.AcquireBuffer(0)
	empty.MarkReady()
	// Ready but empty; nothing to run.

	m.ExecuteWindowBuffers(0)
	if len(execTrace) != 0 {
		t.Fatalf("executed %d commands, want 0", len(execTrace))
	}

	recorded.MarkReady()
	m.ExecuteWindowBuffers(0)
	if len(execTrace) != 1 {
		t.Fatalf("executed %d commands after MarkReady, want 1", len(execTrace))
	}

	m.ReleaseBuffer(recorded, 0)
	m.ReleaseBuffer(empty, 0)
}

func TestManagerDrainReleases(t *testing.T) {
	resetTrace()
	m := NewManager(1, WithBuffersPerWindow(4))

	for i := uint32(0); i < 2; i++ {
		buf := m.AcquireBuffer(0)
		Record(buf, traceCmd{prio: PriorityNormal, id: i})
		buf.MarkReady()
	}
	held := m.AcquireBuffer(0) // in use but never published

	if got := m.DrainWindowBuffers(0); got != 2 {
		t.Fatalf("DrainWindowBuffers(0) = %d, want 2", got)
	}
	if len(execTrace) != 2 {
		t.Errorf("executed %d commands, want 2", len(execTrace))
	}
	if got := m.AvailableBuffers(0); got != 3 {
		t.Errorf("AvailableBuffers(0) = %d after drain, want 3", got)
	}
	if got := m.ActiveBuffers(0); got != 1 {
		t.Errorf("ActiveBuffers(0) = %d after drain, want 1", got)
	}
	m.ReleaseBuffer(held, 0)
}

func TestManagerExecuteAllWindows(t *testing.T) {
	resetTrace()
	m := NewManager(3, WithBuffersPerWindow(2))

	for w := 0; w < m.WindowCount(); w++ {
		buf := m.AcquireBuffer(w)
		Record(buf, traceCmd{prio: PriorityNormal, id: uint32(w)})
		buf.MarkReady()
	}

	m.ExecuteAllWindows()

	// Windows execute in index order.
	wantIDs := []uint32{0, 1, 2}
	if len(execTrace) != len(wantIDs) {
		t.Fatalf("executed %d commands, want %d", len(execTrace), len(wantIDs))
	}
	for i, id := range wantIDs {
		if execTrace[i].id != id {
			t.Errorf("execution position %d: id = %d, want %d", i, execTrace[i].id, id)
		}
	}
}

func TestManagerExecuteAllWindowsConcurrent(t *testing.T) {
	// Concurrent window execution mutates per-buffer atomics only, so
	// the shared execTrace is avoided: count through buffer stats.
	m := NewManager(4, WithBuffersPerWindow(2))

	bufs := make([]*Buffer, m.WindowCount())
	for w := range bufs {
		bufs[w] = m.AcquireBuffer(w)
		Record(bufs[w], noopCmd{})
		Record(bufs[w], noopCmd{})
		bufs[w].MarkReady()
	}

	if err := m.ExecuteAllWindowsConcurrent(context.Background()); err != nil {
		t.Fatalf("ExecuteAllWindowsConcurrent() = %v", err)
	}
	for w, buf := range bufs {
		if got := buf.Stats().CommandsExecuted; got != 2 {
			t.Errorf("window %d: CommandsExecuted = %d, want 2", w, got)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.ExecuteAllWindowsConcurrent(ctx); err == nil {
		t.Error("ExecuteAllWindowsConcurrent(canceled) = nil, want error")
	}

	for w, buf := range bufs {
		m.ReleaseBuffer(buf, w)
	}
}

// noopCmd is a payload with no side effects, safe for concurrent
// execution across windows.
type noopCmd struct{ _ uint32 }

func (noopCmd) Type() CommandType         { return CmdFlushCommands }
func (noopCmd) Priority() CommandPriority { return PriorityHigh }
func (noopCmd) Execute()                  {}
