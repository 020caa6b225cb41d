// Command cbdemo demonstrates the cmdbuf recording and execution core:
// producer goroutines record frames of commands per window while a
// consumer goroutine drains and executes the ready batches.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/gputypes"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/cmdbuf"
	"github.com/gogpu/cmdbuf/backend"
)

func main() {
	var (
		windows = flag.Int("windows", 2, "number of windows to simulate")
		frames  = flag.Int("frames", 60, "frames to record per window")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		cmdbuf.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	trace := backend.NewTraceDevice()
	backend.SetDevice(trace)

	res := backend.NewResourceTable()
	quad := res.AddBuffer(backend.BufferInfo{Label: "quad-vertices", Size: 4 * 4 * 8})

	mgr := cmdbuf.NewManager(*windows)
	ctx, cancel := context.WithCancel(context.Background())

	g, ctx := errgroup.WithContext(ctx)

	// One producer per window.
	for w := 0; w < mgr.WindowCount(); w++ {
		g.Go(func() error {
			for frame := 0; frame < *frames; frame++ {
				buf := mgr.AcquireBuffer(w)
				for buf == nil {
					// Pool exhausted: back off until the consumer drains.
					select {
					case <-ctx.Done():
						return ctx.Err()
					case <-time.After(time.Millisecond):
					}
					buf = mgr.AcquireBuffer(w)
				}
				recordFrame(buf, quad, frame)
				buf.MarkReady()
			}
			return nil
		})
	}

	// Single consumer draining every window until producers finish.
	done := make(chan struct{})
	var executed int
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			for w := 0; w < mgr.WindowCount(); w++ {
				executed += mgr.DrainWindowBuffers(w)
			}
			time.Sleep(time.Millisecond)
		}
	}()

	if err := g.Wait(); err != nil {
		log.Fatalf("producers failed: %v", err)
	}
	cancel()
	<-done
	// Final drain for batches published after the last consumer pass.
	for w := 0; w < mgr.WindowCount(); w++ {
		executed += mgr.DrainWindowBuffers(w)
	}

	log.Printf("executed %d batches across %d windows (%d device calls)",
		executed, mgr.WindowCount(), trace.Len())
}

// recordFrame records one frame's worth of commands: state setup at
// high priority, geometry at normal, and a debug overlay at low.
func recordFrame(buf *cmdbuf.Buffer, quad backend.BufferRef, frame int) {
	cmdbuf.Record(buf, backend.SetViewportCommand{Width: 800, Height: 600})
	cmdbuf.Record(buf, backend.SetClearColorCommand{
		Color: gputypes.Color{R: 0.1, G: 0.2, B: 0.4, A: 1},
	})
	cmdbuf.Record(buf, backend.ClearBuffersCommand{Mask: backend.ClearAll})

	cmdbuf.Record(buf, backend.BindVertexBufferCommand{Buffer: quad})
	cmdbuf.Record(buf, backend.DrawArraysCommand{
		Topology: gputypes.PrimitiveTopologyTriangleList,
		Count:    6,
	})

	cmdbuf.Record(buf, backend.NewDrawDebugText(10, 20, "frame"))
	cmdbuf.Record(buf, backend.InsertFenceCommand{ID: uint64(frame)})
}
