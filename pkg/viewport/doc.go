// Package viewport owns the pan/zoom transform applied to a rendered org
// chart and the state machine that drives it.
//
// A [Controller] moves between three phases:
//
//	idle ──press──▶ dragging ──release/leave──▶ idle
//	  │                 │
//	  └──fit/animate────┴──────▶ animating ──done──▶ idle
//
// Pointer moves while dragging and animation ticks are not applied
// immediately. They go through a [Scheduler] that holds at most one pending
// frame callback: each new request cancels the previous one, so fast input
// never builds a backlog. Ending a drag, leaving the surface, starting an
// animation and unmounting all cancel the pending callback.
//
// Zoom is always clamped to [Config.MinZoom, Config.MaxZoom]; no operation
// on the controller fails.
//
// The controller is single-threaded: every method, and the scheduler's
// frame callbacks, must run on the same goroutine. [FrameLoop] is a
// scheduler that is flushed explicitly, which suits both event loops (the
// terminal viewer flushes it on a ticker) and deterministic tests.
package viewport
