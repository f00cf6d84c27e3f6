package viewport

import "time"

// FrameID identifies a pending frame callback.
type FrameID uint64

// Scheduler runs callbacks on the next rendering frame.
type Scheduler interface {
	// RequestFrame queues fn for the next frame.
	RequestFrame(fn func(now time.Time)) FrameID
	// CancelFrame drops a queued callback. Unknown ids are ignored.
	CancelFrame(id FrameID)
	// Now returns the scheduler's current time.
	Now() time.Time
}

// FrameLoop is a Scheduler whose frames are produced by calling Flush.
// It is not safe for concurrent use.
type FrameLoop struct {
	clock   func() time.Time
	nextID  FrameID
	pending []frame
	running []frame
	now     time.Time
}

type frame struct {
	id FrameID
	fn func(time.Time)
}

var _ Scheduler = (*FrameLoop)(nil)

// NewFrameLoop returns a FrameLoop reading time from clock, or from
// time.Now when clock is nil.
func NewFrameLoop(clock func() time.Time) *FrameLoop {
	if clock == nil {
		clock = time.Now
	}
	return &FrameLoop{clock: clock}
}

// RequestFrame implements Scheduler.
func (l *FrameLoop) RequestFrame(fn func(time.Time)) FrameID {
	l.nextID++
	l.pending = append(l.pending, frame{id: l.nextID, fn: fn})
	return l.nextID
}

// CancelFrame implements Scheduler.
func (l *FrameLoop) CancelFrame(id FrameID) {
	for i := range l.running {
		if l.running[i].id == id {
			l.running[i].fn = nil
			return
		}
	}
	for i, f := range l.pending {
		if f.id == id {
			l.pending = append(l.pending[:i], l.pending[i+1:]...)
			return
		}
	}
}

// Now implements Scheduler.
func (l *FrameLoop) Now() time.Time {
	return l.clock()
}

// Flush runs one frame: every callback queued before the call, in request
// order, with the given timestamp. Callbacks queued during the flush wait
// for the next one. It returns the number of callbacks run.
func (l *FrameLoop) Flush(now time.Time) int {
	l.running = l.pending
	l.pending = nil
	l.now = now
	ran := 0
	for i := range l.running {
		if fn := l.running[i].fn; fn != nil {
			l.running[i].fn = nil
			fn(now)
			ran++
		}
	}
	l.running = nil
	return ran
}

// Pending returns the number of queued callbacks.
func (l *FrameLoop) Pending() int { return len(l.pending) }

// LastFrame returns the timestamp of the most recent Flush.
func (l *FrameLoop) LastFrame() time.Time { return l.now }
