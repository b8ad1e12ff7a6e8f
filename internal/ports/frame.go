package ports

// FrameScheduler provides request-next-frame semantics.
//
// RequestFrame queues fn to run once, on the next display refresh. It must never
// call fn synchronously: the frame loop re-arms itself from inside fn while
// holding its own lock.
type FrameScheduler interface {
	RequestFrame(fn func())
}

// Clock is the time source of the frame loop.
type Clock interface {
	// Now returns a monotonically non-decreasing time in seconds.
	Now() float64
}
