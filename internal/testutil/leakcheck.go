// Package testutil holds goroutine leak checks shared by the package tests.
package testutil

import (
	"testing"

	"go.uber.org/goleak"
)

// VerifyNoLeaks is deferred by tests that start players, watchers or
// schedulers.
func VerifyNoLeaks(t *testing.T, opts ...goleak.Option) {
	t.Helper()
	goleak.VerifyNone(t, opts...)
}

// IgnoreExisting ignores every goroutine running when it is called. Pass it
// in the deferred call so process-wide goroutines started by earlier tests,
// such as the single oto output context, are not reported:
//
//	defer testutil.VerifyNoLeaks(t, testutil.IgnoreExisting())
func IgnoreExisting() goleak.Option {
	return goleak.IgnoreCurrent()
}

// IgnoreFyne ignores the fyne animation runner, which outlives the
// animations started by an Animator.
func IgnoreFyne() goleak.Option {
	return goleak.IgnoreTopFunction("fyne.io/fyne/v2/internal/animation.(*Runner).runAnimations")
}
