// Package scheduler runs delayed callbacks behind a small interface so that
// timer-driven state transitions can be cancelled through explicit task
// handles and tested without sleeping.
//
// Real wraps time.AfterFunc. Manual keeps a virtual clock that only moves when
// Advance is called:
//
//	s := scheduler.NewManual(time.Now())
//	task := s.AfterFunc(700*time.Millisecond, fade)
//	s.Advance(700 * time.Millisecond) // fade runs here
//	task.Stop()                        // false: already ran
package scheduler
