package sway

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSequenceEmptyFinishesSynchronously(t *testing.T) {
	var rec resultRecorder
	Sequence().Start(rec.done)
	if diff := cmp.Diff([]Result{{Finished: true}}, rec.results); diff != "" {
		t.Errorf("results (-want +got):\n%s", diff)
	}
}

func TestSequenceRunsInOrder(t *testing.T) {
	var log []string
	var rec resultRecorder
	Sequence(autoSpy("a", &log, true), nil, autoSpy("b", &log, true)).Start(rec.done)

	if diff := cmp.Diff([]string{"start a", "start b"}, log); diff != "" {
		t.Errorf("log (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Result{{Finished: true}}, rec.results); diff != "" {
		t.Errorf("results (-want +got):\n%s", diff)
	}
}

func TestSequenceShortCircuits(t *testing.T) {
	var log []string
	var rec resultRecorder
	b := autoSpy("b", &log, true)
	Sequence(autoSpy("a", &log, false), b).Start(rec.done)

	if b.starts != 0 {
		t.Errorf("b started %d times after a failed", b.starts)
	}
	if diff := cmp.Diff([]Result{{Finished: false}}, rec.results); diff != "" {
		t.Errorf("results (-want +got):\n%s", diff)
	}
}

func TestSequenceStopThenResume(t *testing.T) {
	var log []string
	var rec resultRecorder
	a := newSpy("a", &log)
	b := newSpy("b", &log)
	seq := Sequence(a, b)

	seq.Start(rec.done)
	a.finish(Result{Finished: true})
	seq.Stop()
	seq.Start(rec.done)
	b.finish(Result{Finished: true})

	want := []string{"start a", "start b", "stop b", "start b"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("log (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Result{{Finished: false}, {Finished: true}}, rec.results); diff != "" {
		t.Errorf("results (-want +got):\n%s", diff)
	}
	if a.starts != 1 {
		t.Errorf("a restarted on resume: %d starts", a.starts)
	}
}

func TestSequenceRestartAfterCompletion(t *testing.T) {
	var log []string
	var rec resultRecorder
	a := autoSpy("a", &log, true)
	seq := Sequence(a)

	seq.Start(rec.done)
	seq.Start(rec.done)
	if a.starts != 1 || len(rec.results) != 2 {
		t.Fatalf("starts = %d, results = %d", a.starts, len(rec.results))
	}

	seq.Reset()
	seq.Start(rec.done)
	if a.starts != 2 || a.resets != 1 {
		t.Errorf("after Reset: starts = %d, resets = %d", a.starts, a.resets)
	}
}

func TestParallelCompletesWhenAllEnd(t *testing.T) {
	var log []string
	var rec resultRecorder
	a := newSpy("a", &log)
	b := newSpy("b", &log)
	Parallel([]Handle{a, b}).Start(rec.done)

	a.finish(Result{Finished: true})
	if len(rec.results) != 0 {
		t.Fatal("completed before every child ended")
	}
	b.finish(Result{Finished: true})
	if diff := cmp.Diff([]Result{{Finished: true}}, rec.results); diff != "" {
		t.Errorf("results (-want +got):\n%s", diff)
	}
}

func TestParallelStopTogether(t *testing.T) {
	var log []string
	var rec resultRecorder
	a := newSpy("a", &log)
	b := newSpy("b", &log)
	c := newSpy("c", &log)
	Parallel([]Handle{a, b, c}).Start(rec.done)

	a.finish(Result{Finished: false})

	if b.stops != 1 || c.stops != 1 {
		t.Errorf("stops: b = %d, c = %d, want 1 each", b.stops, c.stops)
	}
	if diff := cmp.Diff([]Result{{Finished: false}}, rec.results); diff != "" {
		t.Errorf("results (-want +got):\n%s", diff)
	}
}

func TestParallelWithoutStopTogether(t *testing.T) {
	var log []string
	var rec resultRecorder
	a := newSpy("a", &log)
	b := newSpy("b", &log)
	Parallel([]Handle{a, b}, StopTogether(false)).Start(rec.done)

	a.finish(Result{Finished: false})
	if b.stops != 0 || !b.running() {
		t.Fatalf("b was stopped: stops = %d", b.stops)
	}
	b.finish(Result{Finished: true})
	if diff := cmp.Diff([]Result{{Finished: false}}, rec.results); diff != "" {
		t.Errorf("results (-want +got):\n%s", diff)
	}
}

func TestParallelSynchronousFailureSkipsLaterChildren(t *testing.T) {
	var log []string
	var rec resultRecorder
	b := newSpy("b", &log)
	Parallel([]Handle{autoSpy("a", &log, false), b}).Start(rec.done)

	if b.starts != 0 {
		t.Errorf("b started after a failed synchronously")
	}
	if diff := cmp.Diff([]Result{{Finished: false}}, rec.results); diff != "" {
		t.Errorf("results (-want +got):\n%s", diff)
	}
}

func TestParallelNilAndEmpty(t *testing.T) {
	var log []string
	var rec resultRecorder
	Parallel(nil).Start(rec.done)
	Parallel([]Handle{nil, autoSpy("a", &log, true)}).Start(rec.done)
	if diff := cmp.Diff([]Result{{Finished: true}, {Finished: true}}, rec.results); diff != "" {
		t.Errorf("results (-want +got):\n%s", diff)
	}
}

func TestParallelRestartAfterCompletion(t *testing.T) {
	var log []string
	var rec resultRecorder
	a := autoSpy("a", &log, true)
	p := Parallel([]Handle{a})

	p.Start(rec.done)
	p.Start(rec.done)
	if a.starts != 1 || len(rec.results) != 2 || !rec.results[1].Finished {
		t.Fatalf("starts = %d, results = %+v", a.starts, rec.results)
	}

	p.Reset()
	p.Start(rec.done)
	if a.starts != 2 {
		t.Errorf("after Reset: starts = %d, want 2", a.starts)
	}
}

func TestParallelStopThenStart(t *testing.T) {
	var log []string
	var rec resultRecorder
	a := newSpy("a", &log)
	p := Parallel([]Handle{a})

	p.Start(rec.done)
	p.Stop()
	p.Stop()
	if a.stops != 1 {
		t.Errorf("a stopped %d times, want 1", a.stops)
	}
	if diff := cmp.Diff([]Result{{Finished: false}}, rec.results); diff != "" {
		t.Errorf("results (-want +got):\n%s", diff)
	}
}

func TestResetRestartReplaysTheSameRun(t *testing.T) {
	var log []string
	h := Sequence(
		autoSpy("a", &log, true),
		Parallel([]Handle{autoSpy("b", &log, true), autoSpy("c", &log, true)}),
		Loop(autoSpy("d", &log, true), Iterations(2), ResetBeforeIteration(false)),
	)

	var first, second resultRecorder
	h.Start(first.done)
	run1 := append([]string(nil), log...)

	h.Reset()
	log = nil
	h.Start(second.done)

	if diff := cmp.Diff(run1, log); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.results, second.results); diff != "" {
		t.Errorf("results differ (-first +second):\n%s", diff)
	}
}

func TestLoopIterations(t *testing.T) {
	var log []string
	var rec resultRecorder
	a := autoSpy("a", &log, true)
	Loop(a, Iterations(3)).Start(rec.done)

	if a.starts != 3 || a.resets != 3 {
		t.Errorf("starts = %d, resets = %d, want 3 and 3", a.starts, a.resets)
	}
	if diff := cmp.Diff([]Result{{Finished: true}}, rec.results); diff != "" {
		t.Errorf("results (-want +got):\n%s", diff)
	}
}

func TestLoopZeroIterations(t *testing.T) {
	var log []string
	var rec resultRecorder
	a := autoSpy("a", &log, true)
	Loop(a, Iterations(0)).Start(rec.done)
	if a.starts != 0 || len(rec.results) != 1 || !rec.results[0].Finished {
		t.Errorf("starts = %d, results = %+v", a.starts, rec.results)
	}
}

func TestLoopWithoutReset(t *testing.T) {
	var log []string
	a := autoSpy("a", &log, true)
	Loop(a, Iterations(2), ResetBeforeIteration(false)).Start(nil)
	if a.starts != 2 || a.resets != 0 {
		t.Errorf("starts = %d, resets = %d", a.starts, a.resets)
	}
}

func TestLoopStop(t *testing.T) {
	var log []string
	var rec resultRecorder
	a := newSpy("a", &log)
	l := Loop(a)

	l.Start(rec.done)
	a.finish(Result{Finished: true})
	a.finish(Result{Finished: true})
	if a.starts != 3 {
		t.Fatalf("starts = %d, want 3", a.starts)
	}
	l.Stop()
	if diff := cmp.Diff([]Result{{Finished: false}}, rec.results); diff != "" {
		t.Errorf("results (-want +got):\n%s", diff)
	}
}

func TestLoopDelegatesToRemoteDriver(t *testing.T) {
	var log []string
	var rec resultRecorder
	a := newSpy("a", &log)
	a.remote = true
	l := Loop(a, Iterations(5))

	if !l.UsesRemoteDriver() {
		t.Fatal("loop over a remote handle should report the remote driver")
	}
	l.Start(rec.done)
	if diff := cmp.Diff([]int{5}, a.remoteLoops); diff != "" {
		t.Errorf("remote loops (-want +got):\n%s", diff)
	}
	if a.starts != 0 {
		t.Errorf("child started locally %d times", a.starts)
	}
	a.finish(Result{Finished: true})
	if diff := cmp.Diff([]Result{{Finished: true}}, rec.results); diff != "" {
		t.Errorf("results (-want +got):\n%s", diff)
	}
	if err := l.StartRemoteLoop(2, nil); !errors.Is(err, ErrUnsupportedComposition) {
		t.Errorf("nested StartRemoteLoop = %v", err)
	}
}

func TestCompositesRejectRemoteLoop(t *testing.T) {
	for name, h := range map[string]Handle{
		"sequence": Sequence(),
		"parallel": Parallel(nil),
	} {
		if h.UsesRemoteDriver() {
			t.Errorf("%s reports the remote driver", name)
		}
		if err := h.StartRemoteLoop(1, nil); !errors.Is(err, ErrUnsupportedComposition) {
			t.Errorf("%s StartRemoteLoop = %v", name, err)
		}
	}
}

func TestStaggerStartsOnSchedule(t *testing.T) {
	g := NewGraph(nil, nil)
	var log []string
	var rec resultRecorder
	a := newSpy("a", &log)
	b := newSpy("b", &log)
	c := newSpy("c", &log)

	g.Stagger(100*time.Millisecond, []Handle{a, b, c}).Start(rec.done)
	if diff := cmp.Diff([]string{"start a"}, log); diff != "" {
		t.Fatalf("at t=0 (-want +got):\n%s", diff)
	}

	g.Clock().Update(0.06)
	if len(log) != 1 {
		t.Fatalf("b started early: %v", log)
	}
	g.Clock().Update(0.06)
	if diff := cmp.Diff([]string{"start a", "start b"}, log); diff != "" {
		t.Fatalf("at t=0.12 (-want +got):\n%s", diff)
	}
	g.Clock().Update(0.1)
	if diff := cmp.Diff([]string{"start a", "start b", "start c"}, log); diff != "" {
		t.Fatalf("at t=0.22 (-want +got):\n%s", diff)
	}

	a.finish(Result{Finished: false})
	if b.stops != 0 {
		t.Error("stagger stopped b after a failed")
	}
	b.finish(Result{Finished: true})
	c.finish(Result{Finished: true})
	if diff := cmp.Diff([]Result{{Finished: false}}, rec.results); diff != "" {
		t.Errorf("results (-want +got):\n%s", diff)
	}
}

func TestDelayFinishesAfterDuration(t *testing.T) {
	g := NewGraph(nil, nil)
	var rec resultRecorder
	g.Delay(250 * time.Millisecond).Start(rec.done)

	g.Clock().Update(0.2)
	if len(rec.results) != 0 {
		t.Fatal("delay finished early")
	}
	g.Clock().Update(0.1)
	if diff := cmp.Diff([]Result{{Finished: true}}, rec.results); diff != "" {
		t.Errorf("results (-want +got):\n%s", diff)
	}
	if !g.Clock().Idle() {
		t.Error("clock still busy after delay finished")
	}
}
