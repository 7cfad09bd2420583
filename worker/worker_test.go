package worker

import (
	"sync/atomic"
	"testing"
)

func TestRunWaitsForAllTasks(t *testing.T) {
	p := NewPool(4, nil)
	defer p.Close()

	var sum atomic.Int64
	tasks := make([]func(), 100)
	for i := range tasks {
		tasks[i] = func() { sum.Add(int64(i)) }
	}
	if err := p.Run(tasks...); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sum.Load(); got != 4950 {
		t.Fatalf("expected sum 4950, got %d", got)
	}
}

func TestRunSurvivesPanics(t *testing.T) {
	p := NewPool(2, nil)
	defer p.Close()

	var ran atomic.Int32
	err := p.Run(
		func() { panic("boom") },
		func() { ran.Add(1) },
		func() { ran.Add(1) },
	)
	if err == nil {
		t.Fatalf("expected an error for the panicking task")
	}
	if ran.Load() != 2 {
		t.Fatalf("expected the other tasks to run, %d did", ran.Load())
	}

	// The workers must still be alive after a panic.
	if err := p.Run(func() { ran.Add(1) }); err != nil || ran.Load() != 3 {
		t.Fatalf("pool stopped working after a panic: %v", err)
	}
}

func TestRunWithoutTasks(t *testing.T) {
	p := NewPool(0, nil)
	if err := p.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.Close()
	p.Close()
}
