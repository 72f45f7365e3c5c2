package effects

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestSchedulerStartRunsFirstStep 测试 Start 同步执行第一步
func TestSchedulerStartRunsFirstStep(t *testing.T) {
	host := newRecordingHost(0)
	s := NewScheduler()

	run, err := s.Start(context.Background(), newTestEffect(host), "label")
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if run.Steps() != 1 {
		t.Errorf("Steps after Start: got %d, want 1", run.Steps())
	}
	if got := len(host.stepsFor(run.Target())); got != 1 {
		t.Errorf("step-apply calls after Start: got %d, want 1", got)
	}
	if s.Active() != 1 {
		t.Errorf("Active: got %d, want 1", s.Active())
	}
}

// TestSchedulerStartTerminatedOnFirstStep 测试第一步即结束的运行不加入调度
func TestSchedulerStartTerminatedOnFirstStep(t *testing.T) {
	host := newRecordingHost(0)
	e := newTestEffect(host)
	e.SetSpeedScale(1)

	run, err := NewScheduler().Start(context.Background(), e, "label")
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if !run.IsTerminated() {
		t.Error("run should have terminated on the first step")
	}
}

func TestSchedulerStartValidationError(t *testing.T) {
	s := NewScheduler()
	_, err := s.Start(context.Background(), NewDropEffect(newRecordingHost(0)), "label")
	if !errors.Is(err, ErrInvalidTravelLimit) {
		t.Errorf("Start() error = %v, want ErrInvalidTravelLimit", err)
	}
	if s.Active() != 0 {
		t.Errorf("Active: got %d, want 0", s.Active())
	}
}

// TestSchedulerUpdateAccumulates 测试按量子累计推进
func TestSchedulerUpdateAccumulates(t *testing.T) {
	host := newRecordingHost(0)
	s := NewScheduler()

	run, err := s.Start(context.Background(), newTestEffect(host), "label")
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	// 60fps 宿主帧，约 16.7ms 一帧；量子 41ms
	frame := time.Second / 60

	s.Update(frame)
	s.Update(frame)
	if run.Steps() != 1 {
		t.Errorf("Steps after 2 frames: got %d, want 1", run.Steps())
	}

	s.Update(frame)
	if run.Steps() != 2 {
		t.Errorf("Steps after 3 frames: got %d, want 2", run.Steps())
	}

	// 一次大步长追赶多个量子
	s.Update(5 * run.TimeStep())
	if run.Steps() != 7 {
		t.Errorf("Steps after catch-up: got %d, want 7", run.Steps())
	}
}

// TestSchedulerRemovesTerminated 测试结束的运行被移除
func TestSchedulerRemovesTerminated(t *testing.T) {
	host := newRecordingHost(0)
	s := NewScheduler()
	e := newTestEffect(host)

	first, _ := s.Start(context.Background(), e, "a")
	second, _ := s.Start(context.Background(), e, "b")
	if s.Active() != 2 {
		t.Fatalf("Active: got %d, want 2", s.Active())
	}

	for i := 0; i < 100 && s.Active() > 0; i++ {
		s.Update(first.TimeStep())
	}

	if s.Active() != 0 {
		t.Errorf("Active after completion: got %d, want 0", s.Active())
	}
	for _, run := range []*Run{first, second} {
		if run.Reason() != ReasonReachedLimit {
			t.Errorf("run #%d reason: got %v, want reached limit", run.ID(), run.Reason())
		}
		if got := len(host.stepsFor(run.Target())); got != 24 {
			t.Errorf("run #%d step-apply calls: got %d, want 24", run.ID(), got)
		}
		if got := host.cleanupsFor(run.Target()); got != 1 {
			t.Errorf("run #%d cleanup calls: got %d, want 1", run.ID(), got)
		}
	}
}

func TestSchedulerCancelAll(t *testing.T) {
	host := newRecordingHost(0)
	s := NewScheduler()
	e := newTestEffect(host)

	runs := make([]*Run, 0, 3)
	for _, name := range []string{"a", "b", "c"} {
		run, err := s.Start(context.Background(), e, name)
		if err != nil {
			t.Fatalf("Start(%s) error: %v", name, err)
		}
		runs = append(runs, run)
	}
	if got := len(s.Runs()); got != 3 {
		t.Fatalf("Runs: got %d, want 3", got)
	}

	s.CancelAll()

	if s.Active() != 0 {
		t.Errorf("Active after CancelAll: got %d, want 0", s.Active())
	}
	for _, run := range runs {
		if run.Reason() != ReasonCancelled {
			t.Errorf("run #%d reason: got %v, want cancelled", run.ID(), run.Reason())
		}
	}
	if host.totalCleanups() != 3 {
		t.Errorf("cleanup calls: got %d, want 3", host.totalCleanups())
	}
}

func TestSchedulerAddIgnoresTerminated(t *testing.T) {
	host := newRecordingHost(0)
	s := NewScheduler()

	run, _ := newTestEffect(host).ApplyOn(context.Background(), "a")
	run.Cancel()
	s.Add(run)
	s.Add(nil)

	if s.Active() != 0 {
		t.Errorf("Active: got %d, want 0", s.Active())
	}
}

// TestDriveCompletes 测试真实时钟驱动到结束
func TestDriveCompletes(t *testing.T) {
	host := newRecordingHost(0)
	e := newTestEffect(host)
	e.SetAnimationFramesPerSecond(1000)
	e.SetSpeedScale(1.0 / 100)

	run, err := e.ApplyOn(context.Background(), "label")
	if err != nil {
		t.Fatalf("ApplyOn() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Drive(ctx, run); err != nil {
		t.Fatalf("Drive() error: %v", err)
	}
	if run.Reason() != ReasonReachedLimit {
		t.Errorf("Reason: got %v, want reached limit", run.Reason())
	}
	if got := host.cleanupsFor(run.Target()); got != 1 {
		t.Errorf("cleanup calls: got %d, want 1", got)
	}
}

// TestDriveCancelled 测试 ctx 取消时清理
func TestDriveCancelled(t *testing.T) {
	host := newRecordingHost(0)
	e := newTestEffect(host)
	e.SetFallDistance(1e12)
	e.SetAnimationFramesPerSecond(100)

	run, err := e.ApplyOn(context.Background(), "label")
	if err != nil {
		t.Fatalf("ApplyOn() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = Drive(ctx, run)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Drive() error = %v, want ErrCancelled", err)
	}
	if got := host.cleanupsFor(run.Target()); got != 1 {
		t.Errorf("cleanup calls: got %d, want 1", got)
	}
}
