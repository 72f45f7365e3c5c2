package systems

import (
	"context"
	"errors"
	"testing"

	"github.com/decker502/dropfx/pkg/components"
	"github.com/decker502/dropfx/pkg/config"
	"github.com/decker502/dropfx/pkg/ecs"
	"github.com/decker502/dropfx/pkg/effects"
)

// runSystemToEnd 以 50ms 一帧推进，直到没有活动运行
func runSystemToEnd(t *testing.T, em *ecs.EntityManager, system *DropEffectSystem) int {
	t.Helper()
	frames := 0
	for system.Active() > 0 {
		system.Update(0.05)
		em.RemoveMarkedEntities()
		frames++
		if frames > 10000 {
			t.Fatal("drop effects did not finish")
		}
	}
	em.RemoveMarkedEntities()
	return frames
}

func TestDropEffectSystemSpeedyDrop(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewDropEffectSystem(context.Background(), em, 600, nil)
	source := createTestSource(em, 10, 100)

	run, err := system.SpeedyDrop(source)
	if err != nil {
		t.Fatalf("SpeedyDrop() error: %v", err)
	}

	// 第一步同步执行，克隆已经存在
	clone := run.Target().(ecs.EntityID)
	if !ecs.HasComponent[*components.DropCloneComponent](em, clone) {
		t.Fatal("clone should exist after start")
	}
	if system.Active() != 1 {
		t.Errorf("Active: got %d, want 1", system.Active())
	}

	runSystemToEnd(t, em, system)

	// 行程上限 600-100=500，第 49 步映射距离 100+411 越过上限
	if run.Reason() != effects.ReasonReachedLimit {
		t.Errorf("Reason: got %v, want reached limit", run.Reason())
	}
	if run.Steps() != 49 {
		t.Errorf("Steps: got %d, want 49", run.Steps())
	}
	if em.EntityExists(clone) {
		t.Error("clone should be removed after the run")
	}
	if em.EntityCount() != 1 {
		t.Errorf("EntityCount: got %d, want 1 (source only)", em.EntityCount())
	}
}

func TestDropEffectSystemEqualDrop(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewDropEffectSystem(context.Background(), em, 600, nil)
	source := createTestSource(em, 10, 100)

	run, err := system.EqualDrop(source)
	if err != nil {
		t.Fatalf("EqualDrop() error: %v", err)
	}
	clone := run.Target().(ecs.EntityID)

	system.Update(0.05)
	pos, _ := ecs.GetComponent[*components.PositionComponent](em, clone)
	opacity, _ := ecs.GetComponent[*components.OpacityComponent](em, clone)
	if pos.Y < 100 {
		t.Errorf("clone Y: got %v, want >= 100", pos.Y)
	}
	if opacity.Alpha > 1 || opacity.Alpha <= 0 {
		t.Errorf("clone alpha: got %v, want within (0, 1]", opacity.Alpha)
	}

	runSystemToEnd(t, em, system)
	if run.Reason() != effects.ReasonReachedLimit {
		t.Errorf("Reason: got %v, want reached limit", run.Reason())
	}
}

func TestDropEffectSystemTrigger(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewDropEffectSystem(context.Background(), em, 600, config.DefaultDropEffectsConfig())

	names := system.PresetNames()
	if len(names) == 0 {
		t.Fatal("PresetNames should not be empty")
	}

	for _, name := range names {
		source := createTestSource(em, 0, 100)
		if _, err := system.Trigger(name, source); err != nil {
			t.Fatalf("Trigger(%s) error: %v", name, err)
		}
	}
	runSystemToEnd(t, em, system)

	if em.EntityCount() != len(names) {
		t.Errorf("EntityCount: got %d, want %d sources", em.EntityCount(), len(names))
	}
}

func TestDropEffectSystemErrors(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewDropEffectSystem(context.Background(), em, 600, nil)
	source := createTestSource(em, 0, 100)

	if _, err := system.Trigger("noSuchPreset", source); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("Trigger() error = %v, want ErrUnknownPreset", err)
	}

	orphan := em.CreateEntity()
	if _, err := system.SpeedyDrop(orphan); !errors.Is(err, ErrMissingPosition) {
		t.Errorf("SpeedyDrop() error = %v, want ErrMissingPosition", err)
	}

	// 元素在视口下方，行程上限非正
	below := createTestSource(em, 0, 700)
	if _, err := system.EqualDrop(below); !errors.Is(err, effects.ErrInvalidTravelLimit) {
		t.Errorf("EqualDrop() error = %v, want ErrInvalidTravelLimit", err)
	}

	if system.Active() != 0 {
		t.Errorf("Active: got %d, want 0", system.Active())
	}
}

func TestDropEffectSystemCancelAll(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewDropEffectSystem(context.Background(), em, 600, nil)

	for i := 0; i < 3; i++ {
		if _, err := system.SpeedyDrop(createTestSource(em, float64(i*50), 100)); err != nil {
			t.Fatalf("SpeedyDrop() error: %v", err)
		}
	}
	if em.EntityCount() != 6 {
		t.Fatalf("EntityCount: got %d, want 6", em.EntityCount())
	}

	system.CancelAll()
	em.RemoveMarkedEntities()

	if system.Active() != 0 {
		t.Errorf("Active after CancelAll: got %d, want 0", system.Active())
	}
	if em.EntityCount() != 3 {
		t.Errorf("EntityCount after CancelAll: got %d, want 3", em.EntityCount())
	}

	// 非正的帧间隔不推进
	system.Update(0)
	system.Update(-1)
}

func TestDropEffectSystemContextCancelled(t *testing.T) {
	em := ecs.NewEntityManager()
	ctx, cancel := context.WithCancel(context.Background())
	system := NewDropEffectSystem(ctx, em, 600, nil)

	run, err := system.SpeedyDrop(createTestSource(em, 0, 100))
	if err != nil {
		t.Fatalf("SpeedyDrop() error: %v", err)
	}

	cancel()
	runSystemToEnd(t, em, system)

	if !errors.Is(run.Err(), effects.ErrCancelled) {
		t.Errorf("run error = %v, want ErrCancelled", run.Err())
	}
	if em.EntityCount() != 1 {
		t.Errorf("EntityCount: got %d, want 1", em.EntityCount())
	}
}
