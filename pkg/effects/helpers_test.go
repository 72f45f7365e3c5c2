package effects

import (
	"errors"
	"fmt"
	"sync"
)

// recordingHost 记录所有回调的测试宿主
type recordingHost struct {
	mu sync.Mutex

	offset float64
	height float64
	top    float64
	topErr error

	prepareErr error
	stepErr    error
	failAtStep int
	panicAt    int

	clones           int
	steps            map[Target][]SimulationData
	cleanups         map[Target]int
	stepAfterCleanup bool
}

func newRecordingHost(offset float64) *recordingHost {
	return &recordingHost{
		offset:   offset,
		height:   600,
		steps:    make(map[Target][]SimulationData),
		cleanups: make(map[Target]int),
	}
}

func (h *recordingHost) Prepare(element Element) (Prepared, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.prepareErr != nil {
		return Prepared{}, h.prepareErr
	}
	h.clones++
	return Prepared{
		Target:        fmt.Sprintf("%v#%d", element, h.clones),
		InitialOffset: h.offset,
	}, nil
}

func (h *recordingHost) ApplyStep(target Target, data SimulationData) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cleanups[target] > 0 {
		h.stepAfterCleanup = true
	}
	if h.panicAt > 0 && data.Step == h.panicAt {
		panic("host exploded")
	}
	h.steps[target] = append(h.steps[target], data)
	if h.failAtStep > 0 && data.Step == h.failAtStep {
		return h.stepErr
	}
	return nil
}

func (h *recordingHost) Cleanup(target Target) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cleanups[target]++
	return nil
}

func (h *recordingHost) ViewportHeight() float64 {
	return h.height
}

func (h *recordingHost) ElementTop(element Element) (float64, error) {
	if h.topErr != nil {
		return 0, h.topErr
	}
	return h.top, nil
}

func (h *recordingHost) stepsFor(target Target) []SimulationData {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]SimulationData(nil), h.steps[target]...)
}

func (h *recordingHost) cleanupsFor(target Target) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cleanups[target]
}

func (h *recordingHost) totalCleanups() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	total := 0
	for _, n := range h.cleanups {
		total += n
	}
	return total
}

var errHostFailure = errors.New("host failure")

// runToEnd 推进直到结束，返回调用 AdvanceOneStep 的次数
func runToEnd(r *Run) int {
	calls := 0
	for {
		calls++
		if !r.AdvanceOneStep() {
			return calls
		}
		if calls > 100000 {
			panic("run did not terminate")
		}
	}
}
