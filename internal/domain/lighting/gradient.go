package lighting

import (
	"github.com/okian/lightshow/internal/domain/color"
	"github.com/okian/lightshow/internal/domain/easing"
	"github.com/okian/lightshow/internal/domain/model"
)

// TaskState is the lifecycle state of a GradientTask.
type TaskState int

const (
	TaskRunning TaskState = iota
	TaskCompleted
	TaskCancelled
)

func (s TaskState) String() string {
	switch s {
	case TaskRunning:
		return "running"
	case TaskCompleted:
		return "completed"
	case TaskCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// GradientTask interpolates a group's override color over a beat range.
// It is advanced by the engine once per tick and never by wall time.
type GradientTask struct {
	eventType  int
	start      float64
	duration   float64
	from, to   color.Color
	easingName string
	ease       easing.Func
	state      TaskState
}

// Step is the outcome of one Advance call.
type Step struct {
	State TaskState
	Color color.Color
	Push  bool // the color should be stored and sent to the lights
}

// NewGradientTask builds a running task from an event carrying a gradient.
// The second return is false when the event has none.
func NewGradientTask(ev model.Event) (*GradientTask, bool) {
	if !ev.HasGradient() {
		return nil, false
	}
	gr := ev.Custom.Gradient
	return &GradientTask{
		eventType:  ev.Type,
		start:      ev.Time,
		duration:   gr.Duration,
		from:       gr.Start,
		to:         gr.End,
		easingName: gr.Easing,
		ease:       easing.Resolve(gr.Easing),
		state:      TaskRunning,
	}, true
}

// Advance moves the task to beat. Completion always pushes the end color;
// intermediate colors are withheld while another type is soloed.
func (t *GradientTask) Advance(beat float64, mods Modifiers) Step {
	if t.state != TaskRunning {
		return Step{State: t.state}
	}

	progress := t.Progress(beat)
	if progress >= 1 {
		t.state = TaskCompleted
		return Step{State: TaskCompleted, Color: t.to, Push: true}
	}

	c := color.Lerp(t.from, t.to, t.ease(progress))
	return Step{
		State: TaskRunning,
		Color: c,
		Push:  !mods.SoloActive || t.eventType == mods.SoloType,
	}
}

// Cancel stops a running task. It reports whether the task was running.
func (t *GradientTask) Cancel() bool {
	if t.state != TaskRunning {
		return false
	}
	t.state = TaskCancelled
	return true
}

// Progress is the linear position of beat within the gradient.
func (t *GradientTask) Progress(beat float64) float64 {
	return (beat - t.start) / t.duration
}

// Expired reports whether beat is at or past the gradient end.
func (t *GradientTask) Expired(beat float64) bool {
	return beat >= t.start+t.duration
}

func (t *GradientTask) State() TaskState  { return t.state }
func (t *GradientTask) Start() float64    { return t.start }
func (t *GradientTask) Duration() float64 { return t.duration }
func (t *GradientTask) Easing() string    { return t.easingName }
func (t *GradientTask) From() color.Color { return t.from }
func (t *GradientTask) To() color.Color   { return t.to }
