package status

import "strings"

// State is the lifecycle of one action's status line.
type State int

const (
	Idle State = iota
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Action names a status line, typically one per form or view.
type Action string

// Line is what a status area shows for one action.
type Line struct {
	State    State
	Text     string
	Warning  string
	Details  []string
	InFlight int
}

// Tracker keeps one Line per Action. It is owned by the UI update loop.
type Tracker struct {
	lines map[Action]Line
}

// Line returns the current line for action, Idle when never started.
func (t *Tracker) Line(action Action) Line {
	if t.lines == nil {
		return Line{}
	}
	return t.lines[action]
}

// Start moves action to Running. Overlapping invocations each pass through
// Running; they are counted, not merged.
func (t *Tracker) Start(action Action, text string) {
	line := t.Line(action)
	line.State = Running
	line.Text = text
	line.Warning = ""
	line.Details = nil
	line.InFlight++
	t.set(action, line)
}

// Succeed moves action to Succeeded. Warnings from secondary refreshes are
// shown next to the success text.
func (t *Tracker) Succeed(action Action, text string, warnings ...string) {
	line := t.finish(action)
	line.State = Succeeded
	line.Text = text
	line.Warning = strings.Join(warnings, "; ")
	t.set(action, line)
}

// Fail moves action to Failed with the projected message of err.
func (t *Tracker) Fail(action Action, err error, details ...string) {
	line := t.finish(action)
	line.State = Failed
	line.Text = Project(err)
	line.Details = append([]string(nil), details...)
	t.set(action, line)
}

// Partial records a batch that both succeeded and failed on some items. The
// line counts as Succeeded when anything went through.
func (t *Tracker) Partial(action Action, summary string, anySucceeded bool, details []string, warnings ...string) {
	line := t.finish(action)
	line.State = Failed
	if anySucceeded {
		line.State = Succeeded
	}
	line.Text = summary
	line.Details = append([]string(nil), details...)
	line.Warning = strings.Join(warnings, "; ")
	t.set(action, line)
}

// Reset returns action to Idle.
func (t *Tracker) Reset(action Action) {
	if t.lines != nil {
		delete(t.lines, action)
	}
}

// Busy reports whether any action has a call in flight.
func (t *Tracker) Busy() bool {
	for _, l := range t.lines {
		if l.InFlight > 0 {
			return true
		}
	}
	return false
}

func (t *Tracker) finish(action Action) Line {
	line := t.Line(action)
	if line.InFlight > 0 {
		line.InFlight--
	}
	line.Warning = ""
	line.Details = nil
	return line
}

func (t *Tracker) set(action Action, line Line) {
	if t.lines == nil {
		t.lines = make(map[Action]Line)
	}
	t.lines[action] = line
}
