package sequencer

import (
	"fmt"
	"io"
	"time"
)

// EventKind identifies a sequencer event.
type EventKind int

const (
	EventStepStarted EventKind = iota
	EventStepLaunched
	EventStepFailed
	EventWaiting
	EventCanceled
	EventFinished
)

// Event reports progress through a workflow run.
type Event struct {
	Kind  EventKind
	Step  int // zero-based
	Total int
	Name  string
	App   string
	Delay time.Duration
	Err   error
}

// Observer receives events while a workflow runs.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// OnEvent calls f(e).
func (f ObserverFunc) OnEvent(e Event) { f(e) }

// ProgressPrinter writes one line per event. Total overrides the step
// count carried by events when set.
type ProgressPrinter struct {
	W     io.Writer
	Total int
}

func (p *ProgressPrinter) total(e Event) int {
	if p.Total > 0 {
		return p.Total
	}
	return e.Total
}

// OnEvent prints e.
func (p *ProgressPrinter) OnEvent(e Event) {
	switch e.Kind {
	case EventStepStarted:
		fmt.Fprintf(p.W, "[%d/%d] Opening %s\n", e.Step+1, p.total(e), e.App)
	case EventStepFailed:
		fmt.Fprintf(p.W, "[%d/%d] Failed: %v\n", e.Step+1, p.total(e), e.Err)
	case EventWaiting:
		if e.Delay > 0 {
			fmt.Fprintf(p.W, "      waiting %s\n", e.Delay)
		}
	case EventCanceled:
		fmt.Fprintf(p.W, "Canceled before step %d\n", e.Step+1)
	}
}
