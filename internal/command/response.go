package command

import (
	"github.com/chazuruo/launchdeck/internal/apps"
	"github.com/chazuruo/launchdeck/internal/resolver"
	"github.com/chazuruo/launchdeck/internal/sequencer"
)

// Kind identifies what a command did.
type Kind string

const (
	KindList        Kind = "list"
	KindHelp        Kind = "help"
	KindOpen        Kind = "open"
	KindClose       Kind = "close"
	KindWorkflow    Kind = "workflow"
	KindSuggestions Kind = "suggestions"
	KindNotFound    Kind = "not_found"
	KindChat        Kind = "chat"
)

// Response is the user-visible result of a command.
type Response struct {
	Kind Kind
	Text string

	// App is the resolved app for open and close.
	App *apps.AppRecord

	// Suggestions holds near misses when nothing matched.
	Suggestions []resolver.Suggestion

	// Outcome is set after a workflow run, including a failed one.
	Outcome *sequencer.Outcome

	// Err is a miss or failure already rendered into Text. Handle only
	// returns errors for conditions the caller must act on.
	Err error
}

// Failed reports whether the command did not achieve what was asked.
func (r Response) Failed() bool {
	return r.Err != nil
}
