package consent

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nodebridge-labs/nodebridge/internal/manifest"
)

// Prompter is the interactive side of the host.
type Prompter interface {
	// IsInteractive reports whether a human can answer prompts.
	IsInteractive() bool
	// Ask returns the raw answer to question.
	Ask(question string) (string, error)
	// AskConfirmation asks a yes/no question, returning def on an empty answer.
	AskConfirmation(question string, def bool) bool
}

// Negotiator filters requirements down to the packages the user approved.
type Negotiator struct {
	IO     Prompter
	Memory *Memory
	Logger *log.Logger
}

// NewNegotiator returns a Negotiator asking through prompter.
func NewNegotiator(prompter Prompter, memory *Memory, logger *log.Logger) *Negotiator {
	return &Negotiator{IO: prompter, Memory: memory, Logger: logger}
}

// Negotiate returns the requirements approved for installation. Packages not
// listed in confirm need no approval. In a non-interactive session every
// requirement is returned unchanged.
func (n *Negotiator) Negotiate(reqs *manifest.Requirements, confirm *manifest.Confirmations) *manifest.Requirements {
	if confirm.Len() == 0 || !n.IO.IsInteractive() {
		return reqs
	}

	choice := ParseChoice(n.Memory.ReadChoice(func() (string, error) {
		return n.IO.Ask(globalQuestion(confirm.Len()))
	}))
	n.logger().Debug("confirmation mode", "choice", choice)

	approved := make(map[string]bool, confirm.Len())
	for _, c := range confirm.Items() {
		switch choice {
		case ChoiceInstallAll:
			approved[c.Package] = true
		case ChoiceSkipAll:
			approved[c.Package] = false
		default:
			approved[c.Package] = n.IO.AskConfirmation(packageQuestion(c), true)
		}
	}

	return reqs.Filter(func(r manifest.Requirement) bool {
		ok, listed := approved[r.Name]
		return !listed || ok
	})
}

func (n *Negotiator) logger() *log.Logger {
	if n.Logger == nil {
		return log.New(io.Discard)
	}
	return n.Logger
}

func globalQuestion(count int) string {
	word := "package"
	if count > 1 {
		word = "packages"
	}
	return fmt.Sprintf("%d node %s can be optionally installed/updated.\n"+
		"  - Enter Y to install/update them automatically on install/update.\n"+
		"  - Enter N to ignore them and not asking again.\n"+
		"  - Enter M to manually decide for each package at each run. [Y/N/M] ", count, word)
}

func packageQuestion(c manifest.Confirmation) string {
	return fmt.Sprintf("The node package [%s] can be installed:\n%s\n"+
		"Would you like to install/update it? (if you're not sure, you can safely "+
		"press Y to get the package ready to use if you need it later) [Y/N] ", c.Package, c.Message)
}
