package hook

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nodebridge-labs/nodebridge/internal/bridge"
	"github.com/nodebridge-labs/nodebridge/internal/consent"
	"github.com/nodebridge-labs/nodebridge/internal/installer"
	"github.com/nodebridge-labs/nodebridge/internal/manifest"
	"github.com/nodebridge-labs/nodebridge/internal/runtime"
)

// IO is what the host exposes for output and prompting.
type IO interface {
	consent.Prompter
	Write(msg string)
	WriteError(msg string)
}

// Event carries what the host knows about the running install/update.
type Event struct {
	// VendorDir is where the host installed its dependencies.
	VendorDir string
	// Extra is the root package's extra block as decoded by the host. It
	// may be nil when the host does not expose it.
	Extra map[string]any
	IO    IO
}

// Deps are the collaborators Install uses.
type Deps struct {
	Settings   *bridge.Settings
	Aggregator *manifest.Aggregator
	Negotiator *consent.Negotiator
	Installer  *installer.Driver
	Logger     *log.Logger
}

// NewDeps wires the default collaborators for settings.
func NewDeps(settings *bridge.Settings, event *Event, logger *log.Logger) *Deps {
	memory := consent.NewMemory(consent.NewFileStore(settings.ChoiceFile), settings.AnswerEnv, logger)
	return &Deps{
		Settings:   settings,
		Aggregator: manifest.NewAggregator(settings.ManifestFile, logger),
		Negotiator: consent.NewNegotiator(event.IO, memory, logger),
		Installer:  installer.New(settings, &runtime.ExecRunner{}, logger),
		Logger:     logger,
	}
}

// Install aggregates, negotiates and installs the npm requirements of the
// dependency tree. Installer failure is reported through event.IO and is not
// returned as an error.
func Install(ctx context.Context, event *Event, deps *Deps) {
	settings := deps.Settings
	out := event.IO

	reqs := requirements(event, deps)
	if reqs.Len() == 0 {
		if _, declared := event.Extra[settings.ManifestKey]; declared {
			out.Write("No packages found.")
		} else {
			out.Write(fmt.Sprintf("Warning: in order to use nodebridge, you should add a '%s' setting in the extra section of your %s",
				settings.ManifestKey, settings.ManifestFile))
		}
		return
	}

	reqs = deps.Negotiator.Negotiate(reqs, confirmations(event, deps))
	if reqs.Len() == 0 {
		deps.logger().Debug("every package was declined")
		return
	}

	ok := deps.Installer.Install(ctx, reqs, func(spec string) {
		out.Write("Package added to be installed/updated with npm: " + spec)
	})
	if ok {
		out.Write("Packages installed.")
		return
	}
	out.WriteError(fmt.Sprintf("Installation failed after %d tries.", settings.Retries()))
}

// requirements gathers requirement blocks from the tree and then from the
// root extra block handed over by the host, which wins on conflicts. The
// host's block matters when its vendor directory is not directly under the
// project root.
func requirements(event *Event, deps *Deps) *manifest.Requirements {
	key := deps.Settings.ManifestKey
	reqs := deps.Aggregator.Aggregate(event.VendorDir, key)

	raw, ok := event.Extra[key]
	if !ok {
		return reqs
	}
	fromHost, err := manifest.ParseValue(raw)
	if err != nil {
		deps.logger().Warn("ignoring root requirement block", "key", key, "error", err)
		return reqs
	}
	reqs.Merge(fromHost)
	return reqs
}

// confirmations gathers confirmation blocks from the tree and then from the
// root extra block handed over by the host.
func confirmations(event *Event, deps *Deps) *manifest.Confirmations {
	confirm := deps.Aggregator.AggregateConfirmations(event.VendorDir, deps.Settings.ConfirmKey)

	raw, ok := event.Extra[deps.Settings.ConfirmKey]
	if !ok {
		return confirm
	}
	fromHost, err := manifest.ParseConfirmationValue(raw)
	if err != nil {
		deps.logger().Warn("ignoring root confirmation block", "key", deps.Settings.ConfirmKey, "error", err)
		return confirm
	}
	confirm.Merge(fromHost)
	return confirm
}

func (d *Deps) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard)
	}
	return d.Logger
}
