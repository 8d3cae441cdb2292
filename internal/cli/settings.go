package cli

import (
	"github.com/nodebridge-labs/nodebridge/internal/bridge"
	"github.com/nodebridge-labs/nodebridge/internal/config"
	"github.com/nodebridge-labs/nodebridge/internal/consent"
	"github.com/nodebridge-labs/nodebridge/internal/runtime"
)

// settingsFromConfig is swapped in tests.
var settingsFromConfig = config.Settings

func newNodeRuntime(settings *bridge.Settings) *runtime.NodeRuntime {
	return runtime.NewNodeRuntime(settings, logger)
}

func newMemory(settings *bridge.Settings) *consent.Memory {
	return consent.NewMemory(consent.NewFileStore(settings.ChoiceFile), settings.AnswerEnv, logger)
}
