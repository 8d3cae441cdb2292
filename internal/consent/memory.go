package consent

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Choice is the global decision applied to packages that need confirmation.
type Choice int

const (
	// ChoiceAskEach prompts for every package on every run.
	ChoiceAskEach Choice = iota
	// ChoiceInstallAll installs every package without asking.
	ChoiceInstallAll
	// ChoiceSkipAll skips every package without asking.
	ChoiceSkipAll
)

// Tokens stored for each choice.
const (
	TokenInstallAll = "y"
	TokenSkipAll    = "n"
	TokenAskEach    = "m"
)

// ParseChoice maps a stored token to a Choice. Only "y" and "n" (any case,
// surrounding whitespace ignored) are decisive; anything else asks each time.
func ParseChoice(token string) Choice {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case TokenInstallAll:
		return ChoiceInstallAll
	case TokenSkipAll:
		return ChoiceSkipAll
	default:
		return ChoiceAskEach
	}
}

func (c Choice) String() string {
	switch c {
	case ChoiceInstallAll:
		return "install-all"
	case ChoiceSkipAll:
		return "skip-all"
	default:
		return "ask-each"
	}
}

// Memory resolves the remembered global answer.
type Memory struct {
	Store Store
	// AnswerEnv names an environment variable whose non-empty value is used
	// as the answer without being stored.
	AnswerEnv string
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
	Logger *log.Logger
}

// NewMemory returns a Memory over store honoring answerEnv.
func NewMemory(store Store, answerEnv string, logger *log.Logger) *Memory {
	return &Memory{Store: store, AnswerEnv: answerEnv, Logger: logger}
}

// ReadChoice returns the answer token. Resolution order: the environment
// override (verbatim, never stored), the stored token, then ask. An asked
// answer is lower-cased and stored. When ask fails the answer is "y" and
// nothing is stored.
func (m *Memory) ReadChoice(ask func() (string, error)) string {
	if v := m.envAnswer(); v != "" {
		m.logger().Debug("using answer from environment", "env", m.AnswerEnv)
		return v
	}

	if m.Store != nil {
		token, ok, err := m.Store.Get()
		if err != nil {
			m.logger().Debug("remembered choice unreadable", "error", err)
		} else if ok {
			return token
		}
	}

	answer, err := ask()
	if err != nil {
		m.logger().Warn("prompt failed, installing all packages", "error", err)
		return TokenInstallAll
	}

	answer = strings.ToLower(answer)
	m.WriteChoice(answer)
	return answer
}

// WriteChoice stores token. Storage failures are logged, not returned; the
// user is simply asked again next run.
func (m *Memory) WriteChoice(token string) {
	if m.Store == nil {
		return
	}
	if err := m.Store.Set(token); err != nil {
		m.logger().Warn("could not remember choice", "error", err)
	}
}

// Reset forgets the stored token.
func (m *Memory) Reset() error {
	if m.Store == nil {
		return nil
	}
	return m.Store.Clear()
}

func (m *Memory) envAnswer() string {
	if m.AnswerEnv == "" {
		return ""
	}
	getenv := m.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return getenv(m.AnswerEnv)
}

func (m *Memory) logger() *log.Logger {
	if m.Logger == nil {
		return log.New(io.Discard)
	}
	return m.Logger
}
