package consent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const answerEnv = "NODEBRIDGE_ANSWER"

func TestParseChoice(t *testing.T) {
	tests := []struct {
		token string
		want  Choice
	}{
		{"y", ChoiceInstallAll},
		{"Y", ChoiceInstallAll},
		{"y\n", ChoiceInstallAll},
		{"n", ChoiceSkipAll},
		{"N", ChoiceSkipAll},
		{"m", ChoiceAskEach},
		{"", ChoiceAskEach},
		{"yes", ChoiceAskEach},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseChoice(tt.token), "ParseChoice(%q)", tt.token)
	}
}

func TestReadChoice_EnvOverrideWinsAndIsNotStored(t *testing.T) {
	t.Setenv(answerEnv, "N")
	store := &MemoryStore{}
	require.NoError(t, store.Set("y"))

	m := NewMemory(store, answerEnv, nil)
	got := m.ReadChoice(func() (string, error) {
		t.Fatal("prompt must not be called when the environment answers")
		return "", nil
	})

	assert.Equal(t, "N", got, "env value is returned verbatim")
	token, _, _ := store.Get()
	assert.Equal(t, "y", token, "stored token must be untouched")
}

func TestReadChoice_EnvOverrideDoesNotCreateStore(t *testing.T) {
	t.Setenv(answerEnv, "m")
	store := &MemoryStore{}

	NewMemory(store, answerEnv, nil).ReadChoice(func() (string, error) { return "y", nil })

	_, ok, _ := store.Get()
	assert.False(t, ok)
}

func TestReadChoice_EmptyEnvIgnored(t *testing.T) {
	t.Setenv(answerEnv, "")
	store := &MemoryStore{}
	require.NoError(t, store.Set("n"))

	got := NewMemory(store, answerEnv, nil).ReadChoice(func() (string, error) {
		t.Fatal("prompt must not be called when a choice is stored")
		return "", nil
	})
	assert.Equal(t, "n", got)
}

func TestReadChoice_PromptsAndStoresLowerCase(t *testing.T) {
	t.Setenv(answerEnv, "")
	store := &MemoryStore{}
	m := NewMemory(store, answerEnv, nil)

	calls := 0
	ask := func() (string, error) {
		calls++
		return "M", nil
	}

	assert.Equal(t, "m", m.ReadChoice(ask))
	assert.Equal(t, "m", m.ReadChoice(ask))
	assert.Equal(t, 1, calls, "second read must come from the store")
}

func TestReadChoice_PromptErrorDefaultsToInstallAll(t *testing.T) {
	t.Setenv(answerEnv, "")
	store := &MemoryStore{}

	got := NewMemory(store, answerEnv, nil).ReadChoice(func() (string, error) {
		return "", errors.New("stdin closed")
	})

	assert.Equal(t, TokenInstallAll, got)
	_, ok, _ := store.Get()
	assert.False(t, ok, "a failed prompt must not be remembered")
}

func TestReset(t *testing.T) {
	store := &MemoryStore{}
	m := NewMemory(store, "", nil)
	m.WriteChoice("y")

	require.NoError(t, m.Reset())

	_, ok, _ := store.Get()
	assert.False(t, ok)
}

func TestReadChoice_InjectedGetenv(t *testing.T) {
	m := &Memory{
		Store:     &MemoryStore{},
		AnswerEnv: "ANY",
		Getenv:    func(string) string { return "y" },
	}
	assert.Equal(t, "y", m.ReadChoice(func() (string, error) { return "n", nil }))
}
