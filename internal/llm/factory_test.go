package llm

import "testing"

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(Config{Provider: ""})
	if err != nil {
		t.Fatal(err)
	}
	if p != nil {
		t.Errorf("provider = %v, want nil for disabled polish", p)
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "watson"}); err == nil {
		t.Error("no error for unknown provider")
	}
}

func TestNewProvider_OpenAIMissingKeyReturnsNilInterface(t *testing.T) {
	p, err := NewProvider(Config{Provider: "openai"})
	if err == nil {
		t.Fatal("no error without an API key")
	}
	// The interface value itself must be nil, not a typed nil pointer, so
	// callers gating on == nil never reach a nil receiver.
	if p != nil {
		t.Errorf("provider = %#v, want nil interface on the error path", p)
	}
}
