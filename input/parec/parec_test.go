package parec

import (
	"testing"

	"github.com/noriah/catscope/input"
)

type otherDevice struct{}

func (otherDevice) String() string { return "other" }

func TestNewSessionChecksDevice(t *testing.T) {
	_, err := NewSession(input.SessionConfig{
		Device:       otherDevice{},
		ChannelCount: 2,
		SampleRate:   48000,
	})
	if err == nil {
		t.Fatal("expected error for foreign device")
	}

	_, err = NewSession(input.SessionConfig{
		Device:       PulseDevice("default"),
		ChannelCount: 0,
		SampleRate:   48000,
	})
	if err == nil {
		t.Fatal("expected error for zero channels")
	}

	s, err := NewSession(input.SessionConfig{
		Device:       PulseDevice("default"),
		ChannelCount: 2,
		SampleRate:   48000,
	})
	if err != nil || s == nil {
		t.Fatalf("NewSession: %v", err)
	}
}

func TestRegistered(t *testing.T) {
	if !input.HasBackend("parec") {
		t.Fatal("parec backend not registered")
	}
}
