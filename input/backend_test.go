package input

import (
	"testing"

	"github.com/pkg/errors"
)

type testDevice string

func (d testDevice) String() string { return string(d) }

type testBackend struct {
	inits int
	fail  bool
}

func (b *testBackend) Init() error {
	b.inits++
	if b.fail {
		return errors.New("no hardware")
	}
	return nil
}

func (b *testBackend) Close() error { return nil }

func (b *testBackend) Devices() ([]Device, error) {
	return []Device{testDevice("dev0"), testDevice("dev1")}, nil
}

func (b *testBackend) DefaultDevice() (Device, error) {
	return testDevice("dev0"), nil
}

func (b *testBackend) Open(SessionConfig) (Source, error) {
	return nil, nil
}

func withBackends(t *testing.T) {
	saved := Backends
	Backends = nil
	t.Cleanup(func() { Backends = saved })
}

func TestRegistry(t *testing.T) {
	withBackends(t)

	good := &testBackend{}
	RegisterBackend("good", good)
	RegisterBackend("bad", &testBackend{fail: true})

	if names := GetAllBackendNames(); len(names) != 2 || names[0] != "good" {
		t.Fatalf("names %v", names)
	}

	if !HasBackend("bad") || HasBackend("missing") {
		t.Fatal("HasBackend is wrong")
	}

	if _, err := InitBackend("missing"); err == nil {
		t.Fatal("expected error for missing backend")
	}

	if _, err := InitBackend("bad"); err == nil {
		t.Fatal("expected init error")
	}

	b, err := InitBackend("good")
	if err != nil || b != good || good.inits != 1 {
		t.Fatalf("InitBackend: %v %v %d", b, err, good.inits)
	}
}

func TestDefaultBackendFallsBackToSynth(t *testing.T) {
	withBackends(t)

	if DefaultBackend() != "" {
		t.Fatal("expected no default without backends")
	}

	RegisterBackend("other", &testBackend{})
	if DefaultBackend() != "other" {
		t.Fatal("expected first backend")
	}

	RegisterBackend("synth", &testBackend{})
	if DefaultBackend() == "other" {
		t.Fatal("synth should win over other backends")
	}
}

func TestGetDevice(t *testing.T) {
	b := &testBackend{}

	d, err := GetDevice(b, "")
	if err != nil || d.String() != "dev0" {
		t.Fatalf("default device %v %v", d, err)
	}

	d, err = GetDevice(b, "dev1")
	if err != nil || d.String() != "dev1" {
		t.Fatalf("named device %v %v", d, err)
	}

	if _, err = GetDevice(b, "dev9"); err == nil {
		t.Fatal("expected error for unknown device")
	}
}

func TestDeinterleave(t *testing.T) {
	dst := MakeChunks(2)
	dst = Deinterleave(dst, []float64{1, 10, 2, 20, 3})

	if len(dst[0]) != 2 || len(dst[1]) != 2 {
		t.Fatalf("got %v", dst)
	}

	if dst[0][1] != 2 || dst[1][1] != 20 {
		t.Fatalf("got %v", dst)
	}

	if out := Deinterleave(nil, []float64{1}); out != nil {
		t.Fatal("expected nil for no channels")
	}
}
