package ffmpeg

import (
	"strings"
	"testing"
)

func TestParseALSADevice(t *testing.T) {
	var tests = []struct {
		in, want string
		fail     bool
	}{
		{in: "00-01", want: "hw:0,1"},
		{in: "01-00", want: "hw:1,0"},
		{in: "10-12", want: "hw:10,12"},
		{in: "02", want: "hw:2"},
		{in: "0-1-2", fail: true},
		{in: "", fail: true},
	}

	for _, tt := range tests {
		got, err := ParseALSADevice(tt.in)
		if tt.fail {
			if err == nil {
				t.Errorf("%q: expected error, got %q", tt.in, got)
			}
			continue
		}

		if err != nil || string(got) != tt.want {
			t.Errorf("%q: got %q %v, want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestParsePCM(t *testing.T) {
	const pcm = "00-00: ALC892 Analog : ALC892 Analog : playback 1 : capture 1\n" +
		"01-03: HDMI 0 : HDMI 0 : playback 1\n"

	devices, err := parsePCM(strings.NewReader(pcm))
	if err != nil {
		t.Fatal(err)
	}

	if len(devices) != 2 || devices[0].String() != "hw:0,0" || devices[1].String() != "hw:1,3" {
		t.Fatalf("got %v", devices)
	}
}

func TestInputArgs(t *testing.T) {
	args := ALSADevice("hw:0,0").InputArgs()
	if strings.Join(args, " ") != "-f alsa -i hw:0,0" {
		t.Fatalf("got %v", args)
	}
}
