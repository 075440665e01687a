package ffmpeg

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/noriah/catscope/input"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("ffmpeg-alsa", ALSA{})
}

type ALSA struct{}

func (p ALSA) Init() error {
	return nil
}

func (p ALSA) Close() error {
	return nil
}

func (p ALSA) Devices() ([]input.Device, error) {
	f, err := os.Open("/proc/asound/pcm")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open pcm")
	}
	defer f.Close()

	return parsePCM(f)
}

func (p ALSA) DefaultDevice() (input.Device, error) {
	return ALSADevice("default"), nil
}

func (p ALSA) Open(cfg input.SessionConfig) (input.Source, error) {
	dv, ok := cfg.Device.(ALSADevice)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	return NewSession(dv, cfg)
}

// parsePCM reads the device list in the format of /proc/asound/pcm.
func parsePCM(r io.Reader) ([]input.Device, error) {
	var devices []input.Device

	var scanner = bufio.NewScanner(r)
	for scanner.Scan() {
		prefix, _, _ := strings.Cut(scanner.Text(), ":")
		if prefix == "" {
			continue
		}

		d, err := ParseALSADevice(prefix)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse device %q", prefix)
		}

		devices = append(devices, d)
	}

	return devices, errors.Wrap(scanner.Err(), "failed to read pcm")
}

// ALSADevice is an ALSA hardware name such as hw:0,1.
type ALSADevice string

// ParseALSADevice parses the card-device prefix of a pcm line ("00-01").
func ParseALSADevice(hwString string) (ALSADevice, error) {
	card, dev, hasDev := strings.Cut(hwString, "-")
	if card == "" || strings.Contains(dev, "-") {
		return "", errors.New("mismatch alsa format")
	}

	trim := func(part string) string {
		if part = strings.TrimLeft(part, "0"); part == "" {
			return "0"
		}
		return part
	}

	alsadv := "hw:" + trim(card)
	if hasDev {
		alsadv += "," + trim(dev)
	}

	return ALSADevice(alsadv), nil
}

func (d ALSADevice) InputArgs() []string {
	return []string{"-f", "alsa", "-i", string(d)}
}

func (d ALSADevice) String() string {
	return string(d)
}
