package pipewire

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

type pwObjects []pwObject

func pwDump(ctx context.Context) (pwObjects, error) {
	cmd := exec.CommandContext(ctx, "pw-dump")
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		var execErr *exec.ExitError
		if errors.As(err, &execErr) {
			return nil, errors.Wrapf(err, "failed to run pw-dump: %s", execErr.Stderr)
		}
		return nil, errors.Wrap(err, "failed to run pw-dump")
	}

	return parseDump(out)
}

func parseDump(data []byte) (pwObjects, error) {
	var dump pwObjects
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, errors.Wrap(err, "failed to parse pw-dump output")
	}

	return dump, nil
}

// Filter returns the objects that satisfy every fn.
func (d pwObjects) Filter(fns ...func(pwObject) bool) pwObjects {
	filtered := make(pwObjects, 0, len(d))
loop:
	for _, obj := range d {
		for _, f := range fns {
			if !f(obj) {
				continue loop
			}
		}
		filtered = append(filtered, obj)
	}
	return filtered
}

// Find returns the first object that satisfies f.
func (d pwObjects) Find(f func(pwObject) bool) *pwObject {
	for i := range d {
		if f(d[i]) {
			return &d[i]
		}
	}
	return nil
}

// ResolvePorts returns the ports of object in the given direction.
func (d pwObjects) ResolvePorts(object *pwObject, dir pwPortDirection) pwObjects {
	return d.Filter(
		func(o pwObject) bool { return o.Type == pwInterfacePort },
		func(o pwObject) bool {
			return o.Info.Props.NodeID == object.ID && o.Info.Props.PortDirection == dir
		},
	)
}

// Capturable returns the nodes a session can record from.
func (d pwObjects) Capturable() pwObjects {
	return d.Filter(func(o pwObject) bool {
		if o.Type != pwInterfaceNode {
			return false
		}

		switch o.Info.Props.MediaClass {
		case pwAudioSource, pwAudioSink, pwStreamOutputAudio:
			return true
		}

		return false
	})
}

type pwObjectID int64

type pwObjectType string

const (
	pwInterfaceNode pwObjectType = "PipeWire:Interface:Node"
	pwInterfacePort pwObjectType = "PipeWire:Interface:Port"
)

type pwObject struct {
	ID   pwObjectID   `json:"id"`
	Type pwObjectType `json:"type"`
	Info struct {
		Props pwInfoProps `json:"props"`
	} `json:"info"`
}

type pwInfoProps struct {
	pwNodeProps
	pwPortProps
	MediaClass string `json:"media.class"`

	JSON json.RawMessage `json:"-"`
}

func (p *pwInfoProps) UnmarshalJSON(data []byte) error {
	type Alias pwInfoProps
	if err := json.Unmarshal(data, (*Alias)(p)); err != nil {
		return err
	}
	p.JSON = append([]byte(nil), data...)
	return nil
}

type pwNodeProps struct {
	NodeName        string `json:"node.name"`
	NodeDescription string `json:"node.description"`
}

// media classes
const (
	pwAudioSource       = "Audio/Source"
	pwAudioSink         = "Audio/Sink"
	pwStreamOutputAudio = "Stream/Output/Audio"
)

type pwPortDirection string

const (
	pwPortIn  pwPortDirection = "in"
	pwPortOut pwPortDirection = "out"
)

type pwPortProps struct {
	PortName      string          `json:"port.name"`
	PortDirection pwPortDirection `json:"port.direction"`
	NodeID        pwObjectID      `json:"node.id"`
}
