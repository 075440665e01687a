package pipewire

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

func pwLink(outPortID, inPortID pwObjectID) error {
	cmd := exec.Command("pw-link", "-L", fmt.Sprint(outPortID), fmt.Sprint(inPortID))
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.Stderr != nil {
			return errors.Wrapf(err, "failed to run pw-link: %s", exitErr.Stderr)
		}
		return err
	}
	return nil
}

type pwLinkObject struct {
	DeviceName string
	PortID     pwObjectID
	PortName   string // like capture_FL or monitor_AUX3
}

// pwLinkObjectParse parses "<id> <node>:<port>".
func pwLinkObjectParse(line string) (pwLinkObject, error) {
	var obj pwLinkObject

	idStr, portStr, ok := strings.Cut(line, " ")
	if !ok {
		return obj, errors.Errorf("failed to parse pw-link object %q", line)
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return obj, errors.Wrapf(err, "failed to parse pw-link object id %q", idStr)
	}

	name, port, ok := strings.Cut(portStr, ":")
	if !ok {
		return obj, errors.Errorf("failed to parse pw-link port string %q", portStr)
	}

	return pwLinkObject{
		PortID:     pwObjectID(id),
		DeviceName: name,
		PortName:   port,
	}, nil
}

type pwLinkType string

const (
	pwLinkInputPorts  pwLinkType = "i"
	pwLinkOutputPorts pwLinkType = "o"
)

type pwLinkEvent interface {
	pwLinkEvent()
}

type pwLinkAdd pwLinkObject
type pwLinkRemove pwLinkObject

func (pwLinkAdd) pwLinkEvent()    {}
func (pwLinkRemove) pwLinkEvent() {}

// parseLinkEvent parses one line of pw-link monitor output.
func parseLinkEvent(line string) (pwLinkEvent, bool) {
	if line == "" {
		return nil, false
	}

	mark := line[0]

	obj, err := pwLinkObjectParse(strings.TrimSpace(line[1:]))
	if err != nil {
		return nil, false
	}

	switch mark {
	case '=', '+':
		return pwLinkAdd(obj), true
	case '-':
		return pwLinkRemove(obj), true
	}

	return nil, false
}

func pwLinkMonitor(ctx context.Context, typ pwLinkType, ch chan<- pwLinkEvent) error {
	cmd := exec.CommandContext(ctx, "pw-link", "-mI"+string(typ))
	cmd.Stderr = os.Stderr

	o, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "failed to get stdout pipe")
	}
	defer o.Close()

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "pw-link -m")
	}

	scanner := bufio.NewScanner(o)
	for scanner.Scan() {
		ev, ok := parseLinkEvent(scanner.Text())
		if !ok {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch <- ev:
		}
	}

	return errors.Wrap(cmd.Wait(), "pw-link exited")
}
