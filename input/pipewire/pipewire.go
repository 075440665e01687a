// Package pipewire records from a PipeWire node through pw-cat.
package pipewire

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/noriah/catscope/input"
	"github.com/noriah/catscope/input/common/execread"
	"github.com/pkg/errors"
)

// AutoDevice lets the session manager pick the node.
const AutoDevice = "auto"

func init() {
	input.RegisterBackend("pipewire", Backend{})
}

type Backend struct{}

func (p Backend) Init() error {
	return nil
}

func (p Backend) Close() error {
	return nil
}

func (p Backend) Devices() ([]input.Device, error) {
	objs, err := pwDump(context.Background())
	if err != nil {
		return nil, err
	}

	nodes := objs.Capturable()

	devices := make([]input.Device, len(nodes))
	for i, node := range nodes {
		devices[i] = AudioDevice{node.Info.Props.NodeName}
	}

	return devices, nil
}

func (p Backend) DefaultDevice() (input.Device, error) {
	return AudioDevice{AutoDevice}, nil
}

func (p Backend) Open(cfg input.SessionConfig) (input.Source, error) {
	return NewSession(cfg)
}

type AudioDevice struct {
	name string
}

func (d AudioDevice) String() string {
	return d.name
}

// sessionProps tag our pw-cat node so its ports can be found again.
type sessionProps struct {
	ApplicationName string `json:"application.name"`
	SessionID       string `json:"catscope.id"`
}

// Session is a PipeWire recording.
type Session struct {
	session    *execread.Session
	props      sessionProps
	targetName string

	cancel context.CancelFunc
	relink sync.WaitGroup

	mu      sync.Mutex
	linkErr error
}

// NewSession creates a new PipeWire session.
func NewSession(cfg input.SessionConfig) (*Session, error) {
	dv, ok := cfg.Device.(AudioDevice)
	if !ok {
		return nil, fmt.Errorf("invalid device type %T", cfg.Device)
	}

	props := sessionProps{
		ApplicationName: "catscope",
		SessionID:       generateID(),
	}

	propsJSON, err := json.Marshal(props)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal props")
	}

	// a named node is linked by hand, see startRelinker
	target := "0"
	if dv.name == AutoDevice {
		target = dv.name
	}

	latency := int(cfg.SampleRate / execread.ReadsPerSecond)
	if latency < 1 {
		latency = 1
	}

	args := []string{
		"pw-cat",
		"--record",
		"--format", "f32",
		"--rate", fmt.Sprint(cfg.SampleRate),
		"--latency", fmt.Sprint(latency),
		"--channels", fmt.Sprint(cfg.ChannelCount),
		"--target", target,
		"--quality", "0",
		"--media-category", "Capture",
		"--media-role", "DSP",
		"--properties", string(propsJSON),
	}

	// pw-cat 1.4.0 wants --raw to write to stdout
	useRawArg, err := checkNeedRawArg()
	if err != nil {
		return nil, errors.Wrap(err, "failed to check need of pipewire '--raw' arg")
	}

	if useRawArg {
		args = append(args, "--raw")
	}

	args = append(args, "-")

	return &Session{
		session:    execread.NewSession(args, true, cfg),
		props:      props,
		targetName: dv.name,
	}, nil
}

func (s *Session) Start() error {
	if s.cancel != nil {
		return nil
	}

	if err := s.session.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.setLinkErr(nil)

	if s.targetName == AutoDevice {
		return nil
	}

	s.relink.Add(1)
	go func() {
		defer s.relink.Done()

		err := s.startRelinker(ctx)
		if err != nil && ctx.Err() == nil {
			s.setLinkErr(err)
		}
	}()

	return nil
}

func (s *Session) Stop() error {
	if s.cancel == nil {
		return nil
	}

	s.cancel()
	s.cancel = nil

	err := s.session.Stop()
	s.relink.Wait()

	return err
}

// ReadSamples returns what pw-cat recorded. A failed relinker faults the
// session since nothing would reach it anymore.
func (s *Session) ReadSamples() ([][]float64, error) {
	chunks, err := s.session.ReadSamples()
	if err != nil {
		return chunks, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return chunks, s.linkErr
}

func (s *Session) setLinkErr(err error) {
	s.mu.Lock()
	s.linkErr = err
	s.mu.Unlock()
}

// The session manager does not honor a target node for pw-cat reliably, so we
// link the node's output ports to ours as they appear.
func (s *Session) startRelinker(ctx context.Context) error {
	var ourPorts map[string]pwObjectID
	var err error

	// our ports show up some time after pw-cat starts
	for i := 0; i < 20; i++ {
		ourPorts, err = findSessionPorts(ctx, s.props)
		if err == nil {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	if err != nil {
		return errors.Wrap(err, "failed to find our input ports")
	}

	linkEvents := make(chan pwLinkEvent)
	linkError := make(chan error, 1)
	go func() { linkError <- pwLinkMonitor(ctx, pwLinkOutputPorts, linkEvents) }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-linkError:
			return err
		case event := <-linkEvents:
			add, ok := event.(pwLinkAdd)
			if !ok || add.DeviceName != s.targetName {
				break
			}

			port, ok := matchPort(add, ourPorts)
			if !ok {
				log.Printf("pipewire: port %s (%d) has no match in %v",
					add.PortName, add.PortID, ourPorts)
				break
			}

			if err := pwLink(add.PortID, port.PortID); err != nil {
				log.Printf("pipewire: failed to link %s (%d) to %s (%d): %v",
					add.PortName, add.PortID, port.PortName, port.PortID, err)
			}
		}
	}
}

// matchPort finds which of our input ports a device port should feed.
func matchPort(event pwLinkAdd, ourPorts map[string]pwObjectID) (pwLinkObject, bool) {
	if len(ourPorts) == 1 {
		for name, id := range ourPorts {
			return pwLinkObject{PortID: id, PortName: name}, true
		}
	}

	// capture_FL feeds input_FL, monitor_AUX0 feeds input_AUX0
	if _, channel, ok := strings.Cut(event.PortName, "_"); ok {
		port := "input_" + channel
		if id, ok := ourPorts[port]; ok {
			return pwLinkObject{PortID: id, PortName: port}, true
		}
	}

	return pwLinkObject{}, false
}

func findSessionPorts(ctx context.Context, props sessionProps) (map[string]pwObjectID, error) {
	objs, err := pwDump(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pw-dump")
	}

	return sessionPorts(objs, props)
}

func sessionPorts(objs pwObjects, ourProps sessionProps) (map[string]pwObjectID, error) {
	node := objs.Find(func(obj pwObject) bool {
		if obj.Type != pwInterfaceNode {
			return false
		}
		var props sessionProps
		err := json.Unmarshal(obj.Info.Props.JSON, &props)
		return err == nil && props == ourProps
	})
	if node == nil {
		return nil, errors.New("failed to find our node in PipeWire")
	}

	ports := objs.ResolvePorts(node, pwPortIn)
	if len(ports) == 0 {
		return nil, errors.New("failed to find any of our ports in PipeWire")
	}

	portMap := make(map[string]pwObjectID, len(ports))
	for _, obj := range ports {
		portMap[obj.Info.Props.PortName] = obj.ID
	}

	return portMap, nil
}

var sessionCounter uint64

// generateID returns an ID unique to this process and session.
func generateID() string {
	return fmt.Sprintf(
		"%d@%s#%d",
		os.Getpid(),
		shortEpoch(),
		atomic.AddUint64(&sessionCounter, 1),
	)
}

func shortEpoch() string {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(time.Now().Unix()))
	return base64.RawURLEncoding.EncodeToString(buf[:])
}

func checkNeedRawArg() (bool, error) {
	out, err := exec.Command("pw-cat", "--help").Output()
	if err != nil {
		return false, err
	}

	return strings.Contains(string(out), "--raw"), nil
}
