// Package mavlink ingests a MAVLink serial stream and fans decoded
// messages out to any number of sensor drivers.
package mavlink

import (
	"runtime"
	"sync"

	"github.com/bluenviron/gomavlib/v3"
	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"
	"github.com/bluenviron/gomavlib/v3/pkg/message"

	"github.com/navigate/sensorhubd/internal/broadcast"
	"github.com/navigate/sensorhubd/internal/logging"
)

// broadcastDepth bounds how many undelivered frames a slow subscriber may
// queue before the oldest is dropped.
const broadcastDepth = 1000

// Config configures a Connection.
type Config struct {
	Device   string
	BaudRate int
	Logger   *logging.Logger
}

// Connection owns a live MAVLink serial link and republishes every
// decoded message to subscribers. It also tracks which sensor-relevant
// message kinds have been observed, so the registry can auto-create
// sensors once the detection grace period elapses.
type Connection struct {
	node   *gomavlib.Node
	logger *logging.Logger
	tx     *broadcast.Sender[message.Message]

	mu       sync.Mutex
	detected map[SensorKind]bool

	done chan struct{}
}

// Open starts a MAVLink node on the given serial device and begins the
// receive loop in the background. The device is expected to already be
// closed by the caller's probing step — gomavlib opens its own handle on
// the path.
func Open(cfg Config) (*Connection, error) {
	if cfg.Logger == nil {
		cfg.Logger = logging.New("", logging.LevelInfo)
	}

	node, err := gomavlib.NewNode(gomavlib.NodeConf{
		Endpoints: []gomavlib.EndpointConf{
			gomavlib.EndpointSerial{
				Device: cfg.Device,
				Baud:   cfg.BaudRate,
			},
		},
		Dialect:     common.Dialect,
		OutVersion:  gomavlib.V2,
		OutSystemID: 255,
	})
	if err != nil {
		return nil, err
	}

	c := &Connection{
		node:     node,
		logger:   cfg.Logger,
		tx:       broadcast.NewSender[message.Message](broadcastDepth),
		detected: make(map[SensorKind]bool),
		done:     make(chan struct{}),
	}

	go c.receiveLoop()

	return c, nil
}

// receiveLoop ranges over gomavlib's event channel, which already
// normalizes MAVLink v1 and v2 framing per message, and republishes every
// decoded message while recording the set of sensor kinds seen.
func (c *Connection) receiveLoop() {
	defer close(c.done)
	c.logger.Infof("mavlink: receive loop started")

	for evt := range c.node.Events() {
		frm, ok := evt.(*gomavlib.EventFrame)
		if !ok {
			continue
		}

		msg := frm.Message()
		if kind, ok := ClassifyMessage(msg); ok {
			c.markDetected(kind)
		}

		c.tx.Send(msg)

		// Cooperative yield so a burst of frames doesn't starve other
		// goroutines sharing this process.
		runtime.Gosched()
	}

	c.logger.Infof("mavlink: receive loop stopped")
}

func (c *Connection) markDetected(kind SensorKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.detected[kind] {
		c.logger.Infof("mavlink: detected sensor kind %q", kind)
	}
	c.detected[kind] = true
}

// DetectedKinds returns the sensor kinds observed so far. The set only
// grows for the lifetime of the connection.
func (c *Connection) DetectedKinds() []SensorKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]SensorKind, 0, len(c.detected))
	for k := range c.detected {
		out = append(out, k)
	}
	return out
}

// Subscribe returns a receiver for every decoded message on this
// connection, regardless of kind. Callers filter for the kinds they care
// about.
func (c *Connection) Subscribe() *broadcast.Receiver[message.Message] {
	return c.tx.Subscribe()
}

// Close shuts the MAVLink node down and releases subscribers.
func (c *Connection) Close() error {
	c.tx.Close()
	return c.node.Close()
}
