package registry

import (
	"context"
	"sync"
	"time"

	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"
	"golang.org/x/sync/errgroup"

	"github.com/navigate/sensorhubd/internal/busio"
	"github.com/navigate/sensorhubd/internal/logging"
	"github.com/navigate/sensorhubd/internal/mavlink"
)

// Per spec.md §4.1: 2s overall probe budget per port, 500ms per read
// attempt, 100ms->2s exponential backoff across whole-enumeration
// retries.
const (
	probeAttemptTimeout = 500 * time.Millisecond
	probeOverallBudget  = 2 * time.Second
	backoffInitial      = 100 * time.Millisecond
	backoffCap          = 2 * time.Second
)

// AutoDetect enumerates candidate serial ports and probes all of them in
// parallel for a flight-controller HEARTBEAT, retrying the whole
// enumeration with exponential backoff until one is found.
func AutoDetect(baud int, logger *logging.Logger) (*mavlink.Connection, string, error) {
	backoff := backoffInitial
	for {
		ports, err := busio.CandidatePorts()
		if err != nil {
			return nil, "", err
		}

		if conn, path, ok := probeAll(ports, baud, logger); ok {
			return conn, path, nil
		}

		logger.Warnf("registry: auto-detect found no flight controller among %d port(s); retrying in %s", len(ports), backoff)
		time.Sleep(backoff)
		backoff *= 2
		if backoff > backoffCap {
			backoff = backoffCap
		}
	}
}

// probeAll probes every port concurrently via an errgroup and returns the
// first connection whose probe succeeds. Runner-up connections, if any
// complete after a winner is already claimed, are closed. No probe
// failure is fatal to the group, so g.Wait() always returns nil; the
// group is used for its goroutine lifecycle management, not for
// error-triggered cancellation.
func probeAll(ports []string, baud int, logger *logging.Logger) (*mavlink.Connection, string, bool) {
	var (
		g        errgroup.Group
		mu       sync.Mutex
		winner   *mavlink.Connection
		winnerAt string
	)

	for _, p := range ports {
		path := p
		g.Go(func() error {
			conn, ok := probeOne(path, baud, logger)
			if !ok {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			if winner != nil {
				conn.Close()
				return nil
			}
			winner, winnerAt = conn, path
			return nil
		})
	}
	g.Wait()

	if winner == nil {
		return nil, "", false
	}
	return winner, winnerAt, true
}

// probeOne opens path as a MAVLink connection and waits up to
// probeOverallBudget for a qualifying HEARTBEAT, reading in
// probeAttemptTimeout increments. On success the connection is left
// open and returned for direct reuse; on failure it is closed.
//
// gomavlib owns its serial endpoint exclusively once opened, so the
// port is first opened as a busio.SerialBus purely to confirm it is
// present and retain its path/baud for logs, then closed again before
// gomavlib.EndpointSerial dials the same path for real.
func probeOne(path string, baud int, logger *logging.Logger) (*mavlink.Connection, bool) {
	sb, err := busio.OpenSerialBus(path, baud)
	if err != nil {
		return nil, false
	}
	logger.Debugf("registry: probing %s at %d baud", sb.Path(), sb.Baud())
	sb.Close()

	conn, err := mavlink.Open(mavlink.Config{Device: path, BaudRate: baud, Logger: logger})
	if err != nil {
		return nil, false
	}

	rx := conn.Subscribe()
	defer rx.Unsubscribe()

	deadline := time.Now().Add(probeOverallBudget)
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), probeAttemptTimeout)
		msg, err := rx.Recv(ctx)
		cancel()
		if err != nil {
			continue
		}
		if hb, ok := msg.(*common.MessageHeartbeat); ok && mavlink.IsFlightController(hb) {
			return conn, true
		}
	}

	conn.Close()
	return nil, false
}
