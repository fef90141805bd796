package busio

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var hostInitOnce sync.Once

// ensureHostInit registers periph.io's host drivers exactly once. Every
// periph.io consumer must call host.Init() before touching a registry
// like i2creg; doing it lazily here keeps that detail out of callers.
func ensureHostInit() {
	hostInitOnce.Do(func() {
		_, _ = host.Init()
	})
}

// RegisterBus is the driver-facing contract for a synchronous
// register-addressed two-wire bus. A 1-byte ReadBytes is a single
// register read; N>1 is a block read of N contiguous bytes starting at
// reg. The slave address is selected fresh on every transaction.
type RegisterBus interface {
	ReadBytes(addr, reg byte, out []byte) error
	WriteByte(addr, reg, value byte) error
	Path() string
}

// i2cRegisterBus backs RegisterBus with a periph.io i2c.Bus opened
// against a Linux sysfs/dev path (e.g. "/dev/i2c-1").
type i2cRegisterBus struct {
	path string
	bus  i2c.BusCloser
}

// OpenRegisterBus opens path as a register bus. It returns
// *UnsupportedPlatformError when no i2c driver claims the given path on
// this host (e.g. running off-target, or the kernel module isn't
// loaded) — the registry tolerates this when no sensor actually
// depends on the bus.
func OpenRegisterBus(path string) (RegisterBus, error) {
	ensureHostInit()
	bus, err := i2creg.Open(path)
	if err != nil {
		return nil, &UnsupportedPlatformError{Path: path, Reason: err.Error()}
	}
	return &i2cRegisterBus{path: path, bus: bus}, nil
}

func (b *i2cRegisterBus) Path() string { return b.path }

func (b *i2cRegisterBus) ReadBytes(addr, reg byte, out []byte) error {
	dev := &i2c.Dev{Addr: uint16(addr), Bus: b.bus}
	if err := dev.Tx([]byte{reg}, out); err != nil {
		return &TransportError{Bus: b.path, Reason: err.Error()}
	}
	return nil
}

func (b *i2cRegisterBus) WriteByte(addr, reg, value byte) error {
	dev := &i2c.Dev{Addr: uint16(addr), Bus: b.bus}
	if err := dev.Tx([]byte{reg, value}, nil); err != nil {
		return &TransportError{Bus: b.path, Reason: err.Error()}
	}
	return nil
}

// GuardedBus pairs a RegisterBus with the mutual-exclusion primitive
// that makes it safe to share across scheduler tasks: exactly one
// transaction in flight at a time, fairness left to the runtime's
// default (sync.Mutex, FIFO-ish under contention).
type GuardedBus struct {
	mu  sync.Mutex
	Bus RegisterBus
}

// NewGuardedBus wraps bus for shared use.
func NewGuardedBus(bus RegisterBus) *GuardedBus {
	return &GuardedBus{Bus: bus}
}

// Lock acquires exclusive access to the underlying bus. Callers must
// call Unlock once the transaction (or short burst of transactions) is
// complete, and must release the lock before doing anything that can
// block for a long time — in particular before publishing derived
// messages.
func (g *GuardedBus) Lock() { g.mu.Lock() }

// Unlock releases exclusive access.
func (g *GuardedBus) Unlock() { g.mu.Unlock() }

func (g *GuardedBus) String() string {
	return fmt.Sprintf("register-bus(%s)", g.Bus.Path())
}
