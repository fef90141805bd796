package drivers

import "github.com/navigate/sensorhubd/internal/busio"

// fakeBus is an in-memory busio.RegisterBus backed by a register map,
// for exercising driver Init/Read without real hardware.
type fakeBus struct {
	regs  map[byte]byte
	block map[byte][]byte
}

func newFakeBus() *fakeBus {
	return &fakeBus{regs: make(map[byte]byte), block: make(map[byte][]byte)}
}

func (b *fakeBus) set(reg, val byte) *fakeBus {
	b.regs[reg] = val
	return b
}

func (b *fakeBus) setBlock(reg byte, data []byte) *fakeBus {
	b.block[reg] = data
	return b
}

func (b *fakeBus) Path() string { return "fake" }

func (b *fakeBus) ReadBytes(addr, reg byte, out []byte) error {
	if block, ok := b.block[reg]; ok {
		copy(out, block)
		return nil
	}
	if len(out) == 1 {
		out[0] = b.regs[reg]
		return nil
	}
	for i := range out {
		out[i] = 0
	}
	return nil
}

func (b *fakeBus) WriteByte(addr, reg, value byte) error {
	b.regs[reg] = value
	return nil
}

var _ busio.RegisterBus = (*fakeBus)(nil)
