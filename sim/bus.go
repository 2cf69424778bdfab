package sim

import "errors"

// ErrUnmapped is returned for accesses that hit neither RAM nor a device.
var ErrUnmapped = errors.New("unmapped address")

// UARTSize is the width of the UART window. Only the first byte is the TX
// latch; the rest ignores stores and reads as zero.
const UARTSize = 4

type Bus struct {
	ram  *RAM
	uart *UART
}

func NewBus(ram *RAM, uart *UART) *Bus {
	return &Bus{ram: ram, uart: uart}
}

func (b *Bus) inUART(addr uint32) bool {
	base := b.uart.Addr()
	return addr >= base && uint64(addr) < uint64(base)+UARTSize
}

func (b *Bus) Read8(addr uint32) (uint8, bool) {
	// TX is write-only
	if b.inUART(addr) {
		return 0, true
	}
	return b.ram.Read8(addr)
}

func (b *Bus) Write8(addr uint32, v uint8) bool {
	if b.inUART(addr) {
		if addr == b.uart.Addr() {
			b.uart.Tx(v)
		}
		return true
	}
	return b.ram.Write8(addr, v)
}

func (b *Bus) Read16(addr uint32) (uint16, bool) {
	b0, ok := b.Read8(addr)
	if !ok {
		return 0, false
	}
	b1, ok := b.Read8(addr + 1)
	if !ok {
		return 0, false
	}
	return uint16(b0) | uint16(b1)<<8, true
}

func (b *Bus) Read32(addr uint32) (uint32, bool) {
	// Compose 4 bytes via Read8 (handles MMIO too)
	lo, ok := b.Read16(addr)
	if !ok {
		return 0, false
	}
	hi, ok := b.Read16(addr + 2)
	if !ok {
		return 0, false
	}
	return uint32(lo) | uint32(hi)<<16, true
}

// Write16 and Write32 hitting the TX latch transmit the low byte once, the
// way the hardware latches bits [7:0] of any store.
func (b *Bus) Write16(addr uint32, v uint16) bool {
	if addr == b.uart.Addr() {
		b.uart.Tx(uint8(v))
		return true
	}
	return b.Write8(addr, uint8(v)) && b.Write8(addr+1, uint8(v>>8))
}

func (b *Bus) Write32(addr uint32, v uint32) bool {
	if addr == b.uart.Addr() {
		b.uart.Tx(uint8(v))
		return true
	}
	return b.Write16(addr, uint16(v)) && b.Write16(addr+2, uint16(v>>16))
}
