package sim

import "io"

// Write is one store that reached the UART transmit register.
type Write struct {
	Addr  uint32
	Value uint8
}

// UART models the PicoRV32 transmit latch: write-only, always ready, no
// flow control. It records every store and streams the bytes to out.
type UART struct {
	addr   uint32
	out    io.Writer
	writes []Write
}

// NewUART returns a transmit register at addr. out may be nil.
func NewUART(addr uint32, out io.Writer) *UART {
	return &UART{addr: addr, out: out}
}

func (u *UART) Addr() uint32 { return u.addr }

// Tx latches one byte.
func (u *UART) Tx(b uint8) {
	u.writes = append(u.writes, Write{u.addr, b})
	if u.out != nil {
		// The line has no way to report a failed transmit.
		_, _ = u.out.Write([]byte{b})
	}
}

// Writes returns every store seen so far, oldest first.
func (u *UART) Writes() []Write {
	return append([]Write(nil), u.writes...)
}

// Bytes returns the transmitted bytes.
func (u *UART) Bytes() []byte {
	b := make([]byte, len(u.writes))
	for i, w := range u.writes {
		b[i] = w.Value
	}
	return b
}
