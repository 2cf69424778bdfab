// Package firmware is the PicoRV32 hello-world program: it writes a greeting
// to the memory-mapped UART transmit register and halts.
//
// The same code runs on the board (built with TinyGo, see mmio_tinygo.go)
// and on the host, where tests hand it a recording Register.
package firmware

// UARTTxAddr is the UART transmit register of the reference PicoRV32 SoC.
// Other boards need a rebuild with their own address.
const UARTTxAddr uintptr = 0x02000000

// Greeting is sent once at boot.
const Greeting = "Hello, World from Rust on PicoRV32!\r\n"

// Register is a byte-wide, write-only device register. Every Set must reach
// the device: no caching, merging or reordering.
//
// *volatile.Register8 satisfies it on TinyGo.
type Register interface {
	Set(v uint8)
}

// Putc writes one byte to the transmit register.
func Putc(tx Register, c byte) {
	tx.Set(c)
}

// Puts writes the bytes of s to tx, one store per byte, in order.
func Puts(tx Register, s string) {
	for i := 0; i < len(s); i++ {
		Putc(tx, s[i])
	}
}
