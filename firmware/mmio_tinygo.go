//go:build tinygo

package firmware

import (
	"runtime/volatile"
	"unsafe"
)

// TxRegister returns the hardware transmit register at UARTTxAddr.
func TxRegister() Register {
	return (*volatile.Register8)(unsafe.Pointer(UARTTxAddr))
}
