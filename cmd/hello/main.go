//go:build tinygo

// Command hello is the PicoRV32 firmware image. Build it with
//
//	tinygo build -target=<picorv32 target json> -o hello.elf ./cmd/hello
package main

import "picorv/firmware"

func main() {
	firmware.New(firmware.TxRegister()).Boot()
}
