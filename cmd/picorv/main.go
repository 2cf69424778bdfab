// Command picorv builds and runs the PicoRV32 hello-world firmware on the
// host.
//
//	picorv run                      # boot the built-in image, print the UART
//	picorv run --elf fw.elf --trace
//	picorv image -o hello.hex       # image for $readmemh
//	picorv makehex fw.bin fw.hex
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("picorv: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Print(err)
		stop()
		os.Exit(1)
	}
}
