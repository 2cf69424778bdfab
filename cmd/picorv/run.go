package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tty "github.com/mattn/go-tty"
	"github.com/spf13/cobra"

	"picorv/hexfile"
	"picorv/image"
	"picorv/sim"
)

type runOptions struct {
	elf   string
	bin   string
	hex   string
	steps int
	pc    uint32
	trace bool
	tty   string
}

func newRunCmd(g *globalOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Boot a firmware image on the simulated SoC",
		Long: `Boot a firmware image on the simulated SoC and copy its UART output to
stdout (or to a terminal device with --tty). Without --elf, --bin or --hex
the built-in hello-world image for the board is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFirmware(cmd, g, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.elf, "elf", "", "ELF file to load")
	f.StringVar(&opts.bin, "bin", "", "flat binary to load at the reset address")
	f.StringVar(&opts.hex, "hex", "", "$readmemh image to load at the reset address")
	f.IntVar(&opts.steps, "steps", 10_000_000, "max instructions to execute")
	f.Uint32Var(&opts.pc, "pc", 0, "override the start PC")
	f.BoolVar(&opts.trace, "trace", false, "log every executed instruction to stderr")
	f.StringVar(&opts.tty, "tty", "", "terminal device to send UART output to")
	cmd.MarkFlagsMutuallyExclusive("elf", "bin", "hex")
	return cmd
}

func runFirmware(cmd *cobra.Command, g *globalOptions, opts *runOptions) error {
	p, err := g.profile()
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if opts.tty != "" {
		t, err := tty.OpenDevice(opts.tty)
		if err != nil {
			return fmt.Errorf("open %s: %w", opts.tty, err)
		}
		defer t.Close()
		out = t.Output()
	}

	m, err := sim.NewMachine(p, out)
	if err != nil {
		return err
	}
	if opts.trace {
		m.CPU.Trace = log.New(cmd.ErrOrStderr(), "", 0)
	}

	switch {
	case opts.elf != "":
		err = m.LoadELF(opts.elf)
	case opts.bin != "":
		err = m.RAM.LoadFlat(opts.bin, p.ResetPC)
	case opts.hex != "":
		err = loadHex(m, opts.hex)
	default:
		var img []byte
		if img, err = image.Hello(p); err == nil {
			err = m.LoadImage(img)
		}
	}
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("pc") {
		m.CPU.PC = opts.pc
	}

	logger := log.New(cmd.ErrOrStderr(), "picorv: ", 0)
	res, err := m.Run(cmd.Context(), opts.steps)
	for _, trap := range m.CPU.Traps {
		logger.Printf("caught %v", trap)
	}
	if err != nil {
		return fmt.Errorf("after %d steps: %w", res.Steps, err)
	}
	if !res.Halted {
		logger.Printf("stopped after %d steps without halting", res.Steps)
	}
	return nil
}

func loadHex(m *sim.Machine, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	img, err := hexfile.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return m.LoadImage(img)
}
