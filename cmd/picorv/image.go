package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"picorv/firmware"
	"picorv/hexfile"
	"picorv/image"
)

func newImageCmd(g *globalOptions) *cobra.Command {
	var (
		output string
		format string
		text   string
	)
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Assemble the hello-world image for a board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := g.profile()
			if err != nil {
				return err
			}
			img, err := image.Build(p, text)
			if err != nil {
				return err
			}
			if format == "" {
				format = "bin"
				if filepath.Ext(output) == ".hex" {
					format = "hex"
				}
			}
			switch format {
			case "bin":
			case "hex":
				var buf bytes.Buffer
				if err := hexfile.Encode(&buf, img); err != nil {
					return err
				}
				img = buf.Bytes()
			default:
				return fmt.Errorf("unknown format %q (want bin or hex)", format)
			}
			return os.WriteFile(output, img, 0o644)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "hello.bin", "output file")
	f.StringVar(&format, "format", "", "bin or hex (default: from the output extension)")
	f.StringVar(&text, "text", firmware.Greeting, "bytes to transmit")
	return cmd
}

func newMakeHexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "makehex <input.bin> <output.hex>",
		Short: "Convert a flat binary to $readmemh words",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bin, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			if err := hexfile.Encode(out, bin); err != nil {
				out.Close()
				return err
			}
			return out.Close()
		},
	}
}
