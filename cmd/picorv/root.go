package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"picorv/board"
)

type globalOptions struct {
	board  string
	boards string
}

func (o *globalOptions) profile() (board.Profile, error) {
	return board.Resolve(o.board, o.boards)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "picorv",
		Short:         "Build and simulate the PicoRV32 hello-world firmware",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.board, "board", "b", board.Default, "board profile name")
	root.PersistentFlags().StringVar(&opts.boards, "boards", "", "YAML file with board profiles (default: built-in profiles)")

	root.AddCommand(
		newRunCmd(opts),
		newImageCmd(opts),
		newMakeHexCmd(),
		newBoardsCmd(opts),
	)
	return root
}

func newBoardsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "boards",
		Short: "List the known board profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ps := board.Builtin()
			if opts.boards != "" {
				var err error
				if ps, err = board.Load(opts.boards); err != nil {
					return err
				}
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tRAM\tRESET\tUART TX\tDESCRIPTION")
			for _, name := range ps.Names() {
				p, _ := ps.Lookup(name)
				fmt.Fprintf(w, "%s\t0x%08x+0x%x\t0x%08x\t0x%08x\t%s\n",
					p.Name, p.RAMBase, p.RAMSize, p.ResetPC, p.UARTTx, p.Description)
			}
			return w.Flush()
		},
	}
}
