package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CopyCmd returns the copy command.
func CopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <src-root> <dst-root>",
		Short: "Copy a stored project from one root to another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()

			src, err := e.openRoot(args[0])
			if err != nil {
				return err
			}
			dst, err := e.openRoot(args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := e.store.Open(ctx, src); err != nil {
				return err
			}
			if err := e.store.SaveAs(ctx, dst); err != nil {
				return err
			}

			fmt.Printf("Copied project %q from %s to %s\n",
				e.store.Project().Name, src.Name(), dst.Name())
			return nil
		},
	}
}
