package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCmd returns the new command.
func NewCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "new <root>",
		Short: "Create a new project under a storage root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()

			root, err := e.openRoot(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			e.store.SetRoot(root)
			if err := e.store.CreateNew(ctx); err != nil {
				return err
			}
			if name != "" {
				e.store.SetName(ctx, name)
			}
			if err := e.store.Save(ctx); err != nil {
				return err
			}

			fmt.Printf("Created project %q under %s\n", e.store.Project().Name, root.Name())
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "project name")
	return cmd
}
