package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// InfoCmd returns the info command.
func InfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <root>",
		Short: "Show a summary of the project stored under a root",
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
			if err := e.store.Open(cmd.Context(), root); err != nil {
				return err
			}

			p := e.store.Project()
			title := color.New(color.FgCyan, color.Bold)
			title.Printf("%s\n", p.Name)

			fmt.Printf("  frame rate:    %g fps\n", p.FrameRate)
			fmt.Printf("  frames:        %d\n", len(p.AllKomas()))
			fmt.Printf("  layers:        %d\n", len(p.Layers))
			fmt.Printf("  preview range: [%d, %d]\n", p.PreviewRange[0], p.PreviewRange[1])
			fmt.Printf("  markers:       %d\n", len(p.Markers))

			shots := 0
			for _, k := range p.Komas {
				for _, s := range k.Shots {
					if s != nil {
						shots++
					}
				}
			}
			fmt.Printf("  shots:         %d\n", shots)

			if p.Audio != nil {
				fmt.Printf("  audio:         %d bytes starting at frame %d\n",
					p.Audio.Source.Len(), p.Audio.StartFrame)
			} else {
				fmt.Printf("  audio:         %s\n", color.New(color.FgYellow).Sprint("(none)"))
			}
			return nil
		},
	}
}
