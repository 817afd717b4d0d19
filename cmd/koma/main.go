package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcatdmz/koma/internal/cli"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "koma",
		Short:   "koma - stop-motion project persistence tool",
		Version: version,
		Long: `koma operates on stop-motion capture project roots outside the GUI:
create new projects, inspect stored ones and copy them between storage
backends (directory, SQLite, Postgres).`,
	}

	rootCmd.AddCommand(cli.NewCmd())
	rootCmd.AddCommand(cli.InfoCmd())
	rootCmd.AddCommand(cli.CopyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
