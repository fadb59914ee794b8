package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ember/data"
	"ember/internal/runfiles"
)

var locateCmd = &cobra.Command{
	Use:   "locate [id]",
	Short: "Resolve a runfiles identifier to an absolute path",
	Long: `Resolves id (the prelude by default) the way the fuzz pipeline does and prints the path.
With --install the shipped prelude is first written into a runfiles directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLocate,
}

func init() {
	locateCmd.Flags().String("install", "", "write the shipped prelude into this runfiles directory first")
	locateCmd.Flags().Bool("source", false, "also print where the runfiles tree was discovered")
}

func runLocate(cmd *cobra.Command, args []string) error {
	id := app.preludeID()
	if id == "" {
		id = data.PreludeID
	}
	if len(args) == 1 {
		id = args[0]
	}
	opts := app.runfilesOptions()

	if dir, _ := cmd.Flags().GetString("install"); dir != "" {
		path, err := runfiles.Install(dir, data.PreludeID, data.Prelude)
		if err != nil {
			return err
		}
		app.logger().Info("installed prelude", "path", path)
		opts = runfiles.Options{Dir: dir}
	}

	rf, err := runfiles.New(opts)
	if err != nil {
		return err
	}
	path, err := rf.Locate(id)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if showSource, _ := cmd.Flags().GetBool("source"); showSource {
		fmt.Fprintf(w, "runfiles: %s (anchor %s)\n", rf.Source(), rf.Anchor())
	}
	fmt.Fprintln(w, path)
	return nil
}
