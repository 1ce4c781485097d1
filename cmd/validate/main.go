package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"

	"github.com/jwebster45206/guining-hotel/data"
	"github.com/jwebster45206/guining-hotel/pkg/catalog"
	"github.com/jwebster45206/guining-hotel/pkg/progression"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate [data-dir]",
		Short: "Validate the Guining Hotel narrative content",
		Long: `Loads clues.json, truths.json, rooms.json and dialogue.json from data-dir
(or the built-in content when no directory is given) and checks that the
game can be completed with them.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var fsys fs.FS = data.FS
			source := "built-in content"
			if len(args) == 1 {
				fsys = os.DirFS(args[0])
				source = args[0]
			}
			return run(cmd.OutOrStdout(), fsys, source, verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print a summary of the content")
	return cmd
}

func run(out io.Writer, fsys fs.FS, source string, verbose bool) error {
	_, _ = fmt.Fprintf(out, "Validating %s...\n", source)

	cat, err := catalog.Load(fsys)
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("validation failed with %d problem(s):\n%w", len(verr.Problems), err)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	if _, err := progression.DefaultEngine(cat); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if verbose {
		printSummary(out, cat)
	}
	_, _ = fmt.Fprintln(out, "Content is valid!")
	return nil
}

func printSummary(out io.Writer, cat *catalog.Catalog) {
	_, _ = fmt.Fprintf(out, "  %d clues, %d rooms, %d characters, %d scripts\n",
		len(cat.Clues), len(cat.Rooms), len(cat.Truths), len(cat.Scripts))

	for _, r := range cat.Rooms {
		start := ""
		if r.Starting {
			start = " (starting)"
		}
		_, _ = fmt.Fprintf(out, "  room %s %s%s: %d clues, %d hotspots\n",
			r.ID, r.Name, start, len(cat.CluesInRoom(r.ID)), len(r.Hotspots))
	}

	hidden := cat.HiddenClues()
	sort.Strings(hidden)
	_, _ = fmt.Fprintf(out, "  hidden until all first truths: %v\n", hidden)
}
