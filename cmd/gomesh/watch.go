package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/philipparndt/gomesh/internal/loader"
	"github.com/philipparndt/gomesh/pkg/watcher"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Print mesh information whenever the file changes",
	Long: `Print mesh information and reprint it whenever the file changes. For OpenSCAD
sources the files pulled in with use and include are watched as well.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Delay before reloading a changed file")
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	report := func() {
		model, err := loader.Load(path, loadOptions(false))
		if err != nil {
			slog.Error("failed to load model", "path", path, "error", err)
			return
		}
		printInfo(out, model)
	}

	fw, err := watcher.NewFileWatcher(watchDebounce)
	if err != nil {
		return err
	}
	defer fw.Close()

	sources, err := loader.Sources(path)
	if err != nil {
		return err
	}

	changes := make(chan struct{}, 1)
	if err := fw.Watch(sources, func(string) {
		select {
		case changes <- struct{}{}:
		default:
		}
	}); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- fw.Run(ctx) }()

	report()
	fmt.Fprintf(out, "\nWatching %s for changes, press Ctrl+C to stop\n", path)

	for {
		select {
		case <-changes:
			fmt.Fprintf(out, "\nFile changed: %s\n\n", path)
			report()
		case err := <-errc:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}
