package softkeys

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/dasdy/softkeys/db"
	"github.com/dasdy/softkeys/keyboard"
	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/touchlog"
	"github.com/dasdy/softkeys/touchlog/ports"
	"github.com/dasdy/softkeys/web"
	"github.com/spf13/cobra"
)

var (
	devices          []string
	traces           []string
	disableInterface bool
	watchLayout      bool
)

// replayCmd represents the replay command.
var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Feed touch traces into the keyboard and log activated keys",
	Long: `Reads trace lines from serial digitizers, recorded trace files or stdin and
drives the keyboard with them. Activated keys are stored in a sqlite file, and a web
server can show them while the replay runs.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		file, err := loadLayout()
		if err != nil {
			return err
		}

		lines, closer, err := openInput()
		if err != nil {
			return err
		}
		defer closer()

		slog.InfoContext(logCtx, "Output file", "path", storagePath)

		storage, err := db.NewStorageFromPath(storagePath, verbose)
		if err != nil {
			return fmt.Errorf("could not open %s as sqlite file: %w", storagePath, err)
		}
		defer storage.Close()

		sequences, err := db.NewSequenceCounterFromDB(storage, file.ID)
		if err != nil {
			return fmt.Errorf("could not create sequence counter: %w", err)
		}

		surface := keyboard.New(keyboardOptions(), keyboard.Collaborators{Provider: file.Provider()})
		if err := surface.SetLayoutFile(file); err != nil {
			return err
		}

		surface.SetObserver(func(a model.Activation) {
			if verbose {
				slog.InfoContext(logCtx, "Key activated",
					"layout", a.Layout, "position", a.Position, "code", a.PrimaryCode, "surface", a.Surface)
			}

			if err := storage.Store(&a); err != nil {
				slog.ErrorContext(logCtx, "Could not store activation", "error", err)
			}

			sequences.HandleActivation(a, verbose)
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var reloads <-chan layout.Reload
		if watchLayout {
			reloads, err = layout.Watch(ctx, layoutPath)
			if err != nil {
				return err
			}
		}

		current := layout.NewCurrent(surface.Layout())

		if !disableInterface {
			go func() {
				if err := web.StartServer(port, storage, sequences, current, dev); err != nil {
					slog.ErrorContext(logCtx, "Interface stopped", "error", err)
				}
			}()
		}

		session := touchlog.Session{
			Surface:      surface,
			Verbose:      verbose,
			TickInterval: 50 * time.Millisecond,
			OnReload: func(l *layout.KeyLayout) {
				current.Store(l)
				sequences.SetLayout(l.ID())
			},
		}

		err = session.Run(ctx, lines, reloads)
		surface.Close()

		return err
	},
}

// openInput merges the configured serial devices and trace files, falling back to stdin.
func openInput() (<-chan string, func(), error) {
	if len(devices) == 0 && len(traces) == 0 {
		names, err := ports.GetAvailableDevices()
		if err != nil {
			slog.WarnContext(logCtx, "Could not list serial devices", "error", err)
		} else {
			slog.InfoContext(logCtx, "Suggested devices", "devices", names)
		}

		slog.InfoContext(logCtx, "Will proceed to read from stdin...")

		return ports.ReadFile(os.Stdin), func() {}, nil
	}

	readers := make([]io.Reader, 0, len(devices)+len(traces))
	closers := make([]func(), 0, len(devices)+len(traces))

	closer := func() {
		for _, c := range closers {
			c()
		}
	}

	for _, d := range devices {
		r, c, err := ports.Open(d)
		if err != nil {
			closer()

			return nil, nil, suggestDevices(err)
		}

		readers = append(readers, r)
		closers = append(closers, c)
	}

	for _, t := range traces {
		f, err := os.Open(t)
		if err != nil {
			closer()

			return nil, nil, fmt.Errorf("could not open trace %s: %w", t, err)
		}

		readers = append(readers, f)
		closers = append(closers, func() { f.Close() })
	}

	return ports.ReadAll(readers...), closer, nil
}

func suggestDevices(err error) error {
	names, errInner := ports.GetAvailableDevices()
	if errInner != nil {
		return fmt.Errorf("could not open device: %w; Could not suggest devices: %w", err, errInner)
	}

	if len(names) > 0 {
		return fmt.Errorf("error opening devices: %w. Maybe try instead: %+v", err, names)
	}

	return fmt.Errorf("error opening devices: %w. It does not seem like any digitizer is connected", err)
}

func init() {
	rootCmd.AddCommand(replayCmd)
	addKeyboardFlags(replayCmd.Flags())

	replayCmd.Flags().StringSliceVarP(
		&devices,
		"file",
		"f",
		[]string{},
		"Serial devices to read trace lines from",
	)

	replayCmd.Flags().StringSliceVarP(
		&traces,
		"trace",
		"t",
		[]string{},
		"Recorded trace files to replay",
	)

	replayCmd.Flags().StringVarP(
		&storagePath,
		"storage",
		"s",
		"./activations.sqlite",
		"Output path for statistics")

	replayCmd.Flags().IntVarP(
		&port, "port", "p", 3000,
		"Port on which server should be watching")

	replayCmd.Flags().BoolVar(&disableInterface,
		"no-interface",
		false,
		"If provided, no web server will be run with visualization")

	replayCmd.Flags().BoolVar(&watchLayout,
		"watch",
		true,
		"Reload the layout file when it changes")

	replayCmd.Flags().BoolVarP(&verbose,
		"verbose",
		"v",
		false,
		"If provided, debug output will be shown")

	replayCmd.Flags().BoolVar(&dev,
		"dev",
		false,
		"Enable developer mode")
}
