package softkeys

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/dasdy/softkeys/logging"
	"github.com/dasdy/softkeys/termui"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
)

var playLog string

// playCmd represents the play command.
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Type on the keyboard in the terminal with the mouse",
	Long: `Draws the layout in the terminal. Click or drag across keys to type, hold a key
to open its alternatives, and press Esc to quit.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		file, err := loadLayout()
		if err != nil {
			return err
		}

		// The screen owns the terminal, so logs go to a file while playing.
		logFile, err := os.Create(playLog)
		if err != nil {
			return fmt.Errorf("could not create log file %s: %w", playLog, err)
		}
		defer logFile.Close()

		logging.Setup(logFile, slog.LevelDebug, false)

		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("could not create screen: %w", err)
		}

		if err := screen.Init(); err != nil {
			return fmt.Errorf("could not initialize screen: %w", err)
		}
		defer screen.Fini()

		term := termui.New(screen, keyboardOptions(), termui.DefaultCell)
		if err := term.Surface.SetLayoutFile(file); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		return term.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	addKeyboardFlags(playCmd.Flags())

	playCmd.Flags().StringVar(&playLog, "log", "./softkeys.log",
		"File receiving logs while the terminal is in use")
}

