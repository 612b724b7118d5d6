package softkeys

import (
	"fmt"
	"log/slog"

	"github.com/dasdy/softkeys/db"
	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/web"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showCmd represents the show command.
var showCmd = &cobra.Command{
	Use:              "show",
	Short:            "Show collected statistics",
	Long:             `Use the activations stored by the replay command to show a heatmap of the layout.`,
	PersistentPreRun: bindFlags,
	RunE: func(_ *cobra.Command, _ []string) error {
		slog.InfoContext(logCtx, "Config", "file", viper.ConfigFileUsed(), "layout", layoutPath, "storage", storagePath)

		file, err := loadLayout()
		if err != nil {
			return err
		}

		l, err := file.Build()
		if err != nil {
			return fmt.Errorf("could not build layout %s: %w", file.ID, err)
		}

		storage, err := db.NewStorageFromPath(storagePath, true)
		if err != nil {
			return fmt.Errorf("could not open %s as sqlite file: %w", storagePath, err)
		}
		defer storage.Close()

		sequences, err := db.NewSequenceCounterFromDB(storage, l.ID())
		if err != nil {
			return fmt.Errorf("could not create sequence counter: %w", err)
		}

		return web.StartServer(port, storage, sequences, layout.NewCurrent(l), dev)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().IntVarP(&port, "port", "p", 9000,
		"Port on which server should be watching")

	showCmd.Flags().StringVarP(
		&storagePath,
		"storage",
		"s",
		"./activations.sqlite",
		"Path to the statistics file")

	showCmd.Flags().BoolVar(&dev,
		"dev",
		false,
		"Enable developer mode")

	showCmd.Flags().StringVarP(&layoutPath, "layout", "l", "qwerty.toml",
		"Layout file used for rendering the interface")
}
