package softkeys

import (
	"fmt"
	"os"

	"github.com/dasdy/softkeys/db"
	"github.com/spf13/cobra"
)

var filenames []string

// mergeCmd represents the merge command.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge statistics files into one",
	Long:  `Given several statistics files, create a new one holding the union of their activations`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if _, err := os.Stat(storagePath); err == nil {
			return fmt.Errorf("output file %s already exists", storagePath)
		}

		inputs := make([]*db.SQLiteStorage, 0, len(filenames))

		defer func() {
			for _, in := range inputs {
				in.Close()
			}
		}()

		for _, fn := range filenames {
			store, err := db.NewStorageFromPath(fn, false)
			if err != nil {
				return fmt.Errorf("could not open %s: %w", fn, err)
			}

			inputs = append(inputs, store)
		}

		output, err := db.NewStorageFromPath(storagePath, false)
		if err != nil {
			return err
		}
		defer output.Close()

		return db.Merge(inputs, output)
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringSliceVarP(
		&filenames,
		"file",
		"f",
		[]string{},
		"List of filenames to merge data into",
	)

	mergeCmd.Flags().StringVarP(
		&storagePath,
		"out",
		"o",
		"./merged.sqlite",
		"Output path for statistics")
}
