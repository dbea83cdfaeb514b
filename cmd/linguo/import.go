package main

import (
	"fmt"

	"linguo/internal/importer"
	"linguo/internal/repository/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newImportCmd(logger *zap.Logger) *cobra.Command {
	var cfg importer.Config

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import vocabulary from an .xlsx or .csv file",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDatabase(logger)
			if err != nil {
				return err
			}
			defer db.Close()

			im := importer.New(postgres.NewLanguageRepo(db), postgres.NewVocabularyRepo(db), logger)
			result, err := im.Import(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			for _, e := range result.Errors {
				logger.Warn("Row not imported", zap.String("reason", e))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "processed %d, saved %d, skipped %d\n",
				result.TotalProcessed, result.Saved, result.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfg.FilePath, "file", "f", "", "path to the .xlsx or .csv file")
	cmd.Flags().StringVarP(&cfg.LanguageCode, "language", "l", "", "language code, e.g. es")
	cmd.Flags().StringVar(&cfg.SheetName, "sheet", "", "sheet name, the first sheet when empty")
	cmd.Flags().BoolVar(&cfg.SkipHeader, "skip-header", true, "skip the first row")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("language")

	return cmd
}
