package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/BerniceZTT/airlab_end/models"
	"github.com/BerniceZTT/airlab_end/repository"
	"github.com/BerniceZTT/airlab_end/validation"

	"github.com/spf13/cobra"
)

// ErrInvalidFixtures 至少一个数据文件没有通过校验
var ErrInvalidFixtures = errors.New("fixtures failed validation")

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the JSON fixtures in DATA_DIR",
		Long: `Runs the collection validators over projects.json, team.json, news.json
and research.json and prints one line per collection. Exits non-zero when any
collection would be replaced by placeholder content.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()
			return validateFixtures(cmd.Context(), fileStores(cfg.DataDir), cmd.OutOrStdout())
		},
	}
}

// validateFixtures 逐个集合校验并输出报告
func validateFixtures(ctx context.Context, stores map[models.ContentType]repository.DocumentStore, out io.Writer) error {
	failed := 0
	for _, t := range models.AllContentTypes {
		raw, err := stores[t].Raw(ctx)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %-9s %v\n", t, err)
			continue
		}

		errs := validation.ForType(t).GetErrors(raw)
		if len(errs) > 0 {
			failed++
			for _, e := range errs {
				fmt.Fprintf(out, "FAIL %-9s %s\n", t, e.Message)
			}
			continue
		}
		count := 0
		if items, ok := raw.([]any); ok {
			count = len(items)
		}
		fmt.Fprintf(out, "OK   %-9s %d records\n", t, count)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d collections", ErrInvalidFixtures, failed, len(models.AllContentTypes))
	}
	return nil
}
