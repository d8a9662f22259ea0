package cmd

import (
	"context"
	"fmt"

	"github.com/BerniceZTT/airlab_end/models"
	"github.com/BerniceZTT/airlab_end/repository"
	"github.com/BerniceZTT/airlab_end/utils"
	"github.com/BerniceZTT/airlab_end/validation"

	"github.com/spf13/cobra"
)

var seedForce bool

// replacer 支持整体替换的存储
type replacer interface {
	ReplaceAll(ctx context.Context, docs []map[string]any) error
}

func newSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import DATA_DIR fixtures into MongoDB",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()
			ctx := cmd.Context()

			client, db, err := repository.InitMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
			if err != nil {
				return err
			}
			defer repository.CloseMongoDB(context.Background(), client)
			if err := repository.InitializeCollections(ctx, db); err != nil {
				return err
			}

			targets := make(map[models.ContentType]replacer, len(models.AllContentTypes))
			for _, t := range models.AllContentTypes {
				targets[t] = repository.NewMongoStore(db, repository.CollectionName(t), t.IDField())
			}
			return seedCollections(ctx, fileStores(cfg.DataDir), targets, seedForce)
		},
	}
	cmd.Flags().BoolVar(&seedForce, "force", false, "import collections even when they fail validation")
	return cmd
}

// seedCollections 把数据文件写入目标存储。默认跳过未通过校验的集合
func seedCollections(ctx context.Context, from map[models.ContentType]repository.DocumentStore, to map[models.ContentType]replacer, force bool) error {
	var skipped []models.ContentType
	for _, t := range models.AllContentTypes {
		raw, err := from[t].Raw(ctx)
		if err != nil {
			return fmt.Errorf("read %s fixtures: %w", t, err)
		}
		if errs := validation.ForType(t).GetErrors(raw); len(errs) > 0 && !force {
			utils.Logger.Warn().Str("collection", string(t)).Strs("errors", validation.Messages(errs)).Msg("[数据导入] 校验失败，跳过")
			skipped = append(skipped, t)
			continue
		}

		docs, err := from[t].List(ctx)
		if err != nil {
			return fmt.Errorf("read %s fixtures: %w", t, err)
		}
		if err := to[t].ReplaceAll(ctx, docs); err != nil {
			return err
		}
		utils.Logger.Info().Str("collection", string(t)).Int("count", len(docs)).Msg("[数据导入] 导入完成")
	}

	if len(skipped) > 0 {
		return fmt.Errorf("%w: skipped %v", ErrInvalidFixtures, skipped)
	}
	return nil
}
