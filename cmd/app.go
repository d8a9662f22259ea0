package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/BerniceZTT/airlab_end/config"
	"github.com/BerniceZTT/airlab_end/controllers"
	"github.com/BerniceZTT/airlab_end/loader"
	"github.com/BerniceZTT/airlab_end/middleware"
	"github.com/BerniceZTT/airlab_end/models"
	"github.com/BerniceZTT/airlab_end/repository"
	"github.com/BerniceZTT/airlab_end/service"
	"github.com/BerniceZTT/airlab_end/storage"
	"github.com/BerniceZTT/airlab_end/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// backend 内容存储及其附属组件
type backend struct {
	stores    map[models.ContentType]repository.DocumentStore
	auditSink middleware.AuditSink
	dbStatus  controllers.DatabaseStatusFunc
	close     func(ctx context.Context)
}

// fileStores 每个集合一个JSON文件
func fileStores(dir string) map[models.ContentType]repository.DocumentStore {
	stores := make(map[models.ContentType]repository.DocumentStore, len(models.AllContentTypes))
	for _, t := range models.AllContentTypes {
		stores[t] = repository.NewFileStore(dir, repository.CollectionName(t), t.IDField())
	}
	return stores
}

func mongoStores(db *mongo.Database) map[models.ContentType]repository.DocumentStore {
	stores := make(map[models.ContentType]repository.DocumentStore, len(models.AllContentTypes))
	for _, t := range models.AllContentTypes {
		stores[t] = repository.NewMongoStore(db, repository.CollectionName(t), t.IDField())
	}
	return stores
}

// openBackend 按 CONTENT_BACKEND 创建存储
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.ContentBackend != config.BackendMongo {
		utils.Logger.Info().Str("dir", cfg.DataDir).Msg("使用JSON文件存储内容")
		return &backend{
			stores:    fileStores(cfg.DataDir),
			auditSink: middleware.LogSink{},
			close:     func(context.Context) {},
		}, nil
	}

	client, db, err := repository.InitMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, err
	}
	if err := repository.InitializeCollections(ctx, db); err != nil {
		utils.Logger.Error().Err(err).Msg("初始化数据库集合失败")
	}
	return &backend{
		stores:    mongoStores(db),
		auditSink: repository.NewOperationLogStore(db),
		dbStatus: func(ctx context.Context) map[string]interface{} {
			return repository.GetDatabaseStatus(ctx, db)
		},
		close: func(ctx context.Context) { repository.CloseMongoDB(ctx, client) },
	}, nil
}

// contentSources 加载器的数据来源。配置了新闻订阅时新闻改为从订阅读取
func contentSources(cfg *config.Config, stores map[models.ContentType]repository.DocumentStore) map[models.ContentType]loader.Source {
	sources := make(map[models.ContentType]loader.Source, len(stores))
	for t, store := range stores {
		sources[t] = repository.StoreSource{Store: store}
	}
	if cfg.NewsFeedURL != "" {
		utils.Logger.Info().Str("url", cfg.NewsFeedURL).Msg("[新闻订阅] 新闻改为从订阅读取")
		sources[models.ContentNews] = repository.FeedSource{
			URL:      cfg.NewsFeedURL,
			MaxItems: 20,
			Timeout:  10 * time.Second,
		}
	}
	return sources
}

// newUploader 按 UPLOAD_BACKEND 创建上传存储，返回值中的目录非空时需要静态提供
func newUploader(ctx context.Context, cfg *config.Config) (storage.Uploader, string, error) {
	switch cfg.UploadBackend {
	case config.UploadS3:
		u, err := storage.NewS3Uploader(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicBaseURL)
		if err != nil {
			return nil, "", err
		}
		return u, "", nil
	case config.UploadLocal:
		return storage.NewLocalUploader(cfg.UploadDir, cfg.UploadPublicURL), cfg.UploadDir, nil
	}
	return nil, "", fmt.Errorf("unknown upload backend %q", cfg.UploadBackend)
}

// newSummarizer 未配置API Key时返回nil，摘要接口返回503
func newSummarizer(ctx context.Context, cfg *config.Config) service.Summarizer {
	if cfg.GeminiAPIKey == "" {
		utils.Logger.Warn().Msg("[论文摘要] 未配置 GEMINI_API_KEY，摘要功能关闭")
		return nil
	}
	s, err := service.NewGeminiSummarizer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		utils.Logger.Error().Err(err).Msg("[论文摘要] 初始化失败，摘要功能关闭")
		return nil
	}
	return s
}
