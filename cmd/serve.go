package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/BerniceZTT/airlab_end/cache"
	"github.com/BerniceZTT/airlab_end/config"
	"github.com/BerniceZTT/airlab_end/loader"
	"github.com/BerniceZTT/airlab_end/routes"
	"github.com/BerniceZTT/airlab_end/service"
	"github.com/BerniceZTT/airlab_end/utils"
	"github.com/BerniceZTT/airlab_end/view"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var servePort int

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
	cmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides PORT)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	if servePort > 0 {
		cfg.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化存储
	be, err := openBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s backend: %w", cfg.ContentBackend, err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		be.close(closeCtx)
	}()

	// 指标与加载器
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	contentLoader := loader.New(
		cache.New(cfg.CacheTTL),
		contentSources(cfg, be.stores),
		loader.WithMetrics(loader.NewMetrics(reg)),
	)

	var wg sync.WaitGroup
	invalidator, err := startInvalidation(ctx, cfg, contentLoader, &wg)
	if err != nil {
		return err
	}
	defer func() {
		stop()
		wg.Wait()
	}()

	if cfg.WatchFixtures && cfg.ContentBackend == config.BackendFile {
		watcher := service.NewFixtureWatcher(cfg.DataDir, invalidator, 0)
		if err := watcher.Start(ctx); err != nil {
			utils.Logger.Error().Err(err).Msg("[数据文件] 启动监听失败")
		} else {
			defer func() {
				stop()
				watcher.Wait()
			}()
		}
	}

	if cfg.WarmupSchedule != "" {
		warmer, err := service.NewWarmer(contentLoader, cfg.WarmupSchedule)
		if err != nil {
			return err
		}
		warmer.RunOnce(ctx)
		if err := warmer.Start(ctx); err != nil {
			return err
		}
		defer warmer.Stop()
	}

	uploader, uploadDir, err := newUploader(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create uploader: %w", err)
	}

	router := routes.NewRouter(routes.Dependencies{
		Backend:       cfg.ContentBackend,
		Views:         view.NewRegistry(contentLoader),
		Stores:        be.stores,
		Invalidator:   invalidator,
		Summarizer:    newSummarizer(ctx, cfg),
		Uploader:      uploader,
		UploadDir:     uploadDir,
		Issuer:        utils.NewTokenIssuer(cfg.JWTKey, cfg.AdminSessionTTL),
		AdminPassword: cfg.AdminPassword,
		SecureCookies: !cfg.Debug,
		AuditSink:     be.auditSink,
		CORSOrigins:   cfg.CORSOrigins,
		Gatherer:      reg,
		DBStatus:      be.dbStatus,
	})

	// 设置HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		utils.Logger.Info().Msgf("服务器启动，监听端口: %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 优雅关闭
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("启动服务器失败: %w", err)
		}
	case <-ctx.Done():
	}
	utils.Logger.Info().Msg("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Logger.Error().Err(err).Msg("服务器关闭异常")
	}

	utils.Logger.Info().Msg("服务器已优雅关闭")
	return nil
}

// startInvalidation 配置了Redis时订阅失效频道，否则只失效本实例
func startInvalidation(ctx context.Context, cfg *config.Config, l *loader.DataLoader, wg *sync.WaitGroup) (*service.InvalidationBus, error) {
	if cfg.RedisAddr == "" {
		return service.NewInvalidationBus(l, nil, cfg.RedisChannel), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis %s: %w", cfg.RedisAddr, err)
	}

	bus := service.NewInvalidationBus(l, client, cfg.RedisChannel)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer client.Close()
		if err := bus.Listen(ctx); err != nil {
			utils.Logger.Error().Err(err).Msg("[缓存失效] 订阅退出")
		}
	}()
	return bus, nil
}
