package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BerniceZTT/airlab_end/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ManagedCollections 服务使用的全部集合
var ManagedCollections = []string{
	ProjectsCollection,
	TeamCollection,
	NewsCollection,
	ResearchCollection,
	ApiOperationLogsCollection,
}

// InitMongoDB 初始化MongoDB连接
func InitMongoDB(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	// 设置连接超时
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("连接MongoDB失败: %w", err)
	}

	// 检查连接
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("ping MongoDB失败: %w", err)
	}

	db := client.Database(dbName)
	utils.Logger.Info().Str("database", dbName).Msg("已连接到MongoDB")
	return client, db, nil
}

// CloseMongoDB 关闭MongoDB连接
func CloseMongoDB(ctx context.Context, client *mongo.Client) {
	if client == nil {
		return
	}
	if err := client.Disconnect(ctx); err != nil {
		utils.Logger.Error().Err(err).Msg("断开MongoDB连接失败")
		return
	}
	utils.Logger.Info().Msg("已断开MongoDB连接")
}

// ExecuteDbOperation 执行数据库操作，提供错误处理和重试机制
func ExecuteDbOperation[T any](ctx context.Context, operation func(ctx context.Context) (T, error), retries int) (T, error) {
	if retries <= 0 {
		retries = 3
	}

	var zero T
	var lastErr error
	for i := 0; i < retries; i++ {
		result, err := operation(ctx)
		if err == nil {
			return result, nil
		}

		lastErr = err
		// 如果是不可重试的错误，立即返回
		if !isRetryableError(err) {
			break
		}
		utils.Logger.Error().Err(err).Msgf("数据库操作失败，重试 (%d/%d)", i+1, retries)

		// 延迟后重试
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(time.Duration(500*(i+1)) * time.Millisecond):
		}
	}

	return zero, lastErr
}

// isRetryableError 判断错误是否可重试
func isRetryableError(err error) bool {
	if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled) {
		return false
	}

	// MongoDB可重试错误代码
	retryableCodes := map[int32]bool{
		6:     true, // HostUnreachable
		7:     true, // HostNotFound
		89:    true, // NetworkTimeout
		91:    true, // ShutdownInProgress
		189:   true, // PrimarySteppedDown
		10107: true, // NotMaster
		13436: true, // NotMasterNoSlaveOk
		11600: true, // InterruptedAtShutdown
		11602: true, // InterruptedDueToReplStateChange
		10058: true, // ConnectionReset
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return retryableCodes[cmdErr.Code]
	}

	return isNetworkError(err)
}

// isNetworkError 检查是否是网络错误
func isNetworkError(err error) bool {
	errMsg := strings.ToLower(err.Error())
	networkErrors := []string{
		"connection refused",
		"connection reset",
		"connection closed",
		"no reachable servers",
		"timeout",
		"context deadline exceeded",
		"server selection error",
	}

	for _, ne := range networkErrors {
		if strings.Contains(errMsg, ne) {
			return true
		}
	}
	return false
}

// InitializeCollections 初始化数据库集合，并为内容集合的主键建立唯一索引
func InitializeCollections(ctx context.Context, db *mongo.Database) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("检查集合失败: %w", err)
	}
	exists := make(map[string]bool, len(existing))
	for _, name := range existing {
		exists[name] = true
	}

	for _, collName := range ManagedCollections {
		if exists[collName] {
			utils.Logger.Debug().Str("collection", collName).Msg("集合已存在")
			continue
		}
		if err := db.CreateCollection(ctx, collName); err != nil {
			return fmt.Errorf("创建集合失败: %w", err)
		}
		utils.Logger.Info().Str("collection", collName).Msg("创建集合成功")
	}

	// research 直接使用 _id，无需额外索引
	for _, collName := range []string{ProjectsCollection, TeamCollection, NewsCollection} {
		_, err := db.Collection(collName).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		})
		if err != nil {
			return fmt.Errorf("创建索引失败(%s): %w", collName, err)
		}
	}
	return nil
}

// GetDatabaseStatus 获取数据库状态
func GetDatabaseStatus(ctx context.Context, db *mongo.Database) map[string]interface{} {
	result := make(map[string]interface{}, len(ManagedCollections))

	for _, collName := range ManagedCollections {
		coll := db.Collection(collName)
		count, err := coll.CountDocuments(ctx, bson.M{})
		if err != nil {
			utils.Logger.Error().Err(err).Str("collection", collName).Msg("获取集合计数失败")
			result[collName] = map[string]interface{}{
				"count": 0,
				"error": err.Error(),
			}
			continue
		}

		status := map[string]interface{}{"count": count}
		// 操作日志里可能含请求体，不返回样本
		if count > 0 && collName != ApiOperationLogsCollection {
			var sample bson.M
			if err := coll.FindOne(ctx, bson.M{}).Decode(&sample); err == nil {
				status["sample"] = normalizeDocument(sample)
			}
		}
		result[collName] = status
	}

	return result
}
