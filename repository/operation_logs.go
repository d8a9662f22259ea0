package repository

import (
	"context"

	"github.com/BerniceZTT/airlab_end/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// OperationLogStore 把管理端操作日志写入 apiOperationLogs 集合
type OperationLogStore struct {
	coll *mongo.Collection
}

// NewOperationLogStore 创建操作日志存储
func NewOperationLogStore(db *mongo.Database) *OperationLogStore {
	return &OperationLogStore{coll: db.Collection(ApiOperationLogsCollection)}
}

// Save 保存一条操作日志
func (s *OperationLogStore) Save(ctx context.Context, log *models.OperationLog) error {
	_, err := s.coll.InsertOne(ctx, log)
	return err
}
