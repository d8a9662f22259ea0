package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BerniceZTT/airlab_end/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore 一个内容集合对应一个MongoDB集合
type MongoStore struct {
	coll    *mongo.Collection
	idField string
	retries int
}

// NewMongoStore 创建Mongo存储
func NewMongoStore(db *mongo.Database, name, idField string) *MongoStore {
	return &MongoStore{
		coll:    db.Collection(name),
		idField: idField,
		retries: 3,
	}
}

func (s *MongoStore) Raw(ctx context.Context) (any, error) {
	docs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	raw := make([]any, len(docs))
	for i, doc := range docs {
		raw[i] = doc
	}
	return raw, nil
}

func (s *MongoStore) List(ctx context.Context) ([]map[string]any, error) {
	return ExecuteDbOperation(ctx, func(ctx context.Context) ([]map[string]any, error) {
		cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}}))
		if err != nil {
			return nil, fmt.Errorf("查询%s失败: %w", s.coll.Name(), err)
		}
		defer cursor.Close(ctx)

		var raw []bson.M
		if err := cursor.All(ctx, &raw); err != nil {
			return nil, fmt.Errorf("解码%s失败: %w", s.coll.Name(), err)
		}
		docs := make([]map[string]any, len(raw))
		for i, doc := range raw {
			docs[i] = s.fromBSON(doc)
		}
		return docs, nil
	}, s.retries)
}

func (s *MongoStore) Get(ctx context.Context, id string) (map[string]any, error) {
	return ExecuteDbOperation(ctx, func(ctx context.Context) (map[string]any, error) {
		var doc bson.M
		err := s.coll.FindOne(ctx, bson.M{s.idField: id}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s %s: %w", s.coll.Name(), id, ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
		return s.fromBSON(doc), nil
	}, s.retries)
}

func (s *MongoStore) Create(ctx context.Context, doc map[string]any) (map[string]any, error) {
	existing, err := s.ids(ctx)
	if err != nil {
		return nil, err
	}
	created := ensureID(existing, doc, s.idField)

	_, err = ExecuteDbOperation(ctx, func(ctx context.Context) (*mongo.InsertOneResult, error) {
		return s.coll.InsertOne(ctx, bson.M(created))
	}, s.retries)
	if mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("%s %v: %w", s.coll.Name(), created[s.idField], ErrDuplicateID)
	}
	if err != nil {
		return nil, fmt.Errorf("写入%s失败: %w", s.coll.Name(), err)
	}
	utils.LogDbOperation("insertOne", s.coll.Name(), bson.M{s.idField: created[s.idField]}, nil)
	return created, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, doc map[string]any) (map[string]any, error) {
	updated := withID(doc, s.idField, id)
	res, err := ExecuteDbOperation(ctx, func(ctx context.Context) (*mongo.UpdateResult, error) {
		return s.coll.ReplaceOne(ctx, bson.M{s.idField: id}, bson.M(updated))
	}, s.retries)
	if err != nil {
		return nil, fmt.Errorf("更新%s失败: %w", s.coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%s %s: %w", s.coll.Name(), id, ErrNotFound)
	}
	utils.LogDbOperation("replaceOne", s.coll.Name(), bson.M{s.idField: id}, res.ModifiedCount)
	return updated, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := ExecuteDbOperation(ctx, func(ctx context.Context) (*mongo.DeleteResult, error) {
		return s.coll.DeleteOne(ctx, bson.M{s.idField: id})
	}, s.retries)
	if err != nil {
		return fmt.Errorf("删除%s失败: %w", s.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s %s: %w", s.coll.Name(), id, ErrNotFound)
	}
	utils.LogDbOperation("deleteOne", s.coll.Name(), bson.M{s.idField: id}, res.DeletedCount)
	return nil
}

// ReplaceAll 清空集合后批量写入，seed使用
func (s *MongoStore) ReplaceAll(ctx context.Context, docs []map[string]any) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("清空%s失败: %w", s.coll.Name(), err)
	}
	if len(docs) == 0 {
		return nil
	}
	batch := make([]interface{}, len(docs))
	for i, doc := range docs {
		batch[i] = bson.M(doc)
	}
	if _, err := s.coll.InsertMany(ctx, batch); err != nil {
		return fmt.Errorf("写入%s失败: %w", s.coll.Name(), err)
	}
	return nil
}

// ids 只取主键字段，用于分配新ID
func (s *MongoStore) ids(ctx context.Context) ([]map[string]any, error) {
	return ExecuteDbOperation(ctx, func(ctx context.Context) ([]map[string]any, error) {
		cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{s.idField: 1}))
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var raw []bson.M
		if err := cursor.All(ctx, &raw); err != nil {
			return nil, err
		}
		docs := make([]map[string]any, len(raw))
		for i, doc := range raw {
			docs[i] = s.fromBSON(doc)
		}
		return docs, nil
	}, s.retries)
}

// fromBSON 转成普通map；主键不是 _id 的集合去掉Mongo自动生成的 _id
func (s *MongoStore) fromBSON(doc bson.M) map[string]any {
	out := normalizeDocument(doc)
	if s.idField != "_id" {
		delete(out, "_id")
	}
	return out
}

// normalizeDocument 把BSON解码出的类型换成JSON解码会得到的普通类型，校验器按同一套规则处理
func normalizeDocument(doc bson.M) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case bson.M:
		return normalizeDocument(val)
	case map[string]any:
		return normalizeDocument(bson.M(val))
	case bson.D:
		m := make(map[string]any, len(val))
		for _, e := range val {
			m[e.Key] = normalizeValue(e.Value)
		}
		return m
	case bson.A:
		arr := make([]any, len(val))
		for i, item := range val {
			arr[i] = normalizeValue(item)
		}
		return arr
	case []any:
		arr := make([]any, len(val))
		for i, item := range val {
			arr[i] = normalizeValue(item)
		}
		return arr
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC().Format(time.RFC3339)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	}
	return v
}
