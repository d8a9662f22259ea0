package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/BerniceZTT/airlab_end/models"
	"github.com/BerniceZTT/airlab_end/utils"
)

// DefaultInvalidationChannel 缓存失效消息的Redis频道
const DefaultInvalidationChannel = "airlab:content:invalidate"

// ContentInvalidator 内容写入后通知缓存失效
type ContentInvalidator interface {
	InvalidateContent(ctx context.Context, types ...models.ContentType)
}

// cacheTarget 本地缓存，一般是 loader.DataLoader
type cacheTarget interface {
	Invalidate(types ...models.ContentType)
}

// invalidationMessage 频道中的消息体
type invalidationMessage struct {
	Origin      string               `json:"origin"`
	Collections []models.ContentType `json:"collections"`
	SentAt      time.Time            `json:"sentAt"`
}

// InvalidationBus 先失效本实例的缓存，配置了Redis时再广播给其他实例
type InvalidationBus struct {
	target         cacheTarget
	client         *redis.Client
	channel        string
	origin         string
	publishTimeout time.Duration
}

// NewInvalidationBus 创建失效总线。client为nil时只处理本实例
func NewInvalidationBus(target cacheTarget, client *redis.Client, channel string) *InvalidationBus {
	if channel == "" {
		channel = DefaultInvalidationChannel
	}
	return &InvalidationBus{
		target:         target,
		client:         client,
		channel:        channel,
		origin:         uuid.NewString(),
		publishTimeout: 3 * time.Second,
	}
}

// InvalidateContent 失效本地缓存并广播。广播失败只记录日志，其他实例依靠TTL兜底
func (b *InvalidationBus) InvalidateContent(ctx context.Context, types ...models.ContentType) {
	if len(types) == 0 {
		return
	}
	b.target.Invalidate(types...)

	if b.client == nil {
		return
	}
	if err := b.publish(ctx, types); err != nil {
		utils.Logger.Error().Err(err).Str("channel", b.channel).Msg("[缓存失效] 广播失败")
	}
}

func (b *InvalidationBus) publish(ctx context.Context, types []models.ContentType) error {
	payload, err := json.Marshal(invalidationMessage{
		Origin:      b.origin,
		Collections: types,
		SentAt:      time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, b.publishTimeout)
	defer cancel()
	if err := b.client.Publish(pubCtx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Listen 订阅频道并处理其他实例发来的失效消息，阻塞到ctx结束
func (b *InvalidationBus) Listen(ctx context.Context) error {
	if b.client == nil {
		return nil
	}

	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	// 等待订阅确认
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	utils.Logger.Info().Str("channel", b.channel).Msg("[缓存失效] 已订阅失效频道")

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.handle(msg.Payload)
		}
	}
}

func (b *InvalidationBus) handle(payload string) {
	var msg invalidationMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		utils.Logger.Warn().Err(err).Str("payload", payload).Msg("[缓存失效] 无法解析消息")
		return
	}
	if msg.Origin == b.origin {
		return
	}

	types := make([]models.ContentType, 0, len(msg.Collections))
	for _, t := range msg.Collections {
		if parsed, ok := models.ParseContentType(string(t)); ok {
			types = append(types, parsed)
		}
	}
	if len(types) == 0 {
		return
	}
	b.target.Invalidate(types...)
	utils.Logger.Info().Str("origin", msg.Origin).Interface("collections", types).Msg("[缓存失效] 收到其他实例的失效通知")
}
