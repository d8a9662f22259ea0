package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/BerniceZTT/airlab_end/utils"
)

// StoreSource 把 DocumentStore 适配为内容加载来源
type StoreSource struct {
	Store DocumentStore
}

// Load 返回集合的原始数据
func (s StoreSource) Load(ctx context.Context) (any, error) {
	return s.Store.Raw(ctx)
}

// newsDateLayout 新闻日期的展示格式，与数据文件中一致
const newsDateLayout = "January 2, 2006"

// FeedSource 从RSS/Atom订阅读取新闻，条目转换为新闻记录的原始结构
type FeedSource struct {
	URL      string
	MaxItems int
	Timeout  time.Duration
	Client   *http.Client
}

// Load 拉取并解析订阅。没有可用链接或日期的条目会被跳过
func (s FeedSource) Load(ctx context.Context) (any, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	parser := gofeed.NewParser()
	if s.Client != nil {
		parser.Client = s.Client
	}
	feed, err := parser.ParseURLWithContext(s.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	items := make([]any, 0, len(feed.Items))
	for _, item := range feed.Items {
		if s.MaxItems > 0 && len(items) >= s.MaxItems {
			break
		}
		link := feedItemLink(item)
		date := feedItemDate(item)
		if link == "" || date == "" {
			continue
		}
		record := map[string]any{
			"title": strings.TrimSpace(item.Title),
			"date":  date,
			"link":  link,
		}
		if item.GUID != "" {
			record["id"] = item.GUID
		}
		items = append(items, record)
	}

	utils.Logger.Debug().Str("url", s.URL).Int("items", len(items)).Msg("[新闻订阅] 拉取完成")
	return items, nil
}

// feedItemLink 优先使用Link，GUID是URL时作为备选
func feedItemLink(item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}
	if strings.HasPrefix(item.GUID, "http") {
		return item.GUID
	}
	return ""
}

func feedItemDate(item *gofeed.Item) string {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.Format(newsDateLayout)
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.Format(newsDateLayout)
	case item.Published != "":
		return strings.TrimSpace(item.Published)
	}
	return strings.TrimSpace(item.Updated)
}
