package loader

import (
	"time"

	"github.com/BerniceZTT/airlab_end/models"
)

const placeholderImage = "https://placehold.co/600x400/e2e8f0/64748b?text=Loading..."

// 每次返回新的切片，调用方修改不会影响占位数据

// FallbackProjects 项目占位数据
func FallbackProjects() []models.Project {
	return []models.Project{{
		ID:          "fallback-1",
		Title:       "Loading Projects...",
		Description: "Project data is currently being loaded. Please check back shortly.",
		ImageURL:    placeholderImage,
		ImageHint:   "loading placeholder",
		Tags:        []string{"Loading"},
		Status:      models.ProjectStatusOngoing,
		Link:        "#",
	}}
}

// FallbackTeam 团队占位数据
func FallbackTeam() []models.TeamMember {
	return []models.TeamMember{{
		ID:        "fallback-1",
		Name:      "Loading Team Information...",
		Role:      "Please check back shortly",
		ImageURL:  "https://placehold.co/400x400/e2e8f0/64748b?text=Loading...",
		ImageHint: "loading placeholder",
		Bio:       "Team information is currently being loaded.",
		Social:    models.Social{},
	}}
}

// FallbackNews 新闻占位数据
func FallbackNews() []models.NewsItem {
	return []models.NewsItem{{
		Title: "Loading Latest News...",
		Date:  "Loading...",
		Link:  "#",
	}}
}

// FallbackResearch 论文占位数据
func FallbackResearch() []models.ResearchPaper {
	return []models.ResearchPaper{{
		ID:          "fallback-1",
		Title:       "Loading Research Papers...",
		Authors:     "Loading...",
		Year:        time.Now().Year(),
		Description: "Research information is currently being loaded.",
		FileURL:     "#",
		ImageURL:    placeholderImage,
	}}
}

// Fallback 按类型返回占位数据
func Fallback(t models.ContentType) any {
	switch t {
	case models.ContentProjects:
		return FallbackProjects()
	case models.ContentTeam:
		return FallbackTeam()
	case models.ContentNews:
		return FallbackNews()
	case models.ContentResearch:
		return FallbackResearch()
	}
	return nil
}
