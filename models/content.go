package models

// ContentType 内容集合类型
type ContentType string

const (
	ContentProjects ContentType = "projects"
	ContentTeam     ContentType = "team"
	ContentNews     ContentType = "news"
	ContentResearch ContentType = "research"
)

// AllContentTypes 所有内容集合，顺序固定
var AllContentTypes = []ContentType{ContentProjects, ContentTeam, ContentNews, ContentResearch}

// ParseContentType 解析路径参数中的集合类型
func ParseContentType(s string) (ContentType, bool) {
	for _, t := range AllContentTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// IDField 返回该集合使用的主键字段名，研究论文沿用 _id
func (t ContentType) IDField() string {
	if t == ContentResearch {
		return "_id"
	}
	return "id"
}

// ProjectStatus 项目状态枚举
type ProjectStatus string

const (
	ProjectStatusOngoing       ProjectStatus = "Ongoing"
	ProjectStatusCompleted     ProjectStatus = "Completed"
	ProjectStatusResearchPhase ProjectStatus = "Research Phase"
)

// ProjectStatuses 允许的项目状态
var ProjectStatuses = []ProjectStatus{ProjectStatusOngoing, ProjectStatusCompleted, ProjectStatusResearchPhase}

// TeamCategory 团队成员分组
type TeamCategory string

const (
	TeamCategoryLeading    TeamCategory = "leading"
	TeamCategoryPioneer    TeamCategory = "pioneer"
	TeamCategoryVolunteers TeamCategory = "volunteers"
)

// TeamCategories 允许的团队分组
var TeamCategories = []TeamCategory{TeamCategoryLeading, TeamCategoryPioneer, TeamCategoryVolunteers}

// Project 项目
type Project struct {
	ID          string        `json:"id" bson:"id" mapstructure:"id"`
	Title       string        `json:"title" bson:"title" mapstructure:"title"`
	Description string        `json:"description" bson:"description" mapstructure:"description"`
	ImageURL    string        `json:"imageUrl" bson:"imageUrl" mapstructure:"imageUrl"`
	ImageHint   string        `json:"imageHint,omitempty" bson:"imageHint,omitempty" mapstructure:"imageHint"`
	Tags        []string      `json:"tags" bson:"tags" mapstructure:"tags"`
	Status      ProjectStatus `json:"status" bson:"status" mapstructure:"status"`
	Link        string        `json:"link" bson:"link" mapstructure:"link"`
}

// Social 社交链接
type Social struct {
	LinkedIn string `json:"linkedin,omitempty" bson:"linkedin,omitempty" mapstructure:"linkedin"`
	Email    string `json:"email,omitempty" bson:"email,omitempty" mapstructure:"email"`
}

// TeamMember 团队成员
type TeamMember struct {
	ID        string       `json:"id" bson:"id" mapstructure:"id"`
	Name      string       `json:"name" bson:"name" mapstructure:"name"`
	Role      string       `json:"role" bson:"role" mapstructure:"role"`
	ImageURL  string       `json:"imageUrl" bson:"imageUrl" mapstructure:"imageUrl"`
	ImageHint string       `json:"imageHint,omitempty" bson:"imageHint,omitempty" mapstructure:"imageHint"`
	Bio       string       `json:"bio" bson:"bio" mapstructure:"bio"`
	Social    Social       `json:"social" bson:"social" mapstructure:"social"`
	Category  TeamCategory `json:"category,omitempty" bson:"category,omitempty" mapstructure:"category"`
}

// NewsItem 新闻条目，ID 只在管理端写入时分配
type NewsItem struct {
	ID    string `json:"id,omitempty" bson:"id,omitempty" mapstructure:"id"`
	Title string `json:"title" bson:"title" mapstructure:"title"`
	Date  string `json:"date" bson:"date" mapstructure:"date"`
	Link  string `json:"link" bson:"link" mapstructure:"link"`
}

// ResearchPaper 研究论文
type ResearchPaper struct {
	ID          string `json:"_id" bson:"_id" mapstructure:"_id"`
	Title       string `json:"title" bson:"title" mapstructure:"title"`
	Authors     string `json:"authors" bson:"authors" mapstructure:"authors"`
	Year        int    `json:"year" bson:"year" mapstructure:"year"`
	Description string `json:"description" bson:"description" mapstructure:"description"`
	FileURL     string `json:"fileUrl" bson:"fileUrl" mapstructure:"fileUrl"`
	ImageURL    string `json:"imageUrl" bson:"imageUrl" mapstructure:"imageUrl"`
}
