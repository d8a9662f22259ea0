package validation

import (
	"github.com/BerniceZTT/airlab_end/models"
)

// requiredString 必填字符串
func requiredString(field string) Rule {
	return Combine(Required(field), String(field))
}

// requiredURL 必填绝对URL
func requiredURL(field string) Rule {
	return Combine(Required(field), String(field), URL(field))
}

// socialRule social必须是对象，linkedin/email存在时必须是字符串
func socialRule(value any) *ValidationError {
	obj, ok := asObject(value)
	if !ok {
		return &ValidationError{Field: "social", Message: "social must be an object", Code: CodeInvalidType}
	}
	if err := String("social.linkedin")(obj["linkedin"]); err != nil {
		return err
	}
	return String("social.email")(obj["email"])
}

var (
	// ProjectValidator 项目记录
	ProjectValidator = NewRecordValidator(
		Field{"id", requiredString("id")},
		Field{"title", requiredString("title")},
		Field{"description", requiredString("description")},
		Field{"imageUrl", requiredURL("imageUrl")},
		Field{"imageHint", String("imageHint")},
		Field{"tags", Combine(Required("tags"), Array("tags"), Each("tags", String))},
		Field{"status", Combine(Required("status"), OneOf("status", models.ProjectStatuses...))},
		Field{"link", requiredString("link")},
	)

	// TeamMemberValidator 团队成员记录
	TeamMemberValidator = NewRecordValidator(
		Field{"id", requiredString("id")},
		Field{"name", requiredString("name")},
		Field{"role", requiredString("role")},
		Field{"imageUrl", requiredURL("imageUrl")},
		Field{"imageHint", String("imageHint")},
		Field{"bio", requiredString("bio")},
		Field{"social", socialRule},
		Field{"category", OneOf("category", models.TeamCategories...)},
	)

	// NewsItemValidator 新闻记录
	NewsItemValidator = NewRecordValidator(
		Field{"title", requiredString("title")},
		Field{"date", requiredString("date")},
		Field{"link", requiredString("link")},
	)

	// ResearchPaperValidator 研究论文记录
	ResearchPaperValidator = NewRecordValidator(
		Field{"_id", requiredString("_id")},
		Field{"title", requiredString("title")},
		Field{"authors", requiredString("authors")},
		Field{"year", Combine(Required("year"), Integer("year"))},
		Field{"description", requiredString("description")},
		Field{"fileUrl", requiredString("fileUrl")},
		Field{"imageUrl", requiredURL("imageUrl")},
	)
)

var (
	ProjectsValidator       = NewCollectionValidator("projects", "Projects", "project", ProjectValidator)
	TeamMembersValidator    = NewCollectionValidator("team", "Team", "team member", TeamMemberValidator)
	NewsItemsValidator      = NewCollectionValidator("news", "News", "news item", NewsItemValidator)
	ResearchPapersValidator = NewCollectionValidator("research", "Research", "research paper", ResearchPaperValidator)
)

// ForType 返回集合类型对应的集合校验器
func ForType(t models.ContentType) *CollectionValidator {
	switch t {
	case models.ContentProjects:
		return ProjectsValidator
	case models.ContentTeam:
		return TeamMembersValidator
	case models.ContentNews:
		return NewsItemsValidator
	case models.ContentResearch:
		return ResearchPapersValidator
	}
	return nil
}
