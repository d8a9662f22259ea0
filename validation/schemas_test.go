package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/airlab_end/models"
)

func validProject() map[string]any {
	return map[string]any{
		"id":          "p1",
		"title":       "X",
		"description": "Y",
		"imageUrl":    "https://x/y.png",
		"tags":        []any{"AI"},
		"status":      "Ongoing",
		"link":        "/x",
	}
}

func validTeamMember() map[string]any {
	return map[string]any{
		"id":       "t1",
		"name":     "Ada",
		"role":     "Lead",
		"imageUrl": "https://x/ada.png",
		"bio":      "Bio",
		"social":   map[string]any{"linkedin": "https://linkedin.com/in/ada"},
	}
}

func validNewsItem() map[string]any {
	return map[string]any{"title": "Launch", "date": "May 2024", "link": "/news/launch"}
}

func validResearchPaper() map[string]any {
	return map[string]any{
		"_id":         "r1",
		"title":       "Paper",
		"authors":     "A, B",
		"year":        2024.0,
		"description": "About",
		"fileUrl":     "/uploads/paper.pdf",
		"imageUrl":    "https://x/paper.png",
	}
}

func TestEntityValidatorsAcceptValidRecords(t *testing.T) {
	tests := []struct {
		name   string
		v      Validator
		record map[string]any
	}{
		{"project", ProjectValidator, validProject()},
		{"team member", TeamMemberValidator, validTeamMember()},
		{"news item", NewsItemValidator, validNewsItem()},
		{"research paper", ResearchPaperValidator, validResearchPaper()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.v.IsValid(tt.record))
			assert.Empty(t, tt.v.GetErrors(tt.record))
		})
	}
}

func TestEntityValidatorsReportMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		v      Validator
		record map[string]any
		fields []string
	}{
		{"project", ProjectValidator, validProject(), []string{"id", "title", "description", "imageUrl", "tags", "status", "link"}},
		{"team member", TeamMemberValidator, validTeamMember(), []string{"id", "name", "role", "imageUrl", "bio"}},
		{"news item", NewsItemValidator, validNewsItem(), []string{"title", "date", "link"}},
		{"research paper", ResearchPaperValidator, validResearchPaper(), []string{"_id", "title", "authors", "year", "description", "fileUrl", "imageUrl"}},
	}

	for _, tt := range tests {
		for _, field := range tt.fields {
			t.Run(tt.name+"/"+field, func(t *testing.T) {
				record := map[string]any{}
				for k, v := range tt.record {
					record[k] = v
				}
				delete(record, field)

				errs := tt.v.GetErrors(record)
				require.NotEmpty(t, errs)
				assert.Contains(t, errs, ValidationError{Field: field, Message: field + " is required", Code: CodeRequired})
			})
		}
	}
}

func TestProjectValidatorRejectsUnknownStatus(t *testing.T) {
	record := validProject()
	record["status"] = "Paused"

	errs := ProjectValidator.GetErrors(record)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeInvalidValue, errs[0].Code)
}

func TestResearchPaperValidatorRejectsFractionalYear(t *testing.T) {
	record := validResearchPaper()
	record["year"] = 2023.5

	errs := ResearchPaperValidator.GetErrors(record)
	require.Len(t, errs, 1)
	assert.Equal(t, ValidationError{Field: "year", Message: "year must be an integer", Code: CodeInvalidType}, errs[0])

	result := Validate[[]models.ResearchPaper](ResearchPapersValidator, []any{record})
	assert.False(t, result.OK())
	assert.Empty(t, result.Value)
}

func TestTeamMemberSocialRules(t *testing.T) {
	record := validTeamMember()
	record["social"] = "ada@lab"
	errs := TeamMemberValidator.GetErrors(record)
	require.Len(t, errs, 1)
	assert.Equal(t, "social", errs[0].Field)

	record["social"] = map[string]any{"email": 12.0}
	errs = TeamMemberValidator.GetErrors(record)
	require.Len(t, errs, 1)
	assert.Equal(t, "social.email", errs[0].Field)

	record["social"] = map[string]any{}
	assert.True(t, TeamMemberValidator.IsValid(record))
}

func TestTeamMemberCategoryIsOptionalButChecked(t *testing.T) {
	record := validTeamMember()
	record["category"] = "pioneer"
	assert.True(t, TeamMemberValidator.IsValid(record))

	record["category"] = "alumni"
	assert.False(t, TeamMemberValidator.IsValid(record))
}

func TestCollectionValidatorReportsBadIndex(t *testing.T) {
	bad := validProject()
	delete(bad, "link")
	data := []any{validProject(), validProject(), bad, validProject()}

	errs := ProjectsValidator.GetErrors(data)
	require.Len(t, errs, 1)
	assert.Equal(t, "projects[2]", errs[0].Field)
	assert.Equal(t, CodeInvalidItem, errs[0].Code)
	assert.Equal(t, "Invalid project at index 2: link is required", errs[0].Message)
}

func TestForType(t *testing.T) {
	assert.Same(t, ProjectsValidator, ForType(models.ContentProjects))
	assert.Same(t, TeamMembersValidator, ForType(models.ContentTeam))
	assert.Same(t, NewsItemsValidator, ForType(models.ContentNews))
	assert.Same(t, ResearchPapersValidator, ForType(models.ContentResearch))
	assert.Nil(t, ForType("events"))
}

func TestValidateDecodesTypedCollection(t *testing.T) {
	result := Validate[[]models.ResearchPaper](ResearchPapersValidator, []any{validResearchPaper()})

	require.True(t, result.OK())
	require.Len(t, result.Value, 1)
	assert.Equal(t, "r1", result.Value[0].ID)
	assert.Equal(t, 2024, result.Value[0].Year)
}

func TestValidateDecodesNestedSocial(t *testing.T) {
	result := Validate[models.TeamMember](TeamMemberValidator, validTeamMember())

	require.True(t, result.OK())
	assert.Equal(t, "https://linkedin.com/in/ada", result.Value.Social.LinkedIn)
	assert.Empty(t, result.Value.Social.Email)
}

func TestValidateSkipsDecodeOnFailure(t *testing.T) {
	result := Validate[[]models.Project](ProjectsValidator, []any{map[string]any{"id": "p1", "title": "X"}})

	assert.False(t, result.OK())
	assert.Nil(t, result.Value)
}
