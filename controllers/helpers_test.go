package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/BerniceZTT/airlab_end/models"
	"github.com/BerniceZTT/airlab_end/repository"
	"github.com/BerniceZTT/airlab_end/utils"
	"github.com/BerniceZTT/airlab_end/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupTeam(t *testing.T) {
	groups := GroupTeam([]models.TeamMember{
		{ID: "1", Category: models.TeamCategoryPioneer},
		{ID: "2"},
		{ID: "3", Category: models.TeamCategoryLeading},
	})

	require.Len(t, groups, 3)
	assert.Len(t, groups[models.TeamCategoryLeading], 2)
	assert.Equal(t, "2", groups[models.TeamCategoryLeading][0].ID)
	assert.Len(t, groups[models.TeamCategoryPioneer], 1)
	assert.NotNil(t, groups[models.TeamCategoryVolunteers])
}

func TestValidateRecordWithoutID(t *testing.T) {
	doc := map[string]any{
		"name":     "Ada",
		"role":     "Director",
		"imageUrl": "https://img.example.com/a.png",
		"bio":      "Leads the lab",
		"social":   map[string]any{},
	}

	errs := validateRecord(models.ContentTeam, doc)
	require.Len(t, errs, 1)
	assert.Equal(t, "id", errs[0].Field)
	assert.Empty(t, withoutField(errs, "id"))
	// 原切片不受影响
	assert.Len(t, errs, 1)
}

func TestFilterByCategory(t *testing.T) {
	docs := []map[string]any{
		{"id": "1", "category": "pioneer"},
		{"id": "2"},
		{"id": "3", "category": "volunteers"},
	}

	assert.Equal(t, []map[string]any{{"id": "2"}}, filterByCategory(docs, "leading"))
	assert.Len(t, filterByCategory(docs, "volunteers"), 1)
	assert.True(t, validCategory("pioneer"))
	assert.False(t, validCategory("alumni"))
}

func TestStoreError(t *testing.T) {
	err := storeError(models.ContentNews, repository.ErrNotFound)
	assert.Contains(t, err.Error(), "not found")

	dup := storeError(models.ContentProjects, fmt.Errorf("projects 1: %w", repository.ErrDuplicateID))
	var apiErr *utils.ApiError
	require.ErrorAs(t, dup, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "DUPLICATE_ID", apiErr.ErrorCode)

	other := validation.ValidationError{Message: "x"}
	assert.Equal(t, other, storeError(models.ContentNews, other))
}
