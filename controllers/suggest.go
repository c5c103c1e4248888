package controllers

import (
	"net/http"
	"strconv"

	"research-directory-api/config"
	"research-directory-api/models"
	"research-directory-api/utils"

	"github.com/gin-gonic/gin"
)

type suggestion struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// GetSuggestions returns prefix matches over scholar and keyword normalized
// names for the public search box.
func GetSuggestions(c *gin.Context) {
	prefix := utils.NormalizeName(c.Query("q"))
	if prefix == "" {
		c.JSON(http.StatusOK, gin.H{"suggestions": []suggestion{}})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 25 {
		limit = 10
	}

	like := prefix + "%"
	suggestions := []suggestion{}

	var scholars []models.Scholar
	if err := config.DB.Select("full_name, slug").
		Where("normalized_name LIKE ?", like).
		Order("normalized_name ASC").
		Limit(limit).
		Find(&scholars).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch suggestions"})
		return
	}
	for _, s := range scholars {
		suggestions = append(suggestions, suggestion{Kind: "scholar", Label: s.FullName, Slug: s.Slug})
	}

	var keywords []models.Keyword
	if err := config.DB.Select("display_name, slug").
		Where("name LIKE ? AND is_approved = ?", like, true).
		Order("name ASC").
		Limit(limit).
		Find(&keywords).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch suggestions"})
		return
	}
	for _, kw := range keywords {
		suggestions = append(suggestions, suggestion{Kind: "keyword", Label: kw.DisplayName, Slug: kw.Slug})
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
