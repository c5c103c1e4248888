package controllers

import (
	"net/http"
	"strconv"

	"research-directory-api/config"
	"research-directory-api/models"
	"research-directory-api/services"
	"research-directory-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetKeywords lists keywords, by default only approved ones.
func GetKeywords(c *gin.Context) {
	q := config.DB.Model(&models.Keyword{})
	if c.DefaultQuery("approved", "true") == "true" {
		q = q.Where("is_approved = ?", true)
	}
	if search := utils.NormalizeName(c.Query("search")); search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}

	var keywords []models.Keyword
	if err := q.Order("name ASC").Find(&keywords).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch keywords"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"keywords": keywords})
}

// CreateKeyword creates a keyword through the direct CRUD endpoint. A
// normalized-name collision is a conflict here, unlike inline linking where
// it degrades to a warning.
func CreateKeyword(c *gin.Context) {
	var input services.KeywordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	normalized := utils.NormalizeName(input.Name)
	if normalized == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Keyword name is required"})
		return
	}

	display := input.DisplayName
	if display == "" {
		display = input.Name
	}
	slug := utils.Slugify(input.Slug)
	if slug == "" {
		slug = utils.Slugify(display)
	}

	keyword := models.Keyword{
		Name:        normalized,
		DisplayName: display,
		Slug:        slug,
		Aliases:     input.Aliases,
		Description: input.Description,
		IsApproved:  input.IsApproved,
	}

	if err := config.DB.Create(&keyword).Error; err != nil {
		if services.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "A keyword with this name or slug already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create keyword"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Keyword created successfully",
		"keyword": keyword,
	})
}

// UpdateKeyword updates display fields and the approval flag.
func UpdateKeyword(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid keyword id"})
		return
	}

	var keyword models.Keyword
	if err := config.DB.Where("keyword_id = ?", uint(id)).First(&keyword).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Keyword not found"})
		return
	}

	var input services.KeywordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != "" {
		keyword.Name = utils.NormalizeName(input.Name)
	}
	if input.DisplayName != "" {
		keyword.DisplayName = input.DisplayName
	}
	if slug := utils.Slugify(input.Slug); slug != "" {
		keyword.Slug = slug
	}
	if input.Aliases != nil {
		keyword.Aliases = input.Aliases
	}
	if input.Description != nil {
		keyword.Description = input.Description
	}
	keyword.IsApproved = input.IsApproved

	if err := config.DB.Save(&keyword).Error; err != nil {
		if services.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "A keyword with this name or slug already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update keyword"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Keyword updated successfully",
		"keyword": keyword,
	})
}

// DeleteKeyword removes a keyword together with its scholar links.
func DeleteKeyword(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid keyword id"})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := services.NewReferenceReconciler(tx).RemoveKeywordLinks(uint(id)); err != nil {
			return err
		}
		return tx.Where("keyword_id = ?", uint(id)).Delete(&models.Keyword{}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete keyword"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Keyword deleted successfully"})
}
