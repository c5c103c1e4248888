package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"research-directory-api/config"
	"research-directory-api/models"
	"research-directory-api/monitor"
	"research-directory-api/services"
	"research-directory-api/utils"

	"github.com/gin-gonic/gin"
)

// CreateScholar creates a scholar together with its keyword and publication
// links in one transaction. Warnings about deduplicated or skipped inputs
// come back alongside the created record.
func CreateScholar(c *gin.Context) {
	var input services.ScholarInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scholar, result, err := services.NewScholarWriteService(nil).Create(input)
	if err != nil {
		monitor.ScholarWrites.WithLabelValues("create", "failed").Inc()
		respondScholarWriteError(c, err)
		return
	}

	monitor.ScholarWrites.WithLabelValues("create", "created").Inc()
	monitor.LinkWarnings.Add(float64(len(result.Warnings)))

	c.JSON(http.StatusCreated, gin.H{
		"message": "Scholar created successfully",
		"scholar": scholar,
		"result":  result,
	})
}

// UpdateScholar applies scalar changes and replaces the scholar's link sets.
func UpdateScholar(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scholar id"})
		return
	}

	var input services.ScholarInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scholar, result, err := services.NewScholarWriteService(nil).Update(uint(id), input)
	if err != nil {
		monitor.ScholarWrites.WithLabelValues("update", "failed").Inc()
		respondScholarWriteError(c, err)
		return
	}

	monitor.ScholarWrites.WithLabelValues("update", "updated").Inc()
	monitor.LinkWarnings.Add(float64(len(result.Warnings)))

	c.JSON(http.StatusOK, gin.H{
		"message": "Scholar updated successfully",
		"scholar": scholar,
		"result":  result,
	})
}

// GetScholars lists scholars with optional normalized-name search.
func GetScholars(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	q := config.DB.Model(&models.Scholar{})
	if search := utils.NormalizeName(c.Query("search")); search != "" {
		q = q.Where("normalized_name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count scholars"})
		return
	}

	var scholars []models.Scholar
	if err := q.Order("normalized_name ASC").Limit(limit).Offset(offset).Find(&scholars).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch scholars"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scholars": scholars,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetScholar returns one scholar by numeric id or slug, with keyword and
// publication references populated.
func GetScholar(c *gin.Context) {
	ref := c.Param("id")

	q := config.DB.Preload("Keywords").Preload("Publications")
	if id, err := strconv.ParseUint(ref, 10, 32); err == nil {
		q = q.Where("scholar_id = ?", uint(id))
	} else {
		q = q.Where("slug = ?", strings.TrimSpace(ref))
	}

	var scholar models.Scholar
	if err := q.First(&scholar).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scholar not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"scholar": scholar})
}

// DeleteScholar removes a scholar and all of its link rows. Linked
// publications are kept.
func DeleteScholar(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scholar id"})
		return
	}

	if err := services.NewScholarWriteService(nil).Delete(uint(id)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Scholar not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete scholar"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Scholar deleted successfully"})
}

func respondScholarWriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save scholar"})
	}
}
