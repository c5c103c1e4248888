package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"research-directory-api/services"

	"github.com/gin-gonic/gin"
)

// GetPublications lists publications with optional title/DOI search.
func GetPublications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	pubs, total, err := services.NewPublicationService(nil).List(c.Query("search"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch publications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"publications": pubs,
		"total":        total,
	})
}

// GetPublication returns one publication with its contributor set.
func GetPublication(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid publication id"})
		return
	}

	pub, err := services.NewPublicationService(nil).Get(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Publication not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch publication"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"publication": pub})
}

// CreatePublication inserts a publication after the same DOI/title-author
// duplicate detection as inline linking. A duplicate hit returns the
// existing record instead of a second copy.
func CreatePublication(c *gin.Context) {
	var input services.PublicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pub, created, err := services.NewPublicationService(nil).Create(input)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create publication"})
		return
	}

	if !created {
		c.JSON(http.StatusConflict, gin.H{
			"message":     "Publication matched an existing record",
			"publication": pub,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Publication created successfully",
		"publication": pub,
	})
}

// UpdatePublication applies the payload to an existing publication and
// recomputes the aggregates of every linked scholar.
func UpdatePublication(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid publication id"})
		return
	}

	var input services.PublicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pub, err := services.NewPublicationService(nil).Update(uint(id), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Publication not found"})
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update publication"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Publication updated successfully",
		"publication": pub,
	})
}

// DeletePublication removes a publication, unlinks its scholars and
// recomputes their aggregates.
func DeletePublication(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid publication id"})
		return
	}

	if err := services.NewPublicationService(nil).Delete(uint(id)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Publication not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete publication"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Publication deleted successfully"})
}
