package controllers

import (
	"fmt"
	"html"
	"log"
	"net/http"
	"os"
	"strconv"

	"research-directory-api/config"
	"research-directory-api/models"
	"research-directory-api/utils"

	"github.com/gin-gonic/gin"
)

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Subject string `json:"subject"`
	Body    string `json:"body" binding:"required"`
}

// SubmitContactMessage stores a public contact-form message and notifies the
// administrators by mail. Mail failure is logged but does not fail the
// submission.
func SubmitContactMessage(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Email = utils.SanitizeInput(req.Email)
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	msg := models.ContactMessage{
		Name:    utils.SanitizeInput(req.Name),
		Email:   req.Email,
		Subject: utils.SanitizeInput(req.Subject),
		Body:    utils.SanitizeInput(req.Body),
	}
	if err := config.DB.Create(&msg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}

	if notify := os.Getenv("CONTACT_NOTIFY_EMAIL"); notify != "" {
		body := fmt.Sprintf("<p>New contact message from %s (%s)</p><p>%s</p>",
			html.EscapeString(msg.Name), html.EscapeString(msg.Email), html.EscapeString(msg.Body))
		if err := config.SendMail([]string{notify}, "New contact message", body); err != nil {
			log.Printf("Warning: failed to send contact notification: %v", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Message received"})
}

// GetContactMessages lists contact messages for administrators.
func GetContactMessages(c *gin.Context) {
	q := config.DB.Model(&models.ContactMessage{})
	if c.Query("handled") == "false" {
		q = q.Where("handled = ?", false)
	}

	var messages []models.ContactMessage
	if err := q.Order("created_at DESC").Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// MarkContactMessageHandled flags a message as triaged.
func MarkContactMessageHandled(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message id"})
		return
	}

	res := config.DB.Model(&models.ContactMessage{}).
		Where("message_id = ?", uint(id)).
		Update("handled", true)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update message"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message marked as handled"})
}
