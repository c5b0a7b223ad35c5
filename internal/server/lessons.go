package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ndemidov/ai-mentor/internal/auth"
	"github.com/ndemidov/ai-mentor/internal/storage"
	"go.uber.org/zap"
)

type LessonStateRequest struct {
	HTML string `json:"html" binding:"required"`
}

// GetLesson returns the caller's saved lesson content for a title.
func (s *Server) GetLesson(c *gin.Context) {
	userID := c.GetInt64(auth.ContextUserID)
	title := c.Param("title")

	html, err := s.lessons.Get(c.Request.Context(), userID, title)
	if err != nil {
		if errors.Is(err, storage.ErrLessonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not started"})
			return
		}
		s.logger.Error("Failed to load lesson state", zap.Error(err), zap.String("title", title))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading lesson"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"title": title, "html": html})
}

// SaveLesson stores generated lesson content under a title.
func (s *Server) SaveLesson(c *gin.Context) {
	userID := c.GetInt64(auth.ContextUserID)
	title := c.Param("title")

	var req LessonStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Lesson content is required"})
		return
	}

	if err := s.lessons.Save(c.Request.Context(), userID, title, req.HTML); err != nil {
		s.logger.Error("Failed to save lesson state", zap.Error(err), zap.String("title", title))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving lesson"})
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteLesson removes saved lesson content when a lesson is finished.
func (s *Server) DeleteLesson(c *gin.Context) {
	userID := c.GetInt64(auth.ContextUserID)
	title := c.Param("title")

	if err := s.lessons.Delete(c.Request.Context(), userID, title); err != nil {
		s.logger.Error("Failed to delete lesson state", zap.Error(err), zap.String("title", title))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error removing lesson"})
		return
	}

	c.Status(http.StatusNoContent)
}
