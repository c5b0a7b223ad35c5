package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

type SpeechRequest struct {
	Text string `json:"text"`
}

// Chat forwards a prompt to the AI vendor and returns its answer.
// The response contract is {"response": ...} on success and
// {"error": ...} with a non-2xx status on every failure.
func (s *Server) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A message is required"})
		return
	}

	if s.responder == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI service is not configured. Please contact the administrator."})
		return
	}

	answer, err := s.responder.Respond(c.Request.Context(), req.Message)
	if err != nil {
		s.logger.Error("AI response failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get an AI response. Please try again later."})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Response: answer})
}

// Speech converts text to narration audio. Success is raw audio/mpeg
// bytes; failures are JSON {"error": ...} with a non-2xx status.
func (s *Server) Speech(c *gin.Context) {
	var req SpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required"})
		return
	}

	if s.speaker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Speech service is not configured. Please contact the administrator."})
		return
	}

	audio, err := s.speaker.Synthesize(c.Request.Context(), req.Text)
	if err != nil {
		s.logger.Error("Speech synthesis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert text to speech"})
		return
	}

	c.Data(http.StatusOK, "audio/mpeg", audio)
}
