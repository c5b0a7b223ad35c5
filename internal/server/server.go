// Package server exposes the HTTP API: the vendor-wrapping /chat and
// /speech endpoints the session layer talks to, and the account
// endpoints (register, login, balance).
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/ndemidov/ai-mentor/internal/ai"
	"github.com/ndemidov/ai-mentor/internal/auth"
	"github.com/ndemidov/ai-mentor/internal/storage"
	"go.uber.org/zap"
)

type Server struct {
	storage     storage.Storage
	lessons     storage.LessonStore
	responder   ai.Responder
	speaker     ai.Speaker
	jwtSecret   []byte
	startTokens int
	logger      *zap.Logger
}

func New(storage storage.Storage, lessons storage.LessonStore, responder ai.Responder, speaker ai.Speaker, jwtSecret []byte, startTokens int, logger *zap.Logger) *Server {
	return &Server{
		storage:     storage,
		lessons:     lessons,
		responder:   responder,
		speaker:     speaker,
		jwtSecret:   jwtSecret,
		startTokens: startTokens,
		logger:      logger,
	}
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.POST("/register", s.Register)
		api.POST("/login", s.Login)

		authed := api.Group("/")
		authed.Use(auth.Middleware(s.jwtSecret))
		{
			authed.GET("/balance", s.Balance)
			authed.POST("/chat", s.Chat)
			authed.POST("/speech", s.Speech)
			authed.GET("/lessons/:title", s.GetLesson)
			authed.PUT("/lessons/:title", s.SaveLesson)
			authed.DELETE("/lessons/:title", s.DeleteLesson)
		}
	}

	return router
}
