package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StreamRequest is the body of a research stream request.
type StreamRequest struct {
	Query    string `json:"query" binding:"required"`
	MaxLoops int    `json:"max_loops"`
}

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)
	api := r.Group("/api")
	{
		api.POST("/research/stream", h.streamResearch)
		api.GET("/research", h.listSessions)
		api.GET("/research/:id", h.getSession)
		api.GET("/research/:id/logs", h.getSessionLogs)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"archived": h.Service.Archived(),
	})
}

// streamResearch runs a session and relays its events over SSE. Each
// event is one `data:` frame; the stream closes after the terminal event
// or when the client disconnects.
func (h *Handler) streamResearch(c *gin.Context) {
	var req StreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Transfer-Encoding", "chunked")

	for event := range h.Service.Stream(c.Request.Context(), req.Query, req.MaxLoops) {
		data, err := json.Marshal(event)
		if err != nil {
			return
		}
		_, _ = c.Writer.Write([]byte("data: "))
		_, _ = c.Writer.Write(data)
		_, _ = c.Writer.Write([]byte("\n\n"))
		c.Writer.Flush()
	}
}

func (h *Handler) listSessions(c *gin.Context) {
	if !h.Service.Archived() {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "session archive is not configured"})
		return
	}
	sessions, err := h.Service.ListSessions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sessions == nil {
		sessions = []SessionRecord{}
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *Handler) getSession(c *gin.Context) {
	if !h.Service.Archived() {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "session archive is not configured"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid"})
		return
	}
	session, err := h.Service.GetSession(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) getSessionLogs(c *gin.Context) {
	if !h.Service.Archived() {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "session archive is not configured"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid"})
		return
	}
	logs, err := h.Service.GetSessionLogs(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if logs == nil {
		logs = []LogEntry{}
	}
	c.JSON(http.StatusOK, logs)
}
