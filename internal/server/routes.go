package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// sessionCookie carries the conversation identity across requests.
const sessionCookie = "fd_session"

// cookieMaxAge keeps the session cookie for a day; the idle sweeper ends
// stale conversations long before that.
const cookieMaxAge = 24 * 60 * 60

// registerRoutes sets up all chat routes on the Gin router.
func registerRoutes(router *gin.Engine, chat ChatService) {
	router.GET("/", handleIndex())
	router.GET("/healthz", handleHealth())
	router.POST("/chat", handleChat(chat))
	router.POST("/chat/reset", handleReset(chat))
}

func handleIndex() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "chat.html", gin.H{})
	}
}

func handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// chatRequest is the inbound turn payload. A missing message field is
// treated as an empty string, which fails every rule and reaches the
// classifier fallback.
type chatRequest struct {
	Message string `json:"message"`
}

func handleChat(chat ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}

		key := sessionKey(c)

		reply, err := chat.Turn(c.Request.Context(), key, req.Message)
		if err != nil {
			// Collaborator failures are operational faults, not
			// conversation content.
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"reply": reply})
	}
}

// handleReset is the external reset signal: a new conversation starts
// for this session key.
func handleReset(chat ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := sessionKey(c)
		if err := chat.Reset(key); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "reset"})
	}
}

// sessionKey returns the conversation identity from the session cookie,
// minting one on first contact.
func sessionKey(c *gin.Context) string {
	if key, err := c.Cookie(sessionCookie); err == nil && key != "" {
		return key
	}
	key := uuid.NewString()
	c.SetCookie(sessionCookie, key, cookieMaxAge, "/", "", false, true)
	return key
}
