package dashboard

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/conversation"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/directory"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/models"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all dashboard routes on the Gin router.
func registerRoutes(router *gin.Engine, opts StartOpts) {
	api := router.Group("/api")

	api.GET("/stats", handleStats(opts))
	api.GET("/events", handleSSE(opts))

	api.GET("/conversations", handleConversationList(opts.Store))
	api.GET("/conversations/:id", handleConversationDetail(opts.Store))
	api.POST("/conversations/:id/resolve", handleResolve(opts.Store))

	api.GET("/users", handleUserList(opts.Directory))
	api.POST("/users", handleUserAdd(opts.Directory))
	api.PUT("/users/:id", handleUserUpdate(opts.Directory))
	api.DELETE("/users/:id", handleUserRemove(opts.Directory))
}

// writeError maps the error taxonomy onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInvalidInput):
		status = http.StatusBadRequest
	default:
		log.Printf("dashboard: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func handleStats(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := opts.Stats.Current(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		users, err := opts.Directory.Count(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, statsResponse{Stats: st, TotalUsers: users})
	}
}

func handleConversationList(store *conversation.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		convs, err := store.List(c.Request.Context(), conversation.ListFilters{
			Status: c.Query("status"),
			Owner:  c.Query("user"),
			Search: c.Query("q"),
		})
		if err != nil {
			writeError(c, err)
			return
		}
		out := make([]conversationJSON, 0, len(convs))
		for i := range convs {
			out = append(out, toConversationJSON(&convs[i], false))
		}
		c.JSON(http.StatusOK, gin.H{"conversations": out})
	}
}

func handleConversationDetail(store *conversation.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		conv, err := store.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toConversationJSON(conv, true))
	}
}

type resolveRequest struct {
	Notes string `json:"notes"`
}

// handleResolve resolves through the admin path: a second call is a no-op
// and reports resolved=false.
func handleResolve(store *conversation.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Notes are optional, so an empty body resolves without them.
		var req resolveRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
		id := c.Param("id")
		changed, err := store.ResolveByAdmin(c.Request.Context(), id, req.Notes)
		if err != nil {
			writeError(c, err)
			return
		}
		conv, err := store.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"resolved": changed, "conversation": toConversationJSON(conv, true)})
	}
}

func handleUserList(dir *directory.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := dir.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		out := make([]userJSON, 0, len(users))
		for i := range users {
			out = append(out, toUserJSON(&users[i]))
		}
		c.JSON(http.StatusOK, gin.H{"users": out})
	}
}

type addUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func handleUserAdd(dir *directory.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
		u, err := dir.Add(c.Request.Context(), directory.AddOpts{Name: req.Name, Email: req.Email, Role: req.Role})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toUserJSON(u))
	}
}

type updateUserRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Role      *string `json:"role"`
	LastLogin *string `json:"last_login"`
}

func handleUserUpdate(dir *directory.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
		u, err := dir.Update(c.Request.Context(), c.Param("id"), directory.UpdateOpts{
			Name:      req.Name,
			Email:     req.Email,
			Role:      req.Role,
			LastLogin: req.LastLogin,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toUserJSON(u))
	}
}

func handleUserRemove(dir *directory.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := dir.Remove(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
