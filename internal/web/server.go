package web

import (
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/rashmika0907/zentask/internal/assist"
	"github.com/rashmika0907/zentask/internal/briefing"
	"github.com/rashmika0907/zentask/internal/session"
	"github.com/rashmika0907/zentask/internal/storage"
	"github.com/rashmika0907/zentask/internal/tasks"
)

// Server is the Zentask web server. It hosts exactly one active user
// session at a time; login replaces the session and its task store.
type Server struct {
	kv       storage.KV
	sessions *session.Manager
	assist   *assist.Assistant
	briefer  *briefing.Briefer
	router   *gin.Engine

	mu    sync.Mutex
	sess  *session.Session
	store *tasks.Store
}

// NewServer creates the web server and wires the routes.
func NewServer(kv storage.KV, sessions *session.Manager, assistant *assist.Assistant, briefer *briefing.Briefer) *Server {
	router := gin.Default()

	s := &Server{
		kv:       kv,
		sessions: sessions,
		assist:   assistant,
		briefer:  briefer,
		router:   router,
	}

	// Rehydrate a previously stored session, if any
	if sess, ok := sessions.Restore(); ok {
		s.sess = sess
		s.store = tasks.NewStore(kv, sess.User.ID)
	}

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", s.handleRegister)
			auth.POST("/login", s.handleLogin)
			auth.POST("/logout", s.handleLogout)
			auth.GET("/session", s.handleSession)
		}

		authed := api.Group("")
		authed.Use(s.requireSession)
		{
			authed.GET("/tasks", s.handleListTasks)
			authed.POST("/tasks", s.handleCreateTask)
			authed.GET("/tasks/:id", s.handleGetTask)
			authed.PATCH("/tasks/:id", s.handleUpdateTask)
			authed.DELETE("/tasks/:id", s.handleDeleteTask)
			authed.GET("/stats", s.handleStats)

			authed.POST("/tasks/:id/decompose", s.handleDecompose)
			authed.POST("/tasks/:id/subtasks/:subID/toggle", s.handleToggleSubTask)

			authed.POST("/ai/refine", s.handleRefine)
			authed.POST("/ai/suggest", s.handleSuggest)
			authed.POST("/briefing", s.handleBriefing)
		}
	}

	return s
}

// Run starts the web server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// current returns the active session and store.
func (s *Server) current() (*session.Session, *tasks.Store, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return nil, nil, false
	}
	return s.sess, s.store, true
}

func (s *Server) setSession(sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
	if sess != nil {
		s.store = tasks.NewStore(s.kv, sess.User.ID)
	} else {
		s.store = nil
	}
}
