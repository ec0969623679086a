// Package adminapi exposes a minimal gin-based introspection and health
// HTTP surface over a running topology.System and runner.Runner: enough
// for an operator or a test to see the graph's shape and nudge a prompt
// in by hand, without adding an RPC surface to the core itself.
package adminapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventflow/meshrunner/pkg/runner"
	"github.com/eventflow/meshrunner/pkg/topology"
)

// Server wraps a gin.Engine serving /health, /system, and /prompt over a
// single topology.System and the Runner driving it.
type Server struct {
	router   *gin.Engine
	sys      *topology.System
	rnr      runner.Runner
	prompter runner.Prompter // nil if rnr doesn't implement it
}

// NewServer builds a Server. rnr is expected to have already been
// started by the caller; NewServer itself never calls Start or Stop.
func NewServer(sys *topology.System, rnr runner.Runner) *Server {
	s := &Server{
		router: gin.Default(),
		sys:    sys,
		rnr:    rnr,
	}
	s.prompter, _ = rnr.(runner.Prompter)
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler to mount on an *http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/system", s.handleSystem)
	s.router.POST("/prompt", s.handlePrompt)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// EdgeResponse is one (leader, follower) pair in SystemResponse.
type EdgeResponse struct {
	Leader   string `json:"leader"`
	Follower string `json:"follower"`
}

// SystemResponse mirrors topology.System's classification and edge set.
type SystemResponse struct {
	Leaders     []string       `json:"leaders"`
	Followers   []string       `json:"followers"`
	Processors  []string       `json:"processors"`
	LeadersOnly []string       `json:"leaders_only"`
	Edges       []EdgeResponse `json:"edges"`
}

func (s *Server) handleSystem(c *gin.Context) {
	edges := s.sys.Edges()
	resp := SystemResponse{
		Leaders:     s.sys.Leaders(),
		Followers:   s.sys.Followers(),
		Processors:  s.sys.Processors(),
		LeadersOnly: s.sys.LeadersOnly(),
		Edges:       make([]EdgeResponse, 0, len(edges)),
	}
	for _, e := range edges {
		resp.Edges = append(resp.Edges, EdgeResponse{Leader: e.Leader, Follower: e.Follower})
	}
	c.JSON(http.StatusOK, resp)
}

// PromptRequest is the body POST /prompt expects.
type PromptRequest struct {
	Leader string `json:"leader" binding:"required"`
}

// handlePrompt injects a manual prompt for req.Leader, as if the leader
// had just published a new notification. Useful for operators poking at
// a stuck pipeline, and for tests driving the system from outside.
func (s *Server) handlePrompt(c *gin.Context) {
	var req PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if s.prompter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "runner does not support manual prompt injection"})
		return
	}
	if err := s.prompter.InjectPrompt(req.Leader); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"leader": req.Leader})
}
