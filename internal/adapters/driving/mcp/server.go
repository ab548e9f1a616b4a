package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// maxRecentRuns bounds the runs kept for the runs resources.
const maxRecentRuns = 32

// Server is the MCP server for Sercha Learn.
type Server struct {
	ports  *Ports
	server *mcp.Server

	mu     sync.RWMutex
	runs   map[string]domain.RunResult
	topics []string // oldest first
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "sercha-learn",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, nil),
		runs:   make(map[string]domain.RunResult),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over streamable HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	logger.Info("Starting MCP HTTP server on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// remember stores a run result keyed by its requested topic.
func (s *Server) remember(topic string, result domain.RunResult) {
	key := topicKey(topic)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[key]; ok {
		for i, t := range s.topics {
			if t == key {
				s.topics = append(s.topics[:i], s.topics[i+1:]...)
				break
			}
		}
	}
	s.runs[key] = result
	s.topics = append(s.topics, key)

	if len(s.topics) > maxRecentRuns {
		delete(s.runs, s.topics[0])
		s.topics = s.topics[1:]
	}
}

// recall returns the cached run for topic.
func (s *Server) recall(topic string) (domain.RunResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[topicKey(topic)]
	return r, ok
}

// recentTopics returns cached topics, most recent first.
func (s *Server) recentTopics() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.topics))
	for i := len(s.topics) - 1; i >= 0; i-- {
		out = append(out, s.topics[i])
	}
	return out
}

func topicKey(topic string) string {
	return strings.ToLower(strings.Join(strings.Fields(topic), " "))
}
