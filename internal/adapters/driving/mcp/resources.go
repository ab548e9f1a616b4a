package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Sercha Learn resources.
	uriScheme = "sercha-learn://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "capabilities",
		Name:        "capabilities",
		Description: "Optional features enabled on this server (refiner, extractor, summariser, embeddings)",
		MIMEType:    "application/json",
	}, s.handleCapabilitiesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "Topics gathered by the learn tool in this session, most recent first",
		MIMEType:    "application/json",
	}, s.handleRunsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs/{topic}",
		Name:        "run",
		Description: "Videos and papers gathered for a topic in this session",
		MIMEType:    "application/json",
	}, s.handleRunResource)
}

// handleCapabilitiesResource returns the orchestrator capabilities.
func (s *Server) handleCapabilitiesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.ports.Orchestrator.Capabilities())
}

// handleRunsResource lists cached topics.
func (s *Server) handleRunsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type runInfo struct {
		Topic string `json:"topic"`
		URI   string `json:"uri"`
	}

	topics := s.recentTopics()
	infos := make([]runInfo, len(topics))
	for i, t := range topics {
		infos[i] = runInfo{Topic: t, URI: uriScheme + "runs/" + url.PathEscape(t)}
	}
	return jsonResource(req.Params.URI, infos)
}

// handleRunResource returns the cached run for one topic.
func (s *Server) handleRunResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract topic from URI: sercha-learn://runs/{topic}
	topic := extractTopic(req.Params.URI)
	if topic == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	result, ok := s.recall(topic)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, learnOutput(result))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractTopic extracts the unescaped topic from a URI like sercha-learn://runs/{topic}.
func extractTopic(uri string) string {
	const prefix = uriScheme + "runs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	topic, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(topic)
}
