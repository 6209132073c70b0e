// Package mcp exposes the generation pipeline as MCP tools so editor
// agents can detect repositories and generate workspaces without
// shelling out to the CLI.
package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"workbench/internal/detect"
	"workbench/internal/engine"
	"workbench/internal/fragment"
)

// Server wraps the MCP SDK server. Tools are stateless: every call runs
// a fresh pipeline pass against the requested repository root.
type Server struct {
	MCPServer *sdkmcp.Server

	rules   *detect.RuleSet
	library fragment.Library
}

// NewServer creates an MCP server with the workspace tools registered.
func NewServer() *Server {
	s := &Server{
		rules:   detect.DefaultRules(),
		library: fragment.Builtin(),
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "workbench", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "detect_repository",
		Description: "Detect the languages, hosting platform and repository kinds of a repository without writing anything.",
	}, s.handleDetect)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "generate_workspace",
		Description: "Detect a repository and write its editor workspace configuration (.code-workspace, .vscode documents, metadata and summary).",
	}, s.handleGenerate)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "validate_workspace",
		Description: "Run detection and document validation without writing anything. Also checks a previously generated metadata document for drift.",
	}, s.handleValidate)
}

// --- Tool input/output types ---

type detectInput struct {
	Root string `json:"root" jsonschema:"path to the repository root"`
}

type detectOutput struct {
	Languages []string `json:"languages"`
	Platform  string   `json:"platform"`
	Kinds     []string `json:"kinds"`
}

type generateInput struct {
	Root string `json:"root" jsonschema:"path to the repository root"`
	Name string `json:"name,omitempty" jsonschema:"workspace name (default: repository directory name)"`
}

type generateOutput struct {
	Languages   []string `json:"languages"`
	Platform    string   `json:"platform"`
	Files       []string `json:"files"`
	Valid       bool     `json:"valid"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

type validateInput struct {
	Root string `json:"root" jsonschema:"path to the repository root"`
}

type validateOutput struct {
	Valid       bool     `json:"valid"`
	Issues      []string `json:"issues,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// --- Tool handlers ---

func (s *Server) handleDetect(_ context.Context, _ *sdkmcp.CallToolRequest, in detectInput) (*sdkmcp.CallToolResult, detectOutput, error) {
	meta, err := detect.Detect(in.Root, s.rules)
	if err != nil {
		return nil, detectOutput{}, fmt.Errorf("detect %s: %w", in.Root, err)
	}
	return nil, detectOutput{
		Languages: meta.Languages,
		Platform:  meta.Platform,
		Kinds:     meta.Kinds,
	}, nil
}

func (s *Server) handleGenerate(_ context.Context, _ *sdkmcp.CallToolRequest, in generateInput) (*sdkmcp.CallToolResult, generateOutput, error) {
	result, err := engine.Run(in.Root, engine.ModeGenerate, engine.Options{
		Rules:   s.rules,
		Library: s.library,
		Name:    in.Name,
	})
	if err != nil {
		return nil, generateOutput{}, fmt.Errorf("generate %s: %w", in.Root, err)
	}

	out := generateOutput{
		Languages: result.Metadata.Languages,
		Platform:  result.Metadata.Platform,
		Valid:     result.Validation.Valid,
	}
	for _, f := range result.Report.Files {
		out.Files = append(out.Files, f.Path)
	}
	for _, d := range result.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, d.String())
	}
	return nil, out, nil
}

func (s *Server) handleValidate(_ context.Context, _ *sdkmcp.CallToolRequest, in validateInput) (*sdkmcp.CallToolResult, validateOutput, error) {
	result, err := engine.Run(in.Root, engine.ModeValidateOnly, engine.Options{
		Rules:   s.rules,
		Library: s.library,
	})
	if err != nil {
		return nil, validateOutput{}, fmt.Errorf("validate %s: %w", in.Root, err)
	}

	out := validateOutput{Valid: result.Validation.Valid}
	for _, issue := range result.Validation.Errors {
		out.Issues = append(out.Issues, issue.String())
	}
	for _, d := range result.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, d.String())
	}
	return nil, out, nil
}
