package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/suffolklitlab/dalint/pkg/linter"
	"github.com/suffolklitlab/dalint/pkg/logger"
)

var mcpLog = logger.New("cli:mcp")

// NewMCPServerCommand creates the mcp-server command, which serves the
// checker over the Model Context Protocol on stdio so coding assistants
// can validate interview files directly.
func NewMCPServerCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run an MCP server exposing the interview checker",
		Long: `Run 'dalint' as a Model Context Protocol server on stdio.

The server exposes two tools:
  check_da_file  - check an interview YAML file on disk by path
  check_da_text  - check interview YAML content passed as a string

Example client configuration:
  {"mcpServers": {"dalint": {"command": "dalint", "args": ["mcp-server"]}}}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCPServer(cmd.Context(), version)
		},
	}
}

type checkFileArgs struct {
	Path string `json:"path" jsonschema:"Path to the docassemble interview YAML file to check"`
}

type checkTextArgs struct {
	Content  string `json:"content" jsonschema:"Interview YAML content to check"`
	Filename string `json:"filename,omitempty" jsonschema:"Optional filename used in diagnostics"`
}

func runMCPServer(ctx context.Context, version string) error {
	mcpLog.Print("Starting MCP server on stdio")

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "dalint",
		Title:   "Docassemble interview YAML checker",
		Version: version,
	}, &mcp.ServerOptions{
		// The SDK logs through slog; route it into the DEBUG-gated logger
		// so stdio stays clean unless debugging is on.
		Logger: logger.NewSlogLoggerWithHandler(mcpLog),
	})

	lint := linter.New()

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_da_file",
		Description: "Check a docassemble interview YAML file for structural errors. Returns one line per finding with the file and line number, or a confirmation that the file is clean.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args checkFileArgs) (*mcp.CallToolResult, any, error) {
		if args.Path == "" {
			return nil, nil, fmt.Errorf("path is required")
		}
		mcpLog.Printf("check_da_file: %s", args.Path)
		return toolResult(lint.CheckFile(args.Path)), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_da_text",
		Description: "Check docassemble interview YAML content for structural errors without writing it to disk. Returns one line per finding with the line number, or a confirmation that the content is clean.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args checkTextArgs) (*mcp.CallToolResult, any, error) {
		name := args.Filename
		if name == "" {
			name = "interview.yml"
		}
		mcpLog.Printf("check_da_text: %s (%d bytes)", name, len(args.Content))
		return toolResult(lint.CheckContent(name, args.Content)), nil, nil
	})

	return server.Run(ctx, &mcp.StdioTransport{})
}

// toolResult renders a file result as tool output text.
func toolResult(result linter.FileResult) *mcp.CallToolResult {
	text := renderResultText(result)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: result.Status == linter.StatusErrors,
	}
}

func renderResultText(result linter.FileResult) string {
	switch {
	case result.Jinja:
		return fmt.Sprintf("%s uses the '# use jinja' header and was not checked.", result.Path)
	case result.Status == linter.StatusSkipped:
		return fmt.Sprintf("%s is a generated file and was not checked.", result.Path)
	case len(result.Diagnostics) == 0:
		return fmt.Sprintf("%s has no problems.", result.Path)
	default:
		return strings.Join(linter.RenderDiagnostics(result.Diagnostics), "\n")
	}
}
