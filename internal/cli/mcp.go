package cli

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"stepkit/internal/adapter/schema"
	"stepkit/internal/usecase"
)

const version = "0.1.0"

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the extractor as MCP tools over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("serving mcp over stdio")
		return server.ServeStdio(newMCPServer(newExtractor()))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func newMCPServer(ext *usecase.Extractor) *server.MCPServer {
	s := server.NewMCPServer("stepkit", version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("segment_chunks",
		mcp.WithDescription("Split assistant output into ordered text and workflow step chunks"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Assistant message text")),
	), segmentChunksHandler(ext))

	s.AddTool(mcp.NewTool("parse_document",
		mcp.WithDescription("Parse a Goal/Inputs/Outputs/Plan workflow document and its JSON steps"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Workflow document text")),
	), parseDocumentHandler(ext))

	s.AddTool(mcp.NewTool("repair_step",
		mcp.WithDescription("Repair a malformed workflow step JSON candidate"),
		mcp.WithString("candidate", mcp.Required(), mcp.Description("JSON candidate, possibly truncated")),
	), repairStepHandler(ext))

	s.AddTool(mcp.NewTool("step_schema",
		mcp.WithDescription("Return the JSON Schema of a workflow step"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(schema.StepSchema())
	})

	return s
}

func segmentChunksHandler(ext *usecase.Extractor) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(ext.Chunks(text))
	}
}

func parseDocumentHandler(ext *usecase.Extractor) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(ext.Document(text))
	}
}

func repairStepHandler(ext *usecase.Extractor) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		candidate, err := req.RequireString("candidate")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result, err := ext.Repair(candidate)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(newRepairOutput(result))
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
