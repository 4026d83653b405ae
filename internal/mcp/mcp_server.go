// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/mindscore/core"
	"github.com/huangsam/mindscore/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the MindScore MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, eng *core.Engine, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"MindScore Assessment Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		eng:     eng,
		mgr:     mgr,
	}

	// --- 1. Tool: list_instruments ---
	s.AddTool(mcp.NewTool("list_instruments",
		mcp.WithDescription("List the registered assessment instruments, or show one definition with its questions and bands."),
		mcp.WithString("key", mcp.Description("Instrument key to describe (e.g. 'anxiety_gad7'). Lists every instrument when omitted.")),
	), h.handleListInstruments)

	// --- 2. Tool: score_assessment ---
	s.AddTool(mcp.NewTool("score_assessment",
		mcp.WithDescription("Score one completed questionnaire: totals, subscale scores and interpretation."),
		mcp.WithString("instrumentKey", mcp.Description("Registered instrument key."), mcp.Required()),
		mcp.WithObject("responses", mcp.Description("Answers keyed by question id, e.g. {\"q1\": 2}."), mcp.Required()),
		mcp.WithString("completedAt", mcp.Description("RFC3339 completion time. Defaults to now.")),
		mcp.WithString("userId", mcp.Description("When set, the result is also stored in the history store for this user.")),
	), h.handleScoreAssessment)

	// --- 3. Tool: compute_trend ---
	s.AddTool(mcp.NewTool("compute_trend",
		mcp.WithDescription("Compare the two most recent administrations of one instrument and classify risk."),
		mcp.WithString("instrumentKey", mcp.Description("Registered instrument key."), mcp.Required()),
		mcp.WithArray("history", mcp.Description("Oldest-first list of {score, completedAt} points. Ignored when userId is set."),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"score":       map[string]any{"type": "number"},
					"completedAt": map[string]any{"type": "string"},
				},
			})),
		mcp.WithString("userId", mcp.Description("Read the history from the history store for this user instead.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of stored administrations to read.")),
	), h.handleComputeTrend)

	// --- 4. Tool: summarize_insight ---
	s.AddTool(mcp.NewTool("summarize_insight",
		mcp.WithDescription("Summarize trends across instruments into a composite wellness score and a priority ranking."),
		mcp.WithObject("historiesByInstrument", mcp.Description("Map of instrument key to an oldest-first list of {score, completedAt} points. Ignored when userId is set.")),
		mcp.WithString("userId", mcp.Description("Read every stored history for this user instead.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of stored administrations per instrument.")),
	), h.handleSummarizeInsight)

	return s
}

// StartMCPServer starts the MindScore MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, eng *core.Engine, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, eng, mgr)
	return server.ServeStdio(s)
}
