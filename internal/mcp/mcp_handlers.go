package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/mindscore/core"
	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	eng     *core.Engine
	mgr     contract.StoreManager
}

// toolError reports a failure as an error result carrying the classified error body.
func toolError(err error) *mcp.CallToolResult {
	body, _ := json.MarshalIndent(service.Classify(err), "", "  ")
	return mcp.NewToolResultError(string(body))
}

func toolJSON(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

// requestBody rebuilds a request document from the named tool arguments.
func requestBody(request mcp.CallToolRequest, names ...string) ([]byte, error) {
	args := request.GetArguments()
	body := make(map[string]any, len(names))
	for _, name := range names {
		if v, ok := args[name]; ok && v != nil && v != "" {
			body[name] = v
		}
	}
	return json.Marshal(body)
}

func (h *toolHandler) limit(request mcp.CallToolRequest) int {
	if l := request.GetInt("limit", 0); l > 0 {
		return l
	}
	return h.baseCfg.Limit
}

func (h *toolHandler) handleListInstruments(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if key := request.GetString("key", ""); key != "" {
		def, err := h.eng.Registry().Get(key)
		if err != nil {
			return toolError(err), nil
		}
		return toolJSON(def), nil
	}
	return toolJSON(h.eng.Registry().Definitions()), nil
}

func (h *toolHandler) handleScoreAssessment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := requestBody(request, "instrumentKey", "responses", "completedAt")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	req, err := contract.DecodeScoreRequest(data)
	if err != nil {
		return toolError(err), nil
	}

	if userID := request.GetString("userId", ""); userID != "" {
		rec, err := service.ScoreAndRecord(ctx, h.eng, h.mgr, userID, req)
		if err != nil {
			return toolError(err), nil
		}
		return toolJSON(rec), nil
	}

	rec, err := service.Score(h.eng, req)
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(rec), nil
}

func (h *toolHandler) handleComputeTrend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if userID := request.GetString("userId", ""); userID != "" {
		key := request.GetString("instrumentKey", "")
		trend, err := service.StoredTrend(ctx, h.eng, h.mgr, userID, key, h.limit(request))
		if err != nil {
			return toolError(err), nil
		}
		return toolJSON(trend), nil
	}

	data, err := requestBody(request, "instrumentKey", "history")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	req, err := contract.DecodeTrendRequest(data)
	if err != nil {
		return toolError(err), nil
	}
	trend, err := service.Trend(h.eng, req)
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(trend), nil
}

func (h *toolHandler) handleSummarizeInsight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if userID := request.GetString("userId", ""); userID != "" {
		insight, err := service.StoredInsight(ctx, h.eng, h.mgr, userID, h.limit(request))
		if err != nil {
			return toolError(err), nil
		}
		return toolJSON(insight), nil
	}

	data, err := requestBody(request, "historiesByInstrument")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	req, err := contract.DecodeInsightRequest(data)
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(service.Insight(h.eng, req)), nil
}
