package mcpserver

import (
	"errors"
	"fmt"

	appmatches "crypto-fantasy/internal/app/matches"
	apppublic "crypto-fantasy/internal/app/public"

	"github.com/mark3labs/mcp-go/mcp"
)

func toolResult(data any) *mcp.CallToolResult {
	return mcp.NewToolResultStructuredOnly(data)
}

func toolError(code, message string) *mcp.CallToolResult {
	result := mcp.NewToolResultStructured(
		map[string]any{
			"error": map[string]any{
				"code":    code,
				"message": message,
			},
		},
		fmt.Sprintf("%s: %s", code, message),
	)
	result.IsError = true
	return result
}

func mapDomainError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return toolError("internal_error", "unknown error")
	case errors.Is(err, apppublic.ErrInvalidRequest):
		return toolError("invalid_request", err.Error())
	case errors.Is(err, apppublic.ErrInvalidWallet):
		return toolError("invalid_wallet_address", err.Error())
	case errors.Is(err, apppublic.ErrInvalidTokens):
		return toolError("invalid_tokens", err.Error())
	case errors.Is(err, apppublic.ErrPlayerNotFound):
		return toolError("player_not_found", err.Error())
	case errors.Is(err, apppublic.ErrTeamNotFound):
		return toolError("team_not_found", err.Error())
	}
	if code := appmatches.Code(err); code != "internal_error" {
		return toolError(code, err.Error())
	}
	return toolError("internal_error", err.Error())
}
