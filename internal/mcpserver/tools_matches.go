package mcpserver

import (
	"context"
	"errors"

	appmatches "crypto-fantasy/internal/app/matches"
	"crypto-fantasy/internal/store"

	"github.com/mark3labs/mcp-go/mcp"
)

type matchView struct {
	Match      *appmatches.MatchResponse      `json:"match"`
	Settlement *appmatches.SettlementResponse `json:"settlement,omitempty"`
}

func (s *Server) registerMatchTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_match",
			mcp.WithDescription("Get a match and, once completed, its settlement"),
			mcp.WithString("match_id", mcp.Required(), mcp.Description("Match id")),
		),
		s.handleGetMatch,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_matches",
			mcp.WithDescription("List matches, newest first"),
			mcp.WithString("status", mcp.Description("open|ready|completed|cancelled")),
			mcp.WithString("player_id", mcp.Description("Only matches this player is seated in")),
			mcp.WithNumber("limit", mcp.Description("Page size, default 50, max 200")),
			mcp.WithNumber("offset", mcp.Description("Page offset, default 0")),
		),
		s.handleListMatches,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"preview_settlement",
			mcp.WithDescription("Compute the pot split for two percentage gains without touching any match"),
			mcp.WithNumber("gain_a", mcp.Required(), mcp.Description("Percentage-point gain of side A, 0.4 means +0.4%")),
			mcp.WithNumber("gain_b", mcp.Required(), mcp.Description("Percentage-point gain of side B, 0.4 means +0.4%")),
			mcp.WithString("stake_per_player", mcp.Required(), mcp.Description("Stake per player as a decimal string")),
			mcp.WithString("duration_class", mcp.Description("short_fast|short|medium|long, overrides duration_minutes")),
			mcp.WithNumber("duration_minutes", mcp.Description("Match duration in minutes; medium when omitted")),
			mcp.WithString("id_a", mcp.Description("Label for side A, default a")),
			mcp.WithString("id_b", mcp.Description("Label for side B, default b")),
		),
		s.handlePreviewSettlement,
	)
}

func (s *Server) handleGetMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	matchID, err := request.RequireString("match_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	m, svcErr := s.matchSvc.Get(ctx, matchID)
	if svcErr != nil {
		return mapDomainError(svcErr), nil
	}
	out := matchView{Match: m}
	if m.Status == store.MatchCompleted {
		st, err := s.matchSvc.Settlement(ctx, matchID)
		if err != nil && !errors.Is(err, appmatches.ErrSettlementNotFound) {
			return mapDomainError(err), nil
		}
		out.Settlement = st
	}
	return toolResult(out), nil
}

func (s *Server) handlePreviewSettlement(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gainA, err := request.RequireFloat("gain_a")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	gainB, err := request.RequireFloat("gain_b")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	stake, err := request.RequireString("stake_per_player")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	in := appmatches.PreviewInput{
		GainA:          &gainA,
		GainB:          &gainB,
		StakePerPlayer: stake,
		DurationClass:  request.GetString("duration_class", ""),
		IDA:            request.GetString("id_a", ""),
		IDB:            request.GetString("id_b", ""),
	}
	if request.GetArguments()["duration_minutes"] != nil {
		minutes, convErr := request.RequireFloat("duration_minutes")
		if convErr != nil {
			return toolError("invalid_request", convErr.Error()), nil
		}
		in.DurationMinutes = &minutes
	}
	resp, svcErr := s.matchSvc.Preview(in)
	if svcErr != nil {
		return mapDomainError(svcErr), nil
	}
	return toolResult(resp), nil
}

func (s *Server) handleListMatches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit, offset := clampPagination(request.GetInt("limit", defaultPageLimit), request.GetInt("offset", 0), maxMatchListLimit)
	f := store.MatchFilter{
		Status:   request.GetString("status", ""),
		PlayerID: request.GetString("player_id", ""),
	}
	resp, err := s.matchSvc.List(ctx, f, limit, offset)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(resp), nil
}
