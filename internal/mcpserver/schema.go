package mcpserver

const (
	defaultPageLimit    = 50
	maxLeaderboardLimit = 100
	maxMatchListLimit   = 200
)

func clampPagination(limit, offset, maxLimit int) (int, int) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
