package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

type Record struct {
	PuzzleSessionId int64   `json:"puzzle_session_id,string"`
	Username        *string `json:"username"`
	Difficulty      string  `json:"difficulty"`
	Serial          int32   `json:"serial"`
	Seed            int64   `json:"seed"`
	Attempts        int32   `json:"attempts"`
	PlaytimeMs      float64 `json:"playtime_ms"`
}

type RecordFilter struct {
	Username   *string
	Difficulty *string
}

func (f RecordFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.Difficulty != nil {
		clauses = append(clauses, "difficulty = @difficulty")
		args["difficulty"] = *f.Difficulty
	}
	return strings.Join(clauses, " AND "), args
}

const recordLimit = 100

// FetchRecords lists solved sessions, fewest attempts first, then fastest.
func (q Queries) FetchRecords(ctx context.Context, filter RecordFilter) ([]Record, error) {
	query := `
	SELECT
		puzzle_session_id,
		username,
		difficulty,
		serial,
		seed,
		attempts,
		(
			extract('epoch' from ended_at) -
			extract('epoch' from started_at)
		) * 1000 playtime_ms
	FROM puzzle_session
		LEFT OUTER JOIN player using (player_id)
	WHERE
		solved = true
		AND ended_at IS NOT NULL
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}

	query += " ORDER BY attempts, playtime_ms LIMIT @limit;"
	args["limit"] = recordLimit

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Record])
}
