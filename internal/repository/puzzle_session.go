package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vancomm/chainreaction-server/internal/session"
)

type PuzzleSession struct {
	PuzzleSessionId int64
	PlayerId        *int64
	Difficulty      string
	Serial          int32
	Seed            int64
	Attempts        int32
	Solved          bool
	State           []byte
	StartedAt       pgtype.Timestamptz
	EndedAt         pgtype.Timestamptz
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

// Decode restores the live session stored in the row.
func (p PuzzleSession) Decode() (*session.Session, error) {
	return session.Decode(p.State)
}

type CreatePuzzleSessionParams struct {
	PlayerId *int64
}

func (p CreatePuzzleSessionParams) UpdateArgs(args pgx.NamedArgs) pgx.NamedArgs {
	if p.PlayerId != nil {
		args["player_id"] = *p.PlayerId
	} else {
		args["player_id"] = nil
	}
	return args
}

func (q Queries) CreatePuzzleSession(
	ctx context.Context, s *session.Session, params CreatePuzzleSessionParams,
) (*PuzzleSession, error) {
	state, err := s.Bytes()
	if err != nil {
		return nil, err
	}

	args := params.UpdateArgs(pgx.NamedArgs{
		"difficulty": string(s.Puzzle.Difficulty),
		"serial":     s.Puzzle.Serial,
		"seed":       int64(s.Puzzle.Seed),
		"attempts":   s.Attempts,
		"solved":     s.Solved,
		"state":      state,
	})

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO puzzle_session (
			player_id, difficulty, serial, seed, attempts, solved, state
		)
		VALUES (
			@player_id, @difficulty, @serial, @seed, @attempts, @solved, @state
		)
		RETURNING *;`,
		args,
	)
	return pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[PuzzleSession],
	)
}

func (q Queries) FetchPuzzleSession(ctx context.Context, puzzleSessionId int64) (*PuzzleSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM puzzle_session WHERE puzzle_session_id = $1",
		puzzleSessionId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[PuzzleSession])
}

type UpdatePuzzleSessionParams struct {
	Difficulty *string
	Serial     *int
	Seed       *int64
	Attempts   *int
	Solved     *bool
	State      *[]byte
	StartedAt  *time.Time
	EndedAt    **time.Time // set to a nil pointer to clear ended_at
}

/*
SessionUpdate describes every column that follows from s at time now. A board
without attempts restarts the clock; a solved one stops it.
*/
func SessionUpdate(s *session.Session, now time.Time) (UpdatePuzzleSessionParams, error) {
	state, err := s.Bytes()
	if err != nil {
		return UpdatePuzzleSessionParams{}, err
	}
	difficulty := string(s.Puzzle.Difficulty)
	seed := int64(s.Puzzle.Seed)
	params := UpdatePuzzleSessionParams{
		Difficulty: &difficulty,
		Serial:     &s.Puzzle.Serial,
		Seed:       &seed,
		Attempts:   &s.Attempts,
		Solved:     &s.Solved,
		State:      &state,
	}

	var endedAt *time.Time
	if s.Solved {
		endedAt = &now
	}
	params.EndedAt = &endedAt
	if s.Attempts == 0 {
		params.StartedAt = &now
	}
	return params, nil
}

func (p UpdatePuzzleSessionParams) SetClause() (string, pgx.NamedArgs) {
	parts := []string{"updated_at = now()"}
	args := pgx.NamedArgs{}

	if p.Difficulty != nil {
		parts = append(parts, "difficulty = @difficulty")
		args["difficulty"] = *p.Difficulty
	}
	if p.Serial != nil {
		parts = append(parts, "serial = @serial")
		args["serial"] = *p.Serial
	}
	if p.Seed != nil {
		parts = append(parts, "seed = @seed")
		args["seed"] = *p.Seed
	}
	if p.Attempts != nil {
		parts = append(parts, "attempts = @attempts")
		args["attempts"] = *p.Attempts
	}
	if p.Solved != nil {
		parts = append(parts, "solved = @solved")
		args["solved"] = *p.Solved
	}
	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = *p.State
	}
	if p.StartedAt != nil {
		parts = append(parts, "started_at = @started_at")
		args["started_at"] = *p.StartedAt
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}

	return strings.Join(parts, ", "), args
}

func (q Queries) UpdatePuzzleSession(
	ctx context.Context, puzzleSessionId int64, params UpdatePuzzleSessionParams,
) (*PuzzleSession, error) {
	setClause, args := params.SetClause()
	args["puzzle_session_id"] = puzzleSessionId
	rows, _ := q.db.Query(
		ctx,
		"UPDATE puzzle_session SET "+setClause+" WHERE puzzle_session_id = @puzzle_session_id RETURNING *",
		args,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[PuzzleSession])
}
