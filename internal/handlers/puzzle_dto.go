package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gorilla/schema"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vancomm/chainreaction-server/internal/chain"
	"github.com/vancomm/chainreaction-server/internal/repository"
	"github.com/vancomm/chainreaction-server/internal/session"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type NewPuzzleDTO struct {
	Difficulty string  `schema:"difficulty"`
	Serial     int     `schema:"serial"`
	Seed       *uint32 `schema:"seed"`
}

func ParseNewPuzzleDTO(src map[string][]string) (NewPuzzleDTO, error) {
	var dto NewPuzzleDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return dto, err
	}
	if dto.Serial < 0 {
		return dto, fmt.Errorf("serial must not be negative")
	}
	if _, err := dto.difficulty(); err != nil {
		return dto, err
	}
	return dto, nil
}

func (dto NewPuzzleDTO) difficulty() (chain.Difficulty, error) {
	if dto.Difficulty == "" {
		return chain.Normal, nil
	}
	return chain.ParseDifficulty(dto.Difficulty)
}

// sessionSeed picks the fixed seed of d for the first puzzle of a session
// and a fresh one for every later puzzle.
func sessionSeed(d chain.Difficulty, serial int) uint32 {
	if serial == 0 {
		return chain.DefaultSeed(d)
	}
	return chain.EntropySeed()
}

// Puzzle resolves the requested puzzle. An explicit seed makes any serial
// reproducible.
func (dto NewPuzzleDTO) Puzzle() (*chain.PuzzleInstance, error) {
	d, err := dto.difficulty()
	if err != nil {
		return nil, err
	}
	seed := sessionSeed(d, dto.Serial)
	if dto.Seed != nil {
		seed = *dto.Seed
	}
	return chain.NewPuzzle(d, seed, dto.Serial), nil
}

type AttemptDTO struct {
	Block int `schema:"block,required"`
}

func ParseAttemptDTO(src map[string][]string) (AttemptDTO, error) {
	var dto AttemptDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type RecordsDTO struct {
	Difficulty string `schema:"difficulty"`
	Username   string `schema:"username"`
}

func ParseRecordsDTO(src map[string][]string) (repository.RecordFilter, error) {
	var dto RecordsDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return repository.RecordFilter{}, err
	}
	var filter repository.RecordFilter
	if dto.Difficulty != "" {
		d, err := chain.ParseDifficulty(dto.Difficulty)
		if err != nil {
			return filter, err
		}
		difficulty := string(d)
		filter.Difficulty = &difficulty
	}
	if dto.Username != "" {
		filter.Username = &dto.Username
	}
	return filter, nil
}

type PuzzleSessionDTO struct {
	PuzzleSessionId string `json:"puzzle_session_id"`
	session.Snapshot
	StartedAt int64  `json:"started_at"`
	EndedAt   *int64 `json:"ended_at,omitempty"`
}

func timestampMilli(ts pgtype.Timestamptz) *int64 {
	if !ts.Valid {
		return nil
	}
	ms := ts.Time.UnixMilli()
	return &ms
}

func NewPuzzleSessionDTO(row *repository.PuzzleSession, s *session.Session) *PuzzleSessionDTO {
	var startedAt int64
	if ms := timestampMilli(row.StartedAt); ms != nil {
		startedAt = *ms
	} else {
		startedAt = time.Now().UnixMilli()
	}
	return &PuzzleSessionDTO{
		PuzzleSessionId: strconv.FormatInt(row.PuzzleSessionId, 10),
		Snapshot:        s.Snapshot(),
		StartedAt:       startedAt,
		EndedAt:         timestampMilli(row.EndedAt),
	}
}

type AttemptResultDTO struct {
	Session *PuzzleSessionDTO        `json:"session"`
	Attempt *chain.AttemptSimulation `json:"attempt"`
}
