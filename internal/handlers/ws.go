package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/chainreaction-server/internal/chain"
	"github.com/vancomm/chainreaction-server/internal/repository"
	"github.com/vancomm/chainreaction-server/internal/session"
)

type wsCommand string

const (
	wsNoop    wsCommand = "g"
	wsSelect  wsCommand = "s"
	wsRestart wsCommand = "r"
	wsNew     wsCommand = "n"
)

var ErrUnknownCommand = errors.New("unknown command")

/*
commandParser turns ws lines into driver commands. It remembers the serial of
the last puzzle it requested so that "n <difficulty>" without a serial asks
for the next one, which draws a fresh seed.
*/
type commandParser struct {
	serial int
}

// parse understands "g", "s <id>", "r" and "n <difficulty> [serial]".
func (p *commandParser) parse(line string) (session.Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return session.Command{}, ErrUnknownCommand
	}
	cmd, args := wsCommand(tokens[0]), tokens[1:]
	switch cmd {
	case wsNoop:
		return session.Command{Kind: session.CommandRefresh}, nil

	case wsSelect:
		if len(args) != 1 {
			return session.Command{}, fmt.Errorf("select takes exactly one block id")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return session.Command{}, fmt.Errorf("block id must be an int")
		}
		return session.Command{Kind: session.CommandSelect, ID: id}, nil

	case wsRestart:
		return session.Command{Kind: session.CommandRestart}, nil

	case wsNew:
		if len(args) < 1 || len(args) > 2 {
			return session.Command{}, fmt.Errorf("new takes a difficulty and an optional serial")
		}
		d, err := chain.ParseDifficulty(args[0])
		if err != nil {
			return session.Command{}, err
		}
		serial := p.serial + 1
		if len(args) == 2 {
			if serial, err = strconv.Atoi(args[1]); err != nil || serial < 0 {
				return session.Command{}, fmt.Errorf("serial must be a non-negative int")
			}
		}
		p.serial = serial
		return session.Command{
			Kind:   session.CommandReplace,
			Puzzle: chain.NewPuzzle(d, sessionSeed(d, serial), serial),
		}, nil
	}
	return session.Command{}, fmt.Errorf("%w %q", ErrUnknownCommand, cmd)
}

// readCommands forwards every command received on conn until the peer goes
// away or ctx is done.
func readCommands(
	ctx context.Context, conn *websocket.Conn, logger *slog.Logger,
	parser *commandParser, commands chan<- session.Command,
) error {
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return nil
		}

		for _, line := range strings.Split(strings.TrimSpace(string(buf)), "\n") {
			cmd, err := parser.parse(line)
			if err != nil {
				logger.Debug("ignoring ws command", slog.String("line", line), slog.Any("error", err))
				continue
			}
			select {
			case commands <- cmd:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

/*
Connect upgrades to a websocket and hands the session to a [session.Driver].
The socket is read by one goroutine and written only by the driver.
*/
func (h PuzzleHandler) Connect(w http.ResponseWriter, r *http.Request) {
	row, s, ok := h.load(w, r, true)
	if !ok {
		return
	}

	conn, err := h.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		h.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	logger := h.logger.With(slog.Int64("puzzle_session_id", row.PuzzleSessionId))
	logger.Debug("established WS connection")

	// a new puzzle gets its own row so a finished one stays on the records
	id := row.PuzzleSessionId
	driver := session.NewDriver(s, h.timings, logger)
	driver.OnChange(func(ctx context.Context, s *session.Session) error {
		_, err := h.save(ctx, id, s)
		return err
	})
	driver.OnReplace(func(ctx context.Context, s *session.Session) (string, error) {
		next, err := h.repo.CreatePuzzleSession(ctx, s, repository.CreatePuzzleSessionParams{
			PlayerId: row.PlayerId,
		})
		if err != nil {
			return "", err
		}
		logger.Debug("switched puzzle session",
			slog.Int64("from", id),
			slog.Int64("to", next.PuzzleSessionId),
		)
		id = next.PuzzleSessionId
		return strconv.FormatInt(id, 10), nil
	})

	parser := &commandParser{serial: s.Puzzle.Serial}
	commands := make(chan session.Command)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		defer close(commands)
		return readCommands(ctx, conn, logger, parser, commands)
	})
	g.Go(func() error {
		defer conn.Close()
		return driver.Run(ctx, commands, func(e session.Event) error {
			return conn.WriteJSON(e)
		})
	})

	err = g.Wait()
	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		logger.Warn("error in ws loop", slog.Any("error", err))
	}

	// the attempt that was playing still counts
	if s.Phase == session.Animating {
		s.Cancel()
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := h.save(saveCtx, id, s); err != nil {
			logger.Error("unable to persist interrupted session", slog.Any("error", err))
		}
	}
}
