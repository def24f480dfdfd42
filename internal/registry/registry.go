// Package registry owns every team session. A single goroutine (Run)
// applies commands one at a time, so sessions need no locking.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/playperu/treasurehunt/internal/hunt"
)

var (
	ErrUnknownSession    = errors.New("session not found")
	ErrDuplicateTeamName = errors.New("team name already taken")
	ErrInvalidTeamName   = errors.New("invalid team name")
	ErrStopped           = errors.New("registry stopped")
	ErrStaleClue         = errors.New("clue is no longer current")
)

// CooldownError rejects a hint, reveal or skip asked for too early.
type CooldownError struct {
	Action    string
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s not available yet, wait %s", e.Action, e.Remaining.Round(time.Second))
}

// Cooldowns are the minimum times on a clue before each action is allowed.
type Cooldowns struct {
	Hint   time.Duration
	Reveal time.Duration
	Skip   time.Duration
}

// DefaultCooldowns match the defaults of the server configuration.
var DefaultCooldowns = Cooldowns{
	Hint:   5 * time.Minute,
	Reveal: 10 * time.Minute,
	Skip:   15 * time.Minute,
}

// LeaderboardListener is told the new ranking after every change in teams or
// scores. It runs on the registry goroutine, in command order, and must not
// block.
type LeaderboardListener interface {
	LeaderboardChanged(rows []Standing)
}

type Config struct {
	Catalog          hunt.Catalog
	ArrangementCount int
	ChannelSize      int
	Cooldowns        Cooldowns
	Rand             *rand.Rand
	Clock            hunt.Clock
	Persister        Persister
	Listener         LeaderboardListener
	Logger           *slog.Logger

	// Restore holds previously persisted sessions to load before Run.
	Restore []SessionRecord
}

type Registry struct {
	cmds      chan command
	done      chan struct{}
	st        *state
	persister Persister
	listener  LeaderboardListener
	logger    *slog.Logger
}

type command func(*state)

// New builds the arrangement stream and restores saved sessions. The
// registry does nothing until Run is started.
func New(cfg Config) (*Registry, error) {
	if cfg.ArrangementCount == 0 {
		cfg.ArrangementCount = hunt.DefaultArrangementCount
	}
	if cfg.ChannelSize <= 0 {
		cfg.ChannelSize = 64
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	arrangements, err := hunt.NewArrangements(cfg.Catalog, cfg.ArrangementCount, cfg.Rand)
	if err != nil {
		return nil, fmt.Errorf("building arrangements: %w", err)
	}

	st := &state{
		sessions:     make(map[hunt.SessionID]*teamSession),
		names:        make(map[TeamName]hunt.SessionID),
		arrangements: arrangements,
		catalogSize:  len(cfg.Catalog),
		rng:          cfg.Rand,
		clock:        cfg.Clock,
		cooldowns:    cfg.Cooldowns,
		logger:       cfg.Logger,
	}
	if err := st.restore(cfg.Restore); err != nil {
		return nil, err
	}
	if len(cfg.Restore) > 0 {
		cfg.Logger.Info("restored sessions", "count", len(cfg.Restore))
	}

	return &Registry{
		cmds:      make(chan command, cfg.ChannelSize),
		done:      make(chan struct{}),
		st:        st,
		persister: cfg.Persister,
		listener:  cfg.Listener,
		logger:    cfg.Logger,
	}, nil
}

// Run applies commands until ctx is cancelled. It must be called once.
func (r *Registry) Run(ctx context.Context) error {
	defer close(r.done)

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-r.cmds:
			cmd(r.st)
			if r.st.dirty {
				r.st.dirty = false
				r.persist()
			}
			if r.st.reranked {
				r.st.reranked = false
				if r.listener != nil {
					r.listener.LeaderboardChanged(r.st.standings(hunt.SessionID{}))
				}
			}
		}
	}
}

func (r *Registry) persist() {
	if r.persister == nil {
		return
	}
	snap, err := r.st.snapshot()
	if err != nil {
		r.logger.Error("snapshotting sessions", "error", err)
		return
	}
	r.persister.Persist(snap)
}

type result[T any] struct {
	v   T
	err error
}

// call runs fn on the registry goroutine. Once the command is queued it is
// applied even if the caller gives up waiting; the reply channel is buffered
// so the registry never blocks on an abandoned caller.
func call[T any](ctx context.Context, r *Registry, fn func(*state) (T, error)) (T, error) {
	var zero T
	reply := make(chan result[T], 1)
	cmd := func(st *state) {
		v, err := fn(st)
		reply <- result[T]{v: v, err: err}
	}

	select {
	case r.cmds <- cmd:
	case <-r.done:
		return zero, ErrStopped
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.v, res.err
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-r.done:
		select {
		case res := <-reply:
			return res.v, res.err
		default:
			return zero, ErrStopped
		}
	}
}
