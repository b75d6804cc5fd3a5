// Package session runs one game: it loads the marks, asks questions round
// by round, counts down the answer window, scores answers and produces the
// final report.
//
// Events (answers, timer ticks, auto-advance) are applied one at a time
// under a mutex. Every scheduled callback carries the round it was created
// for and is ignored once that round is over, so a late timer can never
// touch a newer round or a finished game.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/solentmarks/markquiz/internal/game"
	"github.com/solentmarks/markquiz/internal/markquiz"
)

type Phase string

const (
	PhaseLoading  Phase = "loading"
	PhaseQuestion Phase = "question"
	PhaseResult   Phase = "result"
	PhaseEnded    Phase = "ended"
	PhaseNoData   Phase = "no_data"
)

const (
	// AdvanceDelay is how long a round result stays up before the next question.
	AdvanceDelay = 3 * time.Second

	tickInterval = time.Second
)

var (
	ErrNoData         = errors.New("no marks available")
	ErrAlreadyStarted = errors.New("session already started")
	ErrNotAsking      = errors.New("no question is waiting for an answer")
	ErrUnknownMark    = errors.New("unknown mark")
	ErrHintsDisabled  = errors.New("hints are disabled")
)

// Source supplies the marks for a game. It is called once per session.
type Source interface {
	Marks(ctx context.Context) ([]markquiz.Mark, error)
}

// Timer is a cancellable scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. The default uses time.AfterFunc.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RoundResult is a scored answer plus the streak bonus it earned.
type RoundResult struct {
	markquiz.GuessResult
	StreakBonus int
	TotalPoints int
}

// Snapshot is a point-in-time copy of the session for rendering.
type Snapshot struct {
	Phase     Phase
	State     markquiz.SessionState
	Round     int
	Question  *markquiz.Question
	Remaining int
	TimeLimit int
	Last      *RoundResult
}

type Option func(*Session)

// WithRand makes target selection and shuffling reproducible.
func WithRand(rng game.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

func WithScheduler(sched Scheduler) Option {
	return func(s *Session) { s.sched = sched }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// OnChange registers a listener called after every state change. It runs
// outside the session lock and may call back into the session.
func OnChange(fn func(Snapshot)) Option {
	return func(s *Session) { s.onChange = fn }
}

type Session struct {
	cfg      markquiz.Config
	src      Source
	logger   *slog.Logger
	rng      game.Rand
	gen      *game.Generator
	sched    Scheduler
	now      func() time.Time
	onChange func(Snapshot)
	done     chan struct{}

	mu        sync.Mutex
	started   bool
	phase     Phase
	state     markquiz.SessionState
	marks     []markquiz.Mark
	byID      map[string]markquiz.Mark
	question  *markquiz.Question
	round     int
	limit     int
	remaining int
	hintLevel int
	last      *RoundResult
	endedAt   time.Time
	tick      Timer
	advance   Timer
}

func New(cfg markquiz.Config, src Source, logger *slog.Logger, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Session{
		cfg:    cfg,
		src:    src,
		logger: logger,
		sched:  realScheduler{},
		now:    time.Now,
		done:   make(chan struct{}),
		phase:  PhaseLoading,
		limit:  game.EffectiveTimeLimit(cfg),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s.gen = game.NewGenerator(s.rng)
	return s, nil
}

// Start loads the marks and asks the first question. A failed or empty
// load leaves the session in PhaseNoData. If no question can be built the
// game ends straight away; that is not reported as an error.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	marks, err := s.src.Marks(ctx)
	if err == nil && len(marks) == 0 {
		err = errors.New("source returned no marks")
	}

	s.mu.Lock()
	if s.phase != PhaseLoading {
		// Ended while loading.
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.logger.Error("loading marks failed", "error", err)
		s.phase = PhaseNoData
		close(s.done)
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.changed(snap)
		return fmt.Errorf("%w: %w", ErrNoData, err)
	}

	s.marks = slices.Clone(marks)
	game.Shuffle(s.rng, s.marks)
	s.byID = make(map[string]markquiz.Mark, len(s.marks))
	for _, m := range s.marks {
		s.byID[m.ID] = m
	}
	s.state.StartedAt = s.now()
	s.logger.Info("game started",
		"marks", len(s.marks),
		"difficulty", s.cfg.Difficulty,
		"options", s.cfg.OptionCount,
		"time_limit", s.limit,
	)
	s.nextRoundLocked()

	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.changed(snap)
	return nil
}

// Answer submits the player's choice for the current question.
func (s *Session) Answer(markID string) (RoundResult, error) {
	return s.answer(0, markID)
}

// AnswerRound is Answer for callers that picked markID from an earlier
// Snapshot. It fails with ErrNotAsking once round is no longer being asked.
func (s *Session) AnswerRound(round int, markID string) (RoundResult, error) {
	if round < 1 {
		return RoundResult{}, ErrNotAsking
	}
	return s.answer(round, markID)
}

// answer resolves the current question; round 0 matches any round.
func (s *Session) answer(round int, markID string) (RoundResult, error) {
	s.mu.Lock()
	if s.phase != PhaseQuestion || (round != 0 && round != s.round) {
		s.mu.Unlock()
		return RoundResult{}, ErrNotAsking
	}
	selected, ok := s.byID[markID]
	if !ok {
		s.mu.Unlock()
		return RoundResult{}, fmt.Errorf("%w: %q", ErrUnknownMark, markID)
	}

	res := s.resolveLocked(&selected)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.changed(snap)
	return res, nil
}

// Hint returns the next, more revealing hint for the current target.
func (s *Session) Hint() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cfg.HintsEnabled {
		return "", ErrHintsDisabled
	}
	if s.phase != PhaseQuestion {
		return "", ErrNotAsking
	}

	h := game.Hint(s.question.Target, s.hintLevel)
	if s.hintLevel < game.MaxHintLevel {
		s.hintLevel++
	}
	return h, nil
}

// End stops the game and cancels anything still scheduled. Calling it on a
// finished game does nothing.
func (s *Session) End() {
	s.mu.Lock()
	if s.phase == PhaseEnded || s.phase == PhaseNoData {
		s.mu.Unlock()
		return
	}
	s.endLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.changed(snap)
}

// Done is closed once the session reaches PhaseEnded or PhaseNoData.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Report summarises the game so far. Elapsed time runs from the first
// question to End, or to now for a game still in progress.
func (s *Session) Report() markquiz.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var elapsed float64
	if !s.state.StartedAt.IsZero() {
		end := s.endedAt
		if end.IsZero() {
			end = s.now()
		}
		elapsed = end.Sub(s.state.StartedAt).Seconds()
	}
	return game.GenerateStats(s.state.QuestionsAsked, s.state.CorrectCount, s.state.Score, elapsed)
}

func (s *Session) nextRoundLocked() {
	s.stopTimersLocked()

	q, err := s.gen.Generate(s.marks, s.cfg)
	if err != nil {
		s.logger.Error("generating question failed", "error", err, "round", s.round+1)
		s.endLocked()
		return
	}

	s.round++
	s.question = &q
	s.remaining = s.limit
	s.hintLevel = 0
	s.last = nil
	s.phase = PhaseQuestion
	s.scheduleTickLocked()

	s.logger.Debug("round started", "round", s.round, "target", q.Target.ID, "options", len(q.Options))
}

func (s *Session) scheduleTickLocked() {
	round := s.round
	s.tick = s.sched.AfterFunc(tickInterval, func() { s.onTick(round) })
}

func (s *Session) onTick(round int) {
	s.mu.Lock()
	if round != s.round || s.phase != PhaseQuestion {
		s.mu.Unlock()
		return
	}

	s.remaining--
	if s.remaining <= 0 {
		s.remaining = 0
		s.resolveLocked(nil)
	} else {
		s.scheduleTickLocked()
	}

	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.changed(snap)
}

// resolveLocked scores the current question; a nil selection is a timeout.
func (s *Session) resolveLocked(selected *markquiz.Mark) RoundResult {
	s.stopTimersLocked()

	scoring := s.cfg
	scoring.TimeLimitSeconds = s.limit
	elapsed := float64(s.limit - s.remaining)

	res := RoundResult{
		GuessResult: game.Evaluate(s.question.Target, selected, elapsed, scoring),
	}

	s.state.QuestionsAsked++
	if res.IsCorrect {
		s.state.Streak++
		s.state.CorrectCount++
		s.state.BestStreak = max(s.state.BestStreak, s.state.Streak)
		res.StreakBonus = game.StreakBonus(s.state.Streak)
	} else {
		s.state.Streak = 0
	}
	res.TotalPoints = res.Points + res.StreakBonus
	s.state.Score += res.TotalPoints

	s.last = &res
	s.phase = PhaseResult

	round := s.round
	s.advance = s.sched.AfterFunc(AdvanceDelay, func() { s.onAdvance(round) })

	s.logger.Debug("round resolved",
		"round", s.round,
		"correct", res.IsCorrect,
		"timed_out", res.TimedOut,
		"points", res.TotalPoints,
		"streak", s.state.Streak,
	)
	return res
}

func (s *Session) onAdvance(round int) {
	s.mu.Lock()
	if round != s.round || s.phase != PhaseResult {
		s.mu.Unlock()
		return
	}

	if s.state.QuestionsAsked >= game.QuestionsPerGame {
		s.endLocked()
	} else {
		s.nextRoundLocked()
	}

	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.changed(snap)
}

func (s *Session) endLocked() {
	s.stopTimersLocked()
	s.phase = PhaseEnded
	s.endedAt = s.now()
	close(s.done)

	s.logger.Info("game ended",
		"score", s.state.Score,
		"questions", s.state.QuestionsAsked,
		"correct", s.state.CorrectCount,
	)
}

func (s *Session) stopTimersLocked() {
	if s.tick != nil {
		s.tick.Stop()
		s.tick = nil
	}
	if s.advance != nil {
		s.advance.Stop()
		s.advance = nil
	}
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Phase:     s.phase,
		State:     s.state,
		Round:     s.round,
		Question:  s.question,
		Remaining: s.remaining,
		TimeLimit: s.limit,
	}
	if s.last != nil {
		last := *s.last
		snap.Last = &last
	}
	return snap
}

func (s *Session) changed(snap Snapshot) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}
