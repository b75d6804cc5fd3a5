// Command markquiz plays one game in the terminal against a GPX chart.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/solentmarks/markquiz/internal/catalog"
	"github.com/solentmarks/markquiz/internal/config"
	"github.com/solentmarks/markquiz/internal/game"
	"github.com/solentmarks/markquiz/internal/markquiz"
	"github.com/solentmarks/markquiz/internal/session"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.LoadGame()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	out := &console{w: stdout, aux: cfg.AuxLayer}
	src := catalog.NewCached(catalog.GPXFile{Path: cfg.GPX})

	s, err := session.New(cfg.Quiz(), src, logger, session.OnChange(out.render))
	if err != nil {
		return err
	}
	if err := s.Start(ctx); err != nil {
		return fmt.Errorf("starting game: %w", err)
	}

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()

	lines := readLines(readCtx, stdin)
	cancelled := ctx.Done()
	for {
		select {
		case <-cancelled:
			cancelled = nil
			s.End()
		case <-s.Done():
			out.report(s.Snapshot(), s.Report())
			return nil
		case line, ok := <-lines:
			if !ok {
				lines = nil
				s.End()
				continue
			}
			out.handle(s, line)
		}
	}
}

// readLines streams lines from r until it is exhausted or ctx is done.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// console serialises output from the input loop and from session timers.
type console struct {
	mu  sync.Mutex
	w   io.Writer
	aux bool
}

func (c *console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
}

func (c *console) render(snap session.Snapshot) {
	switch snap.Phase {
	case session.PhaseQuestion:
		switch snap.Remaining {
		case snap.TimeLimit:
			c.question(snap)
		case 5:
			c.printf("  5 seconds left\n")
		}
	case session.PhaseResult:
		c.result(snap)
	}
}

func (c *console) question(snap session.Snapshot) {
	q := snap.Question
	var b strings.Builder

	fmt.Fprintf(&b, "\nQuestion %d/%d  score %d  streak %d  (%ds)\n",
		snap.Round, game.QuestionsPerGame, snap.State.Score, snap.State.Streak, snap.TimeLimit)
	fmt.Fprintf(&b, "Which mark is at %.4f, %.4f?\n", q.Target.Lat, q.Target.Lon)
	if c.aux && len(q.Context) > 0 {
		names := make([]string, len(q.Context))
		for i, m := range q.Context {
			names[i] = m.Name
		}
		fmt.Fprintf(&b, "Nearby: %s\n", strings.Join(names, ", "))
	}
	for i, o := range q.Options {
		fmt.Fprintf(&b, "  %d) %s\n", i+1, o.Name)
	}
	fmt.Fprintf(&b, "Answer 1-%d, h for a hint, q to quit: ", len(q.Options))

	c.printf("%s", b.String())
}

func (c *console) result(snap session.Snapshot) {
	res := snap.Last
	switch {
	case res.IsCorrect:
		c.printf("\nCorrect! +%d (time bonus %d, streak bonus %d)\n", res.TotalPoints, res.TimeBonus, res.StreakBonus)
	case res.TimedOut:
		c.printf("\nTime's up. It was %s.\n", res.Target.Name)
	default:
		c.printf("\nWrong. It was %s.\n", res.Target.Name)
	}
	c.printf("Score %d, streak %d\n", snap.State.Score, snap.State.Streak)
}

func (c *console) report(snap session.Snapshot, stats markquiz.Stats) {
	c.printf("\nGame over. Score %d over %d questions.\n", snap.State.Score, snap.State.QuestionsAsked)
	c.printf("Accuracy %d%%, average %ds per answer, %d points/min, best streak %d. Grade %s.\n",
		stats.Accuracy, stats.AverageSeconds, stats.PointsPerMinute, snap.State.BestStreak, stats.Grade)
}

func (c *console) handle(s *session.Session, line string) {
	line = strings.ToLower(strings.TrimSpace(line))
	switch line {
	case "":
		return
	case "q":
		s.End()
		return
	case "h":
		hint, err := s.Hint()
		switch {
		case errors.Is(err, session.ErrHintsDisabled):
			c.printf("Hints are off.\n")
		case err != nil:
			c.printf("No question to hint at.\n")
		default:
			c.printf("Hint: %s\n", hint)
		}
		return
	}

	snap := s.Snapshot()
	if snap.Phase != session.PhaseQuestion {
		c.printf("Wait for the next question.\n")
		return
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(snap.Question.Options) {
		c.printf("Pick 1-%d.\n", len(snap.Question.Options))
		return
	}
	if _, err := s.AnswerRound(snap.Round, snap.Question.Options[n-1].ID); errors.Is(err, session.ErrNotAsking) {
		c.printf("Too late.\n")
	}
}
