package quiz

import (
	"math/rand"
	"sync"
	"time"
)

// Options controls round timing. The zero value is not usable; services
// build Options from configuration.
type Options struct {
	RoundSeconds   int
	LowTimeSeconds int
	RevealDelay    time.Duration
	// TickInterval overrides the 1-second countdown resolution in tests.
	TickInterval time.Duration
	// Rand, when set, makes the choice shuffle deterministic in tests.
	Rand *rand.Rand
}

// Result is handed to the end handler when the last round has resolved.
type Result struct {
	PlayerName string
	CategoryID int
	Category   string
	Difficulty string
	Score      int
	Total      int
	Percentage int
	TimedOut   int
	FinishedAt time.Time
}

// Summary is what the end handler produces for the results page.
type Summary struct {
	PlayerName   string `json:"player_name"`
	Category     string `json:"category"`
	Difficulty   string `json:"difficulty"`
	Score        int    `json:"score"`
	Total        int    `json:"total"`
	Percentage   int    `json:"percentage"`
	TimedOut     int    `json:"timed_out"`
	NewHighScore bool   `json:"new_high_score"`
}

// EndFunc finalizes a finished quiz (leaderboard, history) and returns the
// summary to surface. The runner invokes it at most once.
type EndFunc func(Result) Summary

// EventType identifies a runner event pushed to subscribers.
type EventType string

const (
	EventQuestion EventType = "question"
	EventTick     EventType = "tick"
	EventResolved EventType = "resolved"
	EventFinished EventType = "finished"
)

// Event is pushed to WebSocket subscribers as rounds progress.
type Event struct {
	Type      EventType      `json:"type"`
	Round     *RoundSnapshot `json:"round,omitempty"`
	Remaining int            `json:"remaining,omitempty"`
	LowTime   bool           `json:"low_time,omitempty"`
	Summary   *Summary       `json:"summary,omitempty"`
}

// Runner drives one session through its rounds: it constructs each round,
// reacts to resolutions, waits out the reveal delay, advances the session
// and finalizes when the questions run out. The session is only ever
// mutated from here, so rounds never race on it.
type Runner struct {
	mu         sync.Mutex
	token      string
	session    *Session
	round      *Round
	opts       Options
	timedOut   int
	finished   bool
	summary    *Summary
	endFn      EndFunc
	subs       map[chan Event]struct{}
	createdAt  time.Time
	lastActive time.Time
}

// NewRunner wires a runner around a freshly created session.
func NewRunner(token string, session *Session, opts Options, endFn EndFunc) *Runner {
	now := time.Now()
	return &Runner{
		token:      token,
		session:    session,
		opts:       opts,
		endFn:      endFn,
		subs:       make(map[chan Event]struct{}),
		createdAt:  now,
		lastActive: now,
	}
}

// Token returns the runner's session token.
func (g *Runner) Token() string {
	return g.token
}

// Start presents the first question. An empty question set finishes the
// quiz immediately.
func (g *Runner) Start() {
	g.mu.Lock()
	q := g.session.CurrentQuestion()
	if q == nil {
		g.finalizeLocked()
		g.mu.Unlock()
		return
	}
	g.startRoundLocked()
	round := g.round
	g.mu.Unlock()

	round.Start()
	g.emit(g.questionEvent())
}

func (g *Runner) startRoundLocked() {
	q := g.session.CurrentQuestion()
	g.round = NewRound(*q, g.session.CurrentIndex(), g.session.QuestionCount(), g.opts, RoundHooks{
		OnTick:     g.onTick,
		OnResolved: g.onResolved,
	})
	g.lastActive = time.Now()
}

func (g *Runner) onTick(remaining int, lowTime bool) {
	g.emit(Event{Type: EventTick, Remaining: remaining, LowTime: lowTime})
}

func (g *Runner) onResolved(outcome Outcome, correctAnswer string) {
	g.mu.Lock()
	if g.finished {
		g.mu.Unlock()
		return
	}
	switch outcome {
	case OutcomeCorrect:
		g.session.IncrementScore()
	case OutcomeTimeout:
		g.timedOut++
	}
	g.lastActive = time.Now()
	round := g.round
	score := g.session.Score()
	g.mu.Unlock()

	snap := round.Snapshot(score)
	g.emit(Event{Type: EventResolved, Round: &snap})

	time.AfterFunc(g.opts.RevealDelay, g.advance)
}

// advance runs after the reveal delay: next round or session end.
func (g *Runner) advance() {
	g.mu.Lock()
	if g.finished {
		g.mu.Unlock()
		return
	}
	if g.session.Advance() {
		g.startRoundLocked()
		round := g.round
		g.mu.Unlock()

		round.Start()
		g.emit(g.questionEvent())
		return
	}

	g.finalizeLocked()
	g.mu.Unlock()
}

// finalizeLocked ends the quiz and invokes the end handler exactly once.
// Callers must hold g.mu.
func (g *Runner) finalizeLocked() {
	if g.finished {
		return
	}
	g.finished = true

	result := Result{
		PlayerName: g.session.Config().PlayerName,
		CategoryID: g.session.Config().CategoryID,
		Category:   g.session.Config().CategoryName,
		Difficulty: g.session.Config().Difficulty,
		Score:      g.session.Score(),
		Total:      g.session.QuestionCount(),
		Percentage: g.session.ScorePercentage(),
		TimedOut:   g.timedOut,
		FinishedAt: time.Now(),
	}

	summary := Summary{
		PlayerName: result.PlayerName,
		Category:   result.Category,
		Difficulty: result.Difficulty,
		Score:      result.Score,
		Total:      result.Total,
		Percentage: result.Percentage,
		TimedOut:   result.TimedOut,
	}
	if g.endFn != nil {
		summary = g.endFn(result)
	}
	g.summary = &summary

	// Emit outside the lock once the caller releases it.
	go g.emit(Event{Type: EventFinished, Summary: &summary})
}

func (g *Runner) questionEvent() Event {
	g.mu.Lock()
	round := g.round
	score := g.session.Score()
	g.mu.Unlock()
	snap := round.Snapshot(score)
	return Event{Type: EventQuestion, Round: &snap}
}

// SubmitAnswer resolves the current round with the given choice text. A
// second submission, or one arriving after the timer expired, is a no-op
// reported through the snapshot's existing outcome.
func (g *Runner) SubmitAnswer(choice string) (RoundSnapshot, bool) {
	g.mu.Lock()
	round := g.round
	finished := g.finished
	g.mu.Unlock()

	if finished || round == nil {
		return RoundSnapshot{}, false
	}

	_, resolved := round.Resolve(choice)
	g.mu.Lock()
	score := g.session.Score()
	g.mu.Unlock()
	return round.Snapshot(score), resolved
}

// SubmitAnswerIndex resolves by shuffled-choice position (0-based).
func (g *Runner) SubmitAnswerIndex(i int) (RoundSnapshot, bool) {
	g.mu.Lock()
	round := g.round
	finished := g.finished
	g.mu.Unlock()

	if finished || round == nil {
		return RoundSnapshot{}, false
	}

	_, resolved := round.ResolveIndex(i)
	g.mu.Lock()
	score := g.session.Score()
	g.mu.Unlock()
	return round.Snapshot(score), resolved
}

// GameSnapshot is the full state view for polling clients.
type GameSnapshot struct {
	Token    string         `json:"token"`
	Finished bool           `json:"finished"`
	Score    int            `json:"score"`
	Round    *RoundSnapshot `json:"round,omitempty"`
	Summary  *Summary       `json:"summary,omitempty"`
}

// Snapshot returns the current state of the quiz.
func (g *Runner) Snapshot() GameSnapshot {
	g.mu.Lock()
	round := g.round
	score := g.session.Score()
	snap := GameSnapshot{
		Token:    g.token,
		Finished: g.finished,
		Score:    score,
		Summary:  g.summary,
	}
	g.mu.Unlock()

	if !snap.Finished && round != nil {
		rs := round.Snapshot(score)
		snap.Round = &rs
	}
	return snap
}

// Finished reports whether the quiz has ended.
func (g *Runner) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.finished
}

// Summary returns the finished quiz summary, or nil while still playing.
func (g *Runner) Summary() *Summary {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.summary
}

// LastActive returns the time of the last round activity, for TTL sweeps.
func (g *Runner) LastActive() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastActive
}

// Stop tears the runner down without finalizing, cancelling any live
// countdown so a stale tick cannot fire afterwards.
func (g *Runner) Stop() {
	g.mu.Lock()
	round := g.round
	g.finished = true
	g.mu.Unlock()

	if round != nil {
		round.Stop()
	}
	g.closeSubs()
}

// Subscribe registers an event channel. The returned cancel function must
// be called when the subscriber goes away.
func (g *Runner) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	g.mu.Lock()
	g.subs[ch] = struct{}{}
	g.mu.Unlock()

	cancel := func() {
		g.mu.Lock()
		if _, ok := g.subs[ch]; ok {
			delete(g.subs, ch)
			close(ch)
		}
		g.mu.Unlock()
	}
	return ch, cancel
}

func (g *Runner) emit(ev Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for ch := range g.subs {
		select {
		case ch <- ev:
		default:
			// Slow subscriber: drop the event rather than stall the round.
		}
	}
}

func (g *Runner) closeSubs() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for ch := range g.subs {
		delete(g.subs, ch)
		close(ch)
	}
}
