package quiz

import (
	"html"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/lucasmv/triviarush/internal/models"
)

// Outcome is how a round was resolved.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeCorrect
	OutcomeIncorrect
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "pending"
	}
}

// RoundHooks are invoked by the round as it progresses. They are called
// without the round's lock held, so they may safely call back into the
// round or its owner.
type RoundHooks struct {
	// OnTick fires once per countdown second with the remaining time.
	OnTick func(remaining int, lowTime bool)
	// OnResolved fires exactly once, on user answer or timer expiry.
	OnResolved func(outcome Outcome, correctAnswer string)
}

// RoundSnapshot is a read-only view of a round for API responses. The
// correct answer is only revealed once the round is resolved.
type RoundSnapshot struct {
	Index         int      `json:"index"`
	Total         int      `json:"total"`
	Category      string   `json:"category"`
	Question      string   `json:"question"`
	Choices       []string `json:"choices"`
	TimeRemaining int      `json:"time_remaining"`
	LowTime       bool     `json:"low_time"`
	Answered      bool     `json:"answered"`
	Outcome       string   `json:"outcome,omitempty"`
	Selected      string   `json:"selected,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Score         int      `json:"score"`
}

// Round runs the presentation and timing for a single question. It decodes
// the provider's HTML-entity text once, shuffles the answer order once, and
// resolves at most once: whichever of user choice or timer expiry happens
// first wins, the other becomes a no-op.
type Round struct {
	mu        sync.Mutex
	index     int
	total     int
	category  string
	question  string
	correct   string
	choices   []string
	seconds   int
	lowAt     int
	tick      time.Duration
	remaining int
	answered  bool
	outcome   Outcome
	selected  string
	done      chan struct{}
	hooks     RoundHooks
}

// NewRound builds a round for the given question. The shuffled choice order
// is a uniform permutation of the correct and incorrect answers, fixed for
// the life of the round.
func NewRound(q models.Question, index, total int, opts Options, hooks RoundHooks) *Round {
	choices := make([]string, 0, len(q.IncorrectAnswers)+1)
	choices = append(choices, html.UnescapeString(q.CorrectAnswer))
	for _, a := range q.IncorrectAnswers {
		choices = append(choices, html.UnescapeString(a))
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	tick := opts.TickInterval
	if tick <= 0 {
		tick = time.Second
	}

	return &Round{
		index:     index,
		total:     total,
		category:  html.UnescapeString(q.Category),
		question:  html.UnescapeString(q.Text),
		correct:   html.UnescapeString(q.CorrectAnswer),
		choices:   choices,
		seconds:   opts.RoundSeconds,
		lowAt:     opts.LowTimeSeconds,
		tick:      tick,
		remaining: opts.RoundSeconds,
		done:      make(chan struct{}),
		hooks:     hooks,
	}
}

// Start launches the countdown. It must be called once.
func (r *Round) Start() {
	go r.countdown()
}

func (r *Round) countdown() {
	t := time.NewTicker(r.tick)
	defer t.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-t.C:
			r.mu.Lock()
			if r.answered {
				r.mu.Unlock()
				return
			}
			r.remaining--
			remaining := r.remaining
			if remaining <= 0 {
				r.answered = true
				r.outcome = OutcomeTimeout
				close(r.done)
				r.mu.Unlock()
				if r.hooks.OnResolved != nil {
					r.hooks.OnResolved(OutcomeTimeout, r.correct)
				}
				return
			}
			low := remaining <= r.lowAt
			r.mu.Unlock()
			if r.hooks.OnTick != nil {
				r.hooks.OnTick(remaining, low)
			}
		}
	}
}

// Resolve records the player's choice. It returns the outcome and whether
// this call performed the resolution; a round that is already answered
// (earlier click or timeout) is left untouched and reports false.
// Matching is case-insensitive exact string equality.
func (r *Round) Resolve(choice string) (Outcome, bool) {
	r.mu.Lock()
	if r.answered {
		out := r.outcome
		r.mu.Unlock()
		return out, false
	}
	r.answered = true
	r.selected = choice
	if strings.EqualFold(choice, r.correct) {
		r.outcome = OutcomeCorrect
	} else {
		r.outcome = OutcomeIncorrect
	}
	close(r.done)
	out := r.outcome
	r.mu.Unlock()

	if r.hooks.OnResolved != nil {
		r.hooks.OnResolved(out, r.correct)
	}
	return out, true
}

// ResolveIndex resolves by choice position, for keyboard input mapped 1..n
// onto the shuffled order. Out-of-range positions are ignored.
func (r *Round) ResolveIndex(i int) (Outcome, bool) {
	r.mu.Lock()
	if i < 0 || i >= len(r.choices) {
		out := r.outcome
		r.mu.Unlock()
		return out, false
	}
	choice := r.choices[i]
	r.mu.Unlock()
	return r.Resolve(choice)
}

// Answered reports whether the round has been resolved.
func (r *Round) Answered() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.answered
}

// Stop cancels the countdown without resolving, for session teardown. A
// stale tick must never fire against a torn-down round.
func (r *Round) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.answered {
		r.answered = true
		close(r.done)
	}
}

// Snapshot returns the current view of the round with the given score.
func (r *Round) Snapshot(score int) RoundSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := RoundSnapshot{
		Index:         r.index,
		Total:         r.total,
		Category:      r.category,
		Question:      r.question,
		Choices:       append([]string(nil), r.choices...),
		TimeRemaining: r.remaining,
		LowTime:       r.remaining <= r.lowAt,
		Answered:      r.answered,
		Score:         score,
	}
	if r.answered {
		snap.Outcome = r.outcome.String()
		snap.Selected = r.selected
		snap.CorrectAnswer = r.correct
	}
	return snap
}
