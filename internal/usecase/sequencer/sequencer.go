package sequencer

import (
	"sync"

	eventv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/event/v1"
	orderbookv1 "github.com/muhammadchandra19/mbp-reconstruction/internal/domain/orderbook/v1"
)

// State is the position inside a Trade, Fill, Cancel triplet.
type State uint8

const (
	// StateIdle means nothing is buffered.
	StateIdle State = iota
	// StateGotTrade means a Trade is buffered.
	StateGotTrade
	// StateGotTradeFill means a Trade and its Fill are buffered.
	StateGotTradeFill
)

func (s State) String() string {
	switch s {
	case StateGotTrade:
		return "got_trade"
	case StateGotTradeFill:
		return "got_trade_fill"
	default:
		return "idle"
	}
}

// Mutation is the book operation an event resolved to.
type Mutation uint8

const (
	MutationNone Mutation = iota
	MutationAdd
	MutationModify
	MutationCancel
	MutationConsume
	MutationClear
)

func (m Mutation) String() string {
	switch m {
	case MutationAdd:
		return "add"
	case MutationModify:
		return "modify"
	case MutationCancel:
		return "cancel"
	case MutationConsume:
		return "consume"
	case MutationClear:
		return "clear"
	default:
		return "none"
	}
}

// Outcome describes what Process did with one event.
type Outcome struct {
	// Buffered events are held for a pending triplet; no snapshot follows them.
	Buffered bool
	Mutation Mutation
	// Found is false when Modify or Cancel named an unknown order.
	Found bool
	// Replaced is true when an Add displaced a live order with the same id.
	Replaced bool
	Filled   int64
	Unfilled int64
	// Rejected holds the reason an Add could not rest, e.g. no side.
	Rejected error
}

// Emit reports whether a snapshot should follow the event.
func (o Outcome) Emit() bool {
	return !o.Buffered
}

// Sequencer folds the feed's Trade, Fill, Cancel triplet into a single consume
// against the book and applies every other event directly.
type Sequencer struct {
	mu      sync.Mutex
	book    orderbookv1.Orderbook
	state   State
	pending []*eventv1.Event
}

// NewSequencer creates a sequencer driving book.
func NewSequencer(book orderbookv1.Orderbook) *Sequencer {
	return &Sequencer{
		book:    book,
		pending: make([]*eventv1.Event, 0, 2),
	}
}

// Process advances the state machine with e and applies any resulting mutation.
func (s *Sequencer) Process(e *eventv1.Event) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case e.Action == eventv1.ActionTrade:
		s.reset()
		s.pending = append(s.pending, e)
		s.state = StateGotTrade
		return Outcome{Buffered: true}

	case e.Action == eventv1.ActionFill && s.state == StateGotTrade:
		s.pending = append(s.pending, e)
		s.state = StateGotTradeFill
		return Outcome{Buffered: true}

	case e.Action == eventv1.ActionCancel && s.state == StateGotTradeFill:
		trade := s.pending[0]
		s.reset()
		return s.consume(trade)
	}

	s.reset()
	return s.apply(e)
}

// State returns the current state.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending returns the number of buffered events.
func (s *Sequencer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Reset drops any buffered events.
func (s *Sequencer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Sequencer) reset() {
	s.pending = s.pending[:0]
	s.state = StateIdle
}

// consume applies a completed triplet. The trade side names the aggressor, so
// the opposite side's liquidity is taken. A trade with no side changes nothing.
func (s *Sequencer) consume(trade *eventv1.Event) Outcome {
	if !trade.Side.IsReal() {
		return Outcome{Mutation: MutationNone}
	}

	filled, unfilled := s.book.Consume(trade.Price, trade.Size, trade.Side.Opposite())
	return Outcome{
		Mutation: MutationConsume,
		Found:    filled > 0,
		Filled:   filled,
		Unfilled: unfilled,
	}
}

func (s *Sequencer) apply(e *eventv1.Event) Outcome {
	switch e.Action {
	case eventv1.ActionAdd:
		replaced, err := s.book.Add(e.Order())
		return Outcome{Mutation: MutationAdd, Found: err == nil, Replaced: replaced, Rejected: err}
	case eventv1.ActionModify:
		return Outcome{Mutation: MutationModify, Found: s.book.Modify(e.OrderID, e.Size)}
	case eventv1.ActionCancel:
		return Outcome{Mutation: MutationCancel, Found: s.book.Cancel(e.OrderID)}
	case eventv1.ActionClear:
		s.book.Clear()
		return Outcome{Mutation: MutationClear, Found: true}
	default:
		return Outcome{Mutation: MutationNone}
	}
}
