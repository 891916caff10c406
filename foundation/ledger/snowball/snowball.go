// Package snowball implements a single-decision metastable voter from the
// family of leaderless BFT consensus protocols described in
// "Scalable and Probabilistic Leaderless BFT Consensus through Metastability"
// (https://arxiv.org/abs/1906.08936). Repeated rounds of sampled peer votes
// drive the state machine toward one value; once enough consecutive rounds
// agree, the decision is stable and further input is ignored.
package snowball

import (
	"errors"
	"fmt"
)

// Set of errors for rejected vote rounds.
var (
	ErrNoVotes     = errors.New("round contains no votes")
	ErrSingleValue = errors.New("weighted round needs at least two distinct values")
	ErrTiedWeights = errors.New("weighted round has tied maximum weights")
)

// =============================================================================

// Config represents the protocol parameters and the value ordering required
// to construct a Snowball.
type Config[T comparable] struct {

	// SampleSize is the number of peers queried per round. Referred to as
	// `k` in the whitepaper. Recorded for configuration; the algorithm does
	// not enforce it, collecting that many votes is the caller's job.
	SampleSize uint

	// QuorumSize is the number of votes required to consider a value
	// accepted in a round. Referred to as `alpha` in the whitepaper.
	QuorumSize uint

	// DecisionThreshold is the number of consecutive successful rounds
	// required before the consecutive counter exceeds it and the decision
	// becomes stable. Referred to as `beta` in the whitepaper; strictly
	// greater-than, so beta+1 rounds are needed.
	DecisionThreshold uint

	// Compare imposes a total order on values and is used only to break
	// ties between round favorites deterministically: the smaller value
	// wins. Byte-lexicographic order on the encoded value is conventional.
	Compare func(a, b T) int
}

// Snowball is a single-decision voter over values of type T. It is not safe
// for concurrent use; the owning orchestrator serializes access.
type Snowball[T comparable] struct {
	value    T
	hasValue bool
	done     bool
	counter  uint
	counters map[T]uint
	cfg      Config[T]
}

// New constructs a Snowball with the specified configuration.
func New[T comparable](cfg Config[T]) (*Snowball[T], error) {
	if cfg.Compare == nil {
		return nil, errors.New("compare function is required")
	}

	return &Snowball[T]{
		counters: make(map[T]uint),
		cfg:      cfg,
	}, nil
}

// =============================================================================

// Tick consumes one round of votes presented as a multiset of values, one
// per queried peer. The round favorite is the value with the highest count,
// ties broken by Compare, and a quorum requires the count to reach
// QuorumSize. Calling Tick after the decision is stable is a no-op.
func (sb *Snowball[T]) Tick(votes []T) error {
	if sb.done {
		return nil
	}

	if len(votes) == 0 {
		return ErrNoVotes
	}

	counts := make(map[T]uint, len(votes))
	for _, vote := range votes {
		counts[vote]++
	}

	var favorite T
	var favoriteVotes uint
	var found bool
	for value, count := range counts {
		switch {
		case count > favoriteVotes:
			favorite = value
			favoriteVotes = count
			found = true
		case count == favoriteVotes && found && sb.cfg.Compare(value, favorite) < 0:
			favorite = value
		}
	}

	sb.apply(favorite, favoriteVotes >= sb.cfg.QuorumSize)

	return nil
}

// TickWeighted consumes one round of votes presented as a mapping from value
// to accumulated weight. The quorum threshold is relative to the number of
// distinct values: QuorumSize * 2 / len(votes). Rounds that are empty, carry
// a single value, or tie for the maximum weight are rejected; their intended
// semantics are unspecified.
func (sb *Snowball[T]) TickWeighted(votes map[T]float64) error {
	if sb.done {
		return nil
	}

	switch len(votes) {
	case 0:
		return ErrNoVotes
	case 1:
		return ErrSingleValue
	}

	var favorite T
	var favoriteWeight float64
	var found, tied bool
	for value, weight := range votes {
		switch {
		case !found || weight > favoriteWeight:
			favorite = value
			favoriteWeight = weight
			found = true
			tied = false
		case weight == favoriteWeight:
			tied = true
		}
	}

	if tied {
		return fmt.Errorf("%w: weight %v", ErrTiedWeights, favoriteWeight)
	}

	threshold := float64(sb.cfg.QuorumSize) * 2 / float64(len(votes))
	sb.apply(favorite, favoriteWeight >= threshold)

	return nil
}

// apply folds one round's favorite into the state machine. On a quorum the
// favorite's cumulative counter grows, the preference follows the argmax of
// the cumulative counters, and the consecutive counter tracks repeats of the
// pre-round preference. Without a quorum the consecutive counter resets but
// the preference is kept.
func (sb *Snowball[T]) apply(favorite T, quorum bool) {
	if !quorum {
		sb.counter = 0
		return
	}

	prevValue, hadValue := sb.value, sb.hasValue

	sb.counters[favorite]++
	if !sb.hasValue || sb.counters[favorite] > sb.counters[sb.value] {
		sb.value = favorite
		sb.hasValue = true
	}

	if hadValue && favorite == prevValue {
		sb.counter++
	} else {
		sb.counter = 1
	}

	if sb.counter > sb.cfg.DecisionThreshold {
		sb.done = true
	}
}

// =============================================================================

// Preference returns the current preferred value. The second return is
// false while no quorum round has been observed yet.
func (sb *Snowball[T]) Preference() (T, bool) {
	return sb.value, sb.hasValue
}

// Done reports whether the decision is stable. Once true, the preference
// never changes again.
func (sb *Snowball[T]) Done() bool {
	return sb.done
}

// Counter returns the number of consecutive successful rounds for the
// current preference.
func (sb *Snowball[T]) Counter() uint {
	return sb.counter
}

// Successes returns the cumulative number of quorum rounds won by the
// specified value.
func (sb *Snowball[T]) Successes(value T) uint {
	return sb.counters[value]
}
