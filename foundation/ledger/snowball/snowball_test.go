package snowball_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/anovaledger/anova/foundation/ledger/snowball"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func newSnowball(t *testing.T) *snowball.Snowball[string] {
	t.Helper()

	sb, err := snowball.New(snowball.Config[string]{
		SampleSize:        5,
		QuorumSize:        4,
		DecisionThreshold: 3,
		Compare:           strings.Compare,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a snowball: %v", failed, err)
	}

	return sb
}

// =============================================================================

func Test_Convergence(t *testing.T) {
	t.Log("Given the need to validate repeated quorum rounds make the decision stable.")
	{
		t.Logf("\tTest 0:\tWhen feeding four rounds of [R,R,R,R,B] with k=5, quorum=4, threshold=3.")
		{
			sb := newSnowball(t)
			round := []string{"R", "R", "R", "R", "B"}

			if err := sb.Tick(round); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the first round: %v", failed, err)
			}

			value, exists := sb.Preference()
			if !exists || value != "R" || sb.Counter() != 1 || sb.Done() {
				t.Logf("\t\tTest 0:\tgot: value %q, counter %d, done %v", value, sb.Counter(), sb.Done())
				t.Fatalf("\t%s\tTest 0:\tShould prefer R with counter 1 after round 1.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould prefer R with counter 1 after round 1.", success)

			for i := 0; i < 3; i++ {
				if err := sb.Tick(round); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould accept round %d: %v", failed, i+2, err)
				}
			}

			value, _ = sb.Preference()
			if value != "R" || sb.Counter() != 4 || !sb.Done() {
				t.Logf("\t\tTest 0:\tgot: value %q, counter %d, done %v", value, sb.Counter(), sb.Done())
				t.Fatalf("\t%s\tTest 0:\tShould be done on R with counter 4 after round 4.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould be done on R with counter 4 after round 4.", success)
		}

		t.Logf("\tTest 1:\tWhen a round without a quorum interrupts the streak.")
		{
			sb := newSnowball(t)

			if err := sb.Tick([]string{"R", "R", "R", "R", "B"}); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould accept the first round: %v", failed, err)
			}

			if err := sb.Tick([]string{"R", "R", "B", "B", "X"}); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould accept the quorumless round: %v", failed, err)
			}

			value, exists := sb.Preference()
			if !exists || value != "R" || sb.Counter() != 0 {
				t.Logf("\t\tTest 1:\tgot: value %q, counter %d", value, sb.Counter())
				t.Fatalf("\t%s\tTest 1:\tShould keep R but reset the counter to 0.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould keep R but reset the counter to 0.", success)
		}
	}
}

func Test_PreferenceChange(t *testing.T) {
	t.Log("Given the need to validate the preference follows the cumulative winner.")
	{
		t.Logf("\tTest 0:\tWhen a different value wins more quorum rounds.")
		{
			sb := newSnowball(t)

			if err := sb.Tick([]string{"R", "R", "R", "R", "B"}); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the R round: %v", failed, err)
			}

			// One round for B ties the cumulative counters. A tie is not
			// enough to displace the current preference.
			if err := sb.Tick([]string{"B", "B", "B", "B", "R"}); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the first B round: %v", failed, err)
			}

			value, _ := sb.Preference()
			if value != "R" || sb.Counter() != 1 {
				t.Logf("\t\tTest 0:\tgot: value %q, counter %d", value, sb.Counter())
				t.Fatalf("\t%s\tTest 0:\tShould keep R while the counters are tied.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould keep R while the counters are tied.", success)

			if err := sb.Tick([]string{"B", "B", "B", "B", "R"}); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the second B round: %v", failed, err)
			}

			// The favorite is compared against the pre-round preference, so
			// the streak restarts even as the preference switches.
			value, _ = sb.Preference()
			if value != "B" || sb.Counter() != 1 {
				t.Logf("\t\tTest 0:\tgot: value %q, counter %d", value, sb.Counter())
				t.Fatalf("\t%s\tTest 0:\tShould switch to B once it pulls ahead.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould switch to B once it pulls ahead.", success)

			if sb.Successes("R") != 1 || sb.Successes("B") != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould track cumulative successes per value: R=%d B=%d", failed, sb.Successes("R"), sb.Successes("B"))
			}
			t.Logf("\t%s\tTest 0:\tShould track cumulative successes per value.", success)
		}
	}
}

func Test_DoneIsFinal(t *testing.T) {
	t.Log("Given the need to validate further ticks cannot move a stable decision.")
	{
		t.Logf("\tTest 0:\tWhen ticking against the decision after it is stable.")
		{
			sb := newSnowball(t)
			for i := 0; i < 4; i++ {
				if err := sb.Tick([]string{"R", "R", "R", "R", "R"}); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould accept round %d: %v", failed, i+1, err)
				}
			}
			if !sb.Done() {
				t.Fatalf("\t%s\tTest 0:\tShould be done after four quorum rounds.", failed)
			}

			for i := 0; i < 10; i++ {
				if err := sb.Tick([]string{"B", "B", "B", "B", "B"}); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould ignore post-decision rounds: %v", failed, err)
				}
			}

			value, _ := sb.Preference()
			if value != "R" || sb.Counter() != 4 || sb.Successes("B") != 0 {
				t.Logf("\t\tTest 0:\tgot: value %q, counter %d, B=%d", value, sb.Counter(), sb.Successes("B"))
				t.Fatalf("\t%s\tTest 0:\tShould leave the decision untouched.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the decision untouched.", success)
		}
	}
}

func Test_TieBreak(t *testing.T) {
	t.Log("Given the need to validate round favorites tie-break deterministically.")
	{
		t.Logf("\tTest 0:\tWhen two values split the round evenly.")
		{
			sb, err := snowball.New(snowball.Config[string]{
				SampleSize:        4,
				QuorumSize:        2,
				DecisionThreshold: 3,
				Compare:           strings.Compare,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct a snowball: %v", failed, err)
			}

			if err := sb.Tick([]string{"Z", "A", "Z", "A"}); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the round: %v", failed, err)
			}

			value, _ := sb.Preference()
			if value != "A" {
				t.Fatalf("\t%s\tTest 0:\tShould favor the smaller value on a tie: %q", failed, value)
			}
			t.Logf("\t%s\tTest 0:\tShould favor the smaller value on a tie.", success)
		}
	}
}

func Test_RejectedRounds(t *testing.T) {
	t.Log("Given the need to validate malformed vote rounds are rejected.")
	{
		t.Logf("\tTest 0:\tWhen the multiset round is empty.")
		{
			sb := newSnowball(t)
			if err := sb.Tick(nil); !errors.Is(err, snowball.ErrNoVotes) {
				t.Fatalf("\t%s\tTest 0:\tShould reject an empty round: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject an empty round.", success)
		}

		t.Logf("\tTest 1:\tWhen the weighted round is degenerate.")
		{
			sb := newSnowball(t)

			if err := sb.TickWeighted(nil); !errors.Is(err, snowball.ErrNoVotes) {
				t.Fatalf("\t%s\tTest 1:\tShould reject an empty weighted round: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject an empty weighted round.", success)

			if err := sb.TickWeighted(map[string]float64{"R": 5}); !errors.Is(err, snowball.ErrSingleValue) {
				t.Fatalf("\t%s\tTest 1:\tShould reject a single-value weighted round: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a single-value weighted round.", success)

			if err := sb.TickWeighted(map[string]float64{"R": 5, "B": 5}); !errors.Is(err, snowball.ErrTiedWeights) {
				t.Fatalf("\t%s\tTest 1:\tShould reject tied maximum weights: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject tied maximum weights.", success)
		}

		t.Logf("\tTest 2:\tWhen the weighted round carries a clear winner.")
		{
			sb := newSnowball(t)

			// Two distinct values make the relative threshold 4*2/2 = 4.
			if err := sb.TickWeighted(map[string]float64{"R": 4.5, "B": 1}); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould accept the round: %v", failed, err)
			}

			value, exists := sb.Preference()
			if !exists || value != "R" || sb.Counter() != 1 {
				t.Logf("\t\tTest 2:\tgot: value %q, counter %d", value, sb.Counter())
				t.Fatalf("\t%s\tTest 2:\tShould prefer R after the weighted quorum.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould prefer R after the weighted quorum.", success)
		}
	}
}
