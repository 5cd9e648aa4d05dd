package round

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSummarizeNeedsOutcome(t *testing.T) {
	if _, ok := Summarize(State{}); ok {
		t.Fatal("expected no summary before game over")
	}
}

func TestSummarize(t *testing.T) {
	history := []Guess{
		{{0, 0}, {1, 0}, {2, 0}, {4, 1}},
		{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
	}
	tests := []struct {
		name  string
		state State
		want  Summary
	}{
		{
			name: "win",
			state: State{
				PuzzleID: 7,
				History:  history,
				Outcome:  &Outcome{Won: true, Mistakes: 1, Guesses: 5, SolvedGroups: 4, ElapsedSeconds: 75},
			},
			want: Summary{
				Headline: "Congratulations!",
				Clock:    "01:15",
				Time:     "You completed Puzzle #7 in 1 minute and 15 seconds. You're a speed demon!",
				Result:   "You made 5 guesses, and had only one mistake! Great job!",
				Grid:     "🟨🟨🟨🟩\n🟨🟨🟨🟨",
			},
		},
		{
			name: "loss",
			state: State{
				PuzzleID: 300,
				Outcome:  &Outcome{Won: false, Mistakes: 4, Guesses: 6, SolvedGroups: 2, ElapsedSeconds: 601},
			},
			want: Summary{
				Headline: "Next Time!",
				Clock:    "10:01",
				Time:     "You completed Puzzle #300 in 10 minutes and 1 second. You thought about it a lot!",
				Result:   "You made 6 guesses, and completed 2 groups before running out of chances... Better luck next time!",
			},
		},
		{
			name: "quick loss",
			state: State{
				PuzzleID: 1,
				Outcome:  &Outcome{Mistakes: 4, Guesses: 4, ElapsedSeconds: 42},
			},
			want: Summary{
				Headline: "Next Time!",
				Clock:    "00:42",
				Time:     "You completed Puzzle #1 in 42 seconds. You're a speed demon!",
				Result:   "You made 4 guesses, and completed no groups before running out of chances... Tough luck!",
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Summarize(tc.state)
			if !ok {
				t.Fatal("expected a summary")
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("summary (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMistakeRemark(t *testing.T) {
	for n, want := range map[int]string{
		0: "no mistakes! It was a perfect game!",
		2: "2 mistakes. Well done!",
		3: "3 mistakes. It was close, but you made it!",
	} {
		if got := mistakeRemark(n); got != want {
			t.Errorf("mistakeRemark(%d) = %q, want %q", n, got, want)
		}
	}
}
