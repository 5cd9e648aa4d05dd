package round

import (
	"fmt"
	"strings"
)

// levelSquares colour guess history tiles by level, easiest first.
var levelSquares = [...]string{"🟨", "🟩", "🟦", "🟪"}

// Summary is the end-of-round report shown over the board.
type Summary struct {
	Headline string `json:"headline"`
	Clock    string `json:"clock"`
	Time     string `json:"time"`
	Result   string `json:"result"`
	Grid     string `json:"grid"`
}

// Summarize builds the report for a finished round. ok is false until the
// round reaches game over.
func Summarize(s State) (sum Summary, ok bool) {
	o := s.Outcome
	if o == nil {
		return Summary{}, false
	}

	sum.Headline = "Next Time!"
	if o.Won {
		sum.Headline = "Congratulations!"
	}
	sum.Clock = FormatClock(o.ElapsedSeconds)
	sum.Time = fmt.Sprintf("You completed Puzzle #%d in %s. %s",
		s.PuzzleID, spelledDuration(o.ElapsedSeconds), timeRemark(o.ElapsedSeconds))

	guesses := plural(o.Guesses, "guess", "guesses")
	if o.Won {
		sum.Result = fmt.Sprintf("You made %s, and had %s", guesses, mistakeRemark(o.Mistakes))
	} else {
		sum.Result = fmt.Sprintf("You made %s, and completed %s", guesses, groupRemark(o.SolvedGroups))
	}
	sum.Grid = HistoryGrid(s.History)
	return sum, true
}

// FormatClock renders seconds as mm:ss.
func FormatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// HistoryGrid renders one row of coloured squares per guess.
func HistoryGrid(history []Guess) string {
	var b strings.Builder
	for i, g := range history {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, c := range g {
			if c.GroupLevel >= 0 && c.GroupLevel < len(levelSquares) {
				b.WriteString(levelSquares[c.GroupLevel])
			}
		}
	}
	return b.String()
}

func spelledDuration(seconds int) string {
	mins, secs := seconds/60, seconds%60
	if mins == 0 {
		return plural(secs, "second", "seconds")
	}
	return plural(mins, "minute", "minutes") + " and " + plural(secs, "second", "seconds")
}

func timeRemark(seconds int) string {
	switch {
	case seconds < 180:
		return "You're a speed demon!"
	case seconds < 600:
		return "No sweat!"
	default:
		return "You thought about it a lot!"
	}
}

func mistakeRemark(mistakes int) string {
	switch mistakes {
	case 0:
		return "no mistakes! It was a perfect game!"
	case 1:
		return "only one mistake! Great job!"
	case 2:
		return "2 mistakes. Well done!"
	default:
		return fmt.Sprintf("%d mistakes. It was close, but you made it!", mistakes)
	}
}

func groupRemark(solved int) string {
	switch {
	case solved == 0:
		return "no groups before running out of chances... Tough luck!"
	case solved < 3:
		return plural(solved, "group", "groups") + " before running out of chances... Better luck next time!"
	default:
		return plural(solved, "group", "groups") + " before running out of chances... So close! You almost had it!"
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
