// internal/daily/daily.go
//
// Puzzle of the day.
// The puzzle dated today (UTC) wins; when the list has no puzzle for today
// (old cache, bundled list) a stable index is derived from
// HMAC-SHA256(salt, YYYY-MM-DD) so every player gets the same pick.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/connections/internal/puzzle"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// Index returns a deterministic index in [0, n) for the day of t.
func Index(t time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(t)))
	sum := h.Sum(nil)
	// first 8 bytes for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Pick chooses the puzzle for the day of t. ok is false for an empty list.
func Pick(list []puzzle.Puzzle, t time.Time, salt string) (p puzzle.Puzzle, ok bool) {
	if len(list) == 0 {
		return puzzle.Puzzle{}, false
	}
	today := DateKey(t)
	for _, p := range list {
		if p.Date == today {
			return p, true
		}
	}
	return list[Index(t, salt, len(list))], true
}
