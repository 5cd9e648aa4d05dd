// internal/puzzles/source.go
//
// Upstream puzzle lists.
// Responsibilities:
//   - HTTPSource:       the public NYT Connections answers JSON (or any URL with that shape).
//   - FileSource:       a local JSON file in the same shape.
//   - PocketBaseSource: records of a PocketBase collection.
//   - Bundled:          the list compiled into the binary.
//
// Every source returns the raw list; validation happens in the repository.
// Failures are classified as ErrNetwork (could not reach/read) or ErrParse
// (reached but the payload is not a puzzle list).
package puzzles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	pocketbase "github.com/habibrosyad/pocketbase-go-sdk"

	"github.com/robalobadob/connections/assets"
	"github.com/robalobadob/connections/internal/puzzle"
)

// DefaultURL is the public answers archive.
const DefaultURL = "https://raw.githubusercontent.com/Eyefyre/NYT-Connections-Answers/refs/heads/main/connections.json"

var (
	ErrNetwork = errors.New("puzzle source unreachable")
	ErrParse   = errors.New("puzzle source returned malformed data")
)

// Source fetches the full puzzle list.
type Source interface {
	Fetch(ctx context.Context) ([]puzzle.Puzzle, error)
	Name() string
}

// decode parses the archive format.
func decode(b []byte) ([]puzzle.Puzzle, error) {
	var list []puzzle.Puzzle
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return list, nil
}

// Bundled returns the embedded puzzle list.
func Bundled() ([]puzzle.Puzzle, error) {
	b, err := assets.BundledPuzzles()
	if err != nil {
		return nil, fmt.Errorf("read bundled puzzles: %w", err)
	}
	return decode(b)
}

// ------------------------------- HTTP --------------------------------------

// HTTPSource downloads the list with a single GET.
type HTTPSource struct {
	url    string
	client *resty.Client
}

// NewHTTPSource uses DefaultURL when url is empty.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if url == "" {
		url = DefaultURL
	}
	c := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &HTTPSource{url: url, client: c}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Fetch(ctx context.Context) ([]puzzle.Puzzle, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s returned %d", ErrNetwork, s.url, resp.StatusCode())
	}
	return decode(resp.Body())
}

// ------------------------------- file --------------------------------------

// FileSource reads the list from disk.
type FileSource struct{ path string }

func NewFileSource(path string) *FileSource { return &FileSource{path: path} }

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Fetch(ctx context.Context) ([]puzzle.Puzzle, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return decode(b)
}

// ----------------------------- PocketBase ----------------------------------

const pocketBasePageSize = 200

// PocketBaseSource lists a collection whose records carry
// number (int), date (date or text) and answers (json) fields.
type PocketBaseSource struct {
	client     *pocketbase.Client
	collection string
	authorize  bool
}

// NewPocketBaseSource authenticates as superuser when email is set.
func NewPocketBaseSource(url, collection, email, password string) *PocketBaseSource {
	client := pocketbase.NewClient(url)
	if email != "" {
		client = pocketbase.NewClient(url, pocketbase.WithSuperuserEmailPassword(email, password))
	}
	return &PocketBaseSource{client: client, collection: collection, authorize: email != ""}
}

func (s *PocketBaseSource) Name() string { return "pocketbase" }

// pbRecord is the collection schema.
type pbRecord struct {
	Number  int                  `json:"number"`
	Date    string               `json:"date"`
	Answers []puzzle.AnswerGroup `json:"answers"`
}

func (s *PocketBaseSource) Fetch(ctx context.Context) ([]puzzle.Puzzle, error) {
	if s.authorize {
		if err := s.client.Authorize(); err != nil {
			return nil, fmt.Errorf("%w: authorize: %v", ErrNetwork, err)
		}
	}

	var out []puzzle.Puzzle
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
		}
		res, err := s.client.List(s.collection, pocketbase.ParamsList{
			Page: page,
			Size: pocketBasePageSize,
			Sort: "number",
		})
		if err != nil {
			return nil, fmt.Errorf("%w: list %s: %v", ErrNetwork, s.collection, err)
		}
		for _, item := range res.Items {
			p, err := recordToPuzzle(item)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		if page >= res.TotalPages {
			return out, nil
		}
	}
}

// recordToPuzzle re-encodes a generic record into the collection schema.
func recordToPuzzle(item map[string]any) (puzzle.Puzzle, error) {
	b, err := json.Marshal(item)
	if err != nil {
		return puzzle.Puzzle{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	var rec pbRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return puzzle.Puzzle{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	// PocketBase date fields look like "2024-05-01 00:00:00.000Z".
	date, _, _ := strings.Cut(rec.Date, " ")
	return puzzle.Puzzle{ID: rec.Number, Date: date, Groups: rec.Answers}, nil
}
