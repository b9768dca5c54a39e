package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// QueryLog accumulates every composed upstream query for the run so the
// whole search is reproducible from one file.
type QueryLog struct {
	mu    sync.Mutex
	lines []string
}

func NewQueryLog() *QueryLog {
	return &QueryLog{}
}

func (q *QueryLog) Add(jobTitle, label, query string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.lines = append(q.lines, fmt.Sprintf("[%s] %s: %s", jobTitle, label, query))
}

// Save writes the collected queries. Nothing is written when no query ran.
func (q *QueryLog) Save(path string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.lines) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strings.Join(q.lines, "\n")+"\n"), 0o644)
}
