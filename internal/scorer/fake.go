package scorer

import (
	"context"
	"sync"

	"github.com/redmonkez12/sentiment-api/internal/sentiment"
)

// Fake is an in-memory Scorer returning a fixed result or error and recording every review it saw
type Fake struct {
	Result sentiment.Result
	Err    error

	mu    sync.Mutex
	calls []string
}

func (f *Fake) Score(_ context.Context, review string) (sentiment.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, review)
	f.mu.Unlock()

	if f.Err != nil {
		return sentiment.Result{}, f.Err
	}
	return f.Result, nil
}

// Calls returns the reviews scored so far
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
