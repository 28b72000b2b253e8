package readex_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/pagelens/readex"
)

// TestParseConcurrentEnginesAreIndependent exercises many Engine instances
// in parallel to catch data races introduced by package-level or
// accidentally-shared state. Each goroutine owns its own Engine, matching
// the documented single-use-per-Engine lifecycle; run with -race to get the
// actual guarantee.
func TestParseConcurrentEnginesAreIndependent(t *testing.T) {
	const workers = 32

	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			html := fmt.Sprintf(`<html><head><title>Article %d</title></head><body>
				<article>
					<h1>Article %d</h1>
					<p>This paragraph carries enough filler words to clear the content length threshold for worker number %d during this test run.</p>
					<p>A second paragraph keeps the total comfortably above the minimum so extraction picks this node as the winning candidate.</p>
				</article>
			</body></html>`, n, n, n)

			eng := readex.New()
			result, err := eng.Parse(html, "")
			if err != nil {
				errs <- fmt.Errorf("worker %d: %w", n, err)
				return
			}
			if result.Title == "" {
				errs <- fmt.Errorf("worker %d: empty title", n)
				return
			}
			want := fmt.Sprintf("Article %d", n)
			if result.Title != want {
				errs <- fmt.Errorf("worker %d: title = %q, want %q", n, result.Title, want)
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
