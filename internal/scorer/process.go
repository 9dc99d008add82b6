package scorer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/redmonkez12/sentiment-api/internal/sentiment"
)

const (
	maxStdout = 1 << 20
	maxStderr = 4 << 10

	// how long to wait for output pipes after the process has been killed
	waitDelay = 500 * time.Millisecond
)

// ProcessScorer runs an external command for every review.
// The review text is passed as the final argument and the first non-empty line written to
// stdout must be a JSON object with "sentiment" and "confidence".
type ProcessScorer struct {
	command string
	args    []string
	timeout time.Duration
}

func NewProcessScorer(command string, args []string, timeout time.Duration) *ProcessScorer {
	return &ProcessScorer{
		command: command,
		args:    append([]string(nil), args...),
		timeout: timeout,
	}
}

// Score runs the command to completion. Cancellation of ctx is ignored; only the configured
// timeout stops a run early.
func (s *ProcessScorer) Score(ctx context.Context, review string) (sentiment.Result, error) {
	runCtx := context.WithoutCancel(ctx)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, s.timeout)
		defer cancel()
	}

	args := make([]string, 0, len(s.args)+1)
	args = append(args, s.args...)
	args = append(args, review)

	stdout := &cappedBuffer{max: maxStdout}
	stderr := &cappedBuffer{max: maxStderr}

	cmd := exec.CommandContext(runCtx, s.command, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return sentiment.Result{}, fmt.Errorf("%w: timed out after %s", ErrUnavailable, s.timeout)
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return sentiment.Result{}, fmt.Errorf("%w: exited with code %d: %s",
				ErrUnavailable, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}

		return sentiment.Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return parseOutput(stdout.Bytes())
}

type wireResult struct {
	Sentiment  *string  `json:"sentiment"`
	Confidence *float64 `json:"confidence"`
}

// parseOutput decodes the first non-empty line of output and validates it
func parseOutput(out []byte) (sentiment.Result, error) {
	line, ok := firstLine(out)
	if !ok {
		return sentiment.Result{}, fmt.Errorf("%w: no output", ErrProtocol)
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(line), &wire); err != nil {
		return sentiment.Result{}, fmt.Errorf("%w: malformed output: %v", ErrProtocol, err)
	}
	if wire.Sentiment == nil || wire.Confidence == nil {
		return sentiment.Result{}, fmt.Errorf("%w: output missing sentiment or confidence", ErrProtocol)
	}

	result := sentiment.Result{
		Sentiment:  sentiment.Sentiment(*wire.Sentiment),
		Confidence: *wire.Confidence,
	}
	if err := result.Validate(); err != nil {
		return sentiment.Result{}, fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	return result, nil
}

func firstLine(out []byte) (string, bool) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64<<10), maxStdout)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line, true
		}
	}
	return "", false
}

// cappedBuffer keeps the first max bytes written and silently drops the rest
type cappedBuffer struct {
	buf bytes.Buffer
	max int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := b.max - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) Bytes() []byte { return b.buf.Bytes() }

func (b *cappedBuffer) String() string { return b.buf.String() }
