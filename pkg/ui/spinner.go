package ui

import (
	"context"
	"time"

	"github.com/briandowns/spinner"
	"xmedia/pkg/retry"
)

// Pause waits for d like retry.Wait, showing a spinner with the reason when
// stdout is a terminal and output is not quiet.
func Pause(ctx context.Context, d time.Duration, reason string) error {
	mu.Lock()
	show := !quietMode && d > 0
	w := out
	mu.Unlock()

	if !show {
		return retry.Wait(ctx, d)
	}

	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + reason
	s.Start()
	defer s.Stop()

	return retry.Wait(ctx, d)
}
