// Package retry provides backoff strategies, a retry loop and a cancellable
// wait.
//
// The collector uses DoWithResult to attach to the remote debugging endpoint, which may
// still be starting when the command runs, and Wait for every fixed pause of
// the scroll loop so that Ctrl+C interrupts a sleep immediately.
//
//	page, err := retry.DoWithResult(ctx, func(ctx context.Context) (*Session, error) {
//		return connect(ctx, debugURL)
//	}, &retry.Config{MaxAttempts: 3, Backoff: retry.DefaultExponentialBackoff()})
//
// Errors classified by xmedia/pkg/errors are retried only when their type is
// retryable (network, browser). Context cancellation is never retried.
package retry
