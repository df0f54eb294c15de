package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	errs "xmedia/pkg/errors"
	"xmedia/pkg/logger"
	"xmedia/pkg/retry"
)

// ChromePage is a new tab in a Chrome instance reached through its remote
// debugging endpoint
type ChromePage struct {
	tabCtx      context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	logger      logger.Logger
}

// Attach connects to the debugging endpoint (e.g. http://localhost:9222) and
// opens a new tab in the existing browser context. Connection failures are
// retried because Chrome may still be starting.
func Attach(ctx context.Context, debugURL string, attempts int, log logger.Logger) (*ChromePage, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	return retry.DoWithResult(ctx, func(ctx context.Context) (*ChromePage, error) {
		allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, debugURL)
		tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
			log.Debug(fmt.Sprintf(format, args...))
		}))

		// An empty run establishes the connection and creates the target
		if err := chromedp.Run(tabCtx); err != nil {
			cancelTab()
			cancelAlloc()
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, errs.Wrap(errs.ErrorTypeBrowser, fmt.Sprintf("failed to attach to %s", debugURL), err)
		}

		log.WithField("debug_url", debugURL).Info("Attached to browser")
		return &ChromePage{
			tabCtx:      tabCtx,
			cancelTab:   cancelTab,
			cancelAlloc: cancelAlloc,
			logger:      log,
		}, nil
	}, &retry.Config{
		MaxAttempts: attempts,
		Backoff:     retry.DefaultExponentialBackoff(),
		RetryIf:     retry.DefaultRetryIf,
		Logger:      log,
	})
}

// run executes actions in the tab, giving up early when ctx is cancelled
func (p *ChromePage) run(ctx context.Context, what string, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(p.tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errs.Wrap(errs.ErrorTypeBrowser, what, err)
	}
	return nil
}

func (p *ChromePage) Navigate(ctx context.Context, url string) error {
	p.logger.WithField("url", url).Debug("Navigating")
	return p.run(ctx, "navigate to "+url, chromedp.Navigate(url))
}

func (p *ChromePage) Location(ctx context.Context) (string, error) {
	var loc string
	if err := p.run(ctx, "read location", chromedp.Location(&loc)); err != nil {
		return "", err
	}
	return loc, nil
}

// QueryAll returns every node matching selector; no match is not an error
func (p *ChromePage) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	var nodes []*cdp.Node
	if err := p.run(ctx, "query "+selector,
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	); err != nil {
		return nil, err
	}

	elements := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, n)
	}
	return elements, nil
}

// Evaluate runs a script for its side effects
func (p *ChromePage) Evaluate(ctx context.Context, script string) error {
	var done bool
	wrapped := "(() => { " + script + "; return true; })()"
	return p.run(ctx, "evaluate script", chromedp.Evaluate(wrapped, &done))
}

// Close closes the tab. The browser itself keeps running.
func (p *ChromePage) Close() {
	p.cancelTab()
	p.cancelAlloc()
}
