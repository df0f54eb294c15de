// Package scraper runs the scroll-collect loop for one profile.
//
// A Scraper opens https://x.com/<username>/media in the attached browser and
// repeats a fixed number of iterations. Each iteration checks that the tab is
// still on the media timeline, downloads every image it has not seen before,
// records new video post links and scrolls further down. When the loop ends
// the collected video links go to the VideoHandoff exactly once.
//
//	s := scraper.New(cfg, page, fetcher.New(...), handoff.New(...), log)
//	s.SetPauseFunc(ui.Pause)
//	result, err := s.Collect(ctx, "nasa")
//
// Image URLs are deduplicated on their canonical large-JPEG form. A failed
// image download is logged and counted but never retried in the same run.
// Any browser error aborts the run.
package scraper
