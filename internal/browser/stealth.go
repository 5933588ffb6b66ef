package browser

import (
	"context"
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// hideWebdriver runs before any page script.
const hideWebdriver = `Object.defineProperty(navigator, 'webdriver', { get: () => undefined });`

// RandomDelay waits for a random duration between min and max milliseconds,
// or until ctx is done.
func RandomDelay(ctx context.Context, min, max int) error {
	d := time.Duration(min) * time.Millisecond
	if max > min {
		d = time.Duration(rand.Intn(max-min+1)+min) * time.Millisecond
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// HumanScroll scrolls down in steps so lazy blocks render, then nudges back up.
func HumanScroll(ctx context.Context, page playwright.Page) error {
	for i := 0; i < 3; i++ {
		if _, err := page.Evaluate("window.scrollBy(0, window.innerHeight / 2)"); err != nil {
			return err
		}
		if err := RandomDelay(ctx, 200, 500); err != nil {
			return err
		}
	}
	_, err := page.Evaluate("window.scrollBy(0, -200)")
	return err
}
