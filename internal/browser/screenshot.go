package browser

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ScreenshotDebugger saves a page image when a load goes wrong. The zero
// value and a nil pointer are both disabled.
type ScreenshotDebugger struct {
	outputDir string
}

// NewScreenshotDebugger returns nil when dir is empty.
func NewScreenshotDebugger(dir string) *ScreenshotDebugger {
	if dir == "" {
		return nil
	}
	return &ScreenshotDebugger{outputDir: dir}
}

// Capture never fails the caller; problems are only logged.
func (s *ScreenshotDebugger) Capture(page playwright.Page, name, message string) string {
	if s == nil || s.outputDir == "" {
		return ""
	}
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create screenshot directory: %v", err)
		return ""
	}

	path := filepath.Join(s.outputDir, s.fileName(name, time.Now()))
	log.Printf("📸 %s", message)
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		log.Printf("⚠️ Failed to capture screenshot: %v", err)
		return ""
	}
	log.Printf("   Screenshot saved: %s", path)
	return path
}

func (s *ScreenshotDebugger) fileName(name string, at time.Time) string {
	return fmt.Sprintf("%s_%s.png", name, at.Format("2006-01-02_15-04-05"))
}
