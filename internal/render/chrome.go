package render

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromeEngine renders HTML to PDF with a headless Chromium instance.
type ChromeEngine struct{}

// NewChromeEngine creates a Chromium-backed PDF engine. Chromium is launched
// lazily per render and torn down with the chromedp context.
func NewChromeEngine() *ChromeEngine {
	return &ChromeEngine{}
}

// RenderPDF loads the HTML document into a blank page and prints it to PDF
// (A4, backgrounds on). The caller bounds the operation via ctx.
func (e *ChromeEngine) RenderPDF(parentCtx context.Context, html string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	var pdf []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, fmt.Errorf("chromedp run failed: %w", err)
	}

	return pdf, nil
}
