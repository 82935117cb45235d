package export

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-builder/internal/markdown"
)

// DefaultPDFTimeout bounds a single PDF render.
const DefaultPDFTimeout = 30 * time.Second

// Printer renders a standalone HTML page to PDF.
type Printer interface {
	PDF(ctx context.Context, html string, paper markdown.PaperSize) ([]byte, error)
}

// Chrome prints PDFs with a headless Chrome started per call.
type Chrome struct {
	// ExecPath overrides the browser binary. Empty uses chromedp's lookup.
	ExecPath string
	Timeout  time.Duration
}

// NewChrome returns a Chrome printer with the given timeout.
func NewChrome(timeout time.Duration) *Chrome {
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	return &Chrome{Timeout: timeout}
}

// PDF loads html into a blank page and prints it at the given paper size.
func (c *Chrome) PDF(ctx context.Context, html string, paper markdown.PaperSize) ([]byte, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	width, height := paper.Dimensions()
	var pdf []byte
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(width).
				WithPaperHeight(height).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, &Error{Format: FormatPDF, Message: "failed to print PDF", Cause: err}
	}
	return pdf, nil
}
