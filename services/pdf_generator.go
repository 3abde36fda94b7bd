package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"mediscript_app_go/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// getChromePath returns the Chrome executable path from environment variable
func getChromePath() string {
	return os.Getenv("CHROME_PATH")
}

// GeneratePrintPDF renders a wrapped print document to PDF using headless
// Chrome. This is the server-side rendition of the browser print path: the
// page markup from RenderPrescriptionPage, hosted by WrapPageForPrint, is
// printed at the paper's exact millimeter dimensions with zero margins (the
// page carries its own padding). Portrait only.
func GeneratePrintPDF(htmlContent string, paper models.PaperSize) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	// Check for custom Chrome path (for headless-shell in Docker)
	if chromePath := getChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	// Chrome takes paper dimensions in inches
	paperWidth := paper.WidthMM / 25.4
	paperHeight := paper.HeightMM / 25.4

	var pdfBuf []byte

	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		// Fixed delay fallback in case the load event is unreliable for injected content
		chromedp.Sleep(100*time.Millisecond),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}

// PrintPrescription renders, wraps and prints a prescription in one call.
func PrintPrescription(doc models.Prescription, settings models.PrintSettings) ([]byte, error) {
	paper := models.PaperOf(settings.PageSize)
	pageHTML := RenderPrescriptionPage(doc, settings, 1)
	return GeneratePrintPDF(WrapPageForPrint(pageHTML, paper), paper)
}
