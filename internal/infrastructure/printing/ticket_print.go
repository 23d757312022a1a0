package printing

import (
	"context"
	"embed"
	"html/template"

	ticketapp "github.com/erp/ticketing/internal/application/ticket"
	"github.com/erp/ticketing/internal/domain/ticket"
	"github.com/erp/ticketing/internal/infrastructure/telemetry"
)

//go:embed templates/ticket_automation.html
var templateFS embed.FS

const ticketTemplatePath = "templates/ticket_automation.html"

// ticketPrintData is the template root
type ticketPrintData struct {
	Lang   string
	Ticket *ticket.TicketAutomation
}

// TicketPrinter renders the Ticket Automation print format. A nil PDF renderer limits it to HTML.
type TicketPrinter struct {
	engine   *TemplateEngine
	tmpl     *template.Template
	renderer PDFRenderer
	paper    PaperSize
}

// NewTicketPrinter parses the embedded print format
func NewTicketPrinter(engine *TemplateEngine, renderer PDFRenderer) (*TicketPrinter, error) {
	content, err := templateFS.ReadFile(ticketTemplatePath)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "print format not embedded", err)
	}
	tmpl, err := engine.Parse("ticket_automation", string(content))
	if err != nil {
		return nil, err
	}
	return &TicketPrinter{
		engine:   engine,
		tmpl:     tmpl,
		renderer: renderer,
		paper:    PaperSizeA4,
	}, nil
}

// RenderHTML renders the print format
func (p *TicketPrinter) RenderHTML(ctx context.Context, t *ticket.TicketAutomation) (string, error) {
	return p.engine.Execute(p.tmpl, ticketPrintData{
		Lang:   p.engine.Locale().String(),
		Ticket: t,
	})
}

// RenderPDF renders the print format and converts it to PDF
func (p *TicketPrinter) RenderPDF(ctx context.Context, t *ticket.TicketAutomation) ([]byte, error) {
	if p.renderer == nil {
		return nil, NewRenderError(ErrCodeRendererUnavailable, "PDF rendering is not configured", nil)
	}

	ctx, span := telemetry.StartSpan(ctx, "printing.ticket_pdf",
		telemetry.WithAttribute("ticket.name", t.Name),
	)
	defer span.End()

	html, err := p.RenderHTML(ctx, t)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	result, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:        html,
		PaperSize:   p.paper,
		Orientation: OrientationPortrait,
		Margins:     DefaultMargins(),
		Title:       t.Name,
		FooterHTML:  `<div style="font-size:8pt;width:100%;text-align:center"><span class="pageNumber"></span>/<span class="totalPages"></span></div>`,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return result.PDFData, nil
}

// Ensure TicketPrinter implements the application print port
var _ ticketapp.TicketPrinter = (*TicketPrinter)(nil)
