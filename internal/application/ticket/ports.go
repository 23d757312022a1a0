package ticket

import (
	"context"
	"time"

	"github.com/erp/ticketing/internal/domain/ticket"
)

// DocumentArchive stores rendered documents and hands out download links
type DocumentArchive interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// TicketPrinter renders the ticket print format
type TicketPrinter interface {
	RenderHTML(ctx context.Context, t *ticket.TicketAutomation) (string, error)
	RenderPDF(ctx context.Context, t *ticket.TicketAutomation) ([]byte, error)
}

// FieldRefresher is told which document field changed so a view can redraw it
type FieldRefresher func(field string)
