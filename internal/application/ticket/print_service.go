package ticket

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/erp/ticketing/internal/domain/ticket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Print formats
const (
	PrintFormatHTML = "html"
	PrintFormatPDF  = "pdf"
)

// DefaultArchiveLinkExpiry is how long an archive download link stays valid
const DefaultArchiveLinkExpiry = 15 * time.Minute

// PrintService renders tickets and archives the PDF of submitted ones
type PrintService struct {
	repo       ticket.TicketAutomationRepository
	printer    TicketPrinter
	archive    DocumentArchive
	linkExpiry time.Duration
	logger     *zap.Logger
}

// NewPrintService creates a PrintService. archive may be nil.
func NewPrintService(repo ticket.TicketAutomationRepository, printer TicketPrinter, archive DocumentArchive, logger *zap.Logger) *PrintService {
	return &PrintService{
		repo:       repo,
		printer:    printer,
		archive:    archive,
		linkExpiry: DefaultArchiveLinkExpiry,
		logger:     logger,
	}
}

// SetLinkExpiry overrides the download link lifetime
func (s *PrintService) SetLinkExpiry(d time.Duration) {
	if d > 0 {
		s.linkExpiry = d
	}
}

// Print renders a ticket in the requested format. A submitted ticket's PDF
// comes with a link to its archived copy when an archive is configured.
func (s *PrintService) Print(ctx context.Context, tenantID, id uuid.UUID, format string) (*PrintResult, error) {
	t, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(format) {
	case "", PrintFormatHTML:
		html, err := s.printer.RenderHTML(ctx, t)
		if err != nil {
			return nil, err
		}
		return &PrintResult{
			FileName:    t.Name + ".html",
			ContentType: "text/html; charset=utf-8",
			Content:     []byte(html),
		}, nil
	case PrintFormatPDF:
		pdf, err := s.printer.RenderPDF(ctx, t)
		if err != nil {
			return nil, err
		}
		result := &PrintResult{
			FileName:    t.Name + ".pdf",
			ContentType: "application/pdf",
			Content:     pdf,
		}
		if s.archive != nil && !t.IsDraft() {
			url, err := s.store(ctx, t, pdf)
			if err != nil {
				s.logger.Warn("Failed to archive ticket PDF", zap.String("ticket", t.Name), zap.Error(err))
			} else {
				result.ArchiveURL = url
			}
		}
		return result, nil
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unsupported print format %q", format))
	}
}

// Archive renders the PDF of a submitted ticket and stores it, returning a download link
func (s *PrintService) Archive(ctx context.Context, tenantID, id uuid.UUID) (string, error) {
	if s.archive == nil {
		return "", shared.NewDomainError("ARCHIVE_UNAVAILABLE", "No document archive is configured")
	}
	t, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return "", err
	}
	if t.IsDraft() {
		return "", shared.NewDomainError("INVALID_STATE", "Only submitted ticket automations are archived")
	}
	pdf, err := s.printer.RenderPDF(ctx, t)
	if err != nil {
		return "", err
	}
	return s.store(ctx, t, pdf)
}

func (s *PrintService) store(ctx context.Context, t *ticket.TicketAutomation, pdf []byte) (string, error) {
	key := ArchiveKey(t)
	if err := s.archive.Upload(ctx, key, pdf, "application/pdf"); err != nil {
		return "", err
	}
	url, _, err := s.archive.GenerateDownloadURL(ctx, key, s.linkExpiry)
	if err != nil {
		return "", err
	}
	return url, nil
}

// ArchiveKey is the object key of a ticket's archived PDF
func ArchiveKey(t *ticket.TicketAutomation) string {
	return fmt.Sprintf("ticket-automations/%s/%s.pdf", t.TenantID, t.Name)
}
