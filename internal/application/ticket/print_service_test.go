package ticket

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/erp/ticketing/internal/domain/ticket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePrinter struct {
	pdfErr error
}

func (p *fakePrinter) RenderHTML(_ context.Context, t *ticket.TicketAutomation) (string, error) {
	return "<h1>" + t.Name + "</h1>", nil
}

func (p *fakePrinter) RenderPDF(_ context.Context, t *ticket.TicketAutomation) ([]byte, error) {
	if p.pdfErr != nil {
		return nil, p.pdfErr
	}
	return []byte("%PDF-" + t.Name), nil
}

type fakeArchive struct {
	objects   map[string][]byte
	uploadErr error
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{objects: make(map[string][]byte)}
}

func (a *fakeArchive) Upload(_ context.Context, key string, data []byte, _ string) error {
	if a.uploadErr != nil {
		return a.uploadErr
	}
	a.objects[key] = data
	return nil
}

func (a *fakeArchive) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	return fmt.Sprintf("memory://archive/%s?expires=%d", key, int(expiresIn.Seconds())), testToday.Add(expiresIn), nil
}

func TestPrintService_Print(t *testing.T) {
	ctx := context.Background()

	t.Run("html", func(t *testing.T) {
		repo := new(MockTicketRepository)
		doc := namedTicket()
		repo.On("FindByIDForTenant", mock.Anything, testTenantID, doc.ID).Return(doc, nil)

		svc := NewPrintService(repo, &fakePrinter{}, nil, zap.NewNop())
		result, err := svc.Print(ctx, testTenantID, doc.ID, "")
		require.NoError(t, err)
		assert.Equal(t, "CUST-01-Ticket-#01.html", result.FileName)
		assert.Equal(t, "text/html; charset=utf-8", result.ContentType)
		assert.Equal(t, "<h1>CUST-01-Ticket-#01</h1>", string(result.Content))
	})

	t.Run("pdf of a draft is not archived", func(t *testing.T) {
		repo := new(MockTicketRepository)
		doc := namedTicket()
		repo.On("FindByIDForTenant", mock.Anything, testTenantID, doc.ID).Return(doc, nil)
		archive := newFakeArchive()

		result, err := NewPrintService(repo, &fakePrinter{}, archive, zap.NewNop()).Print(ctx, testTenantID, doc.ID, "PDF")
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", result.ContentType)
		assert.Empty(t, result.ArchiveURL)
		assert.Empty(t, archive.objects)
	})

	t.Run("pdf of a submitted ticket is archived", func(t *testing.T) {
		repo := new(MockTicketRepository)
		doc := namedTicket()
		require.NoError(t, doc.Submit(testToday))
		repo.On("FindByIDForTenant", mock.Anything, testTenantID, doc.ID).Return(doc, nil)
		archive := newFakeArchive()

		svc := NewPrintService(repo, &fakePrinter{}, archive, zap.NewNop())
		svc.SetLinkExpiry(5 * time.Minute)
		result, err := svc.Print(ctx, testTenantID, doc.ID, PrintFormatPDF)
		require.NoError(t, err)

		key := "ticket-automations/" + testTenantID.String() + "/CUST-01-Ticket-#01.pdf"
		assert.Equal(t, key, ArchiveKey(doc))
		assert.Equal(t, []byte("%PDF-CUST-01-Ticket-#01"), archive.objects[key])
		assert.Equal(t, "memory://archive/"+key+"?expires=300", result.ArchiveURL)
	})

	t.Run("archive failure still returns the pdf", func(t *testing.T) {
		repo := new(MockTicketRepository)
		doc := namedTicket()
		require.NoError(t, doc.Submit(testToday))
		repo.On("FindByIDForTenant", mock.Anything, testTenantID, doc.ID).Return(doc, nil)
		archive := newFakeArchive()
		archive.uploadErr = errors.New("bucket missing")

		result, err := NewPrintService(repo, &fakePrinter{}, archive, zap.NewNop()).Print(ctx, testTenantID, doc.ID, "pdf")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Content)
		assert.Empty(t, result.ArchiveURL)
	})

	t.Run("unknown format", func(t *testing.T) {
		repo := new(MockTicketRepository)
		doc := namedTicket()
		repo.On("FindByIDForTenant", mock.Anything, testTenantID, doc.ID).Return(doc, nil)

		_, err := NewPrintService(repo, &fakePrinter{}, nil, zap.NewNop()).Print(ctx, testTenantID, doc.ID, "docx")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestPrintService_Archive(t *testing.T) {
	ctx := context.Background()

	t.Run("no archive configured", func(t *testing.T) {
		svc := NewPrintService(new(MockTicketRepository), &fakePrinter{}, nil, zap.NewNop())
		_, err := svc.Archive(ctx, testTenantID, namedTicket().ID)
		assert.ErrorIs(t, err, shared.NewDomainError("ARCHIVE_UNAVAILABLE", ""))
	})

	t.Run("draft is rejected", func(t *testing.T) {
		repo := new(MockTicketRepository)
		doc := namedTicket()
		repo.On("FindByIDForTenant", mock.Anything, testTenantID, doc.ID).Return(doc, nil)

		_, err := NewPrintService(repo, &fakePrinter{}, newFakeArchive(), zap.NewNop()).Archive(ctx, testTenantID, doc.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestSalesCycleCompletedHandler_Handle(t *testing.T) {
	ctx := context.Background()

	doc := namedTicket()
	require.NoError(t, doc.Submit(testToday))
	require.NoError(t, doc.RecordSalesCycle("SAL-ORD-2024-00001", "ACC-PAY-2024-00001"))
	repo := new(MockTicketRepository)
	repo.On("FindByIDForTenant", mock.Anything, testTenantID, doc.ID).Return(doc, nil)
	archive := newFakeArchive()

	handler := NewSalesCycleCompletedHandler(NewPrintService(repo, &fakePrinter{}, archive, zap.NewNop()), zap.NewNop())
	assert.Equal(t, []string{ticket.EventTypeSalesCycleCompleted}, handler.EventTypes())

	require.NoError(t, handler.Handle(ctx, ticket.NewSalesCycleCompletedEvent(doc)))
	assert.Contains(t, archive.objects, ArchiveKey(doc))

	err := handler.Handle(ctx, ticket.NewTicketAutomationSubmittedEvent(doc))
	assert.Error(t, err)
}
