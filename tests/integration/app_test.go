package integration

import (
	"context"
	"testing"
	"time"

	"github.com/erp/ticketing/internal/application/portal"
	ticketapp "github.com/erp/ticketing/internal/application/ticket"
	"github.com/erp/ticketing/internal/domain/sales"
	"github.com/erp/ticketing/internal/infrastructure/auth"
	"github.com/erp/ticketing/internal/infrastructure/cache"
	"github.com/erp/ticketing/internal/infrastructure/config"
	"github.com/erp/ticketing/internal/infrastructure/event"
	"github.com/erp/ticketing/internal/infrastructure/persistence"
	"github.com/erp/ticketing/internal/infrastructure/printing"
	"github.com/erp/ticketing/internal/infrastructure/storage"
	"github.com/erp/ticketing/internal/interfaces/http/router"
	"github.com/erp/ticketing/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePDF struct{}

func (fakePDF) Render(_ context.Context, req *printing.RenderRequest) (*printing.RenderResult, error) {
	return &printing.RenderResult{PDFData: []byte("%PDF-1.7 " + req.Title)}, nil
}

func (fakePDF) Close() error { return nil }

// testApp is the HTTP engine wired as cmd/server wires it, on the local ledger
type testApp struct {
	DB      *TestDB
	Engine  *gin.Engine
	Ledger  *persistence.GormLedgerGateway
	Archive *storage.MemoryObjectStorage
	Events  *testutil.RecordingEventHandler
	Config  *config.Config
}

func newTestApp(t *testing.T, jwtEnabled bool) *testApp {
	t.Helper()

	log := zap.NewNop()
	db := NewSharedTestDB(t)

	cfg := &config.Config{
		App: config.AppConfig{Name: "ticketing-test", Env: "test", DefaultTenant: config.DefaultTenantID},
		JWT: config.JWTConfig{
			Enabled:                jwtEnabled,
			Secret:                 "integration-secret-key-at-least-32-chars",
			RefreshSecret:          "integration-refresh-secret-at-least-32-chars",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "ticketing-test",
			MaxRefreshCount:        5,
		},
		HTTP: config.HTTPConfig{
			MaxBodySize:      1 << 20,
			CORSAllowOrigins: []string{"http://localhost:3000"},
		},
		Gateway: config.GatewayConfig{Backend: config.BackendLocal},
		Ticket: config.TicketConfig{
			DefaultCompany:       "Vellap Ltd",
			DefaultModeOfPayment: "Cash",
			SubmitLockTTL:        time.Minute,
		},
	}

	ledger := persistence.NewGormLedgerGateway(db.DB)
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	repo := persistence.NewGormTicketAutomationRepository(db.DB)
	cycle := ticketapp.NewSalesCycle(ledger, log, ticketapp.WithSubmitGuard(store, cfg.Ticket.SubmitLockTTL))
	tickets := ticketapp.NewTicketService(repo, ledger, cycle, log)
	tickets.SetDefaults(ticketapp.Defaults{Company: cfg.Ticket.DefaultCompany, ModeOfPayment: cfg.Ticket.DefaultModeOfPayment})

	archive := storage.NewMemoryObjectStorage()
	printer, err := printing.NewTicketPrinter(printing.NewTemplateEngine("en"), fakePDF{})
	require.NoError(t, err)
	prints := ticketapp.NewPrintService(repo, printer, archive, log)

	recorder := testutil.NewRecordingEventHandler()
	bus := event.NewInMemoryEventBus(log)
	archiveHandler := ticketapp.NewSalesCycleCompletedHandler(prints, log)
	bus.Subscribe(event.NewIdempotentHandler(archiveHandler, store, time.Hour, log), archiveHandler.EventTypes()...)
	bus.Subscribe(recorder)
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })
	tickets.SetEventPublisher(bus)

	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := auth.NewInMemoryTokenBlacklist()
	portalService := portal.NewPortalService(
		persistence.NewGormUserRepository(db.DB),
		persistence.NewGormRegistrationStore(db.DB),
		jwtService,
		log,
	)
	portalService.SetTokenBlacklist(blacklist)

	engine := router.NewEngine(router.Dependencies{
		Config:     cfg,
		Logger:     log,
		JWT:        jwtService,
		Blacklist:  blacklist,
		Tickets:    tickets,
		Printer:    prints,
		Quotations: tickets,
		Portal:     portalService,
		DB:         db.SqlDB,
		Version:    "test",
	})

	return &testApp{
		DB:      db,
		Engine:  engine,
		Ledger:  ledger,
		Archive: archive,
		Events:  recorder,
		Config:  cfg,
	}
}

// client returns an API client for a fresh tenant so tests sharing the container never collide
func (a *testApp) client() *testutil.APIClient {
	return testutil.NewAPIClient(a.Engine, uuid.New())
}

func (a *testApp) seedQuotation(t *testing.T, tenantID uuid.UUID, customer, status string, qty, rate int64) string {
	t.Helper()
	name, err := a.Ledger.CreateQuotation(context.Background(), tenantID, &sales.Quotation{
		PartyName:       customer,
		Company:         "Vellap Ltd",
		Status:          status,
		TransactionDate: time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
		Items: []sales.QuotationItem{
			{ItemCode: "SKU-TICKET", ItemName: "Event ticket", Qty: decimal.NewFromInt(qty), Rate: decimal.NewFromInt(rate), UOM: "Nos"},
		},
	})
	require.NoError(t, err)
	return name
}

func (a *testApp) setDefaultAccount(t *testing.T, tenantID uuid.UUID) {
	t.Helper()
	require.NoError(t, a.Ledger.SetDefaultAccount(context.Background(), tenantID, "Cash", "Vellap Ltd", "Cash - VL"))
}

func submittedQuotations(t *testing.T, db *TestDB, tenantID uuid.UUID) int64 {
	t.Helper()
	return db.CountRows("quotations", "tenant_id = ? AND doc_status = ?", tenantID, int(sales.DocStatusSubmitted))
}

func eventsOfType(h *testutil.RecordingEventHandler, tenantID uuid.UUID, eventType string) int {
	n := 0
	for _, ev := range h.Handled() {
		if ev.TenantID() == tenantID && ev.EventType() == eventType {
			n++
		}
	}
	return n
}
