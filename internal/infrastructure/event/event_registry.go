package event

import "github.com/erp/ticketing/internal/domain/ticket"

// RegisterAllEvents registers every domain event type with the serializer
func RegisterAllEvents(serializer *EventSerializer) {
	serializer.Register(ticket.EventTypeTicketAutomationCreated, &ticket.TicketAutomationCreatedEvent{})
	serializer.Register(ticket.EventTypeQuotationsRefreshed, &ticket.QuotationsRefreshedEvent{})
	serializer.Register(ticket.EventTypeTicketAutomationSubmitted, &ticket.TicketAutomationSubmittedEvent{})
	serializer.Register(ticket.EventTypeSalesCycleCompleted, &ticket.SalesCycleCompletedEvent{})
}
