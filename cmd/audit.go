package cmd

import (
	"context"

	log "github.com/sirupsen/logrus"

	"notoc/events"
)

// subscribeAuditLog writes every committed domain event to the structured
// log, giving an audit trail of ledger changes without touching the bot's
// request path.
func subscribeAuditLog(bus *events.Bus) {
	bus.Subscribe(events.EventTypeTransactionRecorded, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.TransactionRecordedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"userID":        e.UserID,
			"debtorID":      e.DebtorID,
			"debtorName":    e.DebtorName,
			"transactionID": e.TransactionID,
			"type":          e.TransactionType,
			"amount":        e.Amount,
			"newBalance":    e.NewBalance,
		}).Info("Transaction recorded")
	})

	bus.Subscribe(events.EventTypeTransactionDeleted, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.TransactionDeletedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"userID":        e.UserID,
			"debtorID":      e.DebtorID,
			"transactionID": e.TransactionID,
		}).Info("Transaction deleted")
	})

	bus.Subscribe(events.EventTypeDebtorCreated, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.DebtorCreatedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"userID":   e.UserID,
			"debtorID": e.DebtorID,
			"name":     e.Name,
		}).Info("Debtor created")
	})
}
