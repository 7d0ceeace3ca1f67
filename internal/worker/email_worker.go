package worker

// email_worker.go
// Processes jobs from QueueEmail: renders the order receipt PDF and mails it
// to the customer.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/infra"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	OrderID string `json:"order_id"`
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// EmailWorker sends order confirmation emails with the PDF receipt attached.
type EmailWorker struct {
	mailer     *infra.Mailer
	orders     repository.OrderRepository
	receiptDir string
}

func NewEmailWorker(mailer *infra.Mailer, orders repository.OrderRepository, receiptDir string) *EmailWorker {
	return &EmailWorker{mailer: mailer, orders: orders, receiptDir: receiptDir}
}

// Process implements Handler. Malformed payloads are dropped (retrying won't
// fix them); transient SMTP or DB failures bubble up so the pool retries.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return nil
	}

	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		log.Error().Str("order_id", payload.OrderID).Msg("email_worker: invalid order id")
		return nil
	}

	order, err := w.orders.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("email_worker: load order: %w", err)
	}

	pdfPath, err := infra.GenerateReceiptPDF(order, w.receiptDir)
	if err != nil {
		// Still send the confirmation without the attachment
		log.Error().Err(err).Str("order_id", payload.OrderID).Msg("email_worker: receipt generation failed")
		pdfPath = ""
	}

	if err := w.mailer.SendReceipt(payload.ToEmail, payload.Subject, payload.Body, pdfPath); err != nil {
		return errors.Join(errors.New("email_worker: send failed"), err)
	}
	log.Info().Str("to", payload.ToEmail).Str("order_id", payload.OrderID).Msg("email_worker: receipt sent")
	return nil
}
