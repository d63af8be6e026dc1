package documents

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/francisjavinico/backend-tintado/internal/domain/partner"
	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/mail"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/outbox"
)

// DispatchHandlers delivers the document emails queued by the business
// flows. Each handler renders the PDFs referenced by the job payload and
// sends them; a client without an email address skips the job instead of
// failing it.
type DispatchHandlers struct {
	documents  *DocumentService
	clientRepo partner.ClientRepository
	mailer     mail.Mailer
	logger     *zap.Logger
}

// NewDispatchHandlers creates a new DispatchHandlers
func NewDispatchHandlers(documents *DocumentService, clientRepo partner.ClientRepository, mailer mail.Mailer, logger *zap.Logger) *DispatchHandlers {
	return &DispatchHandlers{
		documents:  documents,
		clientRepo: clientRepo,
		mailer:     mailer,
		logger:     logger,
	}
}

// Register wires the handlers into a dispatcher
func (h *DispatchHandlers) Register(d *outbox.Dispatcher) {
	d.Register(shared.DispatchKindAppointmentDocs, h.HandleAppointmentDocs)
	d.Register(shared.DispatchKindInvoiceEmail, h.HandleInvoiceEmail)
	d.Register(shared.DispatchKindReceiptEmail, h.HandleReceiptEmail)
	d.Register(shared.DispatchKindPasswordReset, h.HandlePasswordReset)
}

// HandleAppointmentDocs emails the documents of a finalized appointment
func (h *DispatchHandlers) HandleAppointmentDocs(ctx context.Context, job *shared.DispatchJob) error {
	var payload shared.AppointmentDocsPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return outbox.Skip(fmt.Sprintf("payload ilegible: %v", err))
	}

	client, err := h.clientRepo.FindByID(ctx, payload.ClientID)
	if err != nil {
		return err
	}
	if client == nil {
		return outbox.Skip("cliente eliminado")
	}
	if !client.HasEmail() {
		return outbox.Skip("cliente sin email")
	}

	var attachments []mail.Attachment
	if payload.InvoiceID != nil {
		pdf, err := h.documents.InvoicePDF(ctx, *payload.InvoiceID)
		if err != nil {
			return err
		}
		attachments = append(attachments, pdfAttachment("factura.pdf", pdf))
	}
	if payload.ReceiptID != nil {
		pdf, err := h.documents.ReceiptPDF(ctx, *payload.ReceiptID)
		if err != nil {
			return err
		}
		attachments = append(attachments, pdfAttachment("recibo.pdf", pdf))
	}
	if payload.WarrantyID != nil {
		pdf, err := h.documents.WarrantyPDF(ctx, *payload.WarrantyID)
		if err != nil {
			return err
		}
		attachments = append(attachments, pdfAttachment("garantia.pdf", pdf))
	}
	if len(attachments) == 0 {
		return outbox.Skip("sin documentos que enviar")
	}

	subject, html := mail.ServiceDocsEmail(client.FullName(), payload.InvoiceID != nil)
	err = h.mailer.Send(ctx, mail.Message{
		To:          *client.Email,
		Subject:     subject,
		HTML:        html,
		Attachments: attachments,
	})
	if err != nil {
		return err
	}

	h.logger.Info("appointment documents sent",
		zap.String("job_id", job.ID.String()),
		zap.Int("attachments", len(attachments)))
	return nil
}

// HandleInvoiceEmail emails an invoice copy, queued either by a receipt
// conversion or by an explicit resend
func (h *DispatchHandlers) HandleInvoiceEmail(ctx context.Context, job *shared.DispatchJob) error {
	var payload shared.InvoiceEmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return outbox.Skip(fmt.Sprintf("payload ilegible: %v", err))
	}

	client, err := h.clientRepo.FindByID(ctx, payload.ClientID)
	if err != nil {
		return err
	}
	if client == nil {
		return outbox.Skip("cliente eliminado")
	}
	if !client.HasEmail() {
		return outbox.Skip("cliente sin email")
	}

	pdf, err := h.documents.InvoicePDF(ctx, payload.InvoiceID)
	if err != nil {
		return err
	}

	invoice, err := h.documents.invoiceRepo.FindByID(ctx, payload.InvoiceID)
	if err != nil {
		return err
	}
	number := ""
	if invoice != nil {
		number = invoice.Number()
	}

	subject, html := mail.InvoiceCopyEmail(client.FullName(), number)
	return h.mailer.Send(ctx, mail.Message{
		To:          *client.Email,
		Subject:     subject,
		HTML:        html,
		Attachments: []mail.Attachment{pdfAttachment("factura.pdf", pdf)},
	})
}

// HandleReceiptEmail emails a re-sent receipt copy
func (h *DispatchHandlers) HandleReceiptEmail(ctx context.Context, job *shared.DispatchJob) error {
	var payload shared.ReceiptEmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return outbox.Skip(fmt.Sprintf("payload ilegible: %v", err))
	}

	client, err := h.clientRepo.FindByID(ctx, payload.ClientID)
	if err != nil {
		return err
	}
	if client == nil {
		return outbox.Skip("cliente eliminado")
	}
	if !client.HasEmail() {
		return outbox.Skip("cliente sin email")
	}

	pdf, err := h.documents.ReceiptPDF(ctx, payload.ReceiptID)
	if err != nil {
		return err
	}

	receipt, err := h.documents.receiptRepo.FindByID(ctx, payload.ReceiptID)
	if err != nil {
		return err
	}
	number := ""
	if receipt != nil {
		number = receipt.Number()
	}

	subject, html := mail.ReceiptCopyEmail(client.FullName(), number)
	return h.mailer.Send(ctx, mail.Message{
		To:          *client.Email,
		Subject:     subject,
		HTML:        html,
		Attachments: []mail.Attachment{pdfAttachment("recibo.pdf", pdf)},
	})
}

// HandlePasswordReset emails a password reset link
func (h *DispatchHandlers) HandlePasswordReset(ctx context.Context, job *shared.DispatchJob) error {
	var payload shared.PasswordResetPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return outbox.Skip(fmt.Sprintf("payload ilegible: %v", err))
	}
	subject, html := mail.PasswordResetEmail(payload.UserName, payload.ResetLink)
	return h.mailer.Send(ctx, mail.Message{
		To:      payload.Email,
		Subject: subject,
		HTML:    html,
	})
}

func pdfAttachment(filename string, data []byte) mail.Attachment {
	return mail.Attachment{
		Filename:    filename,
		Data:        data,
		ContentType: "application/pdf",
	}
}
