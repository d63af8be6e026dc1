package documents

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/francisjavinico/backend-tintado/internal/domain/billing"
	"github.com/francisjavinico/backend-tintado/internal/domain/partner"
	"github.com/francisjavinico/backend-tintado/internal/domain/scheduling"
	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/francisjavinico/backend-tintado/internal/domain/warranty"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/printing"
)

// DocumentService renders business documents to PDF on demand
type DocumentService struct {
	invoiceRepo     billing.InvoiceRepository
	receiptRepo     billing.ReceiptRepository
	warrantyRepo    warranty.Repository
	clientRepo      partner.ClientRepository
	appointmentRepo scheduling.AppointmentRepository
	vehicleRepo     scheduling.VehicleRepository
	printer         *printing.DocumentPrinter
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	invoiceRepo billing.InvoiceRepository,
	receiptRepo billing.ReceiptRepository,
	warrantyRepo warranty.Repository,
	clientRepo partner.ClientRepository,
	appointmentRepo scheduling.AppointmentRepository,
	vehicleRepo scheduling.VehicleRepository,
	printer *printing.DocumentPrinter,
) *DocumentService {
	return &DocumentService{
		invoiceRepo:     invoiceRepo,
		receiptRepo:     receiptRepo,
		warrantyRepo:    warrantyRepo,
		clientRepo:      clientRepo,
		appointmentRepo: appointmentRepo,
		vehicleRepo:     vehicleRepo,
		printer:         printer,
	}
}

// InvoicePDF renders one invoice
func (s *DocumentService) InvoicePDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Factura no encontrada")
	}
	doc, err := s.buildInvoiceDocument(ctx, invoice)
	if err != nil {
		return nil, err
	}
	return s.printer.InvoicePDF(ctx, *doc)
}

// ReceiptPDF renders one receipt
func (s *DocumentService) ReceiptPDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Recibo no encontrado")
	}
	doc, err := s.buildReceiptDocument(ctx, receipt)
	if err != nil {
		return nil, err
	}
	return s.printer.ReceiptPDF(ctx, *doc)
}

// WarrantyPDF renders one warranty certificate
func (s *DocumentService) WarrantyPDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	w, err := s.warrantyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Garantía no encontrada")
	}
	doc, err := s.buildWarrantyDocument(ctx, w)
	if err != nil {
		return nil, err
	}
	return s.printer.WarrantyPDF(ctx, *doc)
}

func (s *DocumentService) buildInvoiceDocument(ctx context.Context, invoice *billing.Invoice) (*printing.InvoiceDocument, error) {
	client, err := s.clientRepo.FindByID(ctx, invoice.ClientID)
	if err != nil {
		return nil, err
	}

	doc := &printing.InvoiceDocument{
		Number:     invoice.Number(),
		Date:       invoice.CreatedAt,
		ClientName: invoice.ClientName,
		Lines:      documentLines(invoice.Items),
		Subtotal:   invoice.Subtotal,
		VAT:        invoice.VAT,
		Total:      invoice.Total,
	}
	if invoice.ClientAddress != nil {
		doc.ClientAddress = *invoice.ClientAddress
	}
	if invoice.ClientTaxID != nil {
		doc.ClientTaxID = *invoice.ClientTaxID
	}
	if invoice.Plate != nil {
		doc.Plate = *invoice.Plate
	}
	if client != nil {
		doc.ClientPhone = client.Phone
		if client.Email != nil {
			doc.ClientEmail = *client.Email
		}
	}
	if invoice.AppointmentID != nil {
		doc.Vehicle, _ = s.vehicleLabel(ctx, *invoice.AppointmentID)
	}
	return doc, nil
}

func (s *DocumentService) buildReceiptDocument(ctx context.Context, receipt *billing.Receipt) (*printing.ReceiptDocument, error) {
	client, err := s.clientRepo.FindByID(ctx, receipt.ClientID)
	if err != nil {
		return nil, err
	}

	doc := &printing.ReceiptDocument{
		Number:      receipt.Number(),
		Date:        receipt.CreatedAt,
		Description: receipt.Description,
		Lines:       documentLines(receipt.Items),
		Amount:      receipt.Amount,
	}
	if client != nil {
		doc.ClientName = client.FullName()
		doc.ClientPhone = client.Phone
	}
	vehicle, plate := s.vehicleLabel(ctx, receipt.AppointmentID)
	doc.Vehicle = vehicle
	doc.Plate = plate
	return doc, nil
}

func (s *DocumentService) buildWarrantyDocument(ctx context.Context, w *warranty.Warranty) (*printing.WarrantyDocument, error) {
	client, err := s.clientRepo.FindByID(ctx, w.ClientID)
	if err != nil {
		return nil, err
	}

	doc := &printing.WarrantyDocument{
		FilmType: w.Description,
		IssuedAt: w.StartDate,
	}
	if client != nil {
		doc.ClientName = client.FullName()
	}
	vehicle, plate := s.vehicleLabel(ctx, w.AppointmentID)
	doc.Vehicle = vehicle
	doc.Plate = plate
	return doc, nil
}

// vehicleLabel resolves the printable vehicle description and plate from
// an appointment. Missing data degrades to empty strings; a document
// without the vehicle line still prints.
func (s *DocumentService) vehicleLabel(ctx context.Context, appointmentID uuid.UUID) (label, plate string) {
	appointment, err := s.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil || appointment == nil {
		return "", ""
	}
	if appointment.Plate != nil {
		plate = *appointment.Plate
	}
	vehicle, err := s.vehicleRepo.FindByID(ctx, appointment.VehicleID)
	if err != nil || vehicle == nil {
		return "", plate
	}
	return fmt.Sprintf("%s %s (%d)", vehicle.Make, vehicle.Model, vehicle.Year), plate
}

func documentLines(items []billing.LineItem) []printing.DocumentLine {
	lines := make([]printing.DocumentLine, len(items))
	for i, it := range items {
		lines[i] = printing.DocumentLine{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount(),
		}
	}
	return lines
}
