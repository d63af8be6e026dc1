package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/francisjavinico/backend-tintado/internal/domain/billing"
	"github.com/francisjavinico/backend-tintado/internal/domain/finance"
	"github.com/francisjavinico/backend-tintado/internal/domain/partner"
	"github.com/francisjavinico/backend-tintado/internal/domain/scheduling"
	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/francisjavinico/backend-tintado/internal/domain/warranty"
)

// FinalizeResult reports what a finalization produced
type FinalizeResult struct {
	Appointment *AppointmentResponse `json:"cita"`
	InvoiceID   *uuid.UUID           `json:"facturaId,omitempty"`
	ReceiptID   *uuid.UUID           `json:"reciboId,omitempty"`
	WarrantyID  *uuid.UUID           `json:"garantiaId,omitempty"`
}

// FinalizeService closes out finished appointments. One call completes
// the appointment, issues the billing document, records the income,
// creates the film warranty when the job was a tinting, and queues the
// document email. Everything but the email runs in one transaction; the
// email is delivered by the dispatcher after the commit.
type FinalizeService struct {
	txManager       shared.TransactionManager
	appointmentRepo scheduling.AppointmentRepository
	clientRepo      partner.ClientRepository
	invoiceRepo     billing.InvoiceRepository
	receiptRepo     billing.ReceiptRepository
	warrantyRepo    warranty.Repository
	ledgerRepo      finance.TransactionRepository
	allocator       billing.SequenceAllocator
	dispatchRepo    shared.DispatchRepository
	logger          *zap.Logger
}

// NewFinalizeService creates a new FinalizeService
func NewFinalizeService(
	txManager shared.TransactionManager,
	appointmentRepo scheduling.AppointmentRepository,
	clientRepo partner.ClientRepository,
	invoiceRepo billing.InvoiceRepository,
	receiptRepo billing.ReceiptRepository,
	warrantyRepo warranty.Repository,
	ledgerRepo finance.TransactionRepository,
	allocator billing.SequenceAllocator,
	dispatchRepo shared.DispatchRepository,
	logger *zap.Logger,
) *FinalizeService {
	return &FinalizeService{
		txManager:       txManager,
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		invoiceRepo:     invoiceRepo,
		receiptRepo:     receiptRepo,
		warrantyRepo:    warrantyRepo,
		ledgerRepo:      ledgerRepo,
		allocator:       allocator,
		dispatchRepo:    dispatchRepo,
		logger:          logger,
	}
}

// Finalize completes a pending appointment and produces its paperwork
func (s *FinalizeService) Finalize(ctx context.Context, appointmentID uuid.UUID, req FinalizeAppointmentRequest) (*FinalizeResult, error) {
	appointment, err := s.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Cita no encontrada")
	}

	client, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Cliente no encontrado")
	}

	// The front desk corrects the service list and the plate as the car
	// leaves, so the request overrides what was booked
	if req.Services != nil {
		services := toDomainServices(req.Services)
		for _, svc := range services {
			if err := svc.Validate(); err != nil {
				return nil, err
			}
		}
		appointment.Services = services
	}
	if req.Plate != nil {
		cleaned := scheduling.CleanPlate(*req.Plate)
		if cleaned == "" {
			// An explicit empty plate clears the one on record
			appointment.Plate = nil
		} else {
			if !scheduling.IsValidPlate(cleaned) {
				return nil, shared.NewDomainError("INVALID_PLATE", "Matrícula no válida")
			}
			appointment.Plate = &cleaned
		}
	}

	if scheduling.HasTinting(appointment.Services) && (req.FilmType == nil || strings.TrimSpace(*req.FilmType) == "") {
		return nil, shared.NewDomainError("FILM_TYPE_REQUIRED", "El tipo de lámina es obligatorio para tintado de lunas")
	}

	if err := appointment.Complete(); err != nil {
		return nil, err
	}
	appointment.AssignClient(client.ID)

	items := lineItems(appointment.Services)
	if err := billing.ValidateItems(items); err != nil {
		return nil, err
	}

	result := &FinalizeResult{}
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
			return err
		}

		if req.GenerateInvoice {
			invoiceID, err := s.issueInvoice(ctx, appointment, client, items)
			if err != nil {
				return err
			}
			result.InvoiceID = &invoiceID
		} else {
			receiptID, err := s.issueReceipt(ctx, appointment, client, items)
			if err != nil {
				return err
			}
			result.ReceiptID = &receiptID
		}

		if scheduling.HasTinting(appointment.Services) {
			warrantyID, err := s.issueWarranty(ctx, appointment, client, req.FilmType)
			if err != nil {
				return err
			}
			result.WarrantyID = &warrantyID
		}

		payload, err := json.Marshal(shared.AppointmentDocsPayload{
			ClientID:   client.ID,
			InvoiceID:  result.InvoiceID,
			ReceiptID:  result.ReceiptID,
			WarrantyID: result.WarrantyID,
		})
		if err != nil {
			return err
		}
		job := shared.NewDispatchJob(shared.DispatchKindAppointmentDocs, appointment.ID, payload)
		return s.dispatchRepo.Save(ctx, job)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("appointment finalized",
		zap.String("appointment_id", appointment.ID.String()),
		zap.String("client_id", client.ID.String()),
		zap.Bool("invoice", result.InvoiceID != nil),
		zap.Bool("warranty", result.WarrantyID != nil))

	result.Appointment = toAppointmentResponse(appointment)
	return result, nil
}

// lineItems maps the performed services to billed lines, one per service
func lineItems(services []scheduling.RequestedService) []billing.LineItem {
	items := make([]billing.LineItem, len(services))
	for i, svc := range services {
		price := decimal.Zero
		if svc.Price != nil {
			price = *svc.Price
		}
		items[i] = billing.LineItem{
			Description: svc.LineDescription(),
			Quantity:    1,
			UnitPrice:   price,
		}
	}
	return items
}

func (s *FinalizeService) issueInvoice(ctx context.Context, appointment *scheduling.Appointment, client *partner.Client, items []billing.LineItem) (uuid.UUID, error) {
	year := appointment.UpdatedAt.UTC().Year()
	seq, err := s.allocator.Next(ctx, billing.SequenceKindInvoice, year)
	if err != nil {
		return uuid.Nil, err
	}
	invoice, err := billing.NewInvoice(year, seq, client.ID, client.FullName(), items)
	if err != nil {
		return uuid.Nil, err
	}
	invoice.AppointmentID = &appointment.ID
	invoice.ClientAddress = client.Address
	invoice.ClientTaxID = client.DocumentIdentity
	invoice.Plate = appointment.Plate

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return uuid.Nil, err
	}
	if err := s.recordIncome(ctx, finance.TransactionOriginInvoice, invoice.ID, invoice.Total); err != nil {
		return uuid.Nil, err
	}
	return invoice.ID, nil
}

func (s *FinalizeService) issueReceipt(ctx context.Context, appointment *scheduling.Appointment, client *partner.Client, items []billing.LineItem) (uuid.UUID, error) {
	// Finalizing twice must not duplicate the receipt
	existing, err := s.receiptRepo.FindByAppointmentID(ctx, appointment.ID)
	if err != nil {
		return uuid.Nil, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	year := appointment.UpdatedAt.UTC().Year()
	seq, err := s.allocator.Next(ctx, billing.SequenceKindReceipt, year)
	if err != nil {
		return uuid.Nil, err
	}

	names := make([]string, len(appointment.Services))
	for i, svc := range appointment.Services {
		names[i] = svc.LineDescription()
	}
	description := "Recibo generado automáticamente por servicio: " + strings.Join(names, ", ")

	receipt, err := billing.NewReceipt(year, seq, client.ID, appointment.ID, description, items)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return uuid.Nil, err
	}
	if err := s.recordIncome(ctx, finance.TransactionOriginReceipt, receipt.ID, receipt.Amount); err != nil {
		return uuid.Nil, err
	}
	return receipt.ID, nil
}

func (s *FinalizeService) issueWarranty(ctx context.Context, appointment *scheduling.Appointment, client *partner.Client, filmType *string) (uuid.UUID, error) {
	// One warranty per appointment; a retried finalization keeps the first
	existing, err := s.warrantyRepo.FindByAppointmentID(ctx, appointment.ID)
	if err != nil {
		return uuid.Nil, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	description := "Tintado de lunas"
	if filmType != nil && strings.TrimSpace(*filmType) != "" {
		description = fmt.Sprintf("Tintado de lunas (lámina %s)", strings.TrimSpace(*filmType))
	}
	w, err := warranty.NewStandardWarranty(description, client.ID, appointment.ID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.warrantyRepo.Save(ctx, w); err != nil {
		return uuid.Nil, err
	}
	return w.ID, nil
}

func (s *FinalizeService) recordIncome(ctx context.Context, origin finance.TransactionOrigin, referenceID uuid.UUID, amount decimal.Decimal) error {
	entry, err := finance.NewTransaction(
		finance.TransactionTypeIncome,
		finance.CategoryBilling,
		fmt.Sprintf("Ingreso automático por %s", origin),
		amount,
		time.Now().UTC(),
		origin,
		&referenceID,
		nil,
	)
	if err != nil {
		return err
	}
	return s.ledgerRepo.Save(ctx, entry)
}
