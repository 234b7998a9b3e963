package usecase

import (
	"bytes"
	"context"
	"fmt"

	"flight-reservation/internal/data/repository"
	"flight-reservation/internal/dto/response"
	"flight-reservation/internal/receipt"

	"go.uber.org/zap"
)

type ReceiptService interface {
	GenerateReceipt(ctx context.Context, bookingID string) (*response.ReceiptFile, error)
}

type receiptService struct {
	bookings repository.BookingRepository
	renderer *receipt.Renderer
	fonts    receipt.Fonts
	log      *zap.Logger
}

func NewReceiptService(bookings repository.BookingRepository, renderer *receipt.Renderer, fonts receipt.Fonts, log *zap.Logger) ReceiptService {
	return &receiptService{
		bookings: bookings,
		renderer: renderer,
		fonts:    fonts,
		log:      log.With(zap.String("service", "receipt")),
	}
}

func (s *receiptService) GenerateReceipt(ctx context.Context, bookingID string) (*response.ReceiptFile, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	var buf bytes.Buffer
	if err := receipt.WritePDF(s.renderer.Render(booking), s.fonts, &buf); err != nil {
		s.log.Error("Failed to render receipt", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, err
	}

	return &response.ReceiptFile{
		Filename:    "flight-reservation-" + booking.ID + ".pdf",
		ContentType: "application/pdf",
		Content:     buf.Bytes(),
	}, nil
}
