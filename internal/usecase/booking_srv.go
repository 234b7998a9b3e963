package usecase

import (
	"context"
	"fmt"

	"flight-reservation/internal/currency"
	"flight-reservation/internal/data/entity"
	"flight-reservation/internal/data/repository"
	"flight-reservation/internal/dto/request"
	"flight-reservation/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type bookingService struct {
	bookings  repository.BookingRepository
	denoms    *currency.Denominations
	publicURL string
	log       *zap.Logger
}

func NewBookingService(bookings repository.BookingRepository, denoms *currency.Denominations, publicURL string, log *zap.Logger) BookingService {
	return &bookingService{
		bookings:  bookings,
		denoms:    denoms,
		publicURL: publicURL,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	return toBookingResponse(booking, s.denoms, s.publicURL), nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.bookings.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get user bookings", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.bookings.CountByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count user bookings", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	data := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		data = append(data, *toBookingResponse(b, s.denoms, s.publicURL))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func toBookingResponse(b *entity.Booking, denoms *currency.Denominations, publicURL string) *response.BookingResponse {
	return &response.BookingResponse{
		ID:               b.ID,
		PlanID:           b.PlanID,
		PlanName:         b.PlanNameSnapshot,
		Amount:           b.Amount.StringFixed(decimalPlaces(denoms, b.Currency)),
		Currency:         b.Currency,
		AmountDisplay:    denoms.FormatAmount(b.Amount, b.Currency),
		PaymentReference: b.PaymentReference,
		PaymentMethod:    b.PaymentMethod,
		Status:           string(b.Status),
		Guest:            b.IsGuest(),
		PassengerName:    b.PassengerDetails.Passenger.FullName(),
		PassengerEmail:   b.PassengerDetails.Passenger.Email,
		Travel:           b.PassengerDetails.Travel,
		ReceiptURL:       publicURL + "/api/receipt/" + b.ID,
		CreatedAt:        b.CreatedAt,
	}
}
