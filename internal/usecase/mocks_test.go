package usecase

import (
	"context"
	"sync"

	"flight-reservation/internal/data/entity"
	"flight-reservation/internal/data/repository"
	"flight-reservation/internal/gateway"
	"flight-reservation/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) FindByID(ctx context.Context, id string) (*entity.ServicePlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ServicePlan), args.Error(1)
}

func (m *MockPlanRepository) FindAllActive(ctx context.Context) ([]*entity.ServicePlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ServicePlan), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) InsertIfAbsent(ctx context.Context, booking *entity.Booking) (*entity.Booking, bool, error) {
	args := m.Called(ctx, booking)
	if fn, ok := args.Get(0).(func(context.Context, *entity.Booking) *entity.Booking); ok {
		return fn(ctx, booking), args.Bool(1), args.Error(2)
	}
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entity.Booking), args.Bool(1), args.Error(2)
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByPaymentReference(ctx context.Context, reference string) (*entity.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateSession(ctx context.Context, req gateway.SessionRequest) (*gateway.Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Session), args.Error(1)
}

func (m *MockGateway) RetrieveSession(ctx context.Context, id string) (*gateway.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Session), args.Error(1)
}

func (m *MockGateway) ParseWebhook(payload []byte, signature string) (*gateway.Event, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Event), args.Error(1)
}

type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	args := m.Called(ctx, amount, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) BookingPaid(ctx context.Context, booking *entity.Booking) {
	m.Called(ctx, booking)
}

// memBookingRepository mimics the unique indexes of the bookings table.
type memBookingRepository struct {
	mu    sync.Mutex
	byRef map[string]*entity.Booking
	byID  map[string]*entity.Booking
}

func newMemBookingRepository() *memBookingRepository {
	return &memBookingRepository{
		byRef: make(map[string]*entity.Booking),
		byID:  make(map[string]*entity.Booking),
	}
}

func (r *memBookingRepository) InsertIfAbsent(_ context.Context, booking *entity.Booking) (*entity.Booking, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byRef[booking.PaymentReference]; ok {
		cp := *existing
		return &cp, false, nil
	}
	if _, ok := r.byID[booking.ID]; ok {
		return nil, false, repository.ErrDuplicateBookingID
	}

	cp := *booking
	r.byRef[booking.PaymentReference] = &cp
	r.byID[booking.ID] = &cp
	return booking, true, nil
}

func (r *memBookingRepository) FindByID(_ context.Context, id string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.byID[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *memBookingRepository) FindByPaymentReference(_ context.Context, reference string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.byRef[reference]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *memBookingRepository) FindByUserID(context.Context, uuid.UUID, int, int) ([]*entity.Booking, error) {
	return nil, nil
}

func (r *memBookingRepository) CountByUserID(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *memBookingRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byRef)
}

func testConfig() *utils.Config {
	return &utils.Config{
		App: utils.AppConfig{
			PublicURL:    "https://flyproof.example",
			Brand:        "FlyProof",
			SupportEmail: "support@flyproof.example",
		},
		Checkout: utils.CheckoutConfig{
			MetadataMaxLen: 500,
			SuccessPath:    "/booking/success?session_id={CHECKOUT_SESSION_ID}",
			CancelPath:     "/booking/cancel?session_id={CHECKOUT_SESSION_ID}",
		},
	}
}

func standardPlan() *entity.ServicePlan {
	return &entity.ServicePlan{
		ID:           "standard",
		Name:         "Standard",
		BasePriceUSD: decimal.NewFromInt(19),
		Description:  "Round-trip reservation",
		IsActive:     true,
	}
}

func sampleForm() entity.PassengerForm {
	return entity.PassengerForm{
		Passenger: entity.PassengerInfo{
			FirstName:   "Ana",
			LastName:    "López",
			Email:       "ana@example.com",
			Passport:    "X1234567",
			Nationality: "Spanish",
		},
		Travel: entity.TravelInfo{
			DepartureCity: "Madrid",
			ArrivalCity:   "Tokyo",
			DepartureDate: "2026-11-02",
			ReturnDate:    "2026-11-20",
			TripType:      entity.TripTypeRoundTrip,
		},
		Delivery: entity.DeliveryInfo{Method: "email", Target: "ana@example.com"},
		Billing:  entity.BillingInfo{Name: "Ana López", Country: "ES"},
	}
}
