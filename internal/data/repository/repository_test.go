package repository

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"flight-reservation/internal/data/entity"
	"flight-reservation/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

var (
	testDB    database.PgxIface
	testDBErr error
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		testDBErr = fmt.Errorf("skipped in short mode")
		os.Exit(m.Run())
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "flights",
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort("5432/tcp"),
			).WithDeadline(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		testDBErr = err
		os.Exit(m.Run())
	}

	code := func() int {
		defer func() { _ = container.Terminate(ctx) }()

		endpoint, err := container.Endpoint(ctx, "")
		if err != nil {
			testDBErr = err
			return m.Run()
		}
		pool, err := pgxpool.New(ctx, "postgres://test:test@"+endpoint+"/flights?sslmode=disable")
		if err != nil {
			testDBErr = err
			return m.Run()
		}
		db := database.NewDB(pool)
		defer db.Close()

		if err := database.Migrate(ctx, db); err != nil {
			testDBErr = err
			return m.Run()
		}
		testDB = db
		return m.Run()
	}()

	os.Exit(code)
}

func requireDB(t *testing.T) database.PgxIface {
	t.Helper()
	if testDBErr != nil {
		t.Skipf("postgres unavailable: %v", testDBErr)
	}
	return testDB
}

func newBooking(id, reference string, userID *uuid.UUID) *entity.Booking {
	return &entity.Booking{
		ID:               id,
		UserID:           userID,
		PlanID:           "standard",
		PlanNameSnapshot: "Standard",
		Amount:           decimal.RequireFromString("17.48"),
		Currency:         "EUR",
		PaymentReference: reference,
		SessionHandle:    "cs_" + reference,
		PaymentMethod:    "Card",
		Status:           entity.BookingStatusPaid,
		CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
		PassengerDetails: entity.PassengerForm{
			Passenger: entity.PassengerInfo{FirstName: "Ana", LastName: "López", Email: "ana@example.com"},
			Travel: entity.TravelInfo{
				DepartureCity: "Madrid",
				ArrivalCity:   "Tokyo",
				DepartureDate: "2026-11-02",
				TripType:      entity.TripTypeOneWay,
			},
		},
	}
}

func TestBookingRepository_InsertIfAbsent(t *testing.T) {
	db := requireDB(t)
	repo := NewBookingRepository(db, zap.NewNop())
	ctx := context.Background()
	ref := "pi_" + uuid.NewString()

	stored, inserted, err := repo.InsertIfAbsent(ctx, newBooking("TKT-2026-AAAAA1", ref, nil))
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, "TKT-2026-AAAAA1", stored.ID)

	again, inserted, err := repo.InsertIfAbsent(ctx, newBooking("TKT-2026-AAAAA2", ref, nil))
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, "TKT-2026-AAAAA1", again.ID)
	assert.Equal(t, "17.48", again.Amount.StringFixed(2))
	assert.Equal(t, "Ana", again.PassengerDetails.Passenger.FirstName)
	assert.True(t, again.IsGuest())

	missing, err := repo.FindByID(ctx, "TKT-2026-AAAAA2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBookingRepository_DuplicateID(t *testing.T) {
	db := requireDB(t)
	repo := NewBookingRepository(db, zap.NewNop())
	ctx := context.Background()

	_, _, err := repo.InsertIfAbsent(ctx, newBooking("TKT-2026-BBBBB1", "pi_"+uuid.NewString(), nil))
	require.NoError(t, err)

	_, inserted, err := repo.InsertIfAbsent(ctx, newBooking("TKT-2026-BBBBB1", "pi_"+uuid.NewString(), nil))
	assert.ErrorIs(t, err, ErrDuplicateBookingID)
	assert.False(t, inserted)
}

func TestBookingRepository_ConcurrentInsertsKeepOneRow(t *testing.T) {
	db := requireDB(t)
	repo := NewBookingRepository(db, zap.NewNop())
	ctx := context.Background()
	ref := "pi_" + uuid.NewString()

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ids      = map[string]struct{}{}
		inserted int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, ok, err := repo.InsertIfAbsent(ctx, newBooking(fmt.Sprintf("TKT-2026-CCCCC%d", i), ref, nil))
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			ids[b.ID] = struct{}{}
			if ok {
				inserted++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, inserted)
	assert.Len(t, ids, 1)

	var rows int
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE payment_reference = $1`, ref).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestBookingRepository_FindByUserID(t *testing.T) {
	db := requireDB(t)
	repo := NewBookingRepository(db, zap.NewNop())
	ctx := context.Background()

	userID := uuid.New()
	_, err := db.Exec(ctx, `INSERT INTO users (id, username, email, password) VALUES ($1, $2, $3, 'x')`,
		userID, "user-"+userID.String(), userID.String()+"@example.com")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		b := newBooking(fmt.Sprintf("TKT-2026-DDDDD%d", i), "pi_"+uuid.NewString(), &userID)
		b.CreatedAt = b.CreatedAt.Add(time.Duration(i) * time.Second)
		_, _, err := repo.InsertIfAbsent(ctx, b)
		require.NoError(t, err)
	}

	bookings, err := repo.FindByUserID(ctx, userID, 2, 0)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "TKT-2026-DDDDD2", bookings[0].ID)
	assert.Equal(t, userID, *bookings[0].UserID)

	total, err := repo.CountByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestPlanRepository(t *testing.T) {
	db := requireDB(t)
	repo := NewPlanRepository(db, zap.NewNop())
	ctx := context.Background()

	plan, err := repo.FindByID(ctx, "standard")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, "Standard", plan.Name)
	assert.True(t, decimal.NewFromInt(19).Equal(plan.BasePriceUSD))
	assert.NotEmpty(t, plan.Features)

	missing, err := repo.FindByID(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)

	plans, err := repo.FindAllActive(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, "basic", plans[0].ID)
}

func TestSessionRepository_FindValidSession(t *testing.T) {
	db := requireDB(t)
	repo := NewSessionRepository(db, zap.NewNop())
	ctx := context.Background()

	userID, token := uuid.New(), uuid.New()
	_, err := db.Exec(ctx, `INSERT INTO users (id, username, email, password) VALUES ($1, $2, $3, 'x')`,
		userID, "user-"+userID.String(), userID.String()+"@example.com")
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO sessions (id, user_id, token, expires_at) VALUES ($1, $2, $3, NOW() + INTERVAL '1 hour')`,
		uuid.New(), userID, token)
	require.NoError(t, err)

	session, err := repo.FindValidSession(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, userID, session.UserID)

	session, err = repo.FindValidSession(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, session)
}
