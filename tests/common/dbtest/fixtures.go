//go:build unit || e2e

package dbtest

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike is what fixtures need from a pool or a transaction.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RoomFixture mirrors one entry of boats.rooms.
type RoomFixture struct {
	Type  string   `json:"type"`
	Count int      `json:"count"`
	Price *float64 `json:"price,omitempty"`
}

func CreateTestUser(t *testing.T, db DBLike, name, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, name, email, phone, role) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (email) DO NOTHING",
		userID, name, email, "+8801700000000", role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		require.NoError(t, db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID))
	}

	return userID
}

func CreateTestBoat(t *testing.T, db DBLike, name string, rooms []RoomFixture) uuid.UUID {
	t.Helper()

	raw, err := json.Marshal(rooms)
	require.NoError(t, err)

	boatID := uuid.New()
	_, err = db.Exec(context.Background(),
		"INSERT INTO boats (id, name, rooms) VALUES ($1, $2, $3)", boatID, name, raw)
	require.NoError(t, err)
	return boatID
}

// InsertBooking writes a booking row directly, bypassing admission.
func InsertBooking(t *testing.T, db DBLike, boatID, userID uuid.UUID, status, checkIn, checkOut string, rooms map[string]int) uuid.UUID {
	t.Helper()

	lines := make([]map[string]any, 0, len(rooms))
	for typ, q := range rooms {
		lines = append(lines, map[string]any{"type": typ, "quantity": q})
	}
	raw, err := json.Marshal(lines)
	require.NoError(t, err)

	id := uuid.New()
	_, err = db.Exec(context.Background(), `
		INSERT INTO bookings (id, boat_id, user_id, check_in, check_out, rooms_booked, pax, places,
		                      total_price, status, customer_name, customer_email, customer_phone)
		VALUES ($1, $2, $3, $4, $5, $6, 2, '["Tahirpur"]', 10000, $7, 'Fixture', 'fixture@example.com', '')`,
		id, boatID, userID, checkIn, checkOut, raw, status)
	require.NoError(t, err)
	return id
}

func SetMinBookingNights(t *testing.T, db DBLike, nights int) {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		INSERT INTO settings (key, value) VALUES ('min_booking_nights', $1)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		strconv.Itoa(nights))
	require.NoError(t, err)
}

func BookingStatus(t *testing.T, db DBLike, id uuid.UUID) string {
	t.Helper()

	var status string
	require.NoError(t, db.QueryRow(context.Background(), "SELECT status FROM bookings WHERE id = $1", id).Scan(&status))
	return status
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	_, err := pool.Exec(context.Background(), `
		INSERT INTO settings (key, value) VALUES ('min_booking_nights', '1')
		ON CONFLICT (key) DO NOTHING;
	`)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
