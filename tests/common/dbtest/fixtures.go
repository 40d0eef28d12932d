//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"saverly/internal/domain/user"
	"saverly/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by both a pool and a transaction.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const DefaultBusinessName = "Default Business"

func CreateTestBusiness(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	businessID := uuid.New()
	_, err := db.Exec(context.Background(), "INSERT INTO businesses (id, name) VALUES ($1, $2)", businessID, name)
	require.NoError(t, err)
	return businessID
}

// CreateTestUser stores the subscriber built by b under email. A stripeCustomerID of "" leaves
// the column NULL.
func CreateTestUser(t *testing.T, db DBLike, email string, b *builder.SubscriberBuilder, stripeCustomerID string) uuid.UUID {
	t.Helper()

	var customer *string
	if stripeCustomerID != "" {
		customer = &stripeCustomerID
	}

	_, err := db.Exec(context.Background(), `
		INSERT INTO users (
			id, email, role, business_id,
			subscription_status, subscription_period_start, subscription_period_end, subscription_anchor_day,
			stripe_customer_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, email, string(b.Role), b.BusinessID,
		string(b.Status), b.PeriodStart, b.PeriodEnd, b.AnchorDay,
		customer)
	require.NoError(t, err)
	return b.ID
}

// CreateSubscribedUser stores an active consumer whose current period started ten days ago.
func CreateSubscribedUser(t *testing.T, db DBLike, email string) uuid.UUID {
	t.Helper()
	return CreateTestUser(t, db, email, subscriberAround(time.Now().UTC()), "")
}

func CreateMerchant(t *testing.T, db DBLike, email string, businessID uuid.UUID) uuid.UUID {
	t.Helper()
	return CreateTestUser(t, db, email, subscriberAround(time.Now().UTC()).AsBusiness(businessID), "")
}

func subscriberAround(now time.Time) *builder.SubscriberBuilder {
	start := now.AddDate(0, 0, -10)
	end := start.AddDate(0, 1, 0)
	return builder.NewSubscriberBuilder().With(func(b *builder.SubscriberBuilder) {
		b.Status = user.SubscriptionActive
		b.PeriodStart = &start
		b.PeriodEnd = &end
	}).WithAnchorDay(start.Day())
}

// LiveCoupon is a coupon builder for businessID whose window spans the current wall clock.
func LiveCoupon(businessID uuid.UUID, category string) *builder.CouponBuilder {
	now := time.Now().UTC()
	return builder.NewCouponBuilder().
		WithCategory(category).
		WithWindow(now.AddDate(0, -1, 0), now.AddDate(0, 2, 0)).
		With(func(b *builder.CouponBuilder) { b.BusinessID = businessID })
}

func CreateTestCoupon(t *testing.T, db DBLike, b *builder.CouponBuilder) uuid.UUID {
	t.Helper()

	c := b.BuildStored()
	_, err := db.Exec(context.Background(), `
		INSERT INTO coupons (
			id, business_id, title, description,
			discount_kind, discount_value, discount_text,
			active, starts_at, ends_at, usage_limit, monthly_cap
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID(), c.BusinessID(), c.Title(), c.Description(),
		string(c.Discount().Kind()), c.Discount().Value(), c.Discount().Text(),
		c.Active(), c.StartsAt(), c.EndsAt(), c.UsageLimit().Category(), c.UsageLimit().Cap())
	require.NoError(t, err)
	return c.ID()
}

func RedemptionStatus(t *testing.T, db DBLike, id uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), "SELECT status FROM redemptions WHERE id = $1", id).Scan(&status)
	require.NoError(t, err)
	return status
}

func CountNotificationJobs(t *testing.T, db DBLike, kind string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT COUNT(*) FROM notification_jobs WHERE kind = $1", kind).Scan(&n)
	require.NoError(t, err)
	return n
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO businesses (id, name)
		SELECT gen_random_uuid(), $1
		WHERE NOT EXISTS (SELECT 1 FROM businesses WHERE name = $1);
	`, DefaultBusinessName)
	if err != nil {
		return err
	}

	return nil
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
