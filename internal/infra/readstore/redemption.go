package readstore

import (
	"context"
	"time"

	"saverly/internal/domain/redemption"
	"saverly/internal/infra"
	"saverly/internal/infra/converter"
	"saverly/internal/infra/query"
	"saverly/internal/pkg/pgconv"
	"saverly/internal/usecase/queries"

	"github.com/google/uuid"
)

type RedemptionReadQueries interface {
	GetRedemption(ctx context.Context, db query.DBTX, id uuid.UUID) (query.Redemption, error)
	GetPendingRedemptionByCode(ctx context.Context, db query.DBTX, code string) (query.Redemption, error)
	ListRedemptionHistory(ctx context.Context, db query.DBTX, userID, couponID uuid.UUID) ([]query.Redemption, error)
	GetRedemptionWithCoupon(ctx context.Context, db query.DBTX, id uuid.UUID) (query.RedemptionWithCoupon, error)
	ListRedemptionsByUser(ctx context.Context, db query.DBTX, userID uuid.UUID, limit int32) ([]query.RedemptionWithCoupon, error)
	ListRedemptionsByUserKeyset(ctx context.Context, db query.DBTX, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]query.RedemptionWithCoupon, error)
}

type RedemptionReadStore struct {
	queries RedemptionReadQueries
	db      query.DBTX
}

func NewRedemptionReadStore(queries RedemptionReadQueries, db query.DBTX) *RedemptionReadStore {
	return &RedemptionReadStore{
		queries: queries,
		db:      db,
	}
}

func (s *RedemptionReadStore) FindRecord(ctx context.Context, id uuid.UUID) (*redemption.Record, error) {
	row, err := s.queries.GetRedemption(ctx, s.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get redemption", err)
	}
	return toRecord(row)
}

func (s *RedemptionReadStore) FindPendingByCode(ctx context.Context, code string) (*redemption.Record, error) {
	row, err := s.queries.GetPendingRedemptionByCode(ctx, s.db, code)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get redemption by code", err)
	}
	return toRecord(row)
}

func (s *RedemptionReadStore) History(ctx context.Context, userID, couponID uuid.UUID) ([]*redemption.Record, error) {
	rows, err := s.queries.ListRedemptionHistory(ctx, s.db, userID, couponID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list redemption history", err)
	}
	records, err := converter.RedemptionsFromRows(rows)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert redemption history", err)
	}
	return records, nil
}

func (s *RedemptionReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.RedemptionView, error) {
	row, err := s.queries.GetRedemptionWithCoupon(ctx, s.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get redemption", err)
	}
	return toRedemptionView(row), nil
}

func (s *RedemptionReadStore) FindByUserFirstPage(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.RedemptionView, error) {
	rows, err := s.queries.ListRedemptionsByUser(ctx, s.db, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list redemptions by user", err)
	}
	return toRedemptionViews(rows), nil
}

func (s *RedemptionReadStore) FindByUserKeyset(ctx context.Context, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.RedemptionView, error) {
	rows, err := s.queries.ListRedemptionsByUserKeyset(ctx, s.db, userID, lastCreatedAt, lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list redemptions by user", err)
	}
	return toRedemptionViews(rows), nil
}

func toRecord(row query.Redemption) (*redemption.Record, error) {
	rec, err := converter.RedemptionFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert redemption", err)
	}
	return rec, nil
}

func toRedemptionViews(rows []query.RedemptionWithCoupon) []*queries.RedemptionView {
	result := make([]*queries.RedemptionView, len(rows))
	for i, row := range rows {
		result[i] = toRedemptionView(row)
	}
	return result
}

func toRedemptionView(row query.RedemptionWithCoupon) *queries.RedemptionView {
	return &queries.RedemptionView{
		ID:          row.ID,
		UserID:      row.UserID,
		CouponID:    row.CouponID,
		CouponTitle: row.CouponTitle,
		BusinessID:  row.BusinessID,
		Status:      row.Status,
		QRPayload:   row.QRPayload,
		ManualCode:  row.ManualCode,
		PeriodStart: row.PeriodStart.UTC(),
		CreatedAt:   row.CreatedAt.UTC(),
		ExpiresAt:   row.ExpiresAt.UTC(),
		RedeemedAt:  pgconv.TimePtrFromPgtype(row.RedeemedAt),
		FinalizedAt: pgconv.TimePtrFromPgtype(row.FinalizedAt),
	}
}
