package converter

import (
	"saverly/internal/domain/redemption"
	"saverly/internal/infra/query"
	"saverly/internal/pkg/pgconv"
)

func RedemptionToInsertParams(rec *redemption.Record) query.InsertRedemptionParams {
	return query.InsertRedemptionParams{
		ID:          rec.ID(),
		UserID:      rec.UserID(),
		CouponID:    rec.CouponID(),
		BusinessID:  rec.BusinessID(),
		QRPayload:   rec.QRPayload(),
		ManualCode:  rec.ManualCode(),
		PeriodStart: rec.PeriodStart(),
		CreatedAt:   rec.CreatedAt(),
		ExpiresAt:   rec.ExpiresAt(),
	}
}

// RedemptionFromRow rejects rows whose status the domain does not know.
func RedemptionFromRow(row query.Redemption) (*redemption.Record, error) {
	status, err := redemption.NewStatus(row.Status)
	if err != nil {
		return nil, err
	}

	return redemption.Reconstruct(redemption.ReconstructParams{
		ID:          row.ID,
		UserID:      row.UserID,
		CouponID:    row.CouponID,
		BusinessID:  row.BusinessID,
		Status:      status,
		QRPayload:   row.QRPayload,
		ManualCode:  row.ManualCode,
		PeriodStart: row.PeriodStart.UTC(),
		CreatedAt:   row.CreatedAt.UTC(),
		ExpiresAt:   row.ExpiresAt.UTC(),
		RedeemedAt:  pgconv.TimePtrFromPgtype(row.RedeemedAt),
		FinalizedAt: pgconv.TimePtrFromPgtype(row.FinalizedAt),
	}), nil
}

func RedemptionsFromRows(rows []query.Redemption) ([]*redemption.Record, error) {
	out := make([]*redemption.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := RedemptionFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
