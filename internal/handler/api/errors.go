package api

import (
	"errors"
	"net/http"

	"saverly/internal/domain/redemption"
	"saverly/internal/handler/httperr"
	"saverly/internal/usecase/commands"
	"saverly/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

var errUnauthorized = errors.New("missing authenticated user")

// abortRedemption writes the error envelope for a redemption failure. Denials carry the
// remaining count and reset time so the client can explain when to retry.
func abortRedemption(c *gin.Context, err error, detail any) {
	status, body := redemptionError(err)
	httperr.AbortWithBody(c, status, err, body, detail)
}

func redemptionError(err error) (int, httperr.ErrorBody) {
	switch {
	case errors.Is(err, commands.ErrForbidden), errors.Is(err, queries.ErrRedemptionAccess):
		return http.StatusForbidden, httperr.ErrorBody{Message: "You are not allowed to act on this redemption."}
	case errors.Is(err, commands.ErrCouponNotFound), errors.Is(err, queries.ErrCouponNotFound):
		return http.StatusNotFound, httperr.ErrorBody{Message: "Coupon not found.", Kind: string(redemption.KindNotFound)}
	case errors.Is(err, queries.ErrUserNotFound):
		return http.StatusNotFound, httperr.ErrorBody{Message: "User not found.", Kind: string(redemption.KindNotFound)}
	case errors.Is(err, redemption.ErrInvalidManualCode):
		return http.StatusBadRequest, httperr.ErrorBody{Message: "Manual code must be 8 digits."}
	case errors.Is(err, redemption.ErrInvalidPayload):
		return http.StatusBadRequest, httperr.ErrorBody{Message: "QR code is not valid."}
	case errors.Is(err, queries.ErrInvalidCursor):
		return http.StatusBadRequest, httperr.ErrorBody{Message: "Invalid cursor."}
	}

	kind := redemption.KindOf(err)
	body := httperr.ErrorBody{Message: kind.Message(), Kind: string(kind)}

	var denied *redemption.DeniedError
	if errors.As(err, &denied) {
		remaining := max(denied.Decision.Remaining, 0)
		body.Remaining = &remaining
		if !denied.Decision.ResetsAt.IsZero() {
			resetsAt := denied.Decision.ResetsAt
			body.ResetsAt = &resetsAt
		}
	}

	switch kind {
	case redemption.KindUserNotSubscribed:
		return http.StatusPaymentRequired, body
	case redemption.KindCouponInactive, redemption.KindCouponExpired:
		return http.StatusUnprocessableEntity, body
	case redemption.KindAlreadyRedeemed, redemption.KindDailyLimitReached, redemption.KindMonthlyLimitReached,
		redemption.KindAlreadyFinalized:
		return http.StatusConflict, body
	case redemption.KindTokenExpired:
		return http.StatusGone, body
	case redemption.KindNotFound:
		return http.StatusNotFound, body
	case redemption.KindStorage:
		return http.StatusServiceUnavailable, body
	default:
		return http.StatusInternalServerError, httperr.ErrorBody{Message: "Internal server error"}
	}
}
