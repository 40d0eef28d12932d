//go:build unit

package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"saverly/internal/domain/redemption"
	"saverly/internal/domain/user"
	"saverly/internal/handler/api"
	reqdto "saverly/internal/handler/dto/request"
	resdto "saverly/internal/handler/dto/response"
	"saverly/internal/pkg/clock"
	"saverly/internal/usecase/commands"
	"saverly/internal/usecase/queries"
	"saverly/tests/common/builder"
	"saverly/tests/common/httptest"
	"saverly/tests/common/testutil"
	commandsmock "saverly/tests/mock/commands"
	queriesmock "saverly/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RedemptionHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockRedemptionCommands
	mockQueries  *queriesmock.MockRedemptionQueries
	handler      *api.RedemptionHandler
	userID       uuid.UUID
}

func (s *RedemptionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockRedemptionCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockRedemptionQueries(s.mockCtrl)
	s.handler = api.NewRedemptionHandler(s.mockCommands, s.mockQueries, clock.NewMockClock(builder.BaseTime))
	s.userID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("user_role", user.RoleConsumer)
		c.Next()
	}

	s.router.POST("/coupons/:id/redemptions", authMiddleware, s.handler.Start)
	s.router.GET("/coupons/:id/usage", authMiddleware, s.handler.Usage)
	s.router.GET("/redemptions", authMiddleware, s.handler.List)
	s.router.GET("/redemptions/:id", authMiddleware, s.handler.Get)
	s.router.GET("/redemptions/:id/remaining", authMiddleware, s.handler.Remaining)
	s.router.POST("/redemptions/:id/cancel", authMiddleware, s.handler.Cancel)
	s.router.POST("/redemptions/:id/expire", authMiddleware, s.handler.Expire)
	s.router.POST("/redemptions/:id/confirm", authMiddleware, s.handler.Confirm)
	s.router.POST("/redemptions/confirm-code", authMiddleware, s.handler.ConfirmByCode)
	s.router.POST("/redemptions/confirm-scan", authMiddleware, s.handler.ConfirmByPayload)
}

func (s *RedemptionHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRedemptionHandlerSuite(t *testing.T) {
	suite.Run(t, new(RedemptionHandlerTestSuite))
}

func startResult() *commands.StartResult {
	return &commands.StartResult{
		RedemptionID: uuid.New(),
		CouponID:     uuid.New(),
		QRPayload:    "signed.qr.payload",
		ManualCode:   "12345678",
		IssuedAt:     builder.BaseTime,
		ExpiresAt:    builder.BaseTime.Add(redemption.TokenTTL),
		PeriodStart:  redemption.CurrentPeriodStart(1, builder.BaseTime),
		Decision:     redemption.Decision{Allowed: true, Max: 1, Remaining: 1},
		Persisted:    true,
	}
}

// ================================================================================
// TestStart
// ================================================================================

func (s *RedemptionHandlerTestSuite) TestStart() {
	couponID := uuid.New()
	url := fmt.Sprintf("/coupons/%s/redemptions", couponID)

	s.Run("success: returns 201 with the token", func() {
		res := startResult()
		s.mockCommands.EXPECT().Start(gomock.Any(), s.userID, couponID).Return(res, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var body resdto.StartRedemptionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(res.RedemptionID, body.RedemptionID)
		s.Equal("1234-5678", body.ManualCode)
		s.Equal(60, body.TTLSeconds)
		s.Equal(1, body.Remaining)
		s.True(body.Persisted)
	})

	s.Run("error: 401 without credentials", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 400 on a malformed coupon id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/coupons/not-a-uuid/redemptions", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid coupon id")
	})

	s.Run("error: limit denial carries remaining and reset time", func() {
		resetsAt := time.Date(2025, time.March, 6, 0, 0, 0, 0, time.UTC)
		denied := &redemption.DeniedError{Decision: redemption.Decision{
			Used: 1, Max: 1, Remaining: 0,
			Reason:   redemption.ErrDailyLimitReached,
			ResetsAt: resetsAt,
		}}
		s.mockCommands.EXPECT().Start(gomock.Any(), s.userID, couponID).Return(nil, denied).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		env := httptest.AssertErrorKind(s.T(), rec, http.StatusConflict, string(redemption.KindDailyLimitReached))
		s.Require().NotNil(env.Error.Remaining)
		s.Equal(0, *env.Error.Remaining)
		s.Require().NotNil(env.Error.ResetsAt)
		s.True(resetsAt.Equal(*env.Error.ResetsAt))
	})

	s.Run("error: storage failure returns the unsaved token as detail", func() {
		res := startResult()
		res.Persisted = false
		s.mockCommands.EXPECT().Start(gomock.Any(), s.userID, couponID).
			Return(res, fmt.Errorf("insert: %w", redemption.ErrStorage)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		env := httptest.AssertErrorKind(s.T(), rec, http.StatusServiceUnavailable, string(redemption.KindStorage))
		s.Contains(string(env.Detail), res.RedemptionID.String())
		s.Contains(string(env.Detail), `"persisted":false`)
	})

	kinds := []struct {
		name       string
		err        error
		expectCode int
		expectKind string
	}{
		{name: "not subscribed", err: redemption.ErrUserNotSubscribed, expectCode: http.StatusPaymentRequired, expectKind: string(redemption.KindUserNotSubscribed)},
		{name: "coupon inactive", err: redemption.ErrCouponInactive, expectCode: http.StatusUnprocessableEntity, expectKind: string(redemption.KindCouponInactive)},
		{name: "coupon expired", err: redemption.ErrCouponExpired, expectCode: http.StatusUnprocessableEntity, expectKind: string(redemption.KindCouponExpired)},
		{name: "coupon not found", err: commands.ErrCouponNotFound, expectCode: http.StatusNotFound, expectKind: string(redemption.KindNotFound)},
		{name: "unexpected error", err: errors.New("boom"), expectCode: http.StatusInternalServerError, expectKind: ""},
	}
	for _, tc := range kinds {
		s.Run("error: "+tc.name, func() {
			s.mockCommands.EXPECT().Start(gomock.Any(), s.userID, couponID).Return(nil, tc.err).Times(1)
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
			httptest.AssertErrorKind(s.T(), rec, tc.expectCode, tc.expectKind)
		})
	}
}

// ================================================================================
// TestUsage / TestList / TestGet / TestRemaining
// ================================================================================

func (s *RedemptionHandlerTestSuite) TestUsage() {
	couponID := uuid.New()
	url := fmt.Sprintf("/coupons/%s/usage", couponID)

	s.Run("success", func() {
		s.mockQueries.EXPECT().Usage(gomock.Any(), s.userID, couponID).Return(&queries.UsageView{
			CouponID:   couponID,
			CanRedeem:  false,
			Reason:     string(redemption.KindAlreadyRedeemed),
			MaxAllowed: 1,
			UsageType:  "one_time",
		}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var body resdto.UsageResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.False(body.CanRedeem)
		s.Equal(string(redemption.KindAlreadyRedeemed), body.Reason)
		s.Equal("one_time", body.UsageType)
	})

	s.Run("error: 404 for unknown user", func() {
		s.mockQueries.EXPECT().Usage(gomock.Any(), s.userID, couponID).Return(nil, queries.ErrUserNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "User not found")
	})
}

func (s *RedemptionHandlerTestSuite) TestList() {
	s.Run("success: passes limit and cursor, returns next cursor", func() {
		views := []*queries.RedemptionView{{ID: uuid.New(), UserID: s.userID, Status: "pending", ManualCode: "87654321"}}
		s.mockQueries.EXPECT().
			ListByUser(gomock.Any(), s.userID, &queries.Cursor{After: "abc"}, 5).
			Return(views, &queries.Cursor{After: "next"}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/redemptions?limit=5&after=abc", nil, "bearer-token")

		var body struct {
			Redemptions []resdto.RedemptionResponse `json:"redemptions"`
			NextCursor  string                      `json:"nextCursor"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body.Redemptions, 1)
		s.Equal("8765-4321", body.Redemptions[0].ManualCode)
		s.Equal("next", body.NextCursor)
	})

	s.Run("limit falls back to the default", func() {
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.userID, nil, queries.DefaultListLimit).
			Return(nil, nil, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/redemptions?limit=abc", nil, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)
		s.NotContains(rec.Body.String(), "nextCursor")
	})

	s.Run("error: 400 on invalid cursor", func() {
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.userID, gomock.Any(), gomock.Any()).
			Return(nil, nil, queries.ErrInvalidCursor).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/redemptions?after=bad", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid cursor")
	})
}

func (s *RedemptionHandlerTestSuite) TestGet() {
	id := uuid.New()
	url := "/redemptions/" + id.String()

	s.Run("success", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, id).
			Return(&queries.RedemptionView{ID: id, UserID: s.userID, Status: "redeemed"}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var body resdto.RedemptionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(id, body.ID)
		s.Equal("redeemed", body.Status)
	})

	s.Run("error: 403 for someone else's record", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, id).Return(nil, queries.ErrRedemptionAccess).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "not allowed")
	})

	s.Run("error: 404", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, id).Return(nil, queries.ErrRedemptionNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorKind(s.T(), rec, http.StatusNotFound, string(redemption.KindNotFound))
	})
}

func (s *RedemptionHandlerTestSuite) TestRemaining() {
	id := uuid.New()

	s.Run("rounds partial seconds up and uses the server clock", func() {
		s.mockQueries.EXPECT().Remaining(gomock.Any(), id, builder.BaseTime).Return(&queries.RemainingView{
			ID:        id,
			Status:    "pending",
			Remaining: 41*time.Second + 200*time.Millisecond,
			ExpiresAt: builder.BaseTime.Add(41 * time.Second),
		}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/redemptions/"+id.String()+"/remaining", nil, "bearer-token")

		var body resdto.RemainingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(42, body.RemainingSeconds)
		s.Equal(int64(41200), body.RemainingMillis)
		s.Equal("pending", body.Status)
	})
}

// ================================================================================
// TestCancel / TestExpire
// ================================================================================

func (s *RedemptionHandlerTestSuite) TestFinalize() {
	type expectFunc func(ctx, recordID, userID any) *gomock.Call

	id := uuid.New()
	cases := []struct {
		name   string
		path   string
		expect expectFunc
		status redemption.Status
	}{
		{name: "cancel", path: "/redemptions/" + id.String() + "/cancel", expect: s.mockCommands.EXPECT().Cancel, status: redemption.StatusCancelled},
		{name: "expire", path: "/redemptions/" + id.String() + "/expire", expect: s.mockCommands.EXPECT().Expire, status: redemption.StatusExpired},
	}

	for _, tc := range cases {
		rec := builder.NewRedemptionBuilder().With(func(b *builder.RedemptionBuilder) {
			b.ID = id
			b.UserID = s.userID
			b.FinalizedAt = &builder.BaseTime
		}).WithStatus(tc.status).Build()

		s.Run(tc.name+": success", func() {
			tc.expect(gomock.Any(), id, s.userID).Return(rec, nil).Times(1)

			w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, tc.path, nil, "bearer-token")

			var body resdto.FinalizeResponse
			httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &body)
			s.False(body.AlreadyFinalized)
			s.Equal(tc.status.String(), body.Redemption.Status)
		})

		s.Run(tc.name+": already terminal is still 200", func() {
			redeemed := builder.NewRedemptionBuilder().RedeemedOn(builder.BaseTime).Build()
			tc.expect(gomock.Any(), id, s.userID).Return(redeemed, redemption.ErrAlreadyFinalized).Times(1)

			w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, tc.path, nil, "bearer-token")

			var body resdto.FinalizeResponse
			httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &body)
			s.True(body.AlreadyFinalized)
			s.Equal("redeemed", body.Redemption.Status)
		})

		s.Run(tc.name+": error: 403 for a non-owner", func() {
			tc.expect(gomock.Any(), id, s.userID).Return(nil, commands.ErrForbidden).Times(1)
			w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, tc.path, nil, "bearer-token")
			httptest.AssertErrorResponse(s.T(), w, http.StatusForbidden, "not allowed")
		})

		s.Run(tc.name+": error: 404", func() {
			tc.expect(gomock.Any(), id, s.userID).Return(nil, redemption.ErrNotFound).Times(1)
			w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, tc.path, nil, "bearer-token")
			httptest.AssertErrorKind(s.T(), w, http.StatusNotFound, string(redemption.KindNotFound))
		})
	}
}

// ================================================================================
// TestConfirm / TestConfirmByCode / TestConfirmByPayload
// ================================================================================

func (s *RedemptionHandlerTestSuite) TestConfirm() {
	rec := builder.NewRedemptionBuilder().RedeemedOn(builder.BaseTime).Build()
	url := "/redemptions/" + rec.ID().String() + "/confirm"

	s.Run("success", func() {
		s.mockCommands.EXPECT().Confirm(gomock.Any(), rec.ID(), s.userID).Return(rec, nil).Times(1)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var body resdto.RedemptionResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &body)
		s.Equal("redeemed", body.Status)
		s.Require().NotNil(body.RedeemedAt)
	})

	cases := []struct {
		name       string
		err        error
		expectCode int
	}{
		{name: "token expired", err: redemption.ErrTokenExpired, expectCode: http.StatusGone},
		{name: "already finalized", err: redemption.ErrAlreadyFinalized, expectCode: http.StatusConflict},
		{name: "forbidden", err: commands.ErrForbidden, expectCode: http.StatusForbidden},
		{name: "storage", err: fmt.Errorf("tx: %w", redemption.ErrStorage), expectCode: http.StatusServiceUnavailable},
		{name: "limit re-check", err: &redemption.DeniedError{Decision: redemption.Decision{Reason: redemption.ErrMonthlyLimitReached, Max: 2, Used: 2}}, expectCode: http.StatusConflict},
	}
	for _, tc := range cases {
		s.Run("error: "+tc.name, func() {
			s.mockCommands.EXPECT().Confirm(gomock.Any(), rec.ID(), s.userID).Return(nil, tc.err).Times(1)
			w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
			s.Equal(tc.expectCode, w.Code, w.Body.String())
		})
	}
}

func (s *RedemptionHandlerTestSuite) TestConfirmByCode() {
	url := "/redemptions/confirm-code"
	reqBody := reqdto.ConfirmByCodeRequest{Code: "1234-5678"}
	rec := builder.NewRedemptionBuilder().RedeemedOn(builder.BaseTime).Build()

	validation := []struct {
		name       string
		mutate     func(m map[string]any)
		expectCode int
	}{
		{name: "missing field: code (required)", mutate: testutil.Field("code", nil), expectCode: http.StatusBadRequest},
		{name: "code too long", mutate: testutil.Field("code", strings.Repeat("1", 17)), expectCode: http.StatusBadRequest},
	}

	s.Run("success", func() {
		s.mockCommands.EXPECT().ConfirmByCode(gomock.Any(), "1234-5678", s.userID).Return(rec, nil).Times(1)
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, nil)
	})

	s.Run("error: 400 on validation errors", func() {
		for _, tc := range validation {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				s.Equal(tc.expectCode, w.Code)
			})
		}
	})

	s.Run("error: 400 on malformed code", func() {
		s.mockCommands.EXPECT().ConfirmByCode(gomock.Any(), "12ab", s.userID).Return(nil, redemption.ErrInvalidManualCode).Times(1)
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqdto.ConfirmByCodeRequest{Code: "12ab"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "8 digits")
	})

	s.Run("error: 404 when no pending record has the code", func() {
		s.mockCommands.EXPECT().ConfirmByCode(gomock.Any(), "1234-5678", s.userID).Return(nil, redemption.ErrNotFound).Times(1)
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorKind(s.T(), w, http.StatusNotFound, string(redemption.KindNotFound))
	})
}

func (s *RedemptionHandlerTestSuite) TestConfirmByPayload() {
	url := "/redemptions/confirm-scan"
	rec := builder.NewRedemptionBuilder().RedeemedOn(builder.BaseTime).Build()

	s.Run("success", func() {
		s.mockCommands.EXPECT().ConfirmByPayload(gomock.Any(), "signed.qr.payload", s.userID).Return(rec, nil).Times(1)
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqdto.ConfirmByPayloadRequest{Payload: "signed.qr.payload"}, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, nil)
	})

	s.Run("error: 400 on a tampered payload", func() {
		s.mockCommands.EXPECT().ConfirmByPayload(gomock.Any(), "tampered", s.userID).Return(nil, redemption.ErrInvalidPayload).Times(1)
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqdto.ConfirmByPayloadRequest{Payload: "tampered"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "QR code is not valid")
	})

	s.Run("error: 400 on an empty body", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "bearer-token")
		s.Equal(http.StatusBadRequest, w.Code)
	})
}
