package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"saverly/internal/domain/redemption"
	reqdto "saverly/internal/handler/dto/request"
	resdto "saverly/internal/handler/dto/response"
	"saverly/internal/handler/httperr"
	"saverly/internal/handler/middleware"
	"saverly/internal/pkg/clock"
	"saverly/internal/usecase/commands"
	"saverly/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RedemptionHandler struct {
	cmds  commands.RedemptionCommands
	q     queries.RedemptionQueries
	clock clock.Clock
}

func NewRedemptionHandler(cmds commands.RedemptionCommands, q queries.RedemptionQueries, clk clock.Clock) *RedemptionHandler {
	return &RedemptionHandler{cmds: cmds, q: q, clock: clk}
}

// @Summary Start redemption
// @Description Issue a 60-second QR payload and manual code for a coupon. Any pending redemption of the same coupon is cancelled.
// @Tags redemptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Coupon ID"
// @Success 201 {object} resdto.StartRedemptionResponse
// @Failure 402 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Failure 503 {object} httperr.Response "Token was generated but not stored; detail carries it"
// @Router /api/v1/coupons/{id}/redemptions [post]
func (h *RedemptionHandler) Start(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthorized, "Unauthorized", nil)
		return
	}
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid coupon id", nil)
		return
	}

	result, err := h.cmds.Start(c.Request.Context(), userID, couponID)
	if err != nil {
		var detail any
		if result != nil {
			detail = resdto.FromStartResult(result)
		}
		abortRedemption(c, err, detail)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromStartResult(result))
}

// @Summary Coupon usage
// @Description How many times the caller has used a coupon in the current window, and when it resets
// @Tags redemptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Coupon ID"
// @Success 200 {object} resdto.UsageResponse
// @Failure 404 {object} httperr.Response
// @Router /api/v1/coupons/{id}/usage [get]
func (h *RedemptionHandler) Usage(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthorized, "Unauthorized", nil)
		return
	}
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid coupon id", nil)
		return
	}

	view, err := h.q.Usage(c.Request.Context(), userID, couponID)
	if err != nil {
		abortRedemption(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromUsageView(view))
}

// @Summary List own redemptions
// @Description Newest first, keyset paginated
// @Tags redemptions
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {array} resdto.RedemptionResponse
// @Failure 400 {object} httperr.Response
// @Router /api/v1/redemptions [get]
func (h *RedemptionHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthorized, "Unauthorized", nil)
		return
	}
	limit := queries.DefaultListLimit
	if v := c.Query("limit"); v != "" {
		if iv, e := strconv.Atoi(v); e == nil {
			limit = queries.ValidateLimit(iv)
		}
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}

	items, next, err := h.q.ListByUser(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		abortRedemption(c, err, nil)
		return
	}
	resp := gin.H{"redemptions": resdto.FromRedemptionList(items)}
	if next != nil {
		resp["nextCursor"] = next.After
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get redemption
// @Description Owner, the coupon's business, or an admin
// @Tags redemptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Redemption ID"
// @Success 200 {object} resdto.RedemptionResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/v1/redemptions/{id} [get]
func (h *RedemptionHandler) Get(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthorized, "Unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), actorID, id)
	if err != nil {
		abortRedemption(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRedemptionView(view))
}

// @Summary Remaining time
// @Description Seconds left before the token expires, from the server clock
// @Tags redemptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Redemption ID"
// @Success 200 {object} resdto.RemainingResponse
// @Failure 404 {object} httperr.Response
// @Router /api/v1/redemptions/{id}/remaining [get]
func (h *RedemptionHandler) Remaining(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	view, err := h.q.Remaining(c.Request.Context(), id, h.clock.Now())
	if err != nil {
		abortRedemption(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRemainingView(view))
}

// @Summary Cancel redemption
// @Description Owner abandons a pending redemption. Repeating the call is harmless.
// @Tags redemptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Redemption ID"
// @Success 200 {object} resdto.FinalizeResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/v1/redemptions/{id}/cancel [post]
func (h *RedemptionHandler) Cancel(c *gin.Context) {
	h.finalize(c, h.cmds.Cancel)
}

// @Summary Expire redemption
// @Description Owner reports that the countdown elapsed. Repeating the call is harmless.
// @Tags redemptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Redemption ID"
// @Success 200 {object} resdto.FinalizeResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/v1/redemptions/{id}/expire [post]
func (h *RedemptionHandler) Expire(c *gin.Context) {
	h.finalize(c, h.cmds.Expire)
}

type finalizeFunc func(ctx context.Context, recordID, userID uuid.UUID) (*redemption.Record, error)

func (h *RedemptionHandler) finalize(c *gin.Context, fn finalizeFunc) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthorized, "Unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	rec, err := fn(c.Request.Context(), id, userID)
	if errors.Is(err, redemption.ErrAlreadyFinalized) && rec != nil {
		c.JSON(http.StatusOK, resdto.FinalizeResponse{Redemption: resdto.FromRecord(rec), AlreadyFinalized: true})
		return
	}
	if err != nil {
		abortRedemption(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FinalizeResponse{Redemption: resdto.FromRecord(rec)})
}

// @Summary Confirm redemption
// @Description Merchant accepts a pending redemption of their business
// @Tags merchant
// @Produce json
// @Security BearerAuth
// @Param id path string true "Redemption ID"
// @Success 200 {object} resdto.RedemptionResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Router /api/v1/redemptions/{id}/confirm [post]
func (h *RedemptionHandler) Confirm(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthorized, "Unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	rec, err := h.cmds.Confirm(c.Request.Context(), id, actorID)
	if err != nil {
		abortRedemption(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRecord(rec))
}

// @Summary Confirm by manual code
// @Description Merchant types the 8-digit code shown to the customer
// @Tags merchant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ConfirmByCodeRequest true "Manual code, dash optional"
// @Success 200 {object} resdto.RedemptionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Router /api/v1/redemptions/confirm-code [post]
func (h *RedemptionHandler) ConfirmByCode(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthorized, "Unauthorized", nil)
		return
	}
	var req reqdto.ConfirmByCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	rec, err := h.cmds.ConfirmByCode(c.Request.Context(), req.Code, actorID)
	if err != nil {
		abortRedemption(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRecord(rec))
}

// @Summary Confirm by QR scan
// @Description Merchant scans the QR payload shown to the customer
// @Tags merchant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ConfirmByPayloadRequest true "Scanned payload"
// @Success 200 {object} resdto.RedemptionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Router /api/v1/redemptions/confirm-scan [post]
func (h *RedemptionHandler) ConfirmByPayload(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthorized, "Unauthorized", nil)
		return
	}
	var req reqdto.ConfirmByPayloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	rec, err := h.cmds.ConfirmByPayload(c.Request.Context(), req.Payload, actorID)
	if err != nil {
		abortRedemption(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRecord(rec))
}
