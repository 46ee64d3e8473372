// Package chequedelivery manages delivery layer of cheques.
package chequedelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-teller/branch-bank/internal/domain"
	"github.com/go-teller/branch-bank/internal/middleware"
	"github.com/go-teller/branch-bank/pkg/errorspkg"
	"github.com/go-teller/branch-bank/pkg/tokenpkg"
	"github.com/go-teller/branch-bank/pkg/web"
)

// Service provides service layer interface needed by cheque delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package chequedelivery
type Service interface {
	Submit(ctx context.Context, arg domain.SubmitChequeParams) (domain.Cheque, error)
	Get(ctx context.Context, id int64) (domain.Cheque, error)
	List(ctx context.Context, arg domain.ListChequesParams) ([]domain.Cheque, error)
	Process(ctx context.Context, arg domain.ProcessChequeParams) (domain.ChequeProcessResult, error)
}

// Handler facilitates cheque delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns cheque handler.
func NewHandler(cs Service) Handler {
	return Handler{service: cs}
}

type submitRequest struct {
	CustomerID   int64     `json:"customer_id" binding:"required,min=1"`
	ChequeNumber string    `json:"cheque_number" binding:"required"`
	Amount       string    `json:"amount" binding:"required"`
	Kind         string    `json:"transaction_type" binding:"required,oneof=deposit withdrawal"`
	IssuingBank  string    `json:"issuing_bank" binding:"required"`
	IssueDate    time.Time `json:"issue_date" binding:"required"`
	Notes        string    `json:"notes"`
}

type dataCheque struct {
	Cheque domain.Cheque `json:"cheque"`
}

type responseCheque struct {
	Data dataCheque `json:"data,omitempty"`
}

// Submit handles http request to record a cheque for later clearing.
func (h *Handler) Submit(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req submitRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	arg := domain.SubmitChequeParams{
		CustomerID:   req.CustomerID,
		ChequeNumber: req.ChequeNumber,
		Amount:       req.Amount,
		Kind:         domain.TransactionKind(req.Kind),
		IssuingBank:  req.IssuingBank,
		IssueDate:    req.IssueDate,
		Notes:        req.Notes,
		SubmittedBy:  authPayload.Username,
	}

	cheque, err := h.service.Submit(ctx, arg)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCustomerNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
		case errors.Is(err, domain.ErrDuplicateChequeNumber),
			errors.Is(err, domain.ErrInvalidAmount),
			errors.Is(err, domain.ErrNegativeAmount),
			errors.Is(err, domain.ErrInvalidTransactionKind):
			gctx.JSON(http.StatusBadRequest, web.Error(err))
		case errors.Is(err, errorspkg.ErrUnavailable):
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		}

		return
	}

	gctx.JSON(http.StatusCreated, responseCheque{Data: dataCheque{cheque}})
}

type chequeURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Get handles http request to fetch a single cheque.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri chequeURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	cheque, err := h.service.Get(ctx, uri.ID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrChequeNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
		case errors.Is(err, errorspkg.ErrUnavailable):
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		}

		return
	}

	gctx.JSON(http.StatusOK, responseCheque{Data: dataCheque{cheque}})
}

type listRequest struct {
	CustomerID int64  `form:"customer_id" binding:"omitempty,min=1"`
	Status     string `form:"status" binding:"omitempty,oneof=pending cleared rejected"`
	PageID     int32  `form:"page_id" binding:"required,min=1"`
	PageSize   int32  `form:"page_size" binding:"required,min=1,max=100"`
}

type dataCheques struct {
	Cheques []domain.Cheque `json:"cheques"`
}

type responseCheques struct {
	Data dataCheques `json:"data,omitempty"`
}

// List handles http request to list cheques, optionally filtered by
// customer and status.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	arg := domain.ListChequesParams{
		CustomerID: req.CustomerID,
		Status:     domain.ChequeStatus(req.Status),
		Limit:      req.PageSize,
		Offset:     (req.PageID - 1) * req.PageSize,
	}

	cheques, err := h.service.List(ctx, arg)
	if err != nil {
		if errors.Is(err, errorspkg.ErrUnavailable) {
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, responseCheques{Data: dataCheques{cheques}})
}

type processRequest struct {
	Decision        string `json:"decision" binding:"required,oneof=cleared rejected"`
	RejectionReason string `json:"rejection_reason"`
}

type dataProcess struct {
	Cheque      domain.Cheque      `json:"cheque"`
	Transaction domain.Transaction `json:"transaction,omitempty"`
	NewBalance  string             `json:"new_balance,omitempty"`
}

type responseProcess struct {
	Data dataProcess `json:"data,omitempty"`
}

// Process handles http request to clear or reject a pending cheque.
func (h *Handler) Process(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri chequeURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	var req processRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	arg := domain.ProcessChequeParams{
		ChequeID:        uri.ID,
		Decision:        domain.ChequeStatus(req.Decision),
		RejectionReason: req.RejectionReason,
		ProcessedBy:     authPayload.Username,
	}

	result, err := h.service.Process(ctx, arg)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrChequeNotFound),
			errors.Is(err, domain.ErrCustomerNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
		case errors.Is(err, domain.ErrChequeAlreadyProcessed),
			errors.Is(err, domain.ErrRejectionReasonRequired),
			errors.Is(err, domain.ErrInvalidChequeDecision),
			errors.Is(err, domain.ErrInsufficientFunds),
			errors.Is(err, domain.ErrLimitExceeded):
			gctx.JSON(http.StatusBadRequest, web.Error(err))
		case errors.Is(err, errorspkg.ErrUnavailable):
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		}

		return
	}

	res := responseProcess{
		Data: dataProcess{
			Cheque:      result.Cheque,
			Transaction: result.Transaction,
			NewBalance:  result.Customer.Balance,
		},
	}

	gctx.JSON(http.StatusOK, res)
}
