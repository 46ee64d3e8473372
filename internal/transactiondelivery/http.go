// Package transactiondelivery manages delivery layer of ledger transactions.
package transactiondelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-teller/branch-bank/internal/domain"
	"github.com/go-teller/branch-bank/internal/middleware"
	"github.com/go-teller/branch-bank/pkg/errorspkg"
	"github.com/go-teller/branch-bank/pkg/tokenpkg"
	"github.com/go-teller/branch-bank/pkg/web"
)

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Process(ctx context.Context, arg domain.ProcessTransactionParams) (domain.TransactionResult, error)
	History(ctx context.Context, customerID int64, pageSize, pageID int32) ([]domain.Transaction, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(ts Service) Handler {
	return Handler{service: ts}
}

type processRequest struct {
	CustomerID       int64  `json:"customer_id" binding:"required,min=1"`
	Kind             string `json:"kind" binding:"required,oneof=deposit withdrawal"`
	Amount           string `json:"amount" binding:"required"`
	Description      string `json:"description"`
	WithdrawalMethod string `json:"withdrawal_method" binding:"omitempty,oneof=cash cheque"`
}

type data struct {
	Transaction domain.Transaction `json:"transaction"`
	NewBalance  string             `json:"new_balance"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

// Process handles http request to apply a deposit or withdrawal.
func (h *Handler) Process(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

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

	arg := domain.ProcessTransactionParams{
		CustomerID:  req.CustomerID,
		Kind:        domain.TransactionKind(req.Kind),
		Amount:      req.Amount,
		Description: req.Description,
		Method:      domain.WithdrawalMethod(req.WithdrawalMethod),
		PerformedBy: authPayload.Username,
	}

	result, err := h.service.Process(ctx, arg)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCustomerNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
		case errors.Is(err, domain.ErrInsufficientFunds),
			errors.Is(err, domain.ErrLimitExceeded),
			errors.Is(err, domain.ErrInvalidAmount),
			errors.Is(err, domain.ErrNegativeAmount),
			errors.Is(err, domain.ErrInvalidTransactionKind),
			errors.Is(err, domain.ErrWithdrawalMethodRequired),
			errors.Is(err, domain.ErrInvalidWithdrawalMethod):
			gctx.JSON(http.StatusBadRequest, web.Error(err))
		case errors.Is(err, errorspkg.ErrUnavailable):
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		}

		return
	}

	res := response{
		Data: data{
			Transaction: result.Transaction,
			NewBalance:  result.Customer.Balance,
		},
	}

	gctx.JSON(http.StatusCreated, res)
}

type historyURI struct {
	CustomerID int64 `uri:"id" binding:"required,min=1"`
}

type historyRequest struct {
	PageID   int32 `form:"page_id" binding:"required,min=1"`
	PageSize int32 `form:"page_size" binding:"required,min=1,max=100"`
}

type dataTransactions struct {
	Transactions []domain.Transaction `json:"transactions"`
}

type responseTransactions struct {
	Data dataTransactions `json:"data,omitempty"`
}

// History handles http request to list a customer's transactions.
func (h *Handler) History(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri historyURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	var req historyRequest
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

	transactions, err := h.service.History(ctx, uri.CustomerID, req.PageSize, req.PageID)
	if err != nil {
		if errors.Is(err, errorspkg.ErrUnavailable) {
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := responseTransactions{
		Data: dataTransactions{transactions},
	}

	gctx.JSON(http.StatusOK, res)
}
