// Package customerdelivery manages delivery layer of customers.
package customerdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-teller/branch-bank/internal/domain"
	"github.com/go-teller/branch-bank/pkg/errorspkg"
	"github.com/go-teller/branch-bank/pkg/web"
)

// Service provides service layer interface needed by customer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package customerdelivery
type Service interface {
	Create(ctx context.Context, arg domain.CreateCustomerParams) (domain.Customer, error)
	Get(ctx context.Context, id int64) (domain.Customer, error)
	Update(ctx context.Context, arg domain.UpdateCustomerParams) (domain.Customer, error)
	Search(ctx context.Context, query string, pageSize, pageID int32) ([]domain.Customer, error)
}

// Handler facilitates customer delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns customer handler.
func NewHandler(cs Service) Handler {
	return Handler{service: cs}
}

type createRequest struct {
	AccountNumber string `json:"account_number" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone" binding:"required"`
	Address       string `json:"address"`
	AccountType   string `json:"account_type" binding:"required,oneof=savings checking fixed-deposit"`
	Balance       string `json:"balance"`
}

type dataCustomer struct {
	Customer domain.Customer `json:"customer"`
}

type responseCustomer struct {
	Data dataCustomer `json:"data,omitempty"`
}

// Create handles http request to open a customer account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
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

	arg := domain.CreateCustomerParams{
		AccountNumber: req.AccountNumber,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		AccountType:   domain.AccountType(req.AccountType),
		Balance:       req.Balance,
	}

	customer, err := h.service.Create(ctx, arg)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNumberAlreadyExists):
			gctx.JSON(http.StatusConflict, web.Error(err))
		case errors.Is(err, domain.ErrInvalidAmount),
			errors.Is(err, domain.ErrNegativeAmount):
			gctx.JSON(http.StatusBadRequest, web.Error(err))
		case errors.Is(err, errorspkg.ErrUnavailable):
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		}

		return
	}

	gctx.JSON(http.StatusCreated, responseCustomer{Data: dataCustomer{customer}})
}

type customerURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Get handles http request to fetch a customer profile.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri customerURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	customer, err := h.service.Get(ctx, uri.ID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCustomerNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
		case errors.Is(err, errorspkg.ErrUnavailable):
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		}

		return
	}

	gctx.JSON(http.StatusOK, responseCustomer{Data: dataCustomer{customer}})
}

type updateRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Update handles http request to change customer contact details.
func (h *Handler) Update(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri customerURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	var req updateRequest
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

	arg := domain.UpdateCustomerParams{
		ID:      uri.ID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}

	customer, err := h.service.Update(ctx, arg)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCustomerNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
		case errors.Is(err, errorspkg.ErrUnavailable):
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		}

		return
	}

	gctx.JSON(http.StatusOK, responseCustomer{Data: dataCustomer{customer}})
}

type searchRequest struct {
	Query    string `form:"query" binding:"required"`
	PageID   int32  `form:"page_id" binding:"required,min=1"`
	PageSize int32  `form:"page_size" binding:"required,min=1,max=100"`
}

type dataCustomers struct {
	Customers []domain.Customer `json:"customers"`
}

type responseCustomers struct {
	Data dataCustomers `json:"data,omitempty"`
}

// Search handles http request to find customers by name, account number or
// email.
func (h *Handler) Search(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req searchRequest
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

	customers, err := h.service.Search(ctx, req.Query, req.PageSize, req.PageID)
	if err != nil {
		if errors.Is(err, errorspkg.ErrUnavailable) {
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, responseCustomers{Data: dataCustomers{customers}})
}
