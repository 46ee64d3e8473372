// Package notificationdelivery manages delivery layer of notifications.
package notificationdelivery

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

// Service provides service layer interface needed by notification delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package notificationdelivery
type Service interface {
	List(ctx context.Context, customerID int64, limit int32) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id int64) (domain.Notification, error)
	CountUnread(ctx context.Context, customerID int64) (int64, error)
}

// Handler facilitates notification delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns notification handler.
func NewHandler(ns Service) Handler {
	return Handler{service: ns}
}

type customerURI struct {
	CustomerID int64 `uri:"id" binding:"required,min=1"`
}

type listRequest struct {
	Limit int32 `form:"limit" binding:"omitempty,min=1,max=50"`
}

type dataNotifications struct {
	Notifications []domain.Notification `json:"notifications"`
}

type responseNotifications struct {
	Data dataNotifications `json:"data,omitempty"`
}

// List handles http request to fetch a customer's recent notifications.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri customerURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

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

	notifications, err := h.service.List(ctx, uri.CustomerID, req.Limit)
	if err != nil {
		if errors.Is(err, errorspkg.ErrUnavailable) {
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, responseNotifications{Data: dataNotifications{notifications}})
}

type dataUnread struct {
	Unread int64 `json:"unread"`
}

type responseUnread struct {
	Data dataUnread `json:"data,omitempty"`
}

// CountUnread handles http request for the customer's unread notification count.
func (h *Handler) CountUnread(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri customerURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	count, err := h.service.CountUnread(ctx, uri.CustomerID)
	if err != nil {
		if errors.Is(err, errorspkg.ErrUnavailable) {
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, responseUnread{Data: dataUnread{count}})
}

type notificationURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type dataNotification struct {
	Notification domain.Notification `json:"notification"`
}

type responseNotification struct {
	Data dataNotification `json:"data,omitempty"`
}

// MarkRead handles http request to acknowledge a notification.
func (h *Handler) MarkRead(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri notificationURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	notification, err := h.service.MarkRead(ctx, uri.ID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotificationNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
		case errors.Is(err, errorspkg.ErrUnavailable):
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		}

		return
	}

	gctx.JSON(http.StatusOK, responseNotification{Data: dataNotification{notification}})
}
