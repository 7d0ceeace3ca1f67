package handler

import (
	"net/http"
	"strconv"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/apierror"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationsHandler struct{ svc service.NotificationService }

func NewNotificationsHandler(svc service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{svc: svc}
}

func (h *NotificationsHandler) ListMine(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := h.svc.ListMine(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar notificacoes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := principal(c)
	if !ok {
		return
	}
	if err := h.svc.MarkRead(c.Request.Context(), id, userID); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationsHandler) MarkAllRead(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	if err := h.svc.MarkAllRead(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao marcar notificacoes"))
		return
	}
	c.Status(http.StatusNoContent)
}
