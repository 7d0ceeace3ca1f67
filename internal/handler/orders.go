package handler

import (
	"errors"
	"net/http"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/apierror"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/dto"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/middleware"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/model"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

// Create godoc
// @Summary Checkout do carrinho
// @Tags orders
// @Accept json
// @Produce json
// @Param body body dto.CreateOrderRequest true "Itens e entrega"
// @Success 201 {object} dto.OrderResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/orders [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrInsufficientStock) {
			status = http.StatusConflict
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OrdersHandler) ListMine(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListMine(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar pedidos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := principal(c)
	if !ok {
		return
	}
	role := model.Role(middleware.GetClaims(c).Role)
	resp, err := h.svc.Get(c.Request.Context(), id, userID, role)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := principal(c)
	if !ok {
		return
	}
	var req dto.CancelOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	role := model.Role(middleware.GetClaims(c).Role)
	resp, err := h.svc.Cancel(c.Request.Context(), id, userID, role, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Back-office operations ───────────────────────────────────────────────────

func (h *OrdersHandler) ListAll(c *gin.Context) {
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListAll(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar pedidos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) Confirm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Confirm(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) AssignMotoboy(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AssignMotoboyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AssignMotoboy(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Motoboy operations ───────────────────────────────────────────────────────

func (h *OrdersHandler) ListDeliveries(c *gin.Context) {
	motoboyID, ok := principal(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListForMotoboy(c.Request.Context(), motoboyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar entregas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) MarkDelivered(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	motoboyID, ok := principal(c)
	if !ok {
		return
	}
	resp, err := h.svc.MarkDelivered(c.Request.Context(), id, motoboyID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrForbiddenOrder):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
