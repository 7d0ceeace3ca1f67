package handler

import (
	"net/http"

	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/apierror"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/dto"
	"github.com/paulojunior1308/adega-flow-digital-sub003/internal/service"

	"github.com/gin-gonic/gin"
)

// CombosHandler manages product bundles.
type CombosHandler struct{ svc service.CatalogService }

func NewCombosHandler(svc service.CatalogService) *CombosHandler {
	return &CombosHandler{svc: svc}
}

func (h *CombosHandler) Create(c *gin.Context) {
	var req dto.CreateComboRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCombo(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List serves both surfaces: the public storefront sees active combos only,
// the back-office passes ?all=true for the full set.
func (h *CombosHandler) List(c *gin.Context) {
	activeOnly := c.Query("all") != "true"
	resp, err := h.svc.ListCombos(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar combos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CombosHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetCombo(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CombosHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateComboRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateCombo(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CombosHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeactivateCombo(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Promotions ───────────────────────────────────────────────────────────────

type PromotionsHandler struct{ svc service.CatalogService }

func NewPromotionsHandler(svc service.CatalogService) *PromotionsHandler {
	return &PromotionsHandler{svc: svc}
}

func (h *PromotionsHandler) Create(c *gin.Context) {
	var req dto.CreatePromotionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreatePromotion(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PromotionsHandler) List(c *gin.Context) {
	resp, err := h.svc.ListPromotions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar promocoes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PromotionsHandler) ListActive(c *gin.Context) {
	resp, err := h.svc.ListActivePromotions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar promocoes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PromotionsHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeactivatePromotion(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
