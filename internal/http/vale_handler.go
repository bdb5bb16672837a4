package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tfd-service/internal/http/middleware"
	"tfd-service/internal/model"
	"tfd-service/internal/service"
)

func (h *Handler) listCasasApoio(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	casas, err := h.valeService.ListCasas(c.Request.Context(), c.Query("ativo") == "true")
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": casas}))
}

func (h *Handler) createCasaApoio(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		Nome        string `json:"nome" binding:"required"`
		Endereco    string `json:"endereco"`
		Cidade      string `json:"cidade" binding:"required"`
		Telefone    string `json:"telefone"`
		TotalLeitos int    `json:"total_leitos"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	casa, err := h.valeService.CreateCasa(c.Request.Context(), principal, service.CasaApoioInput{
		Nome:        req.Nome,
		Endereco:    req.Endereco,
		Cidade:      req.Cidade,
		Telefone:    req.Telefone,
		TotalLeitos: req.TotalLeitos,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(casa))
}

func (h *Handler) desativarCasaApoio(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid casa id"))
		return
	}

	if err := h.valeService.DesativarCasa(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"status": "deactivated"}))
}

func (h *Handler) listVales(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var casaID *uuid.UUID
	if raw := strings.TrimSpace(c.Query("casa_apoio_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid casa_apoio_id"))
			return
		}
		casaID = &id
	}

	var statuses []model.StatusVale
	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			statuses = append(statuses, model.StatusVale(strings.ToUpper(val)))
		}
	}

	vales, err := h.valeService.ListVales(c.Request.Context(), casaID, statuses)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": vales}))
}

func (h *Handler) createVale(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		ProcessoID   string     `json:"processo_id" binding:"required"`
		CasaApoioID  string     `json:"casa_apoio_id" binding:"required"`
		DataEntrada  time.Time  `json:"data_entrada" binding:"required"`
		DataSaida    *time.Time `json:"data_saida"`
		Acompanhante bool       `json:"acompanhante"`
		Observacoes  string     `json:"observacoes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	processoID, err := uuid.Parse(strings.TrimSpace(req.ProcessoID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid processo_id"))
		return
	}
	casaID, err := uuid.Parse(strings.TrimSpace(req.CasaApoioID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid casa_apoio_id"))
		return
	}

	vale, err := h.valeService.CreateVale(c.Request.Context(), principal, service.ValeInput{
		ProcessoID:   processoID,
		CasaApoioID:  casaID,
		DataEntrada:  req.DataEntrada,
		DataSaida:    req.DataSaida,
		Acompanhante: req.Acompanhante,
		Observacoes:  req.Observacoes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(vale))
}

func (h *Handler) encerrarVale(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid vale id"))
		return
	}

	var req struct {
		Status    string     `json:"status" binding:"required"`
		DataSaida *time.Time `json:"data_saida"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	status := model.StatusVale(strings.ToUpper(strings.TrimSpace(req.Status)))

	if err := h.valeService.EncerrarVale(c.Request.Context(), principal, id, status, req.DataSaida); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"status": "updated"}))
}
