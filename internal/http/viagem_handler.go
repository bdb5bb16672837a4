package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tfd-service/internal/http/middleware"
	"tfd-service/internal/model"
	"tfd-service/internal/service"
)

func (h *Handler) listViagens(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	opts, err := parseViagemQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	viagens, err := h.viagemService.List(c.Request.Context(), opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": viagens}))
}

func (h *Handler) getViagem(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid viagem id"))
		return
	}

	viagem, err := h.viagemService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(viagem))
}

func (h *Handler) createViagem(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		DataPartida time.Time  `json:"data_partida" binding:"required"`
		DataRetorno *time.Time `json:"data_retorno"`
		VeiculoID   *string    `json:"veiculo_id"`
		MotoristaID *string    `json:"motorista_id"`
		LinhaID     *string    `json:"linha_id"`
		Observacoes string     `json:"observacoes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.CreateViagemInput{
		DataPartida: req.DataPartida,
		DataRetorno: req.DataRetorno,
		Observacoes: req.Observacoes,
	}
	var err error
	if input.VeiculoID, err = parseOptionalUUID(req.VeiculoID); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid veiculo_id"))
		return
	}
	if input.MotoristaID, err = parseOptionalUUID(req.MotoristaID); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid motorista_id"))
		return
	}
	if input.LinhaID, err = parseOptionalUUID(req.LinhaID); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid linha_id"))
		return
	}

	viagem, err := h.viagemService.Create(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(viagem))
}

func (h *Handler) updateViagemStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid viagem id"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	target := model.StatusViagem(strings.ToUpper(strings.TrimSpace(req.Status)))

	viagem, err := h.viagemService.AdvanceStatus(c.Request.Context(), principal, id, target)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(viagem))
}

func (h *Handler) addPassageiro(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	viagemID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid viagem id"))
		return
	}

	var req struct {
		ProcessoID   string `json:"processo_id" binding:"required"`
		Acompanhante bool   `json:"acompanhante"`
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

	passageiro, err := h.viagemService.AddPassageiro(c.Request.Context(), principal, viagemID, processoID, req.Acompanhante)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(passageiro))
}

func (h *Handler) removePassageiro(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	viagemID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid viagem id"))
		return
	}
	passageiroID, err := uuid.Parse(strings.TrimSpace(c.Param("passageiroId")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid passageiro id"))
		return
	}

	if err := h.viagemService.RemovePassageiro(c.Request.Context(), principal, viagemID, passageiroID); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"status": "removed"}))
}

func (h *Handler) listProcessosDisponiveis(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	processos, err := h.viagemService.ProcessosDisponiveis(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": processos}))
}

func parseViagemQuery(c *gin.Context) (service.ListViagensOptions, error) {
	var opts service.ListViagensOptions

	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			opts.Statuses = append(opts.Statuses, model.StatusViagem(strings.ToUpper(val)))
		}
	}
	if dataInicio := strings.TrimSpace(c.Query("data_inicio")); dataInicio != "" {
		ts, err := time.Parse(time.RFC3339, dataInicio)
		if err != nil {
			return opts, err
		}
		opts.DataInicio = &ts
	}
	if dataFim := strings.TrimSpace(c.Query("data_fim")); dataFim != "" {
		ts, err := time.Parse(time.RFC3339, dataFim)
		if err != nil {
			return opts, err
		}
		opts.DataFim = &ts
	}
	if limit := strings.TrimSpace(c.Query("limit")); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil {
			opts.Limit = v
		}
	}
	if offset := strings.TrimSpace(c.Query("offset")); offset != "" {
		if v, err := strconv.Atoi(offset); err == nil {
			opts.Offset = v
		}
	}
	return opts, nil
}

func parseOptionalUUID(value *string) (*uuid.UUID, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*value))
	if err != nil {
		return nil, err
	}
	return &id, nil
}
