package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tfd-service/internal/http/middleware"
	"tfd-service/internal/model"
	"tfd-service/internal/service"
)

type Handler struct {
	processoService *service.ProcessoService
	viagemService   *service.ViagemService
	cadastroService *service.CadastroService
	valeService     *service.ValeService
	publicoService  *service.PublicoService
	log             zerolog.Logger
}

func NewHandler(
	processoService *service.ProcessoService,
	viagemService *service.ViagemService,
	cadastroService *service.CadastroService,
	valeService *service.ValeService,
	publicoService *service.PublicoService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		processoService: processoService,
		viagemService:   viagemService,
		cadastroService: cadastroService,
		valeService:     valeService,
		publicoService:  publicoService,
		log:             log,
	}
}

func (h *Handler) listProcessos(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	opts, err := parseProcessoQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	page, err := h.processoService.List(c.Request.Context(), principal, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(page))
}

func (h *Handler) getProcesso(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid processo id"))
		return
	}

	processo, err := h.processoService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(processo))
}

func (h *Handler) createProcesso(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		PacienteID        string     `json:"paciente_id" binding:"required"`
		UnidadeOrigemID   string     `json:"unidade_origem_id" binding:"required"`
		Especialidade     string     `json:"especialidade" binding:"required"`
		CID               string     `json:"cid" binding:"required"`
		DescricaoClinica  string     `json:"descricao_clinica" binding:"required"`
		MedicoSolicitante string     `json:"medico_solicitante" binding:"required"`
		CRMMedico         string     `json:"crm_medico"`
		DataConsulta      *time.Time `json:"data_consulta"`
		CidadeDestino     string     `json:"cidade_destino" binding:"required"`
		UFDestino         string     `json:"uf_destino" binding:"required"`
		HospitalDestino   string     `json:"hospital_destino"`
		MedicoDestino     string     `json:"medico_destino"`
		TipoTransporte    string     `json:"tipo_transporte" binding:"required"`
		Acompanhante      bool       `json:"acompanhante"`
		NomeAcompanhante  string     `json:"nome_acompanhante"`
		CPFAcompanhante   string     `json:"cpf_acompanhante"`
		Prioridade        int        `json:"prioridade"`
		Observacoes       string     `json:"observacoes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	pacienteID, err := uuid.Parse(strings.TrimSpace(req.PacienteID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid paciente_id"))
		return
	}
	unidadeID, err := uuid.Parse(strings.TrimSpace(req.UnidadeOrigemID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid unidade_origem_id"))
		return
	}

	input := service.CreateProcessoInput{
		PacienteID:        pacienteID,
		UnidadeOrigemID:   unidadeID,
		Especialidade:     req.Especialidade,
		CID:               req.CID,
		DescricaoClinica:  req.DescricaoClinica,
		MedicoSolicitante: req.MedicoSolicitante,
		CRMMedico:         req.CRMMedico,
		DataConsulta:      req.DataConsulta,
		CidadeDestino:     req.CidadeDestino,
		UFDestino:         req.UFDestino,
		HospitalDestino:   req.HospitalDestino,
		MedicoDestino:     req.MedicoDestino,
		TipoTransporte:    model.TipoTransporte(strings.ToUpper(strings.TrimSpace(req.TipoTransporte))),
		Acompanhante:      req.Acompanhante,
		NomeAcompanhante:  req.NomeAcompanhante,
		CPFAcompanhante:   req.CPFAcompanhante,
		Prioridade:        req.Prioridade,
		Observacoes:       req.Observacoes,
	}

	processo, err := h.processoService.Create(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(processo))
}

func (h *Handler) editProcesso(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid processo id"))
		return
	}

	var req struct {
		Especialidade     *string    `json:"especialidade"`
		CID               *string    `json:"cid"`
		DescricaoClinica  *string    `json:"descricao_clinica"`
		MedicoSolicitante *string    `json:"medico_solicitante"`
		CRMMedico         *string    `json:"crm_medico"`
		DataConsulta      *time.Time `json:"data_consulta"`
		CidadeDestino     *string    `json:"cidade_destino"`
		UFDestino         *string    `json:"uf_destino"`
		HospitalDestino   *string    `json:"hospital_destino"`
		MedicoDestino     *string    `json:"medico_destino"`
		TipoTransporte    *string    `json:"tipo_transporte"`
		Acompanhante      *bool      `json:"acompanhante"`
		NomeAcompanhante  *string    `json:"nome_acompanhante"`
		CPFAcompanhante   *string    `json:"cpf_acompanhante"`
		Prioridade        *int       `json:"prioridade"`
		Observacoes       *string    `json:"observacoes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.EditProcessoInput{
		Especialidade:     req.Especialidade,
		CID:               req.CID,
		DescricaoClinica:  req.DescricaoClinica,
		MedicoSolicitante: req.MedicoSolicitante,
		CRMMedico:         req.CRMMedico,
		DataConsulta:      req.DataConsulta,
		CidadeDestino:     req.CidadeDestino,
		UFDestino:         req.UFDestino,
		HospitalDestino:   req.HospitalDestino,
		MedicoDestino:     req.MedicoDestino,
		Acompanhante:      req.Acompanhante,
		NomeAcompanhante:  req.NomeAcompanhante,
		CPFAcompanhante:   req.CPFAcompanhante,
		Prioridade:        req.Prioridade,
		Observacoes:       req.Observacoes,
	}
	if req.TipoTransporte != nil {
		transporte := model.TipoTransporte(strings.ToUpper(strings.TrimSpace(*req.TipoTransporte)))
		input.TipoTransporte = &transporte
	}

	processo, err := h.processoService.Edit(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(processo))
}

func (h *Handler) updateProcessoStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid processo id"))
		return
	}

	var req struct {
		Status           string     `json:"status" binding:"required"`
		Descricao        string     `json:"descricao" binding:"required"`
		DataAgendada     *time.Time `json:"data_agendada"`
		LocalAtendimento string     `json:"local_atendimento"`
		MotivoNegativa   string     `json:"motivo_negativa"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.TransitionInput{
		StatusNovo:       model.StatusProcesso(strings.ToUpper(strings.TrimSpace(req.Status))),
		Descricao:        req.Descricao,
		DataAgendada:     req.DataAgendada,
		LocalAtendimento: req.LocalAtendimento,
		MotivoNegativa:   req.MotivoNegativa,
	}

	processo, err := h.processoService.Transition(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(processo))
}

func (h *Handler) filaProcessos(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	fila, err := h.processoService.Fila(c.Request.Context(), c.Query("especialidade"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": fila}))
}

func (h *Handler) listEspecialidades(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	especialidades, err := h.processoService.Especialidades(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": especialidades}))
}

func (h *Handler) dashboard(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	painel, err := h.processoService.Dashboard(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(painel))
}

func (h *Handler) addPassagem(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid processo id"))
		return
	}

	var req struct {
		Tipo           string    `json:"tipo" binding:"required"`
		DataViagem     time.Time `json:"data_viagem" binding:"required"`
		NumeroPassagem string    `json:"numero_passagem"`
		Empresa        string    `json:"empresa"`
		Valor          float64   `json:"valor"`
		Observacoes    string    `json:"observacoes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.PassagemInput{
		Tipo:           model.TipoPassagem(strings.ToUpper(strings.TrimSpace(req.Tipo))),
		DataViagem:     req.DataViagem,
		NumeroPassagem: req.NumeroPassagem,
		Empresa:        req.Empresa,
		Valor:          req.Valor,
		Observacoes:    req.Observacoes,
	}

	passagem, err := h.processoService.AddPassagem(c.Request.Context(), principal, id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(passagem))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrIllegalTransition),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrViagemBloqueada),
		errors.Is(err, service.ErrPassageiroDuplicado),
		errors.Is(err, service.ErrSemLeitos):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func parseProcessoQuery(c *gin.Context) (service.ListProcessosOptions, error) {
	var opts service.ListProcessosOptions

	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			opts.Statuses = append(opts.Statuses, model.StatusProcesso(strings.ToUpper(val)))
		}
	}
	if prioridade := strings.TrimSpace(c.Query("prioridade")); prioridade != "" {
		v, err := strconv.Atoi(prioridade)
		if err != nil {
			return opts, err
		}
		opts.Prioridade = &v
	}
	if unidadeID := strings.TrimSpace(c.Query("unidade_id")); unidadeID != "" {
		id, err := uuid.Parse(unidadeID)
		if err != nil {
			return opts, err
		}
		opts.UnidadeID = &id
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

	opts.Especialidade = strings.TrimSpace(c.Query("especialidade"))
	opts.Search = strings.TrimSpace(c.Query("search"))

	return opts, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

type responseEnvelope struct {
	Data interface{} `json:"data"`
}

func successResponse(data interface{}) responseEnvelope {
	return responseEnvelope{Data: data}
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}
