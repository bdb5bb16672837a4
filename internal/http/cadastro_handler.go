package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tfd-service/internal/http/middleware"
	"tfd-service/internal/service"
)

func (h *Handler) listPacientes(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	page, err := h.cadastroService.ListPacientes(c.Request.Context(), c.Query("search"), limit, offset)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(page))
}

type pacientePayload struct {
	Nome           string    `json:"nome" binding:"required"`
	CPF            string    `json:"cpf" binding:"required"`
	DataNascimento time.Time `json:"data_nascimento" binding:"required"`
	Sexo           string    `json:"sexo"`
	NomeMae        string    `json:"nome_mae"`
	Telefone       string    `json:"telefone"`
	Endereco       string    `json:"endereco"`
	Bairro         string    `json:"bairro"`
	Cidade         string    `json:"cidade"`
	UF             string    `json:"uf"`
	CEP            string    `json:"cep"`
	CartaoSUS      string    `json:"cartao_sus"`
}

func (p pacientePayload) toInput() service.PacienteInput {
	return service.PacienteInput{
		Nome:           p.Nome,
		CPF:            p.CPF,
		DataNascimento: p.DataNascimento,
		Sexo:           p.Sexo,
		NomeMae:        p.NomeMae,
		Telefone:       p.Telefone,
		Endereco:       p.Endereco,
		Bairro:         p.Bairro,
		Cidade:         p.Cidade,
		UF:             p.UF,
		CEP:            p.CEP,
		CartaoSUS:      p.CartaoSUS,
	}
}

func (h *Handler) createPaciente(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req pacientePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	paciente, err := h.cadastroService.CreatePaciente(c.Request.Context(), principal, req.toInput())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(paciente))
}

func (h *Handler) updatePaciente(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid paciente id"))
		return
	}

	var req pacientePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	paciente, err := h.cadastroService.UpdatePaciente(c.Request.Context(), principal, id, req.toInput())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(paciente))
}

func (h *Handler) listUnidades(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	unidades, err := h.cadastroService.ListUnidades(c.Request.Context(), c.Query("ativo") == "true")
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": unidades}))
}

func (h *Handler) createUnidade(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		Nome string `json:"nome" binding:"required"`
		CNES string `json:"cnes" binding:"required"`
		Tipo string `json:"tipo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	unidade, err := h.cadastroService.CreateUnidade(c.Request.Context(), principal, service.UnidadeInput{
		Nome: req.Nome,
		CNES: req.CNES,
		Tipo: req.Tipo,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(unidade))
}

func (h *Handler) updateUnidade(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid unidade id"))
		return
	}

	var req struct {
		Nome string `json:"nome" binding:"required"`
		CNES string `json:"cnes" binding:"required"`
		Tipo string `json:"tipo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	unidade, err := h.cadastroService.UpdateUnidade(c.Request.Context(), principal, id, service.UnidadeInput{
		Nome: req.Nome,
		CNES: req.CNES,
		Tipo: req.Tipo,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(unidade))
}

func (h *Handler) desativarUnidade(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid unidade id"))
		return
	}

	if err := h.cadastroService.DesativarUnidade(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"status": "deactivated"}))
}

func (h *Handler) listVeiculos(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	veiculos, err := h.cadastroService.ListVeiculos(c.Request.Context(), c.Query("ativo") == "true")
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": veiculos}))
}

func (h *Handler) createVeiculo(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		Placa      string `json:"placa" binding:"required"`
		Modelo     string `json:"modelo" binding:"required"`
		Capacidade int    `json:"capacidade" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	veiculo, err := h.cadastroService.CreateVeiculo(c.Request.Context(), principal, service.VeiculoInput{
		Placa:      req.Placa,
		Modelo:     req.Modelo,
		Capacidade: req.Capacidade,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(veiculo))
}

func (h *Handler) updateVeiculo(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid veiculo id"))
		return
	}

	var req struct {
		Placa      string `json:"placa" binding:"required"`
		Modelo     string `json:"modelo" binding:"required"`
		Capacidade int    `json:"capacidade" binding:"required"`
		Ativo      *bool  `json:"ativo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	veiculo, err := h.cadastroService.UpdateVeiculo(c.Request.Context(), principal, id, service.VeiculoInput{
		Placa:      req.Placa,
		Modelo:     req.Modelo,
		Capacidade: req.Capacidade,
		Ativo:      req.Ativo,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(veiculo))
}

func (h *Handler) listMotoristas(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	motoristas, err := h.cadastroService.ListMotoristas(c.Request.Context(), c.Query("ativo") == "true")
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": motoristas}))
}

func (h *Handler) createMotorista(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		Nome     string `json:"nome" binding:"required"`
		CPF      string `json:"cpf" binding:"required"`
		CNH      string `json:"cnh" binding:"required"`
		Telefone string `json:"telefone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	motorista, err := h.cadastroService.CreateMotorista(c.Request.Context(), principal, service.MotoristaInput{
		Nome:     req.Nome,
		CPF:      req.CPF,
		CNH:      req.CNH,
		Telefone: req.Telefone,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(motorista))
}

func (h *Handler) updateMotorista(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid motorista id"))
		return
	}

	var req struct {
		Nome     string `json:"nome" binding:"required"`
		CPF      string `json:"cpf" binding:"required"`
		CNH      string `json:"cnh" binding:"required"`
		Telefone string `json:"telefone"`
		Ativo    *bool  `json:"ativo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	motorista, err := h.cadastroService.UpdateMotorista(c.Request.Context(), principal, id, service.MotoristaInput{
		Nome:     req.Nome,
		CPF:      req.CPF,
		CNH:      req.CNH,
		Telefone: req.Telefone,
		Ativo:    req.Ativo,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(motorista))
}

func (h *Handler) listLinhas(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	linhas, err := h.cadastroService.ListLinhas(c.Request.Context(), c.Query("ativo") == "true")
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": linhas}))
}

func (h *Handler) createLinha(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		Nome     string `json:"nome" binding:"required"`
		Empresa  string `json:"empresa"`
		Origem   string `json:"origem" binding:"required"`
		Destino  string `json:"destino" binding:"required"`
		Horarios string `json:"horarios"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	linha, err := h.cadastroService.CreateLinha(c.Request.Context(), principal, service.LinhaInput{
		Nome:     req.Nome,
		Empresa:  req.Empresa,
		Origem:   req.Origem,
		Destino:  req.Destino,
		Horarios: req.Horarios,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(linha))
}

func (h *Handler) updateLinha(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid linha id"))
		return
	}

	var req struct {
		Nome     string `json:"nome" binding:"required"`
		Empresa  string `json:"empresa"`
		Origem   string `json:"origem" binding:"required"`
		Destino  string `json:"destino" binding:"required"`
		Horarios string `json:"horarios"`
		Ativo    *bool  `json:"ativo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	linha, err := h.cadastroService.UpdateLinha(c.Request.Context(), principal, id, service.LinhaInput{
		Nome:     req.Nome,
		Empresa:  req.Empresa,
		Origem:   req.Origem,
		Destino:  req.Destino,
		Horarios: req.Horarios,
		Ativo:    req.Ativo,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(linha))
}
