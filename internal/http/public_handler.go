package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tfd-service/internal/http/middleware"
)

// consultaPublica answers the unauthenticated status lookup by case number
// or patient CPF. The payload is redacted; identifiers outside the number
// and masked name never leave the service.
func (h *Handler) consultaPublica(c *gin.Context) {
	identificador := strings.TrimSpace(c.Query("identificador"))
	if identificador == "" {
		c.JSON(http.StatusBadRequest, errorResponse("identificador is required"))
		return
	}

	consulta, err := h.publicoService.Consulta(c.Request.Context(), identificador)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(consulta))
}

func (h *Handler) validarDocumento(c *gin.Context) {
	resultado, err := h.publicoService.Validar(c.Request.Context(), strings.TrimSpace(c.Param("hash")))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(resultado))
}

func (h *Handler) gerarQRCode(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("processoId")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid processo id"))
		return
	}

	payload, err := h.publicoService.QRCode(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(payload))
}
