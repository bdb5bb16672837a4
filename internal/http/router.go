package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Citizen-facing endpoints carry no token.
	public := router.Group("/api/public")
	{
		public.GET("/consulta", handler.consultaPublica)
		public.GET("/qrcode/validar/:hash", handler.validarDocumento)
	}

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.GET("/processos", handler.listProcessos)
		protected.GET("/processos/fila", handler.filaProcessos)
		protected.GET("/processos/especialidades", handler.listEspecialidades)
		protected.GET("/processos/disponiveis", handler.listProcessosDisponiveis)
		protected.GET("/processos/:id", handler.getProcesso)
		protected.POST("/processos", handler.createProcesso)
		protected.PUT("/processos/:id", handler.editProcesso)
		protected.PUT("/processos/:id/status", handler.updateProcessoStatus)
		protected.POST("/processos/:id/passagens", handler.addPassagem)

		protected.GET("/viagens", handler.listViagens)
		protected.GET("/viagens/:id", handler.getViagem)
		protected.POST("/viagens", handler.createViagem)
		protected.PUT("/viagens/:id/status", handler.updateViagemStatus)
		protected.POST("/viagens/:id/passageiros", handler.addPassageiro)
		protected.DELETE("/viagens/:id/passageiros/:passageiroId", handler.removePassageiro)

		protected.GET("/dashboard", handler.dashboard)

		protected.GET("/pacientes", handler.listPacientes)
		protected.POST("/pacientes", handler.createPaciente)
		protected.PUT("/pacientes/:id", handler.updatePaciente)

		protected.GET("/unidades", handler.listUnidades)
		protected.POST("/unidades", handler.createUnidade)
		protected.PUT("/unidades/:id", handler.updateUnidade)
		protected.DELETE("/unidades/:id", handler.desativarUnidade)

		protected.GET("/veiculos", handler.listVeiculos)
		protected.POST("/veiculos", handler.createVeiculo)
		protected.PUT("/veiculos/:id", handler.updateVeiculo)

		protected.GET("/motoristas", handler.listMotoristas)
		protected.POST("/motoristas", handler.createMotorista)
		protected.PUT("/motoristas/:id", handler.updateMotorista)

		protected.GET("/linhas-onibus", handler.listLinhas)
		protected.POST("/linhas-onibus", handler.createLinha)
		protected.PUT("/linhas-onibus/:id", handler.updateLinha)

		protected.GET("/casas-apoio", handler.listCasasApoio)
		protected.POST("/casas-apoio", handler.createCasaApoio)
		protected.DELETE("/casas-apoio/:id", handler.desativarCasaApoio)

		protected.GET("/vales-hospedagem", handler.listVales)
		protected.POST("/vales-hospedagem", handler.createVale)
		protected.PUT("/vales-hospedagem/:id/encerrar", handler.encerrarVale)

		protected.GET("/qrcode/gerar/:processoId", handler.gerarQRCode)
	}

	return router
}
