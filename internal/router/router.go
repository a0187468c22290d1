package router

import (
	"time"

	"github.com/mattygrunge/planproduccion/internal/config"
	"github.com/mattygrunge/planproduccion/internal/handler"
	"github.com/mattygrunge/planproduccion/internal/middleware"
	"github.com/mattygrunge/planproduccion/internal/repository"
	"github.com/mattygrunge/planproduccion/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(200, time.Minute)) // 200 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	sectorRepo := repository.NewSectorRepository(db)
	lineaRepo := repository.NewLineaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	estadoRepo := repository.NewEstadoLineaRepository(db)
	loteRepo := repository.NewLoteRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	auditSvc := service.NewAuditService(auditRepo)
	authSvc := service.NewAuthService(userRepo, cfg)
	userSvc := service.NewUserService(userRepo, auditSvc)
	sectorSvc := service.NewSectorService(sectorRepo, auditSvc)
	lineaSvc := service.NewLineaService(lineaRepo, sectorRepo, auditSvc)
	clienteSvc := service.NewClienteService(clienteRepo, auditSvc)
	productoSvc := service.NewProductoService(productoRepo, clienteRepo, auditSvc)
	estadoSvc := service.NewEstadoLineaService(estadoRepo, sectorRepo, lineaRepo, auditSvc)
	loteSvc := service.NewLoteService(loteRepo, productoRepo, estadoRepo, auditSvc)
	historialSvc := service.NewHistorialService(loteRepo, cfg.PDFStoragePath)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(userSvc)
	sectoresH := handler.NewSectoresHandler(sectorSvc)
	lineasH := handler.NewLineasHandler(lineaSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	estadosH := handler.NewEstadosLineaHandler(estadoSvc)
	lotesH := handler.NewLotesHandler(loteSvc)
	historialH := handler.NewHistorialHandler(historialSvc)
	auditoriaH := handler.NewAuditoriaHandler(auditSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Perfil del usuario autenticado
		v1.GET("/auth/me", authH.Me)
		v1.PUT("/auth/me", authH.ActualizarPerfil)
		v1.PUT("/auth/me/password", authH.CambiarPassword)

		// Sectores — lectura para todos, escritura sólo admin
		v1.GET("/sectores", sectoresH.Listar)
		v1.GET("/sectores/:id", sectoresH.Obtener)
		sectores := v1.Group("/sectores", middleware.RequireAdmin())
		{
			sectores.POST("", sectoresH.Crear)
			sectores.PUT("/:id", sectoresH.Actualizar)
			sectores.DELETE("/:id", sectoresH.Desactivar)
			sectores.POST("/:id/reactivar", sectoresH.Reactivar)
		}

		// Líneas
		v1.GET("/lineas", lineasH.Listar)
		v1.GET("/lineas/:id", lineasH.Obtener)
		lineas := v1.Group("/lineas", middleware.RequireAdmin())
		{
			lineas.POST("", lineasH.Crear)
			lineas.PUT("/:id", lineasH.Actualizar)
			lineas.DELETE("/:id", lineasH.Desactivar)
			lineas.POST("/:id/reactivar", lineasH.Reactivar)
		}

		// Clientes
		v1.GET("/clientes", clientesH.Listar)
		v1.GET("/clientes/:id", clientesH.Obtener)
		clientes := v1.Group("/clientes", middleware.RequireAdmin())
		{
			clientes.POST("", clientesH.Crear)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Desactivar)
			clientes.POST("/:id/reactivar", clientesH.Reactivar)
		}

		// Productos
		v1.GET("/productos", productosH.Listar)
		v1.GET("/productos/:id", productosH.Obtener)
		productos := v1.Group("/productos", middleware.RequireAdmin())
		{
			productos.POST("", productosH.Crear)
			productos.PUT("/:id", productosH.Actualizar)
			productos.DELETE("/:id", productosH.Desactivar)
			productos.POST("/:id/reactivar", productosH.Reactivar)
		}

		// Estados de línea — operadores registran la actividad del día
		estados := v1.Group("/estados-linea")
		{
			estados.GET("/timeline/:fecha", estadosH.Timeline)
			estados.GET("/tipos-estado", estadosH.TiposEstado)
			estados.GET("", estadosH.Listar)
			estados.POST("", estadosH.Crear)
			estados.GET("/:id", estadosH.Obtener)
			estados.PUT("/:id", estadosH.Actualizar)
			estados.DELETE("/:id", estadosH.Desactivar)
			estados.POST("/:id/reactivar", estadosH.Reactivar)
		}

		// Lotes
		lotes := v1.Group("/lotes")
		{
			lotes.POST("/validar", lotesH.Validar)
			lotes.GET("/producto/:producto_id/sugerir-numero", lotesH.SugerirNumero)
			lotes.GET("/producto/:producto_id/ultimo", lotesH.Ultimo)
			lotes.GET("", lotesH.Listar)
			lotes.POST("", lotesH.Crear)
			lotes.GET("/:id", lotesH.Obtener)
			lotes.PUT("/:id", lotesH.Actualizar)
			lotes.DELETE("/:id", lotesH.Desactivar)
			lotes.POST("/:id/reactivar", lotesH.Reactivar)
		}

		// Historial de lotes + exportaciones
		historial := v1.Group("/historial")
		{
			historial.GET("", historialH.Listar)
			historial.GET("/estadisticas", historialH.Estadisticas)
			historial.GET("/exportar/csv", historialH.ExportarCSV)
			historial.GET("/exportar/pdf", historialH.ExportarPDF)
		}

		// Usuarios y roles — sólo admin
		users := v1.Group("/users", middleware.RequireAdmin())
		{
			users.POST("", usuariosH.Crear)
			users.GET("", usuariosH.Listar)
			users.GET("/:id", usuariosH.Obtener)
			users.PUT("/:id", usuariosH.Actualizar)
			users.DELETE("/:id", usuariosH.Desactivar)
			users.POST("/:id/reactivar", usuariosH.Reactivar)
		}
		v1.GET("/roles", middleware.RequireAdmin(), usuariosH.ListarRoles)

		// Auditoría — sólo admin
		auditoria := v1.Group("/auditoria", middleware.RequireAdmin())
		{
			auditoria.GET("", auditoriaH.Listar)
			auditoria.GET("/estadisticas", auditoriaH.Estadisticas)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
