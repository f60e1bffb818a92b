package router

import (
	"time"

	"tiendapos/internal/config"
	"tiendapos/internal/handler"
	"tiendapos/internal/middleware"
	"tiendapos/internal/repository"
	"tiendapos/internal/service"
	"tiendapos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	mermaRepo := repository.NewMermaRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	stockSvc := service.NewStockService(productoRepo, movimientoStockRepo)
	productoSvc := service.NewProductoService(productoRepo, stockSvc, rdb)
	inventarioSvc := service.NewInventarioService(stockSvc, mermaRepo, movimientoStockRepo, productoRepo)
	cajaSvc := service.NewCajaService(cajaRepo)
	ventaSvc := service.NewVentaService(ventaRepo, stockSvc, productoRepo, cajaRepo, dispatcher, cfg)
	devolucionSvc := service.NewDevolucionService(ventaRepo, stockSvc, cajaRepo, cfg)
	compraSvc := service.NewCompraService(compraRepo, proveedorRepo, productoRepo, stockSvc, cfg)
	proveedorSvc := service.NewProveedorService(proveedorRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	devolucionesH := handler.NewDevolucionesHandler(devolucionSvc)
	comprasH := handler.NewComprasHandler(compraSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	consultaH := handler.NewConsultaPreciosHandler(productoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required (kiosk verificador de precios)
	r.GET("/v1/precio/:barcode", consultaH.GetPrecioPorBarcode)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	todos := middleware.RequireRole("cajero", "supervisor", "administrador")
	supervision := middleware.RequireRole("supervisor", "administrador")
	admin := middleware.RequireRole("administrador")

	v1 := r.Group("/v1", jwtMW)
	{
		v1.POST("/ventas", todos, ventasH.RegistrarVenta)
		v1.GET("/ventas", todos, ventasH.ListarVentas)
		v1.GET("/ventas/boleta/:numero", todos, ventasH.ObtenerPorBoleta)

		v1.POST("/devoluciones", supervision, devolucionesH.Procesar)

		v1.GET("/productos", todos, productosH.Listar)
		v1.GET("/productos/:id", todos, productosH.ObtenerPorID)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Archivar)
			prods.POST("/:id/reactivar", productosH.Reactivar)
		}

		inv := v1.Group("/inventario", supervision)
		{
			inv.POST("/mermas", inventarioH.RegistrarMerma)
			inv.GET("/mermas", inventarioH.ListarMermas)
			inv.POST("/productos/:id/ajuste", inventarioH.AjustarStock)
			inv.GET("/movimientos", inventarioH.Movimientos)
			inv.GET("/alertas", inventarioH.Alertas)
		}

		compras := v1.Group("/compras", supervision)
		{
			compras.POST("", comprasH.Crear)
			compras.GET("", comprasH.Listar)
			compras.GET("/:id", comprasH.ObtenerPorID)
			compras.POST("/:id/recibir", comprasH.Recibir)
		}

		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", todos, cajaH.Abrir)
			caja.POST("/movimientos", todos, cajaH.RegistrarMovimiento)
			caja.POST("/arqueo", todos, cajaH.Arqueo)
			caja.GET("/:id/reporte", todos, cajaH.Reporte)
		}

		prov := v1.Group("/proveedores", admin)
		{
			prov.POST("", proveedoresH.Crear)
			prov.GET("", proveedoresH.Listar)
			prov.GET("/:id", proveedoresH.ObtenerPorID)
			prov.PUT("/:id", proveedoresH.Actualizar)
			prov.DELETE("/:id", proveedoresH.Desactivar)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
