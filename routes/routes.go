package routes

import (
	"net/http"
	"time"

	"facturacion-backend/config"
	"facturacion-backend/controllers"
	"facturacion-backend/metrics"
	"facturacion-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the HTTP layer needs. main builds them
// once; tests build them over sqlite.
type Dependencies struct {
	Config    *config.Config
	Log       *zap.Logger
	DB        controllers.Pinger
	Auth      controllers.Authenticator
	Tokens    utils.TokenVerifier
	Customers controllers.CustomerStore
	Products  controllers.ProductStore
	Engine    controllers.InvoiceCreator
	Invoices  controllers.InvoiceFinder
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()

	origins := deps.Config.HTTP.AllowedOrigins
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	r.Use(cors.New(cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		AllowOriginFunc:  func(origin string) bool { return allowed[origin] },
		MaxAge:           12 * time.Hour,
	}))

	r.Use(config.PerformanceLogger(deps.Log))
	r.Use(metrics.Middleware())

	authController := controllers.NewAuthController(deps.Auth)
	customerController := controllers.NewCustomerController(deps.Customers)
	productController := controllers.NewProductController(deps.Products)
	invoiceController := controllers.NewInvoiceController(deps.Engine, deps.Invoices)

	r.POST("/login", authController.Login)
	r.GET("/healthz", controllers.Health(deps.DB))
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/")
	api.Use(utils.AuthMiddleware(deps.Tokens))
	{
		// Customer routes
		api.POST("/clientes", customerController.CreateCustomer)
		api.GET("/cliente/:documento", customerController.GetCustomerByDocument)

		// Product routes
		api.POST("/productos", productController.CreateProduct)
		api.GET("/productos", productController.ListProducts)

		// Invoice routes
		api.POST("/facturas", invoiceController.CreateInvoice)
		api.GET("/facturas/:id", invoiceController.GetInvoice)
	}

	return r
}
