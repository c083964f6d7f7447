package router

import (
	"net/http"
	"time"

	"github.com/Garciabraganca/COSTABURGUER-sub001/controllers"
	"github.com/Garciabraganca/COSTABURGUER-sub001/kds"
	"github.com/Garciabraganca/COSTABURGUER-sub001/middlewares"
	"github.com/Garciabraganca/COSTABURGUER-sub001/models"
	"github.com/Garciabraganca/COSTABURGUER-sub001/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies are the long-lived objects the handlers are built from.
// DB may be nil when the service runs without a database.
type Dependencies struct {
	DB             *gorm.DB
	Hub            *kds.Hub
	Orders         *services.OrderService
	Deliveries     *services.DeliveryService
	Payments       *services.PaymentService
	PaymentMonitor *services.PaymentMonitor
	CORSOrigin     string
	SecureCookie   bool
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(deps.CORSOrigin))
	r.Use(middlewares.NewRateLimiter(50, time.Second).RateLimit())

	userController := controllers.NewUserController(deps.DB, deps.SecureCookie)
	catalogController := controllers.NewCatalogController(deps.DB)
	orderController := controllers.NewOrderController(deps.Orders, deps.Payments)
	deliveryController := controllers.NewDeliveryController(deps.Deliveries)
	paymentController := controllers.NewPaymentController(deps.Payments)
	pushController := controllers.NewPushController(deps.DB)
	adminController := controllers.NewAdminController(deps.Orders, deps.PaymentMonitor)
	realtimeController := controllers.NewRealtimeController(deps.Hub, deps.Deliveries, deps.CORSOrigin)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/catalog", catalogController.GetCatalog)

	orders := r.Group("/orders")
	{
		orders.POST("", orderController.CreateOrder)
		orders.POST("/quote", orderController.QuoteOrder)
		orders.GET("/:order_id", orderController.GetOrderByID)
		orders.POST("/:order_id/payment", paymentController.CreatePayment)
		orders.GET("/:order_id/payment-status", middlewares.NoStore(), paymentController.GetPaymentStatus)
	}

	payments := r.Group("/payments")
	payments.Use(middlewares.PaymentRateLimiter(10, 20))
	payments.Use(middlewares.LimitBody())
	payments.Use(middlewares.LogPaymentRequest())
	{
		payments.POST("/webhook", paymentController.HandleNotification)
	}

	track := r.Group("/track/:token")
	track.Use(middlewares.NoStore())
	{
		track.GET("", deliveryController.Track)
		track.POST("/location", deliveryController.PostLocation)
		track.GET("/ws", middlewares.RequireWebSocketUpgrade(), realtimeController.TrackingSocket)
	}

	push := r.Group("/push")
	{
		push.POST("/subscriptions", pushController.Subscribe)
		push.DELETE("/subscriptions", pushController.Unsubscribe)
	}

	auth := r.Group("/auth")
	{
		auth.POST("/login", middlewares.NewStrictRateLimiter(), userController.Login)
		auth.POST("/logout", userController.Logout)
	}

	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware())
	{
		admin.GET("/me", userController.GetProfile)
		admin.GET("/ws", middlewares.RequireWebSocketUpgrade(), realtimeController.StaffSocket)

		kitchen := admin.Group("")
		kitchen.Use(middlewares.RequireRoles(models.RoleAdmin, models.RoleManager, models.RoleKitchen))
		{
			kitchen.GET("/orders", orderController.GetAllOrders)
			kitchen.GET("/kitchen", orderController.GetKitchenDisplay)
			kitchen.PATCH("/orders/:order_id/status", orderController.UpdateOrderStatus)
		}

		delivery := admin.Group("")
		delivery.Use(middlewares.RequireRoles(models.RoleAdmin, models.RoleManager, models.RoleMotoboy))
		{
			delivery.POST("/orders/:order_id/dispatch", deliveryController.Dispatch)
			delivery.GET("/deliveries", deliveryController.ListActive)
			delivery.PATCH("/deliveries/:token/status", deliveryController.UpdateStatus)
		}

		management := admin.Group("")
		management.Use(middlewares.RequireRoles(models.RoleAdmin, models.RoleManager))
		{
			management.GET("/ingredients", catalogController.ListIngredients)
			management.POST("/ingredients", catalogController.CreateIngredient)
			management.PATCH("/ingredients/:id", catalogController.UpdateIngredient)
			management.DELETE("/ingredients/:id", catalogController.DeleteIngredient)
			management.GET("/extras", catalogController.ListExtras)
			management.POST("/extras", catalogController.CreateExtra)
			management.PATCH("/extras/:id", catalogController.UpdateExtra)
			management.DELETE("/extras/:id", catalogController.DeleteExtra)
			management.GET("/dashboard/stats", adminController.GetDashboardStats)
		}

		users := admin.Group("/users")
		users.Use(middlewares.RequireRoles(models.RoleAdmin))
		{
			users.GET("", userController.GetAllUsers)
			users.POST("", userController.CreateUser)
			users.DELETE("/:id", userController.DeleteUser)
		}
	}

	return r
}
