package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/coupon"
	"storefront/internal/database"
	"storefront/internal/gateway"
	"storefront/internal/handlers"
	"storefront/internal/lifecycle"
	"storefront/internal/middleware"
	"storefront/internal/notify"
	"storefront/internal/pricing"
	"storefront/internal/store"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)

	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal("mongodb connect: ", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn("mongodb disconnect: ", err)
		}
	}()

	db := client.Database(config.AppEnv.DBName)
	log.Info("MongoDB connected to: ", db.Name())

	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Warn("order index warning: ", err)
	}
	if err := database.EnsureOrderItemIndexes(db); err != nil {
		log.Warn("order item index warning: ", err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Warn("cart index warning: ", err)
	}
	if err := database.EnsureCouponIndexes(db); err != nil {
		log.Warn("coupon index warning: ", err)
	}

	orders := store.NewMongoOrderStore(db)
	orderItems := store.NewMongoOrderItemStore(db)
	carts := store.NewMongoCartStore(db)
	products := store.NewMongoProductStore(db)
	coupons := coupon.NewValidator(store.NewMongoCouponStore(db))

	converter := pricing.NewConverter(config.AppEnv.BDTPerUSD)

	gatewayClient := gateway.NewHostedClient(gateway.Options{
		BaseURL:   config.AppEnv.GatewayBaseURL,
		StoreID:   config.AppEnv.GatewayStoreID,
		StorePass: config.AppEnv.GatewayStorePass,
		Timeout:   config.AppEnv.GatewayTimeout,
	})

	dispatcher := notify.NewDispatcher(
		notify.NewWebhookSender(config.AppEnv.NotifyWebhookURL),
		notify.DispatcherOptions{
			QueueSize:   config.AppEnv.NotifyQueueSize,
			Retries:     config.AppEnv.NotifyRetries,
			RetryDelay:  config.AppEnv.NotifyRetryDelay,
			SendTimeout: config.AppEnv.NotifySendTimeout,
		},
	)
	dispatcher.Start()
	defer dispatcher.Stop()

	checkoutSvc := checkout.NewService(
		orders,
		orderItems,
		carts,
		products,
		coupons,
		gatewayClient,
		dispatcher,
		converter,
		checkout.Options{
			BaseCurrency:    config.AppEnv.BaseCurrency,
			GatewayCurrency: config.AppEnv.GatewayCurrency,
			SuccessURL:      config.AppEnv.SuccessURL,
			FailURL:         config.AppEnv.FailURL,
			ManualMethods:   config.AppEnv.ManualPayMethods,
			GatewayMethods:  config.AppEnv.GatewayPayMethods,
		},
	)
	lifecycleSvc := lifecycle.NewService(orders, dispatcher)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	customer := r.Group("/api", middleware.CustomerAuth(config.AppEnv.JWTSecret))
	{
		customer.GET("/cart", handlers.GetCart(carts))
		customer.POST("/cart/items", handlers.AddCartItem(carts))
		customer.PUT("/cart/items/:id", handlers.UpdateCartItem(carts))
		customer.DELETE("/cart/items/:id", handlers.RemoveCartItem(carts))
		customer.DELETE("/cart", handlers.ClearCart(carts))
		customer.POST("/checkout", handlers.Checkout(checkoutSvc))
	}

	admin := r.Group("/admin/api", middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/orders", handlers.ListOrders(orders))
		admin.GET("/orders/reconciliation", handlers.ListOrdersNeedingReconciliation(orders))
		admin.GET("/orders/:id/items", handlers.GetOrderItems(orderItems))
		admin.PUT("/orders/:id/status", handlers.UpdateOrderStatus(lifecycleSvc))
		admin.PUT("/orders/:id/payment-status", handlers.UpdatePaymentStatus(lifecycleSvc))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal("server: ", err)
	}
}
