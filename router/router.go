package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/littlelemon/restaurant-api/controllers"
	"github.com/littlelemon/restaurant-api/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	userCtrl := controllers.NewUserController(db)
	categoryCtrl := controllers.NewCategoryController(db)
	menuCtrl := controllers.NewMenuItemController(db)
	cartCtrl := controllers.NewCartController(db)
	orderCtrl := controllers.NewOrderController(db)
	groupCtrl := controllers.NewGroupController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Register/login carry a stricter throttle.
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Catalog reads require no authentication.
	r.GET("/menu-items", menuCtrl.GetAllMenuItems)
	r.GET("/menu-items/:item_id", menuCtrl.GetMenuItemByID)
	r.GET("/category", categoryCtrl.GetAllCategories)
	r.GET("/category/:cat_id", categoryCtrl.GetCategoryByID)

	// Cart and orders are scoped to the authenticated caller.
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware(db))
	{
		auth.GET("/profile", userCtrl.GetProfile)

		auth.GET("/cart/menu-items", cartCtrl.GetCart)
		auth.POST("/cart/menu-items", cartCtrl.AddToCart)
		auth.DELETE("/cart/menu-items", cartCtrl.ClearCart)

		auth.GET("/orders", orderCtrl.GetAllOrders)
		auth.POST("/orders", orderCtrl.CreateOrder)
		auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		// Role rules are per-method inside the order controller.
		auth.PUT("/orders/:order_id", orderCtrl.UpdateOrder)
		auth.PATCH("/orders/:order_id", orderCtrl.PatchOrder)
		auth.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)
	}

	// Catalog mutation and group management are Manager-only.
	manager := r.Group("/")
	manager.Use(middlewares.AuthMiddleware(db), middlewares.RequireManager())
	{
		manager.POST("/menu-items", menuCtrl.CreateMenuItem)
		manager.PUT("/menu-items/:item_id", menuCtrl.UpdateMenuItem)
		manager.PATCH("/menu-items/:item_id", menuCtrl.UpdateMenuItem)
		manager.DELETE("/menu-items/:item_id", menuCtrl.DeleteMenuItem)

		manager.POST("/category", categoryCtrl.CreateCategory)
		manager.DELETE("/category/:cat_id", categoryCtrl.DeleteCategory)

		manager.GET("/groups/manager/users", groupCtrl.ListManagers)
		manager.POST("/groups/manager/users", groupCtrl.AddManager)
		manager.DELETE("/groups/manager/users/:user_id", groupCtrl.RemoveManager)
		manager.GET("/groups/delivery-crew/users", groupCtrl.ListDeliveryCrew)
		manager.POST("/groups/delivery-crew/users", groupCtrl.AddDeliveryCrew)
		manager.DELETE("/groups/delivery-crew/users/:user_id", groupCtrl.RemoveDeliveryCrew)
	}

	return r
}
