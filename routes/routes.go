package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bilal-alaabadi/arkan-b/controllers"
)

func RegisterOrderRoutes(r *gin.Engine, oc *controllers.OrderController) {
	orders := r.Group("/api/orders")

	orders.POST("/create-checkout-session", oc.CreateCheckoutSession)
	orders.POST("/confirm-payment", oc.ConfirmPayment)

	orders.GET("", oc.GetAllOrders)
	orders.GET("/email/:email", oc.GetOrdersByEmail)
	orders.GET("/order/:id", oc.GetOrderByID)
	orders.PATCH("/update-order-status/:id", oc.UpdateOrderStatus)
	orders.DELETE("/delete-order/:id", oc.DeleteOrder)
}
