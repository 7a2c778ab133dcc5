package httpserver

import (
	"net/http"
	"strings"

	"demo-storefront/internal/cart"

	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
	Open      *bool  `json:"open"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity"`
}

func (a *api) respondCart(c *gin.Context, engine *cart.Engine) {
	c.JSON(http.StatusOK, toCartView(engine.Snapshot()))
}

func (a *api) getCart(c *gin.Context) {
	a.respondCart(c, cart.MustFromContext(c.Request.Context()))
}

// addCartItem mirrors the storefront's add button: the line is clamped to
// stock and the cart panel opens unless the caller asks otherwise.
func (a *api) addCartItem(c *gin.Context) {
	ctx := c.Request.Context()
	engine := cart.MustFromContext(ctx)

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		writeError(c, http.StatusBadRequest, "invalid_body", "productId is required")
		return
	}
	p, err := a.products.Get(ctx, req.ProductID)
	if err != nil {
		a.writeLookupError(c, "add cart item", err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	engine.AddItem(ctx, p, quantity)
	if req.Open == nil || *req.Open {
		engine.Open()
	}
	a.respondCart(c, engine)
}

func (a *api) updateCartItem(c *gin.Context) {
	ctx := c.Request.Context()
	engine := cart.MustFromContext(ctx)

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if req.Quantity == nil {
		writeError(c, http.StatusBadRequest, "invalid_body", "quantity is required")
		return
	}
	engine.UpdateQuantity(ctx, c.Param("productId"), *req.Quantity)
	a.respondCart(c, engine)
}

func (a *api) removeCartItem(c *gin.Context) {
	ctx := c.Request.Context()
	engine := cart.MustFromContext(ctx)
	engine.RemoveItem(ctx, c.Param("productId"))
	a.respondCart(c, engine)
}

func (a *api) clearCart(c *gin.Context) {
	ctx := c.Request.Context()
	engine := cart.MustFromContext(ctx)
	engine.Clear(ctx)
	a.respondCart(c, engine)
}

func (a *api) setCartVisibility(apply func(*cart.Engine)) gin.HandlerFunc {
	return func(c *gin.Context) {
		engine := cart.MustFromContext(c.Request.Context())
		apply(engine)
		a.respondCart(c, engine)
	}
}
