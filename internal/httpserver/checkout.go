package httpserver

import (
	"errors"
	"net/http"

	"demo-storefront/internal/cart"
	"demo-storefront/internal/checkout"
	"demo-storefront/internal/format"

	"github.com/gin-gonic/gin"
)

const (
	msgEmptyCart     = "კალათა ცარიელია. დაამატე პროდუქტები შეკვეთამდე."
	msgMissingFields = "გთხოვ, შეავსო ყველა ველი."
)

func (a *api) submitCheckout(c *gin.Context) {
	ctx := c.Request.Context()
	s := currentSession(c)

	var form checkout.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	receipt, err := a.checkout.Submit(ctx, cart.MustFromContext(ctx), s.Store, form)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(c, http.StatusBadRequest, "empty_cart", msgEmptyCart)
		return
	case errors.Is(err, checkout.ErrMissingFields):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "missing_fields",
			"message": msgMissingFields,
			"fields":  form.Missing(),
		})
		return
	case err != nil:
		a.writeInternal(c, "checkout", err)
		return
	}

	a.logger.Printf("http: checkout session=%s order_id=%s items=%d", s.ID, receipt.OrderID, receipt.ItemCount)
	c.JSON(http.StatusCreated, receiptView{Receipt: receipt, TotalFormatted: format.Price(receipt.Total)})
}

func (a *api) lastOrder(c *gin.Context) {
	id := a.checkout.LastOrderID(c.Request.Context(), currentSession(c).Store)
	if id == "" {
		writeError(c, http.StatusNotFound, "not_found", "no order placed in this session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderId": id})
}
