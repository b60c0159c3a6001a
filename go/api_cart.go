package takeoutserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	cartdomain "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/ports"
)

// CartSelection is the request body of the add and sub endpoints.
type CartSelection struct {
	DishID     *int64 `json:"dishId,omitempty"`
	SetmealID  *int64 `json:"setmealId,omitempty"`
	DishFlavor string `json:"dishFlavor,omitempty"`
}

// CartItem is one shopping cart line as returned to the client.
type CartItem struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Image      string          `json:"image,omitempty"`
	UserID     int64           `json:"userId"`
	DishID     *int64          `json:"dishId,omitempty"`
	SetmealID  *int64          `json:"setmealId,omitempty"`
	DishFlavor string          `json:"dishFlavor,omitempty"`
	Number     int32           `json:"number"`
	Amount     decimal.Decimal `json:"amount"`
	CreateTime time.Time       `json:"createTime"`
}

// ShoppingCartAPI exposes the current user's cart.
type ShoppingCartAPI struct {
	service cartports.Service
}

func NewShoppingCartAPI(service cartports.Service) ShoppingCartAPI {
	return ShoppingCartAPI{service: service}
}

// Post /user/shoppingCart/add
// Add one unit of a dish or setmeal to the cart
func (api *ShoppingCartAPI) Add(c *gin.Context) {
	var payload CartSelection
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := api.service.Add(c.Request.Context(), payload.toDomain())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartItem(item))
}

// Get /user/shoppingCart/list
// List the cart lines, oldest first
func (api *ShoppingCartAPI) List(c *gin.Context) {
	items, err := api.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]CartItem, 0, len(items))
	for _, item := range items {
		out = append(out, toCartItem(item))
	}
	c.JSON(http.StatusOK, out)
}

// Post /user/shoppingCart/sub
// Remove one unit of a dish or setmeal from the cart
func (api *ShoppingCartAPI) Sub(c *gin.Context) {
	var payload CartSelection
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := api.service.Remove(c.Request.Context(), payload.toDomain()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Delete /user/shoppingCart/clean
// Empty the cart
func (api *ShoppingCartAPI) Clean(c *gin.Context) {
	if err := api.service.Clear(c.Request.Context()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (p CartSelection) toDomain() cartdomain.Selection {
	return cartdomain.Selection{DishID: p.DishID, SetmealID: p.SetmealID, DishFlavor: p.DishFlavor}
}

func toCartItem(item *cartdomain.Item) CartItem {
	return CartItem{
		ID:         item.ID,
		Name:       item.Name,
		Image:      item.Image,
		UserID:     item.UserID,
		DishID:     item.DishID,
		SetmealID:  item.SetmealID,
		DishFlavor: item.DishFlavor,
		Number:     item.Number,
		Amount:     item.Amount,
		CreateTime: item.CreateTime,
	}
}
