package takeoutserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/ports"
)

type Flavor struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Dish struct {
	ID          int64           `json:"id"`
	CategoryID  int64           `json:"categoryId"`
	Name        string          `json:"name"`
	Image       string          `json:"image,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Status      int8            `json:"status"`
	Flavors     []Flavor        `json:"flavors"`
}

type Setmeal struct {
	ID          int64           `json:"id"`
	CategoryID  int64           `json:"categoryId"`
	Name        string          `json:"name"`
	Image       string          `json:"image,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Status      int8            `json:"status"`
	DishIDs     []int64         `json:"dishIds"`
}

type CategoryQuery struct {
	CategoryID int64 `form:"categoryId" binding:"required"`
}

// CatalogAPI serves the customer menu and the admin catalog writes.
type CatalogAPI struct {
	service catalogports.Service
}

func NewCatalogAPI(service catalogports.Service) CatalogAPI {
	return CatalogAPI{service: service}
}

// Get /user/dish/list
// List the on-sale dishes of a category
func (api *CatalogAPI) ListDishes(c *gin.Context) {
	var query CategoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	dishes, err := api.service.ListDishes(c.Request.Context(), query.CategoryID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]Dish, 0, len(dishes))
	for _, dish := range dishes {
		out = append(out, fromDish(dish))
	}
	c.JSON(http.StatusOK, out)
}

// Get /user/setmeal/list
// List the on-sale setmeals of a category
func (api *CatalogAPI) ListSetmeals(c *gin.Context) {
	var query CategoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	setmeals, err := api.service.ListSetmeals(c.Request.Context(), query.CategoryID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]Setmeal, 0, len(setmeals))
	for _, setmeal := range setmeals {
		out = append(out, fromSetmeal(setmeal))
	}
	c.JSON(http.StatusOK, out)
}

// Post /admin/dish
// Create a dish
func (api *CatalogAPI) CreateDish(c *gin.Context) {
	var payload Dish
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	payload.ID = 0
	saved, err := api.service.CreateDish(c.Request.Context(), payload.toDomain())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDish(saved))
}

// Put /admin/dish
// Replace a dish
func (api *CatalogAPI) UpdateDish(c *gin.Context) {
	var payload Dish
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if payload.ID <= 0 {
		respondError(c, http.StatusBadRequest, errInvalidID("id"))
		return
	}
	saved, err := api.service.UpdateDish(c.Request.Context(), payload.toDomain())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDish(saved))
}

// Post /admin/dish/status/:status
// Start or stop selling a dish
func (api *CatalogAPI) DishStatus(c *gin.Context) {
	id, status, ok := parseStatusChange(c)
	if !ok {
		return
	}
	if err := api.service.SetDishStatus(c.Request.Context(), id, status); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Post /admin/setmeal
// Create a setmeal
func (api *CatalogAPI) CreateSetmeal(c *gin.Context) {
	var payload Setmeal
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	payload.ID = 0
	saved, err := api.service.CreateSetmeal(c.Request.Context(), payload.toDomain())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromSetmeal(saved))
}

// Put /admin/setmeal
// Replace a setmeal
func (api *CatalogAPI) UpdateSetmeal(c *gin.Context) {
	var payload Setmeal
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if payload.ID <= 0 {
		respondError(c, http.StatusBadRequest, errInvalidID("id"))
		return
	}
	saved, err := api.service.UpdateSetmeal(c.Request.Context(), payload.toDomain())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromSetmeal(saved))
}

// Post /admin/setmeal/status/:status
// Start or stop selling a setmeal; starting fails while a bundled dish is stopped
func (api *CatalogAPI) SetmealStatus(c *gin.Context) {
	id, status, ok := parseStatusChange(c)
	if !ok {
		return
	}
	if err := api.service.SetSetmealStatus(c.Request.Context(), id, status); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func parseStatusChange(c *gin.Context) (int64, catalogdomain.Status, bool) {
	raw, err := strconv.ParseInt(c.Param("status"), 10, 8)
	status := catalogdomain.Status(raw)
	if err != nil || !status.Valid() {
		respondError(c, http.StatusBadRequest, errors.New("status must be 0 or 1"))
		return 0, 0, false
	}
	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, errInvalidID("id"))
		return 0, 0, false
	}
	return id, status, true
}

func (d Dish) toDomain() *catalogdomain.Dish {
	flavors := make([]catalogdomain.Flavor, 0, len(d.Flavors))
	for _, f := range d.Flavors {
		flavors = append(flavors, catalogdomain.Flavor{Name: f.Name, Value: f.Value})
	}
	return &catalogdomain.Dish{
		ID:          d.ID,
		CategoryID:  d.CategoryID,
		Name:        d.Name,
		Image:       d.Image,
		Description: d.Description,
		Price:       d.Price,
		Status:      catalogdomain.Status(d.Status),
		Flavors:     flavors,
	}
}

func fromDish(d *catalogdomain.Dish) Dish {
	flavors := make([]Flavor, 0, len(d.Flavors))
	for _, f := range d.Flavors {
		flavors = append(flavors, Flavor{Name: f.Name, Value: f.Value})
	}
	return Dish{
		ID:          d.ID,
		CategoryID:  d.CategoryID,
		Name:        d.Name,
		Image:       d.Image,
		Description: d.Description,
		Price:       d.Price,
		Status:      int8(d.Status),
		Flavors:     flavors,
	}
}

func (s Setmeal) toDomain() *catalogdomain.Setmeal {
	return &catalogdomain.Setmeal{
		ID:          s.ID,
		CategoryID:  s.CategoryID,
		Name:        s.Name,
		Image:       s.Image,
		Description: s.Description,
		Price:       s.Price,
		Status:      catalogdomain.Status(s.Status),
		DishIDs:     append([]int64(nil), s.DishIDs...),
	}
}

func fromSetmeal(s *catalogdomain.Setmeal) Setmeal {
	return Setmeal{
		ID:          s.ID,
		CategoryID:  s.CategoryID,
		Name:        s.Name,
		Image:       s.Image,
		Description: s.Description,
		Price:       s.Price,
		Status:      int8(s.Status),
		DishIDs:     append([]int64{}, s.DishIDs...),
	}
}
