package takeoutserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ordersports "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/projection"
)

// OrderSearchQuery filters the console order list. Times use the console wall-clock format.
type OrderSearchQuery struct {
	Page      int        `form:"page"`
	PageSize  int        `form:"pageSize"`
	Number    string     `form:"number"`
	Phone     string     `form:"phone"`
	Status    *int       `form:"status"`
	BeginTime *time.Time `form:"beginTime" time_format:"2006-01-02 15:04:05"`
	EndTime   *time.Time `form:"endTime" time_format:"2006-01-02 15:04:05"`
}

type OrderIDRequest struct {
	ID int64 `json:"id" binding:"required"`
}

type RejectionRequest struct {
	ID              int64  `json:"id" binding:"required"`
	RejectionReason string `json:"rejectionReason"`
}

type AdminCancelRequest struct {
	ID           int64  `json:"id" binding:"required"`
	CancelReason string `json:"cancelReason"`
}

type OrderStatistics struct {
	ToBeConfirmed      int64 `json:"toBeConfirmed"`
	Confirmed          int64 `json:"confirmed"`
	DeliveryInProgress int64 `json:"deliveryInProgress"`
}

// AdminOrderAPI exposes the kitchen console side of the order lifecycle.
type AdminOrderAPI struct {
	service ordersports.Service
}

func NewAdminOrderAPI(service ordersports.Service) AdminOrderAPI {
	return AdminOrderAPI{service: service}
}

// Get /admin/order/conditionSearch
// Page through all orders filtered by number, phone, status and order time
func (api *AdminOrderAPI) ConditionSearch(c *gin.Context) {
	var query OrderSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	page, err := api.service.Search(c.Request.Context(), ordersports.Query{
		PageRequest: projection.PageRequest{Page: query.Page, PageSize: query.PageSize},
		Number:      query.Number,
		Phone:       query.Phone,
		Status:      toStatus(query.Status),
		Begin:       query.BeginTime,
		End:         query.EndTime,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := OrderPage{Total: page.Total, Records: make([]Order, 0, len(page.Records))}
	for _, row := range page.Records {
		out.Records = append(out.Records, toOrder(row.Order, row.Dishes))
	}
	c.JSON(http.StatusOK, out)
}

// Get /admin/order/statistics
// Count orders awaiting confirmation, confirmed and out for delivery
func (api *AdminOrderAPI) Statistics(c *gin.Context) {
	stats, err := api.service.Statistics(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, OrderStatistics{
		ToBeConfirmed:      stats.ToBeConfirmed,
		Confirmed:          stats.Confirmed,
		DeliveryInProgress: stats.DeliveryInProgress,
	})
}

// Get /admin/order/details/:id
// Show any order with its line items
func (api *AdminOrderAPI) Details(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.AdminDetail(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrder(order, ""))
}

// Put /admin/order/confirm
// Accept an order
func (api *AdminOrderAPI) Confirm(c *gin.Context) {
	var payload OrderIDRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := api.service.Confirm(c.Request.Context(), payload.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Put /admin/order/rejection
// Refuse an order awaiting confirmation, refunding it if paid
func (api *AdminOrderAPI) Rejection(c *gin.Context) {
	var payload RejectionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := api.service.Reject(c.Request.Context(), payload.ID, payload.RejectionReason); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Put /admin/order/cancel
// Cancel an order from the console, refunding it if paid
func (api *AdminOrderAPI) Cancel(c *gin.Context) {
	var payload AdminCancelRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := api.service.AdminCancel(c.Request.Context(), payload.ID, payload.CancelReason); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Put /admin/order/delivery/:id
// Hand a confirmed order to the rider
func (api *AdminOrderAPI) Delivery(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.Deliver(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Put /admin/order/complete/:id
// Mark an order as delivered
func (api *AdminOrderAPI) Complete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.Complete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
