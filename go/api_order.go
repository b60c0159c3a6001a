package takeoutserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	ordersdomain "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/projection"
)

// SubmitOrderRequest carries the checkout form. Amount is the client-computed total.
type SubmitOrderRequest struct {
	AddressBookID         int64           `json:"addressBookId" binding:"required"`
	PayMethod             int             `json:"payMethod"`
	Remark                string          `json:"remark"`
	EstimatedDeliveryTime *time.Time      `json:"estimatedDeliveryTime"`
	DeliveryStatus        int             `json:"deliveryStatus"`
	TablewareNumber       int             `json:"tablewareNumber"`
	TablewareStatus       int             `json:"tablewareStatus"`
	PackAmount            int             `json:"packAmount"`
	Amount                decimal.Decimal `json:"amount"`
}

type SubmitOrderResponse struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	OrderAmount decimal.Decimal `json:"orderAmount"`
	OrderTime   time.Time       `json:"orderTime"`
}

type PaymentRequest struct {
	OrderNumber string `json:"orderNumber" binding:"required"`
	PayMethod   int    `json:"payMethod"`
}

type HistoryQuery struct {
	Page     int  `form:"page"`
	PageSize int  `form:"pageSize"`
	Status   *int `form:"status"`
}

type OrderDetail struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Image      string          `json:"image,omitempty"`
	DishID     *int64          `json:"dishId,omitempty"`
	SetmealID  *int64          `json:"setmealId,omitempty"`
	DishFlavor string          `json:"dishFlavor,omitempty"`
	Number     int32           `json:"number"`
	Amount     decimal.Decimal `json:"amount"`
}

// Order is the order view shared by the customer and admin endpoints.
type Order struct {
	ID                    int64           `json:"id"`
	Number                string          `json:"number"`
	Status                int             `json:"status"`
	UserID                int64           `json:"userId"`
	AddressBookID         int64           `json:"addressBookId"`
	OrderTime             time.Time       `json:"orderTime"`
	CheckoutTime          *time.Time      `json:"checkoutTime,omitempty"`
	PayMethod             int             `json:"payMethod"`
	PayStatus             int             `json:"payStatus"`
	Amount                decimal.Decimal `json:"amount"`
	Remark                string          `json:"remark,omitempty"`
	Phone                 string          `json:"phone"`
	Address               string          `json:"address"`
	Consignee             string          `json:"consignee"`
	CancelReason          string          `json:"cancelReason,omitempty"`
	RejectionReason       string          `json:"rejectionReason,omitempty"`
	CancelTime            *time.Time      `json:"cancelTime,omitempty"`
	EstimatedDeliveryTime *time.Time      `json:"estimatedDeliveryTime,omitempty"`
	DeliveryStatus        int             `json:"deliveryStatus"`
	DeliveryTime          *time.Time      `json:"deliveryTime,omitempty"`
	PackAmount            int             `json:"packAmount"`
	TablewareNumber       int             `json:"tablewareNumber"`
	TablewareStatus       int             `json:"tablewareStatus"`
	OrderDishes           string          `json:"orderDishes,omitempty"`
	OrderDetailList       []OrderDetail   `json:"orderDetailList"`
}

// OrderPage is a page of orders.
type OrderPage struct {
	Total   int64   `json:"total"`
	Records []Order `json:"records"`
}

// OrderAPI exposes the customer side of the order lifecycle.
type OrderAPI struct {
	service ordersports.Service
}

func NewOrderAPI(service ordersports.Service) OrderAPI {
	return OrderAPI{service: service}
}

// Post /user/order/submit
// Turn the cart into a pending-payment order
func (api *OrderAPI) Submit(c *gin.Context) {
	var payload SubmitOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	result, err := api.service.Submit(c.Request.Context(), ordersports.SubmitCommand{
		AddressBookID:         payload.AddressBookID,
		PayMethod:             payload.PayMethod,
		Remark:                payload.Remark,
		EstimatedDeliveryTime: payload.EstimatedDeliveryTime,
		DeliveryStatus:        payload.DeliveryStatus,
		PackAmount:            payload.PackAmount,
		TablewareNumber:       payload.TablewareNumber,
		TablewareStatus:       payload.TablewareStatus,
		Amount:                payload.Amount,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SubmitOrderResponse{
		ID:          result.ID,
		OrderNumber: result.Number,
		OrderAmount: result.Amount,
		OrderTime:   result.OrderTime,
	})
}

// Put /user/order/payment
// Record a successful payment for an order
func (api *OrderAPI) Payment(c *gin.Context) {
	var payload PaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := api.service.Pay(c.Request.Context(), payload.OrderNumber, payload.PayMethod)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrder(order, ""))
}

// Get /user/order/historyOrders
// Page through the current user's orders, newest first
func (api *OrderAPI) HistoryOrders(c *gin.Context) {
	var query HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	page, err := api.service.History(c.Request.Context(), ordersports.HistoryQuery{
		PageRequest: projection.PageRequest{Page: query.Page, PageSize: query.PageSize},
		Status:      toStatus(query.Status),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := OrderPage{Total: page.Total, Records: make([]Order, 0, len(page.Records))}
	for _, order := range page.Records {
		out.Records = append(out.Records, toOrder(order, ""))
	}
	c.JSON(http.StatusOK, out)
}

// Get /user/order/orderDetail/:id
// Show one of the current user's orders with its line items
func (api *OrderAPI) OrderDetail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.Detail(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrder(order, ""))
}

// Put /user/order/cancel/:id
// Cancel an order that the shop has not confirmed yet, refunding it if paid
func (api *OrderAPI) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.Cancel(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Post /user/order/repetition/:id
// Put the line items of a past order back into the cart
func (api *OrderAPI) Repetition(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := api.service.Reorder(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func toStatus(raw *int) *ordersdomain.Status {
	if raw == nil {
		return nil
	}
	status := ordersdomain.Status(*raw)
	return &status
}

func toOrder(order *ordersdomain.Order, dishes string) Order {
	out := Order{
		ID:                    order.ID,
		Number:                order.Number,
		Status:                int(order.Status),
		UserID:                order.UserID,
		AddressBookID:         order.AddressBookID,
		OrderTime:             order.OrderTime,
		CheckoutTime:          order.CheckoutTime,
		PayMethod:             order.PayMethod,
		PayStatus:             int(order.PayStatus),
		Amount:                order.Amount,
		Remark:                order.Remark,
		Phone:                 order.Phone,
		Address:               order.Address,
		Consignee:             order.Consignee,
		CancelReason:          order.CancelReason,
		RejectionReason:       order.RejectionReason,
		CancelTime:            order.CancelTime,
		EstimatedDeliveryTime: order.EstimatedDeliveryTime,
		DeliveryStatus:        order.DeliveryStatus,
		DeliveryTime:          order.DeliveryTime,
		PackAmount:            order.PackAmount,
		TablewareNumber:       order.TablewareNumber,
		TablewareStatus:       order.TablewareStatus,
		OrderDishes:           dishes,
		OrderDetailList:       make([]OrderDetail, 0, len(order.Details)),
	}
	for _, d := range order.Details {
		out.OrderDetailList = append(out.OrderDetailList, OrderDetail{
			ID:         d.ID,
			Name:       d.Name,
			Image:      d.Image,
			DishID:     d.DishID,
			SetmealID:  d.SetmealID,
			DishFlavor: d.DishFlavor,
			Number:     d.Number,
			Amount:     d.Amount,
		})
	}
	return out
}
