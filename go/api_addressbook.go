package takeoutserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	addressdomain "github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/domain"
	addressports "github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/ports"
)

type Address struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"userId"`
	Consignee    string `json:"consignee"`
	Sex          string `json:"sex,omitempty"`
	Phone        string `json:"phone"`
	ProvinceName string `json:"provinceName,omitempty"`
	CityName     string `json:"cityName,omitempty"`
	DistrictName string `json:"districtName,omitempty"`
	Detail       string `json:"detail"`
	Label        string `json:"label,omitempty"`
	IsDefault    bool   `json:"isDefault"`
}

// AddressBookAPI manages the delivery addresses of the current user.
type AddressBookAPI struct {
	service addressports.Service
}

func NewAddressBookAPI(service addressports.Service) AddressBookAPI {
	return AddressBookAPI{service: service}
}

// Post /user/addressBook
// Save a delivery address
func (api *AddressBookAPI) Add(c *gin.Context) {
	var payload Address
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	saved, err := api.service.Add(c.Request.Context(), &addressdomain.Address{
		Consignee:    payload.Consignee,
		Sex:          payload.Sex,
		Phone:        payload.Phone,
		ProvinceName: payload.ProvinceName,
		CityName:     payload.CityName,
		DistrictName: payload.DistrictName,
		Detail:       payload.Detail,
		Label:        payload.Label,
		IsDefault:    payload.IsDefault,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromAddress(saved))
}

// Get /user/addressBook/list
// List the current user's addresses
func (api *AddressBookAPI) List(c *gin.Context) {
	entries, err := api.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]Address, 0, len(entries))
	for _, entry := range entries {
		out = append(out, fromAddress(entry))
	}
	c.JSON(http.StatusOK, out)
}

// Get /user/addressBook/:id
func (api *AddressBookAPI) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	entry, err := api.service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromAddress(entry))
}

func fromAddress(a *addressdomain.Address) Address {
	return Address{
		ID:           a.ID,
		UserID:       a.UserID,
		Consignee:    a.Consignee,
		Sex:          a.Sex,
		Phone:        a.Phone,
		ProvinceName: a.ProvinceName,
		CityName:     a.CityName,
		DistrictName: a.DistrictName,
		Detail:       a.Detail,
		Label:        a.Label,
		IsDefault:    a.IsDefault,
	}
}
