package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"fwm-go/internal/model"
)

const dateLayout = "2006-01-02"

// ListingResponse is a listing with its expiry date as YYYY-MM-DD.
type ListingResponse struct {
	FoodID          int64  `json:"food_id"`
	FoodName        string `json:"food_name"`
	Quantity        int64  `json:"quantity"`
	ExpiryDate      string `json:"expiry_date"`
	ProviderID      int64  `json:"provider_id"`
	ProviderType    string `json:"provider_type"`
	Location        string `json:"location"`
	FoodType        string `json:"food_type"`
	MealType        string `json:"meal_type"`
	ProviderName    string `json:"provider_name,omitempty"`
	ProviderContact string `json:"provider_contact,omitempty"`
}

func newListingResponse(l *model.FoodListing) ListingResponse {
	return ListingResponse{
		FoodID:       l.ID,
		FoodName:     l.Name,
		Quantity:     l.Quantity,
		ExpiryDate:   l.ExpiryDate.Format(dateLayout),
		ProviderID:   l.ProviderID,
		ProviderType: l.ProviderType,
		Location:     l.Location,
		FoodType:     string(l.FoodType),
		MealType:     string(l.MealType),
	}
}

func newListingDetailResponses(details []*model.ListingDetail) []ListingResponse {
	out := make([]ListingResponse, 0, len(details))
	for _, d := range details {
		r := newListingResponse(&d.FoodListing)
		r.ProviderName = d.ProviderName
		r.ProviderContact = d.ProviderContact
		out = append(out, r)
	}
	return out
}

// ListingRequest is the body of POST and PUT /listings. FoodID is optional on
// create (0 allocates the next id) and ignored on update.
type ListingRequest struct {
	FoodID     int64  `json:"food_id" binding:"gte=0"`
	FoodName   string `json:"food_name" binding:"required"`
	Quantity   int64  `json:"quantity"`
	ExpiryDate string `json:"expiry_date" binding:"required"`
	ProviderID int64  `json:"provider_id"`
	FoodType   string `json:"food_type" binding:"required"`
	MealType   string `json:"meal_type" binding:"required"`
}

func (r *ListingRequest) expiry() (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(r.ExpiryDate))
	if err != nil {
		return time.Time{}, fmt.Errorf("expiry_date %q is not YYYY-MM-DD", r.ExpiryDate)
	}
	return t, nil
}

func (r *ListingRequest) listing() (model.FoodListing, error) {
	expiry, err := r.expiry()
	if err != nil {
		return model.FoodListing{}, err
	}
	return model.FoodListing{
		ID:         r.FoodID,
		Name:       r.FoodName,
		Quantity:   r.Quantity,
		ExpiryDate: expiry,
		ProviderID: r.ProviderID,
		FoodType:   model.FoodType(r.FoodType),
		MealType:   model.MealType(r.MealType),
	}, nil
}

func (r *ListingRequest) update() (model.ListingUpdate, error) {
	expiry, err := r.expiry()
	if err != nil {
		return model.ListingUpdate{}, err
	}
	return model.ListingUpdate{
		Name:       r.FoodName,
		Quantity:   r.Quantity,
		ExpiryDate: expiry,
		FoodType:   model.FoodType(r.FoodType),
		MealType:   model.MealType(r.MealType),
	}, nil
}

// ClaimRequest is the body of POST /claims.
type ClaimRequest struct {
	FoodID     int64  `json:"food_id" binding:"required"`
	ReceiverID int64  `json:"receiver_id" binding:"required"`
	Status     string `json:"status" binding:"required"`
}

// ListingQuery holds the filter parameters of GET /listings.
type ListingQuery struct {
	City         string `form:"city"`
	ProviderType string `form:"provider_type"`
	FoodType     string `form:"food_type"`
	MealType     string `form:"meal_type"`
}

func (q ListingQuery) filter() model.ListingFilter {
	return model.ListingFilter{
		City:         q.City,
		ProviderType: q.ProviderType,
		FoodType:     model.FoodType(q.FoodType),
		MealType:     model.MealType(q.MealType),
	}
}

// parseReportParams reads ?city= and ?days= for GET /reports/:name.
func parseReportParams(c *gin.Context) (model.ReportParams, error) {
	params := model.ReportParams{City: c.Query("city")}
	if raw, ok := c.GetQuery("days"); ok {
		days, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return params, fmt.Errorf("days %q is not an integer", raw)
		}
		params.Days = &days
	}
	return params, nil
}

func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not an integer", name, c.Param(name))
	}
	return id, nil
}
