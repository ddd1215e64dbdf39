package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fwm-go/internal/fwm"
	"fwm-go/internal/model"
)

// Handler serves the REST endpoints on top of a fwm.Service.
type Handler struct {
	service *fwm.Service
	metrics *Metrics
}

func NewHandler(service *fwm.Service, metrics *Metrics) *Handler {
	return &Handler{service: service, metrics: metrics}
}

// HealthCheck reports liveness.
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListReports returns the report catalog.
// GET /api/v1/reports
func (h *Handler) ListReports(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Reports())
}

// GetReport runs one report.
// GET /api/v1/reports/:name?city=<city>&days=<days>
func (h *Handler) GetReport(c *gin.Context) {
	params, err := parseReportParams(c)
	if err != nil {
		respondInvalidInput(c, err)
		return
	}

	report, err := h.service.Report(c.Request.Context(), model.ReportName(c.Param("name")), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /api/v1/providers
func (h *Handler) ListProviders(c *gin.Context) {
	providers, err := h.service.ListProviders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(providers))
}

// GET /api/v1/providers/cities
func (h *Handler) ListProviderCities(c *gin.Context) {
	cities, err := h.service.ProviderCities(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cities)
}

// GET /api/v1/receivers
func (h *Handler) ListReceivers(c *gin.Context) {
	receivers, err := h.service.ListReceivers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(receivers))
}

// ListListings filters listings; every parameter is optional.
// GET /api/v1/listings?city=&provider_type=&food_type=&meal_type=
func (h *Handler) ListListings(c *gin.Context) {
	var q ListingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondInvalidInput(c, err)
		return
	}

	listings, err := h.service.FilterListings(c.Request.Context(), q.filter())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newListingDetailResponses(listings))
}

// GET /api/v1/listings/options
func (h *Handler) ListingOptions(c *gin.Context) {
	opts, err := h.service.FilterOptions(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// GET /api/v1/listings/next-id
func (h *Handler) NextFoodID(c *gin.Context) {
	id, err := h.service.NextFoodID(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"food_id": id})
}

// GET /api/v1/listings/:id
func (h *Handler) GetListing(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondBadRequest(c, "Invalid listing id", err.Error())
		return
	}

	listing, err := h.service.GetListing(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newListingResponse(listing))
}

// CreateListing adds a listing for an existing provider. The provider's type
// and city are filled in server-side.
// POST /api/v1/listings
func (h *Handler) CreateListing(c *gin.Context) {
	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidInput(c, err)
		return
	}
	l, err := req.listing()
	if err != nil {
		respondInvalidInput(c, err)
		return
	}

	created, err := h.service.CreateListing(c.Request.Context(), l)
	h.metrics.observeMutation("create_listing", err)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newListingResponse(created))
}

// PUT /api/v1/listings/:id
func (h *Handler) UpdateListing(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondBadRequest(c, "Invalid listing id", err.Error())
		return
	}
	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidInput(c, err)
		return
	}
	u, err := req.update()
	if err != nil {
		respondInvalidInput(c, err)
		return
	}

	updated, err := h.service.UpdateListing(c.Request.Context(), id, u)
	h.metrics.observeMutation("update_listing", err)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newListingResponse(updated))
}

// DeleteListing removes the listing and its claims. Deleting a missing id
// returns 200 with listing_deleted=false.
// DELETE /api/v1/listings/:id
func (h *Handler) DeleteListing(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondBadRequest(c, "Invalid listing id", err.Error())
		return
	}

	res, err := h.service.DeleteListing(c.Request.Context(), id)
	h.metrics.observeMutation("delete_listing", err)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/v1/claims
func (h *Handler) ClaimHistory(c *gin.Context) {
	claims, err := h.service.ClaimHistory(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(claims))
}

// GET /api/v1/claims/next-id
func (h *Handler) NextClaimID(c *gin.Context) {
	id, err := h.service.NextClaimID(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"claim_id": id})
}

// SubmitClaim records a claim with the next id and the current time.
// POST /api/v1/claims
func (h *Handler) SubmitClaim(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidInput(c, err)
		return
	}

	claim, err := h.service.SubmitClaim(c.Request.Context(), req.FoodID, req.ReceiverID, model.ClaimStatus(req.Status))
	h.metrics.observeMutation("submit_claim", err)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, claim)
}

// Reload replaces the store content from the configured sources.
// POST /api/v1/admin/reload
func (h *Handler) Reload(c *gin.Context) {
	summary, err := h.service.Load(c.Request.Context())
	h.metrics.observeMutation("reload", err)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// nonNil turns a nil slice into an empty one so it encodes as [].
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
