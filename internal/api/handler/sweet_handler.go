package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/inventory-system/internal/core/ports"
)

// SweetHandler handles HTTP requests for inventory operations. Domain errors
// are returned as-is and mapped to status codes by the central error handler.
type SweetHandler struct {
	service ports.SweetService
}

func NewSweetHandler(service ports.SweetService) *SweetHandler {
	return &SweetHandler{service: service}
}

// Create handles POST /api/sweets.
//
// @Summary      Create a new sweet
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSweetRequest  true  "Sweet details"
// @Success      201   {object}  sweetResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/sweets [post]
func (h *SweetHandler) Create(c echo.Context) error {
	var req createSweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sweet, err := h.service.Create(c.Request().Context(), toCreateInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toSweetResponse(sweet))
}

// List handles GET /api/sweets.
//
// @Summary      List all sweets
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   sweetResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/sweets [get]
func (h *SweetHandler) List(c echo.Context) error {
	sweets, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSweetListResponse(sweets))
}

// Search handles GET /api/sweets/search. All query parameters are optional
// and conjunctive; with none supplied the result equals List.
//
// @Summary      Search sweets
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Param        name      query     string  false  "Case-insensitive substring match on name"
// @Param        category  query     string  false  "Exact category match"
// @Param        minPrice  query     number  false  "Inclusive lower price bound"
// @Param        maxPrice  query     number  false  "Inclusive upper price bound"
// @Success      200       {array}   sweetResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Router       /api/sweets/search [get]
func (h *SweetHandler) Search(c echo.Context) error {
	filter := ports.SearchFilter{
		Name:     c.QueryParam("name"),
		Category: c.QueryParam("category"),
	}

	if raw := c.QueryParam("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "minPrice must be a number")
		}
		filter.MinPrice = &v
	}
	if raw := c.QueryParam("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "maxPrice must be a number")
		}
		filter.MaxPrice = &v
	}

	sweets, err := h.service.Search(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSweetListResponse(sweets))
}

// Categories handles GET /api/sweets/categories — the derived set of
// category labels currently in use.
//
// @Summary      List derived categories
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  categoriesResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/sweets/categories [get]
func (h *SweetHandler) Categories(c echo.Context) error {
	categories, err := h.service.Categories(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, categoriesResponse{Categories: categories})
}

// Update handles PUT /api/sweets/:id.
//
// @Summary      Update a sweet (partial)
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Sweet id"
// @Param        body  body      updateSweetRequest  true  "Fields to update"
// @Success      200   {object}  sweetResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/sweets/{id} [put]
func (h *SweetHandler) Update(c echo.Context) error {
	var req updateSweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sweet, err := h.service.Update(c.Request().Context(), c.Param("id"), toUpdateInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSweetResponse(sweet))
}

// Delete handles DELETE /api/sweets/:id.
//
// @Summary      Delete a sweet
// @Tags         sweets
// @Security     BearerAuth
// @Param        id  path  string  true  "Sweet id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/sweets/{id} [delete]
func (h *SweetHandler) Delete(c echo.Context) error {
	if err := h.service.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Purchase handles POST /api/sweets/:id/purchase — a unit decrement gated on
// availability.
//
// @Summary      Purchase one unit of a sweet
// @Tags         sweets
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Sweet id"
// @Success      200  {object}  sweetResponse
// @Failure      400  {object}  errorResponse  "out of stock"
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/sweets/{id}/purchase [post]
func (h *SweetHandler) Purchase(c echo.Context) error {
	sweet, err := h.service.Purchase(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSweetResponse(sweet))
}

// Restock handles POST /api/sweets/:id/restock.
//
// @Summary      Restock a sweet
// @Tags         sweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true   "Sweet id"
// @Param        body  body      restockRequest  false  "Restock amount (defaults to 1)"
// @Success      200   {object}  sweetResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/sweets/{id}/restock [post]
func (h *SweetHandler) Restock(c echo.Context) error {
	var req restockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	sweet, err := h.service.Restock(c.Request().Context(), c.Param("id"), req.Amount)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSweetResponse(sweet))
}
