package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/custrec/customer-service/internal/api/metrics"
	"github.com/custrec/customer-service/internal/core/ports"
)

// IdempotencyKeyHeader lets clients retry POST /customers safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// CustomerHandler handles HTTP requests for customer records. Every route
// expects the Auth middleware in front of it.
type CustomerHandler struct {
	service ports.CustomerService
}

func NewCustomerHandler(service ports.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// Create handles POST /customers.
//
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string           false  "Replays the first response for the same key"
// @Param        body             body      customerRequest  true   "Customer fields"
// @Success      200              {object}  customerResponse
// @Failure      400              {object}  messageResponse
// @Failure      401              {object}  messageResponse
// @Failure      409              {object}  messageResponse
// @Failure      500              {object}  messageResponse
// @Router       /customers [post]
func (h *CustomerHandler) Create(c echo.Context) error {
	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	key := c.Request().Header.Get(IdempotencyKeyHeader)
	customer, err := h.service.Create(c.Request().Context(), toCustomerInput(req), key)
	if err != nil {
		return err
	}

	metrics.CustomerMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusOK, toCustomerResponse(*customer))
}

// List handles GET /customers.
//
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 5, max 100)"
// @Param        search  query     string  false  "Substring matched against name or phone"
// @Success      200     {object}  listCustomersResponse
// @Failure      401     {object}  messageResponse
// @Failure      500     {object}  messageResponse
// @Router       /customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	res, err := h.service.List(c.Request().Context(), ports.ListCustomersInput{
		Page:   queryInt(c.QueryParam("page")),
		Limit:  queryInt(c.QueryParam("limit")),
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return err
	}

	metrics.CustomerListResults.Observe(float64(len(res.Items)))
	return c.JSON(http.StatusOK, toListResponse(res))
}

// Get handles GET /customers/:id.
//
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Customer id"
// @Success      200  {object}  customerResponse
// @Failure      400  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Router       /customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	id, err := parseCustomerID(c.Param("id"))
	if err != nil {
		return err
	}

	customer, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCustomerResponse(*customer))
}

// Update handles PUT /customers/:id. All three fields are replaced.
//
// @Summary      Replace a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Customer id"
// @Param        body  body      customerRequest  true  "Customer fields"
// @Success      200   {object}  customerResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c echo.Context) error {
	id, err := parseCustomerID(c.Param("id"))
	if err != nil {
		return err
	}

	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	customer, err := h.service.Update(c.Request().Context(), id, toCustomerInput(req))
	if err != nil {
		return err
	}

	metrics.CustomerMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toCustomerResponse(*customer))
}

// Delete handles DELETE /customers/:id.
//
// @Summary      Delete a customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Customer id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, err := parseCustomerID(c.Param("id"))
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.CustomerMutationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Customer deleted"})
}
