package handler

import (
	"context"

	customerapp "github.com/erp/custadmin/internal/application/customer"
	"github.com/erp/custadmin/internal/domain/customer"
	"github.com/erp/custadmin/internal/domain/shared"
	"github.com/erp/custadmin/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CustomerService is the use case surface the handler drives.
// customerapp.CustomerService implements it.
type CustomerService interface {
	Create(ctx context.Context, principal *shared.Principal, req customerapp.CreateCustomerRequest) (*customerapp.CustomerResponse, error)
	Update(ctx context.Context, principal *shared.Principal, id string, req customerapp.UpdateCustomerRequest) (*customerapp.CustomerResponse, error)
	GetByID(ctx context.Context, principal *shared.Principal, id string) (*customerapp.CustomerResponse, error)
	Delete(ctx context.Context, principal *shared.Principal, id string) error
	List(ctx context.Context, principal *shared.Principal, params customer.DirectoryParams) (*customerapp.PageEnvelope, error)
}

// CustomerHandler handles the customer admin endpoints
type CustomerHandler struct {
	BaseHandler
	customerService CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// Create admits a new customer. POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.customerService.Create(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID returns one customer. GET /customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	resp, err := h.customerService.GetByID(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns one directory page. GET /customers
// Query: searchType, search, sort, order, page. Unrecognized or malformed
// values fall back to defaults rather than failing the request.
func (h *CustomerHandler) List(c *gin.Context) {
	var params customer.DirectoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.customerService.List(c.Request.Context(), middleware.GetPrincipal(c), params)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page, page.Total, page.Page, page.PageSize, page.TotalPages)
}

// Update replaces every editable field of a customer. PUT /customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	var req customerapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.customerService.Update(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a customer. DELETE /customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.customerService.Delete(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id")); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
