package customer

import (
	"time"

	"github.com/erp/custadmin/internal/domain/customer"
)

// AddressInput is the address block of a customer draft
type AddressInput struct {
	AddressLine string `json:"addressLine" binding:"max=500"`
	City        string `json:"city" binding:"max=100"`
	State       string `json:"state" binding:"max=100"`
	ZipCode     string `json:"zipCode" binding:"max=20"`
	Country     string `json:"country" binding:"max=100"`
}

// PaymentTermsInput is the payment terms block of a customer draft
type PaymentTermsInput struct {
	TermName string `json:"termName" binding:"max=100"`
	Days     *int   `json:"days"`
}

// CustomerDraft carries every caller-editable field. Binding tags only bound
// the payload size; admission rules are applied by the record validator.
type CustomerDraft struct {
	Salutation           string             `json:"salutation" binding:"max=20"`
	FirstName            string             `json:"firstName" binding:"max=100"`
	LastName             string             `json:"lastName" binding:"max=100"`
	Email                string             `json:"email" binding:"max=254"`
	PhoneNumber          string             `json:"phoneNumber" binding:"max=30"`
	SecondaryPhoneNumber string             `json:"secondaryPhoneNumber" binding:"max=30"`
	Address              *AddressInput      `json:"address"`
	CompanyName          string             `json:"companyName" binding:"max=200"`
	DisplayName          string             `json:"displayName" binding:"max=200"`
	GSTIN                string             `json:"gstin" binding:"max=15"`
	CurrencyCode         string             `json:"currencyCode" binding:"max=10"`
	GSTTreatment         string             `json:"gstTreatment" binding:"max=100"`
	TaxPreference        string             `json:"taxPreference" binding:"max=100"`
	Notes                string             `json:"notes" binding:"max=2000"`
	PaymentTerms         *PaymentTermsInput `json:"paymentTerms"`
	Domains              []string           `json:"domains" binding:"omitempty,max=100,dive,max=253"`
}

// CreateCustomerRequest represents a request to create a new customer.
// ID is normally left empty and minted by the service.
type CreateCustomerRequest struct {
	ID string `json:"id" binding:"omitempty,max=64"`
	CustomerDraft
}

// UpdateCustomerRequest replaces every editable field of an existing customer
type UpdateCustomerRequest struct {
	CustomerDraft
}

// ToDomain maps the draft onto a fresh customer record
func (d CustomerDraft) ToDomain() *customer.Customer {
	c := &customer.Customer{
		Salutation:           d.Salutation,
		FirstName:            d.FirstName,
		LastName:             d.LastName,
		Email:                d.Email,
		PhoneNumber:          d.PhoneNumber,
		SecondaryPhoneNumber: d.SecondaryPhoneNumber,
		CompanyName:          d.CompanyName,
		DisplayName:          d.DisplayName,
		GSTIN:                d.GSTIN,
		CurrencyCode:         d.CurrencyCode,
		GSTTreatment:         d.GSTTreatment,
		TaxPreference:        d.TaxPreference,
		Notes:                d.Notes,
		Domains:              append([]string(nil), d.Domains...),
	}
	if d.Address != nil {
		c.Address = &customer.Address{
			AddressLine: d.Address.AddressLine,
			City:        d.Address.City,
			State:       d.Address.State,
			ZipCode:     d.Address.ZipCode,
			Country:     d.Address.Country,
		}
	}
	if d.PaymentTerms != nil {
		c.PaymentTerms = &customer.PaymentTerms{TermName: d.PaymentTerms.TermName}
		if d.PaymentTerms.Days != nil {
			days := *d.PaymentTerms.Days
			c.PaymentTerms.Days = &days
		}
	}
	return c
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID                   string                 `json:"id"`
	Salutation           string                 `json:"salutation"`
	FirstName            string                 `json:"firstName"`
	LastName             string                 `json:"lastName"`
	Email                string                 `json:"email"`
	PhoneNumber          string                 `json:"phoneNumber"`
	SecondaryPhoneNumber string                 `json:"secondaryPhoneNumber,omitempty"`
	Address              *customer.Address      `json:"address,omitempty"`
	CompanyName          string                 `json:"companyName"`
	DisplayName          string                 `json:"displayName"`
	GSTIN                string                 `json:"gstin"`
	CurrencyCode         string                 `json:"currencyCode"`
	GSTTreatment         string                 `json:"gstTreatment"`
	TaxPreference        string                 `json:"taxPreference"`
	Notes                string                 `json:"notes,omitempty"`
	PaymentTerms         *customer.PaymentTerms `json:"paymentTerms,omitempty"`
	Domains              []string               `json:"domains"`
	CreatedAt            time.Time              `json:"createdAt"`
	UpdatedAt            time.Time              `json:"updatedAt"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	domains := c.Domains
	if domains == nil {
		domains = []string{}
	}
	return CustomerResponse{
		ID:                   c.ID,
		Salutation:           c.Salutation,
		FirstName:            c.FirstName,
		LastName:             c.LastName,
		Email:                c.Email,
		PhoneNumber:          c.PhoneNumber,
		SecondaryPhoneNumber: c.SecondaryPhoneNumber,
		Address:              c.Address,
		CompanyName:          c.CompanyName,
		DisplayName:          c.DisplayName,
		GSTIN:                c.GSTIN,
		CurrencyCode:         c.CurrencyCode,
		GSTTreatment:         c.GSTTreatment,
		TaxPreference:        c.TaxPreference,
		Notes:                c.Notes,
		PaymentTerms:         c.PaymentTerms,
		Domains:              domains,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}
}

// PageEnvelope is one page of the customer directory
type PageEnvelope struct {
	Items      []CustomerResponse `json:"items"`
	TotalPages int                `json:"totalPages"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	Total      int64              `json:"total"`
}
