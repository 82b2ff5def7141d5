package customer

import (
	"strings"
	"time"
)

// Address is the customer's billing address. All five parts are required together.
type Address struct {
	AddressLine string `json:"addressLine"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zipCode"`
	Country     string `json:"country"`
}

// IsComplete reports whether every address part is present
func (a *Address) IsComplete() bool {
	if a == nil {
		return false
	}
	for _, part := range []string{a.AddressLine, a.City, a.State, a.ZipCode, a.Country} {
		if strings.TrimSpace(part) == "" {
			return false
		}
	}
	return true
}

// PaymentTerms describes when invoices for the customer fall due.
// Days is a pointer so an explicit 0 can be told apart from an absent value.
type PaymentTerms struct {
	TermName string `json:"termName"`
	Days     *int   `json:"days,omitempty"`
}

// Customer is the record admitted by the validator and handed to storage
type Customer struct {
	ID                   string        `json:"id"`
	Salutation           string        `json:"salutation"`
	FirstName            string        `json:"firstName"`
	LastName             string        `json:"lastName"`
	Email                string        `json:"email"`
	PhoneNumber          string        `json:"phoneNumber"`
	SecondaryPhoneNumber string        `json:"secondaryPhoneNumber,omitempty"`
	Address              *Address      `json:"address"`
	CompanyName          string        `json:"companyName"`
	DisplayName          string        `json:"displayName"`
	GSTIN                string        `json:"gstin"`
	CurrencyCode         string        `json:"currencyCode"`
	GSTTreatment         string        `json:"gstTreatment"`
	TaxPreference        string        `json:"taxPreference"`
	Notes                string        `json:"notes,omitempty"`
	PaymentTerms         *PaymentTerms `json:"paymentTerms,omitempty"`
	Domains              []string      `json:"domains"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt"`
}

// HasID reports whether an identifier has already been assigned
func (c *Customer) HasID() bool {
	return strings.TrimSpace(c.ID) != ""
}
