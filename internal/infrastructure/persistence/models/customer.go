package models

import (
	"github.com/erp/custadmin/internal/domain/customer"
)

// CustomerModel is the persistence model for the Customer domain entity.
// Address and payment terms are flattened into the row.
type CustomerModel struct {
	BaseModel
	Salutation           string   `gorm:"type:varchar(20)"`
	FirstName            string   `gorm:"type:varchar(100);not null"`
	LastName             string   `gorm:"type:varchar(100);not null"`
	Email                string   `gorm:"type:varchar(254);not null;index"`
	PhoneNumber          string   `gorm:"type:varchar(30);not null"`
	SecondaryPhoneNumber string   `gorm:"type:varchar(30)"`
	AddressLine          string   `gorm:"type:text"`
	City                 string   `gorm:"type:varchar(100);index"`
	State                string   `gorm:"type:varchar(100)"`
	ZipCode              string   `gorm:"type:varchar(20)"`
	Country              string   `gorm:"type:varchar(100)"`
	CompanyName          string   `gorm:"type:varchar(100);not null;index"`
	DisplayName          string   `gorm:"type:varchar(200);not null"`
	GSTIN                string   `gorm:"column:gstin;type:varchar(15);not null"`
	CurrencyCode         string   `gorm:"type:varchar(10);not null"`
	GSTTreatment         string   `gorm:"column:gst_treatment;type:varchar(100);not null"`
	TaxPreference        string   `gorm:"type:varchar(100);not null"`
	Notes                string   `gorm:"type:text"`
	PaymentTermName      string   `gorm:"type:varchar(100)"`
	PaymentTermDays      *int     `gorm:"type:integer"`
	Domains              []string `gorm:"type:text;serializer:json"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *customer.Customer {
	c := &customer.Customer{
		ID:                   m.ID,
		Salutation:           m.Salutation,
		FirstName:            m.FirstName,
		LastName:             m.LastName,
		Email:                m.Email,
		PhoneNumber:          m.PhoneNumber,
		SecondaryPhoneNumber: m.SecondaryPhoneNumber,
		CompanyName:          m.CompanyName,
		DisplayName:          m.DisplayName,
		GSTIN:                m.GSTIN,
		CurrencyCode:         m.CurrencyCode,
		GSTTreatment:         m.GSTTreatment,
		TaxPreference:        m.TaxPreference,
		Notes:                m.Notes,
		Domains:              m.Domains,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
	if m.AddressLine != "" || m.City != "" || m.State != "" || m.ZipCode != "" || m.Country != "" {
		c.Address = &customer.Address{
			AddressLine: m.AddressLine,
			City:        m.City,
			State:       m.State,
			ZipCode:     m.ZipCode,
			Country:     m.Country,
		}
	}
	if m.PaymentTermName != "" || m.PaymentTermDays != nil {
		c.PaymentTerms = &customer.PaymentTerms{TermName: m.PaymentTermName}
		if m.PaymentTermDays != nil {
			days := *m.PaymentTermDays
			c.PaymentTerms.Days = &days
		}
	}
	if c.Domains == nil {
		c.Domains = []string{}
	}
	return c
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *customer.Customer) {
	m.ID = c.ID
	m.CreatedAt = c.CreatedAt
	m.UpdatedAt = c.UpdatedAt
	m.Salutation = c.Salutation
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Email = c.Email
	m.PhoneNumber = c.PhoneNumber
	m.SecondaryPhoneNumber = c.SecondaryPhoneNumber
	m.CompanyName = c.CompanyName
	m.DisplayName = c.DisplayName
	m.GSTIN = c.GSTIN
	m.CurrencyCode = c.CurrencyCode
	m.GSTTreatment = c.GSTTreatment
	m.TaxPreference = c.TaxPreference
	m.Notes = c.Notes
	m.Domains = append([]string{}, c.Domains...)
	if c.Address != nil {
		m.AddressLine = c.Address.AddressLine
		m.City = c.Address.City
		m.State = c.Address.State
		m.ZipCode = c.Address.ZipCode
		m.Country = c.Address.Country
	}
	if c.PaymentTerms != nil {
		m.PaymentTermName = c.PaymentTerms.TermName
		if c.PaymentTerms.Days != nil {
			days := *c.PaymentTerms.Days
			m.PaymentTermDays = &days
		}
	}
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *customer.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
