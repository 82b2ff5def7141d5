package customer

import (
	"strings"
	"unicode/utf8"

	"github.com/erp/custadmin/internal/domain/shared"
	"golang.org/x/text/cases"
)

const (
	MaxCompanyNameLength = 100
	MaxNotesLength       = 500

	// DueOnReceipt is the payment term that always means zero days
	DueOnReceipt = "due on receipt"
)

// Validation error codes, one per admission rule
const (
	CodeSalutationRequired   = "SALUTATION_REQUIRED"
	CodeInvalidFirstName     = "INVALID_FIRST_NAME"
	CodeInvalidLastName      = "INVALID_LAST_NAME"
	CodeInvalidEmail         = "INVALID_EMAIL"
	CodeInvalidPhone         = "INVALID_PHONE_NUMBER"
	CodeInvalidSecondary     = "INVALID_SECONDARY_PHONE_NUMBER"
	CodeIncompleteAddress    = "INCOMPLETE_ADDRESS"
	CodeInvalidCompanyName   = "INVALID_COMPANY_NAME"
	CodeDisplayNameRequired  = "DISPLAY_NAME_REQUIRED"
	CodeInvalidGSTIN         = "INVALID_GSTIN"
	CodeCurrencyRequired     = "CURRENCY_CODE_REQUIRED"
	CodeGSTTreatmentRequired = "GST_TREATMENT_REQUIRED"
	CodeTaxPrefRequired      = "TAX_PREFERENCE_REQUIRED"
	CodeNotesTooLong         = "NOTES_TOO_LONG"
	CodeTermNameRequired     = "PAYMENT_TERM_NAME_REQUIRED"
	CodeTermDaysRequired     = "PAYMENT_TERM_DAYS_REQUIRED"
	CodeTermDaysNegative     = "PAYMENT_TERM_DAYS_NEGATIVE"
)

// Rule is one admission check. Check returns nil when the record satisfies it.
type Rule struct {
	Name  string
	Check func(c *Customer) *shared.ValidationError
}

// rules is evaluated top to bottom and stops at the first violation.
// The order is part of the contract: callers see the earliest failing rule.
var rules = []Rule{
	{Name: "salutation", Check: checkSalutation},
	{Name: "firstName", Check: checkFirstName},
	{Name: "lastName", Check: checkLastName},
	{Name: "email", Check: checkEmail},
	{Name: "phoneNumber", Check: checkPhoneNumber},
	{Name: "secondaryPhoneNumber", Check: checkSecondaryPhoneNumber},
	{Name: "address", Check: checkAddress},
	{Name: "companyName", Check: checkCompanyName},
	{Name: "displayName", Check: checkDisplayName},
	{Name: "gstin", Check: checkGSTIN},
	{Name: "currencyCode", Check: checkCurrencyCode},
	{Name: "gstTreatment", Check: checkGSTTreatment},
	{Name: "taxPreference", Check: checkTaxPreference},
	{Name: "notes", Check: checkNotes},
	{Name: "paymentTerms", Check: checkPaymentTerms},
}

// Rules returns the rule names in evaluation order
func Rules() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}

// ValidateCustomerRecord checks c against every admission rule in order and
// returns the first violation as a *shared.ValidationError.
//
// A payment term named "due on receipt" (any casing) has its days forced to 0;
// that is the only change made to c.
func ValidateCustomerRecord(c *Customer) error {
	if c == nil {
		return shared.NewValidationError("record", "RECORD_REQUIRED", "Customer record is required")
	}
	for _, r := range rules {
		if err := r.Check(c); err != nil {
			return err
		}
	}
	return nil
}

// IsDueOnReceipt reports whether a payment term name means immediate payment
func IsDueOnReceipt(termName string) bool {
	// Casers carry state, so each call gets its own
	return cases.Fold().String(strings.TrimSpace(termName)) == DueOnReceipt
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

func checkSalutation(c *Customer) *shared.ValidationError {
	if !present(c.Salutation) {
		return shared.NewValidationError("salutation", CodeSalutationRequired, "Salutation is required")
	}
	return nil
}

func checkFirstName(c *Customer) *shared.ValidationError {
	if !present(c.FirstName) || !IsAlphaWithSpaces(c.FirstName) {
		return shared.NewValidationError("firstName", CodeInvalidFirstName,
			"First name is required and must contain only letters and spaces")
	}
	return nil
}

func checkLastName(c *Customer) *shared.ValidationError {
	if !present(c.LastName) || !IsAlphaWithSpaces(c.LastName) {
		return shared.NewValidationError("lastName", CodeInvalidLastName,
			"Last name is required and must contain only letters and spaces")
	}
	return nil
}

func checkEmail(c *Customer) *shared.ValidationError {
	if !IsValidEmail(c.Email) {
		return shared.NewValidationError("email", CodeInvalidEmail, "Invalid email format")
	}
	return nil
}

func checkPhoneNumber(c *Customer) *shared.ValidationError {
	if !IsValidPhoneNumber(c.PhoneNumber) {
		return shared.NewValidationError("phoneNumber", CodeInvalidPhone, "Invalid phone number format")
	}
	return nil
}

func checkSecondaryPhoneNumber(c *Customer) *shared.ValidationError {
	if c.SecondaryPhoneNumber != "" && !IsValidPhoneNumber(c.SecondaryPhoneNumber) {
		return shared.NewValidationError("secondaryPhoneNumber", CodeInvalidSecondary,
			"Invalid secondary phone number format")
	}
	return nil
}

func checkAddress(c *Customer) *shared.ValidationError {
	if !c.Address.IsComplete() {
		return shared.NewValidationError("address", CodeIncompleteAddress,
			"Complete address is required (address line, city, state, zip code, country)")
	}
	return nil
}

func checkCompanyName(c *Customer) *shared.ValidationError {
	if !present(c.CompanyName) || utf8.RuneCountInString(c.CompanyName) > MaxCompanyNameLength {
		return shared.NewValidationError("companyName", CodeInvalidCompanyName,
			"Company name is required and must not exceed 100 characters")
	}
	return nil
}

func checkDisplayName(c *Customer) *shared.ValidationError {
	if !present(c.DisplayName) {
		return shared.NewValidationError("displayName", CodeDisplayNameRequired, "Display name is required")
	}
	return nil
}

func checkGSTIN(c *Customer) *shared.ValidationError {
	if !IsValidGSTIN(c.GSTIN) {
		return shared.NewValidationError("gstin", CodeInvalidGSTIN, "Invalid GSTIN format")
	}
	return nil
}

func checkCurrencyCode(c *Customer) *shared.ValidationError {
	if !present(c.CurrencyCode) {
		return shared.NewValidationError("currencyCode", CodeCurrencyRequired, "Currency code is required")
	}
	return nil
}

func checkGSTTreatment(c *Customer) *shared.ValidationError {
	if !present(c.GSTTreatment) {
		return shared.NewValidationError("gstTreatment", CodeGSTTreatmentRequired, "GST treatment is required")
	}
	return nil
}

func checkTaxPreference(c *Customer) *shared.ValidationError {
	if !present(c.TaxPreference) {
		return shared.NewValidationError("taxPreference", CodeTaxPrefRequired, "Tax preference is required")
	}
	return nil
}

func checkNotes(c *Customer) *shared.ValidationError {
	if utf8.RuneCountInString(c.Notes) > MaxNotesLength {
		return shared.NewValidationError("notes", CodeNotesTooLong, "Notes must not exceed 500 characters")
	}
	return nil
}

func checkPaymentTerms(c *Customer) *shared.ValidationError {
	terms := c.PaymentTerms
	if terms == nil {
		return nil
	}
	if !present(terms.TermName) {
		return shared.NewValidationError("paymentTerms.termName", CodeTermNameRequired, "Payment term name is required")
	}
	if IsDueOnReceipt(terms.TermName) {
		zero := 0
		terms.Days = &zero
		return nil
	}
	if terms.Days == nil {
		return shared.NewValidationError("paymentTerms.days", CodeTermDaysRequired, "Payment term days are required")
	}
	if *terms.Days < 0 {
		return shared.NewValidationError("paymentTerms.days", CodeTermDaysNegative,
			"Payment term days must not be negative")
	}
	return nil
}
