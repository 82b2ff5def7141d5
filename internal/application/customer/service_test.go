package customer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/custadmin/internal/domain/customer"
	"github.com/erp/custadmin/internal/domain/shared"
	"github.com/erp/custadmin/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// =============================================================================
// Mock Repository
// =============================================================================

// MockCustomerRepository is a mock implementation of customer.Repository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) List(ctx context.Context, q customer.NormalizedDirectoryQuery) (shared.Paginated[customer.Customer], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(shared.Paginated[customer.Customer]), args.Error(1)
}

// =============================================================================
// Helpers
// =============================================================================

var testNow = time.Date(2024, time.June, 1, 10, 30, 45, 0, time.UTC)

func newTestService(repo customer.Repository) *CustomerService {
	clock := customer.ClockFunc(func() time.Time { return testNow })
	svc := NewCustomerService(repo, customer.NewIDGenerator(clock), customer.NewPlanner(nil, 10))
	svc.now = clock.Now
	return svc
}

func testPrincipal() *shared.Principal {
	return &shared.Principal{Subject: "user-1", Username: "admin"}
}

func validDraft() CustomerDraft {
	return CustomerDraft{
		Salutation:  "Mr.",
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@x.com",
		PhoneNumber: "+911234567890",
		Address: &AddressInput{
			AddressLine: "1 Rd",
			City:        "C",
			State:       "S",
			ZipCode:     "1",
			Country:     "IN",
		},
		CompanyName:   "Acme",
		DisplayName:   "Acme",
		GSTIN:         "22AAAAA0000A1Z5",
		CurrencyCode:  "INR",
		GSTTreatment:  "registered",
		TaxPreference: "taxable",
	}
}

// =============================================================================
// Create
// =============================================================================

func TestCustomerService_Create_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *customer.Customer) bool {
		return c.ID == "CID240601103045" && c.CreatedAt.Equal(testNow) && c.FirstName == "Jane"
	})).Return(nil)

	result, err := service.Create(ctx, testPrincipal(), CreateCustomerRequest{CustomerDraft: validDraft()})

	require.NoError(t, err)
	assert.Equal(t, "CID240601103045", result.ID)
	assert.Equal(t, "Acme", result.CompanyName)
	assert.Equal(t, testNow, result.UpdatedAt)
	assert.NotNil(t, result.Domains)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Create_ScopesContextToCustomer(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)

	mockRepo.On("Create", mock.MatchedBy(func(ctx context.Context) bool {
		return logger.GetCustomerID(ctx) == "CID240601103045"
	}), mock.Anything).Return(nil)

	_, err := service.Create(context.Background(), testPrincipal(), CreateCustomerRequest{CustomerDraft: validDraft()})

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Delete_ScopesContextToCustomer(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)

	mockRepo.On("Delete", mock.MatchedBy(func(ctx context.Context) bool {
		return logger.GetCustomerID(ctx) == "CID240530103045"
	}), "CID240530103045").Return(nil)

	require.NoError(t, service.Delete(context.Background(), testPrincipal(), "CID240530103045"))
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Create_KeepsSuppliedID(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *customer.Customer) bool {
		return c.ID == "CID230101000000"
	})).Return(nil)

	result, err := service.Create(ctx, testPrincipal(), CreateCustomerRequest{ID: "CID230101000000", CustomerDraft: validDraft()})

	require.NoError(t, err)
	assert.Equal(t, "CID230101000000", result.ID)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Create_RejectsMalformedSuppliedID(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)

	_, err := service.Create(context.Background(), testPrincipal(), CreateCustomerRequest{ID: "customer-7", CustomerDraft: validDraft()})

	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, customer.CodeInvalidCustomerID, verr.Code)
	assert.Equal(t, "id", verr.Field)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCustomerService_Create_ValidationError(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)

	draft := validDraft()
	draft.GSTIN = "bad"
	draft.Email = "also-bad"

	result, err := service.Create(context.Background(), testPrincipal(), CreateCustomerRequest{CustomerDraft: draft})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))
	assert.Equal(t, "Invalid email format", err.Error())
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCustomerService_Create_NormalizesDueOnReceipt(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	days := 30
	draft := validDraft()
	draft.PaymentTerms = &PaymentTermsInput{TermName: "Due On Receipt", Days: &days}

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *customer.Customer) bool {
		return c.PaymentTerms != nil && c.PaymentTerms.Days != nil && *c.PaymentTerms.Days == 0
	})).Return(nil)

	result, err := service.Create(ctx, testPrincipal(), CreateCustomerRequest{CustomerDraft: draft})

	require.NoError(t, err)
	assert.Equal(t, 0, *result.PaymentTerms.Days)
	assert.Equal(t, 30, days, "caller's value is not aliased")
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Create_WithoutPrincipal(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)

	result, err := service.Create(context.Background(), nil, CreateCustomerRequest{CustomerDraft: validDraft()})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCustomerService_Create_DuplicateID(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists)

	_, err := service.Create(ctx, testPrincipal(), CreateCustomerRequest{CustomerDraft: validDraft()})

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))
}

func TestCustomerService_Create_StorageFailure(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()
	dbErr := errors.New("connection reset by peer")

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(dbErr)

	_, err := service.Create(ctx, testPrincipal(), CreateCustomerRequest{CustomerDraft: validDraft()})

	assert.ErrorIs(t, err, shared.ErrStorageFailure)
	assert.ErrorIs(t, err, dbErr)
	assert.Equal(t, "Storage operation failed", err.Error())
}

// =============================================================================
// Update
// =============================================================================

func TestCustomerService_Update_Success(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()
	created := testNow.Add(-48 * time.Hour)

	mockRepo.On("FindByID", mock.Anything, "CID240530103045").Return(&customer.Customer{
		ID:        "CID240530103045",
		CreatedAt: created,
	}, nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(c *customer.Customer) bool {
		return c.ID == "CID240530103045" && c.CreatedAt.Equal(created) && c.UpdatedAt.Equal(testNow)
	})).Return(nil)

	draft := validDraft()
	draft.DisplayName = "Acme Corp"
	result, err := service.Update(ctx, testPrincipal(), "CID240530103045", UpdateCustomerRequest{CustomerDraft: draft})

	require.NoError(t, err)
	assert.Equal(t, "CID240530103045", result.ID)
	assert.Equal(t, "Acme Corp", result.DisplayName)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Update_RevalidatesFullRecord(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)

	draft := validDraft()
	draft.Salutation = ""

	_, err := service.Update(context.Background(), testPrincipal(), "CID240530103045", UpdateCustomerRequest{CustomerDraft: draft})

	assert.EqualError(t, err, "Salutation is required")
	mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCustomerService_Update_NotFound(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindByID", mock.Anything, "CID000000000000").Return(nil, shared.ErrNotFound)

	_, err := service.Update(ctx, testPrincipal(), "CID000000000000", UpdateCustomerRequest{CustomerDraft: validDraft()})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCustomerService_Update_WithoutPrincipal(t *testing.T) {
	service := newTestService(new(MockCustomerRepository))

	_, err := service.Update(context.Background(), nil, "CID000000000000", UpdateCustomerRequest{CustomerDraft: validDraft()})

	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}

// =============================================================================
// Get / Delete
// =============================================================================

func TestCustomerService_GetByID(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindByID", mock.Anything, "CID240601103045").Return(&customer.Customer{ID: "CID240601103045", FirstName: "Jane"}, nil)

	result, err := service.GetByID(ctx, testPrincipal(), "CID240601103045")

	require.NoError(t, err)
	assert.Equal(t, "Jane", result.FirstName)
}

func TestCustomerService_GetByID_StorageFailure(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	mockRepo.On("FindByID", mock.Anything, "x").Return(nil, errors.New("timeout"))

	_, err := service.GetByID(ctx, testPrincipal(), "x")

	assert.Equal(t, shared.KindStorage, shared.KindOf(err))
}

func TestCustomerService_Delete(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	mockRepo.On("Delete", mock.Anything, "CID240601103045").Return(nil)

	require.NoError(t, service.Delete(ctx, testPrincipal(), "CID240601103045"))
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_Delete_WithoutPrincipal(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)

	assert.ErrorIs(t, service.Delete(context.Background(), nil, "x"), shared.ErrUnauthenticated)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// =============================================================================
// List
// =============================================================================

func TestCustomerService_List(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	params := customer.DirectoryParams{SearchType: "email", Search: "jane", Sort: "lastName", Order: "bogus", Page: "2"}
	expected := customer.NormalizedDirectoryQuery{
		Filter:   &customer.SearchFilter{Field: "email", Column: "email", Text: "jane"},
		Sort:     &customer.SortSpec{Field: "lastName", Column: "last_name", Order: "asc"},
		Order:    "asc",
		Page:     2,
		PageSize: 10,
	}

	mockRepo.On("List", mock.Anything, expected).Return(shared.NewPaginated([]customer.Customer{
		{ID: "CID1"}, {ID: "CID2"},
	}, 12, 2, 10), nil)

	result, err := service.List(ctx, testPrincipal(), params)

	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 2, result.TotalPages)
	assert.Equal(t, int64(12), result.Total)
	mockRepo.AssertExpectations(t)
}

func TestCustomerService_List_EmptyDirectory(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	mockRepo.On("List", mock.Anything, mock.Anything).Return(shared.NewPaginated[customer.Customer](nil, 0, 1, 10), nil)

	result, err := service.List(ctx, testPrincipal(), customer.DirectoryParams{Page: "-5", Search: ""})

	require.NoError(t, err)
	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
	assert.Equal(t, 1, result.TotalPages)
	assert.Equal(t, 1, result.Page)
}

func TestCustomerService_List_PassesRepositoryPagingThrough(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)

	mockRepo.On("List", mock.Anything, mock.Anything).Return(shared.Paginated[customer.Customer]{
		Items:      []customer.Customer{{ID: "CID240601103045"}},
		Total:      31,
		Page:       4,
		PageSize:   10,
		TotalPages: 7,
	}, nil)

	result, err := service.List(context.Background(), testPrincipal(), customer.DirectoryParams{Page: "4"})

	require.NoError(t, err)
	assert.Equal(t, 7, result.TotalPages)
	assert.Equal(t, 4, result.Page)
	assert.Equal(t, 10, result.PageSize)
	assert.Equal(t, int64(31), result.Total)
}

func TestCustomerService_List_WithoutPrincipal(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)

	_, err := service.List(context.Background(), nil, customer.DirectoryParams{})

	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	mockRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestCustomerService_List_StorageFailure(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)
	ctx := context.Background()

	mockRepo.On("List", mock.Anything, mock.Anything).Return(shared.Paginated[customer.Customer]{}, errors.New("db down"))

	_, err := service.List(ctx, testPrincipal(), customer.DirectoryParams{})

	assert.ErrorIs(t, err, shared.ErrStorageFailure)
}

// =============================================================================
// Observability
// =============================================================================

type observation struct {
	op      string
	outcome string
}

type fakeMetrics struct {
	operations []observation
	rejections []string
}

func (f *fakeMetrics) ObserveOperation(_ context.Context, op, outcome string, _ time.Duration) {
	f.operations = append(f.operations, observation{op: op, outcome: outcome})
}

func (f *fakeMetrics) ObserveRejection(_ context.Context, code string) {
	f.rejections = append(f.rejections, code)
}

func TestCustomerService_Metrics(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)
	metrics := &fakeMetrics{}
	service.SetMetrics(metrics)
	ctx := context.Background()

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	mockRepo.On("FindByID", mock.Anything, "CID000000000000").Return(nil, shared.ErrNotFound).Once()

	_, err := service.Create(ctx, testPrincipal(), CreateCustomerRequest{CustomerDraft: validDraft()})
	require.NoError(t, err)

	bad := validDraft()
	bad.GSTIN = "bad"
	_, err = service.Create(ctx, testPrincipal(), CreateCustomerRequest{CustomerDraft: bad})
	require.Error(t, err)

	_, err = service.GetByID(ctx, testPrincipal(), "CID000000000000")
	require.Error(t, err)

	_, err = service.List(ctx, nil, customer.DirectoryParams{})
	require.Error(t, err)

	assert.Equal(t, []observation{
		{op: "create", outcome: "ok"},
		{op: "create", outcome: "validation"},
		{op: "get", outcome: "not_found"},
		{op: "list", outcome: "unauthenticated"},
	}, metrics.operations)
	assert.Equal(t, []string{customer.CodeInvalidGSTIN}, metrics.rejections)
}

func TestCustomerService_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})

	mockRepo := new(MockCustomerRepository)
	service := newTestService(mockRepo)
	mockRepo.On("Delete", mock.Anything, "CID240601103045").Return(errors.New("db down"))

	err := service.Delete(context.Background(), testPrincipal(), "CID240601103045")
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "customer.delete", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}
