package customer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/erp/custadmin/internal/domain/customer"
	"github.com/erp/custadmin/internal/domain/shared"
	"github.com/erp/custadmin/internal/infrastructure/logger"
	"github.com/erp/custadmin/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// MetricsRecorder receives one observation per use case call.
// telemetry.CustomerMetrics implements it.
type MetricsRecorder interface {
	ObserveOperation(ctx context.Context, op, outcome string, elapsed time.Duration)
	ObserveRejection(ctx context.Context, code string)
}

// CustomerService handles customer admission and directory queries.
// Every operation requires an authenticated principal.
type CustomerService struct {
	repo    customer.Repository
	ids     *customer.IDGenerator
	planner *customer.Planner
	metrics MetricsRecorder
	now     func() time.Time
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(repo customer.Repository, ids *customer.IDGenerator, planner *customer.Planner) *CustomerService {
	if ids == nil {
		ids = customer.NewIDGenerator(customer.SystemClock{})
	}
	if planner == nil {
		planner = customer.NewPlanner(customer.DefaultRecognizedColumns(), customer.DefaultPageSize)
	}
	return &CustomerService{
		repo:    repo,
		ids:     ids,
		planner: planner,
		now:     time.Now,
	}
}

// SetMetrics sets the recorder for use case metrics
func (s *CustomerService) SetMetrics(m MetricsRecorder) {
	s.metrics = m
}

// Create validates a draft, assigns an identifier when none is given and stores it
func (s *CustomerService) Create(ctx context.Context, principal *shared.Principal, req CreateCustomerRequest) (_ *CustomerResponse, err error) {
	ctx, span, finish := s.begin(ctx, "create")
	defer func() { finish(err) }()

	if principal == nil {
		return nil, shared.ErrUnauthenticated
	}

	rec := req.ToDomain()
	if err := s.admit(ctx, rec); err != nil {
		return nil, err
	}

	rec.ID = strings.TrimSpace(req.ID)
	if !rec.HasID() {
		rec.ID = s.ids.Generate()
	} else if !customer.IsValidCustomerID(rec.ID) {
		return nil, s.reject(ctx, shared.NewValidationError("id", customer.CodeInvalidCustomerID,
			"Customer ID must be CID followed by YYMMDDHHMMSS"))
	}
	span.SetAttributes(attribute.String("customer_id", rec.ID))
	ctx = logger.WithCustomerID(ctx, rec.ID)
	now := s.now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, s.storageError(ctx, "create", err)
	}

	logger.FromContext(ctx).Info("customer created",
		zap.String("principal", principal.Subject),
	)
	response := ToCustomerResponse(rec)
	return &response, nil
}

// Update re-validates the full record and replaces the stored customer.
// The identifier comes from the caller and is never regenerated.
func (s *CustomerService) Update(ctx context.Context, principal *shared.Principal, id string, req UpdateCustomerRequest) (_ *CustomerResponse, err error) {
	ctx, span, finish := s.begin(ctx, "update")
	defer func() { finish(err) }()
	span.SetAttributes(attribute.String("customer_id", id))
	ctx = logger.WithCustomerID(ctx, id)

	if principal == nil {
		return nil, shared.ErrUnauthenticated
	}

	rec := req.ToDomain()
	if err := s.admit(ctx, rec); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.storageError(ctx, "find", err)
	}

	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, s.storageError(ctx, "update", err)
	}

	logger.FromContext(ctx).Info("customer updated",
		zap.String("principal", principal.Subject),
	)
	response := ToCustomerResponse(rec)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, principal *shared.Principal, id string) (_ *CustomerResponse, err error) {
	ctx, span, finish := s.begin(ctx, "get")
	defer func() { finish(err) }()
	span.SetAttributes(attribute.String("customer_id", id))
	ctx = logger.WithCustomerID(ctx, id)

	if principal == nil {
		return nil, shared.ErrUnauthenticated
	}

	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.storageError(ctx, "find", err)
	}

	response := ToCustomerResponse(rec)
	return &response, nil
}

// Delete removes a customer by ID
func (s *CustomerService) Delete(ctx context.Context, principal *shared.Principal, id string) (err error) {
	ctx, span, finish := s.begin(ctx, "delete")
	defer func() { finish(err) }()
	span.SetAttributes(attribute.String("customer_id", id))
	ctx = logger.WithCustomerID(ctx, id)

	if principal == nil {
		return shared.ErrUnauthenticated
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storageError(ctx, "delete", err)
	}

	logger.FromContext(ctx).Info("customer deleted",
		zap.String("principal", principal.Subject),
	)
	return nil
}

// List plans the directory query from raw parameters and returns one page
func (s *CustomerService) List(ctx context.Context, principal *shared.Principal, params customer.DirectoryParams) (_ *PageEnvelope, err error) {
	ctx, span, finish := s.begin(ctx, "list")
	defer func() { finish(err) }()

	if principal == nil {
		return nil, shared.ErrUnauthenticated
	}

	q := s.planner.Plan(params)
	span.SetAttributes(attribute.Int("page", q.Page), attribute.Bool("filtered", q.Filter != nil))

	page, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, s.storageError(ctx, "list", err)
	}

	items := make([]CustomerResponse, len(page.Items))
	for i := range page.Items {
		items[i] = ToCustomerResponse(&page.Items[i])
	}

	return &PageEnvelope{
		Items:      items,
		TotalPages: page.TotalPages,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      page.Total,
	}, nil
}

// admit runs the record validator
func (s *CustomerService) admit(ctx context.Context, rec *customer.Customer) error {
	if err := customer.ValidateCustomerRecord(rec); err != nil {
		return s.reject(ctx, err)
	}
	return nil
}

// reject logs a refused record and counts the rule that refused it
func (s *CustomerService) reject(ctx context.Context, err error) error {
	logger.FromContext(ctx).Debug("customer record rejected", zap.Error(err))
	var verr *shared.ValidationError
	if s.metrics != nil && errors.As(err, &verr) {
		s.metrics.ObserveRejection(ctx, verr.Code)
	}
	return err
}

// begin opens the span for a use case. The returned func closes it and
// records the outcome.
func (s *CustomerService) begin(ctx context.Context, op string) (context.Context, trace.Span, func(error)) {
	start := s.now()
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", op)
	return ctx, span, func(err error) {
		defer span.End()
		outcome := "ok"
		if err != nil {
			outcome = string(shared.KindOf(err))
			if outcome == "" {
				outcome = "error"
			}
			telemetry.RecordError(span, err)
		}
		if s.metrics != nil {
			s.metrics.ObserveOperation(ctx, op, outcome, s.now().Sub(start))
		}
	}
}

// storageError passes not-found and conflict through and hides everything
// else behind an opaque storage failure
func (s *CustomerService) storageError(ctx context.Context, op string, err error) error {
	switch shared.KindOf(err) {
	case shared.KindNotFound, shared.KindConflict:
		return err
	}
	logger.FromContext(ctx).Error("customer repository failure", zap.String("op", op), zap.Error(err))
	return shared.NewStorageFailure(err)
}
