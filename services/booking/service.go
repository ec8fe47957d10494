package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"massobook/models"
	"massobook/services/availability"
	"massobook/services/calendar"
	"massobook/services/notification"
	"massobook/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	successMessage = "Prenotazione effettuata e evento creato!"

	defaultCalendarTimeout = 5 * time.Second
)

// Archive stores created bookings for later reference.
type Archive interface {
	Insert(ctx context.Context, record models.BookingRecord) error
}

// Service creates bookings on the provider's calendar.
type Service struct {
	gateway    calendar.Gateway
	tz         *availability.TimezoneConverter
	guard      Guard
	dispatcher notification.Dispatcher
	archive    Archive
	prefix     string
	timeout    time.Duration
	validate   *validator.Validate
	now        func() time.Time
	newID      func() string
	logger     *zap.Logger
}

type Option func(*Service)

func WithGuard(g Guard) Option {
	return func(s *Service) { s.guard = g }
}

func WithDispatcher(d notification.Dispatcher) Option {
	return func(s *Service) { s.dispatcher = d }
}

func WithArchive(a Archive) Option {
	return func(s *Service) { s.archive = a }
}

func WithSummaryPrefix(prefix string) Option {
	return func(s *Service) { s.prefix = prefix }
}

// WithTimeout bounds the calendar write. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(gateway calendar.Gateway, tz *availability.TimezoneConverter, opts ...Option) *Service {
	v := validator.New()
	// same rules the HTTP binding enforces
	v.SetTagName("binding")

	s := &Service{
		gateway:  gateway,
		tz:       tz,
		guard:    NoGuard{},
		prefix:   DefaultSummaryPrefix,
		timeout:  defaultCalendarTimeout,
		validate: v,
		now:      time.Now,
		newID:    uuid.NewString,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBooking validates the request, writes a tentative event and then, best-effort,
// archives the booking and sends the confirmation email.
func (s *Service) CreateBooking(ctx context.Context, input models.BookingRequestInput) (models.BookingResponse, error) {
	record, err := s.newRecord(input)
	if err != nil {
		return models.BookingResponse{}, err
	}
	logger := s.logger.With(zap.String("bookingId", record.ID),
		zap.String("date", record.BookingDate), zap.String("time", record.BookingTime))

	release, err := s.guard.Acquire(ctx, record.Date, record.Start)
	if err != nil {
		logger.Info("booking rejected by guard", zap.Error(err))
		return models.BookingResponse{}, err
	}
	defer release()

	draft := BuildEvent(record, s.tz, s.prefix)
	created, err := s.createEvent(ctx, draft)
	if err != nil {
		logger.Error("calendar event creation failed", zap.Error(err))
		return models.BookingResponse{}, err
	}

	record.StartUTC = draft.Start
	record.EndUTC = draft.End
	record.EventID = created.ID
	record.EventLink = created.HTMLLink
	logger.Info("booking created", zap.String("eventId", created.ID))

	s.archiveRecord(ctx, record, logger)
	s.sendConfirmation(ctx, record, logger)

	return models.BookingResponse{
		Success:   true,
		Message:   successMessage,
		EventLink: record.EventLink,
		BookingID: record.ID,
	}, nil
}

func (s *Service) createEvent(ctx context.Context, draft calendar.EventDraft) (calendar.CreatedEvent, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	created, err := s.gateway.CreateEvent(callCtx, draft)
	if err == nil {
		return created, nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		if utils.KindOf(err) != utils.KindUnavailable {
			err = utils.NewUnavailableError("calendar service timed out", err)
		}
		return calendar.CreatedEvent{}, err
	}
	if utils.KindOf(err) == utils.KindInternal {
		err = utils.NewUpstreamError("calendar service failed", err)
	}
	return calendar.CreatedEvent{}, err
}

func (s *Service) newRecord(input models.BookingRequestInput) (models.BookingRecord, error) {
	input = trimInput(input)
	if err := s.validate.Struct(input); err != nil {
		return models.BookingRecord{}, utils.NewValidationError(DescribeValidation(err), err)
	}

	date, err := models.ParseCivilDate(input.BookingDate)
	if err != nil {
		return models.BookingRecord{}, utils.NewValidationError("booking_date must be YYYY-MM-DD", err)
	}
	start, err := models.ParseTimeOfDay(input.BookingTime)
	if err != nil {
		return models.BookingRecord{}, utils.NewValidationError("booking_time must be HH:MM", err)
	}

	return models.BookingRecord{
		ID:          s.newID(),
		Name:        input.Name,
		Surname:     input.Surname,
		Phone:       input.Phone,
		Email:       input.Email,
		Birthdate:   input.Birthdate,
		Date:        date,
		Start:       start,
		BookingDate: date.String(),
		BookingTime: start.String(),
		Reason:      input.Message,
		Status:      calendar.StatusTentative,
		CreatedAt:   s.now().UTC(),
	}, nil
}

func trimInput(in models.BookingRequestInput) models.BookingRequestInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Birthdate = strings.TrimSpace(in.Birthdate)
	in.BookingDate = strings.TrimSpace(in.BookingDate)
	in.BookingTime = strings.TrimSpace(in.BookingTime)
	return in
}

// DescribeValidation names the offending fields by their JSON names.
func DescribeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid booking request"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, jsonFieldName(fe.Field()))
	}
	return "missing or invalid fields: " + strings.Join(fields, ", ")
}

func jsonFieldName(field string) string {
	switch field {
	case "BookingDate":
		return "booking_date"
	case "BookingTime":
		return "booking_time"
	default:
		return strings.ToLower(field)
	}
}

func (s *Service) archiveRecord(ctx context.Context, record models.BookingRecord, logger *zap.Logger) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Insert(ctx, record); err != nil {
		logger.Warn("booking archive failed", zap.Error(err))
	}
}

func (s *Service) sendConfirmation(ctx context.Context, record models.BookingRecord, logger *zap.Logger) {
	if s.dispatcher == nil {
		logger.Warn("confirmation email skipped: no dispatcher configured")
		return
	}
	payload := models.ConfirmationPayload{
		BookingID: record.ID,
		To:        record.Email,
		Name:      record.Name,
		Surname:   record.Surname,
		Date:      record.BookingDate,
		Time:      record.BookingTime,
	}
	if err := s.dispatcher.Dispatch(ctx, payload); err != nil {
		logger.Warn("confirmation email failed", zap.Error(err))
	}
}
