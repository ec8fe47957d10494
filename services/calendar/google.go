package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"massobook/config"
	"massobook/models"
	"massobook/utils"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ServiceFactory builds a Calendar API client authorized for scope.
type ServiceFactory func(ctx context.Context, scope string) (*gcalendar.Service, error)

// GoogleGateway talks to Google Calendar. It keeps no session between calls:
// every operation authenticates with the service account for the scope it needs.
type GoogleGateway struct {
	calendarID string
	timeZone   string
	newService ServiceFactory
	logger     *zap.Logger
}

// GatewayConfig configures the service-account backed gateway.
type GatewayConfig struct {
	Credentials string // raw service-account JSON
	CalendarID  string
	TimeZone    string
	Endpoint    string // optional API endpoint override
	Logger      *zap.Logger
}

func NewGoogleGateway(cfg GatewayConfig) *GoogleGateway {
	return NewGoogleGatewayWithFactory(cfg.CalendarID, cfg.TimeZone, ServiceAccountFactory(cfg.Credentials, cfg.Endpoint), cfg.Logger)
}

func NewGoogleGatewayWithFactory(calendarID, timeZone string, factory ServiceFactory, logger *zap.Logger) *GoogleGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleGateway{
		calendarID: calendarID,
		timeZone:   timeZone,
		newService: factory,
		logger:     logger,
	}
}

// ServiceAccountFactory authorizes with a JWT signed by the service account key.
// Missing or malformed credentials are configuration errors; a refused token is an upstream error.
func ServiceAccountFactory(rawCredentials, endpoint string) ServiceFactory {
	return func(ctx context.Context, scope string) (*gcalendar.Service, error) {
		sa, err := config.ParseServiceAccount(rawCredentials)
		if err != nil {
			return nil, utils.NewConfigurationError("calendar credentials unavailable", err)
		}

		tokenURL := google.JWTTokenURL
		if sa.TokenURI != "" {
			tokenURL = sa.TokenURI
		}
		jwtCfg := &jwt.Config{
			Email:      sa.ClientEmail,
			PrivateKey: []byte(sa.PrivateKey),
			Scopes:     []string{scope},
			TokenURL:   tokenURL,
		}
		ts := oauth2.ReuseTokenSource(nil, jwtCfg.TokenSource(ctx))
		if _, err := ts.Token(); err != nil {
			// the oauth2 package flattens transport errors, so check the context directly
			if ctx.Err() != nil {
				return nil, utils.NewUnavailableError("calendar authentication timed out", ctx.Err())
			}
			return nil, utils.NewUpstreamError("calendar authentication failed", err)
		}

		opts := []option.ClientOption{option.WithTokenSource(ts)}
		if endpoint != "" {
			opts = append(opts, option.WithEndpoint(endpoint))
		}
		svc, err := gcalendar.NewService(ctx, opts...)
		if err != nil {
			return nil, utils.NewUpstreamError("calendar client unavailable", err)
		}
		return svc, nil
	}
}

func (g *GoogleGateway) service(ctx context.Context, scope string) (*gcalendar.Service, error) {
	if g.calendarID == "" {
		return nil, utils.NewConfigurationError("calendar id is not configured", nil)
	}
	if g.newService == nil {
		return nil, utils.NewConfigurationError("calendar client is not configured", nil)
	}
	return g.newService(ctx, scope)
}

// BusyIntervals lists the provider's non-cancelled events in [from, to), recurring events expanded.
func (g *GoogleGateway) BusyIntervals(ctx context.Context, from, to time.Time) ([]models.BusyInterval, error) {
	svc, err := g.service(ctx, ScopeReadOnly)
	if err != nil {
		return nil, err
	}

	var busy []models.BusyInterval
	call := svc.Events.List(g.calendarID).
		TimeMin(from.UTC().Format(time.RFC3339)).
		TimeMax(to.UTC().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		ShowDeleted(false)

	err = call.Pages(ctx, func(page *gcalendar.Events) error {
		for _, item := range page.Items {
			interval, ok, err := toBusyInterval(item)
			if err != nil {
				return err
			}
			if ok {
				busy = append(busy, interval)
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapCallError("list calendar events", err)
	}

	g.logger.Debug("calendar events fetched",
		zap.Time("from", from), zap.Time("to", to), zap.Int("busy", len(busy)))
	return busy, nil
}

// CreateEvent inserts the event and asks Google to notify any attendees.
func (g *GoogleGateway) CreateEvent(ctx context.Context, draft EventDraft) (CreatedEvent, error) {
	svc, err := g.service(ctx, ScopeReadWrite)
	if err != nil {
		return CreatedEvent{}, err
	}
	if draft.TimeZone == "" {
		draft.TimeZone = g.timeZone
	}

	created, err := svc.Events.Insert(g.calendarID, toGoogleEvent(draft)).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return CreatedEvent{}, wrapCallError("create calendar event", err)
	}

	g.logger.Info("calendar event created", zap.String("eventId", created.Id))
	return CreatedEvent{ID: created.Id, HTMLLink: created.HtmlLink}, nil
}

func wrapCallError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return utils.NewUnavailableError("calendar service timed out", fmt.Errorf("%s: %w", op, err))
	}
	return utils.NewUpstreamError("calendar service failed", fmt.Errorf("%s: %w", op, err))
}
