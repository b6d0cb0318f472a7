package deadline

import (
	"log/slog"
	"time"

	"github.com/scrypster/caseflow/internal/ids"
	"github.com/scrypster/caseflow/pkg/types"
)

// DefaultPreparationDays is used when a request leaves preparation time unset.
const DefaultPreparationDays = 7

// Options configures an Engine. Zero values select defaults.
type Options struct {
	// Rules is the rule repository (default: NewRepository()).
	Rules *Repository

	// Holidays is the court holiday calendar (default: Holidays2025).
	Holidays HolidayCalendar

	// IDs generates alert ids (default: ids.UUIDProvider).
	IDs ids.Provider

	// Now returns the current time (default: time.Now). It only affects risk
	// levels and alert triggering.
	Now func() time.Time

	// DefaultPreparationDays overrides DefaultPreparationDays when positive.
	DefaultPreparationDays int

	Logger *slog.Logger
}

// Engine computes deadlines and the alerts derived from them.
type Engine struct {
	rules    *Repository
	holidays HolidayCalendar
	ids      ids.Provider
	now      func() time.Time
	prepDays int
	logger   *slog.Logger
}

// New creates an Engine.
func New(opts Options) *Engine {
	if opts.Rules == nil {
		opts.Rules = NewRepository()
	}
	if opts.Holidays == nil {
		opts.Holidays = Holidays2025
	}
	if opts.IDs == nil {
		opts.IDs = ids.UUIDProvider{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultPreparationDays <= 0 {
		opts.DefaultPreparationDays = DefaultPreparationDays
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Engine{
		rules:    opts.Rules,
		holidays: opts.Holidays,
		ids:      opts.IDs,
		now:      opts.Now,
		prepDays: opts.DefaultPreparationDays,
		logger:   opts.Logger,
	}
}

// Rules returns the engine's rule repository.
func (e *Engine) Rules() *Repository {
	return e.rules
}

// GetAvailableJurisdictions lists the jurisdictions with rules.
func (e *Engine) GetAvailableJurisdictions() []string {
	return e.rules.Jurisdictions()
}

// GetJurisdictionRules returns the rules of one jurisdiction.
func (e *Engine) GetJurisdictionRules(jurisdiction string) []types.DeadlineRule {
	return e.rules.Rules(jurisdiction)
}
