package continent

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

// Resolution is a continent together with the step that produced it.
type Resolution struct {
	Continent domain.Continent
	Outcome   domain.Outcome
}

// Unresolved is the sentinel resolution for null or unplaceable countries.
var Unresolved = Resolution{Continent: domain.Unknown, Outcome: domain.OutcomeUnresolved}

// Resolver maps a country name to a continent. Implementations are total:
// they never fail and always return one of the seven continents or Unknown.
type Resolver interface {
	Resolve(country *string) Resolution
}

// KeyedResolver is a Resolver that can name its own configuration. Two
// resolvers with equal keys resolve every name identically, so enriched tables
// built with one can be reused with the other.
type KeyedResolver interface {
	Resolver
	CacheKey() string
}

// chainVersion changes whenever ChainResolver's resolution steps change.
const chainVersion = "chain/v1"

// ChainResolver tries the override table, then name standardization, then
// falls back to Unknown.
type ChainResolver struct {
	overrides    Overrides
	standardizer Standardizer
	table        *Table
	logger       *slog.Logger
}

// NewResolver creates a ChainResolver over the built-in country table and
// the biter777/countries standardizer.
func NewResolver(overrides Overrides, logger *slog.Logger) *ChainResolver {
	table := BuiltinTable()
	return NewChainResolver(overrides, NewLibraryStandardizer(table), table, logger)
}

// NewChainResolver creates a ChainResolver with explicit collaborators.
func NewChainResolver(overrides Overrides, std Standardizer, table *Table, logger *slog.Logger) *ChainResolver {
	return &ChainResolver{
		overrides:    overrides,
		standardizer: std,
		table:        table,
		logger:       logger,
	}
}

// CacheKey covers the resolution steps, the override table, and the country
// table.
func (r *ChainResolver) CacheKey() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\noverrides=%s\n", chainVersion, r.overrides.Digest())
	if r.table != nil {
		fmt.Fprintf(h, "table=%s\n", r.table.Digest())
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (r *ChainResolver) Resolve(country *string) Resolution {
	if country == nil {
		return Unresolved
	}
	name := strings.TrimSpace(*country)
	if name == "" {
		return Unresolved
	}

	if c, ok := r.overrides[name]; ok {
		return Resolution{Continent: c, Outcome: domain.OutcomeResolved}
	}

	c, err := r.standardize(name)
	if err != nil {
		r.logger.Debug("continent unresolved", "country", name, "error", err)
		return Unresolved
	}
	return Resolution{Continent: c, Outcome: domain.OutcomeFallback}
}

// standardize runs the library-assisted path. A panic inside the standardizer
// is converted into an error.
func (r *ChainResolver) standardize(name string) (c domain.Continent, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			c, err = "", fmt.Errorf("standardize %q: panic: %v", name, rec)
		}
	}()

	a2, ok := r.standardizer.Alpha2(name)
	if !ok {
		return "", fmt.Errorf("no iso code for %q", name)
	}
	ci, ok := r.table.ByAlpha2(a2)
	if !ok {
		return "", fmt.Errorf("no continent for iso code %q", a2)
	}
	return ci.Continent, nil
}

var (
	_ KeyedResolver = (*ChainResolver)(nil)
	_ KeyedResolver = (*CachedResolver)(nil)
)
