// Package catalog holds the immutable registry of known medications,
// their parsing rules, display themes and per-user configuration.
package catalog

import (
	"errors"
	"fmt"
	"hash/crc32"
	"sort"
	"strings"

	"github.com/penwyp/go-dose-monitor/internal/core/model"
)

var (
	ErrDuplicateID       = errors.New("duplicate medication id")
	ErrInvalidEntry      = errors.New("invalid medication entry")
	ErrUnknownTheme      = errors.New("unknown theme")
	ErrUnknownMedication = errors.New("unknown medication")
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
)

// Theme is a named display color
type Theme struct {
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// UserConfig is the per-user selection of limits and visualized medications
type UserConfig struct {
	ID                    string
	GlobalLimits          []model.GlobalLimit
	VisualizedMedications []*Entry
}

// UserSpec declares a user by medication ids, resolved when the catalog is built
type UserSpec struct {
	ID                    string              `json:"id" yaml:"id"`
	GlobalLimits          []model.GlobalLimit `json:"globalLimits" yaml:"globalLimits"`
	VisualizedMedications []string            `json:"visualizedMedications" yaml:"visualizedMedications"`
}

// Catalog is safe for concurrent reads and never changes after New returns
type Catalog struct {
	entries []*Entry
	byID    map[string]*Entry
	themes  map[string]Theme
	users   map[string]*UserConfig
	version string
}

// Option configures a Catalog under construction
type Option func(*builder)

type builder struct {
	themes  []Theme
	users   []UserSpec
	version string
}

// WithThemes registers display themes. Once any theme is registered every entry must reference one.
func WithThemes(themes ...Theme) Option {
	return func(b *builder) {
		b.themes = append(b.themes, themes...)
	}
}

// WithUsers registers per-user configurations
func WithUsers(users ...UserSpec) Option {
	return func(b *builder) {
		b.users = append(b.users, users...)
	}
}

// WithVersion overrides the content-derived version string
func WithVersion(version string) Option {
	return func(b *builder) {
		b.version = version
	}
}

// New validates the entries and freezes them in declaration order
func New(entries []*Entry, opts ...Option) (*Catalog, error) {
	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}

	c := &Catalog{
		entries: make([]*Entry, 0, len(entries)),
		byID:    make(map[string]*Entry, len(entries)),
		themes:  make(map[string]Theme, len(b.themes)),
		users:   make(map[string]*UserConfig, len(b.users)),
	}

	for _, theme := range b.themes {
		if theme.Name == "" {
			return nil, fmt.Errorf("%w: theme without name", ErrInvalidEntry)
		}
		c.themes[theme.Name] = theme
	}

	for i, entry := range entries {
		if err := c.validateEntry(entry); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if _, exists := c.byID[entry.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, entry.ID)
		}
		if entry.DisplayName == "" {
			entry.DisplayName = entry.ID
		}
		c.entries = append(c.entries, entry)
		c.byID[entry.ID] = entry
	}

	for _, spec := range b.users {
		user, err := c.resolveUser(spec)
		if err != nil {
			return nil, err
		}
		c.users[user.ID] = user
	}

	c.version = b.version
	if c.version == "" {
		c.version = c.fingerprint()
	}

	return c, nil
}

func (c *Catalog) validateEntry(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: nil entry", ErrInvalidEntry)
	}
	if strings.TrimSpace(entry.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidEntry)
	}
	if strings.HasPrefix(entry.ID, model.UnconfiguredPrefix) {
		return fmt.Errorf("%w: id %q uses reserved prefix %q", ErrInvalidEntry, entry.ID, model.UnconfiguredPrefix)
	}
	if len(entry.Patterns) == 0 {
		return fmt.Errorf("%w: %s has no patterns", ErrInvalidEntry, entry.ID)
	}
	if entry.Extractor == nil {
		return fmt.Errorf("%w: %s has no extractor", ErrInvalidEntry, entry.ID)
	}
	if entry.ActiveDuration != nil && entry.ActiveDuration.Typical <= 0 {
		return fmt.Errorf("%w: %s typical duration must be positive", ErrInvalidEntry, entry.ID)
	}
	for _, sd := range entry.StandardDoses {
		if sd.Amount <= 0 {
			return fmt.Errorf("%w: %s standard dose %q must be positive", ErrInvalidEntry, entry.ID, sd.Label)
		}
	}
	if len(c.themes) > 0 {
		if _, ok := c.themes[entry.Theme]; !ok {
			return fmt.Errorf("%w: %s references %q", ErrUnknownTheme, entry.ID, entry.Theme)
		}
	}
	return nil
}

func (c *Catalog) resolveUser(spec UserSpec) (*UserConfig, error) {
	if spec.ID == "" {
		return nil, fmt.Errorf("%w: user without id", ErrInvalidEntry)
	}
	user := &UserConfig{
		ID:           spec.ID,
		GlobalLimits: append([]model.GlobalLimit(nil), spec.GlobalLimits...),
	}
	for _, limit := range spec.GlobalLimits {
		if limit.IngredientName == "" || limit.MaxAmount <= 0 || limit.WindowHours <= 0 {
			return nil, fmt.Errorf("%w: user %s has an incomplete limit for %q", ErrInvalidEntry, spec.ID, limit.IngredientName)
		}
	}
	for _, id := range spec.VisualizedMedications {
		entry, ok := c.byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: user %s visualizes %q", ErrUnknownMedication, spec.ID, id)
		}
		user.VisualizedMedications = append(user.VisualizedMedications, entry)
	}
	return user, nil
}

// fingerprint hashes the declarative part of the entries
func (c *Catalog) fingerprint() string {
	h := crc32.NewIEEE()
	for _, e := range c.entries {
		fmt.Fprintf(h, "%s|%s|%s|", e.ID, e.DisplayName, e.Theme)
		for _, p := range e.Patterns {
			fmt.Fprintf(h, "%s;", p.String())
		}
		if e.ActiveDuration != nil {
			fmt.Fprintf(h, "|%g", e.ActiveDuration.Typical)
		}
		fmt.Fprintf(h, "|%v|%v\n", e.Ingredients, e.StandardDoses)
	}
	return fmt.Sprintf("%08x", h.Sum32())
}

// Entries returns the entries in declaration order
func (c *Catalog) Entries() []*Entry {
	out := make([]*Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Entry looks up an entry by id
func (c *Catalog) Entry(id string) (*Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Version identifies the catalog content for cache keys
func (c *Catalog) Version() string {
	return c.version
}

// Select returns the entries with the given ids in declaration order, ignoring unknown ids
func (c *Catalog) Select(ids ...string) []*Entry {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*Entry
	for _, e := range c.entries {
		if want[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

// Theme looks up a theme by name
func (c *Catalog) Theme(name string) (Theme, bool) {
	t, ok := c.themes[name]
	return t, ok
}

// Themes returns the registered themes sorted by name
func (c *Catalog) Themes() []Theme {
	out := make([]Theme, 0, len(c.themes))
	for _, t := range c.themes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// UserIDs returns the configured user ids, sorted
func (c *Catalog) UserIDs() []string {
	ids := make([]string, 0, len(c.users))
	for id := range c.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetUserMedicationConfig returns the user's configuration, or false when none exists
func (c *Catalog) GetUserMedicationConfig(userID string) (*UserConfig, bool) {
	user, ok := c.users[userID]
	return user, ok
}

// VisualizedIDs returns the ids of the user's visualized medications
func (u *UserConfig) VisualizedIDs() []string {
	ids := make([]string, 0, len(u.VisualizedMedications))
	for _, e := range u.VisualizedMedications {
		ids = append(ids, e.ID)
	}
	return ids
}
