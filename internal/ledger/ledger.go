// Package ledger persists the streak record, the cached daily selection and
// user settings on top of a storage.Provider.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/julianstephens/potd/internal/constants"
	"github.com/julianstephens/potd/internal/logger"
	"github.com/julianstephens/potd/internal/models"
	"github.com/julianstephens/potd/internal/storage"
	"github.com/julianstephens/potd/internal/storage/jsonfile"
	"github.com/julianstephens/potd/internal/storage/sqlite"
)

// State is everything the ledger holds, as of one Load.
type State struct {
	Streak    models.StreakRecord
	Selection *models.DailySelection
	Settings  models.Settings
}

// Update is a partial write. Nil fields are left untouched.
type Update struct {
	Streak    *models.StreakRecord
	Selection *models.DailySelection
	Settings  *models.Settings
}

type Ledger struct {
	store storage.Provider
	mu    sync.Mutex
}

func New(store storage.Provider) *Ledger {
	return &Ledger{store: store}
}

// OpenProvider picks the backend from the ledger path: a .json file uses the
// flat file store, anything else is a SQLite database.
func OpenProvider(path string) storage.Provider {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return jsonfile.NewStore(path)
	}
	return sqlite.NewStore(path)
}

func (l *Ledger) Provider() storage.Provider {
	return l.store
}

// get decodes key into v. Absent and malformed values both report false.
func (l *Ledger) get(key string, v any) (bool, error) {
	data, err := l.store.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("Discarding malformed ledger value", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

// Load reads every key. A streak record whose max is below its count, or
// whose history is unsorted or duplicated, is repaired and written back.
func (l *Ledger) Load() (State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var st State
	var err error

	if st.Streak, err = l.loadStreakLocked(); err != nil {
		return State{}, err
	}
	if st.Selection, err = l.loadSelectionLocked(); err != nil {
		return State{}, err
	}
	if st.Settings, err = l.loadSettingsLocked(); err != nil {
		return State{}, err
	}
	return st, nil
}

func (l *Ledger) loadStreakLocked() (models.StreakRecord, error) {
	var raw models.StreakRecord
	if _, err := l.get(constants.KeyStreakData, &raw); err != nil {
		return models.StreakRecord{}, fmt.Errorf("failed to load streak: %w", err)
	}

	healed := raw.Normalized()
	if needsHeal(raw, healed) {
		logger.Info("Repairing streak record", "count", raw.Count, "max", raw.Max, "new_max", healed.Max)
		if err := l.putLocked(map[string]any{constants.KeyStreakData: healed}); err != nil {
			return models.StreakRecord{}, fmt.Errorf("failed to repair streak: %w", err)
		}
	}
	return healed, nil
}

func needsHeal(raw, healed models.StreakRecord) bool {
	if raw.Max != healed.Max || len(raw.History) != len(healed.History) {
		return true
	}
	for i := range raw.History {
		if raw.History[i] != healed.History[i] {
			return true
		}
	}
	return false
}

func (l *Ledger) loadSelectionLocked() (*models.DailySelection, error) {
	var sel models.DailySelection
	ok, err := l.get(constants.KeyPOTDData, &sel)
	if err != nil {
		return nil, fmt.Errorf("failed to load selection: %w", err)
	}
	if !ok || sel.Date == "" {
		return nil, nil
	}
	return &sel, nil
}

func (l *Ledger) loadSettingsLocked() (models.Settings, error) {
	var s models.Settings
	if _, err := l.get(constants.KeySettings, &s); err != nil {
		return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if s.Timezone == "" {
		s.Timezone = constants.DefaultTimezone
	}
	return s, nil
}

// LoadStreak re-reads the streak record from storage.
func (l *Ledger) LoadStreak() (models.StreakRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadStreakLocked()
}

func (l *Ledger) LoadSelection() (*models.DailySelection, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadSelectionLocked()
}

func (l *Ledger) GetSettings() (models.Settings, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadSettingsLocked()
}

func (l *Ledger) SaveStreak(rec models.StreakRecord) error {
	return l.Save(Update{Streak: &rec})
}

func (l *Ledger) SaveSelection(sel models.DailySelection) error {
	return l.Save(Update{Selection: &sel})
}

func (l *Ledger) SaveSettings(s models.Settings) error {
	return l.Save(Update{Settings: &s})
}

// Save writes the non-nil parts of u in one storage call.
func (l *Ledger) Save(u Update) error {
	values := make(map[string]any, 3)
	if u.Streak != nil {
		values[constants.KeyStreakData] = u.Streak.Normalized()
	}
	if u.Selection != nil {
		values[constants.KeyPOTDData] = *u.Selection
	}
	if u.Settings != nil {
		values[constants.KeySettings] = *u.Settings
	}
	if len(values) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.putLocked(values)
}

func (l *Ledger) putLocked(values map[string]any) error {
	entries := make(map[string][]byte, len(values))
	for k, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", k, err)
		}
		entries[k] = data
	}
	return l.store.SetMany(entries)
}

// SelectionValid reports whether a cached selection can be served for the
// given day and handle. A handle-less request accepts any selection made for
// the day; a request with a handle needs a selection made for that handle
// that carries a personal problem.
func SelectionValid(sel *models.DailySelection, date, handle string) bool {
	if sel == nil || sel.Date != date {
		return false
	}
	if handle == "" {
		return true
	}
	return sel.Handle == handle && sel.Personal != nil
}
