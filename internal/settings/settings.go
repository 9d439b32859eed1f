// Package settings persists the user-facing dashboard settings as one flat
// JSON file, overwritten wholesale on every save.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/BuddyApator/Energie-Buddy/internal/errors"
)

// Mode selects how readings get into the ledger.
type Mode string

const (
	ModeAuto   Mode = "auto"   // poll the relay device
	ModeManual Mode = "manual" // user types the meter value
)

// Settings is the whole settings file. Loaded at startup, replaced on save;
// there is no partial update or migration format.
type Settings struct {
	DeviceAddress     string  `json:"device_address,omitempty"`
	UnitPrice         float64 `json:"unit_price"`   // currency per kWh
	DailyBudget       float64 `json:"daily_budget"` // currency per day
	Mode              Mode    `json:"mode"`
	AccountNumber     string  `json:"account_number,omitempty"`
	NotificationEmail string  `json:"notification_email,omitempty"`
}

// Defaults returns the settings used before the user saves anything.
func Defaults() Settings {
	return Settings{
		UnitPrice:   0.30,
		DailyBudget: 5.00,
		Mode:        ModeManual,
	}
}

// Validate rejects settings the engine cannot work with.
func (s Settings) Validate() error {
	if s.UnitPrice < 0 {
		return apperrors.NewInvalidConfiguration("unit price must not be negative")
	}
	if s.DailyBudget <= 0 {
		return apperrors.NewInvalidConfiguration("daily budget must be greater than zero")
	}
	if s.Mode != ModeAuto && s.Mode != ModeManual {
		return apperrors.NewInvalidConfiguration("mode must be auto or manual")
	}
	return nil
}

// Store reads and writes the settings file. A mutex serializes access so two
// concurrent saves cannot interleave their writes.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the settings file. A missing file yields the defaults; a
// malformed file is a configuration error, not an empty result.
func (st *Store) Load() (Settings, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	data, err := os.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return Settings{}, apperrors.NewStorageUnavailable(err, "reading settings file")
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, apperrors.Wrap(err, apperrors.TypeInvalidConfiguration, "parsing settings file")
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// Save validates and replaces the settings file. The write goes to a temp
// file in the same directory first and is renamed into place, so a crash
// mid-write can never leave a half-written settings file behind.
func (st *Store) Save(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageUnavailable(err, "creating settings directory")
	}

	tmp, err := os.CreateTemp(dir, "settings-*.json")
	if err != nil {
		return apperrors.NewStorageUnavailable(err, "creating temp settings file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewStorageUnavailable(err, "writing settings file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStorageUnavailable(err, "closing settings file")
	}

	if err := os.Rename(tmpName, st.path); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStorageUnavailable(err, "replacing settings file")
	}

	return nil
}
