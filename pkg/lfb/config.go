package lfb

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrConfig is returned for a configuration that cannot be run.
var ErrConfig = errors.New("invalid cleaning config")

// Variant selects the grouping key and whether the rank features are allowed.
type Variant string

const (
	Basic    Variant = "basic"
	Extended Variant = "extended"
)

// Config toggles the cleaning steps. Each toggle enables one step; the rank and
// station steps are only valid in the extended variant.
type Config struct {
	Variant Variant `json:"variant" yaml:"variant" toml:"variant" validate:"required,oneof=basic extended"`

	AddEmergencies      bool `json:"add_emergencies" yaml:"add_emergencies" toml:"add_emergencies"`
	MakeMonth           bool `json:"make_month" yaml:"make_month" toml:"make_month"`
	MakeHour            bool `json:"make_hour" yaml:"make_hour" toml:"make_hour"`
	CleanProperty       bool `json:"clean_property" yaml:"clean_property" toml:"clean_property"`
	RankPropertyType    bool `json:"rank_property_type" yaml:"rank_property_type" toml:"rank_property_type"`
	CleanAddress        bool `json:"clean_address" yaml:"clean_address" toml:"clean_address"`
	CleanBoroughs       bool `json:"clean_boroughs" yaml:"clean_boroughs" toml:"clean_boroughs"`
	RankWards           bool `json:"rank_wards" yaml:"rank_wards" toml:"rank_wards"`
	ImputeStation       bool `json:"impute_station" yaml:"impute_station" toml:"impute_station"`
	RankStation         bool `json:"rank_station" yaml:"rank_station" toml:"rank_station"`
	CleanArrivingTime   bool `json:"clean_arriving_time" yaml:"clean_arriving_time" toml:"clean_arriving_time"`
	CleanStationPumps   bool `json:"clean_station_pumps" yaml:"clean_station_pumps" toml:"clean_station_pumps"`
	CleanPumpsAttending bool `json:"clean_pumps_attending" yaml:"clean_pumps_attending" toml:"clean_pumps_attending"`

	// Verify appends range and category checks on the derived columns.
	Verify  bool `json:"verify" yaml:"verify" toml:"verify"`
	Verbose bool `json:"verbose" yaml:"verbose" toml:"verbose"`
}

// DefaultConfig is the basic variant with every cleaning step enabled.
func DefaultConfig() Config {
	return Config{
		Variant:             Basic,
		AddEmergencies:      true,
		MakeMonth:           true,
		MakeHour:            true,
		CleanProperty:       true,
		CleanAddress:        true,
		CleanBoroughs:       true,
		CleanArrivingTime:   true,
		CleanStationPumps:   true,
		CleanPumpsAttending: true,
		Verify:              true,
	}
}

// ExtendedConfig enables every step and groups imputation by station.
func ExtendedConfig() Config {
	c := DefaultConfig()
	c.Variant = Extended
	c.RankPropertyType = true
	c.RankWards = true
	c.ImputeStation = true
	c.RankStation = true
	return c
}

// GroupBy is the column numeric imputation groups by.
func (c Config) GroupBy() string {
	if c.Variant == Extended {
		return FirstStation
	}
	return BoroughName
}

var structs = validator.New()

// Validate checks the variant and that extended-only steps are not enabled
// under the basic variant.
func (c Config) Validate() error {
	if err := structs.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if c.Variant == Extended {
		return nil
	}
	extended := []struct {
		name string
		on   bool
	}{
		{"rank_property_type", c.RankPropertyType},
		{"rank_wards", c.RankWards},
		{"impute_station", c.ImputeStation},
		{"rank_station", c.RankStation},
	}
	for _, e := range extended {
		if e.on {
			return fmt.Errorf("%w: %s requires the extended variant", ErrConfig, e.name)
		}
	}
	return nil
}
