package lfb

import (
	"github.com/wdm0006/lfbclean/pkg/frame"
	"github.com/wdm0006/lfbclean/pkg/pipeline"
	"github.com/wdm0006/lfbclean/pkg/transform/derive"
	"github.com/wdm0006/lfbclean/pkg/transform/filter"
	"github.com/wdm0006/lfbclean/pkg/transform/impute"
	"github.com/wdm0006/lfbclean/pkg/transform/outliers"
	"github.com/wdm0006/lfbclean/pkg/transform/project"
	"github.com/wdm0006/lfbclean/pkg/transform/rank"
	"github.com/wdm0006/lfbclean/pkg/transform/standardize"
	"github.com/wdm0006/lfbclean/pkg/transform/validate"
)

// Step names, matching the config toggles.
const (
	StepCleanProperty       = "clean_property"
	StepAddEmergencies      = "add_emergencies"
	StepMakeMonth           = "make_month"
	StepMakeHour            = "make_hour"
	StepRankPropertyType    = "rank_property_type"
	StepCleanAddress        = "clean_address"
	StepCleanBoroughs       = "clean_boroughs"
	StepRankWards           = "rank_wards"
	StepImputeStation       = "impute_station"
	StepRankStation         = "rank_station"
	StepCleanArrivingTime   = "clean_arriving_time"
	StepCleanStationPumps   = "clean_station_pumps"
	StepCleanPumpsAttending = "clean_pumps_attending"
	StepProject             = "project"
	StepVerify              = "verify"
)

const (
	// ResponseTimeSigmas is the number of standard deviations above the mean
	// beyond which a first-response time is an outlier.
	ResponseTimeSigmas = 4
	// PumpLimit is the exclusive upper bound on pump counts.
	PumpLimit = 5
)

// Steps builds the ordered step list for cfg.
func Steps(cfg Config) ([]pipeline.Step, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var steps []pipeline.Step
	add := func(on bool, s pipeline.Step) {
		if on {
			steps = append(steps, s)
		}
	}
	ranked := map[string]bool{}
	rankStep := func(name, by, out string, after ...string) pipeline.Step {
		ranked[by] = true
		return pipeline.Step{
			Name:      name,
			Requires:  []string{by, Emergency},
			Produces:  []string{out},
			After:     append([]string{StepAddEmergencies}, after...),
			Transform: &rank.Risk{By: by, Indicator: Emergency, Out: out},
		}
	}

	if cfg.CleanProperty {
		m, err := standardize.NewMerge(PropertyCategory, PropertyGroups...)
		if err != nil {
			return nil, err
		}
		steps = append(steps, pipeline.Step{Name: StepCleanProperty, Requires: []string{PropertyCategory}, Transform: m})
	}
	add(cfg.AddEmergencies, pipeline.Step{
		Name:      StepAddEmergencies,
		Requires:  []string{IncidentGroup},
		Produces:  []string{Emergency},
		Transform: &derive.Flag{Column: IncidentGroup, Collapse: EmergencyGroups, Label: "Emergency", Out: Emergency},
	})
	add(cfg.MakeMonth, pipeline.Step{
		Name:      StepMakeMonth,
		Requires:  []string{TimestampOfCall},
		Produces:  []string{Month},
		Transform: &derive.DatePart{Column: TimestampOfCall, Part: derive.Month, Out: Month},
	})
	add(cfg.MakeHour, pipeline.Step{
		Name:      StepMakeHour,
		Requires:  []string{TimestampOfCall},
		Produces:  []string{Hour},
		Transform: &derive.DatePart{Column: TimestampOfCall, Part: derive.Hour, Out: Hour},
	})
	if cfg.RankPropertyType {
		steps = append(steps, rankStep(StepRankPropertyType, PropertyType, PropertyTypeRank))
	}
	if cfg.CleanAddress {
		m, err := standardize.NewMerge(AddressQualifier, AddressGroups...)
		if err != nil {
			return nil, err
		}
		steps = append(steps, pipeline.Step{Name: StepCleanAddress, Requires: []string{AddressQualifier}, Transform: m})
	}
	add(cfg.CleanBoroughs, pipeline.Step{
		Name:     StepCleanBoroughs,
		Requires: []string{BoroughName},
		Transform: pipeline.Chain(StepCleanBoroughs,
			&standardize.NullIf{Column: BoroughName, Values: []string{NotGeoCoded}},
			&filter.DropNull{Column: BoroughName},
		),
	})
	if cfg.RankWards {
		steps = append(steps, rankStep(StepRankWards, WardName, WardRank))
	}
	add(cfg.ImputeStation, pipeline.Step{
		Name:      StepImputeStation,
		Requires:  []string{FirstStation, WardName},
		After:     []string{StepCleanBoroughs},
		Transform: &impute.GroupMode{Column: FirstStation, By: WardName},
	})
	if cfg.RankStation {
		steps = append(steps, rankStep(StepRankStation, FirstStation, StationRank, StepImputeStation))
	}

	by := cfg.GroupBy()
	var imputeAfter []string
	if by == FirstStation {
		imputeAfter = []string{StepImputeStation}
	}
	numeric := func(name, column string, bound outliers.Bound, round bool) pipeline.Step {
		return pipeline.Step{
			Name:     name,
			Requires: []string{column, by},
			After:    imputeAfter,
			Transform: pipeline.Chain(name,
				&outliers.Cutoff{Column: column, Bound: bound},
				&impute.GroupMean{Column: column, By: by, Round: round},
			),
		}
	}
	add(cfg.CleanArrivingTime, numeric(StepCleanArrivingTime, FirstTime, outliers.MeanStd{K: ResponseTimeSigmas}, false))
	add(cfg.CleanStationPumps, numeric(StepCleanStationPumps, StationPumps, outliers.Fixed(PumpLimit), true))
	add(cfg.CleanPumpsAttending, numeric(StepCleanPumpsAttending, PumpsAttending, outliers.Fixed(PumpLimit), true))

	drop := []string{IncidentNumber, IncidentGroup, TimestampOfCall}
	for _, c := range []string{PropertyType, WardName, FirstStation} {
		if ranked[c] {
			drop = append(drop, c)
		}
	}
	steps = append(steps, pipeline.Step{Name: StepProject, Removes: drop, Transform: &project.Drop{Columns: drop}})

	if cfg.Verify {
		steps = append(steps, pipeline.Step{Name: StepVerify, Transform: verifier()})
	}
	return steps, nil
}

func verifier() frame.Transform {
	lo, hi := 0.0, 1.0
	checks := []frame.Transform{&validate.Range{Column: Emergency, Min: &lo, Max: &hi}}
	for _, c := range []string{PropertyTypeRank, WardRank, StationRank} {
		checks = append(checks, validate.NewInSet(c, RankValues()))
	}
	return pipeline.Chain(StepVerify, checks...)
}
