// Package lfb cleans London Fire Brigade incident records into a feature table.
//
// Clean runs a configurable, ordered set of steps over a raw incident frame:
// category merges, the Emergency indicator, call-time features, risk ranks,
// the missing-borough cleaner, station imputation and the per-field outlier and
// imputation policies for response time and pump counts. The raw identifier
// columns are projected away at the end.
package lfb

import (
	"github.com/wdm0006/lfbclean/pkg/frame"
	"github.com/wdm0006/lfbclean/pkg/transform/standardize"
)

// Raw columns.
const (
	IncidentNumber   = "incident_number"
	IncidentGroup    = "incident_group"
	TimestampOfCall  = "timestamp_of_call"
	PropertyCategory = "property_category"
	PropertyType     = "property_type"
	AddressQualifier = "address_qualifier"
	BoroughName      = "borough_name"
	WardName         = "ward_name"
	FirstStation     = "first_station"
	FirstTime        = "first_time"
	StationPumps     = "station_pumps"
	PumpsAttending   = "pumps_attending"
)

// Derived columns.
const (
	Emergency        = "Emergency"
	Month            = "Month"
	Hour             = "Hour"
	PropertyTypeRank = "property_type_rank"
	WardRank         = "ward_rank"
	StationRank      = "station_rank"
)

// NotGeoCoded is the placeholder the source data uses for an unknown borough.
const NotGeoCoded = " NOT GEO-CODED"

// RawSchema describes the incident rows as fetched.
func RawSchema() frame.Schema {
	return frame.Schema{Columns: []frame.ColumnSchema{
		{Name: IncidentNumber, Type: frame.KindString, Nullable: true},
		{Name: IncidentGroup, Type: frame.KindString, Nullable: true},
		{Name: TimestampOfCall, Type: frame.KindTime, Nullable: true},
		{Name: PropertyCategory, Type: frame.KindString, Nullable: true},
		{Name: PropertyType, Type: frame.KindString, Nullable: true},
		{Name: AddressQualifier, Type: frame.KindString, Nullable: true},
		{Name: BoroughName, Type: frame.KindString, Nullable: true},
		{Name: WardName, Type: frame.KindString, Nullable: true},
		{Name: FirstStation, Type: frame.KindString, Nullable: true},
		{Name: FirstTime, Type: frame.KindFloat, Nullable: true},
		{Name: StationPumps, Type: frame.KindFloat, Nullable: true},
		{Name: PumpsAttending, Type: frame.KindFloat, Nullable: true},
	}}
}

// EmergencyGroups are the incident groups that count as a real emergency.
var EmergencyGroups = []string{"Special Service", "Fire"}

// PropertyGroups collapses property categories.
var PropertyGroups = []standardize.Group{
	{Target: "Residential", Sources: []string{"Dwelling", "Other Residential"}},
	{Target: "Vehicle", Sources: []string{"Road Vehicle", "Aircraft", "Boat", "Rail Vehicle"}},
	{Target: "Outdoor", Sources: []string{"Outdoor Structure"}},
}

// AddressGroups collapses address qualifiers.
var AddressGroups = []standardize.Group{
	{Target: "Gazetteer", Sources: []string{
		"In street outside gazetteer location",
		"In street remote from gazetteer location",
		"In street close to gazetteer location",
		"Open land/water - nearest gazetteer location",
	}},
	{Target: "Nearby Address", Sources: []string{
		"Nearby address - no building in street",
		"Nearby address - street not listed in gazetteer",
	}},
	{Target: "Other", Sources: []string{
		"On motorway / elevated road",
		"Railway land or rolling stock",
	}},
}

// RankValues lists the rank categories a risk-rank column may hold.
func RankValues() []string {
	return []string{"-1", "0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}
}
