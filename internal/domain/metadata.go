package domain

import "github.com/shopspring/decimal"

// StationMetadata holds the derived per-station values carried from the
// metadata pass into the transform pass. Every field is rounded to 2 decimals.
type StationMetadata struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	DistanceKm     float64 `json:"distance_km"`
	AzimuthDeg     float64 `json:"azimuth_deg"`
	TriggerTimeSec float64 `json:"trigger_time_sec"`
}

// MetadataMap is keyed by station code. It is complete before any trace is
// transformed and is only read afterwards.
type MetadataMap map[string]StationMetadata

// NewStationMetadata rounds the raw values into a StationMetadata.
func NewStationMetadata(rec StationRecord, distanceM, azimuth, triggerSec float64) StationMetadata {
	return StationMetadata{
		Latitude:       Round2(rec.Latitude),
		Longitude:      Round2(rec.Longitude),
		DistanceKm:     Round2(distanceM / 1000),
		AzimuthDeg:     Round2(azimuth),
		TriggerTimeSec: Round2(triggerSec),
	}
}

// Round2 rounds the exact binary value of v to two decimal places, ties to
// even. 2.675 is stored just below the tie and rounds to 2.67.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloatWithExponent(v, -30).RoundBank(2).Float64()
	return f
}
