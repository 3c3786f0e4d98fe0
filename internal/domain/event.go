package domain

import "fmt"

// Event is the synthetic earthquake the traces were simulated for.
type Event struct {
	Latitude  float64 `json:"latitude" mapstructure:"latitude"`
	Longitude float64 `json:"longitude" mapstructure:"longitude"`
	Magnitude float64 `json:"magnitude" mapstructure:"magnitude"`
	DepthKm   float64 `json:"depth_km" mapstructure:"depth_km"`
}

func (e Event) String() string {
	return fmt.Sprintf("< Synthetic earthquake: mag=%g; depth=%g km; lat=%g deg; lon=%g deg >",
		e.Magnitude, e.DepthKm, e.Latitude, e.Longitude)
}
