package domain

import (
	"strings"

	"github.com/couchcryptid/seismic-prep/internal/sac"
	"gonum.org/v1/gonum/floats"
)

// Raw channel identifiers produced by the simulation (X north, Y east, Z down)
// and the network channel codes they are relabelled to.
const (
	RawNorth = "X"
	RawEast  = "Y"
	RawDown  = "Z"

	ChannelNorth    = "BNN"
	ChannelEast     = "BNE"
	ChannelVertical = "BNZ"
)

// Trace is a single-component seismogram. Station, Network, Channel, Delta and
// Samples are authoritative; Header carries the remaining SAC fields and is
// refreshed from them by SyncHeader before a write.
type Trace struct {
	Station string
	Network string
	Channel string
	Delta   float64 // sampling interval, seconds
	Samples []float64
	Header  sac.Header

	// Source is the file the trace was read from, for diagnostics.
	Source string
}

// NewTrace builds a trace with a fresh SAC header.
func NewTrace(station, channel string, delta float64, samples []float64) *Trace {
	return &Trace{
		Station: station,
		Channel: channel,
		Delta:   delta,
		Samples: samples,
		Header:  sac.NewHeader(),
	}
}

// TraceFromSAC converts a decoded SAC file into a Trace.
func TraceFromSAC(f *sac.File, source string) *Trace {
	samples := make([]float64, len(f.Data))
	for i, v := range f.Data {
		samples[i] = float64(v)
	}
	return &Trace{
		Station: f.Header.String(sac.KStNm),
		Network: f.Header.String(sac.KNetwk),
		Channel: f.Header.String(sac.KCmpNm),
		Delta:   f.Header.Float(sac.Delta),
		Samples: samples,
		Header:  f.Header,
		Source:  source,
	}
}

// ToSAC syncs the header and converts the trace to its SAC form.
func (t *Trace) ToSAC() *sac.File {
	t.SyncHeader()
	data := make([]float32, len(t.Samples))
	for i, v := range t.Samples {
		data[i] = float32(v)
	}
	return &sac.File{Header: t.Header, Data: data}
}

// Len returns the sample count.
func (t *Trace) Len() int { return len(t.Samples) }

// Duration returns count × delta in seconds.
func (t *Trace) Duration() float64 { return float64(len(t.Samples)) * t.Delta }

// SamplingRate returns 1/delta in Hz.
func (t *Trace) SamplingRate() float64 {
	if t.Delta == 0 {
		return 0
	}
	return 1 / t.Delta
}

// IsVertical reports whether the trace holds the down component, raw or relabelled.
func (t *Trace) IsVertical() bool {
	c := strings.ToUpper(strings.TrimSpace(t.Channel))
	return c == RawDown || c == ChannelVertical
}

// SetGeometry writes source-receiver geometry into the SAC header.
// Distance is in metres, angles in degrees.
func (t *Trace) SetGeometry(distanceM, azimuth, backAzimuth float64) {
	t.Header.SetFloat(sac.Dist, distanceM)
	t.Header.SetFloat(sac.Az, azimuth)
	t.Header.SetFloat(sac.Baz, backAzimuth)
}

// SetLocations records the event hypocentre and the station position in the
// SAC header.
func (t *Trace) SetLocations(ev Event, st StationRecord) {
	h := &t.Header
	h.SetFloat(sac.EvLa, ev.Latitude)
	h.SetFloat(sac.EvLo, ev.Longitude)
	h.SetFloat(sac.EvDp, ev.DepthKm)
	h.SetFloat(sac.Mag, ev.Magnitude)
	h.SetFloat(sac.StLa, st.Latitude)
	h.SetFloat(sac.StLo, st.Longitude)
}

// Distance returns the header distance in metres and whether it is set.
func (t *Trace) Distance() (float64, bool) {
	return t.Header.Float(sac.Dist), t.Header.Defined(sac.Dist)
}

// Azimuth returns the header azimuth in degrees and whether it is set.
func (t *Trace) Azimuth() (float64, bool) {
	return t.Header.Float(sac.Az), t.Header.Defined(sac.Az)
}

// SyncHeader copies the authoritative fields into the SAC header, recomputes
// the end time and amplitude statistics, and stamps the write date.
func (t *Trace) SyncHeader() {
	h := &t.Header
	h.SetString(sac.KStNm, t.Station)
	h.SetString(sac.KCmpNm, t.Channel)
	if t.Network != "" {
		h.SetString(sac.KNetwk, t.Network)
	}
	h.SetFloat(sac.Delta, t.Delta)
	h.Ints[sac.NPts] = int32(len(t.Samples))

	begin := 0.0
	if h.Defined(sac.B) {
		begin = h.Float(sac.B)
	} else {
		h.SetFloat(sac.B, 0)
	}
	if n := len(t.Samples); n > 0 {
		h.SetFloat(sac.E, begin+float64(n-1)*t.Delta)
		h.SetFloat(sac.DepMin, floats.Min(t.Samples))
		h.SetFloat(sac.DepMax, floats.Max(t.Samples))
		h.SetFloat(sac.DepMen, floats.Sum(t.Samples)/float64(n))
	}
	h.SetString(sac.KDatRd, clock.Now().UTC().Format("20060102"))
}
