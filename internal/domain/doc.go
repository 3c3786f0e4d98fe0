// Package domain models the preparation of synthetic seismograms for replay
// in an earthquake early-warning (EEW) system.
//
// # Inputs
//
// A simulation produces raw velocity seismograms (m/s) sampled at 67.31 Hz, one
// SAC file per station and component. Components use the simulation axes:
//
//	X  north
//	Y  east
//	Z  down (vertical)
//
// A static station table maps station codes to coordinates, one station per
// line: "<lat> <lon> <code>".
//
// # Trigger time
//
// The P arrival is approximated by the first sample whose absolute amplitude
// strictly exceeds the EPIC minimum velocity amplitude check, Pv:
//
//	Pv = 10^-5.5 cm/s ≈ 3.16e-8 (expressed in m/s²)
//
// See Chung, Henson and Allen (2019), "Optimizing Earthquake Early Warning
// Performance: ElarmS-3", SRL 90(2A). A trace that never exceeds Pv triggers at
// 0 s.
//
// # Station metadata
//
// Each station gets latitude, longitude, epicentral distance (km), azimuth from
// the event (degrees) and trigger time (s), all rounded to two decimals, which
// is the precision the downstream consumer works at.
//
// # Stages
//
// Every component of every resolved station passes through, in order:
//
//  1. Relabel     network "IS"; X→BNN, Y→BNE, other→BNZ
//  2. Resample    FFT resample to 40 Hz, then d/dt (velocity → acceleration)
//  3. Pre-trigger samples before the trigger replaced by uniform noise
//  4. Pad         120 s of uniform noise prepended
//  5. Gain        × 1e7, turning m/s² into large-magnitude counts
//
// The noise interval [-1e-6, 1e-6) m/s² corresponds to 110 dB relative to
// acceleration. Resampling precedes differentiation so the gradient is taken
// at the output sampling density.
package domain
