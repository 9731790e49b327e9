// Package tissue holds the fixed compartment model shared by every
// updater strategy: the five named tissue compartments, their half-times
// and saturation/desaturation ratios, and the XVAL-HE9-040 M-value table
// that bounds how much inert gas each compartment may carry at a given
// stop depth. Grounded on the original source's mptt.rs; adapted to Go's
// pressure package and a selectable M-value mode (set.go's SetM).
package tissue

import "github.com/divetools/thalmann/pressure"

// NumTissues is the fixed compartment count the M-value table and every
// loading array are sized to.
const NumTissues = 5

// NumStopDepths is the number of rows in the M-value table, one per 3 msw
// increment from 3 msw to 96 msw inclusive.
const NumStopDepths = 32

// DInc is the fixed spacing between M-value table rows and between
// candidate stop depths.
const DInc = pressure.Msw(3.0)

// LastStop is the shallowest depth a diver is required to stop at before
// surfacing.
const LastStop = pressure.Msw(6.0)

// Compartment describes one tissue compartment's kinetics.
type Compartment struct {
	HalfTime float64 // minutes
	SDR      float64 // saturation/desaturation ratio
}

// Compartments is the fixed set of five compartments tracked by the
// model, in table-column order.
var Compartments = [NumTissues]Compartment{
	{HalfTime: 10.0, SDR: 1.0},
	{HalfTime: 20.0, SDR: 2.0},
	{HalfTime: 20.0, SDR: 0.67},
	{HalfTime: 120.0, SDR: 1.0},
	{HalfTime: 200.0, SDR: 1.0},
}

// RateConstant returns the compartment's k = ln(2)/halfTime * sdr, the
// exponent used by both updater strategies.
func (c Compartment) RateConstant() float64 {
	const ln2 = 0.6931471805599453
	return ln2 / c.HalfTime * c.SDR
}

// Row is one depth's worth of per-compartment M-values.
type Row struct {
	Depth         pressure.Msw
	MaxSaturation [NumTissues]pressure.Pa
}

// rawTable is the XVAL-HE9-040 table transcribed verbatim (depth, then
// per-compartment ceiling in fsw converted to Pa), shallowest row first.
var rawTable = [NumStopDepths]Row{
	row(3.0, 85.000, 64.000, 83.000, 41.731, 38.274),
	row(6.0, 94.843, 73.843, 92.843, 61.416, 49.969),
	row(9.0, 104.685, 83.685, 102.685, 81.101, 61.664),
	row(12.0, 114.528, 93.528, 112.528, 100.786, 73.359),
	row(15.0, 124.370, 103.370, 122.370, 120.471, 85.054),
	row(18.0, 134.213, 113.213, 132.213, 140.156, 96.749),
	row(21.0, 144.055, 123.055, 142.055, 159.841, 108.444),
	row(24.0, 153.898, 132.898, 151.898, 179.526, 120.139),
	row(27.0, 163.740, 142.740, 161.740, 199.211, 131.834),
	row(30.0, 173.583, 152.583, 171.583, 218.896, 143.529),
	row(33.0, 183.425, 162.425, 181.425, 238.581, 155.224),
	row(36.0, 193.268, 172.268, 191.268, 258.266, 166.919),
	row(39.0, 203.110, 182.110, 201.110, 277.951, 178.614),
	row(42.0, 212.953, 191.953, 210.953, 297.637, 190.309),
	row(45.0, 222.795, 201.795, 220.795, 317.322, 202.004),
	row(48.0, 232.638, 211.638, 230.638, 337.007, 213.699),
	row(51.0, 242.480, 221.480, 240.480, 356.692, 225.394),
	row(54.0, 252.323, 231.323, 250.323, 376.377, 237.089),
	row(57.0, 262.165, 241.165, 260.165, 396.062, 248.784),
	row(60.0, 272.008, 251.008, 270.008, 415.747, 260.479),
	row(63.0, 281.850, 260.850, 279.850, 435.432, 272.173),
	row(66.0, 291.693, 270.693, 289.693, 455.117, 283.868),
	row(69.0, 301.535, 280.535, 299.535, 474.802, 295.563),
	row(72.0, 311.378, 290.378, 309.378, 494.487, 307.258),
	row(75.0, 321.220, 300.220, 319.220, 514.172, 318.953),
	row(78.0, 331.063, 310.063, 329.063, 533.857, 330.648),
	row(81.0, 340.906, 319.906, 338.906, 553.542, 342.343),
	row(84.0, 350.748, 329.748, 348.748, 573.227, 354.038),
	row(87.0, 360.591, 339.591, 358.591, 592.912, 365.733),
	row(90.0, 370.433, 349.433, 368.433, 612.597, 377.428),
	row(93.0, 380.276, 359.276, 378.276, 632.282, 389.123),
	row(96.0, 390.118, 369.118, 388.118, 651.967, 400.818),
}

func row(depth pressure.Msw, fsw0, fsw1, fsw2, fsw3, fsw4 float64) Row {
	return Row{
		Depth: depth,
		MaxSaturation: [NumTissues]pressure.Pa{
			pressure.Fsw(fsw0).ToPa(),
			pressure.Fsw(fsw1).ToPa(),
			pressure.Fsw(fsw2).ToPa(),
			pressure.Fsw(fsw3).ToPa(),
			pressure.Fsw(fsw4).ToPa(),
		},
	}
}

// GetDepth returns the stop depth for a zero-based table row index.
func GetDepth(rowIdx int) pressure.Msw {
	return pressure.Msw(float64(DInc) * float64(rowIdx+1))
}

// DepthIdx returns the table row index (0-based) of the shallowest row
// whose depth is at or deeper than d, i.e. ceil(d/DInc) - 1. d must be > 0.
//
// This is 0-based by design, so its result is usable directly as an
// index into rawTable/mValues everywhere it's called; it is one less
// than the 1-based ceil(d/DInc) convention used elsewhere to describe
// table rows (row 1 = 3 msw, row 2 = 6 msw, ...).
func DepthIdx(d pressure.Pressure) int {
	msw := d.ToMsw()
	n := msw.Float64() / DInc.Float64()
	idx := int(n)
	if float64(idx) < n {
		idx++
	}
	return idx - 1
}
