package tissue

// SetM returns the M-value table to use for a given configuration mode.
// Only mode 1 activates the last-stop policy; every other mode (0
// included) returns the raw XVAL-HE9-040 table unchanged. Under mode 1,
// the row at DepthIdx(LastStop) (the row whose depth is LastStop itself)
// has its ceilings overwritten with row 0's (its own depth is left
// alone), and every shallower row is zeroed out, forcing a mandatory
// stop no shallower than LastStop. If DepthIdx(LastStop) <= 0 there is
// no shallower row to flatten and mode 1 falls back to mode 0. Grounded
// on the original source's set_m.
func SetM(mode int) [NumStopDepths]Row {
	if mode != 1 {
		return rawTable
	}

	idx := DepthIdx(LastStop)
	if idx <= 0 {
		return SetM(0)
	}

	table := rawTable
	table[idx].MaxSaturation = rawTable[0].MaxSaturation
	for i := 0; i < idx; i++ {
		table[i] = Row{Depth: table[i].Depth}
	}
	return table
}
