package audio

// Selection is the device picked by SelectNext and its 1-based position in
// the list the pick was made from
type Selection struct {
	Device   AudioDevice
	Position int
}

// ExclusionSet builds a lookup set from excluded device ids
func ExclusionSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Included returns the devices whose id is not excluded, keeping order
func Included(all []AudioDevice, excluded map[string]struct{}) []AudioDevice {
	included := make([]AudioDevice, 0, len(all))
	for _, d := range all {
		if _, skip := excluded[d.ID]; !skip {
			included = append(included, d)
		}
	}
	return included
}

// SelectNext picks the device after the current default among the devices
// that are not excluded, wrapping around. Without a default among them the
// first one is picked. If everything is excluded the exclusions are ignored.
func SelectNext(all []AudioDevice, excluded map[string]struct{}) (Selection, error) {
	if len(all) == 0 {
		return Selection{}, ErrNoDevices
	}

	candidates := Included(all, excluded)
	if len(candidates) == 0 {
		candidates = all
	}

	next := 0
	if idx := defaultIndex(candidates); idx >= 0 {
		next = (idx + 1) % len(candidates)
	}

	return Selection{Device: candidates[next], Position: next + 1}, nil
}

// IndicatorPosition returns the 1-based position of the current default among
// the included devices. ok is false when nothing is included or the default
// is not among them.
func IndicatorPosition(all []AudioDevice, excluded map[string]struct{}) (pos int, ok bool) {
	idx := defaultIndex(Included(all, excluded))
	if idx < 0 {
		return 0, false
	}
	return idx + 1, true
}

func defaultIndex(devices []AudioDevice) int {
	for i, d := range devices {
		if d.IsDefault {
			return i
		}
	}
	return -1
}
