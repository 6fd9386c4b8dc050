package domain

// Clone returns a deep copy of the document. No slice or map in the result
// aliases the receiver.
func (d Document) Clone() Document {
	cp := d
	cp.Metrics = cloneSlice(d.Metrics)
	cp.Pillars = cloneSlice(d.Pillars)
	if d.QuarterThemes != nil {
		cp.QuarterThemes = make(map[Quarter]QuarterTheme, len(d.QuarterThemes))
		for q, theme := range d.QuarterThemes {
			cp.QuarterThemes[q] = theme
		}
	}
	if d.Initiatives != nil {
		cp.Initiatives = make([]Initiative, len(d.Initiatives))
		for i, in := range d.Initiatives {
			cp.Initiatives[i] = CloneInitiative(in)
		}
	}
	cp.Filters = cloneFilters(d.Filters)
	return cp
}

// CloneInitiative deep copies tags and links.
func CloneInitiative(in Initiative) Initiative {
	cp := in
	cp.Tags = cloneSlice(in.Tags)
	cp.Links = cloneSlice(in.Links)
	return cp
}

func cloneFilters(f Filters) Filters {
	cp := f
	cp.Quarters = cloneSlice(f.Quarters)
	cp.Statuses = cloneSlice(f.Statuses)
	cp.Pillars = cloneSlice(f.Pillars)
	cp.Owners = cloneSlice(f.Owners)
	cp.Tags = cloneSlice(f.Tags)
	return cp
}

// cloneSlice keeps nil and empty distinct so encoded documents round-trip.
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
