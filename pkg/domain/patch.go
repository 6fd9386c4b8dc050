package domain

// MetaPatch carries the meta fields to merge. Nil fields are left alone.
// UpdatedAt is not patchable; the store refreshes it on every mutation.
type MetaPatch struct {
	Year        *int
	ProductName *string
	CompanyName *string
}

// DocumentPatch is a shallow top-level update. Meta merges field by field;
// every other non-nil field replaces the current value wholesale.
type DocumentPatch struct {
	Meta          *MetaPatch
	NorthStar     *NorthStar
	Metrics       *[]Metric
	Pillars       *[]Pillar
	QuarterThemes *map[Quarter]QuarterTheme
	Initiatives   *[]Initiative
	CapacityModel *CapacityModel
	Filters       *Filters
	UI            *UIState
}

// PatchFromDocument builds a patch that replaces every key with the values
// of doc, including all meta fields.
func PatchFromDocument(doc Document) DocumentPatch {
	d := doc.Clone()
	return DocumentPatch{
		Meta: &MetaPatch{
			Year:        &d.Meta.Year,
			ProductName: &d.Meta.ProductName,
			CompanyName: &d.Meta.CompanyName,
		},
		NorthStar:     &d.NorthStar,
		Metrics:       &d.Metrics,
		Pillars:       &d.Pillars,
		QuarterThemes: &d.QuarterThemes,
		Initiatives:   &d.Initiatives,
		CapacityModel: &d.CapacityModel,
		Filters:       &d.Filters,
		UI:            &d.UI,
	}
}

// Apply merges the patch into doc. Values are cloned so the patch owner can
// keep using its slices without aliasing the document.
func (p DocumentPatch) Apply(doc *Document) {
	if p.Meta != nil {
		if p.Meta.Year != nil {
			doc.Meta.Year = *p.Meta.Year
		}
		if p.Meta.ProductName != nil {
			doc.Meta.ProductName = *p.Meta.ProductName
		}
		if p.Meta.CompanyName != nil {
			doc.Meta.CompanyName = *p.Meta.CompanyName
		}
	}
	if p.NorthStar != nil {
		doc.NorthStar = *p.NorthStar
	}
	if p.Metrics != nil {
		doc.Metrics = cloneSlice(*p.Metrics)
	}
	if p.Pillars != nil {
		doc.Pillars = cloneSlice(*p.Pillars)
	}
	if p.QuarterThemes != nil {
		themes := make(map[Quarter]QuarterTheme, len(*p.QuarterThemes))
		for q, t := range *p.QuarterThemes {
			themes[q] = t
		}
		doc.QuarterThemes = themes
	}
	if p.Initiatives != nil {
		list := make([]Initiative, len(*p.Initiatives))
		for i, in := range *p.Initiatives {
			list[i] = CloneInitiative(in)
		}
		doc.Initiatives = list
	}
	if p.CapacityModel != nil {
		doc.CapacityModel = *p.CapacityModel
	}
	if p.Filters != nil {
		doc.Filters = cloneFilters(*p.Filters)
	}
	if p.UI != nil {
		doc.UI = *p.UI
	}
}
