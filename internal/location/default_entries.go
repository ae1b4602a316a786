package location

// DefaultEntries returns the built-in location table: the five major
// cities plus a handful of others so region/neighbor boosting has
// more than a single ring to exercise. A deployment would normally
// load this from a data file; the registry itself needs no code
// change to grow.
func DefaultEntries() []Entry {
	return []Entry{
		{
			Canonical:    "Hà Nội",
			SurfaceForms: []string{"ha noi", "hanoi", "hn", "tp ha noi", "thu do"},
			Region:       RegionNorth,
			Neighbors:    []string{"Hải Phòng"},
		},
		{
			Canonical:    "Hải Phòng",
			SurfaceForms: []string{"hai phong", "haiphong", "hp", "tp hai phong"},
			Region:       RegionNorth,
			Neighbors:    []string{"Hà Nội"},
		},
		{
			Canonical:    "Đà Nẵng",
			SurfaceForms: []string{"da nang", "danang", "dn", "tp da nang"},
			Region:       RegionCentral,
			Neighbors:    []string{"Huế", "Hội An"},
		},
		{
			Canonical:    "Huế",
			SurfaceForms: []string{"hue", "tp hue", "thua thien hue"},
			Region:       RegionCentral,
			Neighbors:    []string{"Đà Nẵng"},
		},
		{
			Canonical:    "Hội An",
			SurfaceForms: []string{"hoi an", "pho co hoi an"},
			Region:       RegionCentral,
			Neighbors:    []string{"Đà Nẵng"},
		},
		{
			Canonical:    "Hồ Chí Minh",
			SurfaceForms: []string{"ho chi minh", "tp hcm", "tp.hcm", "tphcm", "hcm", "sai gon", "saigon", "sg", "thanh pho ho chi minh", "hcmc"},
			Region:       RegionSouth,
			Neighbors:    []string{"Vũng Tàu", "Cần Thơ"},
		},
		{
			Canonical:    "Cần Thơ",
			SurfaceForms: []string{"can tho", "cantho", "ct", "tp can tho"},
			Region:       RegionSouth,
			Neighbors:    []string{"Hồ Chí Minh"},
		},
		{
			Canonical:    "Vũng Tàu",
			SurfaceForms: []string{"vung tau", "vungtau", "vt", "ba ria vung tau"},
			Region:       RegionSouth,
			Neighbors:    []string{"Hồ Chí Minh"},
		},
		{
			Canonical:    "Nha Trang",
			SurfaceForms: []string{"nha trang", "nhatrang", "khanh hoa"},
			Region:       RegionCentral,
			Neighbors:    []string{"Đà Lạt"},
		},
		{
			Canonical:    "Đà Lạt",
			SurfaceForms: []string{"da lat", "dalat", "lam dong"},
			Region:       RegionCentral,
			Neighbors:    []string{"Nha Trang"},
		},
	}
}
