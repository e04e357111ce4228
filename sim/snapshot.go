package sim

// ResourceSnapshot is an immutable point-in-time export of a hospital's
// advertised resource state, produced on query and never mutated after
// creation. Selection decisions read these possibly-stale values, never the
// hospital's live pool.
type ResourceSnapshot struct {
	BedsAvailable int
	BedsTotal     int

	StaffAvailable int
	StaffTotal     int

	SuppliesAvailable int
	SuppliesTotal     int

	Occupancy float64
}

// CanAccommodate is the read-only counterpart of ResourcePool.TryReserve,
// evaluated against advertised snapshot values.
func (s ResourceSnapshot) CanAccommodate(prof CareProfile) bool {
	return s.BedsAvailable >= 1 &&
		s.StaffAvailable >= prof.Staff &&
		s.SuppliesAvailable >= prof.Supplies
}

// HospitalSnapshot pairs a hospital identity with its advertised resources.
// Selection input is an ordered slice of these: slice order is the
// first-seen order used for deterministic tie-breaking.
type HospitalSnapshot struct {
	Name      string
	Resources ResourceSnapshot
}
