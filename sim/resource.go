package sim

// ResourcePool tracks the three co-constrained resource quantities of one
// hospital. It is owned exclusively by that hospital's AdmissionLedger and
// mutated only under admission (reserve) and discharge (release), so the
// invariant 0 <= available <= total holds for every resource at all times.
type ResourcePool struct {
	BedsTotal     int
	BedsAvailable int

	StaffTotal     int
	StaffAvailable int

	SuppliesTotal     int
	SuppliesAvailable int
}

// NewResourcePool creates a fully-available pool with the given totals.
func NewResourcePool(beds, staff, supplies int) ResourcePool {
	return ResourcePool{
		BedsTotal: beds, BedsAvailable: beds,
		StaffTotal: staff, StaffAvailable: staff,
		SuppliesTotal: supplies, SuppliesAvailable: supplies,
	}
}

// TryReserve checks bed, staff and supply availability for the profile as a
// single indivisible step: either all three are decremented, or none are.
// On failure the returned reason is the first failing check in the fixed
// order beds -> staff -> supplies.
func (p *ResourcePool) TryReserve(prof CareProfile) (bool, RejectReason) {
	if p.BedsAvailable < 1 {
		return false, ReasonNoBeds
	}
	if p.StaffAvailable < prof.Staff {
		return false, ReasonNoStaff
	}
	if p.SuppliesAvailable < prof.Supplies {
		return false, ReasonNoSupplies
	}
	p.BedsAvailable--
	p.StaffAvailable -= prof.Staff
	p.SuppliesAvailable -= prof.Supplies
	return true, ""
}

// Release returns one bed plus the profile's staff and supplies to the pool,
// each clamped to its total. Callers must release exactly the profile they
// reserved, exactly once.
func (p *ResourcePool) Release(prof CareProfile) {
	p.BedsAvailable = min(p.BedsAvailable+1, p.BedsTotal)
	p.StaffAvailable = min(p.StaffAvailable+prof.Staff, p.StaffTotal)
	p.SuppliesAvailable = min(p.SuppliesAvailable+prof.Supplies, p.SuppliesTotal)
}

// Occupancy is (total - available) / total for beds.
func (p *ResourcePool) Occupancy() float64 {
	if p.BedsTotal == 0 {
		return 0
	}
	return float64(p.BedsTotal-p.BedsAvailable) / float64(p.BedsTotal)
}

// Snapshot exports a point-in-time view of the pool.
func (p *ResourcePool) Snapshot() ResourceSnapshot {
	return ResourceSnapshot{
		BedsAvailable: p.BedsAvailable, BedsTotal: p.BedsTotal,
		StaffAvailable: p.StaffAvailable, StaffTotal: p.StaffTotal,
		SuppliesAvailable: p.SuppliesAvailable, SuppliesTotal: p.SuppliesTotal,
		Occupancy: p.Occupancy(),
	}
}
