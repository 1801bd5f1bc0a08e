package domain

// SilhouetteFamily is the cap construction class derived from the silhouette code.
type SilhouetteFamily int

const (
	FamilyNone SilhouetteFamily = iota
	FamilyFlat
	FamilyCurved
)

var familyLabels = map[SilhouetteFamily]string{
	FamilyNone:   "NONE",
	FamilyFlat:   "FLAT",
	FamilyCurved: "CURVED",
}

func (f SilhouetteFamily) String() string {
	return familyLabels[f]
}

// Segment is the product segment a classified row contributes to.
type Segment int

const (
	SegmentOther Segment = iota
	SegmentHeadwear
	SegmentApparel
	SegmentAccessories
)

var segmentLabels = map[Segment]string{
	SegmentOther:       "OTHER",
	SegmentHeadwear:    "HEADWEAR",
	SegmentApparel:     "APPAREL",
	SegmentAccessories: "ACCESSORIES",
}

func (s Segment) String() string {
	return segmentLabels[s]
}

// Semaphore is the traffic-light indicator derived from compliance.
type Semaphore string

const (
	SemaphoreRed    Semaphore = "RED"
	SemaphoreGreen  Semaphore = "GREEN"
	SemaphoreYellow Semaphore = "YELLOW"
	SemaphoreGray   Semaphore = "GRAY"
)

var semaphoreLegend = map[Semaphore]string{
	SemaphoreRed:    "Below target capacity",
	SemaphoreGreen:  "On target (up to 15% over)",
	SemaphoreYellow: "Overstock (more than 15% over)",
	SemaphoreGray:   "Capacity not tracked",
}

// SemaphoreLegend returns a human-readable description of the semaphore band.
func SemaphoreLegend(s Semaphore) string {
	return semaphoreLegend[s]
}

// Semaphores returns every semaphore in legend order.
func Semaphores() []Semaphore {
	return []Semaphore{SemaphoreRed, SemaphoreGreen, SemaphoreYellow, SemaphoreGray}
}

// Severity buckets an alert by its shortfall percentage.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityModerate Severity = "MODERATE"
	SeverityMild     Severity = "MILD"
)
