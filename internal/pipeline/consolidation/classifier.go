package consolidation

import (
	"github.com/andresuchdata/stockdash/internal/catalog"
	"github.com/andresuchdata/stockdash/internal/domain"
)

// Classify assigns a segment and silhouette family to a record. A known
// silhouette always makes the row headwear, whatever its segment says.
// Rows that are neither headwear, apparel nor accessories are dropped (ok=false).
func Classify(cat *catalog.Catalog, rec StockRecord) (Classified, bool) {
	if family := cat.SilhouetteFamily(rec.Silhouette); family != domain.FamilyNone {
		return Classified{StockRecord: rec, Class: domain.SegmentHeadwear, Family: family}, true
	}

	switch rec.Segment {
	case SegmentApparel:
		return Classified{StockRecord: rec, Class: domain.SegmentApparel}, true
	case SegmentAccessories:
		return Classified{StockRecord: rec, Class: domain.SegmentAccessories}, true
	}
	return Classified{StockRecord: rec, Class: domain.SegmentOther}, false
}
