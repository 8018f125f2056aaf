package zonetone

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	Zt "github.com/maroda/zonetone/types"
)

// ErrInvalidZoneMap is a malformed or non-bijective permutation string.
var ErrInvalidZoneMap = errors.New("invalid zone map")

// DefaultZoneMap returns the identity permutation.
func DefaultZoneMap() []int {
	zm := make([]int, Zt.NumZones)
	for i := range zm {
		zm[i] = i
	}
	return zm
}

// ParseZoneMap converts a comma-separated permutation string into a
// validated zone map. The string must hold exactly NumZones distinct
// integers in [0, NumZones).
func ParseZoneMap(mapStr string) ([]int, error) {
	parts := strings.Split(mapStr, ",")
	if len(parts) != Zt.NumZones {
		return nil, fmt.Errorf("%w: expected %d zones, got %d",
			ErrInvalidZoneMap, Zt.NumZones, len(parts))
	}

	zoneMap := make([]int, 0, Zt.NumZones)
	used := make([]bool, Zt.NumZones)

	for _, part := range parts {
		zone, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid zone number: %q",
				ErrInvalidZoneMap, part)
		}
		if zone < 0 || zone >= Zt.NumZones {
			return nil, fmt.Errorf("%w: zone %d is out of range (0-%d)",
				ErrInvalidZoneMap, zone, Zt.NumZones-1)
		}
		if used[zone] {
			return nil, fmt.Errorf("%w: zone %d is used multiple times",
				ErrInvalidZoneMap, zone)
		}
		zoneMap = append(zoneMap, zone)
		used[zone] = true
	}

	return zoneMap, nil
}

// RemapZone translates a physical zone to its logical zone.
// The map is read as zoneMap[logical] = physical, so the logical zone
// is the position where the physical zone appears. A physical zone
// missing from the map falls back to identity rather than failing
// the pipeline.
func RemapZone(physical int, zoneMap []int) int {
	for logical, p := range zoneMap {
		if p == physical {
			return logical
		}
	}
	return physical
}
