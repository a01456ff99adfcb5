package station

import (
	"fmt"

	"github.com/nao1215/apscan/internal/model"
)

// KnownTable maps canonical BSSIDs to their installed location.
type KnownTable map[string]model.StationInfo

// NewKnownTable builds a table from raw, hand-written BSSID keys.
// Keys are canonicalized so "00-1B-63-0A-0B-0C" and "0:1b:63:a:b:c" match
// the same station. A key that is not a hardware address is an error.
func NewKnownTable(entries map[string]model.StationInfo) (KnownTable, error) {
	table := make(KnownTable, len(entries))
	for raw, info := range entries {
		bssid, err := model.CanonicalBSSID(raw)
		if err != nil {
			return nil, fmt.Errorf("known station table: %w", err)
		}
		table[bssid] = info
	}
	return table, nil
}

// Lookup returns the metadata of a known station.
func (t KnownTable) Lookup(bssid string) (model.StationInfo, bool) {
	info, ok := t[bssid]
	return info, ok
}
