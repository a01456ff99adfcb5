package model

import (
	"cmp"
	"slices"
)

// UnknownValue is displayed for metadata that no lookup could resolve.
const UnknownValue = "Unknown"

// StationRecord is one base station as observed by a single scan.
// Records are created by the scanner and never modified afterwards.
type StationRecord struct {
	// SSID is the network name. It may contain spaces and is empty for
	// stations that hide their name in an open scan.
	SSID string `json:"ssid"`

	// Channel is the primary channel number.
	Channel int `json:"channel"`

	// RSSI is the received signal strength in dB. More negative is weaker.
	RSSI int `json:"rssi"`

	// HT is the high-throughput (802.11n) capability token, usually "Y" or "N".
	HT string `json:"ht"`

	// CC is the country code token, "--" when the station does not advertise one.
	CC string `json:"cc"`

	// Security is the security descriptor, e.g. "WPA2(PSK/AES/AES)".
	Security string `json:"security"`
}

// ScanResult maps canonical BSSIDs to the station observed at that address.
type ScanResult map[string]StationRecord

// Merge copies every entry of other into r. A record already present for the
// same BSSID is replaced as a whole; fields are never combined.
func (r ScanResult) Merge(other ScanResult) {
	for bssid, record := range other {
		r[bssid] = record
	}
}

// Ranked returns the stations ordered by descending RSSI.
// Stations with equal RSSI are ordered by ascending BSSID so the order is
// the same on every run. Metadata is left empty; see StationInfo.
func (r ScanResult) Ranked() []RankedStation {
	ranked := make([]RankedStation, 0, len(r))
	for bssid, record := range r {
		ranked = append(ranked, RankedStation{BSSID: bssid, Record: record})
	}

	slices.SortFunc(ranked, func(a, b RankedStation) int {
		if c := cmp.Compare(b.Record.RSSI, a.Record.RSSI); c != 0 {
			return c
		}
		return cmp.Compare(a.BSSID, b.BSSID)
	})
	return ranked
}

// InfoSource tells where the metadata of a station came from.
type InfoSource string

const (
	// InfoSourceKnown means the BSSID is listed in the known station table.
	InfoSourceKnown InfoSource = "known"

	// InfoSourceManufacturer means only the model was resolved, by OUI prefix.
	InfoSourceManufacturer InfoSource = "manufacturer"

	// InfoSourceUnknown means nothing matched.
	InfoSourceUnknown InfoSource = "unknown"
)

// StationInfo is the display metadata of a base station.
type StationInfo struct {
	// Model is the hardware model or manufacturer description.
	Model string `json:"model"`

	// Site is the building or school the station is installed in.
	Site string `json:"site"`

	// Room is the room within the site.
	Room string `json:"room"`
}

// UnknownStationInfo returns the placeholder used for stations that are not
// in the known station table. The model is filled in separately.
func UnknownStationInfo(model string) StationInfo {
	if model == "" {
		model = UnknownValue
	}
	return StationInfo{
		Model: model,
		Site:  UnknownValue,
		Room:  UnknownValue,
	}
}

// WithDefaults returns a copy of i where every empty field is UnknownValue.
func (i StationInfo) WithDefaults() StationInfo {
	if i.Model == "" {
		i.Model = UnknownValue
	}
	if i.Site == "" {
		i.Site = UnknownValue
	}
	if i.Room == "" {
		i.Room = UnknownValue
	}
	return i
}

// Location returns the site and room joined by a space.
func (i StationInfo) Location() string {
	return i.Site + " " + i.Room
}

// RankedStation is a station in report order together with its metadata.
type RankedStation struct {
	// BSSID is the canonical hardware address of the station.
	BSSID string `json:"bssid"`

	// Record is the observation that survived the merge.
	Record StationRecord `json:"record"`

	// Info is the resolved display metadata.
	Info StationInfo `json:"info"`

	// Source tells which lookup produced Info.
	Source InfoSource `json:"source"`
}
