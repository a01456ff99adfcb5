package station

import (
	"fmt"
	"strings"

	"github.com/klauspost/oui"

	"github.com/nao1215/apscan/internal/model"
)

// builtinManufacturers lists the OUI prefixes of access points commonly
// found in school networks.
var builtinManufacturers = map[string]string{
	"00:03:93": "Apple AirPort Extreme (A1034)",
	"00:07:40": "Buffalo WLA-G54",
	"00:11:24": "Apple AirPort Extreme with 802.11g",
	"00:16:01": "Buffalo WZR-AG300NH",
	"00:16:cb": "Apple AirPort Extreme with 802.11g",
	"00:1b:63": "Apple AirPort Express",
	"00:1c:b3": "Apple AirPort Extreme with 802.11n (Gigabit Ethernet)",
	"00:1f:33": "Netgear WG111v2",
	"00:1f:f3": "Apple AirPort Extreme with 802.11n (Gigabit Ethernet)",
	"00:21:f7": "HP ProCurve Unknown",
	"00:22:75": "Belkin Wireless",
	"00:24:a5": "Buffalo WHR-HP-G54",
	"00:25:3c": "2Wire 3800 HGV-B U-verse Residential Gateway",
	"00:ff:66": "Unregistered Unknown",
	"30:46:9a": "Netgear WNDR3700",
	"3c:ea:4f": "2Wire i3812V",
	"66:2a:2f": "Unregistered Unknown",
	"68:7f:74": "Linksys WRT54GL",
	"c0:3f:0e": "Netgear DG834G",
	"f8:1e:df": "Apple AirPort Extreme (Simultaneous Dual-Band II)",
}

// ManufacturerLookup resolves a BSSID to a model or vendor description.
type ManufacturerLookup interface {
	// Manufacturer returns the description for bssid, or false when unknown.
	Manufacturer(bssid string) (string, bool)
}

// PrefixTable is a ManufacturerLookup keyed by canonical OUI prefix.
type PrefixTable map[string]string

// BuiltinTable returns a copy of the built-in prefix table.
func BuiltinTable() PrefixTable {
	table := make(PrefixTable, len(builtinManufacturers))
	for prefix, desc := range builtinManufacturers {
		table[prefix] = desc
	}
	return table
}

// NewPrefixTable builds a table from hand-written prefixes such as
// "00:1B:63" or "00-1b-63".
func NewPrefixTable(entries map[string]string) (PrefixTable, error) {
	table := make(PrefixTable, len(entries))
	for raw, desc := range entries {
		prefix, err := canonicalPrefix(raw)
		if err != nil {
			return nil, err
		}
		table[prefix] = desc
	}
	return table, nil
}

// canonicalPrefix pads a three-octet prefix to a full address so the
// BSSID rules apply, then cuts it back.
func canonicalPrefix(raw string) (string, error) {
	sep := ":"
	if strings.Contains(raw, "-") && !strings.Contains(raw, ":") {
		sep = "-"
	}
	full, err := model.CanonicalBSSID(strings.TrimSpace(raw) + strings.Repeat(sep+"0", 3))
	if err != nil {
		return "", fmt.Errorf("manufacturer prefix %q: %w", raw, err)
	}
	return model.OUIPrefix(full), nil
}

// Manufacturer implements ManufacturerLookup.
func (t PrefixTable) Manufacturer(bssid string) (string, bool) {
	desc, ok := t[model.OUIPrefix(bssid)]
	return desc, ok
}

// ouiQuerier is the part of oui.StaticDB used here.
type ouiQuerier interface {
	Query(mac string) (*oui.Entry, error)
}

// OUIDatabase is a ManufacturerLookup backed by an IEEE oui.txt file.
type OUIDatabase struct {
	db ouiQuerier
}

// OpenOUIDatabase loads the IEEE registry at path.
func OpenOUIDatabase(path string) (*OUIDatabase, error) {
	db, err := oui.OpenStaticFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OUI database %s: %w", path, err)
	}
	return &OUIDatabase{db: db}, nil
}

// Manufacturer implements ManufacturerLookup.
func (d *OUIDatabase) Manufacturer(bssid string) (string, bool) {
	entry, err := d.db.Query(bssid)
	if err != nil || entry == nil || entry.Manufacturer == "" {
		return "", false
	}
	return entry.Manufacturer, true
}

// Chain tries each lookup in order and returns the first match.
type Chain []ManufacturerLookup

// Manufacturer implements ManufacturerLookup.
func (c Chain) Manufacturer(bssid string) (string, bool) {
	for _, l := range c {
		if l == nil {
			continue
		}
		if desc, ok := l.Manufacturer(bssid); ok {
			return desc, true
		}
	}
	return "", false
}
