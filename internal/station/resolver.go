package station

import (
	"github.com/nao1215/apscan/internal/model"
)

// Resolver attaches display metadata to ranked stations.
type Resolver struct {
	known         KnownTable
	manufacturers ManufacturerLookup
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithKnownTable sets the known station table.
func WithKnownTable(t KnownTable) ResolverOption {
	return func(r *Resolver) {
		r.known = t
	}
}

// WithManufacturers replaces the built-in manufacturer table.
func WithManufacturers(l ManufacturerLookup) ResolverOption {
	return func(r *Resolver) {
		r.manufacturers = l
	}
}

// NewResolver creates a Resolver with an empty known table and the
// built-in manufacturer table.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		known:         KnownTable{},
		manufacturers: BuiltinTable(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the metadata for bssid and where it came from.
// A known station always wins over the manufacturer lookup, even when its
// model is blank; blank fields of a known station read "Unknown".
func (r *Resolver) Resolve(bssid string) (model.StationInfo, model.InfoSource) {
	if info, ok := r.known.Lookup(bssid); ok {
		return info.WithDefaults(), model.InfoSourceKnown
	}
	if r.manufacturers != nil {
		if desc, ok := r.manufacturers.Manufacturer(bssid); ok {
			return model.UnknownStationInfo(desc), model.InfoSourceManufacturer
		}
	}
	return model.UnknownStationInfo(""), model.InfoSourceUnknown
}

// Annotate fills Info and Source of every station in place.
func (r *Resolver) Annotate(stations []model.RankedStation) {
	for i := range stations {
		stations[i].Info, stations[i].Source = r.Resolve(stations[i].BSSID)
	}
}
