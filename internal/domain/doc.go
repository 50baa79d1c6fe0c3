// Package domain models the Smithsonian Global Volcanism Program (GVP) eruption
// record and the country boundary data it is enriched with.
//
// # Data Source
//
// Eruption rows come from the GVP "Eruptions" export. The CSV carries one
// preamble line above the header row; the loader skips it. Columns used:
//
//	Volcano Name, Start Year, VEI, VEI Modifier, Eruption Category,
//	Evidence Method (dating), Latitude, Longitude
//
// Boundaries come from a Natural Earth derived country GeoJSON whose features
// carry "name", "ISO3166-1-Alpha-3" and "ISO3166-1-Alpha-2" properties.
//
// # GVP Data Conventions
//
// Start Year:
//
//	Signed integer year. Negative values are BCE (e.g. -7050). Holocene records
//	reach back roughly 12,000 years.
//
// VEI (Volcanic Explosivity Index):
//
//	Logarithmic 0–8 scale. Blank means the eruption was never assigned a VEI.
//	The VEI Modifier column qualifies the value ("?" = uncertain, "+" = upper
//	end of the class). Blank modifiers are kept as nil, not "".
//
// Eruption Category:
//
//	"Confirmed Eruption", "Uncertain Eruption" or "Discredited Eruption".
//	Short forms without the "Eruption" suffix are accepted by [ParseCategory].
//
// Coordinates:
//
//	Decimal degrees, WGS-84. Latitude in [-90, 90], longitude in [-180, 180].
//	Rows with a blank coordinate are kept but never spatially matched; rows with
//	an out-of-range coordinate are flagged malformed and likewise kept.
//
// # Coordinate Reference Systems
//
// Points and polygons are both handled as (longitude, latitude) pairs in
// geographic degrees, which is the GeoJSON axis order. EPSG:4326 and OGC:CRS84
// are therefore treated as the same frame. Web Mercator boundary files are
// reprojected once, polygons toward points, before the join.
//
// # Continents
//
// Every enriched row carries one of the seven continent names in [Continents]
// or [Unknown]. Unknown is the sentinel for submarine or ice-sheet volcanoes
// that fall outside every country polygon, and for country names neither the
// override table nor the standardization step can place.
//
// # ID Generation
//
// Eruption IDs are deterministic SHA-256 prefixes of
// volcano|start year|lat|lon|category. Republishing the same dataset yields the
// same keys on the sink topic. See [GenerateID].
package domain
