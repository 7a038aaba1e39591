// Package jeotrans converts positions between geodetic latitude/longitude and
// the Transverse Mercator, Polar Stereographic, UTM, UPS and MGRS coordinate
// systems. Every conversion pivots through s2.LatLng.
//
// Converters hold only values fixed at construction and are safe for
// concurrent use. Inputs outside a converter's domain are reported as
// *DomainError values that match the Err* sentinels with errors.Is.
package jeotrans
