// Package domain turns navigational warning memorandums into structured
// warning records with map geometries.
//
// # Data Source
//
// Memorandums are the daily broadcast-warning bulletins published per area
// (HYDROPAC, HYDROLANT, HYDROARC, NAVAREA IV, NAVAREA XII). An upstream
// collector downloads each bulletin and publishes it to the Kafka source
// topic, either as a JSON [RawMemorandum] or as the plain bulletin text keyed
// by the memorandum name.
//
// # Bulletin Conventions
//
// Memorandum layout varies by area:
//
//	HYDROPAC 1234/24(GEN).         concatenated warnings, one header each
//	1. NAVAREA IV 567/24 ...       numbered list of warnings
//	NAVAREA XII 89/24 ...          several headed memorandums in one blob
//
// [SplitMemorandum] detects the layout and cuts the blob into warnings.
//
// Coordinates appear in degree-decimal-minute or degree-minute-second form:
//
//	41-42.80N 070-30.30W
//	41°42'48"N 070°30'18"W
//
// Minutes and seconds of 60 or more are rejected. Both forms are returned by
// [ExtractCoordinates], decimal-minute matches first.
//
// Distances are written in words or digits ("FIVE MILES", "2 NM", "500
// METERS") and are normalized to nautical miles. A bare "WIDE BERTH
// REQUESTED" means one nautical mile.
//
// Lettered sub-areas ("A. ... B. ...") each become their own feature; labels
// must run A, B, C in order so abbreviations such as "U.S. " never split a
// warning.
//
// # Geometry
//
// Each feature is a [GeometryRecord] whose kind tells the renderer which
// primitive to draw. Circles are approximated by a closed ring of
// segments+1 points. Berthed tracklines of two points become rectangles;
// longer lines are buffered in an azimuthal equidistant projection centred on
// the line, with round caps and joins.
//
// # ID Generation
//
// Warning IDs are a navarea prefix plus a truncated SHA-256 of
// navarea|number|year, so "CANCEL HYDROPAC 1234/24" resolves to the same ID
// the cancelled warning was published under. See [WarningID] and
// [ReferenceID].
package domain
