// Package infraformat reads and writes the Finnish geotechnical
// "Infraformat" text format (infraformaatti 2.x): line-oriented records
// describing borehole surveys.
//
// An infraformat file starts with optional file-scoped header lines (FO,
// KJ), followed by one block per borehole. Each block mixes point-header
// lines (XY, TT, ...), inline comment lines (HM, TX, ...) and numeric
// survey data lines whose field layout is decided by the active survey
// method abbreviation, and ends with a "-1" line.
//
// # Reading
//
//	holes, err := infraformat.ReadPath("borings/*.tek")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, hole := range holes {
//	    fmt.Println(hole.PointID(), len(hole.Survey))
//	}
//
// Files compressed with gzip, bzip2, xz or zstandard are decompressed
// transparently based on the file extension. Byte content that is not
// valid under the requested encoding can be retried over a list of
// fallback encodings, see WithRobustEncoding.
//
// By default malformed lines are collected per hole (Hole.Illegal) and
// reading continues. Use WithStrict to abort on the first illegal line
// instead.
//
// # Writing
//
//	err := holes.WriteFile("out.tek", infraformat.NewWriteOptions())
//
// Re-serialized output round-trips: parsing it again yields holes with
// equal header, fileheader and survey content. Relative line order is
// preserved; absolute line numbers are not.
//
// # Projection and export
//
// Holes.Table flattens survey rows into one table (one row per survey
// entry, joined with its hole's header and fileheader fields). The table
// can be exported to CSV or Excel, or loaded into an in-memory SQLite
// database with OpenDatabase for SQL queries.
//
// Coordinate reprojection between the Finnish ETRS systems lives in the
// coord subpackage; downloading holes from a WFS feature service lives
// in the wfs subpackage.
package infraformat
