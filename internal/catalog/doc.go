// Package catalog is the durable image metadata store.
//
// Scanning a photo directory for dimensions and EXIF data is the slow
// part of a site build, so the results are cached here in a SQLite
// database and refreshed by import batches. The filter engine never
// touches this package; the build step reads records out and hands them
// to compiled queries as plain values.
package catalog
