// Package core provides the business logic for the labor-market statistics pipeline.
//
// This package contains all domain logic independent of any UI or transport
// layer. It can be used by web handlers, the CLI, or tests without modification.
//
// # Architecture
//
// A table build runs the same steps every time:
//
//  1. A loader produces a [RawTable] from the source spreadsheet.
//  2. [Normalize] renames the known source headers to canonical fields and
//     coerces the indicator columns. Unparseable cells become absent values.
//  3. A [Classifier] assigns every row a continent (region code first, then the
//     country fallback map, then the "Unknown" sentinel).
//  4. [PadContinents] optionally appends one placeholder row per continent with
//     no data, so selection widgets always offer every continent.
//  5. The resulting [Snapshot] is published to a [Store] and handed to the
//     configured [CacheWriter].
//
// # Profiles
//
// Reference data (region code map, country fallback map, padding behavior) is
// grouped into a [Profile]. Profiles are registered at init time using
// [Register], the same way the profiles package does:
//
//	core.Register(core.Profile{
//	    Key:         "worldbank",
//	    RegionCodes: core.NewMapping([]core.MappingEntry{{Key: "AFR", Value: "Africa"}}),
//	})
//
// # Snapshots
//
// A [Snapshot] is immutable once built. Refreshing builds a new snapshot off to
// the side and swaps the active pointer in the [Store], so readers never observe
// a partially built table.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - SRC001-SRC002: Source file and schema errors
//   - QRY001-QRY003: Query input errors
//   - CACHE001: Cache store errors (never fatal)
//   - SNAP001: No dataset loaded yet
package core
