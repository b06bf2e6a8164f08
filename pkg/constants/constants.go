// Package constants provides shared constants used throughout the valetmerge
// codebase: timeouts, file permissions, output defaults and the literal
// markers of the Valet value-wrapping format.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the standard timeout for a single feed request
	DefaultHTTPTimeout = 30 * time.Second
)

// File permission constants
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Output defaults
const (
	// DefaultOutputFile is the CSV file written to the working directory
	DefaultOutputFile = "Total Merge.csv"

	// DefaultSQLiteTable is the table name used by the SQLite sink
	DefaultSQLiteTable = "total_merge"

	// DefaultPreviewRows is how many rows the console preview shows
	DefaultPreviewRows = 10
)

// Valet feed constants
const (
	// ValetBaseURL is the root of the Bank of Canada Valet API
	ValetBaseURL = "https://www.bankofcanada.ca/valet"

	// ObservationsKey is the JSON key holding the rows of a feed
	ObservationsKey = "observations"

	// WrapperPrefix is the text a wrapped scalar starts with once stringified
	WrapperPrefix = "{'v': '"

	// WrapperSuffix is the text a wrapped scalar ends with once stringified
	WrapperSuffix = "'}"

	// UserAgent is sent with every feed request
	UserAgent = "valetmerge"
)
