package sheetsync

import "context"

// SheetService defines the spreadsheet operations the sync needs.
// The interface enables mocking in tests; the concrete implementation
// talks to the Google Sheets API.
type SheetService interface {
	// ReadRows returns every data row in the configured range.
	ReadRows(ctx context.Context) ([][]interface{}, error)

	// OverwriteRows clears the configured range and writes rows in full.
	OverwriteRows(ctx context.Context, rows [][]interface{}) error
}
