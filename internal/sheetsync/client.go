package sheetsync

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client implements SheetService against the Google Sheets API.
// Application Default Credentials are assumed, same as the GCS client.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	readRange     string
}

// NewClient creates a Sheets client for one spreadsheet and range,
// e.g. range "Transactions!A2:Z" (data rows below the header).
func NewClient(ctx context.Context, spreadsheetID, readRange string, opts ...option.ClientOption) (*Client, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewClient: create sheets service: %w", err)
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
	}, nil
}

// ReadRows implements SheetService.
func (c *Client) ReadRows(ctx context.Context) ([][]interface{}, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("ReadRows: %w", err)
	}
	return resp.Values, nil
}

// OverwriteRows implements SheetService. The range is cleared first so the
// write always replaces the full data set, never merges with it.
func (c *Client) OverwriteRows(ctx context.Context, rows [][]interface{}) error {
	_, err := c.svc.Spreadsheets.Values.
		Clear(c.spreadsheetID, c.readRange, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("OverwriteRows: clear range: %w", err)
	}

	vr := &sheets.ValueRange{Values: rows}
	_, err = c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, c.readRange, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("OverwriteRows: update range: %w", err)
	}

	return nil
}

// Ensure Client implements SheetService.
var _ SheetService = (*Client)(nil)
