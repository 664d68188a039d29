package report

import "errors"

var (
	ErrRemoteFetchFailed = errors.New("failed to fetch records from remote sheet")
	ErrExportFailed      = errors.New("failed to build report workbook")
)
