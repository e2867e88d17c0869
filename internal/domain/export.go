package domain

import "context"

// ExportKind selects which collection of an activity is exported.
type ExportKind string

const (
	ExportAttendances ExportKind = "attendances"
	ExportFeedbacks   ExportKind = "feedbacks"
)

// Valid reports whether k is a known export kind.
func (k ExportKind) Valid() bool {
	return k == ExportAttendances || k == ExportFeedbacks
}

// Export is a rendered CSV attachment.
type Export struct {
	Filename string
	Content  []byte
}

// ExportService renders activity data as downloadable CSV files.
// PARTICIPANT viewers are refused; activities outside the viewer's scope
// answer "not found".
type ExportService interface {
	ExportCSV(ctx context.Context, v Viewer, activityID string, kind ExportKind) (*Export, error)
}
