package reports_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LARS-backend/internal/library/reports"
	"LARS-backend/internal/platform/apperr"
)

type fakeReportStore struct {
	rows []reports.LateLoanRow
	err  error
}

func (f *fakeReportStore) ListLateLoans(context.Context) ([]reports.LateLoanRow, error) {
	return f.rows, f.err
}

func sampleRows() []reports.LateLoanRow {
	return []reports.LateLoanRow{
		{
			LoanID:         5,
			LoanULID:       "01J0000000000000000000TEST",
			CustomerName:   "山田 太郎",
			BookName:       "吾輩は猫である",
			ExpectedReturn: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			ReturnDate:     time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC),
			LateDays:       5,
		},
	}
}

func TestExportLateLoansUTF8(t *testing.T) {
	svc := reports.NewServiceWith(&fakeReportStore{rows: sampleRows()})

	data, contentType, err := svc.ExportLateLoans(context.Background(), "utf8")
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", contentType)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "loan_id,loan_ulid,customer,book,expected_return,returned,late_days", lines[0])
	assert.Equal(t, "5,01J0000000000000000000TEST,山田 太郎,吾輩は猫である,2024-01-15,2024-01-20,5", lines[1])
}

func TestExportLateLoansDefaultsToUTF8(t *testing.T) {
	svc := reports.NewServiceWith(&fakeReportStore{rows: sampleRows()})

	_, contentType, err := svc.ExportLateLoans(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", contentType)
}

func TestExportLateLoansShiftJIS(t *testing.T) {
	svc := reports.NewServiceWith(&fakeReportStore{rows: sampleRows()})

	utf8Data, _, err := svc.ExportLateLoans(context.Background(), "utf8")
	require.NoError(t, err)
	sjisData, contentType, err := svc.ExportLateLoans(context.Background(), "sjis")
	require.NoError(t, err)

	assert.Equal(t, "text/csv; charset=Shift_JIS", contentType)
	// 日本語を含むのでバイト列は一致しない
	assert.NotEqual(t, utf8Data, sjisData)
	// ASCIIのヘッダ行は両エンコーディングで同一
	assert.True(t, strings.HasPrefix(string(sjisData), "loan_id,loan_ulid,customer,book"))
}

func TestExportLateLoansRejectsUnknownEncoding(t *testing.T) {
	svc := reports.NewServiceWith(&fakeReportStore{rows: sampleRows()})

	_, _, err := svc.ExportLateLoans(context.Background(), "ebcdic")
	require.Error(t, err)
	assert.Equal(t, 400, apperr.ToHTTPStatus(err))
}

func TestExportLateLoansHeaderOnlyWhenEmpty(t *testing.T) {
	svc := reports.NewServiceWith(&fakeReportStore{})

	data, _, err := svc.ExportLateLoans(context.Background(), "utf8")
	require.NoError(t, err)
	assert.Equal(t, "loan_id,loan_ulid,customer,book,expected_return,returned,late_days\n", string(data))
}
