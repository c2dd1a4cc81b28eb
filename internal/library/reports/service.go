package reports

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"strconv"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"LARS-backend/internal/platform/apperr"
)

const (
	EncodingUTF8     = "utf8"
	EncodingShiftJIS = "sjis"
)

type Service struct {
	store ReportStore
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db)}
}

// テスト用
func NewServiceWith(store ReportStore) *Service {
	return &Service{store: store}
}

var csvHeader = []string{"loan_id", "loan_ulid", "customer", "book", "expected_return", "returned", "late_days"}

// ExportLateLoans: 遅延返却の一覧をCSVで出す。
// 窓口の旧Windowsアプリ向けに Shift-JIS（CP932相当）でも出せるようにしておく。
func (s *Service) ExportLateLoans(ctx context.Context, encoding string) ([]byte, string, error) {
	if encoding == "" {
		encoding = EncodingUTF8
	}
	if encoding != EncodingUTF8 && encoding != EncodingShiftJIS {
		return nil, "", apperr.ErrInvalid(`encoding must be "utf8" or "sjis"`)
	}

	rows, err := s.store.ListLateLoans(ctx)
	if err != nil {
		return nil, "", err
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, csvHeader)
	for _, r := range rows {
		records = append(records, []string{
			strconv.FormatInt(r.LoanID, 10),
			r.LoanULID,
			r.CustomerName,
			r.BookName,
			r.ExpectedReturn.Format("2006-01-02"),
			r.ReturnDate.Format("2006-01-02"),
			strconv.Itoa(r.LateDays),
		})
	}

	var b bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	if encoding == EncodingShiftJIS {
		enc := japanese.ShiftJIS.NewEncoder()
		w := csv.NewWriter(transform.NewWriter(&b, enc))
		if err := w.WriteAll(records); err != nil {
			return nil, "", err
		}
		contentType = "text/csv; charset=Shift_JIS"
	} else {
		w := csv.NewWriter(&b)
		if err := w.WriteAll(records); err != nil {
			return nil, "", err
		}
	}

	return b.Bytes(), contentType, nil
}
