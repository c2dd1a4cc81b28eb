package loans

// ===== Requests =====

type OpenLoanRequest struct {
	BookID     int64 `json:"bookId" binding:"required"`
	CustomerID int64 `json:"custId" binding:"required"`
}

// ===== Responses =====
// 日付は既存フロントに合わせて YYYY-MM-DD の文字列で返す。

type LoanResponse struct {
	ID                 int64   `json:"id"`
	LoanULID           string  `json:"loanUlid"`
	CustID             int64   `json:"custId"`
	BookID             int64   `json:"bookId"`
	LoanDate           string  `json:"loanDate"`
	ExpectedReturnDate string  `json:"expected_returnDate"`
	ReturnDate         *string `json:"returnDate,omitempty"`
	IsLate             bool    `json:"isLate"`
	LateDaysNum        int     `json:"lateDays_num"`
	Active             bool    `json:"active"`
}

// 自分の借用一覧（認証必須ビュー）
type CustomerBookResponse struct {
	BookName    string `json:"book_name"`
	Author      string `json:"author"`
	PublishYear string `json:"publish_year"`
	IsLate      bool   `json:"isLate"`
	Active      bool   `json:"active"`
}
