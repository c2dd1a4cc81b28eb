package books

// ===== Requests =====

type CreateBookRequest struct {
	Name         string `json:"name" binding:"required"`
	Author       string `json:"author" binding:"required"`
	PublishYear  string `json:"publishYear" binding:"required"`
	BookLoanType int    `json:"bookLoanType" binding:"required"`
}

// ===== Responses =====

type BookResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Author       string `json:"author"`
	PublishYear  string `json:"publishYear"`
	BookLoanType int    `json:"bookLoanType"`
	IsLoaned     bool   `json:"isLoaned"`
}

// ゲスト向けの縮小ビュー。IDと貸出種別は出さない。
type GuestBookResponse struct {
	Name        string `json:"name"`
	Author      string `json:"author"`
	PublishYear string `json:"publishYear"`
	IsLoaned    bool   `json:"isLoaned"`
}
