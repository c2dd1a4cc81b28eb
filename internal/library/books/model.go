package books

// Book は books テーブルの1行を表す
type Book struct {
	ID          int64
	Name        string
	Author      string
	PublishYear string
	LoanType    int
	IsLoaned    bool
	Active      bool
}

// 蔵書検索の条件。nil のフィールドは条件に含めない。
type SearchQuery struct {
	Name        *string
	Author      *string
	PublishYear *string
}
