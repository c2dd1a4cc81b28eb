package customers

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"

	"LARS-backend/internal/library/agecalc"
	"LARS-backend/internal/library/validate"
	"LARS-backend/internal/platform/apperr"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Service struct {
	store CustomerStore
	clock Clock
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db), clock: realClock{}}
}

// テスト用
func NewServiceWith(store CustomerStore, clock Clock) *Service {
	return &Service{store: store, clock: clock}
}

// 利用者登録（サインアップ兼用）
func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	if err := validate.PersonName("first name", req.FirstName); err != nil {
		return nil, err
	}
	if err := validate.PersonName("last name", req.LastName); err != nil {
		return nil, err
	}
	birth, err := validate.BirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}
	age := agecalc.Age(birth, s.clock.Now())
	if !agecalc.InBounds(age) {
		return nil, apperr.ErrInvalid("age must be between 5 and 120")
	}
	if err := validate.City(req.City); err != nil {
		return nil, err
	}
	if err := validate.Email(req.Email); err != nil {
		return nil, err
	}
	if err := validate.Phone(req.PhoneNumber); err != nil {
		return nil, err
	}

	role := "user"
	if req.Role != nil && *req.Role != "" {
		if err := validate.Role(*req.Role); err != nil {
			return nil, err
		}
		role = *req.Role
	}

	// 一意性は有効な利用者の間で検証する。最終的にはUNIQUEキーが守る。
	if taken, err := s.store.UsernameTaken(ctx, req.Username, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.ErrConflict("username is already taken")
	}
	if taken, err := s.store.EmailTaken(ctx, req.Email, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.ErrConflict("email is already registered")
	}
	if taken, err := s.store.PhoneTaken(ctx, req.PhoneNumber, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.ErrConflict("phone number is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	c := &Customer{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Age:          age,
		BirthDate:    birth,
		City:         req.City,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	id, err := s.store.Insert(ctx, c)
	if err != nil {
		return nil, mapDupKey(err)
	}
	c.ID = id

	resp := toResponse(c)
	return &resp, nil
}

// List: 一覧のついでにキャッシュ済み年齢を再計算して自己修復する。
// 更新失敗は読み取りを失敗させない（ログのみ）。
func (s *Service) List(ctx context.Context) ([]CustomerResponse, error) {
	items, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	today := s.clock.Now()
	out := make([]CustomerResponse, 0, len(items))
	for i := range items {
		c := &items[i]
		calculated := agecalc.Age(c.BirthDate, today)
		if calculated != c.Age {
			if err := s.store.UpdateAge(ctx, c.ID, calculated); err != nil {
				log.Printf("[WARN] failed to refresh age for customer %d: %v", c.ID, err)
			}
			c.Age = calculated
		}
		out = append(out, toResponse(c))
	}
	return out, nil
}

// Get: 編集フォーム用の単一取得
func (s *Service) Get(ctx context.Context, id int64) (*CustomerDetailResponse, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || !c.Active {
		return nil, apperr.ErrNotFound("customer not found")
	}
	return &CustomerDetailResponse{
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		BirthDate:   c.BirthDate.Format("2006-01-02"),
		City:        c.City,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Username:    c.Username,
		Role:        c.Role,
	}, nil
}

// Update: 部分更新。存在するフィールドだけ検証して反映する。
// 検証が1つでも落ちたら何も書かない。
func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*CustomerResponse, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil || !current.Active {
		return nil, apperr.ErrNotFound("customer not found")
	}

	p := FieldPatch{}

	if req.FirstName != nil {
		if err := validate.PersonName("first name", *req.FirstName); err != nil {
			return nil, err
		}
		p.FirstName = req.FirstName
	}
	if req.LastName != nil {
		if err := validate.PersonName("last name", *req.LastName); err != nil {
			return nil, err
		}
		p.LastName = req.LastName
	}
	if req.BirthDate != nil {
		birth, err := validate.BirthDate(*req.BirthDate)
		if err != nil {
			return nil, err
		}
		age := agecalc.Age(birth, s.clock.Now())
		if !agecalc.InBounds(age) {
			return nil, apperr.ErrInvalid("age must be between 5 and 120")
		}
		p.BirthDate = &birth
		p.Age = &age
	}
	if req.City != nil {
		if err := validate.City(*req.City); err != nil {
			return nil, err
		}
		p.City = req.City
	}
	if req.Email != nil {
		if err := validate.Email(*req.Email); err != nil {
			return nil, err
		}
		if taken, err := s.store.EmailTaken(ctx, *req.Email, id); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.ErrConflict("email is already registered")
		}
		p.Email = req.Email
	}
	if req.PhoneNumber != nil {
		if err := validate.Phone(*req.PhoneNumber); err != nil {
			return nil, err
		}
		if taken, err := s.store.PhoneTaken(ctx, *req.PhoneNumber, id); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.ErrConflict("phone number is already registered")
		}
		p.PhoneNumber = req.PhoneNumber
	}
	if req.Username != nil {
		if taken, err := s.store.UsernameTaken(ctx, *req.Username, id); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.ErrConflict("username is already taken")
		}
		p.Username = req.Username
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		h := string(hash)
		p.PasswordHash = &h
	}
	if req.Role != nil {
		if err := validate.Role(*req.Role); err != nil {
			return nil, err
		}
		p.Role = req.Role
	}

	if _, err := s.store.UpdateFields(ctx, id, p); err != nil {
		return nil, mapDupKey(err)
	}

	updated, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.ErrNotFound("customer not found")
	}
	resp := toResponse(updated)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.store.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound("customer not found")
	}
	return nil
}

func (s *Service) Search(ctx context.Context, q SearchQuery) ([]CustomerResponse, error) {
	items, err := s.store.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]CustomerResponse, 0, len(items))
	for i := range items {
		out = append(out, toResponse(&items[i]))
	}
	return out, nil
}

// mapDupKey: UNIQUEキー違反（検証との競合窓を塞ぐ防波堤）をCONFLICTに写す
func mapDupKey(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return apperr.ErrConflict("email, username or phone number is already registered")
	}
	return err
}

func toResponse(c *Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Age:         c.Age,
		City:        c.City,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Username:    c.Username,
		Role:        c.Role,
	}
}
