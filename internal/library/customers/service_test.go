package customers_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"LARS-backend/internal/library/customers"
	"LARS-backend/internal/platform/apperr"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// fakeStore defaults to "no rows, nothing taken"; override per test.
type fakeStore struct {
	insertFn        func(ctx context.Context, c *customers.Customer) (int64, error)
	listActiveFn    func(ctx context.Context) ([]customers.Customer, error)
	getByIDFn       func(ctx context.Context, id int64) (*customers.Customer, error)
	softDeleteFn    func(ctx context.Context, id int64) (int64, error)
	updateFieldsFn  func(ctx context.Context, id int64, p customers.FieldPatch) (int64, error)
	updateAgeFn     func(ctx context.Context, id int64, age int) error
	emailTakenFn    func(ctx context.Context, email string, excludeID int64) (bool, error)
	usernameTakenFn func(ctx context.Context, username string, excludeID int64) (bool, error)
	phoneTakenFn    func(ctx context.Context, phone string, excludeID int64) (bool, error)
	searchFn        func(ctx context.Context, q customers.SearchQuery) ([]customers.Customer, error)
}

func (f *fakeStore) Insert(ctx context.Context, c *customers.Customer) (int64, error) {
	if f.insertFn == nil {
		return 1, nil
	}
	return f.insertFn(ctx, c)
}
func (f *fakeStore) ListActive(ctx context.Context) ([]customers.Customer, error) {
	return f.listActiveFn(ctx)
}
func (f *fakeStore) GetByID(ctx context.Context, id int64) (*customers.Customer, error) {
	if f.getByIDFn == nil {
		return nil, nil
	}
	return f.getByIDFn(ctx, id)
}
func (f *fakeStore) SoftDelete(ctx context.Context, id int64) (int64, error) {
	return f.softDeleteFn(ctx, id)
}
func (f *fakeStore) UpdateFields(ctx context.Context, id int64, p customers.FieldPatch) (int64, error) {
	return f.updateFieldsFn(ctx, id, p)
}
func (f *fakeStore) UpdateAge(ctx context.Context, id int64, age int) error {
	if f.updateAgeFn == nil {
		return nil
	}
	return f.updateAgeFn(ctx, id, age)
}
func (f *fakeStore) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	if f.emailTakenFn == nil {
		return false, nil
	}
	return f.emailTakenFn(ctx, email, excludeID)
}
func (f *fakeStore) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	if f.usernameTakenFn == nil {
		return false, nil
	}
	return f.usernameTakenFn(ctx, username, excludeID)
}
func (f *fakeStore) PhoneTaken(ctx context.Context, phone string, excludeID int64) (bool, error) {
	if f.phoneTakenFn == nil {
		return false, nil
	}
	return f.phoneTakenFn(ctx, phone, excludeID)
}
func (f *fakeStore) Search(ctx context.Context, q customers.SearchQuery) ([]customers.Customer, error) {
	return f.searchFn(ctx, q)
}

var today = fixedClock{t: time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)}

func validCreateReq() customers.CreateCustomerRequest {
	return customers.CreateCustomerRequest{
		FirstName:   "Taro",
		LastName:    "Yamada",
		BirthDate:   "1990-06-15",
		City:        "Osaka",
		Email:       "taro@example.com",
		PhoneNumber: "090-1234-5678",
		Username:    "taro",
		Password:    "s3cret-password",
	}
}

func TestCreateCustomer(t *testing.T) {
	var inserted *customers.Customer
	store := &fakeStore{
		insertFn: func(_ context.Context, c *customers.Customer) (int64, error) {
			inserted = c
			return 11, nil
		},
	}
	svc := customers.NewServiceWith(store, today)

	resp, err := svc.Create(context.Background(), validCreateReq())
	require.NoError(t, err)
	assert.Equal(t, int64(11), resp.ID)
	assert.Equal(t, 36, resp.Age) // born 1990-06-15, birthday already passed
	assert.Equal(t, "user", resp.Role)

	require.NotNil(t, inserted)
	assert.NotEqual(t, "s3cret-password", inserted.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(inserted.PasswordHash), []byte("s3cret-password")))
}

func TestCreateCustomerAgeBounds(t *testing.T) {
	svc := customers.NewServiceWith(&fakeStore{}, today)

	req := validCreateReq()
	req.BirthDate = "2024-01-01" // 2歳
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, 400, apperr.ToHTTPStatus(err))

	req.BirthDate = "1890-01-01" // 136歳
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, 400, apperr.ToHTTPStatus(err))
}

func TestCreateCustomerConflicts(t *testing.T) {
	store := &fakeStore{
		emailTakenFn: func(_ context.Context, email string, excludeID int64) (bool, error) {
			return email == "taro@example.com", nil
		},
	}
	svc := customers.NewServiceWith(store, today)

	_, err := svc.Create(context.Background(), validCreateReq())
	require.Error(t, err)
	assert.Equal(t, 409, apperr.ToHTTPStatus(err))
}

func TestCreateCustomerRejectsUnknownRole(t *testing.T) {
	svc := customers.NewServiceWith(&fakeStore{}, today)

	role := "admin"
	req := validCreateReq()
	req.Role = &role
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, 400, apperr.ToHTTPStatus(err))
}

func TestListRefreshesStaleAges(t *testing.T) {
	refreshed := map[int64]int{}
	store := &fakeStore{
		listActiveFn: func(_ context.Context) ([]customers.Customer, error) {
			return []customers.Customer{
				{ID: 1, FirstName: "Taro", LastName: "Yamada", Age: 35, // 誕生日を跨いで古い
					BirthDate: time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC), Active: true},
				{ID: 2, FirstName: "Hana", LastName: "Sato", Age: 30,
					BirthDate: time.Date(1995, time.December, 1, 0, 0, 0, 0, time.UTC), Active: true},
			}, nil
		},
		updateAgeFn: func(_ context.Context, id int64, age int) error {
			refreshed[id] = age
			return nil
		},
	}
	svc := customers.NewServiceWith(store, today)

	got, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 36, got[0].Age)
	assert.Equal(t, 30, got[1].Age)

	assert.Equal(t, map[int64]int{1: 36}, refreshed)
}

func TestGetReturnsDetailOrNotFound(t *testing.T) {
	store := &fakeStore{
		getByIDFn: func(_ context.Context, id int64) (*customers.Customer, error) {
			switch id {
			case 1:
				return &customers.Customer{
					ID: 1, FirstName: "Taro", LastName: "Yamada",
					BirthDate: time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC),
					City:      "Osaka", Email: "taro@example.com", PhoneNumber: "090-1234-5678",
					Username: "taro", Role: "user", Active: true,
				}, nil
			case 2:
				return &customers.Customer{ID: 2, Active: false}, nil
			default:
				return nil, nil
			}
		},
	}
	svc := customers.NewServiceWith(store, today)

	got, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "1990-06-15", got.BirthDate)

	_, err = svc.Get(context.Background(), 2)
	assert.Equal(t, 404, apperr.ToHTTPStatus(err))

	_, err = svc.Get(context.Background(), 99)
	assert.Equal(t, 404, apperr.ToHTTPStatus(err))
}

func TestUpdatePartial(t *testing.T) {
	existing := customers.Customer{
		ID: 1, FirstName: "Taro", LastName: "Yamada", Age: 36,
		BirthDate: time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC),
		City:      "Osaka", Email: "taro@example.com", PhoneNumber: "090-1234-5678",
		Username: "taro", Role: "user", Active: true,
	}
	var patch customers.FieldPatch
	store := &fakeStore{
		getByIDFn: func(_ context.Context, id int64) (*customers.Customer, error) {
			c := existing
			return &c, nil
		},
		updateFieldsFn: func(_ context.Context, id int64, p customers.FieldPatch) (int64, error) {
			patch = p
			existing.City = *p.City
			return 1, nil
		},
	}
	svc := customers.NewServiceWith(store, today)

	city := "Kyoto"
	got, err := svc.Update(context.Background(), 1, customers.UpdateCustomerRequest{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Kyoto", got.City)

	require.NotNil(t, patch.City)
	assert.Nil(t, patch.FirstName)
	assert.Nil(t, patch.Email)
	assert.Nil(t, patch.PasswordHash)
}

func TestUpdateValidationBlocksWrite(t *testing.T) {
	store := &fakeStore{
		getByIDFn: func(_ context.Context, id int64) (*customers.Customer, error) {
			return &customers.Customer{ID: 1, Active: true}, nil
		},
		updateFieldsFn: func(_ context.Context, id int64, p customers.FieldPatch) (int64, error) {
			t.Fatal("update must not be reached")
			return 0, nil
		},
	}
	svc := customers.NewServiceWith(store, today)

	bad := "x"
	_, err := svc.Update(context.Background(), 1, customers.UpdateCustomerRequest{City: &bad})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.ToHTTPStatus(err))
}

func TestUpdateUniquenessExcludesSelf(t *testing.T) {
	var seenExclude int64
	store := &fakeStore{
		getByIDFn: func(_ context.Context, id int64) (*customers.Customer, error) {
			return &customers.Customer{ID: 7, Email: "taro@example.com", Active: true}, nil
		},
		emailTakenFn: func(_ context.Context, email string, excludeID int64) (bool, error) {
			seenExclude = excludeID
			return false, nil
		},
		updateFieldsFn: func(_ context.Context, id int64, p customers.FieldPatch) (int64, error) {
			return 1, nil
		},
	}
	svc := customers.NewServiceWith(store, today)

	email := "new@example.com"
	_, err := svc.Update(context.Background(), 7, customers.UpdateCustomerRequest{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, int64(7), seenExclude)
}

func TestDeleteCustomer(t *testing.T) {
	store := &fakeStore{
		softDeleteFn: func(_ context.Context, id int64) (int64, error) {
			if id == 1 {
				return 1, nil
			}
			return 0, nil
		},
	}
	svc := customers.NewServiceWith(store, today)

	assert.NoError(t, svc.Delete(context.Background(), 1))
	assert.Equal(t, 404, apperr.ToHTTPStatus(svc.Delete(context.Background(), 2)))
}
