package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"stockledger/internal/model"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of every repository,
// used by service tests. Insertion order is preserved so listing
// semantics match the database-backed repositories.
type MemoryStore struct {
	mu sync.RWMutex

	products     map[uuid.UUID]model.Product
	productOrder []uuid.UUID
	transactions []model.Transaction
	indents      map[uuid.UUID]model.Indent
	indentOrder  []uuid.UUID
	users        map[uuid.UUID]model.User
	userOrder    []uuid.UUID
	permissions  []model.Permission
	departments  []model.Department
	formFields   []model.FormFieldSetting
	appConfig    *model.AppConfig

	nextDeptID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:   make(map[uuid.UUID]model.Product),
		indents:    make(map[uuid.UUID]model.Indent),
		users:      make(map[uuid.UUID]model.User),
		nextDeptID: 1,
	}
}

// transaction-aware locking: inside WithTransaction the store lock is
// already held and repositories must not re-acquire it
type memTxKey struct{}

func inTx(ctx context.Context) bool {
	v, ok := ctx.Value(memTxKey{}).(bool)
	return ok && v
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !inTx(ctx) {
		m.mu.RLock()
	}
}

func (m *MemoryStore) runlock(ctx context.Context) {
	if !inTx(ctx) {
		m.mu.RUnlock()
	}
}

func (m *MemoryStore) wlock(ctx context.Context) {
	if !inTx(ctx) {
		m.mu.Lock()
	}
}

func (m *MemoryStore) wunlock(ctx context.Context) {
	if !inTx(ctx) {
		m.mu.Unlock()
	}
}

// MemoryTx emulates a transaction boundary with the store's write lock.
type MemoryTx struct {
	store *MemoryStore
}

func NewMemoryTx(store *MemoryStore) *MemoryTx {
	return &MemoryTx{store: store}
}

var _ TxManager = (*MemoryTx)(nil)

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	return fn(context.WithValue(ctx, memTxKey{}, true))
}

func stampCreate(b *model.BaseModel) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
}

// ----- products -----

type MemoryProducts struct{ store *MemoryStore }

func NewMemoryProducts(store *MemoryStore) *MemoryProducts { return &MemoryProducts{store} }

var _ ProductRepository = (*MemoryProducts)(nil)

func (r *MemoryProducts) Create(ctx context.Context, p *model.Product) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	stampCreate(&p.BaseModel)
	r.store.products[p.ID] = *p
	r.store.productOrder = append(r.store.productOrder, p.ID)
	return nil
}

func (r *MemoryProducts) FindAll(ctx context.Context) ([]model.Product, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	out := make([]model.Product, 0, len(r.store.productOrder))
	for _, id := range r.store.productOrder {
		out = append(out, r.store.products[id])
	}
	return out, nil
}

func (r *MemoryProducts) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	p, ok := r.store.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (r *MemoryProducts) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	for _, id := range r.store.productOrder {
		if p := r.store.products[id]; p.SKU == sku {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryProducts) Update(ctx context.Context, p *model.Product) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, ok := r.store.products[p.ID]; !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now()
	r.store.products[p.ID] = *p
	return nil
}

func (r *MemoryProducts) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, ok := r.store.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.store.products, id)
	for i, pid := range r.store.productOrder {
		if pid == id {
			r.store.productOrder = append(r.store.productOrder[:i], r.store.productOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryProducts) DeleteAll(ctx context.Context) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	r.store.products = make(map[uuid.UUID]model.Product)
	r.store.productOrder = nil
	return nil
}

// ----- transactions -----

type MemoryTransactions struct{ store *MemoryStore }

func NewMemoryTransactions(store *MemoryStore) *MemoryTransactions { return &MemoryTransactions{store} }

var _ TransactionRepository = (*MemoryTransactions)(nil)

func (r *MemoryTransactions) Create(ctx context.Context, tx *model.Transaction) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	stampCreate(&tx.BaseModel)
	r.store.transactions = append(r.store.transactions, *tx)
	return nil
}

func (r *MemoryTransactions) FindAll(ctx context.Context) ([]model.Transaction, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	// newest first, matching the database ordering
	out := make([]model.Transaction, 0, len(r.store.transactions))
	for i := len(r.store.transactions) - 1; i >= 0; i-- {
		out = append(out, r.store.transactions[i])
	}
	return out, nil
}

func (r *MemoryTransactions) FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.Transaction, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	var out []model.Transaction
	for _, tx := range r.store.transactions {
		if tx.ProductID == productID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *MemoryTransactions) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	kept := r.store.transactions[:0]
	for _, tx := range r.store.transactions {
		if tx.ProductID != productID {
			kept = append(kept, tx)
		}
	}
	r.store.transactions = kept
	return nil
}

func (r *MemoryTransactions) DeleteAll(ctx context.Context) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	r.store.transactions = nil
	return nil
}

func (r *MemoryTransactions) StockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementPoint, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	byDay := make(map[string]*StockMovementPoint)
	for _, tx := range r.store.transactions {
		if tx.CreatedAt.Before(startDate) || tx.CreatedAt.After(endDate) {
			continue
		}
		day := tx.CreatedAt.Format("2006-01-02")
		point, ok := byDay[day]
		if !ok {
			point = &StockMovementPoint{Date: day}
			byDay[day] = point
		}
		if tx.Type == model.MovementIn {
			point.Inbound += tx.Quantity
		} else {
			point.Outbound += tx.Quantity
		}
	}
	out := make([]StockMovementPoint, 0, len(byDay))
	for _, point := range byDay {
		out = append(out, *point)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// ----- indents -----

type MemoryIndents struct{ store *MemoryStore }

func NewMemoryIndents(store *MemoryStore) *MemoryIndents { return &MemoryIndents{store} }

var _ IndentRepository = (*MemoryIndents)(nil)

func (r *MemoryIndents) Create(ctx context.Context, indent *model.Indent) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	stampCreate(&indent.BaseModel)
	r.store.indents[indent.ID] = *indent
	r.store.indentOrder = append(r.store.indentOrder, indent.ID)
	return nil
}

func (r *MemoryIndents) FindAll(ctx context.Context) ([]model.Indent, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	out := make([]model.Indent, 0, len(r.store.indentOrder))
	for i := len(r.store.indentOrder) - 1; i >= 0; i-- {
		out = append(out, r.store.indents[r.store.indentOrder[i]])
	}
	return out, nil
}

func (r *MemoryIndents) FindByID(ctx context.Context, id uuid.UUID) (*model.Indent, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	indent, ok := r.store.indents[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := indent
	return &cp, nil
}

func (r *MemoryIndents) Update(ctx context.Context, indent *model.Indent) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, ok := r.store.indents[indent.ID]; !ok {
		return ErrNotFound
	}
	indent.UpdatedAt = time.Now()
	r.store.indents[indent.ID] = *indent
	return nil
}

func (r *MemoryIndents) DeleteAll(ctx context.Context) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	r.store.indents = make(map[uuid.UUID]model.Indent)
	r.store.indentOrder = nil
	return nil
}

// ----- users -----

type MemoryUsers struct{ store *MemoryStore }

func NewMemoryUsers(store *MemoryStore) *MemoryUsers { return &MemoryUsers{store} }

var _ UserRepository = (*MemoryUsers)(nil)

func (r *MemoryUsers) Create(ctx context.Context, user *model.User) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	stampCreate(&user.BaseModel)
	r.store.users[user.ID] = *user
	r.store.userOrder = append(r.store.userOrder, user.ID)
	return nil
}

func (r *MemoryUsers) FindAll(ctx context.Context) ([]model.User, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	out := make([]model.User, 0, len(r.store.userOrder))
	for _, id := range r.store.userOrder {
		out = append(out, r.store.users[id])
	}
	return out, nil
}

func (r *MemoryUsers) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	user, ok := r.store.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := user
	return &cp, nil
}

func (r *MemoryUsers) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	for _, id := range r.store.userOrder {
		u := r.store.users[id]
		if strings.EqualFold(u.Username, username) {
			cp := u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUsers) Update(ctx context.Context, user *model.User) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, ok := r.store.users[user.ID]; !ok {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	r.store.users[user.ID] = *user
	return nil
}

func (r *MemoryUsers) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, ok := r.store.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.store.users, id)
	for i, uid := range r.store.userOrder {
		if uid == id {
			r.store.userOrder = append(r.store.userOrder[:i], r.store.userOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryUsers) UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	user, ok := r.store.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.Password = hashedPassword
	r.store.users[userID] = user
	return nil
}

func (r *MemoryUsers) UpdatePermissions(ctx context.Context, userID uuid.UUID, permissions []model.Permission) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	user, ok := r.store.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.Permissions = permissions
	r.store.users[userID] = user
	return nil
}

func (r *MemoryUsers) Count(ctx context.Context) (int64, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	return int64(len(r.store.users)), nil
}

// ----- permissions -----

type MemoryPermissions struct{ store *MemoryStore }

func NewMemoryPermissions(store *MemoryStore) *MemoryPermissions { return &MemoryPermissions{store} }

var _ PermissionRepository = (*MemoryPermissions)(nil)

func (r *MemoryPermissions) FindAll(ctx context.Context) ([]model.Permission, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	return append([]model.Permission(nil), r.store.permissions...), nil
}

func (r *MemoryPermissions) FindByCodes(ctx context.Context, codes []string) ([]model.Permission, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	wanted := make(map[string]bool, len(codes))
	for _, c := range codes {
		wanted[c] = true
	}
	var out []model.Permission
	for _, p := range r.store.permissions {
		if wanted[p.Code] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *MemoryPermissions) SeedDefaults(ctx context.Context) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if len(r.store.permissions) > 0 {
		return nil
	}
	for i, p := range model.DefaultPermissions {
		p.ID = uint(i + 1)
		r.store.permissions = append(r.store.permissions, p)
	}
	return nil
}

// ----- departments -----

type MemoryDepartments struct{ store *MemoryStore }

func NewMemoryDepartments(store *MemoryStore) *MemoryDepartments { return &MemoryDepartments{store} }

var _ DepartmentRepository = (*MemoryDepartments)(nil)

func (r *MemoryDepartments) FindAll(ctx context.Context) ([]model.Department, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	return append([]model.Department(nil), r.store.departments...), nil
}

func (r *MemoryDepartments) FindByName(ctx context.Context, name string) (*model.Department, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	for _, d := range r.store.departments {
		if d.Name == name {
			cp := d
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryDepartments) Create(ctx context.Context, dept *model.Department) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	dept.ID = r.store.nextDeptID
	r.store.nextDeptID++
	r.store.departments = append(r.store.departments, *dept)
	return nil
}

func (r *MemoryDepartments) Delete(ctx context.Context, name string) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	for i, d := range r.store.departments {
		if d.Name == name {
			r.store.departments = append(r.store.departments[:i], r.store.departments[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryDepartments) SeedDefaults(ctx context.Context) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if len(r.store.departments) > 0 {
		return nil
	}
	for _, name := range model.DefaultDepartments {
		r.store.departments = append(r.store.departments, model.Department{ID: r.store.nextDeptID, Name: name})
		r.store.nextDeptID++
	}
	return nil
}

// ----- settings -----

type MemorySettings struct{ store *MemoryStore }

func NewMemorySettings(store *MemoryStore) *MemorySettings { return &MemorySettings{store} }

var _ SettingsRepository = (*MemorySettings)(nil)

func (r *MemorySettings) FormFields(ctx context.Context) ([]model.FormFieldSetting, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	return append([]model.FormFieldSetting(nil), r.store.formFields...), nil
}

func (r *MemorySettings) UpdateFormField(ctx context.Context, field *model.FormFieldSetting) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	for i := range r.store.formFields {
		if r.store.formFields[i].FieldID == field.FieldID {
			r.store.formFields[i].Enabled = field.Enabled
			r.store.formFields[i].Required = field.Required
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemorySettings) AppConfig(ctx context.Context) (*model.AppConfig, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	if r.store.appConfig == nil {
		return nil, ErrNotFound
	}
	cp := *r.store.appConfig
	return &cp, nil
}

func (r *MemorySettings) UpdateAppConfig(ctx context.Context, cfg *model.AppConfig) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	cp := *cfg
	r.store.appConfig = &cp
	return nil
}

func (r *MemorySettings) SeedDefaults(ctx context.Context) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if len(r.store.formFields) == 0 {
		for i, f := range model.DefaultFormFields {
			f.ID = uint(i + 1)
			r.store.formFields = append(r.store.formFields, f)
		}
	}
	if r.store.appConfig == nil {
		cfg := model.DefaultAppConfig
		cfg.ID = 1
		r.store.appConfig = &cfg
	}
	return nil
}
