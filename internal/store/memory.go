package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/models"
)

// NewMemory returns a Store that keeps everything in process memory.
// It backs STORE_DRIVER=memory and the handler tests.
func NewMemory() *Store {
	m := &memory{
		users:      make(map[primitive.ObjectID]models.User),
		categories: make(map[primitive.ObjectID]models.Category),
		products:   make(map[primitive.ObjectID]memProduct),
		orders:     make(map[primitive.ObjectID]memOrder),
	}
	return &Store{
		Users:      (*memUsers)(m),
		Categories: (*memCategories)(m),
		Products:   (*memProducts)(m),
		Orders:     (*memOrders)(m),
	}
}

type memory struct {
	mu         sync.RWMutex
	seq        int64
	users      map[primitive.ObjectID]models.User
	categories map[primitive.ObjectID]models.Category
	products   map[primitive.ObjectID]memProduct
	orders     map[primitive.ObjectID]memOrder
}

// seq orders records by insertion, since timestamps can collide.
type memProduct struct {
	seq int64
	p   models.Product
}

type memOrder struct {
	seq int64
	o   models.Order
}

func (m *memory) next() int64 {
	m.seq++
	return m.seq
}

// ---- users ----

type memUsers memory

func (s *memUsers) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = *u
	return nil
}

func (s *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *memUsers) find(match func(models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Email == email })
}

func (s *memUsers) FindByEmailAndAnswer(_ context.Context, email, answer string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Email == email && u.Answer == answer })
}

func (s *memUsers) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Password = hash
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return nil
}

func (s *memUsers) UpdateProfile(_ context.Context, id primitive.ObjectID, upd models.ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Password != nil {
		u.Password = *upd.Password
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.Address != nil {
		u.Address = *upd.Address
	}
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return &u, nil
}

// ---- categories ----

type memCategories memory

func (s *memCategories) conflict(id primitive.ObjectID, name, slug string) bool {
	for _, c := range s.categories {
		if c.ID != id && (c.Name == name || c.Slug == slug) {
			return true
		}
	}
	return false
}

func (s *memCategories) Create(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflict(primitive.NilObjectID, c.Name, c.Slug) {
		return ErrDuplicate
	}
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.CreatedAt, c.UpdatedAt = now, now
	s.categories[c.ID] = *c
	return nil
}

func (s *memCategories) Update(_ context.Context, id primitive.ObjectID, name, slug string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.conflict(id, name, slug) {
		return nil, ErrDuplicate
	}
	c.Name, c.Slug = name, slug
	c.UpdatedAt = time.Now().UTC()
	s.categories[id] = c
	return &c, nil
}

func (s *memCategories) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *memCategories) List(_ context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memCategories) find(match func(models.Category) bool) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if match(c) {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memCategories) FindByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	return s.find(func(c models.Category) bool { return c.ID == id })
}

func (s *memCategories) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	return s.find(func(c models.Category) bool { return c.Slug == slug })
}

func (s *memCategories) FindByName(_ context.Context, name string) (*models.Category, error) {
	return s.find(func(c models.Category) bool { return c.Name == name })
}

// ---- products ----

type memProducts memory

// stripped returns a copy of p without photo bytes.
func stripped(p models.Product) models.Product {
	p.Photo = nil
	p.Category = nil
	return p
}

func (s *memProducts) Create(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt, p.UpdatedAt = now, now
	stored := *p
	stored.Category = nil
	s.products[p.ID] = memProduct{seq: (*memory)(s).next(), p: stored}
	return nil
}

func (s *memProducts) Update(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.products[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	p.CreatedAt = cur.p.CreatedAt
	stored := *p
	stored.Category = nil
	if stored.Photo == nil {
		stored.Photo = cur.p.Photo
	}
	cur.p = stored
	s.products[p.ID] = cur
	return nil
}

func (s *memProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *memProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mp, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	p := stripped(mp.p)
	return &p, nil
}

func (s *memProducts) FindBySlug(_ context.Context, slug string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, mp := range s.sorted() {
		if mp.p.Slug == slug {
			p := stripped(mp.p)
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memProducts) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Product{}
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		mp, ok := s.products[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, stripped(mp.p))
	}
	return out, nil
}

func (s *memProducts) Photo(_ context.Context, id primitive.ObjectID) (*models.Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mp, ok := s.products[id]
	if !ok || mp.p.Photo == nil || len(mp.p.Photo.Data) == 0 {
		return nil, ErrNotFound
	}
	photo := *mp.p.Photo
	return &photo, nil
}

func (s *memProducts) List(_ context.Context, q models.ProductQuery) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Product{}
	var skipped int64
	for _, mp := range s.sorted() {
		if !matchProduct(mp.p, q) {
			continue
		}
		if skipped < q.Skip {
			skipped++
			continue
		}
		out = append(out, stripped(mp.p))
		if q.Limit > 0 && int64(len(out)) >= q.Limit {
			break
		}
	}
	return out, nil
}

func (s *memProducts) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.products)), nil
}

// sorted returns products newest first. Callers hold the lock.
func (s *memProducts) sorted() []memProduct {
	all := make([]memProduct, 0, len(s.products))
	for _, mp := range s.products {
		all = append(all, mp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq > all[j].seq })
	return all
}

func matchProduct(p models.Product, q models.ProductQuery) bool {
	if len(q.CategoryIDs) > 0 {
		found := false
		for _, id := range q.CategoryIDs {
			if p.CategoryID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	if q.Keyword != "" {
		kw := strings.ToLower(q.Keyword)
		if !strings.Contains(strings.ToLower(p.Name), kw) &&
			!strings.Contains(strings.ToLower(p.Description), kw) {
			return false
		}
	}
	if !q.ExcludeID.IsZero() && p.ID == q.ExcludeID {
		return false
	}
	return true
}

// ---- orders ----

type memOrders memory

func (s *memOrders) Create(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	o.ID = primitive.NewObjectID()
	o.CreatedAt, o.UpdatedAt = now, now
	if o.Status == "" {
		o.Status = models.StatusNotProcess
	}
	stored := *o
	stored.ProductIDs = append([]primitive.ObjectID(nil), o.ProductIDs...)
	stored.Products, stored.Buyer = nil, nil
	s.orders[o.ID] = memOrder{seq: (*memory)(s).next(), o: stored}
	return nil
}

func (s *memOrders) list(match func(models.Order) bool) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]memOrder, 0, len(s.orders))
	for _, mo := range s.orders {
		if match(mo.o) {
			all = append(all, mo)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq > all[j].seq })
	out := make([]models.Order, 0, len(all))
	for _, mo := range all {
		out = append(out, mo.o)
	}
	return out
}

func (s *memOrders) ListByBuyer(_ context.Context, buyer primitive.ObjectID) ([]models.Order, error) {
	return s.list(func(o models.Order) bool { return o.BuyerID == buyer }), nil
}

func (s *memOrders) ListAll(_ context.Context) ([]models.Order, error) {
	return s.list(func(models.Order) bool { return true }), nil
}

func (s *memOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mo, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	mo.o.Status = status
	mo.o.UpdatedAt = time.Now().UTC()
	s.orders[id] = mo
	o := mo.o
	return &o, nil
}
