package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"alumni-directory-backend/internal/domain"
	"alumni-directory-backend/internal/repository"
)

// memStore is an in-memory repository.Transactor. WithTx snapshots every
// table and restores it when fn fails, which is enough to observe atomicity.
type memStore struct {
	profiles   map[string]domain.Profile
	blocklist  map[string]domain.BlocklistEntry
	identities map[string]domain.Identity
	admins     map[string]domain.Admin

	// failOn makes the named operation ("Profiles.Update", "Blocklist.Upsert", ...) fail.
	failOn map[string]error

	// Row locks held by the running transaction. Work handed to concurrently
	// for a locked profile waits in pending until the transaction ends, the
	// way a second Postgres writer waits on the row lock.
	depth   int
	locked  map[string]bool
	pending []func()

	// afterRead, when set, runs once right after the next profile read.
	afterRead func(p domain.Profile)
}

func newMemStore() *memStore {
	return &memStore{
		profiles:   map[string]domain.Profile{},
		blocklist:  map[string]domain.BlocklistEntry{},
		identities: map[string]domain.Identity{},
		admins:     map[string]domain.Admin{},
		failOn:     map[string]error{},
		locked:     map[string]bool{},
	}
}

func (s *memStore) fail(op string) error {
	return s.failOn[op]
}

func (s *memStore) Repositories() repository.Repositories {
	return repository.Repositories{
		Profiles:   &memProfiles{s},
		Blocklist:  &memBlocklist{s},
		Identities: &memIdentities{s},
		Admins:     &memAdmins{s},
	}
}

func (s *memStore) WithTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	profiles := copyMap(s.profiles)
	blocklist := copyMap(s.blocklist)
	identities := copyMap(s.identities)
	admins := copyMap(s.admins)

	s.depth++
	err := fn(s.Repositories())
	if err != nil {
		s.profiles, s.blocklist, s.identities, s.admins = profiles, blocklist, identities, admins
	}
	s.depth--
	if s.depth == 0 {
		s.release()
	}
	return err
}

func (s *memStore) lock(profileID string) {
	if s.depth > 0 {
		s.locked[profileID] = true
	}
}

func (s *memStore) release() {
	s.locked = map[string]bool{}
	pending := s.pending
	s.pending = nil
	for _, fn := range pending {
		fn()
	}
}

// concurrently runs fn as another request touching profileID. It runs now
// unless the current transaction holds that row.
func (s *memStore) concurrently(profileID string, fn func()) {
	if s.locked[profileID] {
		s.pending = append(s.pending, fn)
		return
	}
	fn()
}

func (s *memStore) read(p domain.Profile) {
	if hook := s.afterRead; hook != nil {
		s.afterRead = nil
		hook(p)
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) profileByEmail(email string) (domain.Profile, bool) {
	for _, p := range s.profiles {
		if p.Email == domain.NormalizeEmail(email) {
			return p, true
		}
	}
	return domain.Profile{}, false
}

type memProfiles struct{ s *memStore }

func (r *memProfiles) Create(ctx context.Context, p *domain.Profile) error {
	if err := r.s.fail("Profiles.Create"); err != nil {
		return err
	}
	if _, ok := r.s.profileByEmail(p.Email); ok {
		return fmt.Errorf("%w: profile already exists", domain.ErrConflict)
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.profiles[p.ID] = *p
	return nil
}

func (r *memProfiles) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.get(id, false)
}

func (r *memProfiles) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return r.getByEmail(email, false)
}

func (r *memProfiles) GetByIDForUpdate(ctx context.Context, id string) (*domain.Profile, error) {
	return r.get(id, true)
}

func (r *memProfiles) GetByEmailForUpdate(ctx context.Context, email string) (*domain.Profile, error) {
	return r.getByEmail(email, true)
}

func (r *memProfiles) get(id string, forUpdate bool) (*domain.Profile, error) {
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("%w: profile", domain.ErrNotFound)
	}
	return r.found(p, forUpdate), nil
}

func (r *memProfiles) getByEmail(email string, forUpdate bool) (*domain.Profile, error) {
	p, ok := r.s.profileByEmail(email)
	if !ok {
		return nil, fmt.Errorf("%w: profile", domain.ErrNotFound)
	}
	return r.found(p, forUpdate), nil
}

func (r *memProfiles) found(p domain.Profile, forUpdate bool) *domain.Profile {
	if forUpdate {
		r.s.lock(p.ID)
	}
	r.s.read(p)
	return &p
}

func (r *memProfiles) Update(ctx context.Context, p *domain.Profile) error {
	if err := r.s.fail("Profiles.Update"); err != nil {
		return err
	}
	if _, ok := r.s.profiles[p.ID]; !ok {
		return fmt.Errorf("%w: profile", domain.ErrNotFound)
	}
	r.s.lock(p.ID)
	p.UpdatedAt = time.Now().UTC()
	r.s.profiles[p.ID] = *p
	return nil
}

func (r *memProfiles) UpdateFields(ctx context.Context, p *domain.Profile) error {
	if err := r.s.fail("Profiles.UpdateFields"); err != nil {
		return err
	}
	stored, ok := r.s.profiles[p.ID]
	if !ok {
		return fmt.Errorf("%w: profile", domain.ErrNotFound)
	}
	r.s.lock(p.ID)
	stored.Name, stored.Phone, stored.GraduationYear = p.Name, p.Phone, p.GraduationYear
	stored.Degree, stored.Department, stored.CurrentJob = p.Degree, p.Department, p.CurrentJob
	stored.Company, stored.Location, stored.LinkedinURL = p.Company, p.Location, p.LinkedinURL
	stored.Bio, stored.ProfilePicture = p.Bio, p.ProfilePicture
	stored.UpdatedAt = time.Now().UTC()
	p.UpdatedAt = stored.UpdatedAt
	r.s.profiles[p.ID] = stored
	return nil
}

func (r *memProfiles) List(ctx context.Context, status domain.ProfileStatus) ([]domain.Profile, error) {
	out := []domain.Profile{}
	for _, p := range r.s.profiles {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memProfiles) ListByStatus(ctx context.Context, status domain.ProfileStatus) ([]domain.ProfileWithOwner, error) {
	out := []domain.ProfileWithOwner{}
	for _, p := range r.s.profiles {
		if p.Status == status {
			out = append(out, domain.ProfileWithOwner{Profile: p})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

type memBlocklist struct{ s *memStore }

func (r *memBlocklist) Get(ctx context.Context, email string) (*domain.BlocklistEntry, error) {
	e, ok := r.s.blocklist[domain.NormalizeEmail(email)]
	if !ok {
		return nil, fmt.Errorf("%w: blocklist entry", domain.ErrNotFound)
	}
	return &e, nil
}

func (r *memBlocklist) Exists(ctx context.Context, email string) (bool, error) {
	if err := r.s.fail("Blocklist.Exists"); err != nil {
		return false, err
	}
	_, ok := r.s.blocklist[domain.NormalizeEmail(email)]
	return ok, nil
}

func (r *memBlocklist) Upsert(ctx context.Context, entry *domain.BlocklistEntry) error {
	if err := r.s.fail("Blocklist.Upsert"); err != nil {
		return err
	}
	entry.Email = domain.NormalizeEmail(entry.Email)
	r.s.blocklist[entry.Email] = *entry
	return nil
}

func (r *memBlocklist) Delete(ctx context.Context, email string) error {
	if err := r.s.fail("Blocklist.Delete"); err != nil {
		return err
	}
	delete(r.s.blocklist, domain.NormalizeEmail(email))
	return nil
}

func (r *memBlocklist) List(ctx context.Context) ([]domain.BlocklistEntry, error) {
	out := []domain.BlocklistEntry{}
	for _, e := range r.s.blocklist {
		out = append(out, e)
	}
	return out, nil
}

type memIdentities struct{ s *memStore }

func (r *memIdentities) Upsert(ctx context.Context, identity *domain.Identity) error {
	if err := r.s.fail("Identities.Upsert"); err != nil {
		return err
	}
	for id, existing := range r.s.identities {
		if existing.Subject == identity.Subject {
			existing.Email = identity.Email
			existing.Name = identity.Name
			existing.Picture = identity.Picture
			existing.UpdatedAt = time.Now().UTC()
			r.s.identities[id] = existing
			*identity = existing
			return nil
		}
	}
	now := time.Now().UTC()
	identity.ID = uuid.NewString()
	identity.CreatedAt, identity.UpdatedAt = now, now
	r.s.identities[identity.ID] = *identity
	return nil
}

func (r *memIdentities) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	i, ok := r.s.identities[id]
	if !ok {
		return nil, fmt.Errorf("%w: identity", domain.ErrNotFound)
	}
	return &i, nil
}

func (r *memIdentities) LinkProfile(ctx context.Context, identityID, profileID string) (bool, error) {
	if err := r.s.fail("Identities.LinkProfile"); err != nil {
		return false, err
	}
	i, ok := r.s.identities[identityID]
	if !ok {
		return false, nil
	}
	if i.ProfileID != nil && *i.ProfileID != profileID {
		return false, nil
	}
	i.ProfileID = &profileID
	r.s.identities[identityID] = i
	return true, nil
}

type memAdmins struct{ s *memStore }

func (r *memAdmins) Create(ctx context.Context, admin *domain.Admin) error {
	for _, a := range r.s.admins {
		if a.Username == admin.Username {
			return fmt.Errorf("%w: admin already exists", domain.ErrConflict)
		}
	}
	admin.CreatedAt = time.Now().UTC()
	r.s.admins[admin.ID] = *admin
	return nil
}

func (r *memAdmins) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	a, ok := r.s.admins[id]
	if !ok {
		return nil, fmt.Errorf("%w: admin", domain.ErrNotFound)
	}
	return &a, nil
}

func (r *memAdmins) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	for _, a := range r.s.admins {
		if a.Username == username {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("%w: admin", domain.ErrNotFound)
}
