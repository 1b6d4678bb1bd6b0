package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/gradhub/thesisdesk/core/committee"
)

type committeeRepository struct {
	db *committeeTable
}

var _ committee.Repository = (*committeeRepository)(nil) // interface compliance check

func NewCommitteeRepository(db *DB) committee.Repository {
	return &committeeRepository{db: db.committee}
}

func (repo *committeeRepository) query() []committee.Committee {
	cmts := make([]committee.Committee, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		cmts = append(cmts, *c)
	}
	return cmts
}

func (repo *committeeRepository) CheckCodeUniqueness(ctx context.Context, code string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if _, ok := repo.db.table[code]; ok {
		return committee.ErrCodeExists
	}
	return nil
}

func (repo *committeeRepository) CreateCommittee(ctx context.Context, cmt committee.Committee) (committee.Committee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	cmt.ID = uuid.New().String()
	repo.db.table[cmt.Code] = &cmt
	return cmt, nil
}

func (repo *committeeRepository) GetCommitteeByCode(ctx context.Context, code string) (committee.Committee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cmt, ok := repo.db.table[code]; ok {
		return *cmt, nil
	}
	return committee.Committee{}, committee.ErrNotFound
}

func (repo *committeeRepository) QueryAllCommittees(ctx context.Context) ([]committee.Committee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *committeeRepository) FilterCommittees(ctx context.Context, filter committee.QueryFilter) ([]committee.Committee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	cmts := repo.query()

	if filter.LecturerCode != "" {
		var filtered []committee.Committee
		for _, c := range cmts {
			if c.HasLecturer(filter.LecturerCode) {
				filtered = append(filtered, c)
			}
		}
		cmts = filtered
	}
	if cmts != nil && filter.StudentCode != "" {
		var filtered []committee.Committee
		for _, c := range cmts {
			if c.HasStudent(filter.StudentCode) {
				filtered = append(filtered, c)
			}
		}
		cmts = filtered
	}
	if cmts != nil && filter.Semester != "" {
		var filtered []committee.Committee
		for _, c := range cmts {
			if c.Semester == filter.Semester {
				filtered = append(filtered, c)
			}
		}
		cmts = filtered
	}
	if cmts != nil && filter.Scheduled != nil {
		var filtered []committee.Committee
		for _, c := range cmts {
			if c.IsScheduled() == *filter.Scheduled {
				filtered = append(filtered, c)
			}
		}
		cmts = filtered
	}

	return cmts, nil
}

func (repo *committeeRepository) UpdateCommittee(ctx context.Context, cmt committee.Committee) (committee.Committee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[cmt.Code]; !ok {
		return committee.Committee{}, committee.ErrNotFound
	}
	repo.db.table[cmt.Code] = &cmt
	return cmt, nil
}

func (repo *committeeRepository) DeleteCommitteesByCode(ctx context.Context, codes ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, code := range codes {
		delete(repo.db.table, code)
	}
	return nil
}
