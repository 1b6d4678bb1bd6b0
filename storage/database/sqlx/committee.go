package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/gradhub/thesisdesk/core/committee"
)

type committeeRow struct {
	ID          string      `db:"id"`
	Code        string      `db:"code"`
	Name        string      `db:"name"`
	Semester    string      `db:"semester"`
	Room        null.String `db:"room"`
	DefenseDate null.Time   `db:"defense_date"`
	StartTime   null.String `db:"start_time"`
	EndTime     null.String `db:"end_time"`
	CreatedAt   null.Time   `db:"created_at"`
	UpdatedAt   null.Time   `db:"updated_at"`
}

type memberRow struct {
	CommitteeID  string `db:"committee_id"`
	Position     int    `db:"position"`
	LecturerCode string `db:"lecturer_code"`
	Name         string `db:"name"`
	Role         string `db:"role"`
}

type assignmentRow struct {
	CommitteeID  string      `db:"committee_id"`
	Position     int         `db:"position"`
	TopicCode    string      `db:"topic_code"`
	Title        string      `db:"title"`
	StudentCode  string      `db:"student_code"`
	StudentName  string      `db:"student_name"`
	StudentEmail null.String `db:"student_email"`
}

func (r committeeRow) committee() committee.Committee {
	return committee.Committee{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Semester:    r.Semester,
		Room:        r.Room,
		DefenseDate: r.DefenseDate,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		CreatedAt:   r.CreatedAt.Time,
		UpdatedAt:   r.UpdatedAt.Time,
	}
}

type committeeRepository struct {
	db *sqlx.DB
}

var _ committee.Repository = (*committeeRepository)(nil) // interface compliance check

func NewCommitteeRepository(db *sql.DB) committee.Repository {
	return &committeeRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *committeeRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return committee.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *committeeRepository) CheckCodeUniqueness(ctx context.Context, code string) error {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM committee WHERE code = $1)`
	if err := repo.db.GetContext(ctx, &exists, query, code); err != nil {
		return errors.Wrap(err, "checking committee code uniqueness")
	}
	if exists {
		return committee.ErrCodeExists
	}
	return nil
}

func (repo *committeeRepository) CreateCommittee(ctx context.Context, cmt committee.Committee) (committee.Committee, error) {
	cmt.ID = uuid.New().String()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return committee.Committee{}, errors.Wrap(err, "starting transaction")
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO committee (id, code, name, semester, room, defense_date, start_time, end_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = tx.ExecContext(ctx, query,
		cmt.ID, cmt.Code, cmt.Name, cmt.Semester, cmt.Room, cmt.DefenseDate,
		cmt.StartTime, cmt.EndTime, cmt.CreatedAt.UTC(), cmt.UpdatedAt.UTC(),
	)
	if err != nil {
		return committee.Committee{}, errors.Wrap(err, "inserting committee")
	}

	if err = repo.insertChildren(ctx, tx, cmt); err != nil {
		return committee.Committee{}, err
	}
	if err = tx.Commit(); err != nil {
		return committee.Committee{}, errors.Wrap(err, "committing committee")
	}
	return cmt, nil
}

func (repo *committeeRepository) insertChildren(ctx context.Context, tx *sqlx.Tx, cmt committee.Committee) error {
	for i, m := range cmt.Members {
		query := `
			INSERT INTO committee_member (committee_id, position, lecturer_code, name, role)
			VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.ExecContext(ctx, query, cmt.ID, i, m.LecturerCode, m.Name, m.Role); err != nil {
			return errors.Wrap(err, "inserting committee member")
		}
	}
	for i, a := range cmt.Assignments {
		query := `
			INSERT INTO committee_assignment (committee_id, position, topic_code, title, student_code, student_name, student_email)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		if _, err := tx.ExecContext(ctx, query, cmt.ID, i, a.TopicCode, a.Title, a.StudentCode, a.StudentName, a.StudentEmail); err != nil {
			return errors.Wrap(err, "inserting committee assignment")
		}
	}
	return nil
}

func (repo *committeeRepository) loadChildren(ctx context.Context, cmts []committee.Committee) error {
	if len(cmts) == 0 {
		return nil
	}
	byID := make(map[string]*committee.Committee, len(cmts))
	ids := make([]string, 0, len(cmts))
	for i := range cmts {
		cmts[i].Members = make([]committee.Member, 0)
		cmts[i].Assignments = make([]committee.Assignment, 0)
		byID[cmts[i].ID] = &cmts[i]
		ids = append(ids, cmts[i].ID)
	}

	var members []memberRow
	query := `SELECT * FROM committee_member WHERE committee_id = ANY($1) ORDER BY position`
	if err := repo.db.SelectContext(ctx, &members, query, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "querying committee members")
	}
	for _, m := range members {
		cmt := byID[m.CommitteeID]
		cmt.Members = append(cmt.Members, committee.Member{
			LecturerCode: m.LecturerCode,
			Name:         m.Name,
			Role:         m.Role,
		})
	}

	var assignments []assignmentRow
	query = `SELECT * FROM committee_assignment WHERE committee_id = ANY($1) ORDER BY position`
	if err := repo.db.SelectContext(ctx, &assignments, query, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "querying committee assignments")
	}
	for _, a := range assignments {
		cmt := byID[a.CommitteeID]
		cmt.Assignments = append(cmt.Assignments, committee.Assignment{
			TopicCode:    a.TopicCode,
			Title:        a.Title,
			StudentCode:  a.StudentCode,
			StudentName:  a.StudentName,
			StudentEmail: a.StudentEmail.String,
		})
	}
	return nil
}

func (repo *committeeRepository) GetCommitteeByCode(ctx context.Context, code string) (committee.Committee, error) {
	var row committeeRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM committee WHERE code = $1`, code); err != nil {
		return committee.Committee{}, repo.trapNoRowsErr(err, "getting committee by code")
	}
	cmts := []committee.Committee{row.committee()}
	if err := repo.loadChildren(ctx, cmts); err != nil {
		return committee.Committee{}, err
	}
	return cmts[0], nil
}

func (repo *committeeRepository) QueryAllCommittees(ctx context.Context) ([]committee.Committee, error) {
	return repo.selectCommittees(ctx, `SELECT * FROM committee ORDER BY code`)
}

func (repo *committeeRepository) FilterCommittees(ctx context.Context, filter committee.QueryFilter) ([]committee.Committee, error) {
	query := `SELECT * FROM committee`
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + itoa(len(args))
	}

	if filter.LecturerCode != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM committee_member m WHERE m.committee_id = committee.id AND m.lecturer_code = "+arg(filter.LecturerCode)+")")
	}
	if filter.StudentCode != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM committee_assignment a WHERE a.committee_id = committee.id AND a.student_code = "+arg(filter.StudentCode)+")")
	}
	if filter.Semester != "" {
		conds = append(conds, "semester = "+arg(filter.Semester))
	}
	if filter.Scheduled != nil {
		if *filter.Scheduled {
			conds = append(conds, "defense_date IS NOT NULL")
		} else {
			conds = append(conds, "defense_date IS NULL")
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY code"

	return repo.selectCommittees(ctx, query, args...)
}

func (repo *committeeRepository) selectCommittees(ctx context.Context, query string, args ...interface{}) ([]committee.Committee, error) {
	var rows []committeeRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying committees")
	}
	cmts := make([]committee.Committee, 0, len(rows))
	for _, r := range rows {
		cmts = append(cmts, r.committee())
	}
	if err := repo.loadChildren(ctx, cmts); err != nil {
		return nil, err
	}
	return cmts, nil
}

func (repo *committeeRepository) UpdateCommittee(ctx context.Context, cmt committee.Committee) (committee.Committee, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return committee.Committee{}, errors.Wrap(err, "starting transaction")
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		UPDATE committee
		SET name = $1, semester = $2, room = $3, defense_date = $4, start_time = $5, end_time = $6, updated_at = $7
		WHERE id = $8`
	res, err := tx.ExecContext(ctx, query,
		cmt.Name, cmt.Semester, cmt.Room, cmt.DefenseDate, cmt.StartTime, cmt.EndTime, cmt.UpdatedAt.UTC(), cmt.ID,
	)
	if err != nil {
		return committee.Committee{}, errors.Wrap(err, "updating committee")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return committee.Committee{}, committee.ErrNotFound
	}

	// members and assignments are replaced wholesale
	if _, err = tx.ExecContext(ctx, `DELETE FROM committee_member WHERE committee_id = $1`, cmt.ID); err != nil {
		return committee.Committee{}, errors.Wrap(err, "clearing committee members")
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM committee_assignment WHERE committee_id = $1`, cmt.ID); err != nil {
		return committee.Committee{}, errors.Wrap(err, "clearing committee assignments")
	}
	if err = repo.insertChildren(ctx, tx, cmt); err != nil {
		return committee.Committee{}, err
	}
	if err = tx.Commit(); err != nil {
		return committee.Committee{}, errors.Wrap(err, "committing committee")
	}
	return cmt, nil
}

func (repo *committeeRepository) DeleteCommitteesByCode(ctx context.Context, codes ...string) error {
	if len(codes) == 0 {
		return nil
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM committee WHERE code = ANY($1)`, pq.Array(codes)); err != nil {
		return errors.Wrap(err, "deleting committees")
	}
	return nil
}
