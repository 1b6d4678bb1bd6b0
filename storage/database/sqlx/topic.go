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

	"github.com/gradhub/thesisdesk/core/topic"
)

type topicRow struct {
	ID             string      `db:"id"`
	Code           string      `db:"code"`
	Title          string      `db:"title"`
	Abstract       null.String `db:"abstract"`
	StudentCode    string      `db:"student_code"`
	SupervisorCode string      `db:"supervisor_code"`
	Semester       string      `db:"semester"`
	Status         string      `db:"status"`
	DecisionNote   null.String `db:"decision_note"`
	DecidedAt      null.Time   `db:"decided_at"`
	CreatedAt      null.Time   `db:"created_at"`
	UpdatedAt      null.Time   `db:"updated_at"`
}

func (r topicRow) topic() topic.Topic {
	return topic.Topic{
		ID:             r.ID,
		Code:           r.Code,
		Title:          r.Title,
		Abstract:       r.Abstract.String,
		StudentCode:    r.StudentCode,
		SupervisorCode: r.SupervisorCode,
		Semester:       r.Semester,
		Status:         r.Status,
		DecisionNote:   r.DecisionNote.String,
		DecidedAt:      r.DecidedAt.Time,
		CreatedAt:      r.CreatedAt.Time,
		UpdatedAt:      r.UpdatedAt.Time,
	}
}

type topicRepository struct {
	db *sqlx.DB
}

var _ topic.Repository = (*topicRepository)(nil) // interface compliance check

func NewTopicRepository(db *sql.DB) topic.Repository {
	return &topicRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *topicRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return topic.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *topicRepository) CheckCodeUniqueness(ctx context.Context, code string) error {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM topic WHERE code = $1)`
	if err := repo.db.GetContext(ctx, &exists, query, code); err != nil {
		return errors.Wrap(err, "checking topic code uniqueness")
	}
	if exists {
		return topic.ErrCodeExists
	}
	return nil
}

func (repo *topicRepository) CreateTopic(ctx context.Context, t topic.Topic) (topic.Topic, error) {
	t.ID = uuid.New().String()
	query := `
		INSERT INTO topic (id, code, title, abstract, student_code, supervisor_code, semester, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := repo.db.ExecContext(ctx, query,
		t.ID, t.Code, t.Title, t.Abstract, t.StudentCode, t.SupervisorCode,
		t.Semester, t.Status, t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
	)
	if err != nil {
		return topic.Topic{}, errors.Wrap(err, "inserting topic")
	}
	return t, nil
}

func (repo *topicRepository) GetTopicByCode(ctx context.Context, code string) (topic.Topic, error) {
	var row topicRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM topic WHERE code = $1`, code); err != nil {
		return topic.Topic{}, repo.trapNoRowsErr(err, "getting topic by code")
	}
	return row.topic(), nil
}

func (repo *topicRepository) QueryAllTopics(ctx context.Context) ([]topic.Topic, error) {
	return repo.selectTopics(ctx, `SELECT * FROM topic ORDER BY code`)
}

func (repo *topicRepository) FilterTopics(ctx context.Context, filter topic.QueryFilter) ([]topic.Topic, error) {
	query := `SELECT * FROM topic`
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + itoa(len(args))
	}

	if filter.StudentCode != "" {
		conds = append(conds, "student_code = "+arg(filter.StudentCode))
	}
	if filter.SupervisorCode != "" {
		conds = append(conds, "supervisor_code = "+arg(filter.SupervisorCode))
	}
	if filter.Semester != "" {
		conds = append(conds, "semester = "+arg(filter.Semester))
	}
	if filter.Status != "" {
		conds = append(conds, "status = "+arg(filter.Status))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY code"

	return repo.selectTopics(ctx, query, args...)
}

func (repo *topicRepository) selectTopics(ctx context.Context, query string, args ...interface{}) ([]topic.Topic, error) {
	var rows []topicRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying topics")
	}
	topics := make([]topic.Topic, 0, len(rows))
	for _, r := range rows {
		topics = append(topics, r.topic())
	}
	return topics, nil
}

func (repo *topicRepository) UpdateTopic(ctx context.Context, t topic.Topic) (topic.Topic, error) {
	query := `
		UPDATE topic
		SET title = $1, abstract = $2, semester = $3, status = $4, decision_note = $5, decided_at = $6, updated_at = $7
		WHERE id = $8`
	res, err := repo.db.ExecContext(ctx, query,
		t.Title, t.Abstract, t.Semester, t.Status, t.DecisionNote,
		null.NewTime(t.DecidedAt.UTC(), !t.DecidedAt.IsZero()), t.UpdatedAt.UTC(), t.ID,
	)
	if err != nil {
		return topic.Topic{}, errors.Wrap(err, "updating topic")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return topic.Topic{}, topic.ErrNotFound
	}
	return t, nil
}

func (repo *topicRepository) DeleteTopicsByCode(ctx context.Context, codes ...string) error {
	if len(codes) == 0 {
		return nil
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM topic WHERE code = ANY($1)`, pq.Array(codes)); err != nil {
		return errors.Wrap(err, "deleting topics")
	}
	return nil
}
