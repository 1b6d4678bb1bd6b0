package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/gradhub/thesisdesk/core/progress"
)

type milestoneRow struct {
	ID        string      `db:"id"`
	TopicCode string      `db:"topic_code"`
	Name      string      `db:"name"`
	DueDate   null.Time   `db:"due_date"`
	Done      bool        `db:"done"`
	Note      null.String `db:"note"`
	DoneAt    null.Time   `db:"done_at"`
	CreatedAt null.Time   `db:"created_at"`
	UpdatedAt null.Time   `db:"updated_at"`
}

func (r milestoneRow) milestone() progress.Milestone {
	return progress.Milestone{
		ID:        r.ID,
		TopicCode: r.TopicCode,
		Name:      r.Name,
		DueDate:   r.DueDate.Time,
		Done:      r.Done,
		Note:      r.Note.String,
		DoneAt:    r.DoneAt.Time,
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
}

type progressRepository struct {
	db *sqlx.DB
}

var _ progress.Repository = (*progressRepository)(nil) // interface compliance check

func NewProgressRepository(db *sql.DB) progress.Repository {
	return &progressRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *progressRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return progress.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo *progressRepository) CreateMilestone(ctx context.Context, m progress.Milestone) (progress.Milestone, error) {
	m.ID = uuid.New().String()
	query := `
		INSERT INTO milestone (id, topic_code, name, due_date, done, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(ctx, query,
		m.ID, m.TopicCode, m.Name, m.DueDate.UTC(), m.Done, m.CreatedAt.UTC(), m.UpdatedAt.UTC(),
	)
	if err != nil {
		return progress.Milestone{}, errors.Wrap(err, "inserting milestone")
	}
	return m, nil
}

func (repo *progressRepository) GetMilestoneByID(ctx context.Context, id string) (progress.Milestone, error) {
	var row milestoneRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM milestone WHERE id = $1`, id); err != nil {
		return progress.Milestone{}, repo.trapNoRowsErr(err, "getting milestone by id")
	}
	return row.milestone(), nil
}

func (repo *progressRepository) QueryMilestonesByTopic(ctx context.Context, topicCode string) ([]progress.Milestone, error) {
	var rows []milestoneRow
	query := `SELECT * FROM milestone WHERE topic_code = $1 ORDER BY due_date`
	if err := repo.db.SelectContext(ctx, &rows, query, topicCode); err != nil {
		return nil, errors.Wrap(err, "querying milestones")
	}
	milestones := make([]progress.Milestone, 0, len(rows))
	for _, r := range rows {
		milestones = append(milestones, r.milestone())
	}
	return milestones, nil
}

func (repo *progressRepository) UpdateMilestone(ctx context.Context, m progress.Milestone) (progress.Milestone, error) {
	query := `
		UPDATE milestone
		SET name = $1, due_date = $2, done = $3, note = $4, done_at = $5, updated_at = $6
		WHERE id = $7`
	res, err := repo.db.ExecContext(ctx, query,
		m.Name, m.DueDate.UTC(), m.Done, m.Note,
		null.NewTime(m.DoneAt.UTC(), !m.DoneAt.IsZero()), m.UpdatedAt.UTC(), m.ID,
	)
	if err != nil {
		return progress.Milestone{}, errors.Wrap(err, "updating milestone")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return progress.Milestone{}, progress.ErrNotFound
	}
	return m, nil
}

func (repo *progressRepository) DeleteMilestonesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM milestone WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting milestones")
	}
	return nil
}
