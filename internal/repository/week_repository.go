package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/models"
)

type WeekRepository interface {
	Create(ctx context.Context, week *models.Week) error
	GetByID(ctx context.Context, weekID string) (*models.Week, error)
	List(ctx context.Context, opts models.ListOptions) ([]models.Week, error)
	Update(ctx context.Context, weekID string, changes models.WeekChanges) (*models.Week, error)
	// Delete removes the week and its comments in one transaction.
	Delete(ctx context.Context, weekID string) (bool, error)

	// CreateComment returns ErrForeignKey when the week is missing.
	CreateComment(ctx context.Context, comment *models.WeekComment) error
	ListComments(ctx context.Context, weekID string) ([]models.WeekComment, error)
	DeleteComment(ctx context.Context, id int64) (bool, error)
}

type weekRepository struct {
	*PostgresRepository
}

func NewWeekRepository(db *sql.DB, logger zerolog.Logger) WeekRepository {
	return &weekRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *weekRepository) Create(ctx context.Context, week *models.Week) error {
	links, err := encodeList(week.Links)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO weeks (week_id, title, start_date, description, links)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRowContext(ctx, query,
		week.WeekID,
		week.Title,
		week.StartDate,
		week.Description,
		links,
	).Scan(&week.CreatedAt, &week.UpdatedAt)
	if err != nil {
		return translateError(err)
	}

	if week.Links == nil {
		week.Links = []string{}
	}
	return nil
}

func (r *weekRepository) GetByID(ctx context.Context, weekID string) (*models.Week, error) {
	week, err := scanWeek(r.db.QueryRowContext(ctx, selectByKey(weekListSpec), weekID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return week, err
}

func (r *weekRepository) List(ctx context.Context, opts models.ListOptions) ([]models.Week, error) {
	query, args := weekListSpec.Build(paramsFromOptions(opts))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weeks := []models.Week{}
	for rows.Next() {
		week, err := scanWeek(rows)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, *week)
	}

	return weeks, rows.Err()
}

func (r *weekRepository) Update(ctx context.Context, weekID string, changes models.WeekChanges) (*models.Week, error) {
	var u updateBuilder
	if changes.Title != nil {
		u.set("title", *changes.Title)
	}
	if changes.StartDate != nil {
		u.set("start_date", *changes.StartDate)
	}
	if changes.Description != nil {
		u.set("description", *changes.Description)
	}
	if changes.Links != nil {
		links, err := encodeList(*changes.Links)
		if err != nil {
			return nil, err
		}
		u.set("links", links)
	}

	query, args := u.Build(weekListSpec, weekID)
	week, err := scanWeek(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return week, nil
}

func (r *weekRepository) Delete(ctx context.Context, weekID string) (bool, error) {
	found := false

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		exists, err := lockExists(ctx, tx, "weeks", "week_id", weekID, lockForUpdate)
		if err != nil {
			return fmt.Errorf("failed to lock week: %w", err)
		}
		if !exists {
			return nil
		}
		found = true

		if _, err := tx.ExecContext(ctx, `DELETE FROM week_comments WHERE week_id = $1`, weekID); err != nil {
			return fmt.Errorf("failed to delete week comments: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM weeks WHERE week_id = $1`, weekID); err != nil {
			return fmt.Errorf("failed to delete week: %w", err)
		}
		return nil
	})

	return found, err
}

func (r *weekRepository) CreateComment(ctx context.Context, comment *models.WeekComment) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		exists, err := lockExists(ctx, tx, "weeks", "week_id", comment.WeekID, lockForKeyShare)
		if err != nil {
			return fmt.Errorf("failed to check week: %w", err)
		}
		if !exists {
			return ErrForeignKey
		}

		query := `
			INSERT INTO week_comments (week_id, author, text)
			VALUES ($1, $2, $3)
			RETURNING id, created_at
		`
		err = tx.QueryRowContext(ctx, query,
			comment.WeekID,
			comment.Author,
			comment.Text,
		).Scan(&comment.ID, &comment.CreatedAt)
		return translateError(err)
	})
}

func (r *weekRepository) ListComments(ctx context.Context, weekID string) ([]models.WeekComment, error) {
	query, args := weekCommentListSpec.Build(ListParams{Filter: weekID})

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.WeekComment{}
	for rows.Next() {
		var c models.WeekComment
		if err := rows.Scan(&c.ID, &c.WeekID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

func (r *weekRepository) DeleteComment(ctx context.Context, id int64) (bool, error) {
	return deleteByKey(ctx, r.db, weekCommentListSpec, id)
}

func scanWeek(row rowScanner) (*models.Week, error) {
	var (
		week  models.Week
		links []byte
	)

	err := row.Scan(
		&week.WeekID,
		&week.Title,
		&week.StartDate,
		&week.Description,
		&links,
		&week.CreatedAt,
		&week.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if week.Links, err = decodeList(links); err != nil {
		return nil, err
	}
	return &week, nil
}
