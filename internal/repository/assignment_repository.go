package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/models"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id int64) (*models.Assignment, error)
	List(ctx context.Context, opts models.ListOptions) ([]models.Assignment, error)
	Update(ctx context.Context, id int64, changes models.AssignmentChanges) (*models.Assignment, error)
	// Delete removes the assignment and its comments in one transaction.
	Delete(ctx context.Context, id int64) (bool, error)

	// CreateComment returns ErrForeignKey when the assignment is missing.
	CreateComment(ctx context.Context, comment *models.AssignmentComment) error
	ListComments(ctx context.Context, assignmentID int64) ([]models.AssignmentComment, error)
	DeleteComment(ctx context.Context, id int64) (bool, error)
}

type assignmentRepository struct {
	*PostgresRepository
}

func NewAssignmentRepository(db *sql.DB, logger zerolog.Logger) AssignmentRepository {
	return &assignmentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	files, err := encodeList(assignment.Files)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO assignments (title, description, due_date, files)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRowContext(ctx, query,
		assignment.Title,
		assignment.Description,
		assignment.DueDate,
		files,
	).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt)
	if err != nil {
		return translateError(err)
	}

	if assignment.Files == nil {
		assignment.Files = []string{}
	}
	return nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id int64) (*models.Assignment, error) {
	assignment, err := scanAssignment(r.db.QueryRowContext(ctx, selectByKey(assignmentListSpec), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return assignment, err
}

func (r *assignmentRepository) List(ctx context.Context, opts models.ListOptions) ([]models.Assignment, error) {
	query, args := assignmentListSpec.Build(paramsFromOptions(opts))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []models.Assignment{}
	for rows.Next() {
		assignment, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *assignment)
	}

	return assignments, rows.Err()
}

func (r *assignmentRepository) Update(ctx context.Context, id int64, changes models.AssignmentChanges) (*models.Assignment, error) {
	var u updateBuilder
	if changes.Title != nil {
		u.set("title", *changes.Title)
	}
	if changes.Description != nil {
		u.set("description", *changes.Description)
	}
	if changes.DueDate != nil {
		u.set("due_date", *changes.DueDate)
	}
	if changes.Files != nil {
		files, err := encodeList(*changes.Files)
		if err != nil {
			return nil, err
		}
		u.set("files", files)
	}

	query, args := u.Build(assignmentListSpec, id)
	assignment, err := scanAssignment(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return assignment, nil
}

func (r *assignmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	found := false

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		exists, err := lockExists(ctx, tx, "assignments", "id", id, lockForUpdate)
		if err != nil {
			return fmt.Errorf("failed to lock assignment: %w", err)
		}
		if !exists {
			return nil
		}
		found = true

		if _, err := tx.ExecContext(ctx, `DELETE FROM assignment_comments WHERE assignment_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete assignment comments: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete assignment: %w", err)
		}
		return nil
	})

	return found, err
}

func (r *assignmentRepository) CreateComment(ctx context.Context, comment *models.AssignmentComment) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		exists, err := lockExists(ctx, tx, "assignments", "id", comment.AssignmentID, lockForKeyShare)
		if err != nil {
			return fmt.Errorf("failed to check assignment: %w", err)
		}
		if !exists {
			return ErrForeignKey
		}

		query := `
			INSERT INTO assignment_comments (assignment_id, author, text)
			VALUES ($1, $2, $3)
			RETURNING id, created_at
		`
		err = tx.QueryRowContext(ctx, query,
			comment.AssignmentID,
			comment.Author,
			comment.Text,
		).Scan(&comment.ID, &comment.CreatedAt)
		return translateError(err)
	})
}

func (r *assignmentRepository) ListComments(ctx context.Context, assignmentID int64) ([]models.AssignmentComment, error) {
	query, args := assignmentCommentListSpec.Build(ListParams{Filter: assignmentID})

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.AssignmentComment{}
	for rows.Next() {
		var c models.AssignmentComment
		if err := rows.Scan(&c.ID, &c.AssignmentID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

func (r *assignmentRepository) DeleteComment(ctx context.Context, id int64) (bool, error) {
	return deleteByKey(ctx, r.db, assignmentCommentListSpec, id)
}

func scanAssignment(row rowScanner) (*models.Assignment, error) {
	var (
		assignment models.Assignment
		files      []byte
	)

	err := row.Scan(
		&assignment.ID,
		&assignment.Title,
		&assignment.Description,
		&assignment.DueDate,
		&files,
		&assignment.CreatedAt,
		&assignment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assignment.Files, err = decodeList(files); err != nil {
		return nil, err
	}
	return &assignment, nil
}
