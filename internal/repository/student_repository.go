package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/models"
)

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, studentID string) (*models.Student, error)
	// GetCredentials matches login against student_id or email and
	// includes the password hash.
	GetCredentials(ctx context.Context, login string) (*models.Student, error)
	List(ctx context.Context, opts models.ListOptions) ([]models.Student, error)
	Update(ctx context.Context, studentID string, changes models.StudentChanges) (*models.Student, error)
	// ChangePassword locks the row, hands the stored hash to change and
	// stores whatever hash change returns. It reports false when the
	// student does not exist.
	ChangePassword(ctx context.Context, studentID string, change func(currentHash string) (string, error)) (bool, error)
	Delete(ctx context.Context, studentID string) (bool, error)
}

type studentRepository struct {
	*PostgresRepository
}

func NewStudentRepository(db *sql.DB, logger zerolog.Logger) StudentRepository {
	return &studentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (student_id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		student.StudentID,
		student.Name,
		student.Email,
		student.PasswordHash,
	).Scan(&student.CreatedAt, &student.UpdatedAt)

	return translateError(err)
}

func (r *studentRepository) GetByID(ctx context.Context, studentID string) (*models.Student, error) {
	student, err := scanStudent(r.db.QueryRowContext(ctx, selectByKey(studentListSpec), studentID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return student, err
}

func (r *studentRepository) GetCredentials(ctx context.Context, login string) (*models.Student, error) {
	query := `
		SELECT student_id, name, email, password_hash, created_at, updated_at
		FROM students
		WHERE student_id = $1 OR LOWER(email) = LOWER($1)
		ORDER BY (student_id = $1) DESC
		LIMIT 1
	`

	student := &models.Student{}
	err := r.db.QueryRowContext(ctx, query, login).Scan(
		&student.StudentID,
		&student.Name,
		&student.Email,
		&student.PasswordHash,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return student, nil
}

func (r *studentRepository) List(ctx context.Context, opts models.ListOptions) ([]models.Student, error) {
	query, args := studentListSpec.Build(paramsFromOptions(opts))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *student)
	}

	return students, rows.Err()
}

func (r *studentRepository) Update(ctx context.Context, studentID string, changes models.StudentChanges) (*models.Student, error) {
	var u updateBuilder
	if changes.Name != nil {
		u.set("name", *changes.Name)
	}
	if changes.Email != nil {
		u.set("email", *changes.Email)
	}

	query, args := u.Build(studentListSpec, studentID)
	student, err := scanStudent(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return student, nil
}

func (r *studentRepository) ChangePassword(ctx context.Context, studentID string, change func(currentHash string) (string, error)) (bool, error) {
	found := false

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var currentHash string
		err := tx.QueryRowContext(ctx,
			`SELECT password_hash FROM students WHERE student_id = $1 FOR UPDATE`,
			studentID,
		).Scan(&currentHash)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to lock student: %w", err)
		}
		found = true

		newHash, err := change(currentHash)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE students SET password_hash = $1, updated_at = NOW() WHERE student_id = $2`,
			newHash, studentID,
		)
		return err
	})

	return found, err
}

func (r *studentRepository) Delete(ctx context.Context, studentID string) (bool, error) {
	return deleteByKey(ctx, r.db, studentListSpec, studentID)
}

func scanStudent(row rowScanner) (*models.Student, error) {
	student := &models.Student{}
	err := row.Scan(
		&student.StudentID,
		&student.Name,
		&student.Email,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return student, nil
}
