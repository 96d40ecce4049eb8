package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/student"
)

// Custom errors
var ErrStudentNotFound = fmt.Errorf("student not found")
var ErrDuplicateStudentEmail = fmt.Errorf("student with this email already exists")

type PostgresStudentRepository struct {
	db *sql.DB
}

func NewPostgresStudentRepository(db *sql.DB) *PostgresStudentRepository {
	return &PostgresStudentRepository{db: db}
}

func (r *PostgresStudentRepository) Create(ctx context.Context, s *student.Student) error {
	query := `INSERT INTO students (full_name, email, is_scholarship, is_active)
               VALUES ($1, $2, $3, $4)
               RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, s.FullName, s.Email, s.IsScholarship, s.IsActive).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "students_email_key") {
			return ErrDuplicateStudentEmail
		}
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

func (r *PostgresStudentRepository) GetByID(ctx context.Context, id int64) (*student.Student, error) {
	query := `SELECT id, full_name, email, is_scholarship, is_active, created_at, updated_at
               FROM students WHERE id = $1`
	s := &student.Student{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&s.ID, &s.FullName, &s.Email, &s.IsScholarship, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}
	return s, nil
}

func (r *PostgresStudentRepository) Update(ctx context.Context, s *student.Student) error {
	query := `UPDATE students
               SET full_name = $1, email = $2, is_scholarship = $3, is_active = $4, updated_at = NOW()
               WHERE id = $5
               RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, s.FullName, s.Email, s.IsScholarship, s.IsActive, s.ID).
		Scan(&s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrStudentNotFound
		}
		return fmt.Errorf("error updating student: %w", err)
	}
	return nil
}

func (r *PostgresStudentRepository) ListActive(ctx context.Context) ([]*student.Student, error) {
	query := `SELECT id, full_name, email, is_scholarship, is_active, created_at, updated_at
               FROM students WHERE is_active = TRUE ORDER BY full_name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing active students: %w", err)
	}
	defer rows.Close()

	students := make([]*student.Student, 0)
	for rows.Next() {
		s := &student.Student{}
		if err := rows.Scan(&s.ID, &s.FullName, &s.Email, &s.IsScholarship, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning active student: %w", err)
		}
		students = append(students, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active students: %w", err)
	}
	return students, nil
}
