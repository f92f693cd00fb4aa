package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

const resumeColumns = `id, candidate_id, file_name, file_url, file_key, is_default, uploaded_at`

func scanResume(row rowScanner) (*models.Resume, error) {
	var res models.Resume
	var uploaded int64
	if err := row.Scan(&res.ID, &res.CandidateID, &res.FileName, &res.FileURL, &res.FileKey, &res.IsDefault, &uploaded); err != nil {
		return nil, err
	}
	res.UploadedAt = fromUnix(uploaded)
	return &res, nil
}

func (r *SQLiteRepo) CreateResume(ctx context.Context, res *models.Resume) (int64, error) {
	if res == nil {
		return 0, fmt.Errorf("resume is nil")
	}
	uploaded := now()
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		if res.IsDefault {
			if _, err := tx.ExecContext(ctx, `UPDATE resumes SET is_default = 0 WHERE candidate_id = ?`, res.CandidateID); err != nil {
				return fmt.Errorf("clear default resume: %w", err)
			}
		}
		out, err := tx.ExecContext(ctx, `INSERT INTO resumes (candidate_id, file_name, file_url, file_key, is_default, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
			res.CandidateID, res.FileName, res.FileURL, res.FileKey, res.IsDefault, uploaded)
		if err != nil {
			return translate(err, "create resume")
		}
		res.ID, err = out.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	res.UploadedAt = fromUnix(uploaded)
	return res.ID, nil
}

func (r *SQLiteRepo) GetResumeByID(ctx context.Context, id int64) (*models.Resume, error) {
	res, err := scanResume(r.conn.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

func (r *SQLiteRepo) ListResumesByCandidate(ctx context.Context, candidateID int64) ([]models.Resume, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE candidate_id = ? ORDER BY is_default DESC, uploaded_at DESC, id DESC`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// SetDefaultResume flags resumeID as the candidate's only default resume.
func (r *SQLiteRepo) SetDefaultResume(ctx context.Context, candidateID, resumeID int64) error {
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		var owned int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM resumes WHERE id = ? AND candidate_id = ?`, resumeID, candidateID).Scan(&owned); err != nil {
			return err
		}
		if owned == 0 {
			return fmt.Errorf("set default resume: %w", repository.ErrNotFound)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE resumes SET is_default = (id = ?) WHERE candidate_id = ?`, resumeID, candidateID); err != nil {
			return fmt.Errorf("set default resume: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepo) DeleteResume(ctx context.Context, id int64) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM resumes WHERE id = ?`, id)
	if err != nil {
		return translate(err, "delete resume")
	}
	return affected(res, "delete resume")
}
