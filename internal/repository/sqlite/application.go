package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/jobboard/pkg/models"
)

const applicationColumns = `id, job_id, candidate_id, resume_id, status, applied_at, notes`

func scanApplication(row rowScanner) (*models.JobApplication, error) {
	var a models.JobApplication
	var resumeID sql.NullInt64
	var appliedAt int64
	if err := row.Scan(&a.ID, &a.JobID, &a.CandidateID, &resumeID, &a.Status, &appliedAt, &a.Notes); err != nil {
		return nil, err
	}
	a.ResumeID = idPtr(resumeID)
	a.AppliedAt = fromUnix(appliedAt)
	return &a, nil
}

func (r *SQLiteRepo) CreateApplication(ctx context.Context, a *models.JobApplication) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("application is nil")
	}
	if a.Status == "" {
		a.Status = models.ApplicationStatusPending
	}
	applied := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO job_applications (job_id, candidate_id, resume_id, status, applied_at, notes) VALUES (?, ?, ?, ?, ?, ?)`,
		a.JobID, a.CandidateID, idOrNil(a.ResumeID), a.Status, applied, a.Notes)
	if err != nil {
		return 0, translate(err, "create application")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	a.ID = id
	a.AppliedAt = fromUnix(applied)
	return id, nil
}

func (r *SQLiteRepo) GetApplicationByID(ctx context.Context, id int64) (*models.JobApplication, error) {
	a, err := scanApplication(r.conn.QueryRow(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func (r *SQLiteRepo) listApplications(ctx context.Context, where string, arg any) ([]models.JobApplication, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE `+where+` ORDER BY applied_at DESC, id DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.JobApplication{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) ListApplicationsByJob(ctx context.Context, jobID int64) ([]models.JobApplication, error) {
	return r.listApplications(ctx, `job_id = ?`, jobID)
}

func (r *SQLiteRepo) ListApplicationsByCandidate(ctx context.Context, candidateID int64) ([]models.JobApplication, error) {
	return r.listApplications(ctx, `candidate_id = ?`, candidateID)
}

func (r *SQLiteRepo) UpdateApplicationStatus(ctx context.Context, id int64, status string) error {
	res, err := r.conn.Exec(ctx, `UPDATE job_applications SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return translate(err, "update application status")
	}
	return affected(res, "update application status")
}

func (r *SQLiteRepo) DeleteApplication(ctx context.Context, id int64) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM job_applications WHERE id = ?`, id)
	if err != nil {
		return translate(err, "delete application")
	}
	return affected(res, "delete application")
}
