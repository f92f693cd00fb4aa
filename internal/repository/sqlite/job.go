package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/garnizeh/jobboard/pkg/models"
)

const jobColumns = `id, title, description, salary, employment_type, expiration_date, company_id, industry_id, country_id, city_id, created`

func scanJob(row rowScanner) (*models.Job, error) {
	var j models.Job
	var expires, industryID, countryID, cityID sql.NullInt64
	var created int64
	if err := row.Scan(&j.ID, &j.Title, &j.Description, &j.Salary, &j.EmploymentType, &expires, &j.CompanyID, &industryID, &countryID, &cityID, &created); err != nil {
		return nil, err
	}
	j.ExpirationDate = timePtr(expires)
	j.IndustryID = idPtr(industryID)
	j.CountryID = idPtr(countryID)
	j.CityID = idPtr(cityID)
	j.Created = fromUnix(created)
	return &j, nil
}

func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	return r.CreateJobWithSkills(ctx, j, nil)
}

// CreateJobWithSkills inserts the job and links skillIDs in one transaction;
// an unknown skill leaves no job behind.
func (r *SQLiteRepo) CreateJobWithSkills(ctx context.Context, j *models.Job, skillIDs []int64) (int64, error) {
	if j == nil {
		return 0, fmt.Errorf("job is nil")
	}
	created := now()
	var id int64
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO jobs (title, description, salary, employment_type, expiration_date, company_id, industry_id, country_id, city_id, created) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			j.Title, j.Description, j.Salary, j.EmploymentType, unixOrNil(j.ExpirationDate), j.CompanyID, idOrNil(j.IndustryID), idOrNil(j.CountryID), idOrNil(j.CityID), created)
		if err != nil {
			return translate(err, "create job")
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		if len(skillIDs) == 0 {
			return nil
		}
		return replaceLinks(ctx, tx, "job_skills", "job_id", id, skillIDs)
	})
	if err != nil {
		return 0, err
	}
	j.ID = id
	j.Created = fromUnix(created)
	return id, nil
}

func (r *SQLiteRepo) GetJobByID(ctx context.Context, id int64) (*models.Job, error) {
	j, err := scanJob(r.conn.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return j, nil
}

func jobWhere(f models.JobFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v int64) {
		if v > 0 {
			conds = append(conds, cond)
			args = append(args, v)
		}
	}
	add("company_id = ?", f.CompanyID)
	add("industry_id = ?", f.IndustryID)
	add("country_id = ?", f.CountryID)
	add("city_id = ?", f.CityID)
	if f.NotExpiredBefore != nil {
		conds = append(conds, "(expiration_date IS NULL OR expiration_date >= ?)")
		args = append(args, f.NotExpiredBefore.UTC().Unix())
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *SQLiteRepo) ListJobs(ctx context.Context, f models.JobFilter) ([]models.Job, int64, error) {
	limit, offset := f.Limit, f.Offset
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where, args := jobWhere(f)

	var total int64
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	rows, err := r.conn.QueryRows(ctx, `SELECT `+jobColumns+` FROM jobs`+where+` ORDER BY created DESC, id DESC LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *j)
	}
	return out, total, rows.Err()
}

func (r *SQLiteRepo) UpdateJob(ctx context.Context, j *models.Job) error {
	return r.UpdateJobWithSkills(ctx, j, nil)
}

// UpdateJobWithSkills updates the job and, when skillIDs is non-nil,
// replaces its skills in the same transaction.
func (r *SQLiteRepo) UpdateJobWithSkills(ctx context.Context, j *models.Job, skillIDs []int64) error {
	if j == nil {
		return fmt.Errorf("job is nil")
	}
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE jobs SET title = ?, description = ?, salary = ?, employment_type = ?, expiration_date = ?, industry_id = ?, country_id = ?, city_id = ? WHERE id = ?`,
			j.Title, j.Description, j.Salary, j.EmploymentType, unixOrNil(j.ExpirationDate), idOrNil(j.IndustryID), idOrNil(j.CountryID), idOrNil(j.CityID), j.ID)
		if err != nil {
			return translate(err, "update job")
		}
		if err := affected(res, "update job"); err != nil {
			return err
		}
		if skillIDs == nil {
			return nil
		}
		return replaceLinks(ctx, tx, "job_skills", "job_id", j.ID, skillIDs)
	})
}

func (r *SQLiteRepo) DeleteJob(ctx context.Context, id int64) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return translate(err, "delete job")
	}
	return affected(res, "delete job")
}

func (r *SQLiteRepo) ListJobSkills(ctx context.Context, jobID int64) ([]models.JobSkill, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT job_id, skill_id FROM job_skills WHERE job_id = ? ORDER BY skill_id`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.JobSkill{}
	for rows.Next() {
		var js models.JobSkill
		if err := rows.Scan(&js.JobID, &js.SkillID); err != nil {
			return nil, err
		}
		out = append(out, js)
	}
	return out, rows.Err()
}

// SetJobSkills replaces the job's required skills.
func (r *SQLiteRepo) SetJobSkills(ctx context.Context, jobID int64, skillIDs []int64) error {
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		return replaceLinks(ctx, tx, "job_skills", "job_id", jobID, skillIDs)
	})
}
