package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/jobboard/pkg/models"
	"github.com/garnizeh/jobboard/pkg/repository"
)

const candidateColumns = `id, user_id, first_name, last_name`

func scanCandidate(row rowScanner) (*models.Candidate, error) {
	var c models.Candidate
	if err := row.Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *SQLiteRepo) getCandidate(ctx context.Context, where string, arg any) (*models.Candidate, error) {
	c, err := scanCandidate(r.conn.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *SQLiteRepo) GetCandidateByID(ctx context.Context, id int64) (*models.Candidate, error) {
	return r.getCandidate(ctx, `id = ?`, id)
}

func (r *SQLiteRepo) GetCandidateByUserID(ctx context.Context, userID int64) (*models.Candidate, error) {
	return r.getCandidate(ctx, `user_id = ?`, userID)
}

func (r *SQLiteRepo) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+candidateColumns+` FROM candidates ORDER BY last_name, first_name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateCandidate(ctx context.Context, c *models.Candidate) error {
	if c == nil {
		return fmt.Errorf("candidate is nil")
	}
	res, err := r.conn.Exec(ctx, `UPDATE candidates SET first_name = ?, last_name = ? WHERE id = ?`, c.FirstName, c.LastName, c.ID)
	if err != nil {
		return translate(err, "update candidate")
	}
	return affected(res, "update candidate")
}

// DeleteCandidate removes the candidate together with its user account.
func (r *SQLiteRepo) DeleteCandidate(ctx context.Context, id int64) error {
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		var userID int64
		if err := tx.QueryRowContext(ctx, `SELECT user_id FROM candidates WHERE id = ?`, id).Scan(&userID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("delete candidate: %w", repository.ErrNotFound)
			}
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID); err != nil {
			return translate(err, "delete candidate")
		}
		return nil
	})
}

func (r *SQLiteRepo) ListCandidateSkills(ctx context.Context, candidateID int64) ([]models.CandidateSkill, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT candidate_id, skill_id FROM candidate_skills WHERE candidate_id = ? ORDER BY skill_id`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.CandidateSkill{}
	for rows.Next() {
		var cs models.CandidateSkill
		if err := rows.Scan(&cs.CandidateID, &cs.SkillID); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// SetCandidateSkills replaces the candidate's skill set.
func (r *SQLiteRepo) SetCandidateSkills(ctx context.Context, candidateID int64, skillIDs []int64) error {
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		return replaceLinks(ctx, tx, "candidate_skills", "candidate_id", candidateID, skillIDs)
	})
}

// replaceLinks rewrites a (owner, skill_id) link table for one owner.
func replaceLinks(ctx context.Context, tx *sql.Tx, table, ownerCol string, ownerID int64, skillIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE `+ownerCol+` = ?`, ownerID); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for _, sid := range skillIDs {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO `+table+` (`+ownerCol+`, skill_id) VALUES (?, ?)`, ownerID, sid); err != nil {
			return translate(err, "link skill")
		}
	}
	return nil
}
