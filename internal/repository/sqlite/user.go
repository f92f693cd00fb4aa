package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/jobboard/pkg/models"
)

const userColumns = `id, email, phone_number, password_hash, role, created`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var created int64
	if err := row.Scan(&u.ID, &u.Email, &u.PhoneNumber, &u.PasswordHash, &u.Role, &created); err != nil {
		return nil, err
	}
	u.Created = fromUnix(created)
	return &u, nil
}

func (r *SQLiteRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *SQLiteRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}
	created := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO users (email, phone_number, password_hash, role, created) VALUES (?, ?, ?, ?, ?)`,
		u.Email, u.PhoneNumber, u.PasswordHash, u.Role, created)
	if err != nil {
		return 0, translate(err, "create user")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = id
	u.Created = fromUnix(created)
	return id, nil
}

func insertUserTx(ctx context.Context, tx *sql.Tx, u *models.User) error {
	created := now()
	res, err := tx.ExecContext(ctx, `INSERT INTO users (email, phone_number, password_hash, role, created) VALUES (?, ?, ?, ?, ?)`,
		u.Email, u.PhoneNumber, u.PasswordHash, u.Role, created)
	if err != nil {
		return translate(err, "create user")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	u.Created = fromUnix(created)
	return nil
}

func (r *SQLiteRepo) RegisterCandidate(ctx context.Context, u *models.User, c *models.Candidate) error {
	if u == nil || c == nil {
		return fmt.Errorf("user and candidate are required")
	}
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		if err := insertUserTx(ctx, tx, u); err != nil {
			return err
		}
		c.UserID = u.ID
		res, err := tx.ExecContext(ctx, `INSERT INTO candidates (user_id, first_name, last_name) VALUES (?, ?, ?)`, c.UserID, c.FirstName, c.LastName)
		if err != nil {
			return translate(err, "create candidate")
		}
		c.ID, err = res.LastInsertId()
		return err
	})
}

func (r *SQLiteRepo) RegisterCompany(ctx context.Context, u *models.User, c *models.Company) error {
	if u == nil || c == nil {
		return fmt.Errorf("user and company are required")
	}
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		if err := insertUserTx(ctx, tx, u); err != nil {
			return err
		}
		c.UserID = u.ID
		res, err := tx.ExecContext(ctx, `INSERT INTO companies (user_id, company_name, description, website, country_id, city_id, logo_url) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.UserID, c.CompanyName, c.Description, c.Website, idOrNil(c.CountryID), idOrNil(c.CityID), c.LogoURL)
		if err != nil {
			return translate(err, "create company")
		}
		c.ID, err = res.LastInsertId()
		return err
	})
}
