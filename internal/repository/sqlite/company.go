package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/jobboard/pkg/models"
)

const companyColumns = `id, user_id, company_name, description, website, country_id, city_id, logo_url, logo_key`

func scanCompany(row rowScanner) (*models.Company, error) {
	var c models.Company
	var countryID, cityID sql.NullInt64
	if err := row.Scan(&c.ID, &c.UserID, &c.CompanyName, &c.Description, &c.Website, &countryID, &cityID, &c.LogoURL, &c.LogoKey); err != nil {
		return nil, err
	}
	c.CountryID = idPtr(countryID)
	c.CityID = idPtr(cityID)
	return &c, nil
}

func (r *SQLiteRepo) getCompany(ctx context.Context, where string, arg any) (*models.Company, error) {
	c, err := scanCompany(r.conn.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *SQLiteRepo) CreateCompany(ctx context.Context, c *models.Company) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("company is nil")
	}
	res, err := r.conn.Exec(ctx, `INSERT INTO companies (user_id, company_name, description, website, country_id, city_id, logo_url, logo_key) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.UserID, c.CompanyName, c.Description, c.Website, idOrNil(c.CountryID), idOrNil(c.CityID), c.LogoURL, c.LogoKey)
	if err != nil {
		return 0, translate(err, "create company")
	}
	return res.LastInsertId()
}

func (r *SQLiteRepo) GetCompanyByID(ctx context.Context, id int64) (*models.Company, error) {
	return r.getCompany(ctx, `id = ?`, id)
}

func (r *SQLiteRepo) GetCompanyByUserID(ctx context.Context, userID int64) (*models.Company, error) {
	return r.getCompany(ctx, `user_id = ?`, userID)
}

func (r *SQLiteRepo) ListCompanies(ctx context.Context) ([]models.Company, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY company_name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateCompany(ctx context.Context, c *models.Company) error {
	if c == nil {
		return fmt.Errorf("company is nil")
	}
	res, err := r.conn.Exec(ctx, `UPDATE companies SET company_name = ?, description = ?, website = ?, country_id = ?, city_id = ?, logo_url = ?, logo_key = ? WHERE id = ?`,
		c.CompanyName, c.Description, c.Website, idOrNil(c.CountryID), idOrNil(c.CityID), c.LogoURL, c.LogoKey, c.ID)
	if err != nil {
		return translate(err, "update company")
	}
	return affected(res, "update company")
}

// DeleteCompany removes the company profile; its jobs and their applications
// go with it.
func (r *SQLiteRepo) DeleteCompany(ctx context.Context, id int64) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM companies WHERE id = ?`, id)
	if err != nil {
		return translate(err, "delete company")
	}
	return affected(res, "delete company")
}
