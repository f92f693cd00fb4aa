package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/jobboard/pkg/models"
)

// countries

func (r *SQLiteRepo) CreateCountry(ctx context.Context, c *models.Country) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("country is nil")
	}
	res, err := r.conn.Exec(ctx, `INSERT INTO countries (name, code) VALUES (?, ?)`, c.Name, c.Code)
	if err != nil {
		return 0, translate(err, "create country")
	}
	return res.LastInsertId()
}

func (r *SQLiteRepo) GetCountryByID(ctx context.Context, id int64) (*models.Country, error) {
	var c models.Country
	if err := r.conn.QueryRow(ctx, `SELECT id, name, code FROM countries WHERE id = ?`, id).Scan(&c.ID, &c.Name, &c.Code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *SQLiteRepo) ListCountries(ctx context.Context) ([]models.Country, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, name, code FROM countries ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Country{}
	for rows.Next() {
		var c models.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.Code); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateCountry(ctx context.Context, c *models.Country) error {
	if c == nil {
		return fmt.Errorf("country is nil")
	}
	res, err := r.conn.Exec(ctx, `UPDATE countries SET name = ?, code = ? WHERE id = ?`, c.Name, c.Code, c.ID)
	if err != nil {
		return translate(err, "update country")
	}
	return affected(res, "update country")
}

func (r *SQLiteRepo) DeleteCountry(ctx context.Context, id int64) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM countries WHERE id = ?`, id)
	if err != nil {
		return translate(err, "delete country")
	}
	return affected(res, "delete country")
}

// cities

func (r *SQLiteRepo) CreateCity(ctx context.Context, c *models.City) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("city is nil")
	}
	res, err := r.conn.Exec(ctx, `INSERT INTO cities (name, country_id) VALUES (?, ?)`, c.Name, c.CountryID)
	if err != nil {
		return 0, translate(err, "create city")
	}
	return res.LastInsertId()
}

func (r *SQLiteRepo) GetCityByID(ctx context.Context, id int64) (*models.City, error) {
	var c models.City
	if err := r.conn.QueryRow(ctx, `SELECT id, name, country_id FROM cities WHERE id = ?`, id).Scan(&c.ID, &c.Name, &c.CountryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *SQLiteRepo) ListCities(ctx context.Context, countryID int64) ([]models.City, error) {
	q := `SELECT id, name, country_id FROM cities`
	var args []any
	if countryID > 0 {
		q += ` WHERE country_id = ?`
		args = append(args, countryID)
	}
	rows, err := r.conn.QueryRows(ctx, q+` ORDER BY name`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.City{}
	for rows.Next() {
		var c models.City
		if err := rows.Scan(&c.ID, &c.Name, &c.CountryID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateCity(ctx context.Context, c *models.City) error {
	if c == nil {
		return fmt.Errorf("city is nil")
	}
	res, err := r.conn.Exec(ctx, `UPDATE cities SET name = ?, country_id = ? WHERE id = ?`, c.Name, c.CountryID, c.ID)
	if err != nil {
		return translate(err, "update city")
	}
	return affected(res, "update city")
}

func (r *SQLiteRepo) DeleteCity(ctx context.Context, id int64) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM cities WHERE id = ?`, id)
	if err != nil {
		return translate(err, "delete city")
	}
	return affected(res, "delete city")
}

// industries and skills share the (id, name) shape

func (r *SQLiteRepo) createNamed(ctx context.Context, table, name string) (int64, error) {
	res, err := r.conn.Exec(ctx, `INSERT INTO `+table+` (name) VALUES (?)`, name)
	if err != nil {
		return 0, translate(err, "create "+table)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepo) getNamed(ctx context.Context, table string, id int64) (int64, string, bool, error) {
	var gotID int64
	var name string
	if err := r.conn.QueryRow(ctx, `SELECT id, name FROM `+table+` WHERE id = ?`, id).Scan(&gotID, &name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", false, nil
		}
		return 0, "", false, err
	}
	return gotID, name, true, nil
}

func (r *SQLiteRepo) listNamed(ctx context.Context, table string, fn func(id int64, name string)) error {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, name FROM `+table+` ORDER BY name`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		fn(id, name)
	}
	return rows.Err()
}

func (r *SQLiteRepo) updateNamed(ctx context.Context, table string, id int64, name string) error {
	res, err := r.conn.Exec(ctx, `UPDATE `+table+` SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return translate(err, "update "+table)
	}
	return affected(res, "update "+table)
}

func (r *SQLiteRepo) deleteNamed(ctx context.Context, table string, id int64) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return translate(err, "delete "+table)
	}
	return affected(res, "delete "+table)
}

func (r *SQLiteRepo) CreateIndustry(ctx context.Context, i *models.Industry) (int64, error) {
	if i == nil {
		return 0, fmt.Errorf("industry is nil")
	}
	return r.createNamed(ctx, "industries", i.Name)
}

func (r *SQLiteRepo) GetIndustryByID(ctx context.Context, id int64) (*models.Industry, error) {
	gotID, name, ok, err := r.getNamed(ctx, "industries", id)
	if err != nil || !ok {
		return nil, err
	}
	return &models.Industry{ID: gotID, Name: name}, nil
}

func (r *SQLiteRepo) ListIndustries(ctx context.Context) ([]models.Industry, error) {
	out := []models.Industry{}
	err := r.listNamed(ctx, "industries", func(id int64, name string) {
		out = append(out, models.Industry{ID: id, Name: name})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLiteRepo) UpdateIndustry(ctx context.Context, i *models.Industry) error {
	if i == nil {
		return fmt.Errorf("industry is nil")
	}
	return r.updateNamed(ctx, "industries", i.ID, i.Name)
}

func (r *SQLiteRepo) DeleteIndustry(ctx context.Context, id int64) error {
	return r.deleteNamed(ctx, "industries", id)
}

func (r *SQLiteRepo) CreateSkill(ctx context.Context, s *models.Skill) (int64, error) {
	if s == nil {
		return 0, fmt.Errorf("skill is nil")
	}
	return r.createNamed(ctx, "skills", s.Name)
}

func (r *SQLiteRepo) GetSkillByID(ctx context.Context, id int64) (*models.Skill, error) {
	gotID, name, ok, err := r.getNamed(ctx, "skills", id)
	if err != nil || !ok {
		return nil, err
	}
	return &models.Skill{ID: gotID, Name: name}, nil
}

func (r *SQLiteRepo) ListSkills(ctx context.Context) ([]models.Skill, error) {
	out := []models.Skill{}
	err := r.listNamed(ctx, "skills", func(id int64, name string) {
		out = append(out, models.Skill{ID: id, Name: name})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SQLiteRepo) UpdateSkill(ctx context.Context, s *models.Skill) error {
	if s == nil {
		return fmt.Errorf("skill is nil")
	}
	return r.updateNamed(ctx, "skills", s.ID, s.Name)
}

func (r *SQLiteRepo) DeleteSkill(ctx context.Context, id int64) error {
	return r.deleteNamed(ctx, "skills", id)
}
