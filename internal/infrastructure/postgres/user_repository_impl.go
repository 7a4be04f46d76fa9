package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/user-registry/internal/domain/entity"
	"github.com/oksasatya/user-registry/internal/domain/repository"
)

const selectUsers = `
	SELECT u.user_id, u.first_name, u.last_name, u.birthdate,
	       e.email_id, e.email,
	       a.address_id, a.country, a.city, a.street, a.house,
	       p.phone_id, p.phone
	FROM users u
	LEFT JOIN emails e ON e.user_id = u.user_id
	LEFT JOIN addresses a ON a.user_id = u.user_id
	LEFT JOIN phones p ON p.user_id = u.user_id
`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, selectUsers+` WHERE u.user_id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO users (first_name, last_name, birthdate)
			VALUES ($1, $2, $3)
			RETURNING user_id
		`, u.FirstName, u.LastName, toTime(u.Birthdate)).Scan(&u.ID)
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return insertOwned(ctx, tx, u)
	})
}

func (r *UserRepository) Upsert(ctx context.Context, u *entity.User) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var inserted bool
		err := tx.QueryRow(ctx, `
			INSERT INTO users (user_id, first_name, last_name, birthdate)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id) DO UPDATE
			SET first_name = EXCLUDED.first_name,
			    last_name = EXCLUDED.last_name,
			    birthdate = EXCLUDED.birthdate,
			    updated_at = now()
			RETURNING (xmax = 0)
		`, u.ID, u.FirstName, u.LastName, toTime(u.Birthdate)).Scan(&inserted)
		if err != nil {
			return fmt.Errorf("upsert user %d: %w", u.ID, err)
		}
		if inserted {
			if err := advanceUserSequence(ctx, tx, u.ID); err != nil {
				return err
			}
		}
		for _, table := range []string{"emails", "addresses", "phones"} {
			if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE user_id = $1`, u.ID); err != nil {
				return fmt.Errorf("clear %s for user %d: %w", table, u.ID, err)
			}
		}
		return insertOwned(ctx, tx, u)
	})
}

// advanceUserSequence moves the identity past id so Create never hands it out.
// setval is not transactional, so the sequence is only ever moved forward.
func advanceUserSequence(ctx context.Context, tx pgx.Tx, id int) error {
	_, err := tx.Exec(ctx, `
		SELECT setval(s.seq, $1::bigint)
		FROM (SELECT pg_get_serial_sequence('users', 'user_id')::regclass AS seq) s
		WHERE $1::bigint > COALESCE(pg_sequence_last_value(s.seq), 0)
	`, id)
	if err != nil {
		return fmt.Errorf("advance user sequence: %w", err)
	}
	return nil
}

func insertOwned(ctx context.Context, tx pgx.Tx, u *entity.User) error {
	if u.Email != nil {
		if err := tx.QueryRow(ctx, `
			INSERT INTO emails (user_id, email) VALUES ($1, $2) RETURNING email_id
		`, u.ID, u.Email.Email).Scan(&u.Email.ID); err != nil {
			return fmt.Errorf("insert email: %w", err)
		}
	}
	if a := u.Address; a != nil {
		if err := tx.QueryRow(ctx, `
			INSERT INTO addresses (user_id, country, city, street, house)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING address_id
		`, u.ID, a.Country, a.City, a.Street, a.House).Scan(&a.ID); err != nil {
			return fmt.Errorf("insert address: %w", err)
		}
	}
	if u.Phone != nil {
		if err := tx.QueryRow(ctx, `
			INSERT INTO phones (user_id, phone) VALUES ($1, $2) RETURNING phone_id
		`, u.ID, u.Phone.Phone).Scan(&u.Phone.ID); err != nil {
			return fmt.Errorf("insert phone: %w", err)
		}
	}
	return nil
}

// DeleteByID relies on ON DELETE CASCADE for owned records.
func (r *UserRepository) DeleteByID(ctx context.Context, id int) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

func (r *UserRepository) FindByBirthdateBetween(ctx context.Context, from, to civil.Date) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, selectUsers+`
		WHERE u.birthdate BETWEEN $1 AND $2
		ORDER BY u.user_id
	`, toTime(from), toTime(to))
	if err != nil {
		return nil, fmt.Errorf("find users by birthdate: %w", err)
	}
	defer rows.Close()

	out := make([]entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u         entity.User
		birthdate time.Time

		emailID   *int
		email     *string
		addressID *int
		country   *string
		city      *string
		street    *string
		house     *string
		phoneID   *int
		phone     *string
	)
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &birthdate,
		&emailID, &email,
		&addressID, &country, &city, &street, &house,
		&phoneID, &phone); err != nil {
		return nil, err
	}
	u.Birthdate = civil.DateOf(birthdate)
	if emailID != nil {
		u.Email = &entity.Email{ID: *emailID, Email: deref(email)}
	}
	if addressID != nil {
		u.Address = &entity.Address{
			ID:      *addressID,
			Country: deref(country),
			City:    deref(city),
			Street:  deref(street),
			House:   deref(house),
		}
	}
	if phoneID != nil {
		u.Phone = &entity.Phone{ID: *phoneID, Phone: deref(phone)}
	}
	return &u, nil
}

func toTime(d civil.Date) time.Time {
	return d.In(time.UTC)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ repository.UserRepository = (*UserRepository)(nil)
