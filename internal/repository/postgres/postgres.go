package postgres

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/leadhub/lead-intake-service/internal/apperrors"
	"github.com/leadhub/lead-intake-service/internal/config"
	"github.com/lib/pq"
)

type Postgres struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  squirrel.StatementBuilderType
}

func NewDB(cfg config.Postgres, log *slog.Logger) (*Postgres, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("can't connect to database: %v", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return &Postgres{
		db:  db,
		log: log,
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

func (p *Postgres) DB() *sqlx.DB {
	return p.db
}

var keyFieldRe = regexp.MustCompile(`Key \(([^)]+)\)=`)

// uniqueField extracts the offending column from a unique-violation error
// detail like `Key (name)=(telegram) already exists.`.
func uniqueField(pqErr *pq.Error) string {
	if m := keyFieldRe.FindStringSubmatch(pqErr.Detail); len(m) == 2 {
		return m[1]
	}

	return ""
}

// classifyError maps driver errors onto the application taxonomy:
// unique violations become *apperrors.UniqueViolationError, foreign-key and
// check violations become apperrors.ErrConflict, connection-level failures
// become apperrors.ErrStoreUnavailable. Anything else passes through for the
// caller to wrap.
func classifyError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23505":
			return &apperrors.UniqueViolationError{Field: uniqueField(pqErr)}
		case pqErr.Code == "23503", pqErr.Code == "23514", pqErr.Code == "23502":
			return fmt.Errorf("%w: %s", apperrors.ErrConflict, pqErr.Message)
		case pqErr.Code.Class() == "08", pqErr.Code.Class() == "57", pqErr.Code.Class() == "53":
			return fmt.Errorf("%w: %s", apperrors.ErrStoreUnavailable, pqErr.Message)
		}

		return err
	}

	if errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}

	return err
}
