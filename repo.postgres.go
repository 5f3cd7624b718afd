package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"
)

const (
	postgresRepoTag string = "postgres"
	bookTable       string = "book"
)

const createBookTableSQL = `CREATE TABLE IF NOT EXISTS book (
	id      SERIAL PRIMARY KEY,
	title   TEXT NOT NULL,
	author  TEXT NOT NULL,
	year    INTEGER NOT NULL CHECK (year BETWEEN 1000 AND 9999),
	is_read BOOLEAN NOT NULL DEFAULT FALSE
)`

var (
	_ BookRepository = (*postgresBookRepository)(nil) // ensure postgresBookRepository implements BookRepository.

	bookColumns = []any{"id", "title", "author", "year", "is_read"}
)

type postgresBookRepository struct {
	logger *zap.Logger
	pg     *pgxpool.Pool
	g      goqu.DialectWrapper
}

type pgxBook struct {
	ID     int    `db:"id"`
	Title  string `db:"title"`
	Author string `db:"author"`
	Year   int    `db:"year"`
	IsRead bool   `db:"is_read"`
}

func (b pgxBook) intoBook() Book {
	return Book{ID: b.ID, Title: b.Title, Author: b.Author, Year: b.Year, IsRead: b.IsRead}
}

// GetPostgresPool provides a ready to use connection pool and makes sure the book table exists.
func GetPostgresPool(config *Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(config.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %v", err)
	}
	if config.Postgres.MaxConns > 0 {
		cfg.MaxConns = config.Postgres.MaxConns
	}
	cfg.ConnConfig.Tracer = NewPGXTracer(logger)

	ctx, cancel := context.WithTimeout(context.Background(), config.Postgres.ConnectTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %v", err)
	}
	if _, err = pool.Exec(ctx, createBookTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to set up book table: %v", err)
	}
	return pool, nil
}

// NewPGXTracer routes pgx query logs to the debug level of the app logger.
func NewPGXTracer(logger *zap.Logger) *tracelog.TraceLog {
	return &tracelog.TraceLog{
		Logger: tracelog.LoggerFunc(func(ctx context.Context, l tracelog.LogLevel, msg string, data map[string]any) {
			fields := make([]zap.Field, 0, len(data))
			for k, v := range data {
				switch k {
				case "args", "pid":
				default:
					fields = append(fields, zap.Any("pgx."+k, v))
				}
			}
			switch l {
			case tracelog.LogLevelWarn:
				logger.Warn("pgx: "+msg, fields...)
			case tracelog.LogLevelError:
				logger.Error("pgx: "+msg, fields...)
			default:
				logger.Debug("pgx: "+msg, fields...)
			}
		}),
		LogLevel: tracelog.LogLevelDebug,
	}
}

// NewPostgresBookRepository provides an instance of postgres-based book repository.
func NewPostgresBookRepository(logger *zap.Logger, pg *pgxpool.Pool) BookRepository {
	return &postgresBookRepository{logger: logger, pg: pg, g: goqu.Dialect("postgres")}
}

// GetAll retrieves the list of all books stored in the book table.
func (p *postgresBookRepository) GetAll(ctx context.Context) ([]Book, error) {
	sql, params, err := p.g.From(bookTable).
		Select(bookColumns...).
		Order(goqu.C("id").Desc()).
		ToSQL()
	if err != nil {
		return nil, NewRepositoryError(postgresRepoTag+".getAll", err)
	}

	var rows []pgxBook
	if err = pgxscan.Select(ctx, p.pg, &rows, sql, params...); err != nil {
		return nil, NewRepositoryError(postgresRepoTag+".getAll", err)
	}

	books := make([]Book, 0, len(rows))
	for _, row := range rows {
		books = append(books, row.intoBook())
	}
	return books, nil
}

// GetByID retrieves a book record based on its ID.
func (p *postgresBookRepository) GetByID(ctx context.Context, id int) (Book, error) {
	sql, params, err := p.g.From(bookTable).
		Select(bookColumns...).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return Book{}, NewRepositoryError(postgresRepoTag+".getById", err)
	}
	book, err := p.getOne(ctx, sql, params)
	return book, NewRepositoryError(postgresRepoTag+".getById", err)
}

// Create inserts the book and lets the table sequence assign its id.
func (p *postgresBookRepository) Create(ctx context.Context, draft BookDraft) (Book, error) {
	if err := ValidateBookDraft(draft); err != nil {
		return Book{}, NewRepositoryError(postgresRepoTag+".create", err)
	}
	sql, params, err := buildInsertBookSQL(p.g, draft)
	if err != nil {
		return Book{}, NewRepositoryError(postgresRepoTag+".create", err)
	}
	book, err := p.getOne(ctx, sql, params)
	return book, NewRepositoryError(postgresRepoTag+".create", err)
}

// Update sets only the provided columns and returns the full updated row.
func (p *postgresBookRepository) Update(ctx context.Context, id int, changes BookChanges) (Book, error) {
	if err := ValidateBookChanges(changes); err != nil {
		return Book{}, NewRepositoryError(postgresRepoTag+".update", err)
	}
	if changes.IsEmpty() {
		book, err := p.GetByID(ctx, id)
		return book, NewRepositoryError(postgresRepoTag+".update", err)
	}
	sql, params, err := buildUpdateBookSQL(p.g, id, changes)
	if err != nil {
		return Book{}, NewRepositoryError(postgresRepoTag+".update", err)
	}
	book, err := p.getOne(ctx, sql, params)
	return book, NewRepositoryError(postgresRepoTag+".update", err)
}

// Delete removes a book record based on its ID.
func (p *postgresBookRepository) Delete(ctx context.Context, id int) error {
	sql, params, err := p.g.Delete(bookTable).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return NewRepositoryError(postgresRepoTag+".delete", err)
	}
	tag, err := p.pg.Exec(ctx, sql, params...)
	if err != nil {
		return NewRepositoryError(postgresRepoTag+".delete", err)
	}
	if tag.RowsAffected() == 0 {
		return NewRepositoryError(postgresRepoTag+".delete", ErrBookNotFound)
	}
	return nil
}

func (p *postgresBookRepository) getOne(ctx context.Context, sql string, params []any) (Book, error) {
	var row pgxBook
	err := pgxscan.Get(ctx, p.pg, &row, sql, params...)
	if errors.Is(err, pgx.ErrNoRows) {
		return Book{}, ErrBookNotFound
	}
	if err != nil {
		return Book{}, err
	}
	return row.intoBook(), nil
}

func buildInsertBookSQL(g goqu.DialectWrapper, draft BookDraft) (string, []any, error) {
	return g.Insert(bookTable).
		Rows(goqu.Record{
			"title":   draft.Title,
			"author":  draft.Author,
			"year":    draft.Year,
			"is_read": draft.IsRead,
		}).
		Returning(bookColumns...).
		ToSQL()
}

func buildUpdateBookSQL(g goqu.DialectWrapper, id int, changes BookChanges) (string, []any, error) {
	record := goqu.Record{}
	if changes.Title != nil {
		record["title"] = *changes.Title
	}
	if changes.Author != nil {
		record["author"] = *changes.Author
	}
	if changes.Year != nil {
		record["year"] = *changes.Year
	}
	if changes.IsRead != nil {
		record["is_read"] = *changes.IsRead
	}
	return g.Update(bookTable).
		Set(record).
		Where(goqu.C("id").Eq(id)).
		Returning(bookColumns...).
		ToSQL()
}
