// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package nomination

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/laureate/internal/platform/database/schema"
	"github.com/taibuivan/laureate/internal/platform/dberr"
)

// PostgresRepository stores each nomination as one JSONB document. Status,
// review status and category are copied into columns for filtering.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var table = schema.AwardsNomination

func (repository *PostgresRepository) Insert(context context.Context, nomination *Nomination) error {
	document, err := json.Marshal(nomination)
	if err != nil {
		return fmt.Errorf("encode_nomination: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`,
		table.Table, table.ID, table.SubmissionID, table.Category, table.Status,
		table.ReviewStatus, table.Document, table.CreatedAt, table.UpdatedAt,
	)

	_, err = repository.db.Exec(context, query,
		nomination.ID, nomination.SubmissionID, nomination.AwardCategory, nomination.Status,
		nomination.AdminReview.Status, document, nomination.SubmittedAt,
	)
	return dberr.Wrap(err, "Nomination", "insert_nomination")
}

func (repository *PostgresRepository) GetBySubmissionID(context context.Context, submissionID string) (*Nomination, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, table.Document, table.Table, table.SubmissionID)

	var document []byte
	if err := repository.db.QueryRow(context, query, submissionID).Scan(&document); err != nil {
		return nil, dberr.Wrap(err, "Nomination", "get_nomination")
	}

	return decodeDocument(document)
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Nomination, int, error) {
	where, args := buildWhere(filter)

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s %s`, table.Table, where)

	var total int
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Nomination", "count_nominations")
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY %s DESC LIMIT $%d OFFSET $%d`,
		table.Document, table.Table, where, table.CreatedAt, len(args)+1, len(args)+2,
	)

	rows, err := repository.db.Query(context, listQuery, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Nomination", "list_nominations")
	}

	documents, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Nomination", "scan_nominations")
	}

	nominations := make([]*Nomination, 0, len(documents))
	for _, document := range documents {
		nomination, err := decodeDocument(document)
		if err != nil {
			return nil, 0, err
		}
		nominations = append(nominations, nomination)
	}

	return nominations, total, nil
}

func (repository *PostgresRepository) Update(context context.Context, nomination *Nomination) error {
	document, err := json.Marshal(nomination)
	if err != nil {
		return fmt.Errorf("encode_nomination: %w", err)
	}

	// Category is written only by Insert.
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1
	`,
		table.Table, table.Status, table.ReviewStatus, table.Document, table.UpdatedAt, table.SubmissionID,
	)

	tag, err := repository.db.Exec(context, query,
		nomination.SubmissionID, nomination.Status, nomination.AdminReview.Status, document, nomination.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Nomination", "update_nomination")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Nomination", "update_nomination")
	}
	return nil
}

func (repository *PostgresRepository) Ping(context context.Context) error {
	return repository.db.Ping(context)
}

// buildWhere renders the filter as a WHERE clause with positional arguments.
func buildWhere(filter Filter) (string, []any) {
	var conditions []string
	var args []any

	next := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			statuses[i] = string(status)
		}
		conditions = append(conditions, fmt.Sprintf("%s = ANY(%s)", table.Status, next(statuses)))
	} else if !filter.IncludeDeleted {
		conditions = append(conditions, fmt.Sprintf("%s <> %s", table.Status, next(string(StatusDeleted))))
	}

	if filter.ReviewStatus != "" {
		conditions = append(conditions, fmt.Sprintf("%s = %s", table.ReviewStatus, next(string(filter.ReviewStatus))))
	}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("%s = %s", table.Category, next(filter.Category)))
	}

	if filter.Query != "" {
		placeholder := next("%" + likeEscaper.Replace(filter.Query) + "%")
		conditions = append(conditions, fmt.Sprintf(
			"(%[1]s ILIKE %[2]s ESCAPE '\\' OR %[3]s->'nominee'->>'firstName' ILIKE %[2]s ESCAPE '\\' OR %[3]s->'nominee'->>'lastName' ILIKE %[2]s ESCAPE '\\')",
			table.SubmissionID, placeholder, table.Document,
		))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// likeEscaper makes search text match literally inside an ILIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func decodeDocument(document []byte) (*Nomination, error) {
	var nomination Nomination
	if err := json.Unmarshal(document, &nomination); err != nil {
		return nil, fmt.Errorf("decode_nomination: %w", err)
	}
	return &nomination, nil
}
