// Package store is the PostgreSQL implementation of opportunity.Repository.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/forecast"
	"github.com/MrJamesThe3rd/dealdesk/internal/opportunity"
	"github.com/MrJamesThe3rd/dealdesk/internal/pricing"
)

const uniqueViolation = "23505"

var (
	_ opportunity.Repository = (*Store)(nil)
	_ opportunity.Tx         = (*Tx)(nil)
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectOpportunityColumns = `
	o.id, o.name, o.pipeline_id, o.stage_id, o.amount, o.currency, o.close_date,
	o.probability, o.weighted_amount, o.forecast_category, o.owner_id, o.account_id,
	o.primary_contact_id, o.priority, o.type, o.source, o.description, o.tags,
	o.custom_fields, o.won_at, o.lost_at, o.close_reason_id, o.close_notes, o.competitor,
	o.stage_entered_at, o.created_by, o.created_at, o.updated_at, o.deleted_at
`

// scanOpportunity expects the column order of selectOpportunityColumns.
func scanOpportunity(s scanner) (*opportunity.Opportunity, error) {
	var (
		o                                           opportunity.Opportunity
		category, priority                          string
		typ, source, description, notes, competitor sql.NullString
		tags                                        []string
	)

	if err := s.Scan(
		&o.ID, &o.Name, &o.PipelineID, &o.StageID, &o.Amount, &o.Currency, &o.CloseDate,
		&o.Probability, &o.WeightedAmount, &category, &o.OwnerID, &o.AccountID,
		&o.PrimaryContactID, &priority, &typ, &source, &description, pq.Array(&tags),
		&o.CustomFields, &o.WonAt, &o.LostAt, &o.CloseReasonID, &notes, &competitor,
		&o.StageEnteredAt, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt, &o.DeletedAt,
	); err != nil {
		return nil, err
	}

	o.ForecastCategory = forecast.Category(category)
	o.Priority = opportunity.Priority(priority)
	o.Type = typ.String
	o.Source = source.String
	o.Description = description.String
	o.CloseNotes = notes.String
	o.Competitor = competitor.String
	o.Tags = tags

	return &o, nil
}

func getOpportunity(ctx context.Context, q querier, id uuid.UUID, lock bool) (*opportunity.Opportunity, error) {
	query := `SELECT ` + selectOpportunityColumns + `
		FROM opportunities o
		WHERE o.id = $1 AND o.deleted_at IS NULL`

	if lock {
		query += ` FOR UPDATE`
	}

	o, err := scanOpportunity(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &opportunity.NotFoundError{Resource: "opportunity", ID: id.String()}
		}

		return nil, fmt.Errorf("getting opportunity: %w", err)
	}

	return o, nil
}

func (s *Store) Begin(ctx context.Context) (opportunity.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &Tx{tx: tx}, nil
}

func (s *Store) GetOpportunity(ctx context.Context, id uuid.UUID) (*opportunity.Opportunity, error) {
	return getOpportunity(ctx, s.db, id, false)
}

var sortColumns = map[opportunity.SortField]string{
	opportunity.SortName:      "o.name",
	opportunity.SortAmount:    "o.amount",
	opportunity.SortCloseDate: "o.close_date",
	opportunity.SortCreatedAt: "o.created_at",
	opportunity.SortUpdatedAt: "o.updated_at",
}

// where accumulates SQL conditions and their positional arguments.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *where) raw(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *where) String() string {
	return strings.Join(w.conds, " AND ")
}

func (w *where) owners(ids []uuid.UUID) {
	if ids != nil {
		w.add("o.owner_id = ANY(?::uuid[])", uuidArray(ids))
	}
}

func (s *Store) ListOpportunities(ctx context.Context, filter opportunity.ListFilter, page opportunity.Page, sort opportunity.Sort) ([]*opportunity.Opportunity, int, error) {
	w := &where{}
	w.raw("o.deleted_at IS NULL")

	if filter.PipelineID != nil {
		w.add("o.pipeline_id = ?", *filter.PipelineID)
	}

	if filter.StageID != nil {
		w.add("o.stage_id = ?", *filter.StageID)
	}

	if filter.OwnerID != nil {
		w.add("o.owner_id = ?", *filter.OwnerID)
	}

	if filter.AccountID != nil {
		w.add("o.account_id = ?", *filter.AccountID)
	}

	if filter.Status != nil {
		switch *filter.Status {
		case opportunity.StatusWon:
			w.raw("o.won_at IS NOT NULL")
		case opportunity.StatusLost:
			w.raw("o.lost_at IS NOT NULL")
		default:
			w.raw("o.won_at IS NULL AND o.lost_at IS NULL")
		}
	}

	if filter.ForecastCategory != nil {
		w.add("o.forecast_category = ?", string(*filter.ForecastCategory))
	}

	if filter.Search != "" {
		w.add(`o.name ILIKE ? ESCAPE '\'`, containsPattern(filter.Search))
	}

	if filter.CloseFrom != nil {
		w.add("o.close_date >= ?", *filter.CloseFrom)
	}

	if filter.CloseTo != nil {
		w.add("o.close_date <= ?", *filter.CloseTo)
	}

	if filter.Tag != "" {
		w.add("? = ANY(o.tags)", filter.Tag)
	}

	w.owners(filter.OwnerIDs)

	var total int

	countQuery := `SELECT COUNT(*) FROM opportunities o WHERE ` + w.String()
	if err := s.db.QueryRowContext(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting opportunities: %w", err)
	}

	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}

	column, ok := sortColumns[sort.Field]
	if !ok {
		column = "o.created_at"
	}

	query := fmt.Sprintf(`SELECT %s
		FROM opportunities o
		WHERE %s
		ORDER BY %s %s NULLS LAST, o.id
		LIMIT %d OFFSET %d`,
		selectOpportunityColumns, w.String(), column, direction, page.Size, page.Offset())

	items, err := s.queryOpportunities(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing opportunities: %w", err)
	}

	return items, total, nil
}

func (s *Store) queryOpportunities(ctx context.Context, query string, args ...any) ([]*opportunity.Opportunity, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*opportunity.Opportunity{}

	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning opportunity: %w", err)
		}

		items = append(items, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating opportunity rows: %w", err)
	}

	return items, nil
}

// FindDuplicates returns open opportunities whose name contains one of the
// words or that belong to the same account, newest first.
func (s *Store) FindDuplicates(ctx context.Context, c opportunity.DuplicateCriteria) ([]*opportunity.Opportunity, error) {
	w := &where{}
	w.raw("o.deleted_at IS NULL AND o.won_at IS NULL AND o.lost_at IS NULL")

	var match []string

	if len(c.Words) > 0 {
		patterns := make([]string, 0, len(c.Words))
		for _, word := range c.Words {
			patterns = append(patterns, containsPattern(word))
		}

		w.args = append(w.args, pq.Array(patterns))
		match = append(match, fmt.Sprintf(`o.name ILIKE ANY($%d::text[])`, len(w.args)))
	}

	if c.AccountID != nil {
		w.args = append(w.args, *c.AccountID)
		match = append(match, fmt.Sprintf("o.account_id = $%d", len(w.args)))
	}

	if len(match) == 0 {
		return []*opportunity.Opportunity{}, nil
	}

	w.raw("(" + strings.Join(match, " OR ") + ")")

	if c.ExcludeID != nil {
		w.add("o.id <> ?", *c.ExcludeID)
	}

	w.owners(c.OwnerIDs)

	query := fmt.Sprintf(`SELECT %s
		FROM opportunities o
		WHERE %s
		ORDER BY o.created_at DESC
		LIMIT %d`, selectOpportunityColumns, w.String(), c.Limit)

	items, err := s.queryOpportunities(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}

	return items, nil
}

// ForecastSummary groups non-lost opportunities by forecast category.
func (s *Store) ForecastSummary(ctx context.Context, filter opportunity.ForecastFilter) ([]opportunity.ForecastRow, error) {
	w := &where{}
	w.raw("o.deleted_at IS NULL AND o.lost_at IS NULL")

	if filter.PipelineID != nil {
		w.add("o.pipeline_id = ?", *filter.PipelineID)
	}

	w.owners(filter.OwnerIDs)

	query := `SELECT o.forecast_category, COUNT(*),
			COALESCE(SUM(o.amount), 0), COALESCE(SUM(o.weighted_amount), 0)
		FROM opportunities o
		WHERE ` + w.String() + `
		GROUP BY o.forecast_category`

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("summarizing forecast: %w", err)
	}
	defer rows.Close()

	var out []opportunity.ForecastRow

	for rows.Next() {
		var (
			r        opportunity.ForecastRow
			category string
		)

		if err := rows.Scan(&category, &r.Count, &r.Amount, &r.WeightedAmount); err != nil {
			return nil, fmt.Errorf("scanning forecast row: %w", err)
		}

		r.Category = forecast.Category(category)
		out = append(out, r)
	}

	return out, rows.Err()
}

func (s *Store) ListStageHistory(ctx context.Context, opportunityID uuid.UUID) ([]*opportunity.StageHistoryEntry, error) {
	query := `
		SELECT h.id, h.opportunity_id, h.from_stage_id, h.to_stage_id,
			COALESCE(LAG(h.to_stage_name) OVER (ORDER BY h.created_at, h.seq), ''),
			h.to_stage_name, h.changed_by, h.time_in_stage_seconds, h.note, h.created_at
		FROM opportunity_stage_history h
		WHERE h.opportunity_id = $1
		ORDER BY h.created_at, h.seq`

	rows, err := s.db.QueryContext(ctx, query, opportunityID)
	if err != nil {
		return nil, fmt.Errorf("listing stage history: %w", err)
	}
	defer rows.Close()

	history := []*opportunity.StageHistoryEntry{}

	for rows.Next() {
		var (
			e       opportunity.StageHistoryEntry
			seconds sql.NullInt64
			note    sql.NullString
		)

		if err := rows.Scan(
			&e.ID, &e.OpportunityID, &e.FromStageID, &e.ToStageID, &e.FromStageName,
			&e.ToStageName, &e.ChangedBy, &seconds, &note, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning stage history: %w", err)
		}

		if seconds.Valid {
			e.TimeInStage = new(time.Duration(seconds.Int64) * time.Second)
		}

		e.Note = note.String
		history = append(history, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stage history: %w", err)
	}

	return history, nil
}

func (s *Store) ListLineItems(ctx context.Context, opportunityID uuid.UUID) ([]*pricing.LineItem, error) {
	return listLineItems(ctx, s.db, opportunityID)
}

func (s *Store) ListContactRoles(ctx context.Context, opportunityID uuid.UUID) ([]*opportunity.ContactRole, error) {
	query := `
		SELECT r.id, r.opportunity_id, r.contact_id,
			COALESCE(TRIM(c.first_name || ' ' || c.last_name), ''),
			r.role, r.is_primary, r.notes, r.created_at, r.updated_at
		FROM opportunity_contact_roles r
		LEFT JOIN contacts c ON c.id = r.contact_id
		WHERE r.opportunity_id = $1
		ORDER BY r.is_primary DESC, r.created_at`

	rows, err := s.db.QueryContext(ctx, query, opportunityID)
	if err != nil {
		return nil, fmt.Errorf("listing contact roles: %w", err)
	}
	defer rows.Close()

	roles := []*opportunity.ContactRole{}

	for rows.Next() {
		var (
			r           opportunity.ContactRole
			role, notes sql.NullString
		)

		if err := rows.Scan(
			&r.ID, &r.OpportunityID, &r.ContactID, &r.ContactName,
			&role, &r.IsPrimary, &notes, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning contact role: %w", err)
		}

		r.Role = role.String
		r.Notes = notes.String
		roles = append(roles, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contact roles: %w", err)
	}

	return roles, nil
}

func (s *Store) ListTeam(ctx context.Context, opportunityID uuid.UUID) ([]opportunity.TeamMember, error) {
	query := `
		SELECT t.user_id, COALESCE(u.name, ''), t.role
		FROM opportunity_team_members t
		LEFT JOIN users u ON u.id = t.user_id
		WHERE t.opportunity_id = $1
		ORDER BY u.name`

	rows, err := s.db.QueryContext(ctx, query, opportunityID)
	if err != nil {
		return nil, fmt.Errorf("listing team: %w", err)
	}
	defer rows.Close()

	team := []opportunity.TeamMember{}

	for rows.Next() {
		var m opportunity.TeamMember
		if err := rows.Scan(&m.UserID, &m.Name, &m.Role); err != nil {
			return nil, fmt.Errorf("scanning team member: %w", err)
		}

		team = append(team, m)
	}

	return team, rows.Err()
}

// LookupNames resolves display names of o's references. Missing rows yield
// empty names.
func (s *Store) LookupNames(ctx context.Context, o *opportunity.Opportunity) (opportunity.Names, error) {
	query := `
		SELECT
			(SELECT name FROM pipelines WHERE id = $1),
			(SELECT name FROM users WHERE id = $2),
			(SELECT name FROM accounts WHERE id = $3),
			(SELECT TRIM(first_name || ' ' || last_name) FROM contacts WHERE id = $4)`

	var pipelineName, owner, account, contact sql.NullString

	err := s.db.QueryRowContext(ctx, query, o.PipelineID, o.OwnerID, o.AccountID, o.PrimaryContactID).
		Scan(&pipelineName, &owner, &account, &contact)
	if err != nil {
		return opportunity.Names{}, fmt.Errorf("looking up names: %w", err)
	}

	return opportunity.Names{
		Pipeline:       pipelineName.String,
		Owner:          owner.String,
		Account:        account.String,
		PrimaryContact: contact.String,
	}, nil
}

// containsPattern escapes LIKE metacharacters and wraps s in wildcards.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func uuidArray(ids []uuid.UUID) any {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}

	return pq.Array(out)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nullDecimal(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: !d.IsZero()}
}

func tagArray(tags []string) any {
	if tags == nil {
		tags = []string{}
	}

	return pq.Array(tags)
}
