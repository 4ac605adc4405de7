package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/impactasaurus/impact/internal/api"
	"github.com/impactasaurus/impact/internal/models"
	"github.com/impactasaurus/impact/internal/services"
)

type SQLiteStore struct {
	db *sql.DB
}

// Open creates the database file if needed, applies migrations and returns
// a ready store.
func Open(path, migrationsDir string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", filepath.ToSlash(path))
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := RunMigrations(sqlDB, migrationsDir); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	st, err := NewSQLiteStore(sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return st, nil
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func NewStore(db *sql.DB) (api.Store, error) {
	return NewSQLiteStore(db)
}

var _ api.Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) logErr(prefix string, err error) {
	if err != nil {
		log.Printf("sqlite store: %s: %v", prefix, err)
	}
}

func contextBg() context.Context { return context.Background() }

func boolToInt64(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func int64ToBool(v int64) bool { return v != 0 }

func toNullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func formatTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}

func parseTime(ns sql.NullString) time.Time {
	if !ns.Valid || ns.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, ns.String)
	if err != nil {
		log.Printf("sqlite store: parse time %q: %v", ns.String, err)
		return time.Time{}
	}
	return t
}

func encodeTags(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeTags(ns sql.NullString) []string {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		log.Printf("sqlite store: decode tags: %v", err)
		return nil
	}
	return out
}

func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// AddOutcomeSet replaces the questionnaire and its questions and categories.
func (s *SQLiteStore) AddOutcomeSet(set *models.OutcomeSet) error {
	if set == nil || set.ID == "" {
		return services.NewInvalidError("outcome set id required")
	}
	ctx := contextBg()
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO outcome_sets(id, name) VALUES(?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name`, set.ID, set.Name); err != nil {
			return fmt.Errorf("upsert outcome set: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE outcome_set_id = ?`, set.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE outcome_set_id = ?`, set.ID); err != nil {
			return err
		}
		for i, c := range set.Categories {
			if _, err := tx.ExecContext(ctx, `INSERT INTO categories(outcome_set_id, id, position, name) VALUES(?, ?, ?, ?)`,
				set.ID, c.ID, i, c.Name); err != nil {
				return fmt.Errorf("insert category %s: %w", c.ID, err)
			}
		}
		for i, q := range set.Questions {
			if _, err := tx.ExecContext(ctx, `INSERT INTO questions(outcome_set_id, id, position, text, archived, category_id) VALUES(?, ?, ?, ?, ?, ?)`,
				set.ID, q.ID, i, q.Text, boolToInt64(q.Archived), toNullString(q.CategoryID)); err != nil {
				return fmt.Errorf("insert question %s: %w", q.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) GetOutcomeSet(id string) (*models.OutcomeSet, error) {
	ctx := contextBg()
	set := &models.OutcomeSet{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT name FROM outcome_sets WHERE id = ?`, id).Scan(&set.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get outcome set: %w", err)
	}
	crows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories WHERE outcome_set_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer crows.Close()
	set.Categories = []models.Category{}
	for crows.Next() {
		var c models.Category
		if err := crows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		set.Categories = append(set.Categories, c)
	}
	if err := crows.Err(); err != nil {
		return nil, err
	}
	qrows, err := s.db.QueryContext(ctx, `SELECT id, text, archived, category_id FROM questions WHERE outcome_set_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer qrows.Close()
	set.Questions = []models.Question{}
	for qrows.Next() {
		var (
			q        models.Question
			archived int64
			category sql.NullString
		)
		if err := qrows.Scan(&q.ID, &q.Text, &archived, &category); err != nil {
			return nil, err
		}
		q.Archived = int64ToBool(archived)
		q.CategoryID = category.String
		set.Questions = append(set.Questions, q)
	}
	return set, qrows.Err()
}

func (s *SQLiteStore) ListOutcomeSets() ([]*models.OutcomeSet, error) {
	rows, err := s.db.QueryContext(contextBg(), `SELECT id FROM outcome_sets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list outcome sets: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]*models.OutcomeSet, 0, len(ids))
	for _, id := range ids {
		set, err := s.GetOutcomeSet(id)
		if err != nil {
			return nil, err
		}
		if set != nil {
			out = append(out, set)
		}
	}
	return out, nil
}

// AddMeeting inserts or replaces a meeting with its answers and aggregates.
func (s *SQLiteStore) AddMeeting(m *models.Meeting) error {
	if m == nil || m.ID == "" {
		return services.NewInvalidError("meeting id required")
	}
	tags, err := encodeTags(m.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	ctx := contextBg()
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meetings(id, beneficiary, user_id, conducted, outcome_set_id, incomplete, tags)
			VALUES(?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET beneficiary = excluded.beneficiary, user_id = excluded.user_id,
				conducted = excluded.conducted, outcome_set_id = excluded.outcome_set_id,
				incomplete = excluded.incomplete, tags = excluded.tags`,
			m.ID, m.Beneficiary, toNullString(m.User), formatTime(m.Conducted), m.OutcomeSetID, boolToInt64(m.Incomplete), tags); err != nil {
			return fmt.Errorf("upsert meeting: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM answers WHERE meeting_id = ?`, m.ID); err != nil {
			return err
		}
		for i, a := range m.Answers {
			if _, err := tx.ExecContext(ctx, `INSERT INTO answers(meeting_id, question_id, position, value) VALUES(?, ?, ?, ?)`,
				m.ID, a.QuestionID, i, a.Value); err != nil {
				return fmt.Errorf("insert answer %s: %w", a.QuestionID, err)
			}
		}
		return replaceAggregates(ctx, tx, m.ID, m.Aggregates.Category)
	})
}

func replaceAggregates(ctx context.Context, tx *sql.Tx, meetingID string, aggs []models.CategoryAggregate) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM category_aggregates WHERE meeting_id = ?`, meetingID); err != nil {
		return err
	}
	for i, ca := range aggs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO category_aggregates(meeting_id, category_id, position, value) VALUES(?, ?, ?, ?)`,
			meetingID, ca.CategoryID, i, ca.Value); err != nil {
			return fmt.Errorf("insert aggregate %s: %w", ca.CategoryID, err)
		}
	}
	return nil
}

const meetingColumns = `id, beneficiary, user_id, conducted, outcome_set_id, incomplete, tags`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row rowScanner) (*models.Meeting, error) {
	var (
		m          models.Meeting
		user       sql.NullString
		conducted  sql.NullString
		incomplete int64
		tags       sql.NullString
	)
	if err := row.Scan(&m.ID, &m.Beneficiary, &user, &conducted, &m.OutcomeSetID, &incomplete, &tags); err != nil {
		return nil, err
	}
	m.User = user.String
	m.Conducted = parseTime(conducted)
	m.Incomplete = int64ToBool(incomplete)
	m.Tags = decodeTags(tags)
	return &m, nil
}

// hydrate loads answers, aggregates and the outcome set snapshot. sets
// caches outcome sets across meetings of one listing.
func (s *SQLiteStore) hydrate(m *models.Meeting, sets map[string]*models.OutcomeSet) error {
	ctx := contextBg()
	arows, err := s.db.QueryContext(ctx, `SELECT question_id, value FROM answers WHERE meeting_id = ? ORDER BY position`, m.ID)
	if err != nil {
		return fmt.Errorf("list answers: %w", err)
	}
	m.Answers = []models.Answer{}
	for arows.Next() {
		var a models.Answer
		if err := arows.Scan(&a.QuestionID, &a.Value); err != nil {
			arows.Close()
			return err
		}
		m.Answers = append(m.Answers, a)
	}
	arows.Close()
	if err := arows.Err(); err != nil {
		return err
	}

	grows, err := s.db.QueryContext(ctx, `SELECT category_id, value FROM category_aggregates WHERE meeting_id = ? ORDER BY position`, m.ID)
	if err != nil {
		return fmt.Errorf("list aggregates: %w", err)
	}
	m.Aggregates.Category = []models.CategoryAggregate{}
	for grows.Next() {
		var ca models.CategoryAggregate
		if err := grows.Scan(&ca.CategoryID, &ca.Value); err != nil {
			grows.Close()
			return err
		}
		m.Aggregates.Category = append(m.Aggregates.Category, ca)
	}
	grows.Close()
	if err := grows.Err(); err != nil {
		return err
	}

	set, ok := sets[m.OutcomeSetID]
	if !ok {
		set, err = s.GetOutcomeSet(m.OutcomeSetID)
		if err != nil {
			return err
		}
		sets[m.OutcomeSetID] = set
	}
	if set != nil {
		m.OutcomeSet = *set
	}
	return nil
}

func (s *SQLiteStore) GetMeeting(id string) (*models.Meeting, error) {
	row := s.db.QueryRowContext(contextBg(), `SELECT `+meetingColumns+` FROM meetings WHERE id = ?`, id)
	m, err := scanMeeting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	if err := s.hydrate(m, map[string]*models.OutcomeSet{}); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMeetingsByBeneficiary returns meetings in insertion order.
func (s *SQLiteStore) ListMeetingsByBeneficiary(beneficiaryID string) ([]*models.Meeting, error) {
	rows, err := s.db.QueryContext(contextBg(), `SELECT `+meetingColumns+` FROM meetings WHERE beneficiary = ? ORDER BY rowid`, beneficiaryID)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	out := []*models.Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sets := map[string]*models.OutcomeSet{}
	for _, m := range out {
		if err := s.hydrate(m, sets); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLiteStore) meetingExists(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM meetings WHERE id = ?`, id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// SaveAnswer upserts one answer, keeping the original position on update.
func (s *SQLiteStore) SaveAnswer(meetingID string, a models.Answer) error {
	ctx := contextBg()
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		ok, err := s.meetingExists(ctx, tx, meetingID)
		if err != nil {
			return err
		}
		if !ok {
			return services.ErrMeetingNotFound
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO answers(meeting_id, question_id, position, value)
			VALUES(?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM answers WHERE meeting_id = ?), ?)
			ON CONFLICT(meeting_id, question_id) DO UPDATE SET value = excluded.value`,
			meetingID, a.QuestionID, meetingID, a.Value)
		return err
	})
}

func (s *SQLiteStore) CompleteMeeting(id string, at time.Time, aggregates []models.CategoryAggregate) error {
	ctx := contextBg()
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		ok, err := s.meetingExists(ctx, tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return services.ErrMeetingNotFound
		}
		if _, err := tx.ExecContext(ctx, `UPDATE meetings SET incomplete = 0, conducted = COALESCE(conducted, ?) WHERE id = ?`,
			formatTime(at), id); err != nil {
			return fmt.Errorf("complete meeting: %w", err)
		}
		return replaceAggregates(ctx, tx, id, aggregates)
	})
}

func (s *SQLiteStore) AddAudit(e api.AuditEntry) {
	_, err := s.db.ExecContext(contextBg(), `INSERT INTO audit_log(time, actor, action, target, note) VALUES(?, ?, ?, ?, ?)`,
		formatTime(e.Time), toNullString(e.Actor), e.Action, toNullString(e.Target), toNullString(e.Note))
	s.logErr("add audit", err)
}

func (s *SQLiteStore) ListAudit() []api.AuditEntry {
	rows, err := s.db.QueryContext(contextBg(), `SELECT time, actor, action, target, note FROM audit_log ORDER BY id`)
	if err != nil {
		s.logErr("list audit", err)
		return []api.AuditEntry{}
	}
	defer rows.Close()
	out := []api.AuditEntry{}
	for rows.Next() {
		var (
			at                  sql.NullString
			actor, target, note sql.NullString
			e                   api.AuditEntry
		)
		if err := rows.Scan(&at, &actor, &e.Action, &target, &note); err != nil {
			s.logErr("scan audit", err)
			return out
		}
		e.Time = parseTime(at)
		e.Actor, e.Target, e.Note = actor.String, target.String, note.String
		out = append(out, e)
	}
	s.logErr("iterate audit", rows.Err())
	return out
}
