package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// DateLayout is the layout of every persisted calendar date.
const DateLayout = "2006-01-02"

// CountryLearningRecord is the spaced-repetition state of one country.
// A nil field has never been set.
type CountryLearningRecord struct {
	LastChecked  *string  `json:"lastChecked"`
	LearningRate *float64 `json:"learningRate"`
}

// Streak tracks consecutive days with a saved daily challenge.
type Streak struct {
	Current    int    `json:"current"`
	LastPlayed string `json:"lastPlayed"`
}

// DailyEntry is the saved result of one daily challenge.
type DailyEntry struct {
	Date       string  `json:"date"`
	SkillScore float64 `json:"skillScore"`
	Score      int     `json:"score"`
}

// DailyChallenge groups the streak with every saved entry.
type DailyChallenge struct {
	Streak      Streak       `json:"streak"`
	FullEntries []DailyEntry `json:"fullEntries"`
}

// UserProgressData is everything persisted about the player.
type UserProgressData struct {
	DailyChallenge DailyChallenge                   `json:"dailyChallenge"`
	Countries      map[string]CountryLearningRecord `json:"countries"`
}

// EmptyProgress returns a well-formed progress value with nothing recorded.
func EmptyProgress() *UserProgressData {
	return &UserProgressData{
		DailyChallenge: DailyChallenge{FullEntries: []DailyEntry{}},
		Countries:      make(map[string]CountryLearningRecord),
	}
}

// ProgressRepo reads and writes persisted player progress.
type ProgressRepo interface {
	// Load returns all stored progress, or an empty value if none.
	Load(ctx context.Context) (*UserProgressData, error)

	// UpdateCountry reads the record for code, applies fn and writes the
	// result back inside one transaction.
	UpdateCountry(ctx context.Context, code string, fn func(CountryLearningRecord) CountryLearningRecord) error

	// InsertDailyEntry stores entry unless its date already exists, in which
	// case it returns false. On insert the streak is replaced by
	// streak(old) in the same transaction.
	InsertDailyEntry(ctx context.Context, entry DailyEntry, streak func(Streak) Streak) (bool, error)

	// Clear deletes every progress row.
	Clear(ctx context.Context) error
}

type progressRepo struct {
	db *sql.DB
}

func (r *progressRepo) Load(ctx context.Context) (*UserProgressData, error) {
	out := EmptyProgress()

	b := builder()
	q, args := b.Select("code", "last_checked", "learning_rate").
		From(b.Table(countryRecordsTable)).
		Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query country records: %w", err)
	}
	for rows.Next() {
		var (
			code string
			last sql.NullString
			rate sql.NullFloat64
		)
		if err := rows.Scan(&code, &last, &rate); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan country record: %w", err)
		}
		out.Countries[code] = recordFromNulls(last, rate)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate country records: %w", err)
	}
	rows.Close()

	q, args = b.Select("date", "skill_score", "score").
		From(b.Table(dailyEntriesTable)).
		OrderBy(entsql.Asc("date")).
		Query()
	rows, err = r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily entries: %w", err)
	}
	for rows.Next() {
		var e DailyEntry
		if err := rows.Scan(&e.Date, &e.SkillScore, &e.Score); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan daily entry: %w", err)
		}
		out.DailyChallenge.FullEntries = append(out.DailyChallenge.FullEntries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate daily entries: %w", err)
	}
	rows.Close()

	streak, err := readStreak(ctx, r.db)
	if err != nil {
		return nil, err
	}
	out.DailyChallenge.Streak = streak
	return out, nil
}

func (r *progressRepo) UpdateCountry(ctx context.Context, code string, fn func(CountryLearningRecord) CountryLearningRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	b := builder()
	q, args := b.Select("last_checked", "learning_rate").
		From(b.Table(countryRecordsTable)).
		Where(entsql.EQ("code", code)).
		Query()

	var cur CountryLearningRecord
	var (
		last sql.NullString
		rate sql.NullFloat64
	)
	switch err := tx.QueryRowContext(ctx, q, args...).Scan(&last, &rate); {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("read country record %s: %w", code, err)
	default:
		cur = recordFromNulls(last, rate)
	}

	next := fn(cur)
	q, args = b.Insert(countryRecordsTable).
		Columns("code", "last_checked", "learning_rate", "updated_at").
		Values(code, nullableString(next.LastChecked), nullableFloat(next.LearningRate), time.Now()).
		OnConflict(entsql.ConflictColumns("code"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("write country record %s: %w", code, err)
	}
	return tx.Commit()
}

func (r *progressRepo) InsertDailyEntry(ctx context.Context, entry DailyEntry, streak func(Streak) Streak) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	b := builder()
	q, args := b.Insert(dailyEntriesTable).
		Columns("date", "skill_score", "score", "created_at").
		Values(entry.Date, entry.SkillScore, entry.Score, time.Now()).
		OnConflict(entsql.ConflictColumns("date"), entsql.DoNothing()).
		Query()
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return false, fmt.Errorf("insert daily entry %s: %w", entry.Date, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert daily entry %s: %w", entry.Date, err)
	}
	if n == 0 {
		return false, nil
	}

	if streak != nil {
		old, err := readStreak(ctx, tx)
		if err != nil {
			return false, err
		}
		next := streak(old)
		q, args = b.Insert(dailyStreakTable).
			Columns("id", "current_streak", "last_played").
			Values(1, next.Current, next.LastPlayed).
			OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
			Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return false, fmt.Errorf("write streak: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit daily entry: %w", err)
	}
	return true, nil
}

func (r *progressRepo) Clear(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{countryRecordsTable, dailyEntriesTable, dailyStreakTable} {
		q, args := builder().Delete(table).Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func readStreak(ctx context.Context, db queryRower) (Streak, error) {
	b := builder()
	q, args := b.Select("current_streak", "last_played").
		From(b.Table(dailyStreakTable)).
		Where(entsql.EQ("id", 1)).
		Query()

	var (
		s    Streak
		last sql.NullString
	)
	err := db.QueryRowContext(ctx, q, args...).Scan(&s.Current, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return Streak{}, nil
	}
	if err != nil {
		return Streak{}, fmt.Errorf("read streak: %w", err)
	}
	s.LastPlayed = last.String
	return s, nil
}

func recordFromNulls(last sql.NullString, rate sql.NullFloat64) CountryLearningRecord {
	var rec CountryLearningRecord
	if last.Valid {
		v := last.String
		rec.LastChecked = &v
	}
	if rate.Valid {
		v := rate.Float64
		rec.LearningRate = &v
	}
	return rec
}

func nullableString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
