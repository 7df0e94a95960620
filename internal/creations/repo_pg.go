package creations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Likes live in a text[] column. database/sql has no portable array
// scan, so queries read array_to_string(likes, ',') and split here.
// User IDs never contain commas.
const likesExpr = `COALESCE(array_to_string(likes, ','), '')`

const creationColumns = `id, user_id, prompt, content, type, publish, ` + likesExpr + `,
COALESCE(language, ''), COALESCE(explanation, ''), quality_score,
COALESCE(original_code, ''), issues_found, created_at, updated_at`

// Create inserts a new ledger row. Likes start empty via the column
// default.
func (r *PGRepo) Create(ctx context.Context, cr Creation) error {
	const query = `
INSERT INTO creations (
    id,
    user_id,
    prompt,
    content,
    type,
    publish,
    language,
    explanation,
    quality_score,
    original_code,
    issues_found,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	var issuesJSON any
	if cr.IssuesFound != nil {
		raw, err := json.Marshal(cr.IssuesFound)
		if err != nil {
			return fmt.Errorf("marshal issues: %w", err)
		}
		issuesJSON = raw
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		cr.ID,
		cr.UserID,
		cr.Prompt,
		cr.Content,
		cr.Type,
		cr.Publish,
		nullString(cr.Language),
		nullString(cr.Explanation),
		nullInt(cr.QualityScore),
		nullString(cr.OriginalCode),
		issuesJSON,
		cr.CreatedAt,
		cr.UpdatedAt,
	)
	return err
}

// GetByID returns one creation regardless of owner.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Creation, error) {
	query := `
SELECT ` + creationColumns + `
FROM creations
WHERE id = $1
LIMIT 1`
	rows, err := r.DB.QueryContext(ctx, query, id)
	if err != nil {
		return Creation{}, err
	}
	defer rows.Close()

	out, err := scanCreations(rows)
	if err != nil {
		return Creation{}, err
	}
	if len(out) == 0 {
		return Creation{}, ErrNotFound
	}
	return out[0], nil
}

// ListByUser returns all of a user's creations, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Creation, error) {
	query := `
SELECT ` + creationColumns + `
FROM creations
WHERE user_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCreations(rows)
}

// ListPublished returns all published creations, newest first.
func (r *PGRepo) ListPublished(ctx context.Context) ([]Creation, error) {
	query := `
SELECT ` + creationColumns + `
FROM creations
WHERE publish = true
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCreations(rows)
}

// ToggleLike flips membership in a single UPDATE so concurrent toggles
// for different users cannot overwrite each other.
func (r *PGRepo) ToggleLike(ctx context.Context, id, userID string) ([]string, error) {
	const query = `
UPDATE creations
SET likes = CASE
        WHEN $2 = ANY(likes) THEN array_remove(likes, $2)
        ELSE array_append(likes, $2)
    END,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + likesExpr

	var joined string
	err := r.DB.QueryRowContext(ctx, query, id, userID).Scan(&joined)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return splitLikes(joined), nil
}

const codeFixColumns = `id, COALESCE(language, ''), COALESCE(original_code, ''), content,
COALESCE(explanation, ''), quality_score, issues_found, created_at, updated_at`

// ListCodeFixes returns the user's code fixes, newest first.
func (r *PGRepo) ListCodeFixes(ctx context.Context, userID string) ([]CodeFixDetail, error) {
	query := `
SELECT ` + codeFixColumns + `
FROM creations
WHERE user_id = $1 AND type = 'code-fix'
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CodeFixDetail
	for rows.Next() {
		detail, err := scanCodeFix(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, detail)
	}
	return out, rows.Err()
}

// GetCodeFix returns one code fix owned by the user.
func (r *PGRepo) GetCodeFix(ctx context.Context, id, userID string) (CodeFixDetail, error) {
	query := `
SELECT ` + codeFixColumns + `
FROM creations
WHERE id = $1 AND user_id = $2 AND type = 'code-fix'
LIMIT 1`
	detail, err := scanCodeFix(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CodeFixDetail{}, ErrNotFound
		}
		return CodeFixDetail{}, err
	}
	return detail, nil
}

// RecentCodeFixes returns up to limit newest code fixes as summaries.
func (r *PGRepo) RecentCodeFixes(ctx context.Context, userID string, limit int) ([]CodeFixSummary, error) {
	const query = `
SELECT id, COALESCE(language, ''), quality_score, created_at,
       SUBSTRING(COALESCE(original_code, ''), 1, 100)
FROM creations
WHERE user_id = $1 AND type = 'code-fix'
ORDER BY created_at DESC
LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CodeFixSummary
	for rows.Next() {
		var s CodeFixSummary
		var score sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Language, &score, &s.CreatedAt, &s.CodePreview); err != nil {
			return nil, err
		}
		if score.Valid {
			v := int(score.Int64)
			s.QualityScore = &v
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SearchCodeFixes filters the user's code fixes with optional
// language, quality-range, and text criteria.
func (r *PGRepo) SearchCodeFixes(ctx context.Context, userID string, f SearchFilter) ([]CodeFixSearchRow, error) {
	var sb strings.Builder
	sb.WriteString(`
SELECT id, COALESCE(language, ''), quality_score, created_at,
       SUBSTRING(COALESCE(original_code, ''), 1, 100),
       SUBSTRING(COALESCE(explanation, ''), 1, 200)
FROM creations
WHERE user_id = $1 AND type = 'code-fix'`)

	args := []any{userID}
	if f.Language != "" {
		args = append(args, f.Language)
		fmt.Fprintf(&sb, " AND language = $%d", len(args))
	}
	if f.MinQuality != nil {
		args = append(args, *f.MinQuality)
		fmt.Fprintf(&sb, " AND quality_score >= $%d", len(args))
	}
	if f.MaxQuality != nil {
		args = append(args, *f.MaxQuality)
		fmt.Fprintf(&sb, " AND quality_score <= $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		fmt.Fprintf(&sb, " AND (original_code ILIKE $%d OR explanation ILIKE $%d)", len(args), len(args))
	}
	sb.WriteString(" ORDER BY created_at DESC")

	rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CodeFixSearchRow
	for rows.Next() {
		var row CodeFixSearchRow
		var score sql.NullInt64
		if err := rows.Scan(&row.ID, &row.Language, &score, &row.CreatedAt, &row.CodePreview, &row.ExplanationPreview); err != nil {
			return nil, err
		}
		if score.Valid {
			v := int(score.Int64)
			row.QualityScore = &v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// QualityStats aggregates scored code fixes per language and overall.
func (r *PGRepo) QualityStats(ctx context.Context, userID string) (QualityStats, error) {
	const perLanguage = `
SELECT COALESCE(language, ''),
       COUNT(*),
       AVG(quality_score),
       MIN(quality_score),
       MAX(quality_score)
FROM creations
WHERE user_id = $1 AND type = 'code-fix' AND quality_score IS NOT NULL
GROUP BY language
ORDER BY COUNT(*) DESC`

	rows, err := r.DB.QueryContext(ctx, perLanguage, userID)
	if err != nil {
		return QualityStats{}, err
	}
	defer rows.Close()

	stats := QualityStats{LanguageStats: []LanguageStat{}}
	for rows.Next() {
		var ls LanguageStat
		if err := rows.Scan(&ls.Language, &ls.TotalFixes, &ls.AvgQualityScore, &ls.MinQualityScore, &ls.MaxQualityScore); err != nil {
			return QualityStats{}, err
		}
		stats.LanguageStats = append(stats.LanguageStats, ls)
	}
	if err := rows.Err(); err != nil {
		return QualityStats{}, err
	}

	const overall = `
SELECT COUNT(*),
       COALESCE(AVG(quality_score), 0),
       COUNT(CASE WHEN quality_score >= 80 THEN 1 END),
       COUNT(CASE WHEN quality_score < 60 THEN 1 END)
FROM creations
WHERE user_id = $1 AND type = 'code-fix' AND quality_score IS NOT NULL`

	err = r.DB.QueryRowContext(ctx, overall, userID).Scan(
		&stats.OverallStats.TotalCodeFixes,
		&stats.OverallStats.OverallAvgQuality,
		&stats.OverallStats.HighQualityFixes,
		&stats.OverallStats.LowQualityFixes,
	)
	if err != nil {
		return QualityStats{}, err
	}
	return stats, nil
}

// DeleteCodeFix removes one code fix owned by the user. Missing and
// foreign rows report the same ErrNotFound.
func (r *PGRepo) DeleteCodeFix(ctx context.Context, id, userID string) error {
	const query = `
DELETE FROM creations
WHERE id = $1 AND user_id = $2 AND type = 'code-fix'`
	res, err := r.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCodeFix(row rowScanner) (CodeFixDetail, error) {
	var d CodeFixDetail
	var score sql.NullInt64
	var issuesRaw []byte
	err := row.Scan(
		&d.ID,
		&d.Language,
		&d.OriginalCode,
		&d.FixedCode,
		&d.Explanation,
		&score,
		&issuesRaw,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return CodeFixDetail{}, err
	}
	if score.Valid {
		v := int(score.Int64)
		d.QualityScore = &v
	}
	if len(issuesRaw) > 0 {
		if err := json.Unmarshal(issuesRaw, &d.IssuesFound); err != nil {
			return CodeFixDetail{}, fmt.Errorf("unmarshal issues: %w", err)
		}
	}
	return d, nil
}

func scanCreations(rows *sql.Rows) ([]Creation, error) {
	var out []Creation
	for rows.Next() {
		var cr Creation
		var likesJoined string
		var score sql.NullInt64
		var issuesRaw []byte
		if err := rows.Scan(
			&cr.ID,
			&cr.UserID,
			&cr.Prompt,
			&cr.Content,
			&cr.Type,
			&cr.Publish,
			&likesJoined,
			&cr.Language,
			&cr.Explanation,
			&score,
			&cr.OriginalCode,
			&issuesRaw,
			&cr.CreatedAt,
			&cr.UpdatedAt,
		); err != nil {
			return nil, err
		}
		cr.Likes = splitLikes(likesJoined)
		if score.Valid {
			v := int(score.Int64)
			cr.QualityScore = &v
		}
		if len(issuesRaw) > 0 {
			if err := json.Unmarshal(issuesRaw, &cr.IssuesFound); err != nil {
				return nil, fmt.Errorf("unmarshal issues: %w", err)
			}
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}

func splitLikes(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, ",")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

var _ Repo = (*PGRepo)(nil)
var _ Repo = (*MemoryRepo)(nil)
