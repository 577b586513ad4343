package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/aetheroos/aethero-core/internal/domain"
)

// Store is the embedded implementation of domain.ThreadStore. Each append
// runs in a single transaction per thread id, which closes the
// read-modify-write race a shared key-value store would have.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	// _txlock=immediate takes the write lock at BEGIN, so concurrent
	// appends queue on busy_timeout instead of racing to a UNIQUE
	// violation on (thread_id, seq).
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_txlock=immediate&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// constitutionalHash fingerprints a record's content, mirroring the hash
// column the external schema requires on every table.
func constitutionalHash(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (s *Store) CreateThread(ctx context.Context, thread *domain.Thread) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO threads (id, title, constitutional_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		string(thread.ID), thread.Title,
		constitutionalHash(string(thread.ID), thread.Title),
		fmtTime(thread.CreatedAt), fmtTime(thread.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert thread: %w", err)
	}
	return nil
}

func (s *Store) UpdateThread(ctx context.Context, thread *domain.Thread) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE threads SET title = ?, constitutional_hash = ?, updated_at = ? WHERE id = ?`,
		thread.Title,
		constitutionalHash(string(thread.ID), thread.Title),
		fmtTime(thread.UpdatedAt), string(thread.ID),
	)
	if err != nil {
		return fmt.Errorf("update thread: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrThreadNotFound
	}
	return nil
}

func (s *Store) GetThread(ctx context.Context, id domain.ThreadID) (*domain.Thread, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, created_at, updated_at FROM threads WHERE id = ?`,
		string(id),
	)

	var t domain.Thread
	var idStr, createdAt, updatedAt string
	if err := row.Scan(&idStr, &t.Title, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrThreadNotFound
		}
		return nil, fmt.Errorf("select thread: %w", err)
	}

	t.ID = domain.ThreadID(idStr)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return &t, nil
}

func (s *Store) AppendMessages(ctx context.Context, id domain.ThreadID, msgs ...*domain.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append tx: %w", err)
	}
	defer tx.Rollback()

	var seq int
	row := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM threads WHERE id = ?`, string(id))
	var exists int
	if err := row.Scan(&exists); err != nil {
		return fmt.Errorf("check thread: %w", err)
	}
	if exists == 0 {
		return domain.ErrThreadNotFound
	}

	row = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), -1) FROM messages WHERE thread_id = ?`, string(id))
	if err := row.Scan(&seq); err != nil {
		return fmt.Errorf("read max seq: %w", err)
	}

	for _, m := range msgs {
		seq++
		_, err := tx.ExecContext(ctx,
			`INSERT INTO messages (id, thread_id, seq, role, agent, content, constitutional_hash, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(m.ID), string(id), seq, string(m.Role), string(m.Agent), m.Text,
			constitutionalHash(string(id), string(m.Role), m.Text),
			fmtTime(m.CreatedAt), fmtTime(m.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
	}

	if len(msgs) > 0 {
		last := msgs[len(msgs)-1]
		_, err := tx.ExecContext(ctx,
			`UPDATE threads SET updated_at = ? WHERE id = ?`,
			fmtTime(last.CreatedAt), string(id))
		if err != nil {
			return fmt.Errorf("touch thread: %w", err)
		}
	}

	return tx.Commit()
}

func (s *Store) Messages(ctx context.Context, id domain.ThreadID) ([]*domain.Message, error) {
	if _, err := s.GetThread(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, agent, content, created_at
		 FROM messages WHERE thread_id = ? ORDER BY seq`,
		string(id),
	)
	if err != nil {
		return nil, fmt.Errorf("select messages: %w", err)
	}
	defer rows.Close()

	msgs := []*domain.Message{}
	for rows.Next() {
		var m domain.Message
		var msgID, role, agent, createdAt string
		if err := rows.Scan(&msgID, &role, &agent, &m.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.ID = domain.MessageID(msgID)
		m.ThreadID = id
		m.Role = domain.Role(role)
		m.Agent = domain.AgentName(agent)
		m.CreatedAt = parseTime(createdAt)
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}

func (s *Store) ListThreadIDs(ctx context.Context) ([]domain.ThreadID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM threads ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select thread ids: %w", err)
	}
	defer rows.Close()

	var ids []domain.ThreadID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan thread id: %w", err)
		}
		ids = append(ids, domain.ThreadID(id))
	}
	return ids, rows.Err()
}

// SaveMinister upserts a manifest entry into minister_config so the
// embedded store reflects the active cabinet roster.
func (s *Store) SaveMinister(ctx context.Context, m *domain.Minister) error {
	now := fmtTime(time.Now())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO minister_config (name, role, mandate, preamble, constitutional_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   role = excluded.role,
		   mandate = excluded.mandate,
		   preamble = excluded.preamble,
		   constitutional_hash = excluded.constitutional_hash,
		   updated_at = excluded.updated_at`,
		string(m.Name), m.Role, m.Mandate, m.Preamble,
		constitutionalHash(string(m.Name), m.Role, m.Mandate, m.Preamble),
		now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert minister: %w", err)
	}
	return nil
}
