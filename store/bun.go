package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	session "github.com/andamiaje/go-session"
)

// record is a single key/value row of the durable session state.
type record struct {
	bun.BaseModel `bun:"table:session_state,alias:ss"`
	Key           string    `bun:"key,pk"`
	Value         []byte    `bun:"value,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}

// Bun is the session.Store implementation backed by a bun database.
type Bun struct {
	db     *bun.DB
	logger session.Logger
	now    func() time.Time
}

var _ session.Store = (*Bun)(nil)

// BunOption customizes store construction.
type BunOption func(*Bun)

// WithLogger overrides the logger used for degraded reads.
func WithLogger(logger session.Logger) BunOption {
	return func(s *Bun) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) BunOption {
	return func(s *Bun) {
		if clock != nil {
			s.now = clock
		}
	}
}

// Open opens (creating if needed) a SQLite-backed bun database at path.
// Use ":memory:" for a throwaway database.
func Open(path string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to open session database")
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// NewBun returns a store over the given database. Call Init once to
// create the backing table.
func NewBun(db *bun.DB, opts ...BunOption) *Bun {
	s := &Bun{
		db:     db,
		logger: nil,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Init creates the session state table if it does not exist.
func (s *Bun) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*record)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to create session state table")
	}
	return nil
}

// SaveSession writes the credential token and cached user in one
// transaction; a failure leaves neither behind.
func (s *Bun) SaveSession(ctx context.Context, token string, user *session.User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to serialize cached user")
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.setTx(ctx, tx, keyCredentialToken, []byte(token)); err != nil {
			return err
		}
		return s.setTx(ctx, tx, keyCachedUser, encoded)
	})
}

// ReadSession returns the stored pair, or absent when either half is
// missing or the cached user fails to decode.
func (s *Bun) ReadSession(ctx context.Context) (string, *session.User, bool) {
	token, ok := s.get(ctx, keyCredentialToken)
	if !ok || len(token) == 0 {
		return "", nil, false
	}

	raw, ok := s.get(ctx, keyCachedUser)
	if !ok {
		return "", nil, false
	}

	user := &session.User{}
	if err := json.Unmarshal(raw, user); err != nil {
		s.debugf("cached user unreadable, treating session as absent: %v", err)
		return "", nil, false
	}
	return string(token), user, true
}

// ClearSession removes the credential token and cached user together.
func (s *Bun) ClearSession(ctx context.Context) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*record)(nil)).
			Where("key IN (?, ?)", keyCredentialToken, keyCachedUser).
			Exec(ctx)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to clear stored session")
		}
		return nil
	})
}

// SaveRememberedDocument stores the opted-in document number.
func (s *Bun) SaveRememberedDocument(ctx context.Context, documentNumber string) error {
	return s.set(ctx, keyRememberedDocument, []byte(documentNumber))
}

// RememberedDocument returns the remembered document number, if any.
func (s *Bun) RememberedDocument(ctx context.Context) (string, bool) {
	raw, ok := s.get(ctx, keyRememberedDocument)
	if !ok || len(raw) == 0 {
		return "", false
	}
	return string(raw), true
}

// ClearRememberedDocument removes the remembered document number.
func (s *Bun) ClearRememberedDocument(ctx context.Context) error {
	_, err := s.db.NewDelete().
		Model((*record)(nil)).
		Where("key = ?", keyRememberedDocument).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to clear remembered document")
	}
	return nil
}

func (s *Bun) set(ctx context.Context, key string, value []byte) error {
	return s.setIDB(ctx, s.db, key, value)
}

func (s *Bun) setTx(ctx context.Context, tx bun.Tx, key string, value []byte) error {
	return s.setIDB(ctx, tx, key, value)
}

func (s *Bun) setIDB(ctx context.Context, db bun.IDB, key string, value []byte) error {
	rec := &record{Key: key, Value: value, UpdatedAt: s.now()}
	_, err := db.NewInsert().
		Model(rec).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to write session state").
			WithMetadata(map[string]any{"key": key})
	}
	return nil
}

func (s *Bun) get(ctx context.Context, key string) ([]byte, bool) {
	rec := &record{}
	err := s.db.NewSelect().
		Model(rec).
		Where("key = ?", key).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err != sql.ErrNoRows {
			s.debugf("session state read failed for %s: %v", key, err)
		}
		return nil, false
	}
	return rec.Value, true
}

func (s *Bun) debugf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(format, args...)
	}
}
