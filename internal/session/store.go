package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	appErrors "github.com/schedulify/schedulify-cli/pkg/errors"
)

// Storage keys mirror the browser client this tool replaces.
const (
	keyToken     = "jwt"
	keySchoolID  = "schoolId"
	keyTeacherID = "teacherId"
)

const schema = `CREATE TABLE IF NOT EXISTS session (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// Role is the authenticated capability level derived from token claims.
type Role string

const (
	RoleUnauthenticated Role = "UNAUTHENTICATED"
	RoleAdmin           Role = "ADMIN"
	RoleTeacher         Role = "TEACHER"
)

// Identity is the tagged session variant. SchoolID is set for both
// authenticated roles; TeacherID only for RoleTeacher.
type Identity struct {
	Role      Role
	SchoolID  string
	TeacherID string
}

// Store holds the bearer token and tenant identifiers durably. Values are
// mirrored in memory so every outgoing request can read them cheaply.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger

	mu        sync.RWMutex
	token     string
	schoolID  string
	teacherID string
}

// New initialises a store over an existing database handle.
func New(db *sqlx.DB, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, 0, "migrate session store")
	}
	s := &Store{db: db, logger: logger}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Open creates the session database file and returns a ready store.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, 0, "create session directory")
		}
	}
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, 0, "open session store")
	}
	store, err := New(db, logger)
	if err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) reload() error {
	rows := []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}{}
	if err := s.db.Select(&rows, `SELECT key, value FROM session`); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, 0, "load session")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.schoolID, s.teacherID = "", "", ""
	for _, row := range rows {
		switch row.Key {
		case keyToken:
			s.token = row.Value
		case keySchoolID:
			s.schoolID = row.Value
		case keyTeacherID:
			s.teacherID = row.Value
		}
	}
	return nil
}

// Set persists a fresh session, overwriting any prior one. teacherID is empty
// for admin sessions.
func (s *Store) Set(token, schoolID, teacherID string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, 0, "persist session")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM session`); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, 0, "persist session")
	}
	for key, value := range map[string]string{keyToken: token, keySchoolID: schoolID, keyTeacherID: teacherID} {
		if value == "" {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO session (key, value) VALUES ($1, $2)`, key, value); err != nil {
			return appErrors.Wrap(err, appErrors.ErrStorage.Code, 0, fmt.Sprintf("persist session key %s", key))
		}
	}
	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, 0, "persist session")
	}

	s.mu.Lock()
	s.token, s.schoolID, s.teacherID = token, schoolID, teacherID
	s.mu.Unlock()
	return nil
}

// Clear removes every session entry. Safe to call repeatedly.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session`); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, 0, "clear session")
	}
	s.mu.Lock()
	s.token, s.schoolID, s.teacherID = "", "", ""
	s.mu.Unlock()
	return nil
}

// Token returns the stored bearer token, empty when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SchoolID returns the stored tenant id.
func (s *Store) SchoolID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schoolID
}

// TeacherID returns the stored teacher id, empty for admin sessions.
func (s *Store) TeacherID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.teacherID
}

// Identity decodes the token claims and returns the session variant. The
// token signature is deliberately not verified here: the result gates
// navigation only, every privileged call is re-checked by the server. Any
// decode failure resolves to RoleUnauthenticated.
func (s *Store) Identity() Identity {
	s.mu.RLock()
	token, schoolID, teacherID := s.token, s.schoolID, s.teacherID
	s.mu.RUnlock()

	if token == "" {
		return Identity{Role: RoleUnauthenticated}
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		s.logger.Debug("token decode failed", zap.Error(err))
		return Identity{Role: RoleUnauthenticated}
	}

	role, _ := claims["role"].(string)
	if claimed, ok := claims["schoolId"].(string); ok && claimed != "" {
		schoolID = claimed
	}
	if claimed, ok := claims["teacherId"].(string); ok && claimed != "" {
		teacherID = claimed
	}

	switch Role(role) {
	case RoleAdmin:
		return Identity{Role: RoleAdmin, SchoolID: schoolID}
	case RoleTeacher:
		return Identity{Role: RoleTeacher, SchoolID: schoolID, TeacherID: teacherID}
	default:
		return Identity{Role: RoleUnauthenticated}
	}
}

// IsAdmin reports whether the current token carries the admin role.
func (s *Store) IsAdmin() bool {
	return s.Identity().Role == RoleAdmin
}

// IsTeacher reports whether the current token carries the teacher role.
func (s *Store) IsTeacher() bool {
	return s.Identity().Role == RoleTeacher
}
