// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrProfileNotFound = errors.New("member profile not found")
	ErrUserNotFound    = errors.New("user not found")
)

// ListCriteria narrows the pool returned by ListEligibleProfiles.
// Structural eligibility beyond this (categories, distance, demographics)
// is the matching engine's job, not the store's.
type ListCriteria struct {
	ExcludeUserID int64
	Limit         int
}

// Store is the persistence boundary for member profiles, users, and the
// connection ledger. The matching engine consumes it read-only except for
// connection writes.
type Store interface {
	GetProfileByUserID(ctx context.Context, userID int64) (*MemberProfile, error)
	ListEligibleProfiles(ctx context.Context, criteria *ListCriteria) ([]*MemberProfile, error)
	UpsertProfile(ctx context.Context, p *MemberProfile) error

	GetUser(ctx context.Context, userID int64) (*User, error)
	GetUsers(ctx context.Context, userIDs []int64) (map[int64]*User, error)

	UpsertConnection(ctx context.Context, userID, peerUserID int64, connType string) (*Connection, error)
	SetConnectionStatus(ctx context.Context, userID, peerUserID int64, status string) error
	GetConnections(ctx context.Context, userID int64) ([]Connection, error)
	MarkDormantConnections(ctx context.Context, idleWindow time.Duration) (int64, error)
}

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a Store backed by PostgreSQL
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) GetProfileByUserID(ctx context.Context, userID int64) (*MemberProfile, error) {
	var p MemberProfile
	query := `
		SELECT id, user_id, skills, interests, availability, matching_preferences,
		       communication_style, is_available_for_matching, last_active,
		       created_at, updated_at
		FROM member_profiles
		WHERE user_id = $1
	`

	err := s.db.GetContext(ctx, &p, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	connections, err := s.GetConnections(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.Connections = connections

	return &p, nil
}

func (s *postgresStore) ListEligibleProfiles(ctx context.Context, criteria *ListCriteria) ([]*MemberProfile, error) {
	limit := criteria.Limit
	if limit <= 0 {
		limit = 500
	}

	// Stable user_id ordering keeps candidate pools reproducible
	query := `
		SELECT id, user_id, skills, interests, availability, matching_preferences,
		       communication_style, is_available_for_matching, last_active,
		       created_at, updated_at
		FROM member_profiles
		WHERE is_available_for_matching = TRUE AND user_id != $1
		ORDER BY user_id
		LIMIT $2
	`

	var profiles []*MemberProfile
	err := s.db.SelectContext(ctx, &profiles, query, criteria.ExcludeUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("list eligible profiles: %w", err)
	}

	return profiles, nil
}

func (s *postgresStore) UpsertProfile(ctx context.Context, p *MemberProfile) error {
	query := `
		INSERT INTO member_profiles (
			user_id, skills, interests, availability, matching_preferences,
			communication_style, is_available_for_matching, last_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
			skills = $2, interests = $3, availability = $4,
			matching_preferences = $5, communication_style = $6,
			is_available_for_matching = $7, last_active = NOW(),
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, last_active, created_at, updated_at
	`

	err := s.db.QueryRowxContext(
		ctx, query,
		p.UserID, p.Skills, p.Interests, p.Availability, p.Preferences,
		p.CommunicationStyle, p.AvailableForMatching,
	).Scan(&p.ID, &p.LastActive, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}

func (s *postgresStore) GetUser(ctx context.Context, userID int64) (*User, error) {
	var u User
	query := `
		SELECT id, username, display_name, birth_date, gender, latitude, longitude
		FROM users
		WHERE id = $1
	`

	err := s.db.GetContext(ctx, &u, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &u, nil
}

func (s *postgresStore) GetUsers(ctx context.Context, userIDs []int64) (map[int64]*User, error) {
	users := make(map[int64]*User, len(userIDs))
	if len(userIDs) == 0 {
		return users, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, username, display_name, birth_date, gender, latitude, longitude
		FROM users
		WHERE id IN (?)
	`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("build users query: %w", err)
	}

	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u User
		if err := rows.StructScan(&u); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users[u.ID] = &u
	}

	return users, rows.Err()
}

// Connection ledger

func (s *postgresStore) UpsertConnection(ctx context.Context, userID, peerUserID int64, connType string) (*Connection, error) {
	// One row per (owner, peer); repeat connects bump the counter in place.
	// The peer's own ledger is a separate row written when the peer acts.
	query := `
		INSERT INTO member_connections (
			user_id, peer_user_id, type, status, last_interaction, interaction_count
		) VALUES ($1, $2, $3, 'active', NOW(), 1)
		ON CONFLICT (user_id, peer_user_id)
		DO UPDATE SET
			type = $3,
			last_interaction = NOW(),
			interaction_count = member_connections.interaction_count + 1,
			status = CASE
				WHEN member_connections.status = 'blocked' THEN member_connections.status
				ELSE 'active'
			END
		RETURNING peer_user_id, type, status, created_at, last_interaction, interaction_count
	`

	var conn Connection
	err := s.db.QueryRowxContext(ctx, query, userID, peerUserID, connType).StructScan(&conn)
	if err != nil {
		return nil, fmt.Errorf("upsert connection: %w", err)
	}

	return &conn, nil
}

func (s *postgresStore) SetConnectionStatus(ctx context.Context, userID, peerUserID int64, status string) error {
	query := `
		INSERT INTO member_connections (
			user_id, peer_user_id, type, status, last_interaction, interaction_count
		) VALUES ($1, $2, 'requested', $3, NOW(), 0)
		ON CONFLICT (user_id, peer_user_id)
		DO UPDATE SET status = $3, last_interaction = NOW()
	`

	_, err := s.db.ExecContext(ctx, query, userID, peerUserID, status)
	if err != nil {
		return fmt.Errorf("set connection status: %w", err)
	}

	return nil
}

func (s *postgresStore) GetConnections(ctx context.Context, userID int64) ([]Connection, error) {
	query := `
		SELECT peer_user_id, type, status, created_at, last_interaction, interaction_count
		FROM member_connections
		WHERE user_id = $1
		ORDER BY last_interaction DESC
	`

	var connections []Connection
	err := s.db.SelectContext(ctx, &connections, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get connections: %w", err)
	}

	return connections, nil
}

func (s *postgresStore) MarkDormantConnections(ctx context.Context, idleWindow time.Duration) (int64, error) {
	query := `
		UPDATE member_connections
		SET status = 'inactive'
		WHERE status = 'active'
		AND last_interaction < NOW() - ($1 * INTERVAL '1 second')
	`

	result, err := s.db.ExecContext(ctx, query, int64(idleWindow.Seconds()))
	if err != nil {
		return 0, fmt.Errorf("mark dormant connections: %w", err)
	}

	return result.RowsAffected()
}
