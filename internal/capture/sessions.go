package capture

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/feathernet/ucremote/internal/protocol"
)

// Frame directions, matching the logging conventions.
const (
	// DirectionSend marks frames written by this client
	DirectionSend = "send"

	// DirectionRecv marks frames received from the console
	DirectionRecv = "recv"
)

var ErrSessionNotFound = errors.New("capture session not found")

// Session is one recorded connection.
type Session struct {
	ID        int64
	Device    string
	StartedAt time.Time
	EndedAt   *time.Time // nil while the session is still open
}

// Frame is one recorded protocol frame.
type Frame struct {
	ID         int64
	SessionID  int64
	Direction  string
	Kind       string
	Payload    string
	Compressed bool
	WireSize   int
	ReceivedAt time.Time
}

// BeginSession opens a new capture session for a device and returns
// its id.
func (s *Store) BeginSession(ctx context.Context, device string) (int64, error) {
	res, err := s.ExecContext(ctx, `INSERT INTO sessions (device) VALUES (?)`, device)
	if err != nil {
		return 0, fmt.Errorf("failed to begin capture session: %w", err)
	}
	return res.LastInsertId()
}

// EndSession stamps the session's end time.
func (s *Store) EndSession(ctx context.Context, sessionID int64) error {
	res, err := s.ExecContext(ctx, `
		UPDATE sessions SET ended_at = datetime('now') WHERE id = ?
	`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to end capture session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Record stores one frame under a session.
func (s *Store) Record(ctx context.Context, sessionID int64, direction string, pkt *protocol.Packet, wireSize int) error {
	payload, err := pkt.Marshal()
	if err != nil {
		return err
	}

	compressed := 0
	if pkt.Compressed {
		compressed = 1
	}

	_, err = s.ExecContext(ctx, `
		INSERT INTO frames (session_id, direction, kind, payload, compressed, wire_size)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sessionID, direction, pkt.Kind().String(), string(payload), compressed, wireSize)
	if err != nil {
		return fmt.Errorf("failed to record frame: %w", err)
	}
	return nil
}

// CountFrames returns how many frames a session holds.
func (s *Store) CountFrames(ctx context.Context, sessionID int64) (int, error) {
	var count int
	err := s.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM frames WHERE session_id = ?
	`, sessionID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Sessions lists all sessions, newest first.
func (s *Store) Sessions(ctx context.Context) ([]*Session, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, device, started_at, ended_at
		FROM sessions ORDER BY id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var startedAt string
		var endedAt sql.NullString
		if err := rows.Scan(&sess.ID, &sess.Device, &startedAt, &endedAt); err != nil {
			return nil, err
		}
		sess.StartedAt, _ = time.Parse(time.DateTime, startedAt)
		if endedAt.Valid {
			t, _ := time.Parse(time.DateTime, endedAt.String)
			sess.EndedAt = &t
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Frames returns a session's frames in arrival order.
func (s *Store) Frames(ctx context.Context, sessionID int64) ([]*Frame, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, session_id, direction, kind, payload, compressed, wire_size, received_at
		FROM frames WHERE session_id = ? ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var frames []*Frame
	for rows.Next() {
		f := &Frame{}
		var receivedAt string
		if err := rows.Scan(&f.ID, &f.SessionID, &f.Direction, &f.Kind, &f.Payload, &f.Compressed, &f.WireSize, &receivedAt); err != nil {
			return nil, err
		}
		f.ReceivedAt, _ = time.Parse(time.DateTime, receivedAt)
		frames = append(frames, f)
	}
	return frames, rows.Err()
}
