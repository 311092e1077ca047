package postgres

import (
	"context"
	"fmt"

	"github.com/noah-isme/sched-engine/internal/domain"
)

const listActiveRoomsQuery = `SELECT id, number, building, floor, capacity, room_type, allow_sharing, max_concurrent_classes, available FROM rooms WHERE available = true ORDER BY building ASC, number ASC`

// ListActiveRooms returns every available room for roster assembly.
func (s *Store) ListActiveRooms(ctx context.Context) ([]domain.Room, error) {
	var rows []roomRow
	if err := s.db.SelectContext(ctx, &rows, listActiveRoomsQuery); err != nil {
		return nil, fmt.Errorf("list active rooms: %w", err)
	}
	rooms := make([]domain.Room, 0, len(rows))
	for _, row := range rows {
		rooms = append(rooms, row.toDomain())
	}
	return rooms, nil
}
