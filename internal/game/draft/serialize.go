package draft

import (
	"slices"
	"time"

	"github.com/palemoky/booster-draft/internal/server/storage"
)

// toSessionData 生成可序列化的快照，调用方持有锁
func (s *Session) toSessionData() *storage.SessionData {
	data := &storage.SessionData{
		ID:        s.ID,
		State:     s.state.String(),
		Round:     s.round,
		Pick:      s.pick,
		Seats:     make([]storage.SeatData, 0, len(s.seats)),
		CreatedAt: s.CreatedAt.Unix(),
		UpdatedAt: time.Now().Unix(),
	}

	for _, seat := range s.seats {
		sd := storage.SeatData{
			Name:      seat.Name(),
			Bot:       seat.IsBot(),
			Connected: seat.Connected(),
			Ready:     seat.Ready(),
			Owner:     seat.IsOwner(),
		}
		for _, c := range seat.Picks {
			sd.Picks = append(sd.Picks, c.Name)
		}
		data.Seats = append(data.Seats, sd)
	}

	for name := range s.kicked {
		data.Kicked = append(data.Kicked, name)
	}
	slices.Sort(data.Kicked)

	return data
}
