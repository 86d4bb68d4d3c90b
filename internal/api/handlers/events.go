package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
	"treatment-site-service/internal/api/dto"
	"treatment-site-service/internal/services"

	"github.com/tmaxmax/go-sse"
)

// CountdownStream pushes every tick's countdowns to connected clients as
// server-sent events.
type CountdownStream struct {
	server *sse.Server
}

func NewCountdownStream() *CountdownStream {
	return &CountdownStream{server: sse.NewServer()}
}

func (s *CountdownStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The stream outlives the server's write timeout.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		log.Printf("events: clear write deadline: %v", err)
	}
	s.server.ServeHTTP(w, r)
}

// Publish is the countdown board's update callback.
func (s *CountdownStream) Publish(views []services.SiteView, at time.Time) {
	body, err := json.Marshal(countdownEvent(views, at))
	if err != nil {
		log.Printf("events: encode countdown: %v", err)
		return
	}

	e := &sse.Message{}
	e.AppendData(body)
	s.server.Publish(e)
}

func countdownEvent(views []services.SiteView, at time.Time) dto.CountdownEvent {
	ev := dto.CountdownEvent{At: at, Sites: make([]dto.CountdownItem, 0, len(views))}
	for _, v := range views {
		item := dto.CountdownItem{
			ID:        v.Site.ID,
			Tier:      string(v.Status.Tier),
			Countdown: v.Status.Countdown,
		}
		if v.Status.Remaining.Set {
			rem := v.Status.Remaining.Seconds
			item.RemainingSeconds = &rem
		}
		ev.Sites = append(ev.Sites, item)
	}
	return ev
}
