package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/edvin/opsdash/internal/core"
)

const liveWriteTimeout = 10 * time.Second

type Live struct {
	svc            *core.SnapshotService
	interval       time.Duration
	originPatterns []string
}

// NewLive creates the live feed handler. originPatterns are the host
// patterns accepted in the Origin header of the upgrade request.
func NewLive(svc *core.SnapshotService, interval time.Duration, originPatterns []string) *Live {
	return &Live{svc: svc, interval: interval, originPatterns: originPatterns}
}

// Stream upgrades to a websocket and pushes a snapshot immediately and
// then on every tick. Each tick polls in its own goroutine; a slow poll
// does not delay the next one.
func (h *Live) Stream(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.originPatterns})
	if err != nil {
		logger.Warn().Err(err).Msg("live feed upgrade failed")
		return
	}
	defer ws.CloseNow()

	// Client messages are ignored; the context ends when the peer goes away.
	ctx, cancel := context.WithCancel(ws.CloseRead(r.Context()))
	defer cancel()

	var mu sync.Mutex
	push := func() {
		snap := h.svc.Poll(ctx)

		mu.Lock()
		defer mu.Unlock()
		wctx, wcancel := context.WithTimeout(ctx, liveWriteTimeout)
		defer wcancel()
		if err := wsjson.Write(wctx, ws, snap); err != nil {
			if ctx.Err() == nil {
				logger.Debug().Err(err).Msg("live feed write failed")
			}
			cancel()
		}
	}

	push()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			ws.Close(websocket.StatusNormalClosure, "")
			return
		case <-ticker.C:
			go push()
		}
	}
}
