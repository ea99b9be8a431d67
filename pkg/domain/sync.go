package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// SyncAction identifies the kind of mutation a queue item replays.
type SyncAction string

const (
	SyncActionCreate SyncAction = "create"
	SyncActionUpdate SyncAction = "update"
	SyncActionDelete SyncAction = "delete"
)

// Valid reports whether the action is one of the known mutation kinds.
func (a SyncAction) Valid() bool {
	switch a {
	case SyncActionCreate, SyncActionUpdate, SyncActionDelete:
		return true
	}
	return false
}

// SyncQueueItem is one pending local mutation awaiting acknowledgement by the
// remote API. Items are assigned a monotonically increasing ID by the store;
// queue order is ID order and must be preserved on replay, since later
// mutations to the same entity may depend on earlier ones.
//
// Data is opaque to this layer: the store moves the bytes, the remote-sync
// consumer interprets them.
type SyncQueueItem struct {
	ID        uint            `json:"id"`
	Action    SyncAction      `json:"action"`
	Table     string          `json:"table"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

func (i SyncQueueItem) String() string {
	return fmt.Sprintf("sync#%d %s %s", i.ID, i.Action, i.Table)
}
