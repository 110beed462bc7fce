package state

import "time"

// TimeSyncState is the client-minus-server clock delta. Synced stays
// false until the first successful measurement.
type TimeSyncState struct {
	Synced bool
	Offset time.Duration
}

// SyncTime measures the server clock; the result is the client-minus-
// server offset.
var SyncTime = NewAsync[struct{}, time.Duration]("timesync/sync")

var timeSyncReducer = func() *Reducer[TimeSyncState] {
	b := NewBuilder(TimeSyncState{})

	HandleAsync(b, SyncTime.SuccessType(), func(s TimeSyncState, p AsyncPayload[struct{}, time.Duration]) TimeSyncState {
		return TimeSyncState{Synced: true, Offset: *p.Result}
	})

	return b.MustBuild()
}()
