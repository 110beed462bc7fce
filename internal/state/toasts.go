package state

import "sync/atomic"

// ToastKind classifies a transient notification.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
)

// Toast is one transient notification.
type Toast struct {
	ID      int64
	Kind    ToastKind
	Message string
}

// ToastsState is the queue of visible notifications.
type ToastsState struct {
	Queue []Toast
}

var toastSeq atomic.Int64

// NewToast allocates a toast with a unique ID.
func NewToast(kind ToastKind, message string) Toast {
	return Toast{ID: toastSeq.Add(1), Kind: kind, Message: message}
}

// Toast actions.
var (
	PushToast   = NewEvent[Toast]("toasts/push")
	ExpireToast = NewEvent[int64]("toasts/expire")
)

var toastsReducer = func() *Reducer[ToastsState] {
	b := NewBuilder(ToastsState{})

	HandleEvent(b, PushToast, func(s ToastsState, t Toast) ToastsState {
		s.Queue = append(append([]Toast{}, s.Queue...), t)
		return s
	})
	HandleEvent(b, ExpireToast, func(s ToastsState, id int64) ToastsState {
		out := make([]Toast, 0, len(s.Queue))
		for _, t := range s.Queue {
			if t.ID != id {
				out = append(out, t)
			}
		}
		s.Queue = out
		return s
	})

	return b.MustBuild()
}()
