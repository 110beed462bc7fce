package saga

import (
	"uhc/internal/api"
	"uhc/internal/state"
)

func notifySuccess(c *Context, message string) {
	c.Dispatch(state.PushToast.New(state.NewToast(state.ToastSuccess, message)))
}

// notifyError surfaces the server message verbatim for bad-data
// rejections and a generic message for everything else.
func notifyError(c *Context, err error) {
	c.Dispatch(state.PushToast.New(state.NewToast(state.ToastError, api.UserMessage(err))))
}
