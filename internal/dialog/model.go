package dialog

type State string

const (
	StateIdle State = "idle"

	// Предложка
	StateAwaitSuggestion State = "await_suggestion"

	// Админские вводы
	StateAwaitBroadcast State = "await_broadcast"
	StateAwaitBlock     State = "await_block"
	StateAwaitUnblock   State = "await_unblock"
	StateAwaitAdd       State = "await_add"
	StateAwaitRemove    State = "await_remove"
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}
