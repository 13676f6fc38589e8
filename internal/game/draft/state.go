package draft

// State 会话状态
type State int

const (
	StateLobby State = iota
	StateDrafting
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateLobby:
		return "lobby"
	case StateDrafting:
		return "drafting"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}
