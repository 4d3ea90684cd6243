package eventbus

// Termination is the single-producer (UI), single-consumer (supervisor)
// channel of booleans described in spec §3/§4.E: true means "exit", false
// means "restart" (see the orchestrator's restart protocol).
type Termination chan bool

// NewTermination creates a termination channel with room for one pending
// signal so the UI's send never blocks even if the supervisor hasn't
// reached its receive loop yet.
func NewTermination() Termination {
	return make(Termination, 1)
}
