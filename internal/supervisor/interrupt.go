package supervisor

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/hirosystems/stacks-devnet/internal/eventbus"
)

// installInterruptHandler implements spec §4.E.6: SIGINT/SIGTERM send
// `true` on the termination channel, driving the same teardown path a
// fatal error would. The underlying os/signal channel is intentionally
// never stopped — it outlives the run, the process exits shortly after
// teardown completes.
func installInterruptHandler(termination eventbus.Termination) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		termination <- true
	}()
}
