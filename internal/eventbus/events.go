// Package eventbus carries status, log, and chain-activity events from the
// orchestrator and observer to a UI consumer, plus the termination signal
// that travels the other way.
package eventbus

import "time"

// Event is the closed union of values that flow across the bus. Each
// concrete type below implements it via an unexported marker method so
// external packages cannot add new variants.
type Event interface {
	eventMarker()
}

// Level is a log severity.
type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// LogRecord is a single structured log line surfaced to the UI.
type LogRecord struct {
	Timestamp time.Time
	Level     Level
	Message   string
}

func (LogRecord) eventMarker() {}

// StatusColor is the traffic-light status of a service.
type StatusColor string

const (
	StatusRed    StatusColor = "red"
	StatusYellow StatusColor = "yellow"
	StatusGreen  StatusColor = "green"
)

// ServiceStatus reports the current lifecycle state of a single service.
// Order is small and stable per service so the UI can render services in
// a fixed order regardless of arrival order.
type ServiceStatus struct {
	Order   int
	Name    string
	Status  StatusColor
	Comment string
}

func (ServiceStatus) eventMarker() {}

// TxSummary describes one transaction within a block, in human-readable
// form produced by the observer via internal/txcodec.
type TxSummary struct {
	TxID        string
	Success     bool
	Result      string
	Description string
}

// BlockSummary reports a newly mined Stacks block and its transactions.
type BlockSummary struct {
	BlockHeight               uint64
	BlockHash                 string
	BurnBlockHeight           uint64
	BurnBlockHash             string
	FirstBurnchainBlockHeight uint64
	PoxCycleLength            uint64
	PoxCycleID                uint64
	Transactions              []TxSummary
}

func (BlockSummary) eventMarker() {}

// MempoolAdmission reports a transaction entering the node's mempool.
type MempoolAdmission struct {
	Description string
}

func (MempoolAdmission) eventMarker() {}

// FatalError signals that the orchestrator will tear the devnet down.
type FatalError struct {
	Message string
}

func (FatalError) eventMarker() {}
