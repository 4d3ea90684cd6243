package clarity

import "fmt"

// StaticLoader is a test double only: it returns a fixed Session
// regardless of the path requested, unless NotFoundFor is set to
// simulate a missing deployment plan.
type StaticLoader struct {
	Session     *Session
	NotFoundFor string
}

// NewStaticLoader builds a fake loader that always returns session.
func NewStaticLoader(session *Session) *StaticLoader {
	return &StaticLoader{Session: session}
}

func (l *StaticLoader) Load(deploymentPlanPath string) (*Session, error) {
	if l.NotFoundFor != "" && deploymentPlanPath == l.NotFoundFor {
		return nil, fmt.Errorf("load deployment plan %s: not found", deploymentPlanPath)
	}
	return l.Session, nil
}

var _ Loader = (*StaticLoader)(nil)
