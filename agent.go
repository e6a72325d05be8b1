package rsmarisa

import "github.com/tokuhirom/rsmarisa/internal/trie"

type agentMode uint8

const (
	agentIdle agentMode = iota
	agentCommonPrefix
	agentPredictive
)

// Agent carries a query and the state of an in-progress search, so
// repeated calls to CommonPrefixSearch or PredictiveSearch yield one
// match per call without allocating. SetQuery resets the state for a
// new search; switching between search kinds does too.
//
// An Agent is not safe for concurrent use.
type Agent struct {
	query []byte
	id    uint32
	key   []byte

	mode agentMode
	cps  trie.State
	ps   trie.PredictiveState
}

// NewAgent creates an agent with no query.
func NewAgent() *Agent {
	return &Agent{}
}

// SetQuery sets the query and resets any in-progress search. The bytes
// are copied.
func (a *Agent) SetQuery(q []byte) {
	a.query = append(a.query[:0], q...)
	a.reset()
}

// SetQueryString sets a string query and resets any in-progress search.
func (a *Agent) SetQueryString(q string) {
	a.query = append(a.query[:0], q...)
	a.reset()
}

func (a *Agent) reset() {
	a.mode = agentIdle
	a.cps.Reset()
	a.ps.Reset()
	a.id = 0
	a.key = nil
}

// Query returns the current query bytes.
func (a *Agent) Query() []byte { return a.query }

// ID returns the id of the last match.
func (a *Agent) ID() uint32 { return a.id }

// Key returns the key of the last match. The slice is valid until the
// next search call or SetQuery on this agent.
func (a *Agent) Key() []byte { return a.key }

// KeyString returns the key of the last match as a string.
func (a *Agent) KeyString() string { return string(a.key) }

// CommonPrefixSearch advances a to the next stored key that is a prefix
// of its query, shortest first. It returns false when no matches
// remain. Use it in a loop:
//
//	agent := rsmarisa.NewAgent()
//	agent.SetQueryString("application")
//	for t.CommonPrefixSearch(agent) {
//	    fmt.Println(agent.ID(), agent.KeyString())
//	}
func (t *Trie) CommonPrefixSearch(a *Agent) bool {
	core, err := t.engine()
	if err != nil {
		return false
	}
	if a.mode != agentCommonPrefix {
		a.reset()
		a.mode = agentCommonPrefix
	}
	id, n, ok := core.CommonPrefixNext(&a.cps, a.query)
	if !ok {
		return false
	}
	a.id = id
	a.key = a.query[:n]
	return true
}

// PredictiveSearch advances a to the next stored key that has its query
// as a prefix, in id order. It returns false when no matches remain.
func (t *Trie) PredictiveSearch(a *Agent) bool {
	core, err := t.engine()
	if err != nil {
		return false
	}
	if a.mode != agentPredictive {
		a.reset()
		a.mode = agentPredictive
	}
	id, key, ok := core.PredictiveNext(&a.ps, a.query)
	if !ok {
		return false
	}
	a.id = id
	a.key = key
	return true
}
