package hostwalk

import "github.com/miekg/dns"

// Outcome tags the result of a Lookup so callers can tell a confirmed empty
// answer apart from an answer nobody could provide.
type Outcome int

const (
	// OutcomeAnswer means the response carries at least one answer record.
	OutcomeAnswer Outcome = iota
	// OutcomeEmpty means a server answered authoritatively with no records
	// of the requested type.
	OutcomeEmpty
	// OutcomeExhausted means no server could provide an answer: every
	// candidate failed, or the one that answered reported SERVFAIL.
	OutcomeExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAnswer:
		return "answer"
	case OutcomeEmpty:
		return "empty"
	case OutcomeExhausted:
		return "exhausted"
	}
	return "unknown"
}

// outcomeOf reconstructs the Outcome of a response, including one served from
// cache. Exhaustion placeholders are stored with rcode SERVFAIL so the tag
// survives the round-trip.
func outcomeOf(msg *dns.Msg) Outcome {
	if len(msg.Answer) > 0 {
		return OutcomeAnswer
	}
	if msg.Rcode == dns.RcodeServerFailure {
		return OutcomeExhausted
	}
	return OutcomeEmpty
}
