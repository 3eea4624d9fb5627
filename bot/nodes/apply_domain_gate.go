package turnnode

import (
	"fmt"

	contractx "bankbot/bot/contract"
	gatex "bankbot/bot/nlu/gate"
)

// ApplyDomainGate filters out-of-domain turns before the dialogue runs. A
// running flow is never gated: slot answers like "5000" carry no banking
// vocabulary of their own.
func ApplyDomainGate(in *GraphState) (*GraphState, error) {
	if in == nil || in.State == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if in.State.InFlow {
		return in, nil
	}
	if gatex.InDomain(in.Text, in.Entities) {
		return in, nil
	}

	in.State.Reset()
	in.Reply = contractx.DeferReply()
	in.Deferred = true
	return in, nil
}
