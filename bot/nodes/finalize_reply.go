package turnnode

import (
	"fmt"
	"strings"

	contractx "bankbot/bot/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	switch in.Reply.Kind {
	case contractx.ReplyDefer:
	case contractx.ReplyMessage, contractx.ReplyError:
		if strings.TrimSpace(in.Reply.Text) == "" {
			return GraphOutput{}, fmt.Errorf("%w: dialogue returned an empty reply", contractx.ErrValidation)
		}
	default:
		return GraphOutput{}, fmt.Errorf("%w: turn produced no reply", contractx.ErrValidation)
	}

	return GraphOutput{Reply: in.Reply}, nil
}
