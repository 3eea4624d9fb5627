package turnnode

import (
	"fmt"

	contractx "bankbot/bot/contract"
)

func ExtractEntities(in *GraphState, extractor contractx.EntityExtractor) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Entities = extractor.Extract(in.Text)
	return in, nil
}
