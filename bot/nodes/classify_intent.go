package turnnode

import (
	"context"
	"fmt"

	contractx "bankbot/bot/contract"
)

// ClassifyIntent asks the model server for the turn's intent and keeps the
// top prediction. A classifier outage aborts the turn.
func ClassifyIntent(ctx context.Context, in *GraphState, classifier contractx.IntentClassifier, topK int) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	predictions, err := classifier.Predict(ctx, in.Text, topK)
	if err != nil {
		return nil, err
	}
	if len(predictions) == 0 {
		return nil, fmt.Errorf("%w: classifier returned nothing", contractx.ErrNoPrediction)
	}

	in.Prediction = predictions[0]
	return in, nil
}
