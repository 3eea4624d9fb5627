package contract

import "context"

type IntentClassifier interface {
	Predict(ctx context.Context, text string, topK int) ([]IntentPrediction, error)
}

type EntityExtractor interface {
	Extract(text string) []Entity
}

type BankGateway interface {
	// GetAccount resolves an account number; unknown numbers return
	// ErrAccountNotFound so callers can tell business misses from outages.
	GetAccount(ctx context.Context, number string) (*Account, error)
	ListAccounts(ctx context.Context) ([]AccountRef, error)
	// Transfer reports business outcomes through the marker-string
	// protocol (TransferSuccessMarker / TransferFailureMarker prefixes);
	// the error return is for transport problems only.
	Transfer(ctx context.Context, from, to string, amount int64, password string) (string, error)
}

type InteractionRecorder interface {
	Record(ctx context.Context, in Interaction) error
	RecordPrediction(ctx context.Context, p Prediction) error
}

type FallbackResponder interface {
	Generate(ctx context.Context, query string) (string, error)
}
