package llm

import "context"

type purposeKey struct{}

// WithPurpose tags ctx with what a request is for ("notes", "quiz",
// "remedial"). The logging decorator stores the tag with each event.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, _ := ctx.Value(purposeKey{}).(string); v != "" {
		return v
	}
	return "unknown"
}
