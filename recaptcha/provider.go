package recaptcha

import "context"

// StaticProvider returns a fixed token. It stands in for a real
// browser-side integration in the demo program and in tests.
type StaticProvider struct {
	TokenValue string
	InitErr    error
	TokenErr   error
}

func (p *StaticProvider) Init(ctx context.Context, siteKey string) error {
	return p.InitErr
}

func (p *StaticProvider) Token(ctx context.Context) (string, error) {
	if p.TokenErr != nil {
		return "", p.TokenErr
	}
	return p.TokenValue, nil
}
