package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jbccc/znote/models"
)

// googleTokenInfoURL is Google's ID-token introspection endpoint. The
// verifier treats the provider as a black box: a token either resolves to a
// canonical identity or the sign-in fails.
const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// ErrInvalidIDToken is returned when the provider rejects the ID token or
// the token's audience does not match the configured OAuth client.
var ErrInvalidIDToken = errors.New("invalid id token")

type googleVerifier struct {
	client   *resty.Client
	clientID string
}

// NewGoogleVerifier constructs a [GoogleVerifier] validating tokens against
// Google's tokeninfo endpoint. clientID is the expected audience; when
// empty, the audience check is skipped (useful in development).
func NewGoogleVerifier(clientID string, timeout time.Duration) GoogleVerifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &googleVerifier{
		client:   resty.New().SetTimeout(timeout),
		clientID: clientID,
	}
}

type tokenInfo struct {
	Sub     string `json:"sub"`
	Aud     string `json:"aud"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (g *googleVerifier) Verify(ctx context.Context, idToken string) (models.Identity, error) {
	if idToken == "" {
		return models.Identity{}, ErrInvalidIDToken
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("id_token", idToken).
		Get(googleTokenInfoURL)
	if err != nil {
		return models.Identity{}, fmt.Errorf("token info request: %w", err)
	}
	if resp.IsError() {
		return models.Identity{}, ErrInvalidIDToken
	}

	var info tokenInfo
	if err = json.Unmarshal(resp.Body(), &info); err != nil {
		return models.Identity{}, fmt.Errorf("decode token info: %w", err)
	}

	if info.Sub == "" {
		return models.Identity{}, ErrInvalidIDToken
	}
	if g.clientID != "" && info.Aud != g.clientID {
		return models.Identity{}, ErrInvalidIDToken
	}

	return models.Identity{
		ProviderID: info.Sub,
		Email:      info.Email,
		Name:       info.Name,
		Image:      info.Picture,
	}, nil
}
