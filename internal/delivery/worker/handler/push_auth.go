package handler

import (
	"fmt"
	"net/http"
	"strings"

	"storefront/config"
	"storefront/internal/errors"

	"google.golang.org/api/idtoken"
)

var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// newPushVerifier checks the OIDC token Pub/Sub attaches to authenticated push
// requests. The audience defaults to the URL that was called; set
// events.pushAudience when a proxy rewrites the host. When
// events.pushServiceAccount is set the token must belong to that account.
func newPushVerifier(cfg *config.EventsConfig) func(*http.Request) error {
	var audience, serviceAccount string
	if cfg != nil {
		audience, serviceAccount = cfg.PushAudience, cfg.PushServiceAccount
	}

	return func(req *http.Request) error {
		token, ok := strings.CutPrefix(req.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			return errors.New("missing bearer token")
		}

		aud := audience
		if aud == "" {
			scheme := "https"
			if req.TLS == nil {
				scheme = "http"
			}
			aud = fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)
		}

		payload, err := idtoken.Validate(req.Context(), token, aud)
		if err != nil {
			return errors.Wrap(err, "validate push token")
		}

		if !googleIssuers[payload.Issuer] {
			return errors.Errorf("unexpected issuer %s", payload.Issuer)
		}
		if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
			return errors.New("push token email is not verified")
		}
		if serviceAccount != "" {
			if email, _ := payload.Claims["email"].(string); email != serviceAccount {
				return errors.Errorf("push token belongs to %q", email)
			}
		}

		return nil
	}
}
