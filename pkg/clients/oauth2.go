package clients

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/oauth2/google"
)

// TokenAuth authenticates requests with tokens from an oauth2.TokenSource.
// Header defaults to Authorization and Scheme to the token type ("Bearer").
type TokenAuth struct {
	Source oauth2.TokenSource
	Header string
	Scheme string
}

// Authenticate implements Authenticator
func (t *TokenAuth) Authenticate(_ context.Context, req *http.Request) error {
	tok, err := t.Source.Token()
	if err != nil {
		return fmt.Errorf("fetch oauth2 token: %w", err)
	}
	header := t.Header
	if header == "" {
		header = "Authorization"
	}
	scheme := t.Scheme
	if scheme == "" && header == "Authorization" {
		scheme = tok.Type()
	}
	if scheme != "" {
		req.Header.Set(header, scheme+" "+tok.AccessToken)
	} else {
		req.Header.Set(header, tok.AccessToken)
	}
	return nil
}

// WithHTTPClient makes oauth2 token exchanges use hc.
func WithHTTPClient(ctx context.Context, hc *http.Client) context.Context {
	if hc == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, hc)
}

// ClientCredentials returns a token source for the OAuth2 client credentials grant
// (Azure AD for Dynamics 365 and Microsoft Graph).
func ClientCredentials(ctx context.Context, tokenURL, clientID, clientSecret string, scopes ...string) oauth2.TokenSource {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       scopes,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	return cfg.TokenSource(ctx)
}

// AzureADTokenURL returns the v2 token endpoint of an Azure AD tenant.
func AzureADTokenURL(authority, tenantID string) string {
	if authority == "" {
		authority = "https://login.microsoftonline.com"
	}
	return fmt.Sprintf("%s/%s/oauth2/v2.0/token", authority, tenantID)
}

// PasswordGrant exchanges a username and password for a refreshable token source.
func PasswordGrant(ctx context.Context, tokenURL, clientID, clientSecret, username, password string, scopes ...string) (oauth2.TokenSource, error) {
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	tok, err := cfg.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("password grant: %w", err)
	}
	return cfg.TokenSource(ctx, tok), nil
}

// GoogleServiceAccount builds a token source from a service account JSON key,
// or from application default credentials when key is empty.
func GoogleServiceAccount(ctx context.Context, key []byte, scopes ...string) (oauth2.TokenSource, error) {
	if len(key) == 0 {
		creds, err := google.FindDefaultCredentials(ctx, scopes...)
		if err != nil {
			return nil, fmt.Errorf("find default google credentials: %w", err)
		}
		return creds.TokenSource, nil
	}
	creds, err := google.CredentialsFromJSON(ctx, key, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}
	return creds.TokenSource, nil
}

// StaticToken wraps a fixed access token as a token source.
func StaticToken(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
}
