package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/mesh-intelligence/orgscout/pkg/memo"
	"github.com/mesh-intelligence/orgscout/pkg/nested"
)

// DefaultBaseURL is the public GitHub REST API root.
const DefaultBaseURL = "https://api.github.com"

// OrgClient reads one organization. The organization payload and the
// repository list are each fetched at most once per client; build a new
// client to see fresh data. An OrgClient is not safe for concurrent use.
type OrgClient struct {
	name    string
	baseURL string
	getter  JSONGetter
	logger  *slog.Logger

	org   memo.Value[nested.Map]
	repos memo.Value[[]nested.Value]
}

// Option configures an OrgClient.
type Option func(*OrgClient)

// WithBaseURL points the client at a different API root, such as a GitHub
// Enterprise server or a test server. A trailing slash is ignored.
func WithBaseURL(base string) Option {
	return func(c *OrgClient) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithLogger sets the logger for fetch diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *OrgClient) { c.logger = l }
}

// NewOrgClient creates a client for the organization named org.
func NewOrgClient(org string, getter JSONGetter, opts ...Option) (*OrgClient, error) {
	if strings.TrimSpace(org) == "" {
		return nil, ErrOrgNameEmpty
	}
	c := &OrgClient{
		name:    org,
		baseURL: DefaultBaseURL,
		getter:  getter,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name returns the organization name the client was built with.
func (c *OrgClient) Name() string { return c.name }

// OrgURL returns the API URL of the organization.
func (c *OrgClient) OrgURL() string {
	return c.baseURL + "/orgs/" + url.PathEscape(c.name)
}

// Org returns the organization payload.
func (c *OrgClient) Org(ctx context.Context) (nested.Map, error) {
	return c.org.Get(func() (nested.Map, error) {
		orgURL := c.OrgURL()
		c.logger.Debug("fetching organization", "org", c.name, "url", orgURL)
		v, err := c.getter.GetJSON(ctx, orgURL)
		if err != nil {
			return nil, fmt.Errorf("fetching organization %s: %w", c.name, err)
		}
		m, ok := v.AsMap()
		if !ok {
			return nil, fmt.Errorf("organization %s is a %v: %w", c.name, v.Kind(), ErrUnexpectedPayload)
		}
		return m, nil
	})
}

// PublicReposURL returns the organization's repos_url.
func (c *OrgClient) PublicReposURL(ctx context.Context) (string, error) {
	org, err := c.Org(ctx)
	if err != nil {
		return "", err
	}
	reposURL, err := nested.AccessString(org, "repos_url")
	if err != nil {
		return "", fmt.Errorf("organization %s repos_url: %w", c.name, err)
	}
	return reposURL, nil
}

// ReposPayload returns the raw repository list served at PublicReposURL.
func (c *OrgClient) ReposPayload(ctx context.Context) ([]nested.Value, error) {
	return c.repos.Get(func() ([]nested.Value, error) {
		reposURL, err := c.PublicReposURL(ctx)
		if err != nil {
			return nil, err
		}
		c.logger.Debug("fetching repositories", "org", c.name, "url", reposURL)
		v, err := c.getter.GetJSON(ctx, reposURL)
		if err != nil {
			return nil, fmt.Errorf("fetching repositories of %s: %w", c.name, err)
		}
		items, ok := v.AsList()
		if !ok {
			return nil, fmt.Errorf("repositories of %s are a %v: %w", c.name, v.Kind(), ErrUnexpectedPayload)
		}
		return items, nil
	})
}

// PublicRepos returns repository names in payload order. When license is not
// empty only repositories whose license key equals it are returned. Entries
// that are not objects or have no string name are skipped.
func (c *OrgClient) PublicRepos(ctx context.Context, license string) ([]string, error) {
	payload, err := c.ReposPayload(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(payload))
	for _, item := range payload {
		repo, ok := item.AsMap()
		if !ok {
			continue
		}
		name, err := nested.AccessString(repo, "name")
		if err != nil {
			continue
		}
		if license != "" && !HasLicense(repo, license) {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// HasLicense reports whether repo's license.key equals licenseKey. A missing
// or null license, or an empty licenseKey, reports false.
func HasLicense(repo nested.Map, licenseKey string) bool {
	if licenseKey == "" {
		return false
	}
	key, err := nested.AccessString(repo, "license", "key")
	if err != nil {
		return false
	}
	return key == licenseKey
}
