package plugin

import "net/url"

// VersionedSiteURL joins version onto siteURL as a relative path reference
// (RFC 3986 resolution): "https://example.com/docs/" + "2.0" gives
// "https://example.com/docs/2.0", while a base without a trailing slash has
// its last segment replaced.
func VersionedSiteURL(siteURL, version string) (string, error) {
	base, err := url.Parse(siteURL)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(&url.URL{Path: version}).String(), nil
}
