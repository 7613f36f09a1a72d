package helper

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var cidRe = regexp.MustCompile("(Qm[1-9A-HJ-NP-Za-km-z]{44}.*$)")

func IsUrl(uri string) bool {
	u, err := url.Parse(uri)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func IsIpfs(uri string) bool {
	if len(cidRe.FindStringSubmatch(uri)) == 2 {
		return true
	}

	if !IsUrl(uri) {
		return false
	}

	u, _ := url.Parse(uri)
	return u.Scheme == "ipfs"
}

// ToGatewayUrl rewrites an ipfs:// uri (or a bare CID path) onto an HTTP
// gateway so it can be fetched.
func ToGatewayUrl(uri, gateway string) string {
	if strings.HasPrefix(uri, "ipfs://") {
		return fmt.Sprintf("%s/ipfs/%s", strings.TrimRight(gateway, "/"), strings.TrimPrefix(uri, "ipfs://"))
	}

	parts := cidRe.FindStringSubmatch(uri)
	if len(parts) == 2 {
		return fmt.Sprintf("%s/ipfs/%s", strings.TrimRight(gateway, "/"), parts[1])
	}

	return uri
}
