package metadata

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/musee-dezental/frame-core/internal/config"
	"github.com/musee-dezental/frame-core/internal/helper"
)

var (
	ErrNoMetadata = errors.New("no metadata available")
)

// Service resolves an exhibit's token URI to its off-chain JSON metadata.
// The content itself is never persisted here; the caller consumes it.
type Service interface {
	FetchMetadata(tokenUri string) (map[string]interface{}, error)
}

type service struct {
	client *retryablehttp.Client
}

func NewMetadataService(client *retryablehttp.Client) Service {
	return service{client}
}

func (s service) FetchMetadata(tokenUri string) (map[string]interface{}, error) {
	if tokenUri == "" {
		return nil, ErrNoMetadata
	}

	uri := tokenUri
	if helper.IsIpfs(uri) {
		hosts := config.Get().IpfsHosts
		var lastErr error
		for _, host := range hosts {
			md, err := s.fetch(helper.ToGatewayUrl(uri, host))
			if err == nil {
				return md, nil
			}
			lastErr = err
		}
		return nil, lastErr
	}

	if !helper.IsUrl(uri) {
		return nil, ErrNoMetadata
	}

	return s.fetch(uri)
}

func (s service) fetch(uri string) (map[string]interface{}, error) {
	resp, err := s.client.Get(uri)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, errors.New(resp.Status)
	}

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}

	var md map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &md); err != nil {
		return nil, err
	}

	return md, nil
}
