package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const cid = "QmPbxeGcXhYQQNgsC6a36dDyYUcHgMLnGKnF8pVFmGsvqi"

func TestIsUrl(t *testing.T) {
	assert.True(t, IsUrl("https://example.com/metadata/1"))
	assert.True(t, IsUrl("ipfs://"+cid))
	assert.False(t, IsUrl("not a url"))
	assert.False(t, IsUrl("/relative/path"))
}

func TestIsIpfs(t *testing.T) {
	assert.True(t, IsIpfs("ipfs://"+cid))
	assert.True(t, IsIpfs("https://gateway.ipfs.io/ipfs/"+cid))
	assert.True(t, IsIpfs(cid))
	assert.False(t, IsIpfs("https://example.com/metadata/1"))
	assert.False(t, IsIpfs("not a url"))
}

func TestToGatewayUrl(t *testing.T) {
	assert.Equal(t,
		"https://gateway.ipfs.io/ipfs/"+cid+"/1.json",
		ToGatewayUrl("ipfs://"+cid+"/1.json", "https://gateway.ipfs.io"),
	)

	// Trailing slash on the gateway is tolerated.
	assert.Equal(t,
		"https://gateway.ipfs.io/ipfs/"+cid,
		ToGatewayUrl("ipfs://"+cid, "https://gateway.ipfs.io/"),
	)

	// A bare CID path is rewritten too.
	assert.Equal(t,
		"https://gateway.ipfs.io/ipfs/"+cid,
		ToGatewayUrl(cid, "https://gateway.ipfs.io"),
	)

	// Plain http URIs pass through untouched.
	assert.Equal(t,
		"https://example.com/metadata/1",
		ToGatewayUrl("https://example.com/metadata/1", "https://gateway.ipfs.io"),
	)
}
