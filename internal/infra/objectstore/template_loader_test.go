package objectstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeBank(t *testing.T) {
	bank, err := decodeBank(strings.NewReader(`{"NZ":[{"id":1,"question":"Capital?","options":["Auckland","Wellington"],"correctAnswer":"Wellington"}]}`))
	require.NoError(t, err)
	require.Len(t, bank["NZ"], 1)
	require.Equal(t, []string{"Auckland", "Wellington"}, bank["NZ"][0].Options)

	_, err = decodeBank(strings.NewReader(`[1, 2]`))
	require.Error(t, err)
}

func TestNewTemplateLoaderRejectsBadEndpoint(t *testing.T) {
	_, err := NewTemplateLoader(Options{Endpoint: "http://localhost:9000/path", Bucket: "geowhiz", Object: "questions.json"})
	require.Error(t, err)

	loader, err := NewTemplateLoader(Options{Endpoint: "localhost:9000", Bucket: "geowhiz", Object: "questions.json"})
	require.NoError(t, err)
	require.Equal(t, "questions.json", loader.object)
}
